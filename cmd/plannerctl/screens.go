package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wedding-planner-api/internal/collection"
	"github.com/wedding-planner-api/internal/models"
	"github.com/wedding-planner-api/internal/planning"
	"github.com/wedding-planner-api/internal/service"
)

func listCmd(a *app) *cobra.Command {
	var (
		search string
		facets []string
		format string
	)
	cmd := &cobra.Command{
		Use:       "list <kind>",
		Short:     "Print the visible records of a screen",
		Args:      cobra.ExactArgs(1),
		ValidArgs: kindNames(),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, ok := service.ContentType(format); !ok && format != formatTable {
				return fmt.Errorf("unsupported format: %s", format)
			}

			scr, err := a.mount(service.Kind(args[0]))
			if err != nil {
				return err
			}

			cr := collection.Criteria{Search: search}
			for _, f := range facets {
				name, value, ok := strings.Cut(f, "=")
				if !ok {
					return fmt.Errorf("facet %q must be name=value", f)
				}
				cr = cr.WithFacet(name, value)
			}
			if _, err := scr.Query(cr); err != nil {
				return err
			}

			return a.render(cmd.Context(), cmd.OutOrStdout(), scr.Table(), format)
		},
	}
	cmd.Flags().StringVarP(&search, "search", "s", "", "case-insensitive search text")
	cmd.Flags().StringArrayVarP(&facets, "facet", "f", nil, "facet filter as name=value, repeatable")
	cmd.Flags().StringVarP(&format, "output", "o", formatTable, "table, csv, json, ndjson or xlsx")
	return cmd
}

func budgetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "budget",
		Short: "Print budget totals and per-category spending",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			scr, err := a.mount(service.KindBudget)
			if err != nil {
				return err
			}
			summary := scr.Page().Summary.(planning.BudgetSummary)

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Total budget: %s\n", summary.TotalAllocated.StringFixed(2))
			fmt.Fprintf(out, "Spent:        %s\n", summary.TotalSpent.StringFixed(2))
			fmt.Fprintf(out, "Remaining:    %s\n\n", summary.Remaining.StringFixed(2))

			table := service.Table{Header: []string{"category", "allocated", "spent", "used", "status"}}
			for _, line := range summary.Lines {
				table.Rows = append(table.Rows, []string{
					line.Item.Category,
					line.Allocated.StringFixed(2),
					line.Spent.StringFixed(2),
					fmt.Sprintf("%.1f%%", line.Percentage),
					line.Band,
				})
			}
			return a.render(cmd.Context(), out, table, formatTable)
		},
	}
}

func checklistCmd(a *app) *cobra.Command {
	var category string
	cmd := &cobra.Command{
		Use:   "checklist",
		Short: "Print checklist progress grouped by category",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			scr, err := a.mount(service.KindChecklist)
			if err != nil {
				return err
			}
			if category != "" {
				if _, err := scr.SetFacet("category", category); err != nil {
					return err
				}
			}
			summary := scr.Page().Summary.(service.ChecklistSummary)

			out := cmd.OutOrStdout()
			p := summary.Progress
			fmt.Fprintf(out, "%d of %d tasks completed (%d%%), %d remaining\n", p.Completed, p.Total, p.Percentage, p.Remaining)

			for _, group := range summary.Groups {
				fmt.Fprintf(out, "\n%s (%d/%d)\n", group.Category, group.Completed, group.Total)
				for _, item := range group.Items {
					mark := " "
					if item.Completed {
						mark = "x"
					}
					fmt.Fprintf(out, "  [%s] %s\n", mark, item.Title)
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&category, "category", "c", "", "only this category")
	return cmd
}

func timelineCmd(a *app) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "timeline",
		Short: "Print the wedding day schedule in order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			scr, err := a.mount(service.KindTimeline)
			if err != nil {
				return err
			}
			return a.render(cmd.Context(), cmd.OutOrStdout(), scr.Table(), format)
		},
	}
	cmd.Flags().StringVarP(&format, "output", "o", formatTable, "table, csv, json, ndjson or xlsx")
	return cmd
}

func guestsCmd(a *app) *cobra.Command {
	var rsvp, side string
	cmd := &cobra.Command{
		Use:   "guests",
		Short: "Print RSVP counts and the guest list",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			scr, err := a.mount(service.KindGuests)
			if err != nil {
				return err
			}

			cr := collection.Criteria{}
			if rsvp != "" {
				cr = cr.WithFacet("rsvp", rsvp)
			}
			if side != "" {
				cr = cr.WithFacet("side", side)
			}
			page, err := scr.Query(cr)
			if err != nil {
				return err
			}
			stats := page.Summary.(planning.RSVPStats)

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Confirmed: %d  Pending: %d  Declined: %d\n\n", stats.Confirmed, stats.Pending, stats.Declined)

			table := service.Table{Header: []string{"name", "email", "side", "rsvp"}}
			for _, g := range page.Records.([]models.Guest) {
				table.Rows = append(table.Rows, []string{g.Name, g.Email, string(g.Side), string(g.RSVP)})
			}
			return a.render(cmd.Context(), out, table, formatTable)
		},
	}
	cmd.Flags().StringVar(&rsvp, "rsvp", "", "only guests with this RSVP: Pending, Confirmed or Declined")
	cmd.Flags().StringVar(&side, "side", "", "only this side: Bride or Groom")
	return cmd
}
