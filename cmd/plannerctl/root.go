package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/wedding-planner-api/internal/auth"
	"github.com/wedding-planner-api/internal/config"
	"github.com/wedding-planner-api/internal/repository"
	"github.com/wedding-planner-api/internal/seed"
	"github.com/wedding-planner-api/internal/service"
	"github.com/wedding-planner-api/pkg/logger"
)

const formatTable = "table"

// app is the state shared by every command
type app struct {
	seedPath string
	logLevel string

	cfg      *config.Config
	log      zerolog.Logger
	services *service.Services
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "plannerctl",
		Short:         "Wedding planner screens from the command line",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd.ErrOrStderr())
		},
	}

	root.PersistentFlags().StringVar(&a.seedPath, "seed", os.Getenv("SEED_FILE"), "seed YAML file (default: embedded fixtures)")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "warn", "log level: debug, info, warn, error")

	root.AddCommand(
		listCmd(a),
		budgetCmd(a),
		checklistCmd(a),
		timelineCmd(a),
		guestsCmd(a),
		migrateCmd(a),
	)
	return root
}

// setup loads configuration and builds the services. Logs go to stderr so
// stdout stays machine readable.
func (a *app) setup(stderr io.Writer) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.log = logger.NewWithWriter(stderr, a.logLevel, false)

	data, err := seed.Load(a.seedPath)
	if err != nil {
		return err
	}

	provider := auth.NewAccountProvider(repository.NewInMemory().Account, auth.ProviderOptions{}, a.log)
	a.services = service.NewServices(service.Dependencies{Seed: data, Provider: provider}, cfg, a.log)
	return nil
}

func (a *app) mount(kind service.Kind) (service.Screen, error) {
	return a.services.Screens.Mount(kind)
}

// render writes a screen table as an aligned text table or in an export
// format
func (a *app) render(ctx context.Context, w io.Writer, table service.Table, format string) error {
	if format != formatTable {
		return a.services.Export.Write(ctx, w, table, format)
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	writeRow(tw, table.Header)
	for _, row := range table.Rows {
		writeRow(tw, row)
	}
	return tw.Flush()
}

func writeRow(w io.Writer, cells []string) {
	for i, cell := range cells {
		if i > 0 {
			fmt.Fprint(w, "\t")
		}
		fmt.Fprint(w, cell)
	}
	fmt.Fprintln(w)
}

func kindNames() []string {
	names := make([]string, len(service.Kinds))
	for i, k := range service.Kinds {
		names[i] = string(k)
	}
	return names
}
