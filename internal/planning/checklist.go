// Package planning derives the summary figures shown on the couple's planning
// screens from the current collection of each screen.
package planning

import (
	"math"

	"github.com/wedding-planner-api/internal/models"
)

// Progress summarizes checklist completion
type Progress struct {
	Completed  int `json:"completed"`
	Remaining  int `json:"remaining"`
	Total      int `json:"total"`
	Percentage int `json:"percentage"`
}

// ChecklistProgress counts completed items. Percentage is rounded to the
// nearest whole number and is 0 for an empty checklist.
func ChecklistProgress(items []models.ChecklistItem) Progress {
	p := Progress{Total: len(items)}
	for _, item := range items {
		if item.Completed {
			p.Completed++
		}
	}
	p.Remaining = p.Total - p.Completed
	if p.Total > 0 {
		p.Percentage = int(math.Round(float64(p.Completed) / float64(p.Total) * 100))
	}
	return p
}

// CategoryGroup is the slice of the checklist belonging to one category
type CategoryGroup struct {
	Category  string                 `json:"category"`
	Items     []models.ChecklistItem `json:"items"`
	Completed int                    `json:"completed"`
	Total     int                    `json:"total"`
}

// GroupByCategory groups items by category in first-seen order, keeping item
// order within each group
func GroupByCategory(items []models.ChecklistItem) []CategoryGroup {
	index := make(map[string]int)
	var groups []CategoryGroup
	for _, item := range items {
		i, ok := index[item.Category]
		if !ok {
			i = len(groups)
			index[item.Category] = i
			groups = append(groups, CategoryGroup{Category: item.Category})
		}
		g := &groups[i]
		g.Items = append(g.Items, item)
		g.Total++
		if item.Completed {
			g.Completed++
		}
	}
	return groups
}

// Categories lists the distinct categories in first-seen order
func Categories(items []models.ChecklistItem) []string {
	seen := make(map[string]bool)
	var out []string
	for _, item := range items {
		if !seen[item.Category] {
			seen[item.Category] = true
			out = append(out, item.Category)
		}
	}
	return out
}

// ResetChecklist returns the default items with every completion cleared
func ResetChecklist(defaults []models.ChecklistItem) []models.ChecklistItem {
	out := make([]models.ChecklistItem, len(defaults))
	for i, item := range defaults {
		item.Completed = false
		out[i] = item
	}
	return out
}
