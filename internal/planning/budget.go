package planning

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/wedding-planner-api/internal/models"
)

// Budget status bands, by spent percentage of the allocation
const (
	BandOnTrack = "on_track"
	BandWarning = "warning" // above 90%
	BandOver    = "over"    // above 100%
)

var (
	hundred = decimal.NewFromInt(100)

	// leadingNumber accepts the numeric prefix of an amount such as "500abc"
	leadingNumber = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)
)

// ParseAmount reads a user-typed amount. Surrounding whitespace is ignored,
// a numeric prefix is honoured, and anything without one is zero.
func ParseAmount(s string) decimal.Decimal {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero
	}
	if d, err := decimal.NewFromString(s); err == nil {
		return d
	}
	if prefix := leadingNumber.FindString(s); prefix != "" {
		if d, err := decimal.NewFromString(prefix); err == nil {
			return d
		}
	}
	return decimal.Zero
}

// BudgetLine is the derived view of one budget item
type BudgetLine struct {
	Item      models.BudgetItem `json:"item"`
	Allocated decimal.Decimal   `json:"allocated"`
	Spent     decimal.Decimal   `json:"spent"`
	// Percentage is spent/allocated*100, not clamped; shown as text
	Percentage float64 `json:"percentage"`
	// BarWidth is Percentage clamped to [0, 100] for the progress bar
	BarWidth float64 `json:"bar_width"`
	Band     string  `json:"band"`
}

// BudgetSummary totals the budget tracker
type BudgetSummary struct {
	TotalAllocated decimal.Decimal `json:"total_allocated"`
	TotalSpent     decimal.Decimal `json:"total_spent"`
	// Remaining is TotalAllocated - TotalSpent and may be negative
	Remaining decimal.Decimal `json:"remaining"`
	Lines     []BudgetLine    `json:"lines"`
}

// OverBudget reports whether spending exceeds the allocation
func (s BudgetSummary) OverBudget() bool {
	return s.Remaining.IsNegative()
}

// SummarizeBudget totals allocated and spent amounts and derives per-item
// percentages
func SummarizeBudget(items []models.BudgetItem) BudgetSummary {
	summary := BudgetSummary{
		TotalAllocated: decimal.Zero,
		TotalSpent:     decimal.Zero,
		Lines:          make([]BudgetLine, 0, len(items)),
	}

	for _, item := range items {
		line := NewBudgetLine(item)
		summary.TotalAllocated = summary.TotalAllocated.Add(line.Allocated)
		summary.TotalSpent = summary.TotalSpent.Add(line.Spent)
		summary.Lines = append(summary.Lines, line)
	}

	summary.Remaining = summary.TotalAllocated.Sub(summary.TotalSpent)
	return summary
}

// NewBudgetLine derives the percentage, bar width and band of one item. The
// percentage is 0 unless the allocation is positive.
func NewBudgetLine(item models.BudgetItem) BudgetLine {
	line := BudgetLine{
		Item:      item,
		Allocated: ParseAmount(item.Allocated),
		Spent:     ParseAmount(item.Spent),
		Band:      BandOnTrack,
	}

	if line.Allocated.IsPositive() {
		line.Percentage = line.Spent.Div(line.Allocated).Mul(hundred).InexactFloat64()
	}

	line.BarWidth = line.Percentage
	if line.BarWidth > 100 {
		line.BarWidth = 100
	}
	if line.BarWidth < 0 {
		line.BarWidth = 0
	}

	switch {
	case line.Percentage > 100:
		line.Band = BandOver
	case line.Percentage > 90:
		line.Band = BandWarning
	}

	return line
}
