package planning

import (
	"testing"

	"github.com/wedding-planner-api/internal/models"
)

func TestChecklistProgress(t *testing.T) {
	tests := []struct {
		name     string
		items    []models.ChecklistItem
		expected Progress
	}{
		{"empty", nil, Progress{}},
		{
			"one of three",
			[]models.ChecklistItem{{ID: "1", Completed: true}, {ID: "2"}, {ID: "3"}},
			Progress{Completed: 1, Remaining: 2, Total: 3, Percentage: 33},
		},
		{
			"two of three rounds up",
			[]models.ChecklistItem{{ID: "1", Completed: true}, {ID: "2", Completed: true}, {ID: "3"}},
			Progress{Completed: 2, Remaining: 1, Total: 3, Percentage: 67},
		},
		{
			"all done",
			[]models.ChecklistItem{{ID: "1", Completed: true}},
			Progress{Completed: 1, Total: 1, Percentage: 100},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ChecklistProgress(tt.items)
			if got != tt.expected {
				t.Errorf("Expected %+v, got %+v", tt.expected, got)
			}
		})
	}
}

func TestChecklistProgress_OneOfThirtyTwo(t *testing.T) {
	items := make([]models.ChecklistItem, 32)
	items[0].Completed = true

	got := ChecklistProgress(items)
	if got.Percentage != 3 {
		t.Errorf("Expected 3%%, got %d%%", got.Percentage)
	}
}

func TestGroupByCategory_FirstSeenOrder(t *testing.T) {
	items := []models.ChecklistItem{
		{ID: "1", Category: "Venue"},
		{ID: "2", Category: "Planning", Completed: true},
		{ID: "3", Category: "Venue", Completed: true},
		{ID: "4", Category: "Attire"},
	}

	groups := GroupByCategory(items)
	if len(groups) != 3 {
		t.Fatalf("Expected 3 groups, got %d", len(groups))
	}

	order := []string{"Venue", "Planning", "Attire"}
	for i, g := range groups {
		if g.Category != order[i] {
			t.Errorf("Expected group %d to be %s, got %s", i, order[i], g.Category)
		}
	}

	if groups[0].Total != 2 || groups[0].Completed != 1 {
		t.Errorf("Expected Venue 1/2, got %d/%d", groups[0].Completed, groups[0].Total)
	}
	if groups[0].Items[0].ID != "1" || groups[0].Items[1].ID != "3" {
		t.Error("Expected item order to be kept within a group")
	}

	cats := Categories(items)
	if len(cats) != 3 || cats[0] != "Venue" || cats[2] != "Attire" {
		t.Errorf("Unexpected categories: %v", cats)
	}
}

func TestResetChecklist(t *testing.T) {
	defaults := []models.ChecklistItem{
		{ID: "1", Title: "Choose a wedding date", Completed: true, Category: "Planning"},
		{ID: "2", Title: "Set a budget", Category: "Planning"},
	}

	got := ResetChecklist(defaults)
	for _, item := range got {
		if item.Completed {
			t.Errorf("Expected item %s to be cleared", item.ID)
		}
	}
	if !defaults[0].Completed {
		t.Error("Expected defaults to be left untouched")
	}
	if got[0].Title != "Choose a wedding date" {
		t.Errorf("Expected title kept, got %q", got[0].Title)
	}
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"500", "500"},
		{" 1200.50 ", "1200.5"},
		{"", "0"},
		{"abc", "0"},
		{"500abc", "500"},
		{"12.5.3", "12.5"},
		{"-40", "-40"},
		{".5", "0.5"},
		{"1e3", "1000"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := ParseAmount(tt.input)
			if got.String() != tt.expected {
				t.Errorf("ParseAmount(%q): expected %s, got %s", tt.input, tt.expected, got.String())
			}
		})
	}
}

func TestSummarizeBudget_Seed(t *testing.T) {
	items := []models.BudgetItem{
		{ID: "1", Category: "Venue", Allocated: "5000", Spent: "4500"},
		{ID: "2", Category: "Catering", Allocated: "3000", Spent: "2800"},
		{ID: "3", Category: "Photography", Allocated: "2000", Spent: "2000"},
		{ID: "4", Category: "Attire", Allocated: "1500", Spent: "1200"},
	}

	s := SummarizeBudget(items)
	if s.TotalAllocated.String() != "11500" {
		t.Errorf("Expected allocated 11500, got %s", s.TotalAllocated)
	}
	if s.TotalSpent.String() != "10500" {
		t.Errorf("Expected spent 10500, got %s", s.TotalSpent)
	}
	if s.Remaining.String() != "1000" {
		t.Errorf("Expected remaining 1000, got %s", s.Remaining)
	}
	if s.OverBudget() {
		t.Error("Expected budget not to be over")
	}

	if s.Lines[2].Percentage != 100 || s.Lines[2].Band != BandWarning {
		t.Errorf("Expected photography at 100%% warning, got %v %s", s.Lines[2].Percentage, s.Lines[2].Band)
	}
	if s.Lines[3].Band != BandOnTrack {
		t.Errorf("Expected attire on track, got %s", s.Lines[3].Band)
	}
}

func TestSummarizeBudget_AddedWithBlankSpent(t *testing.T) {
	s := SummarizeBudget([]models.BudgetItem{{ID: "1", Category: "Flowers", Allocated: "500", Spent: ""}})
	if s.TotalSpent.String() != "0" {
		t.Errorf("Expected spent 0, got %s", s.TotalSpent)
	}
	if s.Remaining.String() != "500" {
		t.Errorf("Expected remaining 500, got %s", s.Remaining)
	}
}

func TestNewBudgetLine(t *testing.T) {
	tests := []struct {
		name      string
		allocated string
		spent     string
		pct       float64
		width     float64
		band      string
	}{
		{"zero allocation", "0", "100", 0, 0, BandOnTrack},
		{"negative allocation", "-10", "5", 0, 0, BandOnTrack},
		{"overspent", "100", "150", 150, 100, BandOver},
		{"warning", "100", "95", 95, 95, BandWarning},
		{"exactly ninety", "100", "90", 90, 90, BandOnTrack},
		{"unparseable spent", "100", "n/a", 0, 0, BandOnTrack},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			line := NewBudgetLine(models.BudgetItem{Allocated: tt.allocated, Spent: tt.spent})
			if line.Percentage != tt.pct {
				t.Errorf("Expected percentage %v, got %v", tt.pct, line.Percentage)
			}
			if line.BarWidth != tt.width {
				t.Errorf("Expected width %v, got %v", tt.width, line.BarWidth)
			}
			if line.Band != tt.band {
				t.Errorf("Expected band %s, got %s", tt.band, line.Band)
			}
		})
	}
}

func TestSummarizeBudget_Overspent(t *testing.T) {
	s := SummarizeBudget([]models.BudgetItem{{ID: "1", Allocated: "100", Spent: "250"}})
	if !s.OverBudget() {
		t.Error("Expected budget to be over")
	}
	if s.Remaining.String() != "-150" {
		t.Errorf("Expected remaining -150, got %s", s.Remaining)
	}
}

func TestTimelineHour(t *testing.T) {
	tests := []struct {
		input    string
		expected int
	}{
		{"10:00 AM", 10},
		{"12:00 PM", 12},
		{"2:00 PM", 14},
		{"3:30 PM", 15},
		{"12:30 AM", 12},
		{"9 PM", 21},
		{"noon", 0},
		{"", 0},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := TimelineHour(tt.input); got != tt.expected {
				t.Errorf("TimelineHour(%q): expected %d, got %d", tt.input, tt.expected, got)
			}
		})
	}
}

func TestSortTimeline(t *testing.T) {
	events := []models.TimelineEvent{
		{ID: "1", Time: "4:30 PM", Title: "Reception"},
		{ID: "2", Time: "10:00 AM", Title: "Hair & Makeup"},
		{ID: "3", Time: "2:00 PM", Title: "Ceremony"},
		{ID: "4", Time: "2:45 PM", Title: "Photos"},
		{ID: "5", Time: "12:00 PM", Title: "Lunch Break"},
	}

	sorted := SortTimeline(events)

	expected := []string{"2", "5", "3", "4", "1"}
	for i, id := range expected {
		if sorted[i].ID != id {
			t.Errorf("Position %d: expected %s, got %s", i, id, sorted[i].ID)
		}
	}
	if events[0].ID != "1" {
		t.Error("Expected input to be left unsorted")
	}
}

func TestSortTimeline_MidnightAfterMorning(t *testing.T) {
	events := []models.TimelineEvent{
		{ID: "1", Time: "12:30 AM"},
		{ID: "2", Time: "11:00 AM"},
	}

	sorted := SortTimeline(events)
	if sorted[0].ID != "2" || sorted[1].ID != "1" {
		t.Errorf("Expected 11:00 AM before 12:30 AM, got %s then %s", sorted[0].Time, sorted[1].Time)
	}
}

func TestSortTimeline_MixedMeridiems(t *testing.T) {
	events := []models.TimelineEvent{
		{ID: "1", Time: "2:00 PM"},
		{ID: "2", Time: "12:30 AM"},
		{ID: "3", Time: "11:00 AM"},
	}

	sorted := SortTimeline(events)

	// 12 AM keys as 12, so it lands between 11 AM and 2 PM
	expected := []string{"11:00 AM", "12:30 AM", "2:00 PM"}
	for i, want := range expected {
		if sorted[i].Time != want {
			t.Errorf("Position %d: expected %s, got %s", i, want, sorted[i].Time)
		}
	}
}

func TestCountRSVPs(t *testing.T) {
	guests := []models.Guest{
		{ID: "1", RSVP: models.RSVPConfirmed},
		{ID: "2", RSVP: models.RSVPPending},
		{ID: "3", RSVP: models.RSVPConfirmed},
		{ID: "4", RSVP: models.RSVPDeclined},
	}

	got := CountRSVPs(guests)
	expected := RSVPStats{Confirmed: 2, Declined: 1, Pending: 1}
	if got != expected {
		t.Errorf("Expected %+v, got %+v", expected, got)
	}
}
