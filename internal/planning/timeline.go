package planning

import (
	"slices"
	"strconv"
	"strings"

	"github.com/wedding-planner-api/internal/models"
)

// TimelineHour derives the sort key of a free-text "H:MM AM/PM" time. Only
// the hour is used. PM adds 12 unless the hour token is exactly "12"; AM
// hours are left as written, so "12:30 AM" keys as 12 and sorts after
// "11:00 AM". An hour that does not start with digits keys as 0.
func TimelineHour(t string) int {
	clock := strings.SplitN(t, " ", 2)[0]
	hourToken := strings.SplitN(clock, ":", 2)[0]

	hour := leadingInt(hourToken)
	if strings.Contains(t, "PM") && hourToken != "12" {
		hour += 12
	}
	return hour
}

// CompareTimeline orders events by TimelineHour ascending
func CompareTimeline(a, b models.TimelineEvent) int {
	return TimelineHour(a.Time) - TimelineHour(b.Time)
}

// SortTimeline returns a copy of events sorted by hour. Events in the same
// hour keep their insertion order.
func SortTimeline(events []models.TimelineEvent) []models.TimelineEvent {
	out := slices.Clone(events)
	slices.SortStableFunc(out, CompareTimeline)
	return out
}

func leadingInt(s string) int {
	s = strings.TrimLeft(s, " \t")
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	start := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == start {
		return 0
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0
	}
	return n
}
