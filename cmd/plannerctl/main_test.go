package main

import (
	"bytes"
	"context"
	"encoding/csv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out, errOut bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)

	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestListFacetCSV(t *testing.T) {
	out, err := run(t, "list", "users", "--facet", "role=Customer", "--facet", "status=Active", "-o", "csv")
	require.NoError(t, err)

	rows, err := csv.NewReader(strings.NewReader(out)).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 4, "header plus three active customers")
	assert.Equal(t, "id", rows[0][0])
	for _, row := range rows[1:] {
		assert.NotEqual(t, "James Wilson", row[1])
	}
}

func TestListSearchTable(t *testing.T) {
	out, err := run(t, "list", "vendors", "--search", "PHOTO")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[1], "Capture Moments Photography")
}

func TestListErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"unknown kind", []string{"list", "weddings"}, "unknown screen kind"},
		{"malformed facet", []string{"list", "users", "--facet", "role"}, "must be name=value"},
		{"undeclared facet", []string{"list", "users", "--facet", "colour=red"}, "colour"},
		{"bad format", []string{"list", "users", "-o", "pdf"}, "unsupported format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestBudget(t *testing.T) {
	out, err := run(t, "budget")
	require.NoError(t, err)

	assert.Contains(t, out, "Total budget: 11500.00")
	assert.Contains(t, out, "Spent:        10500.00")
	assert.Contains(t, out, "Remaining:    1000.00")
	assert.Contains(t, out, "Photography")
	assert.Contains(t, out, "100.0%")
}

func TestChecklistCategory(t *testing.T) {
	out, err := run(t, "checklist", "--category", "Planning")
	require.NoError(t, err)

	assert.Contains(t, out, "Planning (1/4)")
	assert.Contains(t, out, "[x] Choose a wedding date")
	assert.NotContains(t, out, "Venue (")
}

func TestTimelineOrder(t *testing.T) {
	out, err := run(t, "timeline")
	require.NoError(t, err)

	hair := strings.Index(out, "Hair & Makeup")
	ceremony := strings.Index(out, "Ceremony")
	reception := strings.Index(out, "Reception")
	require.True(t, hair >= 0 && ceremony >= 0 && reception >= 0, out)
	assert.Less(t, hair, ceremony)
	assert.Less(t, ceremony, reception)
}

func TestGuests(t *testing.T) {
	out, err := run(t, "guests", "--side", "Bride")
	require.NoError(t, err)

	assert.Contains(t, out, "Confirmed: 2  Pending: 1  Declined: 1")
	assert.Contains(t, out, "Alice Johnson")
	assert.NotContains(t, out, "Bob Smith")
}

func TestMigrateToRejectsBadVersion(t *testing.T) {
	_, err := run(t, "migrate", "to", "latest")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid version")
}
