package collection

import (
	"strconv"
	"time"
)

// IDSource assigns identities to drafts that arrive without one
type IDSource[K comparable] interface {
	Next(existing []K) K
}

// Sequential assigns max(existing)+1, starting at 1
type Sequential struct{}

// Next implements IDSource
func (Sequential) Next(existing []int) int {
	highest := 0
	for _, id := range existing {
		if id > highest {
			highest = id
		}
	}
	return highest + 1
}

// TimestampTokens assigns the current time in milliseconds as a decimal
// string. When two drafts land in the same millisecond the token is bumped
// until it is unique within the collection.
type TimestampTokens struct {
	Now func() time.Time
}

// Next implements IDSource
func (t TimestampTokens) Next(existing []string) string {
	now := time.Now
	if t.Now != nil {
		now = t.Now
	}

	taken := make(map[string]struct{}, len(existing))
	for _, id := range existing {
		taken[id] = struct{}{}
	}

	ms := now().UnixMilli()
	for {
		token := strconv.FormatInt(ms, 10)
		if _, ok := taken[token]; !ok {
			return token
		}
		ms++
	}
}
