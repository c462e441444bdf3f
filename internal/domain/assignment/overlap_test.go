package assignment

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(s string) time.Time {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return d
}

func datePtr(s string) *time.Time {
	d := date(s)
	return &d
}

func TestRangesOverlap(t *testing.T) {
	tests := []struct {
		name  string
		aFrom string
		aTo   *time.Time
		bFrom string
		bTo   *time.Time
		want  bool
	}{
		{"disjoint ranges", "2025-01-01", datePtr("2025-01-31"), "2025-02-01", datePtr("2025-02-28"), false},
		{"touching boundary day counts", "2025-01-01", datePtr("2025-01-31"), "2025-01-31", datePtr("2025-02-28"), true},
		{"contained range", "2025-01-01", datePtr("2025-12-31"), "2025-06-01", datePtr("2025-06-30"), true},
		{"open-ended catches later range", "2025-01-01", nil, "2030-01-01", datePtr("2030-12-31"), true},
		{"open-ended vs open-ended", "2025-01-01", nil, "2026-01-01", nil, true},
		{"closed range before open-ended", "2025-01-01", datePtr("2025-01-31"), "2025-02-01", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RangesOverlap(date(tt.aFrom), tt.aTo, date(tt.bFrom), tt.bTo)
			assert.Equal(t, tt.want, got)
			// the predicate is symmetric
			assert.Equal(t, tt.want, RangesOverlap(date(tt.bFrom), tt.bTo, date(tt.aFrom), tt.aTo))
		})
	}
}

func TestConflicts(t *testing.T) {
	existing := []ShiftAssignment{
		{ID: "a-1", EffectiveFrom: date("2025-01-01"), EffectiveTo: datePtr("2025-03-31")},
		{ID: "a-2", EffectiveFrom: date("2025-04-01"), EffectiveTo: nil},
	}

	t.Run("detects collision with open-ended row", func(t *testing.T) {
		assert.True(t, Conflicts(existing, date("2025-06-01"), datePtr("2025-06-30"), ""))
	})

	t.Run("self exclusion skips own row", func(t *testing.T) {
		assert.False(t, Conflicts(existing, date("2025-05-01"), nil, "a-2"))
	})

	t.Run("no collision before all rows", func(t *testing.T) {
		assert.False(t, Conflicts(existing, date("2024-01-01"), datePtr("2024-12-31"), ""))
	})
}
