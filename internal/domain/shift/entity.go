package shift

import (
	"time"

	"github.com/cmlabs-hris/shift-engine-go/internal/pkg/timeutil"
)

// ShiftTemplate is a reusable shift definition owned by a company.
// Clock fields are "HH:mm" strings; Validate guarantees they parse, so
// the minute accessors below are safe on a validated template.
type ShiftTemplate struct {
	ID        string
	CompanyID string
	Name      string
	Code      *string

	Active        bool
	Version       int
	EffectiveFrom *time.Time
	EffectiveTo   *time.Time

	TimeIn        string
	LateAfter     string
	TimeOut       string
	CrossMidnight bool

	Breaks []BreakWindow
	Window *ScanWindow
	OT     OvertimePolicy

	DaysOfWeek      []int // 0=Sunday ... 6=Saturday, empty = every day
	ExcludeHolidays bool

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt *time.Time
}

// BreakWindow is a same-day break inside a shift. Start/End are "HH:mm".
type BreakWindow struct {
	Start string
	End   string
	Paid  bool
}

// ScanWindow bounds when clock scans are accepted, independent of breaks.
type ScanWindow struct {
	EarliestIn         *string
	LatestIn           *string
	EarliestOut        *string
	LatestOut          *string
	AllowCrossMidnight bool
}

type OvertimeMode string

const (
	OvertimeDisabled   OvertimeMode = "DISABLED"
	OvertimeAnyMinutes OvertimeMode = "ANY_MINUTES"
	OvertimeTiers      OvertimeMode = "TIERS"
)

var OvertimeModeValues = []string{
	string(OvertimeDisabled),
	string(OvertimeAnyMinutes),
	string(OvertimeTiers),
}

// OvertimePolicy controls how minutes past TimeOut are treated.
// Tiers is only meaningful when Mode is TIERS and must then be a
// non-empty, strictly increasing list of positive minute thresholds.
type OvertimePolicy struct {
	Mode          OvertimeMode
	StartAfterMin int
	RoundingMin   int
	Tiers         []int
}

// TimeInMinutes returns TimeIn as minutes since midnight.
func (t *ShiftTemplate) TimeInMinutes() timeutil.Minutes {
	m, _ := timeutil.ParseClock(t.TimeIn)
	return m
}

// LateAfterMinutes returns LateAfter as minutes since midnight.
func (t *ShiftTemplate) LateAfterMinutes() timeutil.Minutes {
	m, _ := timeutil.ParseClock(t.LateAfter)
	return m
}

// TimeOutMinutes returns TimeOut as minutes since midnight, carried onto
// the next day for cross-midnight shifts so it orders after TimeIn.
func (t *ShiftTemplate) TimeOutMinutes() timeutil.Minutes {
	m, _ := timeutil.ParseClock(t.TimeOut)
	if t.CrossMidnight {
		return m.OnNextDay()
	}
	return m
}

// AppliesOn reports whether the template covers the given calendar date,
// honoring the effective bounds and the days-of-week restriction.
func (t *ShiftTemplate) AppliesOn(date time.Time) bool {
	day := date.Truncate(24 * time.Hour)
	if t.EffectiveFrom != nil && day.Before(t.EffectiveFrom.Truncate(24*time.Hour)) {
		return false
	}
	if t.EffectiveTo != nil && day.After(t.EffectiveTo.Truncate(24*time.Hour)) {
		return false
	}
	if len(t.DaysOfWeek) == 0 {
		return true
	}
	weekday := int(date.Weekday())
	for _, d := range t.DaysOfWeek {
		if d == weekday {
			return true
		}
	}
	return false
}
