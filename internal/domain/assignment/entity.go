package assignment

import "time"

// ShiftAssignment binds an employee to a shift template over a date
// range. EffectiveTo == nil means the assignment is open-ended.
// EmployeeID is the business identifier, not a persistence key.
type ShiftAssignment struct {
	ID              string
	CompanyID       string
	EmployeeID      string
	ShiftTemplateID string
	EffectiveFrom   time.Time
	EffectiveTo     *time.Time
	Reason          string
	CreatedBy       string
	UpdatedBy       string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// IsActiveOn reports whether the assignment covers the given date.
func (a *ShiftAssignment) IsActiveOn(date time.Time) bool {
	day := date.Truncate(24 * time.Hour)
	if day.Before(a.EffectiveFrom.Truncate(24 * time.Hour)) {
		return false
	}
	if a.EffectiveTo != nil && day.After(a.EffectiveTo.Truncate(24*time.Hour)) {
		return false
	}
	return true
}

// IsOpen reports whether the assignment is open-ended.
func (a *ShiftAssignment) IsOpen() bool {
	return a.EffectiveTo == nil
}

// HistoryEntry is one interval in the employee's denormalized shift
// ledger. At most one entry per employee has To == nil at any time.
type HistoryEntry struct {
	ID              string
	CompanyID       string
	EmployeeID      string
	ShiftTemplateID string
	From            time.Time
	To              *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// AutoChangeReason marks assignment rows created by history sync.
const AutoChangeReason = "Shift changed (auto)"
