package attendance

import (
	"github.com/cmlabs-hris/shift-engine-go/internal/pkg/validator"
)

// ImportRow is one raw attendance row from an external import process.
// Dates and times arrive as normalized strings: "YYYY-MM-DD" / "HH:mm".
type ImportRow struct {
	EmployeeID string  `json:"employee_id"`
	Date       string  `json:"date"`
	StartTime  *string `json:"start_time,omitempty"`
	EndTime    *string `json:"end_time,omitempty"`
	LeaveType  *string `json:"leave_type,omitempty"`
	ShiftLabel string  `json:"shift_label,omitempty"`
	// ShiftHint is a fallback label applied when ShiftLabel resolves to
	// nothing, e.g. the import file's configured default shift type.
	ShiftHint string `json:"shift_hint,omitempty"`
}

type ImportRequest struct {
	Rows []ImportRow `json:"rows"`
}

func (r *ImportRequest) Validate() error {
	var errs validator.ValidationErrors

	if len(r.Rows) == 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "rows",
			Message: "rows must not be empty",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// ImportSummary reports batch results. Rows lacking an employee ID or a
// parseable date are skipped, not failed, so one bad row never sinks the
// batch.
type ImportSummary struct {
	Total     int            `json:"total"`
	Processed int            `json:"processed"`
	Skipped   int            `json:"skipped"`
	Unmatched int            `json:"unmatched"`
	ByStatus  map[string]int `json:"by_status"`
}

type AttendanceResponse struct {
	ID              string  `json:"id"`
	EmployeeID      string  `json:"employee_id"`
	Date            string  `json:"date"`
	ShiftTemplateID *string `json:"shift_template_id,omitempty"`
	ShiftLabel      string  `json:"shift_label,omitempty"`
	TimeIn          *string `json:"time_in,omitempty"`
	TimeOut         *string `json:"time_out,omitempty"`
	Status          string  `json:"status"`
	LeaveType       *string `json:"leave_type,omitempty"`
	LateMinutes     int     `json:"late_minutes"`
	OvertimeMinutes int     `json:"overtime_minutes"`
	CreatedAt       string  `json:"created_at"`
	UpdatedAt       string  `json:"updated_at"`
}

type AttendanceFilter struct {
	EmployeeID *string `json:"employee_id,omitempty"`
	DateFrom   *string `json:"date_from,omitempty"`
	DateTo     *string `json:"date_to,omitempty"`
}
