package response

import (
	"errors"
	"net/http"

	"github.com/cmlabs-hris/shift-engine-go/internal/domain/assignment"
	"github.com/cmlabs-hris/shift-engine-go/internal/domain/attendance"
	"github.com/cmlabs-hris/shift-engine-go/internal/domain/shift"
	"github.com/cmlabs-hris/shift-engine-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Shift domain errors
	case errors.Is(err, shift.ErrShiftTemplateNotFound):
		NotFound(w, "Shift template not found")
	case errors.Is(err, shift.ErrShiftTemplateNameExists):
		Conflict(w, "Shift template with this name already exists")
	case errors.Is(err, shift.ErrNoTemplateMatched):
		NotFound(w, "No shift template matched the label")

	// Assignment domain errors
	case errors.Is(err, assignment.ErrAssignmentNotFound):
		NotFound(w, "Shift assignment not found")
	case errors.Is(err, assignment.ErrOverlappingAssignment):
		Conflict(w, "An overlapping assignment exists for this employee")
	case errors.Is(err, assignment.ErrEmployeeHistoryMissing):
		NotFound(w, "Employee shift history not found")
	case errors.Is(err, assignment.ErrEmployeeIDRequired):
		BadRequest(w, "Employee ID is required", nil)
	case errors.Is(err, assignment.ErrInvalidDateFormat):
		BadRequest(w, "Invalid date format, use YYYY-MM-DD", nil)

	// Attendance domain errors
	case errors.Is(err, attendance.ErrAttendanceNotFound):
		NotFound(w, "Attendance record not found")
	case errors.Is(err, attendance.ErrNoShiftForEmployee):
		NotFound(w, "No shift template applies to this employee and date")

	// Malformed request bodies
	case errors.Is(err, shift.ErrInvalidRequestData),
		errors.Is(err, assignment.ErrInvalidRequestData),
		errors.Is(err, attendance.ErrInvalidRequestData):
		BadRequest(w, "Invalid request data", nil)

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
