package attendance

import "errors"

var (
	ErrAttendanceNotFound = errors.New("attendance record not found")
	ErrNoShiftForEmployee = errors.New("no shift template applies to this employee and date")

	// Request Data Errors
	ErrInvalidRequestData = errors.New("invalid request data")
)
