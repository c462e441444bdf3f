package assignment

import "errors"

var (
	// Shift Assignment Errors
	ErrAssignmentNotFound     = errors.New("shift assignment not found")
	ErrOverlappingAssignment  = errors.New("an overlapping assignment exists for this employee")
	ErrEmployeeHistoryMissing = errors.New("employee shift history not found")

	// Validation Errors
	ErrEmployeeIDRequired = errors.New("employee ID is required")
	ErrInvalidDateFormat  = errors.New("invalid date format, use YYYY-MM-DD")

	// Request Data Errors
	ErrInvalidRequestData = errors.New("invalid request data")
)
