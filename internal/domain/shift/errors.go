package shift

import "errors"

var (
	// Shift Template Errors
	ErrShiftTemplateNotFound   = errors.New("shift template not found")
	ErrShiftTemplateNameExists = errors.New("shift template with this name already exists")

	// Resolver Errors
	ErrNoTemplateMatched = errors.New("no shift template matched the label")

	// Request Data Errors
	ErrInvalidRequestData = errors.New("invalid request data")
)
