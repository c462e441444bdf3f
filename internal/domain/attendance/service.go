package attendance

import "context"

type AttendanceService interface {
	// ImportAttendance evaluates a batch of raw rows against the
	// employees' resolved shift templates and upserts one record per
	// (employee, date). Malformed rows are skipped, never fatal.
	ImportAttendance(ctx context.Context, companyID string, req ImportRequest) (ImportSummary, error)

	ListAttendance(ctx context.Context, companyID string, filter AttendanceFilter) ([]AttendanceResponse, error)
}
