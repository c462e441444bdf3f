package attendance

import (
	"context"
	"time"
)

// AttendanceRepository persists evaluated records, upserting on the
// (company, employee, date) key.
type AttendanceRepository interface {
	Upsert(ctx context.Context, rec AttendanceRecord) (AttendanceRecord, error)
	GetByEmployeeAndDate(ctx context.Context, companyID string, employeeID string, date time.Time) (AttendanceRecord, error)
	List(ctx context.Context, companyID string, filter AttendanceFilter) ([]AttendanceRecord, error)
}
