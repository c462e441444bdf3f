package attendance

import "time"

// Status is the attendance classification for one employee-day.
// Leave is assigned by the importer when no times are present but a
// leave reason is supplied; the evaluator itself never produces it.
type Status string

const (
	StatusAbsent   Status = "ABSENT"
	StatusLate     Status = "LATE"
	StatusOnTime   Status = "ON_TIME"
	StatusOvertime Status = "OVERTIME"
	StatusLeave    Status = "LEAVE"
)

var StatusValues = []string{
	string(StatusAbsent),
	string(StatusLate),
	string(StatusOnTime),
	string(StatusOvertime),
	string(StatusLeave),
}

// AttendanceRecord is the evaluated result for one (employee, date),
// unique on that pair.
type AttendanceRecord struct {
	ID              string
	CompanyID       string
	EmployeeID      string
	Date            time.Time
	ShiftTemplateID *string
	ShiftLabel      string
	TimeIn          *string // HH:mm as scanned
	TimeOut         *string
	Status          Status
	LeaveType       *string
	LateMinutes     int
	OvertimeMinutes int
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
