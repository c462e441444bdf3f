package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/cmlabs-hris/shift-engine-go/internal/domain/attendance"
	"github.com/cmlabs-hris/shift-engine-go/internal/pkg/database"
)

type attendanceRepository struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepository{db: db}
}

const attendanceColumns = `
	id, company_id, employee_id, date, shift_template_id, shift_label,
	time_in, time_out, status, leave_type, late_minutes, overtime_minutes,
	created_at, updated_at
`

func (r *attendanceRepository) Upsert(ctx context.Context, rec attendance.AttendanceRecord) (attendance.AttendanceRecord, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO attendance_records (
			id, company_id, employee_id, date, shift_template_id, shift_label,
			time_in, time_out, status, leave_type, late_minutes, overtime_minutes
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (company_id, employee_id, date) DO UPDATE SET
			shift_template_id = EXCLUDED.shift_template_id,
			shift_label = EXCLUDED.shift_label,
			time_in = EXCLUDED.time_in,
			time_out = EXCLUDED.time_out,
			status = EXCLUDED.status,
			leave_type = EXCLUDED.leave_type,
			late_minutes = EXCLUDED.late_minutes,
			overtime_minutes = EXCLUDED.overtime_minutes,
			updated_at = NOW()
		RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		rec.ID, rec.CompanyID, rec.EmployeeID, rec.Date,
		rec.ShiftTemplateID, rec.ShiftLabel,
		rec.TimeIn, rec.TimeOut, rec.Status, rec.LeaveType,
		rec.LateMinutes, rec.OvertimeMinutes,
	).Scan(&rec.ID, &rec.CreatedAt, &rec.UpdatedAt)

	if err != nil {
		return attendance.AttendanceRecord{}, fmt.Errorf("failed to upsert attendance record: %w", err)
	}
	return rec, nil
}

func (r *attendanceRepository) GetByEmployeeAndDate(ctx context.Context, companyID string, employeeID string, date time.Time) (attendance.AttendanceRecord, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + attendanceColumns + `
		FROM attendance_records
		WHERE company_id = $1 AND employee_id = $2 AND date = $3
	`

	rec, err := scanAttendanceRecord(q.QueryRow(ctx, query, companyID, employeeID, date))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.AttendanceRecord{}, attendance.ErrAttendanceNotFound
		}
		return attendance.AttendanceRecord{}, fmt.Errorf("failed to get attendance record: %w", err)
	}
	return rec, nil
}

func (r *attendanceRepository) List(ctx context.Context, companyID string, filter attendance.AttendanceFilter) ([]attendance.AttendanceRecord, error) {
	q := GetQuerier(ctx, r.db)

	where := "company_id = $1"
	args := []interface{}{companyID}
	if filter.EmployeeID != nil {
		args = append(args, *filter.EmployeeID)
		where += fmt.Sprintf(" AND employee_id = $%d", len(args))
	}
	if filter.DateFrom != nil {
		args = append(args, *filter.DateFrom)
		where += fmt.Sprintf(" AND date >= $%d", len(args))
	}
	if filter.DateTo != nil {
		args = append(args, *filter.DateTo)
		where += fmt.Sprintf(" AND date <= $%d", len(args))
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM attendance_records
		WHERE %s
		ORDER BY date, employee_id
	`, attendanceColumns, where)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance records: %w", err)
	}
	defer rows.Close()

	var records []attendance.AttendanceRecord
	for rows.Next() {
		rec, err := scanAttendanceRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance record: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func scanAttendanceRecord(row pgx.Row) (attendance.AttendanceRecord, error) {
	var rec attendance.AttendanceRecord
	err := row.Scan(
		&rec.ID, &rec.CompanyID, &rec.EmployeeID, &rec.Date,
		&rec.ShiftTemplateID, &rec.ShiftLabel,
		&rec.TimeIn, &rec.TimeOut, &rec.Status, &rec.LeaveType,
		&rec.LateMinutes, &rec.OvertimeMinutes,
		&rec.CreatedAt, &rec.UpdatedAt,
	)
	return rec, err
}
