package attendance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/cmlabs-hris/shift-engine-go/internal/domain/assignment"
	"github.com/cmlabs-hris/shift-engine-go/internal/domain/attendance"
	"github.com/cmlabs-hris/shift-engine-go/internal/domain/shift"
)

// shiftResolver is the slice of the shift template service the importer
// needs to turn operator-entered labels into templates.
type shiftResolver interface {
	ResolveShiftTemplate(ctx context.Context, companyID string, label string, asOf time.Time) (shift.ResolveShiftResponse, error)
}

// templateGetter fetches the full template entity once a row's shift is
// known.
type templateGetter interface {
	GetByID(ctx context.Context, id string, companyID string) (shift.ShiftTemplate, error)
}

// assignmentLister supplies the assignment fallback when a row carries
// no usable label.
type assignmentLister interface {
	ListByEmployee(ctx context.Context, companyID string, employeeID string) ([]assignment.ShiftAssignment, error)
}

type attendanceService struct {
	repo        attendance.AttendanceRepository
	resolver    shiftResolver
	templates   templateGetter
	assignments assignmentLister
}

func NewAttendanceService(repo attendance.AttendanceRepository, resolver shiftResolver, templates templateGetter, assignments assignmentLister) attendance.AttendanceService {
	return &attendanceService{
		repo:        repo,
		resolver:    resolver,
		templates:   templates,
		assignments: assignments,
	}
}

func (s *attendanceService) ImportAttendance(ctx context.Context, companyID string, req attendance.ImportRequest) (attendance.ImportSummary, error) {
	if err := req.Validate(); err != nil {
		return attendance.ImportSummary{}, err
	}

	summary := attendance.ImportSummary{
		Total:    len(req.Rows),
		ByStatus: make(map[string]int),
	}

	for _, row := range req.Rows {
		// Malformed rows degrade, never sink the batch.
		if row.EmployeeID == "" {
			summary.Skipped++
			continue
		}
		date, err := time.Parse("2006-01-02", row.Date)
		if err != nil {
			summary.Skipped++
			continue
		}

		// A leave reason with no scan times short-circuits evaluation.
		if row.StartTime == nil && row.EndTime == nil && row.LeaveType != nil && *row.LeaveType != "" {
			rec := attendance.AttendanceRecord{
				CompanyID:  companyID,
				EmployeeID: row.EmployeeID,
				Date:       date,
				ShiftLabel: row.ShiftLabel,
				Status:     attendance.StatusLeave,
				LeaveType:  row.LeaveType,
			}
			if err := s.upsert(ctx, rec); err != nil {
				return summary, err
			}
			summary.Processed++
			summary.ByStatus[string(attendance.StatusLeave)]++
			continue
		}

		tpl, err := s.resolveTemplate(ctx, companyID, row, date)
		if err != nil {
			if errors.Is(err, attendance.ErrNoShiftForEmployee) {
				slog.Warn("Attendance row left unmatched",
					"employee_id", row.EmployeeID,
					"date", row.Date,
					"shift_label", row.ShiftLabel,
				)
				summary.Unmatched++
				continue
			}
			return summary, err
		}

		eval := Evaluate(row.StartTime, row.EndTime, tpl)
		rec := attendance.AttendanceRecord{
			CompanyID:       companyID,
			EmployeeID:      row.EmployeeID,
			Date:            date,
			ShiftTemplateID: &tpl.ID,
			ShiftLabel:      row.ShiftLabel,
			TimeIn:          row.StartTime,
			TimeOut:         row.EndTime,
			Status:          eval.Status,
			LateMinutes:     eval.LateMinutes,
			OvertimeMinutes: eval.OvertimeMinutes,
		}
		if err := s.upsert(ctx, rec); err != nil {
			return summary, err
		}
		summary.Processed++
		summary.ByStatus[string(eval.Status)]++
	}

	return summary, nil
}

// resolveTemplate finds the template a row should be evaluated against:
// the row's label, then the import's shift hint, then the employee's
// assignment for that date.
func (s *attendanceService) resolveTemplate(ctx context.Context, companyID string, row attendance.ImportRow, date time.Time) (shift.ShiftTemplate, error) {
	for _, label := range []string{row.ShiftLabel, row.ShiftHint} {
		if label == "" {
			continue
		}
		resp, err := s.resolver.ResolveShiftTemplate(ctx, companyID, label, date)
		if err == nil {
			return s.templates.GetByID(ctx, resp.Template.ID, companyID)
		}
		if !errors.Is(err, shift.ErrNoTemplateMatched) {
			return shift.ShiftTemplate{}, err
		}
	}

	assignments, err := s.assignments.ListByEmployee(ctx, companyID, row.EmployeeID)
	if err != nil {
		return shift.ShiftTemplate{}, fmt.Errorf("failed to list assignments: %w", err)
	}
	for _, a := range assignments {
		if a.IsActiveOn(date) {
			return s.templates.GetByID(ctx, a.ShiftTemplateID, companyID)
		}
	}

	return shift.ShiftTemplate{}, attendance.ErrNoShiftForEmployee
}

func (s *attendanceService) upsert(ctx context.Context, rec attendance.AttendanceRecord) error {
	now := time.Now()
	rec.ID = uuid.Must(uuid.NewV7()).String()
	rec.CreatedAt = now
	rec.UpdatedAt = now

	if _, err := s.repo.Upsert(ctx, rec); err != nil {
		return fmt.Errorf("failed to upsert attendance record: %w", err)
	}
	return nil
}

func (s *attendanceService) ListAttendance(ctx context.Context, companyID string, filter attendance.AttendanceFilter) ([]attendance.AttendanceResponse, error) {
	records, err := s.repo.List(ctx, companyID, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance records: %w", err)
	}

	responses := make([]attendance.AttendanceResponse, 0, len(records))
	for _, rec := range records {
		responses = append(responses, toAttendanceResponse(rec))
	}
	return responses, nil
}

func toAttendanceResponse(rec attendance.AttendanceRecord) attendance.AttendanceResponse {
	return attendance.AttendanceResponse{
		ID:              rec.ID,
		EmployeeID:      rec.EmployeeID,
		Date:            rec.Date.Format("2006-01-02"),
		ShiftTemplateID: rec.ShiftTemplateID,
		ShiftLabel:      rec.ShiftLabel,
		TimeIn:          rec.TimeIn,
		TimeOut:         rec.TimeOut,
		Status:          string(rec.Status),
		LeaveType:       rec.LeaveType,
		LateMinutes:     rec.LateMinutes,
		OvertimeMinutes: rec.OvertimeMinutes,
		CreatedAt:       rec.CreatedAt.Format(time.RFC3339),
		UpdatedAt:       rec.UpdatedAt.Format(time.RFC3339),
	}
}
