package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/cmlabs-hris/shift-engine-go/internal/domain/attendance"
)

type AttendanceRepository struct {
	mu      sync.RWMutex
	records map[string]attendance.AttendanceRecord // keyed by company|employee|date
}

func NewAttendanceRepository() *AttendanceRepository {
	return &AttendanceRepository{records: make(map[string]attendance.AttendanceRecord)}
}

func attendanceKey(companyID, employeeID string, date time.Time) string {
	return companyID + "|" + employeeID + "|" + date.Format("2006-01-02")
}

func (r *AttendanceRepository) Upsert(_ context.Context, rec attendance.AttendanceRecord) (attendance.AttendanceRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := attendanceKey(rec.CompanyID, rec.EmployeeID, rec.Date)
	now := time.Now()
	if existing, ok := r.records[key]; ok {
		rec.ID = existing.ID
		rec.CreatedAt = existing.CreatedAt
	} else if rec.ID == "" {
		rec.ID = uuid.Must(uuid.NewV7()).String()
		rec.CreatedAt = now
	}
	rec.UpdatedAt = now

	r.records[key] = rec
	return rec, nil
}

func (r *AttendanceRepository) GetByEmployeeAndDate(_ context.Context, companyID string, employeeID string, date time.Time) (attendance.AttendanceRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.records[attendanceKey(companyID, employeeID, date)]
	if !ok {
		return attendance.AttendanceRecord{}, attendance.ErrAttendanceNotFound
	}
	return rec, nil
}

func (r *AttendanceRepository) List(_ context.Context, companyID string, filter attendance.AttendanceFilter) ([]attendance.AttendanceRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var from, to *time.Time
	if filter.DateFrom != nil {
		if d, err := time.Parse("2006-01-02", *filter.DateFrom); err == nil {
			from = &d
		}
	}
	if filter.DateTo != nil {
		if d, err := time.Parse("2006-01-02", *filter.DateTo); err == nil {
			to = &d
		}
	}

	var list []attendance.AttendanceRecord
	for _, rec := range r.records {
		if rec.CompanyID != companyID {
			continue
		}
		if filter.EmployeeID != nil && rec.EmployeeID != *filter.EmployeeID {
			continue
		}
		if from != nil && rec.Date.Before(*from) {
			continue
		}
		if to != nil && rec.Date.After(*to) {
			continue
		}
		list = append(list, rec)
	}

	sort.Slice(list, func(i, j int) bool {
		if list[i].Date.Equal(list[j].Date) {
			return list[i].EmployeeID < list[j].EmployeeID
		}
		return list[i].Date.Before(list[j].Date)
	})
	return list, nil
}
