package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/cmlabs-hris/shift-engine-go/internal/domain/assignment"
)

type HistoryRepository struct {
	mu      sync.RWMutex
	entries map[string][]assignment.HistoryEntry // keyed by company|employee
}

func NewHistoryRepository() *HistoryRepository {
	return &HistoryRepository{entries: make(map[string][]assignment.HistoryEntry)}
}

func historyKey(companyID, employeeID string) string {
	return companyID + "|" + employeeID
}

func (r *HistoryRepository) ListByEmployee(_ context.Context, companyID string, employeeID string) ([]assignment.HistoryEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stored := r.entries[historyKey(companyID, employeeID)]
	list := make([]assignment.HistoryEntry, len(stored))
	copy(list, stored)
	sort.Slice(list, func(i, j int) bool { return list[i].From.Before(list[j].From) })
	return list, nil
}

func (r *HistoryRepository) GetOpenEntry(_ context.Context, companyID string, employeeID string) (assignment.HistoryEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, e := range r.entries[historyKey(companyID, employeeID)] {
		if e.To == nil {
			return e, nil
		}
	}
	return assignment.HistoryEntry{}, assignment.ErrEmployeeHistoryMissing
}

func (r *HistoryRepository) CloseOpenEntries(_ context.Context, companyID string, employeeID string, to time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := historyKey(companyID, employeeID)
	closed := 0
	for i, e := range r.entries[key] {
		if e.To == nil {
			end := to
			e.To = &end
			e.UpdatedAt = time.Now()
			r.entries[key][i] = e
			closed++
		}
	}
	return closed, nil
}

func (r *HistoryRepository) Append(_ context.Context, entry assignment.HistoryEntry) (assignment.HistoryEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if entry.ID == "" {
		entry.ID = uuid.Must(uuid.NewV7()).String()
	}
	now := time.Now()
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = now
	}
	entry.UpdatedAt = now

	key := historyKey(entry.CompanyID, entry.EmployeeID)
	r.entries[key] = append(r.entries[key], entry)
	return entry, nil
}
