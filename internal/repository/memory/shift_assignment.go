package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/cmlabs-hris/shift-engine-go/internal/domain/assignment"
)

type AssignmentRepository struct {
	mu          sync.RWMutex
	assignments map[string]assignment.ShiftAssignment
}

func NewAssignmentRepository() *AssignmentRepository {
	return &AssignmentRepository{assignments: make(map[string]assignment.ShiftAssignment)}
}

// WithTransaction runs fn directly; the memory store has no
// transactions and a single-node store needs none.
func (r *AssignmentRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// LockEmployee is a no-op; the service's per-employee mutex already
// serializes in-process writers, which is all a single-node memory
// store ever sees.
func (r *AssignmentRepository) LockEmployee(_ context.Context, _ string, _ string) error {
	return nil
}

func (r *AssignmentRepository) Create(_ context.Context, a assignment.ShiftAssignment) (assignment.ShiftAssignment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if a.ID == "" {
		a.ID = uuid.Must(uuid.NewV7()).String()
	}
	now := time.Now()
	if a.CreatedAt.IsZero() {
		a.CreatedAt = now
	}
	a.UpdatedAt = now

	r.assignments[a.ID] = a
	return a, nil
}

func (r *AssignmentRepository) GetByID(_ context.Context, id string, companyID string) (assignment.ShiftAssignment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.assignments[id]
	if !ok || a.CompanyID != companyID {
		return assignment.ShiftAssignment{}, assignment.ErrAssignmentNotFound
	}
	return a, nil
}

func (r *AssignmentRepository) ListByEmployee(_ context.Context, companyID string, employeeID string) ([]assignment.ShiftAssignment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var list []assignment.ShiftAssignment
	for _, a := range r.assignments {
		if a.CompanyID == companyID && a.EmployeeID == employeeID {
			list = append(list, a)
		}
	}
	sortByEffectiveFrom(list)
	return list, nil
}

func (r *AssignmentRepository) List(_ context.Context, companyID string, filter assignment.AssignmentFilter) ([]assignment.ShiftAssignment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	now := time.Now()
	var list []assignment.ShiftAssignment
	for _, a := range r.assignments {
		if a.CompanyID != companyID {
			continue
		}
		if filter.EmployeeID != nil && a.EmployeeID != *filter.EmployeeID {
			continue
		}
		if filter.ShiftTemplateID != nil && a.ShiftTemplateID != *filter.ShiftTemplateID {
			continue
		}
		if filter.ActiveOnly && a.EffectiveTo != nil && a.EffectiveTo.Before(now) {
			continue
		}
		list = append(list, a)
	}
	sortByEffectiveFrom(list)
	return list, nil
}

func (r *AssignmentRepository) Update(_ context.Context, a assignment.ShiftAssignment) (assignment.ShiftAssignment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.assignments[a.ID]
	if !ok || current.CompanyID != a.CompanyID {
		return assignment.ShiftAssignment{}, assignment.ErrAssignmentNotFound
	}

	a.CreatedAt = current.CreatedAt
	a.UpdatedAt = time.Now()
	r.assignments[a.ID] = a
	return a, nil
}

func (r *AssignmentRepository) CloseOpenRows(_ context.Context, companyID string, employeeID string, to time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	closed := 0
	for id, a := range r.assignments {
		if a.CompanyID == companyID && a.EmployeeID == employeeID && a.EffectiveTo == nil {
			end := to
			// A row starting after the close date closes at its own
			// start; the range must never invert.
			if end.Before(a.EffectiveFrom) {
				end = a.EffectiveFrom
			}
			a.EffectiveTo = &end
			a.UpdatedAt = time.Now()
			r.assignments[id] = a
			closed++
		}
	}
	return closed, nil
}

func (r *AssignmentRepository) ListOpen(_ context.Context) ([]assignment.ShiftAssignment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var list []assignment.ShiftAssignment
	for _, a := range r.assignments {
		if a.EffectiveTo == nil {
			list = append(list, a)
		}
	}
	sortByEffectiveFrom(list)
	return list, nil
}

func (r *AssignmentRepository) Delete(_ context.Context, id string, companyID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.assignments[id]
	if !ok || a.CompanyID != companyID {
		return assignment.ErrAssignmentNotFound
	}
	delete(r.assignments, id)
	return nil
}

func sortByEffectiveFrom(list []assignment.ShiftAssignment) {
	sort.Slice(list, func(i, j int) bool {
		return list[i].EffectiveFrom.Before(list[j].EffectiveFrom)
	})
}
