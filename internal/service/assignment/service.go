package assignment

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/cmlabs-hris/shift-engine-go/internal/domain/assignment"
	"github.com/cmlabs-hris/shift-engine-go/internal/domain/shift"
)

// templateGetter is the slice of the template repository the assignment
// service needs to verify tenant-scoped template references.
type templateGetter interface {
	GetByID(ctx context.Context, id string, companyID string) (shift.ShiftTemplate, error)
}

// employeeLocks serializes writers per (company, employee). The overlap
// check reads the employee's assignments and then writes; without this
// two concurrent creates could both pass the check against a stale
// snapshot and both commit.
type employeeLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newEmployeeLocks() *employeeLocks {
	return &employeeLocks{locks: make(map[string]*sync.Mutex)}
}

func (l *employeeLocks) lock(companyID, employeeID string) func() {
	key := companyID + "|" + employeeID

	l.mu.Lock()
	m, ok := l.locks[key]
	if !ok {
		m = &sync.Mutex{}
		l.locks[key] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock
}

type assignmentService struct {
	repo      assignment.AssignmentRepository
	history   assignment.HistoryRepository
	templates templateGetter
	locks     *employeeLocks
}

func NewAssignmentService(repo assignment.AssignmentRepository, history assignment.HistoryRepository, templates templateGetter) assignment.AssignmentService {
	return &assignmentService{
		repo:      repo,
		history:   history,
		templates: templates,
		locks:     newEmployeeLocks(),
	}
}

func (s *assignmentService) CreateAssignment(ctx context.Context, companyID string, req assignment.CreateAssignmentRequest) (assignment.AssignmentResponse, error) {
	if err := req.Validate(); err != nil {
		return assignment.AssignmentResponse{}, err
	}

	if _, err := s.templates.GetByID(ctx, req.ShiftTemplateID, companyID); err != nil {
		return assignment.AssignmentResponse{}, err
	}

	from, _ := time.Parse("2006-01-02", req.EffectiveFrom)
	var to *time.Time
	if req.EffectiveTo != nil {
		d, _ := time.Parse("2006-01-02", *req.EffectiveTo)
		to = &d
	}

	unlock := s.locks.lock(companyID, req.EmployeeID)
	defer unlock()

	// The storage lock, the overlap check and the insert share one
	// transaction; the advisory lock holds until commit, so a writer in
	// another process cannot slip between the check and the write.
	var created assignment.ShiftAssignment
	err := s.repo.WithTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.LockEmployee(ctx, companyID, req.EmployeeID); err != nil {
			return err
		}

		existing, err := s.repo.ListByEmployee(ctx, companyID, req.EmployeeID)
		if err != nil {
			return fmt.Errorf("failed to list assignments: %w", err)
		}
		if assignment.Conflicts(existing, from, to, "") {
			return assignment.ErrOverlappingAssignment
		}

		now := time.Now()
		created, err = s.repo.Create(ctx, assignment.ShiftAssignment{
			ID:              uuid.Must(uuid.NewV7()).String(),
			CompanyID:       companyID,
			EmployeeID:      req.EmployeeID,
			ShiftTemplateID: req.ShiftTemplateID,
			EffectiveFrom:   from,
			EffectiveTo:     to,
			Reason:          req.Reason,
			CreatedBy:       req.CreatedBy,
			CreatedAt:       now,
			UpdatedAt:       now,
		})
		if err != nil {
			return fmt.Errorf("failed to create assignment: %w", err)
		}
		return nil
	})
	if err != nil {
		return assignment.AssignmentResponse{}, err
	}

	// Open-ended assignments become the employee's effective shift, so
	// the history ledger follows. Best effort: a ledger failure is
	// logged, never unwinds the assignment write.
	if created.IsOpen() {
		s.syncLedgerLogged(ctx, companyID, req.EmployeeID, req.ShiftTemplateID, from)
	}

	return toAssignmentResponse(created), nil
}

func (s *assignmentService) GetAssignment(ctx context.Context, companyID string, id string) (assignment.AssignmentResponse, error) {
	a, err := s.repo.GetByID(ctx, id, companyID)
	if err != nil {
		return assignment.AssignmentResponse{}, err
	}
	return toAssignmentResponse(a), nil
}

func (s *assignmentService) ListAssignments(ctx context.Context, companyID string, filter assignment.AssignmentFilter) ([]assignment.AssignmentResponse, error) {
	list, err := s.repo.List(ctx, companyID, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list assignments: %w", err)
	}

	responses := make([]assignment.AssignmentResponse, 0, len(list))
	for _, a := range list {
		responses = append(responses, toAssignmentResponse(a))
	}
	return responses, nil
}

func (s *assignmentService) UpdateAssignment(ctx context.Context, req assignment.UpdateAssignmentRequest) (assignment.AssignmentResponse, error) {
	if err := req.Validate(); err != nil {
		return assignment.AssignmentResponse{}, err
	}

	current, err := s.repo.GetByID(ctx, req.ID, req.CompanyID)
	if err != nil {
		return assignment.AssignmentResponse{}, err
	}

	unlock := s.locks.lock(req.CompanyID, current.EmployeeID)
	defer unlock()

	merged := current
	if req.ShiftTemplateID != nil {
		if _, err := s.templates.GetByID(ctx, *req.ShiftTemplateID, req.CompanyID); err != nil {
			return assignment.AssignmentResponse{}, err
		}
		merged.ShiftTemplateID = *req.ShiftTemplateID
	}
	if req.EffectiveFrom != nil {
		d, _ := time.Parse("2006-01-02", *req.EffectiveFrom)
		merged.EffectiveFrom = d
	}
	if req.EffectiveTo != nil {
		if *req.EffectiveTo == "" {
			merged.EffectiveTo = nil
		} else {
			d, _ := time.Parse("2006-01-02", *req.EffectiveTo)
			merged.EffectiveTo = &d
		}
	}
	if req.Reason != nil {
		merged.Reason = *req.Reason
	}
	merged.UpdatedBy = req.UpdatedBy

	if merged.EffectiveTo != nil && merged.EffectiveTo.Before(merged.EffectiveFrom) {
		return assignment.AssignmentResponse{}, assignment.ErrInvalidDateFormat
	}

	var updated assignment.ShiftAssignment
	err = s.repo.WithTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.LockEmployee(ctx, req.CompanyID, current.EmployeeID); err != nil {
			return err
		}

		existing, err := s.repo.ListByEmployee(ctx, req.CompanyID, current.EmployeeID)
		if err != nil {
			return fmt.Errorf("failed to list assignments: %w", err)
		}
		if assignment.Conflicts(existing, merged.EffectiveFrom, merged.EffectiveTo, merged.ID) {
			return assignment.ErrOverlappingAssignment
		}

		merged.UpdatedAt = time.Now()
		updated, err = s.repo.Update(ctx, merged)
		if err != nil {
			return fmt.Errorf("failed to update assignment: %w", err)
		}
		return nil
	})
	if err != nil {
		return assignment.AssignmentResponse{}, err
	}

	return toAssignmentResponse(updated), nil
}

func (s *assignmentService) DeleteAssignment(ctx context.Context, companyID string, id string, hard bool) error {
	current, err := s.repo.GetByID(ctx, id, companyID)
	if err != nil {
		return err
	}

	unlock := s.locks.lock(companyID, current.EmployeeID)
	defer unlock()

	if hard {
		if err := s.repo.Delete(ctx, id, companyID); err != nil {
			return fmt.Errorf("failed to delete assignment: %w", err)
		}
		return nil
	}

	// Soft delete closes the range at today. A future-dated assignment
	// closes at its own start instead, a range must never invert.
	today := time.Now().Truncate(24 * time.Hour)
	if today.Before(current.EffectiveFrom) {
		today = current.EffectiveFrom
	}
	current.EffectiveTo = &today
	current.UpdatedAt = time.Now()

	return s.repo.WithTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.LockEmployee(ctx, companyID, current.EmployeeID); err != nil {
			return err
		}

		// Shortening a valid range cannot newly conflict, but the check
		// runs against the other rows anyway.
		existing, err := s.repo.ListByEmployee(ctx, companyID, current.EmployeeID)
		if err != nil {
			return fmt.Errorf("failed to list assignments: %w", err)
		}
		if assignment.Conflicts(existing, current.EffectiveFrom, current.EffectiveTo, current.ID) {
			return assignment.ErrOverlappingAssignment
		}

		if _, err := s.repo.Update(ctx, current); err != nil {
			return fmt.Errorf("failed to close assignment: %w", err)
		}
		return nil
	})
}

func (s *assignmentService) GetShiftHistory(ctx context.Context, companyID string, employeeID string) ([]assignment.HistoryEntryResponse, error) {
	entries, err := s.history.ListByEmployee(ctx, companyID, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list shift history: %w", err)
	}
	if len(entries) == 0 {
		return nil, assignment.ErrEmployeeHistoryMissing
	}

	responses := make([]assignment.HistoryEntryResponse, 0, len(entries))
	for _, e := range entries {
		resp := assignment.HistoryEntryResponse{
			ShiftTemplateID: e.ShiftTemplateID,
			From:            e.From.Format("2006-01-02"),
		}
		if e.To != nil {
			v := e.To.Format("2006-01-02")
			resp.To = &v
		}
		responses = append(responses, resp)
	}
	return responses, nil
}

func toAssignmentResponse(a assignment.ShiftAssignment) assignment.AssignmentResponse {
	resp := assignment.AssignmentResponse{
		ID:              a.ID,
		CompanyID:       a.CompanyID,
		EmployeeID:      a.EmployeeID,
		ShiftTemplateID: a.ShiftTemplateID,
		EffectiveFrom:   a.EffectiveFrom.Format("2006-01-02"),
		Reason:          a.Reason,
		CreatedBy:       a.CreatedBy,
		UpdatedBy:       a.UpdatedBy,
		CreatedAt:       a.CreatedAt.Format(time.RFC3339),
		UpdatedAt:       a.UpdatedAt.Format(time.RFC3339),
	}
	if a.EffectiveTo != nil {
		v := a.EffectiveTo.Format("2006-01-02")
		resp.EffectiveTo = &v
	}
	return resp
}
