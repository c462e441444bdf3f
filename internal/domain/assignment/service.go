package assignment

import (
	"context"
	"time"
)

type AssignmentService interface {
	// Shift Assignment CRUD
	CreateAssignment(ctx context.Context, companyID string, req CreateAssignmentRequest) (AssignmentResponse, error)
	GetAssignment(ctx context.Context, companyID string, id string) (AssignmentResponse, error)
	ListAssignments(ctx context.Context, companyID string, filter AssignmentFilter) ([]AssignmentResponse, error)
	UpdateAssignment(ctx context.Context, req UpdateAssignmentRequest) (AssignmentResponse, error)
	// DeleteAssignment removes the row when hard is true, otherwise
	// closes the range at the current date.
	DeleteAssignment(ctx context.Context, companyID string, id string, hard bool) error

	// Shift History
	GetShiftHistory(ctx context.Context, companyID string, employeeID string) ([]HistoryEntryResponse, error)

	// SyncShiftChange reconciles the history ledger and the assignment
	// table after an employee's effective shift changes. Safe to re-run
	// with the same arguments.
	SyncShiftChange(ctx context.Context, companyID string, employeeID string, shiftTemplateID string, effectiveFrom time.Time) error

	// ReconcileHistories re-runs the ledger sync for every employee with
	// an open assignment. Repairs partial sync effects left behind by an
	// aborted SyncShiftChange.
	ReconcileHistories(ctx context.Context) error
}
