package assignment

import (
	"context"
	"time"
)

// AssignmentRepository is the persistence boundary for shift
// assignments. Implementations return ErrAssignmentNotFound for missing
// rows. Writers for the same (company, employee) are serialized by the
// service; repositories only need per-call consistency.
type AssignmentRepository interface {
	// WithTransaction runs fn with every repository call made through
	// the returned context joined to one storage transaction, so a
	// LockEmployee taken inside fn holds until fn returns. In-memory
	// implementations run fn directly.
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
	// LockEmployee serializes the caller against other writers for the
	// same (company, employee) at the storage layer, for the duration of
	// the surrounding transaction. Only meaningful inside
	// WithTransaction; in-memory implementations may no-op, the service
	// layer already holds a per-employee lock in process.
	LockEmployee(ctx context.Context, companyID string, employeeID string) error
	Create(ctx context.Context, a ShiftAssignment) (ShiftAssignment, error)
	GetByID(ctx context.Context, id string, companyID string) (ShiftAssignment, error)
	ListByEmployee(ctx context.Context, companyID string, employeeID string) ([]ShiftAssignment, error)
	List(ctx context.Context, companyID string, filter AssignmentFilter) ([]ShiftAssignment, error)
	Update(ctx context.Context, a ShiftAssignment) (ShiftAssignment, error)
	// CloseOpenRows sets effective_to on every open-ended row for the
	// employee and returns how many rows were closed. A row starting
	// after the close date is closed at its own effective_from so the
	// range never inverts.
	CloseOpenRows(ctx context.Context, companyID string, employeeID string, to time.Time) (int, error)
	// ListOpen returns every open-ended assignment across all companies.
	// Feeds the periodic history reconciliation pass.
	ListOpen(ctx context.Context) ([]ShiftAssignment, error)
	Delete(ctx context.Context, id string, companyID string) error
}

// HistoryRepository owns the denormalized per-employee shift ledger.
type HistoryRepository interface {
	ListByEmployee(ctx context.Context, companyID string, employeeID string) ([]HistoryEntry, error)
	GetOpenEntry(ctx context.Context, companyID string, employeeID string) (HistoryEntry, error)
	CloseOpenEntries(ctx context.Context, companyID string, employeeID string, to time.Time) (int, error)
	Append(ctx context.Context, entry HistoryEntry) (HistoryEntry, error)
}
