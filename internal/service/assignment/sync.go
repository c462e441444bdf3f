package assignment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/cmlabs-hris/shift-engine-go/internal/domain/assignment"
)

// SyncShiftChange applies an externally triggered shift change: close
// the open history interval, append the new one, close open assignment
// rows and create the new auto row. Every step checks current state
// first, so re-running with the same arguments is a no-op and a partial
// earlier run is repaired rather than duplicated.
func (s *assignmentService) SyncShiftChange(ctx context.Context, companyID string, employeeID string, shiftTemplateID string, effectiveFrom time.Time) error {
	if employeeID == "" {
		return assignment.ErrEmployeeIDRequired
	}

	unlock := s.locks.lock(companyID, employeeID)
	defer unlock()

	// All four steps commit together; the advisory lock holds for the
	// whole transaction, so concurrent syncs for one employee serialize
	// across processes too.
	return s.repo.WithTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.LockEmployee(ctx, companyID, employeeID); err != nil {
			return err
		}

		if err := s.syncLedger(ctx, companyID, employeeID, shiftTemplateID, effectiveFrom); err != nil {
			return err
		}

		existing, err := s.repo.ListByEmployee(ctx, companyID, employeeID)
		if err != nil {
			return fmt.Errorf("failed to list assignments: %w", err)
		}
		for _, a := range existing {
			if a.IsOpen() && a.ShiftTemplateID == shiftTemplateID && a.EffectiveFrom.Equal(effectiveFrom) {
				return nil
			}
		}

		// Closed rows end the day before the new shift starts; an
		// inclusive range ending on the start day would collide with the
		// new row. A same-day change closes the old row at its own start
		// instead, the repository clamps the date.
		closeAt := effectiveFrom.AddDate(0, 0, -1)
		if _, err := s.repo.CloseOpenRows(ctx, companyID, employeeID, closeAt); err != nil {
			return fmt.Errorf("failed to close open assignments: %w", err)
		}

		now := time.Now()
		_, err = s.repo.Create(ctx, assignment.ShiftAssignment{
			ID:              uuid.Must(uuid.NewV7()).String(),
			CompanyID:       companyID,
			EmployeeID:      employeeID,
			ShiftTemplateID: shiftTemplateID,
			EffectiveFrom:   effectiveFrom,
			Reason:          assignment.AutoChangeReason,
			CreatedBy:       "system",
			CreatedAt:       now,
			UpdatedAt:       now,
		})
		if err != nil {
			return fmt.Errorf("failed to create auto assignment: %w", err)
		}

		return nil
	})
}

// ReconcileHistories walks every open assignment and re-runs the ledger
// sync for it. Runs on a schedule to repair inconsistencies left by
// aborted syncs; each employee's sync is independent, so one failure
// does not stop the pass.
func (s *assignmentService) ReconcileHistories(ctx context.Context) error {
	open, err := s.repo.ListOpen(ctx)
	if err != nil {
		return fmt.Errorf("failed to list open assignments: %w", err)
	}

	// An employee with several open rows is itself an inconsistency;
	// sync against the newest one, the close step retires the rest.
	latest := make(map[string]assignment.ShiftAssignment)
	for _, a := range open {
		key := a.CompanyID + "|" + a.EmployeeID
		if cur, ok := latest[key]; !ok || a.EffectiveFrom.After(cur.EffectiveFrom) {
			latest[key] = a
		}
	}

	var failures int
	for _, a := range latest {
		if err := s.SyncShiftChange(ctx, a.CompanyID, a.EmployeeID, a.ShiftTemplateID, a.EffectiveFrom); err != nil {
			failures++
			slog.Error("Shift history reconciliation failed",
				"company_id", a.CompanyID,
				"employee_id", a.EmployeeID,
				"error", err,
			)
		}
	}

	slog.Info("Shift history reconciliation completed",
		"employees", len(latest),
		"failures", failures,
	)
	return nil
}

// syncLedger brings the history ledger in line with the employee's new
// effective shift. Caller holds the employee lock.
func (s *assignmentService) syncLedger(ctx context.Context, companyID string, employeeID string, shiftTemplateID string, effectiveFrom time.Time) error {
	open, err := s.history.GetOpenEntry(ctx, companyID, employeeID)
	switch {
	case err == nil:
		if open.ShiftTemplateID == shiftTemplateID && open.From.Equal(effectiveFrom) {
			return nil
		}
		if _, err := s.history.CloseOpenEntries(ctx, companyID, employeeID, effectiveFrom); err != nil {
			return fmt.Errorf("failed to close open history entries: %w", err)
		}
	case errors.Is(err, assignment.ErrEmployeeHistoryMissing):
		// first entry for this employee
	default:
		return fmt.Errorf("failed to read open history entry: %w", err)
	}

	now := time.Now()
	_, err = s.history.Append(ctx, assignment.HistoryEntry{
		ID:              uuid.Must(uuid.NewV7()).String(),
		CompanyID:       companyID,
		EmployeeID:      employeeID,
		ShiftTemplateID: shiftTemplateID,
		From:            effectiveFrom,
		CreatedAt:       now,
		UpdatedAt:       now,
	})
	if err != nil {
		return fmt.Errorf("failed to append history entry: %w", err)
	}
	return nil
}

// syncLedgerLogged is the best-effort variant used after assignment
// writes. Failures land in the log and a later reconciliation pass, not
// in the caller's response.
func (s *assignmentService) syncLedgerLogged(ctx context.Context, companyID string, employeeID string, shiftTemplateID string, effectiveFrom time.Time) {
	if err := s.syncLedger(ctx, companyID, employeeID, shiftTemplateID, effectiveFrom); err != nil {
		slog.Error("Shift history sync failed",
			"company_id", companyID,
			"employee_id", employeeID,
			"shift_template_id", shiftTemplateID,
			"error", err,
		)
	}
}
