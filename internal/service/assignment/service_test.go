package assignment

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cmlabs-hris/shift-engine-go/internal/domain/assignment"
	"github.com/cmlabs-hris/shift-engine-go/internal/domain/shift"
	"github.com/cmlabs-hris/shift-engine-go/internal/repository/memory"
)

const testCompanyID = "company-1"

type testEnv struct {
	svc            assignment.AssignmentService
	templateRepo   *memory.ShiftTemplateRepository
	assignmentRepo *memory.AssignmentRepository
	historyRepo    *memory.HistoryRepository
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	templateRepo := memory.NewShiftTemplateRepository()
	assignmentRepo := memory.NewAssignmentRepository()
	historyRepo := memory.NewHistoryRepository()
	return &testEnv{
		svc:            NewAssignmentService(assignmentRepo, historyRepo, templateRepo),
		templateRepo:   templateRepo,
		assignmentRepo: assignmentRepo,
		historyRepo:    historyRepo,
	}
}

func (e *testEnv) seedTemplate(t *testing.T, name string) shift.ShiftTemplate {
	t.Helper()
	tpl, err := e.templateRepo.Create(context.Background(), shift.ShiftTemplate{
		CompanyID: testCompanyID,
		Name:      name,
		Active:    true,
		TimeIn:    "07:00",
		LateAfter: "07:15",
		TimeOut:   "16:00",
	})
	require.NoError(t, err)
	return tpl
}

func date(s string) time.Time {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return d
}

func strPtr(s string) *string { return &s }

// assertNoOverlaps checks the pairwise overlap predicate over every
// assignment currently stored for the employee.
func assertNoOverlaps(t *testing.T, e *testEnv, employeeID string) {
	t.Helper()
	rows, err := e.assignmentRepo.ListByEmployee(context.Background(), testCompanyID, employeeID)
	require.NoError(t, err)
	for i := range rows {
		for j := i + 1; j < len(rows); j++ {
			assert.False(t,
				assignment.RangesOverlap(rows[i].EffectiveFrom, rows[i].EffectiveTo, rows[j].EffectiveFrom, rows[j].EffectiveTo),
				"rows %s and %s overlap", rows[i].ID, rows[j].ID,
			)
		}
	}
}

func TestCreateAssignment(t *testing.T) {
	ctx := context.Background()

	t.Run("creates and records history", func(t *testing.T) {
		e := newTestEnv(t)
		tpl := e.seedTemplate(t, "Day Shift")

		result, err := e.svc.CreateAssignment(ctx, testCompanyID, assignment.CreateAssignmentRequest{
			EmployeeID:      "emp-1",
			ShiftTemplateID: tpl.ID,
			EffectiveFrom:   "2025-01-01",
		})
		require.NoError(t, err)
		assert.Nil(t, result.EffectiveTo)

		history, err := e.svc.GetShiftHistory(ctx, testCompanyID, "emp-1")
		require.NoError(t, err)
		require.Len(t, history, 1)
		assert.Equal(t, tpl.ID, history[0].ShiftTemplateID)
		assert.Nil(t, history[0].To)
	})

	t.Run("rejects overlap and keeps invariant", func(t *testing.T) {
		e := newTestEnv(t)
		tpl := e.seedTemplate(t, "Day Shift")

		_, err := e.svc.CreateAssignment(ctx, testCompanyID, assignment.CreateAssignmentRequest{
			EmployeeID:      "emp-1",
			ShiftTemplateID: tpl.ID,
			EffectiveFrom:   "2025-01-01",
			EffectiveTo:     strPtr("2025-06-30"),
		})
		require.NoError(t, err)
		assertNoOverlaps(t, e, "emp-1")

		_, err = e.svc.CreateAssignment(ctx, testCompanyID, assignment.CreateAssignmentRequest{
			EmployeeID:      "emp-1",
			ShiftTemplateID: tpl.ID,
			EffectiveFrom:   "2025-06-30",
		})
		assert.ErrorIs(t, err, assignment.ErrOverlappingAssignment)
		assertNoOverlaps(t, e, "emp-1")

		_, err = e.svc.CreateAssignment(ctx, testCompanyID, assignment.CreateAssignmentRequest{
			EmployeeID:      "emp-1",
			ShiftTemplateID: tpl.ID,
			EffectiveFrom:   "2025-07-01",
		})
		require.NoError(t, err)
		assertNoOverlaps(t, e, "emp-1")
	})

	t.Run("same range allowed for another employee", func(t *testing.T) {
		e := newTestEnv(t)
		tpl := e.seedTemplate(t, "Day Shift")

		for _, employee := range []string{"emp-1", "emp-2"} {
			_, err := e.svc.CreateAssignment(ctx, testCompanyID, assignment.CreateAssignmentRequest{
				EmployeeID:      employee,
				ShiftTemplateID: tpl.ID,
				EffectiveFrom:   "2025-01-01",
			})
			require.NoError(t, err)
		}
	})

	t.Run("unknown template rejected", func(t *testing.T) {
		e := newTestEnv(t)
		_, err := e.svc.CreateAssignment(ctx, testCompanyID, assignment.CreateAssignmentRequest{
			EmployeeID:      "emp-1",
			ShiftTemplateID: "missing",
			EffectiveFrom:   "2025-01-01",
		})
		assert.ErrorIs(t, err, shift.ErrShiftTemplateNotFound)
	})

	t.Run("effective_to before effective_from rejected", func(t *testing.T) {
		e := newTestEnv(t)
		tpl := e.seedTemplate(t, "Day Shift")

		_, err := e.svc.CreateAssignment(ctx, testCompanyID, assignment.CreateAssignmentRequest{
			EmployeeID:      "emp-1",
			ShiftTemplateID: tpl.ID,
			EffectiveFrom:   "2025-06-01",
			EffectiveTo:     strPtr("2025-01-01"),
		})
		assert.Error(t, err)
	})
}

func TestUpdateAssignment(t *testing.T) {
	ctx := context.Background()

	t.Run("self exclusion lets a row shrink", func(t *testing.T) {
		e := newTestEnv(t)
		tpl := e.seedTemplate(t, "Day Shift")

		created, err := e.svc.CreateAssignment(ctx, testCompanyID, assignment.CreateAssignmentRequest{
			EmployeeID:      "emp-1",
			ShiftTemplateID: tpl.ID,
			EffectiveFrom:   "2025-01-01",
		})
		require.NoError(t, err)

		updated, err := e.svc.UpdateAssignment(ctx, assignment.UpdateAssignmentRequest{
			ID:          created.ID,
			CompanyID:   testCompanyID,
			EffectiveTo: strPtr("2025-03-31"),
		})
		require.NoError(t, err)
		require.NotNil(t, updated.EffectiveTo)
		assert.Equal(t, "2025-03-31", *updated.EffectiveTo)
		assertNoOverlaps(t, e, "emp-1")
	})

	t.Run("moving onto another row conflicts", func(t *testing.T) {
		e := newTestEnv(t)
		tpl := e.seedTemplate(t, "Day Shift")

		_, err := e.svc.CreateAssignment(ctx, testCompanyID, assignment.CreateAssignmentRequest{
			EmployeeID:      "emp-1",
			ShiftTemplateID: tpl.ID,
			EffectiveFrom:   "2025-01-01",
			EffectiveTo:     strPtr("2025-03-31"),
		})
		require.NoError(t, err)

		second, err := e.svc.CreateAssignment(ctx, testCompanyID, assignment.CreateAssignmentRequest{
			EmployeeID:      "emp-1",
			ShiftTemplateID: tpl.ID,
			EffectiveFrom:   "2025-04-01",
		})
		require.NoError(t, err)

		_, err = e.svc.UpdateAssignment(ctx, assignment.UpdateAssignmentRequest{
			ID:            second.ID,
			CompanyID:     testCompanyID,
			EffectiveFrom: strPtr("2025-03-01"),
		})
		assert.ErrorIs(t, err, assignment.ErrOverlappingAssignment)
		assertNoOverlaps(t, e, "emp-1")
	})
}

func TestDeleteAssignment(t *testing.T) {
	ctx := context.Background()

	t.Run("hard delete removes the row", func(t *testing.T) {
		e := newTestEnv(t)
		tpl := e.seedTemplate(t, "Day Shift")

		created, err := e.svc.CreateAssignment(ctx, testCompanyID, assignment.CreateAssignmentRequest{
			EmployeeID:      "emp-1",
			ShiftTemplateID: tpl.ID,
			EffectiveFrom:   "2025-01-01",
		})
		require.NoError(t, err)

		require.NoError(t, e.svc.DeleteAssignment(ctx, testCompanyID, created.ID, true))
		_, err = e.svc.GetAssignment(ctx, testCompanyID, created.ID)
		assert.ErrorIs(t, err, assignment.ErrAssignmentNotFound)
	})

	t.Run("soft delete closes the range", func(t *testing.T) {
		e := newTestEnv(t)
		tpl := e.seedTemplate(t, "Day Shift")

		created, err := e.svc.CreateAssignment(ctx, testCompanyID, assignment.CreateAssignmentRequest{
			EmployeeID:      "emp-1",
			ShiftTemplateID: tpl.ID,
			EffectiveFrom:   "2025-01-01",
		})
		require.NoError(t, err)

		require.NoError(t, e.svc.DeleteAssignment(ctx, testCompanyID, created.ID, false))

		got, err := e.svc.GetAssignment(ctx, testCompanyID, created.ID)
		require.NoError(t, err)
		require.NotNil(t, got.EffectiveTo)
		assert.Equal(t, time.Now().Truncate(24*time.Hour).Format("2006-01-02"), *got.EffectiveTo)
	})

	t.Run("soft delete of a future assignment closes at its start", func(t *testing.T) {
		e := newTestEnv(t)
		tpl := e.seedTemplate(t, "Day Shift")

		from := time.Now().AddDate(0, 0, 30).Format("2006-01-02")
		created, err := e.svc.CreateAssignment(ctx, testCompanyID, assignment.CreateAssignmentRequest{
			EmployeeID:      "emp-1",
			ShiftTemplateID: tpl.ID,
			EffectiveFrom:   from,
		})
		require.NoError(t, err)

		require.NoError(t, e.svc.DeleteAssignment(ctx, testCompanyID, created.ID, false))

		// Closing at today would invert the range.
		got, err := e.svc.GetAssignment(ctx, testCompanyID, created.ID)
		require.NoError(t, err)
		require.NotNil(t, got.EffectiveTo)
		assert.Equal(t, from, *got.EffectiveTo)
	})
}

func TestSyncShiftChange(t *testing.T) {
	ctx := context.Background()

	t.Run("closes old interval and opens the new one", func(t *testing.T) {
		e := newTestEnv(t)
		dayShift := e.seedTemplate(t, "Day Shift")
		nightShift := e.seedTemplate(t, "Night Shift")

		_, err := e.svc.CreateAssignment(ctx, testCompanyID, assignment.CreateAssignmentRequest{
			EmployeeID:      "emp-1",
			ShiftTemplateID: dayShift.ID,
			EffectiveFrom:   "2025-01-01",
		})
		require.NoError(t, err)

		require.NoError(t, e.svc.SyncShiftChange(ctx, testCompanyID, "emp-1", nightShift.ID, date("2025-06-01")))

		history, err := e.svc.GetShiftHistory(ctx, testCompanyID, "emp-1")
		require.NoError(t, err)
		require.Len(t, history, 2)
		require.NotNil(t, history[0].To)
		assert.Equal(t, "2025-06-01", *history[0].To)
		assert.Equal(t, nightShift.ID, history[1].ShiftTemplateID)
		assert.Nil(t, history[1].To)

		rows, err := e.assignmentRepo.ListByEmployee(ctx, testCompanyID, "emp-1")
		require.NoError(t, err)
		require.Len(t, rows, 2)
		require.NotNil(t, rows[0].EffectiveTo)
		assert.Equal(t, "2025-05-31", rows[0].EffectiveTo.Format("2006-01-02"))
		assert.Equal(t, assignment.AutoChangeReason, rows[1].Reason)
		assertNoOverlaps(t, e, "emp-1")
	})

	t.Run("re-running with same arguments is a no-op", func(t *testing.T) {
		e := newTestEnv(t)
		tpl := e.seedTemplate(t, "Day Shift")

		for i := 0; i < 2; i++ {
			require.NoError(t, e.svc.SyncShiftChange(ctx, testCompanyID, "emp-1", tpl.ID, date("2025-06-01")))
		}

		history, err := e.historyRepo.ListByEmployee(ctx, testCompanyID, "emp-1")
		require.NoError(t, err)
		openEntries := 0
		for _, entry := range history {
			if entry.To == nil {
				openEntries++
			}
		}
		assert.Equal(t, 1, openEntries)
		assert.Len(t, history, 1)

		rows, err := e.assignmentRepo.ListByEmployee(ctx, testCompanyID, "emp-1")
		require.NoError(t, err)
		openRows := 0
		for _, row := range rows {
			if row.EffectiveTo == nil {
				openRows++
			}
		}
		assert.Equal(t, 1, openRows)
		assert.Len(t, rows, 1)
	})

	t.Run("same-day change closes the old row at its start", func(t *testing.T) {
		e := newTestEnv(t)
		dayShift := e.seedTemplate(t, "Day Shift")
		nightShift := e.seedTemplate(t, "Night Shift")

		_, err := e.svc.CreateAssignment(ctx, testCompanyID, assignment.CreateAssignmentRequest{
			EmployeeID:      "emp-1",
			ShiftTemplateID: dayShift.ID,
			EffectiveFrom:   "2025-06-01",
		})
		require.NoError(t, err)

		require.NoError(t, e.svc.SyncShiftChange(ctx, testCompanyID, "emp-1", nightShift.ID, date("2025-06-01")))

		rows, err := e.assignmentRepo.ListByEmployee(ctx, testCompanyID, "emp-1")
		require.NoError(t, err)
		require.Len(t, rows, 2)

		// Closing the day row at effectiveFrom-1 would invert its range.
		var closed *assignment.ShiftAssignment
		for i := range rows {
			if rows[i].EffectiveTo != nil {
				closed = &rows[i]
			}
		}
		require.NotNil(t, closed)
		assert.Equal(t, dayShift.ID, closed.ShiftTemplateID)
		assert.False(t, closed.EffectiveTo.Before(closed.EffectiveFrom))
		assert.Equal(t, "2025-06-01", closed.EffectiveTo.Format("2006-01-02"))
	})

	t.Run("missing employee id rejected", func(t *testing.T) {
		e := newTestEnv(t)
		err := e.svc.SyncShiftChange(ctx, testCompanyID, "", "tpl", date("2025-06-01"))
		assert.ErrorIs(t, err, assignment.ErrEmployeeIDRequired)
	})
}

func TestReconcileHistories(t *testing.T) {
	ctx := context.Background()

	t.Run("repairs a missing ledger entry", func(t *testing.T) {
		e := newTestEnv(t)
		tpl := e.seedTemplate(t, "Day Shift")

		// Simulate an aborted sync: the assignment row exists, the
		// ledger write never happened.
		_, err := e.assignmentRepo.Create(ctx, assignment.ShiftAssignment{
			CompanyID:       testCompanyID,
			EmployeeID:      "emp-1",
			ShiftTemplateID: tpl.ID,
			EffectiveFrom:   date("2025-01-01"),
		})
		require.NoError(t, err)

		require.NoError(t, e.svc.ReconcileHistories(ctx))

		history, err := e.svc.GetShiftHistory(ctx, testCompanyID, "emp-1")
		require.NoError(t, err)
		require.Len(t, history, 1)
		assert.Equal(t, tpl.ID, history[0].ShiftTemplateID)
		assert.Nil(t, history[0].To)
	})

	t.Run("second pass changes nothing", func(t *testing.T) {
		e := newTestEnv(t)
		tpl := e.seedTemplate(t, "Day Shift")

		_, err := e.svc.CreateAssignment(ctx, testCompanyID, assignment.CreateAssignmentRequest{
			EmployeeID:      "emp-1",
			ShiftTemplateID: tpl.ID,
			EffectiveFrom:   "2025-01-01",
		})
		require.NoError(t, err)

		require.NoError(t, e.svc.ReconcileHistories(ctx))
		require.NoError(t, e.svc.ReconcileHistories(ctx))

		rows, err := e.assignmentRepo.ListByEmployee(ctx, testCompanyID, "emp-1")
		require.NoError(t, err)
		assert.Len(t, rows, 1)

		history, err := e.historyRepo.ListByEmployee(ctx, testCompanyID, "emp-1")
		require.NoError(t, err)
		assert.Len(t, history, 1)
	})
}

// txRecordingRepo wraps the memory repository and records the order of
// write-path calls relative to the transaction boundary.
type txRecordingRepo struct {
	*memory.AssignmentRepository
	events []string
}

func (r *txRecordingRepo) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	r.events = append(r.events, "begin")
	err := r.AssignmentRepository.WithTransaction(ctx, fn)
	r.events = append(r.events, "end")
	return err
}

func (r *txRecordingRepo) LockEmployee(ctx context.Context, companyID string, employeeID string) error {
	r.events = append(r.events, "lock")
	return r.AssignmentRepository.LockEmployee(ctx, companyID, employeeID)
}

func (r *txRecordingRepo) ListByEmployee(ctx context.Context, companyID string, employeeID string) ([]assignment.ShiftAssignment, error) {
	r.events = append(r.events, "list")
	return r.AssignmentRepository.ListByEmployee(ctx, companyID, employeeID)
}

func (r *txRecordingRepo) Create(ctx context.Context, a assignment.ShiftAssignment) (assignment.ShiftAssignment, error) {
	r.events = append(r.events, "create")
	return r.AssignmentRepository.Create(ctx, a)
}

func (r *txRecordingRepo) CloseOpenRows(ctx context.Context, companyID string, employeeID string, to time.Time) (int, error) {
	r.events = append(r.events, "close")
	return r.AssignmentRepository.CloseOpenRows(ctx, companyID, employeeID, to)
}

func TestWritePathsRunInOneTransaction(t *testing.T) {
	ctx := context.Background()

	newRecordingEnv := func(t *testing.T) (assignment.AssignmentService, *txRecordingRepo, shift.ShiftTemplate) {
		t.Helper()
		templateRepo := memory.NewShiftTemplateRepository()
		repo := &txRecordingRepo{AssignmentRepository: memory.NewAssignmentRepository()}
		svc := NewAssignmentService(repo, memory.NewHistoryRepository(), templateRepo)

		tpl, err := templateRepo.Create(ctx, shift.ShiftTemplate{
			CompanyID: testCompanyID,
			Name:      "Day Shift",
			Active:    true,
			TimeIn:    "07:00",
			LateAfter: "07:15",
			TimeOut:   "16:00",
		})
		require.NoError(t, err)
		return svc, repo, tpl
	}

	t.Run("create locks, checks and writes inside the transaction", func(t *testing.T) {
		svc, repo, tpl := newRecordingEnv(t)

		_, err := svc.CreateAssignment(ctx, testCompanyID, assignment.CreateAssignmentRequest{
			EmployeeID:      "emp-1",
			ShiftTemplateID: tpl.ID,
			EffectiveFrom:   "2025-01-01",
		})
		require.NoError(t, err)

		// A lock, check or write outside the transaction would leave the
		// overlap check unserialized against writers in other processes.
		assert.Equal(t, []string{"begin", "lock", "list", "create", "end"}, repo.events)
	})

	t.Run("sync runs all four steps inside the transaction", func(t *testing.T) {
		svc, repo, tpl := newRecordingEnv(t)

		require.NoError(t, svc.SyncShiftChange(ctx, testCompanyID, "emp-1", tpl.ID, date("2025-06-01")))

		assert.Equal(t, []string{"begin", "lock", "list", "close", "create", "end"}, repo.events)
	})
}
