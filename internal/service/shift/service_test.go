package shift

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cmlabs-hris/shift-engine-go/internal/domain/assignment"
	"github.com/cmlabs-hris/shift-engine-go/internal/domain/shift"
	"github.com/cmlabs-hris/shift-engine-go/internal/pkg/validator"
	"github.com/cmlabs-hris/shift-engine-go/internal/repository/memory"
)

func date(s string) time.Time {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return d
}

func validCreateRequest() shift.CreateShiftTemplateRequest {
	return shift.CreateShiftTemplateRequest{
		Name:      "Day Shift",
		TimeIn:    "07:00",
		LateAfter: "07:15",
		TimeOut:   "16:00",
	}
}

func TestCreateShiftTemplate(t *testing.T) {
	ctx := context.Background()

	t.Run("creates active versioned template", func(t *testing.T) {
		svc, _ := newTestService(t)

		result, err := svc.CreateShiftTemplate(ctx, testCompanyID, validCreateRequest())
		require.NoError(t, err)
		assert.NotEmpty(t, result.ID)
		assert.True(t, result.Active)
		assert.Equal(t, 1, result.Version)
		assert.Equal(t, testCompanyID, result.CompanyID)
	})

	t.Run("rejects duplicate name within company", func(t *testing.T) {
		svc, _ := newTestService(t)

		_, err := svc.CreateShiftTemplate(ctx, testCompanyID, validCreateRequest())
		require.NoError(t, err)

		req := validCreateRequest()
		req.Name = "day shift" // uniqueness is case-insensitive
		_, err = svc.CreateShiftTemplate(ctx, testCompanyID, req)
		assert.ErrorIs(t, err, shift.ErrShiftTemplateNameExists)
	})

	t.Run("same name allowed in another company", func(t *testing.T) {
		svc, _ := newTestService(t)

		_, err := svc.CreateShiftTemplate(ctx, testCompanyID, validCreateRequest())
		require.NoError(t, err)
		_, err = svc.CreateShiftTemplate(ctx, "company-2", validCreateRequest())
		assert.NoError(t, err)
	})

	t.Run("entity invariants run on create", func(t *testing.T) {
		svc, _ := newTestService(t)

		req := validCreateRequest()
		req.LateAfter = "06:00"
		_, err := svc.CreateShiftTemplate(ctx, testCompanyID, req)

		var errs validator.ValidationErrors
		require.ErrorAs(t, err, &errs)
		assert.Equal(t, "late_after", errs[0].Field)
	})
}

func TestUpdateShiftTemplate(t *testing.T) {
	ctx := context.Background()

	t.Run("partial update re-validates merged template", func(t *testing.T) {
		svc, _ := newTestService(t)
		created, err := svc.CreateShiftTemplate(ctx, testCompanyID, validCreateRequest())
		require.NoError(t, err)

		// Patching only time_out must not slip past the same-day rule.
		badOut := "06:00"
		_, err = svc.UpdateShiftTemplate(ctx, shift.UpdateShiftTemplateRequest{
			ID:        created.ID,
			CompanyID: testCompanyID,
			TimeOut:   &badOut,
		})
		var errs validator.ValidationErrors
		require.ErrorAs(t, err, &errs)
		assert.Equal(t, "time_out", errs[0].Field)
	})

	t.Run("successful update bumps version", func(t *testing.T) {
		svc, _ := newTestService(t)
		created, err := svc.CreateShiftTemplate(ctx, testCompanyID, validCreateRequest())
		require.NoError(t, err)

		newName := "Morning Shift"
		updated, err := svc.UpdateShiftTemplate(ctx, shift.UpdateShiftTemplateRequest{
			ID:        created.ID,
			CompanyID: testCompanyID,
			Name:      &newName,
		})
		require.NoError(t, err)
		assert.Equal(t, "Morning Shift", updated.Name)
		assert.Equal(t, 2, updated.Version)
	})

	t.Run("rename onto an existing name conflicts", func(t *testing.T) {
		svc, _ := newTestService(t)
		_, err := svc.CreateShiftTemplate(ctx, testCompanyID, validCreateRequest())
		require.NoError(t, err)

		other := validCreateRequest()
		other.Name = "Night Shift"
		created, err := svc.CreateShiftTemplate(ctx, testCompanyID, other)
		require.NoError(t, err)

		taken := "Day Shift"
		_, err = svc.UpdateShiftTemplate(ctx, shift.UpdateShiftTemplateRequest{
			ID:        created.ID,
			CompanyID: testCompanyID,
			Name:      &taken,
		})
		assert.ErrorIs(t, err, shift.ErrShiftTemplateNameExists)
	})

	t.Run("unknown id", func(t *testing.T) {
		svc, _ := newTestService(t)
		name := "Anything"
		_, err := svc.UpdateShiftTemplate(ctx, shift.UpdateShiftTemplateRequest{
			ID:        "missing",
			CompanyID: testCompanyID,
			Name:      &name,
		})
		assert.ErrorIs(t, err, shift.ErrShiftTemplateNotFound)
	})
}

func TestDeleteShiftTemplate(t *testing.T) {
	ctx := context.Background()

	t.Run("hard delete when nothing references the template", func(t *testing.T) {
		svc, _ := newTestService(t)
		created, err := svc.CreateShiftTemplate(ctx, testCompanyID, validCreateRequest())
		require.NoError(t, err)

		require.NoError(t, svc.DeleteShiftTemplate(ctx, testCompanyID, created.ID))
		_, err = svc.GetShiftTemplate(ctx, testCompanyID, created.ID)
		assert.ErrorIs(t, err, shift.ErrShiftTemplateNotFound)
	})

	t.Run("soft delete when an assignment references it", func(t *testing.T) {
		templateRepo := memory.NewShiftTemplateRepository()
		assignmentRepo := memory.NewAssignmentRepository()
		svc := NewShiftTemplateService(templateRepo, assignmentRepo, nil)

		created, err := svc.CreateShiftTemplate(ctx, testCompanyID, validCreateRequest())
		require.NoError(t, err)

		_, err = assignmentRepo.Create(ctx, assignment.ShiftAssignment{
			CompanyID:       testCompanyID,
			EmployeeID:      "emp-1",
			ShiftTemplateID: created.ID,
			EffectiveFrom:   date("2025-01-01"),
		})
		require.NoError(t, err)

		require.NoError(t, svc.DeleteShiftTemplate(ctx, testCompanyID, created.ID))

		// Row survives for historical resolution but drops out of use.
		got, err := svc.GetShiftTemplate(ctx, testCompanyID, created.ID)
		require.NoError(t, err)
		assert.False(t, got.Active)
	})
}

func TestListShiftTemplates(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	names := []string{"Day Shift", "Evening Crew", "Night Shift"}
	for _, name := range names {
		req := validCreateRequest()
		req.Name = name
		_, err := svc.CreateShiftTemplate(ctx, testCompanyID, req)
		require.NoError(t, err)
	}

	t.Run("paginates with defaults", func(t *testing.T) {
		result, err := svc.ListShiftTemplates(ctx, testCompanyID, shift.ShiftTemplateFilter{})
		require.NoError(t, err)
		assert.Equal(t, int64(3), result.TotalCount)
		assert.Equal(t, 1, result.Page)
		assert.Equal(t, 20, result.Limit)
		assert.Len(t, result.Templates, 3)
	})

	t.Run("name filter narrows results", func(t *testing.T) {
		name := "night"
		result, err := svc.ListShiftTemplates(ctx, testCompanyID, shift.ShiftTemplateFilter{Name: &name})
		require.NoError(t, err)
		require.Len(t, result.Templates, 1)
		assert.Equal(t, "Night Shift", result.Templates[0].Name)
	})

	t.Run("small pages report totals", func(t *testing.T) {
		result, err := svc.ListShiftTemplates(ctx, testCompanyID, shift.ShiftTemplateFilter{Limit: 2})
		require.NoError(t, err)
		assert.Len(t, result.Templates, 2)
		assert.Equal(t, 2, result.TotalPages)
		assert.Equal(t, "1 - 2 of 3", result.Showing)
	})
}
