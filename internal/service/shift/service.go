package shift

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/cmlabs-hris/shift-engine-go/internal/domain/assignment"
	"github.com/cmlabs-hris/shift-engine-go/internal/domain/shift"
	"github.com/cmlabs-hris/shift-engine-go/internal/pkg/cache"
)

// assignmentLister is the slice of the assignment repository the template
// service needs to decide between soft and hard delete.
type assignmentLister interface {
	List(ctx context.Context, companyID string, filter assignment.AssignmentFilter) ([]assignment.ShiftAssignment, error)
}

type shiftTemplateService struct {
	repo        shift.ShiftTemplateRepository
	assignments assignmentLister
	cache       cache.Cache
}

func NewShiftTemplateService(repo shift.ShiftTemplateRepository, assignments assignmentLister, c cache.Cache) shift.ShiftTemplateService {
	if c == nil {
		c = cache.Noop{}
	}
	return &shiftTemplateService{
		repo:        repo,
		assignments: assignments,
		cache:       c,
	}
}

func templateCacheKey(companyID, id string) string {
	return "shift_template:" + companyID + ":" + id
}

func (s *shiftTemplateService) CreateShiftTemplate(ctx context.Context, companyID string, req shift.CreateShiftTemplateRequest) (shift.ShiftTemplateResponse, error) {
	if err := req.Validate(); err != nil {
		return shift.ShiftTemplateResponse{}, err
	}

	tpl := assembleTemplate(companyID, req)
	tpl.ID = uuid.Must(uuid.NewV7()).String()
	tpl.Active = true
	tpl.Version = 1

	if err := tpl.Validate(); err != nil {
		return shift.ShiftTemplateResponse{}, err
	}

	exists, err := s.repo.ExistsByName(ctx, companyID, tpl.Name, "")
	if err != nil {
		return shift.ShiftTemplateResponse{}, fmt.Errorf("failed to check shift template name: %w", err)
	}
	if exists {
		return shift.ShiftTemplateResponse{}, shift.ErrShiftTemplateNameExists
	}

	created, err := s.repo.Create(ctx, tpl)
	if err != nil {
		return shift.ShiftTemplateResponse{}, fmt.Errorf("failed to create shift template: %w", err)
	}

	return toTemplateResponse(created), nil
}

func (s *shiftTemplateService) GetShiftTemplate(ctx context.Context, companyID string, id string) (shift.ShiftTemplateResponse, error) {
	key := templateCacheKey(companyID, id)
	if raw, ok := s.cache.Get(ctx, key); ok {
		var tpl shift.ShiftTemplate
		if err := json.Unmarshal(raw, &tpl); err == nil {
			return toTemplateResponse(tpl), nil
		}
	}

	tpl, err := s.repo.GetByID(ctx, id, companyID)
	if err != nil {
		return shift.ShiftTemplateResponse{}, err
	}

	if raw, err := json.Marshal(tpl); err == nil {
		s.cache.Set(ctx, key, raw)
	}

	return toTemplateResponse(tpl), nil
}

func (s *shiftTemplateService) ListShiftTemplates(ctx context.Context, companyID string, filter shift.ShiftTemplateFilter) (shift.ListShiftTemplateResponse, error) {
	if err := filter.Validate(); err != nil {
		return shift.ListShiftTemplateResponse{}, err
	}

	templates, total, err := s.repo.ListByCompany(ctx, companyID, filter)
	if err != nil {
		return shift.ListShiftTemplateResponse{}, fmt.Errorf("failed to list shift templates: %w", err)
	}

	responses := make([]shift.ShiftTemplateResponse, 0, len(templates))
	for _, tpl := range templates {
		responses = append(responses, toTemplateResponse(tpl))
	}

	totalPages := int(math.Ceil(float64(total) / float64(filter.Limit)))
	showingFrom := (filter.Page-1)*filter.Limit + 1
	showingTo := showingFrom + len(responses) - 1
	if len(responses) == 0 {
		showingFrom = 0
		showingTo = 0
	}

	return shift.ListShiftTemplateResponse{
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: totalPages,
		Showing:    fmt.Sprintf("%d - %d of %d", showingFrom, showingTo, total),
		Templates:  responses,
	}, nil
}

func (s *shiftTemplateService) UpdateShiftTemplate(ctx context.Context, req shift.UpdateShiftTemplateRequest) (shift.ShiftTemplateResponse, error) {
	if err := req.Validate(); err != nil {
		return shift.ShiftTemplateResponse{}, err
	}

	current, err := s.repo.GetByID(ctx, req.ID, req.CompanyID)
	if err != nil {
		return shift.ShiftTemplateResponse{}, err
	}

	merged := mergeTemplate(current, req)
	merged.Version = current.Version + 1

	// Partial updates re-validate the whole merged object, never the delta.
	if err := merged.Validate(); err != nil {
		return shift.ShiftTemplateResponse{}, err
	}

	if merged.Name != current.Name {
		exists, err := s.repo.ExistsByName(ctx, req.CompanyID, merged.Name, merged.ID)
		if err != nil {
			return shift.ShiftTemplateResponse{}, fmt.Errorf("failed to check shift template name: %w", err)
		}
		if exists {
			return shift.ShiftTemplateResponse{}, shift.ErrShiftTemplateNameExists
		}
	}

	updated, err := s.repo.Update(ctx, merged)
	if err != nil {
		return shift.ShiftTemplateResponse{}, fmt.Errorf("failed to update shift template: %w", err)
	}

	s.cache.Del(ctx, templateCacheKey(req.CompanyID, req.ID))

	return toTemplateResponse(updated), nil
}

func (s *shiftTemplateService) DeleteShiftTemplate(ctx context.Context, companyID string, id string) error {
	if _, err := s.repo.GetByID(ctx, id, companyID); err != nil {
		return err
	}

	refs, err := s.assignments.List(ctx, companyID, assignment.AssignmentFilter{
		ShiftTemplateID: &id,
	})
	if err != nil {
		return fmt.Errorf("failed to check assignments for shift template: %w", err)
	}

	if len(refs) > 0 {
		// Referenced templates are deactivated, not removed, so existing
		// assignments and attendance rows keep resolving.
		err = s.repo.SoftDelete(ctx, id, companyID)
	} else {
		err = s.repo.Delete(ctx, id, companyID)
	}
	if err != nil {
		return fmt.Errorf("failed to delete shift template: %w", err)
	}

	s.cache.Del(ctx, templateCacheKey(companyID, id))

	return nil
}

func assembleTemplate(companyID string, req shift.CreateShiftTemplateRequest) shift.ShiftTemplate {
	tpl := shift.ShiftTemplate{
		CompanyID:       companyID,
		Name:            req.Name,
		Code:            req.Code,
		TimeIn:          req.TimeIn,
		LateAfter:       req.LateAfter,
		TimeOut:         req.TimeOut,
		CrossMidnight:   req.CrossMidnight,
		DaysOfWeek:      req.DaysOfWeek,
		ExcludeHolidays: req.ExcludeHolidays,
		OT:              shift.OvertimePolicy{Mode: shift.OvertimeDisabled},
	}

	for _, b := range req.Breaks {
		tpl.Breaks = append(tpl.Breaks, shift.BreakWindow{Start: b.Start, End: b.End, Paid: b.Paid})
	}
	if req.Window != nil {
		tpl.Window = &shift.ScanWindow{
			EarliestIn:         req.Window.EarliestIn,
			LatestIn:           req.Window.LatestIn,
			EarliestOut:        req.Window.EarliestOut,
			LatestOut:          req.Window.LatestOut,
			AllowCrossMidnight: req.Window.AllowCrossMidnight,
		}
	}
	if req.OT != nil {
		tpl.OT = shift.OvertimePolicy{
			Mode:          shift.OvertimeMode(req.OT.Mode),
			StartAfterMin: req.OT.StartAfterMin,
			RoundingMin:   req.OT.RoundingMin,
			Tiers:         req.OT.Tiers,
		}
	}
	if req.EffectiveFrom != nil {
		if d, err := time.Parse("2006-01-02", *req.EffectiveFrom); err == nil {
			tpl.EffectiveFrom = &d
		}
	}
	if req.EffectiveTo != nil {
		if d, err := time.Parse("2006-01-02", *req.EffectiveTo); err == nil {
			tpl.EffectiveTo = &d
		}
	}

	return tpl
}

func mergeTemplate(current shift.ShiftTemplate, req shift.UpdateShiftTemplateRequest) shift.ShiftTemplate {
	merged := current

	if req.Name != nil {
		merged.Name = *req.Name
	}
	if req.Code != nil {
		merged.Code = req.Code
	}
	if req.Active != nil {
		merged.Active = *req.Active
	}
	if req.TimeIn != nil {
		merged.TimeIn = *req.TimeIn
	}
	if req.LateAfter != nil {
		merged.LateAfter = *req.LateAfter
	}
	if req.TimeOut != nil {
		merged.TimeOut = *req.TimeOut
	}
	if req.CrossMidnight != nil {
		merged.CrossMidnight = *req.CrossMidnight
	}
	if req.Breaks != nil {
		merged.Breaks = nil
		for _, b := range req.Breaks {
			merged.Breaks = append(merged.Breaks, shift.BreakWindow{Start: b.Start, End: b.End, Paid: b.Paid})
		}
	}
	if req.Window != nil {
		merged.Window = &shift.ScanWindow{
			EarliestIn:         req.Window.EarliestIn,
			LatestIn:           req.Window.LatestIn,
			EarliestOut:        req.Window.EarliestOut,
			LatestOut:          req.Window.LatestOut,
			AllowCrossMidnight: req.Window.AllowCrossMidnight,
		}
	}
	if req.OT != nil {
		merged.OT = shift.OvertimePolicy{
			Mode:          shift.OvertimeMode(req.OT.Mode),
			StartAfterMin: req.OT.StartAfterMin,
			RoundingMin:   req.OT.RoundingMin,
			Tiers:         req.OT.Tiers,
		}
	}
	if req.DaysOfWeek != nil {
		merged.DaysOfWeek = req.DaysOfWeek
	}
	if req.ExcludeHolidays != nil {
		merged.ExcludeHolidays = *req.ExcludeHolidays
	}
	if req.EffectiveFrom != nil {
		if d, err := time.Parse("2006-01-02", *req.EffectiveFrom); err == nil {
			merged.EffectiveFrom = &d
		}
	}
	if req.EffectiveTo != nil {
		if d, err := time.Parse("2006-01-02", *req.EffectiveTo); err == nil {
			merged.EffectiveTo = &d
		}
	}

	return merged
}

func toTemplateResponse(tpl shift.ShiftTemplate) shift.ShiftTemplateResponse {
	resp := shift.ShiftTemplateResponse{
		ID:              tpl.ID,
		CompanyID:       tpl.CompanyID,
		Name:            tpl.Name,
		Code:            tpl.Code,
		Active:          tpl.Active,
		Version:         tpl.Version,
		TimeIn:          tpl.TimeIn,
		LateAfter:       tpl.LateAfter,
		TimeOut:         tpl.TimeOut,
		CrossMidnight:   tpl.CrossMidnight,
		DaysOfWeek:      tpl.DaysOfWeek,
		ExcludeHolidays: tpl.ExcludeHolidays,
		CreatedAt:       tpl.CreatedAt.Format(time.RFC3339),
		UpdatedAt:       tpl.UpdatedAt.Format(time.RFC3339),
	}

	for _, b := range tpl.Breaks {
		resp.Breaks = append(resp.Breaks, shift.BreakWindowPayload{Start: b.Start, End: b.End, Paid: b.Paid})
	}
	if tpl.Window != nil {
		resp.Window = &shift.ScanWindowPayload{
			EarliestIn:         tpl.Window.EarliestIn,
			LatestIn:           tpl.Window.LatestIn,
			EarliestOut:        tpl.Window.EarliestOut,
			LatestOut:          tpl.Window.LatestOut,
			AllowCrossMidnight: tpl.Window.AllowCrossMidnight,
		}
	}
	resp.OT = &shift.OvertimePolicyPayload{
		Mode:          string(tpl.OT.Mode),
		StartAfterMin: tpl.OT.StartAfterMin,
		RoundingMin:   tpl.OT.RoundingMin,
		Tiers:         tpl.OT.Tiers,
	}
	if tpl.EffectiveFrom != nil {
		v := tpl.EffectiveFrom.Format("2006-01-02")
		resp.EffectiveFrom = &v
	}
	if tpl.EffectiveTo != nil {
		v := tpl.EffectiveTo.Format("2006-01-02")
		resp.EffectiveTo = &v
	}

	return resp
}
