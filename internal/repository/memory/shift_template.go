// Package memory provides map-backed repository implementations. They
// serve the in-process driver for tests and local development; the
// postgresql package is the production counterpart.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/cmlabs-hris/shift-engine-go/internal/domain/shift"
)

type ShiftTemplateRepository struct {
	mu        sync.RWMutex
	templates map[string]shift.ShiftTemplate
}

func NewShiftTemplateRepository() *ShiftTemplateRepository {
	return &ShiftTemplateRepository{templates: make(map[string]shift.ShiftTemplate)}
}

func (r *ShiftTemplateRepository) Create(_ context.Context, tpl shift.ShiftTemplate) (shift.ShiftTemplate, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if tpl.ID == "" {
		tpl.ID = uuid.Must(uuid.NewV7()).String()
	}
	now := time.Now()
	tpl.CreatedAt = now
	tpl.UpdatedAt = now

	r.templates[tpl.ID] = tpl
	return tpl, nil
}

func (r *ShiftTemplateRepository) GetByID(_ context.Context, id string, companyID string) (shift.ShiftTemplate, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tpl, ok := r.templates[id]
	if !ok || tpl.CompanyID != companyID {
		return shift.ShiftTemplate{}, shift.ErrShiftTemplateNotFound
	}
	return tpl, nil
}

func (r *ShiftTemplateRepository) ListByCompany(_ context.Context, companyID string, filter shift.ShiftTemplateFilter) ([]shift.ShiftTemplate, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matched []shift.ShiftTemplate
	for _, tpl := range r.templates {
		if tpl.CompanyID != companyID || tpl.DeletedAt != nil {
			continue
		}
		if filter.ActiveOnly && !tpl.Active {
			continue
		}
		if filter.Name != nil && !strings.Contains(strings.ToLower(tpl.Name), strings.ToLower(*filter.Name)) {
			continue
		}
		matched = append(matched, tpl)
	}

	sort.Slice(matched, func(i, j int) bool {
		if matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].Name < matched[j].Name
		}
		return matched[i].CreatedAt.Before(matched[j].CreatedAt)
	})

	total := int64(len(matched))
	start := (filter.Page - 1) * filter.Limit
	if start >= len(matched) {
		return []shift.ShiftTemplate{}, total, nil
	}
	end := start + filter.Limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

func (r *ShiftTemplateRepository) ListActiveByCompany(_ context.Context, companyID string) ([]shift.ShiftTemplate, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var active []shift.ShiftTemplate
	for _, tpl := range r.templates {
		if tpl.CompanyID == companyID && tpl.Active && tpl.DeletedAt == nil {
			active = append(active, tpl)
		}
	}
	sort.Slice(active, func(i, j int) bool { return active[i].Name < active[j].Name })
	return active, nil
}

func (r *ShiftTemplateRepository) ExistsByName(_ context.Context, companyID string, name string, excludeID string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, tpl := range r.templates {
		if tpl.CompanyID != companyID || tpl.DeletedAt != nil {
			continue
		}
		if excludeID != "" && tpl.ID == excludeID {
			continue
		}
		if strings.EqualFold(tpl.Name, name) {
			return true, nil
		}
	}
	return false, nil
}

func (r *ShiftTemplateRepository) Update(_ context.Context, tpl shift.ShiftTemplate) (shift.ShiftTemplate, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.templates[tpl.ID]
	if !ok || current.CompanyID != tpl.CompanyID {
		return shift.ShiftTemplate{}, shift.ErrShiftTemplateNotFound
	}

	tpl.CreatedAt = current.CreatedAt
	tpl.UpdatedAt = time.Now()
	r.templates[tpl.ID] = tpl
	return tpl, nil
}

func (r *ShiftTemplateRepository) SoftDelete(_ context.Context, id string, companyID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	tpl, ok := r.templates[id]
	if !ok || tpl.CompanyID != companyID {
		return shift.ErrShiftTemplateNotFound
	}

	// Soft delete only deactivates; the row stays resolvable by ID so
	// historical attendance keeps its reference.
	tpl.Active = false
	tpl.UpdatedAt = time.Now()
	r.templates[id] = tpl
	return nil
}

func (r *ShiftTemplateRepository) Delete(_ context.Context, id string, companyID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	tpl, ok := r.templates[id]
	if !ok || tpl.CompanyID != companyID {
		return shift.ErrShiftTemplateNotFound
	}
	delete(r.templates, id)
	return nil
}
