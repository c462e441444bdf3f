package shift

import "context"

// ShiftTemplateRepository is the persistence boundary for templates.
// Implementations return ErrShiftTemplateNotFound for missing rows so
// services stay storage-agnostic.
type ShiftTemplateRepository interface {
	Create(ctx context.Context, tpl ShiftTemplate) (ShiftTemplate, error)
	GetByID(ctx context.Context, id string, companyID string) (ShiftTemplate, error)
	ListByCompany(ctx context.Context, companyID string, filter ShiftTemplateFilter) ([]ShiftTemplate, int64, error)
	ListActiveByCompany(ctx context.Context, companyID string) ([]ShiftTemplate, error)
	ExistsByName(ctx context.Context, companyID string, name string, excludeID string) (bool, error)
	Update(ctx context.Context, tpl ShiftTemplate) (ShiftTemplate, error)
	SoftDelete(ctx context.Context, id string, companyID string) error
	Delete(ctx context.Context, id string, companyID string) error
}
