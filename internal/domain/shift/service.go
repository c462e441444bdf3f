package shift

import (
	"context"
	"time"
)

type ShiftTemplateService interface {
	// Shift Template CRUD
	CreateShiftTemplate(ctx context.Context, companyID string, req CreateShiftTemplateRequest) (ShiftTemplateResponse, error)
	GetShiftTemplate(ctx context.Context, companyID string, id string) (ShiftTemplateResponse, error)
	ListShiftTemplates(ctx context.Context, companyID string, filter ShiftTemplateFilter) (ListShiftTemplateResponse, error)
	UpdateShiftTemplate(ctx context.Context, req UpdateShiftTemplateRequest) (ShiftTemplateResponse, error)
	DeleteShiftTemplate(ctx context.Context, companyID string, id string) error

	// Resolver
	ResolveShiftTemplate(ctx context.Context, companyID string, label string, asOf time.Time) (ResolveShiftResponse, error)
}
