package assignment

import (
	"github.com/cmlabs-hris/shift-engine-go/internal/pkg/validator"
)

type CreateAssignmentRequest struct {
	EmployeeID      string  `json:"employee_id"`
	ShiftTemplateID string  `json:"shift_template_id"`
	EffectiveFrom   string  `json:"effective_from"` // YYYY-MM-DD
	EffectiveTo     *string `json:"effective_to,omitempty"`
	Reason          string  `json:"reason,omitempty"`
	CreatedBy       string  `json:"-"`
}

func (r *CreateAssignmentRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id is required",
		})
	}
	if validator.IsEmpty(r.ShiftTemplateID) {
		errs = append(errs, validator.ValidationError{
			Field:   "shift_template_id",
			Message: "shift_template_id is required",
		})
	}
	if validator.IsEmpty(r.EffectiveFrom) {
		errs = append(errs, validator.ValidationError{
			Field:   "effective_from",
			Message: "effective_from is required",
		})
	} else if _, ok := validator.IsValidDate(r.EffectiveFrom); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "effective_from",
			Message: "effective_from must be a valid date in YYYY-MM-DD format",
		})
	}
	if r.EffectiveTo != nil {
		if _, ok := validator.IsValidDate(*r.EffectiveTo); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "effective_to",
				Message: "effective_to must be a valid date in YYYY-MM-DD format",
			})
		} else if *r.EffectiveTo < r.EffectiveFrom {
			errs = append(errs, validator.ValidationError{
				Field:   "effective_to",
				Message: "effective_to must not be before effective_from",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type UpdateAssignmentRequest struct {
	ID              string  `json:"id"`
	CompanyID       string  `json:"-"`
	ShiftTemplateID *string `json:"shift_template_id,omitempty"`
	EffectiveFrom   *string `json:"effective_from,omitempty"`
	EffectiveTo     *string `json:"effective_to,omitempty"`
	Reason          *string `json:"reason,omitempty"`
	UpdatedBy       string  `json:"-"`
}

func (r *UpdateAssignmentRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ID) {
		errs = append(errs, validator.ValidationError{
			Field:   "id",
			Message: "id is required",
		})
	}
	if r.ShiftTemplateID != nil && validator.IsEmpty(*r.ShiftTemplateID) {
		errs = append(errs, validator.ValidationError{
			Field:   "shift_template_id",
			Message: "shift_template_id must not be empty",
		})
	}
	if r.EffectiveFrom != nil {
		if _, ok := validator.IsValidDate(*r.EffectiveFrom); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "effective_from",
				Message: "effective_from must be a valid date in YYYY-MM-DD format",
			})
		}
	}
	if r.EffectiveTo != nil && *r.EffectiveTo != "" {
		if _, ok := validator.IsValidDate(*r.EffectiveTo); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "effective_to",
				Message: "effective_to must be a valid date in YYYY-MM-DD format",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type AssignmentResponse struct {
	ID              string  `json:"id"`
	CompanyID       string  `json:"company_id"`
	EmployeeID      string  `json:"employee_id"`
	ShiftTemplateID string  `json:"shift_template_id"`
	EffectiveFrom   string  `json:"effective_from"`
	EffectiveTo     *string `json:"effective_to,omitempty"`
	Reason          string  `json:"reason,omitempty"`
	CreatedBy       string  `json:"created_by,omitempty"`
	UpdatedBy       string  `json:"updated_by,omitempty"`
	CreatedAt       string  `json:"created_at"`
	UpdatedAt       string  `json:"updated_at"`
}

type AssignmentFilter struct {
	EmployeeID      *string `json:"employee_id,omitempty"`
	ShiftTemplateID *string `json:"shift_template_id,omitempty"`
	ActiveOnly      bool    `json:"active_only"`
}

type HistoryEntryResponse struct {
	ShiftTemplateID string  `json:"shift_template_id"`
	From            string  `json:"from"`
	To              *string `json:"to,omitempty"`
}
