package shift

import (
	"strings"

	"github.com/cmlabs-hris/shift-engine-go/internal/pkg/validator"
)

type BreakWindowPayload struct {
	Start string `json:"start"` // HH:mm
	End   string `json:"end"`   // HH:mm
	Paid  bool   `json:"paid"`
}

type ScanWindowPayload struct {
	EarliestIn         *string `json:"earliest_in,omitempty"`
	LatestIn           *string `json:"latest_in,omitempty"`
	EarliestOut        *string `json:"earliest_out,omitempty"`
	LatestOut          *string `json:"latest_out,omitempty"`
	AllowCrossMidnight bool    `json:"allow_cross_midnight"`
}

type OvertimePolicyPayload struct {
	Mode          string `json:"mode"`
	StartAfterMin int    `json:"start_after_min"`
	RoundingMin   int    `json:"rounding_min"`
	Tiers         []int  `json:"tiers,omitempty"`
}

type CreateShiftTemplateRequest struct {
	Name            string                 `json:"name"`
	Code            *string                `json:"code,omitempty"`
	TimeIn          string                 `json:"time_in"`    // HH:mm
	LateAfter       string                 `json:"late_after"` // HH:mm
	TimeOut         string                 `json:"time_out"`   // HH:mm
	CrossMidnight   bool                   `json:"cross_midnight"`
	Breaks          []BreakWindowPayload   `json:"breaks,omitempty"`
	Window          *ScanWindowPayload     `json:"window,omitempty"`
	OT              *OvertimePolicyPayload `json:"ot,omitempty"`
	DaysOfWeek      []int                  `json:"days_of_week,omitempty"`
	ExcludeHolidays bool                   `json:"exclude_holidays"`
	EffectiveFrom   *string                `json:"effective_from,omitempty"` // YYYY-MM-DD
	EffectiveTo     *string                `json:"effective_to,omitempty"`   // YYYY-MM-DD
}

// Validate checks request shape only. The template invariants run on the
// assembled entity, so create and partial update share one rule set.
func (r *CreateShiftTemplateRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name is required",
		})
	}
	if validator.IsEmpty(r.TimeIn) {
		errs = append(errs, validator.ValidationError{
			Field:   "time_in",
			Message: "time_in is required",
		})
	}
	if validator.IsEmpty(r.LateAfter) {
		errs = append(errs, validator.ValidationError{
			Field:   "late_after",
			Message: "late_after is required",
		})
	}
	if validator.IsEmpty(r.TimeOut) {
		errs = append(errs, validator.ValidationError{
			Field:   "time_out",
			Message: "time_out is required",
		})
	}
	if r.OT != nil && !validator.IsInSlice(r.OT.Mode, OvertimeModeValues) {
		errs = append(errs, validator.ValidationError{
			Field:   "ot.mode",
			Message: "ot.mode must be one of: " + strings.Join(OvertimeModeValues, ", "),
		})
	}
	for _, d := range r.DaysOfWeek {
		if d < 0 || d > 6 {
			errs = append(errs, validator.ValidationError{
				Field:   "days_of_week",
				Message: "days_of_week values must be between 0 (Sunday) and 6 (Saturday)",
			})
			break
		}
	}
	if r.EffectiveFrom != nil {
		if _, ok := validator.IsValidDate(*r.EffectiveFrom); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "effective_from",
				Message: "effective_from must be a valid date in YYYY-MM-DD format",
			})
		}
	}
	if r.EffectiveTo != nil {
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

type UpdateShiftTemplateRequest struct {
	ID              string                 `json:"id"`
	CompanyID       string                 `json:"-"`
	Name            *string                `json:"name,omitempty"`
	Code            *string                `json:"code,omitempty"`
	Active          *bool                  `json:"active,omitempty"`
	TimeIn          *string                `json:"time_in,omitempty"`
	LateAfter       *string                `json:"late_after,omitempty"`
	TimeOut         *string                `json:"time_out,omitempty"`
	CrossMidnight   *bool                  `json:"cross_midnight,omitempty"`
	Breaks          []BreakWindowPayload   `json:"breaks,omitempty"`
	Window          *ScanWindowPayload     `json:"window,omitempty"`
	OT              *OvertimePolicyPayload `json:"ot,omitempty"`
	DaysOfWeek      []int                  `json:"days_of_week,omitempty"`
	ExcludeHolidays *bool                  `json:"exclude_holidays,omitempty"`
	EffectiveFrom   *string                `json:"effective_from,omitempty"`
	EffectiveTo     *string                `json:"effective_to,omitempty"`
}

func (r *UpdateShiftTemplateRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ID) {
		errs = append(errs, validator.ValidationError{
			Field:   "id",
			Message: "id is required",
		})
	}
	if r.Name != nil && validator.IsEmpty(*r.Name) {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name must not be empty",
		})
	}
	if r.OT != nil && !validator.IsInSlice(r.OT.Mode, OvertimeModeValues) {
		errs = append(errs, validator.ValidationError{
			Field:   "ot.mode",
			Message: "ot.mode must be one of: " + strings.Join(OvertimeModeValues, ", "),
		})
	}
	for _, d := range r.DaysOfWeek {
		if d < 0 || d > 6 {
			errs = append(errs, validator.ValidationError{
				Field:   "days_of_week",
				Message: "days_of_week values must be between 0 (Sunday) and 6 (Saturday)",
			})
			break
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type ShiftTemplateResponse struct {
	ID              string                 `json:"id"`
	CompanyID       string                 `json:"company_id"`
	Name            string                 `json:"name"`
	Code            *string                `json:"code,omitempty"`
	Active          bool                   `json:"active"`
	Version         int                    `json:"version"`
	TimeIn          string                 `json:"time_in"`
	LateAfter       string                 `json:"late_after"`
	TimeOut         string                 `json:"time_out"`
	CrossMidnight   bool                   `json:"cross_midnight"`
	Breaks          []BreakWindowPayload   `json:"breaks,omitempty"`
	Window          *ScanWindowPayload     `json:"window,omitempty"`
	OT              *OvertimePolicyPayload `json:"ot,omitempty"`
	DaysOfWeek      []int                  `json:"days_of_week,omitempty"`
	ExcludeHolidays bool                   `json:"exclude_holidays"`
	EffectiveFrom   *string                `json:"effective_from,omitempty"`
	EffectiveTo     *string                `json:"effective_to,omitempty"`
	CreatedAt       string                 `json:"created_at"`
	UpdatedAt       string                 `json:"updated_at"`
}

type ListShiftTemplateResponse struct {
	TotalCount int64                   `json:"total_count"`
	Page       int                     `json:"page"`
	Limit      int                     `json:"limit"`
	TotalPages int                     `json:"total_pages"`
	Showing    string                  `json:"showing"`
	Templates  []ShiftTemplateResponse `json:"shift_templates"`
}

type ShiftTemplateFilter struct {
	Name       *string `json:"name,omitempty"`
	ActiveOnly bool    `json:"active_only"`

	Page  int `json:"page"`
	Limit int `json:"limit"`
}

func (f *ShiftTemplateFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Page < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "page",
			Message: "page must be a positive number",
		})
	}
	if f.Page == 0 {
		f.Page = 1 // Default page
	}

	if f.Limit < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "limit",
			Message: "limit must be a positive number",
		})
	}
	if f.Limit == 0 {
		f.Limit = 20 // Default limit
	}
	if f.Limit > 100 {
		errs = append(errs, validator.ValidationError{
			Field:   "limit",
			Message: "limit must not exceed 100",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// MatchStage identifies which resolver stage produced a hit. Keyword
// matches are best-effort and surfaced distinctly from exact results.
type MatchStage string

const (
	MatchExactName MatchStage = "exact_name"
	MatchExactCode MatchStage = "exact_code"
	MatchSubstring MatchStage = "substring"
	MatchKeyword   MatchStage = "keyword"
)

type ResolveShiftResponse struct {
	Template   ShiftTemplateResponse `json:"template"`
	MatchStage MatchStage            `json:"match_stage"`
	Confident  bool                  `json:"confident"`
}
