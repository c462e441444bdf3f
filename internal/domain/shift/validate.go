package shift

import (
	"fmt"

	"github.com/cmlabs-hris/shift-engine-go/internal/pkg/validator"
)

// Validate runs the template invariants in a fixed order and stops at the
// first violation, so callers can map the error to exactly one form field.
// Name uniqueness is a tenant-state precondition checked by the service,
// not here. Update paths must validate the fully merged template, never a
// partial patch, so whitelisted partial updates cannot bypass the break
// and tier rules.
func (t *ShiftTemplate) Validate() error {
	// 1. name present (uniqueness checked against tenant state upstream)
	if validator.IsEmpty(t.Name) {
		return validator.NewFieldError("name", "name is required")
	}

	// 2. core times are well-formed HH:mm
	timeIn, ok := validator.IsValidTime(t.TimeIn)
	if !ok {
		return validator.NewFieldError("time_in", "time_in must be a valid time in HH:mm format")
	}
	lateAfter, ok := validator.IsValidTime(t.LateAfter)
	if !ok {
		return validator.NewFieldError("late_after", "late_after must be a valid time in HH:mm format")
	}
	timeOut, ok := validator.IsValidTime(t.TimeOut)
	if !ok {
		return validator.NewFieldError("time_out", "time_out must be a valid time in HH:mm format")
	}

	// 3. grace threshold cannot precede the scheduled start
	if lateAfter < timeIn {
		return validator.NewFieldError("late_after", "late_after must not be before time_in")
	}

	// 4. same-day shifts must end at or after they start
	if !t.CrossMidnight && timeOut < timeIn {
		return validator.NewFieldError("time_out", "time_out must not be before time_in unless the shift crosses midnight")
	}

	// 5. scan window must bracket time_in when bounds are present
	if t.Window != nil {
		if t.Window.EarliestIn != nil {
			earliest, ok := validator.IsValidTime(*t.Window.EarliestIn)
			if !ok {
				return validator.NewFieldError("window.earliest_in", "earliest_in must be a valid time in HH:mm format")
			}
			if earliest > timeIn {
				return validator.NewFieldError("window.earliest_in", "earliest_in must not be after time_in")
			}
		}
		if t.Window.LatestIn != nil {
			latest, ok := validator.IsValidTime(*t.Window.LatestIn)
			if !ok {
				return validator.NewFieldError("window.latest_in", "latest_in must be a valid time in HH:mm format")
			}
			if latest < timeIn {
				return validator.NewFieldError("window.latest_in", "latest_in must not be before time_in")
			}
		}
	}

	// 6. breaks are same-day only, even on cross-midnight templates
	for i, b := range t.Breaks {
		start, ok := validator.IsValidTime(b.Start)
		if !ok {
			return validator.NewFieldError(breakField(i, "start"), "break start must be a valid time in HH:mm format")
		}
		end, ok := validator.IsValidTime(b.End)
		if !ok {
			return validator.NewFieldError(breakField(i, "end"), "break end must be a valid time in HH:mm format")
		}
		if start >= end {
			return validator.NewFieldError(breakField(i, "end"), "break end must be after break start on the same day")
		}
	}

	// 7. tier thresholds: non-empty, positive, strictly increasing
	if t.OT.Mode == OvertimeTiers {
		if len(t.OT.Tiers) == 0 {
			return validator.NewFieldError("ot.tiers", "tiers must not be empty when mode is TIERS")
		}
		prev := 0
		for _, tier := range t.OT.Tiers {
			if tier <= 0 {
				return validator.NewFieldError("ot.tiers", "tiers must all be positive minute values")
			}
			if tier <= prev {
				return validator.NewFieldError("ot.tiers", "tiers must be strictly increasing")
			}
			prev = tier
		}
	}

	return nil
}

func breakField(i int, part string) string {
	return fmt.Sprintf("breaks[%d].%s", i, part)
}
