package shift

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cmlabs-hris/shift-engine-go/internal/pkg/validator"
)

func validTemplate() ShiftTemplate {
	return ShiftTemplate{
		ID:        "tpl-1",
		CompanyID: "company-1",
		Name:      "Day Shift",
		TimeIn:    "07:00",
		LateAfter: "07:15",
		TimeOut:   "16:00",
		OT:        OvertimePolicy{Mode: OvertimeDisabled},
	}
}

func TestShiftTemplateValidate(t *testing.T) {
	t.Run("valid template passes", func(t *testing.T) {
		tpl := validTemplate()
		assert.NoError(t, tpl.Validate())
	})

	t.Run("empty name fails", func(t *testing.T) {
		tpl := validTemplate()
		tpl.Name = "   "
		requireFieldError(t, tpl.Validate(), "name")
	})

	t.Run("malformed clock values fail", func(t *testing.T) {
		tests := []struct {
			field string
			mod   func(*ShiftTemplate)
		}{
			{"time_in", func(tpl *ShiftTemplate) { tpl.TimeIn = "7:00" }},
			{"late_after", func(tpl *ShiftTemplate) { tpl.LateAfter = "24:00" }},
			{"time_out", func(tpl *ShiftTemplate) { tpl.TimeOut = "16:60" }},
		}
		for _, tt := range tests {
			tpl := validTemplate()
			tt.mod(&tpl)
			requireFieldError(t, tpl.Validate(), tt.field)
		}
	})

	t.Run("late_after before time_in fails", func(t *testing.T) {
		tpl := validTemplate()
		tpl.LateAfter = "06:59"
		requireFieldError(t, tpl.Validate(), "late_after")
	})

	t.Run("time_out before time_in fails when same day", func(t *testing.T) {
		tpl := validTemplate()
		tpl.TimeOut = "06:00"
		requireFieldError(t, tpl.Validate(), "time_out")
	})

	t.Run("time_out before time_in allowed when cross midnight", func(t *testing.T) {
		tpl := validTemplate()
		tpl.TimeIn = "18:00"
		tpl.LateAfter = "18:15"
		tpl.TimeOut = "03:00"
		tpl.CrossMidnight = true
		assert.NoError(t, tpl.Validate())
	})

	t.Run("scan window must bracket time_in", func(t *testing.T) {
		earliest := "07:30"
		tpl := validTemplate()
		tpl.Window = &ScanWindow{EarliestIn: &earliest}
		requireFieldError(t, tpl.Validate(), "window.earliest_in")

		latest := "06:30"
		tpl = validTemplate()
		tpl.Window = &ScanWindow{LatestIn: &latest}
		requireFieldError(t, tpl.Validate(), "window.latest_in")
	})

	t.Run("break must start before it ends", func(t *testing.T) {
		tpl := validTemplate()
		tpl.Breaks = []BreakWindow{{Start: "12:00", End: "12:00"}}
		requireFieldError(t, tpl.Validate(), "breaks[0].end")
	})

	t.Run("cross-midnight break rejected even on cross-midnight template", func(t *testing.T) {
		tpl := validTemplate()
		tpl.TimeIn = "18:00"
		tpl.LateAfter = "18:15"
		tpl.TimeOut = "03:00"
		tpl.CrossMidnight = true
		tpl.Breaks = []BreakWindow{{Start: "23:30", End: "00:30"}}
		requireFieldError(t, tpl.Validate(), "breaks[0].end")
	})

	t.Run("tiers must be strictly increasing", func(t *testing.T) {
		tpl := validTemplate()
		tpl.OT = OvertimePolicy{Mode: OvertimeTiers, Tiers: []int{240, 120}}
		requireFieldError(t, tpl.Validate(), "ot.tiers")

		tpl.OT = OvertimePolicy{Mode: OvertimeTiers, Tiers: []int{120, 240}}
		assert.NoError(t, tpl.Validate())
	})

	t.Run("tiers must be non-empty and positive", func(t *testing.T) {
		tpl := validTemplate()
		tpl.OT = OvertimePolicy{Mode: OvertimeTiers}
		requireFieldError(t, tpl.Validate(), "ot.tiers")

		tpl.OT = OvertimePolicy{Mode: OvertimeTiers, Tiers: []int{0, 60}}
		requireFieldError(t, tpl.Validate(), "ot.tiers")
	})

	t.Run("short-circuits on first violation", func(t *testing.T) {
		tpl := validTemplate()
		tpl.Name = ""
		tpl.TimeIn = "bogus"

		err := tpl.Validate()
		var errs validator.ValidationErrors
		require.ErrorAs(t, err, &errs)
		require.Len(t, errs, 1)
		assert.Equal(t, "name", errs[0].Field)
	})
}

func requireFieldError(t *testing.T, err error, field string) {
	t.Helper()
	var errs validator.ValidationErrors
	require.ErrorAs(t, err, &errs)
	require.Len(t, errs, 1)
	assert.Equal(t, field, errs[0].Field)
}
