package attendance

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/cmlabs-hris/shift-engine-go/internal/domain/attendance"
	"github.com/cmlabs-hris/shift-engine-go/internal/domain/shift"
)

func strPtr(s string) *string { return &s }

func date(s string) time.Time {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return d
}

func dayTemplate() shift.ShiftTemplate {
	return shift.ShiftTemplate{
		ID:        "tpl-day",
		Name:      "Day Shift",
		TimeIn:    "07:00",
		LateAfter: "07:15",
		TimeOut:   "16:00",
		OT:        shift.OvertimePolicy{Mode: shift.OvertimeAnyMinutes},
	}
}

func nightTemplate() shift.ShiftTemplate {
	return shift.ShiftTemplate{
		ID:            "tpl-night",
		Name:          "Night Shift",
		TimeIn:        "18:00",
		LateAfter:     "18:15",
		TimeOut:       "03:00",
		CrossMidnight: true,
		OT:            shift.OvertimePolicy{Mode: shift.OvertimeAnyMinutes},
	}
}

func TestEvaluateAbsent(t *testing.T) {
	tpl := dayTemplate()

	assert.Equal(t, attendance.StatusAbsent, Evaluate(nil, nil, tpl).Status)
	assert.Equal(t, attendance.StatusAbsent, Evaluate(strPtr("07:00"), nil, tpl).Status)
	assert.Equal(t, attendance.StatusAbsent, Evaluate(nil, strPtr("16:00"), tpl).Status)
	assert.Equal(t, attendance.StatusAbsent, Evaluate(strPtr("7am"), strPtr("16:00"), tpl).Status)
}

func TestEvaluateLateBoundary(t *testing.T) {
	tpl := dayTemplate()

	// the grace threshold itself is still on time
	onTime := Evaluate(strPtr("07:15"), strPtr("16:00"), tpl)
	assert.Equal(t, attendance.StatusOnTime, onTime.Status)
	assert.Zero(t, onTime.LateMinutes)

	late := Evaluate(strPtr("07:16"), strPtr("16:00"), tpl)
	assert.Equal(t, attendance.StatusLate, late.Status)
	assert.Equal(t, 1, late.LateMinutes)
}

func TestEvaluateCrossMidnight(t *testing.T) {
	tpl := nightTemplate()

	t.Run("clock-out shortly before expected end is on time", func(t *testing.T) {
		result := Evaluate(strPtr("18:00"), strPtr("02:59"), tpl)
		assert.Equal(t, attendance.StatusOnTime, result.Status)
	})

	t.Run("clock-out well past expected end is overtime", func(t *testing.T) {
		result := Evaluate(strPtr("18:00"), strPtr("05:00"), tpl)
		assert.Equal(t, attendance.StatusOvertime, result.Status)
		assert.Equal(t, 120, result.OvertimeMinutes)
	})

	t.Run("clock-in after midnight is measured against the evening start", func(t *testing.T) {
		result := Evaluate(strPtr("00:30"), strPtr("03:00"), tpl)
		assert.Equal(t, attendance.StatusLate, result.Status)
		assert.Equal(t, 375, result.LateMinutes)
	})

	t.Run("early evening arrival is not wrapped onto the next day", func(t *testing.T) {
		result := Evaluate(strPtr("17:30"), strPtr("03:00"), tpl)
		assert.Equal(t, attendance.StatusOnTime, result.Status)
	})
}

func TestEvaluateOvertimePolicy(t *testing.T) {
	t.Run("grace period suppresses small overruns", func(t *testing.T) {
		tpl := dayTemplate()
		tpl.OT.StartAfterMin = 30

		assert.Equal(t, attendance.StatusOnTime, Evaluate(strPtr("07:00"), strPtr("16:30"), tpl).Status)
		assert.Equal(t, attendance.StatusOvertime, Evaluate(strPtr("07:00"), strPtr("16:31"), tpl).Status)
	})

	t.Run("rounding truncates to the step", func(t *testing.T) {
		tpl := dayTemplate()
		tpl.OT.RoundingMin = 15

		result := Evaluate(strPtr("07:00"), strPtr("17:10"), tpl)
		assert.Equal(t, attendance.StatusOvertime, result.Status)
		assert.Equal(t, 60, result.OvertimeMinutes)
	})

	t.Run("tiers credit the highest threshold reached", func(t *testing.T) {
		tpl := dayTemplate()
		tpl.OT = shift.OvertimePolicy{Mode: shift.OvertimeTiers, Tiers: []int{60, 120, 240}}

		result := Evaluate(strPtr("07:00"), strPtr("19:00"), tpl)
		assert.Equal(t, attendance.StatusOvertime, result.Status)
		assert.Equal(t, 120, result.OvertimeMinutes)

		belowFirst := Evaluate(strPtr("07:00"), strPtr("16:30"), tpl)
		assert.Equal(t, attendance.StatusOvertime, belowFirst.Status)
		assert.Zero(t, belowFirst.OvertimeMinutes)
	})

	t.Run("disabled mode never credits minutes", func(t *testing.T) {
		tpl := dayTemplate()
		tpl.OT = shift.OvertimePolicy{Mode: shift.OvertimeDisabled}

		result := Evaluate(strPtr("07:00"), strPtr("18:00"), tpl)
		assert.Equal(t, attendance.StatusOvertime, result.Status)
		assert.Zero(t, result.OvertimeMinutes)
	})

	t.Run("late status wins but overtime minutes are kept", func(t *testing.T) {
		tpl := dayTemplate()

		result := Evaluate(strPtr("08:00"), strPtr("17:00"), tpl)
		assert.Equal(t, attendance.StatusLate, result.Status)
		assert.Equal(t, 45, result.LateMinutes)
		assert.Equal(t, 60, result.OvertimeMinutes)
	})
}
