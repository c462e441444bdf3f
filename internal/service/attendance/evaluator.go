package attendance

import (
	"github.com/cmlabs-hris/shift-engine-go/internal/domain/attendance"
	"github.com/cmlabs-hris/shift-engine-go/internal/domain/shift"
	"github.com/cmlabs-hris/shift-engine-go/internal/pkg/timeutil"
)

// halfDay is the wraparound cutoff. A scan more than twelve hours
// before the shift's nominal start is read as belonging to the next
// calendar day, not as an extremely early arrival.
const halfDay = timeutil.MinutesPerDay / 2

// Evaluation is the outcome of classifying one clock pair against a
// template.
type Evaluation struct {
	Status          attendance.Status
	LateMinutes     int
	OvertimeMinutes int
}

// Evaluate classifies a raw clock-in/clock-out pair against a shift
// template. All comparisons run in minutes since the shift's nominal
// date, never as wall-clock subtraction, so cross-midnight shifts and
// DST boundaries cannot skew the result. The evaluator never returns
// Leave; that classification is composed upstream from the leave reason.
func Evaluate(timeInRaw, timeOutRaw *string, tpl shift.ShiftTemplate) Evaluation {
	if timeInRaw == nil || timeOutRaw == nil {
		return Evaluation{Status: attendance.StatusAbsent}
	}

	startMin, err := timeutil.ParseClock(*timeInRaw)
	if err != nil {
		return Evaluation{Status: attendance.StatusAbsent}
	}
	endMin, err := timeutil.ParseClock(*timeOutRaw)
	if err != nil {
		return Evaluation{Status: attendance.StatusAbsent}
	}

	expectedStart := tpl.TimeInMinutes()
	lateAfter := tpl.LateAfterMinutes()
	expectedEnd := tpl.TimeOutMinutes()

	if tpl.CrossMidnight {
		if expectedStart-startMin > halfDay {
			startMin = startMin.OnNextDay()
		}
		if expectedStart-endMin > halfDay {
			endMin = endMin.OnNextDay()
		}
	}

	eval := Evaluation{Status: attendance.StatusOnTime}

	if startMin > lateAfter {
		eval.Status = attendance.StatusLate
		eval.LateMinutes = int(startMin - lateAfter)
	}

	grace := timeutil.Minutes(tpl.OT.StartAfterMin)
	if grace < 1 {
		grace = 1
	}
	if endMin > expectedEnd+grace {
		// Late wins over Overtime for the status, but the credited
		// minutes are kept either way.
		if eval.Status == attendance.StatusOnTime {
			eval.Status = attendance.StatusOvertime
		}
		eval.OvertimeMinutes = creditedOvertime(int(endMin-expectedEnd), tpl.OT)
	}

	return eval
}

// creditedOvertime converts raw minutes past the expected end into the
// countable amount under the template's policy.
func creditedOvertime(raw int, ot shift.OvertimePolicy) int {
	if ot.Mode == shift.OvertimeDisabled {
		return 0
	}

	if ot.RoundingMin > 0 {
		raw = raw / ot.RoundingMin * ot.RoundingMin
	}

	if ot.Mode == shift.OvertimeTiers {
		// Credit the highest tier reached; below the first tier nothing
		// counts.
		credited := 0
		for _, tier := range ot.Tiers {
			if raw >= tier {
				credited = tier
			}
		}
		return credited
	}

	return raw
}
