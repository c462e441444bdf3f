package timeutil

import (
	"errors"
	"fmt"
	"regexp"
)

// Minutes is a time of day expressed as minutes since midnight (0-1439).
// Values >= 1440 represent the same clock time on the following calendar
// day and exist only for ordering arithmetic across midnight.
type Minutes int

const MinutesPerDay = 1440

var ErrInvalidClock = errors.New("invalid time format, use HH:mm")

var clockRegex = regexp.MustCompile(`^([01]\d|2[0-3]):([0-5]\d)$`)

// ParseClock converts an "HH:mm" string to minutes since midnight.
func ParseClock(s string) (Minutes, error) {
	if !clockRegex.MatchString(s) {
		return 0, ErrInvalidClock
	}
	h := int(s[0]-'0')*10 + int(s[1]-'0')
	mm := int(s[3]-'0')*10 + int(s[4]-'0')
	return Minutes(h*60 + mm), nil
}

// String renders the value back to "HH:mm". Values carried onto the next
// day render as their wall-clock time.
func (m Minutes) String() string {
	v := int(m) % MinutesPerDay
	if v < 0 {
		v += MinutesPerDay
	}
	return fmt.Sprintf("%02d:%02d", v/60, v%60)
}

// OnNextDay shifts the value onto the following calendar day.
func (m Minutes) OnNextDay() Minutes {
	return m + MinutesPerDay
}

// CompareClock compares two "HH:mm" strings. It returns -1, 0 or 1 and
// an error if either string is malformed.
func CompareClock(a, b string) (int, error) {
	am, err := ParseClock(a)
	if err != nil {
		return 0, err
	}
	bm, err := ParseClock(b)
	if err != nil {
		return 0, err
	}
	switch {
	case am < bm:
		return -1, nil
	case am > bm:
		return 1, nil
	default:
		return 0, nil
	}
}

// IsValidClock reports whether s is a well-formed "HH:mm" value.
func IsValidClock(s string) bool {
	return clockRegex.MatchString(s)
}
