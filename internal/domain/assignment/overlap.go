package assignment

import "time"

// RangesOverlap reports whether [aFrom, aTo] and [bFrom, bTo] intersect.
// A nil end bound is treated as +infinity (open-ended assignment). Two
// intervals overlap iff aFrom <= bTo && bFrom <= aTo; date-granular, so
// equal boundary days count as overlap.
func RangesOverlap(aFrom time.Time, aTo *time.Time, bFrom time.Time, bTo *time.Time) bool {
	if aTo != nil && aTo.Before(bFrom) {
		return false
	}
	if bTo != nil && bTo.Before(aFrom) {
		return false
	}
	return true
}

// Conflicts reports whether the candidate range collides with any of the
// existing assignments, skipping the row identified by excludeID so
// updates do not conflict with themselves.
func Conflicts(existing []ShiftAssignment, from time.Time, to *time.Time, excludeID string) bool {
	for _, other := range existing {
		if excludeID != "" && other.ID == excludeID {
			continue
		}
		if RangesOverlap(from, to, other.EffectiveFrom, other.EffectiveTo) {
			return true
		}
	}
	return false
}
