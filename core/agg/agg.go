// Package agg folds parsed commits into churn, authorship, coupling, module and branch reports.
//
// Every aggregator has two phases kept apart on purpose: a fold over an iter.Seq2 source into an
// explicit map type, then a Sorted step that freezes the map into an ordered slice.
package agg

import (
	"math"
	"time"
)

// Round2 rounds v to two decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// beforeCutoff reports whether t falls before an inclusive lower bound. A zero after never excludes.
func beforeCutoff(t, after time.Time) bool {
	return !after.IsZero() && t.Before(after)
}

// notAfterCutoff reports whether t fails a strict lower bound. A zero after never excludes.
func notAfterCutoff(t, after time.Time) bool {
	return !after.IsZero() && !t.After(after)
}

// minTime returns the earlier of a and b, treating a zero a as unset.
func minTime(a, b time.Time) time.Time {
	if a.IsZero() || b.Before(a) {
		return b
	}
	return a
}

// maxTime returns the later of a and b.
func maxTime(a, b time.Time) time.Time {
	if b.After(a) {
		return b
	}
	return a
}
