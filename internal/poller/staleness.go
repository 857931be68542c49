// Package poller detects review requests that still owe a build and dispatches
// each of them exactly once per diff revision.
package poller

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/sevigo/build-warden/internal/core"
)

// DefaultLookback is used when the configured window is unusable.
const DefaultLookback = time.Hour

// LookbackWindow parses the configured number of hours. Blank, non-numeric,
// negative or non-finite values yield DefaultLookback. Fractions are allowed.
func LookbackWindow(raw string) time.Duration {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return DefaultLookback
	}
	hours, err := strconv.ParseFloat(raw, 64)
	if err != nil || hours < 0 || math.IsNaN(hours) || math.IsInf(hours, 0) {
		return DefaultLookback
	}
	return time.Duration(hours * float64(time.Hour))
}

// FilterStale keeps the reviews updated no earlier than window before the
// most recently updated review of the batch. The reference point is the batch
// itself, not the wall clock.
func FilterStale(reviews []core.ReviewSummary, window time.Duration) []core.ReviewSummary {
	if len(reviews) == 0 {
		return nil
	}

	newest := reviews[0].LastUpdated
	for _, r := range reviews[1:] {
		if r.LastUpdated.After(newest) {
			newest = r.LastUpdated
		}
	}
	threshold := newest.Add(-window)

	fresh := make([]core.ReviewSummary, 0, len(reviews))
	for _, r := range reviews {
		if !r.LastUpdated.Before(threshold) {
			fresh = append(fresh, r)
		}
	}
	return fresh
}
