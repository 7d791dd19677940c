// Package availability derives the blocked-date view of a listing from its
// confirmed bookings. It is pure and recomputed on every read: booking volume
// per listing is small, so correctness wins over caching.
package availability

import (
	"sort"

	"staybook/internal/domain/shared/daterange"
)

// UnavailableDates flattens the confirmed stay ranges of a listing into the
// guest-facing list of blocked calendar days, YYYY-MM-DD, deduplicated and
// sorted ascending. Both the check-in and the check-out day of each stay are
// included: this projection is deliberately more conservative than the strict
// overlap rule used for acceptance, and the two must not be unified.
func UnavailableDates(ranges []daterange.DateRange) []string {
	seen := make(map[string]struct{})
	for _, r := range ranges {
		for _, d := range r.DaysInclusive() {
			seen[d] = struct{}{}
		}
	}
	dates := make([]string, 0, len(seen))
	for d := range seen {
		dates = append(dates, d)
	}
	sort.Strings(dates)
	return dates
}

// RangeFree reports whether the candidate interval clears every confirmed
// stay under the strict half-open rule. The predicate is pairwise-independent,
// so iteration order cannot change the result.
func RangeFree(ranges []daterange.DateRange, candidate daterange.DateRange) bool {
	for _, r := range ranges {
		if r.Overlaps(candidate) {
			return false
		}
	}
	return true
}
