package daterange

import (
	"testing"
	"time"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func mustRange(t *testing.T, in, out time.Time) DateRange {
	t.Helper()
	dr, err := New(in, out)
	if err != nil {
		t.Fatalf("New(%v, %v): %v", in, out, err)
	}
	return dr
}

func TestNewRejectsInvertedRange(t *testing.T) {
	if _, err := New(day(2025, 3, 13), day(2025, 3, 10)); err != ErrInvalidRange {
		t.Fatalf("expected ErrInvalidRange, got %v", err)
	}
	if _, err := New(day(2025, 3, 10), day(2025, 3, 10)); err != ErrInvalidRange {
		t.Fatalf("zero-night range: expected ErrInvalidRange, got %v", err)
	}
}

func TestNewTruncatesTimeOfDay(t *testing.T) {
	in := time.Date(2025, 3, 10, 15, 30, 0, 0, time.UTC)
	out := time.Date(2025, 3, 13, 9, 0, 0, 0, time.UTC)
	dr := mustRange(t, in, out)
	if !dr.CheckIn.Equal(day(2025, 3, 10)) || !dr.CheckOut.Equal(day(2025, 3, 13)) {
		t.Fatalf("bounds not truncated to midnight: %v", dr)
	}
	if got := dr.Nights(); got != 3 {
		t.Fatalf("Nights() = %d, want 3", got)
	}
}

func TestOverlaps(t *testing.T) {
	base := mustRange(t, day(2025, 3, 10), day(2025, 3, 13))
	cases := []struct {
		name  string
		other DateRange
		want  bool
	}{
		{"identical", mustRange(t, day(2025, 3, 10), day(2025, 3, 13)), true},
		{"partial tail", mustRange(t, day(2025, 3, 12), day(2025, 3, 15)), true},
		{"partial head", mustRange(t, day(2025, 3, 8), day(2025, 3, 11)), true},
		{"contained", mustRange(t, day(2025, 3, 11), day(2025, 3, 12)), true},
		{"containing", mustRange(t, day(2025, 3, 1), day(2025, 3, 31)), true},
		{"adjacent after", mustRange(t, day(2025, 3, 13), day(2025, 3, 16)), false},
		{"adjacent before", mustRange(t, day(2025, 3, 7), day(2025, 3, 10)), false},
		{"disjoint", mustRange(t, day(2025, 4, 1), day(2025, 4, 5)), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := base.Overlaps(tc.other); got != tc.want {
				t.Fatalf("Overlaps = %v, want %v", got, tc.want)
			}
			if got := tc.other.Overlaps(base); got != tc.want {
				t.Fatalf("Overlaps not symmetric: reversed = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestOverlapsSelf(t *testing.T) {
	dr := mustRange(t, day(2025, 1, 1), day(2025, 1, 5))
	if !dr.Overlaps(dr) {
		t.Fatal("an interval must overlap itself")
	}
}

func TestContainsDate(t *testing.T) {
	dr := mustRange(t, day(2025, 3, 10), day(2025, 3, 13))
	if !dr.ContainsDate(day(2025, 3, 10)) {
		t.Fatal("check-in day must be contained")
	}
	if !dr.ContainsDate(time.Date(2025, 3, 12, 23, 0, 0, 0, time.UTC)) {
		t.Fatal("time-of-day must not affect containment")
	}
	if dr.ContainsDate(day(2025, 3, 13)) {
		t.Fatal("check-out day must not be contained in the half-open interval")
	}
}

func TestDaysInclusive(t *testing.T) {
	dr := mustRange(t, day(2025, 3, 10), day(2025, 3, 13))
	want := []string{"2025-03-10", "2025-03-11", "2025-03-12", "2025-03-13"}
	got := dr.DaysInclusive()
	if len(got) != len(want) {
		t.Fatalf("DaysInclusive = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("DaysInclusive[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

// The two interval rules intentionally diverge on adjacency: back-to-back
// stays do not conflict, yet both list the shared boundary day.
func TestAdjacencyDivergence(t *testing.T) {
	first := mustRange(t, day(2025, 1, 1), day(2025, 1, 5))
	second := mustRange(t, day(2025, 1, 5), day(2025, 1, 10))
	if first.Overlaps(second) {
		t.Fatal("adjacent ranges must not overlap under the strict rule")
	}
	if got := first.DaysInclusive()[len(first.DaysInclusive())-1]; got != "2025-01-05" {
		t.Fatalf("first stay must list the boundary day, got %q", got)
	}
	if got := second.DaysInclusive()[0]; got != "2025-01-05" {
		t.Fatalf("second stay must list the boundary day, got %q", got)
	}
}
