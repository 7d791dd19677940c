package availability

import (
	"sort"
	"testing"
	"time"

	"staybook/internal/domain/shared/daterange"
)

func stay(t *testing.T, inDay, outDay int) daterange.DateRange {
	t.Helper()
	dr, err := daterange.New(
		time.Date(2025, 3, inDay, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 3, outDay, 0, 0, 0, 0, time.UTC),
	)
	if err != nil {
		t.Fatalf("stay(%d, %d): %v", inDay, outDay, err)
	}
	return dr
}

func TestUnavailableDatesEmpty(t *testing.T) {
	if got := UnavailableDates(nil); len(got) != 0 {
		t.Fatalf("expected no dates, got %v", got)
	}
}

func TestUnavailableDatesDeduplicatesAndSorts(t *testing.T) {
	ranges := []daterange.DateRange{
		stay(t, 12, 15),
		stay(t, 10, 13), // overlaps the first on the 12th and 13th
	}
	got := UnavailableDates(ranges)
	want := []string{
		"2025-03-10", "2025-03-11", "2025-03-12",
		"2025-03-13", "2025-03-14", "2025-03-15",
	}
	if len(got) != len(want) {
		t.Fatalf("UnavailableDates = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("UnavailableDates[%d] = %q, want %q", i, got[i], want[i])
		}
	}
	if !sort.StringsAreSorted(got) {
		t.Fatalf("dates not sorted: %v", got)
	}
}

func TestUnavailableDatesIncludesCheckoutDay(t *testing.T) {
	got := UnavailableDates([]daterange.DateRange{stay(t, 10, 13)})
	last := got[len(got)-1]
	if last != "2025-03-13" {
		t.Fatalf("check-out day missing from projection, last = %q", last)
	}
}

func TestRangeFree(t *testing.T) {
	confirmed := []daterange.DateRange{stay(t, 10, 13)}
	cases := []struct {
		name      string
		candidate daterange.DateRange
		want      bool
	}{
		{"overlapping tail", stay(t, 12, 15), false},
		{"adjacent after", stay(t, 13, 16), true},
		{"adjacent before", stay(t, 7, 10), true},
		{"disjoint", stay(t, 20, 25), true},
		{"identical", stay(t, 10, 13), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := RangeFree(confirmed, tc.candidate); got != tc.want {
				t.Fatalf("RangeFree = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestRangeFreeOrderIndependent(t *testing.T) {
	confirmed := []daterange.DateRange{stay(t, 1, 5), stay(t, 10, 13), stay(t, 20, 22)}
	reversed := []daterange.DateRange{stay(t, 20, 22), stay(t, 10, 13), stay(t, 1, 5)}
	candidate := stay(t, 12, 15)
	if RangeFree(confirmed, candidate) != RangeFree(reversed, candidate) {
		t.Fatal("RangeFree must not depend on iteration order")
	}
}
