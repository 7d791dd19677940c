package daterange

import (
	"time"

	"staybook/internal/domain/shared/fault"
)

var ErrInvalidRange = fault.New(fault.KindValidation, "daterange: checkout must be after checkin")

// DayFormat is the wire format for single calendar days.
const DayFormat = "2006-01-02"

// DateRange represents a stay as a half-open interval [CheckIn, CheckOut)
// at day granularity. Both bounds are UTC midnights.
type DateRange struct {
	CheckIn  time.Time
	CheckOut time.Time
}

// New truncates both bounds to UTC midnight and validates the interval.
// Truncation happens before validation so inputs carrying a time-of-day
// component cannot produce off-by-one intervals.
func New(checkIn, checkOut time.Time) (DateRange, error) {
	dr := DateRange{CheckIn: Midnight(checkIn), CheckOut: Midnight(checkOut)}
	if err := dr.Validate(); err != nil {
		return DateRange{}, err
	}
	return dr, nil
}

// Midnight strips any time-of-day component, normalizing to UTC.
func Midnight(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func (dr DateRange) Validate() error {
	if dr.CheckIn.IsZero() || dr.CheckOut.IsZero() {
		return ErrInvalidRange
	}
	if !dr.CheckOut.After(dr.CheckIn) {
		return ErrInvalidRange
	}
	return nil
}

// Nights counts the occupied nights, i.e. the day-count of the half-open
// interval. A stay [Mar 10, Mar 13) is 3 nights.
func (dr DateRange) Nights() int {
	return int(dr.CheckOut.Sub(dr.CheckIn).Hours() / 24)
}

// Overlaps reports whether two half-open intervals intersect. This is the
// strict acceptance rule: a range ending on day D and another starting on
// day D do not conflict.
func (dr DateRange) Overlaps(other DateRange) bool {
	return dr.CheckIn.Before(other.CheckOut) && other.CheckIn.Before(dr.CheckOut)
}

// ContainsDate reports whether t falls inside the half-open interval.
func (dr DateRange) ContainsDate(t time.Time) bool {
	t = Midnight(t)
	return !t.Before(dr.CheckIn) && t.Before(dr.CheckOut)
}

// DaysInclusive enumerates every calendar day the stay touches, including
// both the check-in and the check-out day. This is the conservative
// guest-facing projection rule and deliberately differs from Overlaps: the
// departure day is listed even though it is not an occupied night.
func (dr DateRange) DaysInclusive() []string {
	days := make([]string, 0, dr.Nights()+1)
	for d := dr.CheckIn; !d.After(dr.CheckOut); d = d.AddDate(0, 0, 1) {
		days = append(days, d.Format(DayFormat))
	}
	return days
}
