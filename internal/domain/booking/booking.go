package booking

import (
	"context"
	"strings"
	"time"

	"staybook/internal/domain/listings"
	"staybook/internal/domain/shared/daterange"
	"staybook/internal/domain/shared/fault"
	"staybook/internal/domain/user"
)

var (
	ErrNotFound         = fault.New(fault.KindNotFound, "booking: not found")
	ErrGuestRequired    = fault.New(fault.KindValidation, "booking: guest id required")
	ErrListingRequired  = fault.New(fault.KindValidation, "booking: listing id required")
	ErrCheckInPast      = fault.New(fault.KindValidation, "booking: check-in date cannot be in the past")
	ErrDatesUnavailable = fault.New(fault.KindConflict, "booking: listing is not available for the selected dates")
	ErrNotGuest         = fault.New(fault.KindForbidden, "booking: actor is not the owning guest")
	ErrAlreadyCancelled = fault.New(fault.KindInvalidState, "booking: already cancelled")
	ErrStayStarted      = fault.New(fault.KindInvalidState, "booking: cannot cancel a stay that has already started")
	ErrDeleteStarted    = fault.New(fault.KindInvalidState, "booking: cannot delete a confirmed booking that has started")
	ErrOwnListing       = fault.New(fault.KindInvalidState, "booking: hosts cannot book their own listing")
	ErrNotCancellable   = fault.New(fault.KindInvalidState, "booking: only the confirmed to cancelled transition exists")
)

type ID string

type Status string

const (
	// StatusConfirmed is the only entry state.
	StatusConfirmed Status = "confirmed"
	// StatusCancelled is terminal.
	StatusCancelled Status = "cancelled"
)

type Booking struct {
	ID         ID
	Guest      user.ID
	Listing    listings.ID
	Range      daterange.DateRange
	TotalCents int64
	Status     Status
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

type Repository interface {
	ByID(ctx context.Context, id ID) (*Booking, error)
	Save(ctx context.Context, b *Booking) error
	Delete(ctx context.Context, id ID) error
	ConfirmedByListing(ctx context.Context, listingID listings.ID) ([]*Booking, error)
	ByGuest(ctx context.Context, guestID user.ID) ([]*Booking, error)
	ByListings(ctx context.Context, listingIDs []listings.ID) ([]*Booking, error)
	// CancelAllByListing transitions every non-cancelled booking on the
	// listing to cancelled, bypassing per-booking guards. Used by the
	// listing-deletion cascade.
	CancelAllByListing(ctx context.Context, listingID listings.ID, now time.Time) error
}

type CreateParams struct {
	ID               ID
	Guest            user.ID
	Listing          listings.ID
	Range            daterange.DateRange
	NightlyRateCents int64
	Now              time.Time
}

// NewBooking builds a confirmed booking. The total is derived server-side
// from the nightly rate; any client-computed total is advisory only.
func NewBooking(params CreateParams) (*Booking, error) {
	if strings.TrimSpace(string(params.Guest)) == "" {
		return nil, ErrGuestRequired
	}
	if strings.TrimSpace(string(params.Listing)) == "" {
		return nil, ErrListingRequired
	}
	if err := params.Range.Validate(); err != nil {
		return nil, err
	}
	now := params.Now.UTC()
	if err := ValidateCheckIn(params.Range, now); err != nil {
		return nil, err
	}
	return &Booking{
		ID:         params.ID,
		Guest:      params.Guest,
		Listing:    params.Listing,
		Range:      params.Range,
		TotalCents: int64(params.Range.Nights()) * params.NightlyRateCents,
		Status:     StatusConfirmed,
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}

// ValidateCheckIn rejects retroactive bookings at day granularity: a stay
// starting today is still bookable.
func ValidateCheckIn(dr daterange.DateRange, now time.Time) error {
	if dr.CheckIn.Before(daterange.Midnight(now)) {
		return ErrCheckInPast
	}
	return nil
}

// Cancel performs the confirmed to cancelled transition. Ownership is
// checked by the caller before the state and timing guards run here.
func (b *Booking) Cancel(now time.Time) error {
	if b.Status == StatusCancelled {
		return ErrAlreadyCancelled
	}
	if !now.UTC().Before(b.Range.CheckIn) {
		return ErrStayStarted
	}
	b.Status = StatusCancelled
	b.UpdatedAt = now.UTC()
	return nil
}

// ForceCancel is the cascade path: the listing itself is gone, so the
// ownership and timing guards do not apply.
func (b *Booking) ForceCancel(now time.Time) {
	if b.Status == StatusCancelled {
		return
	}
	b.Status = StatusCancelled
	b.UpdatedAt = now.UTC()
}

// EnsureDeletable guards record removal: cancelled bookings can always be
// deleted, confirmed ones only before check-in. A started confirmed booking
// can never be deleted.
func (b *Booking) EnsureDeletable(now time.Time) error {
	if b.Status == StatusConfirmed && !now.UTC().Before(b.Range.CheckIn) {
		return ErrDeleteStarted
	}
	return nil
}
