package booking

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"staybook/internal/app/policies"
	"staybook/internal/domain/availability"
	domainbooking "staybook/internal/domain/booking"
	domainlistings "staybook/internal/domain/listings"
	"staybook/internal/domain/shared/clock"
	"staybook/internal/domain/shared/daterange"
	"staybook/internal/domain/shared/fault"
	domainuser "staybook/internal/domain/user"
)

var (
	ErrInvalidStatus  = fault.New(fault.KindValidation, "booking: status must be confirmed or cancelled")
	ErrOutsideWindow  = fault.New(fault.KindValidation, "booking: stay falls outside the listing's availability window")
	ErrMissingListing = fault.New(fault.KindValidation, "booking: listing id is required")
)

// Service implements booking acceptance and lifecycle transitions. Create is
// the only path that admits a confirmed booking, and it runs the overlap
// check and insert under a per-listing lock so the persisted confirmed set
// stays pairwise non-overlapping under concurrent submission.
type Service struct {
	bookings domainbooking.Repository
	listings domainlistings.Repository
	clock    clock.Clock
	events   policies.EventPublisher
	logger   *slog.Logger
	locks    *listingLocks
}

func NewService(
	bookings domainbooking.Repository,
	listingRepo domainlistings.Repository,
	clk clock.Clock,
	events policies.EventPublisher,
	logger *slog.Logger,
) *Service {
	if clk == nil {
		clk = clock.System{}
	}
	if events == nil {
		events = policies.NoopPublisher{}
	}
	return &Service{
		bookings: bookings,
		listings: listingRepo,
		clock:    clk,
		events:   events,
		logger:   logger,
		locks:    newListingLocks(),
	}
}

type CreateParams struct {
	Guest       domainuser.ID
	Listing     domainlistings.ID
	CheckIn     time.Time
	CheckOut    time.Time
	QuotedCents int64
}

// Create decides accept or reject for a candidate stay.
func (s *Service) Create(ctx context.Context, params CreateParams) (*domainbooking.Booking, error) {
	if params.Listing == "" {
		return nil, ErrMissingListing
	}
	dr, err := daterange.New(params.CheckIn, params.CheckOut)
	if err != nil {
		return nil, err
	}
	now := s.clock.Now()
	if err := domainbooking.ValidateCheckIn(dr, now); err != nil {
		return nil, err
	}

	listing, err := s.listings.ByID(ctx, params.Listing)
	if err != nil {
		return nil, err
	}
	if listing.OwnedBy(params.Guest) {
		return nil, domainbooking.ErrOwnListing
	}
	if !listing.Window.Allows(dr) {
		return nil, ErrOutsideWindow
	}

	release := s.locks.Acquire(string(listing.ID))
	defer release()

	confirmed, err := s.bookings.ConfirmedByListing(ctx, listing.ID)
	if err != nil {
		return nil, err
	}
	ranges := make([]daterange.DateRange, 0, len(confirmed))
	for _, b := range confirmed {
		ranges = append(ranges, b.Range)
	}
	if !availability.RangeFree(ranges, dr) {
		return nil, domainbooking.ErrDatesUnavailable
	}

	b, err := domainbooking.NewBooking(domainbooking.CreateParams{
		ID:               domainbooking.ID(uuid.NewString()),
		Guest:            params.Guest,
		Listing:          listing.ID,
		Range:            dr,
		NightlyRateCents: listing.NightlyRateCents,
		Now:              now,
	})
	if err != nil {
		return nil, err
	}
	if params.QuotedCents != 0 && params.QuotedCents != b.TotalCents && s.logger != nil {
		s.logger.Debug("client quote overridden", "booking_id", b.ID, "quoted", params.QuotedCents, "total", b.TotalCents)
	}
	if err := s.bookings.Save(ctx, b); err != nil {
		return nil, err
	}

	s.publish(ctx, policies.EventBookingConfirmed, b)
	return b, nil
}

// UpdateStatus applies the inbound {status} request. The only transition in
// the lifecycle is confirmed to cancelled.
func (s *Service) UpdateStatus(ctx context.Context, actor domainuser.ID, id domainbooking.ID, status string) (*domainbooking.Booking, error) {
	switch domainbooking.Status(status) {
	case domainbooking.StatusCancelled:
		return s.Cancel(ctx, actor, id)
	case domainbooking.StatusConfirmed:
		return nil, domainbooking.ErrNotCancellable
	default:
		return nil, ErrInvalidStatus
	}
}

// Cancel checks ownership before any lifecycle guard so a foreign actor gets
// Forbidden rather than a state hint.
func (s *Service) Cancel(ctx context.Context, actor domainuser.ID, id domainbooking.ID) (*domainbooking.Booking, error) {
	b, err := s.bookings.ByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if b.Guest != actor {
		return nil, domainbooking.ErrNotGuest
	}
	if err := b.Cancel(s.clock.Now()); err != nil {
		return nil, err
	}
	if err := s.bookings.Save(ctx, b); err != nil {
		return nil, err
	}
	s.publish(ctx, policies.EventBookingCancelled, b)
	return b, nil
}

// Delete removes the booking record when the lifecycle permits it.
func (s *Service) Delete(ctx context.Context, actor domainuser.ID, id domainbooking.ID) error {
	b, err := s.bookings.ByID(ctx, id)
	if err != nil {
		return err
	}
	if b.Guest != actor {
		return domainbooking.ErrNotGuest
	}
	if err := b.EnsureDeletable(s.clock.Now()); err != nil {
		return err
	}
	return s.bookings.Delete(ctx, id)
}

// ByID returns the booking scoped to its owning guest. Foreign bookings
// read as not found so record existence does not leak.
func (s *Service) ByID(ctx context.Context, actor domainuser.ID, id domainbooking.ID) (*domainbooking.Booking, error) {
	b, err := s.bookings.ByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if b.Guest != actor {
		return nil, domainbooking.ErrNotFound
	}
	return b, nil
}

func (s *Service) GuestBookings(ctx context.Context, guest domainuser.ID) ([]*domainbooking.Booking, error) {
	return s.bookings.ByGuest(ctx, guest)
}

// HostBookings lists bookings across every listing the host owns.
func (s *Service) HostBookings(ctx context.Context, host domainuser.ID) ([]*domainbooking.Booking, error) {
	owned, err := s.listings.ByHost(ctx, host)
	if err != nil {
		return nil, err
	}
	ids := make([]domainlistings.ID, 0, len(owned))
	for _, l := range owned {
		ids = append(ids, l.ID)
	}
	return s.bookings.ByListings(ctx, ids)
}

func (s *Service) publish(ctx context.Context, event string, b *domainbooking.Booking) {
	payload := map[string]any{
		"booking_id":  string(b.ID),
		"listing_id":  string(b.Listing),
		"guest_id":    string(b.Guest),
		"check_in":    b.Range.CheckIn.Format(daterange.DayFormat),
		"check_out":   b.Range.CheckOut.Format(daterange.DayFormat),
		"total_cents": b.TotalCents,
		"status":      string(b.Status),
	}
	if err := s.events.Publish(ctx, event, string(b.Listing), payload); err != nil && s.logger != nil {
		s.logger.Warn("event publish failed", "event", event, "booking_id", b.ID, "error", err)
	}
}
