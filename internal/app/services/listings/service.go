package listings

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path"
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

var ErrNoImageStore = fault.New(fault.KindValidation, "listings: photo storage is not configured")

// Service owns the listing lifecycle, including the guest-facing
// unavailable-dates projection and the deletion cascade over bookings.
type Service struct {
	listings domainlistings.Repository
	bookings domainbooking.Repository
	users    domainuser.Repository
	images   policies.ImageStore
	clock    clock.Clock
	events   policies.EventPublisher
	logger   *slog.Logger
}

func NewService(
	listingRepo domainlistings.Repository,
	bookings domainbooking.Repository,
	users domainuser.Repository,
	images policies.ImageStore,
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
		listings: listingRepo,
		bookings: bookings,
		users:    users,
		images:   images,
		clock:    clk,
		events:   events,
		logger:   logger,
	}
}

type CreateParams struct {
	Title            string
	Description      string
	Location         string
	NightlyRateCents int64
	Window           domainlistings.Window
}

func (s *Service) Create(ctx context.Context, host domainuser.ID, params CreateParams) (*domainlistings.Listing, error) {
	now := s.clock.Now()
	listing, err := domainlistings.NewListing(domainlistings.CreateParams{
		ID:               domainlistings.ID(uuid.NewString()),
		Host:             host,
		Title:            params.Title,
		Description:      params.Description,
		Location:         params.Location,
		NightlyRateCents: params.NightlyRateCents,
		Window:           params.Window,
		Now:              now,
	})
	if err != nil {
		return nil, err
	}
	if err := s.listings.Save(ctx, listing); err != nil {
		return nil, err
	}
	s.promoteToHost(ctx, host, now)
	s.publish(ctx, policies.EventListingCreated, listing)
	return listing, nil
}

func (s *Service) Update(ctx context.Context, actor domainuser.ID, id domainlistings.ID, params domainlistings.UpdateParams) (*domainlistings.Listing, error) {
	listing, err := s.listings.ByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !listing.OwnedBy(actor) {
		return nil, domainlistings.ErrNotOwner
	}
	if err := listing.Apply(params, s.clock.Now()); err != nil {
		return nil, err
	}
	if err := s.listings.Save(ctx, listing); err != nil {
		return nil, err
	}
	return listing, nil
}

// Delete removes a listing and cascade-cancels every non-cancelled booking
// referencing it, so no confirmed booking ever points at a deleted listing.
func (s *Service) Delete(ctx context.Context, actor domainuser.ID, id domainlistings.ID) error {
	listing, err := s.listings.ByID(ctx, id)
	if err != nil {
		return err
	}
	if !listing.OwnedBy(actor) {
		return domainlistings.ErrNotOwner
	}
	now := s.clock.Now()
	if err := s.bookings.CancelAllByListing(ctx, id, now); err != nil {
		return err
	}
	if err := s.listings.Delete(ctx, id); err != nil {
		return err
	}
	s.publish(ctx, policies.EventListingDeleted, listing)
	return nil
}

// Detail is the listing read model: the listing plus its blocked-date
// projection recomputed from the current confirmed bookings.
type Detail struct {
	Listing          *domainlistings.Listing
	UnavailableDates []string
}

func (s *Service) Detail(ctx context.Context, id domainlistings.ID) (Detail, error) {
	listing, err := s.listings.ByID(ctx, id)
	if err != nil {
		return Detail{}, err
	}
	confirmed, err := s.bookings.ConfirmedByListing(ctx, id)
	if err != nil {
		return Detail{}, err
	}
	ranges := make([]daterange.DateRange, 0, len(confirmed))
	for _, b := range confirmed {
		ranges = append(ranges, b.Range)
	}
	return Detail{Listing: listing, UnavailableDates: availability.UnavailableDates(ranges)}, nil
}

func (s *Service) Search(ctx context.Context, filter domainlistings.Filter) (domainlistings.Page, error) {
	return s.listings.Search(ctx, filter)
}

func (s *Service) HostListings(ctx context.Context, host domainuser.ID) ([]*domainlistings.Listing, error) {
	return s.listings.ByHost(ctx, host)
}

type PhotoUpload struct {
	Filename    string
	ContentType string
	Reader      io.Reader
}

// AddPhotos uploads images to object storage and appends their URLs to the
// listing in order.
func (s *Service) AddPhotos(ctx context.Context, actor domainuser.ID, id domainlistings.ID, photos []PhotoUpload) (*domainlistings.Listing, error) {
	if s.images == nil {
		return nil, ErrNoImageStore
	}
	listing, err := s.listings.ByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !listing.OwnedBy(actor) {
		return nil, domainlistings.ErrNotOwner
	}
	urls := make([]string, 0, len(photos))
	for _, photo := range photos {
		key := fmt.Sprintf("listings/%s/%s%s", id, uuid.NewString(), path.Ext(photo.Filename))
		url, err := s.images.Upload(ctx, key, photo.Reader, photo.ContentType)
		if err != nil {
			return nil, err
		}
		urls = append(urls, url)
	}
	listing.AppendImages(urls, s.clock.Now())
	if err := s.listings.Save(ctx, listing); err != nil {
		return nil, err
	}
	return listing, nil
}

func (s *Service) promoteToHost(ctx context.Context, host domainuser.ID, now time.Time) {
	if s.users == nil {
		return
	}
	u, err := s.users.ByID(ctx, host)
	if err != nil {
		if s.logger != nil {
			s.logger.Warn("host promotion skipped", "user_id", host, "error", err)
		}
		return
	}
	if u.IsHost() {
		return
	}
	u.BecomeHost(now)
	if err := s.users.Save(ctx, u); err != nil && s.logger != nil {
		s.logger.Warn("host promotion save failed", "user_id", host, "error", err)
	}
}

func (s *Service) publish(ctx context.Context, event string, listing *domainlistings.Listing) {
	payload := map[string]any{
		"listing_id": string(listing.ID),
		"host_id":    string(listing.Host),
		"title":      listing.Title,
		"location":   listing.Location,
	}
	if err := s.events.Publish(ctx, event, string(listing.ID), payload); err != nil && s.logger != nil {
		s.logger.Warn("event publish failed", "event", event, "listing_id", listing.ID, "error", err)
	}
}
