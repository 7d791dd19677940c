package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	domainbooking "staybook/internal/domain/booking"
	domainlistings "staybook/internal/domain/listings"
	domainuser "staybook/internal/domain/user"
)

// BookingRepository is an in-memory store used in dev mode and tests.
type BookingRepository struct {
	mu    sync.RWMutex
	items map[domainbooking.ID]*domainbooking.Booking
}

func NewBookingRepository() *BookingRepository {
	return &BookingRepository{items: make(map[domainbooking.ID]*domainbooking.Booking)}
}

func (r *BookingRepository) ByID(ctx context.Context, id domainbooking.ID) (*domainbooking.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.items[id]
	if !ok {
		return nil, domainbooking.ErrNotFound
	}
	return cloneBooking(b), nil
}

func (r *BookingRepository) Save(ctx context.Context, b *domainbooking.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[b.ID] = cloneBooking(b)
	return nil
}

func (r *BookingRepository) Delete(ctx context.Context, id domainbooking.ID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return domainbooking.ErrNotFound
	}
	delete(r.items, id)
	return nil
}

func (r *BookingRepository) ConfirmedByListing(ctx context.Context, listingID domainlistings.ID) ([]*domainbooking.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var confirmed []*domainbooking.Booking
	for _, b := range r.items {
		if b.Listing == listingID && b.Status == domainbooking.StatusConfirmed {
			confirmed = append(confirmed, cloneBooking(b))
		}
	}
	return confirmed, nil
}

func (r *BookingRepository) ByGuest(ctx context.Context, guestID domainuser.ID) ([]*domainbooking.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var owned []*domainbooking.Booking
	for _, b := range r.items {
		if b.Guest == guestID {
			owned = append(owned, cloneBooking(b))
		}
	}
	sortByCreatedDescBookings(owned)
	return owned, nil
}

func (r *BookingRepository) ByListings(ctx context.Context, listingIDs []domainlistings.ID) ([]*domainbooking.Booking, error) {
	wanted := make(map[domainlistings.ID]struct{}, len(listingIDs))
	for _, id := range listingIDs {
		wanted[id] = struct{}{}
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	var result []*domainbooking.Booking
	for _, b := range r.items {
		if _, ok := wanted[b.Listing]; ok {
			result = append(result, cloneBooking(b))
		}
	}
	sortByCreatedDescBookings(result)
	return result, nil
}

func (r *BookingRepository) CancelAllByListing(ctx context.Context, listingID domainlistings.ID, now time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, b := range r.items {
		if b.Listing == listingID {
			b.ForceCancel(now)
		}
	}
	return nil
}

func sortByCreatedDescBookings(items []*domainbooking.Booking) {
	sort.Slice(items, func(i, j int) bool {
		if items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].ID < items[j].ID
		}
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
}

func cloneBooking(b *domainbooking.Booking) *domainbooking.Booking {
	copied := *b
	return &copied
}
