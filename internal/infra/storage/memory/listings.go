package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	domainlistings "staybook/internal/domain/listings"
	domainuser "staybook/internal/domain/user"
)

// ListingRepository is an in-memory store used in dev mode and tests.
type ListingRepository struct {
	mu    sync.RWMutex
	items map[domainlistings.ID]*domainlistings.Listing
}

func NewListingRepository() *ListingRepository {
	return &ListingRepository{items: make(map[domainlistings.ID]*domainlistings.Listing)}
}

func (r *ListingRepository) ByID(ctx context.Context, id domainlistings.ID) (*domainlistings.Listing, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	listing, ok := r.items[id]
	if !ok {
		return nil, domainlistings.ErrNotFound
	}
	return cloneListing(listing), nil
}

func (r *ListingRepository) Save(ctx context.Context, listing *domainlistings.Listing) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[listing.ID] = cloneListing(listing)
	return nil
}

func (r *ListingRepository) Delete(ctx context.Context, id domainlistings.ID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return domainlistings.ErrNotFound
	}
	delete(r.items, id)
	return nil
}

func (r *ListingRepository) ByHost(ctx context.Context, host domainuser.ID) ([]*domainlistings.Listing, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var owned []*domainlistings.Listing
	for _, listing := range r.items {
		if listing.Host == host {
			owned = append(owned, cloneListing(listing))
		}
	}
	sortByCreatedDesc(owned)
	return owned, nil
}

func (r *ListingRepository) Search(ctx context.Context, filter domainlistings.Filter) (domainlistings.Page, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	opts := filter.Normalized()
	var matches []*domainlistings.Listing
	for _, listing := range r.items {
		if opts.ExcludeHost != "" && listing.Host == opts.ExcludeHost {
			continue
		}
		if opts.Location != "" && !strings.Contains(strings.ToLower(listing.Location), strings.ToLower(opts.Location)) {
			continue
		}
		if opts.MinCents > 0 && listing.NightlyRateCents < opts.MinCents {
			continue
		}
		if opts.MaxCents > 0 && listing.NightlyRateCents > opts.MaxCents {
			continue
		}
		matches = append(matches, cloneListing(listing))
	}
	sortByCreatedDesc(matches)

	total := len(matches)
	totalPages := (total + opts.Limit - 1) / opts.Limit
	start := (opts.Page - 1) * opts.Limit
	if start > total {
		start = total
	}
	end := start + opts.Limit
	if end > total {
		end = total
	}
	return domainlistings.Page{
		Items:      matches[start:end],
		Total:      total,
		Page:       opts.Page,
		TotalPages: totalPages,
	}, nil
}

func sortByCreatedDesc(items []*domainlistings.Listing) {
	sort.Slice(items, func(i, j int) bool {
		if items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].ID < items[j].ID
		}
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
}

func cloneListing(l *domainlistings.Listing) *domainlistings.Listing {
	copied := *l
	copied.Images = append([]string(nil), l.Images...)
	return &copied
}
