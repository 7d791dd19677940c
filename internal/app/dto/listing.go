package dto

import (
	"time"

	domainlistings "staybook/internal/domain/listings"
)

type Listing struct {
	ID             string     `json:"id"`
	Host           string     `json:"host"`
	Title          string     `json:"title"`
	Description    string     `json:"description"`
	Location       string     `json:"location"`
	PricePerNight  int64      `json:"price_per_night"`
	Images         []string   `json:"images"`
	AvailableFrom  *time.Time `json:"available_from,omitempty"`
	AvailableUntil *time.Time `json:"available_until,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// ListingDetail augments the listing with the guest-facing blocked-date
// projection.
type ListingDetail struct {
	Listing
	UnavailableDates []string `json:"unavailable_dates"`
}

type Pagination struct {
	CurrentPage int  `json:"current_page"`
	TotalPages  int  `json:"total_pages"`
	Total       int  `json:"total_listings"`
	HasNext     bool `json:"has_next_page"`
	HasPrev     bool `json:"has_prev_page"`
}

type ListingPage struct {
	Items      []Listing  `json:"listings"`
	Pagination Pagination `json:"pagination"`
}

func MapListing(l *domainlistings.Listing) Listing {
	out := Listing{
		ID:            string(l.ID),
		Host:          string(l.Host),
		Title:         l.Title,
		Description:   l.Description,
		Location:      l.Location,
		PricePerNight: l.NightlyRateCents,
		Images:        l.Images,
		CreatedAt:     l.CreatedAt,
		UpdatedAt:     l.UpdatedAt,
	}
	if out.Images == nil {
		out.Images = []string{}
	}
	if !l.Window.From.IsZero() {
		from := l.Window.From
		out.AvailableFrom = &from
	}
	if !l.Window.Until.IsZero() {
		until := l.Window.Until
		out.AvailableUntil = &until
	}
	return out
}

func MapListingDetail(l *domainlistings.Listing, unavailableDates []string) ListingDetail {
	if unavailableDates == nil {
		unavailableDates = []string{}
	}
	return ListingDetail{Listing: MapListing(l), UnavailableDates: unavailableDates}
}

func MapListingPage(page domainlistings.Page) ListingPage {
	items := make([]Listing, 0, len(page.Items))
	for _, l := range page.Items {
		items = append(items, MapListing(l))
	}
	return ListingPage{
		Items: items,
		Pagination: Pagination{
			CurrentPage: page.Page,
			TotalPages:  page.TotalPages,
			Total:       page.Total,
			HasNext:     page.Page < page.TotalPages,
			HasPrev:     page.Page > 1,
		},
	}
}
