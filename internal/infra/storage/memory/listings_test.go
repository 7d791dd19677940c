package memory

import (
	"context"
	"testing"
	"time"

	domainbooking "staybook/internal/domain/booking"
	domainlistings "staybook/internal/domain/listings"
	"staybook/internal/domain/shared/daterange"
)

func seedListings(t *testing.T, repo *ListingRepository, n int) {
	t.Helper()
	base := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		listing, err := domainlistings.NewListing(domainlistings.CreateParams{
			ID:               domainlistings.ID(string(rune('a' + i))),
			Host:             "host-1",
			Title:            "Listing",
			Description:      "Somewhere to stay",
			Location:         "Lisbon",
			NightlyRateCents: 5000,
			Now:              base.Add(time.Duration(i) * time.Hour),
		})
		if err != nil {
			t.Fatal(err)
		}
		if err := repo.Save(context.Background(), listing); err != nil {
			t.Fatal(err)
		}
	}
}

func TestSearchPagination(t *testing.T) {
	repo := NewListingRepository()
	seedListings(t, repo, 25)
	ctx := context.Background()

	page, err := repo.Search(ctx, domainlistings.Filter{Page: 1, Limit: 10})
	if err != nil {
		t.Fatal(err)
	}
	if page.Total != 25 || page.TotalPages != 3 || len(page.Items) != 10 {
		t.Errorf("page 1: total=%d pages=%d items=%d, want 25/3/10", page.Total, page.TotalPages, len(page.Items))
	}

	last, err := repo.Search(ctx, domainlistings.Filter{Page: 3, Limit: 10})
	if err != nil {
		t.Fatal(err)
	}
	if len(last.Items) != 5 {
		t.Errorf("page 3 has %d items, want 5", len(last.Items))
	}

	// Newest first: the last seeded listing leads page 1.
	if page.Items[0].CreatedAt.Before(page.Items[len(page.Items)-1].CreatedAt) {
		t.Error("page 1 not sorted newest first")
	}

	beyond, err := repo.Search(ctx, domainlistings.Filter{Page: 99, Limit: 10})
	if err != nil {
		t.Fatal(err)
	}
	if len(beyond.Items) != 0 {
		t.Errorf("page beyond the end has %d items, want 0", len(beyond.Items))
	}
}

func TestCancelAllByListing(t *testing.T) {
	repo := NewBookingRepository()
	ctx := context.Background()
	now := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)

	mk := func(id string, listing domainlistings.ID, from, until int, cancelled bool) {
		t.Helper()
		dr, err := daterange.New(now.AddDate(0, 0, from), now.AddDate(0, 0, until))
		if err != nil {
			t.Fatal(err)
		}
		b, err := domainbooking.NewBooking(domainbooking.CreateParams{
			ID: domainbooking.ID(id), Guest: "guest-1", Listing: listing,
			Range: dr, NightlyRateCents: 5000, Now: now,
		})
		if err != nil {
			t.Fatal(err)
		}
		if cancelled {
			if err := b.Cancel(now); err != nil {
				t.Fatal(err)
			}
		}
		if err := repo.Save(ctx, b); err != nil {
			t.Fatal(err)
		}
	}

	mk("b1", "l1", 1, 4, false)
	mk("b2", "l1", 10, 12, true)
	mk("b3", "l2", 1, 4, false)

	if err := repo.CancelAllByListing(ctx, "l1", now); err != nil {
		t.Fatal(err)
	}

	for _, id := range []string{"b1", "b2"} {
		b, err := repo.ByID(ctx, domainbooking.ID(id))
		if err != nil {
			t.Fatal(err)
		}
		if b.Status != domainbooking.StatusCancelled {
			t.Errorf("%s status = %q, want cancelled", id, b.Status)
		}
	}

	untouched, err := repo.ByID(ctx, "b3")
	if err != nil {
		t.Fatal(err)
	}
	if untouched.Status != domainbooking.StatusConfirmed {
		t.Errorf("other listing's booking status = %q, want confirmed", untouched.Status)
	}
}
