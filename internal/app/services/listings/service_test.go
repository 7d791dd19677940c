package listings

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"
	"testing"
	"time"

	domainbooking "staybook/internal/domain/booking"
	domainlistings "staybook/internal/domain/listings"
	"staybook/internal/domain/shared/clock"
	"staybook/internal/domain/shared/daterange"
	domainuser "staybook/internal/domain/user"
	"staybook/internal/infra/storage/memory"
)

var testNow = time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)

func day(d int) time.Time {
	return time.Date(2026, time.March, d, 0, 0, 0, 0, time.UTC)
}

type testEnv struct {
	svc      *Service
	listings *memory.ListingRepository
	bookings *memory.BookingRepository
	users    *memory.UserRepository
}

func newTestEnv(t *testing.T) testEnv {
	t.Helper()
	listingRepo := memory.NewListingRepository()
	bookingRepo := memory.NewBookingRepository()
	userRepo := memory.NewUserRepository()
	svc := NewService(listingRepo, bookingRepo, userRepo, nil, clock.Fixed{Instant: testNow}, nil, nil)
	return testEnv{svc: svc, listings: listingRepo, bookings: bookingRepo, users: userRepo}
}

func (e testEnv) seedUser(t *testing.T, id domainuser.ID) {
	t.Helper()
	u, err := domainuser.NewUser(domainuser.CreateParams{
		ID:           id,
		Email:        string(id) + "@example.com",
		Name:         "Some Person",
		PasswordHash: "x",
		CreatedAt:    testNow,
	})
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}
	if err := e.users.Save(context.Background(), u); err != nil {
		t.Fatalf("save user: %v", err)
	}
}

func (e testEnv) seedBooking(t *testing.T, listing domainlistings.ID, guest domainuser.ID, checkIn, checkOut time.Time, cancelled bool) *domainbooking.Booking {
	t.Helper()
	dr, err := daterange.New(checkIn, checkOut)
	if err != nil {
		t.Fatalf("range: %v", err)
	}
	b, err := domainbooking.NewBooking(domainbooking.CreateParams{
		ID:               domainbooking.ID(fmt.Sprintf("b-%s-%s", listing, checkIn.Format(daterange.DayFormat))),
		Guest:            guest,
		Listing:          listing,
		Range:            dr,
		NightlyRateCents: 5000,
		Now:              testNow,
	})
	if err != nil {
		t.Fatalf("booking: %v", err)
	}
	if cancelled {
		if err := b.Cancel(testNow); err != nil {
			t.Fatalf("cancel: %v", err)
		}
	}
	if err := e.bookings.Save(context.Background(), b); err != nil {
		t.Fatalf("save booking: %v", err)
	}
	return b
}

func TestCreatePromotesGuestToHost(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, "user-1")

	listing, err := env.svc.Create(context.Background(), "user-1", CreateParams{
		Title:            "Seaside flat",
		Description:      "Two rooms near the harbor",
		Location:         "Lisbon",
		NightlyRateCents: 9000,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if listing.Host != "user-1" {
		t.Errorf("Host = %q, want user-1", listing.Host)
	}

	u, err := env.users.ByID(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("ByID: %v", err)
	}
	if !u.IsHost() {
		t.Error("creator was not promoted to host")
	}
}

func TestUpdateRequiresOwnership(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, "user-1")
	listing, err := env.svc.Create(context.Background(), "user-1", CreateParams{
		Title: "Seaside flat", Description: "Two rooms", Location: "Lisbon", NightlyRateCents: 9000,
	})
	if err != nil {
		t.Fatal(err)
	}

	_, err = env.svc.Update(context.Background(), "user-2", listing.ID, domainlistings.UpdateParams{Title: "Hijacked"})
	if !errors.Is(err, domainlistings.ErrNotOwner) {
		t.Errorf("foreign update = %v, want ErrNotOwner", err)
	}

	updated, err := env.svc.Update(context.Background(), "user-1", listing.ID, domainlistings.UpdateParams{Title: "Harbor flat"})
	if err != nil {
		t.Fatalf("owner update: %v", err)
	}
	if updated.Title != "Harbor flat" {
		t.Errorf("Title = %q, want Harbor flat", updated.Title)
	}
}

func TestDeleteCascadesCancellation(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, "user-1")
	ctx := context.Background()

	listing, err := env.svc.Create(ctx, "user-1", CreateParams{
		Title: "Seaside flat", Description: "Two rooms", Location: "Lisbon", NightlyRateCents: 9000,
	})
	if err != nil {
		t.Fatal(err)
	}

	env.seedBooking(t, listing.ID, "guest-1", day(10), day(13), false)
	env.seedBooking(t, listing.ID, "guest-2", day(13), day(16), false)
	started := env.seedBooking(t, listing.ID, "guest-3", day(1), day(5), false)
	env.seedBooking(t, listing.ID, "guest-4", day(20), day(22), true)

	if err := env.svc.Delete(ctx, "user-2", listing.ID); !errors.Is(err, domainlistings.ErrNotOwner) {
		t.Errorf("foreign delete = %v, want ErrNotOwner", err)
	}
	if err := env.svc.Delete(ctx, "user-1", listing.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	if _, err := env.listings.ByID(ctx, listing.ID); !errors.Is(err, domainlistings.ErrNotFound) {
		t.Errorf("listing still readable after delete: %v", err)
	}

	confirmed, err := env.bookings.ConfirmedByListing(ctx, listing.ID)
	if err != nil {
		t.Fatalf("ConfirmedByListing: %v", err)
	}
	if len(confirmed) != 0 {
		t.Errorf("%d confirmed bookings survive the cascade, want 0", len(confirmed))
	}

	// The cascade overrides the stay-started guard.
	b, err := env.bookings.ByID(ctx, started.ID)
	if err != nil {
		t.Fatalf("ByID: %v", err)
	}
	if b.Status != domainbooking.StatusCancelled {
		t.Errorf("started booking status = %q, want cancelled", b.Status)
	}
}

func TestDetailProjectsUnavailableDates(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, "user-1")
	ctx := context.Background()

	listing, err := env.svc.Create(ctx, "user-1", CreateParams{
		Title: "Seaside flat", Description: "Two rooms", Location: "Lisbon", NightlyRateCents: 9000,
	})
	if err != nil {
		t.Fatal(err)
	}
	env.seedBooking(t, listing.ID, "guest-1", day(10), day(12), false)
	env.seedBooking(t, listing.ID, "guest-2", day(12), day(13), false)
	env.seedBooking(t, listing.ID, "guest-3", day(20), day(21), true)

	detail, err := env.svc.Detail(ctx, listing.ID)
	if err != nil {
		t.Fatalf("Detail: %v", err)
	}
	// Inclusive projection: the shared boundary day appears once, cancelled
	// stays not at all.
	want := []string{"2026-03-10", "2026-03-11", "2026-03-12", "2026-03-13"}
	if !reflect.DeepEqual(detail.UnavailableDates, want) {
		t.Errorf("UnavailableDates = %v, want %v", detail.UnavailableDates, want)
	}
}

func TestSearchFilters(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, "user-1")
	ctx := context.Background()

	locations := []struct {
		location string
		rate     int64
	}{
		{"Lisbon", 9000},
		{"Lisbon", 20000},
		{"Porto", 7000},
	}
	for i, spec := range locations {
		if _, err := env.svc.Create(ctx, "user-1", CreateParams{
			Title:            fmt.Sprintf("Listing %d", i),
			Description:      "Somewhere to stay",
			Location:         spec.location,
			NightlyRateCents: spec.rate,
		}); err != nil {
			t.Fatal(err)
		}
	}

	page, err := env.svc.Search(ctx, domainlistings.Filter{Location: "lis", MaxCents: 10000})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(page.Items) != 1 {
		t.Fatalf("Search returned %d listings, want 1", len(page.Items))
	}
	if page.Items[0].Location != "Lisbon" || page.Items[0].NightlyRateCents != 9000 {
		t.Errorf("wrong listing matched: %+v", page.Items[0])
	}

	// Guests never see their own listings in the catalog.
	mine, err := env.svc.Search(ctx, domainlistings.Filter{ExcludeHost: "user-1"})
	if err != nil {
		t.Fatal(err)
	}
	if len(mine.Items) != 0 {
		t.Errorf("ExcludeHost leaked %d own listings", len(mine.Items))
	}
}

type fakeImageStore struct {
	keys []string
}

func (f *fakeImageStore) Upload(ctx context.Context, key string, reader io.Reader, contentType string) (string, error) {
	if _, err := io.Copy(io.Discard, reader); err != nil {
		return "", err
	}
	f.keys = append(f.keys, key)
	return "https://cdn.example.com/" + key, nil
}

func TestAddPhotos(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, "user-1")
	ctx := context.Background()

	listing, err := env.svc.Create(ctx, "user-1", CreateParams{
		Title: "Seaside flat", Description: "Two rooms", Location: "Lisbon", NightlyRateCents: 9000,
	})
	if err != nil {
		t.Fatal(err)
	}

	if _, err := env.svc.AddPhotos(ctx, "user-1", listing.ID, nil); !errors.Is(err, ErrNoImageStore) {
		t.Errorf("without store = %v, want ErrNoImageStore", err)
	}

	store := &fakeImageStore{}
	env.svc.images = store
	updated, err := env.svc.AddPhotos(ctx, "user-1", listing.ID, []PhotoUpload{
		{Filename: "front.jpg", ContentType: "image/jpeg", Reader: bytes.NewBufferString("jpeg")},
		{Filename: "back.png", ContentType: "image/png", Reader: bytes.NewBufferString("png")},
	})
	if err != nil {
		t.Fatalf("AddPhotos: %v", err)
	}
	if len(updated.Images) != 2 {
		t.Fatalf("Images = %v, want 2 URLs", updated.Images)
	}
	if !strings.HasSuffix(store.keys[0], ".jpg") || !strings.HasSuffix(store.keys[1], ".png") {
		t.Errorf("object keys lost their extensions: %v", store.keys)
	}
	prefix := "listings/" + string(listing.ID) + "/"
	for _, key := range store.keys {
		if !strings.HasPrefix(key, prefix) {
			t.Errorf("key %q not scoped under %q", key, prefix)
		}
	}
}
