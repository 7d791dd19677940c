package policies

import "context"

// Lifecycle event names published to the broker.
const (
	EventBookingConfirmed = "booking.confirmed"
	EventBookingCancelled = "booking.cancelled"
	EventListingCreated   = "listing.created"
	EventListingDeleted   = "listing.deleted"
)

// EventPublisher delivers lifecycle events to an external broker. Publishing
// is best effort: services log failures and never fail the request over them.
type EventPublisher interface {
	Publish(ctx context.Context, event string, key string, payload any) error
}

// NoopPublisher is used when no broker is configured.
type NoopPublisher struct{}

func (NoopPublisher) Publish(ctx context.Context, event string, key string, payload any) error {
	return nil
}
