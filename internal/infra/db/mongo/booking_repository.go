package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainbooking "staybook/internal/domain/booking"
	domainlistings "staybook/internal/domain/listings"
	"staybook/internal/domain/shared/daterange"
	domainuser "staybook/internal/domain/user"
)

type BookingRepository struct {
	col *mongo.Collection
}

func NewBookingRepository(db *mongo.Database) *BookingRepository {
	return &BookingRepository{col: db.Collection("bookings")}
}

// EnsureIndexes backs the hot lookup paths: per-listing conflict scans and
// per-guest listings.
func (r *BookingRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "listing", Value: 1}, {Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "guest", Value: 1}, {Key: "createdAt", Value: -1}}},
	})
	return err
}

func (r *BookingRepository) ByID(ctx context.Context, id domainbooking.ID) (*domainbooking.Booking, error) {
	var doc bookingDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": string(id)}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domainbooking.ErrNotFound
		}
		return nil, err
	}
	return doc.toAggregate()
}

func (r *BookingRepository) Save(ctx context.Context, b *domainbooking.Booking) error {
	doc := newBookingDocument(b)
	opts := options.Replace().SetUpsert(true)
	_, err := r.col.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc, opts)
	return err
}

func (r *BookingRepository) Delete(ctx context.Context, id domainbooking.ID) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": string(id)})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return domainbooking.ErrNotFound
	}
	return nil
}

func (r *BookingRepository) ConfirmedByListing(ctx context.Context, listingID domainlistings.ID) ([]*domainbooking.Booking, error) {
	filter := bson.M{"listing": string(listingID), "status": string(domainbooking.StatusConfirmed)}
	return r.find(ctx, filter, nil)
}

func (r *BookingRepository) ByGuest(ctx context.Context, guestID domainuser.ID) ([]*domainbooking.Booking, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	return r.find(ctx, bson.M{"guest": string(guestID)}, opts)
}

func (r *BookingRepository) ByListings(ctx context.Context, listingIDs []domainlistings.ID) ([]*domainbooking.Booking, error) {
	if len(listingIDs) == 0 {
		return nil, nil
	}
	ids := make([]string, 0, len(listingIDs))
	for _, id := range listingIDs {
		ids = append(ids, string(id))
	}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	return r.find(ctx, bson.M{"listing": bson.M{"$in": ids}}, opts)
}

func (r *BookingRepository) CancelAllByListing(ctx context.Context, listingID domainlistings.ID, now time.Time) error {
	filter := bson.M{
		"listing": string(listingID),
		"status":  bson.M{"$ne": string(domainbooking.StatusCancelled)},
	}
	update := bson.M{"$set": bson.M{
		"status":    string(domainbooking.StatusCancelled),
		"updatedAt": now.UTC(),
	}}
	_, err := r.col.UpdateMany(ctx, filter, update)
	return err
}

func (r *BookingRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]*domainbooking.Booking, error) {
	cursor, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var result []*domainbooking.Booking
	for cursor.Next(ctx) {
		var doc bookingDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		b, err := doc.toAggregate()
		if err != nil {
			return nil, err
		}
		result = append(result, b)
	}
	return result, cursor.Err()
}

type bookingDocument struct {
	ID         string    `bson:"_id"`
	Guest      string    `bson:"guest"`
	Listing    string    `bson:"listing"`
	CheckIn    time.Time `bson:"checkIn"`
	CheckOut   time.Time `bson:"checkOut"`
	TotalPrice int64     `bson:"totalPrice"`
	Status     string    `bson:"status"`
	CreatedAt  time.Time `bson:"createdAt"`
	UpdatedAt  time.Time `bson:"updatedAt"`
}

func newBookingDocument(b *domainbooking.Booking) bookingDocument {
	return bookingDocument{
		ID:         string(b.ID),
		Guest:      string(b.Guest),
		Listing:    string(b.Listing),
		CheckIn:    b.Range.CheckIn,
		CheckOut:   b.Range.CheckOut,
		TotalPrice: b.TotalCents,
		Status:     string(b.Status),
		CreatedAt:  b.CreatedAt,
		UpdatedAt:  b.UpdatedAt,
	}
}

func (d bookingDocument) toAggregate() (*domainbooking.Booking, error) {
	dr, err := daterange.New(d.CheckIn, d.CheckOut)
	if err != nil {
		return nil, err
	}
	return &domainbooking.Booking{
		ID:         domainbooking.ID(d.ID),
		Guest:      domainuser.ID(d.Guest),
		Listing:    domainlistings.ID(d.Listing),
		Range:      dr,
		TotalCents: d.TotalPrice,
		Status:     domainbooking.Status(d.Status),
		CreatedAt:  d.CreatedAt.UTC(),
		UpdatedAt:  d.UpdatedAt.UTC(),
	}, nil
}
