package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainlistings "staybook/internal/domain/listings"
	domainuser "staybook/internal/domain/user"
)

type ListingRepository struct {
	col *mongo.Collection
}

func NewListingRepository(db *mongo.Database) *ListingRepository {
	return &ListingRepository{col: db.Collection("listings")}
}

func (r *ListingRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "host", Value: 1}}},
		{Keys: bson.D{{Key: "pricePerNight", Value: 1}}},
	})
	return err
}

func (r *ListingRepository) ByID(ctx context.Context, id domainlistings.ID) (*domainlistings.Listing, error) {
	var doc listingDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": string(id)}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domainlistings.ErrNotFound
		}
		return nil, err
	}
	return doc.toAggregate(), nil
}

func (r *ListingRepository) Save(ctx context.Context, listing *domainlistings.Listing) error {
	doc := newListingDocument(listing)
	opts := options.Replace().SetUpsert(true)
	_, err := r.col.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc, opts)
	return err
}

func (r *ListingRepository) Delete(ctx context.Context, id domainlistings.ID) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": string(id)})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return domainlistings.ErrNotFound
	}
	return nil
}

func (r *ListingRepository) ByHost(ctx context.Context, host domainuser.ID) ([]*domainlistings.Listing, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.col.Find(ctx, bson.M{"host": string(host)}, opts)
	if err != nil {
		return nil, err
	}
	return decodeListings(ctx, cursor)
}

func (r *ListingRepository) Search(ctx context.Context, filter domainlistings.Filter) (domainlistings.Page, error) {
	opts := filter.Normalized()

	query := bson.M{}
	if opts.Location != "" {
		query["location"] = bson.M{"$regex": primitive.Regex{Pattern: opts.Location, Options: "i"}}
	}
	price := bson.M{}
	if opts.MinCents > 0 {
		price["$gte"] = opts.MinCents
	}
	if opts.MaxCents > 0 {
		price["$lte"] = opts.MaxCents
	}
	if len(price) > 0 {
		query["pricePerNight"] = price
	}
	if opts.ExcludeHost != "" {
		query["host"] = bson.M{"$ne": string(opts.ExcludeHost)}
	}

	total, err := r.col.CountDocuments(ctx, query)
	if err != nil {
		return domainlistings.Page{}, err
	}

	findOpts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(int64((opts.Page - 1) * opts.Limit)).
		SetLimit(int64(opts.Limit))
	cursor, err := r.col.Find(ctx, query, findOpts)
	if err != nil {
		return domainlistings.Page{}, err
	}
	items, err := decodeListings(ctx, cursor)
	if err != nil {
		return domainlistings.Page{}, err
	}

	totalPages := (int(total) + opts.Limit - 1) / opts.Limit
	return domainlistings.Page{
		Items:      items,
		Total:      int(total),
		Page:       opts.Page,
		TotalPages: totalPages,
	}, nil
}

func decodeListings(ctx context.Context, cursor *mongo.Cursor) ([]*domainlistings.Listing, error) {
	defer cursor.Close(ctx)
	var result []*domainlistings.Listing
	for cursor.Next(ctx) {
		var doc listingDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		result = append(result, doc.toAggregate())
	}
	return result, cursor.Err()
}

type listingDocument struct {
	ID             string    `bson:"_id"`
	Host           string    `bson:"host"`
	Title          string    `bson:"title"`
	Description    string    `bson:"description"`
	Location       string    `bson:"location"`
	PricePerNight  int64     `bson:"pricePerNight"`
	Images         []string  `bson:"images"`
	AvailableFrom  time.Time `bson:"availableFrom,omitempty"`
	AvailableUntil time.Time `bson:"availableUntil,omitempty"`
	CreatedAt      time.Time `bson:"createdAt"`
	UpdatedAt      time.Time `bson:"updatedAt"`
}

func newListingDocument(l *domainlistings.Listing) listingDocument {
	return listingDocument{
		ID:             string(l.ID),
		Host:           string(l.Host),
		Title:          l.Title,
		Description:    l.Description,
		Location:       l.Location,
		PricePerNight:  l.NightlyRateCents,
		Images:         l.Images,
		AvailableFrom:  l.Window.From,
		AvailableUntil: l.Window.Until,
		CreatedAt:      l.CreatedAt,
		UpdatedAt:      l.UpdatedAt,
	}
}

func (d listingDocument) toAggregate() *domainlistings.Listing {
	return &domainlistings.Listing{
		ID:               domainlistings.ID(d.ID),
		Host:             domainuser.ID(d.Host),
		Title:            d.Title,
		Description:      d.Description,
		Location:         d.Location,
		NightlyRateCents: d.PricePerNight,
		Images:           d.Images,
		Window:           domainlistings.Window{From: d.AvailableFrom, Until: d.AvailableUntil},
		CreatedAt:        d.CreatedAt.UTC(),
		UpdatedAt:        d.UpdatedAt.UTC(),
	}
}
