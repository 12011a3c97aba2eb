package models

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type ListingRepo interface {
	CreateListing(ctx context.Context, listing *Listing) (*Listing, error)
	GetListing(ctx context.Context, kind ListingKind, id primitive.ObjectID) (*Listing, error)
	ListListings(ctx context.Context, kind ListingKind) ([]*Listing, error)
	UpdateListing(ctx context.Context, kind ListingKind, id primitive.ObjectID, fields bson.M) (*Listing, error)
	DeleteListing(ctx context.Context, kind ListingKind, id primitive.ObjectID) error
	CountListings(ctx context.Context, kind ListingKind) (int64, error)
}

func (mdb *MongodbRepo) CreateListing(ctx context.Context, listing *Listing) (*Listing, error) {
	col, err := mdb.GetCollection(ctx, listing.Kind.Collection())
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}
	if listing.ID.IsZero() {
		listing.ID = primitive.NewObjectID()
	}
	if _, err := col.InsertOne(ctx, listing); err != nil {
		return nil, fmt.Errorf("failed to insert %s: %w", listing.Kind, err)
	}
	return listing, nil
}

func (mdb *MongodbRepo) GetListing(ctx context.Context, kind ListingKind, id primitive.ObjectID) (*Listing, error) {
	col, err := mdb.GetCollection(ctx, kind.Collection())
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}

	var listing Listing
	if err := col.FindOne(ctx, bson.M{"_id": id}).Decode(&listing); err != nil {
		return nil, notFoundOr(err, string(kind))
	}
	return &listing, nil
}

// ListListings returns the whole collection newest first.
func (mdb *MongodbRepo) ListListings(ctx context.Context, kind ListingKind) ([]*Listing, error) {
	col, err := mdb.GetCollection(ctx, kind.Collection())
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("error finding %s listings: %w", kind, err)
	}
	defer cursor.Close(ctx)

	listings := []*Listing{}
	for cursor.Next(ctx) {
		var l Listing
		if err := cursor.Decode(&l); err != nil {
			return nil, fmt.Errorf("error decoding %s: %w", kind, err)
		}
		if l.Kind == "" {
			l.Kind = kind
		}
		listings = append(listings, &l)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %w", err)
	}
	return listings, nil
}

func (mdb *MongodbRepo) UpdateListing(ctx context.Context, kind ListingKind, id primitive.ObjectID, fields bson.M) (*Listing, error) {
	if len(fields) == 0 {
		return nil, fmt.Errorf("no fields to update")
	}
	col, err := mdb.GetCollection(ctx, kind.Collection())
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}

	set := bson.M{"updatedAt": time.Now().UTC()}
	for k, v := range fields {
		set[k] = v
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var listing Listing
	if err := col.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&listing); err != nil {
		return nil, notFoundOr(err, string(kind))
	}
	return &listing, nil
}

func (mdb *MongodbRepo) DeleteListing(ctx context.Context, kind ListingKind, id primitive.ObjectID) error {
	col, err := mdb.GetCollection(ctx, kind.Collection())
	if err != nil {
		return fmt.Errorf("error getting collection: %v", err)
	}

	res, err := col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete %s: %w", kind, err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("%s: %w", kind, ErrNotFound)
	}
	return nil
}

func (mdb *MongodbRepo) CountListings(ctx context.Context, kind ListingKind) (int64, error) {
	return mdb.count(ctx, kind.Collection(), bson.M{})
}
