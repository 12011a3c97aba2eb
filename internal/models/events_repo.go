package models

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type EventsRepo interface {
	CreateEvent(ctx context.Context, event *Event) (*Event, error)
	GetEvent(ctx context.Context, id primitive.ObjectID) (*Event, error)
	// ListEvents returns events newest first; an empty status lists all.
	ListEvents(ctx context.Context, status EventStatus) ([]*Event, error)
	UpdateEvent(ctx context.Context, id primitive.ObjectID, fields bson.M) (*Event, error)
	TransitionEvent(ctx context.Context, id primitive.ObjectID, from, to EventStatus) (*Event, error)
	DeleteEvent(ctx context.Context, id primitive.ObjectID) error
	CountEvents(ctx context.Context, status EventStatus) (int64, error)
}

func (mdb *MongodbRepo) CreateEvent(ctx context.Context, event *Event) (*Event, error) {
	col, err := mdb.GetCollection(ctx, EventsColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}
	if event.ID.IsZero() {
		event.ID = primitive.NewObjectID()
	}
	if _, err := col.InsertOne(ctx, event); err != nil {
		return nil, fmt.Errorf("failed to insert event: %w", err)
	}
	return event, nil
}

func (mdb *MongodbRepo) GetEvent(ctx context.Context, id primitive.ObjectID) (*Event, error) {
	col, err := mdb.GetCollection(ctx, EventsColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}

	var event Event
	if err := col.FindOne(ctx, bson.M{"_id": id}).Decode(&event); err != nil {
		return nil, notFoundOr(err, "event")
	}
	return &event, nil
}

func (mdb *MongodbRepo) ListEvents(ctx context.Context, status EventStatus) ([]*Event, error) {
	col, err := mdb.GetCollection(ctx, EventsColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}

	filter := bson.M{}
	if status != "" {
		filter["status"] = status
	}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := col.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("error finding events: %w", err)
	}
	defer cursor.Close(ctx)

	events := []*Event{}
	if err := cursor.All(ctx, &events); err != nil {
		return nil, fmt.Errorf("error decoding events: %w", err)
	}
	return events, nil
}

func (mdb *MongodbRepo) UpdateEvent(ctx context.Context, id primitive.ObjectID, fields bson.M) (*Event, error) {
	if len(fields) == 0 {
		return nil, fmt.Errorf("no fields to update")
	}
	if _, ok := fields["status"]; ok {
		return nil, fmt.Errorf("status cannot be edited: %w", ErrInvalidTransition)
	}
	col, err := mdb.GetCollection(ctx, EventsColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}

	set := bson.M{"updatedAt": time.Now().UTC()}
	for k, v := range fields {
		set[k] = v
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var event Event
	if err := col.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&event); err != nil {
		return nil, notFoundOr(err, "event")
	}
	return &event, nil
}

// TransitionEvent moves an event from one status to another only if it is
// still in the from status when the write lands.
func (mdb *MongodbRepo) TransitionEvent(ctx context.Context, id primitive.ObjectID, from, to EventStatus) (*Event, error) {
	col, err := mdb.GetCollection(ctx, EventsColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}

	filter := bson.M{"_id": id, "status": from}
	update := bson.M{"$set": bson.M{"status": to, "updatedAt": time.Now().UTC()}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var event Event
	err = col.FindOneAndUpdate(ctx, filter, update, opts).Decode(&event)
	if err == nil {
		return &event, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("failed to update event status: %w", err)
	}

	n, err := col.CountDocuments(ctx, bson.M{"_id": id})
	if err != nil {
		return nil, fmt.Errorf("failed to look up event: %w", err)
	}
	if n == 0 {
		return nil, fmt.Errorf("event: %w", ErrNotFound)
	}
	return nil, fmt.Errorf("event is not %s: %w", from, ErrInvalidTransition)
}

func (mdb *MongodbRepo) DeleteEvent(ctx context.Context, id primitive.ObjectID) error {
	col, err := mdb.GetCollection(ctx, EventsColName)
	if err != nil {
		return fmt.Errorf("error getting collection: %v", err)
	}

	res, err := col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("event: %w", ErrNotFound)
	}
	return nil
}

func (mdb *MongodbRepo) CountEvents(ctx context.Context, status EventStatus) (int64, error) {
	filter := bson.M{}
	if status != "" {
		filter["status"] = status
	}
	return mdb.count(ctx, EventsColName, filter)
}
