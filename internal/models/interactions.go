package models

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type InteractionType string

const (
	InteractionJob            InteractionType = "job"
	InteractionInternship     InteractionType = "internship"
	InteractionEvent          InteractionType = "event"
	InteractionCourseWaitlist InteractionType = "course_waitlist"
)

var InteractionTypes = []InteractionType{InteractionJob, InteractionInternship, InteractionEvent, InteractionCourseWaitlist}

func (t InteractionType) Valid() bool {
	for _, v := range InteractionTypes {
		if t == v {
			return true
		}
	}
	return false
}

// UserInteraction records an apply, register or waitlist action. It is
// never edited after it is written.
type UserInteraction struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    string             `bson:"userId" json:"userId"`
	Type      InteractionType    `bson:"type" json:"type"`
	ItemID    string             `bson:"itemId" json:"itemId"`
	ItemTitle string             `bson:"itemTitle,omitempty" json:"itemTitle,omitempty"`
	Timestamp time.Time          `bson:"timestamp" json:"timestamp"`
}

type InteractionsRepo interface {
	// RecordInteraction stores the action once per (user, type, item) and
	// reports whether this call created it.
	RecordInteraction(ctx context.Context, in *UserInteraction) (*UserInteraction, bool, error)
	ListInteractionsByUser(ctx context.Context, userID string) ([]*UserInteraction, error)
	ListInteractions(ctx context.Context) ([]*UserInteraction, error)
	CountInteractionsByType(ctx context.Context) (map[InteractionType]int64, error)
}

func (mdb *MongodbRepo) RecordInteraction(ctx context.Context, in *UserInteraction) (*UserInteraction, bool, error) {
	col, err := mdb.GetCollection(ctx, InteractionsColName)
	if err != nil {
		return nil, false, fmt.Errorf("error getting collection: %v", err)
	}

	filter := bson.M{"userId": in.UserID, "type": in.Type, "itemId": in.ItemID}
	update := bson.M{
		"$setOnInsert": bson.M{
			"itemTitle": in.ItemTitle,
			"timestamp": in.Timestamp,
		},
	}
	res, err := col.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		return nil, false, fmt.Errorf("error recording interaction: %w", err)
	}

	var stored UserInteraction
	if err := col.FindOne(ctx, filter).Decode(&stored); err != nil {
		return nil, false, notFoundOr(err, "interaction")
	}
	return &stored, res.UpsertedCount == 1, nil
}

func (mdb *MongodbRepo) ListInteractionsByUser(ctx context.Context, userID string) ([]*UserInteraction, error) {
	return mdb.findInteractions(ctx, bson.M{"userId": userID})
}

func (mdb *MongodbRepo) ListInteractions(ctx context.Context) ([]*UserInteraction, error) {
	return mdb.findInteractions(ctx, bson.M{})
}

func (mdb *MongodbRepo) findInteractions(ctx context.Context, filter bson.M) ([]*UserInteraction, error) {
	col, err := mdb.GetCollection(ctx, InteractionsColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}

	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}})
	cursor, err := col.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("error finding interactions: %w", err)
	}
	defer cursor.Close(ctx)

	out := []*UserInteraction{}
	if err := cursor.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("error decoding interactions: %w", err)
	}
	return out, nil
}

func (mdb *MongodbRepo) CountInteractionsByType(ctx context.Context) (map[InteractionType]int64, error) {
	col, err := mdb.GetCollection(ctx, InteractionsColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}

	pipeline := bson.A{
		bson.M{"$group": bson.M{"_id": "$type", "count": bson.M{"$sum": 1}}},
	}
	cursor, err := col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("error aggregating interactions: %w", err)
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Type  InteractionType `bson:"_id"`
		Count int64           `bson:"count"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("error decoding interaction counts: %w", err)
	}

	counts := make(map[InteractionType]int64, len(InteractionTypes))
	for _, t := range InteractionTypes {
		counts[t] = 0
	}
	for _, r := range rows {
		counts[r.Type] = r.Count
	}
	return counts, nil
}
