package models

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates the indexes the listing and lookup queries rely on.
// It is safe to call on every start.
func (mdb *MongodbRepo) EnsureIndexes(ctx context.Context) error {
	byCreated := mongo.IndexModel{
		Keys:    bson.D{{Key: "createdAt", Value: -1}},
		Options: options.Index().SetName("created_at_desc"),
	}

	plan := map[string][]mongo.IndexModel{
		JobsColName:        {byCreated},
		InternshipsColName: {byCreated},
		CoursesColName:     {byCreated},
		UsersColName: {
			byCreated,
			{
				Keys:    bson.D{{Key: "email", Value: 1}},
				Options: options.Index().SetName("email"),
			},
		},
		EventsColName: {
			{
				Keys:    bson.D{{Key: "status", Value: 1}, {Key: "createdAt", Value: -1}},
				Options: options.Index().SetName("status_created_at"),
			},
		},
		InteractionsColName: {
			// one record per user action on an item
			{
				Keys: bson.D{
					{Key: "userId", Value: 1},
					{Key: "type", Value: 1},
					{Key: "itemId", Value: 1},
				},
				Options: options.Index().SetUnique(true).SetName("user_type_item_unique"),
			},
			{
				Keys:    bson.D{{Key: "timestamp", Value: -1}},
				Options: options.Index().SetName("timestamp_desc"),
			},
		},
		ResumesColName: {
			{
				Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "updatedAt", Value: -1}},
				Options: options.Index().SetName("user_id_updated_at"),
			},
		},
	}

	for colName, indexes := range plan {
		col, err := mdb.GetCollection(ctx, colName)
		if err != nil {
			return fmt.Errorf("error getting collection: %v", err)
		}
		if _, err := col.Indexes().CreateMany(ctx, indexes); err != nil {
			return fmt.Errorf("error creating indexes on %s: %w", colName, err)
		}
	}
	return nil
}
