package models

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type UserRepo interface {
	EnsureUser(ctx context.Context, user *User) (*User, error)
	GetUser(ctx context.Context, uid string) (*User, error)
	ListUsers(ctx context.Context) ([]*User, error)
	UpdateUser(ctx context.Context, uid string, fields bson.M) (*User, error)
	DeleteUser(ctx context.Context, uid string) error
	CountUsers(ctx context.Context) (int64, error)
}

// EnsureUser creates the user document on first sign-in and returns the
// stored document unchanged on every later call.
func (mdb *MongodbRepo) EnsureUser(ctx context.Context, user *User) (*User, error) {
	col, err := mdb.GetCollection(ctx, UsersColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}

	now := time.Now().UTC()
	role := user.Role
	if role == "" {
		role = RoleUser
	}
	filter := bson.M{"_id": user.UID}
	update := bson.M{
		"$setOnInsert": bson.M{
			"email":       user.Email,
			"displayName": user.DisplayName,
			"photoURL":    user.PhotoURL,
			"role":        role,
			"isBlocked":   false,
			"createdAt":   now,
			"updatedAt":   now,
		},
	}
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var result User
	if err := col.FindOneAndUpdate(ctx, filter, update, opts).Decode(&result); err != nil {
		return nil, fmt.Errorf("error upserting user: %w", err)
	}
	return &result, nil
}

func (mdb *MongodbRepo) GetUser(ctx context.Context, uid string) (*User, error) {
	col, err := mdb.GetCollection(ctx, UsersColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}

	var user User
	if err := col.FindOne(ctx, bson.M{"_id": uid}).Decode(&user); err != nil {
		return nil, notFoundOr(err, "user")
	}
	return &user, nil
}

func (mdb *MongodbRepo) ListUsers(ctx context.Context) ([]*User, error) {
	col, err := mdb.GetCollection(ctx, UsersColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("error finding users: %w", err)
	}
	defer cursor.Close(ctx)

	users := []*User{}
	if err := cursor.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("error decoding users: %w", err)
	}
	return users, nil
}

func (mdb *MongodbRepo) UpdateUser(ctx context.Context, uid string, fields bson.M) (*User, error) {
	if len(fields) == 0 {
		return nil, fmt.Errorf("no fields to update")
	}
	col, err := mdb.GetCollection(ctx, UsersColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}

	set := bson.M{"updatedAt": time.Now().UTC()}
	for k, v := range fields {
		set[k] = v
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var user User
	if err := col.FindOneAndUpdate(ctx, bson.M{"_id": uid}, bson.M{"$set": set}, opts).Decode(&user); err != nil {
		return nil, notFoundOr(err, "user")
	}
	return &user, nil
}

func (mdb *MongodbRepo) DeleteUser(ctx context.Context, uid string) error {
	col, err := mdb.GetCollection(ctx, UsersColName)
	if err != nil {
		return fmt.Errorf("error getting collection: %v", err)
	}

	res, err := col.DeleteOne(ctx, bson.M{"_id": uid})
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("user: %w", ErrNotFound)
	}
	return nil
}

func (mdb *MongodbRepo) CountUsers(ctx context.Context) (int64, error) {
	return mdb.count(ctx, UsersColName, bson.M{})
}

func (mdb *MongodbRepo) count(ctx context.Context, colName string, filter bson.M) (int64, error) {
	col, err := mdb.GetCollection(ctx, colName)
	if err != nil {
		return 0, fmt.Errorf("error getting collection: %v", err)
	}
	n, err := col.CountDocuments(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("failed to count %s: %w", colName, err)
	}
	return n, nil
}
