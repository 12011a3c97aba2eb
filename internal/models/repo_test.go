package models

import (
	"context"
	"errors"
	"testing"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

const testDB = "portal_test"

func TestUserRepoAgainstMockDeployment(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("ensure returns stored document", func(mt *mtest.T) {
		repo := MongodbNewRepo(mt.Client, testDB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "value", Value: bson.D{
			{Key: "_id", Value: "uid-1"},
			{Key: "email", Value: "ana@uni.edu"},
			{Key: "role", Value: "admin"},
			{Key: "isBlocked", Value: true},
		}}))

		user, err := repo.EnsureUser(context.Background(), &User{UID: "uid-1", Email: "ana@uni.edu"})
		if err != nil {
			mt.Fatalf("EnsureUser: %v", err)
		}
		if user.Role != RoleAdmin || !user.IsBlocked {
			mt.Fatalf("stored fields not returned: %+v", user)
		}
	})

	mt.Run("get missing user", func(mt *mtest.T) {
		repo := MongodbNewRepo(mt.Client, testDB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, testDB+".users", mtest.FirstBatch))

		_, err := repo.GetUser(context.Background(), "nobody")
		if !errors.Is(err, ErrNotFound) {
			mt.Fatalf("got %v, want ErrNotFound", err)
		}
	})
}

func TestTransitionEventAgainstMockDeployment(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	id := primitive.NewObjectID()

	mt.Run("pending to approved", func(mt *mtest.T) {
		repo := MongodbNewRepo(mt.Client, testDB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "value", Value: bson.D{
			{Key: "_id", Value: id},
			{Key: "title", Value: "Go Hack"},
			{Key: "status", Value: "approved"},
		}}))

		ev, err := repo.TransitionEvent(context.Background(), id, EventPending, EventApproved)
		if err != nil {
			mt.Fatalf("TransitionEvent: %v", err)
		}
		if ev.Status != EventApproved || ev.Title != "Go Hack" {
			mt.Fatalf("unexpected event %+v", ev)
		}
	})

	mt.Run("already approved", func(mt *mtest.T) {
		repo := MongodbNewRepo(mt.Client, testDB)
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(bson.E{Key: "value", Value: nil}),
			mtest.CreateCursorResponse(0, testDB+".events", mtest.FirstBatch, bson.D{{Key: "n", Value: int32(1)}}),
		)

		_, err := repo.TransitionEvent(context.Background(), id, EventPending, EventApproved)
		if !errors.Is(err, ErrInvalidTransition) {
			mt.Fatalf("got %v, want ErrInvalidTransition", err)
		}
	})

	mt.Run("missing event", func(mt *mtest.T) {
		repo := MongodbNewRepo(mt.Client, testDB)
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(bson.E{Key: "value", Value: nil}),
			mtest.CreateCursorResponse(0, testDB+".events", mtest.FirstBatch),
		)

		_, err := repo.TransitionEvent(context.Background(), id, EventPending, EventApproved)
		if !errors.Is(err, ErrNotFound) {
			mt.Fatalf("got %v, want ErrNotFound", err)
		}
	})
}

func TestUpdateEventRejectsStatus(t *testing.T) {
	repo := MongodbNewRepo(nil, testDB)
	_, err := repo.UpdateEvent(context.Background(), primitive.NewObjectID(), bson.M{"status": "approved"})
	if !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("got %v, want ErrInvalidTransition", err)
	}
}

func TestParseObjectID(t *testing.T) {
	if _, err := ParseObjectID("zzz"); !errors.Is(err, ErrInvalidID) {
		t.Fatalf("got %v, want ErrInvalidID", err)
	}
	id := primitive.NewObjectID()
	got, err := ParseObjectID(id.Hex())
	if err != nil || got != id {
		t.Fatalf("round trip failed: %v", err)
	}
}
