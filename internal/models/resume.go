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

var ResumeTemplates = []string{"classic", "modern", "minimal"}

type PersonalInfo struct {
	FullName string `bson:"fullName" json:"fullName" validate:"required,max=120"`
	Headline string `bson:"headline,omitempty" json:"headline,omitempty" validate:"max=160"`
	Email    string `bson:"email,omitempty" json:"email,omitempty" validate:"omitempty,email"`
	Phone    string `bson:"phone,omitempty" json:"phone,omitempty" validate:"max=30"`
	Location string `bson:"location,omitempty" json:"location,omitempty" validate:"max=120"`
	LinkedIn string `bson:"linkedin,omitempty" json:"linkedin,omitempty" validate:"omitempty,url"`
	GitHub   string `bson:"github,omitempty" json:"github,omitempty" validate:"omitempty,url"`
	Website  string `bson:"website,omitempty" json:"website,omitempty" validate:"omitempty,url"`
}

type Experience struct {
	Company     string   `bson:"company" json:"company" validate:"required,max=120"`
	Role        string   `bson:"role" json:"role" validate:"required,max=120"`
	Location    string   `bson:"location,omitempty" json:"location,omitempty"`
	StartDate   string   `bson:"startDate,omitempty" json:"startDate,omitempty"`
	EndDate     string   `bson:"endDate,omitempty" json:"endDate,omitempty"`
	Current     bool     `bson:"current" json:"current"`
	Description string   `bson:"description,omitempty" json:"description,omitempty" validate:"max=3000"`
	Highlights  []string `bson:"highlights,omitempty" json:"highlights,omitempty" validate:"max=12"`
}

type Education struct {
	Institution string `bson:"institution" json:"institution" validate:"required,max=160"`
	Degree      string `bson:"degree,omitempty" json:"degree,omitempty"`
	Field       string `bson:"field,omitempty" json:"field,omitempty"`
	StartDate   string `bson:"startDate,omitempty" json:"startDate,omitempty"`
	EndDate     string `bson:"endDate,omitempty" json:"endDate,omitempty"`
	Grade       string `bson:"grade,omitempty" json:"grade,omitempty"`
}

type ResumeProject struct {
	Name         string   `bson:"name" json:"name" validate:"required,max=120"`
	Description  string   `bson:"description,omitempty" json:"description,omitempty" validate:"max=2000"`
	Link         string   `bson:"link,omitempty" json:"link,omitempty" validate:"omitempty,url"`
	Technologies []string `bson:"technologies,omitempty" json:"technologies,omitempty"`
}

type Certification struct {
	Name   string `bson:"name" json:"name" validate:"required,max=160"`
	Issuer string `bson:"issuer,omitempty" json:"issuer,omitempty"`
	Date   string `bson:"date,omitempty" json:"date,omitempty"`
}

// Resume is the CV builder document. There is one per user by convention;
// lookups go through user_id.
type Resume struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID         string             `bson:"user_id" json:"user_id"`
	PersonalInfo   PersonalInfo       `bson:"personalInfo" json:"personalInfo"`
	Summary        string             `bson:"summary" json:"summary" validate:"max=2000"`
	Experience     []Experience       `bson:"experience" json:"experience" validate:"max=20,dive"`
	Education      []Education        `bson:"education" json:"education" validate:"max=10,dive"`
	Skills         []string           `bson:"skills" json:"skills" validate:"max=50"`
	Projects       []ResumeProject    `bson:"projects" json:"projects" validate:"max=20,dive"`
	Certifications []Certification    `bson:"certifications" json:"certifications" validate:"max=20,dive"`
	Languages      []string           `bson:"languages" json:"languages"`
	Achievements   []string           `bson:"achievements" json:"achievements"`
	Template       string             `bson:"template" json:"template" validate:"omitempty,oneof=classic modern minimal"`
	CreatedAt      time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time          `bson:"updatedAt" json:"updatedAt"`
}

type ResumeRepo interface {
	GetResumeByUser(ctx context.Context, userID string) (*Resume, error)
	SaveResume(ctx context.Context, resume *Resume) (*Resume, error)
	DeleteResume(ctx context.Context, userID string) error
	CountResumes(ctx context.Context) (int64, error)
}

// GetResumeByUser returns the most recently updated resume for the user.
func (mdb *MongodbRepo) GetResumeByUser(ctx context.Context, userID string) (*Resume, error) {
	col, err := mdb.GetCollection(ctx, ResumesColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}

	opts := options.FindOne().SetSort(bson.D{{Key: "updatedAt", Value: -1}})
	var resume Resume
	if err := col.FindOne(ctx, bson.M{"user_id": userID}, opts).Decode(&resume); err != nil {
		return nil, notFoundOr(err, "resume")
	}
	return &resume, nil
}

// SaveResume inserts a new resume or replaces the stored one with the same id.
func (mdb *MongodbRepo) SaveResume(ctx context.Context, resume *Resume) (*Resume, error) {
	col, err := mdb.GetCollection(ctx, ResumesColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}

	if resume.ID.IsZero() {
		resume.ID = primitive.NewObjectID()
		if _, err := col.InsertOne(ctx, resume); err != nil {
			return nil, fmt.Errorf("failed to insert resume: %w", err)
		}
		return resume, nil
	}

	res, err := col.ReplaceOne(ctx, bson.M{"_id": resume.ID}, resume)
	if err != nil {
		return nil, fmt.Errorf("failed to save resume: %w", err)
	}
	if res.MatchedCount == 0 {
		return nil, fmt.Errorf("resume: %w", ErrNotFound)
	}
	return resume, nil
}

func (mdb *MongodbRepo) DeleteResume(ctx context.Context, userID string) error {
	col, err := mdb.GetCollection(ctx, ResumesColName)
	if err != nil {
		return fmt.Errorf("error getting collection: %v", err)
	}

	res, err := col.DeleteMany(ctx, bson.M{"user_id": userID})
	if err != nil {
		return fmt.Errorf("failed to delete resume: %w", err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("resume: %w", ErrNotFound)
	}
	return nil
}

func (mdb *MongodbRepo) CountResumes(ctx context.Context) (int64, error) {
	return mdb.count(ctx, ResumesColName, bson.M{})
}

// IsNotFound reports whether err means the document does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, mongo.ErrNoDocuments)
}
