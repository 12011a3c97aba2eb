package models

import (
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ListingKind selects one of the three catalog collections.
type ListingKind string

const (
	KindJob        ListingKind = "job"
	KindInternship ListingKind = "internship"
	KindCourse     ListingKind = "course"
)

var ListingKinds = []ListingKind{KindJob, KindInternship, KindCourse}

func (k ListingKind) Collection() string {
	switch k {
	case KindJob:
		return JobsColName
	case KindInternship:
		return InternshipsColName
	case KindCourse:
		return CoursesColName
	}
	return ""
}

// DefaultPageSize is the page window the catalog pages use for this kind.
func (k ListingKind) DefaultPageSize() int {
	if k == KindCourse {
		return 9
	}
	return 6
}

func ParseListingKind(s string) (ListingKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "job", "jobs":
		return KindJob, nil
	case "internship", "internships":
		return KindInternship, nil
	case "course", "courses":
		return KindCourse, nil
	}
	return "", fmt.Errorf("unknown listing kind %q", s)
}

// Listing is a job, internship or course document. Kind-specific fields are
// left empty for the kinds that do not use them.
type Listing struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Kind        ListingKind        `bson:"kind" json:"kind"`
	Title       string             `bson:"title" json:"title" validate:"required,min=2,max=160"`
	Company     string             `bson:"company" json:"company" validate:"required,max=120"`
	Location    string             `bson:"location" json:"location" validate:"max=120"`
	Salary      string             `bson:"salary,omitempty" json:"salary,omitempty" validate:"max=60"`
	Skills      []string           `bson:"skills" json:"skills" validate:"max=30,dive,min=1,max=40"`
	Description string             `bson:"description" json:"description"`
	Type        string             `bson:"type,omitempty" json:"type,omitempty" validate:"omitempty,oneof=full-time part-time contract freelance"`
	WorkMode    string             `bson:"workMode,omitempty" json:"workMode,omitempty" validate:"omitempty,oneof=remote onsite hybrid"`
	Experience  float64            `bson:"experience" json:"experience" validate:"gte=0,lte=50"`
	Duration    string             `bson:"duration,omitempty" json:"duration,omitempty"`
	Level       string             `bson:"level,omitempty" json:"level,omitempty" validate:"omitempty,oneof=beginner intermediate advanced"`
	ApplyLink   string             `bson:"applyLink,omitempty" json:"applyLink,omitempty" validate:"omitempty,url"`
	LogoURL     string             `bson:"logoUrl,omitempty" json:"logoUrl,omitempty"`
	Deadline    *time.Time         `bson:"deadline,omitempty" json:"deadline,omitempty"`
	IsFeatured  bool               `bson:"isFeatured" json:"isFeatured"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// ListingUpdate carries a partial edit; nil fields are left untouched.
type ListingUpdate struct {
	Title       *string    `json:"title" validate:"omitempty,nonblank,min=2,max=160"`
	Company     *string    `json:"company" validate:"omitempty,nonblank,max=120"`
	Location    *string    `json:"location" validate:"omitempty,max=120"`
	Salary      *string    `json:"salary" validate:"omitempty,max=60"`
	Skills      []string   `json:"skills" validate:"omitempty,max=30,dive,min=1,max=40"`
	Description *string    `json:"description"`
	Type        *string    `json:"type" validate:"omitempty,oneof=full-time part-time contract freelance"`
	WorkMode    *string    `json:"workMode" validate:"omitempty,oneof=remote onsite hybrid"`
	Experience  *float64   `json:"experience" validate:"omitempty,gte=0,lte=50"`
	Duration    *string    `json:"duration"`
	Level       *string    `json:"level" validate:"omitempty,oneof=beginner intermediate advanced"`
	ApplyLink   *string    `json:"applyLink" validate:"omitempty,url"`
	Deadline    *time.Time `json:"deadline"`
	IsFeatured  *bool      `json:"isFeatured"`
}

// Fields returns the $set document for the non-nil fields.
func (u ListingUpdate) Fields() bson.M {
	set := bson.M{}
	if u.Title != nil {
		set["title"] = strings.TrimSpace(*u.Title)
	}
	if u.Company != nil {
		set["company"] = strings.TrimSpace(*u.Company)
	}
	if u.Location != nil {
		set["location"] = strings.TrimSpace(*u.Location)
	}
	if u.Salary != nil {
		set["salary"] = *u.Salary
	}
	if u.Skills != nil {
		set["skills"] = NormalizeSkills(u.Skills)
	}
	if u.Description != nil {
		set["description"] = *u.Description
	}
	if u.Type != nil {
		set["type"] = *u.Type
	}
	if u.WorkMode != nil {
		set["workMode"] = *u.WorkMode
	}
	if u.Experience != nil {
		set["experience"] = *u.Experience
	}
	if u.Duration != nil {
		set["duration"] = *u.Duration
	}
	if u.Level != nil {
		set["level"] = *u.Level
	}
	if u.ApplyLink != nil {
		set["applyLink"] = *u.ApplyLink
	}
	if u.Deadline != nil {
		set["deadline"] = *u.Deadline
	}
	if u.IsFeatured != nil {
		set["isFeatured"] = *u.IsFeatured
	}
	return set
}

// Sanitize trims text fields and deduplicates skills before a write.
func (l *Listing) Sanitize() {
	l.Title = strings.TrimSpace(l.Title)
	l.Company = strings.TrimSpace(l.Company)
	l.Location = strings.TrimSpace(l.Location)
	l.Skills = NormalizeSkills(l.Skills)
}

// NormalizeSkills trims entries and drops blanks and case-insensitive
// duplicates, keeping first-seen order.
func NormalizeSkills(skills []string) []string {
	seen := make(map[string]struct{}, len(skills))
	out := make([]string, 0, len(skills))
	for _, s := range skills {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		key := strings.ToLower(s)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, s)
	}
	return out
}
