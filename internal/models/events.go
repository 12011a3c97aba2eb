package models

import (
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type EventStatus string

// An event is created pending and becomes publicly visible only once an
// admin approves it. Rejection deletes the document.
const (
	EventPending  EventStatus = "pending"
	EventApproved EventStatus = "approved"
)

func (s EventStatus) Valid() bool {
	return s == EventPending || s == EventApproved
}

const (
	StepBasics = iota + 1
	StepOrganizer
	StepSchedule
	StepVenue
	StepExtras
)

// EventSteps is the number of pages in the submission wizard.
const EventSteps = StepExtras

const EventsPageSize = 9

type FAQ struct {
	Question string `bson:"question" json:"question" validate:"required,max=300"`
	Answer   string `bson:"answer" json:"answer" validate:"required,max=2000"`
}

type EventBasics struct {
	Title       string   `bson:"title" json:"title" validate:"required,min=3,max=160"`
	Category    string   `bson:"category" json:"category" validate:"required,oneof=hackathon workshop webinar conference competition meetup other"`
	Description string   `bson:"description" json:"description" validate:"required,min=20,max=5000"`
	Mode        string   `bson:"mode" json:"mode" validate:"required,oneof=online offline hybrid"`
	BannerURL   string   `bson:"bannerUrl,omitempty" json:"bannerUrl,omitempty" validate:"omitempty,url"`
	Tags        []string `bson:"tags,omitempty" json:"tags,omitempty" validate:"max=10,dive,min=1,max=30"`
}

type EventOrganizer struct {
	OrganizerName    string `bson:"organizerName" json:"organizerName" validate:"required,max=120"`
	OrganizerEmail   string `bson:"organizerEmail" json:"organizerEmail" validate:"required,email"`
	OrganizerPhone   string `bson:"organizerPhone,omitempty" json:"organizerPhone,omitempty" validate:"omitempty,min=7,max=20"`
	Organization     string `bson:"organization,omitempty" json:"organization,omitempty" validate:"max=120"`
	OrganizerWebsite string `bson:"organizerWebsite,omitempty" json:"organizerWebsite,omitempty" validate:"omitempty,url"`
}

type EventSchedule struct {
	StartDate            time.Time  `bson:"startDate" json:"startDate" validate:"required"`
	EndDate              time.Time  `bson:"endDate" json:"endDate" validate:"required,gtefield=StartDate"`
	StartTime            string     `bson:"startTime,omitempty" json:"startTime,omitempty"`
	EndTime              string     `bson:"endTime,omitempty" json:"endTime,omitempty"`
	RegistrationDeadline *time.Time `bson:"registrationDeadline,omitempty" json:"registrationDeadline,omitempty"`
}

type EventVenue struct {
	DetailedLocation string  `bson:"detailedLocation,omitempty" json:"detailedLocation,omitempty" validate:"max=300"`
	City             string  `bson:"city,omitempty" json:"city,omitempty" validate:"max=80"`
	RegistrationType string  `bson:"registrationType" json:"registrationType" validate:"required,oneof=free paid"`
	RegistrationFee  float64 `bson:"registrationFee" json:"registrationFee" validate:"required_if=RegistrationType paid,gte=0"`
	RegistrationLink string  `bson:"registrationLink,omitempty" json:"registrationLink,omitempty" validate:"omitempty,url"`
	MaxParticipants  int     `bson:"maxParticipants,omitempty" json:"maxParticipants,omitempty" validate:"gte=0"`
}

type EventExtras struct {
	FAQs          []FAQ  `bson:"faqs" json:"faqs" validate:"max=20,dive"`
	FirstPrize    string `bson:"firstPrize,omitempty" json:"firstPrize,omitempty" validate:"max=120"`
	SecondPrize   string `bson:"secondPrize,omitempty" json:"secondPrize,omitempty" validate:"max=120"`
	ThirdPrize    string `bson:"thirdPrize,omitempty" json:"thirdPrize,omitempty" validate:"max=120"`
	RewardDetails string `bson:"rewardDetails,omitempty" json:"rewardDetails,omitempty" validate:"max=2000"`
}

// Event is one wizard submission. Each embedded block is one wizard page.
type Event struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	EventBasics    `bson:",inline"`
	EventOrganizer `bson:",inline"`
	EventSchedule  `bson:",inline"`
	EventVenue     `bson:",inline"`
	EventExtras    `bson:",inline"`
	Status         EventStatus `bson:"status" json:"status"`
	SubmittedBy    string      `bson:"submittedBy,omitempty" json:"submittedBy,omitempty"`
	CreatedAt      time.Time   `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time   `bson:"updatedAt" json:"updatedAt"`
}

func (e *Event) IsPublic() bool {
	return e.Status == EventApproved
}

// ValidateEventStep checks the fields of a single wizard page.
func ValidateEventStep(e *Event, step int) error {
	switch step {
	case StepBasics:
		return Validate.Struct(e.EventBasics)
	case StepOrganizer:
		return Validate.Struct(e.EventOrganizer)
	case StepSchedule:
		return Validate.Struct(e.EventSchedule)
	case StepVenue:
		if err := Validate.Struct(e.EventVenue); err != nil {
			return err
		}
		if e.Mode != "online" && strings.TrimSpace(e.DetailedLocation) == "" {
			return fmt.Errorf("detailedLocation is required for %s events", e.Mode)
		}
		return nil
	case StepExtras:
		return Validate.Struct(e.EventExtras)
	}
	return fmt.Errorf("unknown wizard step %d (expected 1-%d)", step, EventSteps)
}

func ValidateEvent(e *Event) error {
	for step := StepBasics; step <= EventSteps; step++ {
		if err := ValidateEventStep(e, step); err != nil {
			return err
		}
	}
	return nil
}

// EventUpdate is an admin edit. It never carries a status: moderation
// transitions go through approve/reject only.
type EventUpdate struct {
	Title            *string    `json:"title" validate:"omitempty,nonblank,min=3,max=160"`
	Category         *string    `json:"category" validate:"omitempty,oneof=hackathon workshop webinar conference competition meetup other"`
	Description      *string    `json:"description" validate:"omitempty,nonblank,min=20,max=5000"`
	Mode             *string    `json:"mode" validate:"omitempty,oneof=online offline hybrid"`
	BannerURL        *string    `json:"bannerUrl" validate:"omitempty,url"`
	Tags             []string   `json:"tags" validate:"omitempty,max=10,dive,min=1,max=30"`
	OrganizerName    *string    `json:"organizerName" validate:"omitempty,nonblank,max=120"`
	OrganizerEmail   *string    `json:"organizerEmail" validate:"omitempty,email"`
	OrganizerPhone   *string    `json:"organizerPhone" validate:"omitempty,min=7,max=20"`
	Organization     *string    `json:"organization" validate:"omitempty,max=120"`
	OrganizerWebsite *string    `json:"organizerWebsite" validate:"omitempty,url"`
	StartDate        *time.Time `json:"startDate"`
	EndDate          *time.Time `json:"endDate"`
	StartTime        *string    `json:"startTime"`
	EndTime          *string    `json:"endTime"`
	DetailedLocation *string    `json:"detailedLocation" validate:"omitempty,max=300"`
	City             *string    `json:"city" validate:"omitempty,max=80"`
	RegistrationType *string    `json:"registrationType" validate:"omitempty,oneof=free paid"`
	RegistrationFee  *float64   `json:"registrationFee" validate:"omitempty,gte=0"`
	RegistrationLink *string    `json:"registrationLink" validate:"omitempty,url"`
	FAQs             []FAQ      `json:"faqs" validate:"omitempty,max=20,dive"`
	FirstPrize       *string    `json:"firstPrize"`
	SecondPrize      *string    `json:"secondPrize"`
	ThirdPrize       *string    `json:"thirdPrize"`
	RewardDetails    *string    `json:"rewardDetails"`
}

func (u EventUpdate) Fields() bson.M {
	set := bson.M{}
	put := func(key string, v *string) {
		if v != nil {
			set[key] = strings.TrimSpace(*v)
		}
	}
	put("title", u.Title)
	put("category", u.Category)
	put("description", u.Description)
	put("mode", u.Mode)
	put("bannerUrl", u.BannerURL)
	put("organizerName", u.OrganizerName)
	put("organizerEmail", u.OrganizerEmail)
	put("organizerPhone", u.OrganizerPhone)
	put("organization", u.Organization)
	put("organizerWebsite", u.OrganizerWebsite)
	put("startTime", u.StartTime)
	put("endTime", u.EndTime)
	put("detailedLocation", u.DetailedLocation)
	put("city", u.City)
	put("registrationType", u.RegistrationType)
	put("registrationLink", u.RegistrationLink)
	put("firstPrize", u.FirstPrize)
	put("secondPrize", u.SecondPrize)
	put("thirdPrize", u.ThirdPrize)
	put("rewardDetails", u.RewardDetails)
	if u.Tags != nil {
		set["tags"] = u.Tags
	}
	if u.StartDate != nil {
		set["startDate"] = *u.StartDate
	}
	if u.EndDate != nil {
		set["endDate"] = *u.EndDate
	}
	if u.RegistrationFee != nil {
		set["registrationFee"] = *u.RegistrationFee
	}
	if u.FAQs != nil {
		set["faqs"] = u.FAQs
	}
	return set
}
