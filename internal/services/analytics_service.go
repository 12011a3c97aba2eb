package services

import (
	"context"

	"github.com/joshua-takyi/careerportal/internal/models"
)

type EventCounts struct {
	Total    int64 `json:"total"`
	Pending  int64 `json:"pending"`
	Approved int64 `json:"approved"`
}

type InteractionCounts struct {
	Total  int64                            `json:"total"`
	ByType map[models.InteractionType]int64 `json:"byType"`
}

type GrowthPoint struct {
	Label string `json:"label"`
	Users int64  `json:"users"`
}

type Overview struct {
	Users        int64             `json:"users"`
	Jobs         int64             `json:"jobs"`
	Internships  int64             `json:"internships"`
	Courses      int64             `json:"courses"`
	Resumes      int64             `json:"resumes"`
	Events       EventCounts       `json:"events"`
	Interactions InteractionCounts `json:"interactions"`
	Growth       []GrowthPoint     `json:"growth"`
}

// growthBaseline is the fixed series the dashboard chart starts from. There
// are no historical buckets; only the last point is live.
var growthBaseline = []GrowthPoint{
	{Label: "Jan", Users: 12},
	{Label: "Feb", Users: 19},
	{Label: "Mar", Users: 27},
	{Label: "Apr", Users: 34},
	{Label: "May", Users: 45},
}

type AnalyticsService struct {
	users        models.UserRepo
	listings     models.ListingRepo
	events       models.EventsRepo
	interactions models.InteractionsRepo
	resumes      models.ResumeRepo
}

func NewAnalyticsService(users models.UserRepo, listings models.ListingRepo, events models.EventsRepo, interactions models.InteractionsRepo, resumes models.ResumeRepo) *AnalyticsService {
	return &AnalyticsService{
		users:        users,
		listings:     listings,
		events:       events,
		interactions: interactions,
		resumes:      resumes,
	}
}

// Overview counts every collection once. Nothing is cached.
func (as *AnalyticsService) Overview(ctx context.Context) (*Overview, error) {
	var (
		o   Overview
		err error
	)
	if o.Users, err = as.users.CountUsers(ctx); err != nil {
		return nil, err
	}
	if o.Jobs, err = as.listings.CountListings(ctx, models.KindJob); err != nil {
		return nil, err
	}
	if o.Internships, err = as.listings.CountListings(ctx, models.KindInternship); err != nil {
		return nil, err
	}
	if o.Courses, err = as.listings.CountListings(ctx, models.KindCourse); err != nil {
		return nil, err
	}
	if o.Resumes, err = as.resumes.CountResumes(ctx); err != nil {
		return nil, err
	}
	if o.Events.Total, err = as.events.CountEvents(ctx, ""); err != nil {
		return nil, err
	}
	if o.Events.Pending, err = as.events.CountEvents(ctx, models.EventPending); err != nil {
		return nil, err
	}
	if o.Events.Approved, err = as.events.CountEvents(ctx, models.EventApproved); err != nil {
		return nil, err
	}

	byType, err := as.interactions.CountInteractionsByType(ctx)
	if err != nil {
		return nil, err
	}
	o.Interactions.ByType = byType
	for _, n := range byType {
		o.Interactions.Total += n
	}

	o.Growth = make([]GrowthPoint, 0, len(growthBaseline)+1)
	o.Growth = append(o.Growth, growthBaseline...)
	o.Growth = append(o.Growth, GrowthPoint{Label: "Now", Users: o.Users})
	return &o, nil
}
