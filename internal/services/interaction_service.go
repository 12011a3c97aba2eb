package services

import (
	"context"
	"fmt"
	"time"

	"github.com/joshua-takyi/careerportal/internal/helpers"
	"github.com/joshua-takyi/careerportal/internal/metrics"
	"github.com/joshua-takyi/careerportal/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type InteractionService struct {
	repo     models.InteractionsRepo
	listings models.ListingRepo
	events   models.EventsRepo
}

func NewInteractionService(repo models.InteractionsRepo, listings models.ListingRepo, events models.EventsRepo) *InteractionService {
	return &InteractionService{repo: repo, listings: listings, events: events}
}

// Record stores an apply, register or waitlist action. Repeating the same
// action returns the first record and created=false.
func (is *InteractionService) Record(ctx context.Context, userID string, t models.InteractionType, itemID string) (*models.UserInteraction, bool, error) {
	if !t.Valid() {
		return nil, false, fmt.Errorf("%w: unknown interaction type %q", helpers.ErrValidation, t)
	}
	oid, err := models.ParseObjectID(helpers.StringTrim(itemID))
	if err != nil {
		return nil, false, err
	}
	title, err := is.itemTitle(ctx, t, oid)
	if err != nil {
		return nil, false, err
	}

	rec, created, err := is.repo.RecordInteraction(ctx, &models.UserInteraction{
		UserID:    userID,
		Type:      t,
		ItemID:    oid.Hex(),
		ItemTitle: title,
		Timestamp: time.Now().UTC(),
	})
	if err != nil {
		return nil, false, err
	}
	if created {
		metrics.InteractionsRecorded.WithLabelValues(string(t)).Inc()
	}
	return rec, created, nil
}

func (is *InteractionService) itemTitle(ctx context.Context, t models.InteractionType, id primitive.ObjectID) (string, error) {
	var kind models.ListingKind
	switch t {
	case models.InteractionEvent:
		e, err := is.events.GetEvent(ctx, id)
		if err != nil {
			return "", err
		}
		if !e.IsPublic() {
			return "", fmt.Errorf("event: %w", models.ErrNotFound)
		}
		return e.Title, nil
	case models.InteractionJob:
		kind = models.KindJob
	case models.InteractionInternship:
		kind = models.KindInternship
	case models.InteractionCourseWaitlist:
		kind = models.KindCourse
	}
	l, err := is.listings.GetListing(ctx, kind, id)
	if err != nil {
		return "", err
	}
	return l.Title, nil
}

func (is *InteractionService) ListMine(ctx context.Context, userID string, t models.InteractionType, page, size int) (models.Page[*models.UserInteraction], error) {
	items, err := is.repo.ListInteractionsByUser(ctx, userID)
	if err != nil {
		return models.Page[*models.UserInteraction]{}, err
	}
	if size < 1 {
		size = models.DefaultPageSize
	}
	return models.Paginate(models.FilterInteractions(items, t), page, size), nil
}

func (is *InteractionService) ListAll(ctx context.Context, t models.InteractionType, page, size int) (models.Page[*models.UserInteraction], error) {
	items, err := is.repo.ListInteractions(ctx)
	if err != nil {
		return models.Page[*models.UserInteraction]{}, err
	}
	if size < 1 {
		size = models.AdminPageSize
	}
	return models.Paginate(models.FilterInteractions(items, t), page, size), nil
}
