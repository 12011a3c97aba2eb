package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joshua-takyi/careerportal/internal/helpers"
	"github.com/joshua-takyi/careerportal/internal/metrics"
	"github.com/joshua-takyi/careerportal/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// EventService owns the moderation workflow: submissions start pending and
// only approved events are ever visible to the public.
type EventService struct {
	repo     models.EventsRepo
	uploader helpers.ImageUploader
	logger   *slog.Logger
}

func NewEventService(repo models.EventsRepo, uploader helpers.ImageUploader, logger *slog.Logger) *EventService {
	return &EventService{repo: repo, uploader: uploader, logger: logger}
}

func asValidation(err error) error {
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		return err
	}
	return fmt.Errorf("%w: %v", helpers.ErrValidation, err)
}

func (es *EventService) ValidateStep(e *models.Event, step int) error {
	return asValidation(models.ValidateEventStep(e, step))
}

// Submit stores a new event as pending whatever status the client sent.
func (es *EventService) Submit(ctx context.Context, e *models.Event, submittedBy string) (*models.Event, error) {
	if err := asValidation(models.ValidateEvent(e)); err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	e.ID = primitive.NilObjectID
	e.Status = models.EventPending
	e.SubmittedBy = submittedBy
	e.CreatedAt = now
	e.UpdatedAt = now

	created, err := es.repo.CreateEvent(ctx, e)
	if err != nil {
		return nil, fmt.Errorf("failed to submit event: %w", err)
	}
	metrics.ModerationActions.WithLabelValues(metrics.ActionSubmitted).Inc()
	es.logger.Info("Event submitted for review", "event_id", created.ID.Hex(), "submitted_by", submittedBy)
	return created, nil
}

func (es *EventService) ListPublic(ctx context.Context, filter models.EventFilter, page, size int) (models.Page[*models.Event], error) {
	events, err := es.repo.ListEvents(ctx, models.EventApproved)
	if err != nil {
		return models.Page[*models.Event]{}, err
	}
	filter.Status = models.EventApproved
	if size < 1 {
		size = models.EventsPageSize
	}
	return models.Paginate(models.FilterEvents(events, filter), page, size), nil
}

// GetPublic hides pending events behind the same 404 as missing ones.
func (es *EventService) GetPublic(ctx context.Context, id string) (*models.Event, error) {
	e, err := es.GetAdmin(ctx, id)
	if err != nil {
		return nil, err
	}
	if !e.IsPublic() {
		return nil, fmt.Errorf("event: %w", models.ErrNotFound)
	}
	return e, nil
}

func (es *EventService) ListAdmin(ctx context.Context, filter models.EventFilter, page, size int) (models.Page[*models.Event], error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return models.Page[*models.Event]{}, fmt.Errorf("%w: unknown status %q", helpers.ErrValidation, filter.Status)
	}
	events, err := es.repo.ListEvents(ctx, filter.Status)
	if err != nil {
		return models.Page[*models.Event]{}, err
	}
	if size < 1 {
		size = models.AdminPageSize
	}
	return models.Paginate(models.FilterEvents(events, filter), page, size), nil
}

func (es *EventService) GetAdmin(ctx context.Context, id string) (*models.Event, error) {
	oid, err := models.ParseObjectID(helpers.StringTrim(id))
	if err != nil {
		return nil, err
	}
	return es.repo.GetEvent(ctx, oid)
}

func (es *EventService) Approve(ctx context.Context, id string) (*models.Event, error) {
	oid, err := models.ParseObjectID(helpers.StringTrim(id))
	if err != nil {
		return nil, err
	}
	e, err := es.repo.TransitionEvent(ctx, oid, models.EventPending, models.EventApproved)
	if err != nil {
		return nil, err
	}
	metrics.ModerationActions.WithLabelValues(metrics.ActionApproved).Inc()
	es.logger.Info("Event approved", "event_id", oid.Hex())
	return e, nil
}

// Reject removes the event. There is no rejected state.
func (es *EventService) Reject(ctx context.Context, id string) error {
	oid, err := models.ParseObjectID(helpers.StringTrim(id))
	if err != nil {
		return err
	}
	if err := es.repo.DeleteEvent(ctx, oid); err != nil {
		return err
	}
	metrics.ModerationActions.WithLabelValues(metrics.ActionRejected).Inc()
	es.logger.Info("Event rejected", "event_id", oid.Hex())
	return nil
}

func (es *EventService) Update(ctx context.Context, id string, update models.EventUpdate) (*models.Event, error) {
	oid, err := models.ParseObjectID(helpers.StringTrim(id))
	if err != nil {
		return nil, err
	}
	if err := models.Validate.Struct(update); err != nil {
		return nil, err
	}
	fields := update.Fields()
	if len(fields) == 0 {
		return nil, fmt.Errorf("%w: no fields to update", helpers.ErrValidation)
	}
	if update.StartDate != nil || update.EndDate != nil {
		current, err := es.repo.GetEvent(ctx, oid)
		if err != nil {
			return nil, err
		}
		start, end := current.StartDate, current.EndDate
		if update.StartDate != nil {
			start = *update.StartDate
		}
		if update.EndDate != nil {
			end = *update.EndDate
		}
		if end.Before(start) {
			return nil, fmt.Errorf("%w: endDate is before startDate", helpers.ErrValidation)
		}
	}
	return es.repo.UpdateEvent(ctx, oid, fields)
}

// UploadBanner stores a banner image and returns its url. The wizard
// uploads before the event exists, so nothing is written here. uploadedBy
// is empty for anonymous submitters.
func (es *EventService) UploadBanner(ctx context.Context, file io.Reader, uploadedBy string) (string, error) {
	if es.uploader == nil {
		return "", fmt.Errorf("%w: image uploads are not configured", helpers.ErrUnavailable)
	}
	url, publicID, err := es.uploader.UploadImage(ctx, file, helpers.EventsFolder)
	if err != nil {
		return "", err
	}
	es.logger.Info("Event banner uploaded", "public_id", publicID, "uploaded_by", uploadedBy)
	return url, nil
}

// SetBanner replaces the banner of an existing event.
func (es *EventService) SetBanner(ctx context.Context, id string, file io.Reader) (*models.Event, error) {
	oid, err := models.ParseObjectID(helpers.StringTrim(id))
	if err != nil {
		return nil, err
	}
	if _, err := es.repo.GetEvent(ctx, oid); err != nil {
		return nil, err
	}
	url, err := es.UploadBanner(ctx, file, "")
	if err != nil {
		return nil, err
	}
	return es.repo.UpdateEvent(ctx, oid, bson.M{"bannerUrl": url})
}

func (es *EventService) Count(ctx context.Context, status models.EventStatus) (int64, error) {
	return es.repo.CountEvents(ctx, status)
}
