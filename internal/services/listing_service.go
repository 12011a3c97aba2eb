package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/joshua-takyi/careerportal/internal/helpers"
	"github.com/joshua-takyi/careerportal/internal/metrics"
	"github.com/joshua-takyi/careerportal/internal/models"
	"github.com/joshua-takyi/careerportal/internal/search"
	"go.mongodb.org/mongo-driver/bson"
)

const DefaultSearchSize = 20

type ListingService struct {
	repo     models.ListingRepo
	indexer  search.Indexer
	uploader helpers.ImageUploader
	logger   *slog.Logger
}

func NewListingService(repo models.ListingRepo, indexer search.Indexer, uploader helpers.ImageUploader, logger *slog.Logger) *ListingService {
	if indexer == nil {
		indexer = search.NoopIndexer{}
	}
	return &ListingService{
		repo:     repo,
		indexer:  indexer,
		uploader: uploader,
		logger:   logger,
	}
}

func (ls *ListingService) Create(ctx context.Context, kind models.ListingKind, listing *models.Listing) (*models.Listing, error) {
	listing.Kind = kind
	listing.Sanitize()
	if err := models.Validate.Struct(listing); err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	listing.CreatedAt = now
	listing.UpdatedAt = now

	created, err := ls.repo.CreateListing(ctx, listing)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", kind, err)
	}
	ls.mirror(ctx, created)
	return created, nil
}

func (ls *ListingService) Get(ctx context.Context, kind models.ListingKind, id string) (*models.Listing, error) {
	oid, err := models.ParseObjectID(helpers.StringTrim(id))
	if err != nil {
		return nil, err
	}
	return ls.repo.GetListing(ctx, kind, oid)
}

// List filters the full snapshot in memory, then pages it.
func (ls *ListingService) List(ctx context.Context, kind models.ListingKind, filter models.ListingFilter, page, size int) (models.Page[*models.Listing], error) {
	items, err := ls.repo.ListListings(ctx, kind)
	if err != nil {
		return models.Page[*models.Listing]{}, err
	}
	if size < 1 {
		size = kind.DefaultPageSize()
	}
	return models.Paginate(models.FilterListings(items, filter), page, size), nil
}

func (ls *ListingService) Update(ctx context.Context, kind models.ListingKind, id string, update models.ListingUpdate) (*models.Listing, error) {
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
	updated, err := ls.repo.UpdateListing(ctx, kind, oid, fields)
	if err != nil {
		return nil, err
	}
	ls.mirror(ctx, updated)
	return updated, nil
}

func (ls *ListingService) Delete(ctx context.Context, kind models.ListingKind, id string) error {
	oid, err := models.ParseObjectID(helpers.StringTrim(id))
	if err != nil {
		return err
	}
	if err := ls.repo.DeleteListing(ctx, kind, oid); err != nil {
		return err
	}
	if ls.indexer.Enabled() {
		if err := ls.indexer.RemoveListing(ctx, oid.Hex()); err != nil {
			metrics.SearchIndexFailures.Inc()
			ls.logger.Warn("Failed to remove listing from search index", "kind", kind, "id", oid.Hex(), "error", err)
		}
	}
	return nil
}

// SetLogo uploads a company logo or course thumbnail and stores its url.
func (ls *ListingService) SetLogo(ctx context.Context, kind models.ListingKind, id string, file io.Reader) (*models.Listing, error) {
	oid, err := models.ParseObjectID(helpers.StringTrim(id))
	if err != nil {
		return nil, err
	}
	if ls.uploader == nil {
		return nil, fmt.Errorf("%w: image uploads are not configured", helpers.ErrUnavailable)
	}
	if _, err := ls.repo.GetListing(ctx, kind, oid); err != nil {
		return nil, err
	}
	url, _, err := ls.uploader.UploadImage(ctx, file, helpers.LogoFolder)
	if err != nil {
		return nil, err
	}
	return ls.repo.UpdateListing(ctx, kind, oid, bson.M{"logoUrl": url})
}

// Search queries the catalog index and falls back to the in-memory filter
// when no index is configured or the cluster fails.
func (ls *ListingService) Search(ctx context.Context, q string, kinds []models.ListingKind, size int) ([]search.SearchHit, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return nil, fmt.Errorf("%w: search query is required", helpers.ErrValidation)
	}
	if len(kinds) == 0 {
		kinds = models.ListingKinds
	}
	if size < 1 || size > 100 {
		size = DefaultSearchSize
	}

	if ls.indexer.Enabled() {
		hits, err := ls.indexer.SearchListings(ctx, q, kinds, size)
		if err == nil {
			return hits, nil
		}
		ls.logger.Warn("Search index query failed, using in-memory filter", "query", q, "error", err)
	}

	hits := []search.SearchHit{}
	for _, kind := range kinds {
		items, err := ls.repo.ListListings(ctx, kind)
		if err != nil {
			return nil, err
		}
		for _, l := range models.FilterListings(items, models.ListingFilter{Search: q}) {
			if len(hits) == size {
				return hits, nil
			}
			hits = append(hits, search.SearchHit{
				ID:       l.ID.Hex(),
				Kind:     l.Kind,
				Title:    l.Title,
				Company:  l.Company,
				Location: l.Location,
			})
		}
	}
	return hits, nil
}

func (ls *ListingService) Count(ctx context.Context, kind models.ListingKind) (int64, error) {
	return ls.repo.CountListings(ctx, kind)
}

func (ls *ListingService) mirror(ctx context.Context, l *models.Listing) {
	if !ls.indexer.Enabled() {
		return
	}
	if err := ls.indexer.IndexListing(ctx, l); err != nil {
		metrics.SearchIndexFailures.Inc()
		ls.logger.Warn("Failed to index listing", "kind", l.Kind, "id", l.ID.Hex(), "error", err)
	}
}
