package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	es "github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/elastic/go-elasticsearch/v8/esutil"
	"github.com/joshua-takyi/careerportal/internal/models"
)

const IdxCatalog = "catalog_v1"

const catalogMapping = `{"settings":{"number_of_shards":1},"mappings":{"dynamic":"strict","properties":{
	"kind":{"type":"keyword"},"title":{"type":"text"},"company":{"type":"text"},
	"location":{"type":"text"},"skills":{"type":"keyword"},"description":{"type":"text"},
	"isFeatured":{"type":"boolean"},"createdAt":{"type":"date"}
}}}`

type SearchHit struct {
	ID       string             `json:"id"`
	Kind     models.ListingKind `json:"kind"`
	Title    string             `json:"title"`
	Company  string             `json:"company,omitempty"`
	Location string             `json:"location,omitempty"`
	Score    float64            `json:"score"`
}

// Indexer mirrors catalog listings into a full-text index.
type Indexer interface {
	Enabled() bool
	IndexListing(ctx context.Context, l *models.Listing) error
	RemoveListing(ctx context.Context, id string) error
	SearchListings(ctx context.Context, q string, kinds []models.ListingKind, size int) ([]SearchHit, error)
}

type catalogDoc struct {
	Kind        models.ListingKind `json:"kind"`
	Title       string             `json:"title"`
	Company     string             `json:"company,omitempty"`
	Location    string             `json:"location,omitempty"`
	Skills      []string           `json:"skills,omitempty"`
	Description string             `json:"description,omitempty"`
	IsFeatured  bool               `json:"isFeatured"`
	CreatedAt   time.Time          `json:"createdAt"`
}

type ElasticIndexer struct {
	ES    *es.Client
	Index string
}

func NewElasticIndexer(client *es.Client) *ElasticIndexer {
	return &ElasticIndexer{ES: client, Index: IdxCatalog}
}

func (ei *ElasticIndexer) Enabled() bool { return ei.ES != nil }

func (ei *ElasticIndexer) EnsureIndex(ctx context.Context) error {
	exists, err := ei.ES.Indices.Exists([]string{ei.Index}, ei.ES.Indices.Exists.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("check index %s: %w", ei.Index, err)
	}
	defer exists.Body.Close()
	if exists.StatusCode == 200 {
		return nil
	}
	res, err := ei.ES.Indices.Create(ei.Index,
		ei.ES.Indices.Create.WithBody(bytes.NewBufferString(catalogMapping)),
		ei.ES.Indices.Create.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("create index %s: %w", ei.Index, err)
	}
	return checkResponse(res, "create index "+ei.Index)
}

func (ei *ElasticIndexer) IndexListing(ctx context.Context, l *models.Listing) error {
	doc := catalogDoc{
		Kind:        l.Kind,
		Title:       l.Title,
		Company:     l.Company,
		Location:    l.Location,
		Skills:      l.Skills,
		Description: l.Description,
		IsFeatured:  l.IsFeatured,
		CreatedAt:   l.CreatedAt,
	}
	res, err := ei.ES.Index(ei.Index, esutil.NewJSONReader(doc),
		ei.ES.Index.WithDocumentID(l.ID.Hex()),
		ei.ES.Index.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("index listing %s: %w", l.ID.Hex(), err)
	}
	return checkResponse(res, "index listing "+l.ID.Hex())
}

func (ei *ElasticIndexer) RemoveListing(ctx context.Context, id string) error {
	res, err := ei.ES.Delete(ei.Index, id, ei.ES.Delete.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("remove listing %s: %w", id, err)
	}
	if res.StatusCode == 404 {
		res.Body.Close()
		return nil
	}
	return checkResponse(res, "remove listing "+id)
}

func (ei *ElasticIndexer) SearchListings(ctx context.Context, q string, kinds []models.ListingKind, size int) ([]SearchHit, error) {
	must := []map[string]any{{
		"multi_match": map[string]any{
			"query":     q,
			"fields":    []string{"title^3", "company^2", "skills^2", "location", "description"},
			"fuzziness": "AUTO",
		},
	}}
	boolQuery := map[string]any{"must": must}
	if len(kinds) > 0 {
		boolQuery["filter"] = []map[string]any{{"terms": map[string]any{"kind": kinds}}}
	}
	query := map[string]any{"query": map[string]any{"bool": boolQuery}}

	res, err := ei.ES.Search(
		ei.ES.Search.WithContext(ctx),
		ei.ES.Search.WithIndex(ei.Index),
		ei.ES.Search.WithBody(esutil.NewJSONReader(query)),
		ei.ES.Search.WithSize(size),
	)
	if err != nil {
		return nil, fmt.Errorf("search catalog: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		body, _ := io.ReadAll(res.Body)
		return nil, fmt.Errorf("search catalog: %s: %s", res.Status(), strings.TrimSpace(string(body)))
	}

	var parsed struct {
		Hits struct {
			Hits []struct {
				ID     string     `json:"_id"`
				Score  float64    `json:"_score"`
				Source catalogDoc `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	hits := make([]SearchHit, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		hits = append(hits, SearchHit{
			ID:       h.ID,
			Kind:     h.Source.Kind,
			Title:    h.Source.Title,
			Company:  h.Source.Company,
			Location: h.Source.Location,
			Score:    h.Score,
		})
	}
	return hits, nil
}

func checkResponse(res *esapi.Response, op string) error {
	defer res.Body.Close()
	if res.IsError() {
		body, _ := io.ReadAll(res.Body)
		return fmt.Errorf("%s: %s: %s", op, res.Status(), strings.TrimSpace(string(body)))
	}
	return nil
}

// NoopIndexer is used when no search cluster is configured.
type NoopIndexer struct{}

func (NoopIndexer) Enabled() bool { return false }

func (NoopIndexer) IndexListing(context.Context, *models.Listing) error { return nil }

func (NoopIndexer) RemoveListing(context.Context, string) error { return nil }

func (NoopIndexer) SearchListings(context.Context, string, []models.ListingKind, int) ([]SearchHit, error) {
	return nil, nil
}
