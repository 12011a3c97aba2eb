package search

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/joshua-takyi/careerportal/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newTestIndexer(t *testing.T, handler http.HandlerFunc) *ElasticIndexer {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	client, err := Connect(srv.URL)
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}
	return NewElasticIndexer(client)
}

func TestSearchListingsParsesHits(t *testing.T) {
	var gotBody map[string]any
	ei := newTestIndexer(t, func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/"+IdxCatalog+"/_search") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		io.WriteString(w, `{"hits":{"hits":[
			{"_id":"a1","_score":2.5,"_source":{"kind":"job","title":"Go Developer","company":"Gopher Labs","isFeatured":false,"createdAt":"2025-01-01T00:00:00Z"}},
			{"_id":"b2","_score":1.0,"_source":{"kind":"course","title":"Go Basics","isFeatured":true,"createdAt":"2025-01-01T00:00:00Z"}}
		]}}`)
	})

	hits, err := ei.SearchListings(context.Background(), "go", []models.ListingKind{models.KindJob, models.KindCourse}, 10)
	if err != nil {
		t.Fatalf("SearchListings: %v", err)
	}
	if len(hits) != 2 || hits[0].ID != "a1" || hits[0].Kind != models.KindJob || hits[1].Title != "Go Basics" {
		t.Fatalf("unexpected hits %+v", hits)
	}

	boolQuery := gotBody["query"].(map[string]any)["bool"].(map[string]any)
	if _, ok := boolQuery["filter"]; !ok {
		t.Error("kind filter missing from query")
	}
}

func TestSearchListingsSurfacesClusterErrors(t *testing.T) {
	ei := newTestIndexer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		io.WriteString(w, `{"error":"bad query"}`)
	})
	if _, err := ei.SearchListings(context.Background(), "go", nil, 10); err == nil {
		t.Fatal("expected an error")
	}
}

func TestRemoveMissingListingIsNotAnError(t *testing.T) {
	ei := newTestIndexer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		io.WriteString(w, `{"result":"not_found"}`)
	})
	if err := ei.RemoveListing(context.Background(), primitive.NewObjectID().Hex()); err != nil {
		t.Fatalf("RemoveListing: %v", err)
	}
}

func TestConnectWithoutURLDisablesSearch(t *testing.T) {
	client, err := Connect("")
	if err != nil || client != nil {
		t.Fatalf("got %v, %v", client, err)
	}
	var idx Indexer = NoopIndexer{}
	if idx.Enabled() {
		t.Fatal("noop indexer reports enabled")
	}
}
