package search

import (
	"fmt"

	es "github.com/elastic/go-elasticsearch/v8"
)

// Connect returns a client for url. An empty url means search is disabled
// and the caller should fall back to NoopIndexer.
func Connect(url string) (*es.Client, error) {
	if url == "" {
		return nil, nil
	}
	client, err := es.NewClient(es.Config{
		Addresses: []string{url},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Elasticsearch: %v", err)
	}
	return client, nil
}
