package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
)

// ElasticSource reads every document of an index as a product record. The
// index holds products only, so categories and currency come from config.
type ElasticSource struct {
	Client *elasticsearch.Client
	Index  string
	Size   int
}

func (s ElasticSource) Name() string { return "elastic:" + s.Index }

type searchResponse struct {
	Hits struct {
		Hits []struct {
			ID     string                     `json:"_id"`
			Source map[string]json.RawMessage `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

func (s ElasticSource) Fetch(ctx context.Context) (Document, error) {
	size := s.Size
	if size <= 0 {
		size = 1000
	}

	var buf bytes.Buffer
	q := map[string]any{
		"size":  size,
		"query": map[string]any{"match_all": map[string]any{}},
	}
	if err := json.NewEncoder(&buf).Encode(q); err != nil {
		return Document{}, fmt.Errorf("encode query: %w", err)
	}

	req := esapi.SearchRequest{
		Index: []string{s.Index},
		Body:  &buf,
	}
	res, err := req.Do(ctx, s.Client)
	if err != nil {
		return Document{}, fmt.Errorf("search request: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return Document{}, errors.New("search failed: " + res.Status())
	}

	var r searchResponse
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return Document{}, fmt.Errorf("decode search response: %w", err)
	}

	records := make([]map[string]json.RawMessage, 0, len(r.Hits.Hits))
	for _, hit := range r.Hits.Hits {
		if hit.Source == nil {
			continue
		}
		if _, ok := hit.Source["id"]; !ok && hit.ID != "" {
			id, _ := json.Marshal(hit.ID)
			hit.Source["id"] = id
		}
		records = append(records, hit.Source)
	}
	products, err := json.Marshal(records)
	if err != nil {
		return Document{}, err
	}
	return Document{Products: products}, nil
}
