package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"wear404_storefront/internal/models"
)

// Document is a catalog as published by a Source. Products is kept raw so
// that its shape can be validated by the Loader.
type Document struct {
	Products   json.RawMessage    `json:"products"`
	Categories models.Registry    `json:"categories,omitempty"`
	Currency   string             `json:"currency,omitempty"`
	PriceRange *models.PriceRange `json:"priceRange,omitempty"`
}

// Source fetches the catalog document.
type Source interface {
	Fetch(ctx context.Context) (Document, error)
	Name() string
}

// decodeDocument reads a catalog document. A bare JSON array is accepted as
// a document holding only products.
func decodeDocument(r io.Reader) (Document, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return Document{}, fmt.Errorf("read catalog: %w", err)
	}
	if first := firstByte(raw); first == '[' {
		return Document{Products: raw}, nil
	}
	var doc Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return Document{}, fmt.Errorf("decode catalog: %w", err)
	}
	return doc, nil
}

func firstByte(b []byte) byte {
	for _, c := range b {
		switch c {
		case ' ', '\t', '\n', '\r':
			continue
		}
		return c
	}
	return 0
}

// FileSource reads the catalog from a local JSON file.
type FileSource struct {
	Path string
}

func (s FileSource) Name() string { return "file:" + s.Path }

func (s FileSource) Fetch(ctx context.Context) (Document, error) {
	if err := ctx.Err(); err != nil {
		return Document{}, err
	}
	f, err := os.Open(s.Path)
	if err != nil {
		return Document{}, err
	}
	defer f.Close()
	return decodeDocument(f)
}

// HTTPSource fetches the catalog from a URL.
type HTTPSource struct {
	URL    string
	Client *http.Client
}

func (s HTTPSource) Name() string { return "http:" + s.URL }

func (s HTTPSource) Fetch(ctx context.Context) (Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return Document{}, err
	}
	req.Header.Set("Accept", "application/json")

	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}
	res, err := client.Do(req)
	if err != nil {
		return Document{}, err
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return Document{}, fmt.Errorf("HTTP %d: %s", res.StatusCode, http.StatusText(res.StatusCode))
	}
	return decodeDocument(res.Body)
}
