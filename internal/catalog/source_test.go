package catalog

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const catalogJSON = `{"products": [{"id": 1, "title": "Oat Silk", "price": 180}], "currency": "RM"}`

func TestFileSourceAcceptsBareArray(t *testing.T) {
	path := filepath.Join(t.TempDir(), "products.json")
	require.NoError(t, os.WriteFile(path, []byte(` [{"id": 1}]`), 0o600))

	doc, err := FileSource{Path: path}.Fetch(context.Background())
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id": 1}]`, string(doc.Products))
}

func TestFileSourceMissingFile(t *testing.T) {
	_, err := FileSource{Path: filepath.Join(t.TempDir(), "absent.json")}.Fetch(context.Background())
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestHTTPSource(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/data/products.json" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, catalogJSON)
	}))
	defer srv.Close()

	doc, err := HTTPSource{URL: srv.URL + "/data/products.json"}.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "RM", doc.Currency)

	_, err = HTTPSource{URL: srv.URL + "/missing.json"}.Fetch(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP 404")
}

func TestHTTPSourceFailureFallsBack(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	cat := newTestLoader(HTTPSource{URL: srv.URL}).Load(context.Background())
	assert.True(t, cat.Fallback)
	assert.Len(t, cat.Products, 3)
}

func TestElasticSource(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/":
			fmt.Fprint(w, `{"version": {"number": "8.19.0"}, "tagline": "You Know, for Search"}`)
		case "/products/_search":
			fmt.Fprint(w, `{"hits": {"hits": [
				{"_id": "p-1", "_source": {"title": "Oat Silk", "price": 180}},
				{"_id": "p-2", "_source": {"id": 7, "title": "Midnight Necklace"}}
			]}}`)
		default:
			w.WriteHeader(http.StatusNotFound)
			fmt.Fprint(w, `{}`)
		}
	}))
	defer srv.Close()

	client, err := elasticsearch.NewClient(elasticsearch.Config{Addresses: []string{srv.URL}})
	require.NoError(t, err)

	cat := newTestLoader(ElasticSource{Client: client, Index: "products"}).Load(context.Background())

	require.False(t, cat.Fallback, "cause: %v", cat.Cause)
	assert.Equal(t, []string{"p-1", "7"}, ids(cat.Products))
}

func TestMinioSource(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/catalog/products.json" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Content-Length", strconv.Itoa(len(catalogJSON)))
		w.Header().Set("Last-Modified", epoch.Format(http.TimeFormat))
		w.Header().Set("ETag", `"0a1b2c"`)
		if r.Method == http.MethodHead {
			return
		}
		fmt.Fprint(w, catalogJSON)
	}))
	defer srv.Close()

	client, err := minio.New(srv.Listener.Addr().String(), &minio.Options{
		Creds:        credentials.NewStaticV4("access", "secret", ""),
		Region:       "us-east-1",
		BucketLookup: minio.BucketLookupPath,
	})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	doc, err := MinioSource{Client: client, Bucket: "catalog", Object: "products.json"}.Fetch(ctx)
	require.NoError(t, err)
	assert.Equal(t, "RM", doc.Currency)
	assert.JSONEq(t, `[{"id": 1, "title": "Oat Silk", "price": 180}]`, string(doc.Products))
}
