package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSource struct {
	doc Document
	err error
}

func (s stubSource) Name() string { return "stub" }

func (s stubSource) Fetch(context.Context) (Document, error) { return s.doc, s.err }

func newTestLoader(src Source) *Loader {
	return &Loader{Source: src, Seed: 3, Now: func() time.Time { return epoch }}
}

func TestLoadFallsBackOnFetchError(t *testing.T) {
	cat := newTestLoader(stubSource{err: errors.New("connection refused")}).Load(context.Background())

	require.True(t, cat.Fallback)
	var le *LoadError
	require.ErrorAs(t, cat.Cause, &le)
	assert.Equal(t, KindFetch, le.Kind)

	assert.Equal(t, []string{"1", "2", "3"}, ids(cat.Products))
	assert.Equal(t, "Cowboy Like Me", cat.Products[0].Title)
	assert.True(t, cat.Products[0].EffectivePrice().Equal(cat.Products[0].SalePrice.Decimal))
	assert.False(t, cat.Products[2].OnSale())
	assert.True(t, cat.Registry.Has("facial"))
}

func TestLoadFallsBackOnInvalidShape(t *testing.T) {
	for name, products := range map[string]string{
		"object": `{"id": 1}`,
		"string": `"nope"`,
		"null":   `null`,
	} {
		t.Run(name, func(t *testing.T) {
			src := stubSource{doc: Document{Products: json.RawMessage(products)}}
			cat := newTestLoader(src).Load(context.Background())

			require.True(t, cat.Fallback)
			var le *LoadError
			require.ErrorAs(t, cat.Cause, &le)
			assert.Equal(t, KindValidation, le.Kind)
			assert.ErrorIs(t, cat.Cause, ErrInvalidShape)
			assert.Len(t, cat.Products, 3)
		})
	}
}

func TestLoadMissingProductsFieldFallsBack(t *testing.T) {
	cat := newTestLoader(stubSource{doc: Document{}}).Load(context.Background())
	assert.True(t, cat.Fallback)
}

func TestLoadSkipsMalformedRecords(t *testing.T) {
	src := stubSource{doc: Document{Products: json.RawMessage(`[{"id": 1, "title": "ok"}, 42, "x", {"id": 2}]`)}}
	cat := newTestLoader(src).Load(context.Background())

	require.False(t, cat.Fallback)
	assert.Equal(t, []string{"1", "2"}, ids(cat.Products))
}

func TestLoadMergesDocumentOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "products.json")
	doc := `{
		"products": [{"id": 1, "title": "Linen Wrap", "mainCategory": "dresses", "subCategory": "wrap", "price": 120}],
		"categories": {"dresses": {"name": "Dresses", "icon": "👗", "subCategories": {"wrap": "Wrap Dresses"}}},
		"currency": "USD",
		"priceRange": {"min": 10, "max": 500}
	}`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))

	cat := newTestLoader(FileSource{Path: path}).Load(context.Background())

	require.False(t, cat.Fallback, "cause: %v", cat.Cause)
	assert.Equal(t, "USD", cat.Currency)
	require.NotNil(t, cat.PriceRange)
	assert.Equal(t, "500", cat.PriceRange.Max.String())
	assert.True(t, cat.Registry.Has("tops"))
	assert.Equal(t, "Dresses", cat.Registry.DisplayName("dresses"))
	require.Len(t, cat.Products, 1)
	assert.Equal(t, "wrap", cat.Products[0].SubCategory)
}

func TestLoadWithoutSource(t *testing.T) {
	cat := (&Loader{}).Load(context.Background())
	assert.True(t, cat.Fallback)
	assert.Len(t, cat.Products, 3)
}
