package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"wear404_storefront/internal/models"
)

// Catalog is a loaded, normalized product set with its reference data.
type Catalog struct {
	Products   []models.Product
	Registry   models.Registry
	Currency   string
	PriceRange *models.PriceRange

	// Fallback is set when the sample products replaced the fetched ones.
	// Cause holds the *LoadError that triggered it.
	Fallback bool
	Cause    error
}

// Loader fetches a catalog document, validates its shape and normalizes the
// records. Any failure yields the built-in sample catalog instead.
type Loader struct {
	Source   Source
	Registry models.Registry
	Seed     uint64
	Now      func() time.Time
	Logger   *zap.Logger
}

// Load never fails: a fetch or validation error is reported through
// Catalog.Fallback and Catalog.Cause.
func (l *Loader) Load(ctx context.Context) Catalog {
	registry := l.Registry
	if registry == nil {
		registry = DefaultRegistry()
	}

	cat, err := l.fetch(ctx, registry)
	if err == nil {
		l.logger().Info("catalog loaded",
			zap.String("source", l.sourceName()),
			zap.Int("products", len(cat.Products)))
		return cat
	}

	l.logger().Warn("catalog load failed, using sample products",
		zap.String("source", l.sourceName()), zap.Error(err))
	return Catalog{
		Products: l.normalizer(registry).NormalizeAll(sampleRecords()),
		Registry: registry,
		Fallback: true,
		Cause:    err,
	}
}

func (l *Loader) fetch(ctx context.Context, registry models.Registry) (Catalog, error) {
	if l.Source == nil {
		return Catalog{}, &LoadError{Kind: KindFetch, Source: "none", Err: errors.New("no catalog source configured")}
	}
	doc, err := l.Source.Fetch(ctx)
	if err != nil {
		return Catalog{}, &LoadError{Kind: KindFetch, Source: l.Source.Name(), Err: err}
	}
	records, err := parseRecords(doc.Products, l.logger())
	if err != nil {
		return Catalog{}, &LoadError{Kind: KindValidation, Source: l.Source.Name(), Err: err}
	}

	if len(doc.Categories) > 0 {
		registry = registry.Merge(doc.Categories)
	}
	return Catalog{
		Products:   l.normalizer(registry).NormalizeAll(records),
		Registry:   registry,
		Currency:   doc.Currency,
		PriceRange: doc.PriceRange,
	}, nil
}

// parseRecords requires a JSON array. Elements that are not objects are
// skipped.
func parseRecords(raw json.RawMessage, logger *zap.Logger) ([]Record, error) {
	if firstByte(raw) != '[' {
		return nil, ErrInvalidShape
	}
	var elems []json.RawMessage
	if err := json.Unmarshal(raw, &elems); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidShape, err)
	}

	records := make([]Record, 0, len(elems))
	for i, elem := range elems {
		dec := json.NewDecoder(bytes.NewReader(elem))
		dec.UseNumber()
		var rec Record
		if err := dec.Decode(&rec); err != nil || rec == nil {
			logger.Warn("skipping malformed product record", zap.Int("index", i))
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}

func (l *Loader) normalizer(registry models.Registry) *Normalizer {
	n := NewNormalizer(registry, l.Seed)
	if l.Now != nil {
		n.Now = l.Now
	}
	n.Logger = l.logger()
	return n
}

func (l *Loader) sourceName() string {
	if l.Source == nil {
		return "none"
	}
	return l.Source.Name()
}

func (l *Loader) logger() *zap.Logger {
	if l.Logger == nil {
		return zap.NewNop()
	}
	return l.Logger
}
