package catalog

import (
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"wear404_storefront/internal/models"
)

// Record is one raw product entry as decoded from a catalog document.
type Record map[string]any

// Normalizer fills missing product fields with their defaults and enforces
// the Product invariants. The zero value is usable; Rand and Now default to
// a time-seeded generator and time.Now.
type Normalizer struct {
	Registry models.Registry
	Rand     *rand.Rand
	Now      func() time.Time
	Logger   *zap.Logger

	stamp time.Time
}

// NewNormalizer returns a Normalizer whose generated ratings are
// reproducible for a non-zero seed.
func NewNormalizer(registry models.Registry, seed uint64) *Normalizer {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return &Normalizer{
		Registry: registry,
		Rand:     rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		Now:      time.Now,
	}
}

type fieldRule struct {
	field string
	apply func(n *Normalizer, raw Record, index int, p *models.Product)
}

// productFields runs in order: price before salePrice and mainCategory
// before subCategory.
var productFields = []fieldRule{
	{"id", func(_ *Normalizer, raw Record, i int, p *models.Product) {
		p.ID = stringOr(raw["id"], strconv.Itoa(i+1))
		if p.ID == "0" {
			p.ID = strconv.Itoa(i + 1)
		}
	}},
	{"title", func(_ *Normalizer, raw Record, _ int, p *models.Product) {
		p.Title = stringOr(raw["title"], "Untitled Product")
	}},
	{"description", func(_ *Normalizer, raw Record, _ int, p *models.Product) {
		p.Description = stringOr(raw["description"], "No description available")
	}},
	{"price", func(_ *Normalizer, raw Record, _ int, p *models.Product) {
		price, ok := asDecimal(raw["price"])
		if !ok || price.IsNegative() {
			price = decimal.Zero
		}
		p.Price = price
	}},
	{"salePrice", func(_ *Normalizer, raw Record, _ int, p *models.Product) {
		sale, ok := asDecimal(raw["salePrice"])
		if ok && sale.IsPositive() && sale.LessThan(p.Price) {
			p.SalePrice = decimal.NullDecimal{Decimal: sale, Valid: true}
		}
	}},
	{"mainCategory", func(_ *Normalizer, raw Record, _ int, p *models.Product) {
		p.MainCategory = stringOr(raw["mainCategory"], "uncategorized")
	}},
	{"subCategory", func(n *Normalizer, raw Record, _ int, p *models.Product) {
		sub := stringOr(raw["subCategory"], "")
		if sub != "" && n.Registry != nil && !n.Registry.HasSub(p.MainCategory, sub) {
			sub = ""
		}
		p.SubCategory = sub
	}},
	{"image", func(_ *Normalizer, raw Record, _ int, p *models.Product) {
		p.Image = stringOr(raw["image"], PlaceholderImage)
	}},
	{"color", func(_ *Normalizer, raw Record, _ int, p *models.Product) {
		p.Color = stringOr(raw["color"], "Various")
	}},
	{"size", func(_ *Normalizer, raw Record, _ int, p *models.Product) {
		p.Sizes = stringList(raw["size"])
		if len(p.Sizes) == 0 {
			p.Sizes = []string{"One Size"}
		}
	}},
	{"material", func(_ *Normalizer, raw Record, _ int, p *models.Product) {
		p.Material = stringOr(raw["material"], "Not specified")
	}},
	{"tags", func(_ *Normalizer, raw Record, _ int, p *models.Product) {
		p.Tags = stringList(raw["tags"])
		if p.Tags == nil {
			p.Tags = []string{}
		}
	}},
	{"featured", func(_ *Normalizer, raw Record, _ int, p *models.Product) {
		p.Featured = truthy(raw["featured"])
	}},
	{"inStock", func(_ *Normalizer, raw Record, _ int, p *models.Product) {
		v, ok := raw["inStock"].(bool)
		p.InStock = !ok || v
	}},
	{"sku", func(_ *Normalizer, raw Record, i int, p *models.Product) {
		p.SKU = stringOr(raw["sku"], fmt.Sprintf("404-%03d", i+1))
	}},
	{"rating", func(n *Normalizer, raw Record, _ int, p *models.Product) {
		r, ok := asFloat(raw["rating"])
		if !ok || r == 0 {
			r = float64(n.rng().IntN(3) + 3)
		}
		p.Rating = min(max(r, 0), 5)
	}},
	{"reviewCount", func(n *Normalizer, raw Record, _ int, p *models.Product) {
		c, ok := asFloat(raw["reviewCount"])
		if !ok || c == 0 {
			c = float64(n.rng().IntN(50) + 10)
		}
		p.ReviewCount = max(int(c), 0)
	}},
	{"createdAt", func(n *Normalizer, raw Record, _ int, p *models.Product) {
		p.CreatedAt = parseTime(raw["createdAt"], n.now)
	}},
}

// Normalize converts one raw record at position index.
func (n *Normalizer) Normalize(raw Record, index int) models.Product {
	var p models.Product
	for _, rule := range productFields {
		rule.apply(n, raw, index, &p)
	}
	return p
}

// NormalizeAll converts every record. Records whose identifier repeats an
// earlier one are dropped.
func (n *Normalizer) NormalizeAll(records []Record) []models.Product {
	n.stamp = n.now()
	defer func() { n.stamp = time.Time{} }()
	out := make([]models.Product, 0, len(records))
	seen := make(map[string]struct{}, len(records))
	for i, raw := range records {
		p := n.Normalize(raw, i)
		if _, dup := seen[p.ID]; dup {
			n.logger().Warn("duplicate product id dropped", zap.String("id", p.ID), zap.Int("index", i))
			continue
		}
		seen[p.ID] = struct{}{}
		out = append(out, p)
	}
	return out
}

func (n *Normalizer) rng() *rand.Rand {
	if n.Rand == nil {
		n.Rand = rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0))
	}
	return n.Rand
}

// now returns the creation time for records without one. Records of a
// single batch share one timestamp.
func (n *Normalizer) now() time.Time {
	if !n.stamp.IsZero() {
		return n.stamp
	}
	if n.Now == nil {
		return time.Now()
	}
	return n.Now()
}

func (n *Normalizer) logger() *zap.Logger {
	if n.Logger == nil {
		return zap.NewNop()
	}
	return n.Logger
}

func stringOr(v any, def string) string {
	switch t := v.(type) {
	case string:
		if s := strings.TrimSpace(t); s != "" {
			return s
		}
	case json.Number:
		return t.String()
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	}
	return def
}

func stringList(v any) []string {
	switch t := v.(type) {
	case []any:
		out := make([]string, 0, len(t))
		for _, item := range t {
			if s := stringOr(item, ""); s != "" {
				out = append(out, s)
			}
		}
		return out
	case []string:
		return append([]string(nil), t...)
	case nil:
		return nil
	}
	if s := stringOr(v, ""); s != "" {
		return []string{s}
	}
	return nil
}

func asDecimal(v any) (decimal.Decimal, bool) {
	switch t := v.(type) {
	case json.Number:
		d, err := decimal.NewFromString(t.String())
		return d, err == nil
	case string:
		d, err := decimal.NewFromString(strings.TrimSpace(t))
		return d, err == nil
	case float64:
		return decimal.NewFromFloat(t), true
	case int:
		return decimal.NewFromInt(int64(t)), true
	}
	return decimal.Zero, false
}

func asFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case json.Number:
		f, err := t.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		return f, err == nil
	case float64:
		return t, true
	case int:
		return float64(t), true
	}
	return 0, false
}

func truthy(v any) bool {
	switch t := v.(type) {
	case bool:
		return t
	case string:
		return t != ""
	case json.Number:
		f, err := t.Float64()
		return err == nil && f != 0
	case float64:
		return t != 0
	case int:
		return t != 0
	}
	return false
}

var timeLayouts = []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"}

func parseTime(v any, now func() time.Time) time.Time {
	s, ok := v.(string)
	if ok {
		for _, layout := range timeLayouts {
			if t, err := time.Parse(layout, strings.TrimSpace(s)); err == nil {
				return t
			}
		}
	}
	return now()
}
