package models

import "github.com/shopspring/decimal"

// AllCategories selects every main category.
const AllCategories = "all"

// SortMode orders the filtered catalog.
type SortMode string

const (
	SortFeatured  SortMode = "featured"
	SortPriceLow  SortMode = "price-low"
	SortPriceHigh SortMode = "price-high"
	SortNewest    SortMode = "newest"
	SortPopular   SortMode = "popular"
)

// ParseSortMode validates s. Unknown values report false.
func ParseSortMode(s string) (SortMode, bool) {
	switch m := SortMode(s); m {
	case SortFeatured, SortPriceLow, SortPriceHigh, SortNewest, SortPopular:
		return m, true
	}
	return SortFeatured, false
}

// PriceRange is an inclusive effective-price window.
type PriceRange struct {
	Min decimal.Decimal `json:"min"`
	Max decimal.Decimal `json:"max"`
}

// NewPriceRange builds a range from whole currency units.
func NewPriceRange(min, max int64) PriceRange {
	return PriceRange{Min: decimal.NewFromInt(min), Max: decimal.NewFromInt(max)}
}

// Contains reports min <= price <= max.
func (r PriceRange) Contains(price decimal.Decimal) bool {
	return price.GreaterThanOrEqual(r.Min) && price.LessThanOrEqual(r.Max)
}

// Normalized clamps negative bounds to zero and orders min <= max.
func (r PriceRange) Normalized() PriceRange {
	if r.Min.IsNegative() {
		r.Min = decimal.Zero
	}
	if r.Max.IsNegative() {
		r.Max = decimal.Zero
	}
	if r.Min.GreaterThan(r.Max) {
		r.Min, r.Max = r.Max, r.Min
	}
	return r
}

// FilterSpec is the complete set of visitor-adjustable filter, sort and
// paging inputs.
type FilterSpec struct {
	MainCategory string     `json:"mainCategory"`
	SubCategory  string     `json:"subCategory,omitempty"`
	SearchTerm   string     `json:"searchTerm"`
	SortBy       SortMode   `json:"sortBy"`
	PriceRange   PriceRange `json:"priceRange"`
	InStockOnly  bool       `json:"inStockOnly"`
	FeaturedOnly bool       `json:"featuredOnly"`
	Page         int        `json:"page"`
}

// DefaultFilterSpec returns the cleared filter state.
func DefaultFilterSpec(sortBy SortMode, prices PriceRange) FilterSpec {
	return FilterSpec{
		MainCategory: AllCategories,
		SortBy:       sortBy,
		PriceRange:   prices,
		Page:         1,
	}
}

// SetMainCategory selects a main category. The subcategory selector always
// belongs to the previous main category, so it is cleared.
func (f *FilterSpec) SetMainCategory(key string) {
	if key == "" {
		key = AllCategories
	}
	f.MainCategory = key
	f.SubCategory = ""
	f.Page = 1
}

// SetSubCategory selects a subcategory of the current main category.
// "" and "all" clear the selection.
func (f *FilterSpec) SetSubCategory(key string) {
	if key == AllCategories {
		key = ""
	}
	f.SubCategory = key
	f.Page = 1
}
