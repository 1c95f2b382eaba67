package session

import (
	"github.com/shopspring/decimal"

	"wear404_storefront/internal/models"
)

// Query is a partial filter update. Nil fields keep their current value.
type Query struct {
	MainCategory *string
	SubCategory  *string
	Search       *string
	Sort         *string
	Min          *decimal.Decimal
	Max          *decimal.Decimal
	InStockOnly  *bool
	FeaturedOnly *bool
	Page         *int
}

// Empty reports whether q changes nothing.
func (q Query) Empty() bool {
	return q == Query{}
}

// Apply updates the selection in one step. The page is applied last, so an
// explicit page survives the page reset of the other fields.
func (s *Session) Apply(q Query) View {
	if q.Search != nil {
		s.debouncer.Stop()
	}
	return s.Update(func(spec *models.FilterSpec) {
		if q.MainCategory != nil {
			key := *q.MainCategory
			if key != models.AllCategories && !s.registry.Has(key) {
				key = models.AllCategories
			}
			spec.SetMainCategory(key)
		}
		if q.SubCategory != nil {
			spec.SetSubCategory(*q.SubCategory)
		}
		if q.Search != nil {
			spec.SearchTerm = *q.Search
		}
		if q.Sort != nil {
			spec.SortBy, _ = models.ParseSortMode(*q.Sort)
		}
		if q.Min != nil {
			spec.PriceRange.Min = *q.Min
		}
		if q.Max != nil {
			spec.PriceRange.Max = *q.Max
		}
		if q.InStockOnly != nil {
			spec.InStockOnly = *q.InStockOnly
		}
		if q.FeaturedOnly != nil {
			spec.FeaturedOnly = *q.FeaturedOnly
		}
		spec.Page = 1
		if q.Page != nil {
			spec.Page = *q.Page
		}
	})
}
