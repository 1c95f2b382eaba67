package catalog

import (
	"slices"
	"strings"

	"wear404_storefront/internal/models"
)

// DefaultPageSize is used when a Filter has no page size.
const DefaultPageSize = 12

// Filter runs the filter → sort → paginate pipeline. It holds no state
// besides its configuration and never mutates its inputs.
type Filter struct {
	Registry models.Registry
	PageSize int
}

// Result is the output of one pipeline run.
type Result struct {
	Items      []models.Product  `json:"items"`
	Total      int               `json:"total"`
	Filtered   int               `json:"filtered"`
	Page       int               `json:"page"`
	PageSize   int               `json:"pageSize"`
	TotalPages int               `json:"totalPages"`
	Spec       models.FilterSpec `json:"filter"`
}

type predicate func(models.Product) bool

// Apply filters and sorts products according to spec and returns the
// requested page.
func (f Filter) Apply(products []models.Product, spec models.FilterSpec) Result {
	spec = Sanitize(spec, f.Registry)
	matched := filterProducts(products, spec)
	sortProducts(matched, spec.SortBy)

	size := f.PageSize
	if size <= 0 {
		size = DefaultPageSize
	}
	pages := max((len(matched)+size-1)/size, 1)
	spec.Page = min(spec.Page, pages)

	start := (spec.Page - 1) * size
	end := min(start+size, len(matched))
	return Result{
		Items:      matched[start:end],
		Total:      len(products),
		Filtered:   len(matched),
		Page:       spec.Page,
		PageSize:   size,
		TotalPages: pages,
		Spec:       spec,
	}
}

// Matching returns the full filtered and sorted list without paging.
func (f Filter) Matching(products []models.Product, spec models.FilterSpec) []models.Product {
	spec = Sanitize(spec, f.Registry)
	matched := filterProducts(products, spec)
	sortProducts(matched, spec.SortBy)
	return matched
}

// Sanitize repairs a spec so that it satisfies the FilterSpec invariants:
// a subcategory only accompanies a concrete main category that owns it, the
// sort mode is known, the price range is ordered and non-negative, and the
// page is at least 1.
func Sanitize(spec models.FilterSpec, registry models.Registry) models.FilterSpec {
	if spec.MainCategory == "" {
		spec.MainCategory = models.AllCategories
	}
	if spec.SubCategory == models.AllCategories {
		spec.SubCategory = ""
	}
	if spec.SubCategory != "" {
		if spec.MainCategory == models.AllCategories ||
			(registry != nil && !registry.HasSub(spec.MainCategory, spec.SubCategory)) {
			spec.SubCategory = ""
		}
	}
	if _, ok := models.ParseSortMode(string(spec.SortBy)); !ok {
		spec.SortBy = models.SortFeatured
	}
	spec.SearchTerm = strings.TrimSpace(spec.SearchTerm)
	spec.PriceRange = spec.PriceRange.Normalized()
	spec.Page = max(spec.Page, 1)
	return spec
}

func filterProducts(products []models.Product, spec models.FilterSpec) []models.Product {
	preds := stages(spec)
	out := make([]models.Product, 0, len(products))
	for _, p := range products {
		if !slices.ContainsFunc(preds, func(keep predicate) bool { return !keep(p) }) {
			out = append(out, p)
		}
	}
	return out
}

// stages lists the active predicates in pipeline order.
func stages(spec models.FilterSpec) []predicate {
	var preds []predicate
	if spec.MainCategory != models.AllCategories {
		preds = append(preds, func(p models.Product) bool { return p.MainCategory == spec.MainCategory })
		if spec.SubCategory != "" {
			preds = append(preds, func(p models.Product) bool { return p.SubCategory == spec.SubCategory })
		}
	}
	if term := strings.ToLower(spec.SearchTerm); term != "" {
		preds = append(preds, func(p models.Product) bool { return strings.Contains(searchText(p), term) })
	}
	preds = append(preds, func(p models.Product) bool { return spec.PriceRange.Contains(p.EffectivePrice()) })
	if spec.InStockOnly {
		preds = append(preds, func(p models.Product) bool { return p.InStock })
	}
	if spec.FeaturedOnly {
		preds = append(preds, func(p models.Product) bool { return p.Featured })
	}
	return preds
}

func searchText(p models.Product) string {
	fields := make([]string, 0, len(p.Tags)+4)
	fields = append(fields, p.Title, p.Description)
	fields = append(fields, p.Tags...)
	fields = append(fields, p.Color, p.Material)
	return strings.ToLower(strings.Join(fields, " "))
}
