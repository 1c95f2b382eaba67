package catalog

import (
	"cmp"
	"slices"

	"wear404_storefront/internal/models"
)

// sortProducts orders items in place. Sorting is stable, so products that
// compare equal keep their catalog order.
func sortProducts(items []models.Product, mode models.SortMode) {
	slices.SortStableFunc(items, comparator(mode))
}

func comparator(mode models.SortMode) func(a, b models.Product) int {
	switch mode {
	case models.SortPriceLow:
		return func(a, b models.Product) int {
			return a.EffectivePrice().Cmp(b.EffectivePrice())
		}
	case models.SortPriceHigh:
		return func(a, b models.Product) int {
			return b.EffectivePrice().Cmp(a.EffectivePrice())
		}
	case models.SortNewest:
		return newestFirst
	case models.SortPopular:
		return func(a, b models.Product) int {
			return cmp.Compare(b.Popularity(), a.Popularity())
		}
	default:
		return func(a, b models.Product) int {
			if a.Featured != b.Featured {
				if a.Featured {
					return -1
				}
				return 1
			}
			return newestFirst(a, b)
		}
	}
}

func newestFirst(a, b models.Product) int {
	return b.CreatedAt.Compare(a.CreatedAt)
}
