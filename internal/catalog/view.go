package catalog

import (
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"

	"wear404_storefront/internal/models"
)

// CategoryCounts counts products per main category over the full product
// set, plus the "all" total.
func CategoryCounts(products []models.Product, registry models.Registry) map[string]int {
	counts := make(map[string]int, len(registry)+1)
	for key := range registry {
		counts[key] = 0
	}
	for _, p := range products {
		counts[p.MainCategory]++
	}
	counts[models.AllCategories] = len(products)
	return counts
}

// Summary renders the product count line shown above the grid, e.g.
// `2 products of 10 for "silk" in Tops`.
func Summary(res Result, registry models.Registry) string {
	var b strings.Builder
	noun := "products"
	if res.Filtered == 1 {
		noun = "product"
	}
	fmt.Fprintf(&b, "%d %s", res.Filtered, noun)
	if res.Filtered != res.Total {
		fmt.Fprintf(&b, " of %d", res.Total)
	}
	if res.Spec.SearchTerm != "" {
		fmt.Fprintf(&b, " for %q", res.Spec.SearchTerm)
	}
	if res.Spec.MainCategory != models.AllCategories {
		fmt.Fprintf(&b, " in %s", registry.DisplayName(res.Spec.MainCategory))
	}
	return b.String()
}

// FormatPrice renders an amount with two decimals after the currency code.
func FormatPrice(currency string, amount decimal.Decimal) string {
	return currency + " " + amount.StringFixed(2)
}

// Stars is the star breakdown of a rating out of five.
type Stars struct {
	Full  int  `json:"full"`
	Half  bool `json:"half"`
	Empty int  `json:"empty"`
}

// RatingStars splits a rating into full, half and empty stars.
func RatingStars(rating float64) Stars {
	rating = min(max(rating, 0), 5)
	full := int(math.Floor(rating))
	half := rating-float64(full) >= 0.5
	empty := 5 - full
	if half {
		empty--
	}
	return Stars{Full: full, Half: half, Empty: empty}
}

// Detail is the quick-view projection of one product.
type Detail struct {
	Product         models.Product `json:"product"`
	CategoryName    string         `json:"categoryName"`
	SubCategoryName string         `json:"subCategoryName,omitempty"`
	DisplayPrice    string         `json:"displayPrice"`
	OriginalPrice   string         `json:"originalPrice,omitempty"`
	DiscountPercent int64          `json:"discountPercent,omitempty"`
	Savings         string         `json:"savings,omitempty"`
	Stars           Stars          `json:"stars"`
	StockLabel      string         `json:"stockLabel"`
}

// Describe builds the quick-view detail for p.
func Describe(p models.Product, registry models.Registry, currency string) Detail {
	d := Detail{
		Product:         p,
		CategoryName:    registry.DisplayName(p.MainCategory),
		SubCategoryName: registry.SubDisplayName(p.MainCategory, p.SubCategory),
		DisplayPrice:    FormatPrice(currency, p.EffectivePrice()),
		Stars:           RatingStars(p.Rating),
		StockLabel:      "Out of Stock",
	}
	if p.InStock {
		d.StockLabel = "In Stock - Ready to Ship"
	}
	if p.OnSale() && p.Price.IsPositive() {
		sale := p.SalePrice.Decimal
		d.OriginalPrice = FormatPrice(currency, p.Price)
		d.DiscountPercent = decimal.NewFromInt(1).Sub(sale.Div(p.Price)).Mul(decimal.NewFromInt(100)).Round(0).IntPart()
		d.Savings = FormatPrice(currency, p.Price.Sub(sale))
	}
	return d
}
