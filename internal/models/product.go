package models

import (
	"slices"
	"time"

	"github.com/shopspring/decimal"
)

// Product is an immutable catalog entry. Instances are produced once by the
// catalog normalizer and never mutated afterwards.
type Product struct {
	ID           string              `json:"id"`
	Title        string              `json:"title"`
	Description  string              `json:"description"`
	Price        decimal.Decimal     `json:"price"`
	SalePrice    decimal.NullDecimal `json:"salePrice"`
	MainCategory string              `json:"mainCategory"`
	SubCategory  string              `json:"subCategory,omitempty"`
	Image        string              `json:"image"`
	Color        string              `json:"color"`
	Sizes        []string            `json:"size"`
	Material     string              `json:"material"`
	Tags         []string            `json:"tags"`
	Featured     bool                `json:"featured"`
	InStock      bool                `json:"inStock"`
	SKU          string              `json:"sku"`
	Rating       float64             `json:"rating"`
	ReviewCount  int                 `json:"reviewCount"`
	CreatedAt    time.Time           `json:"createdAt"`
}

// EffectivePrice returns the sale price when present, else the list price.
func (p Product) EffectivePrice() decimal.Decimal {
	if p.SalePrice.Valid {
		return p.SalePrice.Decimal
	}
	return p.Price
}

// OnSale reports whether a sale price applies.
func (p Product) OnSale() bool {
	return p.SalePrice.Valid
}

// Popularity is the ranking key of the "popular" sort.
func (p Product) Popularity() float64 {
	return p.Rating * float64(p.ReviewCount)
}

// HasSize reports whether size is one of the product's size labels.
func (p Product) HasSize(size string) bool {
	return slices.Contains(p.Sizes, size)
}
