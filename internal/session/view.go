package session

import (
	"github.com/shopspring/decimal"

	"wear404_storefront/internal/catalog"
	"wear404_storefront/internal/models"
)

// View is everything the presentation layer needs to paint the storefront.
type View struct {
	Products   []models.Product  `json:"products"`
	Total      int               `json:"total"`
	Filtered   int               `json:"filtered"`
	Page       int               `json:"page"`
	PageSize   int               `json:"pageSize"`
	TotalPages int               `json:"totalPages"`
	Summary    string            `json:"summary"`
	Filter     models.FilterSpec `json:"filter"`
	Counts     map[string]int    `json:"counts"`
	Cart       CartView          `json:"cart"`
	Currency   string            `json:"currency"`
	Brand      string            `json:"brand"`
}

// CartView summarizes the cart for display.
type CartView struct {
	Lines         []models.CartLine `json:"lines"`
	ItemCount     int               `json:"itemCount"`
	DistinctCount int               `json:"distinctCount"`
	Subtotal      decimal.Decimal   `json:"subtotal"`
	SubtotalLabel string            `json:"subtotalLabel"`
}

// CategoryView lists the registry with product counts.
type CategoryView struct {
	Keys       []string        `json:"keys"`
	Categories models.Registry `json:"categories"`
	Counts     map[string]int  `json:"counts"`
}

// Renderer receives every recomputed view.
type Renderer interface {
	Render(View)
}

// RenderFunc adapts a function to Renderer.
type RenderFunc func(View)

func (f RenderFunc) Render(v View) { f(v) }

func newCartView(lines []models.CartLine, count int, subtotal decimal.Decimal, currency string) CartView {
	if lines == nil {
		lines = []models.CartLine{}
	}
	return CartView{
		Lines:         lines,
		ItemCount:     count,
		DistinctCount: len(lines),
		Subtotal:      subtotal,
		SubtotalLabel: catalog.FormatPrice(currency, subtotal),
	}
}
