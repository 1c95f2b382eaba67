package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CartLine is one aggregated cart entry keyed by product identity. Title and
// UnitPrice are snapshots taken when the line was created.
type CartLine struct {
	ProductID     string          `json:"id"`
	Title         string          `json:"title"`
	UnitPrice     decimal.Decimal `json:"unitPrice"`
	Quantity      int             `json:"quantity"`
	SelectedSize  string          `json:"selectedSize,omitempty"`
	SelectedColor string          `json:"selectedColor"`
	AddedAt       time.Time       `json:"addedAt"`
}

// LineTotal is UnitPrice × Quantity.
func (l CartLine) LineTotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}
