package cart

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"wear404_storefront/internal/models"
)

// Serialize encodes lines as a JSON array. An empty cart encodes as [].
func Serialize(lines []models.CartLine) ([]byte, error) {
	if lines == nil {
		lines = []models.CartLine{}
	}
	return json.Marshal(lines)
}

// storedLine accepts both the current line format and carts saved by the
// storefront page, which stored the whole product with a numeric id and no
// unit price.
type storedLine struct {
	ID            flexID              `json:"id"`
	Title         string              `json:"title"`
	UnitPrice     decimal.NullDecimal `json:"unitPrice"`
	Price         decimal.NullDecimal `json:"price"`
	SalePrice     decimal.NullDecimal `json:"salePrice"`
	Quantity      int                 `json:"quantity"`
	SelectedSize  *string             `json:"selectedSize"`
	SelectedColor string              `json:"selectedColor"`
	AddedAt       time.Time           `json:"addedAt"`
}

func (s storedLine) line() (models.CartLine, bool) {
	if s.ID == "" || s.Quantity < 1 {
		return models.CartLine{}, false
	}
	l := models.CartLine{
		ProductID:     string(s.ID),
		Title:         s.Title,
		Quantity:      s.Quantity,
		SelectedColor: s.SelectedColor,
		AddedAt:       s.AddedAt,
	}
	switch {
	case s.UnitPrice.Valid:
		l.UnitPrice = s.UnitPrice.Decimal
	case s.SalePrice.Valid && s.SalePrice.Decimal.IsPositive():
		l.UnitPrice = s.SalePrice.Decimal
	case s.Price.Valid:
		l.UnitPrice = s.Price.Decimal
	}
	if l.UnitPrice.IsNegative() {
		return models.CartLine{}, false
	}
	if s.SelectedSize != nil {
		l.SelectedSize = *s.SelectedSize
	}
	return l, true
}

// flexID decodes a product id written as a JSON string or number.
type flexID string

func (f *flexID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexID(s)
		return nil
	}
	if _, err := strconv.ParseFloat(string(b), 64); err != nil {
		return fmt.Errorf("invalid product id %s", b)
	}
	*f = flexID(b)
	return nil
}

// Deserialize decodes persisted lines. Entries that fail to decode or
// violate the CartLine invariants are skipped and counted; repeated ids are
// merged into the first line. Only a top level that is not an array is an
// error.
func Deserialize(data []byte) ([]models.CartLine, int, error) {
	var entries []json.RawMessage
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}

	lines := make([]models.CartLine, 0, len(entries))
	index := make(map[string]int, len(entries))
	skipped := 0
	for _, raw := range entries {
		var s storedLine
		if err := json.Unmarshal(raw, &s); err != nil {
			skipped++
			continue
		}
		l, ok := s.line()
		if !ok {
			skipped++
			continue
		}
		if i, dup := index[l.ProductID]; dup {
			lines[i].Quantity += l.Quantity
			continue
		}
		index[l.ProductID] = len(lines)
		lines = append(lines, l)
	}
	return lines, skipped, nil
}
