package cart

import "errors"

var (
	// ErrInvalidQuantity rejects adds of zero or negative quantity.
	ErrInvalidQuantity = errors.New("quantity must be positive")
	// ErrLineNotFound is returned when no line exists for a product.
	ErrLineNotFound = errors.New("product not in cart")
	// ErrUnknownSize rejects a size the product is not offered in.
	ErrUnknownSize = errors.New("size not offered for product")
	// ErrCorrupt reports persisted cart data that is not a list of lines.
	ErrCorrupt = errors.New("corrupt cart data")
)
