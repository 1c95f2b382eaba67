package session

import "errors"

var (
	ErrUnknownProduct = errors.New("product not found")
	ErrOutOfStock     = errors.New("product is out of stock")
)
