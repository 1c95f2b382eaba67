package catalog

import (
	"errors"
	"fmt"
)

// Kind classifies a catalog load failure.
type Kind int

const (
	// KindFetch covers transport, read and decode failures.
	KindFetch Kind = iota + 1
	// KindValidation covers a decoded document of the wrong shape.
	KindValidation
)

func (k Kind) String() string {
	switch k {
	case KindFetch:
		return "fetch"
	case KindValidation:
		return "validation"
	}
	return "unknown"
}

// ErrInvalidShape is reported when the products field is not a list.
var ErrInvalidShape = errors.New("invalid product data format")

// LoadError wraps a failure to obtain the catalog from a Source.
type LoadError struct {
	Kind   Kind
	Source string
	Err    error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("catalog %s error (%s): %v", e.Kind, e.Source, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }
