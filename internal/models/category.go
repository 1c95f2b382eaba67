package models

import (
	"maps"
	"slices"
)

// Category describes one main category and its subcategories
// (subcategory key → display name).
type Category struct {
	Name          string            `json:"name"`
	Icon          string            `json:"icon"`
	Description   string            `json:"description"`
	SubCategories map[string]string `json:"subCategories"`
}

// Registry maps a category key to its Category. It is static reference data.
type Registry map[string]Category

// Has reports whether key is a registered main category.
func (r Registry) Has(key string) bool {
	_, ok := r[key]
	return ok
}

// HasSub reports whether sub belongs to the subcategory set of main.
func (r Registry) HasSub(main, sub string) bool {
	cat, ok := r[main]
	if !ok {
		return false
	}
	_, ok = cat.SubCategories[sub]
	return ok
}

// Keys returns the category keys in lexical order.
func (r Registry) Keys() []string {
	return slices.Sorted(maps.Keys(r))
}

// DisplayName returns the category's display name, or the key itself when
// the category is unknown.
func (r Registry) DisplayName(key string) string {
	if cat, ok := r[key]; ok && cat.Name != "" {
		return cat.Name
	}
	return key
}

// SubDisplayName returns the display name of sub under main, or "".
func (r Registry) SubDisplayName(main, sub string) string {
	if cat, ok := r[main]; ok {
		return cat.SubCategories[sub]
	}
	return ""
}

// Merge returns a new registry where overrides replace entries of r key by key.
func (r Registry) Merge(overrides Registry) Registry {
	out := make(Registry, len(r)+len(overrides))
	for k, v := range r {
		out[k] = v.clone()
	}
	for k, v := range overrides {
		out[k] = v.clone()
	}
	return out
}

func (c Category) clone() Category {
	c.SubCategories = maps.Clone(c.SubCategories)
	return c
}
