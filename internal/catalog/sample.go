package catalog

import "wear404_storefront/internal/models"

// PlaceholderImage is used for products without an image.
const PlaceholderImage = "https://images.unsplash.com/photo-1560448204-e02f11c3d0e2?w=400&h=500&fit=crop"

// FallbackWarning is shown when the sample catalog replaces the real one.
const FallbackWarning = "Using sample product data. Please check your data/products.json file."

// DefaultRegistry returns the built-in category registry.
func DefaultRegistry() models.Registry {
	return models.Registry{
		"accessories": {
			Name:        "Accessories",
			Icon:        "💎",
			Description: "Jewelry and accessories to complete your look",
			SubCategories: map[string]string{
				"necklace":   "Necklaces",
				"rings":      "Rings",
				"sunglasses": "Sunglasses",
			},
		},
		"tops": {
			Name:        "Tops",
			Icon:        "👕",
			Description: "Shirts, jackets, and tops for every occasion",
			SubCategories: map[string]string{
				"oversize":    "Oversize",
				"casual_wear": "Casual Wear",
				"slim_fit":    "Slim Fit",
			},
		},
		"shoes": {
			Name:        "Shoes",
			Icon:        "👟",
			Description: "Footwear combining style and comfort",
			SubCategories: map[string]string{
				"flats":        "Flats",
				"heels":        "Heels",
				"casual_shoes": "Casual Shoes",
			},
		},
		"bottoms": {
			Name:        "Bottoms",
			Icon:        "👖",
			Description: "Pants, jeans, skirts and shorts",
			SubCategories: map[string]string{
				"shorts": "Shorts",
				"jeans":  "Jeans",
				"skirt":  "Skirts",
			},
		},
		"facial": {
			Name:        "Facial Care",
			Icon:        "✨",
			Description: "Skincare and beauty essentials",
			SubCategories: map[string]string{
				"pimple_patch": "Pimple Patches",
				"sunscreen":    "Sunscreen",
				"mask":         "Face Masks",
			},
		},
	}
}

// sampleRecords is the raw fallback catalog. It goes through the same
// normalizer as fetched data.
func sampleRecords() []Record {
	return []Record{
		{
			"id":           1,
			"title":        "Cowboy Like Me",
			"description":  "Vintage inspired denim jacket with embroidered western details",
			"price":        250,
			"salePrice":    225,
			"mainCategory": "tops",
			"subCategory":  "oversize",
			"color":        "Blue",
			"size":         []any{"S", "M", "L", "XL"},
			"material":     "Premium Denim",
			"tags":         []any{"denim", "jacket", "vintage", "western"},
			"featured":     true,
			"inStock":      true,
			"sku":          "404-TOPS-001",
			"rating":       4.5,
			"reviewCount":  42,
		},
		{
			"id":           2,
			"title":        "Oat Silk",
			"description":  "Premium silk blend oversized shirt in natural oat color",
			"price":        180,
			"salePrice":    162,
			"mainCategory": "tops",
			"subCategory":  "oversize",
			"color":        "Beige",
			"size":         []any{"S", "M", "L"},
			"material":     "Silk Blend",
			"tags":         []any{"silk", "shirt", "oversized", "premium"},
			"featured":     true,
			"inStock":      true,
			"sku":          "404-TOPS-002",
			"rating":       4.7,
			"reviewCount":  38,
		},
		{
			"id":           3,
			"title":        "Midnight Necklace",
			"description":  "Sterling silver necklace with geometric pendant",
			"price":        90,
			"mainCategory": "accessories",
			"subCategory":  "necklace",
			"color":        "Silver",
			"size":         []any{"One Size"},
			"material":     "Sterling Silver",
			"tags":         []any{"necklace", "silver", "geometric", "jewelry"},
			"featured":     true,
			"inStock":      true,
			"sku":          "404-ACC-001",
			"rating":       4.8,
			"reviewCount":  56,
		},
	}
}
