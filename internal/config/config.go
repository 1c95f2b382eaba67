// Package config reads the storefront settings from the environment, after
// loading an optional .env file.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// Config holds every setting of the storefront process.
type Config struct {
	Port     string
	GinMode  string
	LogLevel string

	BrandName        string
	Currency         string
	DefaultSort      string
	ProductsPerPage  int
	DebounceInterval time.Duration
	PriceMin         int64
	PriceMax         int64

	Catalog   CatalogConfig
	Storage   StorageConfig
	RateLimit RateLimitConfig
}

// CatalogConfig selects where the product catalog is read from.
type CatalogConfig struct {
	Source  string // file, http, minio or elastic
	Path    string
	URL     string
	Timeout time.Duration
	Seed    uint64

	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioUseSSL    bool
	MinioBucket    string
	Object         string

	ElasticURL      string
	ElasticUser     string
	ElasticPassword string
	ElasticIndex    string
}

// StorageConfig selects where the cart is persisted.
type StorageConfig struct {
	Driver        string // memory, redis or sqlite
	CartKey       string
	CartTTL       time.Duration
	RedisHost     string
	RedisPassword string
	SQLitePath    string
}

// RateLimitConfig bounds per-client request rates. Zero disables a limit.
type RateLimitConfig struct {
	CartAdd int64
	Search  int64
	Window  time.Duration
}

// Load reads .env (if present) and the process environment. Values that do
// not parse fall back to their default and are reported on logger.
func Load(logger *zap.Logger) Config {
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := godotenv.Load(".env"); err != nil {
		logger.Debug("no .env file, using process environment")
	} else {
		logger.Info(".env file loaded")
	}
	return FromEnv(os.LookupEnv, logger)
}

// FromEnv builds a Config from lookup.
func FromEnv(lookup func(string) (string, bool), logger *zap.Logger) Config {
	e := env{lookup: lookup, logger: logger}
	return Config{
		Port:     e.str("PORT", "8080"),
		GinMode:  e.str("GIN_MODE", ""),
		LogLevel: e.str("LOG_LEVEL", "info"),

		BrandName:        e.str("BRAND_NAME", "404WEAR"),
		Currency:         e.str("CURRENCY", "RM"),
		DefaultSort:      e.str("DEFAULT_SORT", "featured"),
		ProductsPerPage:  e.positiveInt("PRODUCTS_PER_PAGE", 12),
		DebounceInterval: e.duration("DEBOUNCE_INTERVAL", 300*time.Millisecond),
		PriceMin:         e.int64("PRICE_MIN", 0),
		PriceMax:         e.int64("PRICE_MAX", 250),

		Catalog: CatalogConfig{
			Source:  strings.ToLower(e.str("CATALOG_SOURCE", "file")),
			Path:    e.str("CATALOG_PATH", "data/products.json"),
			URL:     e.str("CATALOG_URL", ""),
			Timeout: e.duration("CATALOG_TIMEOUT", 10*time.Second),
			Seed:    uint64(e.int64("CATALOG_SEED", 0)),

			MinioEndpoint:  e.str("MINIO_ENDPOINT", ""),
			MinioAccessKey: e.str("MINIO_ACCESS_KEY", ""),
			MinioSecretKey: e.str("MINIO_SECRET_KEY", ""),
			MinioUseSSL:    e.bool("MINIO_USE_SSL", false),
			MinioBucket:    e.str("MINIO_BUCKET", ""),
			Object:         e.str("CATALOG_OBJECT", "products.json"),

			ElasticURL:      e.str("ELASTIC_URL", ""),
			ElasticUser:     e.str("ELASTIC_USER", ""),
			ElasticPassword: e.str("ELASTIC_PASSWORD", ""),
			ElasticIndex:    e.str("ELASTIC_INDEX", "products"),
		},
		Storage: StorageConfig{
			Driver:        strings.ToLower(e.str("STORAGE_DRIVER", "memory")),
			CartKey:       e.str("CART_KEY", "404wear_cart_v2"),
			CartTTL:       e.duration("CART_TTL", 30*24*time.Hour),
			RedisHost:     e.str("REDIS_HOST", "localhost:6379"),
			RedisPassword: e.str("REDIS_PASSWORD", ""),
			SQLitePath:    e.str("SQLITE_PATH", "storefront.db"),
		},
		RateLimit: RateLimitConfig{
			CartAdd: e.int64("RATE_LIMIT_CART_ADD", 20),
			Search:  e.int64("RATE_LIMIT_SEARCH", 30),
			Window:  e.duration("RATE_LIMIT_WINDOW", time.Minute),
		},
	}
}

type env struct {
	lookup func(string) (string, bool)
	logger *zap.Logger
}

func (e env) str(key, def string) string {
	if v, ok := e.lookup(key); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	return def
}

func (e env) invalid(key, value string, def any) {
	e.logger.Warn("invalid config value, using default",
		zap.String("key", key), zap.String("value", value), zap.Any("default", def))
}

func (e env) positiveInt(key string, def int) int {
	v := e.str(key, "")
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		e.invalid(key, v, def)
		return def
	}
	return n
}

func (e env) int64(key string, def int64) int64 {
	v := e.str(key, "")
	if v == "" {
		return def
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil || n < 0 {
		e.invalid(key, v, def)
		return def
	}
	return n
}

func (e env) duration(key string, def time.Duration) time.Duration {
	v := e.str(key, "")
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		e.invalid(key, v, def)
		return def
	}
	return d
}

func (e env) bool(key string, def bool) bool {
	v := e.str(key, "")
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		e.invalid(key, v, def)
		return def
	}
	return b
}
