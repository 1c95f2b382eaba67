// Package session holds the state of one storefront visit: the catalog, the
// filter selection and the cart. Every event runs under the session lock, so
// callers may invoke it from concurrent HTTP and websocket goroutines.
package session

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"wear404_storefront/internal/cart"
	"wear404_storefront/internal/catalog"
	"wear404_storefront/internal/metrics"
	"wear404_storefront/internal/models"
	"wear404_storefront/internal/notify"
)

// Settings are the per-process storefront defaults.
type Settings struct {
	Brand       string
	Currency    string
	PageSize    int
	DefaultSort models.SortMode
	PriceRange  models.PriceRange
	Debounce    time.Duration
}

// Option configures a Session.
type Option func(*Session)

func WithLogger(l *zap.Logger) Option { return func(s *Session) { s.logger = l } }

func WithNotifier(n notify.Notifier) Option { return func(s *Session) { s.notifier = n } }

func WithRenderer(r Renderer) Option { return func(s *Session) { s.renderer = r } }

func WithMetrics(m *metrics.Metrics) Option { return func(s *Session) { s.metrics = m } }

// WithScheduler replaces the timer used to debounce text and price input.
func WithScheduler(sch Scheduler) Option { return func(s *Session) { s.scheduler = sch } }

// Session is the application context of the storefront.
type Session struct {
	settings  Settings
	logger    *zap.Logger
	notifier  notify.Notifier
	renderer  Renderer
	metrics   *metrics.Metrics
	scheduler Scheduler
	debouncer *Debouncer

	mu       sync.Mutex
	products []models.Product
	byID     map[string]int
	registry models.Registry
	currency string
	defaults models.FilterSpec
	spec     models.FilterSpec
	ledger   *cart.Ledger
}

// New returns a session with an empty catalog. Call Install to provide
// products.
func New(settings Settings, ledger *cart.Ledger, opts ...Option) *Session {
	if settings.PageSize <= 0 {
		settings.PageSize = catalog.DefaultPageSize
	}
	if _, ok := models.ParseSortMode(string(settings.DefaultSort)); !ok {
		settings.DefaultSort = models.SortFeatured
	}
	settings.PriceRange = settings.PriceRange.Normalized()
	if ledger == nil {
		ledger = cart.NewLedger(nil)
	}

	s := &Session{
		settings: settings,
		logger:   zap.NewNop(),
		registry: catalog.DefaultRegistry(),
		currency: settings.Currency,
		byID:     map[string]int{},
		ledger:   ledger,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.debouncer = NewDebouncer(settings.Debounce, s.scheduler)
	s.defaults = models.DefaultFilterSpec(settings.DefaultSort, settings.PriceRange)
	s.spec = s.defaults
	return s
}

// Install replaces the catalog and resets the filters. A fallback catalog
// raises a warning notification.
func (s *Session) Install(cat catalog.Catalog) View {
	s.mu.Lock()
	s.products = cat.Products
	s.byID = make(map[string]int, len(cat.Products))
	for i, p := range cat.Products {
		s.byID[p.ID] = i
	}
	if cat.Registry != nil {
		s.registry = cat.Registry
	}
	s.currency = s.settings.Currency
	if cat.Currency != "" {
		s.currency = cat.Currency
	}
	prices := s.settings.PriceRange
	if cat.PriceRange != nil {
		prices = cat.PriceRange.Normalized()
	}
	s.defaults = models.DefaultFilterSpec(s.settings.DefaultSort, prices)
	s.spec = s.defaults
	view := s.viewLocked()
	s.mu.Unlock()

	s.metrics.CatalogLoaded(cat.Fallback)
	if cat.Fallback {
		s.notify(notify.Warning, catalog.FallbackWarning)
	}
	s.render(view)
	return view
}

// Reload clears the filters and loads the catalog again.
func (s *Session) Reload(ctx context.Context, loader *catalog.Loader) View {
	s.debouncer.Stop()
	return s.Install(loader.Load(ctx))
}

// LoadCart restores the cart from storage.
func (s *Session) LoadCart(ctx context.Context) CartView {
	s.mu.Lock()
	s.ledger.Load(ctx)
	cv := s.cartViewLocked()
	s.mu.Unlock()
	return cv
}

// View recomputes the current view without changing anything.
func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewLocked()
}

// Filter returns the current filter selection.
func (s *Session) Filter() models.FilterSpec {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.spec
}

// Update applies fn to the filter selection and renders the result.
func (s *Session) Update(fn func(spec *models.FilterSpec)) View {
	s.mu.Lock()
	fn(&s.spec)
	view := s.viewLocked()
	s.mu.Unlock()
	s.render(view)
	return view
}

// SelectMainCategory switches category and clears the subcategory. Unknown
// keys select every category.
func (s *Session) SelectMainCategory(key string) View {
	return s.Update(func(spec *models.FilterSpec) {
		if key != models.AllCategories && !s.registry.Has(key) {
			key = models.AllCategories
		}
		spec.SetMainCategory(key)
	})
}

// SelectSubCategory narrows the current category. "all" or "" clears it.
func (s *Session) SelectSubCategory(key string) View {
	return s.Update(func(spec *models.FilterSpec) { spec.SetSubCategory(key) })
}

// Search applies a search term immediately.
func (s *Session) Search(term string) View {
	s.debouncer.Stop()
	return s.Update(func(spec *models.FilterSpec) {
		spec.SearchTerm = strings.TrimSpace(term)
		spec.Page = 1
	})
}

// InputSearch records a keystroke. The view is recomputed and rendered once
// the input has been quiet for the debounce interval.
func (s *Session) InputSearch(term string) {
	s.mu.Lock()
	s.spec.SearchTerm = strings.TrimSpace(term)
	s.spec.Page = 1
	s.mu.Unlock()
	s.debouncer.Trigger(s.refresh)
}

// InputPriceRange records a price slider movement, debounced like
// InputSearch.
func (s *Session) InputPriceRange(lo, hi decimal.Decimal) {
	s.mu.Lock()
	s.spec.PriceRange = models.PriceRange{Min: lo, Max: hi}.Normalized()
	s.spec.Page = 1
	s.mu.Unlock()
	s.debouncer.Trigger(s.refresh)
}

// SetPriceRange applies a price range immediately.
func (s *Session) SetPriceRange(lo, hi decimal.Decimal) View {
	return s.Update(func(spec *models.FilterSpec) {
		spec.PriceRange = models.PriceRange{Min: lo, Max: hi}.Normalized()
		spec.Page = 1
	})
}

// SetSort changes the sort mode. Unknown modes fall back to featured.
func (s *Session) SetSort(mode string) View {
	return s.Update(func(spec *models.FilterSpec) {
		spec.SortBy, _ = models.ParseSortMode(mode)
		spec.Page = 1
	})
}

func (s *Session) SetInStockOnly(on bool) View {
	return s.Update(func(spec *models.FilterSpec) {
		spec.InStockOnly = on
		spec.Page = 1
	})
}

func (s *Session) SetFeaturedOnly(on bool) View {
	return s.Update(func(spec *models.FilterSpec) {
		spec.FeaturedOnly = on
		spec.Page = 1
	})
}

// SetPage selects a result page; out of range pages are clamped.
func (s *Session) SetPage(page int) View {
	return s.Update(func(spec *models.FilterSpec) { spec.Page = page })
}

// ClearFilters restores the default selection.
func (s *Session) ClearFilters() View {
	s.debouncer.Stop()
	s.mu.Lock()
	s.spec = s.defaults
	view := s.viewLocked()
	s.mu.Unlock()
	s.notify(notify.Info, "All filters cleared")
	s.render(view)
	return view
}

// Product returns the quick-view detail of a product.
func (s *Session) Product(id string) (catalog.Detail, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.productLocked(id)
	if !ok {
		return catalog.Detail{}, ErrUnknownProduct
	}
	return catalog.Describe(p, s.registry, s.currency), nil
}

// Categories returns the registry with per-category product counts.
func (s *Session) Categories() CategoryView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return CategoryView{
		Keys:       s.registry.Keys(),
		Categories: s.registry,
		Counts:     catalog.CategoryCounts(s.products, s.registry),
	}
}

// Cart returns the cart summary.
func (s *Session) Cart() CartView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cartViewLocked()
}

// AddToCart adds quantity units of a product. Products that are out of
// stock cannot be added.
func (s *Session) AddToCart(ctx context.Context, id string, quantity int) (View, error) {
	s.mu.Lock()
	p, ok := s.productLocked(id)
	var err error
	switch {
	case !ok:
		err = ErrUnknownProduct
	case !p.InStock:
		err = ErrOutOfStock
	default:
		err = s.ledger.Add(ctx, p, quantity)
	}
	if err != nil {
		s.mu.Unlock()
		return View{}, err
	}
	view := s.viewLocked()
	s.mu.Unlock()

	s.metrics.CartMutation("add")
	s.notify(notify.Success, fmt.Sprintf(`"%s" added to cart!`, p.Title))
	s.render(view)
	return view, nil
}

// UpdateQuantity sets a line's quantity; zero or less removes it.
func (s *Session) UpdateQuantity(ctx context.Context, id string, quantity int) (View, error) {
	op := "set_quantity"
	if quantity <= 0 {
		op = "remove"
	}
	return s.mutateCart(op, func() error { return s.ledger.SetQuantity(ctx, id, quantity) })
}

// RemoveFromCart deletes a line. Removing an absent product is a no-op.
func (s *Session) RemoveFromCart(ctx context.Context, id string) View {
	view, _ := s.mutateCart("remove", func() error {
		s.ledger.Remove(ctx, id)
		return nil
	})
	return view
}

// SelectSize records the chosen size of a cart line.
func (s *Session) SelectSize(ctx context.Context, id, size string) (View, error) {
	return s.mutateCart("select_size", func() error {
		p, ok := s.productLocked(id)
		if !ok {
			return ErrUnknownProduct
		}
		return s.ledger.SelectSize(ctx, p, size)
	})
}

// ClearCart empties the cart.
func (s *Session) ClearCart(ctx context.Context) View {
	view, _ := s.mutateCart("clear", func() error {
		s.ledger.Clear(ctx)
		return nil
	})
	return view
}

// Close drops pending debounced work.
func (s *Session) Close() {
	s.debouncer.Stop()
}

func (s *Session) mutateCart(op string, fn func() error) (View, error) {
	s.mu.Lock()
	if err := fn(); err != nil {
		s.mu.Unlock()
		return View{}, err
	}
	view := s.viewLocked()
	s.mu.Unlock()

	s.metrics.CartMutation(op)
	s.render(view)
	return view, nil
}

func (s *Session) refresh() {
	s.render(s.View())
}

func (s *Session) viewLocked() View {
	f := catalog.Filter{Registry: s.registry, PageSize: s.settings.PageSize}
	res := f.Apply(s.products, s.spec)
	if res.Spec.SubCategory != s.spec.SubCategory {
		s.logger.Debug("subcategory reset",
			zap.String("main", s.spec.MainCategory),
			zap.String("sub", s.spec.SubCategory))
	}
	s.spec = res.Spec
	s.metrics.Recompute()

	items := res.Items
	if items == nil {
		items = []models.Product{}
	}
	return View{
		Products:   items,
		Total:      res.Total,
		Filtered:   res.Filtered,
		Page:       res.Page,
		PageSize:   res.PageSize,
		TotalPages: res.TotalPages,
		Summary:    catalog.Summary(res, s.registry),
		Filter:     res.Spec,
		Counts:     catalog.CategoryCounts(s.products, s.registry),
		Cart:       s.cartViewLocked(),
		Currency:   s.currency,
		Brand:      s.settings.Brand,
	}
}

func (s *Session) cartViewLocked() CartView {
	return newCartView(s.ledger.Lines(), s.ledger.TotalItemCount(), s.ledger.Subtotal(), s.currency)
}

func (s *Session) productLocked(id string) (models.Product, bool) {
	i, ok := s.byID[id]
	if !ok {
		return models.Product{}, false
	}
	return s.products[i], true
}

func (s *Session) notify(level notify.Level, text string) {
	if s.notifier != nil {
		s.notifier.Notify(level, text)
	}
}

func (s *Session) render(v View) {
	if s.renderer != nil {
		s.renderer.Render(v)
	}
}
