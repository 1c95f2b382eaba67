// Package cart keeps the visitor's cart: one line per product, in insertion
// order, written to Storage after every change.
package cart

import (
	"context"
	"slices"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"wear404_storefront/internal/models"
)

// Storage persists the serialized cart under a fixed key.
type Storage interface {
	// Load returns nil, nil when nothing has been stored yet.
	Load(ctx context.Context) ([]byte, error)
	Save(ctx context.Context, data []byte) error
}

// Option configures a Ledger.
type Option func(*Ledger)

// WithLogger sets the logger used for persistence failures.
func WithLogger(l *zap.Logger) Option {
	return func(c *Ledger) { c.logger = l }
}

// WithClock overrides time.Now for line timestamps.
func WithClock(now func() time.Time) Option {
	return func(c *Ledger) { c.now = now }
}

// WithFailureHook registers fn to be called on every load or save failure.
func WithFailureHook(fn func(op string, err error)) Option {
	return func(c *Ledger) { c.onFailure = fn }
}

// Ledger is not safe for concurrent use; the owning session serializes
// access.
type Ledger struct {
	storage   Storage
	logger    *zap.Logger
	now       func() time.Time
	onFailure func(op string, err error)

	lines []models.CartLine
}

// NewLedger returns an empty ledger backed by storage. A nil storage keeps
// the cart in memory only.
func NewLedger(storage Storage, opts ...Option) *Ledger {
	l := &Ledger{
		storage: storage,
		logger:  zap.NewNop(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Add puts quantity units of p in the cart. Re-adding a product increases
// the existing line's quantity.
func (l *Ledger) Add(ctx context.Context, p models.Product, quantity int) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}
	if i := l.find(p.ID); i >= 0 {
		l.lines[i].Quantity += quantity
	} else {
		l.lines = append(l.lines, models.CartLine{
			ProductID:     p.ID,
			Title:         p.Title,
			UnitPrice:     p.EffectivePrice(),
			Quantity:      quantity,
			SelectedColor: p.Color,
			AddedAt:       l.now(),
		})
	}
	l.persist(ctx)
	return nil
}

// SetQuantity sets a line's quantity exactly. A quantity of zero or less
// removes the line.
func (l *Ledger) SetQuantity(ctx context.Context, productID string, quantity int) error {
	i := l.find(productID)
	if i < 0 {
		return ErrLineNotFound
	}
	if quantity <= 0 {
		l.lines = slices.Delete(l.lines, i, i+1)
	} else {
		l.lines[i].Quantity = quantity
	}
	l.persist(ctx)
	return nil
}

// Remove deletes the line for productID. It reports whether a line existed.
func (l *Ledger) Remove(ctx context.Context, productID string) bool {
	i := l.find(productID)
	if i < 0 {
		return false
	}
	l.lines = slices.Delete(l.lines, i, i+1)
	l.persist(ctx)
	return true
}

// SelectSize sets the chosen size of p's line. An empty size clears it.
func (l *Ledger) SelectSize(ctx context.Context, p models.Product, size string) error {
	i := l.find(p.ID)
	if i < 0 {
		return ErrLineNotFound
	}
	if size != "" && !p.HasSize(size) {
		return ErrUnknownSize
	}
	l.lines[i].SelectedSize = size
	l.persist(ctx)
	return nil
}

// Clear empties the cart.
func (l *Ledger) Clear(ctx context.Context) {
	l.lines = nil
	l.persist(ctx)
}

// TotalItemCount sums the quantities of all lines.
func (l *Ledger) TotalItemCount() int {
	n := 0
	for _, line := range l.lines {
		n += line.Quantity
	}
	return n
}

// DistinctCount is the number of lines.
func (l *Ledger) DistinctCount() int { return len(l.lines) }

// Subtotal sums the line totals.
func (l *Ledger) Subtotal() decimal.Decimal {
	sum := decimal.Zero
	for _, line := range l.lines {
		sum = sum.Add(line.LineTotal())
	}
	return sum
}

// Lines returns a copy of the lines in insertion order.
func (l *Ledger) Lines() []models.CartLine {
	return slices.Clone(l.lines)
}

// Line returns the line for productID.
func (l *Ledger) Line(productID string) (models.CartLine, bool) {
	if i := l.find(productID); i >= 0 {
		return l.lines[i], true
	}
	return models.CartLine{}, false
}

// Serialize encodes the current lines.
func (l *Ledger) Serialize() ([]byte, error) {
	return Serialize(l.lines)
}

// Restore replaces the cart with the decoded lines. Malformed entries are
// skipped; a corrupt document leaves the cart empty and returns ErrCorrupt.
// Restore does not write to storage.
func (l *Ledger) Restore(data []byte) error {
	lines, skipped, err := Deserialize(data)
	if err != nil {
		l.lines = nil
		return err
	}
	if skipped > 0 {
		l.logger.Warn("skipped malformed cart entries", zap.Int("skipped", skipped))
	}
	l.lines = lines
	return nil
}

// Load restores the cart from storage. Missing, unreadable or corrupt data
// all yield an empty cart.
func (l *Ledger) Load(ctx context.Context) {
	l.lines = nil
	if l.storage == nil {
		return
	}
	data, err := l.storage.Load(ctx)
	if err != nil {
		l.fail("load", err)
		return
	}
	if data == nil {
		return
	}
	if err := l.Restore(data); err != nil {
		l.fail("restore", err)
	}
}

func (l *Ledger) persist(ctx context.Context) {
	if l.storage == nil {
		return
	}
	data, err := l.Serialize()
	if err == nil {
		err = l.storage.Save(ctx, data)
	}
	if err != nil {
		l.fail("save", err)
	}
}

func (l *Ledger) fail(op string, err error) {
	l.logger.Warn("cart persistence failed", zap.String("op", op), zap.Error(err))
	if l.onFailure != nil {
		l.onFailure(op, err)
	}
}

func (l *Ledger) find(productID string) int {
	return slices.IndexFunc(l.lines, func(line models.CartLine) bool {
		return line.ProductID == productID
	})
}
