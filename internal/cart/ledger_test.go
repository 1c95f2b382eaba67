package cart

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wear404_storefront/internal/models"
)

var addedAt = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

type recordingStorage struct {
	data    []byte
	saves   int
	saveErr error
	loadErr error
}

func (s *recordingStorage) Load(context.Context) ([]byte, error) {
	return s.data, s.loadErr
}

func (s *recordingStorage) Save(_ context.Context, data []byte) error {
	s.saves++
	if s.saveErr != nil {
		return s.saveErr
	}
	s.data = append([]byte(nil), data...)
	return nil
}

func jacket() models.Product {
	return models.Product{
		ID:        "1",
		Title:     "Cowboy Like Me",
		Price:     decimal.NewFromInt(250),
		SalePrice: decimal.NullDecimal{Decimal: decimal.NewFromInt(225), Valid: true},
		Color:     "Blue",
		Sizes:     []string{"S", "M", "L", "XL"},
		InStock:   true,
	}
}

func necklace() models.Product {
	return models.Product{
		ID:      "3",
		Title:   "Midnight Necklace",
		Price:   decimal.RequireFromString("90.50"),
		Color:   "Silver",
		Sizes:   []string{"One Size"},
		InStock: true,
	}
}

func newLedger(s Storage, opts ...Option) *Ledger {
	return NewLedger(s, append([]Option{WithClock(func() time.Time { return addedAt })}, opts...)...)
}

func TestAddMergesQuantity(t *testing.T) {
	ctx := context.Background()
	store := &recordingStorage{}
	l := newLedger(store)

	require.NoError(t, l.Add(ctx, jacket(), 1))
	require.NoError(t, l.Add(ctx, jacket(), 2))

	assert.Equal(t, 3, l.TotalItemCount())
	lines := l.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, 3, lines[0].Quantity)
	assert.Equal(t, "Blue", lines[0].SelectedColor)
	assert.Empty(t, lines[0].SelectedSize)
	assert.Equal(t, addedAt, lines[0].AddedAt)
	assert.True(t, lines[0].UnitPrice.Equal(decimal.NewFromInt(225)))
	assert.Equal(t, 2, store.saves)
}

func TestAddRejectsNonPositiveQuantity(t *testing.T) {
	store := &recordingStorage{}
	l := newLedger(store)

	for _, q := range []int{0, -1} {
		assert.ErrorIs(t, l.Add(context.Background(), jacket(), q), ErrInvalidQuantity)
	}
	assert.Zero(t, l.DistinctCount())
	assert.Zero(t, store.saves)
}

func TestSetQuantity(t *testing.T) {
	ctx := context.Background()
	l := newLedger(&recordingStorage{})
	require.NoError(t, l.Add(ctx, jacket(), 1))
	require.NoError(t, l.Add(ctx, necklace(), 1))

	require.NoError(t, l.SetQuantity(ctx, "1", 5))
	line, ok := l.Line("1")
	require.True(t, ok)
	assert.Equal(t, 5, line.Quantity)

	require.NoError(t, l.SetQuantity(ctx, "1", 0))
	_, ok = l.Line("1")
	assert.False(t, ok)
	assert.Len(t, l.Lines(), 1)

	assert.ErrorIs(t, l.SetQuantity(ctx, "404", 1), ErrLineNotFound)
}

func TestRemove(t *testing.T) {
	ctx := context.Background()
	store := &recordingStorage{}
	l := newLedger(store)
	require.NoError(t, l.Add(ctx, jacket(), 1))

	assert.False(t, l.Remove(ctx, "3"))
	assert.Equal(t, 1, store.saves)

	assert.True(t, l.Remove(ctx, "1"))
	assert.Zero(t, l.TotalItemCount())
	assert.JSONEq(t, `[]`, string(store.data))
}

func TestLinesKeepInsertionOrderAndAreSnapshots(t *testing.T) {
	ctx := context.Background()
	l := newLedger(nil)
	require.NoError(t, l.Add(ctx, necklace(), 1))
	require.NoError(t, l.Add(ctx, jacket(), 1))
	require.NoError(t, l.Add(ctx, necklace(), 1))

	lines := l.Lines()
	require.Len(t, lines, 2)
	assert.Equal(t, "3", lines[0].ProductID)
	assert.Equal(t, "1", lines[1].ProductID)

	lines[0].Quantity = 99
	line, _ := l.Line("3")
	assert.Equal(t, 2, line.Quantity)
}

func TestSelectSize(t *testing.T) {
	ctx := context.Background()
	l := newLedger(nil)
	require.NoError(t, l.Add(ctx, jacket(), 1))

	require.NoError(t, l.SelectSize(ctx, jacket(), "M"))
	line, _ := l.Line("1")
	assert.Equal(t, "M", line.SelectedSize)

	assert.ErrorIs(t, l.SelectSize(ctx, jacket(), "XXS"), ErrUnknownSize)
	assert.ErrorIs(t, l.SelectSize(ctx, necklace(), "One Size"), ErrLineNotFound)
}

func TestSubtotal(t *testing.T) {
	ctx := context.Background()
	l := newLedger(nil)
	require.NoError(t, l.Add(ctx, jacket(), 2))
	require.NoError(t, l.Add(ctx, necklace(), 1))

	assert.Equal(t, "540.50", l.Subtotal().StringFixed(2))
	assert.Equal(t, 2, l.DistinctCount())

	l.Clear(ctx)
	assert.True(t, l.Subtotal().IsZero())
}

func TestSaveFailureIsSwallowed(t *testing.T) {
	var failures []string
	store := &recordingStorage{saveErr: errors.New("disk full")}
	l := newLedger(store, WithFailureHook(func(op string, _ error) { failures = append(failures, op) }))

	require.NoError(t, l.Add(context.Background(), jacket(), 1))

	assert.Equal(t, 1, l.TotalItemCount())
	assert.Equal(t, []string{"save"}, failures)
}

func TestRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := &recordingStorage{}
	l := newLedger(store)
	require.NoError(t, l.Add(ctx, jacket(), 2))
	require.NoError(t, l.Add(ctx, necklace(), 1))
	require.NoError(t, l.SelectSize(ctx, jacket(), "L"))

	restored := newLedger(store)
	restored.Load(ctx)

	want, got := l.Lines(), restored.Lines()
	require.Len(t, got, len(want))
	for i := range want {
		assert.Equal(t, want[i].ProductID, got[i].ProductID)
		assert.Equal(t, want[i].Quantity, got[i].Quantity)
		assert.Equal(t, want[i].SelectedSize, got[i].SelectedSize)
		assert.Equal(t, want[i].SelectedColor, got[i].SelectedColor)
		assert.True(t, want[i].UnitPrice.Equal(got[i].UnitPrice))
		assert.True(t, want[i].AddedAt.Equal(got[i].AddedAt))
	}
}

func TestRestoreSkipsMalformedEntries(t *testing.T) {
	data := []byte(`[
		{"id": 1, "title": "Cowboy Like Me", "price": 250, "salePrice": 225, "quantity": 2, "selectedSize": null, "selectedColor": "Blue"},
		{"id": "3", "unitPrice": "90.5", "quantity": 0},
		{"title": "no id", "quantity": 1},
		"garbage",
		{"id": {"nested": true}, "quantity": 1},
		{"id": "1", "quantity": 1}
	]`)
	l := newLedger(nil)
	require.NoError(t, l.Restore(data))

	lines := l.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, "1", lines[0].ProductID)
	assert.Equal(t, 3, lines[0].Quantity)
	assert.True(t, lines[0].UnitPrice.Equal(decimal.NewFromInt(225)))
}

func TestRestoreCorruptDocument(t *testing.T) {
	l := newLedger(nil)
	require.NoError(t, l.Add(context.Background(), jacket(), 1))

	assert.ErrorIs(t, l.Restore([]byte(`{"id": 1}`)), ErrCorrupt)
	assert.Zero(t, l.DistinctCount())
}

func TestLoadTreatsFailuresAsEmptyCart(t *testing.T) {
	tests := map[string]*recordingStorage{
		"absent":   {},
		"corrupt":  {data: []byte(`not json`)},
		"readFail": {loadErr: errors.New("connection reset")},
	}
	for name, store := range tests {
		t.Run(name, func(t *testing.T) {
			l := newLedger(store)
			l.Load(context.Background())
			assert.Zero(t, l.DistinctCount())
		})
	}
}
