package cart

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DRSN-tech/storefront/internal/domain"
	"github.com/DRSN-tech/storefront/pkg/e"
	"github.com/DRSN-tech/storefront/pkg/logger"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var scarf = domain.Product{
	ID:        "7f8c9a52-8d0e-4d44-b1a4-8b0a4f3f1a10",
	Name:      "Silk Scarf",
	Price:     decimal.RequireFromString("120"),
	Category:  "Accessories",
	SKU:       "ACC-1",
	Inventory: 5,
	Sizes:     []string{"S", "M"},
	Colors:    []string{"Red"},
	Images:    []string{"scarf.jpg"},
	Active:    true,
	CreatedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
}

type failingStorage struct {
	*MemoryStorage
	err error
}

func (s *failingStorage) Save(context.Context, string, []byte) error {
	return s.err
}

func open(t *testing.T, storage Storage) *Manager {
	t.Helper()
	m, err := Open(context.Background(), storage, "cart:test", logger.NewDiscardLogger())
	require.NoError(t, err)
	return m
}

func TestManager_AddSameVariantMerges(t *testing.T) {
	ctx := context.Background()
	m := open(t, NewMemoryStorage())

	first, err := m.AddItem(ctx, scarf, 2, "M", "Red")
	require.NoError(t, err)
	second, err := m.AddItem(ctx, scarf, 3, "M", "Red")
	require.NoError(t, err)

	lines := m.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 5, lines[0].Quantity)
}

func TestManager_TotalsAcrossSizes(t *testing.T) {
	ctx := context.Background()
	m := open(t, NewMemoryStorage())

	_, err := m.AddItem(ctx, scarf, 2, "S", "")
	require.NoError(t, err)
	_, err = m.AddItem(ctx, scarf, 3, "M", "")
	require.NoError(t, err)

	assert.Len(t, m.Lines(), 2)
	assert.Equal(t, 5, m.TotalItems())
	assert.True(t, m.TotalPrice().Equal(decimal.NewFromInt(600)))
}

func TestManager_UpdateQuantity(t *testing.T) {
	ctx := context.Background()
	m := open(t, NewMemoryStorage())

	line, err := m.AddItem(ctx, scarf, 2, "S", "")
	require.NoError(t, err)
	other, err := m.AddItem(ctx, scarf, 1, "M", "")
	require.NoError(t, err)

	require.NoError(t, m.UpdateQuantity(ctx, line.ID, 7))
	assert.Equal(t, 8, m.TotalItems())

	require.NoError(t, m.UpdateQuantity(ctx, line.ID, 0))
	assert.Equal(t, 1, m.TotalItems())
	require.Len(t, m.Lines(), 1)
	assert.Equal(t, other.ID, m.Lines()[0].ID)

	err = m.UpdateQuantity(ctx, "missing", 2)
	assert.True(t, errors.Is(err, e.ErrCartLineNotFound))
}

func TestManager_RemoveAndClear(t *testing.T) {
	ctx := context.Background()
	m := open(t, NewMemoryStorage())

	line, err := m.AddItem(ctx, scarf, 1, "", "")
	require.NoError(t, err)
	_, err = m.AddItem(ctx, scarf, 1, "S", "")
	require.NoError(t, err)

	require.NoError(t, m.RemoveItem(ctx, "missing"))
	assert.Len(t, m.Lines(), 2)

	require.NoError(t, m.RemoveItem(ctx, line.ID))
	assert.Len(t, m.Lines(), 1)

	require.NoError(t, m.Clear(ctx))
	assert.Empty(t, m.Lines())
	assert.Equal(t, 0, m.TotalItems())
	assert.True(t, m.TotalPrice().IsZero())
}

func TestManager_AddValidation(t *testing.T) {
	ctx := context.Background()
	m := open(t, NewMemoryStorage())

	_, err := m.AddItem(ctx, scarf, 0, "S", "")
	assert.True(t, errors.Is(err, e.ErrQuantityMustBePositive))

	_, err = m.AddItem(ctx, scarf, 1, "XL", "")
	assert.True(t, errors.Is(err, e.ErrVariantNotOffered))

	_, err = m.AddItem(ctx, scarf, 1, "", "Blue")
	assert.True(t, errors.Is(err, e.ErrVariantNotOffered))
}

func TestManager_RoundTripThroughStorage(t *testing.T) {
	ctx := context.Background()
	storage := NewMemoryStorage()
	m := open(t, storage)

	_, err := m.AddItem(ctx, scarf, 2, "S", "Red")
	require.NoError(t, err)
	_, err = m.AddItem(ctx, scarf, 1, "M", "")
	require.NoError(t, err)

	reopened := open(t, storage)

	assert.Equal(t, m.Lines(), reopened.Lines())
	assert.True(t, m.TotalPrice().Equal(reopened.TotalPrice()))
}

func TestOpen_CorruptOrMissing(t *testing.T) {
	ctx := context.Background()
	storage := NewMemoryStorage()
	require.NoError(t, storage.Save(ctx, "cart:test", []byte("{not json")))

	m := open(t, storage)
	assert.Empty(t, m.Lines())

	empty := open(t, NewMemoryStorage())
	assert.Empty(t, empty.Lines())
	assert.NotNil(t, empty.Lines())
}

func TestManager_FailedSaveKeepsState(t *testing.T) {
	ctx := context.Background()
	storage := &failingStorage{MemoryStorage: NewMemoryStorage(), err: errors.New("redis down")}
	m := open(t, storage)

	_, err := m.AddItem(ctx, scarf, 1, "S", "")

	require.Error(t, err)
	assert.Empty(t, m.Lines())
}

func TestManager_CheckoutItems(t *testing.T) {
	ctx := context.Background()
	m := open(t, NewMemoryStorage())

	_, err := m.AddItem(ctx, scarf, 2, "S", "Red")
	require.NoError(t, err)

	assert.Equal(t, []domain.CheckoutItem{{ProductID: scarf.ID, Quantity: 2, Size: "S", Color: "Red"}}, m.CheckoutItems())
}
