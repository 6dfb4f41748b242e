package converter

import (
	"testing"

	"github.com/DRSN-tech/storefront/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestProductConverter(t *testing.T) {
	conv := NewProductConverter()

	model := conv.ToModel(&domain.Product{
		ID:        "p1",
		Price:     decimal.RequireFromString("299.99"),
		Inventory: 10,
		Images:    []string{"a.jpg", "b.jpg"},
	})

	assert.Equal(t, int64(29999), model.Price)
	assert.Equal(t, int32(10), model.Inventory)
	assert.Equal(t, []string{}, model.Sizes)

	entity := conv.ToEntity(model)
	assert.Equal(t, "299.99", entity.Price.String())
	assert.Equal(t, []string{"a.jpg", "b.jpg"}, entity.Images)
}
