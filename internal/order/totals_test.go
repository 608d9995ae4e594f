package order

import (
	"testing"

	"dukani-be/internal/money"

	"github.com/stretchr/testify/assert"
)

func TestSubtotal(t *testing.T) {
	t.Run("SumOfPriceTimesQuantity", func(t *testing.T) {
		items := []OrderItem{
			{Price: 150000, Quantity: 2},
			{Price: 8950, Quantity: 3},
		}
		assert.Equal(t, money.Cents(326850), Subtotal(items))
	})

	t.Run("Empty", func(t *testing.T) {
		assert.Equal(t, money.Cents(0), Subtotal(nil))
	})

	t.Run("ZeroQuantity", func(t *testing.T) {
		assert.Equal(t, money.Cents(0), Subtotal([]OrderItem{{Price: 999, Quantity: 0}}))
	})
}

func TestTotals(t *testing.T) {
	items := []OrderItem{{Price: 10000, Quantity: 1}}

	t.Run("Formula", func(t *testing.T) {
		subtotal, total := Totals(items, 2000, 1800, 500)
		assert.Equal(t, money.Cents(10000), subtotal)
		assert.Equal(t, money.Cents(13300), total)
	})

	t.Run("DiscountExceedsRest_NoClamp", func(t *testing.T) {
		// negative totals are permitted, not silently corrected
		_, total := Totals(items, 0, 0, 15000)
		assert.Equal(t, money.Cents(-5000), total)
	})

	t.Run("NoItems", func(t *testing.T) {
		subtotal, total := Totals(nil, 500, 0, 0)
		assert.Equal(t, money.Cents(0), subtotal)
		assert.Equal(t, money.Cents(500), total)
	})
}

func TestOrder_Recalculate(t *testing.T) {
	o := &Order{
		Items: []OrderItem{
			{Price: 4500, Quantity: 2},
			{Price: 1000, Quantity: 1},
		},
		Shipping: 3000,
		Tax:      1000,
		Discount: 500,
	}

	o.Recalculate()
	assert.Equal(t, money.Cents(10000), o.Subtotal)
	assert.Equal(t, money.Cents(13500), o.Total)

	// editing an item and recalculating keeps the invariant
	o.Items[0].Quantity = 3
	o.Recalculate()
	assert.Equal(t, money.Cents(14500), o.Subtotal)
	assert.Equal(t, o.Subtotal+o.Shipping+o.Tax-o.Discount, o.Total)
}
