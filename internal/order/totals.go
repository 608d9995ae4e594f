package order

import "dukani-be/internal/money"

// Subtotal is the exact sum of price times quantity over the line items.
func Subtotal(items []OrderItem) money.Cents {
	var sum money.Cents
	for _, item := range items {
		sum += item.Price * money.Cents(item.Quantity)
	}
	return sum
}

// Totals derives subtotal and total from the line items and the editable
// charge fields. total = subtotal + shipping + tax - discount. Nothing is
// clamped: a discount larger than the rest drives the total negative, which
// is surfaced to the operator rather than silently corrected.
func Totals(items []OrderItem, shipping, tax, discount money.Cents) (subtotal, total money.Cents) {
	subtotal = Subtotal(items)
	total = subtotal + shipping + tax - discount
	return subtotal, total
}

// Recalculate refreshes the derived fields after any item or charge edit.
// Every mutation site goes through here so the invariant holds in one place.
func (o *Order) Recalculate() {
	o.Subtotal, o.Total = Totals(o.Items, o.Shipping, o.Tax, o.Discount)
}
