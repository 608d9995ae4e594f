package coupon

import (
	"time"

	"dukani-be/internal/money"
)

type Type string

const (
	TypePercentage   Type = "percentage"
	TypeFixedAmount  Type = "fixed_amount"
	TypeFreeShipping Type = "free_shipping"
)

func ValidType(t Type) bool {
	switch t {
	case TypePercentage, TypeFixedAmount, TypeFreeShipping:
		return true
	}
	return false
}

type Coupon struct {
	ID          string       `json:"id"`
	Code        string       `json:"code"`
	Type        Type         `json:"type"`
	Value       int64        `json:"value"`
	MinPurchase money.Cents  `json:"minPurchase"`
	UsageLimit  *int         `json:"usageLimit,omitempty"`
	UsedCount   int          `json:"usedCount"`
	ValidFrom   time.Time    `json:"validFrom"`
	ValidUntil  *time.Time   `json:"validUntil,omitempty"`
	Active      bool         `json:"active"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}

// Usable reports whether the coupon can be applied at the given time and
// order subtotal, before any atomic redemption.
func (c *Coupon) Usable(now time.Time, subtotal money.Cents) error {
	if !c.Active {
		return ErrCouponInactive
	}
	if now.Before(c.ValidFrom) {
		return ErrCouponNotYetValid
	}
	if c.ValidUntil != nil && now.After(*c.ValidUntil) {
		return ErrCouponExpired
	}
	if c.UsageLimit != nil && c.UsedCount >= *c.UsageLimit {
		return ErrCouponExhausted
	}
	if subtotal < c.MinPurchase {
		return ErrMinPurchaseNotMet
	}
	return nil
}

// Discount computes what the coupon takes off a given subtotal and
// shipping charge. Fixed discounts never exceed the subtotal; free
// shipping reduces only the shipping charge.
func (c *Coupon) Discount(subtotal, shipping money.Cents) money.Cents {
	switch c.Type {
	case TypePercentage:
		if c.Value <= 0 {
			return 0
		}
		return money.Cents(int64(subtotal) * c.Value / 100)
	case TypeFixedAmount:
		d := money.Cents(c.Value)
		if d > subtotal {
			return subtotal
		}
		if d < 0 {
			return 0
		}
		return d
	case TypeFreeShipping:
		return shipping
	}
	return 0
}

type NewCoupon struct {
	Code        string      `json:"code" validate:"required,min=2,max=64"`
	Type        Type        `json:"type" validate:"required"`
	Value       int64       `json:"value" validate:"gte=0"`
	MinPurchase money.Cents `json:"minPurchase" validate:"gte=0"`
	UsageLimit  *int        `json:"usageLimit" validate:"omitempty,gt=0"`
	ValidFrom   *time.Time  `json:"validFrom"`
	ValidUntil  *time.Time  `json:"validUntil"`
}

type UpdateCoupon struct {
	ID          string       `json:"-"`
	Value       *int64       `json:"value" validate:"omitempty,gte=0"`
	MinPurchase *money.Cents `json:"minPurchase" validate:"omitempty,gte=0"`
	UsageLimit  *int         `json:"usageLimit" validate:"omitempty,gt=0"`
	ValidUntil  *time.Time   `json:"validUntil"`
	Active      *bool        `json:"active"`
}

func (u UpdateCoupon) HasAnyField() bool {
	return u.Value != nil || u.MinPurchase != nil || u.UsageLimit != nil ||
		u.ValidUntil != nil || u.Active != nil
}
