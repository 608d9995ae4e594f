package coupon

import "errors"

var (
	ErrCouponNotFound    = errors.New("coupon not found")
	ErrCouponInactive    = errors.New("coupon is not active")
	ErrCouponNotYetValid = errors.New("coupon is not yet valid")
	ErrCouponExpired     = errors.New("coupon has expired")
	ErrCouponExhausted   = errors.New("coupon usage limit reached")
	ErrMinPurchaseNotMet = errors.New("order subtotal below coupon minimum")
	ErrDuplicateCode     = errors.New("coupon code already exists")
	ErrNoFieldsToSet     = errors.New("no fields to update")
)
