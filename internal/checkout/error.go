package checkout

import "errors"

var (
	ErrCartItemNotFound   = errors.New("cart item not found")
	ErrCartEmpty          = errors.New("cart is empty")
	ErrSessionNotFound    = errors.New("checkout session not found")
	ErrSessionNotPending  = errors.New("checkout session is no longer pending")
	ErrSessionExpired     = errors.New("checkout session has expired")
	ErrInsufficientStock  = errors.New("insufficient stock for checkout")
	ErrAddressRequired    = errors.New("checkout session has no address")
	ErrQuantityNotAllowed = errors.New("quantity must be greater than zero")
)
