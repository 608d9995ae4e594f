package order

import "errors"

var (
	ErrOrderNotFound     = errors.New("order not found")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrInvalidTransition = errors.New("invalid status transition")
	// ErrStaleStatus means another editor changed the status first; the
	// compare-and-set update refused to overwrite their write.
	ErrStaleStatus = errors.New("order status changed concurrently")
)
