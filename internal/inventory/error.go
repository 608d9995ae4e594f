package inventory

import "errors"

var (
	ErrLevelNotFound     = errors.New("inventory level not found")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrNegativeStock     = errors.New("stock cannot go negative")
)
