package inventory

import "time"

// Level is the stock record for one product. Available stock is what a
// storefront can still sell: on-hand minus units held by open checkouts.
type Level struct {
	ProductID string    `json:"productId"`
	InStock   int       `json:"inStock"`
	Reserved  int       `json:"reserved"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (l Level) Available() int {
	return l.InStock - l.Reserved
}

type AdjustInput struct {
	ProductID string `json:"productId" validate:"required,uuid4"`
	Delta     int    `json:"delta" validate:"required"`
}
