package checkout

import (
	"time"

	"dukani-be/internal/money"

	"github.com/google/uuid"
)

// SessionTTL is how long a pending checkout holds its stock reservation.
const SessionTTL = 30 * time.Minute

type CartItem struct {
	ID          string      `json:"id"`
	UserID      uint        `json:"userId"`
	ProductID   string      `json:"productId"`
	ProductName string      `json:"productName"`
	Slug        string      `json:"slug"`
	SKU         string      `json:"sku"`
	ImageURL    *string     `json:"imageUrl,omitempty"`
	Price       money.Cents `json:"price"`
	Quantity    int         `json:"quantity"`
	Available   int         `json:"available"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
}

func (c CartItem) LineTotal() money.Cents {
	return c.Price * money.Cents(c.Quantity)
}

type SessionStatus string

const (
	SessionPending   SessionStatus = "PENDING"
	SessionPaid      SessionStatus = "PAID"
	SessionExpired   SessionStatus = "EXPIRED"
	SessionCancelled SessionStatus = "CANCELLED"
)

type SessionItem struct {
	ID          uuid.UUID   `json:"id"`
	SessionID   uuid.UUID   `json:"sessionId"`
	ProductID   string      `json:"productId"`
	ProductName string      `json:"productName"`
	SKU         string      `json:"sku"`
	ImageURL    *string     `json:"imageUrl,omitempty"`
	Quantity    int         `json:"quantity"`
	Price       money.Cents `json:"price"`
	Subtotal    money.Cents `json:"subtotal"`
}

type Session struct {
	ID          uuid.UUID     `json:"id"`
	UserID      uint          `json:"userId"`
	Status      SessionStatus `json:"status"`
	ExpiresAt   time.Time     `json:"expiresAt"`
	CreatedAt   time.Time     `json:"createdAt"`
	ConfirmedAt *time.Time    `json:"confirmedAt,omitempty"`

	AddressID  *uuid.UUID `json:"addressId,omitempty"`
	CouponCode *string    `json:"couponCode,omitempty"`

	Items []SessionItem `json:"items"`

	// Pricing is server-calculated only; client-sent figures are ignored.
	Subtotal money.Cents `json:"subtotal"`
	Tax      money.Cents `json:"tax"`
	Shipping money.Cents `json:"shipping"`
	Discount money.Cents `json:"discount"`
	Total    money.Cents `json:"total"`
	Currency string      `json:"currency"`
}

func (s *Session) ExpiredAt(now time.Time) bool {
	return s.Status == SessionPending && now.After(s.ExpiresAt)
}

func (s *Session) Recalculate() {
	var subtotal money.Cents
	for _, item := range s.Items {
		subtotal += item.Subtotal
	}
	s.Subtotal = subtotal
	s.Total = subtotal + s.Shipping + s.Tax - s.Discount
}

type AddItemInput struct {
	ProductID string `json:"productId" validate:"required,uuid4"`
	Quantity  int    `json:"quantity" validate:"required,gt=0"`
}
