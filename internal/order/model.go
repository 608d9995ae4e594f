package order

import (
	"time"

	"dukani-be/internal/money"
)

type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusShipped    Status = "shipped"
	StatusDelivered  Status = "delivered"
	StatusCancelled  Status = "cancelled"
	StatusRefunded   Status = "refunded"
)

// PaymentStatus tracks money independently of fulfilment. The two enums are
// deliberately uncoupled; nothing derives one from the other.
type PaymentStatus string

const (
	PaymentPending           PaymentStatus = "pending"
	PaymentPaid              PaymentStatus = "paid"
	PaymentFailed            PaymentStatus = "failed"
	PaymentRefunded          PaymentStatus = "refunded"
	PaymentPartiallyRefunded PaymentStatus = "partially_refunded"
)

type Address struct {
	FullName   string  `json:"full_name"`
	Phone      string  `json:"phone"`
	Line1      string  `json:"line1"`
	Line2      *string `json:"line2,omitempty"`
	City       string  `json:"city"`
	Region     string  `json:"region"`
	PostalCode string  `json:"postal_code"`
	Country    string  `json:"country"`
}

type OrderItem struct {
	ID        uint        `json:"id"`
	OrderID   uint        `json:"order_id"`
	ProductID string      `json:"product_id"`
	Name      string      `json:"name"`
	Price     money.Cents `json:"price"`
	Quantity  int         `json:"quantity"`
	SKU       string      `json:"sku"`
}

type Order struct {
	ID          uint   `json:"id"`
	OrderNumber string `json:"order_number"`
	UserID      *uint  `json:"user_id,omitempty"`

	Status        Status        `json:"status"`
	PaymentStatus PaymentStatus `json:"payment_status"`

	// Items keep display order; the sequence carries no other meaning.
	Items []OrderItem `json:"items"`

	Subtotal money.Cents `json:"subtotal"`
	Shipping money.Cents `json:"shipping"`
	Tax      money.Cents `json:"tax"`
	Discount money.Cents `json:"discount"`
	Total    money.Cents `json:"total"`

	ShippingAddress Address `json:"shipping_address"`
	// BillingAddress equals ShippingAddress when BillingSameAsShipping is
	// set; the alias is a flag, not a referential constraint.
	BillingAddress        Address `json:"billing_address"`
	BillingSameAsShipping bool    `json:"billing_same_as_shipping"`

	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	ShippedAt   *time.Time `json:"shipped_at,omitempty"`
	DeliveredAt *time.Time `json:"delivered_at,omitempty"`
	CancelledAt *time.Time `json:"cancelled_at,omitempty"`
	PaidAt      *time.Time `json:"paid_at,omitempty"`
}

type SortField string

const (
	SortFieldCreatedAt SortField = "created_at"
	SortFieldTotal     SortField = "total"
)

type SortDirection string

const (
	SortAsc  SortDirection = "ASC"
	SortDesc SortDirection = "DESC"
)

type FilterInput struct {
	Search        *string
	Status        *Status
	PaymentStatus *PaymentStatus
	DateFrom      *time.Time
	DateTo        *time.Time
}

type SortInput struct {
	Field     SortField
	Direction SortDirection
}
