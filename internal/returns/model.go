package returns

import (
	"time"

	"dukani-be/internal/money"
)

// Status is the return's own lifecycle, independent of the order status.
// An order in any status can spawn a return.
type Status string

const (
	StatusPending   Status = "pending"
	StatusApproved  Status = "approved"
	StatusCompleted Status = "completed"
	StatusRejected  Status = "rejected"
)

type Return struct {
	ID          uint   `json:"id"`
	OrderID     uint   `json:"order_id"`
	OrderNumber string `json:"order_number"`

	Status Status `json:"status"`
	// RefundStatus is operator-entered free text; nothing derives it from
	// Status.
	RefundStatus string      `json:"refund_status"`
	RefundAmount money.Cents `json:"refund_amount_cents"`

	Reason string `json:"reason"`

	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
	ResolvedAt *time.Time `json:"resolved_at,omitempty"`
}

// RefundDisplay renders the refund amount for admin screens.
func (r *Return) RefundDisplay() string {
	return money.FormatUGX(r.RefundAmount)
}

type CreateInput struct {
	OrderID      uint        `json:"order_id" validate:"required"`
	Reason       string      `json:"reason" validate:"required"`
	RefundAmount money.Cents `json:"refund_amount_cents" validate:"gte=0"`
}
