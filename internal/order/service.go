package order

import (
	"context"
	"time"

	"dukani-be/internal/logger"
	"dukani-be/internal/metrics"
	"dukani-be/internal/money"
	"dukani-be/internal/utils"

	"go.uber.org/zap"
)

// Publisher emits order lifecycle events to the message broker. A nil
// publisher disables publishing.
type Publisher interface {
	StatusChanged(ctx context.Context, o *Order, from Status)
}

type ListResult struct {
	Items      []*Order `json:"items"`
	TotalCount int64    `json:"total_count"`
}

type Service interface {
	List(ctx context.Context, filter *FilterInput, sort *SortInput, limit, page int32) (*ListResult, error)
	Get(ctx context.Context, orderID uint) (*Order, error)
	Transition(ctx context.Context, orderID uint, next Status) (*Order, error)
	SetCharges(ctx context.Context, orderID uint, shipping, tax, discount money.Cents) (*Order, error)
	MarkPaid(ctx context.Context, orderID uint) error
	MarkPaymentFailed(ctx context.Context, orderID uint) error
	RecordRefund(ctx context.Context, orderID uint, amount money.Cents) error
}

type service struct {
	repo      Repository
	publisher Publisher
}

func NewService(repo Repository, publisher Publisher) Service {
	return &service{repo: repo, publisher: publisher}
}

func (s *service) List(ctx context.Context, filter *FilterInput, sort *SortInput, limit, page int32) (*ListResult, error) {
	if limit <= 0 {
		limit = 20
	} else if limit > 100 {
		limit = 100
	}
	if page <= 0 {
		page = 1
	}
	offset := (page - 1) * limit

	orders, err := s.repo.FetchOrders(ctx, filter, sort, limit, offset)
	if err != nil {
		return nil, err
	}

	total, err := s.repo.CountOrders(ctx, filter)
	if err != nil {
		return nil, err
	}

	return &ListResult{Items: orders, TotalCount: total}, nil
}

// Get loads an order with items; users only see their own orders.
func (s *service) Get(ctx context.Context, orderID uint) (*Order, error) {
	o, err := s.repo.GetOrderDetail(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if !utils.IsAdmin(ctx) {
		userID, ok := utils.GetUserIDFromContext(ctx)
		if !ok || o.UserID == nil || *o.UserID != userID {
			return nil, ErrUnauthorized
		}
	}

	return o, nil
}

// Transition moves an order along the fulfilment progression. Illegal
// edges are rejected and the write is compare-and-set against the status
// the caller saw, so two admins racing on the same order cannot clobber
// each other.
func (s *service) Transition(ctx context.Context, orderID uint, next Status) (*Order, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "Transition"),
		zap.Uint("order_id", orderID),
		zap.String("next", string(next)),
	)

	if !ValidStatus(next) {
		return nil, ErrInvalidTransition
	}

	o, err := s.repo.GetOrderDetail(ctx, orderID)
	if err != nil {
		return nil, err
	}

	from := o.Status
	if !CanTransition(from, next) {
		log.Warn("rejected status transition", zap.String("from", string(from)))
		return nil, ErrInvalidTransition
	}

	now := time.Now().UTC()
	if err := s.repo.UpdateStatusCAS(ctx, orderID, from, next, now); err != nil {
		log.Error("failed to update order status", zap.Error(err))
		return nil, err
	}

	o.Status = next
	o.UpdatedAt = now
	switch next {
	case StatusShipped:
		o.ShippedAt = &now
	case StatusDelivered:
		o.DeliveredAt = &now
	case StatusCancelled:
		o.CancelledAt = &now
	}

	metrics.OrderStatusChanges.WithLabelValues(string(next)).Inc()

	if s.publisher != nil {
		s.publisher.StatusChanged(ctx, o, from)
	}

	log.Info("order status updated", zap.String("from", string(from)))
	return o, nil
}

// SetCharges updates the editable numeric fields and recomputes the
// derived totals in the one place that owns the formula.
func (s *service) SetCharges(ctx context.Context, orderID uint, shipping, tax, discount money.Cents) (*Order, error) {
	o, err := s.repo.GetOrderDetail(ctx, orderID)
	if err != nil {
		return nil, err
	}

	o.Shipping = shipping
	o.Tax = tax
	o.Discount = discount
	o.Recalculate()

	if err := s.repo.UpdateCharges(ctx, o); err != nil {
		return nil, err
	}

	logger.FromCtx(ctx).Info("order charges updated",
		zap.Uint("order_id", orderID),
		zap.Int64("subtotal", int64(o.Subtotal)),
		zap.Int64("total", int64(o.Total)),
	)

	return o, nil
}

func (s *service) MarkPaid(ctx context.Context, orderID uint) error {
	now := time.Now().UTC()
	return s.repo.UpdatePaymentStatus(ctx, orderID, PaymentPaid, &now)
}

func (s *service) MarkPaymentFailed(ctx context.Context, orderID uint) error {
	return s.repo.UpdatePaymentStatus(ctx, orderID, PaymentFailed, nil)
}

// RecordRefund books a completed return against the order's payment
// status. Order.Status is left alone: the enums are independent.
func (s *service) RecordRefund(ctx context.Context, orderID uint, amount money.Cents) error {
	o, err := s.repo.GetOrderDetail(ctx, orderID)
	if err != nil {
		return err
	}

	next := RefundTotals(o.Total, amount)
	if err := s.repo.UpdatePaymentStatus(ctx, orderID, next, nil); err != nil {
		return err
	}

	logger.FromCtx(ctx).Info("refund recorded",
		zap.Uint("order_id", orderID),
		zap.Int64("amount", int64(amount)),
		zap.String("payment_status", string(next)),
	)
	return nil
}
