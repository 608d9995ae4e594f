package returns

import (
	"context"
	"errors"
	"strings"

	"dukani-be/internal/logger"
	"dukani-be/internal/metrics"
	"dukani-be/internal/money"
	"dukani-be/internal/selector"

	"go.uber.org/zap"
)

// OrderRefunds is the slice of the order service the returns flow needs:
// booking a completed refund against the parent order's payment status.
type OrderRefunds interface {
	RecordRefund(ctx context.Context, orderID uint, amount money.Cents) error
}

type ListFilter struct {
	Search string
	Status string
}

type Service interface {
	Create(ctx context.Context, input CreateInput) (*Return, error)
	Get(ctx context.Context, id uint) (*Return, error)
	List(ctx context.Context, filter ListFilter) ([]*Return, error)
	Approve(ctx context.Context, id uint) (*Return, error)
	Reject(ctx context.Context, id uint, reason string) (*Return, error)
	Complete(ctx context.Context, id uint, refundStatus string) (*Return, error)
}

type service struct {
	repo   Repository
	orders OrderRefunds
}

func NewService(repo Repository, orders OrderRefunds) Service {
	return &service{repo: repo, orders: orders}
}

func (s *service) Create(ctx context.Context, input CreateInput) (*Return, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "CreateReturn"),
		zap.Uint("order_id", input.OrderID),
	)

	if strings.TrimSpace(input.Reason) == "" {
		return nil, errors.New("return reason cannot be empty")
	}
	if input.RefundAmount < 0 {
		return nil, errors.New("refund amount cannot be negative")
	}

	ret := &Return{
		OrderID:      input.OrderID,
		Status:       StatusPending,
		RefundStatus: "not_refunded",
		RefundAmount: input.RefundAmount,
		Reason:       strings.TrimSpace(input.Reason),
	}

	if err := s.repo.Create(ctx, ret); err != nil {
		log.Error("failed to create return", zap.Error(err))
		return nil, err
	}

	log.Info("return created",
		zap.Uint("return_id", ret.ID),
		zap.String("refund_amount", ret.RefundDisplay()),
	)
	return ret, nil
}

func (s *service) Get(ctx context.Context, id uint) (*Return, error) {
	return s.repo.GetByID(ctx, id)
}

// List loads the full table and filters in memory with the pure selector;
// the same filter applied twice yields the same rows.
func (s *service) List(ctx context.Context, filter ListFilter) ([]*Return, error) {
	all, err := s.repo.FetchAll(ctx)
	if err != nil {
		return nil, err
	}

	return selector.Apply(all, filter.Search,
		func(r *Return) []string { return []string{r.OrderNumber, r.Reason, r.RefundStatus} },
		selector.Equals(func(r *Return) string { return string(r.Status) }, filter.Status),
	), nil
}

func (s *service) Approve(ctx context.Context, id uint) (*Return, error) {
	return s.resolve(ctx, id, StatusPending, StatusApproved, nil, ErrNotPending)
}

func (s *service) Reject(ctx context.Context, id uint, reason string) (*Return, error) {
	var refundStatus *string
	if reason != "" {
		rs := "rejected: " + reason
		refundStatus = &rs
	}
	return s.resolve(ctx, id, StatusPending, StatusRejected, refundStatus, ErrNotPending)
}

// Complete books the refund on the parent order and closes the return.
func (s *service) Complete(ctx context.Context, id uint, refundStatus string) (*Return, error) {
	if refundStatus == "" {
		refundStatus = "refunded"
	}

	ret, err := s.resolve(ctx, id, StatusApproved, StatusCompleted, &refundStatus, ErrNotApproved)
	if err != nil {
		return nil, err
	}

	if err := s.orders.RecordRefund(ctx, ret.OrderID, ret.RefundAmount); err != nil {
		// The return is already completed; surface the bookkeeping
		// failure instead of masking it.
		logger.FromCtx(ctx).Error("failed to record refund on order",
			zap.Uint("order_id", ret.OrderID),
			zap.Error(err),
		)
		metrics.OperationErrorsTotal.WithLabelValues("return_refund_booking").Inc()
		return nil, err
	}

	metrics.ReturnsCompletedTotal.Inc()
	return ret, nil
}

func (s *service) resolve(ctx context.Context, id uint, from, to Status, refundStatus *string, stateErr error) (*Return, error) {
	ret, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if ret.Status != from {
		return nil, stateErr
	}

	if err := s.repo.UpdateStatus(ctx, id, from, to, refundStatus); err != nil {
		return nil, err
	}

	ret.Status = to
	if refundStatus != nil {
		ret.RefundStatus = *refundStatus
	}

	logger.FromCtx(ctx).Info("return resolved",
		zap.Uint("return_id", id),
		zap.String("status", string(to)),
	)
	return ret, nil
}
