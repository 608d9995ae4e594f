package inventory

import (
	"context"

	"dukani-be/internal/logger"

	"go.uber.org/zap"
)

type Service interface {
	Get(ctx context.Context, productID string) (*Level, error)
	GetMany(ctx context.Context, productIDs []string) (map[string]Level, error)
	Adjust(ctx context.Context, input AdjustInput) (*Level, error)
	Reserve(ctx context.Context, productID string, qty int) error
	Release(ctx context.Context, productID string, qty int) error
	Commit(ctx context.Context, productID string, qty int) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Get(ctx context.Context, productID string) (*Level, error) {
	return s.repo.Get(ctx, productID)
}

func (s *service) GetMany(ctx context.Context, productIDs []string) (map[string]Level, error) {
	return s.repo.GetMany(ctx, productIDs)
}

func (s *service) Adjust(ctx context.Context, input AdjustInput) (*Level, error) {
	l, err := s.repo.Adjust(ctx, input.ProductID, input.Delta)
	if err != nil {
		return nil, err
	}

	logger.FromCtx(ctx).Info("inventory adjusted",
		zap.String("product_id", input.ProductID),
		zap.Int("delta", input.Delta),
		zap.Int("in_stock", l.InStock),
	)
	return l, nil
}

func (s *service) Reserve(ctx context.Context, productID string, qty int) error {
	if qty <= 0 {
		return nil
	}
	return s.repo.Reserve(ctx, productID, qty)
}

func (s *service) Release(ctx context.Context, productID string, qty int) error {
	if qty <= 0 {
		return nil
	}
	return s.repo.Release(ctx, productID, qty)
}

func (s *service) Commit(ctx context.Context, productID string, qty int) error {
	if qty <= 0 {
		return nil
	}
	return s.repo.Commit(ctx, productID, qty)
}
