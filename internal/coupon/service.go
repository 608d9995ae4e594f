package coupon

import (
	"context"
	"errors"
	"strings"
	"time"

	"dukani-be/internal/logger"
	"dukani-be/internal/metrics"
	"dukani-be/internal/money"
	"dukani-be/internal/selector"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Applied is the outcome of validating a coupon against an order draft.
type Applied struct {
	Coupon   *Coupon     `json:"coupon"`
	Discount money.Cents `json:"discount"`
}

type ListFilter struct {
	Query  string
	Type   Type
	Active *bool
}

type Service interface {
	Create(ctx context.Context, input NewCoupon) (*Coupon, error)
	Update(ctx context.Context, input UpdateCoupon) (*Coupon, error)
	Delete(ctx context.Context, id string) error
	Get(ctx context.Context, id string) (*Coupon, error)
	List(ctx context.Context, filter ListFilter) ([]Coupon, error)
	Apply(ctx context.Context, code string, subtotal, shipping money.Cents) (*Applied, error)
	Redeem(ctx context.Context, code string) error
}

type service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) Service {
	return &service{repo: repo, now: time.Now}
}

func (s *service) Create(ctx context.Context, input NewCoupon) (*Coupon, error) {
	if !ValidType(input.Type) {
		return nil, errors.New("invalid coupon type")
	}
	if input.Type == TypePercentage && (input.Value <= 0 || input.Value > 100) {
		return nil, errors.New("percentage value must be between 1 and 100")
	}

	validFrom := s.now()
	if input.ValidFrom != nil {
		validFrom = *input.ValidFrom
	}
	if input.ValidUntil != nil && input.ValidUntil.Before(validFrom) {
		return nil, errors.New("valid_until precedes valid_from")
	}

	c := &Coupon{
		ID:          uuid.New().String(),
		Code:        strings.ToUpper(strings.TrimSpace(input.Code)),
		Type:        input.Type,
		Value:       input.Value,
		MinPurchase: input.MinPurchase,
		UsageLimit:  input.UsageLimit,
		ValidFrom:   validFrom,
		ValidUntil:  input.ValidUntil,
		Active:      true,
	}

	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}

	logger.FromCtx(ctx).Info("coupon created",
		zap.String("coupon_id", c.ID),
		zap.String("code", c.Code),
		zap.String("type", string(c.Type)),
	)
	return c, nil
}

func (s *service) Update(ctx context.Context, input UpdateCoupon) (*Coupon, error) {
	if !input.HasAnyField() {
		return nil, ErrNoFieldsToSet
	}
	return s.repo.Update(ctx, input)
}

func (s *service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

func (s *service) Get(ctx context.Context, id string) (*Coupon, error) {
	return s.repo.GetByID(ctx, id)
}

// List fetches all coupons and narrows them in memory; the admin table
// is small enough that filtering stays out of SQL.
func (s *service) List(ctx context.Context, filter ListFilter) ([]Coupon, error) {
	coupons, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	preds := []selector.Predicate[Coupon]{
		selector.Equals(func(c Coupon) string { return string(c.Type) }, string(filter.Type)),
	}
	if filter.Active != nil {
		want := *filter.Active
		preds = append(preds, func(c Coupon) bool { return c.Active == want })
	}

	return selector.Apply(coupons, filter.Query, func(c Coupon) []string {
		return []string{c.Code}
	}, preds...), nil
}

func (s *service) Apply(ctx context.Context, code string, subtotal, shipping money.Cents) (*Applied, error) {
	c, err := s.repo.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	if err := c.Usable(s.now(), subtotal); err != nil {
		return nil, err
	}

	return &Applied{Coupon: c, Discount: c.Discount(subtotal, shipping)}, nil
}

func (s *service) Redeem(ctx context.Context, code string) error {
	if err := s.repo.Redeem(ctx, code); err != nil {
		return err
	}

	metrics.CouponRedemptionsTotal.Inc()
	logger.FromCtx(ctx).Info("coupon redeemed", zap.String("code", code))
	return nil
}
