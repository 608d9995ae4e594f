package checkout

import (
	"context"
	"fmt"
	"strings"
	"time"

	"dukani-be/internal/coupon"
	"dukani-be/internal/logger"
	"dukani-be/internal/metrics"
	"dukani-be/internal/money"
	"dukani-be/internal/order"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Flat delivery fee and VAT applied once an address is attached.
const (
	standardShipping money.Cents = 1000000 // UGX 10,000.00
	vatRatePercent               = 18
)

// AddressProvider resolves a user-owned address into the order's shipping
// shape. Satisfied by the address service.
type AddressProvider interface {
	GetForUser(ctx context.Context, addressID string, userID uint) (*order.Address, error)
}

// Coupons is the slice of the coupon service a checkout needs.
type Coupons interface {
	Apply(ctx context.Context, code string, subtotal, shipping money.Cents) (*coupon.Applied, error)
	Redeem(ctx context.Context, code string) error
}

// Publisher broadcasts a completed checkout. Nil disables publishing.
type Publisher interface {
	OrderCreated(ctx context.Context, o *order.Order)
}

type Service interface {
	GetCart(ctx context.Context, userID uint) ([]CartItem, error)
	AddToCart(ctx context.Context, userID uint, input AddItemInput) (*CartItem, error)
	SetQuantity(ctx context.Context, userID uint, productID string, qty int) error
	RemoveFromCart(ctx context.Context, userID uint, productID string) error
	ClearCart(ctx context.Context, userID uint) error

	Start(ctx context.Context, userID uint) (*Session, error)
	GetSession(ctx context.Context, userID uint, sessionID string) (*Session, error)
	AttachAddress(ctx context.Context, userID uint, sessionID, addressID string) (*Session, error)
	ApplyCoupon(ctx context.Context, userID uint, sessionID, code string) (*Session, error)
	Confirm(ctx context.Context, userID uint, sessionID string) (*order.Order, error)
	Cancel(ctx context.Context, userID uint, sessionID string) error
}

type service struct {
	repo      Repository
	addresses AddressProvider
	coupons   Coupons
	publisher Publisher
	now       func() time.Time
}

func NewService(repo Repository, addresses AddressProvider, coupons Coupons, publisher Publisher) Service {
	return &service{
		repo:      repo,
		addresses: addresses,
		coupons:   coupons,
		publisher: publisher,
		now:       time.Now,
	}
}

func (s *service) GetCart(ctx context.Context, userID uint) ([]CartItem, error) {
	return s.repo.GetCart(ctx, userID)
}

func (s *service) AddToCart(ctx context.Context, userID uint, input AddItemInput) (*CartItem, error) {
	return s.repo.AddCartItem(ctx, userID, input.ProductID, input.Quantity)
}

func (s *service) SetQuantity(ctx context.Context, userID uint, productID string, qty int) error {
	return s.repo.SetCartQuantity(ctx, userID, productID, qty)
}

func (s *service) RemoveFromCart(ctx context.Context, userID uint, productID string) error {
	return s.repo.RemoveCartItem(ctx, userID, productID)
}

func (s *service) ClearCart(ctx context.Context, userID uint) error {
	return s.repo.ClearCart(ctx, userID)
}

// Start snapshots the cart into a pending session, pricing every line at
// the current catalog price and reserving stock for the session TTL.
func (s *service) Start(ctx context.Context, userID uint) (*Session, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "StartCheckout"),
		zap.Uint("user_id", userID),
	)

	cart, err := s.repo.GetCart(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(cart) == 0 {
		return nil, ErrCartEmpty
	}

	now := s.now()
	session := &Session{
		ID:        uuid.New(),
		UserID:    userID,
		Status:    SessionPending,
		ExpiresAt: now.Add(SessionTTL),
		CreatedAt: now,
		Currency:  "UGX",
	}

	for _, line := range cart {
		session.Items = append(session.Items, SessionItem{
			ID:          uuid.New(),
			SessionID:   session.ID,
			ProductID:   line.ProductID,
			ProductName: line.ProductName,
			SKU:         line.SKU,
			ImageURL:    line.ImageURL,
			Quantity:    line.Quantity,
			Price:       line.Price,
			Subtotal:    line.LineTotal(),
		})
	}
	session.Recalculate()

	if err := s.repo.CreateSession(ctx, session); err != nil {
		return nil, err
	}

	log.Info("checkout session started",
		zap.String("session_id", session.ID.String()),
		zap.Int("items", len(session.Items)),
		zap.Int64("subtotal", int64(session.Subtotal)),
	)
	return session, nil
}

func (s *service) GetSession(ctx context.Context, userID uint, sessionID string) (*Session, error) {
	id, err := uuid.Parse(sessionID)
	if err != nil {
		return nil, ErrSessionNotFound
	}

	session, err := s.repo.GetSession(ctx, id)
	if err != nil {
		return nil, err
	}
	if session.UserID != userID {
		return nil, order.ErrUnauthorized
	}

	if session.ExpiredAt(s.now()) {
		if relErr := s.repo.ReleaseSession(ctx, session.ID, SessionExpired); relErr != nil {
			logger.FromCtx(ctx).Warn("failed to expire session",
				zap.String("session_id", session.ID.String()),
				zap.Error(relErr),
			)
		}
		session.Status = SessionExpired
	}

	return session, nil
}

// AttachAddress binds a delivery address and completes server-side pricing:
// shipping fee and VAT land here, and any applied coupon is re-evaluated
// against the final figures.
func (s *service) AttachAddress(ctx context.Context, userID uint, sessionID, addressID string) (*Session, error) {
	session, err := s.pendingSession(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}

	// ownership check; the address itself is re-read at confirm time
	if _, err := s.addresses.GetForUser(ctx, addressID, userID); err != nil {
		return nil, err
	}

	addrID, err := uuid.Parse(addressID)
	if err != nil {
		return nil, fmt.Errorf("invalid address id: %w", err)
	}

	session.AddressID = &addrID
	session.Shipping = standardShipping
	session.Tax = session.Subtotal * vatRatePercent / 100

	if session.CouponCode != nil {
		applied, err := s.coupons.Apply(ctx, *session.CouponCode, session.Subtotal, session.Shipping)
		if err != nil {
			// price drift can invalidate a previously valid coupon
			session.CouponCode = nil
			session.Discount = 0
		} else {
			session.Discount = applied.Discount
		}
	}

	session.Recalculate()

	if err := s.repo.UpdateSessionPricing(ctx, session); err != nil {
		return nil, err
	}

	return session, nil
}

func (s *service) ApplyCoupon(ctx context.Context, userID uint, sessionID, code string) (*Session, error) {
	session, err := s.pendingSession(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}

	applied, err := s.coupons.Apply(ctx, code, session.Subtotal, session.Shipping)
	if err != nil {
		return nil, err
	}

	normalized := strings.ToUpper(strings.TrimSpace(code))
	session.CouponCode = &normalized
	session.Discount = applied.Discount
	session.Recalculate()

	if err := s.repo.UpdateSessionPricing(ctx, session); err != nil {
		return nil, err
	}

	return session, nil
}

// Confirm converts the session into an order. Calling it twice returns the
// already-created order instead of a duplicate.
func (s *service) Confirm(ctx context.Context, userID uint, sessionID string) (*order.Order, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "ConfirmCheckout"),
		zap.String("session_id", sessionID),
	)

	id, err := uuid.Parse(sessionID)
	if err != nil {
		return nil, ErrSessionNotFound
	}

	if existing, err := s.repo.GetOrderBySession(ctx, id); err != nil {
		return nil, err
	} else if existing != nil {
		if existing.UserID == nil || *existing.UserID != userID {
			return nil, order.ErrUnauthorized
		}
		log.Info("confirm replay, returning existing order",
			zap.String("order_number", existing.OrderNumber),
		)
		return existing, nil
	}

	session, err := s.pendingSession(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}
	if session.AddressID == nil {
		return nil, ErrAddressRequired
	}

	addr, err := s.addresses.GetForUser(ctx, session.AddressID.String(), userID)
	if err != nil {
		return nil, err
	}

	o := &order.Order{
		OrderNumber:           generateOrderNumber(s.now()),
		UserID:                &userID,
		Status:                order.StatusPending,
		PaymentStatus:         order.PaymentPaid,
		Subtotal:              session.Subtotal,
		Shipping:              session.Shipping,
		Tax:                   session.Tax,
		Discount:              session.Discount,
		Total:                 session.Total,
		ShippingAddress:       *addr,
		BillingAddress:        *addr,
		BillingSameAsShipping: true,
	}
	for _, item := range session.Items {
		o.Items = append(o.Items, order.OrderItem{
			ProductID: item.ProductID,
			Name:      item.ProductName,
			SKU:       item.SKU,
			Price:     item.Price,
			Quantity:  item.Quantity,
		})
	}

	if err := s.repo.ConfirmTx(ctx, session, o); err != nil {
		return nil, err
	}

	if session.CouponCode != nil {
		if err := s.coupons.Redeem(ctx, *session.CouponCode); err != nil {
			// order already exists; a failed counter bump is log-only
			log.Warn("coupon redemption failed after order creation",
				zap.String("code", *session.CouponCode),
				zap.Error(err),
			)
		}
	}

	metrics.OrdersCreatedTotal.Inc()
	if s.publisher != nil {
		s.publisher.OrderCreated(ctx, o)
	}

	log.Info("checkout confirmed",
		zap.String("order_number", o.OrderNumber),
		zap.Int64("total", int64(o.Total)),
	)
	return o, nil
}

func (s *service) Cancel(ctx context.Context, userID uint, sessionID string) error {
	id, err := uuid.Parse(sessionID)
	if err != nil {
		return ErrSessionNotFound
	}

	session, err := s.repo.GetSession(ctx, id)
	if err != nil {
		return err
	}
	if session.UserID != userID {
		return order.ErrUnauthorized
	}

	return s.repo.ReleaseSession(ctx, id, SessionCancelled)
}

// pendingSession loads a session and enforces the owner and the
// pending+unexpired gate shared by every mutating call.
func (s *service) pendingSession(ctx context.Context, userID uint, sessionID string) (*Session, error) {
	id, err := uuid.Parse(sessionID)
	if err != nil {
		return nil, ErrSessionNotFound
	}

	session, err := s.repo.GetSession(ctx, id)
	if err != nil {
		return nil, err
	}
	if session.UserID != userID {
		return nil, order.ErrUnauthorized
	}
	if session.ExpiredAt(s.now()) {
		if relErr := s.repo.ReleaseSession(ctx, session.ID, SessionExpired); relErr != nil {
			logger.FromCtx(ctx).Warn("failed to expire session",
				zap.String("session_id", session.ID.String()),
				zap.Error(relErr),
			)
		}
		return nil, ErrSessionExpired
	}
	if session.Status != SessionPending {
		return nil, ErrSessionNotPending
	}

	return session, nil
}

func generateOrderNumber(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", ""))[:8]
	return fmt.Sprintf("ORD-%s-%s", now.Format("20060102"), suffix)
}
