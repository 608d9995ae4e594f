package checkout

import (
	"context"
	"testing"
	"time"

	"dukani-be/internal/coupon"
	"dukani-be/internal/money"
	"dukani-be/internal/order"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) AddCartItem(ctx context.Context, userID uint, productID string, qty int) (*CartItem, error) {
	args := m.Called(ctx, userID, productID, qty)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*CartItem), args.Error(1)
}

func (m *MockRepository) SetCartQuantity(ctx context.Context, userID uint, productID string, qty int) error {
	return m.Called(ctx, userID, productID, qty).Error(0)
}

func (m *MockRepository) RemoveCartItem(ctx context.Context, userID uint, productID string) error {
	return m.Called(ctx, userID, productID).Error(0)
}

func (m *MockRepository) ClearCart(ctx context.Context, userID uint) error {
	return m.Called(ctx, userID).Error(0)
}

func (m *MockRepository) GetCart(ctx context.Context, userID uint) ([]CartItem, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]CartItem), args.Error(1)
}

func (m *MockRepository) CreateSession(ctx context.Context, s *Session) error {
	return m.Called(ctx, s).Error(0)
}

func (m *MockRepository) GetSession(ctx context.Context, id uuid.UUID) (*Session, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Session), args.Error(1)
}

func (m *MockRepository) UpdateSessionPricing(ctx context.Context, s *Session) error {
	return m.Called(ctx, s).Error(0)
}

func (m *MockRepository) ReleaseSession(ctx context.Context, id uuid.UUID, status SessionStatus) error {
	return m.Called(ctx, id, status).Error(0)
}

func (m *MockRepository) ConfirmTx(ctx context.Context, s *Session, o *order.Order) error {
	return m.Called(ctx, s, o).Error(0)
}

func (m *MockRepository) GetOrderBySession(ctx context.Context, sessionID uuid.UUID) (*order.Order, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

type MockAddresses struct {
	mock.Mock
}

func (m *MockAddresses) GetForUser(ctx context.Context, addressID string, userID uint) (*order.Address, error) {
	args := m.Called(ctx, addressID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Address), args.Error(1)
}

type MockCoupons struct {
	mock.Mock
}

func (m *MockCoupons) Apply(ctx context.Context, code string, subtotal, shipping money.Cents) (*coupon.Applied, error) {
	args := m.Called(ctx, code, subtotal, shipping)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*coupon.Applied), args.Error(1)
}

func (m *MockCoupons) Redeem(ctx context.Context, code string) error {
	return m.Called(ctx, code).Error(0)
}

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) OrderCreated(ctx context.Context, o *order.Order) {
	m.Called(ctx, o)
}

func newTestService(repo *MockRepository, addrs *MockAddresses, coupons *MockCoupons, pub *MockPublisher) *service {
	svc := NewService(repo, addrs, coupons, pub).(*service)
	svc.now = func() time.Time { return time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC) }
	return svc
}

func pendingSessionFixture(now time.Time) *Session {
	return &Session{
		ID:        uuid.New(),
		UserID:    7,
		Status:    SessionPending,
		ExpiresAt: now.Add(10 * time.Minute),
		Currency:  "UGX",
		Items: []SessionItem{
			{ProductID: "p1", ProductName: "Gas Cooker", Quantity: 2, Price: 100000, Subtotal: 200000},
		},
		Subtotal: 200000,
		Total:    200000,
	}
}

func TestStart_EmptyCart(t *testing.T) {
	repo := new(MockRepository)
	svc := newTestService(repo, new(MockAddresses), new(MockCoupons), nil)

	repo.On("GetCart", mock.Anything, uint(7)).Return([]CartItem{}, nil)

	_, err := svc.Start(context.Background(), 7)

	assert.ErrorIs(t, err, ErrCartEmpty)
}

func TestStart_PricesFromCart(t *testing.T) {
	repo := new(MockRepository)
	svc := newTestService(repo, new(MockAddresses), new(MockCoupons), nil)

	repo.On("GetCart", mock.Anything, uint(7)).Return([]CartItem{
		{ProductID: "p1", ProductName: "Cooker", Price: 100000, Quantity: 2},
		{ProductID: "p2", ProductName: "Kettle", Price: 50000, Quantity: 1},
	}, nil)
	repo.On("CreateSession", mock.Anything, mock.MatchedBy(func(s *Session) bool {
		return s.Status == SessionPending &&
			s.Subtotal == money.Cents(250000) &&
			s.Total == money.Cents(250000) &&
			len(s.Items) == 2
	})).Return(nil)

	session, err := svc.Start(context.Background(), 7)

	assert.NoError(t, err)
	assert.Equal(t, svc.now().Add(SessionTTL), session.ExpiresAt)
	repo.AssertExpectations(t)
}

func TestAttachAddress_AppliesChargesAndRecalculates(t *testing.T) {
	repo := new(MockRepository)
	addrs := new(MockAddresses)
	svc := newTestService(repo, addrs, new(MockCoupons), nil)

	session := pendingSessionFixture(svc.now())
	addressID := uuid.New().String()

	repo.On("GetSession", mock.Anything, session.ID).Return(session, nil)
	addrs.On("GetForUser", mock.Anything, addressID, uint(7)).Return(&order.Address{City: "Kampala"}, nil)
	repo.On("UpdateSessionPricing", mock.Anything, mock.MatchedBy(func(s *Session) bool {
		wantTax := money.Cents(200000) * vatRatePercent / 100
		return s.Shipping == standardShipping &&
			s.Tax == wantTax &&
			s.Total == s.Subtotal+s.Shipping+s.Tax-s.Discount
	})).Return(nil)

	got, err := svc.AttachAddress(context.Background(), 7, session.ID.String(), addressID)

	assert.NoError(t, err)
	assert.NotNil(t, got.AddressID)
	repo.AssertExpectations(t)
}

func TestApplyCoupon_SetsDiscount(t *testing.T) {
	repo := new(MockRepository)
	coupons := new(MockCoupons)
	svc := newTestService(repo, new(MockAddresses), coupons, nil)

	session := pendingSessionFixture(svc.now())

	repo.On("GetSession", mock.Anything, session.ID).Return(session, nil)
	coupons.On("Apply", mock.Anything, "save10", session.Subtotal, session.Shipping).
		Return(&coupon.Applied{Discount: 20000}, nil)
	repo.On("UpdateSessionPricing", mock.Anything, mock.MatchedBy(func(s *Session) bool {
		return s.Discount == money.Cents(20000) &&
			*s.CouponCode == "SAVE10" &&
			s.Total == money.Cents(180000)
	})).Return(nil)

	_, err := svc.ApplyCoupon(context.Background(), 7, session.ID.String(), "save10")

	assert.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestApplyCoupon_Invalid(t *testing.T) {
	repo := new(MockRepository)
	coupons := new(MockCoupons)
	svc := newTestService(repo, new(MockAddresses), coupons, nil)

	session := pendingSessionFixture(svc.now())
	repo.On("GetSession", mock.Anything, session.ID).Return(session, nil)
	coupons.On("Apply", mock.Anything, "EXPIRED", session.Subtotal, session.Shipping).
		Return(nil, coupon.ErrCouponExpired)

	_, err := svc.ApplyCoupon(context.Background(), 7, session.ID.String(), "EXPIRED")

	assert.ErrorIs(t, err, coupon.ErrCouponExpired)
}

func TestConfirm_Replay(t *testing.T) {
	repo := new(MockRepository)
	svc := newTestService(repo, new(MockAddresses), new(MockCoupons), nil)

	sessionID := uuid.New()
	owner := uint(7)
	existing := &order.Order{OrderNumber: "ORD-20260901-ABCD1234", UserID: &owner}
	repo.On("GetOrderBySession", mock.Anything, sessionID).Return(existing, nil)

	got, err := svc.Confirm(context.Background(), 7, sessionID.String())

	assert.NoError(t, err)
	assert.Equal(t, existing, got)
	repo.AssertNotCalled(t, "ConfirmTx", mock.Anything, mock.Anything, mock.Anything)
}

func TestConfirm_RequiresAddress(t *testing.T) {
	repo := new(MockRepository)
	svc := newTestService(repo, new(MockAddresses), new(MockCoupons), nil)

	session := pendingSessionFixture(svc.now())
	repo.On("GetOrderBySession", mock.Anything, session.ID).Return(nil, nil)
	repo.On("GetSession", mock.Anything, session.ID).Return(session, nil)

	_, err := svc.Confirm(context.Background(), 7, session.ID.String())

	assert.ErrorIs(t, err, ErrAddressRequired)
}

func TestConfirm_CreatesOrderAndPublishes(t *testing.T) {
	repo := new(MockRepository)
	addrs := new(MockAddresses)
	coupons := new(MockCoupons)
	pub := new(MockPublisher)
	svc := newTestService(repo, addrs, coupons, pub)

	session := pendingSessionFixture(svc.now())
	addrID := uuid.New()
	code := "SAVE10"
	session.AddressID = &addrID
	session.CouponCode = &code
	session.Shipping = standardShipping
	session.Recalculate()

	repo.On("GetOrderBySession", mock.Anything, session.ID).Return(nil, nil)
	repo.On("GetSession", mock.Anything, session.ID).Return(session, nil)
	addrs.On("GetForUser", mock.Anything, addrID.String(), uint(7)).
		Return(&order.Address{FullName: "A Tester", City: "Kampala"}, nil)
	repo.On("ConfirmTx", mock.Anything, session, mock.MatchedBy(func(o *order.Order) bool {
		return o.Status == order.StatusPending &&
			o.PaymentStatus == order.PaymentPaid &&
			o.Total == session.Total &&
			o.BillingSameAsShipping &&
			len(o.Items) == 1 &&
			o.OrderNumber != ""
	})).Return(nil)
	coupons.On("Redeem", mock.Anything, "SAVE10").Return(nil)
	pub.On("OrderCreated", mock.Anything, mock.Anything).Return()

	o, err := svc.Confirm(context.Background(), 7, session.ID.String())

	assert.NoError(t, err)
	assert.Equal(t, session.Subtotal, o.Subtotal)
	repo.AssertExpectations(t)
	pub.AssertExpectations(t)
}

func TestPendingSession_Expired(t *testing.T) {
	repo := new(MockRepository)
	svc := newTestService(repo, new(MockAddresses), new(MockCoupons), nil)

	session := pendingSessionFixture(svc.now())
	session.ExpiresAt = svc.now().Add(-time.Minute)

	repo.On("GetSession", mock.Anything, session.ID).Return(session, nil)
	repo.On("ReleaseSession", mock.Anything, session.ID, SessionExpired).Return(nil)

	_, err := svc.ApplyCoupon(context.Background(), 7, session.ID.String(), "SAVE10")

	assert.ErrorIs(t, err, ErrSessionExpired)
	repo.AssertExpectations(t)
}

func TestCancel_Releases(t *testing.T) {
	repo := new(MockRepository)
	svc := newTestService(repo, new(MockAddresses), new(MockCoupons), nil)

	session := pendingSessionFixture(svc.now())
	repo.On("GetSession", mock.Anything, session.ID).Return(session, nil)
	repo.On("ReleaseSession", mock.Anything, session.ID, SessionCancelled).Return(nil)

	assert.NoError(t, svc.Cancel(context.Background(), 7, session.ID.String()))
	repo.AssertExpectations(t)
}

func TestGetSession_OtherUser(t *testing.T) {
	repo := new(MockRepository)
	svc := newTestService(repo, new(MockAddresses), new(MockCoupons), nil)

	session := pendingSessionFixture(svc.now())
	repo.On("GetSession", mock.Anything, session.ID).Return(session, nil)

	_, err := svc.GetSession(context.Background(), 99, session.ID.String())

	assert.ErrorIs(t, err, order.ErrUnauthorized)
}

func TestConfirm_OtherUserSession(t *testing.T) {
	repo := new(MockRepository)
	svc := newTestService(repo, new(MockAddresses), new(MockCoupons), nil)

	session := pendingSessionFixture(svc.now())
	addrID := uuid.New()
	session.AddressID = &addrID

	repo.On("GetOrderBySession", mock.Anything, session.ID).Return(nil, nil)
	repo.On("GetSession", mock.Anything, session.ID).Return(session, nil)

	_, err := svc.Confirm(context.Background(), 99, session.ID.String())

	assert.ErrorIs(t, err, order.ErrUnauthorized)
	repo.AssertNotCalled(t, "ConfirmTx", mock.Anything, mock.Anything, mock.Anything)
}

func TestConfirm_ReplayOtherUser(t *testing.T) {
	repo := new(MockRepository)
	svc := newTestService(repo, new(MockAddresses), new(MockCoupons), nil)

	sessionID := uuid.New()
	owner := uint(7)
	repo.On("GetOrderBySession", mock.Anything, sessionID).
		Return(&order.Order{OrderNumber: "ORD-20260901-ABCD1234", UserID: &owner}, nil)

	_, err := svc.Confirm(context.Background(), 99, sessionID.String())

	assert.ErrorIs(t, err, order.ErrUnauthorized)
}

func TestCancel_OtherUser(t *testing.T) {
	repo := new(MockRepository)
	svc := newTestService(repo, new(MockAddresses), new(MockCoupons), nil)

	session := pendingSessionFixture(svc.now())
	repo.On("GetSession", mock.Anything, session.ID).Return(session, nil)

	err := svc.Cancel(context.Background(), 99, session.ID.String())

	assert.ErrorIs(t, err, order.ErrUnauthorized)
	repo.AssertNotCalled(t, "ReleaseSession", mock.Anything, mock.Anything, mock.Anything)
}

func TestApplyCoupon_OtherUser(t *testing.T) {
	repo := new(MockRepository)
	coupons := new(MockCoupons)
	svc := newTestService(repo, new(MockAddresses), coupons, nil)

	session := pendingSessionFixture(svc.now())
	repo.On("GetSession", mock.Anything, session.ID).Return(session, nil)

	_, err := svc.ApplyCoupon(context.Background(), 99, session.ID.String(), "SAVE10")

	assert.ErrorIs(t, err, order.ErrUnauthorized)
	coupons.AssertNotCalled(t, "Apply", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
