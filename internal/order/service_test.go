package order

import (
	"context"
	"testing"
	"time"

	"dukani-be/internal/money"
	"dukani-be/internal/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- Mocks ---

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) FetchOrders(ctx context.Context, filter *FilterInput, sort *SortInput, limit, offset int32) ([]*Order, error) {
	args := m.Called(ctx, filter, sort, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*Order), args.Error(1)
}

func (m *MockRepository) CountOrders(ctx context.Context, filter *FilterInput) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRepository) GetOrderDetail(ctx context.Context, orderID uint) (*Order, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Order), args.Error(1)
}

func (m *MockRepository) UpdateStatusCAS(ctx context.Context, orderID uint, from, to Status, at time.Time) error {
	args := m.Called(ctx, orderID, from, to, at)
	return args.Error(0)
}

func (m *MockRepository) UpdateCharges(ctx context.Context, o *Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockRepository) UpdatePaymentStatus(ctx context.Context, orderID uint, status PaymentStatus, paidAt *time.Time) error {
	args := m.Called(ctx, orderID, status, paidAt)
	return args.Error(0)
}

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) StatusChanged(ctx context.Context, o *Order, from Status) {
	m.Called(ctx, o, from)
}

func pendingOrder(userID uint) *Order {
	uid := userID
	return &Order{
		ID:            1,
		OrderNumber:   "ORD-2026-0001",
		UserID:        &uid,
		Status:        StatusPending,
		PaymentStatus: PaymentPending,
		Items:         []OrderItem{{ID: 1, ProductID: "p1", Name: "Solar Lamp", Price: 10000, Quantity: 1, SKU: "SL-01"}},
		Subtotal:      10000,
		Total:         10000,
	}
}

// --- Tests ---

func TestService_Get(t *testing.T) {
	t.Run("OwnerSeesOwnOrder", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo, nil)
		ctx := utils.SetUserContext(context.Background(), 7, "buyer@example.com", utils.RoleUser)

		repo.On("GetOrderDetail", ctx, uint(1)).Return(pendingOrder(7), nil).Once()

		o, err := svc.Get(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, uint(1), o.ID)
	})

	t.Run("StrangerRejected", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo, nil)
		ctx := utils.SetUserContext(context.Background(), 8, "other@example.com", utils.RoleUser)

		repo.On("GetOrderDetail", ctx, uint(1)).Return(pendingOrder(7), nil).Once()

		_, err := svc.Get(ctx, 1)
		assert.ErrorIs(t, err, ErrUnauthorized)
	})

	t.Run("AdminSeesAny", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo, nil)
		ctx := utils.SetUserContext(context.Background(), 1, "admin@example.com", utils.RoleAdmin)

		repo.On("GetOrderDetail", ctx, uint(1)).Return(pendingOrder(7), nil).Once()

		_, err := svc.Get(ctx, 1)
		assert.NoError(t, err)
	})
}

func TestService_List_NormalizesPagination(t *testing.T) {
	repo := new(MockRepository)
	svc := NewService(repo, nil)
	ctx := context.Background()

	repo.On("FetchOrders", ctx, (*FilterInput)(nil), (*SortInput)(nil), int32(20), int32(0)).
		Return([]*Order{pendingOrder(7)}, nil).Once()
	repo.On("CountOrders", ctx, (*FilterInput)(nil)).Return(int64(1), nil).Once()

	res, err := svc.List(ctx, nil, nil, -5, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.TotalCount)
	assert.Len(t, res.Items, 1)
	repo.AssertExpectations(t)
}

func TestService_Transition(t *testing.T) {
	ctx := utils.SetUserContext(context.Background(), 1, "admin@example.com", utils.RoleAdmin)

	t.Run("PendingToProcessing", func(t *testing.T) {
		repo := new(MockRepository)
		pub := new(MockPublisher)
		svc := NewService(repo, pub)

		repo.On("GetOrderDetail", ctx, uint(1)).Return(pendingOrder(7), nil).Once()
		repo.On("UpdateStatusCAS", ctx, uint(1), StatusPending, StatusProcessing, mock.AnythingOfType("time.Time")).
			Return(nil).Once()
		pub.On("StatusChanged", ctx, mock.AnythingOfType("*order.Order"), StatusPending).Once()

		o, err := svc.Transition(ctx, 1, StatusProcessing)
		require.NoError(t, err)
		assert.Equal(t, StatusProcessing, o.Status)
		assert.Nil(t, o.ShippedAt)
		pub.AssertExpectations(t)
	})

	t.Run("ShippedStampsTimestamp", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo, nil)

		shipped := pendingOrder(7)
		shipped.Status = StatusProcessing

		repo.On("GetOrderDetail", ctx, uint(1)).Return(shipped, nil).Once()
		repo.On("UpdateStatusCAS", ctx, uint(1), StatusProcessing, StatusShipped, mock.AnythingOfType("time.Time")).
			Return(nil).Once()

		o, err := svc.Transition(ctx, 1, StatusShipped)
		require.NoError(t, err)
		require.NotNil(t, o.ShippedAt)
		assert.WithinDuration(t, time.Now().UTC(), *o.ShippedAt, 2*time.Second)
	})

	t.Run("CancelStampsTimestamp", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo, nil)

		repo.On("GetOrderDetail", ctx, uint(1)).Return(pendingOrder(7), nil).Once()
		repo.On("UpdateStatusCAS", ctx, uint(1), StatusPending, StatusCancelled, mock.AnythingOfType("time.Time")).
			Return(nil).Once()

		o, err := svc.Transition(ctx, 1, StatusCancelled)
		require.NoError(t, err)
		assert.NotNil(t, o.CancelledAt)
	})

	t.Run("SkippingStateRejected", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo, nil)

		repo.On("GetOrderDetail", ctx, uint(1)).Return(pendingOrder(7), nil).Once()

		_, err := svc.Transition(ctx, 1, StatusDelivered)
		assert.ErrorIs(t, err, ErrInvalidTransition)
		repo.AssertNotCalled(t, "UpdateStatusCAS")
	})

	t.Run("UnknownStatusRejected", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo, nil)

		_, err := svc.Transition(ctx, 1, Status("archived"))
		assert.ErrorIs(t, err, ErrInvalidTransition)
	})

	t.Run("ConcurrentEditorSurfaced", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo, nil)

		repo.On("GetOrderDetail", ctx, uint(1)).Return(pendingOrder(7), nil).Once()
		repo.On("UpdateStatusCAS", ctx, uint(1), StatusPending, StatusProcessing, mock.AnythingOfType("time.Time")).
			Return(ErrStaleStatus).Once()

		_, err := svc.Transition(ctx, 1, StatusProcessing)
		assert.ErrorIs(t, err, ErrStaleStatus)
	})
}

func TestService_SetCharges(t *testing.T) {
	ctx := context.Background()
	repo := new(MockRepository)
	svc := NewService(repo, nil)

	repo.On("GetOrderDetail", ctx, uint(1)).Return(pendingOrder(7), nil).Once()
	repo.On("UpdateCharges", ctx, mock.MatchedBy(func(o *Order) bool {
		return o.Total == o.Subtotal+o.Shipping+o.Tax-o.Discount
	})).Return(nil).Once()

	o, err := svc.SetCharges(ctx, 1, 2000, 1800, 500)
	require.NoError(t, err)
	assert.Equal(t, money.Cents(10000), o.Subtotal)
	assert.Equal(t, money.Cents(13300), o.Total)
	repo.AssertExpectations(t)
}

func TestService_RecordRefund(t *testing.T) {
	ctx := context.Background()

	t.Run("PartialRefund", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo, nil)

		o := pendingOrder(7)
		o.Total = 13858000

		repo.On("GetOrderDetail", ctx, uint(1)).Return(o, nil).Once()
		repo.On("UpdatePaymentStatus", ctx, uint(1), PaymentPartiallyRefunded, (*time.Time)(nil)).
			Return(nil).Once()

		err := svc.RecordRefund(ctx, 1, 8958000)
		assert.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("FullRefund", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo, nil)

		o := pendingOrder(7)
		o.Total = 10000

		repo.On("GetOrderDetail", ctx, uint(1)).Return(o, nil).Once()
		repo.On("UpdatePaymentStatus", ctx, uint(1), PaymentRefunded, (*time.Time)(nil)).
			Return(nil).Once()

		err := svc.RecordRefund(ctx, 1, 10000)
		assert.NoError(t, err)
	})
}

func TestService_MarkPaid(t *testing.T) {
	repo := new(MockRepository)
	svc := NewService(repo, nil)
	ctx := context.Background()

	repo.On("UpdatePaymentStatus", ctx, uint(2), PaymentPaid, mock.AnythingOfType("*time.Time")).
		Return(nil).Once()

	assert.NoError(t, svc.MarkPaid(ctx, 2))
}
