package returns

import (
	"context"
	"testing"

	"dukani-be/internal/money"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, ret *Return) error {
	args := m.Called(ctx, ret)
	if args.Error(0) == nil {
		ret.ID = 42
	}
	return args.Error(0)
}

func (m *MockRepository) GetByID(ctx context.Context, id uint) (*Return, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Return), args.Error(1)
}

func (m *MockRepository) FetchAll(ctx context.Context) ([]*Return, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*Return), args.Error(1)
}

func (m *MockRepository) UpdateStatus(ctx context.Context, id uint, from, to Status, refundStatus *string) error {
	args := m.Called(ctx, id, from, to, refundStatus)
	return args.Error(0)
}

type MockOrderRefunds struct {
	mock.Mock
}

func (m *MockOrderRefunds) RecordRefund(ctx context.Context, orderID uint, amount money.Cents) error {
	args := m.Called(ctx, orderID, amount)
	return args.Error(0)
}

func TestService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo, new(MockOrderRefunds))

		repo.On("Create", ctx, mock.MatchedBy(func(r *Return) bool {
			return r.Status == StatusPending && r.RefundAmount == money.Cents(8958000)
		})).Return(nil).Once()

		ret, err := svc.Create(ctx, CreateInput{OrderID: 1, Reason: "damaged on arrival", RefundAmount: 8958000})
		require.NoError(t, err)
		assert.Equal(t, uint(42), ret.ID)
		assert.Equal(t, "UGX 89,580.00", ret.RefundDisplay())
	})

	t.Run("EmptyReason", func(t *testing.T) {
		svc := NewService(new(MockRepository), new(MockOrderRefunds))
		_, err := svc.Create(ctx, CreateInput{OrderID: 1, Reason: "   "})
		assert.Error(t, err)
	})

	t.Run("NegativeAmount", func(t *testing.T) {
		svc := NewService(new(MockRepository), new(MockOrderRefunds))
		_, err := svc.Create(ctx, CreateInput{OrderID: 1, Reason: "x", RefundAmount: -1})
		assert.Error(t, err)
	})

	t.Run("UnknownOrder", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo, new(MockOrderRefunds))

		repo.On("Create", ctx, mock.Anything).Return(ErrOrderNotFound).Once()

		_, err := svc.Create(ctx, CreateInput{OrderID: 99, Reason: "x"})
		assert.ErrorIs(t, err, ErrOrderNotFound)
	})
}

func TestService_List_Filters(t *testing.T) {
	ctx := context.Background()
	repo := new(MockRepository)
	svc := NewService(repo, new(MockOrderRefunds))

	rows := []*Return{
		{ID: 1, OrderNumber: "ORD-1001", Reason: "wrong size", Status: StatusPending},
		{ID: 2, OrderNumber: "ORD-1002", Reason: "damaged lamp", Status: StatusApproved},
		{ID: 3, OrderNumber: "ORD-1003", Reason: "changed mind", Status: StatusPending},
	}
	repo.On("FetchAll", ctx).Return(rows, nil)

	t.Run("NoFilter", func(t *testing.T) {
		got, err := svc.List(ctx, ListFilter{})
		require.NoError(t, err)
		assert.Len(t, got, 3)
	})

	t.Run("Search", func(t *testing.T) {
		got, err := svc.List(ctx, ListFilter{Search: "lamp"})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, uint(2), got[0].ID)
	})

	t.Run("StatusFilter", func(t *testing.T) {
		got, err := svc.List(ctx, ListFilter{Status: "pending"})
		require.NoError(t, err)
		assert.Len(t, got, 2)
	})
}

func TestService_Lifecycle(t *testing.T) {
	ctx := context.Background()

	t.Run("Approve", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo, new(MockOrderRefunds))

		repo.On("GetByID", ctx, uint(1)).Return(&Return{ID: 1, Status: StatusPending}, nil).Once()
		repo.On("UpdateStatus", ctx, uint(1), StatusPending, StatusApproved, (*string)(nil)).Return(nil).Once()

		ret, err := svc.Approve(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, StatusApproved, ret.Status)
	})

	t.Run("ApproveNonPending", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo, new(MockOrderRefunds))

		repo.On("GetByID", ctx, uint(1)).Return(&Return{ID: 1, Status: StatusRejected}, nil).Once()

		_, err := svc.Approve(ctx, 1)
		assert.ErrorIs(t, err, ErrNotPending)
	})

	t.Run("CompleteBooksRefund", func(t *testing.T) {
		repo := new(MockRepository)
		orders := new(MockOrderRefunds)
		svc := NewService(repo, orders)

		repo.On("GetByID", ctx, uint(1)).
			Return(&Return{ID: 1, OrderID: 9, Status: StatusApproved, RefundAmount: 8958000}, nil).Once()
		repo.On("UpdateStatus", ctx, uint(1), StatusApproved, StatusCompleted, mock.AnythingOfType("*string")).
			Return(nil).Once()
		orders.On("RecordRefund", ctx, uint(9), money.Cents(8958000)).Return(nil).Once()

		ret, err := svc.Complete(ctx, 1, "refunded via mobile money")
		require.NoError(t, err)
		assert.Equal(t, StatusCompleted, ret.Status)
		assert.Equal(t, "refunded via mobile money", ret.RefundStatus)
		orders.AssertExpectations(t)
	})

	t.Run("CompleteFromPendingRejected", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo, new(MockOrderRefunds))

		repo.On("GetByID", ctx, uint(1)).Return(&Return{ID: 1, Status: StatusPending}, nil).Once()

		_, err := svc.Complete(ctx, 1, "")
		assert.ErrorIs(t, err, ErrNotApproved)
	})

	t.Run("RejectKeepsNote", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo, new(MockOrderRefunds))

		repo.On("GetByID", ctx, uint(1)).Return(&Return{ID: 1, Status: StatusPending}, nil).Once()
		repo.On("UpdateStatus", ctx, uint(1), StatusPending, StatusRejected, mock.MatchedBy(func(s *string) bool {
			return s != nil && *s == "rejected: outside return window"
		})).Return(nil).Once()

		ret, err := svc.Reject(ctx, 1, "outside return window")
		require.NoError(t, err)
		assert.Equal(t, StatusRejected, ret.Status)
	})
}
