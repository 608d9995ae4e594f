package address

import (
	"context"
	"testing"

	"dukani-be/internal/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, a *Address) error {
	return m.Called(ctx, a).Error(0)
}

func (m *MockRepository) GetByID(ctx context.Context, id uuid.UUID) (*Address, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Address), args.Error(1)
}

func (m *MockRepository) GetByUserID(ctx context.Context, userID uint) ([]*Address, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*Address), args.Error(1)
}

func (m *MockRepository) Deactivate(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockRepository) ClearDefault(ctx context.Context, userID uint) error {
	return m.Called(ctx, userID).Error(0)
}

func (m *MockRepository) SetDefault(ctx context.Context, userID uint, id uuid.UUID) error {
	return m.Called(ctx, userID, id).Error(0)
}

func userCtx(userID uint) context.Context {
	return utils.SetUserContext(context.Background(), userID, "user@dukani.io", utils.RoleUser)
}

func TestCreate_Unauthenticated(t *testing.T) {
	svc := NewService(new(MockRepository))

	_, err := svc.Create(context.Background(), CreateInput{})

	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestCreate_Default(t *testing.T) {
	repo := new(MockRepository)
	svc := NewService(repo)

	repo.On("ClearDefault", mock.Anything, uint(7)).Return(nil)
	repo.On("Create", mock.Anything, mock.MatchedBy(func(a *Address) bool {
		return a.UserID == 7 && a.IsDefault && a.IsActive && a.City == "Kampala"
	})).Return(nil)

	addr, err := svc.Create(userCtx(7), CreateInput{
		FullName:     "A Tester",
		Phone:        "+256700000000",
		Line1:        "Plot 5, Kira Road",
		City:         "Kampala",
		Region:       "Central",
		Country:      "UG",
		SetAsDefault: true,
	})

	assert.NoError(t, err)
	assert.True(t, addr.IsDefault)
	repo.AssertExpectations(t)
}

func TestUpdate_ReplacesRow(t *testing.T) {
	repo := new(MockRepository)
	svc := NewService(repo)

	oldID := uuid.New()
	repo.On("GetByID", mock.Anything, oldID).
		Return(&Address{ID: oldID, UserID: 7, IsActive: true}, nil)
	repo.On("Deactivate", mock.Anything, oldID).Return(nil)
	repo.On("Create", mock.Anything, mock.MatchedBy(func(a *Address) bool {
		return a.ID != oldID && a.UserID == 7 && a.IsActive
	})).Return(nil)

	addr, err := svc.Update(userCtx(7), UpdateInput{
		AddressID: oldID.String(),
		FullName:  "A Tester",
		Phone:     "+256700000000",
		Line1:     "Plot 9, Ggaba Road",
		City:      "Kampala",
		Region:    "Central",
		Country:   "UG",
	})

	assert.NoError(t, err)
	assert.NotEqual(t, oldID, addr.ID)
	repo.AssertExpectations(t)
}

func TestUpdate_OtherUsersAddress(t *testing.T) {
	repo := new(MockRepository)
	svc := NewService(repo)

	id := uuid.New()
	repo.On("GetByID", mock.Anything, id).
		Return(&Address{ID: id, UserID: 99, IsActive: true}, nil)

	_, err := svc.Update(userCtx(7), UpdateInput{AddressID: id.String()})

	assert.ErrorIs(t, err, ErrAddressNotFound)
	repo.AssertNotCalled(t, "Deactivate", mock.Anything, mock.Anything)
}

func TestGetForUser_MapsToOrderShape(t *testing.T) {
	repo := new(MockRepository)
	svc := NewService(repo)

	id := uuid.New()
	repo.On("GetByID", mock.Anything, id).Return(&Address{
		ID:       id,
		UserID:   7,
		FullName: "A Tester",
		Line1:    "Plot 5, Kira Road",
		City:     "Kampala",
		Region:   "Central",
		Country:  "UG",
		IsActive: true,
	}, nil)

	addr, err := svc.GetForUser(context.Background(), id.String(), 7)

	assert.NoError(t, err)
	assert.Equal(t, "Kampala", addr.City)
	assert.Equal(t, "A Tester", addr.FullName)
}

func TestGetForUser_Inactive(t *testing.T) {
	repo := new(MockRepository)
	svc := NewService(repo)

	id := uuid.New()
	repo.On("GetByID", mock.Anything, id).
		Return(&Address{ID: id, UserID: 7, IsActive: false}, nil)

	_, err := svc.GetForUser(context.Background(), id.String(), 7)

	assert.ErrorIs(t, err, ErrAddressNotFound)
}
