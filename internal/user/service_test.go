package user

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, email, password, role string) (User, error) {
	args := m.Called(ctx, email, password, role)
	return args.Get(0).(User), args.Error(1)
}

func (m *MockRepository) FindByEmail(ctx context.Context, email string) (User, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(User), args.Error(1)
}

func TestRegister_Success(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	repo := new(MockRepository)
	svc := NewService(repo)

	repo.On("Create", mock.Anything, "shopper@dukani.io", mock.AnythingOfType("string"), "USER").
		Return(User{ID: 1, Email: "shopper@dukani.io", Role: RoleUser}, nil)

	token, u, err := svc.Register(context.Background(), RegisterInput{
		Email:    " Shopper@dukani.io ",
		Password: "hunter22secret",
	})

	assert.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, 1, u.ID)

	claims, err := ParseJWT(token)
	assert.NoError(t, err)
	assert.Equal(t, uint(1), claims.UserID)
	assert.Equal(t, "USER", claims.Role)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	repo := new(MockRepository)
	svc := NewService(repo)

	repo.On("Create", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(User{}, errors.New(`pq: duplicate key value violates unique constraint "users_email_key"`))

	_, _, err := svc.Register(context.Background(), RegisterInput{
		Email:    "taken@dukani.io",
		Password: "hunter22secret",
	})

	assert.ErrorIs(t, err, ErrEmailExists)
}

func TestLogin_Success(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	hashed, err := HashPassword("hunter22secret")
	assert.NoError(t, err)

	repo := new(MockRepository)
	svc := NewService(repo)
	repo.On("FindByEmail", mock.Anything, "shopper@dukani.io").
		Return(User{ID: 1, Email: "shopper@dukani.io", Password: hashed, Role: RoleUser}, nil)

	token, u, err := svc.Login(context.Background(), LoginInput{
		Email:    "shopper@dukani.io",
		Password: "hunter22secret",
	})

	assert.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, RoleUser, u.Role)
}

func TestLogin_WrongPassword(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	hashed, _ := HashPassword("correct-password")

	repo := new(MockRepository)
	svc := NewService(repo)
	repo.On("FindByEmail", mock.Anything, "shopper@dukani.io").
		Return(User{ID: 1, Password: hashed}, nil)

	_, _, err := svc.Login(context.Background(), LoginInput{
		Email:    "shopper@dukani.io",
		Password: "wrong-password",
	})

	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_UnknownEmail(t *testing.T) {
	repo := new(MockRepository)
	svc := NewService(repo)
	repo.On("FindByEmail", mock.Anything, "ghost@dukani.io").
		Return(User{}, errors.New("sql: no rows in result set"))

	_, _, err := svc.Login(context.Background(), LoginInput{
		Email:    "ghost@dukani.io",
		Password: "whatever123",
	})

	assert.ErrorIs(t, err, ErrInvalidCredentials)
}
