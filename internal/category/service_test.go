package category

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) GetTree(ctx context.Context) ([]*Category, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*Category), args.Error(1)
}

func (m *MockRepository) AddCategory(ctx context.Context, name string) (*Category, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Category), args.Error(1)
}

func (m *MockRepository) AddSubcategory(ctx context.Context, categoryID string, name string) (*Subcategory, error) {
	args := m.Called(ctx, categoryID, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Subcategory), args.Error(1)
}

func newCache(t *testing.T) *redis.Client {
	t.Helper()
	mr := miniredis.RunT(t)
	return redis.NewClient(&redis.Options{Addr: mr.Addr()})
}

func sampleTree() []*Category {
	return []*Category{
		{
			ID:   "c1",
			Name: "Electronics",
			Slug: "electronics",
			Subcategories: []*Subcategory{
				{ID: "s1", CategoryID: "c1", Name: "Phones", Slug: "phones"},
			},
		},
	}
}

func TestService_Tree_CachesResult(t *testing.T) {
	repo := new(MockRepository)
	svc := NewService(repo, newCache(t))
	ctx := context.Background()

	repo.On("GetTree", ctx).Return(sampleTree(), nil).Once()

	first, err := svc.Tree(ctx)
	require.NoError(t, err)
	assert.Len(t, first, 1)

	// Second call must be served from cache; the mock would panic on a
	// second GetTree call because of Once().
	second, err := svc.Tree(ctx)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	repo.AssertExpectations(t)
}

func TestService_Tree_NoCache(t *testing.T) {
	repo := new(MockRepository)
	svc := NewService(repo, nil)
	ctx := context.Background()

	repo.On("GetTree", ctx).Return(sampleTree(), nil).Twice()

	_, err := svc.Tree(ctx)
	require.NoError(t, err)
	_, err = svc.Tree(ctx)
	require.NoError(t, err)

	repo.AssertExpectations(t)
}

func TestService_AddCategory(t *testing.T) {
	ctx := context.Background()

	t.Run("EmptyName", func(t *testing.T) {
		svc := NewService(new(MockRepository), nil)
		_, err := svc.AddCategory(ctx, "   ")
		assert.ErrorIs(t, err, ErrEmptyName)
	})

	t.Run("InvalidatesCache", func(t *testing.T) {
		repo := new(MockRepository)
		cache := newCache(t)
		svc := NewService(repo, cache)

		repo.On("GetTree", ctx).Return(sampleTree(), nil).Twice()
		repo.On("AddCategory", ctx, "Garden").
			Return(&Category{ID: "c2", Name: "Garden", Slug: "garden"}, nil).Once()

		_, err := svc.Tree(ctx)
		require.NoError(t, err)

		_, err = svc.AddCategory(ctx, "Garden")
		require.NoError(t, err)

		// Cache was invalidated, so the tree is re-read from the repo.
		_, err = svc.Tree(ctx)
		require.NoError(t, err)

		repo.AssertExpectations(t)
	})
}

func TestService_AddSubcategory(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo, nil)

		repo.On("AddSubcategory", ctx, "c1", "Tablets").
			Return(&Subcategory{ID: "s2", CategoryID: "c1", Name: "Tablets", Slug: "tablets"}, nil).Once()

		sub, err := svc.AddSubcategory(ctx, "c1", "Tablets")
		require.NoError(t, err)
		assert.Equal(t, "c1", sub.CategoryID)
	})

	t.Run("UnknownParent", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo, nil)

		repo.On("AddSubcategory", ctx, "missing", "Tablets").
			Return(nil, ErrCategoryNotFound).Once()

		_, err := svc.AddSubcategory(ctx, "missing", "Tablets")
		assert.ErrorIs(t, err, ErrCategoryNotFound)
	})
}
