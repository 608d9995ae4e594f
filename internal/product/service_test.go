package product

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"dukani-be/internal/money"
	"dukani-be/internal/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, p *Product) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockRepository) GetByID(ctx context.Context, id string, includeDisabled bool) (*Product, error) {
	args := m.Called(ctx, id, includeDisabled)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Product), args.Error(1)
}

func (m *MockRepository) GetBySlug(ctx context.Context, slug string) (*Product, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Product), args.Error(1)
}

func (m *MockRepository) GetList(ctx context.Context, opts QueryOptions) ([]*Product, *int, error) {
	args := m.Called(ctx, opts)
	var total *int
	if args.Get(1) != nil {
		total = args.Get(1).(*int)
	}
	if args.Get(0) == nil {
		return nil, total, args.Error(2)
	}
	return args.Get(0).([]*Product), total, args.Error(2)
}

func (m *MockRepository) Update(ctx context.Context, input UpdateProduct) (*Product, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Product), args.Error(1)
}

func (m *MockRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockRepository) SetImages(ctx context.Context, productID string, images []Image) error {
	args := m.Called(ctx, productID, images)
	return args.Error(0)
}

func (m *MockRepository) GetImage(ctx context.Context, productID, path string) (*Image, error) {
	args := m.Called(ctx, productID, path)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Image), args.Error(1)
}

func (m *MockRepository) RemoveImage(ctx context.Context, productID, path string) error {
	args := m.Called(ctx, productID, path)
	return args.Error(0)
}

type MockFileStore struct {
	mock.Mock
}

func (m *MockFileStore) Upload(ctx context.Context, content io.Reader, path string) (string, error) {
	args := m.Called(ctx, content, path)
	return args.String(0), args.Error(1)
}

func (m *MockFileStore) Delete(ctx context.Context, path string) error {
	args := m.Called(ctx, path)
	return args.Error(0)
}

func TestCreate_Success(t *testing.T) {
	repo := new(MockRepository)
	store := new(MockFileStore)
	svc := NewService(repo, store)

	repo.On("Create", mock.Anything, mock.MatchedBy(func(p *Product) bool {
		return p.Name == "Gas Cooker" && p.Status == StatusActive && p.Slug != ""
	})).Return(nil)
	store.On("Upload", mock.Anything, mock.Anything, mock.Anything).Return("https://cdn/x.jpg", nil).Once()
	repo.On("SetImages", mock.Anything, mock.Anything, mock.MatchedBy(func(imgs []Image) bool {
		return len(imgs) == 1 && imgs[0].Position == 0
	})).Return(nil)

	p, err := svc.Create(context.Background(), NewProduct{
		Name:  " Gas Cooker ",
		Price: money.Cents(8958000),
		SKU:   "GC-001",
	}, []ImageUpload{{FileName: "front.jpg", Content: strings.NewReader("img")}})

	assert.NoError(t, err)
	assert.Len(t, p.Images, 1)
	repo.AssertExpectations(t)
	store.AssertExpectations(t)
}

func TestCreate_EmptyName(t *testing.T) {
	svc := NewService(new(MockRepository), new(MockFileStore))

	_, err := svc.Create(context.Background(), NewProduct{Name: "  ", Price: 100}, nil)

	assert.ErrorIs(t, err, ErrEmptyName)
}

func TestCreate_UploadFailureCompensates(t *testing.T) {
	repo := new(MockRepository)
	store := new(MockFileStore)
	svc := NewService(repo, store)

	repo.On("Create", mock.Anything, mock.Anything).Return(nil)
	// first upload succeeds, second fails
	store.On("Upload", mock.Anything, mock.Anything, mock.Anything).Return("https://cdn/a.jpg", nil).Once()
	store.On("Upload", mock.Anything, mock.Anything, mock.Anything).Return("", errors.New("disk full")).Once()
	// compensation: the successful upload is deleted, then the row
	store.On("Delete", mock.Anything, mock.Anything).Return(nil).Once()
	repo.On("Delete", mock.Anything, mock.Anything).Return(nil).Once()

	_, err := svc.Create(context.Background(), NewProduct{Name: "Blender", Price: 250000}, []ImageUpload{
		{FileName: "a.jpg", Content: strings.NewReader("a")},
		{FileName: "b.jpg", Content: strings.NewReader("b")},
	})

	assert.Error(t, err)
	repo.AssertExpectations(t)
	store.AssertExpectations(t)
}

func TestCreate_AttachFailureCompensates(t *testing.T) {
	repo := new(MockRepository)
	store := new(MockFileStore)
	svc := NewService(repo, store)

	repo.On("Create", mock.Anything, mock.Anything).Return(nil)
	store.On("Upload", mock.Anything, mock.Anything, mock.Anything).Return("https://cdn/a.jpg", nil).Once()
	repo.On("SetImages", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("db down"))
	store.On("Delete", mock.Anything, mock.Anything).Return(nil).Once()
	repo.On("Delete", mock.Anything, mock.Anything).Return(nil).Once()

	_, err := svc.Create(context.Background(), NewProduct{Name: "Kettle", Price: 90000}, []ImageUpload{
		{FileName: "a.jpg", Content: strings.NewReader("a")},
	})

	assert.Error(t, err)
	repo.AssertExpectations(t)
	store.AssertExpectations(t)
}

func TestUpdate_NoFields(t *testing.T) {
	svc := NewService(new(MockRepository), new(MockFileStore))

	_, err := svc.Update(context.Background(), UpdateProduct{ID: "p1"})

	assert.ErrorIs(t, err, ErrNoFieldsToSet)
}

func TestUpdate_Success(t *testing.T) {
	repo := new(MockRepository)
	svc := NewService(repo, new(MockFileStore))

	price := money.Cents(120000)
	repo.On("Update", mock.Anything, mock.Anything).Return(&Product{ID: "p1", Price: price}, nil)

	p, err := svc.Update(context.Background(), UpdateProduct{ID: "p1", Price: &price})

	assert.NoError(t, err)
	assert.Equal(t, price, p.Price)
}

func TestDelete_RemovesFiles(t *testing.T) {
	repo := new(MockRepository)
	store := new(MockFileStore)
	svc := NewService(repo, store)

	repo.On("GetByID", mock.Anything, "p1", true).Return(&Product{
		ID:     "p1",
		Images: []Image{{Path: "products/p1/a.jpg"}, {Path: "products/p1/b.jpg"}},
	}, nil)
	repo.On("Delete", mock.Anything, "p1").Return(nil)
	store.On("Delete", mock.Anything, "products/p1/a.jpg").Return(nil)
	store.On("Delete", mock.Anything, "products/p1/b.jpg").Return(nil)

	err := svc.Delete(context.Background(), "p1")

	assert.NoError(t, err)
	store.AssertExpectations(t)
}

func TestDelete_NotFound(t *testing.T) {
	repo := new(MockRepository)
	svc := NewService(repo, new(MockFileStore))

	repo.On("GetByID", mock.Anything, "missing", true).Return(nil, ErrProductNotFound)

	err := svc.Delete(context.Background(), "missing")

	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestGetList_NormalizesPagination(t *testing.T) {
	repo := new(MockRepository)
	svc := NewService(repo, new(MockFileStore))

	repo.On("GetList", mock.Anything, mock.MatchedBy(func(opts QueryOptions) bool {
		return opts.Page == 1 && opts.Limit == 20 && !opts.IncludeDisabled
	})).Return([]*Product{}, nil, nil)

	_, err := svc.GetList(context.Background(), QueryOptions{Page: 0, Limit: 0, IncludeDisabled: true})

	assert.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestGetList_AdminKeepsDisabled(t *testing.T) {
	repo := new(MockRepository)
	svc := NewService(repo, new(MockFileStore))

	ctx := utils.SetUserContext(context.Background(), 1, "admin@dukani.io", utils.RoleAdmin)
	repo.On("GetList", mock.Anything, mock.MatchedBy(func(opts QueryOptions) bool {
		return opts.IncludeDisabled
	})).Return([]*Product{}, nil, nil)

	_, err := svc.GetList(ctx, QueryOptions{IncludeDisabled: true})

	assert.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestDeleteImage(t *testing.T) {
	repo := new(MockRepository)
	store := new(MockFileStore)
	svc := NewService(repo, store)

	repo.On("GetImage", mock.Anything, "p1", "products/p1/a.jpg").
		Return(&Image{Path: "products/p1/a.jpg"}, nil)
	repo.On("RemoveImage", mock.Anything, "p1", "products/p1/a.jpg").Return(nil)
	store.On("Delete", mock.Anything, "products/p1/a.jpg").Return(nil)

	err := svc.DeleteImage(context.Background(), "p1", "products/p1/a.jpg")

	assert.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestDeleteImage_NotFound(t *testing.T) {
	repo := new(MockRepository)
	svc := NewService(repo, new(MockFileStore))

	repo.On("GetImage", mock.Anything, "p1", "nope.jpg").Return(nil, ErrImageNotFound)

	err := svc.DeleteImage(context.Background(), "p1", "nope.jpg")

	assert.ErrorIs(t, err, ErrImageNotFound)
}
