package product

import (
	"context"
	"errors"
	"strings"
	"time"

	"dukani-be/internal/logger"
	"dukani-be/internal/storage"
	"dukani-be/internal/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Service interface {
	Create(ctx context.Context, input NewProduct, images []ImageUpload) (*Product, error)
	Update(ctx context.Context, input UpdateProduct) (*Product, error)
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*Product, error)
	GetBySlug(ctx context.Context, slug string) (*Product, error)
	GetList(ctx context.Context, opts QueryOptions) (*ListResult, error)
	AddImages(ctx context.Context, productID string, images []ImageUpload) (*Product, error)
	DeleteImage(ctx context.Context, productID, path string) error
}

type service struct {
	repo  Repository
	store storage.FileStore
}

func NewService(repo Repository, store storage.FileStore) Service {
	return &service{repo: repo, store: store}
}

// Create runs the product/image pipeline as a compensating sequence:
// insert row, upload files, attach URLs. Any failure unwinds the
// completed steps so no half-created product survives.
func (s *service) Create(ctx context.Context, input NewProduct, images []ImageUpload) (*Product, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "CreateProduct"),
		zap.Int("image_count", len(images)),
	)

	if strings.TrimSpace(input.Name) == "" {
		return nil, ErrEmptyName
	}
	if input.Price <= 0 {
		return nil, errors.New("price must be positive")
	}

	id := uuid.New().String()
	p := &Product{
		ID:             id,
		Name:           strings.TrimSpace(input.Name),
		Slug:           utils.Slugify(input.Name, id),
		Description:    input.Description,
		Price:          input.Price,
		CompareAtPrice: input.CompareAtPrice,
		SKU:            input.SKU,
		CategoryID:     input.CategoryID,
		SubcategoryID:  input.SubcategoryID,
		Status:         StatusActive,
	}

	// Step 1: product row.
	if err := s.repo.Create(ctx, p); err != nil {
		log.Error("failed to create product", zap.Error(err))
		return nil, err
	}

	// Step 2: uploads, compensated on failure.
	uploaded, err := s.uploadAll(ctx, p.ID, images)
	if err != nil {
		log.Error("image upload failed, compensating", zap.Error(err))
		s.compensateUploads(ctx, uploaded)
		if delErr := s.repo.Delete(ctx, p.ID); delErr != nil {
			log.Error("compensation failed to delete product", zap.Error(delErr))
		}
		return nil, err
	}

	// Step 3: attach URLs.
	if len(uploaded) > 0 {
		if err := s.repo.SetImages(ctx, p.ID, uploaded); err != nil {
			log.Error("failed to attach images, compensating", zap.Error(err))
			s.compensateUploads(ctx, uploaded)
			if delErr := s.repo.Delete(ctx, p.ID); delErr != nil {
				log.Error("compensation failed to delete product", zap.Error(delErr))
			}
			return nil, err
		}
		p.Images = uploaded
	}

	log.Info("product created",
		zap.String("product_id", p.ID),
		zap.String("slug", p.Slug),
	)
	return p, nil
}

func (s *service) uploadAll(ctx context.Context, productID string, images []ImageUpload) ([]Image, error) {
	uploaded := make([]Image, 0, len(images))

	for i, img := range images {
		path := "products/" + productID + "/" + storage.GenerateUniqueFileName(img.FileName)
		url, err := s.store.Upload(ctx, img.Content, path)
		if err != nil {
			return uploaded, err
		}
		uploaded = append(uploaded, Image{URL: url, Path: path, Position: i})
	}

	return uploaded, nil
}

func (s *service) compensateUploads(ctx context.Context, uploaded []Image) {
	log := logger.FromCtx(ctx)
	for i := len(uploaded) - 1; i >= 0; i-- {
		if err := s.store.Delete(ctx, uploaded[i].Path); err != nil {
			log.Error("compensation failed to delete upload",
				zap.String("path", uploaded[i].Path),
				zap.Error(err),
			)
		}
	}
}

func (s *service) Update(ctx context.Context, input UpdateProduct) (*Product, error) {
	if input.ID == "" {
		return nil, errors.New("product id is required")
	}
	if input.Name != nil && strings.TrimSpace(*input.Name) == "" {
		return nil, ErrEmptyName
	}
	if input.Price != nil && *input.Price <= 0 {
		return nil, errors.New("price must be positive")
	}
	if input.Status != nil && *input.Status != StatusActive && *input.Status != StatusDisable {
		return nil, errors.New("invalid product status")
	}
	if !input.HasAnyField() {
		return nil, ErrNoFieldsToSet
	}

	return s.repo.Update(ctx, input)
}

// Delete removes the record and best-effort cleans stored files; a failed
// file delete is logged, not raised, since the record is already gone.
func (s *service) Delete(ctx context.Context, id string) error {
	p, err := s.repo.GetByID(ctx, id, true)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	for _, img := range p.Images {
		if err := s.store.Delete(ctx, img.Path); err != nil {
			logger.FromCtx(ctx).Warn("failed to delete product image file",
				zap.String("path", img.Path),
				zap.Error(err),
			)
		}
	}

	return nil
}

func (s *service) GetByID(ctx context.Context, id string) (*Product, error) {
	return s.repo.GetByID(ctx, id, utils.IsAdmin(ctx))
}

func (s *service) GetBySlug(ctx context.Context, slug string) (*Product, error) {
	return s.repo.GetBySlug(ctx, slug)
}

func (s *service) GetList(ctx context.Context, opts QueryOptions) (*ListResult, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "GetProductList"),
	)

	start := time.Now()

	if opts.Page <= 0 {
		opts.Page = 1
	}
	if opts.Limit <= 0 {
		opts.Limit = 20
	} else if opts.Limit > 100 {
		opts.Limit = 100
	}
	if !utils.IsAdmin(ctx) {
		opts.IncludeDisabled = false
	}

	products, total, err := s.repo.GetList(ctx, opts)
	if err != nil {
		log.Error("failed to fetch product list",
			zap.Error(err),
			zap.Duration("duration", time.Since(start)),
		)
		return nil, err
	}

	fields := []zap.Field{
		zap.Int("count", len(products)),
		zap.Int32("page", opts.Page),
		zap.Int32("limit", opts.Limit),
		zap.Duration("duration", time.Since(start)),
	}
	if total != nil {
		fields = append(fields, zap.Int("total", *total))
	}
	log.Info("get product list success", fields...)

	return &ListResult{Items: products, TotalCount: total}, nil
}

// AddImages appends uploads to an existing product, compensating new
// uploads if the attach step fails.
func (s *service) AddImages(ctx context.Context, productID string, images []ImageUpload) (*Product, error) {
	p, err := s.repo.GetByID(ctx, productID, true)
	if err != nil {
		return nil, err
	}

	base := len(p.Images)
	uploaded := make([]Image, 0, len(images))
	for i, img := range images {
		path := "products/" + productID + "/" + storage.GenerateUniqueFileName(img.FileName)
		url, err := s.store.Upload(ctx, img.Content, path)
		if err != nil {
			s.compensateUploads(ctx, uploaded)
			return nil, err
		}
		uploaded = append(uploaded, Image{URL: url, Path: path, Position: base + i})
	}

	all := append(p.Images, uploaded...)
	if err := s.repo.SetImages(ctx, productID, all); err != nil {
		s.compensateUploads(ctx, uploaded)
		return nil, err
	}

	p.Images = all
	return p, nil
}

func (s *service) DeleteImage(ctx context.Context, productID, path string) error {
	img, err := s.repo.GetImage(ctx, productID, path)
	if err != nil {
		return err
	}

	if err := s.repo.RemoveImage(ctx, productID, img.Path); err != nil {
		return err
	}

	if err := s.store.Delete(ctx, img.Path); err != nil && !errors.Is(err, storage.ErrFileNotFound) {
		logger.FromCtx(ctx).Warn("image row removed but file delete failed",
			zap.String("path", img.Path),
			zap.Error(err),
		)
	}

	return nil
}
