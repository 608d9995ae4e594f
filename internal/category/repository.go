package category

import (
	"context"
	"database/sql"
	"errors"

	"dukani-be/internal/logger"
	"dukani-be/internal/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Repository interface {
	GetTree(ctx context.Context) ([]*Category, error)
	AddCategory(ctx context.Context, name string) (*Category, error)
	AddSubcategory(ctx context.Context, categoryID string, name string) (*Subcategory, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

// GetTree loads the whole taxonomy in two queries. The tree is the single
// source of truth for every consumer: storefront navigation, the admin
// product forms, and report groupings.
func (r *repository) GetTree(ctx context.Context) ([]*Category, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "GetTree"),
	)

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, slug
		FROM categories
		ORDER BY name ASC
	`)
	if err != nil {
		log.Error("failed to query categories", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var categories []*Category
	byID := make(map[string]*Category)

	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Slug); err != nil {
			return nil, err
		}
		c.Subcategories = []*Subcategory{}
		categories = append(categories, &c)
		byID[c.ID] = &c
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	subRows, err := r.db.QueryContext(ctx, `
		SELECT id, category_id, name, slug
		FROM subcategories
		ORDER BY name ASC
	`)
	if err != nil {
		log.Error("failed to query subcategories", zap.Error(err))
		return nil, err
	}
	defer subRows.Close()

	for subRows.Next() {
		var s Subcategory
		if err := subRows.Scan(&s.ID, &s.CategoryID, &s.Name, &s.Slug); err != nil {
			return nil, err
		}
		if parent, ok := byID[s.CategoryID]; ok {
			parent.Subcategories = append(parent.Subcategories, &s)
		}
	}
	if err := subRows.Err(); err != nil {
		return nil, err
	}

	log.Debug("taxonomy loaded", zap.Int("categories", len(categories)))
	return categories, nil
}

func (r *repository) AddCategory(ctx context.Context, name string) (*Category, error) {
	c := &Category{
		ID:            uuid.New().String(),
		Name:          name,
		Slug:          utils.Slugify(name, ""),
		Subcategories: []*Subcategory{},
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO categories (id, name, slug)
		VALUES ($1, $2, $3)
	`, c.ID, c.Name, c.Slug)
	if err != nil {
		logger.FromCtx(ctx).Error("failed to insert category", zap.Error(err))
		return nil, err
	}

	return c, nil
}

func (r *repository) AddSubcategory(ctx context.Context, categoryID string, name string) (*Subcategory, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM categories WHERE id = $1)`, categoryID,
	).Scan(&exists)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrCategoryNotFound
	}

	s := &Subcategory{
		ID:         uuid.New().String(),
		CategoryID: categoryID,
		Name:       name,
		Slug:       utils.Slugify(name, ""),
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO subcategories (id, category_id, name, slug)
		VALUES ($1, $2, $3, $4)
	`, s.ID, s.CategoryID, s.Name, s.Slug)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}

	return s, nil
}
