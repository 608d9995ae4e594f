package product

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"dukani-be/internal/logger"

	"github.com/lib/pq"
	"go.uber.org/zap"
)

type Repository interface {
	Create(ctx context.Context, p *Product) error
	GetByID(ctx context.Context, id string, includeDisabled bool) (*Product, error)
	GetBySlug(ctx context.Context, slug string) (*Product, error)
	GetList(ctx context.Context, opts QueryOptions) ([]*Product, *int, error)
	Update(ctx context.Context, input UpdateProduct) (*Product, error)
	Delete(ctx context.Context, id string) error
	SetImages(ctx context.Context, productID string, images []Image) error
	GetImage(ctx context.Context, productID, path string) (*Image, error)
	RemoveImage(ctx context.Context, productID, path string) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, p *Product) error {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "CreateProduct"),
		zap.String("product_id", p.ID),
	)

	err := r.db.QueryRowContext(ctx, `
		INSERT INTO products (
			id, name, slug, description,
			price, compare_at_price, sku,
			category_id, subcategory_id, status
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
		RETURNING created_at, updated_at
	`,
		p.ID, p.Name, p.Slug, p.Description,
		p.Price, p.CompareAtPrice, p.SKU,
		p.CategoryID, p.SubcategoryID, p.Status,
	).Scan(&p.CreatedAt, &p.UpdatedAt)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == PgUniqueViolation {
			return ErrDuplicateSKU
		}
		log.Error("failed to insert product", zap.Error(err))
		return err
	}

	return nil
}

const productColumns = `
	p.id, p.name, p.slug, p.description,
	p.price, p.compare_at_price, p.sku,
	p.category_id, p.subcategory_id, p.status,
	p.created_at, p.updated_at
`

func (r *repository) scanProduct(row *sql.Row) (*Product, error) {
	var p Product
	err := row.Scan(
		&p.ID, &p.Name, &p.Slug, &p.Description,
		&p.Price, &p.CompareAtPrice, &p.SKU,
		&p.CategoryID, &p.SubcategoryID, &p.Status,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repository) GetByID(ctx context.Context, id string, includeDisabled bool) (*Product, error) {
	query := `SELECT ` + productColumns + ` FROM products p WHERE p.id = $1`
	if !includeDisabled {
		query += ` AND p.status = 'active'`
	}

	p, err := r.scanProduct(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, err
	}

	if err := r.loadImages(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (r *repository) GetBySlug(ctx context.Context, slug string) (*Product, error) {
	query := `SELECT ` + productColumns + ` FROM products p WHERE p.slug = $1 AND p.status = 'active'`

	p, err := r.scanProduct(r.db.QueryRowContext(ctx, query, slug))
	if err != nil {
		return nil, err
	}

	if err := r.loadImages(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (r *repository) loadImages(ctx context.Context, p *Product) error {
	rows, err := r.db.QueryContext(ctx, `
		SELECT url, path, position
		FROM product_images
		WHERE product_id = $1
		ORDER BY position ASC
	`, p.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var img Image
		if err := rows.Scan(&img.URL, &img.Path, &img.Position); err != nil {
			return err
		}
		p.Images = append(p.Images, img)
	}
	return rows.Err()
}

// GetList filters, sorts and pages in SQL; the storefront and the admin
// product table share it.
func (r *repository) GetList(ctx context.Context, opts QueryOptions) ([]*Product, *int, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "GetProductList"),
	)

	where := ` WHERE 1=1`
	args := []any{}
	argIndex := 1

	if !opts.IncludeDisabled {
		where += ` AND p.status = 'active'`
	}

	if opts.Search != "" {
		where += fmt.Sprintf(" AND (p.name ILIKE $%d OR p.sku ILIKE $%d OR p.slug ILIKE $%d)",
			argIndex, argIndex, argIndex)
		args = append(args, "%"+opts.Search+"%")
		argIndex++
	}

	if opts.CategoryID != "" {
		where += fmt.Sprintf(" AND p.category_id = $%d", argIndex)
		args = append(args, opts.CategoryID)
		argIndex++
	}

	if opts.Status != "" {
		where += fmt.Sprintf(" AND p.status = $%d", argIndex)
		args = append(args, opts.Status)
		argIndex++
	}

	if opts.MinPrice != nil {
		where += fmt.Sprintf(" AND p.price >= $%d", argIndex)
		args = append(args, *opts.MinPrice)
		argIndex++
	}

	if opts.MaxPrice != nil {
		where += fmt.Sprintf(" AND p.price <= $%d", argIndex)
		args = append(args, *opts.MaxPrice)
		argIndex++
	}

	if opts.InStock != nil && *opts.InStock {
		where += ` AND EXISTS (
			SELECT 1 FROM inventory i
			WHERE i.product_id = p.id AND i.in_stock - i.reserved > 0
		)`
	}

	var total *int
	if opts.IncludeCount {
		var count int
		countQuery := `SELECT COUNT(*) FROM products p` + where
		if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&count); err != nil {
			log.Error("failed to count products", zap.Error(err))
			return nil, nil, err
		}
		total = &count
	}

	query := `SELECT ` + productColumns + ` FROM products p` + where +
		fmt.Sprintf(" ORDER BY p.created_at DESC LIMIT $%d OFFSET $%d", argIndex, argIndex+1)
	args = append(args, opts.Limit, (opts.Page-1)*opts.Limit)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to query products", zap.Error(err))
		return nil, nil, err
	}
	defer rows.Close()

	var products []*Product
	for rows.Next() {
		var p Product
		if err := rows.Scan(
			&p.ID, &p.Name, &p.Slug, &p.Description,
			&p.Price, &p.CompareAtPrice, &p.SKU,
			&p.CategoryID, &p.SubcategoryID, &p.Status,
			&p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return nil, nil, err
		}
		products = append(products, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, err
	}

	log.Info("product list fetched", zap.Int("count", len(products)))
	return products, total, nil
}

// Update writes only the provided fields.
func (r *repository) Update(ctx context.Context, input UpdateProduct) (*Product, error) {
	set := "updated_at = NOW()"
	args := []any{}
	argIndex := 1

	addField := func(col string, val any) {
		set += fmt.Sprintf(", %s = $%d", col, argIndex)
		args = append(args, val)
		argIndex++
	}

	if input.Name != nil {
		addField("name", *input.Name)
	}
	if input.Description != nil {
		addField("description", *input.Description)
	}
	if input.Price != nil {
		addField("price", *input.Price)
	}
	if input.CompareAtPrice != nil {
		addField("compare_at_price", *input.CompareAtPrice)
	}
	if input.SKU != nil {
		addField("sku", *input.SKU)
	}
	if input.CategoryID != nil {
		addField("category_id", *input.CategoryID)
	}
	if input.SubcategoryID != nil {
		addField("subcategory_id", *input.SubcategoryID)
	}
	if input.Status != nil {
		addField("status", *input.Status)
	}

	query := fmt.Sprintf(`UPDATE products SET %s WHERE id = $%d`, set, argIndex)
	args = append(args, input.ID)

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}

	affected, _ := res.RowsAffected()
	if affected == 0 {
		return nil, ErrProductNotFound
	}

	return r.GetByID(ctx, input.ID, true)
}

func (r *repository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return err
	}

	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrProductNotFound
	}
	return nil
}

// SetImages replaces the product's image rows in one transaction.
func (r *repository) SetImages(ctx context.Context, productID string, images []Image) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM product_images WHERE product_id = $1`, productID,
	); err != nil {
		return err
	}

	for _, img := range images {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO product_images (product_id, url, path, position)
			VALUES ($1, $2, $3, $4)
		`, productID, img.URL, img.Path, img.Position); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *repository) GetImage(ctx context.Context, productID, path string) (*Image, error) {
	var img Image
	err := r.db.QueryRowContext(ctx, `
		SELECT url, path, position
		FROM product_images
		WHERE product_id = $1 AND path = $2
	`, productID, path).Scan(&img.URL, &img.Path, &img.Position)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrImageNotFound
	}
	if err != nil {
		return nil, err
	}
	return &img, nil
}

func (r *repository) RemoveImage(ctx context.Context, productID, path string) error {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM product_images
		WHERE product_id = $1 AND path = $2
	`, productID, path)
	if err != nil {
		return err
	}

	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrImageNotFound
	}
	return nil
}
