package inventory

import (
	"context"
	"database/sql"

	"dukani-be/internal/logger"

	"github.com/lib/pq"
	"go.uber.org/zap"
)

type Repository interface {
	Get(ctx context.Context, productID string) (*Level, error)
	GetMany(ctx context.Context, productIDs []string) (map[string]Level, error)
	Adjust(ctx context.Context, productID string, delta int) (*Level, error)
	Reserve(ctx context.Context, productID string, qty int) error
	Release(ctx context.Context, productID string, qty int) error
	Commit(ctx context.Context, productID string, qty int) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Get(ctx context.Context, productID string) (*Level, error) {
	query := `
		SELECT product_id, in_stock, reserved, updated_at
		FROM inventory
		WHERE product_id = $1`

	var l Level
	err := r.db.QueryRowContext(ctx, query, productID).
		Scan(&l.ProductID, &l.InStock, &l.Reserved, &l.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrLevelNotFound
	}
	if err != nil {
		logger.FromCtx(ctx).Error("failed to fetch inventory level",
			zap.String("product_id", productID),
			zap.Error(err),
		)
		return nil, err
	}

	return &l, nil
}

func (r *repository) GetMany(ctx context.Context, productIDs []string) (map[string]Level, error) {
	levels := make(map[string]Level, len(productIDs))
	if len(productIDs) == 0 {
		return levels, nil
	}

	query := `
		SELECT product_id, in_stock, reserved, updated_at
		FROM inventory
		WHERE product_id = ANY($1)`

	rows, err := r.db.QueryContext(ctx, query, pq.Array(productIDs))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var l Level
		if err := rows.Scan(&l.ProductID, &l.InStock, &l.Reserved, &l.UpdatedAt); err != nil {
			return nil, err
		}
		levels[l.ProductID] = l
	}

	return levels, rows.Err()
}

// Adjust moves on-hand stock by delta. The guard keeps on-hand from
// dropping below what is currently reserved.
func (r *repository) Adjust(ctx context.Context, productID string, delta int) (*Level, error) {
	query := `
		INSERT INTO inventory (product_id, in_stock, reserved, updated_at)
		VALUES ($1, GREATEST($2, 0), 0, NOW())
		ON CONFLICT (product_id) DO UPDATE
		SET in_stock = inventory.in_stock + $2, updated_at = NOW()
		WHERE inventory.in_stock + $2 >= inventory.reserved
		RETURNING product_id, in_stock, reserved, updated_at`

	var l Level
	err := r.db.QueryRowContext(ctx, query, productID, delta).
		Scan(&l.ProductID, &l.InStock, &l.Reserved, &l.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNegativeStock
	}
	if err != nil {
		logger.FromCtx(ctx).Error("failed to adjust inventory",
			zap.String("product_id", productID),
			zap.Int("delta", delta),
			zap.Error(err),
		)
		return nil, err
	}

	return &l, nil
}

// Reserve holds qty units for an open checkout. The WHERE clause is the
// oversell guard: zero rows means the product is unknown or available
// stock is short.
func (r *repository) Reserve(ctx context.Context, productID string, qty int) error {
	query := `
		UPDATE inventory
		SET reserved = reserved + $2, updated_at = NOW()
		WHERE product_id = $1 AND in_stock - reserved >= $2`

	res, err := r.db.ExecContext(ctx, query, productID, qty)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		if _, getErr := r.Get(ctx, productID); getErr != nil {
			return getErr
		}
		return ErrInsufficientStock
	}

	return nil
}

// Release returns a hold without touching on-hand stock, e.g. when a
// checkout session expires or is cancelled.
func (r *repository) Release(ctx context.Context, productID string, qty int) error {
	query := `
		UPDATE inventory
		SET reserved = GREATEST(reserved - $2, 0), updated_at = NOW()
		WHERE product_id = $1`

	res, err := r.db.ExecContext(ctx, query, productID, qty)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrLevelNotFound
	}

	return nil
}

// Commit converts a hold into a sale: both reserved and on-hand drop.
func (r *repository) Commit(ctx context.Context, productID string, qty int) error {
	query := `
		UPDATE inventory
		SET in_stock = in_stock - $2,
		    reserved = GREATEST(reserved - $2, 0),
		    updated_at = NOW()
		WHERE product_id = $1 AND in_stock >= $2`

	res, err := r.db.ExecContext(ctx, query, productID, qty)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		if _, getErr := r.Get(ctx, productID); getErr != nil {
			return getErr
		}
		return ErrInsufficientStock
	}

	return nil
}
