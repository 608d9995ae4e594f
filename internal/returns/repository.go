package returns

import (
	"context"
	"database/sql"
	"errors"

	"dukani-be/internal/logger"

	"go.uber.org/zap"
)

type Repository interface {
	Create(ctx context.Context, ret *Return) error
	GetByID(ctx context.Context, id uint) (*Return, error)
	// FetchAll loads the whole table; filtering happens in memory at the
	// service via the pure selector (demo-scale surface).
	FetchAll(ctx context.Context) ([]*Return, error)
	UpdateStatus(ctx context.Context, id uint, from, to Status, refundStatus *string) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, ret *Return) error {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "CreateReturn"),
		zap.Uint("order_id", ret.OrderID),
	)

	err := r.db.QueryRowContext(ctx, `
		INSERT INTO returns (order_id, status, refund_status, refund_amount, reason)
		SELECT o.id, $2, $3, $4, $5
		FROM orders o WHERE o.id = $1
		RETURNING id, created_at, updated_at
	`, ret.OrderID, ret.Status, ret.RefundStatus, ret.RefundAmount, ret.Reason,
	).Scan(&ret.ID, &ret.CreatedAt, &ret.UpdatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return ErrOrderNotFound
	}
	if err != nil {
		log.Error("failed to insert return", zap.Error(err))
		return err
	}

	return nil
}

const returnColumns = `
	r.id, r.order_id, o.order_number,
	r.status, r.refund_status, r.refund_amount, r.reason,
	r.created_at, r.updated_at, r.resolved_at
`

func (r *repository) GetByID(ctx context.Context, id uint) (*Return, error) {
	var ret Return
	err := r.db.QueryRowContext(ctx, `
		SELECT `+returnColumns+`
		FROM returns r
		JOIN orders o ON o.id = r.order_id
		WHERE r.id = $1
	`, id).Scan(
		&ret.ID, &ret.OrderID, &ret.OrderNumber,
		&ret.Status, &ret.RefundStatus, &ret.RefundAmount, &ret.Reason,
		&ret.CreatedAt, &ret.UpdatedAt, &ret.ResolvedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrReturnNotFound
	}
	if err != nil {
		return nil, err
	}
	return &ret, nil
}

func (r *repository) FetchAll(ctx context.Context) ([]*Return, error) {
	log := logger.FromCtx(ctx).With(zap.String("method", "FetchAllReturns"))

	rows, err := r.db.QueryContext(ctx, `
		SELECT `+returnColumns+`
		FROM returns r
		JOIN orders o ON o.id = r.order_id
		ORDER BY r.created_at DESC
	`)
	if err != nil {
		log.Error("failed to query returns", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var out []*Return
	for rows.Next() {
		var ret Return
		if err := rows.Scan(
			&ret.ID, &ret.OrderID, &ret.OrderNumber,
			&ret.Status, &ret.RefundStatus, &ret.RefundAmount, &ret.Reason,
			&ret.CreatedAt, &ret.UpdatedAt, &ret.ResolvedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, &ret)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	log.Debug("returns loaded", zap.Int("count", len(out)))
	return out, nil
}

// UpdateStatus is compare-and-set on the previous status so two admins
// resolving the same return cannot double-book it.
func (r *repository) UpdateStatus(ctx context.Context, id uint, from, to Status, refundStatus *string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE returns
		SET status = $1,
			refund_status = COALESCE($2, refund_status),
			resolved_at = CASE WHEN $1 IN ('completed', 'rejected') THEN NOW() ELSE resolved_at END,
			updated_at = NOW()
		WHERE id = $3 AND status = $4
	`, to, refundStatus, id, from)
	if err != nil {
		return err
	}

	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrReturnNotFound
	}
	return nil
}
