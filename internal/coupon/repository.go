package coupon

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"strings"

	"dukani-be/internal/logger"

	"github.com/lib/pq"
	"go.uber.org/zap"
)

const pgUniqueViolation = "23505"

const couponColumns = `id, code, type, value, min_purchase, usage_limit, used_count,
	valid_from, valid_until, active, created_at, updated_at`

type Repository interface {
	Create(ctx context.Context, c *Coupon) error
	GetByCode(ctx context.Context, code string) (*Coupon, error)
	GetByID(ctx context.Context, id string) (*Coupon, error)
	GetAll(ctx context.Context) ([]Coupon, error)
	Update(ctx context.Context, input UpdateCoupon) (*Coupon, error)
	Delete(ctx context.Context, id string) error
	Redeem(ctx context.Context, code string) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func scanCoupon(row interface{ Scan(dest ...any) error }) (*Coupon, error) {
	var c Coupon
	err := row.Scan(
		&c.ID, &c.Code, &c.Type, &c.Value, &c.MinPurchase,
		&c.UsageLimit, &c.UsedCount, &c.ValidFrom, &c.ValidUntil,
		&c.Active, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *repository) Create(ctx context.Context, c *Coupon) error {
	query := `
		INSERT INTO coupons (id, code, type, value, min_purchase, usage_limit, valid_from, valid_until, active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query,
		c.ID, c.Code, c.Type, c.Value, c.MinPurchase,
		c.UsageLimit, c.ValidFrom, c.ValidUntil, c.Active,
	).Scan(&c.CreatedAt, &c.UpdatedAt)

	var pqErr *pq.Error
	if errors.As(err, &pqErr) && string(pqErr.Code) == pgUniqueViolation {
		return ErrDuplicateCode
	}
	if err != nil {
		logger.FromCtx(ctx).Error("failed to create coupon",
			zap.String("code", c.Code),
			zap.Error(err),
		)
		return err
	}

	return nil
}

func (r *repository) GetByCode(ctx context.Context, code string) (*Coupon, error) {
	query := `SELECT ` + couponColumns + ` FROM coupons WHERE UPPER(code) = UPPER($1)`

	c, err := scanCoupon(r.db.QueryRowContext(ctx, query, code))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCouponNotFound
	}
	return c, err
}

func (r *repository) GetByID(ctx context.Context, id string) (*Coupon, error) {
	query := `SELECT ` + couponColumns + ` FROM coupons WHERE id = $1`

	c, err := scanCoupon(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCouponNotFound
	}
	return c, err
}

func (r *repository) GetAll(ctx context.Context) ([]Coupon, error) {
	query := `SELECT ` + couponColumns + ` FROM coupons ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var coupons []Coupon
	for rows.Next() {
		c, err := scanCoupon(rows)
		if err != nil {
			return nil, err
		}
		coupons = append(coupons, *c)
	}

	return coupons, rows.Err()
}

func (r *repository) Update(ctx context.Context, input UpdateCoupon) (*Coupon, error) {
	var (
		setClauses []string
		args       []any
		argIndex   = 1
	)

	addField := func(column string, value any) {
		setClauses = append(setClauses, column+" = $"+strconv.Itoa(argIndex))
		args = append(args, value)
		argIndex++
	}

	if input.Value != nil {
		addField("value", *input.Value)
	}
	if input.MinPurchase != nil {
		addField("min_purchase", *input.MinPurchase)
	}
	if input.UsageLimit != nil {
		addField("usage_limit", *input.UsageLimit)
	}
	if input.ValidUntil != nil {
		addField("valid_until", *input.ValidUntil)
	}
	if input.Active != nil {
		addField("active", *input.Active)
	}
	if len(setClauses) == 0 {
		return nil, ErrNoFieldsToSet
	}

	setClauses = append(setClauses, "updated_at = NOW()")
	args = append(args, input.ID)

	query := `UPDATE coupons SET ` + strings.Join(setClauses, ", ") +
		` WHERE id = $` + strconv.Itoa(argIndex) + ` RETURNING ` + couponColumns

	c, err := scanCoupon(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCouponNotFound
	}
	return c, err
}

func (r *repository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM coupons WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrCouponNotFound
	}
	return nil
}

// Redeem bumps used_count atomically; the usage-limit check lives in
// the WHERE clause so concurrent redemptions cannot overshoot.
func (r *repository) Redeem(ctx context.Context, code string) error {
	query := `
		UPDATE coupons
		SET used_count = used_count + 1, updated_at = NOW()
		WHERE UPPER(code) = UPPER($1)
		  AND active
		  AND (usage_limit IS NULL OR used_count < usage_limit)`

	res, err := r.db.ExecContext(ctx, query, code)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		c, getErr := r.GetByCode(ctx, code)
		if getErr != nil {
			return getErr
		}
		if !c.Active {
			return ErrCouponInactive
		}
		return ErrCouponExhausted
	}

	return nil
}
