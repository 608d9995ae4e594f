package address

import (
	"context"
	"database/sql"
	"errors"

	"dukani-be/internal/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Repository interface {
	Create(ctx context.Context, a *Address) error
	GetByID(ctx context.Context, id uuid.UUID) (*Address, error)
	GetByUserID(ctx context.Context, userID uint) ([]*Address, error)
	Deactivate(ctx context.Context, id uuid.UUID) error
	ClearDefault(ctx context.Context, userID uint) error
	SetDefault(ctx context.Context, userID uint, id uuid.UUID) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

const addressColumns = `id, user_id, full_name, phone, line1, line2,
	city, region, postal_code, country, is_default, is_active`

func scanAddress(row interface{ Scan(dest ...any) error }) (*Address, error) {
	var a Address
	err := row.Scan(
		&a.ID, &a.UserID, &a.FullName, &a.Phone, &a.Line1, &a.Line2,
		&a.City, &a.Region, &a.PostalCode, &a.Country, &a.IsDefault, &a.IsActive,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *repository) Create(ctx context.Context, a *Address) error {
	query := `
		INSERT INTO addresses (
			id, user_id, full_name, phone, line1, line2,
			city, region, postal_code, country, is_default, is_active
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)`

	_, err := r.db.ExecContext(ctx, query,
		a.ID, a.UserID, a.FullName, a.Phone, a.Line1, a.Line2,
		a.City, a.Region, a.PostalCode, a.Country, a.IsDefault, a.IsActive,
	)
	if err != nil {
		logger.FromCtx(ctx).Error("failed to insert address",
			zap.String("address_id", a.ID.String()),
			zap.Error(err),
		)
	}
	return err
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Address, error) {
	query := `SELECT ` + addressColumns + ` FROM addresses WHERE id = $1`

	a, err := scanAddress(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAddressNotFound
	}
	return a, err
}

func (r *repository) GetByUserID(ctx context.Context, userID uint) ([]*Address, error) {
	query := `
		SELECT ` + addressColumns + `
		FROM addresses
		WHERE user_id = $1 AND is_active
		ORDER BY is_default DESC, created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var addresses []*Address
	for rows.Next() {
		a, err := scanAddress(rows)
		if err != nil {
			return nil, err
		}
		addresses = append(addresses, a)
	}

	return addresses, rows.Err()
}

func (r *repository) Deactivate(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE addresses SET is_active = FALSE, is_default = FALSE
		WHERE id = $1
	`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrAddressNotFound
	}
	return nil
}

func (r *repository) ClearDefault(ctx context.Context, userID uint) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE addresses SET is_default = FALSE
		WHERE user_id = $1 AND is_default
	`, userID)
	return err
}

func (r *repository) SetDefault(ctx context.Context, userID uint, id uuid.UUID) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		UPDATE addresses SET is_default = FALSE
		WHERE user_id = $1 AND is_default
	`, userID); err != nil {
		return err
	}

	res, err := tx.ExecContext(ctx, `
		UPDATE addresses SET is_default = TRUE
		WHERE id = $1 AND user_id = $2 AND is_active
	`, id, userID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrAddressNotFound
	}

	return tx.Commit()
}
