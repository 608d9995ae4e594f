package checkout

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"dukani-be/internal/logger"
	"dukani-be/internal/order"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Repository interface {
	AddCartItem(ctx context.Context, userID uint, productID string, qty int) (*CartItem, error)
	SetCartQuantity(ctx context.Context, userID uint, productID string, qty int) error
	RemoveCartItem(ctx context.Context, userID uint, productID string) error
	ClearCart(ctx context.Context, userID uint) error
	GetCart(ctx context.Context, userID uint) ([]CartItem, error)

	CreateSession(ctx context.Context, s *Session) error
	GetSession(ctx context.Context, id uuid.UUID) (*Session, error)
	UpdateSessionPricing(ctx context.Context, s *Session) error
	ReleaseSession(ctx context.Context, id uuid.UUID, status SessionStatus) error
	ConfirmTx(ctx context.Context, s *Session, o *order.Order) error
	GetOrderBySession(ctx context.Context, sessionID uuid.UUID) (*order.Order, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) AddCartItem(ctx context.Context, userID uint, productID string, qty int) (*CartItem, error) {
	if qty <= 0 {
		return nil, ErrQuantityNotAllowed
	}

	query := `
		INSERT INTO carts (id, user_id, product_id, quantity)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, product_id) DO UPDATE
		SET quantity = carts.quantity + $4, updated_at = NOW()
		RETURNING id, user_id, product_id, quantity, created_at, updated_at`

	var item CartItem
	err := r.db.QueryRowContext(ctx, query, uuid.New().String(), userID, productID, qty).
		Scan(&item.ID, &item.UserID, &item.ProductID, &item.Quantity, &item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		logger.FromCtx(ctx).Error("failed to add cart item",
			zap.Uint("user_id", userID),
			zap.String("product_id", productID),
			zap.Error(err),
		)
		return nil, err
	}

	return &item, nil
}

func (r *repository) SetCartQuantity(ctx context.Context, userID uint, productID string, qty int) error {
	if qty <= 0 {
		return ErrQuantityNotAllowed
	}

	res, err := r.db.ExecContext(ctx, `
		UPDATE carts
		SET quantity = $1, updated_at = NOW()
		WHERE user_id = $2 AND product_id = $3
	`, qty, userID, productID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrCartItemNotFound
	}
	return nil
}

func (r *repository) RemoveCartItem(ctx context.Context, userID uint, productID string) error {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM carts
		WHERE user_id = $1 AND product_id = $2
	`, userID, productID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrCartItemNotFound
	}
	return nil
}

func (r *repository) ClearCart(ctx context.Context, userID uint) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM carts WHERE user_id = $1`, userID)
	return err
}

func (r *repository) GetCart(ctx context.Context, userID uint) ([]CartItem, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "GetCart"),
		zap.Uint("user_id", userID),
	)

	start := time.Now()

	query := `
		SELECT
			c.id, c.user_id, c.product_id, c.quantity, c.created_at, c.updated_at,
			p.name, p.slug, p.sku, p.price,
			(SELECT pi.url FROM product_images pi
			 WHERE pi.product_id = p.id ORDER BY pi.position LIMIT 1),
			COALESCE(i.in_stock - i.reserved, 0)
		FROM carts c
		JOIN products p ON p.id = c.product_id
		LEFT JOIN inventory i ON i.product_id = p.id
		WHERE c.user_id = $1 AND p.status = 'active'
		ORDER BY c.created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		log.Error("query failed", zap.Error(err), zap.Duration("duration", time.Since(start)))
		return nil, err
	}
	defer rows.Close()

	var items []CartItem
	for rows.Next() {
		var item CartItem
		if err := rows.Scan(
			&item.ID, &item.UserID, &item.ProductID, &item.Quantity,
			&item.CreatedAt, &item.UpdatedAt,
			&item.ProductName, &item.Slug, &item.SKU, &item.Price,
			&item.ImageURL, &item.Available,
		); err != nil {
			log.Error("row scan failed", zap.Error(err))
			return nil, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	log.Debug("cart loaded",
		zap.Int("rows", len(items)),
		zap.Duration("duration", time.Since(start)),
	)
	return items, nil
}

// CreateSession inserts the session and its items and reserves stock for
// every line inside one transaction. A failed reservation aborts the whole
// session with ErrInsufficientStock.
func (r *repository) CreateSession(ctx context.Context, s *Session) error {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "CreateSession"),
		zap.String("session_id", s.ID.String()),
		zap.Int("item_count", len(s.Items)),
	)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("failed to begin transaction", zap.Error(err))
		return err
	}

	committed := false
	defer func() {
		if !committed {
			if rbErr := tx.Rollback(); rbErr != nil {
				log.Error("failed to rollback transaction", zap.Error(rbErr))
			}
		}
	}()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO checkout_sessions (
			id, user_id, status, subtotal, tax, shipping,
			discount, total, currency, expires_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
	`,
		s.ID, s.UserID, s.Status,
		s.Subtotal, s.Tax, s.Shipping, s.Discount, s.Total,
		s.Currency, s.ExpiresAt,
	)
	if err != nil {
		log.Error("failed to insert checkout session", zap.Error(err))
		return err
	}

	for i, item := range s.Items {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO checkout_session_items (
				id, checkout_session_id, product_id, product_name,
				sku, image_url, quantity, price, subtotal
			) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		`,
			item.ID, s.ID, item.ProductID, item.ProductName,
			item.SKU, item.ImageURL, item.Quantity, item.Price, item.Subtotal,
		)
		if err != nil {
			log.Error("failed to insert session item",
				zap.Int("item_index", i),
				zap.String("product_id", item.ProductID),
				zap.Error(err),
			)
			return err
		}

		res, err := tx.ExecContext(ctx, `
			UPDATE inventory
			SET reserved = reserved + $1, updated_at = NOW()
			WHERE product_id = $2 AND in_stock - reserved >= $1
		`, item.Quantity, item.ProductID)
		if err != nil {
			return err
		}
		if n, _ := res.RowsAffected(); n == 0 {
			log.Warn("reservation failed",
				zap.String("product_id", item.ProductID),
				zap.Int("quantity", item.Quantity),
			)
			return ErrInsufficientStock
		}
	}

	if err := tx.Commit(); err != nil {
		log.Error("failed to commit checkout session", zap.Error(err))
		return err
	}

	committed = true
	log.Info("checkout session created")
	return nil
}

func (r *repository) GetSession(ctx context.Context, id uuid.UUID) (*Session, error) {
	var s Session

	query := `
		SELECT
			id, user_id, status, expires_at, created_at, confirmed_at,
			address_id, coupon_code,
			subtotal, tax, shipping, discount, total, currency
		FROM checkout_sessions
		WHERE id = $1`

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&s.ID, &s.UserID, &s.Status, &s.ExpiresAt, &s.CreatedAt, &s.ConfirmedAt,
		&s.AddressID, &s.CouponCode,
		&s.Subtotal, &s.Tax, &s.Shipping, &s.Discount, &s.Total, &s.Currency,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, product_id, product_name, sku, image_url, quantity, price, subtotal
		FROM checkout_session_items
		WHERE checkout_session_id = $1
	`, s.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var item SessionItem
		if err := rows.Scan(
			&item.ID, &item.ProductID, &item.ProductName, &item.SKU,
			&item.ImageURL, &item.Quantity, &item.Price, &item.Subtotal,
		); err != nil {
			return nil, err
		}
		item.SessionID = s.ID
		s.Items = append(s.Items, item)
	}

	return &s, rows.Err()
}

func (r *repository) UpdateSessionPricing(ctx context.Context, s *Session) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE checkout_sessions
		SET address_id = $1,
		    coupon_code = $2,
		    shipping = $3,
		    tax = $4,
		    discount = $5,
		    total = $6
		WHERE id = $7 AND status = 'PENDING'
	`, s.AddressID, s.CouponCode, s.Shipping, s.Tax, s.Discount, s.Total, s.ID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrSessionNotPending
	}
	return nil
}

// ReleaseSession flips a pending session to the given terminal status and
// returns every stock reservation it held.
func (r *repository) ReleaseSession(ctx context.Context, id uuid.UUID, status SessionStatus) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		UPDATE checkout_sessions
		SET status = $1
		WHERE id = $2 AND status = 'PENDING'
	`, status, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrSessionNotPending
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE inventory i
		SET reserved = GREATEST(i.reserved - si.quantity, 0), updated_at = NOW()
		FROM checkout_session_items si
		WHERE si.checkout_session_id = $1 AND si.product_id = i.product_id
	`, id)
	if err != nil {
		return err
	}

	return tx.Commit()
}

// ConfirmTx turns a pending session into an order: order row, item rows,
// stock commit, session flip and cart cleanup all succeed or none do. The
// session-status guard makes a concurrent double confirm lose cleanly.
func (r *repository) ConfirmTx(ctx context.Context, s *Session, o *order.Order) error {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "ConfirmTx"),
		zap.String("session_id", s.ID.String()),
	)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	committed := false
	defer func() {
		if !committed {
			if rbErr := tx.Rollback(); rbErr != nil {
				log.Error("failed to rollback transaction", zap.Error(rbErr))
			}
		}
	}()

	res, err := tx.ExecContext(ctx, `
		UPDATE checkout_sessions
		SET status = 'PAID', confirmed_at = NOW()
		WHERE id = $1 AND status = 'PENDING'
	`, s.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrSessionNotPending
	}

	err = tx.QueryRowContext(ctx, `
		INSERT INTO orders (
			order_number, user_id, checkout_session_id,
			status, payment_status,
			subtotal, shipping, tax, discount, total,
			ship_name, ship_phone, ship_line1, ship_line2,
			ship_city, ship_region, ship_postal, ship_country,
			bill_name, bill_phone, bill_line1, bill_line2,
			bill_city, bill_region, bill_postal, bill_country,
			billing_same_as_shipping, paid_at
		) VALUES (
			$1,$2,$3,$4,$5,$6,$7,$8,$9,$10,
			$11,$12,$13,$14,$15,$16,$17,$18,
			$19,$20,$21,$22,$23,$24,$25,$26,
			$27, NOW()
		)
		RETURNING id, created_at, updated_at
	`,
		o.OrderNumber, o.UserID, s.ID,
		o.Status, o.PaymentStatus,
		o.Subtotal, o.Shipping, o.Tax, o.Discount, o.Total,
		o.ShippingAddress.FullName, o.ShippingAddress.Phone,
		o.ShippingAddress.Line1, o.ShippingAddress.Line2,
		o.ShippingAddress.City, o.ShippingAddress.Region,
		o.ShippingAddress.PostalCode, o.ShippingAddress.Country,
		o.BillingAddress.FullName, o.BillingAddress.Phone,
		o.BillingAddress.Line1, o.BillingAddress.Line2,
		o.BillingAddress.City, o.BillingAddress.Region,
		o.BillingAddress.PostalCode, o.BillingAddress.Country,
		o.BillingSameAsShipping,
	).Scan(&o.ID, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		log.Error("failed to insert order", zap.Error(err))
		return err
	}

	for _, item := range s.Items {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO order_items (order_id, product_id, name, sku, price, quantity)
			VALUES ($1,$2,$3,$4,$5,$6)
		`, o.ID, item.ProductID, item.ProductName, item.SKU, item.Price, item.Quantity)
		if err != nil {
			return err
		}

		res, err := tx.ExecContext(ctx, `
			UPDATE inventory
			SET in_stock = in_stock - $1,
			    reserved = GREATEST(reserved - $1, 0),
			    updated_at = NOW()
			WHERE product_id = $2 AND in_stock >= $1
		`, item.Quantity, item.ProductID)
		if err != nil {
			return err
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return ErrInsufficientStock
		}
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM carts WHERE user_id = $1`, s.UserID); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		log.Error("failed to commit order transaction", zap.Error(err))
		return err
	}

	committed = true
	log.Info("order created from checkout session",
		zap.Uint("order_id", o.ID),
		zap.String("order_number", o.OrderNumber),
	)
	return nil
}

func (r *repository) GetOrderBySession(ctx context.Context, sessionID uuid.UUID) (*order.Order, error) {
	query := `
		SELECT id, order_number, status, payment_status, total
		FROM orders
		WHERE checkout_session_id = $1`

	var o order.Order
	err := r.db.QueryRowContext(ctx, query, sessionID).
		Scan(&o.ID, &o.OrderNumber, &o.Status, &o.PaymentStatus, &o.Total)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &o, nil
}
