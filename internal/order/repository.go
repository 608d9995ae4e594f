package order

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"dukani-be/internal/logger"
	"dukani-be/internal/money"
	"dukani-be/internal/utils"

	"go.uber.org/zap"
)

type Repository interface {
	FetchOrders(ctx context.Context, filter *FilterInput, sort *SortInput, limit, offset int32) ([]*Order, error)
	CountOrders(ctx context.Context, filter *FilterInput) (int64, error)
	GetOrderDetail(ctx context.Context, orderID uint) (*Order, error)
	UpdateStatusCAS(ctx context.Context, orderID uint, from, to Status, at time.Time) error
	UpdateCharges(ctx context.Context, o *Order) error
	UpdatePaymentStatus(ctx context.Context, orderID uint, status PaymentStatus, paidAt *time.Time) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

const orderColumns = `
	o.id, o.order_number, o.user_id,
	o.status, o.payment_status,
	o.subtotal, o.shipping, o.tax, o.discount, o.total,
	o.created_at, o.updated_at,
	o.shipped_at, o.delivered_at, o.cancelled_at, o.paid_at
`

func scanOrder(scan func(dest ...any) error) (*Order, error) {
	var o Order
	err := scan(
		&o.ID, &o.OrderNumber, &o.UserID,
		&o.Status, &o.PaymentStatus,
		&o.Subtotal, &o.Shipping, &o.Tax, &o.Discount, &o.Total,
		&o.CreatedAt, &o.UpdatedAt,
		&o.ShippedAt, &o.DeliveredAt, &o.CancelledAt, &o.PaidAt,
	)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// FetchOrders is the one server-paginated admin surface: filtering,
// sorting and paging all happen in SQL.
func (r *repository) FetchOrders(
	ctx context.Context,
	filter *FilterInput,
	sort *SortInput,
	limit, offset int32,
) ([]*Order, error) {

	userID, _ := utils.GetUserIDFromContext(ctx)
	isAdmin := utils.IsAdmin(ctx)

	log := logger.FromCtx(ctx).With(
		zap.String("method", "FetchOrders"),
		zap.Bool("is_admin", isAdmin),
		zap.Int32("limit", limit),
		zap.Int32("offset", offset),
	)

	query := `SELECT ` + orderColumns + ` FROM orders o WHERE 1=1`

	args := []any{}
	argIndex := 1

	if !isAdmin {
		query += fmt.Sprintf(" AND o.user_id = $%d", argIndex)
		args = append(args, userID)
		argIndex++
	}

	if filter != nil {
		if filter.Search != nil && *filter.Search != "" {
			query += fmt.Sprintf(
				" AND (o.order_number ILIKE $%d OR o.id::text ILIKE $%d)",
				argIndex, argIndex,
			)
			args = append(args, "%"+*filter.Search+"%")
			argIndex++
		}

		if filter.Status != nil && *filter.Status != "" {
			query += fmt.Sprintf(" AND o.status = $%d", argIndex)
			args = append(args, *filter.Status)
			argIndex++
		}

		if filter.PaymentStatus != nil && *filter.PaymentStatus != "" {
			query += fmt.Sprintf(" AND o.payment_status = $%d", argIndex)
			args = append(args, *filter.PaymentStatus)
			argIndex++
		}

		if filter.DateFrom != nil {
			query += fmt.Sprintf(" AND o.created_at >= $%d", argIndex)
			args = append(args, *filter.DateFrom)
			argIndex++
		}

		if filter.DateTo != nil {
			query += fmt.Sprintf(" AND o.created_at <= $%d", argIndex)
			args = append(args, *filter.DateTo)
			argIndex++
		}
	}

	orderBy := "o.created_at DESC"
	if sort != nil {
		dir := strings.ToUpper(string(sort.Direction))
		if dir != "ASC" && dir != "DESC" {
			dir = "DESC"
		}

		switch sort.Field {
		case SortFieldTotal:
			orderBy = "o.total " + dir
		case SortFieldCreatedAt:
			orderBy = "o.created_at " + dir
		}
	}

	query += " ORDER BY " + orderBy
	query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", argIndex, argIndex+1)
	args = append(args, limit, offset)

	log.Debug("executing fetch orders query", zap.String("query", query))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to query orders", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var orders []*Order
	for rows.Next() {
		o, err := scanOrder(rows.Scan)
		if err != nil {
			log.Error("failed to scan order row", zap.Error(err))
			return nil, err
		}
		orders = append(orders, o)
	}

	if err := rows.Err(); err != nil {
		log.Error("rows iteration error", zap.Error(err))
		return nil, err
	}

	log.Info("fetch orders success", zap.Int("count", len(orders)))
	return orders, nil
}

func (r *repository) CountOrders(ctx context.Context, filter *FilterInput) (int64, error) {
	userID, _ := utils.GetUserIDFromContext(ctx)
	isAdmin := utils.IsAdmin(ctx)

	query := `SELECT COUNT(*) FROM orders o WHERE 1=1`
	args := []any{}
	argIndex := 1

	if !isAdmin {
		query += fmt.Sprintf(" AND o.user_id = $%d", argIndex)
		args = append(args, userID)
		argIndex++
	}

	if filter != nil {
		if filter.Status != nil && *filter.Status != "" {
			query += fmt.Sprintf(" AND o.status = $%d", argIndex)
			args = append(args, *filter.Status)
			argIndex++
		}
		if filter.DateFrom != nil {
			query += fmt.Sprintf(" AND o.created_at >= $%d", argIndex)
			args = append(args, *filter.DateFrom)
			argIndex++
		}
		if filter.DateTo != nil {
			query += fmt.Sprintf(" AND o.created_at <= $%d", argIndex)
			args = append(args, *filter.DateTo)
			argIndex++
		}
	}

	var total int64
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&total)
	return total, err
}

func (r *repository) GetOrderDetail(ctx context.Context, orderID uint) (*Order, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("method", "GetOrderDetail"),
		zap.Uint("order_id", orderID),
	)

	query := `
		SELECT ` + orderColumns + `,
			o.ship_name, o.ship_phone, o.ship_line1, o.ship_line2,
			o.ship_city, o.ship_region, o.ship_postal, o.ship_country,
			o.bill_name, o.bill_phone, o.bill_line1, o.bill_line2,
			o.bill_city, o.bill_region, o.bill_postal, o.bill_country,
			o.billing_same_as_shipping
		FROM orders o
		WHERE o.id = $1
	`

	var o Order
	err := r.db.QueryRowContext(ctx, query, orderID).Scan(
		&o.ID, &o.OrderNumber, &o.UserID,
		&o.Status, &o.PaymentStatus,
		&o.Subtotal, &o.Shipping, &o.Tax, &o.Discount, &o.Total,
		&o.CreatedAt, &o.UpdatedAt,
		&o.ShippedAt, &o.DeliveredAt, &o.CancelledAt, &o.PaidAt,
		&o.ShippingAddress.FullName, &o.ShippingAddress.Phone,
		&o.ShippingAddress.Line1, &o.ShippingAddress.Line2,
		&o.ShippingAddress.City, &o.ShippingAddress.Region,
		&o.ShippingAddress.PostalCode, &o.ShippingAddress.Country,
		&o.BillingAddress.FullName, &o.BillingAddress.Phone,
		&o.BillingAddress.Line1, &o.BillingAddress.Line2,
		&o.BillingAddress.City, &o.BillingAddress.Region,
		&o.BillingAddress.PostalCode, &o.BillingAddress.Country,
		&o.BillingSameAsShipping,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		log.Error("failed to query order", zap.Error(err))
		return nil, err
	}

	if o.BillingSameAsShipping {
		o.BillingAddress = o.ShippingAddress
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT oi.id, oi.order_id, oi.product_id, oi.name, oi.price, oi.quantity, oi.sku
		FROM order_items oi
		WHERE oi.order_id = $1
		ORDER BY oi.id ASC
	`, orderID)
	if err != nil {
		log.Error("failed to query order items", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var item OrderItem
		if err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.Name, &item.Price, &item.Quantity, &item.SKU); err != nil {
			return nil, err
		}
		o.Items = append(o.Items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &o, nil
}

// statusStampColumn maps a destination status to the timestamp column the
// transition fills in.
var statusStampColumn = map[Status]string{
	StatusShipped:   "shipped_at",
	StatusDelivered: "delivered_at",
	StatusCancelled: "cancelled_at",
}

// UpdateStatusCAS persists a transition with a compare-and-set on the
// current status so a concurrent editor cannot silently overwrite it.
func (r *repository) UpdateStatusCAS(ctx context.Context, orderID uint, from, to Status, at time.Time) error {
	query := `UPDATE orders SET status = $1, updated_at = $2`
	args := []any{to, at}
	argIndex := 3

	if col, ok := statusStampColumn[to]; ok {
		query += fmt.Sprintf(", %s = $%d", col, argIndex)
		args = append(args, at)
		argIndex++
	}

	query += fmt.Sprintf(" WHERE id = $%d AND status = $%d", argIndex, argIndex+1)
	args = append(args, orderID, from)

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}

	affected, _ := res.RowsAffected()
	if affected == 0 {
		// Either the order is gone or someone moved it first.
		var current Status
		err := r.db.QueryRowContext(ctx, `SELECT status FROM orders WHERE id = $1`, orderID).Scan(&current)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrOrderNotFound
		}
		if err != nil {
			return err
		}
		return ErrStaleStatus
	}

	return nil
}

// UpdateCharges writes the editable charge fields along with the derived
// subtotal and total, keeping the invariant intact in storage.
func (r *repository) UpdateCharges(ctx context.Context, o *Order) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE orders
		SET subtotal = $1, shipping = $2, tax = $3, discount = $4, total = $5,
			updated_at = NOW()
		WHERE id = $6
	`, o.Subtotal, o.Shipping, o.Tax, o.Discount, o.Total, o.ID)
	if err != nil {
		return err
	}

	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrOrderNotFound
	}
	return nil
}

func (r *repository) UpdatePaymentStatus(ctx context.Context, orderID uint, status PaymentStatus, paidAt *time.Time) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE orders
		SET payment_status = $1, paid_at = COALESCE($2, paid_at), updated_at = NOW()
		WHERE id = $3
	`, status, paidAt, orderID)
	if err != nil {
		return err
	}

	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrOrderNotFound
	}
	return nil
}

// RefundTotals compares a refund amount against the order total; used by
// the returns flow to pick refunded vs partially_refunded.
func RefundTotals(orderTotal, refund money.Cents) PaymentStatus {
	if refund >= orderTotal {
		return PaymentRefunded
	}
	return PaymentPartiallyRefunded
}
