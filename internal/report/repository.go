package report

import (
	"context"
	"database/sql"
	"time"

	"dukani-be/internal/logger"
	"dukani-be/internal/money"

	"go.uber.org/zap"
)

type Repository interface {
	Summarize(ctx context.Context, r Range) (*SalesSummary, error)
	TopProducts(ctx context.Context, r Range, limit int) ([]TopProduct, error)
	StatusCounts(ctx context.Context, r Range) (map[string]int, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

// Cancelled orders are excluded from revenue figures; refunds come from
// completed returns inside the same window.
func (r *repository) Summarize(ctx context.Context, rng Range) (*SalesSummary, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "Summarize"),
		zap.Time("date_from", rng.DateFrom),
		zap.Time("date_to", rng.DateTo),
	)

	start := time.Now()

	query := `
		SELECT
			COUNT(*),
			COALESCE(SUM(o.total), 0),
			COALESCE(SUM(o.discount), 0),
			COALESCE((
				SELECT SUM(oi.quantity)
				FROM order_items oi
				JOIN orders o2 ON o2.id = oi.order_id
				WHERE o2.created_at >= $1 AND o2.created_at <= $2
				  AND o2.status <> 'cancelled'
			), 0),
			COALESCE((
				SELECT SUM(ret.refund_amount)
				FROM returns ret
				WHERE ret.status = 'completed'
				  AND ret.resolved_at >= $1 AND ret.resolved_at <= $2
			), 0)
		FROM orders o
		WHERE o.created_at >= $1 AND o.created_at <= $2
		  AND o.status <> 'cancelled'`

	var (
		s         SalesSummary
		gross     money.Cents
		discounts money.Cents
		refunds   money.Cents
	)
	err := r.db.QueryRowContext(ctx, query, rng.DateFrom, rng.DateTo).
		Scan(&s.OrderCount, &gross, &discounts, &s.ItemsSold, &refunds)
	if err != nil {
		log.Error("summary query failed", zap.Error(err))
		return nil, err
	}

	s.Range = rng
	s.GrossRevenue = gross
	s.Discounts = discounts
	s.Refunds = refunds
	s.NetRevenue = gross - refunds
	if s.OrderCount > 0 {
		s.AverageOrder = gross / money.Cents(s.OrderCount)
	}

	log.Debug("summary computed",
		zap.Int("orders", s.OrderCount),
		zap.Duration("duration", time.Since(start)),
	)
	return &s, nil
}

func (r *repository) TopProducts(ctx context.Context, rng Range, limit int) ([]TopProduct, error) {
	query := `
		SELECT oi.product_id, oi.name, SUM(oi.quantity), SUM(oi.price * oi.quantity)
		FROM order_items oi
		JOIN orders o ON o.id = oi.order_id
		WHERE o.created_at >= $1 AND o.created_at <= $2
		  AND o.status <> 'cancelled'
		GROUP BY oi.product_id, oi.name
		ORDER BY SUM(oi.quantity) DESC
		LIMIT $3`

	rows, err := r.db.QueryContext(ctx, query, rng.DateFrom, rng.DateTo, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var top []TopProduct
	for rows.Next() {
		var p TopProduct
		if err := rows.Scan(&p.ProductID, &p.Name, &p.Quantity, &p.Revenue); err != nil {
			return nil, err
		}
		top = append(top, p)
	}

	return top, rows.Err()
}

func (r *repository) StatusCounts(ctx context.Context, rng Range) (map[string]int, error) {
	query := `
		SELECT status, COUNT(*)
		FROM orders
		WHERE created_at >= $1 AND created_at <= $2
		GROUP BY status`

	rows, err := r.db.QueryContext(ctx, query, rng.DateFrom, rng.DateTo)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var (
			status string
			n      int
		)
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		counts[status] = n
	}

	return counts, rows.Err()
}
