package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dukani_http_requests_total",
		Help: "Total number of HTTP requests by method, route and status.",
	},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "dukani_http_request_duration_seconds",
		Help:    "HTTP request latency by route.",
		Buckets: prometheus.DefBuckets,
	},
		[]string{"route"},
	)

	OrdersCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "dukani_orders_created_total",
		Help: "Total number of orders successfully created.",
	})

	OrderStatusChanges = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dukani_order_status_changes_total",
		Help: "Total number of order status transitions by destination status.",
	},
		[]string{"status"},
	)

	ReturnsCompletedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "dukani_returns_completed_total",
		Help: "Total number of returns completed with a booked refund.",
	})

	CouponRedemptionsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "dukani_coupon_redemptions_total",
		Help: "Total number of successful coupon redemptions.",
	})

	OperationErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dukani_operation_errors_total",
		Help: "Total number of errors encountered during specific operations.",
	},
		[]string{"operation"},
	)
)
