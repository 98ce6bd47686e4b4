package util

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	CheckoutsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pos_checkouts_total",
		Help: "Total number of committed checkouts",
	})

	CheckoutLinesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pos_checkout_lines_total",
		Help: "Total number of committed cart lines",
	}, []string{"kind"})

	CheckoutsFailedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pos_checkouts_failed_total",
		Help: "Total number of rejected or failed checkouts",
	}, []string{"reason"})

	SalesVoidedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pos_sales_voided_total",
		Help: "Total number of voided sales",
	})

	VoidsFailedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pos_voids_failed_total",
		Help: "Total number of rejected or failed void attempts",
	}, []string{"reason"})

	ProductsCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pos_products_created_total",
		Help: "Total number of products added to the catalog",
	})

	ProductsDeletedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pos_products_deleted_total",
		Help: "Total number of products soft-deleted from the catalog",
	})

	CheckoutLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "pos_checkout_latency_seconds",
		Help:    "Latency of checkout transactions",
		Buckets: prometheus.DefBuckets,
	})

	VoidLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "pos_void_latency_seconds",
		Help:    "Latency of void transactions",
		Buckets: prometheus.DefBuckets,
	})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})
)
