// Package metrics exposes Prometheus counters for the sales pipeline.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CheckoutSessionsOpened counts checkout sessions created.
	CheckoutSessionsOpened = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pos_checkout_sessions_opened_total",
		Help: "Number of checkout sessions opened.",
	})

	// TransactionsCreated counts successfully submitted sales by payment method.
	TransactionsCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pos_transactions_created_total",
		Help: "Number of sale transactions created.",
	}, []string{"payment_method", "status"})

	// TransactionsFailed counts submissions rejected before a transaction
	// was created, labeled by the reason.
	TransactionsFailed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pos_transactions_failed_total",
		Help: "Number of sale submissions that failed.",
	}, []string{"reason"})

	// ReceiptsPrinted counts receipts sent to the thermal printer.
	ReceiptsPrinted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pos_receipts_printed_total",
		Help: "Number of receipts sent to the printer.",
	})

	// HTTPRequests counts handled HTTP requests by route and status.
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pos_http_requests_total",
		Help: "Number of HTTP requests handled.",
	}, []string{"method", "route", "status"})

	// HTTPDuration observes request latency per route.
	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "pos_http_request_duration_seconds",
		Help:    "HTTP request latency in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})
)
