package util

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RequestsCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "buyer_requests_created_total",
		Help: "Total number of buyer requests created",
	})

	RequestsRejectedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "buyer_requests_rejected_total",
		Help: "Total number of buyer request creations rejected",
	}, []string{"reason"})

	RequestTransitionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "request_transitions_total",
		Help: "Total number of request lifecycle transitions",
	}, []string{"to_status"})

	RequestTransitionsRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "request_transitions_rejected_total",
		Help: "Total number of rejected request transitions",
	}, []string{"reason"})

	StockDeductionsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "stock_deductions_total",
		Help: "Total number of successful stock deductions",
	})

	StockDeductionsFailed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "stock_deductions_failed_total",
		Help: "Total number of deductions that failed on insufficient stock",
	})

	StockAdjustmentsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "stock_adjustments_total",
		Help: "Total number of administrative stock adjustments",
	}, []string{"operation"})

	StockDeductLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "stock_deduct_latency_seconds",
		Help:    "Latency of atomic stock deduction operations",
		Buckets: prometheus.DefBuckets,
	})

	FilterDerivationLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "filter_derivation_latency_seconds",
		Help:    "Latency of industry filter schema derivation",
		Buckets: prometheus.DefBuckets,
	})

	FilterCacheHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "filter_cache_requests_total",
		Help: "Filter schema cache lookups by outcome",
	}, []string{"outcome"})

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
