package util

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	OrdersCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "orders_created_total",
		Help: "Total number of orders created via intake",
	})

	QuotesComputedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "quotes_computed_total",
		Help: "Total number of pricing quotes computed without persisting",
	})

	OrdersFailedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "orders_failed_total",
		Help: "Total number of failed order intakes",
	}, []string{"reason"})

	PricingCalcLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "pricing_calc_latency_seconds",
		Help:    "Latency of full-order pricing calculations",
		Buckets: prometheus.DefBuckets,
	})

	TaskTransitionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "task_transitions_total",
		Help: "Total number of accepted task stage transitions",
	}, []string{"from", "to"})

	IllegalTransitionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "illegal_transitions_total",
		Help: "Total number of rejected task stage transitions",
	}, []string{"from", "to"})

	StatusDerivationsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "status_derivations_total",
		Help: "Total number of order status derivations",
	})

	AlertsEmittedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "alerts_emitted_total",
		Help: "Total number of workflow alerts emitted",
	}, []string{"type"})

	PaymentsRecordedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "payments_recorded_total",
		Help: "Total number of payments recorded",
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
