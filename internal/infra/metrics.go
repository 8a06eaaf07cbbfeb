package infra

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	// Latency: сколько заняла отдача страницы (включая чтение хранилища)
	RequestDuration *prometheus.HistogramVec

	// Traffic: общее кол-во запросов
	TotalRequests *prometheus.CounterVec

	// Store: результат чтения каждого ключа (hit, miss, error, unavailable)
	StoreReads *prometheus.CounterVec

	// Data quality: строки блоба, отброшенные при разборе
	DroppedRows *prometheus.CounterVec

	// Saturation: состояние предохранителя хранилища (0 - closed, 1 - half-open, 2 - open)
	CircuitBreakerState prometheus.Gauge
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	// Null Object Pattern - Если рег не передан, используем локальный, который никуда не подключен
	if reg == nil {
		reg = prometheus.NewRegistry()
	}

	return &Metrics{
		RequestDuration: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "dashboard_request_duration_seconds",
			Help:    "Histogram of request latencies.",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		}, []string{"route", "status"}),

		TotalRequests: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "dashboard_requests_total",
			Help: "Total number of processed requests.",
		}, []string{"route", "status"}),

		StoreReads: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "dashboard_store_reads_total",
			Help: "Store reads by key and result.",
		}, []string{"key", "result"}),

		DroppedRows: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "dashboard_dropped_rows_total",
			Help: "Measurement rows dropped for a wrong field count.",
		}, []string{"protocol"}),

		CircuitBreakerState: promauto.With(reg).NewGauge(prometheus.GaugeOpts{
			Name: "dashboard_store_circuit_breaker_state",
			Help: "Current state of the store circuit breaker (0=closed, 1=half-open, 2=open).",
		}),
	}
}
