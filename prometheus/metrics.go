package prometheus

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"garage-service/pkg/config"
)

var (
	// HTTP request metrics
	HttpRequestsTotal   prometheus.CounterVec
	HttpRequestDuration prometheus.HistogramVec

	// Database operation metrics
	DbOperationDuration prometheus.HistogramVec

	// Domain operation metrics
	ProductOperationsCounter   prometheus.CounterVec
	CategoryOperationsCounter  prometheus.CounterVec
	ServiceOperationsCounter   prometheus.CounterVec
	InventoryOperationsCounter prometheus.CounterVec

	// Current stock per product
	ProductStockGauge prometheus.GaugeVec

	// Reorder alerts emitted
	ReorderAlertsCounter prometheus.Counter
)

// InitMetrics initializes Prometheus metrics with configuration
func InitMetrics(config *config.Config) {
	prefix := config.Metrics.Prefix

	HttpRequestsTotal = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HttpRequestDuration = *promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    prefix + "_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	DbOperationDuration = *promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    prefix + "_db_operation_duration_seconds",
			Help:    "Duration of database operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation_type"},
	)

	ProductOperationsCounter = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_product_operations_total",
			Help: "Total number of product operations",
		},
		[]string{"operation"},
	)

	CategoryOperationsCounter = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_category_operations_total",
			Help: "Total number of category operations",
		},
		[]string{"operation"},
	)

	ServiceOperationsCounter = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_service_operations_total",
			Help: "Total number of repair service operations",
		},
		[]string{"operation"},
	)

	InventoryOperationsCounter = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_inventory_operations_total",
			Help: "Total number of inventory mutations",
		},
		[]string{"operation", "outcome"},
	)

	ProductStockGauge = *promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: prefix + "_product_stock",
			Help: "Current stock level for products",
		},
		[]string{"product_id"},
	)

	ReorderAlertsCounter = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: prefix + "_reorder_alerts_total",
			Help: "Total number of reorder alerts emitted",
		},
	)
}

// TrackDBOperation returns a function that records the duration of a database operation
func TrackDBOperation(operationType string) func(startTime time.Time) {
	return func(startTime time.Time) {
		duration := time.Since(startTime).Seconds()
		DbOperationDuration.WithLabelValues(operationType).Observe(duration)
	}
}

// RecordProductOperation increments the counter for product operations
func RecordProductOperation(operation string) {
	ProductOperationsCounter.WithLabelValues(operation).Inc()
}

// RecordCategoryOperation increments the counter for category operations
func RecordCategoryOperation(operation string) {
	CategoryOperationsCounter.WithLabelValues(operation).Inc()
}

// RecordServiceOperation increments the counter for repair service operations
func RecordServiceOperation(operation string) {
	ServiceOperationsCounter.WithLabelValues(operation).Inc()
}

// RecordInventoryOperation increments the counter for inventory mutations
func RecordInventoryOperation(operation, outcome string) {
	InventoryOperationsCounter.WithLabelValues(operation, outcome).Inc()
}

// UpdateProductStock updates the stock gauge for a product
func UpdateProductStock(productID string, stock float64) {
	ProductStockGauge.WithLabelValues(productID).Set(stock)
}
