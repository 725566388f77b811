package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"
)

// Metrics exposes Prometheus observability primitives for the invoicing
// backend.
type Metrics struct {
	registry *prometheus.Registry

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec

	invoicesIssued   *prometheus.CounterVec
	issuanceFailures *prometheus.CounterVec
	invoiceAmount    *prometheus.HistogramVec
}

// New registers and returns the application metrics.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	httpRequests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "gestiune_http_requests_total",
		Help: "Counts HTTP requests by method, route, and status.",
	}, []string{"method", "route", "status"})

	httpDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "gestiune_http_request_duration_seconds",
		Help:    "HTTP request latency per method and route.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	invoicesIssued := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "gestiune_invoices_issued_total",
		Help: "Invoices issued by tenant and series.",
	}, []string{"tenant", "series"})

	issuanceFailures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "gestiune_invoice_issuance_failures_total",
		Help: "Failed issuance transactions by tenant.",
	}, []string{"tenant"})

	invoiceAmount := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "gestiune_invoice_amount",
		Help:    "Issued invoice grand totals by currency.",
		Buckets: []float64{10, 50, 100, 500, 1000, 5000, 10000, 50000},
	}, []string{"currency"})

	registry.MustRegister(
		httpRequests,
		httpDuration,
		invoicesIssued,
		issuanceFailures,
		invoiceAmount,
	)

	return &Metrics{
		registry:         registry,
		httpRequests:     httpRequests,
		httpDuration:     httpDuration,
		invoicesIssued:   invoicesIssued,
		issuanceFailures: issuanceFailures,
		invoiceAmount:    invoiceAmount,
	}
}

// Registry returns the registry backing the /metrics endpoint.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// RecordInvoiceIssued increments the issuance counter and observes the
// grand total.
func (m *Metrics) RecordInvoiceIssued(tenant, series, currency string, total float64) {
	if m == nil {
		return
	}
	m.invoicesIssued.WithLabelValues(tenant, series).Inc()
	m.invoiceAmount.WithLabelValues(currency).Observe(total)
}

// RecordIssuanceFailure increments the failed-issuance counter.
func (m *Metrics) RecordIssuanceFailure(tenant string) {
	if m == nil {
		return
	}
	m.issuanceFailures.WithLabelValues(tenant).Inc()
}

// GinMiddleware records request counts and latency. Route templates keep
// the label cardinality bounded.
func GinMiddleware(m *Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		if m == nil {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		method := c.Request.Method
		status := strconv.Itoa(c.Writer.Status())

		m.httpRequests.WithLabelValues(method, route, status).Inc()
		m.httpDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
	}
}

var Module = fx.Module("observability.metrics",
	fx.Provide(New),
)
