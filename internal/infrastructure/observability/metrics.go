// Package observability expone métricas Prometheus del negocio y de HTTP.
package observability

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/kasir-api/internal/application/ports"
)

var _ ports.MetricsRecorder = (*Metrics)(nil)

// Metrics registry propio con los contadores de la API.
type Metrics struct {
	registry *prometheus.Registry

	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec

	stockMovements    *prometheus.CounterVec
	checkoutsTotal    *prometheus.CounterVec
	checkoutRevenue   *prometheus.CounterVec
	checkoutFailures  *prometheus.CounterVec
	debtPayments      *prometheus.CounterVec
	debtPaymentAmount *prometheus.CounterVec
	debtItemsTouched  prometheus.Histogram
}

// NewMetrics inicializa el registry y registra todas las métricas.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "kasir_http_requests_total",
			Help: "Peticiones HTTP por ruta y código de estado.",
		}, []string{"route", "code"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "kasir_http_request_duration_seconds",
			Help:    "Duración de las peticiones HTTP por ruta.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
		stockMovements: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "kasir_stock_movements_total",
			Help: "Movimientos de stock registrados por tipo.",
		}, []string{"type"}),
		checkoutsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "kasir_checkouts_total",
			Help: "Ventas confirmadas por método de pago.",
		}, []string{"payment_method"}),
		checkoutRevenue: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "kasir_checkout_revenue_total",
			Help: "Suma de grand_total de las ventas confirmadas.",
		}, []string{"payment_method"}),
		checkoutFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "kasir_checkout_failures_total",
			Help: "Checkouts rechazados por motivo.",
		}, []string{"reason"}),
		debtPayments: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "kasir_debt_payments_total",
			Help: "Abonos de deuda aplicados por método.",
		}, []string{"payment_method"}),
		debtPaymentAmount: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "kasir_debt_payment_amount_total",
			Help: "Monto abonado a deuda por método.",
		}, []string{"payment_method"}),
		debtItemsTouched: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "kasir_debt_payment_items",
			Help:    "Líneas de deuda afectadas por cada abono.",
			Buckets: []float64{1, 2, 3, 5, 8, 13, 21},
		}),
	}
	m.registry.MustRegister(
		m.requestsTotal, m.requestDuration,
		m.stockMovements,
		m.checkoutsTotal, m.checkoutRevenue, m.checkoutFailures,
		m.debtPayments, m.debtPaymentAmount, m.debtItemsTouched,
	)
	return m
}

func (m *Metrics) StockAdjusted(movementType string, _ int) {
	m.stockMovements.WithLabelValues(movementType).Inc()
}

func (m *Metrics) CheckoutCommitted(paymentMethod string, grandTotal decimal.Decimal) {
	m.checkoutsTotal.WithLabelValues(paymentMethod).Inc()
	m.checkoutRevenue.WithLabelValues(paymentMethod).Add(grandTotal.InexactFloat64())
}

func (m *Metrics) CheckoutFailed(reason string) {
	m.checkoutFailures.WithLabelValues(reason).Inc()
}

func (m *Metrics) DebtPaymentApplied(paymentMethod string, amount decimal.Decimal, itemsTouched int) {
	m.debtPayments.WithLabelValues(paymentMethod).Inc()
	m.debtPaymentAmount.WithLabelValues(paymentMethod).Add(amount.InexactFloat64())
	m.debtItemsTouched.Observe(float64(itemsTouched))
}

// Handler expone /metrics para fiber.
func (m *Metrics) Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))
}

// Middleware registra conteo y duración por ruta registrada (no por path crudo).
func (m *Metrics) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}
		route := c.Route().Path
		m.requestsTotal.WithLabelValues(route, strconv.Itoa(status)).Inc()
		m.requestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
		return err
	}
}

// Registry expone el registry para tests.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }
