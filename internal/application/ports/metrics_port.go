package ports

import "github.com/shopspring/decimal"

// MetricsRecorder define el puerto de salida para métricas de negocio.
// El adaptador Prometheus vive en infrastructure/observability; NoopMetrics sirve para tests.
type MetricsRecorder interface {
	StockAdjusted(movementType string, delta int)
	CheckoutCommitted(paymentMethod string, grandTotal decimal.Decimal)
	CheckoutFailed(reason string)
	DebtPaymentApplied(paymentMethod string, amount decimal.Decimal, itemsTouched int)
}

// NoopMetrics implementa MetricsRecorder sin hacer nada.
type NoopMetrics struct{}

func (NoopMetrics) StockAdjusted(string, int)                         {}
func (NoopMetrics) CheckoutCommitted(string, decimal.Decimal)         {}
func (NoopMetrics) CheckoutFailed(string)                             {}
func (NoopMetrics) DebtPaymentApplied(string, decimal.Decimal, int)   {}
