package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// SalesMetrics resultado crudo de las métricas de ventas de un período.
type SalesMetrics struct {
	Revenue          decimal.Decimal // Σ grand_total
	Profit           decimal.Decimal // Σ total_profit
	TransactionCount int
}

// TopVariantResult variante con mayor ingreso en el período.
type TopVariantResult struct {
	VariantID   string
	ProductName string
	VariantName string
	UnitsSold   int
	Revenue     decimal.Decimal
	Profit      decimal.Decimal
}

// AnalyticsRepository define las consultas de lectura para el dashboard.
// Las implementaciones son read-only (no modifican datos).
type AnalyticsRepository interface {
	GetSalesMetrics(ctx context.Context, storeID string, from, to time.Time) (SalesMetrics, error)
	GetTopVariants(ctx context.Context, storeID string, from, to time.Time, limit int) ([]TopVariantResult, error)
	// GetOutstandingDebt suma total_debt de los clientes de la tienda.
	GetOutstandingDebt(ctx context.Context, storeID string) (decimal.Decimal, error)
}
