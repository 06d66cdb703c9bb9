package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/kasir-api/internal/domain/repository"
)

var _ repository.AnalyticsRepository = (*AnalyticsRepo)(nil)

// AnalyticsRepo consultas de solo lectura para el dashboard de ventas y deuda.
type AnalyticsRepo struct {
	q Querier
}

// NewAnalyticsRepository construye el adaptador de analítica.
func NewAnalyticsRepository(q Querier) *AnalyticsRepo {
	return &AnalyticsRepo{q: q}
}

// GetSalesMetrics agrega ingresos, ganancia y número de ventas del rango.
func (r *AnalyticsRepo) GetSalesMetrics(ctx context.Context, storeID string, from, to time.Time) (repository.SalesMetrics, error) {
	const query = `
	SELECT
	    COALESCE(SUM(grand_total), 0)  AS revenue,
	    COALESCE(SUM(total_profit), 0) AS profit,
	    COUNT(*)                       AS transaction_count
	FROM transactions
	WHERE store_id = $1
	  AND created_at BETWEEN $2 AND $3`

	var m repository.SalesMetrics
	if err := r.q.QueryRow(ctx, query, storeID, from, to).Scan(&m.Revenue, &m.Profit, &m.TransactionCount); err != nil {
		return repository.SalesMetrics{}, fmt.Errorf("analytics.GetSalesMetrics: %w", err)
	}
	return m, nil
}

// GetTopVariants agrupa las líneas vendidas por variante, ordenadas por ingreso neto.
func (r *AnalyticsRepo) GetTopVariants(ctx context.Context, storeID string, from, to time.Time, limit int) ([]repository.TopVariantResult, error) {
	const query = `
	SELECT
	    ti.variant_id                     AS variant_id,
	    COALESCE(p.name, '')              AS product_name,
	    COALESCE(v.name, '')              AS variant_name,
	    SUM(ti.quantity)                  AS units_sold,
	    SUM(ti.discounted_total_price)    AS revenue,
	    SUM(ti.profit)                    AS profit
	FROM transactions t
	JOIN transaction_items ti ON ti.transaction_id = t.id
	LEFT JOIN variants v       ON v.id = ti.variant_id
	LEFT JOIN products p       ON p.id = ti.product_id
	WHERE t.store_id = $1
	  AND t.created_at BETWEEN $2 AND $3
	GROUP BY ti.variant_id, p.name, v.name
	ORDER BY revenue DESC, ti.variant_id
	LIMIT $4`

	rows, err := r.q.Query(ctx, query, storeID, from, to, limit)
	if err != nil {
		return nil, fmt.Errorf("analytics.GetTopVariants: %w", err)
	}
	defer rows.Close()

	var results []repository.TopVariantResult
	for rows.Next() {
		var row repository.TopVariantResult
		if err := rows.Scan(
			&row.VariantID,
			&row.ProductName,
			&row.VariantName,
			&row.UnitsSold,
			&row.Revenue,
			&row.Profit,
		); err != nil {
			return nil, fmt.Errorf("analytics.GetTopVariants scan: %w", err)
		}
		results = append(results, row)
	}
	return results, rows.Err()
}

// GetOutstandingDebt suma la deuda vigente de todos los clientes de la tienda.
func (r *AnalyticsRepo) GetOutstandingDebt(ctx context.Context, storeID string) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.q.QueryRow(ctx,
		`SELECT COALESCE(SUM(total_debt), 0) FROM customers WHERE store_id = $1`, storeID,
	).Scan(&total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("analytics.GetOutstandingDebt: %w", err)
	}
	return total, nil
}
