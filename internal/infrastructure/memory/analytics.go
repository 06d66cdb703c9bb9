package memory

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/kasir-api/internal/domain/repository"
)

var _ repository.AnalyticsRepository = (*AnalyticsRepo)(nil)

// AnalyticsRepo consultas de solo lectura para el dashboard, calculadas sobre el estado en memoria.
type AnalyticsRepo struct {
	db *DB
}

// NewAnalyticsRepository construye el adaptador de analítica.
func NewAnalyticsRepository(db *DB) *AnalyticsRepo {
	return &AnalyticsRepo{db: db}
}

func (r *AnalyticsRepo) GetSalesMetrics(_ context.Context, storeID string, from, to time.Time) (repository.SalesMetrics, error) {
	out := repository.SalesMetrics{Revenue: decimal.Zero, Profit: decimal.Zero}
	r.db.read(func(s *state) {
		for _, t := range s.transactions {
			if t.StoreID != storeID || !inRange(t.CreatedAt, from, to) {
				continue
			}
			out.Revenue = out.Revenue.Add(t.GrandTotal)
			out.Profit = out.Profit.Add(t.TotalProfit)
			out.TransactionCount++
		}
	})
	return out, nil
}

func (r *AnalyticsRepo) GetTopVariants(_ context.Context, storeID string, from, to time.Time, limit int) ([]repository.TopVariantResult, error) {
	byVariant := map[string]*repository.TopVariantResult{}
	r.db.read(func(s *state) {
		for _, item := range s.transactionItems {
			t, ok := s.transactions[item.TransactionID]
			if !ok || t.StoreID != storeID || !inRange(t.CreatedAt, from, to) {
				continue
			}
			row, ok := byVariant[item.VariantID]
			if !ok {
				row = &repository.TopVariantResult{VariantID: item.VariantID, Revenue: decimal.Zero, Profit: decimal.Zero}
				if v, ok := s.variants[item.VariantID]; ok {
					row.VariantName = v.Name
				}
				if p, ok := s.products[item.ProductID]; ok {
					row.ProductName = p.Name
				}
				byVariant[item.VariantID] = row
			}
			row.UnitsSold += item.Quantity
			row.Revenue = row.Revenue.Add(item.DiscountedTotalPrice)
			row.Profit = row.Profit.Add(item.Profit)
		}
	})
	out := make([]repository.TopVariantResult, 0, len(byVariant))
	for _, row := range byVariant {
		out = append(out, *row)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Revenue.Equal(out[j].Revenue) {
			return out[i].VariantID < out[j].VariantID
		}
		return out[i].Revenue.GreaterThan(out[j].Revenue)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *AnalyticsRepo) GetOutstandingDebt(_ context.Context, storeID string) (decimal.Decimal, error) {
	total := decimal.Zero
	r.db.read(func(s *state) {
		for _, c := range s.customers {
			if c.StoreID == storeID {
				total = total.Add(c.TotalDebt)
			}
		}
	})
	return total, nil
}
