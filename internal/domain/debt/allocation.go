// Package debt contiene la asignación FIFO de pagos contra líneas de deuda.
package debt

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/kasir-api/internal/domain/entity"
)

// Allocation es la porción de un pago aplicada a una línea.
type Allocation struct {
	Item    *entity.DebtItem
	Applied decimal.Decimal
}

// SortFIFO ordena las líneas de la más antigua a la más nueva (created_at, seq).
func SortFIFO(items []*entity.DebtItem) {
	sort.SliceStable(items, func(i, j int) bool {
		if !items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].CreatedAt.Before(items[j].CreatedAt)
		}
		return items[i].Seq < items[j].Seq
	})
}

// Allocate recorre items en el orden recibido aplicando amount hasta agotarlo.
// Muta las líneas tocadas y devuelve una Allocation por cada una, más el sobrante sin aplicar.
// El llamador es responsable de pasar items ya ordenados FIFO.
func Allocate(items []*entity.DebtItem, amount decimal.Decimal, now time.Time) ([]Allocation, decimal.Decimal) {
	remaining := amount
	var out []Allocation
	for _, item := range items {
		if !remaining.IsPositive() {
			break
		}
		if !item.Open() {
			continue
		}
		applied := item.Apply(remaining, now)
		if applied.IsZero() {
			continue
		}
		remaining = remaining.Sub(applied)
		out = append(out, Allocation{Item: item, Applied: applied})
	}
	return out, remaining
}

// Outstanding suma remaining_amount de las líneas abiertas.
func Outstanding(items []*entity.DebtItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		if item.Open() {
			total = total.Add(item.RemainingAmount)
		}
	}
	return total
}
