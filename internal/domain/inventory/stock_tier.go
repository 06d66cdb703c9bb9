package inventory

import "github.com/jhoicas/kasir-api/internal/domain/entity"

// LimitStockThreshold es la cantidad a partir de la cual una variante está "in-stock".
const LimitStockThreshold = 10

// StatusFor deriva el tier de stock de la cantidad nueva.
// initialized distingue un registro recién creado (not-set) de uno agotado (out-of-stock).
func StatusFor(quantity int, initialized bool) string {
	switch {
	case quantity >= LimitStockThreshold:
		return entity.StockStatusInStock
	case quantity > 0:
		return entity.StockStatusLimitStock
	case quantity == 0 && !initialized:
		return entity.StockStatusNotSet
	default:
		return entity.StockStatusOutOfStock
	}
}

// MovementType devuelve in/out según el signo del delta.
func MovementType(delta int) string {
	if delta > 0 {
		return entity.MovementTypeIn
	}
	return entity.MovementTypeOut
}
