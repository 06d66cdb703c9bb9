package entity

import "time"

// Estados de stock derivados de la cantidad.
const (
	StockStatusNotSet     = "not-set"
	StockStatusOutOfStock = "out-of-stock"
	StockStatusLimitStock = "limit-stock"
	StockStatusInStock    = "in-stock"
)

// StockRecord representa el stock actual de una variante. Sólo lo muta el ajustador de inventario.
type StockRecord struct {
	StoreID   string
	VariantID string
	Quantity  int
	Status    string
	UpdatedAt time.Time
}
