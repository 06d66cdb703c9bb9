package entity

import "time"

// Tipos de movimiento de stock (derivados del signo de la cantidad).
const (
	MovementTypeIn  = "in"
	MovementTypeOut = "out"
)

// StockMovement es un registro inmutable de la bitácora de stock.
type StockMovement struct {
	ID        string
	StoreID   string
	VariantID string
	Type      string // in, out
	Quantity  int    // positivo entrada, negativo salida
	Reference string // venta, reabastecimiento, ajuste manual, etc.
	CreatedBy string
	CreatedAt time.Time
}
