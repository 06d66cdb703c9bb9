package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Restock es un lote de entrada de mercancía; sirve de referencia de costo en las ventas.
type Restock struct {
	ID        string
	StoreID   string
	VariantID string
	Supplier  string
	Quantity  int
	UnitCost  decimal.Decimal
	TotalCost decimal.Decimal
	CreatedBy string
	CreatedAt time.Time
}
