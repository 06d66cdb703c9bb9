package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product agrupa variantes vendibles. Precio y stock viven en la variante.
type Product struct {
	ID          string
	StoreID     string
	SKU         string // código único por tienda
	Name        string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Variant es la unidad vendible de un producto (presentación/unidad).
// Cost es promedio ponderado calculado desde los reabastecimientos.
type Variant struct {
	ID        string
	StoreID   string
	ProductID string
	Name      string
	Unit      string
	Barcode   string
	Price     decimal.Decimal // precio de venta
	Cost      decimal.Decimal // costo promedio ponderado (inicia en 0)
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt *time.Time
}
