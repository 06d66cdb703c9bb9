package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Cart es el carrito mutable de un usuario para un código de transacción.
// TotalPrice siempre es la suma de TotalPrice de sus ítems; se recalcula tras cada mutación.
type Cart struct {
	ID              string
	StoreID         string
	UserID          string
	TransactionCode string
	TotalPrice      decimal.Decimal
	Items           []*CartItem
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// CartItem es una línea del carrito. Único por (carrito, variante).
type CartItem struct {
	ID         string
	CartID     string
	ProductID  string
	VariantID  string
	Quantity   int
	Price      decimal.Decimal
	TotalPrice decimal.Decimal
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Recalculate fija TotalPrice = Price × Quantity.
func (i *CartItem) Recalculate() {
	i.TotalPrice = i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}
