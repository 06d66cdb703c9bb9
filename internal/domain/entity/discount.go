package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de descuento.
const (
	DiscountTypePercentage = "percentage"
	DiscountTypeFixed      = "fixed"
)

var hundred = decimal.NewFromInt(100)

// Discount es un descuento por unidad aplicable a una variante.
type Discount struct {
	ID        string
	StoreID   string
	VariantID string
	Type      string          // percentage, fixed
	Value     decimal.Decimal // porcentaje (0-100) o monto fijo por unidad
	StartsAt  *time.Time
	EndsAt    *time.Time
	IsActive  bool
	CreatedAt time.Time
}

// ActiveAt indica si el descuento aplica en el instante dado.
func (d *Discount) ActiveAt(t time.Time) bool {
	if d == nil || !d.IsActive {
		return false
	}
	if d.StartsAt != nil && t.Before(*d.StartsAt) {
		return false
	}
	if d.EndsAt != nil && t.After(*d.EndsAt) {
		return false
	}
	return true
}

// UnitDiscount devuelve el descuento por unidad sobre price, sin superar el precio.
func (d *Discount) UnitDiscount(price decimal.Decimal) decimal.Decimal {
	if d == nil {
		return decimal.Zero
	}
	var off decimal.Decimal
	switch d.Type {
	case DiscountTypePercentage:
		off = price.Mul(d.Value).Div(hundred).Round(2)
	case DiscountTypeFixed:
		off = d.Value
	default:
		return decimal.Zero
	}
	if off.GreaterThan(price) {
		return price
	}
	if off.IsNegative() {
		return decimal.Zero
	}
	return off
}
