package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Customer representa un cliente de la tienda.
// TotalDebt es la suma de remaining_amount de sus DebtItems abiertas (se almacena).
type Customer struct {
	ID        string
	StoreID   string
	Name      string
	Phone     string
	Address   string
	TotalDebt decimal.Decimal
	CreatedAt time.Time
	UpdatedAt time.Time
}
