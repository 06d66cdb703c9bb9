package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Store representa una tienda/tenant del sistema (multi-tenant).
type Store struct {
	ID        string
	Name      string
	Address   string
	Phone     string
	TaxRate   decimal.Decimal // porcentaje aplicado en el checkout (ej: 11 = 11%)
	Status    string          // active, suspended
	CreatedAt time.Time
	UpdatedAt time.Time
}
