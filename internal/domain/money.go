package domain

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MoneyScale decimales de los importes persistidos (NUMERIC(18,2)).
const MoneyScale = 2

// IsMoney indica si d se puede guardar sin redondeo. Un importe con más decimales rompería
// paid + remaining = total al redondear cada columna por separado.
func IsMoney(d decimal.Decimal) bool {
	return d.Equal(d.Round(MoneyScale))
}

// IsID indica si s tiene forma de identificador (UUID). Un ID mal formado no puede existir en
// ninguna tienda, así que los casos de uso lo tratan como no encontrado.
func IsID(s string) bool {
	return uuid.Validate(s) == nil
}
