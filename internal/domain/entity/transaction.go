package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Métodos de pago de una venta.
const (
	PaymentMethodCash = "cash"
	PaymentMethodQRIS = "qris"
	PaymentMethodDebt = "debt"
)

// ValidSalePaymentMethod indica si m es un método de pago aceptado en el checkout.
func ValidSalePaymentMethod(m string) bool {
	switch m {
	case PaymentMethodCash, PaymentMethodQRIS, PaymentMethodDebt:
		return true
	}
	return false
}

// Transaction representa la cabecera inmutable de una venta confirmada.
type Transaction struct {
	ID              string
	StoreID         string
	TransactionCode string
	CustomerID      *string
	TotalPrice      decimal.Decimal // suma de líneas antes de descuento
	Discount        decimal.Decimal
	Tax             decimal.Decimal
	GrandTotal      decimal.Decimal
	TotalPayment    decimal.Decimal
	TotalChange     decimal.Decimal // negativo en ventas a crédito
	TotalProfit     decimal.Decimal
	PaymentMethod   string
	CashierID       string
	CreatedAt       time.Time
}

// TransactionItem es el snapshot inmutable de una línea vendida.
type TransactionItem struct {
	ID                   string
	TransactionID        string
	ProductID            string
	VariantID            string
	RestockID            *string // lote de costo usado para la ganancia
	Quantity             int
	Price                decimal.Decimal
	Discount             decimal.Decimal // por unidad
	DiscountedPrice      decimal.Decimal
	TotalPrice           decimal.Decimal
	DiscountedTotalPrice decimal.Decimal
	UnitCost             decimal.Decimal
	Profit               decimal.Decimal
	CreatedAt            time.Time
}
