package entity

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una DebtItem.
const (
	DebtStatusUnpaid  = "unpaid"
	DebtStatusPartial = "partial"
	DebtStatusPaid    = "paid"
)

// Métodos de pago aceptados al abonar deuda.
const (
	DebtPaymentMethodCash     = "cash"
	DebtPaymentMethodQRIS     = "qris"
	DebtPaymentMethodTransfer = "transfer"
)

// ValidDebtPaymentMethod indica si m es un método válido para abonos.
func ValidDebtPaymentMethod(m string) bool {
	switch m {
	case DebtPaymentMethodCash, DebtPaymentMethodQRIS, DebtPaymentMethodTransfer:
		return true
	}
	return false
}

// DownPaymentCodePrefix prefijo de los abonos que genera el checkout al vender a crédito con
// anticipo. Está reservado: un abono manual no puede usarlo.
const DownPaymentCodePrefix = "DP-"

// DownPaymentCode código del anticipo de la venta transactionCode.
func DownPaymentCode(transactionCode string) string {
	return DownPaymentCodePrefix + transactionCode
}

// IsReservedPaymentCode indica si code cae en el espacio de códigos del checkout.
func IsReservedPaymentCode(code string) bool {
	return strings.HasPrefix(strings.ToUpper(code), DownPaymentCodePrefix)
}

// DebtItem es una línea del saldo pendiente de un cliente.
// Invariante: PaidAmount + RemainingAmount == TotalAmount.
type DebtItem struct {
	ID                string
	StoreID           string
	CustomerID        string
	TransactionID     *string
	TransactionItemID *string // nil ⇒ línea de impuesto o ajuste
	TotalAmount       decimal.Decimal
	PaidAmount        decimal.Decimal
	RemainingAmount   decimal.Decimal
	Status            string
	LastPaymentAt     *time.Time
	SettledAt         *time.Time
	Seq               int64 // desempate FIFO dentro del mismo created_at
	CreatedAt         time.Time
	UpdatedAt         time.Time
	DeletedAt         *time.Time
}

// NewDebtItem crea una DebtItem sin pagos.
func NewDebtItem(id, storeID, customerID string, amount decimal.Decimal, now time.Time) *DebtItem {
	return &DebtItem{
		ID:              id,
		StoreID:         storeID,
		CustomerID:      customerID,
		TotalAmount:     amount,
		PaidAmount:      decimal.Zero,
		RemainingAmount: amount,
		Status:          DebtStatusUnpaid,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// Open indica si la línea todavía admite pagos.
func (d *DebtItem) Open() bool {
	return d.Status != DebtStatusPaid && d.DeletedAt == nil
}

// Apply abona hasta amount a la línea y devuelve lo efectivamente aplicado.
// Una línea pagada no vuelve a cambiar.
func (d *DebtItem) Apply(amount decimal.Decimal, now time.Time) decimal.Decimal {
	if !d.Open() || !amount.IsPositive() {
		return decimal.Zero
	}
	applied := decimal.Min(amount, d.RemainingAmount)
	d.PaidAmount = d.PaidAmount.Add(applied)
	d.RemainingAmount = d.TotalAmount.Sub(d.PaidAmount)
	switch {
	case !d.RemainingAmount.IsPositive():
		d.RemainingAmount = decimal.Zero
		d.Status = DebtStatusPaid
		if d.SettledAt == nil {
			settled := now
			d.SettledAt = &settled
		}
	case d.PaidAmount.IsPositive():
		d.Status = DebtStatusPartial
	}
	last := now
	d.LastPaymentAt = &last
	d.UpdatedAt = now
	return applied
}

// DebtPayment es un evento de pago inmutable.
type DebtPayment struct {
	ID            string
	StoreID       string
	PaymentCode   string
	CustomerID    string
	Amount        decimal.Decimal
	PaymentMethod string
	Note          string
	OperatorID    string
	PaidAt        time.Time
}

// DebtPaymentItem registra cuánto de un pago se aplicó a una DebtItem.
type DebtPaymentItem struct {
	ID            string
	DebtPaymentID string
	DebtItemID    string
	Amount        decimal.Decimal
	RemainingDebt decimal.Decimal // snapshot tras aplicar
	CreatedAt     time.Time
}
