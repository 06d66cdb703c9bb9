package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateCustomerRequest body para POST /api/customers.
type CreateCustomerRequest struct {
	Name    string `json:"name" validate:"required,min=1,max=200"`
	Phone   string `json:"phone" validate:"omitempty,max=30"`
	Address string `json:"address" validate:"omitempty,max=300"`
}

// CustomerResponse cliente con su deuda total.
type CustomerResponse struct {
	ID        string          `json:"id"`
	StoreID   string          `json:"store_id"`
	Name      string          `json:"name"`
	Phone     string          `json:"phone,omitempty"`
	Address   string          `json:"address,omitempty"`
	TotalDebt decimal.Decimal `json:"total_debt"`
}

// CustomerListResponse lista paginada de clientes.
type CustomerListResponse struct {
	Items []CustomerResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}

// DebtPaymentRequest body para POST /api/customers/:id/payments.
// PaymentCode vacío se genera; repetirlo devuelve 409 (reintentos idempotentes).
type DebtPaymentRequest struct {
	PaymentCode   string          `json:"payment_code" validate:"omitempty,max=64"`
	Amount        decimal.Decimal `json:"amount" swaggertype:"string"`
	PaymentMethod string          `json:"payment_method" validate:"omitempty,oneof=cash qris transfer"`
	Note          string          `json:"note" validate:"omitempty,max=300"`
}

// DebtItemResponse línea de deuda.
type DebtItemResponse struct {
	ID                string          `json:"id"`
	TransactionID     *string         `json:"transaction_id,omitempty"`
	TransactionItemID *string         `json:"transaction_item_id,omitempty"`
	TotalAmount       decimal.Decimal `json:"total_amount"`
	PaidAmount        decimal.Decimal `json:"paid_amount"`
	RemainingAmount   decimal.Decimal `json:"remaining_amount"`
	Status            string          `json:"status"`
	LastPaymentAt     *time.Time      `json:"last_payment_at,omitempty"`
	SettledAt         *time.Time      `json:"settled_at,omitempty"`
	CreatedAt         time.Time       `json:"created_at"`
}

// DebtItemListResponse lista paginada de líneas de deuda.
type DebtItemListResponse struct {
	Items []DebtItemResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}

// DebtPaymentItemResponse porción de un pago aplicada a una línea.
type DebtPaymentItemResponse struct {
	DebtItemID    string          `json:"debt_item_id"`
	Amount        decimal.Decimal `json:"amount"`
	RemainingDebt decimal.Decimal `json:"remaining_debt"`
}

// DebtPaymentResponse abono registrado.
type DebtPaymentResponse struct {
	ID            string                    `json:"id"`
	PaymentCode   string                    `json:"payment_code"`
	CustomerID    string                    `json:"customer_id"`
	Amount        decimal.Decimal           `json:"amount"`
	PaymentMethod string                    `json:"payment_method"`
	Note          string                    `json:"note,omitempty"`
	OperatorID    string                    `json:"operator_id"`
	PaidAt        time.Time                 `json:"paid_at"`
	Items         []DebtPaymentItemResponse `json:"items,omitempty"`
	RemainingDebt *decimal.Decimal          `json:"remaining_debt,omitempty"`
}

// DebtPaymentListResponse lista paginada de abonos.
type DebtPaymentListResponse struct {
	Items []DebtPaymentResponse `json:"items"`
	Page  PageResponse          `json:"page"`
}
