package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CheckoutRequest body para POST /api/checkout.
type CheckoutRequest struct {
	TransactionCode string          `json:"transaction_code" validate:"required"`
	TotalPayment    decimal.Decimal `json:"total_payment" swaggertype:"string"`
	PaymentMethod   string          `json:"payment_method" validate:"required,oneof=cash qris debt"`
	CustomerID      string          `json:"customer_id,omitempty" validate:"omitempty,uuid"`
}

// TransactionItemResponse línea de una venta confirmada.
type TransactionItemResponse struct {
	ID                   string          `json:"id"`
	ProductID            string          `json:"product_id"`
	VariantID            string          `json:"variant_id"`
	RestockID            *string         `json:"restock_id,omitempty"`
	Quantity             int             `json:"quantity"`
	Price                decimal.Decimal `json:"price"`
	Discount             decimal.Decimal `json:"discount"`
	DiscountedPrice      decimal.Decimal `json:"discounted_price"`
	TotalPrice           decimal.Decimal `json:"total_price"`
	DiscountedTotalPrice decimal.Decimal `json:"discounted_total_price"`
	UnitCost             decimal.Decimal `json:"unit_cost"`
	Profit               decimal.Decimal `json:"profit"`
}

// TransactionResponse venta confirmada.
type TransactionResponse struct {
	ID              string                    `json:"id"`
	TransactionCode string                    `json:"transaction_code"`
	CustomerID      *string                   `json:"customer_id,omitempty"`
	TotalPrice      decimal.Decimal           `json:"total_price"`
	Discount        decimal.Decimal           `json:"discount"`
	Tax             decimal.Decimal           `json:"tax"`
	GrandTotal      decimal.Decimal           `json:"grand_total"`
	TotalPayment    decimal.Decimal           `json:"total_payment"`
	TotalChange     decimal.Decimal           `json:"total_change"`
	TotalProfit     decimal.Decimal           `json:"total_profit"`
	PaymentMethod   string                    `json:"payment_method"`
	CashierID       string                    `json:"cashier_id"`
	Items           []TransactionItemResponse `json:"items"`
	DebtItems       []DebtItemResponse        `json:"debt_items,omitempty"`
	DownPayment     *DebtPaymentResponse      `json:"down_payment,omitempty"`
	CreatedAt       time.Time                 `json:"created_at"`
}
