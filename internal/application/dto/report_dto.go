package dto

import "github.com/shopspring/decimal"

// DashboardDTO respuesta de GET /api/reports/dashboard.
// KPIs del rango pedido más el Top de variantes por ingreso.
type DashboardDTO struct {
	From string `json:"from"` // YYYY-MM-DD
	To   string `json:"to"`   // YYYY-MM-DD

	Revenue          decimal.Decimal `json:"revenue"` // Σ grand_total
	Profit           decimal.Decimal `json:"profit"`  // Σ total_profit
	TransactionCount int             `json:"transaction_count"`
	AverageTicket    decimal.Decimal `json:"average_ticket"`
	OutstandingDebt  decimal.Decimal `json:"outstanding_debt"` // Σ total_debt de clientes

	TopVariants []TopVariantDTO `json:"top_variants"`
}

// TopVariantDTO resumen de una variante para el widget del dashboard.
type TopVariantDTO struct {
	VariantID        string          `json:"variant_id"`
	ProductName      string          `json:"product_name"`
	VariantName      string          `json:"variant_name"`
	UnitsSold        int             `json:"units_sold"`
	Revenue          decimal.Decimal `json:"revenue"`
	MarginPercentage decimal.Decimal `json:"margin_percentage"` // profit / revenue * 100
}
