package observability

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scrape(t *testing.T, app *fiber.App) string {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest("GET", "/metrics", nil))
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(body)
}

func TestMetrics_ContadoresDeNegocio(t *testing.T) {
	m := NewMetrics()
	app := fiber.New()
	app.Get("/metrics", m.Handler())

	m.CheckoutCommitted("cash", decimal.NewFromInt(150))
	m.CheckoutCommitted("cash", decimal.NewFromInt(50))
	m.CheckoutFailed("insufficient_payment")
	m.DebtPaymentApplied("transfer", decimal.NewFromInt(30), 2)
	m.StockAdjusted("out", -3)

	body := scrape(t, app)
	assert.Contains(t, body, `kasir_checkouts_total{payment_method="cash"} 2`)
	assert.Contains(t, body, `kasir_checkout_revenue_total{payment_method="cash"} 200`)
	assert.Contains(t, body, `kasir_checkout_failures_total{reason="insufficient_payment"} 1`)
	assert.Contains(t, body, `kasir_debt_payment_amount_total{payment_method="transfer"} 30`)
	assert.Contains(t, body, `kasir_stock_movements_total{type="out"} 1`)
	assert.Contains(t, body, `kasir_debt_payment_items_count 1`)
}

func TestMetrics_MiddlewarePorRuta(t *testing.T) {
	m := NewMetrics()
	app := fiber.New()
	app.Use(m.Middleware())
	app.Get("/ping", func(c *fiber.Ctx) error { return c.SendString("pong") })
	app.Get("/metrics", m.Handler())

	resp, err := app.Test(httptest.NewRequest("GET", "/ping", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	assert.Contains(t, scrape(t, app), `kasir_http_requests_total{code="200",route="/ping"} 1`)
}
