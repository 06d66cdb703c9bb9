package report_test

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/kasir-api/internal/application/cart"
	"github.com/jhoicas/kasir-api/internal/application/checkout"
	"github.com/jhoicas/kasir-api/internal/application/dto"
	"github.com/jhoicas/kasir-api/internal/application/inventory"
	"github.com/jhoicas/kasir-api/internal/application/report"
	"github.com/jhoicas/kasir-api/internal/domain"
	"github.com/jhoicas/kasir-api/internal/domain/entity"
	"github.com/jhoicas/kasir-api/internal/domain/repository"
	"github.com/jhoicas/kasir-api/internal/infrastructure/cache"
	"github.com/jhoicas/kasir-api/internal/infrastructure/export"
	"github.com/jhoicas/kasir-api/internal/infrastructure/memory"
	"github.com/jhoicas/kasir-api/internal/infrastructure/pdf"
	"github.com/jhoicas/kasir-api/internal/testutil"
)

type env struct {
	f        *testutil.Fixture
	reports  *report.ReportUseCase
	carts    *cart.CartUseCase
	checkout *checkout.CheckoutUseCase
}

func newEnv(t *testing.T, dashboardCache report.DashboardCache) *env {
	f := testutil.New(t, 0)
	adjuster := inventory.NewAdjustStockUseCase(f.Tx, f.Repos.Variants, f.Repos.Stock, f.Repos.Movements, inventory.Options{Clock: f.Clock()})
	return &env{
		f: f,
		reports: report.NewReportUseCase(report.Deps{
			Analytics:    memory.NewAnalyticsRepository(f.DB),
			Transactions: f.Repos.Transactions,
			Customers:    f.Repos.Customers,
			Debts:        f.Repos.Debts,
			Stores:       f.Repos.Stores,
			Cache:        dashboardCache,
			CacheTTL:     time.Minute,
			Exporters: map[string]report.TableExporter{
				"csv": export.NewCSVExporter(),
				"pdf": pdf.NewTableExporter(),
			},
			Statements: pdf.NewMarotoPDFGenerator(),
		}),
		carts:    cart.NewCartUseCase(f.Tx, f.Repos.Carts, f.Clock()),
		checkout: checkout.NewCheckoutUseCase(f.Tx, adjuster, nil, nil, f.Clock()),
	}
}

// sell vende qty unidades de la variante en efectivo con pago exacto.
func (e *env) sell(t *testing.T, code string, v *entity.Variant, qty int) {
	t.Helper()
	ctx := context.Background()
	c, err := e.carts.AddItem(ctx, e.f.Cashier, cart.AddItemInput{TransactionCode: code, VariantID: v.ID})
	require.NoError(t, err)
	if qty > 1 {
		_, err = e.carts.SetQuantity(ctx, e.f.Cashier, c.Items[0].ID, qty)
		require.NoError(t, err)
	}
	_, err = e.checkout.Commit(ctx, e.f.Cashier, checkout.CommitInput{
		TransactionCode: code,
		TotalPayment:    v.Price.Mul(decimal.NewFromInt(int64(qty))),
		PaymentMethod:   entity.PaymentMethodCash,
	})
	require.NoError(t, err)
}

func (e *env) day() (time.Time, time.Time) {
	from := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	return from, from.Add(24*time.Hour - time.Nanosecond)
}

func TestDashboard_KPIsYTopVariantes(t *testing.T) {
	e := newEnv(t, nil)
	a := e.f.Variant(t, "Beras 5kg", 10000, 6000, 20)
	b := e.f.Variant(t, "Telur", 5000, 4000, 20)
	e.sell(t, "TRX-1", a, 2)
	e.sell(t, "TRX-2", b, 1)
	e.f.Debt(t, e.f.Customer(t, "Sari"), 3000)

	from, to := e.day()
	out, err := e.reports.Dashboard(context.Background(), e.f.Admin, from, to)
	require.NoError(t, err)

	assert.Equal(t, "2026-03-01", out.From)
	assert.Equal(t, 2, out.TransactionCount)
	assert.True(t, testutil.Dec("25000").Equal(out.Revenue))
	assert.True(t, testutil.Dec("9000").Equal(out.Profit))
	assert.True(t, testutil.Dec("12500").Equal(out.AverageTicket))
	assert.True(t, testutil.Dec("3000").Equal(out.OutstandingDebt))

	require.Len(t, out.TopVariants, 2)
	assert.Equal(t, a.ID, out.TopVariants[0].VariantID)
	assert.Equal(t, 2, out.TopVariants[0].UnitsSold)
	assert.True(t, testutil.Dec("40").Equal(out.TopVariants[0].MarginPercentage))
	assert.True(t, testutil.Dec("20").Equal(out.TopVariants[1].MarginPercentage))
}

func TestDashboard_RangoInvertido(t *testing.T) {
	e := newEnv(t, nil)
	from, to := e.day()
	_, err := e.reports.Dashboard(context.Background(), e.f.Admin, to, from)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestDashboard_UsaCache(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	e := newEnv(t, cache.NewRedisCache(client))
	v := e.f.Variant(t, "Sabun", 3000, 2000, 10)
	e.sell(t, "TRX-1", v, 1)
	from, to := e.day()
	ctx := context.Background()

	first, err := e.reports.Dashboard(ctx, e.f.Admin, from, to)
	require.NoError(t, err)
	assert.Equal(t, 1, first.TransactionCount)

	e.sell(t, "TRX-2", v, 1)
	cached, err := e.reports.Dashboard(ctx, e.f.Admin, from, to)
	require.NoError(t, err)
	assert.Equal(t, 1, cached.TransactionCount, "dentro del TTL se sirve la copia en caché")

	mr.FastForward(2 * time.Minute)
	fresh, err := e.reports.Dashboard(ctx, e.f.Admin, from, to)
	require.NoError(t, err)
	assert.Equal(t, 2, fresh.TransactionCount)
}

func TestDashboard_CacheCaidoNoFalla(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	mr.Close()

	e := newEnv(t, cache.NewRedisCache(client))
	from, to := e.day()
	out, err := e.reports.Dashboard(context.Background(), e.f.Admin, from, to)
	require.NoError(t, err)
	assert.Zero(t, out.TransactionCount)
}

// blockingAnalytics retiene las métricas de ventas hasta que se cierre release.
type blockingAnalytics struct {
	repository.AnalyticsRepository
	started chan struct{}
	release chan struct{}
	once    sync.Once
}

func (b *blockingAnalytics) GetSalesMetrics(ctx context.Context, storeID string, from, to time.Time) (repository.SalesMetrics, error) {
	b.once.Do(func() { close(b.started) })
	<-b.release
	if err := ctx.Err(); err != nil {
		return repository.SalesMetrics{}, err
	}
	return b.AnalyticsRepository.GetSalesMetrics(ctx, storeID, from, to)
}

func TestDashboard_CancelarUnaPeticionNoAfectaALasDemas(t *testing.T) {
	e := newEnv(t, nil)
	v := e.f.Variant(t, "Gula", 12000, 9000, 5)
	e.sell(t, "TRX-1", v, 1)

	analytics := &blockingAnalytics{
		AnalyticsRepository: memory.NewAnalyticsRepository(e.f.DB),
		started:             make(chan struct{}),
		release:             make(chan struct{}),
	}
	reports := report.NewReportUseCase(report.Deps{
		Analytics: analytics,
		Customers: e.f.Repos.Customers,
		Stores:    e.f.Repos.Stores,
	})
	from, to := e.day()

	first, cancel := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, err := reports.Dashboard(first, e.f.Admin, from, to)
		firstErr <- err
	}()
	<-analytics.started

	type result struct {
		out *dto.DashboardDTO
		err error
	}
	second := make(chan result, 1)
	go func() {
		out, err := reports.Dashboard(context.Background(), e.f.Admin, from, to)
		second <- result{out, err}
	}()

	cancel()
	assert.ErrorIs(t, <-firstErr, context.Canceled, "quien cancela deja de esperar")

	time.Sleep(20 * time.Millisecond)
	close(analytics.release)
	res := <-second
	require.NoError(t, res.err)
	assert.Equal(t, 1, res.out.TransactionCount)
}

func TestExportTransactions_CSV(t *testing.T) {
	e := newEnv(t, nil)
	v := e.f.Variant(t, "Kecap", 7000, 5000, 10)
	e.sell(t, "TRX-9", v, 1)
	from, to := e.day()

	file, err := e.reports.ExportTransactions(context.Background(), e.f.Admin, from, to, "csv")
	require.NoError(t, err)
	assert.Equal(t, "ventas_20260301_20260301.csv", file.Name)
	assert.Equal(t, "text/csv; charset=utf-8", file.ContentType)

	lines := strings.Split(strings.TrimSpace(string(file.Data)), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "Código,Fecha,Método"))
	assert.True(t, strings.HasPrefix(lines[1], "TRX-9,2026-03-01 10:00,cash,7000.00"))

	_, err = e.reports.ExportTransactions(context.Background(), e.f.Admin, from, to, "xlsx")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestExportDebts_PDF(t *testing.T) {
	e := newEnv(t, nil)
	c := e.f.Customer(t, "Yanti")
	e.f.Debt(t, c, 4000)

	file, err := e.reports.ExportDebts(context.Background(), e.f.Admin, "pdf")
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", file.ContentType)
	assert.True(t, strings.HasSuffix(file.Name, ".pdf"))
	assert.True(t, bytes.HasPrefix(file.Data, []byte("%PDF")))

	csvFile, err := e.reports.ExportDebts(context.Background(), e.f.Admin, "csv")
	require.NoError(t, err)
	assert.Contains(t, string(csvFile.Data), "Yanti")
	assert.Contains(t, string(csvFile.Data), "4000.00")
}

func TestDebtStatementPDF(t *testing.T) {
	e := newEnv(t, nil)
	c := e.f.Customer(t, "Rudi")
	e.f.Debt(t, c, 2500)

	file, err := e.reports.DebtStatementPDF(context.Background(), e.f.Admin, c.ID)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(file.Data, []byte("%PDF")))
	assert.True(t, strings.HasPrefix(file.Name, "estado_cuenta_"+c.ID))

	_, err = e.reports.DebtStatementPDF(context.Background(), testutil.New(t, 0).Admin, c.ID)
	assert.ErrorIs(t, err, domain.ErrCustomerNotFound)
}
