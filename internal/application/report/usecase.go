// Package report contiene los casos de uso de reportes: dashboard de ventas, exportaciones
// tabulares (CSV/PDF) y el estado de cuenta de clientes.
package report

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/jhoicas/kasir-api/internal/application/dto"
	"github.com/jhoicas/kasir-api/internal/domain"
	"github.com/jhoicas/kasir-api/internal/domain/entity"
	"github.com/jhoicas/kasir-api/internal/domain/repository"
	"github.com/jhoicas/kasir-api/pkg/logger"
)

const (
	dashboardTopVariants = 5 // número de variantes en el widget del dashboard
	dateLayout           = "2006-01-02"
	pageSize             = 100
)

// Deps dependencias del caso de uso de reportes.
type Deps struct {
	Analytics    repository.AnalyticsRepository
	Transactions repository.TransactionRepository
	Customers    repository.CustomerRepository
	Debts        repository.DebtRepository
	Stores       repository.StoreRepository
	Cache        DashboardCache // opcional
	CacheTTL     time.Duration
	Exporters    map[string]TableExporter // por formato: csv, pdf
	Statements   StatementRenderer
	Log          *logger.Logger
}

// ReportUseCase genera reportes de la tienda. Fuente de datos: repositorios read-only.
type ReportUseCase struct {
	deps  Deps
	group singleflight.Group
	now   func() time.Time
}

// NewReportUseCase construye el caso de uso.
func NewReportUseCase(deps Deps) *ReportUseCase {
	if deps.Log == nil {
		deps.Log = logger.Nop()
	}
	if deps.CacheTTL <= 0 {
		deps.CacheTTL = time.Minute
	}
	return &ReportUseCase{deps: deps, now: time.Now}
}

// ExportFile archivo generado por una exportación.
type ExportFile struct {
	Name        string
	ContentType string
	Data        []byte
}

// Dashboard construye los KPIs de la tienda en [from, to].
// El resultado se cachea por (tienda, rango) y los cálculos concurrentes de la misma clave
// se colapsan en uno solo.
func (uc *ReportUseCase) Dashboard(ctx context.Context, rc domain.RequestContext, from, to time.Time) (*dto.DashboardDTO, error) {
	if to.Before(from) {
		return nil, domain.ErrInvalidInput
	}
	key := fmt.Sprintf("dashboard:%s:%s:%s", rc.StoreID, from.Format(dateLayout), to.Format(dateLayout))

	if uc.deps.Cache != nil {
		var cached dto.DashboardDTO
		hit, err := uc.deps.Cache.Get(ctx, key, &cached)
		if err != nil {
			uc.deps.Log.Warn().Err(err).Str("key", key).Msg("caché de dashboard no disponible")
		} else if hit {
			return &cached, nil
		}
	}

	// El cálculo compartido no hereda la cancelación de quien lo inició: los demás que esperan
	// la misma clave no deben recibir su context.Canceled.
	shared := context.WithoutCancel(ctx)
	ch := uc.group.DoChan(key, func() (any, error) {
		out, err := uc.buildDashboard(shared, rc.StoreID, from, to)
		if err != nil {
			return nil, err
		}
		if uc.deps.Cache != nil {
			if err := uc.deps.Cache.Set(shared, key, out, uc.deps.CacheTTL); err != nil {
				uc.deps.Log.Warn().Err(err).Str("key", key).Msg("no se pudo guardar el dashboard en caché")
			}
		}
		return out, nil
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*dto.DashboardDTO), nil
	}
}

// buildDashboard lanza las tres consultas en paralelo.
func (uc *ReportUseCase) buildDashboard(ctx context.Context, storeID string, from, to time.Time) (*dto.DashboardDTO, error) {
	var (
		metrics repository.SalesMetrics
		top     []repository.TopVariantResult
		debt    decimal.Decimal
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		metrics, err = uc.deps.Analytics.GetSalesMetrics(gctx, storeID, from, to)
		if err != nil {
			return fmt.Errorf("dashboard: métricas de ventas: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		top, err = uc.deps.Analytics.GetTopVariants(gctx, storeID, from, to, dashboardTopVariants)
		if err != nil {
			return fmt.Errorf("dashboard: top variantes: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		debt, err = uc.deps.Analytics.GetOutstandingDebt(gctx, storeID)
		if err != nil {
			return fmt.Errorf("dashboard: deuda abierta: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	avg := decimal.Zero
	if metrics.TransactionCount > 0 {
		avg = metrics.Revenue.Div(decimal.NewFromInt(int64(metrics.TransactionCount))).Round(2)
	}
	out := &dto.DashboardDTO{
		From:             from.Format(dateLayout),
		To:               to.Format(dateLayout),
		Revenue:          metrics.Revenue.Round(2),
		Profit:           metrics.Profit.Round(2),
		TransactionCount: metrics.TransactionCount,
		AverageTicket:    avg,
		OutstandingDebt:  debt.Round(2),
		TopVariants:      make([]dto.TopVariantDTO, 0, len(top)),
	}
	for _, t := range top {
		margin := decimal.Zero
		if t.Revenue.IsPositive() {
			margin = t.Profit.Div(t.Revenue).Mul(decimal.NewFromInt(100)).Round(2)
		}
		out.TopVariants = append(out.TopVariants, dto.TopVariantDTO{
			VariantID:        t.VariantID,
			ProductName:      t.ProductName,
			VariantName:      t.VariantName,
			UnitsSold:        t.UnitsSold,
			Revenue:          t.Revenue.Round(2),
			MarginPercentage: margin,
		})
	}
	return out, nil
}

// ExportTransactions exporta las ventas del rango en el formato pedido (csv, pdf).
func (uc *ReportUseCase) ExportTransactions(ctx context.Context, rc domain.RequestContext, from, to time.Time, format string) (*ExportFile, error) {
	exporter, ok := uc.deps.Exporters[format]
	if !ok {
		return nil, domain.ErrInvalidInput
	}
	list, err := uc.deps.Transactions.ListByRange(ctx, rc.StoreID, from, to)
	if err != nil {
		return nil, err
	}
	headers := []string{"Código", "Fecha", "Método", "Total", "Descuento", "Impuesto", "Gran total", "Pagado", "Cambio", "Ganancia", "Cajero"}
	rows := make([][]string, 0, len(list))
	for _, t := range list {
		rows = append(rows, []string{
			t.TransactionCode,
			t.CreatedAt.Format("2006-01-02 15:04"),
			t.PaymentMethod,
			t.TotalPrice.StringFixed(2),
			t.Discount.StringFixed(2),
			t.Tax.StringFixed(2),
			t.GrandTotal.StringFixed(2),
			t.TotalPayment.StringFixed(2),
			t.TotalChange.StringFixed(2),
			t.TotalProfit.StringFixed(2),
			t.CashierID,
		})
	}
	title := fmt.Sprintf("Ventas %s a %s", from.Format(dateLayout), to.Format(dateLayout))
	name := fmt.Sprintf("ventas_%s_%s", from.Format("20060102"), to.Format("20060102"))
	return uc.export(exporter, name, title, headers, rows)
}

// ExportDebts exporta las líneas de deuda abiertas de la tienda.
func (uc *ReportUseCase) ExportDebts(ctx context.Context, rc domain.RequestContext, format string) (*ExportFile, error) {
	exporter, ok := uc.deps.Exporters[format]
	if !ok {
		return nil, domain.ErrInvalidInput
	}
	items, err := uc.deps.Debts.ListOpenByStore(ctx, rc.StoreID)
	if err != nil {
		return nil, err
	}
	names := make(map[string]string)
	headers := []string{"Cliente", "Línea", "Venta", "Total", "Pagado", "Pendiente", "Estado", "Creada"}
	rows := make([][]string, 0, len(items))
	for _, d := range items {
		name, ok := names[d.CustomerID]
		if !ok {
			customer, err := uc.deps.Customers.GetByID(ctx, d.CustomerID)
			if err != nil {
				return nil, err
			}
			if customer != nil {
				name = customer.Name
			}
			names[d.CustomerID] = name
		}
		rows = append(rows, []string{
			name,
			d.ID,
			deref(d.TransactionID),
			d.TotalAmount.StringFixed(2),
			d.PaidAmount.StringFixed(2),
			d.RemainingAmount.StringFixed(2),
			d.Status,
			d.CreatedAt.Format("2006-01-02 15:04"),
		})
	}
	now := uc.now()
	return uc.export(exporter, "deudas_"+now.Format("20060102"), "Deudas abiertas", headers, rows)
}

// DebtStatementPDF genera el estado de cuenta del cliente con todas sus líneas y abonos.
func (uc *ReportUseCase) DebtStatementPDF(ctx context.Context, rc domain.RequestContext, customerID string) (*ExportFile, error) {
	customer, err := uc.deps.Customers.GetByID(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if customer == nil || customer.StoreID != rc.StoreID {
		return nil, domain.ErrCustomerNotFound
	}
	storeName := ""
	if store, err := uc.deps.Stores.GetByID(ctx, rc.StoreID); err != nil {
		return nil, err
	} else if store != nil {
		storeName = store.Name
	}

	var items []*entity.DebtItem
	for offset := 0; ; offset += pageSize {
		page, total, err := uc.deps.Debts.ListItems(ctx, customer.ID, repository.ListParams{
			SortBy: "created_at", SortDir: "asc", Limit: pageSize, Offset: offset,
		})
		if err != nil {
			return nil, err
		}
		items = append(items, page...)
		if len(page) == 0 || len(items) >= total {
			break
		}
	}
	var payments []*entity.DebtPayment
	for offset := 0; ; offset += pageSize {
		page, total, err := uc.deps.Debts.ListPayments(ctx, customer.ID, repository.ListParams{
			SortBy: "paid_at", SortDir: "asc", Limit: pageSize, Offset: offset,
		})
		if err != nil {
			return nil, err
		}
		payments = append(payments, page...)
		if len(page) == 0 || len(payments) >= total {
			break
		}
	}

	now := uc.now()
	data, err := uc.deps.Statements.RenderStatement(ctx, Statement{
		StoreName:   storeName,
		Customer:    customer,
		Items:       items,
		Payments:    payments,
		GeneratedAt: now,
	})
	if err != nil {
		return nil, fmt.Errorf("estado de cuenta: %w", err)
	}
	return &ExportFile{
		Name:        fmt.Sprintf("estado_cuenta_%s_%s.pdf", customer.ID, now.Format("20060102")),
		ContentType: "application/pdf",
		Data:        data,
	}, nil
}

func (uc *ReportUseCase) export(exporter TableExporter, name, title string, headers []string, rows [][]string) (*ExportFile, error) {
	var buf bytes.Buffer
	if err := exporter.Export(&buf, title, headers, rows); err != nil {
		return nil, fmt.Errorf("exportar %s: %w", exporter.Extension(), err)
	}
	uc.deps.Log.Debug().Str("file", name).Int("rows", len(rows)).Msg("exportación generada")
	return &ExportFile{
		Name:        name + "." + exporter.Extension(),
		ContentType: exporter.ContentType(),
		Data:        buf.Bytes(),
	}, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
