package report

import (
	"context"
	"io"
	"time"

	"github.com/jhoicas/kasir-api/internal/domain/entity"
)

// DashboardCache puerto de caché para resúmenes ya calculados.
// Get devuelve false si la clave no existe o expiró.
type DashboardCache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
}

// TableExporter sumidero de exportación tabular: filas + encabezados → archivo.
type TableExporter interface {
	ContentType() string
	Extension() string
	Export(w io.Writer, title string, headers []string, rows [][]string) error
}

// Statement datos del estado de cuenta de un cliente.
type Statement struct {
	StoreName   string
	Customer    *entity.Customer
	Items       []*entity.DebtItem
	Payments    []*entity.DebtPayment
	GeneratedAt time.Time
}

// StatementRenderer genera la representación PDF del estado de cuenta.
type StatementRenderer interface {
	RenderStatement(ctx context.Context, s Statement) ([]byte, error)
}
