package checkout

import (
	"context"
	"time"

	"github.com/jhoicas/kasir-api/internal/domain"
	"github.com/jhoicas/kasir-api/internal/domain/entity"
	"github.com/jhoicas/kasir-api/internal/domain/repository"
)

// StockAdjuster interfaz para integrar el checkout con inventario.
// AdjustInTx descuenta stock usando los repositorios del caller (misma transacción).
// Si retorna error (ej: ErrInsufficientStock), el caller debe hacer rollback.
type StockAdjuster interface {
	AdjustInTx(
		ctx context.Context,
		tx repository.TxRepos,
		rc domain.RequestContext,
		variantID string,
		delta int,
		reference string,
		now time.Time,
	) (*entity.StockRecord, error)
}
