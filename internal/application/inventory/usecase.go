package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/kasir-api/internal/application/ports"
	"github.com/jhoicas/kasir-api/internal/domain"
	"github.com/jhoicas/kasir-api/internal/domain/entity"
	"github.com/jhoicas/kasir-api/internal/domain/inventory"
	"github.com/jhoicas/kasir-api/internal/domain/repository"
)

// Options configura el ajustador de inventario.
type Options struct {
	// AllowNegative conserva cantidades negativas (sobreventa) en lugar de rechazarlas.
	AllowNegative bool
	Metrics       ports.MetricsRecorder
	Clock         func() time.Time
}

// AdjustStockUseCase aplica deltas de cantidad al stock de una variante de forma transaccional
// con bloqueo de fila (SELECT FOR UPDATE) y deja un movimiento por cada ajuste.
type AdjustStockUseCase struct {
	txRunner      ports.TxRunner
	variantRepo   repository.VariantRepository
	stockRepo     repository.StockRepository
	movementRepo  repository.StockMovementRepository
	allowNegative bool
	metrics       ports.MetricsRecorder
	now           func() time.Time
}

// NewAdjustStockUseCase construye el caso de uso.
func NewAdjustStockUseCase(
	txRunner ports.TxRunner,
	variantRepo repository.VariantRepository,
	stockRepo repository.StockRepository,
	movementRepo repository.StockMovementRepository,
	opts Options,
) *AdjustStockUseCase {
	if opts.Metrics == nil {
		opts.Metrics = ports.NoopMetrics{}
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	return &AdjustStockUseCase{
		txRunner:      txRunner,
		variantRepo:   variantRepo,
		stockRepo:     stockRepo,
		movementRepo:  movementRepo,
		allowNegative: opts.AllowNegative,
		metrics:       opts.Metrics,
		now:           opts.Clock,
	}
}

// AdjustInput entrada de un ajuste manual. Delta positivo suma, negativo resta.
type AdjustInput struct {
	VariantID string
	Delta     int
	Reason    string
}

// RestockInput entrada de un reabastecimiento con costo.
type RestockInput struct {
	VariantID string
	Quantity  int
	UnitCost  decimal.Decimal
	Supplier  string
}

// Adjust (sólo admin) inicia una transacción, bloquea el stock de la variante, aplica el delta,
// recalcula el tier y guarda el movimiento. Commit o Rollback según el resultado.
func (uc *AdjustStockUseCase) Adjust(ctx context.Context, rc domain.RequestContext, in AdjustInput) (*entity.StockRecord, error) {
	if !rc.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	if in.VariantID == "" || in.Delta == 0 {
		return nil, domain.ErrInvalidQuantity
	}
	reason := in.Reason
	if reason == "" {
		reason = "ajuste manual"
	}
	now := uc.now()
	var out *entity.StockRecord
	err := uc.txRunner.Run(ctx, func(tx repository.TxRepos) error {
		var err error
		out, err = uc.AdjustInTx(ctx, tx, rc, in.VariantID, in.Delta, reason, now)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// AdjustInTx ejecuta el ajuste usando los repositorios de la transacción del llamador.
// Lo usa el checkout para descontar stock dentro de su propia transacción.
func (uc *AdjustStockUseCase) AdjustInTx(
	ctx context.Context,
	tx repository.TxRepos,
	rc domain.RequestContext,
	variantID string,
	delta int,
	reference string,
	now time.Time,
) (*entity.StockRecord, error) {
	if delta == 0 {
		return nil, domain.ErrInvalidQuantity
	}
	if !domain.IsID(variantID) {
		return nil, domain.ErrVariantNotFound
	}
	variant, err := tx.Variants.GetByID(ctx, variantID)
	if err != nil {
		return nil, err
	}
	if variant == nil || variant.StoreID != rc.StoreID {
		return nil, domain.ErrVariantNotFound
	}

	// Bloquea la fila de stock para evitar actualizaciones perdidas
	stock, err := tx.Stock.GetForUpdate(ctx, variantID)
	if err != nil {
		return nil, err
	}
	newQty := stock.Quantity + delta
	if newQty < 0 && !uc.allowNegative {
		return nil, domain.ErrInsufficientStock
	}
	stock.StoreID = variant.StoreID
	stock.VariantID = variantID
	stock.Quantity = newQty
	// Un registro que recibe un movimiento queda inicializado aunque vuelva a cero.
	stock.Status = inventory.StatusFor(newQty, true)
	stock.UpdatedAt = now
	if err := tx.Stock.Upsert(ctx, stock); err != nil {
		return nil, err
	}

	mov := &entity.StockMovement{
		ID:        uuid.New().String(),
		StoreID:   variant.StoreID,
		VariantID: variantID,
		Type:      inventory.MovementType(delta),
		Quantity:  delta,
		Reference: reference,
		CreatedBy: rc.OperatorID,
		CreatedAt: now,
	}
	if err := tx.Movements.Create(ctx, mov); err != nil {
		return nil, err
	}
	uc.metrics.StockAdjusted(mov.Type, delta)
	return stock, nil
}

// Restock registra un lote de entrada: guarda el lote, recalcula el costo promedio de la
// variante (CostCalculator) y suma la cantidad, todo en la misma transacción.
func (uc *AdjustStockUseCase) Restock(ctx context.Context, rc domain.RequestContext, in RestockInput) (*entity.StockRecord, error) {
	if !rc.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	if in.VariantID == "" || in.Quantity <= 0 {
		return nil, domain.ErrInvalidQuantity
	}
	if in.UnitCost.IsNegative() {
		return nil, domain.ErrInvalidAmount
	}
	if !domain.IsID(in.VariantID) {
		return nil, domain.ErrVariantNotFound
	}
	now := uc.now()
	var out *entity.StockRecord
	err := uc.txRunner.Run(ctx, func(tx repository.TxRepos) error {
		variant, err := tx.Variants.GetByID(ctx, in.VariantID)
		if err != nil {
			return err
		}
		if variant == nil || variant.StoreID != rc.StoreID {
			return domain.ErrVariantNotFound
		}
		current, err := tx.Stock.GetForUpdate(ctx, in.VariantID)
		if err != nil {
			return err
		}
		qty := decimal.NewFromInt(int64(in.Quantity))
		newCost := inventory.CostCalculator(decimal.NewFromInt(int64(current.Quantity)), variant.Cost, qty, in.UnitCost)
		if err := tx.Variants.UpdateCost(ctx, variant.ID, newCost); err != nil {
			return err
		}
		restock := &entity.Restock{
			ID:        uuid.New().String(),
			StoreID:   variant.StoreID,
			VariantID: variant.ID,
			Supplier:  in.Supplier,
			Quantity:  in.Quantity,
			UnitCost:  in.UnitCost,
			TotalCost: qty.Mul(in.UnitCost),
			CreatedBy: rc.OperatorID,
			CreatedAt: now,
		}
		if err := tx.Restocks.Create(ctx, restock); err != nil {
			return err
		}
		out, err = uc.AdjustInTx(ctx, tx, rc, variant.ID, in.Quantity, fmt.Sprintf("reabastecimiento %s", restock.ID), now)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// GetStock devuelve el stock actual de una variante de la tienda.
func (uc *AdjustStockUseCase) GetStock(ctx context.Context, rc domain.RequestContext, variantID string) (*entity.StockRecord, error) {
	if !domain.IsID(variantID) {
		return nil, domain.ErrVariantNotFound
	}
	variant, err := uc.variantRepo.GetByID(ctx, variantID)
	if err != nil {
		return nil, err
	}
	if variant == nil || variant.StoreID != rc.StoreID {
		return nil, domain.ErrVariantNotFound
	}
	return uc.stockRepo.Get(ctx, variantID)
}

// ListMovements lista la bitácora de movimientos de una variante.
func (uc *AdjustStockUseCase) ListMovements(ctx context.Context, rc domain.RequestContext, variantID string, p repository.ListParams) ([]*entity.StockMovement, int, error) {
	if !domain.IsID(variantID) {
		return nil, 0, domain.ErrVariantNotFound
	}
	variant, err := uc.variantRepo.GetByID(ctx, variantID)
	if err != nil {
		return nil, 0, err
	}
	if variant == nil || variant.StoreID != rc.StoreID {
		return nil, 0, domain.ErrVariantNotFound
	}
	return uc.movementRepo.ListByVariant(ctx, variantID, p.Normalize())
}
