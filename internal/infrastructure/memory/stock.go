package memory

import (
	"context"

	"github.com/jhoicas/kasir-api/internal/domain/entity"
	"github.com/jhoicas/kasir-api/internal/domain/repository"
)

var (
	_ repository.StockRepository         = (*StockRepo)(nil)
	_ repository.StockMovementRepository = (*StockMovementRepo)(nil)
	_ repository.RestockRepository       = (*RestockRepo)(nil)
)

// StockRepo stock por variante en memoria.
type StockRepo struct {
	db   *DB
	inTx bool
}

func (r *StockRepo) Get(_ context.Context, variantID string) (*entity.StockRecord, error) {
	out := &entity.StockRecord{VariantID: variantID, Status: entity.StockStatusNotSet}
	r.db.read(func(s *state) {
		if v, ok := s.stock[variantID]; ok {
			out = &v
		}
	})
	return out, nil
}

// GetForUpdate equivale a Get: el lock de transacción ya serializa a los escritores.
func (r *StockRepo) GetForUpdate(ctx context.Context, variantID string) (*entity.StockRecord, error) {
	return r.Get(ctx, variantID)
}

func (r *StockRepo) Upsert(_ context.Context, stock *entity.StockRecord) error {
	return r.db.write(r.inTx, func(s *state) error {
		s.stock[stock.VariantID] = *stock
		return nil
	})
}

// StockMovementRepo bitácora de movimientos en memoria.
type StockMovementRepo struct {
	db   *DB
	inTx bool
}

func (r *StockMovementRepo) Create(_ context.Context, movement *entity.StockMovement) error {
	return r.db.write(r.inTx, func(s *state) error {
		s.movements = append(s.movements, *movement)
		return nil
	})
}

func (r *StockMovementRepo) ListByVariant(_ context.Context, variantID string, p repository.ListParams) ([]*entity.StockMovement, int, error) {
	var list []*entity.StockMovement
	r.db.read(func(s *state) {
		for i := len(s.movements) - 1; i >= 0; i-- {
			m := s.movements[i]
			if m.VariantID == variantID && matches(p.Search, m.Reference, m.Type) {
				list = append(list, &m)
			}
		}
	})
	// list queda del más nuevo al más viejo; asc la invierte.
	if p.SortDir == "asc" {
		for i, j := 0, len(list)-1; i < j; i, j = i+1, j-1 {
			list[i], list[j] = list[j], list[i]
		}
	}
	out, total := page(list, p)
	return out, total, nil
}

// RestockRepo lotes de reabastecimiento en memoria.
type RestockRepo struct {
	db   *DB
	inTx bool
}

func (r *RestockRepo) Create(_ context.Context, restock *entity.Restock) error {
	return r.db.write(r.inTx, func(s *state) error {
		s.restocks = append(s.restocks, *restock)
		return nil
	})
}

func (r *RestockRepo) LatestByVariant(_ context.Context, variantID string) (*entity.Restock, error) {
	var out *entity.Restock
	r.db.read(func(s *state) {
		for i := len(s.restocks) - 1; i >= 0; i-- {
			if s.restocks[i].VariantID == variantID {
				v := s.restocks[i]
				out = &v
				return
			}
		}
	})
	return out, nil
}
