package memory

import (
	"context"
	"sort"
	"time"

	"github.com/jhoicas/kasir-api/internal/domain"
	"github.com/jhoicas/kasir-api/internal/domain/entity"
	"github.com/jhoicas/kasir-api/internal/domain/repository"
)

var _ repository.TransactionRepository = (*TransactionRepo)(nil)

// TransactionRepo ventas confirmadas en memoria (append-only).
type TransactionRepo struct {
	db   *DB
	inTx bool
}

func (r *TransactionRepo) Create(_ context.Context, t *entity.Transaction) error {
	return r.db.write(r.inTx, func(s *state) error {
		for _, existing := range s.transactions {
			if existing.StoreID == t.StoreID && existing.TransactionCode == t.TransactionCode {
				return domain.ErrDuplicate
			}
		}
		s.transactions[t.ID] = *t
		return nil
	})
}

func (r *TransactionRepo) CreateItem(_ context.Context, item *entity.TransactionItem) error {
	return r.db.write(r.inTx, func(s *state) error {
		if _, ok := s.transactions[item.TransactionID]; !ok {
			return domain.ErrNotFound
		}
		s.transactionItems = append(s.transactionItems, *item)
		return nil
	})
}

func (r *TransactionRepo) GetByID(_ context.Context, id string) (*entity.Transaction, error) {
	var out *entity.Transaction
	r.db.read(func(s *state) {
		if v, ok := s.transactions[id]; ok {
			out = &v
		}
	})
	return out, nil
}

func (r *TransactionRepo) GetByCode(_ context.Context, storeID, code string) (*entity.Transaction, error) {
	var out *entity.Transaction
	r.db.read(func(s *state) {
		for _, v := range s.transactions {
			if v.StoreID == storeID && v.TransactionCode == code {
				v := v
				out = &v
				return
			}
		}
	})
	return out, nil
}

func (r *TransactionRepo) ListItems(_ context.Context, transactionID string) ([]*entity.TransactionItem, error) {
	var list []*entity.TransactionItem
	r.db.read(func(s *state) {
		for _, v := range s.transactionItems {
			if v.TransactionID == transactionID {
				v := v
				list = append(list, &v)
			}
		}
	})
	return list, nil
}

func (r *TransactionRepo) ListByRange(_ context.Context, storeID string, from, to time.Time) ([]*entity.Transaction, error) {
	var list []*entity.Transaction
	r.db.read(func(s *state) {
		for _, v := range s.transactions {
			if v.StoreID == storeID && inRange(v.CreatedAt, from, to) {
				v := v
				list = append(list, &v)
			}
		}
	})
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.Before(list[j].CreatedAt) })
	return list, nil
}

func inRange(t, from, to time.Time) bool {
	return !t.Before(from) && !t.After(to)
}
