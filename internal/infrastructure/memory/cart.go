package memory

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/kasir-api/internal/domain"
	"github.com/jhoicas/kasir-api/internal/domain/entity"
	"github.com/jhoicas/kasir-api/internal/domain/repository"
)

var _ repository.CartRepository = (*CartRepo)(nil)

// CartRepo carritos e ítems en memoria.
type CartRepo struct {
	db   *DB
	inTx bool
}

func findCart(s *state, storeID, userID, code string) (entity.Cart, bool) {
	for _, c := range s.carts {
		if c.StoreID == storeID && c.UserID == userID && c.TransactionCode == code {
			return c, true
		}
	}
	return entity.Cart{}, false
}

func (r *CartRepo) GetOrCreate(_ context.Context, cart *entity.Cart) (*entity.Cart, error) {
	var out entity.Cart
	err := r.db.write(r.inTx, func(s *state) error {
		if c, ok := findCart(s, cart.StoreID, cart.UserID, cart.TransactionCode); ok {
			out = c
			return nil
		}
		out = *cart
		out.Items = nil
		s.carts[out.ID] = out
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *CartRepo) GetByCode(_ context.Context, storeID, userID, code string) (*entity.Cart, error) {
	var out *entity.Cart
	r.db.read(func(s *state) {
		if c, ok := findCart(s, storeID, userID, code); ok {
			out = &c
		}
	})
	return out, nil
}

func (r *CartRepo) GetByID(_ context.Context, id string) (*entity.Cart, error) {
	var out *entity.Cart
	r.db.read(func(s *state) {
		if c, ok := s.carts[id]; ok {
			out = &c
		}
	})
	return out, nil
}

// Lock equivale a GetByID: el lock de transacción ya serializa las mutaciones del carrito.
func (r *CartRepo) Lock(ctx context.Context, id string) (*entity.Cart, error) {
	return r.GetByID(ctx, id)
}

func (r *CartRepo) Delete(_ context.Context, id string) error {
	return r.db.write(r.inTx, func(s *state) error {
		delete(s.carts, id)
		for itemID, item := range s.cartItems {
			if item.CartID == id {
				delete(s.cartItems, itemID)
			}
		}
		return nil
	})
}

func (r *CartRepo) IncrementItem(_ context.Context, item *entity.CartItem) (*entity.CartItem, error) {
	var out entity.CartItem
	err := r.db.write(r.inTx, func(s *state) error {
		if _, ok := s.carts[item.CartID]; !ok {
			return domain.ErrCartNotFound
		}
		for id, existing := range s.cartItems {
			if existing.CartID == item.CartID && existing.VariantID == item.VariantID {
				existing.Quantity++
				existing.Price = item.Price
				existing.Recalculate()
				existing.UpdatedAt = item.UpdatedAt
				s.cartItems[id] = existing
				out = existing
				return nil
			}
		}
		out = *item
		out.Recalculate()
		s.cartItems[out.ID] = out
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *CartRepo) GetItem(_ context.Context, id string) (*entity.CartItem, error) {
	var out *entity.CartItem
	r.db.read(func(s *state) {
		if v, ok := s.cartItems[id]; ok {
			out = &v
		}
	})
	return out, nil
}

func (r *CartRepo) GetItemByVariant(_ context.Context, cartID, variantID string) (*entity.CartItem, error) {
	var out *entity.CartItem
	r.db.read(func(s *state) {
		for _, v := range s.cartItems {
			if v.CartID == cartID && v.VariantID == variantID {
				v := v
				out = &v
				return
			}
		}
	})
	return out, nil
}

func (r *CartRepo) UpdateItem(_ context.Context, item *entity.CartItem) error {
	return r.db.write(r.inTx, func(s *state) error {
		if _, ok := s.cartItems[item.ID]; !ok {
			return domain.ErrNotFound
		}
		for id, other := range s.cartItems {
			if id != item.ID && other.CartID == item.CartID && other.VariantID == item.VariantID {
				return domain.ErrDuplicate
			}
		}
		s.cartItems[item.ID] = *item
		return nil
	})
}

func (r *CartRepo) DeleteItem(_ context.Context, id string) error {
	return r.db.write(r.inTx, func(s *state) error {
		delete(s.cartItems, id)
		return nil
	})
}

func (r *CartRepo) ListItems(_ context.Context, cartID string) ([]*entity.CartItem, error) {
	var list []*entity.CartItem
	r.db.read(func(s *state) {
		for _, v := range s.cartItems {
			if v.CartID == cartID {
				v := v
				list = append(list, &v)
			}
		}
	})
	sort.Slice(list, func(i, j int) bool {
		if list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].ID < list[j].ID
		}
		return list[i].CreatedAt.Before(list[j].CreatedAt)
	})
	return list, nil
}

func (r *CartRepo) RecalculateTotal(_ context.Context, cartID string) (decimal.Decimal, error) {
	total := decimal.Zero
	err := r.db.write(r.inTx, func(s *state) error {
		cart, ok := s.carts[cartID]
		if !ok {
			return domain.ErrCartNotFound
		}
		for _, v := range s.cartItems {
			if v.CartID == cartID {
				total = total.Add(v.TotalPrice)
			}
		}
		cart.TotalPrice = total
		cart.UpdatedAt = time.Now()
		s.carts[cartID] = cart
		return nil
	})
	return total, err
}
