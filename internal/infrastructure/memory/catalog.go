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

var (
	_ repository.StoreRepository    = (*StoreRepo)(nil)
	_ repository.ProductRepository  = (*ProductRepo)(nil)
	_ repository.VariantRepository  = (*VariantRepo)(nil)
	_ repository.DiscountRepository = (*DiscountRepo)(nil)
)

// StoreRepo tiendas en memoria.
type StoreRepo struct {
	db   *DB
	inTx bool
}

func (r *StoreRepo) Create(_ context.Context, store *entity.Store) error {
	return r.db.write(r.inTx, func(s *state) error {
		if _, ok := s.stores[store.ID]; ok {
			return domain.ErrDuplicate
		}
		s.stores[store.ID] = *store
		return nil
	})
}

func (r *StoreRepo) GetByID(_ context.Context, id string) (*entity.Store, error) {
	var out *entity.Store
	r.db.read(func(s *state) {
		if v, ok := s.stores[id]; ok {
			out = &v
		}
	})
	return out, nil
}

// ProductRepo productos en memoria.
type ProductRepo struct {
	db   *DB
	inTx bool
}

func (r *ProductRepo) Create(_ context.Context, product *entity.Product) error {
	return r.db.write(r.inTx, func(s *state) error {
		for _, p := range s.products {
			if p.StoreID == product.StoreID && p.SKU == product.SKU {
				return domain.ErrDuplicate
			}
		}
		s.products[product.ID] = *product
		return nil
	})
}

func (r *ProductRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	var out *entity.Product
	r.db.read(func(s *state) {
		if v, ok := s.products[id]; ok {
			out = &v
		}
	})
	return out, nil
}

func (r *ProductRepo) GetByStoreAndSKU(_ context.Context, storeID, sku string) (*entity.Product, error) {
	var out *entity.Product
	r.db.read(func(s *state) {
		for _, p := range s.products {
			if p.StoreID == storeID && p.SKU == sku {
				v := p
				out = &v
				return
			}
		}
	})
	return out, nil
}

func (r *ProductRepo) List(_ context.Context, storeID string, p repository.ListParams) ([]*entity.Product, int, error) {
	var list []*entity.Product
	r.db.read(func(s *state) {
		for _, v := range s.products {
			if v.StoreID == storeID && matches(p.Search, v.Name, v.SKU) {
				v := v
				list = append(list, &v)
			}
		}
	})
	sort.SliceStable(list, func(i, j int) bool {
		a, b := list[i], list[j]
		var less bool
		switch p.SortBy {
		case "name":
			less = a.Name < b.Name
		case "sku":
			less = a.SKU < b.SKU
		default:
			less = a.CreatedAt.Before(b.CreatedAt) || (a.CreatedAt.Equal(b.CreatedAt) && a.ID < b.ID)
		}
		if p.SortDir == "asc" {
			return less
		}
		return !less
	})
	out, total := page(list, p)
	return out, total, nil
}

// VariantRepo variantes en memoria.
type VariantRepo struct {
	db   *DB
	inTx bool
}

func (r *VariantRepo) Create(_ context.Context, variant *entity.Variant) error {
	return r.db.write(r.inTx, func(s *state) error {
		if _, ok := s.variants[variant.ID]; ok {
			return domain.ErrDuplicate
		}
		s.variants[variant.ID] = *variant
		return nil
	})
}

func (r *VariantRepo) GetByID(_ context.Context, id string) (*entity.Variant, error) {
	var out *entity.Variant
	r.db.read(func(s *state) {
		if v, ok := s.variants[id]; ok && v.DeletedAt == nil {
			out = &v
		}
	})
	return out, nil
}

func (r *VariantRepo) ListByProduct(_ context.Context, productID string) ([]*entity.Variant, error) {
	var list []*entity.Variant
	r.db.read(func(s *state) {
		for _, v := range s.variants {
			if v.ProductID == productID && v.DeletedAt == nil {
				v := v
				list = append(list, &v)
			}
		}
	})
	sort.Slice(list, func(i, j int) bool {
		if list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].Name < list[j].Name
		}
		return list[i].CreatedAt.Before(list[j].CreatedAt)
	})
	return list, nil
}

func (r *VariantRepo) UpdatePrice(_ context.Context, id string, price decimal.Decimal) error {
	return r.db.write(r.inTx, func(s *state) error {
		v, ok := s.variants[id]
		if !ok {
			return domain.ErrNotFound
		}
		v.Price = price
		v.UpdatedAt = time.Now()
		s.variants[id] = v
		return nil
	})
}

func (r *VariantRepo) UpdateCost(_ context.Context, id string, cost decimal.Decimal) error {
	return r.db.write(r.inTx, func(s *state) error {
		v, ok := s.variants[id]
		if !ok {
			return domain.ErrNotFound
		}
		v.Cost = cost
		v.UpdatedAt = time.Now()
		s.variants[id] = v
		return nil
	})
}

// DiscountRepo descuentos en memoria.
type DiscountRepo struct {
	db   *DB
	inTx bool
}

func (r *DiscountRepo) Create(_ context.Context, discount *entity.Discount) error {
	return r.db.write(r.inTx, func(s *state) error {
		s.discounts[discount.ID] = *discount
		return nil
	})
}

func (r *DiscountRepo) ActiveForVariant(_ context.Context, storeID, variantID string) (*entity.Discount, error) {
	var out *entity.Discount
	r.db.read(func(s *state) {
		for _, d := range s.discounts {
			if d.StoreID != storeID || d.VariantID != variantID || !d.IsActive {
				continue
			}
			if out == nil || d.CreatedAt.After(out.CreatedAt) {
				v := d
				out = &v
			}
		}
	})
	return out, nil
}
