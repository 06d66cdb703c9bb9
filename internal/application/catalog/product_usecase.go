// Package catalog contiene los casos de uso del catálogo de la tienda: productos con sus
// variantes, precios, descuentos y clientes.
package catalog

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/kasir-api/internal/application/dto"
	"github.com/jhoicas/kasir-api/internal/application/ports"
	"github.com/jhoicas/kasir-api/internal/domain"
	"github.com/jhoicas/kasir-api/internal/domain/entity"
	"github.com/jhoicas/kasir-api/internal/domain/inventory"
	"github.com/jhoicas/kasir-api/internal/domain/repository"
)

// ProductUseCase casos de uso para productos y variantes. Cost y Stock se manejan vía
// reabastecimientos y ajustes de inventario, nunca directamente.
type ProductUseCase struct {
	txRunner     ports.TxRunner
	productRepo  repository.ProductRepository
	variantRepo  repository.VariantRepository
	stockRepo    repository.StockRepository
	discountRepo repository.DiscountRepository
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(
	txRunner ports.TxRunner,
	productRepo repository.ProductRepository,
	variantRepo repository.VariantRepository,
	stockRepo repository.StockRepository,
	discountRepo repository.DiscountRepository,
) *ProductUseCase {
	return &ProductUseCase{
		txRunner:     txRunner,
		productRepo:  productRepo,
		variantRepo:  variantRepo,
		stockRepo:    stockRepo,
		discountRepo: discountRepo,
	}
}

// Create crea el producto con sus variantes y un registro de stock not-set por variante.
func (uc *ProductUseCase) Create(ctx context.Context, rc domain.RequestContext, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if in.SKU == "" || in.Name == "" || len(in.Variants) == 0 {
		return nil, domain.ErrInvalidInput
	}
	for _, v := range in.Variants {
		if v.Name == "" || v.Price.IsNegative() || v.Cost.IsNegative() || !domain.IsMoney(v.Price) {
			return nil, domain.ErrInvalidInput
		}
	}
	now := time.Now()
	product := &entity.Product{
		ID:          uuid.New().String(),
		StoreID:     rc.StoreID,
		SKU:         in.SKU,
		Name:        in.Name,
		Description: in.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	variants := make([]*entity.Variant, 0, len(in.Variants))
	err := uc.txRunner.Run(ctx, func(tx repository.TxRepos) error {
		existing, err := tx.Products.GetByStoreAndSKU(ctx, rc.StoreID, in.SKU)
		if err != nil {
			return err
		}
		if existing != nil {
			return domain.ErrDuplicate
		}
		if err := tx.Products.Create(ctx, product); err != nil {
			return err
		}
		for _, v := range in.Variants {
			unit := v.Unit
			if unit == "" {
				unit = "pcs"
			}
			variant := &entity.Variant{
				ID:        uuid.New().String(),
				StoreID:   rc.StoreID,
				ProductID: product.ID,
				Name:      v.Name,
				Unit:      unit,
				Barcode:   v.Barcode,
				Price:     v.Price,
				Cost:      v.Cost,
				CreatedAt: now,
				UpdatedAt: now,
			}
			if err := tx.Variants.Create(ctx, variant); err != nil {
				return err
			}
			if err := tx.Stock.Upsert(ctx, &entity.StockRecord{
				StoreID:   rc.StoreID,
				VariantID: variant.ID,
				Quantity:  0,
				Status:    inventory.StatusFor(0, false),
				UpdatedAt: now,
			}); err != nil {
				return err
			}
			variants = append(variants, variant)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	out := toProductResponse(product)
	for _, v := range variants {
		out.Variants = append(out.Variants, toVariantResponse(v, nil))
	}
	return out, nil
}

// GetByID obtiene un producto de la tienda con sus variantes y stock.
func (uc *ProductUseCase) GetByID(ctx context.Context, rc domain.RequestContext, id string) (*dto.ProductResponse, error) {
	if !domain.IsID(id) {
		return nil, domain.ErrNotFound
	}
	product, err := uc.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil || product.StoreID != rc.StoreID {
		return nil, domain.ErrNotFound
	}
	variants, err := uc.variantRepo.ListByProduct(ctx, product.ID)
	if err != nil {
		return nil, err
	}
	out := toProductResponse(product)
	for _, v := range variants {
		stock, err := uc.stockRepo.Get(ctx, v.ID)
		if err != nil {
			return nil, err
		}
		out.Variants = append(out.Variants, toVariantResponse(v, stock))
	}
	return out, nil
}

// List lista productos de la tienda con búsqueda, orden y paginación.
func (uc *ProductUseCase) List(ctx context.Context, rc domain.RequestContext, p repository.ListParams) (*dto.ProductListResponse, error) {
	p = p.Normalize()
	list, total, err := uc.productRepo.List(ctx, rc.StoreID, p)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, product := range list {
		items = append(items, *toProductResponse(product))
	}
	return &dto.ProductListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: p.Limit, Offset: p.Offset, Total: total},
	}, nil
}

// UpdateVariantPrice fija el precio de venta de una variante. Los carritos abiertos conservan
// el precio con el que se agregó cada línea.
func (uc *ProductUseCase) UpdateVariantPrice(ctx context.Context, rc domain.RequestContext, variantID string, price decimal.Decimal) (*dto.VariantResponse, error) {
	if !rc.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	if price.IsNegative() || !domain.IsMoney(price) {
		return nil, domain.ErrInvalidAmount
	}
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
	if err := uc.variantRepo.UpdatePrice(ctx, variant.ID, price); err != nil {
		return nil, err
	}
	variant.Price = price
	stock, err := uc.stockRepo.Get(ctx, variant.ID)
	if err != nil {
		return nil, err
	}
	out := toVariantResponse(variant, stock)
	return &out, nil
}

// CreateDiscount registra un descuento por unidad para una variante.
func (uc *ProductUseCase) CreateDiscount(ctx context.Context, rc domain.RequestContext, in dto.CreateDiscountRequest) (*dto.DiscountResponse, error) {
	if !rc.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	if !in.Value.IsPositive() || !domain.IsMoney(in.Value) {
		return nil, domain.ErrInvalidAmount
	}
	switch in.Type {
	case entity.DiscountTypePercentage:
		if in.Value.GreaterThan(decimal.NewFromInt(100)) {
			return nil, domain.ErrInvalidAmount
		}
	case entity.DiscountTypeFixed:
	default:
		return nil, domain.ErrInvalidInput
	}
	if in.StartsAt != nil && in.EndsAt != nil && in.EndsAt.Before(*in.StartsAt) {
		return nil, domain.ErrInvalidInput
	}
	if !domain.IsID(in.VariantID) {
		return nil, domain.ErrVariantNotFound
	}
	variant, err := uc.variantRepo.GetByID(ctx, in.VariantID)
	if err != nil {
		return nil, err
	}
	if variant == nil || variant.StoreID != rc.StoreID {
		return nil, domain.ErrVariantNotFound
	}
	discount := &entity.Discount{
		ID:        uuid.New().String(),
		StoreID:   rc.StoreID,
		VariantID: variant.ID,
		Type:      in.Type,
		Value:     in.Value,
		StartsAt:  in.StartsAt,
		EndsAt:    in.EndsAt,
		IsActive:  true,
		CreatedAt: time.Now(),
	}
	if err := uc.discountRepo.Create(ctx, discount); err != nil {
		return nil, err
	}
	return &dto.DiscountResponse{
		ID:        discount.ID,
		VariantID: discount.VariantID,
		Type:      discount.Type,
		Value:     discount.Value,
		StartsAt:  discount.StartsAt,
		EndsAt:    discount.EndsAt,
		IsActive:  discount.IsActive,
	}, nil
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	return &dto.ProductResponse{
		ID:          p.ID,
		StoreID:     p.StoreID,
		SKU:         p.SKU,
		Name:        p.Name,
		Description: p.Description,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func toVariantResponse(v *entity.Variant, stock *entity.StockRecord) dto.VariantResponse {
	out := dto.VariantResponse{
		ID:          v.ID,
		ProductID:   v.ProductID,
		Name:        v.Name,
		Unit:        v.Unit,
		Barcode:     v.Barcode,
		Price:       v.Price,
		Cost:        v.Cost,
		StockStatus: entity.StockStatusNotSet,
	}
	if stock != nil {
		out.Stock = stock.Quantity
		out.StockStatus = stock.Status
	}
	return out
}
