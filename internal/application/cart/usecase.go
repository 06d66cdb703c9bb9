// Package cart contiene el motor del carrito: construye y edita el carrito mutable de un
// operador antes del checkout.
package cart

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/kasir-api/internal/application/ports"
	"github.com/jhoicas/kasir-api/internal/domain"
	"github.com/jhoicas/kasir-api/internal/domain/entity"
	"github.com/jhoicas/kasir-api/internal/domain/repository"
)

// CartUseCase casos de uso del carrito. Toda mutación corre en una transacción que bloquea
// la fila del carrito antes de tocar sus ítems.
type CartUseCase struct {
	txRunner ports.TxRunner
	cartRepo repository.CartRepository
	now      func() time.Time
}

// NewCartUseCase construye el caso de uso. clock puede ser nil (time.Now).
func NewCartUseCase(txRunner ports.TxRunner, cartRepo repository.CartRepository, clock func() time.Time) *CartUseCase {
	if clock == nil {
		clock = time.Now
	}
	return &CartUseCase{txRunner: txRunner, cartRepo: cartRepo, now: clock}
}

// AddItemInput entrada para agregar una unidad de una variante al carrito.
type AddItemInput struct {
	TransactionCode string
	ProductID       string          // opcional; si viene debe coincidir con la variante
	VariantID       string
	UnitPrice       decimal.Decimal // cero ⇒ precio vigente de la variante
}

// AddItem agrega una unidad de la variante. Crea el carrito si no existe; si la variante ya
// está en el carrito incrementa su cantidad en almacenamiento (quantity = quantity + 1).
func (uc *CartUseCase) AddItem(ctx context.Context, rc domain.RequestContext, in AddItemInput) (*entity.Cart, error) {
	if in.TransactionCode == "" || in.VariantID == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.UnitPrice.IsNegative() || !domain.IsMoney(in.UnitPrice) {
		return nil, domain.ErrInvalidAmount
	}
	if !domain.IsID(in.VariantID) || (in.ProductID != "" && !domain.IsID(in.ProductID)) {
		return nil, domain.ErrVariantNotFound
	}
	now := uc.now()
	var out *entity.Cart
	err := uc.txRunner.Run(ctx, func(tx repository.TxRepos) error {
		variant, err := tx.Variants.GetByID(ctx, in.VariantID)
		if err != nil {
			return err
		}
		if variant == nil || variant.StoreID != rc.StoreID {
			return domain.ErrVariantNotFound
		}
		if in.ProductID != "" && in.ProductID != variant.ProductID {
			return domain.ErrVariantNotFound
		}
		price := in.UnitPrice
		if price.IsZero() {
			price = variant.Price
		}

		cart, err := tx.Carts.GetOrCreate(ctx, &entity.Cart{
			ID:              uuid.New().String(),
			StoreID:         rc.StoreID,
			UserID:          rc.OperatorID,
			TransactionCode: in.TransactionCode,
			TotalPrice:      decimal.Zero,
			CreatedAt:       now,
			UpdatedAt:       now,
		})
		if err != nil {
			return err
		}
		if cart, err = tx.Carts.Lock(ctx, cart.ID); err != nil {
			return err
		}
		if cart == nil {
			return domain.ErrCartNotFound
		}

		if _, err := tx.Carts.IncrementItem(ctx, &entity.CartItem{
			ID:         uuid.New().String(),
			CartID:     cart.ID,
			ProductID:  variant.ProductID,
			VariantID:  variant.ID,
			Quantity:   1,
			Price:      price,
			TotalPrice: price,
			CreatedAt:  now,
			UpdatedAt:  now,
		}); err != nil {
			return err
		}
		out, err = reload(ctx, tx, cart)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// SetQuantity fija la cantidad de un ítem y recalcula su total y el del carrito.
func (uc *CartUseCase) SetQuantity(ctx context.Context, rc domain.RequestContext, itemID string, quantity int) (*entity.Cart, error) {
	if quantity <= 0 {
		return nil, domain.ErrInvalidQuantity
	}
	now := uc.now()
	var out *entity.Cart
	err := uc.txRunner.Run(ctx, func(tx repository.TxRepos) error {
		cart, item, err := lockItem(ctx, tx, rc, itemID)
		if err != nil {
			return err
		}
		item.Quantity = quantity
		item.Recalculate()
		item.UpdatedAt = now
		if err := tx.Carts.UpdateItem(ctx, item); err != nil {
			return err
		}
		out, err = reload(ctx, tx, cart)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ChangeVariant cambia la variante de un ítem tomando el precio de la nueva variante.
// Si otro ítem del carrito ya apunta a ella se fusionan: se suman cantidades al destino,
// se recalcula a su precio y se borra el origen. Devuelve todos los ítems del carrito.
func (uc *CartUseCase) ChangeVariant(ctx context.Context, rc domain.RequestContext, itemID, variantID string) ([]*entity.CartItem, error) {
	if variantID == "" {
		return nil, domain.ErrInvalidInput
	}
	if !domain.IsID(variantID) {
		return nil, domain.ErrVariantNotFound
	}
	now := uc.now()
	var out []*entity.CartItem
	err := uc.txRunner.Run(ctx, func(tx repository.TxRepos) error {
		cart, item, err := lockItem(ctx, tx, rc, itemID)
		if err != nil {
			return err
		}
		variant, err := tx.Variants.GetByID(ctx, variantID)
		if err != nil {
			return err
		}
		if variant == nil || variant.StoreID != rc.StoreID {
			return domain.ErrVariantNotFound
		}

		if variant.ID != item.VariantID {
			target, err := tx.Carts.GetItemByVariant(ctx, cart.ID, variant.ID)
			if err != nil {
				return err
			}
			if target != nil {
				target.Quantity += item.Quantity
				target.Recalculate()
				target.UpdatedAt = now
				if err := tx.Carts.UpdateItem(ctx, target); err != nil {
					return err
				}
				if err := tx.Carts.DeleteItem(ctx, item.ID); err != nil {
					return err
				}
			} else {
				item.ProductID = variant.ProductID
				item.VariantID = variant.ID
				item.Price = variant.Price
				item.Recalculate()
				item.UpdatedAt = now
				if err := tx.Carts.UpdateItem(ctx, item); err != nil {
					return err
				}
			}
		}
		reloaded, err := reload(ctx, tx, cart)
		if err != nil {
			return err
		}
		out = reloaded.Items
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// RemoveItem borra un ítem y recalcula el total del carrito.
func (uc *CartUseCase) RemoveItem(ctx context.Context, rc domain.RequestContext, itemID string) (*entity.Cart, error) {
	var out *entity.Cart
	err := uc.txRunner.Run(ctx, func(tx repository.TxRepos) error {
		cart, item, err := lockItem(ctx, tx, rc, itemID)
		if err != nil {
			return err
		}
		if err := tx.Carts.DeleteItem(ctx, item.ID); err != nil {
			return err
		}
		out, err = reload(ctx, tx, cart)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Revoke descarta el carrito completo con sus ítems.
func (uc *CartUseCase) Revoke(ctx context.Context, rc domain.RequestContext, transactionCode string) error {
	return uc.txRunner.Run(ctx, func(tx repository.TxRepos) error {
		cart, err := tx.Carts.GetByCode(ctx, rc.StoreID, rc.OperatorID, transactionCode)
		if err != nil {
			return err
		}
		if cart == nil {
			return domain.ErrCartNotFound
		}
		if cart, err = tx.Carts.Lock(ctx, cart.ID); err != nil {
			return err
		}
		if cart == nil {
			return domain.ErrCartNotFound
		}
		return tx.Carts.Delete(ctx, cart.ID)
	})
}

// Get devuelve el carrito del operador con sus ítems.
func (uc *CartUseCase) Get(ctx context.Context, rc domain.RequestContext, transactionCode string) (*entity.Cart, error) {
	cart, err := uc.cartRepo.GetByCode(ctx, rc.StoreID, rc.OperatorID, transactionCode)
	if err != nil {
		return nil, err
	}
	if cart == nil {
		return nil, domain.ErrCartNotFound
	}
	items, err := uc.cartRepo.ListItems(ctx, cart.ID)
	if err != nil {
		return nil, err
	}
	cart.Items = items
	return cart, nil
}

// lockItem resuelve el carrito dueño del ítem, lo bloquea y vuelve a leer el ítem ya con el
// lock tomado. Un ítem de otro operador o tienda se reporta como carrito inexistente.
func lockItem(ctx context.Context, tx repository.TxRepos, rc domain.RequestContext, itemID string) (*entity.Cart, *entity.CartItem, error) {
	if !domain.IsID(itemID) {
		return nil, nil, domain.ErrNotFound
	}
	item, err := tx.Carts.GetItem(ctx, itemID)
	if err != nil {
		return nil, nil, err
	}
	if item == nil {
		return nil, nil, domain.ErrNotFound
	}
	cart, err := tx.Carts.Lock(ctx, item.CartID)
	if err != nil {
		return nil, nil, err
	}
	if cart == nil || cart.StoreID != rc.StoreID || cart.UserID != rc.OperatorID {
		return nil, nil, domain.ErrCartNotFound
	}
	item, err = tx.Carts.GetItem(ctx, itemID)
	if err != nil {
		return nil, nil, err
	}
	if item == nil {
		return nil, nil, domain.ErrNotFound
	}
	return cart, item, nil
}

// reload recalcula el total persistido y devuelve el carrito con sus ítems.
func reload(ctx context.Context, tx repository.TxRepos, cart *entity.Cart) (*entity.Cart, error) {
	total, err := tx.Carts.RecalculateTotal(ctx, cart.ID)
	if err != nil {
		return nil, err
	}
	items, err := tx.Carts.ListItems(ctx, cart.ID)
	if err != nil {
		return nil, err
	}
	cart.TotalPrice = total
	cart.Items = items
	return cart, nil
}
