package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/kasir-api/internal/application/cart"
	"github.com/jhoicas/kasir-api/internal/application/dto"
	"github.com/jhoicas/kasir-api/internal/domain"
	"github.com/jhoicas/kasir-api/pkg/logger"
)

// CartHandler expone el carrito del operador autenticado.
type CartHandler struct {
	uc  *cart.CartUseCase
	log *logger.Logger
}

// NewCartHandler construye el handler.
func NewCartHandler(uc *cart.CartUseCase, log *logger.Logger) *CartHandler {
	return &CartHandler{uc: uc, log: log}
}

// Get godoc
// @Summary      Obtener carrito
// @Tags         carts
// @Security     Bearer
// @Produce      json
// @Param        code  path  string  true  "Código de transacción"
// @Success      200   {object}  dto.CartResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/carts/{code} [get]
func (h *CartHandler) Get(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.UserContext(), RequestContext(c), param(c, "code"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(toCartResponse(out))
}

// AddItem godoc
// @Summary      Agregar variante al carrito
// @Description  Crea el carrito si no existe. Si la variante ya está, suma 1 a la cantidad.
// @Tags         carts
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        code  path  string                  true  "Código de transacción"
// @Param        body  body  dto.AddCartItemRequest  true  "Variante"
// @Success      200   {object}  dto.CartResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/carts/{code}/items [post]
func (h *CartHandler) AddItem(c *fiber.Ctx) error {
	var in dto.AddCartItemRequest
	if err := parseBody(c, &in); err != nil {
		return writeError(c, h.log, err)
	}
	out, err := h.uc.AddItem(c.UserContext(), RequestContext(c), cart.AddItemInput{
		TransactionCode: param(c, "code"),
		ProductID:       in.ProductID,
		VariantID:       in.VariantID,
		UnitPrice:       in.UnitPrice,
	})
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(toCartResponse(out))
}

// SetQuantity godoc
// @Summary      Fijar cantidad de una línea
// @Tags         carts
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                          true  "ID de la línea"
// @Param        body  body  dto.SetCartItemQuantityRequest  true  "Cantidad"
// @Success      200   {object}  dto.CartResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/carts/items/{id} [patch]
func (h *CartHandler) SetQuantity(c *fiber.Ctx) error {
	id, err := idParam(c, "id", domain.ErrNotFound)
	if err != nil {
		return writeError(c, h.log, err)
	}
	var in dto.SetCartItemQuantityRequest
	if err := parseBody(c, &in); err != nil {
		return writeError(c, h.log, err)
	}
	out, err := h.uc.SetQuantity(c.UserContext(), RequestContext(c), id, in.Quantity)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(toCartResponse(out))
}

// ChangeVariant godoc
// @Summary      Cambiar la variante de una línea
// @Description  Si otra línea ya tiene la variante destino, ambas se fusionan.
// @Tags         carts
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                            true  "ID de la línea"
// @Param        body  body  dto.ChangeCartItemVariantRequest  true  "Variante destino"
// @Success      200   {array}   dto.CartItemResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/carts/items/{id}/variant [patch]
func (h *CartHandler) ChangeVariant(c *fiber.Ctx) error {
	id, err := idParam(c, "id", domain.ErrNotFound)
	if err != nil {
		return writeError(c, h.log, err)
	}
	var in dto.ChangeCartItemVariantRequest
	if err := parseBody(c, &in); err != nil {
		return writeError(c, h.log, err)
	}
	items, err := h.uc.ChangeVariant(c.UserContext(), RequestContext(c), id, in.VariantID)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(toCartItemResponses(items))
}

// RemoveItem godoc
// @Summary      Quitar una línea del carrito
// @Tags         carts
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la línea"
// @Success      200  {object}  dto.CartResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/carts/items/{id} [delete]
func (h *CartHandler) RemoveItem(c *fiber.Ctx) error {
	id, err := idParam(c, "id", domain.ErrNotFound)
	if err != nil {
		return writeError(c, h.log, err)
	}
	out, err := h.uc.RemoveItem(c.UserContext(), RequestContext(c), id)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(toCartResponse(out))
}

// Revoke godoc
// @Summary      Descartar carrito
// @Tags         carts
// @Security     Bearer
// @Param        code  path  string  true  "Código de transacción"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/carts/{code} [delete]
func (h *CartHandler) Revoke(c *fiber.Ctx) error {
	if err := h.uc.Revoke(c.UserContext(), RequestContext(c), param(c, "code")); err != nil {
		return writeError(c, h.log, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
