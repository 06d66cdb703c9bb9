package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/kasir-api/internal/application/dto"
	"github.com/jhoicas/kasir-api/internal/application/inventory"
	"github.com/jhoicas/kasir-api/internal/domain"
	"github.com/jhoicas/kasir-api/pkg/logger"
)

// InventoryHandler ajustes, reabastecimientos y consulta de stock.
type InventoryHandler struct {
	uc  *inventory.AdjustStockUseCase
	log *logger.Logger
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(uc *inventory.AdjustStockUseCase, log *logger.Logger) *InventoryHandler {
	return &InventoryHandler{uc: uc, log: log}
}

// Adjust godoc
// @Summary      Ajuste manual de stock
// @Description  Sólo admin. delta positivo suma y negativo resta; queda un movimiento en la bitácora.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AdjustStockRequest  true  "Ajuste"
// @Success      200   {object}  dto.StockResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/inventory/adjustments [post]
func (h *InventoryHandler) Adjust(c *fiber.Ctx) error {
	var in dto.AdjustStockRequest
	if err := parseBody(c, &in); err != nil {
		return writeError(c, h.log, err)
	}
	out, err := h.uc.Adjust(c.UserContext(), RequestContext(c), inventory.AdjustInput{
		VariantID: in.VariantID,
		Delta:     in.Delta,
		Reason:    in.Reason,
	})
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(toStockResponse(out))
}

// Restock godoc
// @Summary      Registrar reabastecimiento
// @Description  Sólo admin. Suma stock y fija el costo vigente de la variante.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RestockRequest  true  "Lote"
// @Success      201   {object}  dto.StockResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/inventory/restocks [post]
func (h *InventoryHandler) Restock(c *fiber.Ctx) error {
	var in dto.RestockRequest
	if err := parseBody(c, &in); err != nil {
		return writeError(c, h.log, err)
	}
	out, err := h.uc.Restock(c.UserContext(), RequestContext(c), inventory.RestockInput{
		VariantID: in.VariantID,
		Quantity:  in.Quantity,
		UnitCost:  in.UnitCost,
		Supplier:  in.Supplier,
	})
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toStockResponse(out))
}

// GetStock godoc
// @Summary      Stock actual de una variante
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la variante"
// @Success      200  {object}  dto.StockResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/variants/{id}/stock [get]
func (h *InventoryHandler) GetStock(c *fiber.Ctx) error {
	id, err := idParam(c, "id", domain.ErrVariantNotFound)
	if err != nil {
		return writeError(c, h.log, err)
	}
	out, err := h.uc.GetStock(c.UserContext(), RequestContext(c), id)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(toStockResponse(out))
}

// ListMovements godoc
// @Summary      Bitácora de stock de una variante
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        id        path   string  true   "ID de la variante"
// @Param        search    query  string  false  "Referencia"
// @Param        limit     query  int     false  "Límite"  default(20)
// @Param        offset    query  int     false  "Offset"  default(0)
// @Success      200  {object}  dto.StockMovementListResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/variants/{id}/movements [get]
func (h *InventoryHandler) ListMovements(c *fiber.Ctx) error {
	id, err := idParam(c, "id", domain.ErrVariantNotFound)
	if err != nil {
		return writeError(c, h.log, err)
	}
	p, err := listParams(c)
	if err != nil {
		return writeError(c, h.log, err)
	}
	list, total, err := h.uc.ListMovements(c.UserContext(), RequestContext(c), id, p)
	if err != nil {
		return writeError(c, h.log, err)
	}
	p = p.Normalize()
	return c.JSON(dto.StockMovementListResponse{
		Items: toMovementResponses(list),
		Page:  dto.PageResponse{Limit: p.Limit, Offset: p.Offset, Total: total},
	})
}
