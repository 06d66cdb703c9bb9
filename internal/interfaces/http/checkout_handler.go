package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/kasir-api/internal/application/checkout"
	"github.com/jhoicas/kasir-api/internal/application/dto"
	"github.com/jhoicas/kasir-api/pkg/logger"
)

// CheckoutHandler convierte el carrito en una venta.
type CheckoutHandler struct {
	uc  *checkout.CheckoutUseCase
	log *logger.Logger
}

// NewCheckoutHandler construye el handler.
func NewCheckoutHandler(uc *checkout.CheckoutUseCase, log *logger.Logger) *CheckoutHandler {
	return &CheckoutHandler{uc: uc, log: log}
}

// Commit godoc
// @Summary      Confirmar venta
// @Description  Descuenta stock, registra la venta y, si payment_method es debt, abre la deuda del cliente.
// @Description  Todo ocurre en una sola transacción: ante cualquier error no queda nada escrito.
// @Tags         checkout
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CheckoutRequest  true  "Datos de pago"
// @Success      201   {object}  dto.TransactionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Failure      500   {object}  dto.ErrorResponse
// @Router       /api/checkout [post]
func (h *CheckoutHandler) Commit(c *fiber.Ctx) error {
	var in dto.CheckoutRequest
	if err := parseBody(c, &in); err != nil {
		return writeError(c, h.log, err)
	}
	receipt, err := h.uc.Commit(c.UserContext(), RequestContext(c), checkout.CommitInput{
		TransactionCode: in.TransactionCode,
		TotalPayment:    in.TotalPayment,
		PaymentMethod:   in.PaymentMethod,
		CustomerID:      in.CustomerID,
	})
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toReceiptResponse(receipt))
}
