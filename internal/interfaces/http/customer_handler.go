package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/kasir-api/internal/application/catalog"
	"github.com/jhoicas/kasir-api/internal/application/debt"
	"github.com/jhoicas/kasir-api/internal/application/dto"
	"github.com/jhoicas/kasir-api/internal/application/report"
	"github.com/jhoicas/kasir-api/internal/domain"
	"github.com/jhoicas/kasir-api/pkg/logger"
)

// CustomerHandler clientes, su deuda y sus abonos.
type CustomerHandler struct {
	customers *catalog.CustomerUseCase
	payments  *debt.PaymentUseCase
	reports   *report.ReportUseCase
	log       *logger.Logger
}

// NewCustomerHandler construye el handler.
func NewCustomerHandler(customers *catalog.CustomerUseCase, payments *debt.PaymentUseCase, reports *report.ReportUseCase, log *logger.Logger) *CustomerHandler {
	return &CustomerHandler{customers: customers, payments: payments, reports: reports, log: log}
}

// Create godoc
// @Summary      Crear cliente
// @Tags         customers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateCustomerRequest  true  "Datos del cliente"
// @Success      201   {object}  dto.CustomerResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/customers [post]
func (h *CustomerHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateCustomerRequest
	if err := parseBody(c, &in); err != nil {
		return writeError(c, h.log, err)
	}
	out, err := h.customers.Create(c.UserContext(), RequestContext(c), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar clientes
// @Tags         customers
// @Security     Bearer
// @Produce      json
// @Param        limit     query  int     false  "Límite"  default(20)
// @Param        offset    query  int     false  "Offset"  default(0)
// @Param        search    query  string  false  "Nombre o teléfono"
// @Param        sort_by   query  string  false  "name, total_debt, created_at"
// @Param        sort_dir  query  string  false  "asc, desc"
// @Success      200  {object}  dto.CustomerListResponse
// @Router       /api/customers [get]
func (h *CustomerHandler) List(c *fiber.Ctx) error {
	p, err := listParams(c)
	if err != nil {
		return writeError(c, h.log, err)
	}
	out, err := h.customers.List(c.UserContext(), RequestContext(c), p)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener cliente
// @Tags         customers
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del cliente"
// @Success      200  {object}  dto.CustomerResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/customers/{id} [get]
func (h *CustomerHandler) GetByID(c *fiber.Ctx) error {
	id, err := idParam(c, "id", domain.ErrCustomerNotFound)
	if err != nil {
		return writeError(c, h.log, err)
	}
	out, err := h.customers.GetByID(c.UserContext(), RequestContext(c), id)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// ListDebts godoc
// @Summary      Líneas de deuda del cliente
// @Description  search filtra por estado exacto (unpaid, partial, paid).
// @Tags         customers
// @Security     Bearer
// @Produce      json
// @Param        id        path   string  true   "ID del cliente"
// @Param        search    query  string  false  "Estado"
// @Param        sort_dir  query  string  false  "asc, desc"
// @Success      200  {object}  dto.DebtItemListResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/customers/{id}/debts [get]
func (h *CustomerHandler) ListDebts(c *fiber.Ctx) error {
	id, err := idParam(c, "id", domain.ErrCustomerNotFound)
	if err != nil {
		return writeError(c, h.log, err)
	}
	p, err := listParams(c)
	if err != nil {
		return writeError(c, h.log, err)
	}
	items, total, err := h.payments.ListDebtItems(c.UserContext(), RequestContext(c), id, p)
	if err != nil {
		return writeError(c, h.log, err)
	}
	p = p.Normalize()
	return c.JSON(dto.DebtItemListResponse{
		Items: toDebtItemResponses(items),
		Page:  dto.PageResponse{Limit: p.Limit, Offset: p.Offset, Total: total},
	})
}

// Pay godoc
// @Summary      Abonar a la deuda del cliente
// @Description  El monto se reparte FIFO sobre las líneas abiertas. Un payment_code repetido devuelve 409.
// @Tags         customers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                  true  "ID del cliente"
// @Param        body  body  dto.DebtPaymentRequest  true  "Abono"
// @Success      201   {object}  dto.DebtPaymentResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/customers/{id}/payments [post]
func (h *CustomerHandler) Pay(c *fiber.Ctx) error {
	id, err := idParam(c, "id", domain.ErrCustomerNotFound)
	if err != nil {
		return writeError(c, h.log, err)
	}
	var in dto.DebtPaymentRequest
	if err := parseBody(c, &in); err != nil {
		return writeError(c, h.log, err)
	}
	res, err := h.payments.ApplyPayment(c.UserContext(), RequestContext(c), debt.PaymentInput{
		CustomerID:    id,
		PaymentCode:   in.PaymentCode,
		Amount:        in.Amount,
		PaymentMethod: in.PaymentMethod,
		Note:          in.Note,
	})
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toPaymentResultResponse(res))
}

// ListPayments godoc
// @Summary      Abonos del cliente
// @Tags         customers
// @Security     Bearer
// @Produce      json
// @Param        id        path   string  true   "ID del cliente"
// @Param        search    query  string  false  "Código o nota"
// @Param        sort_by   query  string  false  "amount, paid_at"
// @Success      200  {object}  dto.DebtPaymentListResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/customers/{id}/payments [get]
func (h *CustomerHandler) ListPayments(c *fiber.Ctx) error {
	id, err := idParam(c, "id", domain.ErrCustomerNotFound)
	if err != nil {
		return writeError(c, h.log, err)
	}
	p, err := listParams(c)
	if err != nil {
		return writeError(c, h.log, err)
	}
	list, total, err := h.payments.ListPayments(c.UserContext(), RequestContext(c), id, p)
	if err != nil {
		return writeError(c, h.log, err)
	}
	p = p.Normalize()
	items := make([]dto.DebtPaymentResponse, 0, len(list))
	for _, pay := range list {
		items = append(items, toDebtPaymentResponse(pay, nil))
	}
	return c.JSON(dto.DebtPaymentListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: p.Limit, Offset: p.Offset, Total: total},
	})
}

// GetPayment godoc
// @Summary      Detalle de un abono
// @Tags         customers
// @Security     Bearer
// @Produce      json
// @Param        id         path  string  true  "ID del cliente"
// @Param        paymentId  path  string  true  "ID del abono"
// @Success      200  {object}  dto.DebtPaymentResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/customers/{id}/payments/{paymentId} [get]
func (h *CustomerHandler) GetPayment(c *fiber.Ctx) error {
	customerID, err := idParam(c, "id", domain.ErrCustomerNotFound)
	if err != nil {
		return writeError(c, h.log, err)
	}
	paymentID, err := idParam(c, "paymentId", domain.ErrNotFound)
	if err != nil {
		return writeError(c, h.log, err)
	}
	payment, items, err := h.payments.GetPayment(c.UserContext(), RequestContext(c), paymentID)
	if err != nil {
		return writeError(c, h.log, err)
	}
	if payment.CustomerID != customerID {
		return writeError(c, h.log, domain.ErrNotFound)
	}
	return c.JSON(toDebtPaymentResponse(payment, items))
}

// Statement godoc
// @Summary      Estado de cuenta en PDF
// @Tags         customers
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path  string  true  "ID del cliente"
// @Success      200  {file}    binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/customers/{id}/statement.pdf [get]
func (h *CustomerHandler) Statement(c *fiber.Ctx) error {
	id, err := idParam(c, "id", domain.ErrCustomerNotFound)
	if err != nil {
		return writeError(c, h.log, err)
	}
	file, err := h.reports.DebtStatementPDF(c.UserContext(), RequestContext(c), id)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return sendFile(c, file, false)
}
