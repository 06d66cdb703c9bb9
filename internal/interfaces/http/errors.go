package http

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"

	"github.com/jhoicas/kasir-api/internal/application/dto"
	"github.com/jhoicas/kasir-api/internal/domain"
	"github.com/jhoicas/kasir-api/internal/domain/repository"
	"github.com/jhoicas/kasir-api/pkg/logger"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// param copia el parámetro de ruta. Fiber lo entrega sobre el buffer de la petición, que se
// reutiliza en cuanto el handler retorna.
func param(c *fiber.Ctx, name string) string {
	return utils.CopyString(c.Params(name))
}

// idParam lee un ID de ruta. Uno que no es UUID no puede existir y se responde con notFound.
func idParam(c *fiber.Ctx, name string, notFound error) (string, error) {
	id := param(c, name)
	if !domain.IsID(id) {
		return "", notFound
	}
	return id, nil
}

// requestError error del borde HTTP (body o query mal formados) con su código de respuesta.
type requestError struct {
	code    string
	message string
}

func (e *requestError) Error() string { return e.message }

func badRequest(code, message string) error {
	return &requestError{code: code, message: message}
}

// errorMapping código de respuesta por error de dominio. El orden importa: ErrCheckoutFailed
// envuelve fallos de almacenamiento y va al final.
var errorMapping = []struct {
	err    error
	status int
	code   string
}{
	{domain.ErrInvalidInput, fiber.StatusBadRequest, "INVALID_INPUT"},
	{domain.ErrInvalidQuantity, fiber.StatusBadRequest, "INVALID_QUANTITY"},
	{domain.ErrInvalidAmount, fiber.StatusBadRequest, "INVALID_AMOUNT"},
	{domain.ErrCustomerRequired, fiber.StatusBadRequest, "CUSTOMER_REQUIRED"},
	{domain.ErrInvalidPaymentMethod, fiber.StatusBadRequest, "INVALID_PAYMENT_METHOD"},
	{domain.ErrUnauthorized, fiber.StatusUnauthorized, "UNAUTHORIZED"},
	{domain.ErrForbidden, fiber.StatusForbidden, "FORBIDDEN"},
	{domain.ErrVariantNotFound, fiber.StatusNotFound, "VARIANT_NOT_FOUND"},
	{domain.ErrCartNotFound, fiber.StatusNotFound, "CART_NOT_FOUND"},
	{domain.ErrCustomerNotFound, fiber.StatusNotFound, "CUSTOMER_NOT_FOUND"},
	{domain.ErrNotFound, fiber.StatusNotFound, "NOT_FOUND"},
	{domain.ErrDuplicate, fiber.StatusConflict, "DUPLICATE"},
	{domain.ErrConflict, fiber.StatusConflict, "CONFLICT"},
	{domain.ErrEmptyCart, fiber.StatusUnprocessableEntity, "EMPTY_CART"},
	{domain.ErrInsufficientStock, fiber.StatusUnprocessableEntity, "INSUFFICIENT_STOCK"},
	{domain.ErrInsufficientPayment, fiber.StatusUnprocessableEntity, "INSUFFICIENT_PAYMENT"},
	{domain.ErrOverpayment, fiber.StatusUnprocessableEntity, "OVERPAYMENT"},
}

// writeError traduce err a dto.ErrorResponse. Los 500 se registran; el detalle interno no
// se expone al cliente.
func writeError(c *fiber.Ctx, log *logger.Logger, err error) error {
	var reqErr *requestError
	if errors.As(err, &reqErr) {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: reqErr.code, Message: reqErr.message})
	}
	for _, m := range errorMapping {
		if errors.Is(err, m.err) {
			return c.Status(m.status).JSON(dto.ErrorResponse{Code: m.code, Message: m.err.Error()})
		}
	}
	log.Error().Err(err).
		Str("method", c.Method()).
		Str("path", c.Path()).
		Str("store_id", GetStoreID(c)).
		Msg("error interno")
	msg := "error interno"
	if errors.Is(err, domain.ErrCheckoutFailed) {
		msg = domain.ErrCheckoutFailed.Error()
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: msg})
}

// parseBody decodifica el JSON del body y valida las etiquetas `validate`.
func parseBody(c *fiber.Ctx, out interface{}) error {
	if err := c.BodyParser(out); err != nil {
		return badRequest("INVALID_BODY", "cuerpo inválido")
	}
	if err := validate.Struct(out); err != nil {
		return badRequest("VALIDATION", validationMessage(err))
	}
	return nil
}

// listParams lee ?limit=&offset=&search=&sort_by=&sort_dir=.
func listParams(c *fiber.Ctx) (repository.ListParams, error) {
	q := dto.ListQuery{
		PageRequest: dto.PageRequest{
			Limit:  c.QueryInt("limit", 20),
			Offset: c.QueryInt("offset", 0),
		},
		Search:  strings.TrimSpace(c.Query("search")),
		SortBy:  c.Query("sort_by"),
		SortDir: strings.ToLower(c.Query("sort_dir")),
	}
	q.DefaultPage()
	if q.Limit > 100 {
		q.Limit = 100
	}
	if err := validate.Struct(q); err != nil {
		return repository.ListParams{}, badRequest("INVALID_QUERY", validationMessage(err))
	}
	return repository.ListParams{
		Search:  q.Search,
		SortBy:  q.SortBy,
		SortDir: q.SortDir,
		Limit:   q.Limit,
		Offset:  q.Offset,
	}, nil
}

func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		parts = append(parts, fe.Field()+": "+fe.Tag())
	}
	return "campos inválidos: " + strings.Join(parts, ", ")
}
