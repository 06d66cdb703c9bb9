package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/kasir-api/internal/application/dto"
)

// storeChecker es el contrato mínimo que necesita el middleware para verificar la tienda.
// Lo implementa *catalog.StoreUseCase; el uso de interfaz evita el import circular.
type storeChecker interface {
	IsActive(ctx context.Context, storeID string) (bool, error)
}

// RequireActiveStore devuelve un middleware Fiber que verifica que la tienda del token JWT
// exista y no esté suspendida. Debe usarse DESPUÉS de AuthMiddleware (necesita LocalStoreID).
//
// Comportamiento:
//   - 403 Forbidden  → tienda inexistente o suspendida.
//   - 503 Service Unavailable → fallo de infraestructura al consultar la DB.
//   - Si no hay store_id en el contexto, responde 401.
func RequireActiveStore(checker storeChecker) fiber.Handler {
	return func(c *fiber.Ctx) error {
		storeID := GetStoreID(c)
		if storeID == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Code:    "UNAUTHORIZED",
				Message: "store_id no encontrado en el token",
			})
		}

		active, err := checker.IsActive(c.UserContext(), storeID)
		if err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{
				Code:    "STORE_CHECK_FAILED",
				Message: "no se pudo verificar la tienda, intente más tarde",
			})
		}

		if !active {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Code:    "STORE_INACTIVE",
				Message: "la tienda no está activa",
			})
		}

		return c.Next()
	}
}
