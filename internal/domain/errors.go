package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound     = errors.New("recurso no encontrado")
	ErrInvalidInput = errors.New("entrada inválida")
	ErrDuplicate    = errors.New("recurso duplicado")
	ErrUnauthorized = errors.New("no autorizado")
	ErrForbidden    = errors.New("acceso denegado")
	ErrConflict     = errors.New("conflicto con el estado actual")

	// Validación: el llamador puede corregirlos; no se muta estado.
	ErrInvalidQuantity      = errors.New("cantidad inválida")
	ErrInvalidAmount        = errors.New("monto inválido")
	ErrCustomerRequired     = errors.New("el cliente es obligatorio para ventas a crédito")
	ErrInvalidPaymentMethod = errors.New("método de pago inválido")
	ErrInsufficientPayment  = errors.New("el pago no cubre el total")

	// No encontrados.
	ErrVariantNotFound  = errors.New("variante no encontrada")
	ErrCartNotFound     = errors.New("carrito no encontrado")
	ErrCustomerNotFound = errors.New("cliente no encontrado")

	// Estado vacío o en conflicto.
	ErrEmptyCart         = errors.New("el carrito está vacío")
	ErrInsufficientStock = errors.New("stock insuficiente")
	ErrOverpayment       = errors.New("el pago supera la deuda pendiente")

	// Atomicidad: la operación completa se revirtió.
	ErrCheckoutFailed = errors.New("no se pudo confirmar la venta")
)

var businessErrors = []error{
	ErrNotFound, ErrInvalidInput, ErrDuplicate, ErrUnauthorized, ErrForbidden, ErrConflict,
	ErrInvalidQuantity, ErrInvalidAmount, ErrCustomerRequired, ErrInvalidPaymentMethod,
	ErrInsufficientPayment, ErrVariantNotFound, ErrCartNotFound, ErrCustomerNotFound,
	ErrEmptyCart, ErrInsufficientStock, ErrOverpayment, ErrCheckoutFailed,
}

// IsBusinessError indica si err es (o envuelve) alguno de los errores de dominio.
// Lo que no lo sea se trata como fallo de almacenamiento.
func IsBusinessError(err error) bool {
	for _, target := range businessErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
