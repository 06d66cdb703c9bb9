package domain

// Roles de operador.
const (
	RoleAdmin   = "admin"
	RoleCashier = "cashier"
)

// RequestContext identifica al operador y la tienda de la petición en curso.
// Se pasa explícitamente a cada caso de uso; nunca se lee de estado global.
type RequestContext struct {
	OperatorID string
	StoreID    string
	Role       string
}

// Valid indica si el contexto trae operador y tienda.
func (rc RequestContext) Valid() bool {
	return rc.OperatorID != "" && rc.StoreID != ""
}

// IsAdmin indica si el operador puede administrar catálogo e inventario.
func (rc RequestContext) IsAdmin() bool {
	return rc.Role == RoleAdmin
}
