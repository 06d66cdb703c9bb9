package repository

// ListParams parámetros del repositorio paginado (búsqueda, orden y página).
// SortBy se valida contra una lista blanca por recurso en la implementación.
type ListParams struct {
	Search  string
	SortBy  string
	SortDir string // asc, desc
	Limit   int
	Offset  int
}

// Normalize aplica límites por defecto.
func (p ListParams) Normalize() ListParams {
	if p.Limit <= 0 {
		p.Limit = 20
	}
	if p.Limit > 100 {
		p.Limit = 100
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
	if p.SortDir != "asc" {
		p.SortDir = "desc"
	}
	return p
}
