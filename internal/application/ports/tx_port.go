package ports

import (
	"context"

	"github.com/jhoicas/kasir-api/internal/domain/repository"
)

// TxRunner ejecuta fn dentro de una transacción de BD con repositorios atados a ella.
// Commit si fn devuelve nil; Rollback en cualquier otro caso (incluido panic).
type TxRunner interface {
	Run(ctx context.Context, fn func(tx repository.TxRepos) error) error
}
