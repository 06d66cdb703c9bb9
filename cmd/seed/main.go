// seed da de alta una tienda en PostgreSQL y emite tokens JWT de administrador y cajero para
// probar la API.
//
// Uso: go run ./cmd/seed "Toko Maju" [tasa_impuesto]
// Lee la misma configuración que cmd/api (DATABASE_URL, JWT_SECRET, ...).
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/kasir-api/internal/application/catalog"
	"github.com/jhoicas/kasir-api/internal/application/dto"
	"github.com/jhoicas/kasir-api/internal/domain"
	"github.com/jhoicas/kasir-api/internal/infrastructure/postgres"
	"github.com/jhoicas/kasir-api/pkg/config"
	"github.com/jhoicas/kasir-api/pkg/jwt"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "uso: seed <nombre_tienda> [tasa_impuesto]")
		os.Exit(2)
	}
	name := os.Args[1]
	taxRate := decimal.Zero
	if len(os.Args) > 2 {
		var err error
		taxRate, err = decimal.NewFromString(os.Args[2])
		if err != nil {
			fmt.Fprintf(os.Stderr, "tasa de impuesto inválida: %v\n", err)
			os.Exit(2)
		}
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}
	if cfg.DB.Driver != "postgres" {
		fmt.Fprintln(os.Stderr, "seed requiere DB_DRIVER=postgres")
		os.Exit(1)
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Conexión a PostgreSQL: %v\n", err)
		os.Exit(1)
	}
	defer pool.Close()
	if err := postgres.Migrate(ctx, pool); err != nil {
		fmt.Fprintf(os.Stderr, "Migrar: %v\n", err)
		os.Exit(1)
	}

	store, err := catalog.NewStoreUseCase(postgres.NewStoreRepository(pool)).Create(ctx, dto.CreateStoreRequest{
		Name:    name,
		TaxRate: taxRate,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Crear tienda: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("tienda: %s (%s) impuesto %s%%\n", store.Name, store.ID, store.TaxRate.String())
	for _, role := range []string{domain.RoleAdmin, domain.RoleCashier} {
		token, err := jwt.Generate(cfg.JWT.Secret, uuid.New().String(), store.ID, role, cfg.JWT.Issuer, cfg.JWT.Expiration)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Generar token %s: %v\n", role, err)
			os.Exit(1)
		}
		fmt.Printf("%s: Bearer %s\n", role, token)
	}
}
