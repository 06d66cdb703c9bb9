package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/kasir-api/internal/application/cart"
	"github.com/jhoicas/kasir-api/internal/application/catalog"
	"github.com/jhoicas/kasir-api/internal/application/checkout"
	"github.com/jhoicas/kasir-api/internal/application/debt"
	"github.com/jhoicas/kasir-api/internal/application/inventory"
	"github.com/jhoicas/kasir-api/internal/application/ports"
	"github.com/jhoicas/kasir-api/internal/application/report"
	"github.com/jhoicas/kasir-api/internal/domain/repository"
	"github.com/jhoicas/kasir-api/internal/infrastructure/cache"
	"github.com/jhoicas/kasir-api/internal/infrastructure/export"
	"github.com/jhoicas/kasir-api/internal/infrastructure/memory"
	"github.com/jhoicas/kasir-api/internal/infrastructure/observability"
	infrapdf "github.com/jhoicas/kasir-api/internal/infrastructure/pdf"
	"github.com/jhoicas/kasir-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/kasir-api/internal/interfaces/http"
	"github.com/jhoicas/kasir-api/pkg/config"
	"github.com/jhoicas/kasir-api/pkg/logger"
)

// storage repositorios y runner de transacciones del driver elegido.
type storage struct {
	repos     repository.TxRepos
	txRunner  ports.TxRunner
	analytics repository.AnalyticsRepository
	close     func()
}

func openStorage(ctx context.Context, cfg config.DBConfig, log *logger.Logger) (*storage, error) {
	if cfg.Driver == "memory" {
		log.Warn().Msg("DB_DRIVER=memory: los datos se pierden al reiniciar")
		db := memory.New()
		return &storage{
			repos:     db.Repos(),
			txRunner:  memory.NewTxRunner(db),
			analytics: memory.NewAnalyticsRepository(db),
			close:     func() {},
		}, nil
	}

	pool, err := postgres.NewPool(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if cfg.AutoMigrate {
		if err := postgres.Migrate(ctx, pool); err != nil {
			pool.Close()
			return nil, err
		}
		log.Info().Msg("esquema aplicado")
	}
	return &storage{
		repos:     postgres.NewRepos(pool),
		txRunner:  postgres.NewTxRunner(pool),
		analytics: postgres.NewAnalyticsRepository(pool),
		close:     pool.Close,
	}, nil
}

// dashboardCache conecta Redis si REDIS_ADDR está definido. Un Redis caído al arrancar no
// impide servir: el dashboard se calcula sin caché.
func dashboardCache(ctx context.Context, cfg config.RedisConfig, log *logger.Logger) (report.DashboardCache, func()) {
	if cfg.Addr == "" {
		return nil, func() {}
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	c := cache.NewRedisCache(client)
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := c.Ping(pingCtx); err != nil {
		log.Warn().Err(err).Str("addr", cfg.Addr).Msg("Redis no disponible, dashboard sin caché")
		_ = client.Close()
		return nil, func() {}
	}
	log.Info().Str("addr", cfg.Addr).Msg("caché de dashboard en Redis")
	return c, func() { _ = client.Close() }
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("db_driver", cfg.DB.Driver).
		Msg("iniciando aplicación")

	if cfg.JWT.Secret == "" {
		log.Fatal().Msg("JWT_SECRET es obligatorio")
	}

	ctx := context.Background()
	store, err := openStorage(ctx, cfg.DB, log)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión al almacenamiento")
	}
	defer store.close()

	dashCache, closeCache := dashboardCache(ctx, cfg.Redis, log)
	defer closeCache()

	metrics := observability.NewMetrics()
	repos := store.repos

	adjuster := inventory.NewAdjustStockUseCase(store.txRunner, repos.Variants, repos.Stock, repos.Movements, inventory.Options{
		AllowNegative: cfg.Inventory.AllowNegative,
		Metrics:       metrics,
	})
	storeUC := catalog.NewStoreUseCase(repos.Stores)
	productUC := catalog.NewProductUseCase(store.txRunner, repos.Products, repos.Variants, repos.Stock, repos.Discounts)
	customerUC := catalog.NewCustomerUseCase(repos.Customers)
	cartUC := cart.NewCartUseCase(store.txRunner, repos.Carts, nil)
	checkoutUC := checkout.NewCheckoutUseCase(store.txRunner, adjuster, metrics, log.Component("checkout"), nil)
	paymentUC := debt.NewPaymentUseCase(store.txRunner, repos.Customers, repos.Debts, metrics, log.Component("debt"), nil)

	// PDF: exportaciones tabulares y estado de cuenta del cliente
	reportUC := report.NewReportUseCase(report.Deps{
		Analytics:    store.analytics,
		Transactions: repos.Transactions,
		Customers:    repos.Customers,
		Debts:        repos.Debts,
		Stores:       repos.Stores,
		Cache:        dashCache,
		CacheTTL:     time.Duration(cfg.Redis.DashboardTTLSeconds) * time.Second,
		Exporters: map[string]report.TableExporter{
			"csv": export.NewCSVExporter(),
			"pdf": infrapdf.NewTableExporter(),
		},
		Statements: infrapdf.NewMarotoPDFGenerator(),
		Log:        log.Component("report"),
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		Immutable:    true,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(metrics.Middleware())
	app.Use(httpRouter.RequestLogger(log.Component("http")))

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Kasir API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})
	app.Get("/metrics", metrics.Handler())

	httpRouter.Router(app, httpRouter.RouterDeps{
		StoreUC:     storeUC,
		ProductUC:   productUC,
		CustomerUC:  customerUC,
		InventoryUC: adjuster,
		CartUC:      cartUC,
		CheckoutUC:  checkoutUC,
		PaymentUC:   paymentUC,
		ReportUC:    reportUC,
		JWTSecret:   cfg.JWT.Secret,
		Log:         log.Component("http"),
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
