package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/kasir-api/internal/application/cart"
	"github.com/jhoicas/kasir-api/internal/application/catalog"
	"github.com/jhoicas/kasir-api/internal/application/checkout"
	"github.com/jhoicas/kasir-api/internal/application/debt"
	"github.com/jhoicas/kasir-api/internal/application/inventory"
	"github.com/jhoicas/kasir-api/internal/application/report"
	"github.com/jhoicas/kasir-api/internal/domain"
	"github.com/jhoicas/kasir-api/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	StoreUC     *catalog.StoreUseCase
	ProductUC   *catalog.ProductUseCase
	CustomerUC  *catalog.CustomerUseCase
	InventoryUC *inventory.AdjustStockUseCase
	CartUC      *cart.CartUseCase
	CheckoutUC  *checkout.CheckoutUseCase
	PaymentUC   *debt.PaymentUseCase
	ReportUC    *report.ReportUseCase
	JWTSecret   string
	Log         *logger.Logger
}

// Router registra las rutas de la API. Todo /api exige Bearer Token y tienda activa.
func Router(app *fiber.App, deps RouterDeps) {
	log := deps.Log
	if log == nil {
		log = logger.Nop()
	}
	api := app.Group("/api", AuthMiddleware(deps.JWTSecret), RequireActiveStore(deps.StoreUC))
	adminOnly := RequireRole(domain.RoleAdmin)

	storeHandler := NewStoreHandler(deps.StoreUC, log)
	api.Get("/stores/me", storeHandler.Current)

	// Catálogo
	productHandler := NewProductHandler(deps.ProductUC, log)
	products := api.Group("/products")
	products.Post("/", adminOnly, productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	api.Put("/variants/:id/price", adminOnly, productHandler.UpdateVariantPrice)
	api.Post("/discounts", adminOnly, productHandler.CreateDiscount)

	// Inventario
	inventoryHandler := NewInventoryHandler(deps.InventoryUC, log)
	inv := api.Group("/inventory")
	inv.Post("/adjustments", adminOnly, inventoryHandler.Adjust)
	inv.Post("/restocks", adminOnly, inventoryHandler.Restock)
	inv.Get("/variants/:id/stock", inventoryHandler.GetStock)
	inv.Get("/variants/:id/movements", inventoryHandler.ListMovements)

	// Carrito: las rutas /items van antes que /:code para que "items" no se tome como código.
	cartHandler := NewCartHandler(deps.CartUC, log)
	carts := api.Group("/carts")
	carts.Patch("/items/:id", cartHandler.SetQuantity)
	carts.Patch("/items/:id/variant", cartHandler.ChangeVariant)
	carts.Delete("/items/:id", cartHandler.RemoveItem)
	carts.Get("/:code", cartHandler.Get)
	carts.Post("/:code/items", cartHandler.AddItem)
	carts.Delete("/:code", cartHandler.Revoke)

	checkoutHandler := NewCheckoutHandler(deps.CheckoutUC, log)
	api.Post("/checkout", checkoutHandler.Commit)

	// Clientes y deuda
	customerHandler := NewCustomerHandler(deps.CustomerUC, deps.PaymentUC, deps.ReportUC, log)
	customers := api.Group("/customers")
	customers.Post("/", customerHandler.Create)
	customers.Get("/", customerHandler.List)
	customers.Get("/:id", customerHandler.GetByID)
	customers.Get("/:id/debts", customerHandler.ListDebts)
	customers.Post("/:id/payments", customerHandler.Pay)
	customers.Get("/:id/payments", customerHandler.ListPayments)
	customers.Get("/:id/payments/:paymentId", customerHandler.GetPayment)
	customers.Get("/:id/statement.pdf", customerHandler.Statement)

	// Reportes
	reportHandler := NewReportHandler(deps.ReportUC, log)
	reports := api.Group("/reports", adminOnly)
	reports.Get("/dashboard", reportHandler.Dashboard)
	reports.Get("/transactions/export", reportHandler.ExportTransactions)
	reports.Get("/debts/export", reportHandler.ExportDebts)
}
