package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/gp-0001/n-surgicals/internal/application/auth"
	"github.com/gp-0001/n-surgicals/internal/application/inventory"
	"github.com/gp-0001/n-surgicals/internal/application/policy"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC      *auth.UseCase
	InventoryUC *inventory.UseCase
	JWTSecret   string
}

// Router registra las rutas de la API. Las rutas protegidas pasan primero
// por AuthMiddleware y luego por RequirePermission con la acción concreta,
// de modo que la política se evalúa exactamente una vez por request.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público, salvo logout)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/signup", authHandler.Signup)
	authGroup.Post("/login", authHandler.Login)
	authGroup.Get("/me", AuthMiddleware(deps.JWTSecret), authHandler.Me)
	authGroup.Post("/logout", AuthMiddleware(deps.JWTSecret), authHandler.Logout)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Products (protegido; mutaciones solo admin vía política)
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.InventoryUC)
	stockHandler := NewStockHandler(deps.InventoryUC)
	products.Get("/", RequirePermission(policy.ActionListProducts), productHandler.List)
	products.Post("/", RequirePermission(policy.ActionAddProduct), productHandler.Create)
	products.Get("/low-stock", RequirePermission(policy.ActionLowStock), productHandler.LowStock)
	products.Get("/:id", RequirePermission(policy.ActionGetProduct), productHandler.GetByID)
	products.Put("/:id", RequirePermission(policy.ActionUpdateProduct), productHandler.Update)
	products.Delete("/:id", RequirePermission(policy.ActionDeleteProduct), productHandler.Delete)
	products.Put("/:id/stock", RequirePermission(policy.ActionUpdateStock), stockHandler.UpdateStock)
	products.Get("/:id/history", RequirePermission(policy.ActionStockHistory), stockHandler.History)

	// Reports (protegido)
	reports := protected.Group("/reports")
	reportHandler := NewReportHandler(deps.InventoryUC)
	reports.Get("/low-stock.pdf", RequirePermission(policy.ActionLowStockPDF), reportHandler.LowStockPDF)
}
