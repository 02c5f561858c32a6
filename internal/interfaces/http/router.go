package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/warehouse-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Auth           loginService
	Users          userService
	Categories     categoryService
	Items          itemService
	Labels         labelService
	Importer       importService
	Ledger         ledgerService
	Replenishment  replenishmentService
	Reports        ledgerReportService
	JWTSecret      string
	MaxUploadBytes int64
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authHandler := NewAuthHandler(deps.Auth)
	api.Post("/auth/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	registryWrite := RequireRole(entity.RoleAdmin, entity.RoleManager, entity.RoleSupervisor)
	adminOnly := RequireRole(entity.RoleAdmin)

	// Users
	users := protected.Group("/users")
	userHandler := NewUserHandler(deps.Users)
	users.Get("/me", userHandler.Me)
	users.Post("/", adminOnly, userHandler.Create)
	users.Get("/", adminOnly, userHandler.List)

	// Categories
	categories := protected.Group("/categories")
	categoryHandler := NewCategoryHandler(deps.Categories)
	categories.Get("/", categoryHandler.List)
	categories.Get("/slug/:slug", categoryHandler.GetBySlug)
	categories.Get("/:id", categoryHandler.GetByID)
	categories.Post("/", registryWrite, categoryHandler.Create)
	categories.Put("/:id", registryWrite, categoryHandler.Rename)
	categories.Delete("/:id", registryWrite, categoryHandler.Delete)

	// Items
	items := protected.Group("/items")
	itemHandler := NewItemHandler(deps.Items, deps.Labels, deps.Importer, deps.MaxUploadBytes)
	items.Get("/", itemHandler.List)
	items.Post("/import", registryWrite, itemHandler.Import)
	items.Get("/:id", itemHandler.GetByID)
	items.Get("/:id/label.pdf", itemHandler.Label)
	items.Post("/", registryWrite, itemHandler.Create)
	items.Put("/:id", registryWrite, itemHandler.Update)
	items.Delete("/:id", registryWrite, itemHandler.Delete)
	items.Put("/:id/tool-attributes", registryWrite, itemHandler.SetToolAttributes)

	// Inventory: cualquier usuario autenticado registra movimientos
	inv := protected.Group("/inventory")
	inventoryHandler := NewInventoryHandler(deps.Ledger, deps.Replenishment, deps.Reports)
	inv.Post("/movements", inventoryHandler.RegisterMovement)
	inv.Get("/transactions", inventoryHandler.ListTransactions)
	inv.Get("/transactions/report.pdf", inventoryHandler.TransactionsReport)
	inv.Get("/low-stock", inventoryHandler.GetLowStock)
	inv.Get("/items/:id/reconcile", inventoryHandler.Reconcile)
}
