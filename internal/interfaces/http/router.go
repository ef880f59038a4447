package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/sweetshop-api/internal/application/catalog"
	"github.com/jhoicas/sweetshop-api/internal/application/inventory"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	StockUC   *inventory.StockUseCase
	CatalogUC *catalog.CatalogUseCase
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	sweets := api.Group("/sweets")
	handler := NewSweetHandler(deps.StockUC, deps.CatalogUC)

	// Catálogo
	sweets.Post("/", handler.Create)
	sweets.Get("/", handler.List)
	sweets.Get("/search", handler.Search)
	sweets.Get("/:id", handler.GetByID)
	sweets.Put("/:id", handler.Update)
	sweets.Delete("/:id", handler.Delete)

	// Stock (motor de inventario)
	sweets.Post("/:id/purchase", handler.Purchase)
	sweets.Post("/:id/restock", handler.Restock)
	sweets.Post("/:id/adjust", handler.Adjust)
	sweets.Get("/:id/events", handler.AuditTrail)
}
