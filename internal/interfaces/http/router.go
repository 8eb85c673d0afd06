package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/carniceria-stock/internal/application/ledger"
	"github.com/tu-usuario/carniceria-stock/internal/application/orders"
	"github.com/tu-usuario/carniceria-stock/internal/application/transfer"
	"github.com/tu-usuario/carniceria-stock/internal/application/usecase"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ProductUC   *usecase.ProductUseCase
	LocationUC  *usecase.LocationUseCase
	Engine      *ledger.Engine
	Coordinator *transfer.Coordinator
	Orders      *orders.Adapter
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Catálogo mínimo (colaboradores del libro de movimientos)
	products := api.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Post("/", productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)

	locations := api.Group("/locations")
	locationHandler := NewLocationHandler(deps.LocationUC)
	locations.Post("/", locationHandler.Create)
	locations.Get("/", locationHandler.List)
	locations.Get("/:id", locationHandler.GetByID)

	// Libro de movimientos y lotes
	inv := api.Group("/inventory")
	movementHandler := NewMovementHandler(deps.Engine)
	inv.Post("/movements", movementHandler.RecordMovement)
	inv.Get("/movements", movementHandler.ListMovements)
	inv.Get("/products/:id/lots", movementHandler.ListAvailableLots)
	inv.Get("/products/:id/lots/history", movementHandler.ListLotHistory)

	// Traslados entre ubicaciones
	transfers := api.Group("/transfers")
	transferHandler := NewTransferHandler(deps.Coordinator)
	transfers.Post("/", transferHandler.Create)
	transfers.Get("/:id", transferHandler.Get)
	transfers.Post("/:id/send", transferHandler.Send)
	transfers.Post("/:id/confirm", transferHandler.Confirm)
	transfers.Post("/:id/cancel", transferHandler.Cancel)

	// Adaptador de pedidos (obrador y clientes)
	ordersGroup := api.Group("/orders")
	ordersHandler := NewOrdersHandler(deps.Orders)
	ordersGroup.Post("/factory/dispatch", ordersHandler.DispatchFactoryOrder)
	ordersGroup.Post("/client/ship", ordersHandler.ShipClientOrder)
	ordersGroup.Post("/client/return", ordersHandler.ReturnClientOrder)
}
