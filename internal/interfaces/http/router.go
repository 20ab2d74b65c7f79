package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/inventory-ledger/internal/application/auth"
	"github.com/jhoicas/inventory-ledger/internal/application/inventory"
	"github.com/jhoicas/inventory-ledger/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Engine    *inventory.Engine
	Reconcile *inventory.ReconcileUseCase
	Gate      auth.CapabilityGate
	Log       *logger.Logger
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Todas las rutas de inventario exigen actor (X-Actor-ID, puesto por el gateway)
	inv := api.Group("/inventory", ActorMiddleware())
	h := NewInventoryHandler(deps.Engine, deps.Reconcile, deps.Gate, deps.Log)

	// Mutaciones: cada una con su capacidad
	inv.Post("/opening-balance", RequireCapability(deps.Gate, auth.CapOpening), h.OpeningBalance)
	inv.Post("/receive", RequireCapability(deps.Gate, auth.CapReceive), h.Receive)
	inv.Post("/reserve", RequireCapability(deps.Gate, auth.CapReserve), h.Reserve)
	inv.Post("/unreserve", RequireCapability(deps.Gate, auth.CapReserve), h.Unreserve)
	inv.Post("/issue", RequireCapability(deps.Gate, auth.CapIssue), h.Issue)
	inv.Post("/transfer", RequireCapability(deps.Gate, auth.CapTransfer), h.Transfer)
	inv.Post("/adjust", RequireCapability(deps.Gate, auth.CapAdjust), h.Adjust)
	inv.Post("/batch", h.Batch)

	// Consultas
	inv.Get("/items/:product_id/:branch_id", h.GetItem)
	inv.Get("/movements", h.ListMovements)
	inv.Get("/reconcile/:product_id/:branch_id", h.Reconcile)
}
