package http

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/inventory-ledger/internal/application/auth"
	"github.com/jhoicas/inventory-ledger/internal/application/dto"
	"github.com/jhoicas/inventory-ledger/internal/application/inventory"
	"github.com/jhoicas/inventory-ledger/internal/domain"
	"github.com/jhoicas/inventory-ledger/internal/domain/entity"
	"github.com/jhoicas/inventory-ledger/internal/domain/repository"
	"github.com/jhoicas/inventory-ledger/pkg/logger"
)

// LocalRequestID clave que deja el middleware requestid de Fiber.
const LocalRequestID = "requestid"

// InventoryHandler maneja las peticiones HTTP del motor de inventario.
type InventoryHandler struct {
	engine    *inventory.Engine
	reconcile *inventory.ReconcileUseCase
	gate      auth.CapabilityGate
	validate  *validator.Validate
	log       *logger.Logger
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(engine *inventory.Engine, reconcile *inventory.ReconcileUseCase, gate auth.CapabilityGate, log *logger.Logger) *InventoryHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &InventoryHandler{engine: engine, reconcile: reconcile, gate: gate, validate: validator.New(), log: log}
}

func (h *InventoryHandler) movementInput(c *fiber.Ctx, req dto.MovementRequest) inventory.MovementInput {
	return inventory.MovementInput{
		Actor:     GetActorID(c),
		ProductID: req.ProductID,
		BranchID:  req.BranchID,
		Quantity:  req.Quantity,
		Ref:       req.Ref,
		Context:   requestContext(c, req.Context),
	}
}

// requestContext agrega request_id al contexto que llega en el body (para auditoría).
func requestContext(c *fiber.Ctx, in map[string]any) map[string]any {
	out := make(map[string]any, len(in)+1)
	for k, v := range in {
		out[k] = v
	}
	if rid, ok := c.Locals(LocalRequestID).(string); ok && rid != "" {
		out["request_id"] = rid
	}
	return out
}

// parse lee y valida el body. Si devuelve false la respuesta de error ya está escrita.
func (h *InventoryHandler) parse(c *fiber.Ctx, out any) (bool, error) {
	if err := c.BodyParser(out); err != nil {
		return false, invalidBody(c)
	}
	if err := h.validate.Struct(out); err != nil {
		return false, validationError(c, err)
	}
	return true, nil
}

// singleOp operación del motor sobre un solo ítem.
type singleOp func(ctx context.Context, in inventory.MovementInput) (*dto.ItemSnapshot, error)

func (h *InventoryHandler) single(c *fiber.Ctx, op singleOp) error {
	var req dto.MovementRequest
	if ok, err := h.parse(c, &req); !ok {
		return err
	}
	snap, err := op(c.UserContext(), h.movementInput(c, req))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(snap)
}

// OpeningBalance godoc
// @Summary      Registrar saldo inicial
// @Description  Solo si el ítem no existe o tiene on_hand=0. quantity=0 no genera movimiento.
// @Tags         inventory
// @Security     ActorID
// @Accept       json
// @Produce      json
// @Param        X-Actor-Role  header    string               false  "rol del actor"
// @Param        body          body      dto.MovementRequest  true   "product_id, branch_id, quantity >= 0, ref opcional"
// @Success      200           {object}  dto.ItemSnapshot
// @Failure      403           {object}  dto.ErrorResponse
// @Failure      404           {object}  dto.ErrorResponse
// @Failure      409           {object}  dto.ErrorResponse
// @Failure      422           {object}  dto.ErrorResponse
// @Router       /api/inventory/opening-balance [post]
func (h *InventoryHandler) OpeningBalance(c *fiber.Ctx) error { return h.single(c, h.engine.OpeningBalance) }

// Receive godoc
// @Summary      Registrar entrada de mercancía
// @Tags         inventory
// @Security     ActorID
// @Accept       json
// @Produce      json
// @Param        X-Actor-Role  header    string               false  "rol del actor"
// @Param        body          body      dto.MovementRequest  true   "quantity > 0"
// @Success      200           {object}  dto.ItemSnapshot
// @Failure      403           {object}  dto.ErrorResponse
// @Failure      404           {object}  dto.ErrorResponse
// @Failure      409           {object}  dto.ErrorResponse
// @Failure      422           {object}  dto.ErrorResponse
// @Router       /api/inventory/receive [post]
func (h *InventoryHandler) Receive(c *fiber.Ctx) error { return h.single(c, h.engine.Receive) }

// Reserve godoc
// @Summary      Reservar stock disponible
// @Tags         inventory
// @Security     ActorID
// @Accept       json
// @Produce      json
// @Param        X-Actor-Role  header    string               false  "rol del actor"
// @Param        body          body      dto.MovementRequest  true   "quantity > 0, no mayor que available"
// @Success      200           {object}  dto.ItemSnapshot
// @Failure      403           {object}  dto.ErrorResponse
// @Failure      404           {object}  dto.ErrorResponse
// @Failure      409           {object}  dto.ErrorResponse
// @Failure      422           {object}  dto.ErrorResponse
// @Router       /api/inventory/reserve [post]
func (h *InventoryHandler) Reserve(c *fiber.Ctx) error { return h.single(c, h.engine.Reserve) }

// Unreserve godoc
// @Summary      Liberar una reserva
// @Tags         inventory
// @Security     ActorID
// @Accept       json
// @Produce      json
// @Param        X-Actor-Role  header    string               false  "rol del actor"
// @Param        body          body      dto.MovementRequest  true   "quantity > 0, no mayor que reserved"
// @Success      200           {object}  dto.ItemSnapshot
// @Failure      403           {object}  dto.ErrorResponse
// @Failure      404           {object}  dto.ErrorResponse
// @Failure      409           {object}  dto.ErrorResponse
// @Failure      422           {object}  dto.ErrorResponse
// @Router       /api/inventory/unreserve [post]
func (h *InventoryHandler) Unreserve(c *fiber.Ctx) error { return h.single(c, h.engine.Unreserve) }

// Issue godoc
// @Summary      Registrar salida de mercancía
// @Tags         inventory
// @Security     ActorID
// @Accept       json
// @Produce      json
// @Param        X-Actor-Role  header    string               false  "rol del actor"
// @Param        body          body      dto.MovementRequest  true   "quantity > 0, no mayor que available"
// @Success      200           {object}  dto.ItemSnapshot
// @Failure      403           {object}  dto.ErrorResponse
// @Failure      404           {object}  dto.ErrorResponse
// @Failure      409           {object}  dto.ErrorResponse
// @Failure      422           {object}  dto.ErrorResponse
// @Router       /api/inventory/issue [post]
func (h *InventoryHandler) Issue(c *fiber.Ctx) error { return h.single(c, h.engine.Issue) }

// Transfer godoc
// @Summary      Trasladar stock entre sucursales
// @Description  TRANSFER_OUT en origen y TRANSFER_IN en destino con la misma ref, en una sola transacción.
// @Tags         inventory
// @Security     ActorID
// @Accept       json
// @Produce      json
// @Param        X-Actor-Role  header    string               false  "rol del actor"
// @Param        body          body      dto.TransferRequest  true   "branch_id origen, to_branch_id destino"
// @Success      200           {object}  dto.TransferResult
// @Failure      403           {object}  dto.ErrorResponse
// @Failure      404           {object}  dto.ErrorResponse
// @Failure      409           {object}  dto.ErrorResponse
// @Failure      422           {object}  dto.ErrorResponse
// @Router       /api/inventory/transfer [post]
func (h *InventoryHandler) Transfer(c *fiber.Ctx) error {
	var req dto.TransferRequest
	if ok, err := h.parse(c, &req); !ok {
		return err
	}
	res, err := h.engine.Transfer(c.UserContext(), inventory.TransferInput{
		MovementInput: h.movementInput(c, req.MovementRequest),
		ToBranchID:    req.ToBranchID,
	})
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(res)
}

// Adjust godoc
// @Summary      Ajustar on_hand con signo
// @Tags         inventory
// @Security     ActorID
// @Accept       json
// @Produce      json
// @Param        X-Actor-Role  header    string             false  "rol del actor"
// @Param        body          body      dto.AdjustRequest  true   "quantity con signo distinta de cero, reason"
// @Success      200           {object}  dto.ItemSnapshot
// @Failure      403           {object}  dto.ErrorResponse
// @Failure      404           {object}  dto.ErrorResponse
// @Failure      409           {object}  dto.ErrorResponse
// @Failure      422           {object}  dto.ErrorResponse
// @Router       /api/inventory/adjust [post]
func (h *InventoryHandler) Adjust(c *fiber.Ctx) error {
	var req dto.AdjustRequest
	if ok, err := h.parse(c, &req); !ok {
		return err
	}
	snap, err := h.engine.Adjust(c.UserContext(), inventory.AdjustInput{
		MovementInput: h.movementInput(c, req.MovementRequest),
		Reason:        req.Reason,
	})
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(snap)
}

var batchCapability = map[string]string{
	inventory.BatchOpReceive:   auth.CapReceive,
	inventory.BatchOpReserve:   auth.CapReserve,
	inventory.BatchOpUnreserve: auth.CapReserve,
	inventory.BatchOpIssue:     auth.CapIssue,
	inventory.BatchOpAdjust:    auth.CapAdjust,
}

// Batch godoc
// @Summary      Aplicar un lote de operaciones
// @Description  Todas las líneas en una transacción; si una falla se revierte el lote y la respuesta indica la línea.
// @Description  Cada línea exige la capacidad de su operación.
// @Tags         inventory
// @Security     ActorID
// @Accept       json
// @Produce      json
// @Param        X-Actor-Role  header    string            false  "rol del actor"
// @Param        body          body      dto.BatchRequest  true   "lines: op, product_id, branch_id, quantity, ref, reason"
// @Success      200           {object}  dto.BatchResponse
// @Failure      403           {object}  dto.ErrorResponse
// @Failure      404           {object}  dto.ErrorResponse
// @Failure      409           {object}  dto.ErrorResponse
// @Failure      422           {object}  dto.ErrorResponse
// @Router       /api/inventory/batch [post]
func (h *InventoryHandler) Batch(c *fiber.Ctx) error {
	var req dto.BatchRequest
	if ok, err := h.parse(c, &req); !ok {
		return err
	}
	lines := make([]inventory.BatchLine, len(req.Lines))
	for i, l := range req.Lines {
		capability := batchCapability[l.Op]
		if !h.gate.IsAuthorized(c.UserContext(), GetActor(c), capability, l.BranchID) {
			return forbidden(c, capability)
		}
		lines[i] = inventory.BatchLine{
			Op:        l.Op,
			ProductID: l.ProductID,
			BranchID:  l.BranchID,
			Quantity:  l.Quantity,
			Ref:       l.Ref,
			Reason:    l.Reason,
		}
	}
	snaps, err := h.engine.ApplyBatch(c.UserContext(), inventory.BatchInput{
		Actor:   GetActorID(c),
		Lines:   lines,
		Context: requestContext(c, req.Context),
	})
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.BatchResponse{Items: snaps})
}

// GetItem godoc
// @Summary      Consultar estado de un ítem
// @Tags         inventory
// @Security     ActorID
// @Produce      json
// @Param        product_id  path      string  true  "producto"
// @Param        branch_id   path      string  true  "sucursal"
// @Success      200         {object}  dto.ItemSnapshot
// @Failure      404         {object}  dto.ErrorResponse
// @Router       /api/inventory/items/{product_id}/{branch_id} [get]
func (h *InventoryHandler) GetItem(c *fiber.Ctx) error {
	snap, err := h.engine.GetItem(c.UserContext(), c.Params("product_id"), c.Params("branch_id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(snap)
}

// ListMovements godoc
// @Summary      Consultar el libro de movimientos
// @Description  Más recientes primero. from y to en RFC3339.
// @Tags         inventory
// @Security     ActorID
// @Produce      json
// @Param        product_id  query     string  false  "producto"
// @Param        branch_id   query     string  false  "sucursal"
// @Param        type        query     string  false  "OPENING, RECEIVE, RESERVE, UNRESERVE, ISSUE, TRANSFER_OUT, TRANSFER_IN, ADJUST"
// @Param        ref         query     string  false  "referencia externa"
// @Param        from        query     string  false  "desde (RFC3339)"
// @Param        to          query     string  false  "hasta (RFC3339)"
// @Param        limit       query     int     false  "máximo 500, por defecto 50"
// @Param        offset      query     int     false  "desplazamiento"
// @Success      200         {object}  dto.MovementListResponse
// @Failure      422         {object}  dto.ErrorResponse
// @Router       /api/inventory/movements [get]
func (h *InventoryHandler) ListMovements(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return writeError(c, h.log, domain.ErrInvalidInput)
	}
	if err := h.validate.Struct(page); err != nil {
		return validationError(c, err)
	}
	page.DefaultPage()
	filter := repository.MovementFilter{
		ProductID: c.Query("product_id"),
		BranchID:  c.Query("branch_id"),
		Type:      entity.MovementType(c.Query("type")),
		Ref:       c.Query("ref"),
		Limit:     page.Limit,
		Offset:    page.Offset,
	}
	for name, dst := range map[string]**time.Time{"from": &filter.From, "to": &filter.To} {
		raw := c.Query(name)
		if raw == "" {
			continue
		}
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return writeError(c, h.log, domain.ErrInvalidInput)
		}
		*dst = &t
	}
	list, err := h.engine.ListMovements(c.UserContext(), filter)
	if err != nil {
		return writeError(c, h.log, err)
	}
	total, err := h.engine.CountMovements(c.UserContext(), filter)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.MovementListResponse{
		Movements: list,
		Page:      dto.PageResponse{Limit: filter.Limit, Offset: filter.Offset, Total: total},
	})
}

// Reconcile godoc
// @Summary      Conciliar ítem contra el libro
// @Description  Compara on_hand y reserved almacenados con la suma de los movimientos.
// @Tags         inventory
// @Security     ActorID
// @Produce      json
// @Param        product_id  path      string  true  "producto"
// @Param        branch_id   path      string  true  "sucursal"
// @Success      200         {object}  dto.ReconciliationReport
// @Failure      404         {object}  dto.ErrorResponse
// @Router       /api/inventory/reconcile/{product_id}/{branch_id} [get]
func (h *InventoryHandler) Reconcile(c *fiber.Ctx) error {
	rep, err := h.reconcile.Check(c.UserContext(), c.Params("product_id"), c.Params("branch_id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(rep)
}
