package inventory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jhoicas/inventory-ledger/internal/application/dto"
	"github.com/jhoicas/inventory-ledger/internal/domain"
	"github.com/jhoicas/inventory-ledger/internal/domain/entity"
	"github.com/jhoicas/inventory-ledger/internal/domain/inventory"
	"github.com/jhoicas/inventory-ledger/internal/domain/repository"
	"github.com/jhoicas/inventory-ledger/pkg/logger"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/jhoicas/inventory-ledger/inventory"

// MovementInput entrada común de las operaciones de inventario.
// Actor se pasa explícito; el motor nunca lo toma de un contexto global.
type MovementInput struct {
	Actor     string
	ProductID string
	BranchID  string
	Quantity  decimal.Decimal
	Ref       string
	Context   map[string]any
}

// TransferInput traslado de BranchID (origen) a ToBranchID.
type TransferInput struct {
	MovementInput
	ToBranchID string
}

// AdjustInput ajuste con signo; Reason queda en meta.reason del movimiento.
type AdjustInput struct {
	MovementInput
	Reason string
}

// EngineDeps dependencias del motor. Items y Movements se usan fuera de la tx (lecturas sin bloqueo).
type EngineDeps struct {
	TxRunner  TxRunner
	Items     repository.InventoryItemRepository
	Movements repository.StockMovementRepository
	Products  repository.ProductRepository
	Branches  repository.BranchRepository
	Audit     AuditSink
	Posting   PostingHook
	Cache     SnapshotCache
	Log       *logger.Logger
	Now       func() time.Time
	// Tracer proveedor de trazas; nil usa el proveedor global de otel.
	Tracer    trace.TracerProvider
}

// Engine motor de operaciones de inventario: saldo inicial, entrada, reserva, liberación,
// salida, traslado y ajuste. Cada operación corre en una transacción con bloqueo de fila
// (SELECT FOR UPDATE o equivalente) y es idempotente cuando llega Ref.
type Engine struct {
	txRunner  TxRunner
	items     repository.InventoryItemRepository
	movements repository.StockMovementRepository
	products  repository.ProductRepository
	branches  repository.BranchRepository
	audit     AuditSink
	posting   PostingHook
	cache     SnapshotCache
	log       *logger.Logger
	now       func() time.Time
	tracer    trace.Tracer
}

// NewEngine construye el motor.
func NewEngine(deps EngineDeps) *Engine {
	e := &Engine{
		txRunner:  deps.TxRunner,
		items:     deps.Items,
		movements: deps.Movements,
		products:  deps.Products,
		branches:  deps.Branches,
		audit:     deps.Audit,
		posting:   deps.Posting,
		cache:     deps.Cache,
		log:       deps.Log,
		now:       deps.Now,
	}
	if e.audit == nil {
		e.audit = NopAuditSink{}
	}
	if e.posting == nil {
		e.posting = NopPostingHook{}
	}
	if e.log == nil {
		e.log = logger.Nop()
	}
	if e.now == nil {
		e.now = func() time.Time { return time.Now().UTC() }
	}
	tp := deps.Tracer
	if tp == nil {
		tp = otel.GetTracerProvider()
	}
	e.tracer = tp.Tracer(tracerName)
	return e
}

// OpeningBalance registra el saldo inicial. Solo si el ítem no existe o tiene on_hand=0;
// qty=0 se acepta y no genera movimiento.
func (e *Engine) OpeningBalance(ctx context.Context, in MovementInput) (*dto.ItemSnapshot, error) {
	op, err := openingOp(in.Quantity)
	if err != nil {
		return nil, err
	}
	return e.mutate(ctx, in, op)
}

// Receive suma qty a on_hand.
func (e *Engine) Receive(ctx context.Context, in MovementInput) (*dto.ItemSnapshot, error) {
	op, err := receiveOp(in.Quantity)
	if err != nil {
		return nil, err
	}
	return e.mutate(ctx, in, op)
}

// Reserve aparta qty del disponible. Rechaza productos inactivos.
func (e *Engine) Reserve(ctx context.Context, in MovementInput) (*dto.ItemSnapshot, error) {
	op, err := reserveOp(in.Quantity)
	if err != nil {
		return nil, err
	}
	return e.mutate(ctx, in, op)
}

// Unreserve libera qty de lo reservado.
func (e *Engine) Unreserve(ctx context.Context, in MovementInput) (*dto.ItemSnapshot, error) {
	op, err := unreserveOp(in.Quantity)
	if err != nil {
		return nil, err
	}
	return e.mutate(ctx, in, op)
}

// Issue descuenta qty de on_hand contra el disponible. Rechaza productos inactivos.
func (e *Engine) Issue(ctx context.Context, in MovementInput) (*dto.ItemSnapshot, error) {
	op, err := issueOp(in.Quantity)
	if err != nil {
		return nil, err
	}
	return e.mutate(ctx, in, op)
}

// Adjust aplica un ajuste con signo. La autorización (capacidad de ajuste) la verifica el llamador.
func (e *Engine) Adjust(ctx context.Context, in AdjustInput) (*dto.ItemSnapshot, error) {
	op, err := adjustOp(in.Quantity, in.Reason)
	if err != nil {
		return nil, err
	}
	return e.mutate(ctx, in.MovementInput, op)
}

// mutate ejecuta una operación de un solo ítem:
// validación → catálogo → idempotencia (rápida) → pre-chequeo sin bloqueo →
// tx { bloqueo → idempotencia → aplicar → invariantes → guardar → movimiento } → auditoría.
func (e *Engine) mutate(ctx context.Context, in MovementInput, op operation) (_ *dto.ItemSnapshot, err error) {
	ctx, span := e.tracer.Start(ctx, "inventory."+op.name, trace.WithAttributes(
		attribute.String("product_id", in.ProductID),
		attribute.String("branch_id", in.BranchID),
		attribute.String("ref", in.Ref),
	))
	defer func() { endSpan(span, err) }()

	if err := validateInput(in.ProductID, in.BranchID, in.Ref); err != nil {
		return nil, err
	}
	if err := e.checkCatalog(ctx, in.ProductID, op.requireActive, in.BranchID); err != nil {
		return nil, err
	}

	if in.Ref != "" {
		applied, err := e.movements.ExistsFor(ctx, in.ProductID, in.BranchID, op.movType, in.Ref)
		if err != nil {
			return nil, err
		}
		if applied {
			return e.replay(ctx, in.ProductID, in.BranchID, op.name, in.Ref)
		}
	}

	// Pre-chequeo optimista: si falla aquí es error de negocio (422);
	// si pasa aquí y falla bajo bloqueo, otra transacción cambió el saldo (409).
	current, err := e.items.Get(ctx, in.ProductID, in.BranchID)
	if err != nil {
		return nil, err
	}
	if current == nil {
		current = entity.NewInventoryItem(in.ProductID, in.BranchID)
	}
	if err := precheck(current.Clone(), op); err != nil {
		// Una petición con la misma ref pudo confirmarse después de la consulta rápida.
		if applied, _ := e.appliedSince(ctx, in.ProductID, in.BranchID, op.movType, in.Ref); applied {
			return e.replay(ctx, in.ProductID, in.BranchID, op.name, in.Ref)
		}
		return nil, err
	}

	now := e.now()
	var (
		result   *entity.InventoryItem
		replayed bool
		posted   []*entity.StockMovement
	)
	err = e.txRunner.Run(ctx, func(itemRepo repository.InventoryItemRepository, movRepo repository.StockMovementRepository) error {
		item, err := itemRepo.LockForUpdate(ctx, in.ProductID, in.BranchID)
		if err != nil {
			return err
		}
		if in.Ref != "" {
			applied, err := movRepo.ExistsFor(ctx, in.ProductID, in.BranchID, op.movType, in.Ref)
			if err != nil {
				return err
			}
			if applied {
				replayed = true
				result = item
				return nil
			}
		}
		mov, err := applyLocked(ctx, itemRepo, movRepo, item, op, in, nil, now)
		if err != nil {
			return asConflict(err)
		}
		if mov != nil {
			posted = append(posted, mov)
		}
		result = item
		return nil
	})
	if errors.Is(err, domain.ErrDuplicateMovement) {
		return e.replay(ctx, in.ProductID, in.BranchID, op.name, in.Ref)
	}
	if err != nil {
		return nil, err
	}
	if replayed {
		e.log.Debug().Str("op", op.name).Str("ref", in.Ref).Msg("operación ya aplicada, sin cambios")
		return snapshotOf(result), nil
	}

	e.afterCommit(ctx, in.Actor, in.Context, posted, result)
	e.log.Ctx(ctx).Debug().
		Str("op", op.name).
		Str("product_id", in.ProductID).
		Str("branch_id", in.BranchID).
		Str("qty", in.Quantity.String()).
		Str("on_hand", result.OnHand.String()).
		Str("reserved", result.Reserved.String()).
		Msg("movimiento de inventario confirmado")
	return snapshotOf(result), nil
}

// applyLocked aplica la operación sobre un ítem ya bloqueado, valida invariantes,
// guarda el ítem y agrega el movimiento. Devuelve nil si la operación no genera movimiento.
func applyLocked(
	ctx context.Context,
	itemRepo repository.InventoryItemRepository,
	movRepo repository.StockMovementRepository,
	item *entity.InventoryItem,
	op operation,
	in MovementInput,
	extraMeta map[string]any,
	now time.Time,
) (*entity.StockMovement, error) {
	qty, err := op.apply(item)
	if err != nil {
		return nil, err
	}
	if err := inventory.CheckInvariants(item); err != nil {
		return nil, err
	}
	item.Version++
	item.UpdatedAt = now
	if err := itemRepo.Save(ctx, item); err != nil {
		return nil, err
	}
	if qty.IsZero() {
		return nil, nil
	}
	mov := &entity.StockMovement{
		ProductID:     item.ProductID,
		BranchID:      item.BranchID,
		Type:          op.movType,
		Quantity:      qty,
		Ref:           in.Ref,
		Meta:          movementMeta(op, extraMeta),
		OnHandAfter:   item.OnHand,
		ReservedAfter: item.Reserved,
		CreatedAt:     now,
		CreatedBy:     in.Actor,
	}
	if _, err := movRepo.Append(ctx, mov); err != nil {
		return nil, err
	}
	return mov, nil
}

// precheck aplica la operación sobre una copia sin bloqueo.
func precheck(item *entity.InventoryItem, op operation) error {
	if _, err := op.apply(item); err != nil {
		return err
	}
	return inventory.CheckInvariants(item)
}

// asConflict convierte un fallo de negocio detectado bajo bloqueo (después de pasar el
// pre-chequeo) en ErrConflict: el saldo cambió por otra transacción y se puede reintentar.
func asConflict(err error) error {
	switch domain.KindOf(err) {
	case domain.KindInsufficientStock, domain.KindNegativeStockResult, domain.KindAlreadyInitialized:
		return fmt.Errorf("%w: el saldo cambió durante la operación (%v)", domain.ErrConflict, err)
	}
	return err
}

// appliedSince vuelve a consultar la clave de idempotencia cuando el pre-chequeo falla.
// Sin ref no hay nada que consultar.
func (e *Engine) appliedSince(ctx context.Context, productID, branchID string, movType entity.MovementType, ref string) (bool, error) {
	if ref == "" {
		return false, nil
	}
	applied, err := e.movements.ExistsFor(ctx, productID, branchID, movType, ref)
	if err != nil {
		e.log.Warn().Err(err).Str("ref", ref).Msg("no se pudo verificar la ref tras el pre-chequeo")
		return false, err
	}
	return applied, nil
}

// replay devuelve el estado actual para una petición ya aplicada (no es error).
func (e *Engine) replay(ctx context.Context, productID, branchID, opName, ref string) (*dto.ItemSnapshot, error) {
	e.log.Debug().Str("op", opName).Str("ref", ref).Msg("operación ya aplicada, sin cambios")
	return e.currentSnapshot(ctx, productID, branchID)
}

func (e *Engine) currentSnapshot(ctx context.Context, productID, branchID string) (*dto.ItemSnapshot, error) {
	item, err := e.items.Get(ctx, productID, branchID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		item = entity.NewInventoryItem(productID, branchID)
	}
	return snapshotOf(item), nil
}

// checkCatalog valida que producto y sucursal existan y, si aplica, que el producto esté activo.
func (e *Engine) checkCatalog(ctx context.Context, productID string, requireActive bool, branchIDs ...string) error {
	product, err := e.products.GetByID(ctx, productID)
	if err != nil {
		return err
	}
	if product == nil {
		return fmt.Errorf("%w: producto %s", domain.ErrNotFound, productID)
	}
	if requireActive && !product.Active {
		return fmt.Errorf("%w: %s", domain.ErrInactiveProduct, productID)
	}
	for _, id := range branchIDs {
		branch, err := e.branches.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if branch == nil {
			return fmt.Errorf("%w: sucursal %s", domain.ErrNotFound, id)
		}
	}
	return nil
}

func validateInput(productID, branchID, ref string) error {
	if productID == "" || branchID == "" {
		return fmt.Errorf("%w: producto y sucursal son obligatorios", domain.ErrInvalidInput)
	}
	if len(ref) > entity.MaxRefLength {
		return fmt.Errorf("%w: ref excede %d caracteres", domain.ErrInvalidInput, entity.MaxRefLength)
	}
	return nil
}

func snapshotOf(item *entity.InventoryItem) *dto.ItemSnapshot {
	return &dto.ItemSnapshot{
		ProductID: item.ProductID,
		BranchID:  item.BranchID,
		OnHand:    item.OnHand,
		Reserved:  item.Reserved,
		Available: item.Available(),
		Version:   item.Version,
	}
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, string(domain.KindOf(err)))
	}
	span.End()
}
