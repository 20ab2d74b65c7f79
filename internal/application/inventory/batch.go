package inventory

import (
	"context"
	"fmt"
	"sort"

	"github.com/jhoicas/inventory-ledger/internal/application/dto"
	"github.com/jhoicas/inventory-ledger/internal/domain"
	"github.com/jhoicas/inventory-ledger/internal/domain/entity"
	"github.com/jhoicas/inventory-ledger/internal/domain/repository"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Operaciones admitidas en un lote.
const (
	BatchOpReceive   = "receive"
	BatchOpReserve   = "reserve"
	BatchOpUnreserve = "unreserve"
	BatchOpIssue     = "issue"
	BatchOpAdjust    = "adjust"
)

// BatchLine una línea del lote.
type BatchLine struct {
	Op        string
	ProductID string
	BranchID  string
	Quantity  decimal.Decimal
	Ref       string
	Reason    string
}

// BatchInput lote de operaciones aplicado en una sola transacción externa.
type BatchInput struct {
	Actor   string
	Lines   []BatchLine
	Context map[string]any
}

// BatchLineError indica qué línea hizo fallar el lote.
type BatchLineError struct {
	Line int
	Err  error
}

func (e *BatchLineError) Error() string {
	return fmt.Sprintf("línea %d: %v", e.Line, e.Err)
}

func (e *BatchLineError) Unwrap() error { return e.Err }

func batchOp(line BatchLine) (operation, error) {
	switch line.Op {
	case BatchOpReceive:
		return receiveOp(line.Quantity)
	case BatchOpReserve:
		return reserveOp(line.Quantity)
	case BatchOpUnreserve:
		return unreserveOp(line.Quantity)
	case BatchOpIssue:
		return issueOp(line.Quantity)
	case BatchOpAdjust:
		return adjustOp(line.Quantity, line.Reason)
	}
	return operation{}, fmt.Errorf("%w: operación %q", domain.ErrInvalidInput, line.Op)
}

// ApplyBatch aplica todas las líneas en la misma transacción; si una falla se revierte el lote completo.
// Todas las claves distintas se bloquean primero en orden determinista y luego se aplican las líneas
// en el orden recibido. Las líneas con ref ya aplicada se omiten. Devuelve el estado final de cada
// ítem tocado, ordenado por clave.
func (e *Engine) ApplyBatch(ctx context.Context, in BatchInput) (_ []dto.ItemSnapshot, err error) {
	ctx, span := e.tracer.Start(ctx, "inventory.batch", trace.WithAttributes(attribute.Int("lines", len(in.Lines))))
	defer func() { endSpan(span, err) }()

	if len(in.Lines) == 0 {
		return nil, fmt.Errorf("%w: lote vacío", domain.ErrInvalidInput)
	}

	ops := make([]operation, len(in.Lines))
	seen := make(map[entity.ItemKey]bool)
	var keys []entity.ItemKey
	for i, line := range in.Lines {
		if err := validateInput(line.ProductID, line.BranchID, line.Ref); err != nil {
			return nil, &BatchLineError{Line: i, Err: err}
		}
		op, err := batchOp(line)
		if err != nil {
			return nil, &BatchLineError{Line: i, Err: err}
		}
		if err := e.checkCatalog(ctx, line.ProductID, op.requireActive, line.BranchID); err != nil {
			return nil, &BatchLineError{Line: i, Err: err}
		}
		ops[i] = op
		k := entity.ItemKey{ProductID: line.ProductID, BranchID: line.BranchID}
		if !seen[k] {
			seen[k] = true
			keys = append(keys, k)
		}
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].Less(keys[j]) })

	now := e.now()
	var (
		locked map[entity.ItemKey]*entity.InventoryItem
		posted []*entity.StockMovement
	)
	err = e.txRunner.Run(ctx, func(itemRepo repository.InventoryItemRepository, movRepo repository.StockMovementRepository) error {
		locked = make(map[entity.ItemKey]*entity.InventoryItem, len(keys))
		posted = posted[:0]
		for _, k := range keys {
			item, err := itemRepo.LockForUpdate(ctx, k.ProductID, k.BranchID)
			if err != nil {
				return err
			}
			locked[k] = item
		}
		for i, line := range in.Lines {
			op := ops[i]
			if line.Ref != "" {
				applied, err := movRepo.ExistsFor(ctx, line.ProductID, line.BranchID, op.movType, line.Ref)
				if err != nil {
					return &BatchLineError{Line: i, Err: err}
				}
				if applied {
					continue
				}
			}
			item := locked[entity.ItemKey{ProductID: line.ProductID, BranchID: line.BranchID}]
			mi := MovementInput{
				Actor:     in.Actor,
				ProductID: line.ProductID,
				BranchID:  line.BranchID,
				Quantity:  line.Quantity,
				Ref:       line.Ref,
			}
			mov, err := applyLocked(ctx, itemRepo, movRepo, item, op, mi, map[string]any{"batch_line": i}, now)
			if err != nil {
				return &BatchLineError{Line: i, Err: err}
			}
			if mov != nil {
				posted = append(posted, mov)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	touched := make([]*entity.InventoryItem, 0, len(keys))
	for _, k := range keys {
		touched = append(touched, locked[k])
	}
	e.afterCommit(ctx, in.Actor, in.Context, posted, touched...)
	e.log.Debug().Int("lines", len(in.Lines)).Int("movements", len(posted)).Msg("lote de inventario confirmado")

	out := make([]dto.ItemSnapshot, 0, len(touched))
	for _, item := range touched {
		out = append(out, *snapshotOf(item))
	}
	return out, nil
}
