package inventory

import (
	"context"
	"errors"
	"fmt"

	"github.com/jhoicas/inventory-ledger/internal/application/dto"
	"github.com/jhoicas/inventory-ledger/internal/domain"
	"github.com/jhoicas/inventory-ledger/internal/domain/entity"
	"github.com/jhoicas/inventory-ledger/internal/domain/repository"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Transfer mueve qty de BranchID a ToBranchID en una sola transacción:
// TRANSFER_OUT en origen y TRANSFER_IN en destino con la misma ref (ambos o ninguno).
// Los dos bloqueos se toman en orden determinista (ItemKey.Less) para evitar deadlocks
// entre traslados en sentidos opuestos.
func (e *Engine) Transfer(ctx context.Context, in TransferInput) (_ *dto.TransferResult, err error) {
	ctx, span := e.tracer.Start(ctx, "inventory.transfer", trace.WithAttributes(
		attribute.String("product_id", in.ProductID),
		attribute.String("from_branch_id", in.BranchID),
		attribute.String("to_branch_id", in.ToBranchID),
		attribute.String("ref", in.Ref),
	))
	defer func() { endSpan(span, err) }()

	if err := validateInput(in.ProductID, in.BranchID, in.Ref); err != nil {
		return nil, err
	}
	if in.ToBranchID == "" {
		return nil, fmt.Errorf("%w: sucursal destino obligatoria", domain.ErrInvalidInput)
	}
	if in.BranchID == in.ToBranchID {
		return nil, domain.ErrInvalidTransfer
	}
	out, err := issueOp(in.Quantity)
	if err != nil {
		return nil, err
	}
	out.name, out.movType = "transfer", entity.MovementTypeTransferOut
	inOp, err := receiveOp(in.Quantity)
	if err != nil {
		return nil, err
	}
	inOp.name, inOp.movType = "transfer", entity.MovementTypeTransferIn

	if err := e.checkCatalog(ctx, in.ProductID, true, in.BranchID, in.ToBranchID); err != nil {
		return nil, err
	}

	if in.Ref != "" {
		applied, err := e.movements.ExistsFor(ctx, in.ProductID, in.BranchID, entity.MovementTypeTransferOut, in.Ref)
		if err != nil {
			return nil, err
		}
		if applied {
			return e.transferReplay(ctx, in)
		}
	}

	from, err := e.items.Get(ctx, in.ProductID, in.BranchID)
	if err != nil {
		return nil, err
	}
	if from == nil {
		from = entity.NewInventoryItem(in.ProductID, in.BranchID)
	}
	if err := precheck(from.Clone(), out); err != nil {
		if applied, _ := e.appliedSince(ctx, in.ProductID, in.BranchID, entity.MovementTypeTransferOut, in.Ref); applied {
			return e.transferReplay(ctx, in)
		}
		return nil, err
	}

	fromKey := entity.ItemKey{ProductID: in.ProductID, BranchID: in.BranchID}
	toKey := entity.ItemKey{ProductID: in.ProductID, BranchID: in.ToBranchID}
	ordered := []entity.ItemKey{fromKey, toKey}
	if toKey.Less(fromKey) {
		ordered[0], ordered[1] = toKey, fromKey
	}

	meta := map[string]any{"from_branch_id": in.BranchID, "to_branch_id": in.ToBranchID}
	now := e.now()
	var (
		fromItem, toItem *entity.InventoryItem
		replayed         bool
		posted           []*entity.StockMovement
	)
	err = e.txRunner.Run(ctx, func(itemRepo repository.InventoryItemRepository, movRepo repository.StockMovementRepository) error {
		locked := make(map[entity.ItemKey]*entity.InventoryItem, 2)
		for _, k := range ordered {
			item, err := itemRepo.LockForUpdate(ctx, k.ProductID, k.BranchID)
			if err != nil {
				return err
			}
			locked[k] = item
		}
		fromItem, toItem = locked[fromKey], locked[toKey]

		if in.Ref != "" {
			applied, err := movRepo.ExistsFor(ctx, in.ProductID, in.BranchID, entity.MovementTypeTransferOut, in.Ref)
			if err != nil {
				return err
			}
			if applied {
				replayed = true
				return nil
			}
		}

		outMov, err := applyLocked(ctx, itemRepo, movRepo, fromItem, out, in.MovementInput, meta, now)
		if err != nil {
			return asConflict(err)
		}
		toIn := in.MovementInput
		toIn.BranchID = in.ToBranchID
		inMov, err := applyLocked(ctx, itemRepo, movRepo, toItem, inOp, toIn, meta, now)
		if err != nil {
			return err
		}
		posted = append(posted, outMov, inMov)
		return nil
	})
	if errors.Is(err, domain.ErrDuplicateMovement) {
		return e.transferReplay(ctx, in)
	}
	if err != nil {
		return nil, err
	}
	if replayed {
		return &dto.TransferResult{From: *snapshotOf(fromItem), To: *snapshotOf(toItem)}, nil
	}

	e.afterCommit(ctx, in.Actor, in.Context, posted, fromItem, toItem)
	e.log.Ctx(ctx).Debug().
		Str("op", "transfer").
		Str("product_id", in.ProductID).
		Str("from", in.BranchID).
		Str("to", in.ToBranchID).
		Str("qty", in.Quantity.String()).
		Msg("traslado confirmado")
	return &dto.TransferResult{From: *snapshotOf(fromItem), To: *snapshotOf(toItem)}, nil
}

func (e *Engine) transferReplay(ctx context.Context, in TransferInput) (*dto.TransferResult, error) {
	e.log.Debug().Str("op", "transfer").Str("ref", in.Ref).Msg("operación ya aplicada, sin cambios")
	from, err := e.currentSnapshot(ctx, in.ProductID, in.BranchID)
	if err != nil {
		return nil, err
	}
	to, err := e.currentSnapshot(ctx, in.ProductID, in.ToBranchID)
	if err != nil {
		return nil, err
	}
	return &dto.TransferResult{From: *from, To: *to}, nil
}
