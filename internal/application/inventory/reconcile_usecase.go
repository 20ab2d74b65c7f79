package inventory

import (
	"context"
	"fmt"

	"github.com/jhoicas/inventory-ledger/internal/application/dto"
	"github.com/jhoicas/inventory-ledger/internal/domain"
	"github.com/jhoicas/inventory-ledger/internal/domain/inventory"
	"github.com/jhoicas/inventory-ledger/internal/domain/repository"
	"github.com/jhoicas/inventory-ledger/pkg/logger"
)

// ReconcileUseCase compara el stock almacenado contra el libro de movimientos.
// on_hand debe ser la suma de los movimientos de on_hand y reserved la de RESERVE/UNRESERVE.
type ReconcileUseCase struct {
	items     repository.InventoryItemRepository
	movements repository.StockMovementRepository
	log       *logger.Logger
}

// NewReconcileUseCase construye el caso de uso de conciliación.
func NewReconcileUseCase(
	items repository.InventoryItemRepository,
	movements repository.StockMovementRepository,
	log *logger.Logger,
) *ReconcileUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &ReconcileUseCase{items: items, movements: movements, log: log}
}

// Check reconstruye los saldos del ítem desde el libro y reporta si coinciden.
func (uc *ReconcileUseCase) Check(ctx context.Context, productID, branchID string) (*dto.ReconciliationReport, error) {
	if productID == "" || branchID == "" {
		return nil, fmt.Errorf("%w: producto y sucursal son obligatorios", domain.ErrInvalidInput)
	}
	item, err := uc.items.Get(ctx, productID, branchID)
	if err != nil {
		return nil, err
	}
	history, err := uc.movements.ListAll(ctx, productID, branchID)
	if err != nil {
		return nil, err
	}
	if item == nil && len(history) == 0 {
		return nil, fmt.Errorf("%w: ítem %s/%s", domain.ErrNotFound, productID, branchID)
	}

	onHand, reserved := inventory.Replay(history)
	drift := inventory.Reconcile(item, history)
	report := &dto.ReconciliationReport{
		ProductID:      productID,
		BranchID:       branchID,
		OnHand:         onHand.Add(drift.OnHand),
		Reserved:       reserved.Add(drift.Reserved),
		LedgerOnHand:   onHand,
		LedgerReserved: reserved,
		Movements:      len(history),
		Consistent:     drift.IsZero(),
	}
	if !report.Consistent {
		uc.log.Warn().
			Str("product_id", productID).
			Str("branch_id", branchID).
			Str("drift_on_hand", drift.OnHand.String()).
			Str("drift_reserved", drift.Reserved.String()).
			Msg("inventario descuadrado respecto al libro")
	}
	return report, nil
}
