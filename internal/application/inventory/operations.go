package inventory

import (
	"fmt"

	"github.com/jhoicas/inventory-ledger/internal/domain"
	"github.com/jhoicas/inventory-ledger/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// operation describe una transición de estado sobre un solo ítem.
// apply muta el ítem y devuelve la cantidad con signo del movimiento; cero significa "sin movimiento".
type operation struct {
	name          string
	movType       entity.MovementType
	requireActive bool
	meta          map[string]any
	apply         func(item *entity.InventoryItem) (decimal.Decimal, error)
}

func invalidQty(qty decimal.Decimal) error {
	return fmt.Errorf("%w: %s", domain.ErrInvalidQuantity, qty)
}

func insufficient(available, qty decimal.Decimal) error {
	return fmt.Errorf("%w: disponible %s, solicitado %s", domain.ErrInsufficientStock, available, qty)
}

// openingOp fija on_hand=qty si el ítem no existe o está en cero. qty=0 se acepta sin movimiento.
func openingOp(qty decimal.Decimal) (operation, error) {
	if qty.IsNegative() {
		return operation{}, invalidQty(qty)
	}
	return operation{
		name:    "opening_balance",
		movType: entity.MovementTypeOpening,
		apply: func(item *entity.InventoryItem) (decimal.Decimal, error) {
			if !item.OnHand.IsZero() {
				return decimal.Zero, fmt.Errorf("%w: on_hand=%s", domain.ErrAlreadyInitialized, item.OnHand)
			}
			item.OnHand = qty
			return qty, nil
		},
	}, nil
}

func receiveOp(qty decimal.Decimal) (operation, error) {
	if !qty.IsPositive() {
		return operation{}, invalidQty(qty)
	}
	return operation{
		name:    "receive",
		movType: entity.MovementTypeReceive,
		apply: func(item *entity.InventoryItem) (decimal.Decimal, error) {
			item.OnHand = item.OnHand.Add(qty)
			return qty, nil
		},
	}, nil
}

func reserveOp(qty decimal.Decimal) (operation, error) {
	if !qty.IsPositive() {
		return operation{}, invalidQty(qty)
	}
	return operation{
		name:          "reserve",
		movType:       entity.MovementTypeReserve,
		requireActive: true,
		apply: func(item *entity.InventoryItem) (decimal.Decimal, error) {
			if avail := item.Available(); avail.LessThan(qty) {
				return decimal.Zero, insufficient(avail, qty)
			}
			item.Reserved = item.Reserved.Add(qty)
			return qty, nil
		},
	}, nil
}

// unreserveOp libera reserva; el movimiento se guarda en negativo (delta sobre reserved).
func unreserveOp(qty decimal.Decimal) (operation, error) {
	if !qty.IsPositive() {
		return operation{}, invalidQty(qty)
	}
	return operation{
		name:    "unreserve",
		movType: entity.MovementTypeUnreserve,
		apply: func(item *entity.InventoryItem) (decimal.Decimal, error) {
			if item.Reserved.LessThan(qty) {
				return decimal.Zero, fmt.Errorf("%w: reservado %s, solicitado %s", domain.ErrInsufficientStock, item.Reserved, qty)
			}
			item.Reserved = item.Reserved.Sub(qty)
			return qty.Neg(), nil
		},
	}, nil
}

func issueOp(qty decimal.Decimal) (operation, error) {
	if !qty.IsPositive() {
		return operation{}, invalidQty(qty)
	}
	return operation{
		name:          "issue",
		movType:       entity.MovementTypeIssue,
		requireActive: true,
		apply: func(item *entity.InventoryItem) (decimal.Decimal, error) {
			if avail := item.Available(); avail.LessThan(qty) {
				return decimal.Zero, insufficient(avail, qty)
			}
			item.OnHand = item.OnHand.Sub(qty)
			return qty.Neg(), nil
		},
	}, nil
}

// adjustOp suma qty (con signo) a on_hand. No puede dejar on_hand negativo ni por debajo de lo reservado.
func adjustOp(qty decimal.Decimal, reason string) (operation, error) {
	if qty.IsZero() {
		return operation{}, invalidQty(qty)
	}
	meta := map[string]any{}
	if reason != "" {
		meta["reason"] = reason
	}
	return operation{
		name:    "adjust",
		movType: entity.MovementTypeAdjust,
		meta:    meta,
		apply: func(item *entity.InventoryItem) (decimal.Decimal, error) {
			next := item.OnHand.Add(qty)
			if next.IsNegative() {
				return decimal.Zero, fmt.Errorf("%w: on_hand %s, ajuste %s", domain.ErrNegativeStockResult, item.OnHand, qty)
			}
			if next.LessThan(item.Reserved) {
				return decimal.Zero, fmt.Errorf("%w: el ajuste deja on_hand %s por debajo de lo reservado %s", domain.ErrInsufficientStock, next, item.Reserved)
			}
			item.OnHand = next
			return qty, nil
		},
	}, nil
}

// movementMeta arma el meta del movimiento: operación más los campos propios de la operación.
func movementMeta(op operation, extra map[string]any) map[string]any {
	meta := map[string]any{"operation": op.name}
	for k, v := range op.meta {
		meta[k] = v
	}
	for k, v := range extra {
		meta[k] = v
	}
	return meta
}
