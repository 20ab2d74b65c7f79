package inventory

import (
	"fmt"

	"github.com/jhoicas/inventory-ledger/internal/domain"
	"github.com/jhoicas/inventory-ledger/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// CheckInvariants verifica on_hand >= 0, reserved >= 0 y reserved <= on_hand (servicio de dominio).
// Se ejecuta antes de persistir cualquier ítem.
func CheckInvariants(item *entity.InventoryItem) error {
	if item.OnHand.IsNegative() {
		return fmt.Errorf("%w: on_hand=%s", domain.ErrNegativeStockResult, item.OnHand)
	}
	if item.Reserved.IsNegative() {
		return fmt.Errorf("%w: reserved=%s", domain.ErrInsufficientStock, item.Reserved)
	}
	if item.Reserved.GreaterThan(item.OnHand) {
		return fmt.Errorf("%w: reserved=%s > on_hand=%s", domain.ErrInsufficientStock, item.Reserved, item.OnHand)
	}
	return nil
}

// ValidateMovement rechaza movimientos con cantidad cero, tipo fuera del enum o ref demasiado larga.
func ValidateMovement(m *entity.StockMovement) error {
	if m.Quantity.IsZero() {
		return fmt.Errorf("%w: cantidad cero", domain.ErrInvalidMovement)
	}
	if !m.Type.Valid() {
		return fmt.Errorf("%w: tipo %q", domain.ErrInvalidMovement, m.Type)
	}
	if len(m.Ref) > entity.MaxRefLength {
		return fmt.Errorf("%w: ref excede %d caracteres", domain.ErrInvalidMovement, entity.MaxRefLength)
	}
	return nil
}

// Replay reconstruye on_hand y reserved sumando los deltas del libro.
// RESERVE/UNRESERVE gobiernan reserved; el resto gobierna on_hand.
func Replay(movements []*entity.StockMovement) (onHand, reserved decimal.Decimal) {
	onHand, reserved = decimal.Zero, decimal.Zero
	for _, m := range movements {
		if m.Type.AffectsReserved() {
			reserved = reserved.Add(m.Quantity)
			continue
		}
		onHand = onHand.Add(m.Quantity)
	}
	return onHand, reserved
}

// Drift diferencia entre el ítem almacenado y el libro (almacenado - reconstruido).
type Drift struct {
	OnHand   decimal.Decimal
	Reserved decimal.Decimal
}

// IsZero indica que el ítem y el libro coinciden.
func (d Drift) IsZero() bool {
	return d.OnHand.IsZero() && d.Reserved.IsZero()
}

// Reconcile compara el ítem con el libro. Un ítem nil equivale a saldos en cero.
func Reconcile(item *entity.InventoryItem, movements []*entity.StockMovement) Drift {
	onHand, reserved := Replay(movements)
	storedOnHand, storedReserved := decimal.Zero, decimal.Zero
	if item != nil {
		storedOnHand, storedReserved = item.OnHand, item.Reserved
	}
	return Drift{
		OnHand:   storedOnHand.Sub(onHand),
		Reserved: storedReserved.Sub(reserved),
	}
}
