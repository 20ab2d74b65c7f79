package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// MovementType es el motivo tipado de un movimiento (enum cerrado).
type MovementType string

// Tipos de movimiento de stock.
const (
	MovementTypeOpening     MovementType = "OPENING"      // saldo inicial
	MovementTypeReceive     MovementType = "RECEIVE"      // entrada
	MovementTypeReserve     MovementType = "RESERVE"      // reserva
	MovementTypeUnreserve   MovementType = "UNRESERVE"    // liberación de reserva
	MovementTypeIssue       MovementType = "ISSUE"        // salida
	MovementTypeTransferOut MovementType = "TRANSFER_OUT" // traslado, lado origen
	MovementTypeTransferIn  MovementType = "TRANSFER_IN"  // traslado, lado destino
	MovementTypeAdjust      MovementType = "ADJUST"       // ajuste con motivo
)

// MaxRefLength longitud máxima de la referencia de idempotencia.
const MaxRefLength = 255

var movementTypes = map[MovementType]bool{
	MovementTypeOpening:     true,
	MovementTypeReceive:     true,
	MovementTypeReserve:     true,
	MovementTypeUnreserve:   true,
	MovementTypeIssue:       true,
	MovementTypeTransferOut: true,
	MovementTypeTransferIn:  true,
	MovementTypeAdjust:      true,
}

// Valid indica si el tipo pertenece al enum.
func (t MovementType) Valid() bool {
	return movementTypes[t]
}

// AffectsReserved indica si el movimiento gobierna el saldo reservado (RESERVE/UNRESERVE);
// el resto gobierna on_hand.
func (t MovementType) AffectsReserved() bool {
	return t == MovementTypeReserve || t == MovementTypeUnreserve
}

// StockMovement es un asiento inmutable del libro de movimientos.
// Quantity es el delta con signo aplicado al saldo que gobierna el tipo:
// positivo OPENING/RECEIVE/TRANSFER_IN/RESERVE, negativo ISSUE/TRANSFER_OUT/UNRESERVE, ADJUST con signo.
type StockMovement struct {
	ID            string
	ProductID     string
	BranchID      string
	Type          MovementType
	Quantity      decimal.Decimal
	Ref           string
	Meta          map[string]any
	OnHandAfter   decimal.Decimal
	ReservedAfter decimal.Decimal
	CreatedAt     time.Time
	CreatedBy     string
}

// Key devuelve la clave del ítem afectado.
func (m *StockMovement) Key() ItemKey {
	return ItemKey{ProductID: m.ProductID, BranchID: m.BranchID}
}

// IdempotencyKey clave única (producto, sucursal, tipo, ref) de un movimiento.
type IdempotencyKey struct {
	ProductID string
	BranchID  string
	Type      MovementType
	Ref       string
}

// IdempotencyKey devuelve la clave; ok=false si el movimiento no lleva ref.
func (m *StockMovement) IdempotencyKey() (IdempotencyKey, bool) {
	if m.Ref == "" {
		return IdempotencyKey{}, false
	}
	return IdempotencyKey{ProductID: m.ProductID, BranchID: m.BranchID, Type: m.Type, Ref: m.Ref}, true
}
