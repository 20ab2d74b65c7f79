package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ItemSnapshot estado de un ítem después de una operación (available calculado).
type ItemSnapshot struct {
	ProductID string          `json:"product_id"`
	BranchID  string          `json:"branch_id"`
	OnHand    decimal.Decimal `json:"on_hand" swaggertype:"string" example:"10.5"`
	Reserved  decimal.Decimal `json:"reserved" swaggertype:"string" example:"10.5"`
	Available decimal.Decimal `json:"available" swaggertype:"string" example:"10.5"`
	Version   int64           `json:"version"`
}

// TransferResult estado de origen y destino después de un traslado.
type TransferResult struct {
	From ItemSnapshot `json:"from"`
	To   ItemSnapshot `json:"to"`
}

// StockMovementDTO movimiento del libro para consultas.
type StockMovementDTO struct {
	ID            string          `json:"id"`
	ProductID     string          `json:"product_id"`
	BranchID      string          `json:"branch_id"`
	Type          string          `json:"type"`
	Quantity      decimal.Decimal `json:"quantity" swaggertype:"string" example:"10.5"`
	Ref           string          `json:"ref,omitempty"`
	Meta          map[string]any  `json:"meta,omitempty"`
	OnHandAfter   decimal.Decimal `json:"on_hand_after" swaggertype:"string" example:"10.5"`
	ReservedAfter decimal.Decimal `json:"reserved_after" swaggertype:"string" example:"10.5"`
	CreatedAt     time.Time       `json:"created_at"`
	CreatedBy     string          `json:"created_by,omitempty"`
}

// MovementListResponse página del libro de movimientos.
type MovementListResponse struct {
	Movements []StockMovementDTO `json:"movements"`
	Page      PageResponse       `json:"page"`
}

// BatchResponse estado final de cada ítem tocado por un lote, ordenado por clave.
type BatchResponse struct {
	Items []ItemSnapshot `json:"items"`
}

// ReconciliationReport resultado de comparar el ítem almacenado con el libro.
type ReconciliationReport struct {
	ProductID      string          `json:"product_id"`
	BranchID       string          `json:"branch_id"`
	OnHand         decimal.Decimal `json:"on_hand" swaggertype:"string" example:"10.5"`
	Reserved       decimal.Decimal `json:"reserved" swaggertype:"string" example:"10.5"`
	LedgerOnHand   decimal.Decimal `json:"ledger_on_hand" swaggertype:"string" example:"10.5"`
	LedgerReserved decimal.Decimal `json:"ledger_reserved" swaggertype:"string" example:"10.5"`
	Movements      int             `json:"movements"`
	Consistent     bool            `json:"consistent"`
}

// MovementRequest body para POST /api/inventory/{receive,reserve,unreserve,issue,opening-balance}.
type MovementRequest struct {
	ProductID string          `json:"product_id" validate:"required,max=64"`
	BranchID  string          `json:"branch_id" validate:"required,max=64"`
	Quantity  decimal.Decimal `json:"quantity" swaggertype:"string" example:"10.5"`
	Ref       string          `json:"ref,omitempty" validate:"max=255"`
	Context   map[string]any  `json:"context,omitempty"`
}

// TransferRequest body para POST /api/inventory/transfer.
type TransferRequest struct {
	MovementRequest
	ToBranchID string `json:"to_branch_id" validate:"required,max=64"`
}

// AdjustRequest body para POST /api/inventory/adjust.
type AdjustRequest struct {
	MovementRequest
	Reason string `json:"reason,omitempty" validate:"max=255"`
}

// BatchLineRequest línea de un lote.
type BatchLineRequest struct {
	Op        string          `json:"op" validate:"required,oneof=receive reserve unreserve issue adjust"`
	ProductID string          `json:"product_id" validate:"required,max=64"`
	BranchID  string          `json:"branch_id" validate:"required,max=64"`
	Quantity  decimal.Decimal `json:"quantity" swaggertype:"string" example:"10.5"`
	Ref       string          `json:"ref,omitempty" validate:"max=255"`
	Reason    string          `json:"reason,omitempty" validate:"max=255"`
}

// BatchRequest body para POST /api/inventory/batch.
type BatchRequest struct {
	Lines   []BatchLineRequest `json:"lines" validate:"required,min=1,max=500,dive"`
	Context map[string]any     `json:"context,omitempty"`
}
