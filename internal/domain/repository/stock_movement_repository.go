package repository

import (
	"context"
	"time"

	"github.com/jhoicas/inventory-ledger/internal/domain/entity"
)

// MovementFilter filtros para consultar el libro de movimientos.
type MovementFilter struct {
	ProductID string
	BranchID  string
	Type      entity.MovementType
	Ref       string
	From      *time.Time
	To        *time.Time
	Limit     int
	Offset    int
}

// StockMovementRepository define el puerto del libro de movimientos (solo inserción).
type StockMovementRepository interface {
	// Append inserta el movimiento. ErrInvalidMovement si no es válido,
	// ErrDuplicateMovement si ya existe (producto, sucursal, tipo, ref).
	Append(ctx context.Context, movement *entity.StockMovement) (string, error)
	ExistsFor(ctx context.Context, productID, branchID string, movementType entity.MovementType, ref string) (bool, error)
	List(ctx context.Context, filter MovementFilter) ([]*entity.StockMovement, error)
	// Count cuenta los movimientos que cumplen el filtro (ignora Limit y Offset).
	Count(ctx context.Context, filter MovementFilter) (int, error)
	// ListAll devuelve la historia completa de un ítem en orden de creación.
	ListAll(ctx context.Context, productID, branchID string) ([]*entity.StockMovement, error)
}
