package repository

import (
	"context"

	"github.com/jhoicas/inventory-ledger/internal/domain/entity"
)

// InventoryItemRepository define el puerto para el stock por producto+sucursal (DIP).
// LockForUpdate y Save solo tienen sentido dentro de la transacción del TxRunner.
type InventoryItemRepository interface {
	// Get lee sin bloqueo; devuelve nil si la fila no existe.
	Get(ctx context.Context, productID, branchID string) (*entity.InventoryItem, error)
	// GetOrCreate inserta la fila en cero si no existe y la devuelve.
	GetOrCreate(ctx context.Context, productID, branchID string) (*entity.InventoryItem, error)
	// LockForUpdate crea la fila si falta y la bloquea en exclusiva hasta el fin de la transacción.
	LockForUpdate(ctx context.Context, productID, branchID string) (*entity.InventoryItem, error)
	// Save persiste on_hand y reserved del ítem.
	Save(ctx context.Context, item *entity.InventoryItem) error
}
