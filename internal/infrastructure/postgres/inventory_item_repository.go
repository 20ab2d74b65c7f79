package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/inventory-ledger/internal/domain/entity"
	"github.com/jhoicas/inventory-ledger/internal/domain/repository"
)

var _ repository.InventoryItemRepository = (*InventoryItemRepo)(nil)

// InventoryItemRepo implementación de InventoryItemRepository sobre PostgreSQL (usable con pool o tx).
type InventoryItemRepo struct {
	q Querier
}

// NewInventoryItemRepository construye el adaptador de ítems. Pasar pool o tx (Querier).
func NewInventoryItemRepository(q Querier) *InventoryItemRepo {
	return &InventoryItemRepo{q: q}
}

const itemColumns = `product_id, branch_id, on_hand, reserved, version, updated_at`

// Get lee el ítem sin bloqueo; nil si no existe.
func (r *InventoryItemRepo) Get(ctx context.Context, productID, branchID string) (*entity.InventoryItem, error) {
	query := `SELECT ` + itemColumns + ` FROM inventory_items WHERE product_id = $1 AND branch_id = $2`
	it, err := scanItem(r.q.QueryRow(ctx, query, productID, branchID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get inventory item: %w", err)
	}
	return it, nil
}

// GetOrCreate inserta la fila en cero si falta y la devuelve.
func (r *InventoryItemRepo) GetOrCreate(ctx context.Context, productID, branchID string) (*entity.InventoryItem, error) {
	if err := r.ensure(ctx, productID, branchID); err != nil {
		return nil, err
	}
	it, err := r.Get(ctx, productID, branchID)
	if err != nil {
		return nil, err
	}
	if it == nil {
		return nil, fmt.Errorf("get or create inventory item %s/%s: fila no visible", productID, branchID)
	}
	return it, nil
}

// LockForUpdate crea la fila si falta y la bloquea (SELECT FOR UPDATE) hasta el fin de la tx.
func (r *InventoryItemRepo) LockForUpdate(ctx context.Context, productID, branchID string) (*entity.InventoryItem, error) {
	if err := r.ensure(ctx, productID, branchID); err != nil {
		return nil, err
	}
	query := `SELECT ` + itemColumns + ` FROM inventory_items WHERE product_id = $1 AND branch_id = $2 FOR UPDATE`
	it, err := scanItem(r.q.QueryRow(ctx, query, productID, branchID))
	if err != nil {
		return nil, fmt.Errorf("lock inventory item %s/%s: %w", productID, branchID, err)
	}
	return it, nil
}

// Save persiste on_hand, reserved y version.
func (r *InventoryItemRepo) Save(ctx context.Context, item *entity.InventoryItem) error {
	query := `
		UPDATE inventory_items SET on_hand = $3, reserved = $4, version = $5, updated_at = $6
		WHERE product_id = $1 AND branch_id = $2`
	tag, err := r.q.Exec(ctx, query, item.ProductID, item.BranchID, item.OnHand, item.Reserved, item.Version, item.UpdatedAt)
	if err != nil {
		return fmt.Errorf("save inventory item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("save inventory item %s: fila inexistente", item.Key())
	}
	return nil
}

func (r *InventoryItemRepo) ensure(ctx context.Context, productID, branchID string) error {
	query := `
		INSERT INTO inventory_items (product_id, branch_id, on_hand, reserved, updated_at)
		VALUES ($1, $2, 0, 0, now())
		ON CONFLICT (product_id, branch_id) DO NOTHING`
	if _, err := r.q.Exec(ctx, query, productID, branchID); err != nil {
		return fmt.Errorf("ensure inventory item: %w", err)
	}
	return nil
}

func scanItem(row pgx.Row) (*entity.InventoryItem, error) {
	var it entity.InventoryItem
	if err := row.Scan(&it.ProductID, &it.BranchID, &it.OnHand, &it.Reserved, &it.Version, &it.UpdatedAt); err != nil {
		return nil, err
	}
	return &it, nil
}
