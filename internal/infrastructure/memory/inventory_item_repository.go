package memory

import (
	"context"
	"errors"

	"github.com/jhoicas/inventory-ledger/internal/domain/entity"
	"github.com/jhoicas/inventory-ledger/internal/domain/repository"
)

var _ repository.InventoryItemRepository = (*ItemRepository)(nil)

var errNoTx = errors.New("memory: operación válida solo dentro de una transacción")

// ItemRepository implementa InventoryItemRepository. Con tx nil lee y escribe lo confirmado.
type ItemRepository struct {
	store *Store
	tx    *tx
}

func (r *ItemRepository) Get(ctx context.Context, productID, branchID string) (*entity.InventoryItem, error) {
	key := entity.ItemKey{ProductID: productID, BranchID: branchID}
	if r.tx != nil {
		return r.tx.item(key), nil
	}
	return r.store.committedItem(key), nil
}

func (r *ItemRepository) GetOrCreate(ctx context.Context, productID, branchID string) (*entity.InventoryItem, error) {
	key := entity.ItemKey{ProductID: productID, BranchID: branchID}
	if r.tx != nil {
		it := r.tx.item(key)
		if it == nil {
			it = entity.NewInventoryItem(productID, branchID)
			r.tx.items[key] = it.Clone()
		}
		return it, nil
	}
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	it, ok := s.items[key]
	if !ok {
		it = entity.NewInventoryItem(productID, branchID)
		s.items[key] = it
	}
	return it.Clone(), nil
}

// LockForUpdate bloquea el ítem hasta el fin de la transacción y lo crea en cero si falta.
func (r *ItemRepository) LockForUpdate(ctx context.Context, productID, branchID string) (*entity.InventoryItem, error) {
	if r.tx == nil {
		return nil, errNoTx
	}
	key := entity.ItemKey{ProductID: productID, BranchID: branchID}
	if err := r.tx.lock(ctx, key); err != nil {
		return nil, err
	}
	it := r.tx.item(key)
	if it == nil {
		it = entity.NewInventoryItem(productID, branchID)
		r.tx.items[key] = it.Clone()
	}
	return it, nil
}

func (r *ItemRepository) Save(ctx context.Context, item *entity.InventoryItem) error {
	if r.tx == nil {
		return errNoTx
	}
	r.tx.items[item.Key()] = item.Clone()
	return nil
}
