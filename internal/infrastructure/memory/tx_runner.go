package memory

import (
	"context"
	"fmt"

	"github.com/jhoicas/inventory-ledger/internal/application/inventory"
	"github.com/jhoicas/inventory-ledger/internal/domain"
	"github.com/jhoicas/inventory-ledger/internal/domain/entity"
	"github.com/jhoicas/inventory-ledger/internal/domain/repository"
)

var _ inventory.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks con cambios preparados en la tx; se publican juntos al confirmar.
type TxRunner struct {
	store *Store
}

// tx estado local de una transacción: ítems bloqueados y cambios pendientes.
type tx struct {
	store     *Store
	held      []entity.ItemKey
	heldSet   map[entity.ItemKey]bool
	items     map[entity.ItemKey]*entity.InventoryItem
	movements []*entity.StockMovement
	refs      map[entity.IdempotencyKey]bool
}

// Run ejecuta fn y confirma si no hay error. Los bloqueos se liberan siempre.
func (r *TxRunner) Run(ctx context.Context, fn func(
	itemRepo repository.InventoryItemRepository,
	movRepo repository.StockMovementRepository,
) error) error {
	t := &tx{
		store:   r.store,
		heldSet: make(map[entity.ItemKey]bool),
		items:   make(map[entity.ItemKey]*entity.InventoryItem),
		refs:    make(map[entity.IdempotencyKey]bool),
	}
	defer t.release()

	if err := fn(&ItemRepository{store: r.store, tx: t}, &MovementRepository{store: r.store, tx: t}); err != nil {
		return err
	}
	return t.commit()
}

func (t *tx) lock(ctx context.Context, key entity.ItemKey) error {
	if t.heldSet[key] {
		return nil
	}
	if err := t.store.lock(ctx, key); err != nil {
		return err
	}
	t.heldSet[key] = true
	t.held = append(t.held, key)
	return nil
}

func (t *tx) release() {
	for _, k := range t.held {
		t.store.unlock(k)
	}
	t.held = nil
	t.heldSet = nil
}

// commit publica ítems y movimientos de una sola vez.
func (t *tx) commit() error {
	s := t.store
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, m := range t.movements {
		if k, ok := m.IdempotencyKey(); ok {
			if _, dup := s.refs[k]; dup {
				return fmt.Errorf("%w: %s %s ref=%s", domain.ErrDuplicateMovement, m.Key(), m.Type, m.Ref)
			}
		}
	}
	for k, it := range t.items {
		s.items[k] = it.Clone()
	}
	for _, m := range t.movements {
		s.movements = append(s.movements, m)
		if k, ok := m.IdempotencyKey(); ok {
			s.refs[k] = m.ID
		}
	}
	return nil
}

// item devuelve la versión de la tx o la confirmada.
func (t *tx) item(key entity.ItemKey) *entity.InventoryItem {
	if it, ok := t.items[key]; ok {
		return it.Clone()
	}
	return t.store.committedItem(key)
}
