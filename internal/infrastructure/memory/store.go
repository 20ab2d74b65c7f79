// Package memory implementa el almacén embebido del motor de inventario: mismas garantías que
// PostgreSQL (escritor único por ítem, atomicidad por transacción, unicidad de ref) sin servidor.
package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jhoicas/inventory-ledger/internal/domain"
	"github.com/jhoicas/inventory-ledger/internal/domain/entity"
)

// Store guarda catálogo, ítems y libro de movimientos en memoria.
type Store struct {
	mu        sync.RWMutex
	products  map[string]*entity.Product
	branches  map[string]*entity.Branch
	items     map[entity.ItemKey]*entity.InventoryItem
	movements []*entity.StockMovement
	refs      map[entity.IdempotencyKey]string
	audit     []*entity.AuditEvent

	locksMu     sync.Mutex
	locks       map[entity.ItemKey]chan struct{}
	lockTimeout time.Duration
}

// NewStore crea el almacén. lockTimeout es la espera máxima por un ítem bloqueado.
func NewStore(lockTimeout time.Duration) *Store {
	if lockTimeout <= 0 {
		lockTimeout = 5 * time.Second
	}
	return &Store{
		products:    make(map[string]*entity.Product),
		branches:    make(map[string]*entity.Branch),
		items:       make(map[entity.ItemKey]*entity.InventoryItem),
		refs:        make(map[entity.IdempotencyKey]string),
		locks:       make(map[entity.ItemKey]chan struct{}),
		lockTimeout: lockTimeout,
	}
}

// PutProduct registra o reemplaza un producto del catálogo.
func (s *Store) PutProduct(p entity.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products[p.ID] = &p
}

// PutBranch registra o reemplaza una sucursal.
func (s *Store) PutBranch(b entity.Branch) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.branches[b.ID] = &b
}

// SetProductActive cambia el estado de un producto existente.
func (s *Store) SetProductActive(id string, active bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[id]
	if !ok {
		return fmt.Errorf("%w: producto %s", domain.ErrNotFound, id)
	}
	p.Active = active
	return nil
}

// Items repositorio de ítems fuera de transacción.
func (s *Store) Items() *ItemRepository { return &ItemRepository{store: s} }

// Movements repositorio del libro fuera de transacción.
func (s *Store) Movements() *MovementRepository { return &MovementRepository{store: s} }

// Products repositorio de lectura del catálogo.
func (s *Store) Products() *ProductRepository { return &ProductRepository{store: s} }

// Branches repositorio de lectura de sucursales.
func (s *Store) Branches() *BranchRepository { return &BranchRepository{store: s} }

// AuditEvents repositorio de eventos de auditoría.
func (s *Store) AuditEvents() *AuditEventRepository { return &AuditEventRepository{store: s} }

// TxRunner devuelve el ejecutor de transacciones del almacén.
func (s *Store) TxRunner() *TxRunner { return &TxRunner{store: s} }

// lock toma el ítem en exclusiva. Espera hasta lockTimeout o hasta que ctx termine;
// en ambos casos devuelve ErrConflict.
func (s *Store) lock(ctx context.Context, key entity.ItemKey) error {
	s.locksMu.Lock()
	ch, ok := s.locks[key]
	if !ok {
		ch = make(chan struct{}, 1)
		s.locks[key] = ch
	}
	s.locksMu.Unlock()

	timer := time.NewTimer(s.lockTimeout)
	defer timer.Stop()
	select {
	case ch <- struct{}{}:
		return nil
	case <-timer.C:
		return fmt.Errorf("%w: tiempo de espera agotado bloqueando %s", domain.ErrConflict, key)
	case <-ctx.Done():
		return fmt.Errorf("%w: %s: %v", domain.ErrConflict, key, ctx.Err())
	}
}

func (s *Store) unlock(key entity.ItemKey) {
	s.locksMu.Lock()
	ch := s.locks[key]
	s.locksMu.Unlock()
	<-ch
}

func (s *Store) committedItem(key entity.ItemKey) *entity.InventoryItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if it, ok := s.items[key]; ok {
		return it.Clone()
	}
	return nil
}

func (s *Store) refExists(k entity.IdempotencyKey) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.refs[k]
	return ok
}
