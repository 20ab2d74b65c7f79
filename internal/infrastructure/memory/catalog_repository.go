package memory

import (
	"context"

	"github.com/google/uuid"
	"github.com/jhoicas/inventory-ledger/internal/domain/entity"
	"github.com/jhoicas/inventory-ledger/internal/domain/repository"
)

var (
	_ repository.ProductRepository    = (*ProductRepository)(nil)
	_ repository.BranchRepository     = (*BranchRepository)(nil)
	_ repository.AuditEventRepository = (*AuditEventRepository)(nil)
)

// ProductRepository lectura de productos.
type ProductRepository struct{ store *Store }

func (r *ProductRepository) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	p, ok := r.store.products[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

// BranchRepository lectura de sucursales.
type BranchRepository struct{ store *Store }

func (r *BranchRepository) GetByID(ctx context.Context, id string) (*entity.Branch, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	b, ok := r.store.branches[id]
	if !ok {
		return nil, nil
	}
	cp := *b
	return &cp, nil
}

// AuditEventRepository guarda eventos de auditoría en memoria.
type AuditEventRepository struct{ store *Store }

func (r *AuditEventRepository) Create(ctx context.Context, event *entity.AuditEvent) error {
	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	cp := *event
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.audit = append(r.store.audit, &cp)
	return nil
}

// List devuelve los eventos registrados en orden de llegada.
func (r *AuditEventRepository) List() []*entity.AuditEvent {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	out := make([]*entity.AuditEvent, len(r.store.audit))
	copy(out, r.store.audit)
	return out
}
