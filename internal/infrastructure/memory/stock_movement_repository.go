package memory

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jhoicas/inventory-ledger/internal/domain"
	"github.com/jhoicas/inventory-ledger/internal/domain/entity"
	"github.com/jhoicas/inventory-ledger/internal/domain/inventory"
	"github.com/jhoicas/inventory-ledger/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*MovementRepository)(nil)

// MovementRepository libro de movimientos en memoria (solo inserción).
type MovementRepository struct {
	store *Store
	tx    *tx
}

// Append prepara el movimiento en la tx; queda visible al confirmar.
func (r *MovementRepository) Append(ctx context.Context, m *entity.StockMovement) (string, error) {
	if r.tx == nil {
		return "", errNoTx
	}
	if err := inventory.ValidateMovement(m); err != nil {
		return "", err
	}
	if k, ok := m.IdempotencyKey(); ok {
		if r.tx.refs[k] || r.store.refExists(k) {
			return "", fmt.Errorf("%w: %s %s ref=%s", domain.ErrDuplicateMovement, m.Key(), m.Type, m.Ref)
		}
		r.tx.refs[k] = true
	}
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	cp := *m
	r.tx.movements = append(r.tx.movements, &cp)
	return m.ID, nil
}

func (r *MovementRepository) ExistsFor(ctx context.Context, productID, branchID string, movementType entity.MovementType, ref string) (bool, error) {
	k := entity.IdempotencyKey{ProductID: productID, BranchID: branchID, Type: movementType, Ref: ref}
	if r.tx != nil && r.tx.refs[k] {
		return true, nil
	}
	return r.store.refExists(k), nil
}

// List devuelve movimientos confirmados, más recientes primero.
func (r *MovementRepository) List(ctx context.Context, f repository.MovementFilter) ([]*entity.StockMovement, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*entity.StockMovement
	skipped := 0
	for i := len(s.movements) - 1; i >= 0; i-- {
		m := s.movements[i]
		if !matches(m, f) {
			continue
		}
		if skipped < f.Offset {
			skipped++
			continue
		}
		cp := *m
		out = append(out, &cp)
		if f.Limit > 0 && len(out) >= f.Limit {
			break
		}
	}
	return out, nil
}

func (r *MovementRepository) Count(ctx context.Context, f repository.MovementFilter) (int, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := 0
	for _, m := range s.movements {
		if matches(m, f) {
			n++
		}
	}
	return n, nil
}

func (r *MovementRepository) ListAll(ctx context.Context, productID, branchID string) ([]*entity.StockMovement, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*entity.StockMovement
	for _, m := range s.movements {
		if m.ProductID == productID && m.BranchID == branchID {
			cp := *m
			out = append(out, &cp)
		}
	}
	return out, nil
}

func matches(m *entity.StockMovement, f repository.MovementFilter) bool {
	switch {
	case f.ProductID != "" && m.ProductID != f.ProductID:
		return false
	case f.BranchID != "" && m.BranchID != f.BranchID:
		return false
	case f.Type != "" && m.Type != f.Type:
		return false
	case f.Ref != "" && m.Ref != f.Ref:
		return false
	case f.From != nil && m.CreatedAt.Before(*f.From):
		return false
	case f.To != nil && m.CreatedAt.After(*f.To):
		return false
	}
	return true
}
