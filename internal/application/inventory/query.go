package inventory

import (
	"context"
	"fmt"

	"github.com/jhoicas/inventory-ledger/internal/application/dto"
	"github.com/jhoicas/inventory-ledger/internal/domain"
	"github.com/jhoicas/inventory-ledger/internal/domain/entity"
	"github.com/jhoicas/inventory-ledger/internal/domain/repository"
)

const (
	defaultMovementLimit = 50
	maxMovementLimit     = 500
)

// GetItem devuelve el estado actual del ítem. Los productos inactivos se pueden leer;
// si la fila no existe aún se devuelve en cero.
func (e *Engine) GetItem(ctx context.Context, productID, branchID string) (*dto.ItemSnapshot, error) {
	if err := validateInput(productID, branchID, ""); err != nil {
		return nil, err
	}
	if err := e.checkCatalog(ctx, productID, false, branchID); err != nil {
		return nil, err
	}
	if e.cache != nil {
		snap, ok, err := e.cache.Get(ctx, productID, branchID)
		if err != nil {
			e.log.Warn().Err(err).Msg("lectura de caché de inventario falló")
		} else if ok {
			return snap, nil
		}
	}
	snap, err := e.currentSnapshot(ctx, productID, branchID)
	if err != nil {
		return nil, err
	}
	if e.cache != nil {
		if err := e.cache.Set(ctx, *snap); err != nil {
			e.log.Warn().Err(err).Msg("escritura de caché de inventario falló")
		}
	}
	return snap, nil
}

// ListMovements consulta el libro (solo lectura) con filtros y paginación.
func (e *Engine) ListMovements(ctx context.Context, filter repository.MovementFilter) ([]dto.StockMovementDTO, error) {
	if filter.Type != "" && !filter.Type.Valid() {
		return nil, fmt.Errorf("%w: tipo %q", domain.ErrInvalidInput, filter.Type)
	}
	if filter.Limit <= 0 {
		filter.Limit = defaultMovementLimit
	}
	if filter.Limit > maxMovementLimit {
		filter.Limit = maxMovementLimit
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	list, err := e.movements.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	out := make([]dto.StockMovementDTO, 0, len(list))
	for _, m := range list {
		out = append(out, movementDTO(m))
	}
	return out, nil
}

// CountMovements total de movimientos que cumplen el filtro, para paginar.
func (e *Engine) CountMovements(ctx context.Context, filter repository.MovementFilter) (int, error) {
	if filter.Type != "" && !filter.Type.Valid() {
		return 0, fmt.Errorf("%w: tipo %q", domain.ErrInvalidInput, filter.Type)
	}
	return e.movements.Count(ctx, filter)
}

func movementDTO(m *entity.StockMovement) dto.StockMovementDTO {
	return dto.StockMovementDTO{
		ID:            m.ID,
		ProductID:     m.ProductID,
		BranchID:      m.BranchID,
		Type:          string(m.Type),
		Quantity:      m.Quantity,
		Ref:           m.Ref,
		Meta:          m.Meta,
		OnHandAfter:   m.OnHandAfter,
		ReservedAfter: m.ReservedAfter,
		CreatedAt:     m.CreatedAt,
		CreatedBy:     m.CreatedBy,
	}
}
