package repository

import (
	"context"

	"github.com/jhoicas/inventory-ledger/internal/domain/entity"
)

// BranchRepository puerto de lectura de sucursales (DIP).
type BranchRepository interface {
	// GetByID devuelve nil si la sucursal no existe.
	GetByID(ctx context.Context, id string) (*entity.Branch, error)
}
