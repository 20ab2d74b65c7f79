package repository

import (
	"context"

	"github.com/jhoicas/inventory-ledger/internal/domain/entity"
)

// ProductRepository puerto de lectura del catálogo de productos (DIP).
type ProductRepository interface {
	// GetByID devuelve nil si el producto no existe.
	GetByID(ctx context.Context, id string) (*entity.Product, error)
}
