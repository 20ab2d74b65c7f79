package repository

import (
	"context"

	"github.com/jhoicas/inventory-ledger/internal/domain/entity"
)

// AuditEventRepository persiste eventos de auditoría fuera de la transacción de inventario.
type AuditEventRepository interface {
	Create(ctx context.Context, event *entity.AuditEvent) error
}
