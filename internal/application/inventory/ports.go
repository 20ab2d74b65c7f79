package inventory

import (
	"context"

	"github.com/jhoicas/inventory-ledger/internal/application/dto"
	"github.com/jhoicas/inventory-ledger/internal/domain/entity"
	"github.com/jhoicas/inventory-ledger/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Garantiza atomicidad para el motor de inventario: cantidades y movimientos se confirman juntos o no se confirman.
// Los bloqueos tomados con LockForUpdate se liberan al terminar Run, en éxito o en error.
// Un timeout de bloqueo o un deadlock se devuelven como domain.ErrConflict.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		itemRepo repository.InventoryItemRepository,
		movRepo repository.StockMovementRepository,
	) error) error
}

// AuditSink colaborador externo de auditoría. Best effort: un error se registra en log y no revierte nada.
type AuditSink interface {
	Record(ctx context.Context, eventType string, subject entity.MovementRef, actor string, context map[string]any) error
}

// StockPosting datos entregados al gancho contable después de confirmar un movimiento.
type StockPosting struct {
	Movement entity.StockMovement
	Actor    string
	Context  map[string]any
}

// PostingHook punto de enganche para el libro mayor (GL). El motor no calcula asientos.
type PostingHook interface {
	OnStockPosted(ctx context.Context, posting StockPosting) error
}

// SnapshotCache caché opcional de lectura para GetItem. Después de cada commit recibe el estado confirmado.
// Set debe ignorar un snapshot cuya Version sea menor que la guardada.
type SnapshotCache interface {
	Get(ctx context.Context, productID, branchID string) (*dto.ItemSnapshot, bool, error)
	Set(ctx context.Context, snapshot dto.ItemSnapshot) error
	Invalidate(ctx context.Context, keys ...entity.ItemKey) error
}

// NopAuditSink descarta los eventos.
type NopAuditSink struct{}

func (NopAuditSink) Record(context.Context, string, entity.MovementRef, string, map[string]any) error {
	return nil
}

// NopPostingHook no hace nada.
type NopPostingHook struct{}

func (NopPostingHook) OnStockPosted(context.Context, StockPosting) error { return nil }
