package inventory

import (
	"context"

	"github.com/jhoicas/inventory-ledger/internal/domain/entity"
)

// afterCommit entrega cada movimiento confirmado al colaborador de auditoría y al gancho contable,
// y publica en la caché el estado confirmado de los ítems tocados. Nada de esto revierte la operación:
// los errores solo se registran.
func (e *Engine) afterCommit(ctx context.Context, actor string, reqCtx map[string]any, posted []*entity.StockMovement, items ...*entity.InventoryItem) {
	ctx = context.WithoutCancel(ctx)
	log := e.log.Ctx(ctx)
	for _, mov := range posted {
		subject := entity.MovementRef{
			MovementID: mov.ID,
			ProductID:  mov.ProductID,
			BranchID:   mov.BranchID,
			Type:       mov.Type,
			Ref:        mov.Ref,
		}
		if err := e.audit.Record(ctx, entity.AuditEventType(mov.Type), subject, actor, auditContext(mov, reqCtx)); err != nil {
			log.Warn().Err(err).
				Str("movement_id", mov.ID).
				Str("event", entity.AuditEventType(mov.Type)).
				Msg("auditoría no registrada")
		}
		if err := e.posting.OnStockPosted(ctx, StockPosting{Movement: *mov, Actor: actor, Context: reqCtx}); err != nil {
			log.Warn().Err(err).Str("movement_id", mov.ID).Msg("gancho contable falló")
		}
	}
	if e.cache != nil {
		e.refreshCache(ctx, items)
	}
}

// refreshCache escribe los snapshots confirmados; si la escritura falla borra la clave
// para que la próxima lectura vaya al almacén.
func (e *Engine) refreshCache(ctx context.Context, items []*entity.InventoryItem) {
	for _, item := range items {
		err := e.cache.Set(ctx, *snapshotOf(item))
		if err == nil {
			continue
		}
		e.log.Warn().Err(err).Str("item", item.Key().String()).Msg("no se pudo actualizar la caché de inventario")
		if err := e.cache.Invalidate(ctx, item.Key()); err != nil {
			e.log.Warn().Err(err).Str("item", item.Key().String()).Msg("no se pudo invalidar la caché de inventario")
		}
	}
}

// auditContext combina el contexto de la petición con los datos del movimiento.
func auditContext(mov *entity.StockMovement, reqCtx map[string]any) map[string]any {
	out := make(map[string]any, len(reqCtx)+4)
	for k, v := range reqCtx {
		out[k] = v
	}
	out["qty"] = mov.Quantity.String()
	out["on_hand_after"] = mov.OnHandAfter.String()
	out["reserved_after"] = mov.ReservedAfter.String()
	if reason, ok := mov.Meta["reason"]; ok {
		out["reason"] = reason
	}
	return out
}
