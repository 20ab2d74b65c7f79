package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jhoicas/inventory-ledger/internal/domain/entity"
	"github.com/jhoicas/inventory-ledger/internal/domain/repository"
)

var _ repository.AuditEventRepository = (*AuditEventRepo)(nil)

// AuditEventRepo persiste eventos de auditoría en audit_events.
type AuditEventRepo struct {
	q Querier
}

// NewAuditEventRepository construye el adaptador.
func NewAuditEventRepository(q Querier) *AuditEventRepo {
	return &AuditEventRepo{q: q}
}

func (r *AuditEventRepo) Create(ctx context.Context, e *entity.AuditEvent) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	c := e.Context
	if c == nil {
		c = map[string]any{}
	}
	query := `
		INSERT INTO audit_events (id, event_type, movement_id, product_id, branch_id, movement_type, ref, actor, context, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(ctx, query,
		e.ID, e.EventType, nullable(e.Subject.MovementID), e.Subject.ProductID, e.Subject.BranchID,
		string(e.Subject.Type), nullable(e.Subject.Ref), nullable(e.Actor), c, e.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create audit event: %w", err)
	}
	return nil
}
