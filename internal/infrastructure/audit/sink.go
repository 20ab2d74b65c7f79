// Package audit contiene los destinos de eventos de auditoría del motor de inventario.
package audit

import (
	"context"
	"time"

	"github.com/jhoicas/inventory-ledger/internal/application/inventory"
	"github.com/jhoicas/inventory-ledger/internal/domain/entity"
	"github.com/jhoicas/inventory-ledger/internal/domain/repository"
	"github.com/jhoicas/inventory-ledger/pkg/logger"
)

var (
	_ inventory.AuditSink = (*LogSink)(nil)
	_ inventory.AuditSink = (*RepositorySink)(nil)
)

// LogSink escribe cada evento como una línea estructurada del log.
type LogSink struct {
	log *logger.Logger
}

// NewLogSink construye el destino sobre el logger de la app.
func NewLogSink(log *logger.Logger) *LogSink {
	return &LogSink{log: log}
}

func (s *LogSink) Record(ctx context.Context, eventType string, subject entity.MovementRef, actor string, c map[string]any) error {
	s.log.Info().
		Str("audit_event", eventType).
		Str("movement_id", subject.MovementID).
		Str("product_id", subject.ProductID).
		Str("branch_id", subject.BranchID).
		Str("movement_type", string(subject.Type)).
		Str("ref", subject.Ref).
		Str("actor", actor).
		Fields(c).
		Msg("auditoría de inventario")
	return nil
}

// RepositorySink persiste los eventos (tabla audit_events en PostgreSQL).
type RepositorySink struct {
	repo repository.AuditEventRepository
	now  func() time.Time
}

// NewRepositorySink construye el destino persistente.
func NewRepositorySink(repo repository.AuditEventRepository) *RepositorySink {
	return &RepositorySink{repo: repo, now: func() time.Time { return time.Now().UTC() }}
}

func (s *RepositorySink) Record(ctx context.Context, eventType string, subject entity.MovementRef, actor string, c map[string]any) error {
	return s.repo.Create(ctx, &entity.AuditEvent{
		EventType: eventType,
		Subject:   subject,
		Actor:     actor,
		Context:   c,
		CreatedAt: s.now(),
	})
}
