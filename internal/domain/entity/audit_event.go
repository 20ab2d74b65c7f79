package entity

import "time"

// Tipos de evento de auditoría emitidos por el motor.
const (
	AuditEventOpening     = "inventory.opening"
	AuditEventReceive     = "inventory.receive"
	AuditEventReserve     = "inventory.reserve"
	AuditEventUnreserve   = "inventory.unreserve"
	AuditEventIssue       = "inventory.issue"
	AuditEventTransferOut = "inventory.transfer_out"
	AuditEventTransferIn  = "inventory.transfer_in"
	AuditEventAdjust      = "inventory.adjust"
)

// MovementRef identifica el movimiento que originó un evento de auditoría.
type MovementRef struct {
	MovementID string
	ProductID  string
	BranchID   string
	Type       MovementType
	Ref        string
}

// AuditEvent evento estructurado entregado al colaborador de auditoría.
type AuditEvent struct {
	ID        string
	EventType string
	Subject   MovementRef
	Actor     string
	Context   map[string]any
	CreatedAt time.Time
}

// AuditEventType traduce un tipo de movimiento a su tipo de evento.
func AuditEventType(t MovementType) string {
	switch t {
	case MovementTypeOpening:
		return AuditEventOpening
	case MovementTypeReceive:
		return AuditEventReceive
	case MovementTypeReserve:
		return AuditEventReserve
	case MovementTypeUnreserve:
		return AuditEventUnreserve
	case MovementTypeIssue:
		return AuditEventIssue
	case MovementTypeTransferOut:
		return AuditEventTransferOut
	case MovementTypeTransferIn:
		return AuditEventTransferIn
	case MovementTypeAdjust:
		return AuditEventAdjust
	}
	return "inventory." + string(t)
}
