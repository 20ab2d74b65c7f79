// Package auth decide qué operaciones de inventario puede ejecutar un actor según su rol.
package auth

import (
	"context"
	"sort"
)

// Capacidades de inventario.
const (
	CapOpening  = "inventory.opening"
	CapReceive  = "inventory.receive"
	CapReserve  = "inventory.reserve"
	CapIssue    = "inventory.issue"
	CapTransfer = "inventory.transfer"
	CapAdjust   = "inventory.adjust"
)

// Actor quien ejecuta la operación. La autenticación queda fuera: llega ya resuelto por el gateway.
type Actor struct {
	ID   string
	Role string
}

// CapabilityGate responde si el actor tiene la capacidad sobre la sucursal indicada.
type CapabilityGate interface {
	IsAuthorized(ctx context.Context, actor Actor, capability, branchID string) bool
}

// RoleGate mapa estático rol → capacidades (RBAC_ROLES). No distingue sucursales.
type RoleGate struct {
	roles map[string]map[string]bool
}

// NewRoleGate construye la compuerta desde la configuración.
func NewRoleGate(roles map[string][]string) *RoleGate {
	g := &RoleGate{roles: make(map[string]map[string]bool, len(roles))}
	for role, caps := range roles {
		set := make(map[string]bool, len(caps))
		for _, c := range caps {
			set[c] = true
		}
		g.roles[role] = set
	}
	return g
}

func (g *RoleGate) IsAuthorized(_ context.Context, actor Actor, capability, _ string) bool {
	if actor.ID == "" {
		return false
	}
	return g.roles[actor.Role][capability]
}

// Capabilities devuelve las capacidades del rol, ordenadas.
func (g *RoleGate) Capabilities(role string) []string {
	out := make([]string, 0, len(g.roles[role]))
	for c := range g.roles[role] {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}
