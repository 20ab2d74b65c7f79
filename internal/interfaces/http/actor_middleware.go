package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/inventory-ledger/internal/application/auth"
	"github.com/jhoicas/inventory-ledger/internal/application/dto"
)

// Cabeceras que pone el gateway después de autenticar.
const (
	HeaderActorID   = "X-Actor-ID"
	HeaderActorRole = "X-Actor-Role"
)

// Locals keys para el actor en Fiber.
const (
	LocalActorID = "actor_id"
	LocalRole    = "actor_role"
)

// ActorMiddleware exige la identidad del actor y la deja en c.Locals.
func ActorMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		actorID := c.Get(HeaderActorID)
		if actorID == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_ACTOR", Message: HeaderActorID + " requerido"})
		}
		c.Locals(LocalActorID, actorID)
		c.Locals(LocalRole, c.Get(HeaderActorRole))
		return c.Next()
	}
}

// RequireCapability autoriza la operación con la compuerta. Debe ir después de ActorMiddleware.
// Se consulta la compuerta por cada sucursal que toca la petición (ver branchScope).
func RequireCapability(gate auth.CapabilityGate, capability string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !allowed(c, gate, capability) {
			return forbidden(c, capability)
		}
		return c.Next()
	}
}

func allowed(c *fiber.Ctx, gate auth.CapabilityGate, capability string) bool {
	actor := GetActor(c)
	for _, branchID := range branchScope(c) {
		if !gate.IsAuthorized(c.UserContext(), actor, capability, branchID) {
			return false
		}
	}
	return true
}

// branchScope sucursales de la petición: parámetro o query branch_id; si no hay,
// branch_id y to_branch_id del body. Un body ilegible deja la sucursal vacía y el
// handler responde 400 después.
func branchScope(c *fiber.Ctx) []string {
	if id := c.Params("branch_id", c.Query("branch_id")); id != "" {
		return []string{id}
	}
	var body struct {
		BranchID   string `json:"branch_id"`
		ToBranchID string `json:"to_branch_id"`
	}
	if len(c.Body()) == 0 || c.BodyParser(&body) != nil {
		return []string{""}
	}
	scope := []string{body.BranchID}
	if body.ToBranchID != "" && body.ToBranchID != body.BranchID {
		scope = append(scope, body.ToBranchID)
	}
	return scope
}

func forbidden(c *fiber.Ctx, capability string) error {
	return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
		Code:    "FORBIDDEN",
		Message: "el rol no tiene la capacidad " + capability,
	})
}

// GetActorID devuelve el actor del contexto (después de ActorMiddleware).
func GetActorID(c *fiber.Ctx) string {
	s, _ := c.Locals(LocalActorID).(string)
	return s
}

// GetRole devuelve el rol del actor.
func GetRole(c *fiber.Ctx) string {
	s, _ := c.Locals(LocalRole).(string)
	return s
}

// GetActor arma el actor para la compuerta.
func GetActor(c *fiber.Ctx) auth.Actor {
	return auth.Actor{ID: GetActorID(c), Role: GetRole(c)}
}
