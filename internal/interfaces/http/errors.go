package http

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/inventory-ledger/internal/application/dto"
	"github.com/jhoicas/inventory-ledger/internal/application/inventory"
	"github.com/jhoicas/inventory-ledger/internal/domain"
	"github.com/jhoicas/inventory-ledger/pkg/logger"
)

// statusFor traduce la clase del error al código HTTP.
func statusFor(kind domain.Kind) int {
	switch kind {
	case domain.KindInvalidInput, domain.KindInvalidQuantity, domain.KindInvalidTransfer,
		domain.KindNegativeStockResult, domain.KindInactiveProduct, domain.KindInsufficientStock:
		return fiber.StatusUnprocessableEntity
	case domain.KindConflict, domain.KindAlreadyInitialized:
		return fiber.StatusConflict
	case domain.KindNotFound:
		return fiber.StatusNotFound
	}
	return fiber.StatusInternalServerError
}

// writeError responde con {code, message}; code es la clase del error. Los 5xx se registran y no exponen detalle.
func writeError(c *fiber.Ctx, log *logger.Logger, err error) error {
	kind := domain.KindOf(err)
	status := statusFor(kind)
	if status == fiber.StatusInternalServerError {
		log.Error().Err(err).Str("path", c.Path()).Msg("error interno en inventario")
		return c.Status(status).JSON(dto.ErrorResponse{Code: string(domain.KindInternal), Message: "error interno"})
	}
	resp := errorBody{Code: string(kind), Message: err.Error(), Retryable: domain.IsRetryable(err)}
	var lineErr *inventory.BatchLineError
	if errors.As(err, &lineErr) {
		line := lineErr.Line
		resp.Line = &line
	}
	return c.Status(status).JSON(resp)
}

// errorBody amplía dto.ErrorResponse con datos para reintentos y lotes.
type errorBody struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	Retryable bool   `json:"retryable,omitempty"`
	Line      *int   `json:"line,omitempty"`
}

func validationError(c *fiber.Ctx, err error) error {
	msg := "datos inválidos"
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		msg = "campo " + verrs[0].Namespace() + " no cumple " + verrs[0].Tag()
	}
	return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{Code: string(domain.KindInvalidInput), Message: msg})
}

func invalidBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
}
