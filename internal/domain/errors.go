package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound            = errors.New("recurso no encontrado")
	ErrInvalidInput        = errors.New("entrada inválida")
	ErrInvalidQuantity     = errors.New("cantidad inválida")
	ErrInvalidTransfer     = errors.New("traslado inválido: origen y destino iguales")
	ErrInactiveProduct     = errors.New("producto inactivo")
	ErrInsufficientStock   = errors.New("stock insuficiente")
	ErrNegativeStockResult = errors.New("el ajuste dejaría stock negativo")
	ErrConflict            = errors.New("conflicto con el estado actual")
	ErrAlreadyInitialized  = errors.New("el saldo inicial ya fue registrado")
	ErrInvalidMovement     = errors.New("movimiento inválido")
	ErrDuplicateMovement   = errors.New("movimiento duplicado")
)

// Kind clasifica un error de forma distinguible por máquina para la capa de transporte.
type Kind string

const (
	KindInvalidInput        Kind = "InvalidInput"
	KindInvalidQuantity     Kind = "InvalidQuantity"
	KindInsufficientStock   Kind = "InsufficientStock"
	KindConflict            Kind = "Conflict"
	KindInvalidTransfer     Kind = "InvalidTransfer"
	KindNegativeStockResult Kind = "NegativeStockResult"
	KindInactiveProduct     Kind = "InactiveProduct"
	KindNotFound            Kind = "NotFound"
	KindAlreadyInitialized  Kind = "AlreadyInitialized"
	KindInternal            Kind = "Internal"
)

var kinds = []struct {
	err  error
	kind Kind
}{
	{ErrInvalidQuantity, KindInvalidQuantity},
	{ErrInvalidMovement, KindInvalidQuantity},
	{ErrInvalidTransfer, KindInvalidTransfer},
	{ErrInactiveProduct, KindInactiveProduct},
	{ErrInsufficientStock, KindInsufficientStock},
	{ErrNegativeStockResult, KindNegativeStockResult},
	{ErrConflict, KindConflict},
	{ErrNotFound, KindNotFound},
	{ErrAlreadyInitialized, KindAlreadyInitialized},
	{ErrInvalidInput, KindInvalidInput},
}

// KindOf devuelve la clase del error (atraviesa errores envueltos con %w).
// Cualquier error no reconocido es KindInternal.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	for _, k := range kinds {
		if errors.Is(err, k.err) {
			return k.kind
		}
	}
	return KindInternal
}

// IsRetryable indica si el llamador puede reintentar la misma petición sin cambiarla.
func IsRetryable(err error) bool {
	return KindOf(err) == KindConflict
}
