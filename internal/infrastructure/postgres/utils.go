package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jhoicas/inventory-ledger/internal/domain"
)

// Códigos SQLSTATE relevantes para el motor.
const (
	codeUniqueViolation      = "23505"
	codeCheckViolation       = "23514"
	codeLockNotAvailable     = "55P03"
	codeDeadlockDetected     = "40P01"
	codeSerializationFailure = "40001"
)

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == codeUniqueViolation
	}
	return strings.Contains(err.Error(), codeUniqueViolation)
}

// isLockConflict indica timeout de bloqueo, deadlock o fallo de serialización: se puede reintentar.
func isLockConflict(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case codeLockNotAvailable, codeDeadlockDetected, codeSerializationFailure:
			return true
		}
	}
	return false
}

// isCheckViolation la BD rechazó un ítem que rompe on_hand >= 0 o reserved <= on_hand.
func isCheckViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == codeCheckViolation
}

// mapTxError traduce errores de PostgreSQL a errores de dominio.
func mapTxError(err error) error {
	switch {
	case err == nil:
		return nil
	case isLockConflict(err):
		return fmt.Errorf("%w: %v", domain.ErrConflict, err)
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%w: %v", domain.ErrConflict, err)
	case isCheckViolation(err):
		return fmt.Errorf("%w: %v", domain.ErrInsufficientStock, err)
	}
	return err
}
