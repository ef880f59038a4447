package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// isLockNotAvailable verifica si un error es un timeout esperando un bloqueo
// de fila (55P03, lo produce lock_timeout con SELECT ... FOR UPDATE).
func isLockNotAvailable(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "55P03" // lock_not_available
	}
	return false
}

// isCheckViolation verifica si un error es una violación de constraint CHECK
// (23514, ej. quantity >= 0 en la tabla sweets).
func isCheckViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23514" // check_violation
	}
	return false
}
