package postgres

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/warehouse-api/internal/domain"
)

// Códigos SQLSTATE usados para clasificar errores del driver.
const (
	codeUniqueViolation      = "23505"
	codeForeignKeyViolation  = "23503"
	codeCheckViolation       = "23514"
	codeNumericOutOfRange    = "22003"
	codeSerializationFailure = "40001"
	codeDeadlockDetected     = "40P01"
	codeLockNotAvailable     = "55P03"
)

func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// constraintName devuelve el constraint violado, si el error lo trae.
func constraintName(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.ConstraintName
	}
	return ""
}

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	if code := pgCode(err); code != "" {
		return code == codeUniqueViolation
	}
	return strings.Contains(err.Error(), codeUniqueViolation)
}

// isForeignKeyViolation verifica si un error es una violación de llave foránea (23503).
func isForeignKeyViolation(err error) bool {
	return pgCode(err) == codeForeignKeyViolation
}

func isCheckViolation(err error) bool {
	return pgCode(err) == codeCheckViolation
}

// isOutOfRange: el valor no cabe en la columna (INTEGER o NUMERIC con precisión fija).
func isOutOfRange(err error) bool {
	return pgCode(err) == codeNumericOutOfRange
}

// isTransient: lock timeout, deadlock, fallo de serialización o un error que pgx marca seguro de reintentar
// (la sentencia nunca llegó al servidor).
func isTransient(err error) bool {
	switch pgCode(err) {
	case codeSerializationFailure, codeDeadlockDetected, codeLockNotAvailable:
		return true
	}
	return pgconn.SafeToRetry(err)
}

// dbError envuelve un error del driver como *domain.PersistenceError.
// Cancelación y timeout del contexto nunca se marcan como transitorios.
func dbError(op string, err error) error {
	if err == nil {
		return nil
	}
	var pe *domain.PersistenceError
	if errors.As(err, &pe) {
		return err
	}
	transient := isTransient(err)
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		transient = false
	}
	return &domain.PersistenceError{Op: op, Transient: transient, Err: err}
}

// likePattern escapa % y _ para una búsqueda por subcadena con ILIKE.
func likePattern(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(s) + "%"
}
