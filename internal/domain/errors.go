package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrItemNotFound      = errors.New("artículo no encontrado")
	ErrCategoryNotFound  = errors.New("categoría no encontrada")
	ErrUserNotFound      = errors.New("usuario no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrInvalidAction     = errors.New("tipo de operación inválido")
	ErrInvalidQuantity   = errors.New("la cantidad debe ser un entero positivo")
	ErrInsufficientStock = errors.New("stock insuficiente")
	ErrDuplicate         = errors.New("recurso duplicado")
	ErrUnauthorized      = errors.New("no autorizado")
	ErrForbidden         = errors.New("acceso denegado")
	ErrConflict          = errors.New("conflicto con el estado actual")
	ErrPersistence       = errors.New("fallo de persistencia")
)

// PersistenceError fallo de la capa de almacenamiento (conexión, lock timeout, constraint).
// La operación que lo devuelve se considera NO aplicada.
// Transient indica que reintentar puede tener éxito (lock timeout, deadlock, serialización).
type PersistenceError struct {
	Op        string
	Transient bool
	Err       error
}

func (e *PersistenceError) Error() string {
	if e.Err == nil {
		return e.Op + ": " + ErrPersistence.Error()
	}
	return e.Op + ": " + e.Err.Error()
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// Is permite errors.Is(err, domain.ErrPersistence).
func (e *PersistenceError) Is(target error) bool { return target == ErrPersistence }

// IsTransient indica si err es un PersistenceError reintentable.
func IsTransient(err error) bool {
	var pe *PersistenceError
	if errors.As(err, &pe) {
		return pe.Transient
	}
	return false
}

// IsValidation indica si err es un error corregible por el llamador (no se reintenta).
func IsValidation(err error) bool {
	switch {
	case errors.Is(err, ErrInvalidInput),
		errors.Is(err, ErrInvalidAction),
		errors.Is(err, ErrInvalidQuantity),
		errors.Is(err, ErrItemNotFound),
		errors.Is(err, ErrCategoryNotFound),
		errors.Is(err, ErrUserNotFound):
		return true
	}
	return false
}
