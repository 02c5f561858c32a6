package entity

import "time"

// Acciones de movimiento de stock.
const (
	ActionAdd      = "Add"
	ActionWithdraw = "Withdraw"
)

// ValidAction indica si a es una acción de movimiento reconocida.
func ValidAction(a string) bool {
	return a == ActionAdd || a == ActionWithdraw
}

// Transaction entrada inmutable del ledger: un movimiento de stock.
// QuantityChange es positivo para Add y negativo para Withdraw.
type Transaction struct {
	ID             int64
	ItemID         int64
	UserID         int64
	Action         string
	QuantityChange int
	Timestamp      time.Time
	RequestKey     string // UUID opcional para deduplicar reintentos
	Notes          string

	// Campos unidos en listados.
	ItemCode string
	ItemName string
	Username string
}
