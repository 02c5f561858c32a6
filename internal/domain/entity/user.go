package entity

import "time"

// Roles válidos para User.
const (
	RoleAdmin      = "Admin"
	RoleManager    = "Manager"
	RoleSupervisor = "Supervisor"
	RoleUser       = "User"
)

// ValidRole indica si r es un rol reconocido.
func ValidRole(r string) bool {
	switch r {
	case RoleAdmin, RoleManager, RoleSupervisor, RoleUser:
		return true
	}
	return false
}

// User actor del sistema; las transacciones registran quién movió el stock.
type User struct {
	ID           int64
	Username     string
	PasswordHash string // bcrypt
	Role         string
	CreatedAt    time.Time
}
