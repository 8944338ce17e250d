package entity

import "time"

// Roles válidos para User.
const (
	RoleAdmin = "admin"
	RoleStaff = "staff"
)

// User representa una cuenta del CRM. Vive solo en el Primary Store: nunca se replica al mirror.
type User struct {
	ID           int64
	Email        string
	Name         string
	Role         string // admin, staff
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	CreatedAt    time.Time
}

// ValidRole indica si el rol es uno de los soportados.
func ValidRole(role string) bool {
	return role == RoleAdmin || role == RoleStaff
}
