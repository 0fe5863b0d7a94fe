package domain

import "time"

// AdminRole enumerates back-office operator roles.
type AdminRole string

const (
	AdminRoleSuperAdmin AdminRole = "SUPER_ADMIN"
	AdminRoleSales      AdminRole = "SALES"
)

// Admin models a back-office operator.
type Admin struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         AdminRole
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Token represents issued authentication token metadata.
type Token struct {
	ID        string
	SubjectID string
	Role      AdminRole
	ExpiresAt time.Time
	IssuedAt  time.Time
}
