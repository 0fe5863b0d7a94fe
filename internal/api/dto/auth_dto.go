package dto

import (
	"time"

	"github.com/spec-kit/backoffice-service/internal/domain"
)

// LoginRequest payload for admin login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse standard response for auth endpoints.
type AuthResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// AdminResponse describes the authenticated admin.
type AdminResponse struct {
	ID    string           `json:"id"`
	Name  string           `json:"name"`
	Email string           `json:"email"`
	Role  domain.AdminRole `json:"role"`
}

// NewAdminResponse maps a domain admin.
func NewAdminResponse(admin *domain.Admin) AdminResponse {
	return AdminResponse{ID: admin.ID, Name: admin.Name, Email: admin.Email, Role: admin.Role}
}
