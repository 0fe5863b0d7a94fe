package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/backoffice-service/internal/auth"
	"github.com/spec-kit/backoffice-service/internal/config"
	"github.com/spec-kit/backoffice-service/internal/domain"
	"github.com/spec-kit/backoffice-service/internal/repository"
	apperrors "github.com/spec-kit/backoffice-service/pkg/util/errorutil"
)

// AuthService coordinates admin login.
type AuthService struct {
	admins     repository.AdminRepository
	tokenMgr   *auth.TokenManager
	bcryptCost int
	logger     *zap.Logger
}

// AuthDependencies encapsulates repo requirements for auth service.
type AuthDependencies struct {
	AdminRepo repository.AdminRepository
	Logger    *zap.Logger
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, deps AuthDependencies) *AuthService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		admins:     deps.AdminRepo,
		tokenMgr:   auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes),
		bcryptCost: cfg.Auth.BcryptCost,
		logger:     logger,
	}
}

// Login authenticates an admin and returns a role-bearing token.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.Admin, string, domain.Token, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, "", domain.Token{}, apperrors.NewValidationError("email and password are required", nil)
	}

	admin, err := s.admins.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, "", domain.Token{}, apperrors.NewUnauthorized("invalid credentials")
		}
		return nil, "", domain.Token{}, err
	}
	if !admin.Active {
		return nil, "", domain.Token{}, apperrors.NewForbidden("admin inactive")
	}
	if err := auth.ComparePassword(admin.PasswordHash, password); err != nil {
		return nil, "", domain.Token{}, apperrors.NewUnauthorized("invalid credentials")
	}
	s.upgradeHash(ctx, admin, password)

	token, meta, err := s.tokenMgr.GenerateToken(admin)
	if err != nil {
		return nil, "", domain.Token{}, err
	}
	return admin, token, meta, nil
}

// upgradeHash re-hashes the password after AUTH_BCRYPT_COST changes. Failures only log;
// the login itself already succeeded.
func (s *AuthService) upgradeHash(ctx context.Context, admin *domain.Admin, password string) {
	if !auth.NeedsRehash(admin.PasswordHash, s.bcryptCost) {
		return
	}
	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err == nil {
		admin.PasswordHash = hash
		admin.UpdatedAt = time.Now().UTC()
		err = s.admins.Upsert(ctx, admin)
	}
	if err != nil {
		s.logger.Warn("password rehash failed", zap.String("admin_id", admin.ID), zap.Error(err))
	}
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

// BootstrapAdmin builds the SUPER_ADMIN account configured through AUTH_ADMIN_*.
// ok is false when no bootstrap credentials are configured.
func BootstrapAdmin(cfg config.AuthConfig, now time.Time) (domain.Admin, bool, error) {
	if strings.TrimSpace(cfg.BootstrapAdminEmail) == "" || cfg.BootstrapAdminPass == "" {
		return domain.Admin{}, false, nil
	}
	hash, err := auth.HashPassword(cfg.BootstrapAdminPass, cfg.BcryptCost)
	if err != nil {
		return domain.Admin{}, false, err
	}
	name := cfg.BootstrapAdminName
	if name == "" {
		name = "Administrator"
	}
	return domain.Admin{
		ID:           uuid.NewSHA1(uuid.NameSpaceURL, []byte("admin:"+strings.ToLower(cfg.BootstrapAdminEmail))).String(),
		Name:         name,
		Email:        cfg.BootstrapAdminEmail,
		PasswordHash: hash,
		Role:         domain.AdminRoleSuperAdmin,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, true, nil
}
