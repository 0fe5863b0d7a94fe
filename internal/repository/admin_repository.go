package repository

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/backoffice-service/internal/domain"
	apperrors "github.com/spec-kit/backoffice-service/pkg/util/errorutil"
)

type adminRepository struct {
	db Querier
}

// NewAdminRepository returns a Postgres-backed implementation.
func NewAdminRepository(db Querier) AdminRepository {
	return &adminRepository{db: db}
}

func (r *adminRepository) GetByID(ctx context.Context, id string) (*domain.Admin, error) {
	const query = `
        SELECT id, name, email, password_hash, role, active, created_at, updated_at
        FROM admins WHERE id=$1`
	return r.fetchSingle(ctx, query, id)
}

func (r *adminRepository) GetByEmail(ctx context.Context, email string) (*domain.Admin, error) {
	const query = `
        SELECT id, name, email, password_hash, role, active, created_at, updated_at
        FROM admins WHERE LOWER(email)=LOWER($1)`
	return r.fetchSingle(ctx, query, email)
}

// Upsert keys on email so a rotated bootstrap password replaces the stored hash.
func (r *adminRepository) Upsert(ctx context.Context, admin *domain.Admin) error {
	const query = `
        INSERT INTO admins (id, name, email, password_hash, role, active, created_at, updated_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
        ON CONFLICT (email) DO UPDATE SET
            name=EXCLUDED.name,
            password_hash=EXCLUDED.password_hash,
            role=EXCLUDED.role,
            active=EXCLUDED.active,
            updated_at=EXCLUDED.updated_at`
	_, err := r.db.Exec(ctx, query,
		admin.ID,
		admin.Name,
		admin.Email,
		admin.PasswordHash,
		admin.Role,
		admin.Active,
		admin.CreatedAt,
		admin.UpdatedAt,
	)
	return err
}

func (r *adminRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.Admin, error) {
	var admin domain.Admin
	if err := r.db.QueryRow(ctx, query, arg).Scan(
		&admin.ID,
		&admin.Name,
		&admin.Email,
		&admin.PasswordHash,
		&admin.Role,
		&admin.Active,
		&admin.CreatedAt,
		&admin.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("admin", nil)
		}
		return nil, err
	}
	return &admin, nil
}

type memoryAdminRepository struct {
	mu     sync.RWMutex
	admins []domain.Admin
}

// NewMemoryAdminRepository serves a fixed set of operators, typically the bootstrap admin.
func NewMemoryAdminRepository(admins ...domain.Admin) AdminRepository {
	return &memoryAdminRepository{admins: append([]domain.Admin(nil), admins...)}
}

func (r *memoryAdminRepository) GetByID(_ context.Context, id string) (*domain.Admin, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, admin := range r.admins {
		if admin.ID == id {
			out := admin
			return &out, nil
		}
	}
	return nil, apperrors.NewNotFound("admin", map[string]any{"id": id})
}

func (r *memoryAdminRepository) GetByEmail(_ context.Context, email string) (*domain.Admin, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, admin := range r.admins {
		if strings.EqualFold(admin.Email, email) {
			out := admin
			return &out, nil
		}
	}
	return nil, apperrors.NewNotFound("admin", map[string]any{"email": email})
}

func (r *memoryAdminRepository) Upsert(_ context.Context, admin *domain.Admin) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.admins {
		if strings.EqualFold(r.admins[i].Email, admin.Email) {
			updated := *admin
			updated.ID = r.admins[i].ID
			updated.CreatedAt = r.admins[i].CreatedAt
			r.admins[i] = updated
			return nil
		}
	}
	r.admins = append(r.admins, *admin)
	return nil
}
