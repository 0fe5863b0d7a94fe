package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/spec-kit/backoffice-service/internal/domain"
)

// Querier is the subset of pgxpool.Pool used by the Postgres repositories. pgx.Tx satisfies
// it too, so helpers run unchanged inside a transaction.
type Querier interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// LicenseMutation changes a license in place. Returning an error aborts the write.
type LicenseMutation func(*domain.License) error

// LicenseRepository encapsulates license persistence.
type LicenseRepository interface {
	List(ctx context.Context) ([]domain.License, error)
	GetByID(ctx context.Context, id string) (*domain.License, error)
	Create(ctx context.Context, license *domain.License) error
	Update(ctx context.Context, license *domain.License) error
	// Mutate applies fn to the stored license while holding it exclusively and persists the
	// result. It returns the license as it was before fn ran and as written.
	Mutate(ctx context.Context, id string, fn LicenseMutation) (domain.License, *domain.License, error)
}

// LeadRepository encapsulates sales lead persistence.
type LeadRepository interface {
	List(ctx context.Context) ([]domain.SalesLead, error)
	GetByID(ctx context.Context, id string) (*domain.SalesLead, error)
	Update(ctx context.Context, lead *domain.SalesLead) error
}

// AdminRepository defines access to back-office operators.
type AdminRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Admin, error)
	GetByEmail(ctx context.Context, email string) (*domain.Admin, error)
	Upsert(ctx context.Context, admin *domain.Admin) error
}
