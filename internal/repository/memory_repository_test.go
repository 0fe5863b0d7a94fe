package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/backoffice-service/internal/domain"
	apperrors "github.com/spec-kit/backoffice-service/pkg/util/errorutil"
)

func TestMemoryLicenseRepositoryIsolatesCallers(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryLicenseRepository(SeedLicenses())

	list, err := repo.List(ctx)
	require.NoError(t, err)
	list[0].Features[0] = "tampered"
	list[0].Status = domain.LicenseStatusCancelled

	fresh, err := repo.GetByID(ctx, list[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "Advanced Analytics", fresh.Features[0])
	assert.Equal(t, domain.LicenseStatusActive, fresh.Status)
}

func TestMemoryLicenseRepositoryCreateAndUpdate(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryLicenseRepository(nil)

	lic := domain.License{ID: "new", Status: domain.LicenseStatusPending}
	require.NoError(t, repo.Create(ctx, &lic))
	assert.Equal(t, "CONFLICT", apperrors.ToDomainError(repo.Create(ctx, &lic)).Code)

	lic.Status = domain.LicenseStatusActive
	require.NoError(t, repo.Update(ctx, &lic))

	got, err := repo.GetByID(ctx, "new")
	require.NoError(t, err)
	assert.Equal(t, domain.LicenseStatusActive, got.Status)

	missing := domain.License{ID: "ghost"}
	assert.Equal(t, "NOT_FOUND", apperrors.ToDomainError(repo.Update(ctx, &missing)).Code)
}

func TestMemoryLeadRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryLeadRepository(SeedLeads())

	lead, err := repo.GetByID(ctx, "3")
	require.NoError(t, err)
	lead.Status = domain.LeadStatusContacted
	require.NoError(t, repo.Update(ctx, lead))

	all, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 5)
	assert.Equal(t, domain.LeadStatusContacted, all[2].Status)

	_, err = repo.GetByID(ctx, "99")
	assert.Equal(t, "NOT_FOUND", apperrors.ToDomainError(err).Code)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestMemoryAdminRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryAdminRepository(domain.Admin{ID: "a1", Email: "Root@Example.com", Role: domain.AdminRoleSuperAdmin})

	admin, err := repo.GetByEmail(ctx, "root@example.com")
	require.NoError(t, err)
	assert.Equal(t, "a1", admin.ID)

	_, err = repo.GetByID(ctx, "a2")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.Equal(t, map[string]any{"id": "a2"}, apperrors.ToDomainError(err).Details)

	require.NoError(t, repo.Upsert(ctx, &domain.Admin{ID: "other", Email: "root@example.com", Name: "Renamed"}))
	admin, err = repo.GetByID(ctx, "a1")
	require.NoError(t, err)
	assert.Equal(t, "Renamed", admin.Name)

	require.NoError(t, repo.Upsert(ctx, &domain.Admin{ID: "a2", Email: "sales@example.com", Role: domain.AdminRoleSales}))
	admin, err = repo.GetByEmail(ctx, "SALES@example.com")
	require.NoError(t, err)
	assert.Equal(t, "a2", admin.ID)
}
