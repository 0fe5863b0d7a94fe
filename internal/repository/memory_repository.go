package repository

import (
	"context"
	"sync"

	"github.com/spec-kit/backoffice-service/internal/domain"
	apperrors "github.com/spec-kit/backoffice-service/pkg/util/errorutil"
)

// MemoryLicenseRepository keeps licenses in process memory, in insertion order.
type MemoryLicenseRepository struct {
	mu       sync.RWMutex
	licenses []domain.License
}

// NewMemoryLicenseRepository copies seed into a new store.
func NewMemoryLicenseRepository(seed []domain.License) *MemoryLicenseRepository {
	repo := &MemoryLicenseRepository{licenses: make([]domain.License, 0, len(seed))}
	for _, lic := range seed {
		repo.licenses = append(repo.licenses, lic.Clone())
	}
	return repo
}

func (r *MemoryLicenseRepository) List(_ context.Context) ([]domain.License, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.License, 0, len(r.licenses))
	for _, lic := range r.licenses {
		out = append(out, lic.Clone())
	}
	return out, nil
}

func (r *MemoryLicenseRepository) GetByID(_ context.Context, id string) (*domain.License, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if idx := r.indexOf(id); idx >= 0 {
		lic := r.licenses[idx].Clone()
		return &lic, nil
	}
	return nil, apperrors.NewNotFound("license", map[string]any{"id": id})
}

func (r *MemoryLicenseRepository) Create(_ context.Context, license *domain.License) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.indexOf(license.ID) >= 0 {
		return apperrors.NewConflict("license already exists", map[string]any{"id": license.ID})
	}
	r.licenses = append(r.licenses, license.Clone())
	return nil
}

func (r *MemoryLicenseRepository) Update(_ context.Context, license *domain.License) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	idx := r.indexOf(license.ID)
	if idx < 0 {
		return apperrors.NewNotFound("license", map[string]any{"id": license.ID})
	}
	r.licenses[idx] = license.Clone()
	return nil
}

func (r *MemoryLicenseRepository) Mutate(_ context.Context, id string, fn LicenseMutation) (domain.License, *domain.License, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	idx := r.indexOf(id)
	if idx < 0 {
		return domain.License{}, nil, apperrors.NewNotFound("license", map[string]any{"id": id})
	}
	before := r.licenses[idx].Clone()
	lic := before.Clone()
	if err := fn(&lic); err != nil {
		return domain.License{}, nil, err
	}
	r.licenses[idx] = lic.Clone()
	return before, &lic, nil
}

func (r *MemoryLicenseRepository) indexOf(id string) int {
	for i := range r.licenses {
		if r.licenses[i].ID == id {
			return i
		}
	}
	return -1
}

// MemoryLeadRepository keeps leads in process memory, in insertion order.
type MemoryLeadRepository struct {
	mu    sync.RWMutex
	leads []domain.SalesLead
}

// NewMemoryLeadRepository copies seed into a new store.
func NewMemoryLeadRepository(seed []domain.SalesLead) *MemoryLeadRepository {
	return &MemoryLeadRepository{leads: append([]domain.SalesLead(nil), seed...)}
}

func (r *MemoryLeadRepository) List(_ context.Context) ([]domain.SalesLead, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]domain.SalesLead(nil), r.leads...), nil
}

func (r *MemoryLeadRepository) GetByID(_ context.Context, id string) (*domain.SalesLead, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, lead := range r.leads {
		if lead.ID == id {
			out := lead
			return &out, nil
		}
	}
	return nil, apperrors.NewNotFound("lead", map[string]any{"id": id})
}

func (r *MemoryLeadRepository) Update(_ context.Context, lead *domain.SalesLead) error {
	if err := validateLead(lead); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.leads {
		if r.leads[i].ID == lead.ID {
			r.leads[i] = *lead
			return nil
		}
	}
	return apperrors.NewNotFound("lead", map[string]any{"id": lead.ID})
}
