package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/backoffice-service/internal/domain"
	apperrors "github.com/spec-kit/backoffice-service/pkg/util/errorutil"
)

const licenseColumns = `id, type, seats, duration_months, features, price, status,
               customer_id, customer_name, company, start_date, end_date, auto_renew,
               seats_used, last_accessed_at`

type licenseRepository struct {
	db Querier
}

// NewLicenseRepository returns a Postgres-backed implementation.
func NewLicenseRepository(db Querier) LicenseRepository {
	return &licenseRepository{db: db}
}

func (r *licenseRepository) List(ctx context.Context) ([]domain.License, error) {
	query := `SELECT ` + licenseColumns + ` FROM licenses ORDER BY created_at, id`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.License
	for rows.Next() {
		lic, err := scanLicense(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *lic)
	}
	return result, rows.Err()
}

func (r *licenseRepository) GetByID(ctx context.Context, id string) (*domain.License, error) {
	query := `SELECT ` + licenseColumns + ` FROM licenses WHERE id=$1`
	lic, err := scanLicense(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NewNotFound("license", map[string]any{"id": id})
	}
	return lic, err
}

func (r *licenseRepository) Create(ctx context.Context, license *domain.License) error {
	const query = `
        INSERT INTO licenses (id, type, seats, duration_months, features, price, status,
            customer_id, customer_name, company, start_date, end_date, auto_renew,
            seats_used, last_accessed_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)`
	_, err := r.db.Exec(ctx, query,
		license.ID,
		license.Type,
		license.Seats,
		license.DurationMonths,
		license.Features,
		license.Price,
		license.Status,
		license.CustomerID,
		license.CustomerName,
		license.Company,
		license.StartDate,
		license.EndDate,
		license.AutoRenew,
		license.Usage.SeatsUsed,
		license.Usage.LastAccessed,
	)
	return err
}

func (r *licenseRepository) Update(ctx context.Context, license *domain.License) error {
	return updateLicense(ctx, r.db, license)
}

// Mutate locks the row with SELECT ... FOR UPDATE so concurrent renewals serialise.
func (r *licenseRepository) Mutate(ctx context.Context, id string, fn LicenseMutation) (domain.License, *domain.License, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return domain.License{}, nil, err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	query := `SELECT ` + licenseColumns + ` FROM licenses WHERE id=$1 FOR UPDATE`
	lic, err := scanLicense(tx.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.License{}, nil, apperrors.NewNotFound("license", map[string]any{"id": id})
	}
	if err != nil {
		return domain.License{}, nil, err
	}
	before := lic.Clone()
	if err := fn(lic); err != nil {
		return domain.License{}, nil, err
	}
	if err := updateLicense(ctx, tx, lic); err != nil {
		return domain.License{}, nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return domain.License{}, nil, err
	}
	return before, lic, nil
}

func updateLicense(ctx context.Context, db Querier, license *domain.License) error {
	const query = `
        UPDATE licenses SET status=$1, end_date=$2, auto_renew=$3, seats=$4, seats_used=$5,
            features=$6, price=$7, updated_at=NOW()
        WHERE id=$8`
	cmd, err := db.Exec(ctx, query,
		license.Status,
		license.EndDate,
		license.AutoRenew,
		license.Seats,
		license.Usage.SeatsUsed,
		license.Features,
		license.Price,
		license.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return apperrors.NewNotFound("license", map[string]any{"id": license.ID})
	}
	return nil
}

func scanLicense(row pgx.Row) (*domain.License, error) {
	var lic domain.License
	if err := row.Scan(
		&lic.ID,
		&lic.Type,
		&lic.Seats,
		&lic.DurationMonths,
		&lic.Features,
		&lic.Price,
		&lic.Status,
		&lic.CustomerID,
		&lic.CustomerName,
		&lic.Company,
		&lic.StartDate,
		&lic.EndDate,
		&lic.AutoRenew,
		&lic.Usage.SeatsUsed,
		&lic.Usage.LastAccessed,
	); err != nil {
		return nil, err
	}
	return &lic, nil
}
