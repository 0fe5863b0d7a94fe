package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/backoffice-service/internal/domain"
	apperrors "github.com/spec-kit/backoffice-service/pkg/util/errorutil"
)

const leadColumns = `id, name, company, email, value, status, source, assigned_to,
               created_at, next_action, probability`

type leadRepository struct {
	db Querier
}

// NewLeadRepository returns a Postgres-backed implementation.
func NewLeadRepository(db Querier) LeadRepository {
	return &leadRepository{db: db}
}

func (r *leadRepository) List(ctx context.Context) ([]domain.SalesLead, error) {
	query := `SELECT ` + leadColumns + ` FROM sales_leads ORDER BY created_at DESC, id`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.SalesLead
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *lead)
	}
	return result, rows.Err()
}

func (r *leadRepository) GetByID(ctx context.Context, id string) (*domain.SalesLead, error) {
	query := `SELECT ` + leadColumns + ` FROM sales_leads WHERE id=$1`
	lead, err := scanLead(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NewNotFound("lead", map[string]any{"id": id})
	}
	return lead, err
}

func (r *leadRepository) Update(ctx context.Context, lead *domain.SalesLead) error {
	if err := validateLead(lead); err != nil {
		return err
	}
	const query = `
        UPDATE sales_leads SET status=$1, next_action=$2, probability=$3, assigned_to=$4, updated_at=NOW()
        WHERE id=$5`
	cmd, err := r.db.Exec(ctx, query,
		lead.Status,
		lead.NextAction,
		lead.Probability,
		lead.AssignedTo,
		lead.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return apperrors.NewNotFound("lead", map[string]any{"id": lead.ID})
	}
	return nil
}

func scanLead(row pgx.Row) (*domain.SalesLead, error) {
	var lead domain.SalesLead
	if err := row.Scan(
		&lead.ID,
		&lead.Name,
		&lead.Company,
		&lead.Email,
		&lead.Value,
		&lead.Status,
		&lead.Source,
		&lead.AssignedTo,
		&lead.CreatedAt,
		&lead.NextAction,
		&lead.Probability,
	); err != nil {
		return nil, err
	}
	return &lead, nil
}

func validateLead(lead *domain.SalesLead) error {
	if !domain.ValidProbability(lead.Probability) {
		return apperrors.NewValidationError("invalid lead", map[string]any{"probability": "must be between 0 and 100"})
	}
	return nil
}
