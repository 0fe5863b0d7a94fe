package dto

import (
	"github.com/spec-kit/backoffice-service/internal/domain"
)

// LeadStatusRequest payload.
type LeadStatusRequest struct {
	Status domain.LeadStatus `json:"status"`
}

// LeadActionRequest payload.
type LeadActionRequest struct {
	Action domain.LeadAction `json:"action"`
}

// LeadResponse represents a sales lead.
type LeadResponse struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Company     string            `json:"company"`
	Email       string            `json:"email"`
	Value       int64             `json:"value"`
	Status      domain.LeadStatus `json:"status"`
	Source      string            `json:"source"`
	AssignedTo  string            `json:"assigned_to"`
	CreatedAt   string            `json:"created_at"`
	NextAction  string            `json:"next_action"`
	Probability int               `json:"probability"`
}

// NewLeadResponse maps a domain lead.
func NewLeadResponse(lead domain.SalesLead) LeadResponse {
	return LeadResponse{
		ID:          lead.ID,
		Name:        lead.Name,
		Company:     lead.Company,
		Email:       lead.Email,
		Value:       lead.Value,
		Status:      lead.Status,
		Source:      lead.Source,
		AssignedTo:  lead.AssignedTo,
		CreatedAt:   lead.CreatedAt.Format(domain.DateLayout),
		NextAction:  lead.NextAction,
		Probability: lead.Probability,
	}
}
