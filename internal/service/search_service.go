package service

import (
	"context"
	"strings"

	"github.com/spec-kit/backoffice-service/internal/reporting"
	"github.com/spec-kit/backoffice-service/internal/repository"
)

// SearchHit is a single global search match.
type SearchHit struct {
	Kind     string `json:"kind"`
	ID       string `json:"id"`
	Title    string `json:"title"`
	Subtitle string `json:"subtitle"`
	Status   string `json:"status"`
}

// SearchResult groups hits for one query.
type SearchResult struct {
	Query string      `json:"query"`
	Hits  []SearchHit `json:"hits"`
}

// SearchService answers the console's global search box.
type SearchService struct {
	licenses     repository.LicenseRepository
	leads        repository.LeadRepository
	defaultLimit int
}

// NewSearchService constructs the service.
func NewSearchService(licenses repository.LicenseRepository, leads repository.LeadRepository, defaultLimit int) *SearchService {
	if defaultLimit <= 0 {
		defaultLimit = 20
	}
	return &SearchService{licenses: licenses, leads: leads, defaultLimit: defaultLimit}
}

// Search matches licenses then leads. A blank query returns no hits.
func (s *SearchService) Search(ctx context.Context, query string, limit int) (SearchResult, error) {
	result := SearchResult{Query: query, Hits: []SearchHit{}}
	if strings.TrimSpace(query) == "" {
		return result, nil
	}
	if limit <= 0 {
		limit = s.defaultLimit
	}

	licenses, err := s.licenses.List(ctx)
	if err != nil {
		return result, err
	}
	for _, lic := range reporting.FilterLicenses(licenses, reporting.LicenseFilter{Query: query}) {
		if len(result.Hits) >= limit {
			return result, nil
		}
		result.Hits = append(result.Hits, SearchHit{
			Kind:     "license",
			ID:       lic.ID,
			Title:    lic.Company,
			Subtitle: lic.CustomerName,
			Status:   string(lic.Status),
		})
	}

	leads, err := s.leads.List(ctx)
	if err != nil {
		return result, err
	}
	for _, lead := range reporting.FilterLeads(leads, reporting.LeadFilter{Query: query}) {
		if len(result.Hits) >= limit {
			break
		}
		result.Hits = append(result.Hits, SearchHit{
			Kind:     "lead",
			ID:       lead.ID,
			Title:    lead.Company,
			Subtitle: lead.Name,
			Status:   string(lead.Status),
		})
	}
	return result, nil
}
