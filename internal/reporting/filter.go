// Package reporting holds the pure filter, aggregation and export logic behind the
// license management and sales dashboards.
package reporting

import (
	"strings"

	"github.com/spec-kit/backoffice-service/internal/domain"
)

// All is the dropdown sentinel meaning "no constraint".
const All = "all"

// LicenseFilter captures the license table controls.
type LicenseFilter struct {
	// Query is matched case-insensitively against customer name, company and id.
	// It is not trimmed.
	Query  string
	Status string
	Type   string
}

// LeadFilter captures the sales portal controls.
type LeadFilter struct {
	Query      string
	Status     string
	AssignedTo string
}

// FilterLicenses returns the licenses matching every active criterion, in source order.
func FilterLicenses(licenses []domain.License, filter LicenseFilter) []domain.License {
	query := strings.ToLower(filter.Query)
	out := make([]domain.License, 0, len(licenses))
	for _, lic := range licenses {
		if !containsAny(query, lic.CustomerName, lic.Company, lic.ID) {
			continue
		}
		if !matchesSelector(filter.Status, string(lic.Status)) {
			continue
		}
		if !matchesSelector(filter.Type, string(lic.Type)) {
			continue
		}
		out = append(out, lic)
	}
	return out
}

// FilterLeads returns the leads matching every active criterion, in source order.
func FilterLeads(leads []domain.SalesLead, filter LeadFilter) []domain.SalesLead {
	query := strings.ToLower(filter.Query)
	out := make([]domain.SalesLead, 0, len(leads))
	for _, lead := range leads {
		if !containsAny(query, lead.Name, lead.Company, lead.Email) {
			continue
		}
		if !matchesSelector(filter.Status, string(lead.Status)) {
			continue
		}
		if !matchesSelector(filter.AssignedTo, lead.AssignedTo) {
			continue
		}
		out = append(out, lead)
	}
	return out
}

func matchesSelector(selected, value string) bool {
	if selected == "" || selected == All {
		return true
	}
	return selected == value
}

// containsAny expects an already lower-cased query.
func containsAny(query string, fields ...string) bool {
	if query == "" {
		return true
	}
	for _, field := range fields {
		if strings.Contains(strings.ToLower(field), query) {
			return true
		}
	}
	return false
}
