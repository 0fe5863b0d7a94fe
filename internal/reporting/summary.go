package reporting

import (
	"math"
	"time"

	"github.com/spec-kit/backoffice-service/internal/domain"
)

// LicenseSummary feeds the license management dashboard cards.
type LicenseSummary struct {
	Total          int     `json:"total"`
	Active         int     `json:"active"`
	Pending        int     `json:"pending"`
	Expired        int     `json:"expired"`
	Cancelled      int     `json:"cancelled"`
	ExpiringSoon   int     `json:"expiring_soon"`
	TotalSeats     int     `json:"total_seats"`
	UsedSeats      int     `json:"used_seats"`
	UtilizationPct float64 `json:"utilization_pct"`
	Revenue        int64   `json:"revenue"`
}

// PipelineSummary feeds the sales portal cards.
type PipelineSummary struct {
	TotalLeads        int                       `json:"total_leads"`
	ByStatus          map[domain.LeadStatus]int `json:"by_status"`
	OpenPipelineValue int64                     `json:"open_pipeline_value"`
	WeightedValue     float64                   `json:"weighted_value"`
	Won               int                       `json:"won"`
	WonValue          int64                     `json:"won_value"`
	Lost              int                       `json:"lost"`
	ConversionRatePct float64                   `json:"conversion_rate_pct"`
}

// SummarizeLicenses reduces licenses into dashboard counters relative to now.
func SummarizeLicenses(licenses []domain.License, now time.Time) LicenseSummary {
	summary := LicenseSummary{Total: len(licenses)}
	for _, lic := range licenses {
		switch lic.Status {
		case domain.LicenseStatusActive:
			summary.Active++
			summary.Revenue += lic.Price
		case domain.LicenseStatusPending:
			summary.Pending++
		case domain.LicenseStatusExpired:
			summary.Expired++
		case domain.LicenseStatusCancelled:
			summary.Cancelled++
		}
		if IsExpiringSoon(lic, now) {
			summary.ExpiringSoon++
		}
		summary.TotalSeats += lic.Seats
		summary.UsedSeats += lic.Usage.SeatsUsed
	}
	summary.UtilizationPct = Percent(summary.UsedSeats, summary.TotalSeats)
	return summary
}

// CountByStatus counts licenses whose status equals status.
func CountByStatus(licenses []domain.License, status domain.LicenseStatus) int {
	n := 0
	for _, lic := range licenses {
		if lic.Status == status {
			n++
		}
	}
	return n
}

// IsExpiringSoon reports 0 < days-until-expiry <= 30.
func IsExpiringSoon(lic domain.License, now time.Time) bool {
	days := lic.DaysUntilExpiry(now)
	return days > 0 && days <= domain.ExpiringSoonDays
}

// SummarizePipeline reduces leads into pipeline counters.
func SummarizePipeline(leads []domain.SalesLead) PipelineSummary {
	summary := PipelineSummary{
		TotalLeads: len(leads),
		ByStatus:   make(map[domain.LeadStatus]int, len(domain.LeadPipeline)),
	}
	for _, status := range domain.LeadPipeline {
		summary.ByStatus[status] = 0
	}
	for _, lead := range leads {
		summary.ByStatus[lead.Status]++
		switch lead.Status {
		case domain.LeadStatusClosedWon:
			summary.Won++
			summary.WonValue += lead.Value
		case domain.LeadStatusClosedLost:
			summary.Lost++
		default:
			summary.OpenPipelineValue += lead.Value
			summary.WeightedValue += float64(lead.Value) * float64(lead.Probability) / 100
		}
	}
	summary.WeightedValue = roundTo(summary.WeightedValue, 2)
	summary.ConversionRatePct = Percent(summary.Won, summary.Won+summary.Lost)
	return summary
}

// Percent returns part/whole as a percentage with one decimal place, or 0 when whole is 0.
func Percent(part, whole int) float64 {
	if whole == 0 {
		return 0
	}
	return roundTo(float64(part)/float64(whole)*100, 1)
}

func roundTo(v float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.Round(v*scale) / scale
}
