package repository

import (
	"time"

	"github.com/spec-kit/backoffice-service/internal/domain"
)

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func datePtr(year int, month time.Month, day int) *time.Time {
	t := date(year, month, day)
	return &t
}

// SeedLicenses returns the fixed license data set used when no database is configured.
func SeedLicenses() []domain.License {
	return []domain.License{
		{
			ID:             "1",
			Type:           domain.LicenseTypeProfessional,
			Seats:          250,
			DurationMonths: 12,
			Features:       []string{"Advanced Analytics", "Custom Branding", "Priority Support", "API Access"},
			Price:          12000,
			Status:         domain.LicenseStatusActive,
			CustomerID:     "cust-001",
			CustomerName:   "Sarah Johnson",
			Company:        "Greenwood Academy",
			StartDate:      date(2024, time.January, 15),
			EndDate:        date(2025, time.January, 15),
			AutoRenew:      true,
			Usage:          domain.LicenseUsage{SeatsUsed: 198, LastAccessed: datePtr(2024, time.June, 10)},
		},
		{
			ID:             "2",
			Type:           domain.LicenseTypeEnterprise,
			Seats:          1000,
			DurationMonths: 24,
			Features:       []string{"Unlimited Courses", "SSO Integration", "Dedicated Success Manager", "Advanced Analytics", "API Access"},
			Price:          85000,
			Status:         domain.LicenseStatusActive,
			CustomerID:     "cust-002",
			CustomerName:   "Michael Chen",
			Company:        "Riverside University",
			StartDate:      date(2023, time.September, 1),
			EndDate:        date(2025, time.September, 1),
			AutoRenew:      true,
			Usage:          domain.LicenseUsage{SeatsUsed: 245, LastAccessed: datePtr(2024, time.June, 12)},
		},
		{
			ID:             "3",
			Type:           domain.LicenseTypeStarter,
			Seats:          125,
			DurationMonths: 12,
			Features:       []string{"Basic Analytics", "Email Support"},
			Price:          3500,
			Status:         domain.LicenseStatusExpired,
			CustomerID:     "cust-003",
			CustomerName:   "Emma Wilson",
			Company:        "Learning Hub",
			StartDate:      date(2023, time.March, 1),
			EndDate:        date(2024, time.March, 1),
			AutoRenew:      false,
			Usage:          domain.LicenseUsage{SeatsUsed: 55, LastAccessed: datePtr(2024, time.February, 27)},
		},
		{
			ID:             "4",
			Type:           domain.LicenseTypeCustom,
			Seats:          250,
			DurationMonths: 6,
			Features:       []string{"Custom Integrations", "White Labeling"},
			Price:          9500,
			Status:         domain.LicenseStatusPending,
			CustomerID:     "cust-004",
			CustomerName:   "David Park",
			Company:        "Bright Minds Tutoring",
			StartDate:      date(2024, time.July, 1),
			EndDate:        date(2025, time.January, 1),
			AutoRenew:      false,
			Usage:          domain.LicenseUsage{SeatsUsed: 0},
		},
	}
}

// SeedLeads returns the fixed sales pipeline data set.
func SeedLeads() []domain.SalesLead {
	return []domain.SalesLead{
		{
			ID:          "1",
			Name:        "Jennifer Martinez",
			Company:     "Oakwood High School",
			Email:       "j.martinez@oakwood.edu",
			Value:       45000,
			Status:      domain.LeadStatusQualified,
			Source:      "Website",
			AssignedTo:  "Alex Thompson",
			CreatedAt:   date(2024, time.May, 2),
			NextAction:  "Product demo scheduled",
			Probability: 60,
		},
		{
			ID:          "2",
			Name:        "Robert Kim",
			Company:     "Summit College",
			Email:       "rkim@summitcollege.edu",
			Value:       120000,
			Status:      domain.LeadStatusProposal,
			Source:      "Referral",
			AssignedTo:  "Jordan Lee",
			CreatedAt:   date(2024, time.April, 18),
			NextAction:  "Follow up on proposal",
			Probability: 70,
		},
		{
			ID:          "3",
			Name:        "Lisa Anderson",
			Company:     "Maple Elementary District",
			Email:       "landerson@maple.k12.us",
			Value:       18000,
			Status:      domain.LeadStatusNew,
			Source:      "Webinar",
			AssignedTo:  "Alex Thompson",
			CreatedAt:   date(2024, time.June, 3),
			NextAction:  "Initial discovery call",
			Probability: 20,
		},
		{
			ID:          "4",
			Name:        "James Wilson",
			Company:     "Northside Academy",
			Email:       "jwilson@northside.org",
			Value:       32000,
			Status:      domain.LeadStatusNegotiation,
			Source:      "Trade Show",
			AssignedTo:  "Jordan Lee",
			CreatedAt:   date(2024, time.March, 22),
			NextAction:  "Finalize pricing",
			Probability: 80,
		},
		{
			ID:          "5",
			Name:        "Patricia Brown",
			Company:     "Coastal University",
			Email:       "pbrown@coastal.edu",
			Value:       95000,
			Status:      domain.LeadStatusClosedWon,
			Source:      "Referral",
			AssignedTo:  "Alex Thompson",
			CreatedAt:   date(2024, time.February, 8),
			NextAction:  "Onboarding kickoff",
			Probability: 100,
		},
	}
}
