package domain

import (
	"math"
	"time"
)

// LicenseType is the purchased plan tier.
type LicenseType string

const (
	LicenseTypeStarter      LicenseType = "starter"
	LicenseTypeProfessional LicenseType = "professional"
	LicenseTypeEnterprise   LicenseType = "enterprise"
	LicenseTypeCustom       LicenseType = "custom"
)

// LicenseStatus enumerates entitlement lifecycle states.
type LicenseStatus string

const (
	LicenseStatusActive    LicenseStatus = "active"
	LicenseStatusPending   LicenseStatus = "pending"
	LicenseStatusExpired   LicenseStatus = "expired"
	LicenseStatusCancelled LicenseStatus = "cancelled"
)

// LicenseStatuses lists every status in display order.
var LicenseStatuses = []LicenseStatus{
	LicenseStatusActive,
	LicenseStatusPending,
	LicenseStatusExpired,
	LicenseStatusCancelled,
}

// ExpiryState is derived from the end date at read time.
type ExpiryState string

const (
	ExpiryStateCurrent      ExpiryState = "current"
	ExpiryStateExpiringSoon ExpiryState = "expiring_soon"
	ExpiryStateExpired      ExpiryState = "expired"
)

// ExpiringSoonDays is the inclusive upper bound for the expiring-soon window.
const ExpiringSoonDays = 30

// DateLayout is the calendar-date format used by exports and payloads.
const DateLayout = "2006-01-02"

// LicenseUsage is a snapshot of seat consumption.
type LicenseUsage struct {
	SeatsUsed int
	// LastAccessed is nil when the license was never used.
	LastAccessed *time.Time
}

// License is a purchased software entitlement.
type License struct {
	ID             string
	Type           LicenseType
	Seats          int
	DurationMonths int
	Features       []string
	Price          int64
	Status         LicenseStatus
	CustomerID     string
	CustomerName   string
	Company        string
	StartDate      time.Time
	EndDate        time.Time
	AutoRenew      bool
	Usage          LicenseUsage
}

// Valid reports whether t is a known plan tier.
func (t LicenseType) Valid() bool {
	switch t {
	case LicenseTypeStarter, LicenseTypeProfessional, LicenseTypeEnterprise, LicenseTypeCustom:
		return true
	}
	return false
}

// Valid reports whether s is a known license status.
func (s LicenseStatus) Valid() bool {
	for _, known := range LicenseStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// DaysUntilExpiry returns ceil((EndDate - now) / 24h).
func (l License) DaysUntilExpiry(now time.Time) int {
	return DaysBetween(now, l.EndDate)
}

// ExpiryState classifies the license relative to now.
func (l License) ExpiryState(now time.Time) ExpiryState {
	days := l.DaysUntilExpiry(now)
	switch {
	case days <= 0:
		return ExpiryStateExpired
	case days <= ExpiringSoonDays:
		return ExpiryStateExpiringSoon
	default:
		return ExpiryStateCurrent
	}
}

// OverAllocated reports whether more seats are in use than were purchased.
func (l License) OverAllocated() bool {
	return l.Usage.SeatsUsed > l.Seats
}

// Clone returns a deep copy so callers cannot mutate shared slices.
func (l License) Clone() License {
	out := l
	if l.Features != nil {
		out.Features = append([]string(nil), l.Features...)
	}
	if l.Usage.LastAccessed != nil {
		ts := *l.Usage.LastAccessed
		out.Usage.LastAccessed = &ts
	}
	return out
}

// DaysBetween returns the whole days from now to end, rounded up.
func DaysBetween(now, end time.Time) int {
	return int(math.Ceil(float64(end.Sub(now)) / float64(24*time.Hour)))
}

// AddMonths moves t forward by the given number of calendar months.
func AddMonths(t time.Time, months int) time.Time {
	return t.AddDate(0, months, 0)
}
