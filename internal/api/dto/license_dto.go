package dto

import (
	"github.com/spec-kit/backoffice-service/internal/domain"
	"github.com/spec-kit/backoffice-service/internal/service"
)

// NeverAccessed is rendered when a license has no recorded usage.
const NeverAccessed = "Never"

// IssueLicenseRequest payload. StartDate uses YYYY-MM-DD.
type IssueLicenseRequest struct {
	Type           domain.LicenseType `json:"type"`
	Seats          int                `json:"seats"`
	DurationMonths int                `json:"duration_months"`
	Features       []string           `json:"features"`
	Price          int64              `json:"price"`
	CustomerID     string             `json:"customer_id"`
	CustomerName   string             `json:"customer_name"`
	Company        string             `json:"company"`
	StartDate      string             `json:"start_date"`
	AutoRenew      bool               `json:"auto_renew"`
}

// LicenseActionRequest payload for single and bulk license actions.
type LicenseActionRequest struct {
	Action  string `json:"action" form:"action"`
	Confirm bool   `json:"confirm" form:"confirm"`
}

// SelectionToggleRequest payload.
type SelectionToggleRequest struct {
	ID string `json:"id" form:"id"`
}

// LicenseUsageResponse is the usage snapshot.
type LicenseUsageResponse struct {
	SeatsUsed    int    `json:"seats_used"`
	LastAccessed string `json:"last_accessed"`
}

// LicenseResponse represents a license with its expiry classification.
type LicenseResponse struct {
	ID              string               `json:"id"`
	Type            domain.LicenseType   `json:"type"`
	Seats           int                  `json:"seats"`
	DurationMonths  int                  `json:"duration_months"`
	Features        []string             `json:"features"`
	Price           int64                `json:"price"`
	Status          domain.LicenseStatus `json:"status"`
	CustomerID      string               `json:"customer_id"`
	CustomerName    string               `json:"customer_name"`
	Company         string               `json:"company"`
	StartDate       string               `json:"start_date"`
	EndDate         string               `json:"end_date"`
	AutoRenew       bool                 `json:"auto_renew"`
	Usage           LicenseUsageResponse `json:"usage"`
	OverAllocated   bool                 `json:"over_allocated"`
	DaysUntilExpiry *int                 `json:"days_until_expiry,omitempty"`
	ExpiryState     domain.ExpiryState   `json:"expiry_state,omitempty"`
}

// SelectionResponse lists selected license ids.
type SelectionResponse struct {
	Selected   *bool    `json:"selected,omitempty"`
	LicenseIDs []string `json:"license_ids"`
	Count      int      `json:"count"`
}

// ActionResponse wraps an action result with the notifications it produced.
type ActionResponse struct {
	service.ActionResult
	Notifications []service.Notification `json:"notifications"`
}

// NewLicenseResponse maps a license view.
func NewLicenseResponse(view service.LicenseView) LicenseResponse {
	resp := NewLicenseRecord(view.License)
	days := view.DaysUntilExpiry
	resp.DaysUntilExpiry = &days
	resp.ExpiryState = view.ExpiryState
	return resp
}

// NewLicenseRecord maps a stored license without read-time expiry fields.
func NewLicenseRecord(lic domain.License) LicenseResponse {
	features := lic.Features
	if features == nil {
		features = []string{}
	}
	lastAccessed := NeverAccessed
	if lic.Usage.LastAccessed != nil {
		lastAccessed = lic.Usage.LastAccessed.Format(domain.DateLayout)
	}
	return LicenseResponse{
		ID:             lic.ID,
		Type:           lic.Type,
		Seats:          lic.Seats,
		DurationMonths: lic.DurationMonths,
		Features:       features,
		Price:          lic.Price,
		Status:         lic.Status,
		CustomerID:     lic.CustomerID,
		CustomerName:   lic.CustomerName,
		Company:        lic.Company,
		StartDate:      lic.StartDate.Format(domain.DateLayout),
		EndDate:        lic.EndDate.Format(domain.DateLayout),
		AutoRenew:      lic.AutoRenew,
		Usage: LicenseUsageResponse{
			SeatsUsed:    lic.Usage.SeatsUsed,
			LastAccessed: lastAccessed,
		},
		OverAllocated: lic.OverAllocated(),
	}
}

// NewSelectionResponse builds a selection payload.
func NewSelectionResponse(ids []string) SelectionResponse {
	if ids == nil {
		ids = []string{}
	}
	return SelectionResponse{LicenseIDs: ids, Count: len(ids)}
}

// NewActionResponse builds an action payload.
func NewActionResponse(result service.ActionResult, notifications []service.Notification) ActionResponse {
	if result.LicenseIDs == nil {
		result.LicenseIDs = []string{}
	}
	if notifications == nil {
		notifications = []service.Notification{}
	}
	return ActionResponse{ActionResult: result, Notifications: notifications}
}
