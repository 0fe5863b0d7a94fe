package events

import (
	"time"

	"github.com/spec-kit/backoffice-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventLicenseIssued     EventType = "license_issued"
	EventLicenseAction     EventType = "license_action"
	EventLicenseBulkAction EventType = "license_bulk_action"
	EventLicenseChanged    EventType = "license_changed"
	EventLeadStatusChanged EventType = "lead_status_changed"
	EventLeadActionRequest EventType = "lead_action_requested"
	EventResumeSubmitted   EventType = "resume_submitted"
)

// LicenseCommand names a lifecycle operation applied to licenses.
type LicenseCommand string

const (
	LicenseCommandRenew  LicenseCommand = "renew"
	LicenseCommandNotify LicenseCommand = "notify"
	LicenseCommandCancel LicenseCommand = "cancel"
)

// Valid reports whether c is a known command.
func (c LicenseCommand) Valid() bool {
	switch c {
	case LicenseCommandRenew, LicenseCommandNotify, LicenseCommandCancel:
		return true
	}
	return false
}

// Actor identifies the admin that triggered an event.
type Actor struct {
	AdminID string           `json:"admin_id,omitempty"`
	Role    domain.AdminRole `json:"role,omitempty"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	SubjectID string    `json:"subject_id,omitempty"`
	Actor     Actor     `json:"actor"`
	Timestamp time.Time `json:"timestamp"`
	Payload   any       `json:"payload"`
}

// LicenseIssuedPayload payload.
type LicenseIssuedPayload struct {
	LicenseID string             `json:"license_id"`
	Company   string             `json:"company"`
	Type      domain.LicenseType `json:"type"`
	Seats     int                `json:"seats"`
	Price     int64              `json:"price"`
}

// LicenseCommandPayload carries the licenses a command applies to.
type LicenseCommandPayload struct {
	Command    LicenseCommand `json:"command"`
	LicenseIDs []string       `json:"license_ids"`
}

// LicenseChangedPayload describes a license mutation applied by a command handler.
type LicenseChangedPayload struct {
	LicenseID    string               `json:"license_id"`
	Command      LicenseCommand       `json:"command"`
	Company      string               `json:"company"`
	CustomerName string               `json:"customer_name"`
	OldStatus    domain.LicenseStatus `json:"old_status"`
	NewStatus    domain.LicenseStatus `json:"new_status"`
	EndDate      time.Time            `json:"end_date"`
}

// LeadStatusChangedPayload payload.
type LeadStatusChangedPayload struct {
	OldStatus     domain.LeadStatus `json:"old_status"`
	NewStatus     domain.LeadStatus `json:"new_status"`
	SkippedStages int               `json:"skipped_stages"`
}

// LeadActionPayload payload.
type LeadActionPayload struct {
	Action     domain.LeadAction `json:"action"`
	AssignedTo string            `json:"assigned_to"`
	Company    string            `json:"company"`
	Email      string            `json:"email"`
}

// ResumeSubmittedPayload payload.
type ResumeSubmittedPayload struct {
	ApplicationID string `json:"application_id"`
	Position      string `json:"position"`
	StorageKey    string `json:"storage_key,omitempty"`
}
