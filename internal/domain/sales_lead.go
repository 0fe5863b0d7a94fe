package domain

import "time"

// LeadStatus enumerates pipeline stages.
type LeadStatus string

const (
	LeadStatusNew         LeadStatus = "new"
	LeadStatusContacted   LeadStatus = "contacted"
	LeadStatusQualified   LeadStatus = "qualified"
	LeadStatusProposal    LeadStatus = "proposal"
	LeadStatusNegotiation LeadStatus = "negotiation"
	LeadStatusClosedWon   LeadStatus = "closed-won"
	LeadStatusClosedLost  LeadStatus = "closed-lost"
)

// LeadPipeline is the presentation order of lead statuses.
var LeadPipeline = []LeadStatus{
	LeadStatusNew,
	LeadStatusContacted,
	LeadStatusQualified,
	LeadStatusProposal,
	LeadStatusNegotiation,
	LeadStatusClosedWon,
	LeadStatusClosedLost,
}

// LeadAction is a follow-up command an account rep can dispatch for a lead.
type LeadAction string

const (
	LeadActionCall         LeadAction = "call"
	LeadActionEmail        LeadAction = "email"
	LeadActionScheduleDemo LeadAction = "schedule_demo"
	LeadActionSendProposal LeadAction = "send_proposal"
)

// SalesLead is a prospective customer in the sales pipeline.
type SalesLead struct {
	ID          string
	Name        string
	Company     string
	Email       string
	Value       int64
	Status      LeadStatus
	Source      string
	AssignedTo  string
	CreatedAt   time.Time
	NextAction  string
	Probability int
}

// Valid reports whether s is a known pipeline stage.
func (s LeadStatus) Valid() bool {
	return s.Index() >= 0
}

// Index returns the position of s in LeadPipeline, or -1.
func (s LeadStatus) Index() int {
	for i, status := range LeadPipeline {
		if status == s {
			return i
		}
	}
	return -1
}

// Closed reports whether the deal has been won or lost.
func (s LeadStatus) Closed() bool {
	return s == LeadStatusClosedWon || s == LeadStatusClosedLost
}

// Valid reports whether a is a dispatchable action.
func (a LeadAction) Valid() bool {
	switch a {
	case LeadActionCall, LeadActionEmail, LeadActionScheduleDemo, LeadActionSendProposal:
		return true
	}
	return false
}

// ValidProbability reports whether p is a percentage.
func ValidProbability(p int) bool {
	return p >= 0 && p <= 100
}
