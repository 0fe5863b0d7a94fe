package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/backoffice-service/internal/domain"
	"github.com/spec-kit/backoffice-service/internal/events"
	"github.com/spec-kit/backoffice-service/internal/observability"
	"github.com/spec-kit/backoffice-service/internal/reporting"
	"github.com/spec-kit/backoffice-service/internal/repository"
	apperrors "github.com/spec-kit/backoffice-service/pkg/util/errorutil"
)

// LeadService coordinates sales pipeline workflows.
type LeadService struct {
	leads      repository.LeadRepository
	dispatcher events.Dispatcher
	metrics    *observability.Metrics
	logger     *zap.Logger
	now        func() time.Time
}

// LeadDependencies bundles collaborators for the lead service.
type LeadDependencies struct {
	LeadRepo   repository.LeadRepository
	Dispatcher events.Dispatcher
	Metrics    *observability.Metrics
	Logger     *zap.Logger
	Clock      func() time.Time
}

// LeadActionReceipt acknowledges a dispatched lead command.
type LeadActionReceipt struct {
	LeadID       string            `json:"lead_id"`
	Action       domain.LeadAction `json:"action"`
	EventID      string            `json:"event_id"`
	DispatchedAt time.Time         `json:"dispatched_at"`
}

// NewLeadService constructs the service.
func NewLeadService(deps LeadDependencies) *LeadService {
	svc := &LeadService{
		leads:      deps.LeadRepo,
		dispatcher: deps.Dispatcher,
		metrics:    deps.Metrics,
		logger:     deps.Logger,
		now:        deps.Clock,
	}
	if svc.logger == nil {
		svc.logger = zap.NewNop()
	}
	if svc.now == nil {
		svc.now = time.Now
	}
	return svc
}

// List returns leads matching filter, in store order.
func (s *LeadService) List(ctx context.Context, filter reporting.LeadFilter) ([]domain.SalesLead, error) {
	all, err := s.leads.List(ctx)
	if err != nil {
		return nil, err
	}
	return reporting.FilterLeads(all, filter), nil
}

// Summary computes pipeline counters over every lead.
func (s *LeadService) Summary(ctx context.Context) (reporting.PipelineSummary, error) {
	all, err := s.leads.List(ctx)
	if err != nil {
		return reporting.PipelineSummary{}, err
	}
	return reporting.SummarizePipeline(all), nil
}

// Export renders every lead, ignoring any list filter.
func (s *LeadService) Export(ctx context.Context) ([]byte, string, error) {
	all, err := s.leads.List(ctx)
	if err != nil {
		return nil, "", err
	}
	s.metrics.RecordExport("leads")
	return reporting.ExportLeadsCSV(all), reporting.LeadExportFilename, nil
}

// AdvanceStatus moves the lead to the next pipeline stage. Closed leads cannot advance.
func (s *LeadService) AdvanceStatus(ctx context.Context, actor events.Actor, id string) (*domain.SalesLead, error) {
	lead, err := s.leads.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if lead.Status.Closed() {
		return nil, apperrors.NewConflict("lead is closed", map[string]any{"id": id, "status": lead.Status})
	}
	idx := lead.Status.Index()
	if idx < 0 {
		return nil, apperrors.NewConflict("lead has unknown status", map[string]any{"id": id, "status": lead.Status})
	}
	return s.transition(ctx, actor, lead, domain.LeadPipeline[idx+1])
}

// SetStatus moves the lead to any known stage. Transitions are not validated; skipped stages
// are logged.
func (s *LeadService) SetStatus(ctx context.Context, actor events.Actor, id string, status domain.LeadStatus) (*domain.SalesLead, error) {
	if !status.Valid() {
		return nil, apperrors.NewValidationError("unknown lead status", map[string]any{"status": status})
	}
	lead, err := s.leads.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.transition(ctx, actor, lead, status)
}

func (s *LeadService) transition(ctx context.Context, actor events.Actor, lead *domain.SalesLead, next domain.LeadStatus) (*domain.SalesLead, error) {
	old := lead.Status
	skipped := next.Index() - old.Index() - 1
	if skipped < 0 {
		skipped = 0
	}
	if skipped > 0 {
		s.logger.Warn("lead status skipped stages",
			zap.String("lead_id", lead.ID),
			zap.String("from", string(old)),
			zap.String("to", string(next)),
			zap.Int("skipped", skipped))
	}

	lead.Status = next
	if err := s.leads.Update(ctx, lead); err != nil {
		return nil, err
	}

	s.publishEvent(ctx, events.Event{
		Type:      events.EventLeadStatusChanged,
		SubjectID: lead.ID,
		Actor:     actor,
		Payload: events.LeadStatusChangedPayload{
			OldStatus:     old,
			NewStatus:     next,
			SkippedStages: skipped,
		},
	})
	return lead, nil
}

// DispatchAction publishes a follow-up command for the lead's owner.
func (s *LeadService) DispatchAction(ctx context.Context, actor events.Actor, id string, action domain.LeadAction) (LeadActionReceipt, error) {
	if !action.Valid() {
		return LeadActionReceipt{}, apperrors.NewValidationError("unknown lead action", map[string]any{"action": action})
	}
	lead, err := s.leads.GetByID(ctx, id)
	if err != nil {
		return LeadActionReceipt{}, err
	}

	published := s.publishEvent(ctx, events.Event{
		Type:      events.EventLeadActionRequest,
		SubjectID: lead.ID,
		Actor:     actor,
		Timestamp: s.now().UTC(),
		Payload: events.LeadActionPayload{
			Action:     action,
			AssignedTo: lead.AssignedTo,
			Company:    lead.Company,
			Email:      lead.Email,
		},
	})
	return LeadActionReceipt{
		LeadID:       lead.ID,
		Action:       action,
		EventID:      published.ID,
		DispatchedAt: published.Timestamp,
	}, nil
}

func (s *LeadService) publishEvent(ctx context.Context, event events.Event) events.Event {
	if s.dispatcher == nil {
		return event
	}
	published, err := s.dispatcher.Publish(ctx, event)
	if err != nil {
		s.logger.Warn("event handlers failed", zap.String("event_type", string(event.Type)), zap.Error(err))
	}
	return published
}
