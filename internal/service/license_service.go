package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/backoffice-service/internal/cache"
	"github.com/spec-kit/backoffice-service/internal/domain"
	"github.com/spec-kit/backoffice-service/internal/events"
	"github.com/spec-kit/backoffice-service/internal/observability"
	"github.com/spec-kit/backoffice-service/internal/reporting"
	"github.com/spec-kit/backoffice-service/internal/repository"
	apperrors "github.com/spec-kit/backoffice-service/pkg/util/errorutil"
)

// LicenseService coordinates license management workflows.
type LicenseService struct {
	licenses   repository.LicenseRepository
	summaries  cache.SummaryCache
	dispatcher events.Dispatcher
	metrics    *observability.Metrics
	logger     *zap.Logger
	now        func() time.Time
}

// LicenseDependencies bundles collaborators for the license service.
type LicenseDependencies struct {
	LicenseRepo  repository.LicenseRepository
	SummaryCache cache.SummaryCache
	Dispatcher   events.Dispatcher
	Metrics      *observability.Metrics
	Logger       *zap.Logger
	Clock        func() time.Time
}

// LicenseView is a license with its read-time expiry classification.
type LicenseView struct {
	License         domain.License
	DaysUntilExpiry int
	ExpiryState     domain.ExpiryState
}

// IssueLicenseInput describes a new license.
type IssueLicenseInput struct {
	Type           domain.LicenseType
	Seats          int
	DurationMonths int
	Features       []string
	Price          int64
	CustomerID     string
	CustomerName   string
	Company        string
	StartDate      time.Time
	AutoRenew      bool
}

// NewLicenseService constructs the service.
func NewLicenseService(deps LicenseDependencies) *LicenseService {
	svc := &LicenseService{
		licenses:   deps.LicenseRepo,
		summaries:  deps.SummaryCache,
		dispatcher: deps.Dispatcher,
		metrics:    deps.Metrics,
		logger:     deps.Logger,
		now:        deps.Clock,
	}
	if svc.summaries == nil {
		svc.summaries = cache.NoopSummaryCache{}
	}
	if svc.logger == nil {
		svc.logger = zap.NewNop()
	}
	if svc.now == nil {
		svc.now = time.Now
	}
	return svc
}

// List returns licenses matching filter, in store order.
func (s *LicenseService) List(ctx context.Context, filter reporting.LicenseFilter) ([]LicenseView, error) {
	all, err := s.licenses.List(ctx)
	if err != nil {
		return nil, err
	}
	now := s.now()
	filtered := reporting.FilterLicenses(all, filter)
	views := make([]LicenseView, 0, len(filtered))
	for _, lic := range filtered {
		views = append(views, s.view(lic, now))
	}
	return views, nil
}

// Get loads a single license.
func (s *LicenseService) Get(ctx context.Context, id string) (*LicenseView, error) {
	lic, err := s.licenses.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	view := s.view(*lic, s.now())
	return &view, nil
}

// Summary returns the dashboard summary, served from cache when fresh.
func (s *LicenseService) Summary(ctx context.Context) (reporting.LicenseSummary, error) {
	cached, ok, err := s.summaries.Get(ctx)
	if err != nil {
		s.logger.Warn("summary cache read failed", zap.Error(err))
	}
	if ok {
		return *cached, nil
	}
	return s.RefreshSummary(ctx)
}

// RefreshSummary recomputes the summary and rewrites the cache.
func (s *LicenseService) RefreshSummary(ctx context.Context) (reporting.LicenseSummary, error) {
	all, err := s.licenses.List(ctx)
	if err != nil {
		return reporting.LicenseSummary{}, err
	}
	summary := reporting.SummarizeLicenses(all, s.now())
	if err := s.summaries.Set(ctx, summary); err != nil {
		s.logger.Warn("summary cache write failed", zap.Error(err))
	}
	return summary, nil
}

// InvalidateSummary drops the cached summary.
func (s *LicenseService) InvalidateSummary(ctx context.Context) {
	if err := s.summaries.Invalidate(ctx); err != nil {
		s.logger.Warn("summary cache invalidate failed", zap.Error(err))
	}
}

// Export renders every license, ignoring any list filter.
func (s *LicenseService) Export(ctx context.Context) ([]byte, string, error) {
	all, err := s.licenses.List(ctx)
	if err != nil {
		return nil, "", err
	}
	s.metrics.RecordExport("licenses")
	return reporting.ExportLicensesCSV(all), reporting.LicenseExportFilename, nil
}

// Issue validates input and stores a new license. Licenses starting in the future are pending.
func (s *LicenseService) Issue(ctx context.Context, actor events.Actor, input IssueLicenseInput) (*domain.License, error) {
	if err := validateIssue(input); err != nil {
		return nil, err
	}

	now := s.now()
	status := domain.LicenseStatusActive
	if input.StartDate.After(now) {
		status = domain.LicenseStatusPending
	}
	customerID := strings.TrimSpace(input.CustomerID)
	if customerID == "" {
		customerID = uuid.NewString()
	}

	license := &domain.License{
		ID:             uuid.NewString(),
		Type:           input.Type,
		Seats:          input.Seats,
		DurationMonths: input.DurationMonths,
		Features:       cleanFeatures(input.Features),
		Price:          input.Price,
		Status:         status,
		CustomerID:     customerID,
		CustomerName:   strings.TrimSpace(input.CustomerName),
		Company:        strings.TrimSpace(input.Company),
		StartDate:      input.StartDate,
		EndDate:        domain.AddMonths(input.StartDate, input.DurationMonths),
		AutoRenew:      input.AutoRenew,
	}
	if err := s.licenses.Create(ctx, license); err != nil {
		return nil, err
	}

	s.InvalidateSummary(ctx)
	s.publishEvent(ctx, events.Event{
		Type:      events.EventLicenseIssued,
		SubjectID: license.ID,
		Actor:     actor,
		Payload: events.LicenseIssuedPayload{
			LicenseID: license.ID,
			Company:   license.Company,
			Type:      license.Type,
			Seats:     license.Seats,
			Price:     license.Price,
		},
	})
	return license, nil
}

// RequestAction runs a lifecycle command against one license after confirmation.
func (s *LicenseService) RequestAction(ctx context.Context, actor events.Actor, id string, action events.LicenseCommand, confirmer Confirmer, notifier Notifier) (ActionResult, error) {
	if !action.Valid() {
		return ActionResult{}, apperrors.NewValidationError("unknown action", map[string]any{"action": action})
	}
	lic, err := s.licenses.GetByID(ctx, id)
	if err != nil {
		return ActionResult{}, err
	}

	result := ActionResult{Action: action, Count: 1, LicenseIDs: []string{lic.ID}}
	ok, err := confirmer.Confirm(ctx, confirmTitle(action), "Apply "+string(action)+" to "+lic.Company+"?")
	if err != nil {
		return ActionResult{}, err
	}
	if !ok {
		result.Outcome = OutcomeDeclined
		s.metrics.RecordLicenseAction(string(action), string(result.Outcome))
		return result, nil
	}

	var published events.Event
	event := events.Event{
		Type:      events.EventLicenseAction,
		SubjectID: lic.ID,
		Actor:     actor,
		Payload: events.LicenseCommandPayload{
			Command:    action,
			LicenseIDs: []string{lic.ID},
		},
	}
	if s.dispatcher != nil {
		published, err = s.dispatcher.Publish(ctx, event)
	}
	result.EventID = published.ID
	if err != nil {
		result.Outcome = OutcomeFailed
		result.FailedIDs = []string{lic.ID}
		notifier.Notify(NotificationWarning, failedTitle(action), actionVerb(action)+" failed for "+lic.Company+".")
		s.metrics.RecordLicenseAction(string(action), string(result.Outcome))
		s.logger.Warn("license action failed",
			zap.String("license_id", lic.ID),
			zap.String("action", string(action)),
			zap.Error(err))
		return result, nil
	}

	result.Outcome = OutcomeCompleted
	notifier.Notify(NotificationSuccess, completedTitle(action), actionVerb(action)+" requested for "+lic.Company+".")
	s.metrics.RecordLicenseAction(string(action), string(result.Outcome))
	return result, nil
}

func (s *LicenseService) view(lic domain.License, now time.Time) LicenseView {
	return LicenseView{
		License:         lic,
		DaysUntilExpiry: lic.DaysUntilExpiry(now),
		ExpiryState:     lic.ExpiryState(now),
	}
}

func (s *LicenseService) publishEvent(ctx context.Context, event events.Event) events.Event {
	if s.dispatcher == nil {
		return event
	}
	published, err := s.dispatcher.Publish(ctx, event)
	if err != nil {
		s.logger.Warn("event handlers failed", zap.String("event_type", string(event.Type)), zap.Error(err))
	}
	return published
}

func validateIssue(input IssueLicenseInput) error {
	details := map[string]any{}
	if !input.Type.Valid() {
		details["type"] = "must be one of starter, professional, enterprise, custom"
	}
	if input.Seats < 0 {
		details["seats"] = "must not be negative"
	}
	if input.DurationMonths <= 0 {
		details["duration_months"] = "must be positive"
	}
	if input.Price < 0 {
		details["price"] = "must not be negative"
	}
	if strings.TrimSpace(input.CustomerName) == "" {
		details["customer_name"] = "is required"
	}
	if strings.TrimSpace(input.Company) == "" {
		details["company"] = "is required"
	}
	if input.StartDate.IsZero() {
		details["start_date"] = "is required"
	}
	if len(details) > 0 {
		return apperrors.NewValidationError("invalid license", details)
	}
	return nil
}

func cleanFeatures(features []string) []string {
	out := make([]string, 0, len(features))
	for _, f := range features {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}
