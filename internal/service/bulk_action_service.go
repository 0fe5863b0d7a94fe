package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/spec-kit/backoffice-service/internal/cache"
	"github.com/spec-kit/backoffice-service/internal/events"
	"github.com/spec-kit/backoffice-service/internal/observability"
	apperrors "github.com/spec-kit/backoffice-service/pkg/util/errorutil"
)

// NotificationLevel mirrors the toast levels of the admin console.
type NotificationLevel string

const (
	NotificationSuccess NotificationLevel = "success"
	NotificationInfo    NotificationLevel = "info"
	NotificationWarning NotificationLevel = "warning"
)

// Notification is a user-facing message produced by an action.
type Notification struct {
	Level   NotificationLevel `json:"level"`
	Title   string            `json:"title"`
	Message string            `json:"message"`
}

// Notifier surfaces notifications to the operator.
type Notifier interface {
	Notify(level NotificationLevel, title, message string)
}

// Confirmer asks the operator to confirm a destructive or bulk action.
type Confirmer interface {
	Confirm(ctx context.Context, title, message string) (bool, error)
}

// StaticConfirmer answers every confirmation with a fixed value, typically the request's confirm flag.
type StaticConfirmer bool

// Confirm implements Confirmer.
func (c StaticConfirmer) Confirm(context.Context, string, string) (bool, error) {
	return bool(c), nil
}

// NotificationRecorder collects notifications so HTTP handlers can return them.
type NotificationRecorder struct {
	Items []Notification
}

// Notify implements Notifier.
func (r *NotificationRecorder) Notify(level NotificationLevel, title, message string) {
	r.Items = append(r.Items, Notification{Level: level, Title: title, Message: message})
}

// ActionOutcome is the terminal state of a license action.
type ActionOutcome string

const (
	OutcomeSkipped   ActionOutcome = "skipped"
	OutcomeDeclined  ActionOutcome = "declined"
	OutcomeCompleted ActionOutcome = "completed"
	// OutcomePartial means some licenses were updated and the rest failed.
	OutcomePartial ActionOutcome = "partial"
	OutcomeFailed  ActionOutcome = "failed"
)

// ActionResult describes what happened to a requested license action.
type ActionResult struct {
	Action     events.LicenseCommand `json:"action"`
	Outcome    ActionOutcome         `json:"outcome"`
	Count      int                   `json:"count"`
	LicenseIDs []string              `json:"license_ids"`
	FailedIDs  []string              `json:"failed_ids,omitempty"`
	EventID    string                `json:"event_id,omitempty"`
}

// BulkActionService runs renew / notify / cancel over an admin's license selection.
type BulkActionService struct {
	selection  cache.SelectionStore
	dispatcher events.Dispatcher
	metrics    *observability.Metrics
	logger     *zap.Logger
}

// BulkActionDependencies bundles collaborators for the bulk action service.
type BulkActionDependencies struct {
	Selection  cache.SelectionStore
	Dispatcher events.Dispatcher
	Metrics    *observability.Metrics
	Logger     *zap.Logger
}

// NewBulkActionService constructs the service.
func NewBulkActionService(deps BulkActionDependencies) *BulkActionService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BulkActionService{
		selection:  deps.Selection,
		dispatcher: deps.Dispatcher,
		metrics:    deps.Metrics,
		logger:     logger,
	}
}

// Toggle flips membership of licenseID in the admin's selection and returns the new selection.
func (s *BulkActionService) Toggle(ctx context.Context, adminID, licenseID string) (bool, []string, error) {
	if licenseID == "" {
		return false, nil, apperrors.NewValidationError("license id is required", map[string]any{"field": "id"})
	}
	selected, err := s.selection.Toggle(ctx, adminID, licenseID)
	if err != nil {
		return false, nil, err
	}
	members, err := s.selection.Members(ctx, adminID)
	if err != nil {
		return false, nil, err
	}
	return selected, members, nil
}

// Selection returns the admin's selected license ids in selection order.
func (s *BulkActionService) Selection(ctx context.Context, adminID string) ([]string, error) {
	return s.selection.Members(ctx, adminID)
}

// Clear empties the admin's selection.
func (s *BulkActionService) Clear(ctx context.Context, adminID string) error {
	return s.selection.Clear(ctx, adminID)
}

// Run applies action to the current selection. An empty selection is skipped with a warning;
// a declined confirmation leaves the selection untouched.
func (s *BulkActionService) Run(ctx context.Context, actor events.Actor, action events.LicenseCommand, confirmer Confirmer, notifier Notifier) (ActionResult, error) {
	if !action.Valid() {
		return ActionResult{}, apperrors.NewValidationError("unknown action", map[string]any{"action": action})
	}

	ids, err := s.selection.Members(ctx, actor.AdminID)
	if err != nil {
		return ActionResult{}, err
	}
	result := ActionResult{Action: action, Count: len(ids), LicenseIDs: ids}

	if len(ids) == 0 {
		notifier.Notify(NotificationWarning, "No licenses selected", fmt.Sprintf("Select at least one license to %s.", action))
		result.Outcome = OutcomeSkipped
		s.metrics.RecordBulkAction(string(action), string(result.Outcome))
		return result, nil
	}

	ok, err := confirmer.Confirm(ctx, confirmTitle(action), fmt.Sprintf("Apply %s to %d selected license(s)?", action, len(ids)))
	if err != nil {
		return ActionResult{}, err
	}
	if !ok {
		result.Outcome = OutcomeDeclined
		s.metrics.RecordBulkAction(string(action), string(result.Outcome))
		return result, nil
	}

	published, err := s.dispatcher.Publish(ctx, events.Event{
		Type:  events.EventLicenseBulkAction,
		Actor: actor,
		Payload: events.LicenseCommandPayload{
			Command:    action,
			LicenseIDs: ids,
		},
	})
	result.EventID = published.ID
	if err != nil {
		return s.failed(ctx, actor, result, err, notifier)
	}

	if err := s.selection.Clear(ctx, actor.AdminID); err != nil {
		return ActionResult{}, err
	}

	notifier.Notify(NotificationSuccess, completedTitle(action), fmt.Sprintf("%s requested for %d license(s).", actionVerb(action), len(ids)))
	result.Outcome = OutcomeCompleted
	s.metrics.RecordBulkAction(string(action), string(result.Outcome))
	s.logger.Info("bulk action completed",
		zap.String("action", string(action)),
		zap.String("admin_id", actor.AdminID),
		zap.Int("count", len(ids)))
	return result, nil
}

// failed leaves only the licenses the handlers could not update in the selection.
func (s *BulkActionService) failed(ctx context.Context, actor events.Actor, result ActionResult, cause error, notifier Notifier) (ActionResult, error) {
	failedIDs := failedAmong(result.LicenseIDs, events.FailedSubjects(cause))
	failedSet := make(map[string]struct{}, len(failedIDs))
	for _, id := range failedIDs {
		failedSet[id] = struct{}{}
	}
	for _, id := range result.LicenseIDs {
		if _, ok := failedSet[id]; ok {
			continue
		}
		if _, err := s.selection.Toggle(ctx, actor.AdminID, id); err != nil {
			return ActionResult{}, err
		}
	}

	result.FailedIDs = failedIDs
	result.Outcome = OutcomeFailed
	if len(failedIDs) < len(result.LicenseIDs) {
		result.Outcome = OutcomePartial
	}
	notifier.Notify(NotificationWarning, failedTitle(result.Action),
		fmt.Sprintf("%s failed for %d of %d license(s); they remain selected.", actionVerb(result.Action), len(failedIDs), len(result.LicenseIDs)))
	s.metrics.RecordBulkAction(string(result.Action), string(result.Outcome))
	s.logger.Warn("bulk action failed",
		zap.String("action", string(result.Action)),
		zap.String("admin_id", actor.AdminID),
		zap.Strings("failed_ids", failedIDs),
		zap.Error(cause))
	return result, nil
}

// failedAmong keeps the ids reported as failed, in selection order. When the failure
// names no license, every id counts as failed.
func failedAmong(ids, reported []string) []string {
	if len(reported) == 0 {
		return append([]string{}, ids...)
	}
	wanted := make(map[string]struct{}, len(reported))
	for _, id := range reported {
		wanted[id] = struct{}{}
	}
	var out []string
	for _, id := range ids {
		if _, ok := wanted[id]; ok {
			out = append(out, id)
		}
	}
	if len(out) == 0 {
		return append([]string{}, ids...)
	}
	return out
}

func confirmTitle(action events.LicenseCommand) string {
	switch action {
	case events.LicenseCommandRenew:
		return "Renew licenses"
	case events.LicenseCommandCancel:
		return "Cancel licenses"
	default:
		return "Send renewal reminders"
	}
}

func completedTitle(action events.LicenseCommand) string {
	switch action {
	case events.LicenseCommandRenew:
		return "Renewal started"
	case events.LicenseCommandCancel:
		return "Licenses cancelled"
	default:
		return "Reminders sent"
	}
}

func failedTitle(action events.LicenseCommand) string {
	switch action {
	case events.LicenseCommandRenew:
		return "Renewal failed"
	case events.LicenseCommandCancel:
		return "Cancellation failed"
	default:
		return "Reminders failed"
	}
}

func actionVerb(action events.LicenseCommand) string {
	switch action {
	case events.LicenseCommandRenew:
		return "Renewal"
	case events.LicenseCommandCancel:
		return "Cancellation"
	default:
		return "Reminder"
	}
}
