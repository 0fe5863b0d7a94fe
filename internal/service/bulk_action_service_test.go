package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/backoffice-service/internal/cache"
	"github.com/spec-kit/backoffice-service/internal/events"
	"github.com/spec-kit/backoffice-service/internal/observability"
)

type scriptedConfirmer struct {
	answer bool
	err    error
	asked  int
}

func (c *scriptedConfirmer) Confirm(context.Context, string, string) (bool, error) {
	c.asked++
	return c.answer, c.err
}

func newBulkFixture(t *testing.T) (*BulkActionService, cache.SelectionStore, events.Dispatcher) {
	t.Helper()
	selection := cache.NewMemorySelectionStore()
	dispatcher := events.NewInMemoryDispatcher()
	svc := NewBulkActionService(BulkActionDependencies{
		Selection:  selection,
		Dispatcher: dispatcher,
		Metrics:    observability.NewMetrics(prometheus.NewRegistry()),
	})
	return svc, selection, dispatcher
}

func TestToggleSequence(t *testing.T) {
	svc, _, _ := newBulkFixture(t)
	ctx := context.Background()

	_, _, err := svc.Toggle(ctx, "admin", "1")
	require.NoError(t, err)
	_, _, err = svc.Toggle(ctx, "admin", "2")
	require.NoError(t, err)
	selected, members, err := svc.Toggle(ctx, "admin", "1")
	require.NoError(t, err)

	assert.False(t, selected)
	assert.Equal(t, []string{"2"}, members)

	_, _, err = svc.Toggle(ctx, "admin", "")
	assert.Error(t, err)
}

func TestRunEmptySelectionWarns(t *testing.T) {
	svc, _, _ := newBulkFixture(t)
	confirmer := &scriptedConfirmer{answer: true}
	notes := &NotificationRecorder{}

	result, err := svc.Run(context.Background(), events.Actor{AdminID: "admin"}, events.LicenseCommandRenew, confirmer, notes)
	require.NoError(t, err)

	assert.Equal(t, OutcomeSkipped, result.Outcome)
	assert.Equal(t, 0, confirmer.asked)
	require.Len(t, notes.Items, 1)
	assert.Equal(t, NotificationWarning, notes.Items[0].Level)
	assert.Equal(t, "No licenses selected", notes.Items[0].Title)
}

func TestRunDeclinedKeepsSelection(t *testing.T) {
	svc, selection, dispatcher := newBulkFixture(t)
	ctx := context.Background()
	_, _ = selection.Toggle(ctx, "admin", "1")

	published := 0
	dispatcher.Subscribe(events.EventLicenseBulkAction, func(context.Context, events.Event) error {
		published++
		return nil
	})

	notes := &NotificationRecorder{}
	result, err := svc.Run(ctx, events.Actor{AdminID: "admin"}, events.LicenseCommandCancel, StaticConfirmer(false), notes)
	require.NoError(t, err)

	assert.Equal(t, OutcomeDeclined, result.Outcome)
	assert.Zero(t, published)
	assert.Empty(t, notes.Items)
	members, _ := selection.Members(ctx, "admin")
	assert.Equal(t, []string{"1"}, members)
}

func TestRunConfirmedPublishesAndClears(t *testing.T) {
	svc, selection, dispatcher := newBulkFixture(t)
	ctx := context.Background()
	_, _ = selection.Toggle(ctx, "admin", "2")
	_, _ = selection.Toggle(ctx, "admin", "4")
	_, _ = selection.Toggle(ctx, "other", "1")

	var payloads []events.LicenseCommandPayload
	dispatcher.Subscribe(events.EventLicenseBulkAction, func(_ context.Context, e events.Event) error {
		payloads = append(payloads, e.Payload.(events.LicenseCommandPayload))
		return nil
	})

	notes := &NotificationRecorder{}
	result, err := svc.Run(ctx, events.Actor{AdminID: "admin"}, events.LicenseCommandNotify, StaticConfirmer(true), notes)
	require.NoError(t, err)

	assert.Equal(t, OutcomeCompleted, result.Outcome)
	assert.Equal(t, 2, result.Count)
	assert.NotEmpty(t, result.EventID)
	require.Len(t, payloads, 1)
	assert.Equal(t, events.LicenseCommandNotify, payloads[0].Command)
	assert.Equal(t, []string{"2", "4"}, payloads[0].LicenseIDs)

	members, _ := selection.Members(ctx, "admin")
	assert.Empty(t, members)
	others, _ := selection.Members(ctx, "other")
	assert.Equal(t, []string{"1"}, others)

	require.Len(t, notes.Items, 1)
	assert.Equal(t, NotificationSuccess, notes.Items[0].Level)
}

func TestRunConfirmerError(t *testing.T) {
	svc, selection, _ := newBulkFixture(t)
	ctx := context.Background()
	_, _ = selection.Toggle(ctx, "admin", "1")

	_, err := svc.Run(ctx, events.Actor{AdminID: "admin"}, events.LicenseCommandRenew, &scriptedConfirmer{err: errors.New("dialog closed")}, &NotificationRecorder{})
	assert.Error(t, err)
	members, _ := selection.Members(ctx, "admin")
	assert.Equal(t, []string{"1"}, members)
}

func TestRunRejectsUnknownAction(t *testing.T) {
	svc, _, _ := newBulkFixture(t)
	_, err := svc.Run(context.Background(), events.Actor{AdminID: "admin"}, "suspend", StaticConfirmer(true), &NotificationRecorder{})
	assert.Error(t, err)
}

const actionsMetricHeader = `
# HELP backoffice_licenses_actions_total Total license actions by scope (single or bulk), action and outcome
# TYPE backoffice_licenses_actions_total counter
`

func TestRunReportsHandlerFailure(t *testing.T) {
	registry := prometheus.NewRegistry()
	selection := cache.NewMemorySelectionStore()
	dispatcher := events.NewInMemoryDispatcher()
	svc := NewBulkActionService(BulkActionDependencies{
		Selection:  selection,
		Dispatcher: dispatcher,
		Metrics:    observability.NewMetrics(registry),
	})
	ctx := context.Background()
	_, _ = selection.Toggle(ctx, "admin", "1")

	dispatcher.Subscribe(events.EventLicenseBulkAction, func(context.Context, events.Event) error {
		return errors.New("dial tcp 10.0.0.5:5432: connection refused")
	})

	notes := &NotificationRecorder{}
	result, err := svc.Run(ctx, events.Actor{AdminID: "admin"}, events.LicenseCommandRenew, StaticConfirmer(true), notes)
	require.NoError(t, err)

	assert.Equal(t, OutcomeFailed, result.Outcome)
	assert.Equal(t, []string{"1"}, result.FailedIDs)
	assert.NotEmpty(t, result.EventID)
	require.Len(t, notes.Items, 1)
	assert.Equal(t, NotificationWarning, notes.Items[0].Level)
	assert.Equal(t, "Renewal failed", notes.Items[0].Title)

	members, _ := selection.Members(ctx, "admin")
	assert.Equal(t, []string{"1"}, members)

	expected := actionsMetricHeader + `backoffice_licenses_actions_total{action="renew",outcome="failed",scope="bulk"} 1
`
	assert.NoError(t, testutil.GatherAndCompare(registry, strings.NewReader(expected), "backoffice_licenses_actions_total"))
}

func TestRunPartialFailureKeepsOnlyFailedLicenses(t *testing.T) {
	svc, selection, dispatcher := newBulkFixture(t)
	ctx := context.Background()
	for _, id := range []string{"1", "2", "3"} {
		_, _ = selection.Toggle(ctx, "admin", id)
	}

	dispatcher.Subscribe(events.EventLicenseBulkAction, func(context.Context, events.Event) error {
		return errors.Join(&events.SubjectError{SubjectID: "2", Err: errors.New("license not found")})
	})

	notes := &NotificationRecorder{}
	result, err := svc.Run(ctx, events.Actor{AdminID: "admin"}, events.LicenseCommandCancel, StaticConfirmer(true), notes)
	require.NoError(t, err)

	assert.Equal(t, OutcomePartial, result.Outcome)
	assert.Equal(t, []string{"2"}, result.FailedIDs)
	assert.Equal(t, 3, result.Count)
	require.Len(t, notes.Items, 1)
	assert.Equal(t, NotificationWarning, notes.Items[0].Level)
	assert.Contains(t, notes.Items[0].Message, "1 of 3")

	members, _ := selection.Members(ctx, "admin")
	assert.Equal(t, []string{"2"}, members)
}
