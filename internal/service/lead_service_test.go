package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spec-kit/backoffice-service/internal/domain"
	"github.com/spec-kit/backoffice-service/internal/events"
	"github.com/spec-kit/backoffice-service/internal/reporting"
	"github.com/spec-kit/backoffice-service/internal/repository"
	apperrors "github.com/spec-kit/backoffice-service/pkg/util/errorutil"
)

func newLeadFixture(t *testing.T) (*LeadService, events.Dispatcher, *observer.ObservedLogs) {
	t.Helper()
	core, logs := observer.New(zap.WarnLevel)
	dispatcher := events.NewInMemoryDispatcher()
	svc := NewLeadService(LeadDependencies{
		LeadRepo:   repository.NewMemoryLeadRepository(repository.SeedLeads()),
		Dispatcher: dispatcher,
		Logger:     zap.New(core),
		Clock:      func() time.Time { return fixedNow },
	})
	return svc, dispatcher, logs
}

func TestLeadListFilters(t *testing.T) {
	svc, _, _ := newLeadFixture(t)
	leads, err := svc.List(context.Background(), reporting.LeadFilter{AssignedTo: "Jordan Lee", Status: reporting.All})
	require.NoError(t, err)
	require.Len(t, leads, 2)
	assert.Equal(t, "2", leads[0].ID)
	assert.Equal(t, "4", leads[1].ID)
}

func TestLeadSummary(t *testing.T) {
	svc, _, _ := newLeadFixture(t)
	summary, err := svc.Summary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 5, summary.TotalLeads)
	assert.Equal(t, int64(215000), summary.OpenPipelineValue)
	assert.Equal(t, 1, summary.Won)
}

func TestAdvanceStatus(t *testing.T) {
	svc, dispatcher, logs := newLeadFixture(t)
	ctx := context.Background()

	var changes []events.LeadStatusChangedPayload
	dispatcher.Subscribe(events.EventLeadStatusChanged, func(_ context.Context, e events.Event) error {
		changes = append(changes, e.Payload.(events.LeadStatusChangedPayload))
		return nil
	})

	lead, err := svc.AdvanceStatus(ctx, events.Actor{}, "3")
	require.NoError(t, err)
	assert.Equal(t, domain.LeadStatusContacted, lead.Status)
	require.Len(t, changes, 1)
	assert.Equal(t, domain.LeadStatusNew, changes[0].OldStatus)
	assert.Zero(t, changes[0].SkippedStages)
	assert.Zero(t, logs.Len())

	lead, err = svc.AdvanceStatus(ctx, events.Actor{}, "4")
	require.NoError(t, err)
	assert.Equal(t, domain.LeadStatusClosedWon, lead.Status)
}

func TestAdvanceStatusClosedIsConflict(t *testing.T) {
	svc, _, _ := newLeadFixture(t)
	_, err := svc.AdvanceStatus(context.Background(), events.Actor{}, "5")
	require.Error(t, err)
	assert.Equal(t, "CONFLICT", apperrors.ToDomainError(err).Code)
}

func TestSetStatusAllowsSkippingWithWarning(t *testing.T) {
	svc, dispatcher, logs := newLeadFixture(t)
	ctx := context.Background()

	var changes []events.LeadStatusChangedPayload
	dispatcher.Subscribe(events.EventLeadStatusChanged, func(_ context.Context, e events.Event) error {
		changes = append(changes, e.Payload.(events.LeadStatusChangedPayload))
		return nil
	})

	lead, err := svc.SetStatus(ctx, events.Actor{}, "3", domain.LeadStatusQualified)
	require.NoError(t, err)
	assert.Equal(t, domain.LeadStatusQualified, lead.Status)
	require.Len(t, changes, 1)
	assert.Equal(t, 1, changes[0].SkippedStages)
	assert.Equal(t, 1, logs.FilterMessage("lead status skipped stages").Len())

	_, err = svc.SetStatus(ctx, events.Actor{}, "3", "won")
	assert.Equal(t, "VALIDATION_FAILED", apperrors.ToDomainError(err).Code)
}

func TestDispatchAction(t *testing.T) {
	svc, dispatcher, _ := newLeadFixture(t)
	ctx := context.Background()

	var payloads []events.LeadActionPayload
	dispatcher.Subscribe(events.EventLeadActionRequest, func(_ context.Context, e events.Event) error {
		payloads = append(payloads, e.Payload.(events.LeadActionPayload))
		return nil
	})

	receipt, err := svc.DispatchAction(ctx, events.Actor{AdminID: "rep"}, "2", domain.LeadActionSendProposal)
	require.NoError(t, err)
	assert.Equal(t, "2", receipt.LeadID)
	assert.Equal(t, domain.LeadActionSendProposal, receipt.Action)
	assert.NotEmpty(t, receipt.EventID)
	assert.Equal(t, fixedNow, receipt.DispatchedAt)
	require.Len(t, payloads, 1)
	assert.Equal(t, "Jordan Lee", payloads[0].AssignedTo)
	assert.Equal(t, "rkim@summitcollege.edu", payloads[0].Email)

	_, err = svc.DispatchAction(ctx, events.Actor{}, "2", "fax")
	assert.Equal(t, "VALIDATION_FAILED", apperrors.ToDomainError(err).Code)
	_, err = svc.DispatchAction(ctx, events.Actor{}, "99", domain.LeadActionCall)
	assert.Equal(t, "NOT_FOUND", apperrors.ToDomainError(err).Code)
}

func TestLeadExport(t *testing.T) {
	svc, _, _ := newLeadFixture(t)
	data, name, err := svc.Export(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "sales-leads-export.csv", name)
	assert.Contains(t, string(data), "Name,Company,Email,Value,Status,Source,AssignedTo,CreatedAt,NextAction,Probability")
}
