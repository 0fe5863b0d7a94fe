package worker

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/backoffice-service/internal/config"
	"github.com/spec-kit/backoffice-service/internal/domain"
	"github.com/spec-kit/backoffice-service/internal/events"
	"github.com/spec-kit/backoffice-service/internal/notify"
	"github.com/spec-kit/backoffice-service/internal/reporting"
	"github.com/spec-kit/backoffice-service/internal/repository"
	"github.com/spec-kit/backoffice-service/internal/service"
)

var fixedNow = time.Date(2024, time.December, 20, 12, 0, 0, 0, time.UTC)

func newLifecycle(t *testing.T) (*LicenseLifecycle, *repository.MemoryLicenseRepository, events.Dispatcher) {
	t.Helper()
	repo := repository.NewMemoryLicenseRepository(repository.SeedLicenses())
	dispatcher := events.NewInMemoryDispatcher()
	lifecycle := NewLicenseLifecycle(repo, dispatcher, nil)
	lifecycle.now = func() time.Time { return fixedNow }
	StartLicenseLifecycleWorker(lifecycle)
	return lifecycle, repo, dispatcher
}

func TestBulkRenewAndCancel(t *testing.T) {
	_, repo, dispatcher := newLifecycle(t)
	ctx := context.Background()

	var changed []events.LicenseChangedPayload
	dispatcher.Subscribe(events.EventLicenseChanged, func(_ context.Context, e events.Event) error {
		changed = append(changed, e.Payload.(events.LicenseChangedPayload))
		return nil
	})

	_, err := dispatcher.Publish(ctx, events.Event{
		Type:    events.EventLicenseBulkAction,
		Payload: events.LicenseCommandPayload{Command: events.LicenseCommandRenew, LicenseIDs: []string{"1", "3"}},
	})
	require.NoError(t, err)

	renewed, err := repo.GetByID(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, domain.LicenseStatusActive, renewed.Status)
	assert.Equal(t, time.Date(2026, time.January, 15, 0, 0, 0, 0, time.UTC), renewed.EndDate)

	lapsed, err := repo.GetByID(ctx, "3")
	require.NoError(t, err)
	assert.Equal(t, domain.LicenseStatusActive, lapsed.Status)
	assert.Equal(t, fixedNow.AddDate(0, 12, 0), lapsed.EndDate)

	require.Len(t, changed, 2)
	assert.Equal(t, domain.LicenseStatusExpired, changed[1].OldStatus)

	_, err = dispatcher.Publish(ctx, events.Event{
		Type:    events.EventLicenseAction,
		Payload: events.LicenseCommandPayload{Command: events.LicenseCommandCancel, LicenseIDs: []string{"2"}},
	})
	require.NoError(t, err)

	cancelled, err := repo.GetByID(ctx, "2")
	require.NoError(t, err)
	assert.Equal(t, domain.LicenseStatusCancelled, cancelled.Status)
	assert.False(t, cancelled.AutoRenew)
}

func TestNotifyDoesNotMutate(t *testing.T) {
	lifecycle, repo, _ := newLifecycle(t)
	ctx := context.Background()

	before, err := repo.GetByID(ctx, "4")
	require.NoError(t, err)
	_, err = lifecycle.Apply(ctx, events.Actor{}, events.LicenseCommandNotify, "4")
	require.NoError(t, err)
	after, err := repo.GetByID(ctx, "4")
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestMissingLicenseIsReported(t *testing.T) {
	_, _, dispatcher := newLifecycle(t)
	_, err := dispatcher.Publish(context.Background(), events.Event{
		Type:    events.EventLicenseBulkAction,
		Payload: events.LicenseCommandPayload{Command: events.LicenseCommandRenew, LicenseIDs: []string{"1", "missing"}},
	})
	require.Error(t, err)
	assert.Equal(t, []string{"missing"}, events.FailedSubjects(err))
}

func TestConcurrentRenewalsEachExtend(t *testing.T) {
	lifecycle, repo, _ := newLifecycle(t)
	ctx := context.Background()

	const renewals = 8
	var wg sync.WaitGroup
	errs := make(chan error, renewals)
	for i := 0; i < renewals; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := lifecycle.Apply(ctx, events.Actor{}, events.LicenseCommandRenew, "1")
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	renewed, err := repo.GetByID(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, time.January, 15, 0, 0, 0, 0, time.UTC).AddDate(0, 12*renewals, 0), renewed.EndDate)
}

type fakeSummarySource struct {
	mu          sync.Mutex
	invalidates int
	refreshes   int
}

func (f *fakeSummarySource) InvalidateSummary(context.Context) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.invalidates++
}

func (f *fakeSummarySource) RefreshSummary(context.Context) (reporting.LicenseSummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.refreshes++
	return reporting.LicenseSummary{}, nil
}

func (f *fakeSummarySource) counts() (int, int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.invalidates, f.refreshes
}

func TestSummaryRefresherCoalescesEvents(t *testing.T) {
	source := &fakeSummarySource{}
	dispatcher := events.NewInMemoryDispatcher()
	refresher := NewSummaryRefresher(source, 20*time.Millisecond, nil)
	defer refresher.Stop()
	StartSummaryRefresher(dispatcher, refresher)

	for i := 0; i < 5; i++ {
		_, err := dispatcher.Publish(context.Background(), events.Event{Type: events.EventLicenseChanged})
		require.NoError(t, err)
	}
	assert.True(t, refresher.Pending())

	require.Eventually(t, func() bool {
		_, refreshes := source.counts()
		return refreshes == 1
	}, time.Second, 5*time.Millisecond)

	invalidates, _ := source.counts()
	assert.Equal(t, 5, invalidates)
	assert.False(t, refresher.Pending())
}

type capturingSender struct {
	mu   sync.Mutex
	sent []notify.EmailMessage
}

func (c *capturingSender) Send(_ context.Context, msg notify.EmailMessage) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sent = append(c.sent, msg)
	return nil
}

func TestStartWiresReminderEmails(t *testing.T) {
	repo := repository.NewMemoryLicenseRepository(repository.SeedLicenses())
	dispatcher := events.NewInMemoryDispatcher()
	sender := &capturingSender{}
	source := &fakeSummarySource{}

	stop := Start(dispatcher, Set{
		Notifications: service.NewNotificationService(dispatcher, sender, nil, config.NotificationConfig{RenewalsTo: "renewals@example.com"}),
		Lifecycle:     NewLicenseLifecycle(repo, dispatcher, nil),
		Refresher:     NewSummaryRefresher(source, time.Hour, nil),
	})
	defer stop()

	_, err := dispatcher.Publish(context.Background(), events.Event{
		Type:    events.EventLicenseBulkAction,
		Payload: events.LicenseCommandPayload{Command: events.LicenseCommandNotify, LicenseIDs: []string{"1", "2"}},
	})
	require.NoError(t, err)

	require.Len(t, sender.sent, 2)
	assert.Equal(t, "renewals@example.com", sender.sent[0].To)
	assert.Equal(t, "Renewal reminder: Greenwood Academy", sender.sent[0].Subject)
	assert.Contains(t, sender.sent[1].Body, "2025-09-01")

	invalidates, refreshes := source.counts()
	assert.Equal(t, 2, invalidates)
	assert.Equal(t, 0, refreshes)
}

func TestStartSkipsNilMembers(t *testing.T) {
	stop := Start(events.NewInMemoryDispatcher(), Set{})
	assert.NotPanics(t, stop)
}
