package worker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/backoffice-service/internal/domain"
	"github.com/spec-kit/backoffice-service/internal/events"
	"github.com/spec-kit/backoffice-service/internal/repository"
)

// LicenseLifecycle applies renew / cancel / notify commands published by the license services.
type LicenseLifecycle struct {
	licenses   repository.LicenseRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
	now        func() time.Time
}

// NewLicenseLifecycle constructs the handler.
func NewLicenseLifecycle(licenses repository.LicenseRepository, dispatcher events.Dispatcher, logger *zap.Logger) *LicenseLifecycle {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LicenseLifecycle{licenses: licenses, dispatcher: dispatcher, logger: logger, now: time.Now}
}

// StartLicenseLifecycleWorker subscribes the handler to license command events.
func StartLicenseLifecycleWorker(lifecycle *LicenseLifecycle) {
	if lifecycle == nil || lifecycle.dispatcher == nil {
		return
	}
	lifecycle.dispatcher.Subscribe(events.EventLicenseBulkAction, lifecycle.handleCommand)
	lifecycle.dispatcher.Subscribe(events.EventLicenseAction, lifecycle.handleCommand)
}

func (w *LicenseLifecycle) handleCommand(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.LicenseCommandPayload)
	if !ok {
		return fmt.Errorf("license lifecycle: unexpected payload %T", event.Payload)
	}
	var errs []error
	for _, id := range payload.LicenseIDs {
		if _, err := w.Apply(ctx, event.Actor, payload.Command, id); err != nil {
			w.logger.Warn("license command failed",
				zap.String("license_id", id),
				zap.String("command", string(payload.Command)),
				zap.Error(err))
			errs = append(errs, &events.SubjectError{SubjectID: id, Err: err})
		}
	}
	return errors.Join(errs...)
}

// Apply runs one command against one license and publishes license_changed.
// Renewing extends from the current end date, or from now when already lapsed. The
// read-modify-write happens inside the repository's Mutate so concurrent renewals
// each add their extension.
func (w *LicenseLifecycle) Apply(ctx context.Context, actor events.Actor, command events.LicenseCommand, id string) (*domain.License, error) {
	var (
		before domain.License
		lic    *domain.License
		err    error
	)
	switch command {
	case events.LicenseCommandRenew:
		before, lic, err = w.licenses.Mutate(ctx, id, func(l *domain.License) error {
			from := l.EndDate
			if now := w.now(); from.Before(now) {
				from = now
			}
			l.EndDate = domain.AddMonths(from, l.DurationMonths)
			l.Status = domain.LicenseStatusActive
			return nil
		})
	case events.LicenseCommandCancel:
		before, lic, err = w.licenses.Mutate(ctx, id, func(l *domain.License) error {
			l.Status = domain.LicenseStatusCancelled
			l.AutoRenew = false
			return nil
		})
	case events.LicenseCommandNotify:
		lic, err = w.licenses.GetByID(ctx, id)
		if lic != nil {
			before = *lic
		}
	default:
		return nil, fmt.Errorf("license lifecycle: unknown command %q", command)
	}
	if err != nil {
		return nil, err
	}

	if _, err := w.dispatcher.Publish(ctx, events.Event{
		Type:      events.EventLicenseChanged,
		SubjectID: lic.ID,
		Actor:     actor,
		Payload: events.LicenseChangedPayload{
			LicenseID:    lic.ID,
			Command:      command,
			Company:      lic.Company,
			CustomerName: lic.CustomerName,
			OldStatus:    before.Status,
			NewStatus:    lic.Status,
			EndDate:      lic.EndDate,
		},
	}); err != nil {
		return lic, err
	}
	return lic, nil
}
