package worker

import (
	"github.com/spec-kit/backoffice-service/internal/events"
	"github.com/spec-kit/backoffice-service/internal/service"
)

// Set lists the background handlers attached to the dispatcher. Nil members are skipped.
type Set struct {
	Notifications *service.NotificationService
	Lifecycle     *LicenseLifecycle
	Refresher     *SummaryRefresher
}

// Start registers every handler in set and returns a function that stops timers.
// The lifecycle handler is registered before the notifier so reminders see applied state.
func Start(dispatcher events.Dispatcher, set Set) (stop func()) {
	StartLicenseLifecycleWorker(set.Lifecycle)
	StartNotificationWorker(set.Notifications)
	StartSummaryRefresher(dispatcher, set.Refresher)
	return func() {
		if set.Refresher != nil {
			set.Refresher.Stop()
		}
	}
}

// StartNotificationWorker registers notification handlers.
func StartNotificationWorker(notificationService *service.NotificationService) {
	if notificationService == nil {
		return
	}
	notificationService.RegisterHandlers()
}
