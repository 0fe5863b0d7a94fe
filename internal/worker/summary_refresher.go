package worker

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/backoffice-service/internal/events"
	"github.com/spec-kit/backoffice-service/internal/reporting"
	"github.com/spec-kit/backoffice-service/internal/search"
)

// SummarySource recomputes and caches the license dashboard summary.
type SummarySource interface {
	InvalidateSummary(ctx context.Context)
	RefreshSummary(ctx context.Context) (reporting.LicenseSummary, error)
}

// SummaryRefresher coalesces bursts of license events into one summary recompute.
type SummaryRefresher struct {
	source    SummarySource
	debouncer *search.Debouncer[events.EventType]
	logger    *zap.Logger
	timeout   time.Duration
}

// NewSummaryRefresher builds a refresher that recomputes delay after the last license event.
func NewSummaryRefresher(source SummarySource, delay time.Duration, logger *zap.Logger) *SummaryRefresher {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := &SummaryRefresher{source: source, logger: logger, timeout: 10 * time.Second}
	r.debouncer = search.NewDebouncer(delay, r.refresh)
	return r
}

// StartSummaryRefresher subscribes the refresher to license mutations.
func StartSummaryRefresher(dispatcher events.Dispatcher, refresher *SummaryRefresher) {
	if dispatcher == nil || refresher == nil {
		return
	}
	dispatcher.Subscribe(events.EventLicenseIssued, refresher.handle)
	dispatcher.Subscribe(events.EventLicenseChanged, refresher.handle)
}

func (r *SummaryRefresher) handle(ctx context.Context, event events.Event) error {
	r.source.InvalidateSummary(ctx)
	r.debouncer.Trigger(event.Type)
	return nil
}

func (r *SummaryRefresher) refresh(trigger events.EventType) {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()
	summary, err := r.source.RefreshSummary(ctx)
	if err != nil {
		r.logger.Warn("summary refresh failed", zap.String("trigger", string(trigger)), zap.Error(err))
		return
	}
	r.logger.Debug("summary refreshed", zap.String("trigger", string(trigger)), zap.Int("total", summary.Total))
}

// Pending reports whether a recompute is scheduled.
func (r *SummaryRefresher) Pending() bool {
	return r.debouncer.Pending()
}

// Stop cancels any scheduled recompute.
func (r *SummaryRefresher) Stop() {
	r.debouncer.Stop()
}
