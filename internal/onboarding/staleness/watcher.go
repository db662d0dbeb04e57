package staleness

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"onboard/internal/onboarding/metrics"
	"onboard/internal/onboarding/ports"
	id "onboard/pkg/domain"
	"onboard/pkg/platform/audit"
)

// Watcher polls the configuration version for one active client session and
// fires OnDrift when the captured marker falls behind. Missed or late polls
// are tolerated; detection is eventual, not strict.
//
// The goroutine exits when the context is cancelled or Stop is called,
// whichever comes first. Stop is idempotent.
type Watcher struct {
	tracker      *Tracker
	onboardingID id.OnboardingID
	interval     time.Duration
	onDrift      func(current Marker)
	logger       *slog.Logger
	publisher    ports.AuditPublisher
	metrics      *metrics.Metrics

	// mu guards cancel, stopped, and marker. Refresh may run while the poll
	// goroutine is reading the marker.
	mu      sync.Mutex
	marker  Marker
	cancel  context.CancelFunc
	stopped chan struct{}
}

// NewWatcher builds a watcher for one session. onDrift runs at most once; the
// watcher stops itself after reporting drift.
func NewWatcher(tracker *Tracker, onboardingID id.OnboardingID, marker Marker, interval time.Duration, onDrift func(current Marker), opts ...WatcherOption) *Watcher {
	w := &Watcher{
		tracker:      tracker,
		onboardingID: onboardingID,
		marker:       marker,
		interval:     interval,
		onDrift:      onDrift,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

type WatcherOption func(w *Watcher)

func WithWatcherLogger(logger *slog.Logger) WatcherOption {
	return func(w *Watcher) {
		w.logger = logger
	}
}

func WithWatcherAuditPublisher(publisher ports.AuditPublisher) WatcherOption {
	return func(w *Watcher) {
		w.publisher = publisher
	}
}

func WithWatcherMetrics(m *metrics.Metrics) WatcherOption {
	return func(w *Watcher) {
		w.metrics = m
	}
}

// Start launches the poll loop. Calling Start twice is a no-op while the
// first loop is still running.
func (w *Watcher) Start(ctx context.Context) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.cancel != nil {
		return
	}
	ctx, cancel := context.WithCancel(ctx)
	w.cancel = cancel
	w.stopped = make(chan struct{})

	go w.run(ctx)
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.stopped)
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			captured := w.currentMarker()
			drifted, err := w.tracker.HasDrifted(ctx, w.onboardingID, captured)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				if w.logger != nil {
					w.logger.WarnContext(ctx, "staleness poll failed",
						"onboarding_id", w.onboardingID,
						"error", err,
					)
				}
				continue
			}
			if !drifted {
				continue
			}

			current, err := w.tracker.Capture(ctx, w.onboardingID)
			if err != nil {
				current = 0
			}
			w.metrics.IncrementDrift()
			ports.LogAudit(ctx, w.logger, w.publisher, audit.Event{
				Category:     audit.CategoryOperations,
				Timestamp:    time.Now().UTC(),
				OnboardingID: w.onboardingID,
				Action:       string(audit.EventConfigDriftDetected),
			},
				"captured_marker", int64(captured),
				"current_marker", int64(current),
			)
			if w.onDrift != nil {
				w.onDrift(current)
			}
			return
		}
	}
}

func (w *Watcher) currentMarker() Marker {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.marker
}

// Stop cancels the poll loop and waits for the goroutine to exit.
func (w *Watcher) Stop() {
	w.mu.Lock()
	cancel, stopped := w.cancel, w.stopped
	w.cancel = nil
	w.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-stopped
}

// Refresh re-captures the marker after a "refresh and re-evaluate" action so
// a restarted watcher compares against the new baseline.
func (w *Watcher) Refresh(ctx context.Context) (Marker, error) {
	marker, err := w.tracker.Capture(ctx, w.onboardingID)
	if err != nil {
		return 0, err
	}
	w.mu.Lock()
	w.marker = marker
	w.mu.Unlock()
	ports.LogAudit(ctx, w.logger, w.publisher, audit.Event{
		Category:     audit.CategoryOperations,
		Timestamp:    time.Now().UTC(),
		OnboardingID: w.onboardingID,
		Action:       string(audit.EventConfigRefreshed),
	},
		"marker", int64(marker),
	)
	return marker, nil
}
