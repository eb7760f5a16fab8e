package notifier

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/bet-signals/internal/metrics"
	"github.com/yourusername/bet-signals/internal/models"
)

const alertDurationMs = 15000

// Watcher evaluates today's pending matches on a fixed tick and emits an
// alert for each match starting within the lookahead window. Each match is
// alerted at most once, keyed by its stable ID through the NotifiedStore.
type Watcher struct {
	store     NotifiedStore
	sinks     []AlertSink
	lookahead time.Duration
	tick      time.Duration
	logger    *logrus.Logger
	nowFunc   func() time.Time

	mu      sync.RWMutex
	pending []models.MatchRecord
}

// NewWatcher creates an upcoming-match watcher.
func NewWatcher(
	store NotifiedStore,
	sinks []AlertSink,
	lookahead time.Duration,
	tick time.Duration,
	logger *logrus.Logger,
) *Watcher {
	return &Watcher{
		store:     store,
		sinks:     sinks,
		lookahead: lookahead,
		tick:      tick,
		logger:    logger,
		nowFunc:   time.Now,
	}
}

// SetClock overrides the wall clock. Intended for tests.
func (w *Watcher) SetClock(now func() time.Time) {
	w.nowFunc = now
}

// UpdateBets replaces the watched set and runs an immediate check, so a
// match already inside the window when a refresh lands is not delayed by
// up to a full tick.
func (w *Watcher) UpdateBets(ctx context.Context, pending []models.MatchRecord) {
	w.mu.Lock()
	w.pending = pending
	w.mu.Unlock()

	metrics.PendingMatches.Set(float64(len(pending)))
	w.Check(ctx)
}

// Run evaluates the watched set every tick until the context is cancelled.
func (w *Watcher) Run(ctx context.Context) {
	ticker := time.NewTicker(w.tick)
	defer ticker.Stop()

	w.logger.WithFields(logrus.Fields{
		"tick":      w.tick.String(),
		"lookahead": w.lookahead.String(),
	}).Info("Match watcher started")

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("Match watcher stopped")
			return
		case <-ticker.C:
			w.Check(ctx)
		}
	}
}

// Check emits alerts for every watched match whose start time lies in
// (now, now+lookahead]. Matches whose start time cannot be parsed or has
// already passed are skipped silently.
func (w *Watcher) Check(ctx context.Context) {
	w.mu.RLock()
	pending := w.pending
	w.mu.RUnlock()

	now := w.nowFunc().UTC()
	for i := range pending {
		m := &pending[i]

		start, err := m.StartTime()
		if err != nil {
			continue
		}
		diff := start.Sub(now)
		if diff <= 0 || diff > w.lookahead {
			continue
		}

		first, err := w.store.MarkNotified(ctx, m.ID)
		if err != nil {
			w.logger.WithError(err).WithField("match", m.Label()).
				Warn("Notified store error, skipping alert")
			continue
		}
		if !first {
			continue
		}

		w.emit(ctx, buildAlert(m, diff))
	}
}

func (w *Watcher) emit(ctx context.Context, alert Alert) {
	for _, sink := range w.sinks {
		if err := sink.Send(ctx, alert); err != nil {
			metrics.AlertFailuresTotal.WithLabelValues(sink.Name()).Inc()
			w.logger.WithError(err).WithFields(logrus.Fields{
				"sink":  sink.Name(),
				"title": alert.Title,
			}).Error("Alert delivery failed")
			continue
		}
		metrics.AlertsSentTotal.WithLabelValues(sink.Name()).Inc()
	}
}

// buildAlert shapes the delivery payload for one upcoming match. Minutes
// round up, so a match 29.5 minutes out reads "30 min", never "29".
func buildAlert(m *models.MatchRecord, untilStart time.Duration) Alert {
	minutes := int(math.Ceil(untilStart.Minutes()))
	return Alert{
		MatchID:           m.ID,
		Title:             fmt.Sprintf("%s %s", models.SportDisplayName(m.Sport), m.Label()),
		Description:       fmt.Sprintf("Empieza en %d min — Pick: %s (%.0f%%)", minutes, m.Pick, m.Probability),
		Duration:          alertDurationMs,
		ActionLabel:       "Ver señal",
		MinutesUntilStart: minutes,
	}
}
