package service

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/bet-signals/internal/metrics"
	"github.com/yourusername/bet-signals/internal/models"
	"github.com/yourusername/bet-signals/internal/rowsource"
)

// PendingHandler receives today's pending records after each successful
// refresh. The notifier watcher hangs off this hook.
type PendingHandler func(pending []models.MatchRecord)

// Refresher runs the full fetch → normalize → aggregate → publish cycle.
// Refreshes are serialized: a trigger arriving while one is in flight is
// skipped rather than queued, so polling, push events and manual triggers
// can all share one instance safely.
type Refresher struct {
	source     rowsource.RowSource
	normalizer *Normalizer
	aggregator *Aggregator
	store      *SnapshotStore
	logger     *logrus.Logger
	onPending  PendingHandler

	inFlight atomic.Bool
}

// NewRefresher creates a refresh orchestrator.
func NewRefresher(
	source rowsource.RowSource,
	normalizer *Normalizer,
	aggregator *Aggregator,
	store *SnapshotStore,
	logger *logrus.Logger,
) *Refresher {
	return &Refresher{
		source:     source,
		normalizer: normalizer,
		aggregator: aggregator,
		store:      store,
		logger:     logger,
	}
}

// OnPending registers the hook invoked with today's pending records after
// every successful refresh. Must be called before the first refresh.
func (r *Refresher) OnPending(h PendingHandler) {
	r.onPending = h
}

// Refresh executes one full cycle. A fetch failure keeps the previous
// views and marks them stale; it is reported to the caller for logging but
// never crashes the cycle owner. A refresh already in flight returns
// models.ErrRefreshActive.
func (r *Refresher) Refresh(ctx context.Context) error {
	if !r.inFlight.CompareAndSwap(false, true) {
		r.logger.Debug("Refresh skipped, another refresh is in flight")
		return models.ErrRefreshActive
	}
	defer r.inFlight.Store(false)

	start := time.Now()
	metrics.RefreshesTotal.Inc()

	rows, err := r.source.FetchRows(ctx)
	if err != nil {
		metrics.RefreshFailuresTotal.Inc()
		metrics.DataStale.Set(1)
		r.store.MarkStale()
		r.logger.WithError(err).WithField("source", r.source.Name()).
			Warn("Fetch failed, keeping last-known-good views")
		return err
	}

	records, dropped := r.normalizer.NormalizeRows(rows)
	metrics.RowsFetched.Set(float64(len(rows)))
	metrics.RowsDroppedTotal.Add(float64(dropped))

	views := Views{
		Stats:        r.aggregator.SportStats(records),
		Daily:        r.aggregator.DailySnapshot(records),
		Monthly:      r.aggregator.MonthlyReport(records),
		Transparency: r.aggregator.Transparency(records),
		Predictions:  r.aggregator.Predictions(records),
		Pending:      r.aggregator.PendingToday(records),
		Records:      records,
	}
	r.store.Publish(views)

	metrics.DataStale.Set(0)
	metrics.LastRefreshTimestamp.SetToCurrentTime()
	metrics.RefreshDuration.Observe(time.Since(start).Seconds())

	r.logger.WithFields(logrus.Fields{
		"source":  r.source.Name(),
		"rows":    len(rows),
		"records": len(records),
		"dropped": dropped,
		"pending": len(views.Pending),
	}).Info("Refresh complete")

	if r.onPending != nil {
		r.onPending(views.Pending)
	}
	return nil
}
