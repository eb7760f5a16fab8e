package notifier

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/bet-signals/internal/models"
)

// captureSink records every alert it receives.
type captureSink struct {
	mu     sync.Mutex
	alerts []Alert
	err    error
}

func (c *captureSink) Name() string { return "capture" }

func (c *captureSink) Send(_ context.Context, alert Alert) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return c.err
	}
	c.alerts = append(c.alerts, alert)
	return nil
}

func (c *captureSink) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.alerts)
}

var watcherNow = time.Date(2026, 8, 28, 17, 45, 0, 0, time.UTC)

func pendingMatch(sport, clock string) models.MatchRecord {
	date := watcherNow.Format("2006-01-02")
	return models.MatchRecord{
		ID:          models.NewMatchID(sport, date, clock, "Home FC", "Away FC"),
		Sport:       sport,
		HomeTeam:    "Home FC",
		AwayTeam:    "Away FC",
		Date:        date,
		Time:        clock,
		Pick:        "Over 2.5",
		Probability: 62,
		Odds:        decimal.RequireFromString("1.85"),
		Status:      models.StatusPending,
	}
}

func newTestWatcher(sink AlertSink) *Watcher {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	w := NewWatcher(NewMemoryStore(), []AlertSink{sink}, 30*time.Minute, time.Minute, logger)
	w.SetClock(func() time.Time { return watcherNow })
	return w
}

func TestWatcherAlertsInsideWindow(t *testing.T) {
	sink := &captureSink{}
	w := newTestWatcher(sink)

	// 17:45 now, lookahead 30m: 18:00 and 18:15 are inside the window,
	// 19:00 is outside, 17:30 already started.
	w.UpdateBets(context.Background(), []models.MatchRecord{
		pendingMatch("futbol", "18:00"),
		pendingMatch("nba", "18:15"),
		pendingMatch("mlb", "19:00"),
		pendingMatch("nhl", "17:30"),
	})

	require.Equal(t, 2, sink.count())
	assert.Equal(t, 15, sink.alerts[0].MinutesUntilStart)
	assert.Contains(t, sink.alerts[0].Description, "Pick: Over 2.5")
	assert.Equal(t, alertDurationMs, sink.alerts[0].Duration)
}

func TestWatcherBoundaryExactlyLookahead(t *testing.T) {
	sink := &captureSink{}
	w := newTestWatcher(sink)

	w.UpdateBets(context.Background(), []models.MatchRecord{
		pendingMatch("futbol", "18:15"),
	})
	require.Equal(t, 1, sink.count())
	assert.Equal(t, 30, sink.alerts[0].MinutesUntilStart)
}

func TestWatcherMinutesUntilStartRoundsUp(t *testing.T) {
	sink := &captureSink{}
	w := newTestWatcher(sink)
	// 17:45:30 now, match at 18:00 is 14.5 minutes out: reported as 15.
	w.SetClock(func() time.Time { return watcherNow.Add(30 * time.Second) })

	w.UpdateBets(context.Background(), []models.MatchRecord{
		pendingMatch("futbol", "18:00"),
	})
	require.Equal(t, 1, sink.count())
	assert.Equal(t, 15, sink.alerts[0].MinutesUntilStart)
	assert.Contains(t, sink.alerts[0].Description, "Empieza en 15 min")
}

func TestWatcherAtMostOncePerMatch(t *testing.T) {
	sink := &captureSink{}
	w := newTestWatcher(sink)

	pending := []models.MatchRecord{pendingMatch("futbol", "18:00")}
	w.UpdateBets(context.Background(), pending)
	require.Equal(t, 1, sink.count())

	// Re-checking the same set, as every tick does, fires nothing new.
	w.Check(context.Background())
	w.UpdateBets(context.Background(), pending)
	assert.Equal(t, 1, sink.count())
}

func TestWatcherSkipsUnparsableStartTime(t *testing.T) {
	sink := &captureSink{}
	w := newTestWatcher(sink)

	bad := pendingMatch("futbol", "18:00")
	bad.Time = "tbd"
	w.UpdateBets(context.Background(), []models.MatchRecord{bad})
	assert.Zero(t, sink.count())
}

func TestWatcherSinkFailureDoesNotBlockOthers(t *testing.T) {
	failing := &captureSink{err: errors.New("sink down")}
	ok := &captureSink{}

	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	w := NewWatcher(NewMemoryStore(), []AlertSink{failing, ok}, 30*time.Minute, time.Minute, logger)
	w.SetClock(func() time.Time { return watcherNow })

	w.UpdateBets(context.Background(), []models.MatchRecord{pendingMatch("futbol", "18:00")})
	assert.Equal(t, 1, ok.count())
}

func TestMemoryStoreMarkAndReset(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	id := models.NewMatchID("futbol", "2026-08-28", "18:00", "A", "B")

	first, err := store.MarkNotified(ctx, id)
	require.NoError(t, err)
	assert.True(t, first)

	again, err := store.MarkNotified(ctx, id)
	require.NoError(t, err)
	assert.False(t, again)

	require.NoError(t, store.Reset(ctx))
	first, err = store.MarkNotified(ctx, id)
	require.NoError(t, err)
	assert.True(t, first)
}
