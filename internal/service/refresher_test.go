package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/bet-signals/internal/models"
	"github.com/yourusername/bet-signals/internal/rowsource"
)

// stubSource is an in-memory RowSource with switchable failure mode.
type stubSource struct {
	mu    sync.Mutex
	rows  []rowsource.RawRow
	err   error
	block chan struct{}
}

func (s *stubSource) FetchRows(ctx context.Context) ([]rowsource.RawRow, error) {
	if s.block != nil {
		select {
		case <-s.block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	return s.rows, nil
}

func (s *stubSource) Name() string { return "stub" }

func (s *stubSource) Ping(ctx context.Context) error { return nil }

func (s *stubSource) setError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

func newTestRefresher(source *stubSource) (*Refresher, *SnapshotStore) {
	store := NewSnapshotStore()
	agg := NewAggregator(100, 30)
	agg.SetClock(func() time.Time { return fixedNow })
	return NewRefresher(source, NewNormalizer(testLogger()), agg, store, testLogger()), store
}

func TestRefreshPublishesViews(t *testing.T) {
	source := &stubSource{rows: []rowsource.RawRow{baseRow()}}
	refresher, store := newTestRefresher(source)

	require.NoError(t, refresher.Refresh(context.Background()))

	views, ok := store.Views()
	require.True(t, ok)
	assert.Len(t, views.Stats, 1)
	assert.False(t, store.IsStale())
	assert.False(t, store.LastUpdated().IsZero())
}

func TestRefreshFailureKeepsLastKnownGood(t *testing.T) {
	source := &stubSource{rows: []rowsource.RawRow{baseRow()}}
	refresher, store := newTestRefresher(source)

	require.NoError(t, refresher.Refresh(context.Background()))
	firstUpdate := store.LastUpdated()

	source.setError(errors.New("upstream down"))
	err := refresher.Refresh(context.Background())
	require.Error(t, err)

	// Previous views survive, flagged stale.
	views, ok := store.Views()
	require.True(t, ok)
	assert.Len(t, views.Stats, 1)
	assert.True(t, store.IsStale())
	assert.Equal(t, firstUpdate, store.LastUpdated())

	// A later success clears the flag.
	source.setError(nil)
	require.NoError(t, refresher.Refresh(context.Background()))
	assert.False(t, store.IsStale())
}

func TestRefreshBeforeFirstSuccessHasNoViews(t *testing.T) {
	source := &stubSource{err: errors.New("upstream down")}
	refresher, store := newTestRefresher(source)

	require.Error(t, refresher.Refresh(context.Background()))
	_, ok := store.Views()
	assert.False(t, ok)
}

func TestRefreshSkipsWhenInFlight(t *testing.T) {
	source := &stubSource{rows: []rowsource.RawRow{baseRow()}, block: make(chan struct{})}
	refresher, _ := newTestRefresher(source)

	done := make(chan error, 1)
	go func() {
		done <- refresher.Refresh(context.Background())
	}()

	// Give the first refresh time to take the in-flight slot.
	require.Eventually(t, func() bool {
		return errors.Is(refresher.Refresh(context.Background()), models.ErrRefreshActive)
	}, time.Second, 10*time.Millisecond)

	close(source.block)
	require.NoError(t, <-done)
}

func TestRefreshInvokesPendingHook(t *testing.T) {
	pendingRow := baseRow()
	pendingRow.Date = fixedNow.Format("2006-01-02")
	pendingRow.Status = "PENDING"

	source := &stubSource{rows: []rowsource.RawRow{pendingRow, baseRow()}}
	refresher, _ := newTestRefresher(source)

	var got []models.MatchRecord
	refresher.OnPending(func(pending []models.MatchRecord) {
		got = pending
	})

	require.NoError(t, refresher.Refresh(context.Background()))
	require.Len(t, got, 1)
	assert.Equal(t, models.StatusPending, got[0].Status)
}
