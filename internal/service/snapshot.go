package service

import (
	"sync"
	"time"

	cache "github.com/patrickmn/go-cache"

	"github.com/yourusername/bet-signals/internal/models"
)

// Cache keys for the published views.
const (
	keyStats        = "stats"
	keyDaily        = "daily"
	keyMonthly      = "monthly"
	keyTransparency = "transparency"
	keyPredictions  = "predictions"
	keyPending      = "pending"
	keyRecords      = "records"
)

// Views is the full set of aggregates published by one refresh cycle.
type Views struct {
	Stats        []models.SportStat
	Daily        *models.ProfitabilitySnapshot
	Monthly      *models.MonthlyProfitability
	Transparency *models.TransparencySnapshot
	Predictions  []models.Prediction
	Pending      []models.MatchRecord

	// Records is the full normalized record set behind the views; the
	// history endpoint filters and pages over it per request.
	Records []models.MatchRecord
}

// SnapshotStore holds the last-known-good views. Entries never expire: a
// failed refresh keeps serving the previous snapshot, only flagged stale.
type SnapshotStore struct {
	cache *cache.Cache

	mu          sync.RWMutex
	lastUpdated time.Time
	stale       bool
	hasData     bool
}

// NewSnapshotStore creates an empty snapshot store.
func NewSnapshotStore() *SnapshotStore {
	return &SnapshotStore{
		cache: cache.New(cache.NoExpiration, 0),
	}
}

// Publish replaces the stored views and clears staleness.
func (s *SnapshotStore) Publish(v Views) {
	s.cache.Set(keyStats, v.Stats, cache.NoExpiration)
	s.cache.Set(keyDaily, v.Daily, cache.NoExpiration)
	s.cache.Set(keyMonthly, v.Monthly, cache.NoExpiration)
	s.cache.Set(keyTransparency, v.Transparency, cache.NoExpiration)
	s.cache.Set(keyPredictions, v.Predictions, cache.NoExpiration)
	s.cache.Set(keyPending, v.Pending, cache.NoExpiration)
	s.cache.Set(keyRecords, v.Records, cache.NoExpiration)

	s.mu.Lock()
	s.lastUpdated = time.Now().UTC()
	s.stale = false
	s.hasData = true
	s.mu.Unlock()
}

// MarkStale records that the latest refresh failed and the stored views
// are older than the caller hoped for.
func (s *SnapshotStore) MarkStale() {
	s.mu.Lock()
	s.stale = true
	s.mu.Unlock()
}

// Views returns the stored views. The boolean is false before the first
// successful refresh.
func (s *SnapshotStore) Views() (Views, bool) {
	s.mu.RLock()
	hasData := s.hasData
	s.mu.RUnlock()
	if !hasData {
		return Views{}, false
	}

	v := Views{}
	if raw, ok := s.cache.Get(keyStats); ok {
		v.Stats, _ = raw.([]models.SportStat)
	}
	if raw, ok := s.cache.Get(keyDaily); ok {
		v.Daily, _ = raw.(*models.ProfitabilitySnapshot)
	}
	if raw, ok := s.cache.Get(keyMonthly); ok {
		v.Monthly, _ = raw.(*models.MonthlyProfitability)
	}
	if raw, ok := s.cache.Get(keyTransparency); ok {
		v.Transparency, _ = raw.(*models.TransparencySnapshot)
	}
	if raw, ok := s.cache.Get(keyPredictions); ok {
		v.Predictions, _ = raw.([]models.Prediction)
	}
	if raw, ok := s.cache.Get(keyPending); ok {
		v.Pending, _ = raw.([]models.MatchRecord)
	}
	if raw, ok := s.cache.Get(keyRecords); ok {
		v.Records, _ = raw.([]models.MatchRecord)
	}
	return v, true
}

// LastUpdated returns when the views were last successfully published.
func (s *SnapshotStore) LastUpdated() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastUpdated
}

// IsStale reports whether the most recent refresh attempt failed.
func (s *SnapshotStore) IsStale() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stale
}
