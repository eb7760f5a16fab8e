package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/bet-signals/internal/config"
	"github.com/yourusername/bet-signals/internal/models"
	"github.com/yourusername/bet-signals/internal/service"
)

func newTestServer() (*Server, *service.SnapshotStore) {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	store := service.NewSnapshotStore()
	agg := service.NewAggregator(100, 30)
	cfg := &config.Config{Server: config.ServerConfig{Port: 8090}}
	return NewServer(store, agg, cfg, logger), store
}

func publishedRecord(sport, league, date, clock string, status models.Status) models.MatchRecord {
	return models.MatchRecord{
		ID:          models.NewMatchID(sport, date, clock, "Home FC", "Away FC"),
		Sport:       sport,
		League:      league,
		HomeTeam:    "Home FC",
		AwayTeam:    "Away FC",
		Date:        date,
		Time:        clock,
		Strategy:    "OVER_25",
		Pick:        "Over 2.5",
		Probability: 60,
		Odds:        decimal.RequireFromString("1.85"),
		Status:      status,
	}
}

func TestHandlersBeforeFirstRefresh(t *testing.T) {
	srv, _ := newTestServer()

	rec := httptest.NewRecorder()
	srv.handleHistory(rec, httptest.NewRequest(http.MethodGet, "/api/v1/history", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	rec = httptest.NewRecorder()
	srv.handleStats(rec, httptest.NewRequest(http.MethodGet, "/api/v1/stats", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestHandleDailyNoCompletedDay(t *testing.T) {
	srv, store := newTestServer()
	store.Publish(service.Views{})

	rec := httptest.NewRecorder()
	srv.handleDaily(rec, httptest.NewRequest(http.MethodGet, "/api/v1/profitability/daily", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestHandleHistoryFiltersAndEnvelope(t *testing.T) {
	srv, store := newTestServer()
	store.Publish(service.Views{Records: []models.MatchRecord{
		publishedRecord("futbol", "LaLiga", "2026-08-26", "18:00", models.StatusWon),
		publishedRecord("nba", "NBA", "2026-08-27", "22:00", models.StatusLost),
	}})

	rec := httptest.NewRecorder()
	srv.handleHistory(rec, httptest.NewRequest(http.MethodGet, "/api/v1/history?sport=futbol&page=1", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data        models.HistoryPage `json:"data"`
		LastUpdated string             `json:"last_updated"`
		Stale       bool               `json:"stale"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	require.Len(t, resp.Data.Entries, 1)
	assert.Equal(t, "futbol", resp.Data.Entries[0].SportKey)
	assert.Equal(t, 15, resp.Data.PerPage)
	assert.Equal(t, []string{"futbol", "nba"}, resp.Data.Filters.Sports)
	assert.False(t, resp.Stale)
	assert.NotEmpty(t, resp.LastUpdated)
}

func TestHandleHistoryBadPage(t *testing.T) {
	srv, store := newTestServer()
	store.Publish(service.Views{})

	for _, page := range []string{"0", "-1", "abc"} {
		rec := httptest.NewRecorder()
		srv.handleHistory(rec, httptest.NewRequest(http.MethodGet, "/api/v1/history?page="+page, nil))
		assert.Equal(t, http.StatusBadRequest, rec.Code, "page=%s", page)
	}
}
