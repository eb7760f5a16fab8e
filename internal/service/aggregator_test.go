package service

import (
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/bet-signals/internal/models"
)

// fixedNow is the reference instant for all aggregator tests:
// "today" is 2026-08-28.
var fixedNow = time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)

func newTestAggregator() *Aggregator {
	agg := NewAggregator(100, 30)
	agg.SetClock(func() time.Time { return fixedNow })
	return agg
}

func record(sport, date, clock string, status models.Status, odds string) models.MatchRecord {
	return models.MatchRecord{
		ID:          models.NewMatchID(sport, date, clock, "Home FC", "Away FC"),
		Sport:       sport,
		League:      "Test League",
		HomeTeam:    "Home FC",
		AwayTeam:    "Away FC",
		Date:        date,
		Time:        clock,
		Strategy:    "OVER_25",
		Pick:        "Over 2.5",
		Probability: 60,
		Odds:        decimal.RequireFromString(odds),
		Status:      status,
	}
}

func TestSportStats(t *testing.T) {
	agg := newTestAggregator()

	records := []models.MatchRecord{
		record("futbol", "2026-08-25", "18:00", models.StatusWon, "1.85"),
		record("futbol", "2026-08-26", "18:00", models.StatusLost, "1.90"),
		record("futbol", "2026-08-27", "18:00", models.StatusWon, "1.70"),
		record("nba", "2026-08-27", "22:00", models.StatusWon, "1.60"),
		record("nba", "2026-08-28", "22:00", models.StatusPending, "1.95"), // today, excluded
		record("mlb", "2026-08-27", "20:00", models.StatusVoid, "2.00"),    // void, excluded
	}

	stats := agg.SportStats(records)
	require.Len(t, stats, 2)

	// Most active sport first.
	assert.Equal(t, 3, stats[0].Total)
	assert.Equal(t, 67, stats[0].Rate)
	assert.Equal(t, 1, stats[1].Total)
	assert.Equal(t, 100, stats[1].Rate)
}

func TestSportStatsEmpty(t *testing.T) {
	agg := newTestAggregator()
	assert.Empty(t, agg.SportStats(nil))
}

func TestDailySnapshot(t *testing.T) {
	agg := newTestAggregator()

	records := []models.MatchRecord{
		record("futbol", "2026-08-27", "18:00", models.StatusWon, "1.85"),
		record("futbol", "2026-08-27", "20:00", models.StatusLost, "1.90"),
		record("futbol", "2026-08-26", "18:00", models.StatusWon, "3.00"), // older day, ignored
		record("nba", "2026-08-28", "22:00", models.StatusWon, "1.60"),    // today, excluded
	}

	snap := agg.DailySnapshot(records)
	require.NotNil(t, snap)
	assert.Equal(t, "2026-08-27", snap.Date)
	require.Len(t, snap.Matches, 2)

	// Won at 1.85 with stake 100 returns 185; lost returns 0.
	assert.Equal(t, 2, snap.Totals.TotalBets)
	assert.Equal(t, "200", snap.Totals.TotalWagered.String())
	assert.Equal(t, "185", snap.Totals.TotalReturn.String())
	assert.Equal(t, "-15", snap.Totals.NetProfit.String())
	assert.Equal(t, "-7.5", snap.Totals.Yield.String())
}

func TestDailySnapshotNoCompletedDays(t *testing.T) {
	agg := newTestAggregator()

	records := []models.MatchRecord{
		record("futbol", "2026-08-28", "18:00", models.StatusWon, "1.85"),     // today
		record("futbol", "2026-08-27", "18:00", models.StatusPending, "1.85"), // not completed
	}
	assert.Nil(t, agg.DailySnapshot(records))
}

func TestMonthlyReportWindow(t *testing.T) {
	agg := newTestAggregator()

	// With today = 2026-08-28 and a 30-day window, 2026-07-29 is the oldest
	// included date and 2026-07-28 the newest excluded one.
	records := []models.MatchRecord{
		record("futbol", "2026-08-27", "18:00", models.StatusWon, "2.00"),
		record("futbol", "2026-08-10", "18:00", models.StatusLost, "1.90"),
		record("nba", "2026-08-20", "22:00", models.StatusWon, "1.50"),
		record("mlb", "2026-07-29", "20:00", models.StatusWon, "2.00"), // exactly today-30, included
		record("mlb", "2026-07-28", "20:00", models.StatusWon, "9.00"), // today-31, excluded
		record("futbol", "2026-07-01", "18:00", models.StatusWon, "5.00"), // well before window
		record("futbol", "2026-08-28", "18:00", models.StatusWon, "2.00"), // today, excluded
	}

	report := agg.MonthlyReport(records)
	require.NotNil(t, report)

	assert.Equal(t, "2026-07-29", report.StartDate)
	assert.Equal(t, "2026-08-27", report.EndDate)
	assert.Equal(t, 4, report.DaysWithData)
	assert.Equal(t, 4, report.Totals.TotalBets)
	// 100*2.00 + 0 + 100*1.50 + 100*2.00 = 550 returned on 400 wagered; the
	// 9.00 winner outside the window never shows up.
	assert.Equal(t, "150", report.Totals.NetProfit.String())
	assert.Equal(t, "37.5", report.Totals.Yield.String())

	require.Len(t, report.Sports, 3)
	// Sorted by descending net profit: mlb +100, nba +50, futbol 0.
	assert.Equal(t, "100", report.Sports[0].NetProfit.String())
	assert.Equal(t, 1, report.Sports[0].Wins)
	assert.Equal(t, "50", report.Sports[1].NetProfit.String())
	assert.Equal(t, "0", report.Sports[2].NetProfit.String())
	assert.Equal(t, 1, report.Sports[2].Wins)
	assert.Equal(t, 1, report.Sports[2].Losses)
}

func TestMonthlyReportEmptyWindow(t *testing.T) {
	agg := newTestAggregator()

	records := []models.MatchRecord{
		record("futbol", "2026-06-01", "18:00", models.StatusWon, "2.00"),
	}
	assert.Nil(t, agg.MonthlyReport(records))
}

func TestTransparencyDedupsResultsPerSport(t *testing.T) {
	agg := newTestAggregator()

	records := []models.MatchRecord{
		record("futbol", "2026-08-27", "18:00", models.StatusWon, "1.85"),
		record("futbol", "2026-08-27", "20:00", models.StatusLost, "1.90"),
		record("nba", "2026-08-27", "22:00", models.StatusWon, "1.60"),
	}

	snap := agg.Transparency(records)
	require.NotNil(t, snap)
	assert.Equal(t, "2026-08-27", snap.Date)

	// Ticker shows everything, results keep one entry per sport.
	assert.Len(t, snap.Ticker, 3)
	require.Len(t, snap.Results, 2)
	assert.Equal(t, "WIN", snap.Results[0].Status)
}

func TestPendingTodaySortedByTime(t *testing.T) {
	agg := newTestAggregator()

	records := []models.MatchRecord{
		record("futbol", "2026-08-28", "21:00", models.StatusPending, "1.85"),
		record("nba", "2026-08-28", "18:30", models.StatusPending, "1.60"),
		record("futbol", "2026-08-28", "20:00", models.StatusWon, "1.85"),     // completed
		record("futbol", "2026-08-29", "12:00", models.StatusPending, "1.85"), // tomorrow
	}

	pending := agg.PendingToday(records)
	require.Len(t, pending, 2)
	assert.Equal(t, "18:30", pending[0].Time)
	assert.Equal(t, "21:00", pending[1].Time)
}

func TestPredictionsMirrorPending(t *testing.T) {
	agg := newTestAggregator()

	records := []models.MatchRecord{
		record("futbol", "2026-08-28", "21:00", models.StatusPending, "1.85"),
	}

	preds := agg.Predictions(records)
	require.Len(t, preds, 1)
	assert.Equal(t, "Home FC vs Away FC", preds[0].Match)
	assert.Equal(t, "Over 2.5", preds[0].Pick)
	assert.NotEmpty(t, preds[0].ID)
}

func TestHistoryFilteringAndOrder(t *testing.T) {
	agg := newTestAggregator()

	records := []models.MatchRecord{
		record("futbol", "2026-08-26", "18:00", models.StatusWon, "1.85"),
		record("nba", "2026-08-27", "22:00", models.StatusLost, "1.60"),
		record("futbol", "2026-08-27", "20:00", models.StatusPending, "1.90"),
	}

	page := agg.History(records, HistoryQuery{})
	require.NotNil(t, page)
	require.Len(t, page.Entries, 3)

	// Newest first: date desc, then time desc within the same date.
	assert.Equal(t, "22:00", page.Entries[0].Time)
	assert.Equal(t, "20:00", page.Entries[1].Time)
	assert.Equal(t, "2026-08-26", page.Entries[2].Date)

	// Sport filter on the key, case-insensitive.
	page = agg.History(records, HistoryQuery{Sport: "FUTBOL"})
	require.Len(t, page.Entries, 2)
	assert.Equal(t, "futbol", page.Entries[0].SportKey)

	// Status filter on the display vocabulary.
	page = agg.History(records, HistoryQuery{Status: "LOSS"})
	require.Len(t, page.Entries, 1)
	assert.Equal(t, "LOSS", page.Entries[0].Status)

	// Filter metadata spans the full set regardless of the active filter.
	assert.Equal(t, []string{"futbol", "nba"}, page.Filters.Sports)
	assert.Equal(t, []string{"LOSS", "PENDING", "WIN"}, page.Filters.Statuses)
	assert.Equal(t, 1, page.TotalEntries)
}

func TestHistoryPagination(t *testing.T) {
	agg := newTestAggregator()

	records := make([]models.MatchRecord, 0, 17)
	for i := 0; i < 17; i++ {
		clock := fmt.Sprintf("%02d:00", i)
		records = append(records, record("futbol", "2026-08-27", clock, models.StatusWon, "1.85"))
	}

	first := agg.History(records, HistoryQuery{Page: 1})
	require.Len(t, first.Entries, 15)
	assert.Equal(t, 15, first.PerPage)
	assert.Equal(t, 2, first.TotalPages)
	assert.Equal(t, 17, first.TotalEntries)
	assert.Equal(t, "16:00", first.Entries[0].Time)

	second := agg.History(records, HistoryQuery{Page: 2})
	require.Len(t, second.Entries, 2)
	assert.Equal(t, "00:00", second.Entries[1].Time)

	// Past the end: empty page, same counts.
	third := agg.History(records, HistoryQuery{Page: 3})
	assert.Empty(t, third.Entries)
	assert.Equal(t, 2, third.TotalPages)

	// Page defaults to 1.
	assert.Len(t, agg.History(records, HistoryQuery{}).Entries, 15)
}

func TestYieldPercent(t *testing.T) {
	zero := yieldPercent(decimal.NewFromInt(50), decimal.Zero)
	assert.True(t, zero.IsZero())

	y := yieldPercent(decimal.NewFromInt(-15), decimal.NewFromInt(200))
	assert.Equal(t, "-7.5", y.String())
}
