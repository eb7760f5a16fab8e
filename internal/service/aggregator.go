package service

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/yourusername/bet-signals/internal/models"
)

const dateLayout = "2006-01-02"

// historyPageSize is the fixed page length of the history listing.
const historyPageSize = 15

// Aggregator derives the four display-ready views from a fetched record
// set. Every operation is a pure function of its input; there is no
// incremental state. "Now" is injectable so date-boundary behavior is
// deterministic under test.
type Aggregator struct {
	stake      decimal.Decimal
	windowDays int
	nowFunc    func() time.Time
}

// NewAggregator creates an aggregator with the given fixed unit stake and
// trailing-window length in days.
func NewAggregator(stakeUnit float64, windowDays int) *Aggregator {
	return &Aggregator{
		stake:      decimal.NewFromFloat(stakeUnit),
		windowDays: windowDays,
		nowFunc:    time.Now,
	}
}

// SetClock overrides the wall clock. Intended for tests.
func (a *Aggregator) SetClock(now func() time.Time) {
	a.nowFunc = now
}

func (a *Aggregator) today() string {
	return a.nowFunc().UTC().Format(dateLayout)
}

// SportStats groups completed records by sport key and computes the
// rounded all-time win rate per sport, most active sport first.
func (a *Aggregator) SportStats(records []models.MatchRecord) []models.SportStat {
	type bucket struct {
		total int
		wins  int
	}
	bySport := make(map[string]*bucket)
	order := make([]string, 0)

	for _, r := range records {
		if !r.IsCompleted() {
			continue
		}
		b, ok := bySport[r.Sport]
		if !ok {
			b = &bucket{}
			bySport[r.Sport] = b
			order = append(order, r.Sport)
		}
		b.total++
		if r.Status == models.StatusWon {
			b.wins++
		}
	}

	stats := make([]models.SportStat, 0, len(order))
	for _, sport := range order {
		b := bySport[sport]
		stats = append(stats, models.SportStat{
			Sport: models.SportDisplayName(sport),
			Total: b.total,
			Rate:  int(math.Round(100 * float64(b.wins) / float64(b.total))),
		})
	}

	// Most active sport first; name as a deterministic tie-break.
	sort.SliceStable(stats, func(i, j int) bool {
		if stats[i].Total != stats[j].Total {
			return stats[i].Total > stats[j].Total
		}
		return stats[i].Sport < stats[j].Sport
	})
	return stats
}

// DailySnapshot simulates fixed-stake betting on the most recent fully
// completed day: the latest date strictly before today that has at least
// one completed record. Today's in-flight bets are excluded so a partial
// day never distorts the numbers. Returns nil when no date qualifies.
func (a *Aggregator) DailySnapshot(records []models.MatchRecord) *models.ProfitabilitySnapshot {
	date := a.latestCompletedDate(records)
	if date == "" {
		return nil
	}

	matches := make([]models.ProfitMatch, 0)
	for _, r := range records {
		if r.Date != date || !r.IsCompleted() {
			continue
		}
		ret := decimal.Zero
		if r.Status == models.StatusWon {
			ret = a.stake.Mul(r.Odds)
		}
		matches = append(matches, models.ProfitMatch{
			Sport:        models.SportDisplayName(r.Sport),
			Match:        r.Label(),
			Strategy:     r.Strategy,
			Odds:         r.Odds,
			Result:       r.Status.Display(),
			Investment:   a.stake,
			ReturnAmount: ret,
			Profit:       ret.Sub(a.stake),
		})
	}

	totals := models.ProfitTotals{TotalBets: len(matches), TotalWagered: decimal.Zero, TotalReturn: decimal.Zero}
	for _, m := range matches {
		totals.TotalWagered = totals.TotalWagered.Add(m.Investment)
		totals.TotalReturn = totals.TotalReturn.Add(m.ReturnAmount)
	}
	totals.NetProfit = totals.TotalReturn.Sub(totals.TotalWagered)
	totals.Yield = yieldPercent(totals.NetProfit, totals.TotalWagered)

	return &models.ProfitabilitySnapshot{
		Date:    date,
		Totals:  totals,
		Matches: matches,
	}
}

// MonthlyReport computes the trailing-window profitability breakdown by
// sport over [today-windowDays, today). Today is excluded. Start and end
// dates report the span of data actually present, not the nominal window.
// Returns nil when the window holds no completed records.
func (a *Aggregator) MonthlyReport(records []models.MatchRecord) *models.MonthlyProfitability {
	today := a.today()
	windowStart := a.nowFunc().UTC().AddDate(0, 0, -a.windowDays).Format(dateLayout)

	type bucket struct {
		bets     int
		wagered  decimal.Decimal
		returned decimal.Decimal
		wins     int
		losses   int
	}
	bySport := make(map[string]*bucket)
	order := make([]string, 0)

	totals := models.ProfitTotals{TotalWagered: decimal.Zero, TotalReturn: decimal.Zero}
	dates := make(map[string]struct{})

	for _, r := range records {
		if !r.IsCompleted() || r.Date < windowStart || r.Date >= today {
			continue
		}

		b, ok := bySport[r.Sport]
		if !ok {
			b = &bucket{wagered: decimal.Zero, returned: decimal.Zero}
			bySport[r.Sport] = b
			order = append(order, r.Sport)
		}

		ret := decimal.Zero
		if r.Status == models.StatusWon {
			ret = a.stake.Mul(r.Odds)
			b.wins++
		} else {
			b.losses++
		}
		b.bets++
		b.wagered = b.wagered.Add(a.stake)
		b.returned = b.returned.Add(ret)

		totals.TotalBets++
		totals.TotalWagered = totals.TotalWagered.Add(a.stake)
		totals.TotalReturn = totals.TotalReturn.Add(ret)
		dates[r.Date] = struct{}{}
	}

	if totals.TotalBets == 0 {
		return nil
	}

	sports := make([]models.SportProfitability, 0, len(order))
	for _, sport := range order {
		b := bySport[sport]
		net := b.returned.Sub(b.wagered)
		sports = append(sports, models.SportProfitability{
			Sport:        models.SportDisplayName(sport),
			TotalBets:    b.bets,
			TotalWagered: b.wagered,
			TotalReturn:  b.returned,
			NetProfit:    net,
			Yield:        yieldPercent(net, b.wagered),
			Wins:         b.wins,
			Losses:       b.losses,
		})
	}
	sort.SliceStable(sports, func(i, j int) bool {
		return sports[i].NetProfit.GreaterThan(sports[j].NetProfit)
	})

	totals.NetProfit = totals.TotalReturn.Sub(totals.TotalWagered)
	totals.Yield = yieldPercent(totals.NetProfit, totals.TotalWagered)

	presentDates := make([]string, 0, len(dates))
	for d := range dates {
		presentDates = append(presentDates, d)
	}
	sort.Strings(presentDates)

	return &models.MonthlyProfitability{
		StartDate:    presentDates[0],
		EndDate:      presentDates[len(presentDates)-1],
		DaysWithData: len(presentDates),
		Sports:       sports,
		Totals:       totals,
	}
}

// Transparency builds the verifiable-results views for the latest
// completed day: the full ticker list plus a results table capped at one
// entry per sport. Returns nil when no date qualifies.
func (a *Aggregator) Transparency(records []models.MatchRecord) *models.TransparencySnapshot {
	date := a.latestCompletedDate(records)
	if date == "" {
		return nil
	}

	ticker := make([]models.TransparencyEntry, 0)
	results := make([]models.TransparencyEntry, 0)
	seenSports := make(map[string]struct{})

	for _, r := range records {
		if r.Date != date || !r.IsCompleted() {
			continue
		}
		entry := models.TransparencyEntry{
			Sport:       models.SportDisplayName(r.Sport),
			SportKey:    r.Sport,
			League:      r.League,
			Date:        r.Date,
			Time:        r.Time,
			Match:       r.Label(),
			Pick:        r.Pick,
			Probability: r.Probability,
			Status:      r.Status.Display(),
		}
		ticker = append(ticker, entry)
		if _, dup := seenSports[r.Sport]; !dup {
			seenSports[r.Sport] = struct{}{}
			results = append(results, entry)
		}
	}

	return &models.TransparencySnapshot{
		Date:    date,
		Results: results,
		Ticker:  ticker,
	}
}

// PendingToday returns today's still-pending records, the watcher's input.
func (a *Aggregator) PendingToday(records []models.MatchRecord) []models.MatchRecord {
	today := a.today()
	pending := make([]models.MatchRecord, 0)
	for _, r := range records {
		if r.Date == today && r.Status == models.StatusPending {
			pending = append(pending, r)
		}
	}
	sort.SliceStable(pending, func(i, j int) bool {
		return pending[i].Time < pending[j].Time
	})
	return pending
}

// Predictions maps today's pending records to their display shape.
func (a *Aggregator) Predictions(records []models.MatchRecord) []models.Prediction {
	pending := a.PendingToday(records)
	preds := make([]models.Prediction, 0, len(pending))
	for _, r := range pending {
		preds = append(preds, models.Prediction{
			ID:          r.ID.String(),
			Sport:       models.SportDisplayName(r.Sport),
			League:      r.League,
			Date:        r.Date,
			Time:        r.Time,
			Match:       r.Label(),
			Pick:        r.Pick,
			Probability: r.Probability,
			Odds:        r.Odds,
			Strategy:    r.Strategy,
		})
	}
	return preds
}

// HistoryQuery narrows the history listing. Empty fields match everything.
// Sport filters on the sport key, Status on the display vocabulary; all
// matching is case-insensitive. Page is 1-based.
type HistoryQuery struct {
	Sport    string
	League   string
	Strategy string
	Status   string
	Page     int
}

func (q HistoryQuery) matches(r *models.MatchRecord) bool {
	if q.Sport != "" && !strings.EqualFold(q.Sport, r.Sport) {
		return false
	}
	if q.League != "" && !strings.EqualFold(q.League, r.League) {
		return false
	}
	if q.Strategy != "" && !strings.EqualFold(q.Strategy, r.Strategy) {
		return false
	}
	if q.Status != "" && !strings.EqualFold(q.Status, r.Status.Display()) {
		return false
	}
	return true
}

// History lists the full record set newest first, narrowed by the query and
// cut into fixed-size pages. Filter metadata always describes the complete
// set, so the display layer's filter options don't shrink as filters are
// applied. A page past the end comes back empty, not an error.
func (a *Aggregator) History(records []models.MatchRecord, q HistoryQuery) *models.HistoryPage {
	sorted := make([]models.MatchRecord, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Date != sorted[j].Date {
			return sorted[i].Date > sorted[j].Date
		}
		return sorted[i].Time > sorted[j].Time
	})

	matched := make([]models.HistoryEntry, 0)
	for i := range sorted {
		r := &sorted[i]
		if !q.matches(r) {
			continue
		}
		matched = append(matched, models.HistoryEntry{
			ID:          r.ID.String(),
			Sport:       models.SportDisplayName(r.Sport),
			SportKey:    r.Sport,
			League:      r.League,
			Date:        r.Date,
			Time:        r.Time,
			Match:       r.Label(),
			Strategy:    r.Strategy,
			Pick:        r.Pick,
			Probability: r.Probability,
			Odds:        r.Odds,
			Status:      r.Status.Display(),
		})
	}

	page := q.Page
	if page < 1 {
		page = 1
	}
	totalPages := (len(matched) + historyPageSize - 1) / historyPageSize

	entries := []models.HistoryEntry{}
	if start := (page - 1) * historyPageSize; start < len(matched) {
		end := start + historyPageSize
		if end > len(matched) {
			end = len(matched)
		}
		entries = matched[start:end]
	}

	return &models.HistoryPage{
		Entries:      entries,
		Page:         page,
		PerPage:      historyPageSize,
		TotalPages:   totalPages,
		TotalEntries: len(matched),
		Filters:      historyFilters(records),
	}
}

// historyFilters collects the distinct filterable values across the full
// record set, sorted for stable output.
func historyFilters(records []models.MatchRecord) models.HistoryFilters {
	sports := make(map[string]struct{})
	leagues := make(map[string]struct{})
	strategies := make(map[string]struct{})
	statuses := make(map[string]struct{})

	for i := range records {
		r := &records[i]
		sports[r.Sport] = struct{}{}
		if r.League != "" {
			leagues[r.League] = struct{}{}
		}
		if r.Strategy != "" {
			strategies[r.Strategy] = struct{}{}
		}
		statuses[r.Status.Display()] = struct{}{}
	}

	return models.HistoryFilters{
		Sports:     sortedKeys(sports),
		Leagues:    sortedKeys(leagues),
		Strategies: sortedKeys(strategies),
		Statuses:   sortedKeys(statuses),
	}
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// latestCompletedDate finds the most recent date strictly before today
// with at least one completed record. ISO dates compare lexicographically.
func (a *Aggregator) latestCompletedDate(records []models.MatchRecord) string {
	today := a.today()
	latest := ""
	for _, r := range records {
		if !r.IsCompleted() || r.Date >= today {
			continue
		}
		if r.Date > latest {
			latest = r.Date
		}
	}
	return latest
}

// yieldPercent computes net/wagered as a percentage rounded to 2 decimals,
// 0 when nothing was wagered.
func yieldPercent(net, wagered decimal.Decimal) decimal.Decimal {
	if wagered.IsZero() {
		return decimal.Zero
	}
	return net.Div(wagered).Mul(decimal.NewFromInt(100)).Round(2)
}
