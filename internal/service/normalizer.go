package service

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/bet-signals/internal/models"
	"github.com/yourusername/bet-signals/internal/rowsource"
)

// Normalizer maps raw source rows into canonical match records, resolving
// which side of the market was picked and at what quoted probability.
type Normalizer struct {
	logger *logrus.Logger
}

// NewNormalizer creates a new row normalizer
func NewNormalizer(logger *logrus.Logger) *Normalizer {
	return &Normalizer{logger: logger}
}

// NormalizeRows converts a fetched batch into match records. Rows that fail
// normalization are dropped, not errors; the dropped count is returned for
// observability.
func (n *Normalizer) NormalizeRows(rows []rowsource.RawRow) ([]models.MatchRecord, int) {
	records := make([]models.MatchRecord, 0, len(rows))
	dropped := 0

	for _, row := range rows {
		rec, ok := n.Normalize(row)
		if !ok {
			dropped++
			continue
		}
		records = append(records, rec)
	}

	if dropped > 0 {
		n.logger.WithField("dropped", dropped).Debug("Dropped rows during normalization")
	}
	return records, dropped
}

// Normalize converts one raw row into a canonical MatchRecord. The boolean
// is false when the row is dropped: missing identity fields, an
// unrecognized strategy tag, an empty pick, or a resolved probability that
// does not parse above zero.
func (n *Normalizer) Normalize(row rowsource.RawRow) (models.MatchRecord, bool) {
	if row.Sport == "" || row.HomeTeam == "" || row.AwayTeam == "" || row.Date == "" {
		return models.MatchRecord{}, false
	}

	pick, probability, ok := resolvePick(row)
	if !ok || pick == "" || probability <= 0 {
		return models.MatchRecord{}, false
	}

	odds, err := decimal.NewFromString(strings.TrimSpace(row.Odds))
	if err != nil {
		odds = decimal.Zero
	}

	return models.MatchRecord{
		ID:          models.NewMatchID(row.Sport, row.Date, row.Time, row.HomeTeam, row.AwayTeam),
		Sport:       strings.ToLower(strings.TrimSpace(row.Sport)),
		League:      row.League,
		HomeTeam:    row.HomeTeam,
		AwayTeam:    row.AwayTeam,
		Date:        row.Date,
		Time:        row.Time,
		Strategy:    row.Strategy,
		Pick:        pick,
		Probability: probability,
		Odds:        odds,
		Status:      models.ParseStatus(strings.ToUpper(strings.TrimSpace(row.Status))),
	}, true
}

// resolvePick applies the pick-resolution policy to the strategy tag. The
// branch order is significant: a tag containing both OVER and HOME resolves
// via the OVER branch.
func resolvePick(row rowsource.RawRow) (string, float64, bool) {
	tag := strings.ToUpper(row.Strategy)

	switch {
	case strings.Contains(tag, "OVER"):
		return "Over 2.5", parsePercent(row.ProbOver), true
	case strings.Contains(tag, "UNDER"):
		return "Under 2.5", parsePercent(row.ProbUnder), true
	case strings.Contains(tag, "HOME"), strings.Contains(tag, "1X2"), strings.Contains(tag, "1X_"):
		return row.HomeTeam, parsePercent(row.ProbHome), true
	case strings.Contains(tag, "AWAY"):
		return row.AwayTeam, parsePercent(row.ProbAway), true
	case strings.Contains(tag, "MONEYLINE"):
		home := parsePercent(row.ProbHome)
		away := parsePercent(row.ProbAway)
		if home >= away {
			return row.HomeTeam, home, true
		}
		return row.AwayTeam, away, true
	default:
		return "", 0, false
	}
}

// parsePercent parses a probability cell. Values may carry a trailing "%".
// Unparsable cells come back as 0, which the caller drops.
func parsePercent(s string) float64 {
	s = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "%"))
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}
