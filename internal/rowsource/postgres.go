package rowsource

import (
	"context"
	"fmt"
	"strconv"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/bet-signals/internal/database"
)

const postgresSourceName = "postgres"

// PostgresSource reads match rows from the filtered_matches table. Columns
// are already typed, so no CSV decoding step is needed; the same normalizer
// semantics apply under named-field access.
type PostgresSource struct {
	db     *database.DB
	table  string
	logger *logrus.Logger
}

// NewPostgresSource creates a Postgres-backed row source.
func NewPostgresSource(db *database.DB, table string, logger *logrus.Logger) *PostgresSource {
	if table == "" {
		table = "filtered_matches"
	}
	return &PostgresSource{
		db:     db,
		table:  table,
		logger: logger,
	}
}

// Name returns the name of the row source.
func (p *PostgresSource) Name() string {
	return postgresSourceName
}

// FetchRows retrieves every tracked match row, newest date first.
func (p *PostgresSource) FetchRows(ctx context.Context) ([]RawRow, error) {
	query := fmt.Sprintf(`
		SELECT sport, league, home_team, away_team,
		       date, time, strategy,
		       COALESCE(prob_1, 0), COALESCE(prob_x, 0), COALESCE(prob_2, 0),
		       COALESCE(prob_over, 0), COALESCE(prob_under, 0),
		       COALESCE(odds, 0), status
		FROM %s
		ORDER BY date DESC, time ASC
	`, p.table)

	pgRows, err := p.db.GetPool().Query(ctx, query)
	if err != nil {
		return nil, NewSourceError(postgresSourceName, ErrCodeSourceUnavailable, "failed to query matches", err)
	}
	defer pgRows.Close()

	var rows []RawRow
	for pgRows.Next() {
		var (
			row                                             RawRow
			probHome, probDraw, probAway, over, under, odds float64
		)
		err := pgRows.Scan(
			&row.Sport, &row.League, &row.HomeTeam, &row.AwayTeam,
			&row.Date, &row.Time, &row.Strategy,
			&probHome, &probDraw, &probAway, &over, &under,
			&odds, &row.Status,
		)
		if err != nil {
			return nil, NewSourceError(postgresSourceName, ErrCodeBadPayload, "failed to scan match row", err)
		}

		row.ProbHome = formatFloat(probHome)
		row.ProbDraw = formatFloat(probDraw)
		row.ProbAway = formatFloat(probAway)
		row.ProbOver = formatFloat(over)
		row.ProbUnder = formatFloat(under)
		row.Odds = formatFloat(odds)
		rows = append(rows, row)
	}
	if err := pgRows.Err(); err != nil {
		return nil, NewSourceError(postgresSourceName, ErrCodeSourceUnavailable, "row iteration failed", err)
	}

	return rows, nil
}

// Ping verifies database connectivity.
func (p *PostgresSource) Ping(ctx context.Context) error {
	return p.db.Ping(ctx)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
