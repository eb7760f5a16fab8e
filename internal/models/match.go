package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Status represents the stored outcome of a tracked match.
type Status string

const (
	StatusPending Status = "PENDING"
	StatusWon     Status = "WON"
	StatusLost    Status = "LOST"
	StatusVoid    Status = "VOID"
)

// Display vocabulary used by the frontend.
const (
	DisplayPending   = "PENDING"
	DisplayWin       = "WIN"
	DisplayLoss      = "LOSS"
	DisplayCancelled = "CANCELLED"
)

// ParseStatus maps raw source status text to the storage vocabulary.
// Anything unrecognized is treated as still pending.
func ParseStatus(raw string) Status {
	switch raw {
	case "WON":
		return StatusWon
	case "LOST":
		return StatusLost
	case "CANCELLED", "VOID":
		return StatusVoid
	default:
		return StatusPending
	}
}

// Display converts the storage vocabulary to the display vocabulary.
func (s Status) Display() string {
	switch s {
	case StatusWon:
		return DisplayWin
	case StatusLost:
		return DisplayLoss
	case StatusVoid:
		return DisplayCancelled
	default:
		return DisplayPending
	}
}

// IsCompleted reports whether the outcome of the match is known.
func (s Status) IsCompleted() bool {
	return s == StatusWon || s == StatusLost
}

// MatchRecord is the canonical, normalized representation of one tracked
// match prediction. It is immutable once constructed by the normalizer.
type MatchRecord struct {
	ID          uuid.UUID       `json:"id"`
	Sport       string          `json:"sport"` // lowercase key, e.g. "futbol", "nba"
	League      string          `json:"league"`
	HomeTeam    string          `json:"home_team"`
	AwayTeam    string          `json:"away_team"`
	Date        string          `json:"date"` // YYYY-MM-DD
	Time        string          `json:"time"` // HH:MM
	Strategy    string          `json:"strategy"`
	Pick        string          `json:"pick"`
	Probability float64         `json:"probability"` // percent, 0-100
	Odds        decimal.Decimal `json:"odds"`
	Status      Status          `json:"status"`
}

// Label returns the display label for the fixture.
func (m *MatchRecord) Label() string {
	return fmt.Sprintf("%s vs %s", m.HomeTeam, m.AwayTeam)
}

// StartTime parses the record's date and time as a UTC instant. The source
// stores both as separate fields with no zone information.
func (m *MatchRecord) StartTime() (time.Time, error) {
	return time.Parse("2006-01-02T15:04:05Z07:00", fmt.Sprintf("%sT%s:00Z", m.Date, m.Time))
}

// IsCompleted reports whether the record's outcome is known.
func (m *MatchRecord) IsCompleted() bool {
	return m.Status.IsCompleted()
}

// NewMatchID derives a stable identifier for a match from its identity
// fields. The same fixture always maps to the same UUID across refreshes,
// which is what keys the notifier's at-most-once delivery.
func NewMatchID(sport, date, clock, home, away string) uuid.UUID {
	key := fmt.Sprintf("%s|%s|%s|%s|%s", sport, date, clock, home, away)
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(key))
}
