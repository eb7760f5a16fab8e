// Package rowsource provides access to raw match rows from the configured
// backing store: a published spreadsheet CSV export or a Postgres table.
package rowsource

import (
	"context"
	"errors"
)

// RowSource is the only interface the aggregation core depends on.
type RowSource interface {
	// FetchRows retrieves the full ordered set of raw match rows.
	FetchRows(ctx context.Context) ([]RawRow, error)

	// Name returns the name of the row source.
	Name() string

	// Ping verifies the source is reachable.
	Ping(ctx context.Context) error
}

// RawRow is a named-field raw match record. Both backends decode into this
// shape so positional fragility stays inside the sheet adapter. All fields
// are raw strings with no validity guarantee; the normalizer decides what
// survives.
type RawRow struct {
	Sport     string
	League    string
	HomeTeam  string
	AwayTeam  string
	Date      string
	Time      string
	Strategy  string
	ProbHome  string
	ProbDraw  string
	ProbAway  string
	ProbOver  string
	ProbUnder string
	Odds      string
	Status    string
}

// SourceError represents errors from row source operations.
type SourceError struct {
	Source  string // Row source name
	Code    string // Error code (e.g. "source_unavailable")
	Message string // Error message
	Err     error  // Underlying error
}

func (e SourceError) Error() string {
	if e.Err != nil {
		return e.Source + ": " + e.Code + ": " + e.Message + " (" + e.Err.Error() + ")"
	}
	return e.Source + ": " + e.Code + ": " + e.Message
}

func (e SourceError) Unwrap() error {
	return e.Err
}

// Common error codes
const (
	ErrCodeSourceUnavailable = "source_unavailable"
	ErrCodeBadPayload        = "bad_payload"
	ErrCodeRateLimitExceeded = "rate_limit_exceeded"
	ErrCodeUnknown           = "unknown"
)

// ErrSourceUnavailable marks a fetch that failed at the network/store layer.
// Callers treat it as "no data this cycle" and keep the previous views.
var ErrSourceUnavailable = errors.New("row source unavailable")

// NewSourceError creates a new row source error.
func NewSourceError(source, code, message string, err error) SourceError {
	return SourceError{
		Source:  source,
		Code:    code,
		Message: message,
		Err:     err,
	}
}
