// Package notifier watches today's pending matches and emits an alert for
// each one shortly before kickoff, at most once per match per process
// session.
package notifier

import (
	"context"

	"github.com/google/uuid"
)

// Alert is the delivery-ready payload for one upcoming match.
type Alert struct {
	MatchID           uuid.UUID `json:"match_id"`
	Title             string    `json:"title"`
	Description       string    `json:"description"`
	Duration          int       `json:"duration_ms"`
	ActionLabel       string    `json:"action_label"`
	MinutesUntilStart int       `json:"minutes_until_start"`
}

// AlertSink delivers alerts to one channel. Sinks must be safe for
// concurrent use; delivery failures are logged and counted, never retried.
type AlertSink interface {
	Send(ctx context.Context, alert Alert) error
	Name() string
}
