package notifier

import (
	"context"

	"github.com/sirupsen/logrus"
)

// LogSink writes alerts to the structured log. Always enabled, so every
// alert leaves an audit trail even when no external sink is configured.
type LogSink struct {
	logger *logrus.Logger
}

// NewLogSink creates a log-backed alert sink.
func NewLogSink(logger *logrus.Logger) *LogSink {
	return &LogSink{logger: logger}
}

// Name identifies the sink in logs and metrics.
func (l *LogSink) Name() string {
	return "log"
}

// Send logs the alert at info level.
func (l *LogSink) Send(_ context.Context, alert Alert) error {
	l.logger.WithFields(logrus.Fields{
		"match_id":    alert.MatchID.String(),
		"title":       alert.Title,
		"starts_in":   alert.MinutesUntilStart,
		"description": alert.Description,
	}).Info("Upcoming match alert")
	return nil
}
