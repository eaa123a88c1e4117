// Package notifier implements the notification sink port. The production
// build ships a slog-backed sink; actual mail delivery is owned by a
// separate service consuming these log lines or replacing this adapter.
package notifier

import (
	"context"
	"log/slog"
)

// Slog writes notifications to the structured log.
type Slog struct {
	logger *slog.Logger
}

// NewSlog returns a Slog notifier.
func NewSlog(logger *slog.Logger) *Slog {
	return &Slog{logger: logger}
}

// Notify logs the notification. Never fails.
func (n *Slog) Notify(_ context.Context, recipient, subject, body string) error {
	n.logger.Info("notification",
		slog.String("recipient", recipient),
		slog.String("subject", subject),
		slog.String("body", body))
	return nil
}
