package notify

import (
	"context"

	"github.com/rs/zerolog"
)

// LogNotifier writes messages to the log instead of an external channel. It
// stands in for Telegram when no bot is configured.
type LogNotifier struct {
	logger zerolog.Logger
}

var _ Notifier = (*LogNotifier)(nil)

// NewLogNotifier constructs a log-only notifier.
func NewLogNotifier(logger zerolog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger.With().Str("component", "log_notifier").Logger()}
}

// Notify logs the rendered message at info level.
func (n *LogNotifier) Notify(_ context.Context, text string) error {
	n.logger.Info().Str("message", text).Msg("notification (telegram disabled)")
	return nil
}
