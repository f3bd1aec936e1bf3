package notify

import (
	"context"
	"log/slog"
)

// LogSender writes pushes to the structured log instead of a chat. Used in
// development and whenever LINE credentials are not configured.
type LogSender struct {
	Logger *slog.Logger
}

func NewLogSender(logger *slog.Logger) *LogSender {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogSender{Logger: logger}
}

func (s *LogSender) Push(_ context.Context, to, text string) error {
	s.Logger.Info("notification push", "to", to, "text", text)
	return nil
}
