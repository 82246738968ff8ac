package notification

import (
	"context"
	"log/slog"
)

// LogSink records events to the service log. Used when no broker is
// configured, keeping local development free of Kafka.
type LogSink struct {
	logger *slog.Logger
}

// NewLogSink constructs a log-only sink.
func NewLogSink(logger *slog.Logger) *LogSink {
	return &LogSink{logger: logger}
}

func (s *LogSink) Deliver(ctx context.Context, event Event) error {
	s.logger.InfoContext(ctx, "status change notification",
		"event_id", event.ID,
		"petition_id", event.PetitionID,
		"old_status", event.OldStatus,
		"new_status", event.NewStatus,
		"recipient_count", len(event.Recipients),
	)
	return nil
}
