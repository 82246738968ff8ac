package notification

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"agora/pkg/requestcontext"
)

// Publisher hands status-change events to the background worker. Emit never
// blocks the transition path: when the buffer is full the event is dropped
// with a warning, because the committed status change is the source of truth
// and notification delivery is best-effort.
type Publisher struct {
	inbox  chan<- Event
	logger *slog.Logger
}

// NewPublisher constructs a publisher writing into inbox.
func NewPublisher(inbox chan<- Event, logger *slog.Logger) *Publisher {
	return &Publisher{inbox: inbox, logger: logger}
}

// Emit enqueues the event, filling in ID and timestamp when absent.
func (p *Publisher) Emit(ctx context.Context, event Event) {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = requestcontext.Now(ctx)
	}

	select {
	case p.inbox <- event:
	default:
		p.logger.WarnContext(ctx, "notification buffer full, dropping event",
			"event_id", event.ID,
			"petition_id", event.PetitionID,
		)
	}
}

// Worker consumes events from a channel and forwards them to a sink. It
// keeps background processing testable without wiring broker implementations
// into services.
type Worker struct {
	sink   Sink
	inbox  <-chan Event
	logger *slog.Logger
}

// Sink is where the worker delivers events (Kafka in production, a log sink
// when no broker is configured).
type Sink interface {
	Deliver(ctx context.Context, event Event) error
}

// NewWorker constructs a worker draining inbox into sink.
func NewWorker(sink Sink, inbox <-chan Event, logger *slog.Logger) *Worker {
	return &Worker{sink: sink, inbox: inbox, logger: logger}
}

// Run drains the inbox until ctx is cancelled. Sink failures are logged and
// skipped; a broker outage must not stop the worker.
func (w *Worker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event := <-w.inbox:
			deliverCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			err := w.sink.Deliver(deliverCtx, event)
			cancel()
			if err != nil {
				w.logger.ErrorContext(ctx, "notification delivery failed",
					"event_id", event.ID,
					"petition_id", event.PetitionID,
					"error", err,
				)
			}
		}
	}
}
