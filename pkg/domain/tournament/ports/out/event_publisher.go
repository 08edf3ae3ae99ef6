package tournament_out

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// EventType names a domain event emitted after a committed transition.
type EventType string

const (
	EventTournamentStarted  EventType = "tournament.started"
	EventMatchRecorded      EventType = "match.recorded"
	EventTournamentFinished EventType = "tournament.finished"
	EventRatingsUpdated     EventType = "rating.updated"
)

// Event is the envelope published to the message bus and the live hub.
// Publish failures are logged, never propagated into the transition result.
type Event struct {
	Type         EventType      `json:"type"`
	TournamentID uuid.UUID      `json:"tournament_id"`
	OccurredAt   time.Time      `json:"occurred_at"`
	Payload      map[string]any `json:"payload,omitempty"`
}

// EventPublisher delivers domain events to interested consumers.
type EventPublisher interface {
	Publish(ctx context.Context, event Event) error
}
