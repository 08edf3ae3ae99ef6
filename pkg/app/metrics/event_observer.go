package metrics

import (
	"context"
	"math"

	"github.com/google/uuid"
	tournament_out "github.com/padel-api/padel-api/pkg/domain/tournament/ports/out"
)

// EventObserver counts published events and samples rating deltas off the
// match-recorded payload. Sits behind the fanout next to the real publishers.
type EventObserver struct {
	metrics *Metrics
}

func NewEventObserver(m *Metrics) *EventObserver {
	return &EventObserver{metrics: m}
}

func (o *EventObserver) Publish(_ context.Context, event tournament_out.Event) error {
	o.metrics.EventsPublished.WithLabelValues(string(event.Type)).Inc()

	if event.Type == tournament_out.EventMatchRecorded {
		if deltas, ok := event.Payload["rating_deltas"].(map[uuid.UUID]float64); ok {
			for _, delta := range deltas {
				o.metrics.RatingDelta.Observe(math.Abs(delta))
			}
		}
	}
	return nil
}

var _ tournament_out.EventPublisher = (*EventObserver)(nil)
