package events

import (
	"context"

	tournament_out "github.com/padel-api/padel-api/pkg/domain/tournament/ports/out"
)

// NopPublisher discards events. Used when no broker is configured, keeping
// event delivery optional without branching in the usecases.
type NopPublisher struct{}

func NewNopPublisher() *NopPublisher {
	return &NopPublisher{}
}

func (NopPublisher) Publish(context.Context, tournament_out.Event) error {
	return nil
}

var _ tournament_out.EventPublisher = (*NopPublisher)(nil)
