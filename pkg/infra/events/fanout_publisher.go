package events

import (
	"context"
	"errors"

	tournament_out "github.com/padel-api/padel-api/pkg/domain/tournament/ports/out"
)

// FanoutPublisher delivers each event to all targets. Every target is
// attempted; failures are joined so one slow sink cannot hide another's error.
type FanoutPublisher struct {
	targets []tournament_out.EventPublisher
}

func NewFanoutPublisher(targets ...tournament_out.EventPublisher) *FanoutPublisher {
	return &FanoutPublisher{targets: targets}
}

func (p *FanoutPublisher) Publish(ctx context.Context, event tournament_out.Event) error {
	var errs []error
	for _, target := range p.targets {
		if err := target.Publish(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

var _ tournament_out.EventPublisher = (*FanoutPublisher)(nil)
