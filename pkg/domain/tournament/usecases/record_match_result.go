package tournament_usecases

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	common "github.com/padel-api/padel-api/pkg/domain"
	rating_in "github.com/padel-api/padel-api/pkg/domain/rating/ports/in"
	tournament_entities "github.com/padel-api/padel-api/pkg/domain/tournament/entities"
	tournament_in "github.com/padel-api/padel-api/pkg/domain/tournament/ports/in"
	tournament_out "github.com/padel-api/padel-api/pkg/domain/tournament/ports/out"
)

// RecordMatchResultUseCase records one match result. The match write and the
// round-cursor advance share one transaction; the rating update runs in its
// own transaction afterwards, so a failure there aborts all four rating
// writes together and never partially. The rating failure itself is logged
// and dropped: the match result is the source of truth and ratings can be
// rebuilt from history, so a rating hiccup must never bounce a recorded
// score.
type RecordMatchResultUseCase struct {
	tournamentRepository tournament_out.TournamentRepository
	matchRepository      tournament_out.MatchRepository
	ratingService        rating_in.RatingService
	eventPublisher       tournament_out.EventPublisher
	txRunner             common.TxRunner
	logger               *slog.Logger
}

func NewRecordMatchResultUseCase(
	tournamentRepository tournament_out.TournamentRepository,
	matchRepository tournament_out.MatchRepository,
	ratingService rating_in.RatingService,
	eventPublisher tournament_out.EventPublisher,
	txRunner common.TxRunner,
	logger *slog.Logger,
) *RecordMatchResultUseCase {
	return &RecordMatchResultUseCase{
		tournamentRepository: tournamentRepository,
		matchRepository:      matchRepository,
		ratingService:        ratingService,
		eventPublisher:       eventPublisher,
		txRunner:             txRunner,
		logger:               logger,
	}
}

func (uc *RecordMatchResultUseCase) Exec(ctx context.Context, cmd tournament_in.RecordMatchResultCommand) (*tournament_entities.Match, error) {
	if !common.IsAuthenticated(ctx) {
		return nil, common.NewErrUnauthorized()
	}
	owner := common.GetResourceOwner(ctx)

	var match *tournament_entities.Match
	var t *tournament_entities.Tournament
	var roundAdvanced bool
	err := uc.txRunner.InTx(ctx, func(txCtx context.Context) error {
		var err error
		match, err = uc.matchRepository.FindByID(txCtx, cmd.MatchID)
		if err != nil {
			return err
		}
		t, err = uc.tournamentRepository.FindByID(txCtx, match.TournamentID)
		if err != nil {
			return err
		}
		if !t.IsOrganiser(owner) {
			return common.NewErrUnauthorized()
		}
		if t.Status != tournament_entities.StatusActive {
			return common.NewErrWrongStatus("results require an active tournament, status is %s", t.Status)
		}

		if err := match.Record(cmd.Team1Score, cmd.Team2Score, t.PointsPerMatch); err != nil {
			return err
		}
		if err := uc.matchRepository.Update(txCtx, match); err != nil {
			return err
		}

		roundAdvanced, err = uc.advanceRound(txCtx, t, match.RoundNumber)
		return err
	})
	if err != nil {
		return nil, err
	}

	// Separate transaction: the four rating mutations and history entries
	// commit together or not at all, without ever holding back the match.
	var deltas map[uuid.UUID]float64
	if ratingErr := uc.txRunner.InTx(ctx, func(txCtx context.Context) error {
		var err error
		deltas, err = uc.ratingService.UpdateMatchRatings(txCtx, match)
		return err
	}); ratingErr != nil {
		deltas = nil
		uc.logger.ErrorContext(ctx, "rating update failed, match result kept",
			"match_id", match.ID, "tournament_id", t.ID, "error", ratingErr)
	}

	uc.logger.InfoContext(ctx, "match result recorded",
		"match_id", match.ID, "tournament_id", t.ID, "round", match.RoundNumber,
		"result", match.ResultString(), "round_advanced", roundAdvanced)

	uc.publish(ctx, tournament_out.Event{
		Type:         tournament_out.EventMatchRecorded,
		TournamentID: t.ID,
		OccurredAt:   time.Now().UTC(),
		Payload: map[string]any{
			"match_id":       match.ID,
			"round":          match.RoundNumber,
			"result":         match.ResultString(),
			"current_round":  t.CurrentRound,
			"round_advanced": roundAdvanced,
			"rating_deltas":  deltas,
		},
	})
	return match, nil
}

// advanceRound moves the round cursor forward once every match of the current
// round is complete. The last round leaves the cursor in place; completing the
// tournament is an explicit organiser action.
func (uc *RecordMatchResultUseCase) advanceRound(ctx context.Context, t *tournament_entities.Tournament, roundNumber int) (bool, error) {
	if roundNumber != t.CurrentRound || t.CurrentRound >= t.TotalRounds() {
		return false, nil
	}
	matches, err := uc.matchRepository.FindByRound(ctx, t.ID, t.CurrentRound)
	if err != nil {
		return false, err
	}
	for _, m := range matches {
		if !m.IsCompleted {
			return false, nil
		}
	}
	t.CurrentRound++
	t.Touch()
	if err := uc.tournamentRepository.Update(ctx, t); err != nil {
		return false, err
	}
	return true, nil
}

func (uc *RecordMatchResultUseCase) publish(ctx context.Context, event tournament_out.Event) {
	if err := uc.eventPublisher.Publish(ctx, event); err != nil {
		uc.logger.WarnContext(ctx, "event publish failed",
			"event_type", event.Type, "tournament_id", event.TournamentID, "error", err)
	}
}

var _ tournament_in.RecordMatchResultCommandHandler = (*RecordMatchResultUseCase)(nil)
