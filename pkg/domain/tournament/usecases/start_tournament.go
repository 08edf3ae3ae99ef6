package tournament_usecases

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	common "github.com/padel-api/padel-api/pkg/domain"
	rating_entities "github.com/padel-api/padel-api/pkg/domain/rating/entities"
	rating_out "github.com/padel-api/padel-api/pkg/domain/rating/ports/out"
	tournament_entities "github.com/padel-api/padel-api/pkg/domain/tournament/entities"
	tournament_in "github.com/padel-api/padel-api/pkg/domain/tournament/ports/in"
	tournament_out "github.com/padel-api/padel-api/pkg/domain/tournament/ports/out"
	tournament_services "github.com/padel-api/padel-api/pkg/domain/tournament/services"
)

// StartTournamentUseCase transitions a pending tournament to active. The whole
// round schedule is generated and persisted in one transaction with the status
// change, so observers never see an active tournament without matches.
type StartTournamentUseCase struct {
	tournamentRepository tournament_out.TournamentRepository
	matchRepository      tournament_out.MatchRepository
	ratingRepository     rating_out.PlayerRatingRepository
	scheduler            *tournament_services.AmericanoScheduler
	eventPublisher       tournament_out.EventPublisher
	txRunner             common.TxRunner
	logger               *slog.Logger
}

func NewStartTournamentUseCase(
	tournamentRepository tournament_out.TournamentRepository,
	matchRepository tournament_out.MatchRepository,
	ratingRepository rating_out.PlayerRatingRepository,
	scheduler *tournament_services.AmericanoScheduler,
	eventPublisher tournament_out.EventPublisher,
	txRunner common.TxRunner,
	logger *slog.Logger,
) *StartTournamentUseCase {
	return &StartTournamentUseCase{
		tournamentRepository: tournamentRepository,
		matchRepository:      matchRepository,
		ratingRepository:     ratingRepository,
		scheduler:            scheduler,
		eventPublisher:       eventPublisher,
		txRunner:             txRunner,
		logger:               logger,
	}
}

func (uc *StartTournamentUseCase) Exec(ctx context.Context, tournamentID uuid.UUID) (*tournament_entities.Tournament, error) {
	if !common.IsAuthenticated(ctx) {
		return nil, common.NewErrUnauthorized()
	}
	owner := common.GetResourceOwner(ctx)

	var t *tournament_entities.Tournament
	var matchCount int
	err := uc.txRunner.InTx(ctx, func(txCtx context.Context) error {
		var err error
		t, err = uc.tournamentRepository.FindByID(txCtx, tournamentID)
		if err != nil {
			return err
		}
		if !t.IsOrganiser(owner) {
			return common.NewErrUnauthorized()
		}

		rounds, err := uc.scheduler.GenerateRounds(t.Players)
		if err != nil {
			return err
		}

		avg, err := uc.averageRating(txCtx, t.Players)
		if err != nil {
			return err
		}
		if err := t.Start(avg); err != nil {
			return err
		}

		matches := make([]*tournament_entities.Match, 0, len(rounds)*len(rounds[0]))
		for roundIdx, pairings := range rounds {
			for _, p := range pairings {
				matches = append(matches, tournament_entities.NewMatch(t.ID, roundIdx+1, p[0], p[1], p[2], p[3]))
			}
		}
		if err := uc.matchRepository.SaveAll(txCtx, matches); err != nil {
			return err
		}
		matchCount = len(matches)
		return uc.tournamentRepository.Update(txCtx, t)
	})
	if err != nil {
		return nil, err
	}

	uc.logger.InfoContext(ctx, "tournament started",
		"tournament_id", t.ID, "players", len(t.Players), "rounds", t.TotalRounds(),
		"matches", matchCount, "average_rating", t.AveragePlayerRating)

	uc.publish(ctx, tournament_out.Event{
		Type:         tournament_out.EventTournamentStarted,
		TournamentID: t.ID,
		OccurredAt:   time.Now().UTC(),
		Payload: map[string]any{
			"rounds":  t.TotalRounds(),
			"matches": matchCount,
			"players": len(t.Players),
		},
	})
	return t, nil
}

// averageRating is the roster mean over existing ratings, with the initial
// value standing in for players that have never been rated.
func (uc *StartTournamentUseCase) averageRating(ctx context.Context, players []uuid.UUID) (float64, error) {
	ratings, err := uc.ratingRepository.FindByPlayers(ctx, players)
	if err != nil {
		return 0, err
	}
	byPlayer := make(map[uuid.UUID]float64, len(ratings))
	for _, r := range ratings {
		byPlayer[r.PlayerID] = r.CurrentRating
	}
	sum := 0.0
	for _, id := range players {
		if r, ok := byPlayer[id]; ok {
			sum += r
		} else {
			sum += rating_entities.InitialRating
		}
	}
	return sum / float64(len(players)), nil
}

func (uc *StartTournamentUseCase) publish(ctx context.Context, event tournament_out.Event) {
	if err := uc.eventPublisher.Publish(ctx, event); err != nil {
		uc.logger.WarnContext(ctx, "event publish failed",
			"event_type", event.Type, "tournament_id", event.TournamentID, "error", err)
	}
}

var _ tournament_in.StartTournamentCommandHandler = (*StartTournamentUseCase)(nil)
