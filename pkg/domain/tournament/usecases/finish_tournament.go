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
	tournament_services "github.com/padel-api/padel-api/pkg/domain/tournament/services"
)

// FinishTournamentUseCase transitions active -> completed, freezing final
// placements from whatever matches are complete at that moment. Finishing an
// already completed tournament returns the stored snapshot unchanged. Podium
// counters apply exactly once, guarded by the tournament's PodiumApplied flag
// inside the same transaction.
type FinishTournamentUseCase struct {
	tournamentRepository tournament_out.TournamentRepository
	matchRepository      tournament_out.MatchRepository
	resultRepository     tournament_out.ResultRepository
	ratingService        rating_in.RatingService
	scoreboard           *tournament_services.Scoreboard
	eventPublisher       tournament_out.EventPublisher
	txRunner             common.TxRunner
	logger               *slog.Logger
}

func NewFinishTournamentUseCase(
	tournamentRepository tournament_out.TournamentRepository,
	matchRepository tournament_out.MatchRepository,
	resultRepository tournament_out.ResultRepository,
	ratingService rating_in.RatingService,
	scoreboard *tournament_services.Scoreboard,
	eventPublisher tournament_out.EventPublisher,
	txRunner common.TxRunner,
	logger *slog.Logger,
) *FinishTournamentUseCase {
	return &FinishTournamentUseCase{
		tournamentRepository: tournamentRepository,
		matchRepository:      matchRepository,
		resultRepository:     resultRepository,
		ratingService:        ratingService,
		scoreboard:           scoreboard,
		eventPublisher:       eventPublisher,
		txRunner:             txRunner,
		logger:               logger,
	}
}

func (uc *FinishTournamentUseCase) Exec(ctx context.Context, tournamentID uuid.UUID) ([]*tournament_entities.TournamentResult, error) {
	if !common.IsAuthenticated(ctx) {
		return nil, common.NewErrUnauthorized()
	}
	owner := common.GetResourceOwner(ctx)

	var results []*tournament_entities.TournamentResult
	var alreadyCompleted bool
	err := uc.txRunner.InTx(ctx, func(txCtx context.Context) error {
		t, err := uc.tournamentRepository.FindByID(txCtx, tournamentID)
		if err != nil {
			return err
		}
		if !t.IsOrganiser(owner) {
			return common.NewErrUnauthorized()
		}
		if t.Status == tournament_entities.StatusCompleted {
			alreadyCompleted = true
			results, err = uc.resultRepository.FindByTournament(txCtx, tournamentID)
			return err
		}
		if err := t.Complete(); err != nil {
			return err
		}

		matches, err := uc.matchRepository.FindByTournament(txCtx, tournamentID)
		if err != nil {
			return err
		}
		leaderboard := uc.scoreboard.Leaderboard(t.Players, matches)

		results = make([]*tournament_entities.TournamentResult, 0, len(leaderboard))
		for i, stats := range leaderboard {
			results = append(results, tournament_entities.NewTournamentResult(t.ID, stats.PlayerID, i+1, stats))
		}
		if err := uc.resultRepository.ReplaceForTournament(txCtx, tournamentID, results); err != nil {
			return err
		}

		if !t.PodiumApplied {
			if err := uc.ratingService.ApplyPodium(txCtx, leaderboard); err != nil {
				return err
			}
			t.PodiumApplied = true
		}
		return uc.tournamentRepository.Update(txCtx, t)
	})
	if err != nil {
		return nil, err
	}
	if alreadyCompleted {
		return results, nil
	}

	uc.logger.InfoContext(ctx, "tournament finished",
		"tournament_id", tournamentID, "placements", len(results))

	event := tournament_out.Event{
		Type:         tournament_out.EventTournamentFinished,
		TournamentID: tournamentID,
		OccurredAt:   time.Now().UTC(),
	}
	if len(results) > 0 {
		event.Payload = map[string]any{
			"winner_id":   results[0].PlayerID,
			"total_score": results[0].TotalScore,
		}
	}
	uc.publish(ctx, event)
	return results, nil
}

func (uc *FinishTournamentUseCase) publish(ctx context.Context, event tournament_out.Event) {
	if err := uc.eventPublisher.Publish(ctx, event); err != nil {
		uc.logger.WarnContext(ctx, "event publish failed",
			"event_type", event.Type, "tournament_id", event.TournamentID, "error", err)
	}
}

var _ tournament_in.FinishTournamentCommandHandler = (*FinishTournamentUseCase)(nil)
