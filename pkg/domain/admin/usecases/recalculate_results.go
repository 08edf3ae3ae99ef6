package admin_usecases

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	common "github.com/padel-api/padel-api/pkg/domain"
	admin_entities "github.com/padel-api/padel-api/pkg/domain/admin/entities"
	admin_in "github.com/padel-api/padel-api/pkg/domain/admin/ports/in"
	admin_out "github.com/padel-api/padel-api/pkg/domain/admin/ports/out"
	tournament_entities "github.com/padel-api/padel-api/pkg/domain/tournament/entities"
	tournament_out "github.com/padel-api/padel-api/pkg/domain/tournament/ports/out"
	tournament_services "github.com/padel-api/padel-api/pkg/domain/tournament/services"
)

// RecalculateResultsUseCase rebuilds a completed tournament's stored
// placements from its matches, typically after a score override.
type RecalculateResultsUseCase struct {
	tournamentRepository tournament_out.TournamentRepository
	matchRepository      tournament_out.MatchRepository
	resultRepository     tournament_out.ResultRepository
	auditRepository      admin_out.AuditRepository
	scoreboard           *tournament_services.Scoreboard
	txRunner             common.TxRunner
	logger               *slog.Logger
}

func NewRecalculateResultsUseCase(
	tournamentRepository tournament_out.TournamentRepository,
	matchRepository tournament_out.MatchRepository,
	resultRepository tournament_out.ResultRepository,
	auditRepository admin_out.AuditRepository,
	scoreboard *tournament_services.Scoreboard,
	txRunner common.TxRunner,
	logger *slog.Logger,
) *RecalculateResultsUseCase {
	return &RecalculateResultsUseCase{
		tournamentRepository: tournamentRepository,
		matchRepository:      matchRepository,
		resultRepository:     resultRepository,
		auditRepository:      auditRepository,
		scoreboard:           scoreboard,
		txRunner:             txRunner,
		logger:               logger,
	}
}

func (uc *RecalculateResultsUseCase) Exec(ctx context.Context, tournamentID uuid.UUID, reason string) ([]*tournament_entities.TournamentResult, error) {
	owner := common.GetResourceOwner(ctx)
	if !common.IsAuthenticated(ctx) || !owner.IsSuperuser {
		return nil, common.NewErrUnauthorized()
	}
	if reason == "" {
		return nil, common.NewErrInvalidInput("a recalculation requires a reason")
	}

	var results []*tournament_entities.TournamentResult
	err := uc.txRunner.InTx(ctx, func(txCtx context.Context) error {
		t, err := uc.tournamentRepository.FindByID(txCtx, tournamentID)
		if err != nil {
			return err
		}
		if t.Status != tournament_entities.StatusCompleted {
			return common.NewErrWrongStatus("recalculation requires a completed tournament, status is %s", t.Status)
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

		entry := admin_entities.NewAuditEntry(owner.UserID, admin_entities.ActionScoreRecalculation,
			admin_entities.TargetTournament, tournamentID.String(), reason)
		entry.ClientAddress = common.GetClientAddress(txCtx)
		entry.NewValues = map[string]any{"placements": len(results)}
		return uc.auditRepository.Append(txCtx, entry)
	})
	if err != nil {
		return nil, err
	}

	uc.logger.InfoContext(ctx, "tournament results recalculated",
		"tournament_id", tournamentID, "placements", len(results), "admin_id", owner.UserID)
	return results, nil
}

var _ admin_in.RecalculateResultsCommandHandler = (*RecalculateResultsUseCase)(nil)
