package admin_usecases

import (
	"context"
	"log/slog"

	common "github.com/padel-api/padel-api/pkg/domain"
	admin_entities "github.com/padel-api/padel-api/pkg/domain/admin/entities"
	admin_in "github.com/padel-api/padel-api/pkg/domain/admin/ports/in"
	admin_out "github.com/padel-api/padel-api/pkg/domain/admin/ports/out"
	tournament_entities "github.com/padel-api/padel-api/pkg/domain/tournament/entities"
	tournament_out "github.com/padel-api/padel-api/pkg/domain/tournament/ports/out"
)

// OverrideMatchResultUseCase rewrites a completed match's scores on the
// audited superuser path. Failed attempts are audited too.
type OverrideMatchResultUseCase struct {
	tournamentRepository tournament_out.TournamentRepository
	matchRepository      tournament_out.MatchRepository
	auditRepository      admin_out.AuditRepository
	txRunner             common.TxRunner
	logger               *slog.Logger
}

func NewOverrideMatchResultUseCase(
	tournamentRepository tournament_out.TournamentRepository,
	matchRepository tournament_out.MatchRepository,
	auditRepository admin_out.AuditRepository,
	txRunner common.TxRunner,
	logger *slog.Logger,
) *OverrideMatchResultUseCase {
	return &OverrideMatchResultUseCase{
		tournamentRepository: tournamentRepository,
		matchRepository:      matchRepository,
		auditRepository:      auditRepository,
		txRunner:             txRunner,
		logger:               logger,
	}
}

func (uc *OverrideMatchResultUseCase) Exec(ctx context.Context, cmd admin_in.OverrideMatchResultCommand) (*tournament_entities.Match, error) {
	owner := common.GetResourceOwner(ctx)
	if !common.IsAuthenticated(ctx) || !owner.IsSuperuser {
		return nil, common.NewErrUnauthorized()
	}
	if cmd.Reason == "" {
		return nil, common.NewErrInvalidInput("an override requires a reason")
	}

	match, err := uc.matchRepository.FindByID(ctx, cmd.MatchID)
	if err != nil {
		return nil, err
	}
	t, err := uc.tournamentRepository.FindByID(ctx, match.TournamentID)
	if err != nil {
		return nil, err
	}

	entry := admin_entities.NewAuditEntry(owner.UserID, admin_entities.ActionMatchResultOverride,
		admin_entities.TargetMatch, match.ID.String(), cmd.Reason)
	entry.ClientAddress = common.GetClientAddress(ctx)
	entry.OldValues = map[string]any{"team1_score": match.Team1Score, "team2_score": match.Team2Score}
	entry.NewValues = map[string]any{"team1_score": cmd.Team1Score, "team2_score": cmd.Team2Score}

	if overrideErr := match.Override(cmd.Team1Score, cmd.Team2Score, t.PointsPerMatch); overrideErr != nil {
		// appended outside the match transaction so the rejection stays on
		// record even though nothing else is written
		entry.NewValues["failure"] = overrideErr.Error()
		if auditErr := uc.auditRepository.Append(ctx, entry); auditErr != nil {
			uc.logger.ErrorContext(ctx, "failed to audit rejected override", "match_id", match.ID, "error", auditErr)
		}
		return nil, overrideErr
	}

	err = uc.txRunner.InTx(ctx, func(txCtx context.Context) error {
		if err := uc.matchRepository.Update(txCtx, match); err != nil {
			return err
		}
		return uc.auditRepository.Append(txCtx, entry)
	})
	if err != nil {
		return nil, err
	}

	uc.logger.InfoContext(ctx, "match result overridden",
		"match_id", match.ID, "result", match.ResultString(), "admin_id", owner.UserID)
	return match, nil
}

var _ admin_in.OverrideMatchResultCommandHandler = (*OverrideMatchResultUseCase)(nil)
