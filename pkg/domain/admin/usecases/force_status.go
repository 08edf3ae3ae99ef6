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

var statusOrder = map[tournament_entities.TournamentStatus]int{
	tournament_entities.StatusPending:   0,
	tournament_entities.StatusActive:    1,
	tournament_entities.StatusCompleted: 2,
}

// ForceStatusUseCase forces a tournament's lifecycle forward. It skips the
// derived work of the regular transitions (no schedule generation, no result
// freeze), which is why it is superuser-only and audited. Backward moves are
// rejected: results and ratings derived from a state must stay valid.
type ForceStatusUseCase struct {
	tournamentRepository tournament_out.TournamentRepository
	auditRepository      admin_out.AuditRepository
	txRunner             common.TxRunner
	logger               *slog.Logger
}

func NewForceStatusUseCase(
	tournamentRepository tournament_out.TournamentRepository,
	auditRepository admin_out.AuditRepository,
	txRunner common.TxRunner,
	logger *slog.Logger,
) *ForceStatusUseCase {
	return &ForceStatusUseCase{
		tournamentRepository: tournamentRepository,
		auditRepository:      auditRepository,
		txRunner:             txRunner,
		logger:               logger,
	}
}

func (uc *ForceStatusUseCase) Exec(ctx context.Context, cmd admin_in.ForceStatusCommand) (*tournament_entities.Tournament, error) {
	owner := common.GetResourceOwner(ctx)
	if !common.IsAuthenticated(ctx) || !owner.IsSuperuser {
		return nil, common.NewErrUnauthorized()
	}
	if cmd.Reason == "" {
		return nil, common.NewErrInvalidInput("a status change requires a reason")
	}
	target, ok := statusOrder[cmd.Status]
	if !ok {
		return nil, common.NewErrInvalidInput("unknown status: %s", cmd.Status)
	}

	var t *tournament_entities.Tournament
	err := uc.txRunner.InTx(ctx, func(txCtx context.Context) error {
		var err error
		t, err = uc.tournamentRepository.FindByID(txCtx, cmd.TournamentID)
		if err != nil {
			return err
		}
		current := statusOrder[t.Status]
		if target <= current {
			return common.NewErrWrongStatus("cannot force status %s from %s, only forward moves are allowed", cmd.Status, t.Status)
		}

		entry := admin_entities.NewAuditEntry(owner.UserID, admin_entities.ActionStatusForceChange,
			admin_entities.TargetTournament, t.ID.String(), cmd.Reason)
		entry.ClientAddress = common.GetClientAddress(txCtx)
		entry.OldValues = map[string]any{"status": string(t.Status)}
		entry.NewValues = map[string]any{"status": string(cmd.Status)}

		t.Status = cmd.Status
		t.Touch()
		if err := uc.tournamentRepository.Update(txCtx, t); err != nil {
			return err
		}
		return uc.auditRepository.Append(txCtx, entry)
	})
	if err != nil {
		return nil, err
	}

	uc.logger.InfoContext(ctx, "tournament status forced",
		"tournament_id", t.ID, "status", t.Status, "admin_id", owner.UserID)
	return t, nil
}

var _ admin_in.ForceStatusCommandHandler = (*ForceStatusUseCase)(nil)
