package tournament_usecases

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	common "github.com/padel-api/padel-api/pkg/domain"
	tournament_entities "github.com/padel-api/padel-api/pkg/domain/tournament/entities"
	tournament_in "github.com/padel-api/padel-api/pkg/domain/tournament/ports/in"
	tournament_out "github.com/padel-api/padel-api/pkg/domain/tournament/ports/out"
)

// JoinTournamentUseCase puts the caller on a pending roster.
type JoinTournamentUseCase struct {
	tournamentRepository tournament_out.TournamentRepository
	txRunner             common.TxRunner
	logger               *slog.Logger
}

func NewJoinTournamentUseCase(tournamentRepository tournament_out.TournamentRepository, txRunner common.TxRunner, logger *slog.Logger) *JoinTournamentUseCase {
	return &JoinTournamentUseCase{
		tournamentRepository: tournamentRepository,
		txRunner:             txRunner,
		logger:               logger,
	}
}

func (uc *JoinTournamentUseCase) Exec(ctx context.Context, tournamentID uuid.UUID) (*tournament_entities.Tournament, error) {
	if !common.IsAuthenticated(ctx) {
		return nil, common.NewErrUnauthorized()
	}
	owner := common.GetResourceOwner(ctx)

	var t *tournament_entities.Tournament
	err := uc.txRunner.InTx(ctx, func(txCtx context.Context) error {
		var err error
		t, err = uc.tournamentRepository.FindByID(txCtx, tournamentID)
		if err != nil {
			return err
		}
		if err := t.AddPlayer(owner.UserID); err != nil {
			return err
		}
		return uc.tournamentRepository.Update(txCtx, t)
	})
	if err != nil {
		return nil, err
	}

	uc.logger.InfoContext(ctx, "player joined tournament",
		"tournament_id", tournamentID, "player_id", owner.UserID, "roster_size", len(t.Players))
	return t, nil
}

var _ tournament_in.JoinTournamentCommandHandler = (*JoinTournamentUseCase)(nil)
