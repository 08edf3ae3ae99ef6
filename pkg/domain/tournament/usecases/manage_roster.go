package tournament_usecases

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	common "github.com/padel-api/padel-api/pkg/domain"
	iam_out "github.com/padel-api/padel-api/pkg/domain/iam/ports/out"
	tournament_entities "github.com/padel-api/padel-api/pkg/domain/tournament/entities"
	tournament_in "github.com/padel-api/padel-api/pkg/domain/tournament/ports/in"
	tournament_out "github.com/padel-api/padel-api/pkg/domain/tournament/ports/out"
)

// ManageRosterUseCase lets the organiser add or remove arbitrary players while
// the tournament is pending. Added players must exist, so guests get created
// through the user surface first.
type ManageRosterUseCase struct {
	tournamentRepository tournament_out.TournamentRepository
	userRepository       iam_out.UserRepository
	txRunner             common.TxRunner
	logger               *slog.Logger
}

func NewManageRosterUseCase(
	tournamentRepository tournament_out.TournamentRepository,
	userRepository iam_out.UserRepository,
	txRunner common.TxRunner,
	logger *slog.Logger,
) *ManageRosterUseCase {
	return &ManageRosterUseCase{
		tournamentRepository: tournamentRepository,
		userRepository:       userRepository,
		txRunner:             txRunner,
		logger:               logger,
	}
}

func (uc *ManageRosterUseCase) AddPlayer(ctx context.Context, tournamentID, playerID uuid.UUID) (*tournament_entities.Tournament, error) {
	if !common.IsAuthenticated(ctx) {
		return nil, common.NewErrUnauthorized()
	}
	owner := common.GetResourceOwner(ctx)

	if _, err := uc.userRepository.FindByID(ctx, playerID); err != nil {
		return nil, err
	}

	var t *tournament_entities.Tournament
	err := uc.txRunner.InTx(ctx, func(txCtx context.Context) error {
		var err error
		t, err = uc.tournamentRepository.FindByID(txCtx, tournamentID)
		if err != nil {
			return err
		}
		if !t.IsOrganiser(owner) {
			return common.NewErrUnauthorized()
		}
		if err := t.AddPlayer(playerID); err != nil {
			return err
		}
		return uc.tournamentRepository.Update(txCtx, t)
	})
	if err != nil {
		return nil, err
	}

	uc.logger.InfoContext(ctx, "organiser added player",
		"tournament_id", tournamentID, "player_id", playerID, "roster_size", len(t.Players))
	return t, nil
}

func (uc *ManageRosterUseCase) RemovePlayer(ctx context.Context, tournamentID, playerID uuid.UUID) (*tournament_entities.Tournament, error) {
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
		if !t.IsOrganiser(owner) {
			return common.NewErrUnauthorized()
		}
		if err := t.RemovePlayer(playerID); err != nil {
			return err
		}
		return uc.tournamentRepository.Update(txCtx, t)
	})
	if err != nil {
		return nil, err
	}

	uc.logger.InfoContext(ctx, "organiser removed player",
		"tournament_id", tournamentID, "player_id", playerID, "roster_size", len(t.Players))
	return t, nil
}

var _ tournament_in.RosterCommandHandler = (*ManageRosterUseCase)(nil)
