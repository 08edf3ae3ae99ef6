package tournament_usecases

import (
	"context"
	"log/slog"

	common "github.com/padel-api/padel-api/pkg/domain"
	tournament_entities "github.com/padel-api/padel-api/pkg/domain/tournament/entities"
	tournament_in "github.com/padel-api/padel-api/pkg/domain/tournament/ports/in"
	tournament_out "github.com/padel-api/padel-api/pkg/domain/tournament/ports/out"
)

// CreateTournamentUseCase creates a pending tournament owned by the caller.
type CreateTournamentUseCase struct {
	tournamentRepository tournament_out.TournamentRepository
	logger               *slog.Logger
}

func NewCreateTournamentUseCase(tournamentRepository tournament_out.TournamentRepository, logger *slog.Logger) *CreateTournamentUseCase {
	return &CreateTournamentUseCase{
		tournamentRepository: tournamentRepository,
		logger:               logger,
	}
}

func (uc *CreateTournamentUseCase) Exec(ctx context.Context, cmd tournament_in.CreateTournamentCommand) (*tournament_entities.Tournament, error) {
	if !common.IsAuthenticated(ctx) {
		return nil, common.NewErrUnauthorized()
	}
	owner := common.GetResourceOwner(ctx)

	t, err := tournament_entities.NewTournament(
		cmd.Name, cmd.System, owner.UserID,
		cmd.MaxPlayers, cmd.PointsPerMatch, cmd.Courts,
		cmd.Location, cmd.StartsAt,
	)
	if err != nil {
		return nil, err
	}

	if err := uc.tournamentRepository.Save(ctx, t); err != nil {
		uc.logger.ErrorContext(ctx, "failed to save tournament", "error", err, "name", cmd.Name)
		return nil, err
	}

	uc.logger.InfoContext(ctx, "tournament created",
		"tournament_id", t.ID, "name", t.Name, "max_players", t.MaxPlayers, "created_by", owner.UserID)
	return t, nil
}

var _ tournament_in.CreateTournamentCommandHandler = (*CreateTournamentUseCase)(nil)
