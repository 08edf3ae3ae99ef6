package tournament_usecases

import (
	"context"
	"crypto/rand"
	"log/slog"

	"github.com/google/uuid"
	common "github.com/padel-api/padel-api/pkg/domain"
	tournament_entities "github.com/padel-api/padel-api/pkg/domain/tournament/entities"
	tournament_in "github.com/padel-api/padel-api/pkg/domain/tournament/ports/in"
	tournament_out "github.com/padel-api/padel-api/pkg/domain/tournament/ports/out"
)

// Join code alphabet avoids 0/O and 1/I to keep codes readable aloud.
const (
	joinCodeAlphabet   = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	joinCodeLength     = 6
	joinCodeMaxRetries = 5
)

// JoinCodeUseCase mints and resolves tournament join codes. GetOrCreate is
// idempotent: the first organiser call mints a code, later calls return it
// unchanged. Codes are unique across tournaments; a collision on insert
// surfaces as a Conflict from the repository and triggers a re-mint.
type JoinCodeUseCase struct {
	tournamentRepository tournament_out.TournamentRepository
	txRunner             common.TxRunner
	logger               *slog.Logger
}

func NewJoinCodeUseCase(tournamentRepository tournament_out.TournamentRepository, txRunner common.TxRunner, logger *slog.Logger) *JoinCodeUseCase {
	return &JoinCodeUseCase{
		tournamentRepository: tournamentRepository,
		txRunner:             txRunner,
		logger:               logger,
	}
}

func (uc *JoinCodeUseCase) GetOrCreate(ctx context.Context, tournamentID uuid.UUID) (string, error) {
	if !common.IsAuthenticated(ctx) {
		return "", common.NewErrUnauthorized()
	}
	owner := common.GetResourceOwner(ctx)

	t, err := uc.tournamentRepository.FindByID(ctx, tournamentID)
	if err != nil {
		return "", err
	}
	if !t.IsOrganiser(owner) {
		return "", common.NewErrUnauthorized()
	}
	if t.JoinCode != nil {
		return *t.JoinCode, nil
	}
	if t.Status != tournament_entities.StatusPending {
		return "", common.NewErrWrongStatus("join codes require a pending tournament, status is %s", t.Status)
	}

	var code string
	for attempt := 0; attempt < joinCodeMaxRetries; attempt++ {
		code, err = mintJoinCode()
		if err != nil {
			return "", err
		}
		t.JoinCode = &code
		t.Touch()
		err = uc.tournamentRepository.Update(ctx, t)
		if err == nil {
			uc.logger.InfoContext(ctx, "join code minted", "tournament_id", tournamentID, "attempt", attempt+1)
			return code, nil
		}
		if common.KindOf(err) != common.KindConflict {
			return "", err
		}
		uc.logger.WarnContext(ctx, "join code collision, retrying", "tournament_id", tournamentID, "attempt", attempt+1)
	}
	return "", common.WrapError(common.KindConflict, err, "could not mint a unique join code after %d attempts", joinCodeMaxRetries)
}

func (uc *JoinCodeUseCase) JoinByCode(ctx context.Context, code string) (*tournament_entities.Tournament, error) {
	if !common.IsAuthenticated(ctx) {
		return nil, common.NewErrUnauthorized()
	}
	owner := common.GetResourceOwner(ctx)
	if code == "" {
		return nil, common.NewErrInvalidInput("join code must not be empty")
	}

	var t *tournament_entities.Tournament
	err := uc.txRunner.InTx(ctx, func(txCtx context.Context) error {
		var err error
		t, err = uc.tournamentRepository.FindByJoinCode(txCtx, code)
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

	uc.logger.InfoContext(ctx, "player joined by code",
		"tournament_id", t.ID, "player_id", owner.UserID, "roster_size", len(t.Players))
	return t, nil
}

func mintJoinCode() (string, error) {
	buf := make([]byte, joinCodeLength)
	if _, err := rand.Read(buf); err != nil {
		return "", common.WrapError(common.KindFatalStore, err, "could not read random bytes for join code")
	}
	for i, b := range buf {
		buf[i] = joinCodeAlphabet[int(b)%len(joinCodeAlphabet)]
	}
	return string(buf), nil
}

var _ tournament_in.JoinCodeCommandHandler = (*JoinCodeUseCase)(nil)
