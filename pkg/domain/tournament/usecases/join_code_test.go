package tournament_usecases

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	common "github.com/padel-api/padel-api/pkg/domain"
	tournament_entities "github.com/padel-api/padel-api/pkg/domain/tournament/entities"
)

func TestJoinCodeGetOrCreate(t *testing.T) {
	organiser := uuid.New()
	tournament := newTournamentWithPlayers(t, organiser, 4)
	repo := newFakeTournamentRepo(tournament)
	uc := NewJoinCodeUseCase(repo, common.NopTxRunner{}, testLogger())
	ctx := authCtx(common.ResourceOwner{UserID: organiser})

	code, err := uc.GetOrCreate(ctx, tournament.ID)
	require.NoError(t, err)
	assert.True(t, isJoinCodeShaped(code), "unexpected code %q", code)

	// later calls return the minted code unchanged
	again, err := uc.GetOrCreate(ctx, tournament.ID)
	require.NoError(t, err)
	assert.Equal(t, code, again)
}

func TestJoinCodeRetriesOnCollision(t *testing.T) {
	organiser := uuid.New()
	tournament := newTournamentWithPlayers(t, organiser, 4)
	repo := newFakeTournamentRepo(tournament)
	repo.updateErrs = []error{
		common.NewErrConflict("join code taken"),
		common.NewErrConflict("join code taken"),
	}
	uc := NewJoinCodeUseCase(repo, common.NopTxRunner{}, testLogger())

	code, err := uc.GetOrCreate(authCtx(common.ResourceOwner{UserID: organiser}), tournament.ID)
	require.NoError(t, err)
	assert.True(t, isJoinCodeShaped(code))
}

func TestJoinCodeGivesUpAfterRepeatedCollisions(t *testing.T) {
	organiser := uuid.New()
	tournament := newTournamentWithPlayers(t, organiser, 4)
	repo := newFakeTournamentRepo(tournament)
	for i := 0; i < joinCodeMaxRetries; i++ {
		repo.updateErrs = append(repo.updateErrs, common.NewErrConflict("join code taken"))
	}
	uc := NewJoinCodeUseCase(repo, common.NopTxRunner{}, testLogger())

	_, err := uc.GetOrCreate(authCtx(common.ResourceOwner{UserID: organiser}), tournament.ID)
	assert.Equal(t, common.KindConflict, common.KindOf(err))
}

func TestJoinCodeRequiresPendingTournament(t *testing.T) {
	organiser := uuid.New()
	tournament := newTournamentWithPlayers(t, organiser, 4)
	require.NoError(t, tournament.Start(1000))
	uc := NewJoinCodeUseCase(newFakeTournamentRepo(tournament), common.NopTxRunner{}, testLogger())

	_, err := uc.GetOrCreate(authCtx(common.ResourceOwner{UserID: organiser}), tournament.ID)
	assert.Equal(t, common.KindWrongStatus, common.KindOf(err))
}

func TestJoinCodeOrganiserOnly(t *testing.T) {
	tournament := newTournamentWithPlayers(t, uuid.New(), 4)
	uc := NewJoinCodeUseCase(newFakeTournamentRepo(tournament), common.NopTxRunner{}, testLogger())

	_, err := uc.GetOrCreate(authCtx(common.ResourceOwner{UserID: uuid.New()}), tournament.ID)
	assert.Equal(t, common.KindAuthorization, common.KindOf(err))
}

func TestJoinByCode(t *testing.T) {
	organiser := uuid.New()
	tournament, err := tournament_entities.NewTournament(
		"Open Night", tournament_entities.SystemAmericano, organiser,
		8, 21, 2, "", time.Now().Add(time.Hour),
	)
	require.NoError(t, err)
	code := "ABCDEF"
	tournament.JoinCode = &code
	uc := NewJoinCodeUseCase(newFakeTournamentRepo(tournament), common.NopTxRunner{}, testLogger())

	player := uuid.New()
	joined, err := uc.JoinByCode(authCtx(common.ResourceOwner{UserID: player}), code)
	require.NoError(t, err)
	assert.True(t, joined.HasPlayer(player))

	_, err = uc.JoinByCode(authCtx(common.ResourceOwner{UserID: uuid.New()}), "ZZZZZZ")
	assert.Equal(t, common.KindNotFound, common.KindOf(err))

	_, err = uc.JoinByCode(authCtx(common.ResourceOwner{UserID: uuid.New()}), "")
	assert.Equal(t, common.KindInvalidInput, common.KindOf(err))
}
