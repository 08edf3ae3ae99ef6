package tournament_entities

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	common "github.com/padel-api/padel-api/pkg/domain"
)

func newPendingTournament(t *testing.T, maxPlayers int) *Tournament {
	t.Helper()
	tournament, err := NewTournament("Friday Night Americano", SystemAmericano, uuid.New(), maxPlayers, 21, 2, "Court 7", time.Now().Add(time.Hour))
	require.NoError(t, err)
	return tournament
}

func fillRoster(t *testing.T, tournament *Tournament, n int) []uuid.UUID {
	t.Helper()
	players := make([]uuid.UUID, n)
	for i := range players {
		players[i] = uuid.New()
		require.NoError(t, tournament.AddPlayer(players[i]))
	}
	return players
}

func TestNewTournamentValidation(t *testing.T) {
	organiser := uuid.New()
	starts := time.Now()

	_, err := NewTournament("", SystemAmericano, organiser, 8, 21, 2, "", starts)
	assert.Equal(t, common.KindInvalidInput, common.KindOf(err))

	_, err = NewTournament("x", SystemMexicano, organiser, 8, 21, 2, "", starts)
	assert.Equal(t, common.KindInvalidInput, common.KindOf(err))

	for _, bad := range []int{2, 6, 7, 28} {
		_, err = NewTournament("x", SystemAmericano, organiser, bad, 21, 2, "", starts)
		assert.Equal(t, common.KindInvalidInput, common.KindOf(err), "max_players %d", bad)
	}

	_, err = NewTournament("x", SystemAmericano, organiser, 8, 0, 2, "", starts)
	assert.Equal(t, common.KindInvalidInput, common.KindOf(err))

	_, err = NewTournament("x", SystemAmericano, organiser, 8, 21, 0, "", starts)
	assert.Equal(t, common.KindInvalidInput, common.KindOf(err))
}

func TestRosterManagement(t *testing.T) {
	tournament := newPendingTournament(t, 4)
	players := fillRoster(t, tournament, 4)

	assert.True(t, tournament.HasPlayer(players[0]))
	assert.True(t, tournament.IsFull())

	// duplicates and overflow rejected
	err := tournament.AddPlayer(players[0])
	assert.Equal(t, common.KindConflict, common.KindOf(err))
	err = tournament.AddPlayer(uuid.New())
	assert.Equal(t, common.KindConflict, common.KindOf(err))

	require.NoError(t, tournament.RemovePlayer(players[3]))
	assert.False(t, tournament.IsFull())

	err = tournament.RemovePlayer(uuid.New())
	assert.Equal(t, common.KindNotFound, common.KindOf(err))
}

func TestRosterFrozenAfterStart(t *testing.T) {
	tournament := newPendingTournament(t, 8)
	players := fillRoster(t, tournament, 8)
	require.NoError(t, tournament.Start(1000))

	err := tournament.AddPlayer(uuid.New())
	assert.Equal(t, common.KindWrongStatus, common.KindOf(err))
	err = tournament.RemovePlayer(players[0])
	assert.Equal(t, common.KindWrongStatus, common.KindOf(err))
}

func TestStartLifecycle(t *testing.T) {
	tournament := newPendingTournament(t, 8)

	// parity constraint checked at start, not while building the roster
	fillRoster(t, tournament, 6)
	err := tournament.Start(1000)
	assert.Equal(t, common.KindInvalidRoster, common.KindOf(err))
	assert.Equal(t, StatusPending, tournament.Status)

	fillRoster(t, tournament, 2)
	require.NoError(t, tournament.Start(1042.5))
	assert.Equal(t, StatusActive, tournament.Status)
	assert.Equal(t, 1, tournament.CurrentRound)
	assert.Equal(t, 1042.5, tournament.AveragePlayerRating)
	assert.Equal(t, 7, tournament.TotalRounds())

	err = tournament.Start(1042.5)
	assert.Equal(t, common.KindWrongStatus, common.KindOf(err))
}

func TestCompleteLifecycle(t *testing.T) {
	tournament := newPendingTournament(t, 4)

	// cannot complete before starting
	err := tournament.Complete()
	assert.Equal(t, common.KindWrongStatus, common.KindOf(err))

	fillRoster(t, tournament, 4)
	require.NoError(t, tournament.Start(1000))
	require.NoError(t, tournament.Complete())
	assert.Equal(t, StatusCompleted, tournament.Status)

	// completing again is a no-op
	require.NoError(t, tournament.Complete())
	assert.Equal(t, StatusCompleted, tournament.Status)
}

func TestIsOrganiser(t *testing.T) {
	tournament := newPendingTournament(t, 4)

	assert.True(t, tournament.IsOrganiser(common.ResourceOwner{UserID: tournament.CreatedBy}))
	assert.True(t, tournament.IsOrganiser(common.ResourceOwner{UserID: uuid.New(), IsSuperuser: true}))
	assert.False(t, tournament.IsOrganiser(common.ResourceOwner{UserID: uuid.New()}))
}
