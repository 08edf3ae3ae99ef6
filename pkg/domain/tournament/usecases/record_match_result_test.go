package tournament_usecases

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	common "github.com/padel-api/padel-api/pkg/domain"
	tournament_entities "github.com/padel-api/padel-api/pkg/domain/tournament/entities"
	tournament_in "github.com/padel-api/padel-api/pkg/domain/tournament/ports/in"
	tournament_out "github.com/padel-api/padel-api/pkg/domain/tournament/ports/out"
)

type recordFixture struct {
	organiser  uuid.UUID
	tournament *tournament_entities.Tournament
	matches    []*tournament_entities.Match
	matchRepo  *fakeMatchRepo
	rating     *fakeRatingService
	publisher  *capturePublisher
	uc         *RecordMatchResultUseCase
}

// newRecordFixture builds an active 4-player tournament with its 3x1 schedule.
func newRecordFixture(t *testing.T) *recordFixture {
	t.Helper()
	organiser := uuid.New()
	tournament := newTournamentWithPlayers(t, organiser, 4)
	require.NoError(t, tournament.Start(1000))

	matchRepo := newFakeMatchRepo()
	p := tournament.Players
	schedule := []*tournament_entities.Match{
		tournament_entities.NewMatch(tournament.ID, 1, p[0], p[1], p[2], p[3]),
		tournament_entities.NewMatch(tournament.ID, 2, p[0], p[2], p[1], p[3]),
		tournament_entities.NewMatch(tournament.ID, 3, p[0], p[3], p[1], p[2]),
	}
	require.NoError(t, matchRepo.SaveAll(context.Background(), schedule))

	rating := &fakeRatingService{}
	publisher := &capturePublisher{}
	uc := NewRecordMatchResultUseCase(
		newFakeTournamentRepo(tournament), matchRepo, rating, publisher,
		common.NopTxRunner{}, testLogger(),
	)
	return &recordFixture{
		organiser:  organiser,
		tournament: tournament,
		matches:    schedule,
		matchRepo:  matchRepo,
		rating:     rating,
		publisher:  publisher,
		uc:         uc,
	}
}

func (fx *recordFixture) ctx() context.Context {
	return authCtx(common.ResourceOwner{UserID: fx.organiser})
}

func TestRecordMatchResult(t *testing.T) {
	fx := newRecordFixture(t)

	match, err := fx.uc.Exec(fx.ctx(), tournament_in.RecordMatchResultCommand{
		MatchID: fx.matches[0].ID, Team1Score: 20, Team2Score: 12,
	})
	require.NoError(t, err)

	assert.True(t, match.IsCompleted)
	assert.Equal(t, "20-12", match.ResultString())
	assert.Equal(t, 1, fx.rating.updateCalls)

	// the only match of round 1 is done, so the cursor moves to round 2
	assert.Equal(t, 2, fx.tournament.CurrentRound)

	require.Len(t, fx.publisher.events, 1)
	event := fx.publisher.events[0]
	assert.Equal(t, tournament_out.EventMatchRecorded, event.Type)
	assert.Equal(t, true, event.Payload["round_advanced"])
	deltas, ok := event.Payload["rating_deltas"].(map[uuid.UUID]float64)
	require.True(t, ok)
	assert.Len(t, deltas, 4)
}

func TestRecordMatchResultOncePerMatch(t *testing.T) {
	fx := newRecordFixture(t)
	cmd := tournament_in.RecordMatchResultCommand{MatchID: fx.matches[0].ID, Team1Score: 20, Team2Score: 12}

	_, err := fx.uc.Exec(fx.ctx(), cmd)
	require.NoError(t, err)

	_, err = fx.uc.Exec(fx.ctx(), cmd)
	assert.Equal(t, common.KindAlreadyRecorded, common.KindOf(err))
	assert.Equal(t, 1, fx.rating.updateCalls)
}

func TestRecordMatchResultValidatesScores(t *testing.T) {
	fx := newRecordFixture(t)

	// points_per_match is 32; sums off target are rejected
	_, err := fx.uc.Exec(fx.ctx(), tournament_in.RecordMatchResultCommand{
		MatchID: fx.matches[0].ID, Team1Score: 20, Team2Score: 13,
	})
	assert.Equal(t, common.KindInvalidScore, common.KindOf(err))
	assert.False(t, fx.matches[0].IsCompleted)
	assert.Equal(t, 1, fx.tournament.CurrentRound)
}

func TestRecordMatchResultRatingFailureKeepsMatch(t *testing.T) {
	fx := newRecordFixture(t)
	fx.rating.updateErr = common.NewError(common.KindFatalStore, "ratings store down")

	match, err := fx.uc.Exec(fx.ctx(), tournament_in.RecordMatchResultCommand{
		MatchID: fx.matches[0].ID, Team1Score: 16, Team2Score: 16,
	})
	require.NoError(t, err)
	assert.True(t, match.IsCompleted)
	assert.Equal(t, 2, fx.tournament.CurrentRound)

	require.Len(t, fx.publisher.events, 1)
	assert.Nil(t, fx.publisher.events[0].Payload["rating_deltas"])
}

func TestRecordMatchResultRatingRunsInOwnTransaction(t *testing.T) {
	organiser := uuid.New()
	tournament := newTournamentWithPlayers(t, organiser, 4)
	require.NoError(t, tournament.Start(1000))

	p := tournament.Players
	matchRepo := newFakeMatchRepo()
	match := tournament_entities.NewMatch(tournament.ID, 1, p[0], p[1], p[2], p[3])
	require.NoError(t, matchRepo.SaveAll(context.Background(), []*tournament_entities.Match{match}))

	rating := &fakeRatingService{}
	tx := &countingTxRunner{}
	uc := NewRecordMatchResultUseCase(
		newFakeTournamentRepo(tournament), matchRepo, rating, &capturePublisher{},
		tx, testLogger(),
	)

	_, err := uc.Exec(authCtx(common.ResourceOwner{UserID: organiser}), tournament_in.RecordMatchResultCommand{
		MatchID: match.ID, Team1Score: 20, Team2Score: 12,
	})
	require.NoError(t, err)

	// the match commits in the first transaction; the rating update gets its
	// own, so a rating abort can never leave partially written ratings next
	// to a committed match
	assert.Equal(t, 2, tx.calls)
	assert.Equal(t, 2, rating.updateTxSeq)
}

func TestRecordMatchResultOutOfOrderKeepsCursor(t *testing.T) {
	fx := newRecordFixture(t)

	// recording a later round does not move the cursor off round 1
	_, err := fx.uc.Exec(fx.ctx(), tournament_in.RecordMatchResultCommand{
		MatchID: fx.matches[2].ID, Team1Score: 20, Team2Score: 12,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, fx.tournament.CurrentRound)
}

func TestRecordMatchResultLastRoundKeepsCursor(t *testing.T) {
	fx := newRecordFixture(t)
	ctx := fx.ctx()

	for _, m := range fx.matches {
		_, err := fx.uc.Exec(ctx, tournament_in.RecordMatchResultCommand{
			MatchID: m.ID, Team1Score: 20, Team2Score: 12,
		})
		require.NoError(t, err)
	}

	// the cursor stays on the final round; finishing is an explicit action
	assert.Equal(t, 3, fx.tournament.CurrentRound)
	assert.Equal(t, tournament_entities.StatusActive, fx.tournament.Status)
}

func TestRecordMatchResultRequiresActiveTournament(t *testing.T) {
	fx := newRecordFixture(t)
	require.NoError(t, fx.tournament.Complete())

	_, err := fx.uc.Exec(fx.ctx(), tournament_in.RecordMatchResultCommand{
		MatchID: fx.matches[0].ID, Team1Score: 20, Team2Score: 12,
	})
	assert.Equal(t, common.KindWrongStatus, common.KindOf(err))
}

func TestRecordMatchResultAuthorization(t *testing.T) {
	fx := newRecordFixture(t)
	cmd := tournament_in.RecordMatchResultCommand{MatchID: fx.matches[0].ID, Team1Score: 20, Team2Score: 12}

	_, err := fx.uc.Exec(context.Background(), cmd)
	assert.Equal(t, common.KindAuthorization, common.KindOf(err))

	// roster players are not organisers
	_, err = fx.uc.Exec(authCtx(common.ResourceOwner{UserID: fx.tournament.Players[0]}), cmd)
	assert.Equal(t, common.KindAuthorization, common.KindOf(err))
}

func TestRecordMatchResultUnknownMatch(t *testing.T) {
	fx := newRecordFixture(t)

	_, err := fx.uc.Exec(fx.ctx(), tournament_in.RecordMatchResultCommand{
		MatchID: uuid.New(), Team1Score: 20, Team2Score: 12,
	})
	assert.Equal(t, common.KindNotFound, common.KindOf(err))
}
