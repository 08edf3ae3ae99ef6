package tournament_usecases

import (
	"context"
	"io"
	"log/slog"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	common "github.com/padel-api/padel-api/pkg/domain"
	rating_entities "github.com/padel-api/padel-api/pkg/domain/rating/entities"
	rating_in "github.com/padel-api/padel-api/pkg/domain/rating/ports/in"
	rating_out "github.com/padel-api/padel-api/pkg/domain/rating/ports/out"
	tournament_entities "github.com/padel-api/padel-api/pkg/domain/tournament/entities"
	tournament_out "github.com/padel-api/padel-api/pkg/domain/tournament/ports/out"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func authCtx(owner common.ResourceOwner) context.Context {
	ctx := context.WithValue(context.Background(), common.AuthenticatedKey, true)
	return context.WithValue(ctx, common.ResourceOwnerKey, owner)
}

// fakeTournamentRepo is an in-memory TournamentRepository. updateErrs is a
// queue of errors returned by successive Update calls before the write goes
// through, used to exercise conflict retries.
type fakeTournamentRepo struct {
	tournaments map[uuid.UUID]*tournament_entities.Tournament
	updateErrs  []error
}

func newFakeTournamentRepo(ts ...*tournament_entities.Tournament) *fakeTournamentRepo {
	repo := &fakeTournamentRepo{tournaments: make(map[uuid.UUID]*tournament_entities.Tournament)}
	for _, t := range ts {
		repo.tournaments[t.ID] = t
	}
	return repo
}

func (f *fakeTournamentRepo) FindByID(_ context.Context, id uuid.UUID) (*tournament_entities.Tournament, error) {
	t, ok := f.tournaments[id]
	if !ok {
		return nil, common.NewErrNotFound("tournament", id)
	}
	return t, nil
}

func (f *fakeTournamentRepo) FindByJoinCode(_ context.Context, code string) (*tournament_entities.Tournament, error) {
	for _, t := range f.tournaments {
		if t.JoinCode != nil && *t.JoinCode == code {
			return t, nil
		}
	}
	return nil, common.NewErrNotFound("tournament join code", code)
}

func (f *fakeTournamentRepo) Search(_ context.Context, filters tournament_out.TournamentFilters) ([]*tournament_entities.Tournament, error) {
	out := make([]*tournament_entities.Tournament, 0, len(f.tournaments))
	for _, t := range f.tournaments {
		if filters.Status != nil && t.Status != *filters.Status {
			continue
		}
		if filters.PlayerID != nil && !t.HasPlayer(*filters.PlayerID) {
			continue
		}
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (f *fakeTournamentRepo) Save(_ context.Context, t *tournament_entities.Tournament) error {
	f.tournaments[t.ID] = t
	return nil
}

func (f *fakeTournamentRepo) Update(_ context.Context, t *tournament_entities.Tournament) error {
	if len(f.updateErrs) > 0 {
		err := f.updateErrs[0]
		f.updateErrs = f.updateErrs[1:]
		return err
	}
	if _, ok := f.tournaments[t.ID]; !ok {
		return common.NewErrNotFound("tournament", t.ID)
	}
	f.tournaments[t.ID] = t
	return nil
}

func (f *fakeTournamentRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(f.tournaments, id)
	return nil
}

var _ tournament_out.TournamentRepository = (*fakeTournamentRepo)(nil)

type fakeMatchRepo struct {
	matches map[uuid.UUID]*tournament_entities.Match
}

func newFakeMatchRepo() *fakeMatchRepo {
	return &fakeMatchRepo{matches: make(map[uuid.UUID]*tournament_entities.Match)}
}

func (f *fakeMatchRepo) byTournament(tournamentID uuid.UUID) []*tournament_entities.Match {
	out := make([]*tournament_entities.Match, 0)
	for _, m := range f.matches {
		if m.TournamentID == tournamentID {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].RoundNumber != out[j].RoundNumber {
			return out[i].RoundNumber < out[j].RoundNumber
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

func (f *fakeMatchRepo) FindByID(_ context.Context, id uuid.UUID) (*tournament_entities.Match, error) {
	m, ok := f.matches[id]
	if !ok {
		return nil, common.NewErrNotFound("match", id)
	}
	return m, nil
}

func (f *fakeMatchRepo) FindByTournament(_ context.Context, tournamentID uuid.UUID) ([]*tournament_entities.Match, error) {
	return f.byTournament(tournamentID), nil
}

func (f *fakeMatchRepo) FindByRound(_ context.Context, tournamentID uuid.UUID, roundNumber int) ([]*tournament_entities.Match, error) {
	out := make([]*tournament_entities.Match, 0)
	for _, m := range f.byTournament(tournamentID) {
		if m.RoundNumber == roundNumber {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeMatchRepo) FindCompleted(_ context.Context, tournamentID uuid.UUID) ([]*tournament_entities.Match, error) {
	out := make([]*tournament_entities.Match, 0)
	for _, m := range f.byTournament(tournamentID) {
		if m.IsCompleted {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeMatchRepo) SaveAll(_ context.Context, matches []*tournament_entities.Match) error {
	for _, m := range matches {
		f.matches[m.ID] = m
	}
	return nil
}

func (f *fakeMatchRepo) Update(_ context.Context, match *tournament_entities.Match) error {
	f.matches[match.ID] = match
	return nil
}

var _ tournament_out.MatchRepository = (*fakeMatchRepo)(nil)

type fakeResultRepo struct {
	results map[uuid.UUID][]*tournament_entities.TournamentResult
}

func newFakeResultRepo() *fakeResultRepo {
	return &fakeResultRepo{results: make(map[uuid.UUID][]*tournament_entities.TournamentResult)}
}

func (f *fakeResultRepo) FindByTournament(_ context.Context, tournamentID uuid.UUID) ([]*tournament_entities.TournamentResult, error) {
	return f.results[tournamentID], nil
}

func (f *fakeResultRepo) FindByTournamentAndPlayer(_ context.Context, tournamentID, playerID uuid.UUID) (*tournament_entities.TournamentResult, error) {
	for _, r := range f.results[tournamentID] {
		if r.PlayerID == playerID {
			return r, nil
		}
	}
	return nil, common.NewErrNotFound("tournament result", playerID)
}

func (f *fakeResultRepo) ReplaceForTournament(_ context.Context, tournamentID uuid.UUID, results []*tournament_entities.TournamentResult) error {
	f.results[tournamentID] = results
	return nil
}

var _ tournament_out.ResultRepository = (*fakeResultRepo)(nil)

type fakePlayerRatingRepo struct {
	ratings map[uuid.UUID]*rating_entities.PlayerRating
}

func newFakePlayerRatingRepo() *fakePlayerRatingRepo {
	return &fakePlayerRatingRepo{ratings: make(map[uuid.UUID]*rating_entities.PlayerRating)}
}

func (f *fakePlayerRatingRepo) FindByPlayer(_ context.Context, playerID uuid.UUID) (*rating_entities.PlayerRating, error) {
	return f.ratings[playerID], nil
}

func (f *fakePlayerRatingRepo) FindByPlayers(_ context.Context, playerIDs []uuid.UUID) ([]*rating_entities.PlayerRating, error) {
	out := make([]*rating_entities.PlayerRating, 0, len(playerIDs))
	for _, id := range playerIDs {
		if r, ok := f.ratings[id]; ok {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakePlayerRatingRepo) Save(_ context.Context, rating *rating_entities.PlayerRating) error {
	f.ratings[rating.PlayerID] = rating
	return nil
}

func (f *fakePlayerRatingRepo) Update(_ context.Context, rating *rating_entities.PlayerRating) error {
	f.ratings[rating.PlayerID] = rating
	return nil
}

func (f *fakePlayerRatingRepo) TopByRating(context.Context, int, int) ([]*rating_entities.PlayerRating, error) {
	return nil, nil
}

func (f *fakePlayerRatingRepo) AppendHistory(context.Context, *rating_entities.RatingHistoryEntry) error {
	return nil
}

func (f *fakePlayerRatingRepo) RecentHistory(context.Context, uuid.UUID, int) ([]*rating_entities.RatingHistoryEntry, error) {
	return nil, nil
}

var _ rating_out.PlayerRatingRepository = (*fakePlayerRatingRepo)(nil)

// txSeqKey tags a context with the ordinal of the transaction it runs in.
type txSeqKeyType struct{}

var txSeqKey txSeqKeyType

// countingTxRunner numbers every transaction so a test can tell which one a
// given write happened in.
type countingTxRunner struct {
	calls int
}

func (r *countingTxRunner) InTx(ctx context.Context, fn func(context.Context) error) error {
	r.calls++
	return fn(context.WithValue(ctx, txSeqKey, r.calls))
}

var _ common.TxRunner = (*countingTxRunner)(nil)

// fakeRatingService counts calls and can be primed to fail.
type fakeRatingService struct {
	updateCalls int
	updateTxSeq int
	updateErr   error
	podiumCalls int
	podiums     [][]tournament_entities.PlayerStats
}

func (f *fakeRatingService) GetOrCreateRating(_ context.Context, playerID uuid.UUID) (*rating_entities.PlayerRating, error) {
	return rating_entities.NewPlayerRating(playerID), nil
}

func (f *fakeRatingService) UpdateMatchRatings(ctx context.Context, match *tournament_entities.Match) (map[uuid.UUID]float64, error) {
	f.updateCalls++
	if seq, ok := ctx.Value(txSeqKey).(int); ok {
		f.updateTxSeq = seq
	}
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	deltas := make(map[uuid.UUID]float64, 4)
	for i, id := range match.PlayerIDs() {
		if i < 2 {
			deltas[id] = 4
		} else {
			deltas[id] = -4
		}
	}
	return deltas, nil
}

func (f *fakeRatingService) ApplyPodium(_ context.Context, leaderboard []tournament_entities.PlayerStats) error {
	f.podiumCalls++
	f.podiums = append(f.podiums, leaderboard)
	return nil
}

func (f *fakeRatingService) PlayerStatistics(context.Context, uuid.UUID) (*rating_in.PlayerStatistics, error) {
	return nil, nil
}

func (f *fakeRatingService) TopRatings(context.Context, int) ([]*rating_entities.PlayerRating, error) {
	return nil, nil
}

var _ rating_in.RatingService = (*fakeRatingService)(nil)

type capturePublisher struct {
	events []tournament_out.Event
}

func (c *capturePublisher) Publish(_ context.Context, event tournament_out.Event) error {
	c.events = append(c.events, event)
	return nil
}

var _ tournament_out.EventPublisher = (*capturePublisher)(nil)

func newTournamentWithPlayers(t *testing.T, organiser uuid.UUID, n int) *tournament_entities.Tournament {
	t.Helper()
	tournament, err := tournament_entities.NewTournament(
		"Club Night", tournament_entities.SystemAmericano, organiser,
		n, 32, 2, "", time.Now().Add(time.Hour),
	)
	require.NoError(t, err)
	for i := 0; i < n; i++ {
		require.NoError(t, tournament.AddPlayer(uuid.New()))
	}
	return tournament
}

func isJoinCodeShaped(code string) bool {
	if len(code) != joinCodeLength {
		return false
	}
	for _, r := range code {
		if !strings.ContainsRune(joinCodeAlphabet, r) {
			return false
		}
	}
	return true
}
