package rating_services

import (
	"context"
	"sort"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	common "github.com/padel-api/padel-api/pkg/domain"
	rating_entities "github.com/padel-api/padel-api/pkg/domain/rating/entities"
	rating_out "github.com/padel-api/padel-api/pkg/domain/rating/ports/out"
	tournament_entities "github.com/padel-api/padel-api/pkg/domain/tournament/entities"
)

type fakeRatingRepository struct {
	ratings map[uuid.UUID]*rating_entities.PlayerRating
	history []*rating_entities.RatingHistoryEntry
	saves   int
}

func newFakeRatingRepository() *fakeRatingRepository {
	return &fakeRatingRepository{ratings: make(map[uuid.UUID]*rating_entities.PlayerRating)}
}

func (f *fakeRatingRepository) FindByPlayer(_ context.Context, playerID uuid.UUID) (*rating_entities.PlayerRating, error) {
	return f.ratings[playerID], nil
}

func (f *fakeRatingRepository) FindByPlayers(_ context.Context, playerIDs []uuid.UUID) ([]*rating_entities.PlayerRating, error) {
	out := make([]*rating_entities.PlayerRating, 0, len(playerIDs))
	for _, id := range playerIDs {
		if r, ok := f.ratings[id]; ok {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeRatingRepository) Save(_ context.Context, rating *rating_entities.PlayerRating) error {
	f.ratings[rating.PlayerID] = rating
	f.saves++
	return nil
}

func (f *fakeRatingRepository) Update(_ context.Context, rating *rating_entities.PlayerRating) error {
	f.ratings[rating.PlayerID] = rating
	return nil
}

func (f *fakeRatingRepository) TopByRating(_ context.Context, minMatches, limit int) ([]*rating_entities.PlayerRating, error) {
	out := make([]*rating_entities.PlayerRating, 0, len(f.ratings))
	for _, r := range f.ratings {
		if r.MatchesPlayed >= minMatches {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CurrentRating > out[j].CurrentRating })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeRatingRepository) AppendHistory(_ context.Context, entry *rating_entities.RatingHistoryEntry) error {
	f.history = append(f.history, entry)
	return nil
}

func (f *fakeRatingRepository) RecentHistory(_ context.Context, playerRatingID uuid.UUID, limit int) ([]*rating_entities.RatingHistoryEntry, error) {
	out := make([]*rating_entities.RatingHistoryEntry, 0, limit)
	for i := len(f.history) - 1; i >= 0 && len(out) < limit; i-- {
		if f.history[i].PlayerRatingID == playerRatingID {
			out = append(out, f.history[i])
		}
	}
	return out, nil
}

var _ rating_out.PlayerRatingRepository = (*fakeRatingRepository)(nil)

func newTestService(repo *fakeRatingRepository) *EloRatingService {
	return NewEloRatingService(DefaultConfig(), repo).(*EloRatingService)
}

func TestComputeDeltasConserved(t *testing.T) {
	svc := newTestService(newFakeRatingRepository())

	cases := []struct {
		pre    [4]float64
		played [4]int
		s1, s2 int
	}{
		{[4]float64{1000, 1000, 1000, 1000}, [4]int{0, 0, 0, 0}, 21, 11},
		{[4]float64{1200, 900, 1000, 1000}, [4]int{10, 10, 10, 10}, 24, 16},
		{[4]float64{1800, 1750, 1100, 1050}, [4]int{120, 130, 2, 5}, 5, 27},
		{[4]float64{1500, 1500, 1500, 1500}, [4]int{50, 50, 50, 50}, 16, 16},
	}
	for _, tc := range cases {
		deltas := svc.ComputeDeltas(tc.pre, tc.played, tc.s1, tc.s2)
		sum := deltas[0] + deltas[1] + deltas[2] + deltas[3]
		assert.InDelta(t, 0, sum, 1e-9, "deltas not conserved for %v", tc)
	}
}

func TestComputeDeltasFavoursWeakerPartner(t *testing.T) {
	svc := newTestService(newFakeRatingRepository())

	// slightly favoured team wins by more than expected
	deltas := svc.ComputeDeltas([4]float64{1200, 900, 1000, 1000}, [4]int{10, 10, 10, 10}, 24, 16)

	assert.Greater(t, deltas[0], 0.0)
	assert.Greater(t, deltas[1], 0.0)
	// the 900-rated partner carries the larger share of the win
	assert.Greater(t, deltas[1], deltas[0])
	assert.Less(t, deltas[2], 0.0)
	assert.Less(t, deltas[3], 0.0)
	// equally rated opponents split the loss evenly
	assert.InDelta(t, deltas[2], deltas[3], 1e-9)
}

func TestComputeDeltasEvenMatchTie(t *testing.T) {
	svc := newTestService(newFakeRatingRepository())

	deltas := svc.ComputeDeltas([4]float64{1500, 1500, 1500, 1500}, [4]int{50, 50, 50, 50}, 16, 16)
	for i, d := range deltas {
		assert.InDelta(t, 0, d, 1e-9, "delta %d", i)
	}
}

func TestKBaseBands(t *testing.T) {
	svc := newTestService(newFakeRatingRepository())

	assert.Equal(t, 40.0, svc.kBase(0))
	assert.Equal(t, 40.0, svc.kBase(29))
	assert.Equal(t, 20.0, svc.kBase(30))
	assert.Equal(t, 20.0, svc.kBase(100))
	assert.Equal(t, 10.0, svc.kBase(101))
}

func TestUncertaintyBands(t *testing.T) {
	svc := newTestService(newFakeRatingRepository())

	assert.Equal(t, 1.25, svc.uncertainty(0))
	assert.Equal(t, 1.25, svc.uncertainty(4))
	assert.Equal(t, 1.10, svc.uncertainty(5))
	assert.Equal(t, 1.10, svc.uncertainty(14))
	assert.Equal(t, 1.0, svc.uncertainty(15))
}

func TestSplitWeights(t *testing.T) {
	svc := newTestService(newFakeRatingRepository())

	wA, wB := svc.splitWeights(1000, 1000)
	assert.InDelta(t, 0.5, wA, 1e-9)
	assert.InDelta(t, 0.5, wB, 1e-9)

	// the gap clamps at 200 points either way
	wA, wB = svc.splitWeights(900, 1400)
	assert.InDelta(t, 0.625, wA, 1e-9)
	assert.InDelta(t, 0.375, wB, 1e-9)

	wA, wB = svc.splitWeights(1400, 900)
	assert.InDelta(t, 0.375, wA, 1e-9)
	assert.InDelta(t, 0.625, wB, 1e-9)
}

func TestGetOrCreateRatingIsLazy(t *testing.T) {
	repo := newFakeRatingRepository()
	svc := newTestService(repo)
	playerID := uuid.New()

	first, err := svc.GetOrCreateRating(context.Background(), playerID)
	require.NoError(t, err)
	assert.Equal(t, rating_entities.InitialRating, first.CurrentRating)
	assert.Equal(t, 1, repo.saves)

	second, err := svc.GetOrCreateRating(context.Background(), playerID)
	require.NoError(t, err)
	assert.Same(t, first, second)
	assert.Equal(t, 1, repo.saves)
}

func TestUpdateMatchRatings(t *testing.T) {
	repo := newFakeRatingRepository()
	svc := newTestService(repo)

	match := tournament_entities.NewMatch(uuid.New(), 1, uuid.New(), uuid.New(), uuid.New(), uuid.New())
	require.NoError(t, match.Record(21, 11, 32))

	changes, err := svc.UpdateMatchRatings(context.Background(), match)
	require.NoError(t, err)
	require.Len(t, changes, 4)

	var sum float64
	for _, d := range changes {
		sum += d
	}
	assert.InDelta(t, 0, sum, 1e-9)

	assert.Greater(t, changes[match.Team1Player1], 0.0)
	assert.Less(t, changes[match.Team2Player1], 0.0)

	for _, id := range match.PlayerIDs() {
		r := repo.ratings[id]
		require.NotNil(t, r)
		assert.Equal(t, 1, r.MatchesPlayed)
		assert.Equal(t, 32, r.TotalPointsPossible)
	}
	winner := repo.ratings[match.Team1Player1]
	assert.Equal(t, 1, winner.MatchesWon)
	assert.Equal(t, 21, winner.TotalPointsScored)
	loser := repo.ratings[match.Team2Player2]
	assert.Equal(t, 0, loser.MatchesWon)
	assert.Equal(t, 11, loser.TotalPointsScored)

	require.Len(t, repo.history, 4)
	for _, entry := range repo.history {
		assert.Equal(t, entry.NewRating-entry.OldRating, entry.RatingChange)
		require.NotNil(t, entry.MatchID)
		assert.Equal(t, match.ID, *entry.MatchID)
	}
	assert.Equal(t, "21-11", repo.history[0].MatchResult)
	assert.Equal(t, "11-21", repo.history[2].MatchResult)
}

func TestRatingHistoryChangeMatchesStoredRatings(t *testing.T) {
	repo := newFakeRatingRepository()
	svc := newTestService(repo)

	players := [4]uuid.UUID{uuid.New(), uuid.New(), uuid.New(), uuid.New()}
	tournamentID := uuid.New()

	// several matches in a row so ratings drift off round values before
	// each update; rating_change must stay exactly new_rating - old_rating
	scores := [][2]int{{21, 11}, {13, 19}, {17, 15}, {12, 20}, {24, 8}, {16, 16}, {9, 23}, {18, 14}}
	for _, s := range scores {
		match := tournament_entities.NewMatch(tournamentID, 1, players[0], players[1], players[2], players[3])
		require.NoError(t, match.Record(s[0], s[1], s[0]+s[1]))
		_, err := svc.UpdateMatchRatings(context.Background(), match)
		require.NoError(t, err)
	}

	require.Len(t, repo.history, 4*len(scores))
	for i, entry := range repo.history {
		assert.Equal(t, entry.NewRating-entry.OldRating, entry.RatingChange, "entry %d", i)
	}
}

func TestUpdateMatchRatingsRequiresCompletedMatch(t *testing.T) {
	svc := newTestService(newFakeRatingRepository())

	_, err := svc.UpdateMatchRatings(context.Background(), nil)
	assert.Equal(t, common.KindWrongStatus, common.KindOf(err))

	pending := tournament_entities.NewMatch(uuid.New(), 1, uuid.New(), uuid.New(), uuid.New(), uuid.New())
	_, err = svc.UpdateMatchRatings(context.Background(), pending)
	assert.Equal(t, common.KindWrongStatus, common.KindOf(err))
}

func TestApplyPodium(t *testing.T) {
	repo := newFakeRatingRepository()
	svc := newTestService(repo)

	leaderboard := make([]tournament_entities.PlayerStats, 4)
	for i := range leaderboard {
		leaderboard[i].PlayerID = uuid.New()
	}

	require.NoError(t, svc.ApplyPodium(context.Background(), leaderboard))

	assert.Equal(t, 1, repo.ratings[leaderboard[0].PlayerID].FirstPlaceFinishes)
	assert.Equal(t, 1, repo.ratings[leaderboard[1].PlayerID].SecondPlaceFinishes)
	assert.Equal(t, 1, repo.ratings[leaderboard[2].PlayerID].ThirdPlaceFinishes)
	assert.Equal(t, 0, repo.ratings[leaderboard[3].PlayerID].PodiumCount())
	for _, row := range leaderboard {
		assert.Equal(t, 1, repo.ratings[row.PlayerID].TournamentsPlayed)
	}
}

func TestTopRatingsAppliesMinimumMatches(t *testing.T) {
	repo := newFakeRatingRepository()
	svc := newTestService(repo)

	seasoned := rating_entities.NewPlayerRating(uuid.New())
	seasoned.CurrentRating = 1400
	seasoned.MatchesPlayed = 20
	repo.ratings[seasoned.PlayerID] = seasoned

	rookie := rating_entities.NewPlayerRating(uuid.New())
	rookie.CurrentRating = 1600
	rookie.MatchesPlayed = 2
	repo.ratings[rookie.PlayerID] = rookie

	top, err := svc.TopRatings(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, top, 1)
	assert.Equal(t, seasoned.PlayerID, top[0].PlayerID)
}

func TestPlayerStatistics(t *testing.T) {
	repo := newFakeRatingRepository()
	svc := newTestService(repo)
	playerID := uuid.New()

	stats, err := svc.PlayerStatistics(context.Background(), playerID)
	require.NoError(t, err)
	assert.Equal(t, playerID, stats.Rating.PlayerID)
	assert.Equal(t, "Beginner", stats.SkillLevel.Label)
	assert.Empty(t, stats.RecentHistory)
}
