package rating_services

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"github.com/google/uuid"
	common "github.com/padel-api/padel-api/pkg/domain"
	rating_entities "github.com/padel-api/padel-api/pkg/domain/rating/entities"
	rating_in "github.com/padel-api/padel-api/pkg/domain/rating/ports/in"
	rating_out "github.com/padel-api/padel-api/pkg/domain/rating/ports/out"
	tournament_entities "github.com/padel-api/padel-api/pkg/domain/tournament/entities"
)

// Config holds the numeric constants of the Elo engine. Passed at
// construction so tests can override any of them.
type Config struct {
	InitialRating float64

	KBaseNew         float64 // matches played below NewThreshold
	KBaseNormal      float64
	KBaseExperienced float64 // matches played above ExperiencedThreshold
	NewThreshold     int
	ExpThreshold     int

	ScalingFactor float64 // classic Elo denominator
	MarginLambda  float64 // margin-of-victory coefficient

	// Uncertainty multipliers keyed on the lower matches-played count of a
	// team's two players.
	UncertainNewMatches int
	UncertainNewFactor  float64
	UncertainMidMatches int
	UncertainMidFactor  float64

	SplitAlpha float64 // teammate split tilt
	GapCap     float64 // clamp on the teammate rating gap

	// Minimum rated matches to appear on the leaderboard.
	LeaderboardMinMatches int
}

// DefaultConfig returns the production constants.
func DefaultConfig() Config {
	return Config{
		InitialRating:         rating_entities.InitialRating,
		KBaseNew:              40,
		KBaseNormal:           20,
		KBaseExperienced:      10,
		NewThreshold:          30,
		ExpThreshold:          100,
		ScalingFactor:         400,
		MarginLambda:          0.75,
		UncertainNewMatches:   5,
		UncertainNewFactor:    1.25,
		UncertainMidMatches:   15,
		UncertainMidFactor:    1.10,
		SplitAlpha:            0.25,
		GapCap:                200,
		LeaderboardMinMatches: 5,
	}
}

// EloRatingService applies conserved doubles Elo updates: one team delta is
// computed, the other team's is its negation, and each team delta is split
// between teammates with a rating-aware weighting that favours the weaker
// partner.
type EloRatingService struct {
	cfg              Config
	ratingRepository rating_out.PlayerRatingRepository
	historyLimit     int
}

// NewEloRatingService creates the rating engine.
func NewEloRatingService(cfg Config, ratingRepository rating_out.PlayerRatingRepository) rating_in.RatingService {
	return &EloRatingService{
		cfg:              cfg,
		ratingRepository: ratingRepository,
		historyLimit:     10,
	}
}

// GetOrCreateRating returns the player's rating, lazily creating it.
func (s *EloRatingService) GetOrCreateRating(ctx context.Context, playerID uuid.UUID) (*rating_entities.PlayerRating, error) {
	rating, err := s.ratingRepository.FindByPlayer(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf("find player rating: %w", err)
	}
	if rating != nil {
		return rating, nil
	}

	rating = rating_entities.NewPlayerRating(playerID)
	rating.CurrentRating = s.cfg.InitialRating
	rating.PeakRating = s.cfg.InitialRating
	rating.LowestRating = s.cfg.InitialRating
	if err := s.ratingRepository.Save(ctx, rating); err != nil {
		return nil, fmt.Errorf("create player rating: %w", err)
	}
	slog.InfoContext(ctx, "created player rating", "player_id", playerID, "rating", rating.CurrentRating)
	return rating, nil
}

// kBase returns the experience-banded base K factor.
func (s *EloRatingService) kBase(matchesPlayed int) float64 {
	switch {
	case matchesPlayed < s.cfg.NewThreshold:
		return s.cfg.KBaseNew
	case matchesPlayed > s.cfg.ExpThreshold:
		return s.cfg.KBaseExperienced
	default:
		return s.cfg.KBaseNormal
	}
}

// uncertainty returns the multiplier for a team whose less experienced player
// has played minMatches rated matches.
func (s *EloRatingService) uncertainty(minMatches int) float64 {
	switch {
	case minMatches < s.cfg.UncertainNewMatches:
		return s.cfg.UncertainNewFactor
	case minMatches < s.cfg.UncertainMidMatches:
		return s.cfg.UncertainMidFactor
	default:
		return 1.0
	}
}

// splitWeights distributes a team delta between partners rated rA and rB. The
// lower-rated partner gets the larger share of a positive delta and the
// smaller share of a negative one.
func (s *EloRatingService) splitWeights(rA, rB float64) (wA, wB float64) {
	gap := rB - rA // positive when A is the lower-rated partner
	if gap > s.cfg.GapCap {
		gap = s.cfg.GapCap
	} else if gap < -s.cfg.GapCap {
		gap = -s.cfg.GapCap
	}
	wA = 0.5 + s.cfg.SplitAlpha*gap/(2*s.cfg.GapCap)
	return wA, 1 - wA
}

// ComputeDeltas is the pure core of the engine: given the four pre-update
// ratings (team 1 first), the four matches-played counts, and the two team
// scores, it returns the four conserved deltas. Exposed so the administrative
// recalculation path can reproduce an update from recorded pre-state.
func (s *EloRatingService) ComputeDeltas(pre [4]float64, played [4]int, team1Score, team2Score int) [4]float64 {
	team1Rating := (pre[0] + pre[1]) / 2
	team2Rating := (pre[2] + pre[3]) / 2

	team1Expected := 1.0 / (1.0 + math.Pow(10, (team2Rating-team1Rating)/s.cfg.ScalingFactor))

	totalPoints := team1Score + team2Score
	var team1Actual float64
	if totalPoints > 0 {
		team1Actual = float64(team1Score) / float64(totalPoints)
	} else if team1Score > team2Score {
		team1Actual = 1.0
	}

	team1MinMatches := min(played[0], played[1])
	margin := float64(abs(team1Score-team2Score)) / float64(max(totalPoints, 1))
	kEff := s.kBase(team1MinMatches) * (1 + s.cfg.MarginLambda*margin) * s.uncertainty(team1MinMatches)

	// Single team delta; the other team's is its exact negation, so the
	// four deltas sum to zero by construction.
	deltaTeam1 := kEff * (team1Actual - team1Expected)
	deltaTeam2 := -deltaTeam1

	w11, w12 := s.splitWeights(pre[0], pre[1])
	w21, w22 := s.splitWeights(pre[2], pre[3])

	return [4]float64{w11 * deltaTeam1, w12 * deltaTeam1, w21 * deltaTeam2, w22 * deltaTeam2}
}

// UpdateMatchRatings applies the Elo update for one completed match. All four
// rating mutations and history entries are persisted through the repository;
// the caller runs this inside its own transaction so the per-player writes
// commit together or not at all.
func (s *EloRatingService) UpdateMatchRatings(ctx context.Context, match *tournament_entities.Match) (map[uuid.UUID]float64, error) {
	if match == nil || !match.IsCompleted {
		return nil, common.NewErrWrongStatus("rating update requires a completed match with scores")
	}

	playerIDs := match.PlayerIDs()
	ratings := make([]*rating_entities.PlayerRating, 4)
	for i, id := range playerIDs {
		rating, err := s.GetOrCreateRating(ctx, id)
		if err != nil {
			return nil, err
		}
		ratings[i] = rating
	}

	// Snapshot before any mutation so history records are order-independent.
	var pre [4]float64
	var played [4]int
	for i, r := range ratings {
		pre[i] = r.CurrentRating
		played[i] = r.MatchesPlayed
	}

	deltas := s.ComputeDeltas(pre, played, match.Team1Score, match.Team2Score)

	totalPoints := match.Team1Score + match.Team2Score
	winner := match.WinnerTeam()

	changes := make(map[uuid.UUID]float64, 4)
	for i, rating := range ratings {
		team := 1
		teamScore, oppScore := match.Team1Score, match.Team2Score
		if i >= 2 {
			team = 2
			teamScore, oppScore = match.Team2Score, match.Team1Score
		}

		oldRating, newRating := rating.Apply(deltas[i])
		rating.MatchesPlayed++
		if winner == team {
			rating.MatchesWon++
		}
		rating.TotalPointsScored += teamScore
		rating.TotalPointsPossible += totalPoints

		if err := s.ratingRepository.Update(ctx, rating); err != nil {
			return nil, fmt.Errorf("update player rating: %w", err)
		}

		entry := &rating_entities.RatingHistoryEntry{
			BaseEntity:      common.NewBaseEntity(),
			PlayerRatingID:  rating.ID,
			TournamentID:    &match.TournamentID,
			MatchID:         &match.ID,
			OldRating:       oldRating,
			NewRating:       newRating,
			RatingChange:    newRating - oldRating,
			PartnerRating:   pre[partnerIndex(i)],
			OpponentRatings: opponentRatings(pre, i),
			MatchResult:     fmt.Sprintf("%d-%d", teamScore, oppScore),
		}
		if err := s.ratingRepository.AppendHistory(ctx, entry); err != nil {
			return nil, fmt.Errorf("append rating history: %w", err)
		}

		changes[rating.PlayerID] = deltas[i]
	}

	slog.InfoContext(ctx, "updated match ratings",
		"match_id", match.ID,
		"tournament_id", match.TournamentID,
		"result", match.ResultString(),
	)
	return changes, nil
}

// ApplyPodium increments podium counters for the top three and the
// tournaments-played counter for every participant.
func (s *EloRatingService) ApplyPodium(ctx context.Context, leaderboard []tournament_entities.PlayerStats) error {
	for position, row := range leaderboard {
		rating, err := s.GetOrCreateRating(ctx, row.PlayerID)
		if err != nil {
			return err
		}
		switch position {
		case 0:
			rating.FirstPlaceFinishes++
		case 1:
			rating.SecondPlaceFinishes++
		case 2:
			rating.ThirdPlaceFinishes++
		}
		rating.TournamentsPlayed++
		rating.Touch()
		if err := s.ratingRepository.Update(ctx, rating); err != nil {
			return fmt.Errorf("update podium counters: %w", err)
		}
	}
	return nil
}

// PlayerStatistics assembles the statistics read-model for a player.
func (s *EloRatingService) PlayerStatistics(ctx context.Context, playerID uuid.UUID) (*rating_in.PlayerStatistics, error) {
	rating, err := s.GetOrCreateRating(ctx, playerID)
	if err != nil {
		return nil, err
	}
	history, err := s.ratingRepository.RecentHistory(ctx, rating.ID, s.historyLimit)
	if err != nil {
		return nil, fmt.Errorf("load rating history: %w", err)
	}
	return &rating_in.PlayerStatistics{
		Rating:        rating,
		SkillLevel:    rating_entities.SkillLevelFor(rating.CurrentRating),
		RecentHistory: history,
	}, nil
}

// TopRatings returns the Elo leaderboard.
func (s *EloRatingService) TopRatings(ctx context.Context, limit int) ([]*rating_entities.PlayerRating, error) {
	return s.ratingRepository.TopByRating(ctx, s.cfg.LeaderboardMinMatches, limit)
}

func partnerIndex(i int) int {
	switch i {
	case 0:
		return 1
	case 1:
		return 0
	case 2:
		return 3
	default:
		return 2
	}
}

func opponentRatings(pre [4]float64, i int) [2]float64 {
	if i < 2 {
		return [2]float64{pre[2], pre[3]}
	}
	return [2]float64{pre[0], pre[1]}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

var _ rating_in.RatingService = (*EloRatingService)(nil)
