package rating_in

import (
	"context"

	"github.com/google/uuid"
	rating_entities "github.com/padel-api/padel-api/pkg/domain/rating/entities"
	tournament_entities "github.com/padel-api/padel-api/pkg/domain/tournament/entities"
)

// PlayerStatistics is the read-model combining a rating snapshot with recent
// history and the derived skill band.
type PlayerStatistics struct {
	Rating        *rating_entities.PlayerRating         `json:"rating"`
	SkillLevel    rating_entities.SkillLevel            `json:"skill_level"`
	RecentHistory []*rating_entities.RatingHistoryEntry `json:"recent_history"`
}

// RatingService is the inbound port of the rating engine.
type RatingService interface {
	// GetOrCreateRating returns the player's rating, creating it at the
	// initial value on first use.
	GetOrCreateRating(ctx context.Context, playerID uuid.UUID) (*rating_entities.PlayerRating, error)

	// UpdateMatchRatings applies the conserved doubles Elo update for one
	// completed match and returns the per-player deltas.
	UpdateMatchRatings(ctx context.Context, match *tournament_entities.Match) (map[uuid.UUID]float64, error)

	// ApplyPodium increments podium and participation counters from a
	// final leaderboard. The caller guarantees it runs at most once per
	// tournament.
	ApplyPodium(ctx context.Context, leaderboard []tournament_entities.PlayerStats) error

	// PlayerStatistics assembles the statistics read-model for a player.
	PlayerStatistics(ctx context.Context, playerID uuid.UUID) (*PlayerStatistics, error)

	// TopRatings returns the rating leaderboard (minimum five rated
	// matches to appear).
	TopRatings(ctx context.Context, limit int) ([]*rating_entities.PlayerRating, error)
}
