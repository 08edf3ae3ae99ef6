package rating_entities

import (
	"github.com/google/uuid"
	common "github.com/padel-api/padel-api/pkg/domain"
)

// InitialRating is assigned to a player on first use.
const InitialRating = 1000.0

// PlayerRating is a player's Elo rating and lifetime statistics. One per
// player, lazily created on first rated match. It owns its history entries.
type PlayerRating struct {
	common.BaseEntity
	PlayerID uuid.UUID `json:"player_id" bson:"player_id"`

	CurrentRating float64 `json:"current_rating" bson:"current_rating"`
	PeakRating    float64 `json:"peak_rating" bson:"peak_rating"`
	LowestRating  float64 `json:"lowest_rating" bson:"lowest_rating"`

	MatchesPlayed       int `json:"matches_played" bson:"matches_played"`
	MatchesWon          int `json:"matches_won" bson:"matches_won"`
	TotalPointsScored   int `json:"total_points_scored" bson:"total_points_scored"`
	TotalPointsPossible int `json:"total_points_possible" bson:"total_points_possible"`
	TournamentsPlayed   int `json:"tournaments_played" bson:"tournaments_played"`

	FirstPlaceFinishes  int `json:"first_place_finishes" bson:"first_place_finishes"`
	SecondPlaceFinishes int `json:"second_place_finishes" bson:"second_place_finishes"`
	ThirdPlaceFinishes  int `json:"third_place_finishes" bson:"third_place_finishes"`
}

// NewPlayerRating creates a rating at the initial value.
func NewPlayerRating(playerID uuid.UUID) *PlayerRating {
	return &PlayerRating{
		BaseEntity:    common.NewBaseEntity(),
		PlayerID:      playerID,
		CurrentRating: InitialRating,
		PeakRating:    InitialRating,
		LowestRating:  InitialRating,
	}
}

// Apply moves the rating by delta and updates peak/lowest.
func (r *PlayerRating) Apply(delta float64) (oldRating, newRating float64) {
	oldRating = r.CurrentRating
	newRating = oldRating + delta
	r.CurrentRating = newRating
	if newRating > r.PeakRating {
		r.PeakRating = newRating
	}
	if newRating < r.LowestRating {
		r.LowestRating = newRating
	}
	r.Touch()
	return oldRating, newRating
}

// WinRate is the percentage of rated matches won.
func (r *PlayerRating) WinRate() float64 {
	if r.MatchesPlayed == 0 {
		return 0
	}
	return float64(r.MatchesWon) / float64(r.MatchesPlayed) * 100
}

// AveragePointPercentage is the share of available points the player scored.
func (r *PlayerRating) AveragePointPercentage() float64 {
	if r.TotalPointsPossible == 0 {
		return 0
	}
	return float64(r.TotalPointsScored) / float64(r.TotalPointsPossible) * 100
}

// PodiumCount is the total number of top-three finishes.
func (r *PlayerRating) PodiumCount() int {
	return r.FirstPlaceFinishes + r.SecondPlaceFinishes + r.ThirdPlaceFinishes
}

// RatingHistoryEntry records one rating change. Written in the same
// transaction as the match completion so readers never see a completed match
// without its history.
type RatingHistoryEntry struct {
	common.BaseEntity
	PlayerRatingID uuid.UUID  `json:"player_rating_id" bson:"player_rating_id"`
	TournamentID   *uuid.UUID `json:"tournament_id,omitempty" bson:"tournament_id,omitempty"`
	MatchID        *uuid.UUID `json:"match_id,omitempty" bson:"match_id,omitempty"`

	OldRating    float64 `json:"old_rating" bson:"old_rating"`
	NewRating    float64 `json:"new_rating" bson:"new_rating"`
	RatingChange float64 `json:"rating_change" bson:"rating_change"`

	// Pre-update ratings of the other three players on court, so history
	// records are independent of the order updates were applied in.
	PartnerRating   float64    `json:"partner_rating" bson:"partner_rating"`
	OpponentRatings [2]float64 `json:"opponent_ratings" bson:"opponent_ratings"`

	// MatchResult is the score from this player's perspective, e.g. "21-11".
	MatchResult string `json:"match_result" bson:"match_result"`
}
