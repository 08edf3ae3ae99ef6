package tournament_entities

import (
	"github.com/google/uuid"
	common "github.com/padel-api/padel-api/pkg/domain"
)

// TournamentResult is the frozen final placement of one player in one
// tournament. Created when the tournament finishes; immutable afterwards
// except through explicit administrative recomputation, which replaces the
// whole set for the tournament.
type TournamentResult struct {
	common.BaseEntity
	TournamentID     uuid.UUID `json:"tournament_id" bson:"tournament_id"`
	PlayerID         uuid.UUID `json:"player_id" bson:"player_id"`
	FinalPosition    int       `json:"final_position" bson:"final_position"`
	TotalScore       int       `json:"total_score" bson:"total_score"`
	PointsDifference int       `json:"points_difference" bson:"points_difference"`
	MatchesPlayed    int       `json:"matches_played" bson:"matches_played"`
	MatchesWon       int       `json:"matches_won" bson:"matches_won"`
	MatchesLost      int       `json:"matches_lost" bson:"matches_lost"`
	MatchesTied      int       `json:"matches_tied" bson:"matches_tied"`
}

// NewTournamentResult freezes one leaderboard row into a persistent result.
func NewTournamentResult(tournamentID, playerID uuid.UUID, position int, stats PlayerStats) *TournamentResult {
	return &TournamentResult{
		BaseEntity:       common.NewBaseEntity(),
		TournamentID:     tournamentID,
		PlayerID:         playerID,
		FinalPosition:    position,
		TotalScore:       stats.TotalPoints,
		PointsDifference: stats.PointsDifference,
		MatchesPlayed:    stats.MatchesPlayed,
		MatchesWon:       stats.Wins,
		MatchesLost:      stats.Losses,
		MatchesTied:      stats.Ties,
	}
}
