package tournament_entities

import "github.com/google/uuid"

// PlayerStats is the per-player tally derived from a tournament's completed
// matches. Derived on read, never stored except inside TournamentResult.
type PlayerStats struct {
	PlayerID         uuid.UUID `json:"player_id"`
	TotalPoints      int       `json:"total_points"`
	PointsFor        int       `json:"points_for"`
	PointsAgainst    int       `json:"points_against"`
	PointsDifference int       `json:"points_difference"`
	Wins             int       `json:"wins"`
	Losses           int       `json:"losses"`
	Ties             int       `json:"ties"`
	MatchesPlayed    int       `json:"matches_played"`
}
