package tournament_entities

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	common "github.com/padel-api/padel-api/pkg/domain"
)

// Match is one game between two two-player teams inside a round. The four
// player ids are distinct and all belong to the parent tournament's roster.
type Match struct {
	common.BaseEntity
	TournamentID  uuid.UUID  `json:"tournament_id" bson:"tournament_id"`
	RoundNumber   int        `json:"round_number" bson:"round_number"`
	Team1Player1  uuid.UUID  `json:"team1_player1_id" bson:"team1_player1_id"`
	Team1Player2  uuid.UUID  `json:"team1_player2_id" bson:"team1_player2_id"`
	Team2Player1  uuid.UUID  `json:"team2_player1_id" bson:"team2_player1_id"`
	Team2Player2  uuid.UUID  `json:"team2_player2_id" bson:"team2_player2_id"`
	Team1Score    int        `json:"team1_score" bson:"team1_score"`
	Team2Score    int        `json:"team2_score" bson:"team2_score"`
	IsCompleted   bool       `json:"is_completed" bson:"is_completed"`
	CompletedAt   *time.Time `json:"completed_at,omitempty" bson:"completed_at,omitempty"`
}

// NewMatch creates a scheduled (incomplete) match for a round.
func NewMatch(tournamentID uuid.UUID, roundNumber int, team1p1, team1p2, team2p1, team2p2 uuid.UUID) *Match {
	return &Match{
		BaseEntity:   common.NewBaseEntity(),
		TournamentID: tournamentID,
		RoundNumber:  roundNumber,
		Team1Player1: team1p1,
		Team1Player2: team1p2,
		Team2Player1: team2p1,
		Team2Player2: team2p2,
	}
}

// PlayerIDs returns all four participants in team order.
func (m *Match) PlayerIDs() [4]uuid.UUID {
	return [4]uuid.UUID{m.Team1Player1, m.Team1Player2, m.Team2Player1, m.Team2Player2}
}

// HasPlayer reports whether the player takes part in this match.
func (m *Match) HasPlayer(playerID uuid.UUID) bool {
	for _, id := range m.PlayerIDs() {
		if id == playerID {
			return true
		}
	}
	return false
}

// ValidateScores checks Americano score constraints without mutating the match.
func (m *Match) ValidateScores(team1Score, team2Score, pointsPerMatch int) error {
	if team1Score < 0 || team2Score < 0 {
		return common.NewErrInvalidScore("scores must be non-negative, got %d-%d", team1Score, team2Score)
	}
	if team1Score+team2Score != pointsPerMatch {
		return common.NewErrInvalidScore("scores must sum to %d, got %d-%d", pointsPerMatch, team1Score, team2Score)
	}
	return nil
}

// Record completes the match with the given scores. A completed match rejects
// further recording; the administrative override path uses Override instead.
func (m *Match) Record(team1Score, team2Score, pointsPerMatch int) error {
	if m.IsCompleted {
		return common.NewErrAlreadyRecorded("match %s already has a recorded result", m.ID)
	}
	if err := m.ValidateScores(team1Score, team2Score, pointsPerMatch); err != nil {
		return err
	}
	now := time.Now().UTC()
	m.Team1Score = team1Score
	m.Team2Score = team2Score
	m.IsCompleted = true
	m.CompletedAt = &now
	m.Touch()
	return nil
}

// Override rewrites the scores of a completed match. Only the audited
// administrative path calls this; the status machine does not move.
func (m *Match) Override(team1Score, team2Score, pointsPerMatch int) error {
	if !m.IsCompleted {
		return common.NewErrWrongStatus("match %s has no result to override", m.ID)
	}
	if err := m.ValidateScores(team1Score, team2Score, pointsPerMatch); err != nil {
		return err
	}
	m.Team1Score = team1Score
	m.Team2Score = team2Score
	m.Touch()
	return nil
}

// WinnerTeam returns 1 or 2 for the winning team, 0 for a tie or an
// incomplete match.
func (m *Match) WinnerTeam() int {
	if !m.IsCompleted {
		return 0
	}
	switch {
	case m.Team1Score > m.Team2Score:
		return 1
	case m.Team2Score > m.Team1Score:
		return 2
	default:
		return 0
	}
}

// ResultString renders the score as "21-11" from team 1's perspective.
func (m *Match) ResultString() string {
	return fmt.Sprintf("%d-%d", m.Team1Score, m.Team2Score)
}
