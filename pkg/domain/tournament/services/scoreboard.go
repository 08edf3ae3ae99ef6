package tournament_services

import (
	"sort"

	"github.com/google/uuid"
	tournament_entities "github.com/padel-api/padel-api/pkg/domain/tournament/entities"
)

// Scoreboard derives per-player totals from completed matches. All methods are
// pure functions of their inputs.
type Scoreboard struct{}

// NewScoreboard creates the scoreboard service.
func NewScoreboard() *Scoreboard {
	return &Scoreboard{}
}

// ComputeStats tallies every completed match onto the roster, returned in
// roster order. Incomplete matches are ignored.
func (s *Scoreboard) ComputeStats(roster []uuid.UUID, matches []*tournament_entities.Match) []tournament_entities.PlayerStats {
	index := make(map[uuid.UUID]int, len(roster))
	stats := make([]tournament_entities.PlayerStats, len(roster))
	for i, id := range roster {
		index[id] = i
		stats[i].PlayerID = id
	}

	tally := func(playerID uuid.UUID, scored, conceded int) {
		i, ok := index[playerID]
		if !ok {
			return
		}
		st := &stats[i]
		st.TotalPoints += scored
		st.PointsFor += scored
		st.PointsAgainst += conceded
		st.PointsDifference += scored - conceded
		st.MatchesPlayed++
		switch {
		case scored > conceded:
			st.Wins++
		case scored < conceded:
			st.Losses++
		default:
			st.Ties++
		}
	}

	for _, m := range matches {
		if !m.IsCompleted {
			continue
		}
		tally(m.Team1Player1, m.Team1Score, m.Team2Score)
		tally(m.Team1Player2, m.Team1Score, m.Team2Score)
		tally(m.Team2Player1, m.Team2Score, m.Team1Score)
		tally(m.Team2Player2, m.Team2Score, m.Team1Score)
	}
	return stats
}

// Leaderboard orders the roster's stats by total points, then point
// difference; players still tied keep roster order (stable sort).
func (s *Scoreboard) Leaderboard(roster []uuid.UUID, matches []*tournament_entities.Match) []tournament_entities.PlayerStats {
	stats := s.ComputeStats(roster, matches)
	sort.SliceStable(stats, func(i, j int) bool {
		if stats[i].TotalPoints != stats[j].TotalPoints {
			return stats[i].TotalPoints > stats[j].TotalPoints
		}
		return stats[i].PointsDifference > stats[j].PointsDifference
	})
	return stats
}

// Winner returns the leader's id, or uuid.Nil for an empty roster.
func (s *Scoreboard) Winner(roster []uuid.UUID, matches []*tournament_entities.Match) uuid.UUID {
	board := s.Leaderboard(roster, matches)
	if len(board) == 0 {
		return uuid.Nil
	}
	return board[0].PlayerID
}
