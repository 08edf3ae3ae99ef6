package tournament_in

import (
	"context"
	"time"

	"github.com/google/uuid"
	tournament_entities "github.com/padel-api/padel-api/pkg/domain/tournament/entities"
	tournament_out "github.com/padel-api/padel-api/pkg/domain/tournament/ports/out"
)

// CreateTournamentCommand carries the configuration of a new tournament.
type CreateTournamentCommand struct {
	Name           string
	System         tournament_entities.TournamentSystem
	MaxPlayers     int
	PointsPerMatch int
	Courts         int
	Location       string
	StartsAt       time.Time
}

// CreateTournamentCommandHandler creates a pending tournament.
type CreateTournamentCommandHandler interface {
	Exec(ctx context.Context, cmd CreateTournamentCommand) (*tournament_entities.Tournament, error)
}

// JoinTournamentCommandHandler puts the caller on a pending roster.
type JoinTournamentCommandHandler interface {
	Exec(ctx context.Context, tournamentID uuid.UUID) (*tournament_entities.Tournament, error)
}

// LeaveTournamentCommandHandler removes the caller from a pending roster.
type LeaveTournamentCommandHandler interface {
	Exec(ctx context.Context, tournamentID uuid.UUID) (*tournament_entities.Tournament, error)
}

// RosterCommandHandler lets the organiser manage the roster while pending.
type RosterCommandHandler interface {
	AddPlayer(ctx context.Context, tournamentID, playerID uuid.UUID) (*tournament_entities.Tournament, error)
	RemovePlayer(ctx context.Context, tournamentID, playerID uuid.UUID) (*tournament_entities.Tournament, error)
}

// JoinCodeCommandHandler manages join codes. GetOrCreate is idempotent: the
// first call mints a code, later calls return the same one.
type JoinCodeCommandHandler interface {
	GetOrCreate(ctx context.Context, tournamentID uuid.UUID) (string, error)
	JoinByCode(ctx context.Context, code string) (*tournament_entities.Tournament, error)
}

// StartTournamentCommandHandler transitions pending -> active, materialising
// the full round schedule atomically.
type StartTournamentCommandHandler interface {
	Exec(ctx context.Context, tournamentID uuid.UUID) (*tournament_entities.Tournament, error)
}

// RecordMatchResultCommand carries one match result.
type RecordMatchResultCommand struct {
	MatchID    uuid.UUID
	Team1Score int
	Team2Score int
}

// RecordMatchResultCommandHandler records a result, triggers the rating
// update, and advances the round cursor when the round is done.
type RecordMatchResultCommandHandler interface {
	Exec(ctx context.Context, cmd RecordMatchResultCommand) (*tournament_entities.Match, error)
}

// FinishTournamentCommandHandler transitions active -> completed and freezes
// final placements. A no-op returning the stored snapshot when already
// completed.
type FinishTournamentCommandHandler interface {
	Exec(ctx context.Context, tournamentID uuid.UUID) ([]*tournament_entities.TournamentResult, error)
}

// LeaderboardRow is one leaderboard line enriched with the display name.
type LeaderboardRow struct {
	Rank       int                             `json:"rank"`
	PlayerID   uuid.UUID                       `json:"player_id"`
	PlayerName string                          `json:"player_name"`
	Stats      tournament_entities.PlayerStats `json:"stats"`
}

// RoundView groups a round's matches for the schedule listing.
type RoundView struct {
	RoundNumber int                          `json:"round_number"`
	Matches     []*tournament_entities.Match `json:"matches"`
}

// TournamentQueries is the read side of the tournament API.
type TournamentQueries interface {
	Get(ctx context.Context, tournamentID uuid.UUID) (*tournament_entities.Tournament, error)
	List(ctx context.Context, filters tournament_out.TournamentFilters) ([]*tournament_entities.Tournament, error)
	CurrentRoundMatches(ctx context.Context, tournamentID uuid.UUID) ([]*tournament_entities.Match, error)
	AllRounds(ctx context.Context, tournamentID uuid.UUID) ([]RoundView, error)
	Leaderboard(ctx context.Context, tournamentID uuid.UUID) ([]LeaderboardRow, error)
	PlayerScores(ctx context.Context, tournamentID uuid.UUID) (map[uuid.UUID]int, error)
	Winner(ctx context.Context, tournamentID uuid.UUID) (*LeaderboardRow, error)
	Results(ctx context.Context, tournamentID uuid.UUID) ([]*tournament_entities.TournamentResult, error)
}
