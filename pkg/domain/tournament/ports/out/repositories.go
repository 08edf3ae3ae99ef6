package tournament_out

import (
	"context"
	"time"

	"github.com/google/uuid"
	tournament_entities "github.com/padel-api/padel-api/pkg/domain/tournament/entities"
)

// TournamentFilters narrows tournament listings. Nil pointer fields are
// ignored. Location matches as a case-insensitive substring.
type TournamentFilters struct {
	System        *tournament_entities.TournamentSystem
	Status        *tournament_entities.TournamentStatus
	CreatedBy     *uuid.UUID
	PlayerID      *uuid.UUID
	Location      string
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
	StartsAfter   *time.Time
	MinAvgRating  *float64
	MaxAvgRating  *float64
	Limit         int
	Offset        int
}

// TournamentRepository handles persistence of tournament aggregates.
type TournamentRepository interface {
	// FindByID returns the tournament or a NotFound error.
	FindByID(ctx context.Context, id uuid.UUID) (*tournament_entities.Tournament, error)

	// FindByJoinCode resolves a join code, or returns NotFound.
	FindByJoinCode(ctx context.Context, code string) (*tournament_entities.Tournament, error)

	// Search lists tournaments matching the filters, newest first.
	Search(ctx context.Context, filters TournamentFilters) ([]*tournament_entities.Tournament, error)

	// Save creates a new tournament.
	Save(ctx context.Context, t *tournament_entities.Tournament) error

	// Update persists a mutated tournament. A duplicate join code surfaces
	// as a Conflict error.
	Update(ctx context.Context, t *tournament_entities.Tournament) error

	// Delete removes a tournament and cascades to its matches and results.
	Delete(ctx context.Context, id uuid.UUID) error
}

// MatchRepository handles persistence of matches.
type MatchRepository interface {
	// FindByID returns the match or a NotFound error.
	FindByID(ctx context.Context, id uuid.UUID) (*tournament_entities.Match, error)

	// FindByTournament returns all matches ordered by round then creation.
	FindByTournament(ctx context.Context, tournamentID uuid.UUID) ([]*tournament_entities.Match, error)

	// FindByRound returns the matches of one round.
	FindByRound(ctx context.Context, tournamentID uuid.UUID, roundNumber int) ([]*tournament_entities.Match, error)

	// FindCompleted returns the completed matches of a tournament.
	FindCompleted(ctx context.Context, tournamentID uuid.UUID) ([]*tournament_entities.Match, error)

	// SaveAll persists a freshly generated schedule.
	SaveAll(ctx context.Context, matches []*tournament_entities.Match) error

	// Update persists a mutated match.
	Update(ctx context.Context, match *tournament_entities.Match) error
}

// ResultRepository handles persistence of final tournament placements.
type ResultRepository interface {
	// FindByTournament returns results ordered by final position.
	FindByTournament(ctx context.Context, tournamentID uuid.UUID) ([]*tournament_entities.TournamentResult, error)

	// FindByTournamentAndPlayer returns one player's result, or NotFound.
	FindByTournamentAndPlayer(ctx context.Context, tournamentID, playerID uuid.UUID) (*tournament_entities.TournamentResult, error)

	// ReplaceForTournament atomically replaces the whole result set of a
	// tournament.
	ReplaceForTournament(ctx context.Context, tournamentID uuid.UUID, results []*tournament_entities.TournamentResult) error
}
