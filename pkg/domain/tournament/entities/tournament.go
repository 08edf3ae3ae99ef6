package tournament_entities

import (
	"time"

	"github.com/google/uuid"
	common "github.com/padel-api/padel-api/pkg/domain"
)

// TournamentSystem tags the pairing format. Americano is the only system with
// an implementation; Mexicano is enumerated for forward compatibility and
// rejected everywhere it would need a scheduler.
type TournamentSystem string

const (
	SystemAmericano TournamentSystem = "americano"
	SystemMexicano  TournamentSystem = "mexicano"
)

// TournamentStatus is the lifecycle state. Transitions are strictly
// pending -> active -> completed; there is no backward path.
type TournamentStatus string

const (
	StatusPending   TournamentStatus = "pending"
	StatusActive    TournamentStatus = "active"
	StatusCompleted TournamentStatus = "completed"
)

// Roster bounds for the Americano format.
const (
	MinPlayers = 4
	MaxPlayers = 24
)

// Tournament is the aggregate root for a single Americano event. It owns its
// matches and final results (cascade on delete); players are referenced by id
// and resolved through the user repository.
type Tournament struct {
	common.BaseEntity
	Name                string           `json:"name" bson:"name"`
	System              TournamentSystem `json:"system" bson:"system"`
	Location            string           `json:"location,omitempty" bson:"location,omitempty"`
	CreatedBy           uuid.UUID        `json:"created_by" bson:"created_by"`
	Status              TournamentStatus `json:"status" bson:"status"`
	CurrentRound        int              `json:"current_round" bson:"current_round"`
	MaxPlayers          int              `json:"max_players" bson:"max_players"`
	PointsPerMatch      int              `json:"points_per_match" bson:"points_per_match"`
	Courts              int              `json:"courts" bson:"courts"`
	StartsAt            time.Time        `json:"starts_at" bson:"starts_at"`
	AveragePlayerRating float64          `json:"average_player_rating" bson:"average_player_rating"`
	JoinCode            *string          `json:"join_code,omitempty" bson:"join_code,omitempty"`
	PodiumApplied       bool             `json:"podium_applied" bson:"podium_applied"`
	Players             []uuid.UUID      `json:"players" bson:"players"`
}

// NewTournament creates a pending tournament with an empty roster.
func NewTournament(name string, system TournamentSystem, createdBy uuid.UUID, maxPlayers, pointsPerMatch, courts int, location string, startsAt time.Time) (*Tournament, error) {
	if name == "" {
		return nil, common.NewErrInvalidInput("tournament name must not be empty")
	}
	if system != SystemAmericano {
		return nil, common.NewErrInvalidInput("unsupported tournament system: %s", system)
	}
	if maxPlayers < MinPlayers || maxPlayers > MaxPlayers || maxPlayers%4 != 0 {
		return nil, common.NewErrInvalidInput("max_players must be a multiple of 4 between %d and %d, got %d", MinPlayers, MaxPlayers, maxPlayers)
	}
	if pointsPerMatch < 1 {
		return nil, common.NewErrInvalidInput("points_per_match must be >= 1, got %d", pointsPerMatch)
	}
	if courts < 1 {
		return nil, common.NewErrInvalidInput("courts must be >= 1, got %d", courts)
	}
	return &Tournament{
		BaseEntity:     common.NewBaseEntity(),
		Name:           name,
		System:         system,
		Location:       location,
		CreatedBy:      createdBy,
		Status:         StatusPending,
		CurrentRound:   1,
		MaxPlayers:     maxPlayers,
		PointsPerMatch: pointsPerMatch,
		Courts:         courts,
		StartsAt:       startsAt,
		Players:        make([]uuid.UUID, 0, maxPlayers),
	}, nil
}

// HasPlayer reports roster membership.
func (t *Tournament) HasPlayer(playerID uuid.UUID) bool {
	for _, id := range t.Players {
		if id == playerID {
			return true
		}
	}
	return false
}

// IsFull reports whether the roster reached max_players.
func (t *Tournament) IsFull() bool {
	return len(t.Players) >= t.MaxPlayers
}

// IsOrganiser reports whether the caller may run organiser operations.
func (t *Tournament) IsOrganiser(owner common.ResourceOwner) bool {
	return owner.IsSuperuser || owner.UserID == t.CreatedBy
}

// AddPlayer puts a player on the roster. Only legal while pending.
func (t *Tournament) AddPlayer(playerID uuid.UUID) error {
	if t.Status != StatusPending {
		return common.NewErrWrongStatus("roster changes require a pending tournament, status is %s", t.Status)
	}
	if t.HasPlayer(playerID) {
		return common.NewErrConflict("player %s is already on the roster", playerID)
	}
	if t.IsFull() {
		return common.NewErrConflict("tournament is full (%d/%d)", len(t.Players), t.MaxPlayers)
	}
	t.Players = append(t.Players, playerID)
	t.Touch()
	return nil
}

// RemovePlayer takes a player off the roster. Only legal while pending.
func (t *Tournament) RemovePlayer(playerID uuid.UUID) error {
	if t.Status != StatusPending {
		return common.NewErrWrongStatus("roster changes require a pending tournament, status is %s", t.Status)
	}
	for i, id := range t.Players {
		if id == playerID {
			t.Players = append(t.Players[:i], t.Players[i+1:]...)
			t.Touch()
			return nil
		}
	}
	return common.NewErrNotFound("roster player", playerID)
}

// ValidateRoster checks the Americano parity constraint at start time.
func (t *Tournament) ValidateRoster() error {
	n := len(t.Players)
	if n < MinPlayers || n > MaxPlayers || n%4 != 0 {
		return common.NewErrInvalidRoster("americano requires a roster of 4..24 players divisible by 4, got %d", n)
	}
	return nil
}

// Start transitions pending -> active and freezes the roster's mean rating.
func (t *Tournament) Start(averageRating float64) error {
	if t.Status != StatusPending {
		return common.NewErrWrongStatus("tournament cannot start from status %s", t.Status)
	}
	if err := t.ValidateRoster(); err != nil {
		return err
	}
	t.Status = StatusActive
	t.CurrentRound = 1
	t.AveragePlayerRating = averageRating
	t.Touch()
	return nil
}

// Complete transitions active -> completed. Completing an already completed
// tournament is a no-op so that finish stays idempotent for readers.
func (t *Tournament) Complete() error {
	switch t.Status {
	case StatusActive:
		t.Status = StatusCompleted
		t.Touch()
		return nil
	case StatusCompleted:
		return nil
	default:
		return common.NewErrWrongStatus("tournament cannot finish from status %s", t.Status)
	}
}

// TotalRounds is the schedule length for the current roster.
func (t *Tournament) TotalRounds() int {
	return len(t.Players) - 1
}
