package rating_out

import (
	"context"

	"github.com/google/uuid"
	rating_entities "github.com/padel-api/padel-api/pkg/domain/rating/entities"
)

// PlayerRatingRepository handles persistence of player ratings and their
// history. History entries must be written in the same transaction as the
// rating mutation they describe.
type PlayerRatingRepository interface {
	// FindByPlayer returns the rating for a player, or nil when none exists.
	FindByPlayer(ctx context.Context, playerID uuid.UUID) (*rating_entities.PlayerRating, error)

	// FindByPlayers returns the ratings that exist for the given players.
	FindByPlayers(ctx context.Context, playerIDs []uuid.UUID) ([]*rating_entities.PlayerRating, error)

	// Save creates a new rating.
	Save(ctx context.Context, rating *rating_entities.PlayerRating) error

	// Update persists a mutated rating.
	Update(ctx context.Context, rating *rating_entities.PlayerRating) error

	// TopByRating returns the highest-rated players that have played at
	// least minMatches rated matches, ordered by current rating descending.
	TopByRating(ctx context.Context, minMatches, limit int) ([]*rating_entities.PlayerRating, error)

	// AppendHistory persists one rating change record.
	AppendHistory(ctx context.Context, entry *rating_entities.RatingHistoryEntry) error

	// RecentHistory returns the newest history entries for a rating,
	// newest first.
	RecentHistory(ctx context.Context, playerRatingID uuid.UUID, limit int) ([]*rating_entities.RatingHistoryEntry, error)
}
