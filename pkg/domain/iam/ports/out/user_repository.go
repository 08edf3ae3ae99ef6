package iam_out

import (
	"context"

	"github.com/google/uuid"
	iam_entities "github.com/padel-api/padel-api/pkg/domain/iam/entities"
)

// UserRepository handles persistence of users and guests.
type UserRepository interface {
	// FindByID returns the user or a NotFound error.
	FindByID(ctx context.Context, id uuid.UUID) (*iam_entities.User, error)

	// FindByIDs returns the users that exist among the given ids.
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*iam_entities.User, error)

	// Search matches name or email substrings, active users first.
	Search(ctx context.Context, query string, limit int) ([]*iam_entities.User, error)

	// Save creates a user. A duplicate email surfaces as a Conflict error.
	Save(ctx context.Context, user *iam_entities.User) error

	// Update persists a mutated user.
	Update(ctx context.Context, user *iam_entities.User) error

	// Delete removes a user permanently. Callers must first establish
	// that no historical matches reference the user.
	Delete(ctx context.Context, id uuid.UUID) error
}
