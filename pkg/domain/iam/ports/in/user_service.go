package iam_in

import (
	"context"

	"github.com/google/uuid"
	iam_entities "github.com/padel-api/padel-api/pkg/domain/iam/entities"
)

// UserService is the inbound port for user lookups and guest provisioning.
type UserService interface {
	Get(ctx context.Context, userID uuid.UUID) (*iam_entities.User, error)
	Search(ctx context.Context, query string, limit int) ([]*iam_entities.User, error)
	CreateGuest(ctx context.Context, fullName string) (*iam_entities.User, error)
}
