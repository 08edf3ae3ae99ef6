package iam_usecases

import (
	"context"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	common "github.com/padel-api/padel-api/pkg/domain"
	iam_entities "github.com/padel-api/padel-api/pkg/domain/iam/entities"
	iam_in "github.com/padel-api/padel-api/pkg/domain/iam/ports/in"
	iam_out "github.com/padel-api/padel-api/pkg/domain/iam/ports/out"
)

const defaultSearchLimit = 20

// UserServiceUseCase resolves users and provisions guests. Account creation
// itself lives in the external identity layer.
type UserServiceUseCase struct {
	userRepository iam_out.UserRepository
	logger         *slog.Logger
}

func NewUserServiceUseCase(userRepository iam_out.UserRepository, logger *slog.Logger) *UserServiceUseCase {
	return &UserServiceUseCase{userRepository: userRepository, logger: logger}
}

func (uc *UserServiceUseCase) Get(ctx context.Context, userID uuid.UUID) (*iam_entities.User, error) {
	if !common.IsAuthenticated(ctx) {
		return nil, common.NewErrUnauthorized()
	}
	return uc.userRepository.FindByID(ctx, userID)
}

func (uc *UserServiceUseCase) Search(ctx context.Context, query string, limit int) ([]*iam_entities.User, error) {
	if !common.IsAuthenticated(ctx) {
		return nil, common.NewErrUnauthorized()
	}
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, common.NewErrInvalidInput("search query must not be empty")
	}
	if limit <= 0 || limit > defaultSearchLimit {
		limit = defaultSearchLimit
	}
	return uc.userRepository.Search(ctx, query, limit)
}

func (uc *UserServiceUseCase) CreateGuest(ctx context.Context, fullName string) (*iam_entities.User, error) {
	if !common.IsAuthenticated(ctx) {
		return nil, common.NewErrUnauthorized()
	}
	fullName = strings.TrimSpace(fullName)
	if fullName == "" {
		return nil, common.NewErrInvalidInput("guest name must not be empty")
	}
	guest := iam_entities.NewGuest(fullName)
	if err := uc.userRepository.Save(ctx, guest); err != nil {
		return nil, err
	}
	uc.logger.InfoContext(ctx, "guest created", "guest_id", guest.ID, "created_by", common.GetResourceOwner(ctx).UserID)
	return guest, nil
}

var _ iam_in.UserService = (*UserServiceUseCase)(nil)
