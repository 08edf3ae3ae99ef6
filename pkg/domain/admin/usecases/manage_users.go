package admin_usecases

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	common "github.com/padel-api/padel-api/pkg/domain"
	admin_entities "github.com/padel-api/padel-api/pkg/domain/admin/entities"
	admin_in "github.com/padel-api/padel-api/pkg/domain/admin/ports/in"
	admin_out "github.com/padel-api/padel-api/pkg/domain/admin/ports/out"
	iam_entities "github.com/padel-api/padel-api/pkg/domain/iam/entities"
	iam_out "github.com/padel-api/padel-api/pkg/domain/iam/ports/out"
	tournament_out "github.com/padel-api/padel-api/pkg/domain/tournament/ports/out"
)

// ManageUsersUseCase covers audited account administration. A user that
// appears on any tournament roster is never hard-deleted; Delete degrades to a
// deactivation so historical schedules and results keep resolving.
type ManageUsersUseCase struct {
	userRepository       iam_out.UserRepository
	tournamentRepository tournament_out.TournamentRepository
	auditRepository      admin_out.AuditRepository
	txRunner             common.TxRunner
	logger               *slog.Logger
}

func NewManageUsersUseCase(
	userRepository iam_out.UserRepository,
	tournamentRepository tournament_out.TournamentRepository,
	auditRepository admin_out.AuditRepository,
	txRunner common.TxRunner,
	logger *slog.Logger,
) *ManageUsersUseCase {
	return &ManageUsersUseCase{
		userRepository:       userRepository,
		tournamentRepository: tournamentRepository,
		auditRepository:      auditRepository,
		txRunner:             txRunner,
		logger:               logger,
	}
}

func (uc *ManageUsersUseCase) SetActive(ctx context.Context, userID uuid.UUID, active bool, reason string) (*iam_entities.User, error) {
	owner := common.GetResourceOwner(ctx)
	if !common.IsAuthenticated(ctx) || !owner.IsSuperuser {
		return nil, common.NewErrUnauthorized()
	}
	if reason == "" {
		return nil, common.NewErrInvalidInput("a user status change requires a reason")
	}

	var user *iam_entities.User
	err := uc.txRunner.InTx(ctx, func(txCtx context.Context) error {
		var err error
		user, err = uc.userRepository.FindByID(txCtx, userID)
		if err != nil {
			return err
		}
		entry := admin_entities.NewAuditEntry(owner.UserID, admin_entities.ActionUserStatusChange,
			admin_entities.TargetUser, userID.String(), reason)
		entry.ClientAddress = common.GetClientAddress(txCtx)
		entry.OldValues = map[string]any{"is_active": user.IsActive}
		entry.NewValues = map[string]any{"is_active": active}

		user.IsActive = active
		user.Touch()
		if err := uc.userRepository.Update(txCtx, user); err != nil {
			return err
		}
		return uc.auditRepository.Append(txCtx, entry)
	})
	if err != nil {
		return nil, err
	}

	uc.logger.InfoContext(ctx, "user status changed",
		"user_id", userID, "is_active", active, "admin_id", owner.UserID)
	return user, nil
}

func (uc *ManageUsersUseCase) Delete(ctx context.Context, userID uuid.UUID, reason string) error {
	owner := common.GetResourceOwner(ctx)
	if !common.IsAuthenticated(ctx) || !owner.IsSuperuser {
		return common.NewErrUnauthorized()
	}
	if reason == "" {
		return common.NewErrInvalidInput("a user deletion requires a reason")
	}

	var deactivatedOnly bool
	err := uc.txRunner.InTx(ctx, func(txCtx context.Context) error {
		user, err := uc.userRepository.FindByID(txCtx, userID)
		if err != nil {
			return err
		}
		referencing, err := uc.tournamentRepository.Search(txCtx, tournament_out.TournamentFilters{PlayerID: &userID, Limit: 1})
		if err != nil {
			return err
		}

		entry := admin_entities.NewAuditEntry(owner.UserID, admin_entities.ActionUserDelete,
			admin_entities.TargetUser, userID.String(), reason)
		entry.ClientAddress = common.GetClientAddress(txCtx)
		entry.OldValues = map[string]any{"full_name": user.FullName, "is_active": user.IsActive}

		if len(referencing) > 0 {
			deactivatedOnly = true
			entry.NewValues = map[string]any{"deactivated_instead": true}
			user.IsActive = false
			user.Touch()
			if err := uc.userRepository.Update(txCtx, user); err != nil {
				return err
			}
		} else {
			entry.NewValues = map[string]any{"deleted": true}
			if err := uc.userRepository.Delete(txCtx, userID); err != nil {
				return err
			}
		}
		return uc.auditRepository.Append(txCtx, entry)
	})
	if err != nil {
		return err
	}

	uc.logger.InfoContext(ctx, "user deleted",
		"user_id", userID, "deactivated_instead", deactivatedOnly, "admin_id", owner.UserID)
	return nil
}

var _ admin_in.ManageUsersCommandHandler = (*ManageUsersUseCase)(nil)
