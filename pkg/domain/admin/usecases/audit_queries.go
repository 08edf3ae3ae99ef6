package admin_usecases

import (
	"context"

	common "github.com/padel-api/padel-api/pkg/domain"
	admin_entities "github.com/padel-api/padel-api/pkg/domain/admin/entities"
	admin_in "github.com/padel-api/padel-api/pkg/domain/admin/ports/in"
	admin_out "github.com/padel-api/padel-api/pkg/domain/admin/ports/out"
)

// AuditQueriesUseCase is the superuser-only read side of the audit trail.
type AuditQueriesUseCase struct {
	auditRepository admin_out.AuditRepository
}

func NewAuditQueriesUseCase(auditRepository admin_out.AuditRepository) *AuditQueriesUseCase {
	return &AuditQueriesUseCase{auditRepository: auditRepository}
}

func (uc *AuditQueriesUseCase) authorize(ctx context.Context) error {
	if !common.IsAuthenticated(ctx) || !common.GetResourceOwner(ctx).IsSuperuser {
		return common.NewErrUnauthorized()
	}
	return nil
}

func (uc *AuditQueriesUseCase) Search(ctx context.Context, filters admin_out.AuditFilters) ([]*admin_entities.AuditEntry, error) {
	if err := uc.authorize(ctx); err != nil {
		return nil, err
	}
	return uc.auditRepository.Search(ctx, filters)
}

func (uc *AuditQueriesUseCase) Stats(ctx context.Context) (*admin_out.AuditStats, error) {
	if err := uc.authorize(ctx); err != nil {
		return nil, err
	}
	return uc.auditRepository.Stats(ctx)
}

func (uc *AuditQueriesUseCase) TargetHistory(ctx context.Context, targetType admin_entities.TargetType, targetID string) ([]*admin_entities.AuditEntry, error) {
	if err := uc.authorize(ctx); err != nil {
		return nil, err
	}
	return uc.auditRepository.TargetHistory(ctx, targetType, targetID)
}

var _ admin_in.AuditQueries = (*AuditQueriesUseCase)(nil)
