package admin_in

import (
	"context"

	"github.com/google/uuid"
	admin_entities "github.com/padel-api/padel-api/pkg/domain/admin/entities"
	admin_out "github.com/padel-api/padel-api/pkg/domain/admin/ports/out"
	iam_entities "github.com/padel-api/padel-api/pkg/domain/iam/entities"
	tournament_entities "github.com/padel-api/padel-api/pkg/domain/tournament/entities"
)

// OverrideMatchResultCommand rewrites a completed match's scores.
type OverrideMatchResultCommand struct {
	MatchID    uuid.UUID
	Team1Score int
	Team2Score int
	Reason     string
}

// OverrideMatchResultCommandHandler is the audited superuser path around the
// normal no-rewrite rule. Overrides do not re-run the rating update; a
// recalculation of stored results is triggered separately.
type OverrideMatchResultCommandHandler interface {
	Exec(ctx context.Context, cmd OverrideMatchResultCommand) (*tournament_entities.Match, error)
}

// RecalculateResultsCommandHandler rebuilds a completed tournament's stored
// placements from its matches.
type RecalculateResultsCommandHandler interface {
	Exec(ctx context.Context, tournamentID uuid.UUID, reason string) ([]*tournament_entities.TournamentResult, error)
}

// ForceStatusCommand moves a tournament's lifecycle state forward.
type ForceStatusCommand struct {
	TournamentID uuid.UUID
	Status       tournament_entities.TournamentStatus
	Reason       string
}

// ForceStatusCommandHandler forces a forward lifecycle transition. Backward
// transitions are rejected; history derived from a state must stay valid.
type ForceStatusCommandHandler interface {
	Exec(ctx context.Context, cmd ForceStatusCommand) (*tournament_entities.Tournament, error)
}

// ManageUsersCommandHandler covers audited account administration. Delete
// deactivates instead when the user appears in any tournament, so historical
// schedules keep resolving.
type ManageUsersCommandHandler interface {
	SetActive(ctx context.Context, userID uuid.UUID, active bool, reason string) (*iam_entities.User, error)
	Delete(ctx context.Context, userID uuid.UUID, reason string) error
}

// AuditQueries is the read side of the audit trail.
type AuditQueries interface {
	Search(ctx context.Context, filters admin_out.AuditFilters) ([]*admin_entities.AuditEntry, error)
	Stats(ctx context.Context) (*admin_out.AuditStats, error)
	TargetHistory(ctx context.Context, targetType admin_entities.TargetType, targetID string) ([]*admin_entities.AuditEntry, error)
}
