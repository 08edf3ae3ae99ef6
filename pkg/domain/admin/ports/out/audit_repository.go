package admin_out

import (
	"context"
	"time"

	admin_entities "github.com/padel-api/padel-api/pkg/domain/admin/entities"
)

// AuditFilters narrows audit log listings.
type AuditFilters struct {
	Action     *admin_entities.ActionType
	TargetType *admin_entities.TargetType
	TargetID   string
	After      *time.Time
	Before     *time.Time
	Limit      int
	Offset     int
}

// AuditStats summarises the audit trail per action type.
type AuditStats struct {
	TotalEntries   int                               `json:"total_entries"`
	CountsByAction map[admin_entities.ActionType]int `json:"counts_by_action"`
}

// AuditRepository persists the administrative audit trail. Entries are
// append-only.
type AuditRepository interface {
	Append(ctx context.Context, entry *admin_entities.AuditEntry) error
	Search(ctx context.Context, filters AuditFilters) ([]*admin_entities.AuditEntry, error)
	Stats(ctx context.Context) (*AuditStats, error)
	TargetHistory(ctx context.Context, targetType admin_entities.TargetType, targetID string) ([]*admin_entities.AuditEntry, error)
}
