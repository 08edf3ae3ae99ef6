package admin_entities

import (
	"time"

	"github.com/google/uuid"
	common "github.com/padel-api/padel-api/pkg/domain"
)

// ActionType names an administrative action recorded in the audit trail.
type ActionType string

const (
	ActionMatchResultOverride ActionType = "match_result_override"
	ActionScoreRecalculation  ActionType = "score_recalculation"
	ActionStatusForceChange   ActionType = "status_force_change"
	ActionUserDelete          ActionType = "user_delete"
	ActionUserStatusChange    ActionType = "user_status_change"
)

// TargetType names the kind of entity an action touched.
type TargetType string

const (
	TargetUser       TargetType = "user"
	TargetTournament TargetType = "tournament"
	TargetMatch      TargetType = "match"
)

// AuditEntry records one administrative action: who did what to which entity,
// the before/after state, and the stated reason. Failed overrides are audited
// too, with the failure reason in NewValues.
type AuditEntry struct {
	common.BaseEntity
	AdminID       uuid.UUID      `json:"admin_id" bson:"admin_id"`
	Action        ActionType     `json:"action" bson:"action"`
	TargetType    TargetType     `json:"target_type" bson:"target_type"`
	TargetID      string         `json:"target_id" bson:"target_id"`
	OldValues     map[string]any `json:"old_values,omitempty" bson:"old_values,omitempty"`
	NewValues     map[string]any `json:"new_values,omitempty" bson:"new_values,omitempty"`
	Reason        string         `json:"reason" bson:"reason"`
	ClientAddress string         `json:"client_address,omitempty" bson:"client_address,omitempty"`
	Timestamp     time.Time      `json:"timestamp" bson:"timestamp"`
}

// NewAuditEntry stamps an audit record for an action performed now.
func NewAuditEntry(adminID uuid.UUID, action ActionType, targetType TargetType, targetID string, reason string) *AuditEntry {
	return &AuditEntry{
		BaseEntity: common.NewBaseEntity(),
		AdminID:    adminID,
		Action:     action,
		TargetType: targetType,
		TargetID:   targetID,
		Reason:     reason,
		Timestamp:  time.Now().UTC(),
	}
}
