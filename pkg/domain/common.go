package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ContextKey is the type used for all values this module places on a context.
type ContextKey string

const (
	// AuthenticatedKey marks a request context as carrying a resolved identity.
	AuthenticatedKey ContextKey = "authenticated"
	// ResourceOwnerKey carries the ResourceOwner resolved by the HTTP layer.
	ResourceOwnerKey ContextKey = "resource_owner"
	// ClientAddressKey carries the remote address for audit records.
	ClientAddressKey ContextKey = "client_address"
)

// ResourceOwner identifies the caller of an operation. The HTTP layer resolves
// tokens to a ResourceOwner before the core is invoked; the core only checks
// capabilities, it never issues or validates tokens.
type ResourceOwner struct {
	UserID      uuid.UUID `json:"user_id" bson:"user_id"`
	IsSuperuser bool      `json:"is_superuser" bson:"is_superuser"`
}

// GetResourceOwner extracts the caller identity from the context. Returns the
// zero value when the context carries no identity.
func GetResourceOwner(ctx context.Context) ResourceOwner {
	if owner, ok := ctx.Value(ResourceOwnerKey).(ResourceOwner); ok {
		return owner
	}
	return ResourceOwner{}
}

// IsAuthenticated reports whether the context carries a resolved identity.
func IsAuthenticated(ctx context.Context) bool {
	v, ok := ctx.Value(AuthenticatedKey).(bool)
	return ok && v
}

// GetClientAddress extracts the remote address recorded by the HTTP layer.
func GetClientAddress(ctx context.Context) string {
	if addr, ok := ctx.Value(ClientAddressKey).(string); ok {
		return addr
	}
	return ""
}

// BaseEntity carries the identity and timestamps shared by all aggregates.
type BaseEntity struct {
	ID        uuid.UUID `json:"id" bson:"_id"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

// NewBaseEntity creates a fresh identity with both timestamps set to now (UTC).
func NewBaseEntity() BaseEntity {
	now := time.Now().UTC()
	return BaseEntity{ID: uuid.New(), CreatedAt: now, UpdatedAt: now}
}

// Touch refreshes the update timestamp.
func (e *BaseEntity) Touch() {
	e.UpdatedAt = time.Now().UTC()
}
