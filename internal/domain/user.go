package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID    uuid.UUID
	Name  string
	Email string
	Role  string // "tenant", "landlord", or "admin"

	// Entitlement snapshot: a denormalized read-optimization that must
	// always be derivable from the user's current active subscription.
	IsSubscribed     bool
	SubscriptionPlan string
	PlanUnitLimit    int
	PlanExpiresAt    *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Entitlement is the snapshot written onto the user when billing state
// changes.
type Entitlement struct {
	Subscribed bool
	PlanName   string
	UnitLimit  int
	ExpiresAt  *time.Time
}

type UserRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
	ListAdmins(ctx context.Context) ([]*User, error)
	UpdateEntitlement(ctx context.Context, userID uuid.UUID, e Entitlement) error
}
