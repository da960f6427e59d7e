package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type SubscriptionStatus string

const (
	SubscriptionStatusActive   SubscriptionStatus = "active"
	SubscriptionStatusExpired  SubscriptionStatus = "expired"
	SubscriptionStatusRefunded SubscriptionStatus = "refunded"
)

// Plan is a capability snapshot from the plan catalog. The catalog itself is
// static configuration; the snapshot is copied onto the subscription at
// creation time so later catalog edits never rewrite history.
type Plan struct {
	Name      string
	UnitLimit int
}

type Subscription struct {
	ID         uuid.UUID
	LandlordID uuid.UUID
	PlanName   string
	UnitLimit  int
	// GatewayRef is the payment gateway's opaque reference for the charge
	// that created this subscription. It doubles as the webhook dedupe key.
	GatewayRef string
	Status     SubscriptionStatus
	Refunded   bool
	StartDate  time.Time
	EndDate    time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

type SubscriptionRepository interface {
	Create(ctx context.Context, s *Subscription) error
	GetByID(ctx context.Context, id uuid.UUID) (*Subscription, error)
	GetByGatewayRef(ctx context.Context, ref string) (*Subscription, error)
	GetActiveByLandlord(ctx context.Context, landlordID uuid.UUID) (*Subscription, error)

	// ExpireActiveByLandlord marks every active subscription of the landlord
	// expired and returns how many rows changed (supersession).
	ExpireActiveByLandlord(ctx context.Context, landlordID uuid.UUID) (int64, error)

	// MarkRefunded flips the subscription to refunded, but only while it is
	// still active and unrefunded; a miss yields ErrInvalidState.
	MarkRefunded(ctx context.Context, id uuid.UUID) error
}
