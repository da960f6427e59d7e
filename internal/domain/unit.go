package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type UnitStatus string

const (
	UnitStatusAvailable UnitStatus = "available"
	UnitStatusBooked    UnitStatus = "booked"
)

// Unit is a rentable property unit. Unit CRUD lives outside this core; the
// lifecycle code only reads booking state to guard subscription refunds.
type Unit struct {
	ID             uuid.UUID
	LandlordID     uuid.UUID
	SubscriptionID *uuid.UUID
	Address        string
	Status         UnitStatus
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type UnitRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Unit, error)
	ListBySubscription(ctx context.Context, subscriptionID uuid.UUID) ([]*Unit, error)

	// AnyBooked reports whether any unit attached to the subscription is
	// currently booked.
	AnyBooked(ctx context.Context, subscriptionID uuid.UUID) (bool, error)
}
