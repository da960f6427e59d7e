package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type NotificationType string

const (
	NotificationTypeLeaseExpired        NotificationType = "lease_expired"
	NotificationTypeSupportMessage      NotificationType = "support_message"
	NotificationTypeSubscriptionUpdated NotificationType = "subscription_updated"
	NotificationTypeRefundEligible      NotificationType = "refund_eligible"
)

// Notification is the durable record behind every hub delivery. Content is
// immutable after creation; only the read flag and the disabled flag move.
type Notification struct {
	ID       uuid.UUID
	UserID   uuid.UUID
	SenderID *uuid.UUID
	Type     NotificationType
	Title    string
	Message  string
	Link     string
	// SubscriptionID ties refund-eligibility notifications to the
	// subscription they advertise, so a completed refund can suppress them.
	SubscriptionID *uuid.UUID
	IsRead         bool
	Disabled       bool
	CreatedAt      time.Time
}

type NotificationRepository interface {
	Create(ctx context.Context, n *Notification) error
	GetByID(ctx context.Context, id uuid.UUID) (*Notification, error)
	ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*Notification, error)
	ListUnread(ctx context.Context, userID uuid.UUID) ([]*Notification, error)
	CountUnread(ctx context.Context, userID uuid.UUID) (int64, error)
	MarkRead(ctx context.Context, userID, id uuid.UUID) error
	MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error)

	// DisableRefundEligible soft-suppresses refund-eligibility notifications
	// for a subscription once the refund has actually been issued.
	DisableRefundEligible(ctx context.Context, userID, subscriptionID uuid.UUID) (int64, error)
}
