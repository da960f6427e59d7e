package v1

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/rentora/rentora/internal/billing"
	"github.com/rentora/rentora/internal/domain"
	"github.com/rentora/rentora/internal/lease"
)

// DataStore abstracts the repository accessor pattern for handler testing.
// *postgres.Store satisfies this interface.
type DataStore interface {
	Leases() domain.LeaseRepository
	Subscriptions() domain.SubscriptionRepository
	Notifications() domain.NotificationRepository
	Chats() domain.ChatRepository
	Units() domain.UnitRepository
	Users() domain.UserRepository
}

// LeaseService abstracts lease lifecycle operations for handler testing.
// *lease.Service satisfies this interface.
type LeaseService interface {
	Create(ctx context.Context, in lease.CreateInput) (*domain.Lease, error)
	Approve(ctx context.Context, leaseID uuid.UUID, a domain.LeaseApproval) (*domain.Lease, error)
	Reject(ctx context.Context, leaseID uuid.UUID) error
	Cancel(ctx context.Context, leaseID uuid.UUID) error
	UpdateTenantDetails(ctx context.Context, leaseID uuid.UUID, d domain.PartyDetails, startDate, endDate *time.Time) error
	UpdateLandlordDetails(ctx context.Context, leaseID, callerID uuid.UUID, d domain.PartyDetails, propertyAddress string, rentAmount, depositAmount float64, clauses []string) error
}

// BillingService abstracts billing operations for handler testing.
// *billing.Reconciler satisfies this interface.
type BillingService interface {
	HandlePaymentCompleted(ctx context.Context, ev billing.WebhookEvent) error
	Refund(ctx context.Context, subscriptionID, requesterID uuid.UUID) error
}

// ChatService abstracts chat operations for handler testing.
// *chat.Service satisfies this interface.
type ChatService interface {
	StartPeerThread(ctx context.Context, userID, peerID uuid.UUID) (*domain.ChatThread, error)
	StartSupportThread(ctx context.Context, userID uuid.UUID) (*domain.ChatThread, error)
	SendMessage(ctx context.Context, threadID, senderID uuid.UUID, text string) (*domain.ChatMessage, error)
	SendSupportMessage(ctx context.Context, threadID, senderID uuid.UUID, text string) (*domain.ChatMessage, error)
	ListMessages(ctx context.Context, threadID, callerID uuid.UUID, limit, offset int) ([]*domain.ChatMessage, error)
}
