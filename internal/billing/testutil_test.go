package billing

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/rentora/rentora/internal/domain"
	"github.com/rentora/rentora/internal/hub"
)

type mockSubscriptionRepo struct {
	createFunc                 func(ctx context.Context, s *domain.Subscription) error
	getByIDFunc                func(ctx context.Context, id uuid.UUID) (*domain.Subscription, error)
	getByGatewayRefFunc        func(ctx context.Context, ref string) (*domain.Subscription, error)
	getActiveByLandlordFunc    func(ctx context.Context, landlordID uuid.UUID) (*domain.Subscription, error)
	expireActiveByLandlordFunc func(ctx context.Context, landlordID uuid.UUID) (int64, error)
	markRefundedFunc           func(ctx context.Context, id uuid.UUID) error
}

func (m *mockSubscriptionRepo) Create(ctx context.Context, s *domain.Subscription) error {
	return m.createFunc(ctx, s)
}

func (m *mockSubscriptionRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Subscription, error) {
	return m.getByIDFunc(ctx, id)
}

func (m *mockSubscriptionRepo) GetByGatewayRef(ctx context.Context, ref string) (*domain.Subscription, error) {
	return m.getByGatewayRefFunc(ctx, ref)
}

func (m *mockSubscriptionRepo) GetActiveByLandlord(ctx context.Context, landlordID uuid.UUID) (*domain.Subscription, error) {
	return m.getActiveByLandlordFunc(ctx, landlordID)
}

func (m *mockSubscriptionRepo) ExpireActiveByLandlord(ctx context.Context, landlordID uuid.UUID) (int64, error) {
	return m.expireActiveByLandlordFunc(ctx, landlordID)
}

func (m *mockSubscriptionRepo) MarkRefunded(ctx context.Context, id uuid.UUID) error {
	return m.markRefundedFunc(ctx, id)
}

type mockUserRepo struct {
	updateEntitlementFunc func(ctx context.Context, userID uuid.UUID, e domain.Entitlement) error
}

func (m *mockUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return nil, domain.ErrNotFound
}

func (m *mockUserRepo) ListAdmins(ctx context.Context) ([]*domain.User, error) {
	return nil, nil
}

func (m *mockUserRepo) UpdateEntitlement(ctx context.Context, userID uuid.UUID, e domain.Entitlement) error {
	return m.updateEntitlementFunc(ctx, userID, e)
}

type mockUnitRepo struct {
	anyBookedFunc func(ctx context.Context, subscriptionID uuid.UUID) (bool, error)
}

func (m *mockUnitRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Unit, error) {
	return nil, domain.ErrNotFound
}

func (m *mockUnitRepo) ListBySubscription(ctx context.Context, subscriptionID uuid.UUID) ([]*domain.Unit, error) {
	return nil, nil
}

func (m *mockUnitRepo) AnyBooked(ctx context.Context, subscriptionID uuid.UUID) (bool, error) {
	return m.anyBookedFunc(ctx, subscriptionID)
}

type mockNotificationRepo struct {
	createFunc                func(ctx context.Context, n *domain.Notification) error
	disableRefundEligibleFunc func(ctx context.Context, userID, subscriptionID uuid.UUID) (int64, error)
}

func (m *mockNotificationRepo) Create(ctx context.Context, n *domain.Notification) error {
	if m.createFunc == nil {
		return nil
	}
	return m.createFunc(ctx, n)
}

func (m *mockNotificationRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Notification, error) {
	return nil, domain.ErrNotFound
}

func (m *mockNotificationRepo) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*domain.Notification, error) {
	return nil, nil
}

func (m *mockNotificationRepo) ListUnread(ctx context.Context, userID uuid.UUID) ([]*domain.Notification, error) {
	return nil, nil
}

func (m *mockNotificationRepo) CountUnread(ctx context.Context, userID uuid.UUID) (int64, error) {
	return 0, nil
}

func (m *mockNotificationRepo) MarkRead(ctx context.Context, userID, id uuid.UUID) error {
	return nil
}

func (m *mockNotificationRepo) MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	return 0, nil
}

func (m *mockNotificationRepo) DisableRefundEligible(ctx context.Context, userID, subscriptionID uuid.UUID) (int64, error) {
	if m.disableRefundEligibleFunc == nil {
		return 0, nil
	}
	return m.disableRefundEligibleFunc(ctx, userID, subscriptionID)
}

type mockGateway struct {
	refundFunc func(ctx context.Context, externalRef string) error
	calls      []string
}

func (m *mockGateway) Refund(ctx context.Context, externalRef string) error {
	m.calls = append(m.calls, externalRef)
	if m.refundFunc == nil {
		return nil
	}
	return m.refundFunc(ctx, externalRef)
}

type mockDedupe struct {
	seenFunc     func(ctx context.Context, ref string) (bool, error)
	markSeenFunc func(ctx context.Context, ref string) error

	mu     sync.Mutex
	marked []string
}

func (m *mockDedupe) Seen(ctx context.Context, ref string) (bool, error) {
	if m.seenFunc == nil {
		return false, nil
	}
	return m.seenFunc(ctx, ref)
}

func (m *mockDedupe) MarkSeen(ctx context.Context, ref string) error {
	m.mu.Lock()
	m.marked = append(m.marked, ref)
	m.mu.Unlock()
	if m.markSeenFunc == nil {
		return nil
	}
	return m.markSeenFunc(ctx, ref)
}

type publishedEvent struct {
	userID uuid.UUID
	ev     hub.Event
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []publishedEvent
}

func (p *recordingPublisher) PublishToUser(userID uuid.UUID, ev hub.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, publishedEvent{userID: userID, ev: ev})
}

func (p *recordingPublisher) byType(eventType string) []publishedEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []publishedEvent
	for _, e := range p.events {
		if e.ev.Type == eventType {
			out = append(out, e)
		}
	}
	return out
}
