package lease_test

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/rentora/rentora/internal/domain"
	"github.com/rentora/rentora/internal/hub"
)

// ---------------------------------------------------------------------------
// Mock LeaseRepository
// ---------------------------------------------------------------------------

type mockLeaseRepo struct {
	createFunc                func(ctx context.Context, l *domain.Lease) error
	getByIDFunc               func(ctx context.Context, id uuid.UUID) (*domain.Lease, error)
	listByLandlordFunc        func(ctx context.Context, landlordID uuid.UUID, status *domain.LeaseStatus) ([]*domain.Lease, error)
	listByTenantFunc          func(ctx context.Context, tenantID uuid.UUID, status *domain.LeaseStatus) ([]*domain.Lease, error)
	listAllFunc               func(ctx context.Context, f domain.LeaseFilter) ([]*domain.Lease, error)
	countAllFunc              func(ctx context.Context, f domain.LeaseFilter) (int64, error)
	listExpirableFunc         func(ctx context.Context, now time.Time) ([]*domain.Lease, error)
	updateStatusFunc          func(ctx context.Context, id uuid.UUID, from, to domain.LeaseStatus) error
	approveFunc               func(ctx context.Context, id uuid.UUID, a domain.LeaseApproval) error
	updateTenantDetailsFunc   func(ctx context.Context, id uuid.UUID, d domain.PartyDetails, startDate, endDate *time.Time) error
	updateLandlordDetailsFunc func(ctx context.Context, id uuid.UUID, d domain.PartyDetails, propertyAddress string, rentAmount, depositAmount float64, clauses []string) error
}

func (m *mockLeaseRepo) Create(ctx context.Context, l *domain.Lease) error {
	return m.createFunc(ctx, l)
}

func (m *mockLeaseRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Lease, error) {
	return m.getByIDFunc(ctx, id)
}

func (m *mockLeaseRepo) ListByLandlord(ctx context.Context, landlordID uuid.UUID, status *domain.LeaseStatus) ([]*domain.Lease, error) {
	return m.listByLandlordFunc(ctx, landlordID, status)
}

func (m *mockLeaseRepo) ListByTenant(ctx context.Context, tenantID uuid.UUID, status *domain.LeaseStatus) ([]*domain.Lease, error) {
	return m.listByTenantFunc(ctx, tenantID, status)
}

func (m *mockLeaseRepo) ListAll(ctx context.Context, f domain.LeaseFilter) ([]*domain.Lease, error) {
	return m.listAllFunc(ctx, f)
}

func (m *mockLeaseRepo) CountAll(ctx context.Context, f domain.LeaseFilter) (int64, error) {
	return m.countAllFunc(ctx, f)
}

func (m *mockLeaseRepo) ListExpirable(ctx context.Context, now time.Time) ([]*domain.Lease, error) {
	return m.listExpirableFunc(ctx, now)
}

func (m *mockLeaseRepo) UpdateStatus(ctx context.Context, id uuid.UUID, from, to domain.LeaseStatus) error {
	return m.updateStatusFunc(ctx, id, from, to)
}

func (m *mockLeaseRepo) Approve(ctx context.Context, id uuid.UUID, a domain.LeaseApproval) error {
	return m.approveFunc(ctx, id, a)
}

func (m *mockLeaseRepo) UpdateTenantDetails(ctx context.Context, id uuid.UUID, d domain.PartyDetails, startDate, endDate *time.Time) error {
	return m.updateTenantDetailsFunc(ctx, id, d, startDate, endDate)
}

func (m *mockLeaseRepo) UpdateLandlordDetails(ctx context.Context, id uuid.UUID, d domain.PartyDetails, propertyAddress string, rentAmount, depositAmount float64, clauses []string) error {
	return m.updateLandlordDetailsFunc(ctx, id, d, propertyAddress, rentAmount, depositAmount, clauses)
}

// ---------------------------------------------------------------------------
// Mock NotificationRepository
// ---------------------------------------------------------------------------

type mockNotificationRepo struct {
	createFunc func(ctx context.Context, n *domain.Notification) error
}

func (m *mockNotificationRepo) Create(ctx context.Context, n *domain.Notification) error {
	return m.createFunc(ctx, n)
}

func (m *mockNotificationRepo) GetByID(context.Context, uuid.UUID) (*domain.Notification, error) {
	return nil, domain.ErrNotFound
}

func (m *mockNotificationRepo) ListByUser(context.Context, uuid.UUID, int, int) ([]*domain.Notification, error) {
	return nil, nil
}

func (m *mockNotificationRepo) ListUnread(context.Context, uuid.UUID) ([]*domain.Notification, error) {
	return nil, nil
}

func (m *mockNotificationRepo) CountUnread(context.Context, uuid.UUID) (int64, error) {
	return 0, nil
}

func (m *mockNotificationRepo) MarkRead(context.Context, uuid.UUID, uuid.UUID) error { return nil }

func (m *mockNotificationRepo) MarkAllRead(context.Context, uuid.UUID) (int64, error) { return 0, nil }

func (m *mockNotificationRepo) DisableRefundEligible(context.Context, uuid.UUID, uuid.UUID) (int64, error) {
	return 0, nil
}

// ---------------------------------------------------------------------------
// Publisher recorder
// ---------------------------------------------------------------------------

type publishedEvent struct {
	userID uuid.UUID
	event  hub.Event
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []publishedEvent
}

func (p *recordingPublisher) PublishToUser(userID uuid.UUID, ev hub.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, publishedEvent{userID: userID, event: ev})
}

func (p *recordingPublisher) published() []publishedEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]publishedEvent, len(p.events))
	copy(out, p.events)
	return out
}
