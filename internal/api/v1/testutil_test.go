package v1_test

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/rentora/rentora/internal/billing"
	"github.com/rentora/rentora/internal/domain"
	"github.com/rentora/rentora/internal/lease"
	"github.com/rentora/rentora/internal/server/middleware"
)

// ---------------------------------------------------------------------------
// Context helpers for injecting user identity into DoCtx requests.
// ---------------------------------------------------------------------------

func userCtx(userID uuid.UUID, role string) context.Context {
	ctx := context.Background()
	ctx = context.WithValue(ctx, middleware.ContextKeyUserID, userID)
	ctx = context.WithValue(ctx, middleware.ContextKeyUserRole, role)
	return ctx
}

// ---------------------------------------------------------------------------
// Mock DataStore
// ---------------------------------------------------------------------------

type mockDataStore struct {
	leases        domain.LeaseRepository
	subscriptions domain.SubscriptionRepository
	notifications domain.NotificationRepository
	chats         domain.ChatRepository
	units         domain.UnitRepository
	users         domain.UserRepository
}

func (m *mockDataStore) Leases() domain.LeaseRepository               { return m.leases }
func (m *mockDataStore) Subscriptions() domain.SubscriptionRepository { return m.subscriptions }
func (m *mockDataStore) Notifications() domain.NotificationRepository { return m.notifications }
func (m *mockDataStore) Chats() domain.ChatRepository                 { return m.chats }
func (m *mockDataStore) Units() domain.UnitRepository                 { return m.units }
func (m *mockDataStore) Users() domain.UserRepository                 { return m.users }

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
// Mock SubscriptionRepository
// ---------------------------------------------------------------------------

type mockSubscriptionRepo struct {
	getActiveByLandlordFunc func(ctx context.Context, landlordID uuid.UUID) (*domain.Subscription, error)
}

func (m *mockSubscriptionRepo) Create(_ context.Context, _ *domain.Subscription) error {
	panic("not implemented")
}

func (m *mockSubscriptionRepo) GetByID(_ context.Context, _ uuid.UUID) (*domain.Subscription, error) {
	panic("not implemented")
}

func (m *mockSubscriptionRepo) GetByGatewayRef(_ context.Context, _ string) (*domain.Subscription, error) {
	panic("not implemented")
}

func (m *mockSubscriptionRepo) GetActiveByLandlord(ctx context.Context, landlordID uuid.UUID) (*domain.Subscription, error) {
	return m.getActiveByLandlordFunc(ctx, landlordID)
}

func (m *mockSubscriptionRepo) ExpireActiveByLandlord(_ context.Context, _ uuid.UUID) (int64, error) {
	panic("not implemented")
}

func (m *mockSubscriptionRepo) MarkRefunded(_ context.Context, _ uuid.UUID) error {
	panic("not implemented")
}

// ---------------------------------------------------------------------------
// Mock NotificationRepository
// ---------------------------------------------------------------------------

type mockNotificationRepo struct {
	listByUserFunc  func(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*domain.Notification, error)
	countUnreadFunc func(ctx context.Context, userID uuid.UUID) (int64, error)
	markReadFunc    func(ctx context.Context, userID, id uuid.UUID) error
	markAllReadFunc func(ctx context.Context, userID uuid.UUID) (int64, error)
}

func (m *mockNotificationRepo) Create(_ context.Context, _ *domain.Notification) error {
	panic("not implemented")
}

func (m *mockNotificationRepo) GetByID(_ context.Context, _ uuid.UUID) (*domain.Notification, error) {
	panic("not implemented")
}

func (m *mockNotificationRepo) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*domain.Notification, error) {
	return m.listByUserFunc(ctx, userID, limit, offset)
}

func (m *mockNotificationRepo) ListUnread(_ context.Context, _ uuid.UUID) ([]*domain.Notification, error) {
	panic("not implemented")
}

func (m *mockNotificationRepo) CountUnread(ctx context.Context, userID uuid.UUID) (int64, error) {
	return m.countUnreadFunc(ctx, userID)
}

func (m *mockNotificationRepo) MarkRead(ctx context.Context, userID, id uuid.UUID) error {
	return m.markReadFunc(ctx, userID, id)
}

func (m *mockNotificationRepo) MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	return m.markAllReadFunc(ctx, userID)
}

func (m *mockNotificationRepo) DisableRefundEligible(_ context.Context, _, _ uuid.UUID) (int64, error) {
	panic("not implemented")
}

// ---------------------------------------------------------------------------
// Mock LeaseService
// ---------------------------------------------------------------------------

type mockLeaseService struct {
	createFunc                func(ctx context.Context, in lease.CreateInput) (*domain.Lease, error)
	approveFunc               func(ctx context.Context, leaseID uuid.UUID, a domain.LeaseApproval) (*domain.Lease, error)
	rejectFunc                func(ctx context.Context, leaseID uuid.UUID) error
	cancelFunc                func(ctx context.Context, leaseID uuid.UUID) error
	updateTenantDetailsFunc   func(ctx context.Context, leaseID uuid.UUID, d domain.PartyDetails, startDate, endDate *time.Time) error
	updateLandlordDetailsFunc func(ctx context.Context, leaseID, callerID uuid.UUID, d domain.PartyDetails, propertyAddress string, rentAmount, depositAmount float64, clauses []string) error
}

func (m *mockLeaseService) Create(ctx context.Context, in lease.CreateInput) (*domain.Lease, error) {
	return m.createFunc(ctx, in)
}

func (m *mockLeaseService) Approve(ctx context.Context, leaseID uuid.UUID, a domain.LeaseApproval) (*domain.Lease, error) {
	return m.approveFunc(ctx, leaseID, a)
}

func (m *mockLeaseService) Reject(ctx context.Context, leaseID uuid.UUID) error {
	return m.rejectFunc(ctx, leaseID)
}

func (m *mockLeaseService) Cancel(ctx context.Context, leaseID uuid.UUID) error {
	return m.cancelFunc(ctx, leaseID)
}

func (m *mockLeaseService) UpdateTenantDetails(ctx context.Context, leaseID uuid.UUID, d domain.PartyDetails, startDate, endDate *time.Time) error {
	return m.updateTenantDetailsFunc(ctx, leaseID, d, startDate, endDate)
}

func (m *mockLeaseService) UpdateLandlordDetails(ctx context.Context, leaseID, callerID uuid.UUID, d domain.PartyDetails, propertyAddress string, rentAmount, depositAmount float64, clauses []string) error {
	return m.updateLandlordDetailsFunc(ctx, leaseID, callerID, d, propertyAddress, rentAmount, depositAmount, clauses)
}

// ---------------------------------------------------------------------------
// Mock BillingService
// ---------------------------------------------------------------------------

type mockBillingService struct {
	handlePaymentCompletedFunc func(ctx context.Context, ev billing.WebhookEvent) error
	refundFunc                 func(ctx context.Context, subscriptionID, requesterID uuid.UUID) error
}

func (m *mockBillingService) HandlePaymentCompleted(ctx context.Context, ev billing.WebhookEvent) error {
	return m.handlePaymentCompletedFunc(ctx, ev)
}

func (m *mockBillingService) Refund(ctx context.Context, subscriptionID, requesterID uuid.UUID) error {
	return m.refundFunc(ctx, subscriptionID, requesterID)
}

// ---------------------------------------------------------------------------
// Mock ChatService
// ---------------------------------------------------------------------------

type mockChatService struct {
	startPeerThreadFunc    func(ctx context.Context, userID, peerID uuid.UUID) (*domain.ChatThread, error)
	startSupportThreadFunc func(ctx context.Context, userID uuid.UUID) (*domain.ChatThread, error)
	sendMessageFunc        func(ctx context.Context, threadID, senderID uuid.UUID, text string) (*domain.ChatMessage, error)
	sendSupportMessageFunc func(ctx context.Context, threadID, senderID uuid.UUID, text string) (*domain.ChatMessage, error)
	listMessagesFunc       func(ctx context.Context, threadID, callerID uuid.UUID, limit, offset int) ([]*domain.ChatMessage, error)
}

func (m *mockChatService) StartPeerThread(ctx context.Context, userID, peerID uuid.UUID) (*domain.ChatThread, error) {
	return m.startPeerThreadFunc(ctx, userID, peerID)
}

func (m *mockChatService) StartSupportThread(ctx context.Context, userID uuid.UUID) (*domain.ChatThread, error) {
	return m.startSupportThreadFunc(ctx, userID)
}

func (m *mockChatService) SendMessage(ctx context.Context, threadID, senderID uuid.UUID, text string) (*domain.ChatMessage, error) {
	return m.sendMessageFunc(ctx, threadID, senderID, text)
}

func (m *mockChatService) SendSupportMessage(ctx context.Context, threadID, senderID uuid.UUID, text string) (*domain.ChatMessage, error) {
	return m.sendSupportMessageFunc(ctx, threadID, senderID, text)
}

func (m *mockChatService) ListMessages(ctx context.Context, threadID, callerID uuid.UUID, limit, offset int) ([]*domain.ChatMessage, error) {
	return m.listMessagesFunc(ctx, threadID, callerID, limit, offset)
}
