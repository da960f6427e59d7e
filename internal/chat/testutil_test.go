package chat

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/rentora/rentora/internal/domain"
	"github.com/rentora/rentora/internal/hub"
)

type mockChatRepo struct {
	getThreadFunc           func(ctx context.Context, id uuid.UUID) (*domain.ChatThread, error)
	createThreadFunc        func(ctx context.Context, t *domain.ChatThread) error
	createMessageFunc       func(ctx context.Context, m *domain.ChatMessage) error
	listMessagesFunc        func(ctx context.Context, threadID uuid.UUID, limit, offset int) ([]*domain.ChatMessage, error)
	updateThreadSummaryFunc func(ctx context.Context, threadID uuid.UUID, lastMessage string, at time.Time) error
}

func (m *mockChatRepo) GetThread(ctx context.Context, id uuid.UUID) (*domain.ChatThread, error) {
	return m.getThreadFunc(ctx, id)
}

func (m *mockChatRepo) CreateThread(ctx context.Context, t *domain.ChatThread) error {
	if m.createThreadFunc == nil {
		return nil
	}
	return m.createThreadFunc(ctx, t)
}

func (m *mockChatRepo) CreateMessage(ctx context.Context, msg *domain.ChatMessage) error {
	if m.createMessageFunc == nil {
		return nil
	}
	return m.createMessageFunc(ctx, msg)
}

func (m *mockChatRepo) ListMessages(ctx context.Context, threadID uuid.UUID, limit, offset int) ([]*domain.ChatMessage, error) {
	return m.listMessagesFunc(ctx, threadID, limit, offset)
}

func (m *mockChatRepo) UpdateThreadSummary(ctx context.Context, threadID uuid.UUID, lastMessage string, at time.Time) error {
	if m.updateThreadSummaryFunc == nil {
		return nil
	}
	return m.updateThreadSummaryFunc(ctx, threadID, lastMessage, at)
}

type mockUserRepo struct {
	getByIDFunc    func(ctx context.Context, id uuid.UUID) (*domain.User, error)
	listAdminsFunc func(ctx context.Context) ([]*domain.User, error)
}

func (m *mockUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return m.getByIDFunc(ctx, id)
}

func (m *mockUserRepo) ListAdmins(ctx context.Context) ([]*domain.User, error) {
	if m.listAdminsFunc == nil {
		return nil, nil
	}
	return m.listAdminsFunc(ctx)
}

func (m *mockUserRepo) UpdateEntitlement(ctx context.Context, userID uuid.UUID, e domain.Entitlement) error {
	return nil
}

type mockNotificationRepo struct {
	mu      sync.Mutex
	created []*domain.Notification
	err     error
}

func (m *mockNotificationRepo) Create(ctx context.Context, n *domain.Notification) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.created = append(m.created, n)
	return nil
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
	return 0, nil
}

type publishedEvent struct {
	topic  string
	userID uuid.UUID
	ev     hub.Event
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []publishedEvent
}

func (p *recordingPublisher) Publish(topic string, ev hub.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, publishedEvent{topic: topic, ev: ev})
}

func (p *recordingPublisher) PublishToUser(userID uuid.UUID, ev hub.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, publishedEvent{topic: hub.UserTopic(userID), userID: userID, ev: ev})
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

type recordingForwarder struct {
	mu       sync.Mutex
	messages []*domain.ChatMessage
	err      error
}

func (f *recordingForwarder) ForwardSupportMessage(ctx context.Context, sender *domain.User, m *domain.ChatMessage) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.messages = append(f.messages, m)
	return nil
}
