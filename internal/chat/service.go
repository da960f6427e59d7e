package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/rentora/rentora/internal/domain"
	"github.com/rentora/rentora/internal/hub"
)

const maxMessageLength = 4000

// EventPublisher pushes real-time events to connected clients.
type EventPublisher interface {
	Publish(topic string, ev hub.Event)
	PublishToUser(userID uuid.UUID, ev hub.Event)
}

// SupportForwarder mirrors support messages to an external ops surface.
type SupportForwarder interface {
	ForwardSupportMessage(ctx context.Context, sender *domain.User, m *domain.ChatMessage) error
}

// Service handles peer and support chat. Every message is persisted before
// anything is published; the hub only ever sees durable state.
type Service struct {
	chats         domain.ChatRepository
	users         domain.UserRepository
	notifications domain.NotificationRepository
	events        EventPublisher
	forwarder     SupportForwarder
	now           func() time.Time
}

func NewService(
	chats domain.ChatRepository,
	users domain.UserRepository,
	notifications domain.NotificationRepository,
	events EventPublisher,
	forwarder SupportForwarder,
) *Service {
	return &Service{
		chats:         chats,
		users:         users,
		notifications: notifications,
		events:        events,
		forwarder:     forwarder,
		now:           time.Now,
	}
}

// StartPeerThread opens a conversation between two users.
func (s *Service) StartPeerThread(ctx context.Context, userID, peerID uuid.UUID) (*domain.ChatThread, error) {
	if userID == peerID {
		return nil, fmt.Errorf("chat.Service.StartPeerThread: cannot chat with yourself: %w", domain.ErrValidation)
	}

	t := &domain.ChatThread{
		ID:        uuid.New(),
		Kind:      domain.ThreadKindPeer,
		UserID:    userID,
		PeerID:    &peerID,
		CreatedAt: s.now(),
	}
	if err := s.chats.CreateThread(ctx, t); err != nil {
		return nil, fmt.Errorf("chat.Service.StartPeerThread: %w", err)
	}

	return t, nil
}

// StartSupportThread opens a conversation between a user and the support
// team.
func (s *Service) StartSupportThread(ctx context.Context, userID uuid.UUID) (*domain.ChatThread, error) {
	t := &domain.ChatThread{
		ID:        uuid.New(),
		Kind:      domain.ThreadKindSupport,
		UserID:    userID,
		CreatedAt: s.now(),
	}
	if err := s.chats.CreateThread(ctx, t); err != nil {
		return nil, fmt.Errorf("chat.Service.StartSupportThread: %w", err)
	}

	return t, nil
}

// SendMessage persists a message on a peer thread, then fans it out: the
// room sees the message, the counterpart additionally gets a direct event so
// thread lists update while the room is closed.
func (s *Service) SendMessage(ctx context.Context, threadID, senderID uuid.UUID, text string) (*domain.ChatMessage, error) {
	text = strings.TrimSpace(text)
	if text == "" || len(text) > maxMessageLength {
		return nil, fmt.Errorf("chat.Service.SendMessage: empty or oversized message: %w", domain.ErrValidation)
	}

	t, err := s.chats.GetThread(ctx, threadID)
	if err != nil {
		return nil, fmt.Errorf("chat.Service.SendMessage: %w", err)
	}
	if t.Kind != domain.ThreadKindPeer {
		return nil, fmt.Errorf("chat.Service.SendMessage: not a peer thread: %w", domain.ErrInvalidState)
	}

	receiverID, err := counterpart(t, senderID)
	if err != nil {
		return nil, fmt.Errorf("chat.Service.SendMessage: %w", err)
	}

	m := &domain.ChatMessage{
		ID:         uuid.New(),
		ThreadID:   threadID,
		SenderID:   senderID,
		ReceiverID: &receiverID,
		Text:       text,
		CreatedAt:  s.now(),
	}
	if err := s.chats.CreateMessage(ctx, m); err != nil {
		return nil, fmt.Errorf("chat.Service.SendMessage: %w", err)
	}
	if err := s.chats.UpdateThreadSummary(ctx, threadID, text, m.CreatedAt); err != nil {
		log.Error().Err(err).Str("thread_id", threadID.String()).Msg("update thread summary")
	}

	// The room sees newMessage; the counterpart's own topic gets the
	// newChatMessage nudge even when they are not in the room.
	s.events.Publish(hub.ChatTopic(threadID), hub.Event{Type: hub.EventNewMessage, Payload: m})
	s.events.PublishToUser(receiverID, hub.Event{Type: hub.EventNewChatMessage, Payload: m})

	return m, nil
}

// SendSupportMessage persists a message on a support thread. A user message
// notifies every admin and is mirrored to the ops channel; an admin reply
// notifies the thread owner.
func (s *Service) SendSupportMessage(ctx context.Context, threadID, senderID uuid.UUID, text string) (*domain.ChatMessage, error) {
	text = strings.TrimSpace(text)
	if text == "" || len(text) > maxMessageLength {
		return nil, fmt.Errorf("chat.Service.SendSupportMessage: empty or oversized message: %w", domain.ErrValidation)
	}

	t, err := s.chats.GetThread(ctx, threadID)
	if err != nil {
		return nil, fmt.Errorf("chat.Service.SendSupportMessage: %w", err)
	}
	if t.Kind != domain.ThreadKindSupport {
		return nil, fmt.Errorf("chat.Service.SendSupportMessage: not a support thread: %w", domain.ErrInvalidState)
	}

	sender, err := s.users.GetByID(ctx, senderID)
	if err != nil {
		return nil, fmt.Errorf("chat.Service.SendSupportMessage: %w", err)
	}
	fromOwner := senderID == t.UserID
	if !fromOwner && sender.Role != "admin" {
		return nil, fmt.Errorf("chat.Service.SendSupportMessage: sender is not a participant: %w", domain.ErrForbidden)
	}

	m := &domain.ChatMessage{
		ID:        uuid.New(),
		ThreadID:  threadID,
		SenderID:  senderID,
		Text:      text,
		CreatedAt: s.now(),
	}
	if err := s.chats.CreateMessage(ctx, m); err != nil {
		return nil, fmt.Errorf("chat.Service.SendSupportMessage: %w", err)
	}
	if err := s.chats.UpdateThreadSummary(ctx, threadID, text, m.CreatedAt); err != nil {
		log.Error().Err(err).Str("thread_id", threadID.String()).Msg("update thread summary")
	}

	s.events.Publish(hub.SupportTopic(threadID), hub.Event{Type: hub.EventNewSupportMessage, Payload: m})

	if fromOwner {
		s.notifySupportTeam(ctx, t, sender, m)
	} else {
		s.notifyThreadOwner(ctx, t, sender, m)
	}

	return m, nil
}

func (s *Service) notifySupportTeam(ctx context.Context, t *domain.ChatThread, sender *domain.User, m *domain.ChatMessage) {
	admins, err := s.users.ListAdmins(ctx)
	if err != nil {
		log.Error().Err(err).Str("thread_id", t.ID.String()).Msg("list admins for support notification")
	}
	for _, admin := range admins {
		s.notifyParticipant(ctx, admin.ID, sender, t, m)
	}

	if s.forwarder != nil {
		if err := s.forwarder.ForwardSupportMessage(ctx, sender, m); err != nil {
			log.Error().Err(err).Str("thread_id", t.ID.String()).Msg("forward support message")
		}
	}
}

func (s *Service) notifyThreadOwner(ctx context.Context, t *domain.ChatThread, sender *domain.User, m *domain.ChatMessage) {
	s.notifyParticipant(ctx, t.UserID, sender, t, m)
}

func (s *Service) notifyParticipant(ctx context.Context, userID uuid.UUID, sender *domain.User, t *domain.ChatThread, m *domain.ChatMessage) {
	n := &domain.Notification{
		ID:       uuid.New(),
		UserID:   userID,
		SenderID: &sender.ID,
		Type:     domain.NotificationTypeSupportMessage,
		Title:    "New support message",
		Message:  fmt.Sprintf("%s: %s", sender.Name, m.Text),
		Link:     "/support/" + t.ID.String(),
	}
	if err := s.notifications.Create(ctx, n); err != nil {
		log.Error().Err(err).Str("user_id", userID.String()).Msg("create support notification")
		return
	}
	s.events.PublishToUser(userID, hub.Event{Type: hub.EventNewNotification, Payload: n})
}

// ListMessages returns a page of a thread's history. Only participants may
// read it; admins may read support threads.
func (s *Service) ListMessages(ctx context.Context, threadID, callerID uuid.UUID, limit, offset int) ([]*domain.ChatMessage, error) {
	t, err := s.chats.GetThread(ctx, threadID)
	if err != nil {
		return nil, fmt.Errorf("chat.Service.ListMessages: %w", err)
	}

	if err := s.authorizeRead(ctx, t, callerID); err != nil {
		return nil, fmt.Errorf("chat.Service.ListMessages: %w", err)
	}

	messages, err := s.chats.ListMessages(ctx, threadID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("chat.Service.ListMessages: %w", err)
	}

	return messages, nil
}

func (s *Service) authorizeRead(ctx context.Context, t *domain.ChatThread, callerID uuid.UUID) error {
	if callerID == t.UserID {
		return nil
	}
	if t.Kind == domain.ThreadKindPeer && t.PeerID != nil && callerID == *t.PeerID {
		return nil
	}
	if t.Kind == domain.ThreadKindSupport {
		caller, err := s.users.GetByID(ctx, callerID)
		if err != nil {
			return err
		}
		if caller.Role == "admin" {
			return nil
		}
	}

	return domain.ErrForbidden
}

func counterpart(t *domain.ChatThread, senderID uuid.UUID) (uuid.UUID, error) {
	if t.PeerID == nil {
		return uuid.Nil, errors.New("peer thread has no peer")
	}
	switch senderID {
	case t.UserID:
		return *t.PeerID, nil
	case *t.PeerID:
		return t.UserID, nil
	default:
		return uuid.Nil, domain.ErrForbidden
	}
}
