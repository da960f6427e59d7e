package hub

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/rentora/rentora/internal/domain"
)

// Event types pushed to connected clients.
const (
	EventNewNotification     = "newNotification"
	EventNewMessage          = "newMessage"
	EventNewChatMessage      = "newChatMessage"
	EventNewSupportMessage   = "newSupportMessage"
	EventSubscriptionUpdated = "subscriptionUpdated"
	EventLeaseApproved       = "leaseApproved"
)

// Event is the envelope written to client connections.
type Event struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

// Conn is a live client connection. Send must not block: implementations
// enqueue onto a bounded buffer and report false when the buffer is full or
// the connection is gone. Delivery is best-effort; durability lives in the
// Notification records, not here.
type Conn interface {
	Send(ev Event) bool
}

// UserTopic returns the fan-out topic for a user identity.
func UserTopic(userID uuid.UUID) string {
	return "user:" + userID.String()
}

// ChatTopic returns the fan-out topic for a peer chat thread.
func ChatTopic(threadID uuid.UUID) string {
	return "chat:" + threadID.String()
}

// SupportTopic returns the fan-out topic for a support chat thread.
func SupportTopic(threadID uuid.UUID) string {
	return "support:" + threadID.String()
}

type connState struct {
	userID uuid.UUID
	topics map[string]struct{}
}

// Hub is the process-wide publish/subscribe registry. It maps identities to
// live connections and arbitrary string topics to fan-out lists. All state is
// in-memory and rebuilt from zero on restart; it is never a source of truth
// for anything persisted.
type Hub struct {
	mu       sync.RWMutex
	presence map[uuid.UUID]map[Conn]struct{}
	topics   map[string]map[Conn]struct{}
	conns    map[Conn]*connState

	notifications domain.NotificationRepository
}

// New creates a Hub. The notification repository backs the unread-replay
// burst on registration.
func New(notifications domain.NotificationRepository) *Hub {
	return &Hub{
		presence:      make(map[uuid.UUID]map[Conn]struct{}),
		topics:        make(map[string]map[Conn]struct{}),
		conns:         make(map[Conn]*connState),
		notifications: notifications,
	}
}

// Register adds the connection to the identity's presence set, subscribes it
// to the identity topic, and replays the user's unread notifications as a
// delivery burst. The replay is a snapshot read at registration time, not a
// queue.
func (h *Hub) Register(ctx context.Context, conn Conn, userID uuid.UUID) error {
	h.mu.Lock()
	if _, ok := h.conns[conn]; ok {
		h.mu.Unlock()
		return nil // already registered
	}
	h.conns[conn] = &connState{userID: userID, topics: make(map[string]struct{})}
	if h.presence[userID] == nil {
		h.presence[userID] = make(map[Conn]struct{})
	}
	h.presence[userID][conn] = struct{}{}
	h.joinLocked(conn, UserTopic(userID))
	h.mu.Unlock()

	unread, err := h.notifications.ListUnread(ctx, userID)
	if err != nil {
		// The caller abandons the socket on a failed Register; the
		// connection must not stay visible as online.
		h.Deregister(conn)
		return fmt.Errorf("hub.Register: list unread: %w", err)
	}
	for _, n := range unread {
		if !conn.Send(Event{Type: EventNewNotification, Payload: n}) {
			log.Debug().Str("user_id", userID.String()).Msg("hub: replay dropped, connection buffer full")
			break
		}
	}

	return nil
}

// Join subscribes the connection to a topic. Idempotent. Connections must be
// registered first so Deregister can clean up their memberships.
func (h *Hub) Join(conn Conn, topic string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.conns[conn]; !ok {
		return
	}
	h.joinLocked(conn, topic)
}

func (h *Hub) joinLocked(conn Conn, topic string) {
	if h.topics[topic] == nil {
		h.topics[topic] = make(map[Conn]struct{})
	}
	h.topics[topic][conn] = struct{}{}
	h.conns[conn].topics[topic] = struct{}{}
}

// Publish delivers the event to every connection currently subscribed to the
// topic. Best-effort: with no subscribers the event is dropped silently.
func (h *Hub) Publish(topic string, ev Event) {
	h.mu.RLock()
	subs := make([]Conn, 0, len(h.topics[topic]))
	for c := range h.topics[topic] {
		subs = append(subs, c)
	}
	h.mu.RUnlock()

	for _, c := range subs {
		if !c.Send(ev) {
			log.Debug().Str("topic", topic).Str("event", ev.Type).Msg("hub: send dropped")
		}
	}
}

// PublishToUser delivers the event to every live connection of a user.
func (h *Hub) PublishToUser(userID uuid.UUID, ev Event) {
	h.Publish(UserTopic(userID), ev)
}

// Deregister removes the connection from all presence and topic sets. The
// last connection of an identity transitions that identity to offline.
func (h *Hub) Deregister(conn Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	st, ok := h.conns[conn]
	if !ok {
		return
	}
	delete(h.conns, conn)

	for topic := range st.topics {
		delete(h.topics[topic], conn)
		if len(h.topics[topic]) == 0 {
			delete(h.topics, topic)
		}
	}

	if set, ok := h.presence[st.userID]; ok {
		delete(set, conn)
		if len(set) == 0 {
			delete(h.presence, st.userID)
		}
	}
}

// Online reports whether the user has at least one live connection.
func (h *Hub) Online(userID uuid.UUID) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.presence[userID]) > 0
}

// OnlineCount returns the number of distinct online identities.
func (h *Hub) OnlineCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.presence)
}
