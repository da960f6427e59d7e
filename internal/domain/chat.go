package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type ThreadKind string

const (
	ThreadKindPeer    ThreadKind = "peer"
	ThreadKindSupport ThreadKind = "support"
)

// ChatThread is a conversation container: a peer thread between a tenant and
// a landlord, or a support thread between a user and the support team.
type ChatThread struct {
	ID     uuid.UUID
	Kind   ThreadKind
	UserID uuid.UUID // thread owner (support) or initiating party (peer)
	PeerID *uuid.UUID
	// Denormalized summary for thread lists, updated on every send.
	LastMessage   string
	LastMessageAt *time.Time
	CreatedAt     time.Time
}

type ChatMessage struct {
	ID         uuid.UUID
	ThreadID   uuid.UUID
	SenderID   uuid.UUID
	ReceiverID *uuid.UUID // nil on support threads
	Text       string
	CreatedAt  time.Time
}

type ChatRepository interface {
	GetThread(ctx context.Context, id uuid.UUID) (*ChatThread, error)
	CreateThread(ctx context.Context, t *ChatThread) error
	CreateMessage(ctx context.Context, m *ChatMessage) error
	ListMessages(ctx context.Context, threadID uuid.UUID, limit, offset int) ([]*ChatMessage, error)
	UpdateThreadSummary(ctx context.Context, threadID uuid.UUID, lastMessage string, at time.Time) error
}
