package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rentora/rentora/internal/domain"
)

type ChatRepo struct {
	pool *pgxpool.Pool
}

func NewChatRepo(pool *pgxpool.Pool) *ChatRepo {
	return &ChatRepo{pool: pool}
}

func (r *ChatRepo) GetThread(ctx context.Context, id uuid.UUID) (*domain.ChatThread, error) {
	var t domain.ChatThread

	err := r.pool.QueryRow(ctx,
		`SELECT id, kind, user_id, peer_id, last_message, last_message_at, created_at
		 FROM chat_threads WHERE id = $1`,
		id,
	).Scan(&t.ID, &t.Kind, &t.UserID, &t.PeerID, &t.LastMessage, &t.LastMessageAt, &t.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("chatRepo.GetThread: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("chatRepo.GetThread: %w", err)
	}

	return &t, nil
}

func (r *ChatRepo) CreateThread(ctx context.Context, t *domain.ChatThread) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO chat_threads (id, kind, user_id, peer_id, last_message, last_message_at, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, now())`,
		t.ID, t.Kind, t.UserID, t.PeerID, t.LastMessage, t.LastMessageAt,
	)
	if err != nil {
		return fmt.Errorf("chatRepo.CreateThread: %w", err)
	}

	return nil
}

func (r *ChatRepo) CreateMessage(ctx context.Context, m *domain.ChatMessage) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO chat_messages (id, thread_id, sender_id, receiver_id, text, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		m.ID, m.ThreadID, m.SenderID, m.ReceiverID, m.Text, m.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("chatRepo.CreateMessage: %w", err)
	}

	return nil
}

func (r *ChatRepo) ListMessages(ctx context.Context, threadID uuid.UUID, limit, offset int) ([]*domain.ChatMessage, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}

	rows, err := r.pool.Query(ctx,
		`SELECT id, thread_id, sender_id, receiver_id, text, created_at
		 FROM chat_messages WHERE thread_id = $1
		 ORDER BY created_at
		 LIMIT $2 OFFSET $3`,
		threadID, limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("chatRepo.ListMessages: %w", err)
	}
	defer rows.Close()

	var messages []*domain.ChatMessage
	for rows.Next() {
		var m domain.ChatMessage
		if err := rows.Scan(&m.ID, &m.ThreadID, &m.SenderID, &m.ReceiverID, &m.Text, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("chatRepo.ListMessages: scan: %w", err)
		}
		messages = append(messages, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("chatRepo.ListMessages: rows: %w", err)
	}

	return messages, nil
}

func (r *ChatRepo) UpdateThreadSummary(ctx context.Context, threadID uuid.UUID, lastMessage string, at time.Time) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE chat_threads SET last_message = $1, last_message_at = $2 WHERE id = $3`,
		lastMessage, at, threadID,
	)
	if err != nil {
		return fmt.Errorf("chatRepo.UpdateThreadSummary: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("chatRepo.UpdateThreadSummary: %w", domain.ErrNotFound)
	}

	return nil
}
