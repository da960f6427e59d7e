package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rentora/rentora/internal/domain"
)

type Store struct {
	pool          *pgxpool.Pool
	leases        *LeaseRepo
	subscriptions *SubscriptionRepo
	notifications *NotificationRepo
	chats         *ChatRepo
	units         *UnitRepo
	users         *UserRepo
}

func New(ctx context.Context, dsn string, maxConns int32) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres.New: parse config: %w", err)
	}

	cfg.MaxConns = maxConns

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("postgres.New: connect: %w", err)
	}

	err = pool.Ping(ctx)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres.New: ping: %w", err)
	}

	return &Store{
		pool:          pool,
		leases:        NewLeaseRepo(pool),
		subscriptions: NewSubscriptionRepo(pool),
		notifications: NewNotificationRepo(pool),
		chats:         NewChatRepo(pool),
		units:         NewUnitRepo(pool),
		users:         NewUserRepo(pool),
	}, nil
}

func (s *Store) Close() {
	s.pool.Close()
}

func (s *Store) Leases() domain.LeaseRepository                { return s.leases }
func (s *Store) Subscriptions() domain.SubscriptionRepository  { return s.subscriptions }
func (s *Store) Notifications() domain.NotificationRepository  { return s.notifications }
func (s *Store) Chats() domain.ChatRepository                  { return s.chats }
func (s *Store) Units() domain.UnitRepository                  { return s.units }
func (s *Store) Users() domain.UserRepository                  { return s.users }
