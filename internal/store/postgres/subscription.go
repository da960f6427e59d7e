package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rentora/rentora/internal/domain"
)

const subscriptionColumns = `id, landlord_id, plan_name, unit_limit, gateway_ref, status, refunded,
	        start_date, end_date, created_at, updated_at`

type SubscriptionRepo struct {
	pool *pgxpool.Pool
}

func NewSubscriptionRepo(pool *pgxpool.Pool) *SubscriptionRepo {
	return &SubscriptionRepo{pool: pool}
}

func (r *SubscriptionRepo) Create(ctx context.Context, s *domain.Subscription) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO subscriptions (id, landlord_id, plan_name, unit_limit, gateway_ref, status, refunded,
		        start_date, end_date, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, now(), now())`,
		s.ID, s.LandlordID, s.PlanName, s.UnitLimit, s.GatewayRef, s.Status, s.Refunded,
		s.StartDate, s.EndDate,
	)
	if err != nil {
		return fmt.Errorf("subscriptionRepo.Create: %w", err)
	}

	return nil
}

func (r *SubscriptionRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Subscription, error) {
	return r.getOne(ctx,
		`SELECT `+subscriptionColumns+` FROM subscriptions WHERE id = $1`,
		"subscriptionRepo.GetByID", id)
}

func (r *SubscriptionRepo) GetByGatewayRef(ctx context.Context, ref string) (*domain.Subscription, error) {
	return r.getOne(ctx,
		`SELECT `+subscriptionColumns+` FROM subscriptions WHERE gateway_ref = $1`,
		"subscriptionRepo.GetByGatewayRef", ref)
}

func (r *SubscriptionRepo) GetActiveByLandlord(ctx context.Context, landlordID uuid.UUID) (*domain.Subscription, error) {
	return r.getOne(ctx,
		`SELECT `+subscriptionColumns+`
		 FROM subscriptions WHERE landlord_id = $1 AND status = 'active'
		 ORDER BY created_at DESC
		 LIMIT 1`,
		"subscriptionRepo.GetActiveByLandlord", landlordID)
}

func (r *SubscriptionRepo) getOne(ctx context.Context, query, caller string, args ...any) (*domain.Subscription, error) {
	var s domain.Subscription

	err := r.pool.QueryRow(ctx, query, args...).Scan(
		&s.ID, &s.LandlordID, &s.PlanName, &s.UnitLimit, &s.GatewayRef, &s.Status, &s.Refunded,
		&s.StartDate, &s.EndDate, &s.CreatedAt, &s.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", caller, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", caller, err)
	}

	return &s, nil
}

func (r *SubscriptionRepo) ExpireActiveByLandlord(ctx context.Context, landlordID uuid.UUID) (int64, error) {
	tag, err := r.pool.Exec(ctx,
		`UPDATE subscriptions SET status = 'expired', updated_at = now()
		 WHERE landlord_id = $1 AND status = 'active'`,
		landlordID,
	)
	if err != nil {
		return 0, fmt.Errorf("subscriptionRepo.ExpireActiveByLandlord: %w", err)
	}

	return tag.RowsAffected(), nil
}

// MarkRefunded flips an active, unrefunded subscription to refunded. The
// WHERE clause makes the write race-safe against concurrent refunds.
func (r *SubscriptionRepo) MarkRefunded(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE subscriptions SET status = 'refunded', refunded = true, updated_at = now()
		 WHERE id = $1 AND status = 'active' AND refunded = false`,
		id,
	)
	if err != nil {
		return fmt.Errorf("subscriptionRepo.MarkRefunded: %w", err)
	}
	if tag.RowsAffected() == 0 {
		var exists bool
		if err := r.pool.QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM subscriptions WHERE id = $1)`, id,
		).Scan(&exists); err != nil {
			return fmt.Errorf("subscriptionRepo.MarkRefunded: %w", err)
		}
		if !exists {
			return fmt.Errorf("subscriptionRepo.MarkRefunded: %w", domain.ErrNotFound)
		}
		return fmt.Errorf("subscriptionRepo.MarkRefunded: %w", domain.ErrInvalidState)
	}

	return nil
}
