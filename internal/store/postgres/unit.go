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

type UnitRepo struct {
	pool *pgxpool.Pool
}

func NewUnitRepo(pool *pgxpool.Pool) *UnitRepo {
	return &UnitRepo{pool: pool}
}

func (r *UnitRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Unit, error) {
	var u domain.Unit

	err := r.pool.QueryRow(ctx,
		`SELECT id, landlord_id, subscription_id, address, status, created_at, updated_at
		 FROM units WHERE id = $1`,
		id,
	).Scan(&u.ID, &u.LandlordID, &u.SubscriptionID, &u.Address, &u.Status, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("unitRepo.GetByID: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("unitRepo.GetByID: %w", err)
	}

	return &u, nil
}

func (r *UnitRepo) ListBySubscription(ctx context.Context, subscriptionID uuid.UUID) ([]*domain.Unit, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, landlord_id, subscription_id, address, status, created_at, updated_at
		 FROM units WHERE subscription_id = $1
		 ORDER BY created_at
		 LIMIT 1000`,
		subscriptionID,
	)
	if err != nil {
		return nil, fmt.Errorf("unitRepo.ListBySubscription: %w", err)
	}
	defer rows.Close()

	var units []*domain.Unit
	for rows.Next() {
		var u domain.Unit
		if err := rows.Scan(&u.ID, &u.LandlordID, &u.SubscriptionID, &u.Address, &u.Status, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, fmt.Errorf("unitRepo.ListBySubscription: scan: %w", err)
		}
		units = append(units, &u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("unitRepo.ListBySubscription: rows: %w", err)
	}

	return units, nil
}

func (r *UnitRepo) AnyBooked(ctx context.Context, subscriptionID uuid.UUID) (bool, error) {
	var booked bool

	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM units WHERE subscription_id = $1 AND status = 'booked')`,
		subscriptionID,
	).Scan(&booked)
	if err != nil {
		return false, fmt.Errorf("unitRepo.AnyBooked: %w", err)
	}

	return booked, nil
}
