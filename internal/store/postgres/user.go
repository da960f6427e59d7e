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

const userColumns = `id, name, email, role, is_subscribed, subscription_plan, plan_unit_limit,
	        plan_expires_at, created_at, updated_at`

type UserRepo struct {
	pool *pgxpool.Pool
}

func NewUserRepo(pool *pgxpool.Pool) *UserRepo {
	return &UserRepo{pool: pool}
}

func (r *UserRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	var u domain.User

	err := r.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`,
		id,
	).Scan(
		&u.ID, &u.Name, &u.Email, &u.Role, &u.IsSubscribed, &u.SubscriptionPlan, &u.PlanUnitLimit,
		&u.PlanExpiresAt, &u.CreatedAt, &u.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("userRepo.GetByID: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("userRepo.GetByID: %w", err)
	}

	return &u, nil
}

func (r *UserRepo) ListAdmins(ctx context.Context) ([]*domain.User, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+userColumns+` FROM users WHERE role = 'admin' ORDER BY created_at LIMIT 100`,
	)
	if err != nil {
		return nil, fmt.Errorf("userRepo.ListAdmins: %w", err)
	}
	defer rows.Close()

	var users []*domain.User
	for rows.Next() {
		var u domain.User
		if err := rows.Scan(
			&u.ID, &u.Name, &u.Email, &u.Role, &u.IsSubscribed, &u.SubscriptionPlan, &u.PlanUnitLimit,
			&u.PlanExpiresAt, &u.CreatedAt, &u.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("userRepo.ListAdmins: scan: %w", err)
		}
		users = append(users, &u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("userRepo.ListAdmins: rows: %w", err)
	}

	return users, nil
}

func (r *UserRepo) UpdateEntitlement(ctx context.Context, userID uuid.UUID, e domain.Entitlement) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE users SET is_subscribed = $1, subscription_plan = $2, plan_unit_limit = $3,
		        plan_expires_at = $4, updated_at = now()
		 WHERE id = $5`,
		e.Subscribed, e.PlanName, e.UnitLimit, e.ExpiresAt, userID,
	)
	if err != nil {
		return fmt.Errorf("userRepo.UpdateEntitlement: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("userRepo.UpdateEntitlement: %w", domain.ErrNotFound)
	}

	return nil
}
