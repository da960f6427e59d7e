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

const leaseColumns = `id, tenant_id, landlord_id, unit_id, tenant_details, landlord_details,
	        property_address, start_date, end_date, rent_amount, deposit_amount, status, clauses,
	        created_at, updated_at`

type LeaseRepo struct {
	pool *pgxpool.Pool
}

func NewLeaseRepo(pool *pgxpool.Pool) *LeaseRepo {
	return &LeaseRepo{pool: pool}
}

func (r *LeaseRepo) Create(ctx context.Context, l *domain.Lease) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO leases (id, tenant_id, landlord_id, unit_id, tenant_details, landlord_details,
		        property_address, start_date, end_date, rent_amount, deposit_amount, status, clauses,
		        created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`,
		l.ID, l.TenantID, l.LandlordID, l.UnitID, l.TenantDetails, l.LandlordDetails,
		l.PropertyAddress, l.StartDate, l.EndDate, l.RentAmount, l.DepositAmount, l.Status, l.Clauses,
		l.CreatedAt, l.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("leaseRepo.Create: %w", err)
	}

	return nil
}

func (r *LeaseRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Lease, error) {
	var l domain.Lease

	err := r.pool.QueryRow(ctx,
		`SELECT `+leaseColumns+` FROM leases WHERE id = $1`,
		id,
	).Scan(
		&l.ID, &l.TenantID, &l.LandlordID, &l.UnitID, &l.TenantDetails, &l.LandlordDetails,
		&l.PropertyAddress, &l.StartDate, &l.EndDate, &l.RentAmount, &l.DepositAmount, &l.Status, &l.Clauses,
		&l.CreatedAt, &l.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("leaseRepo.GetByID: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("leaseRepo.GetByID: %w", err)
	}

	return &l, nil
}

func (r *LeaseRepo) ListByLandlord(ctx context.Context, landlordID uuid.UUID, status *domain.LeaseStatus) ([]*domain.Lease, error) {
	return r.listByParty(ctx, "landlord_id", landlordID, status, "leaseRepo.ListByLandlord")
}

func (r *LeaseRepo) ListByTenant(ctx context.Context, tenantID uuid.UUID, status *domain.LeaseStatus) ([]*domain.Lease, error) {
	return r.listByParty(ctx, "tenant_id", tenantID, status, "leaseRepo.ListByTenant")
}

func (r *LeaseRepo) listByParty(ctx context.Context, column string, partyID uuid.UUID, status *domain.LeaseStatus, caller string) ([]*domain.Lease, error) {
	query := `SELECT ` + leaseColumns + ` FROM leases WHERE ` + column + ` = $1`
	args := []any{partyID}
	if status != nil {
		args = append(args, *status)
		query += ` AND status = $2`
	}
	query += ` ORDER BY created_at DESC LIMIT 1000`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", caller, err)
	}
	defer rows.Close()

	return scanLeases(rows, caller)
}

func (r *LeaseRepo) ListAll(ctx context.Context, f domain.LeaseFilter) ([]*domain.Lease, error) {
	query, args := buildLeaseFilter(`SELECT `+leaseColumns+` FROM leases`, f)
	limit := f.Limit
	if limit <= 0 || limit > 1000 {
		limit = 100
	}
	args = append(args, limit, f.Offset)
	query += fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, len(args)-1, len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("leaseRepo.ListAll: %w", err)
	}
	defer rows.Close()

	return scanLeases(rows, "leaseRepo.ListAll")
}

func (r *LeaseRepo) CountAll(ctx context.Context, f domain.LeaseFilter) (int64, error) {
	query, args := buildLeaseFilter(`SELECT count(*) FROM leases`, f)

	var n int64
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("leaseRepo.CountAll: %w", err)
	}

	return n, nil
}

func buildLeaseFilter(base string, f domain.LeaseFilter) (string, []any) {
	query := base + ` WHERE true`
	var args []any
	if f.Status != nil {
		args = append(args, *f.Status)
		query += fmt.Sprintf(` AND status = $%d`, len(args))
	}
	if f.CreatedAfter != nil {
		args = append(args, *f.CreatedAfter)
		query += fmt.Sprintf(` AND created_at >= $%d`, len(args))
	}
	if f.CreatedBefore != nil {
		args = append(args, *f.CreatedBefore)
		query += fmt.Sprintf(` AND created_at < $%d`, len(args))
	}

	return query, args
}

func (r *LeaseRepo) ListExpirable(ctx context.Context, now time.Time) ([]*domain.Lease, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+leaseColumns+`
		 FROM leases WHERE status = 'active' AND end_date <= $1
		 ORDER BY end_date
		 LIMIT 1000`,
		now,
	)
	if err != nil {
		return nil, fmt.Errorf("leaseRepo.ListExpirable: %w", err)
	}
	defer rows.Close()

	return scanLeases(rows, "leaseRepo.ListExpirable")
}

// UpdateStatus writes the status only while the row still carries from. The
// WHERE clause is the linearization point for concurrent transitions.
func (r *LeaseRepo) UpdateStatus(ctx context.Context, id uuid.UUID, from, to domain.LeaseStatus) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE leases SET status = $1, updated_at = now() WHERE id = $2 AND status = $3`,
		to, id, from,
	)
	if err != nil {
		return fmt.Errorf("leaseRepo.UpdateStatus: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return r.missReason(ctx, id, "leaseRepo.UpdateStatus")
	}

	return nil
}

func (r *LeaseRepo) Approve(ctx context.Context, id uuid.UUID, a domain.LeaseApproval) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE leases SET landlord_details = $1, property_address = $2, rent_amount = $3,
		        deposit_amount = $4, status = $5, updated_at = now()
		 WHERE id = $6 AND status = $7`,
		&a.LandlordDetails, a.PropertyAddress, a.RentAmount,
		a.DepositAmount, domain.LeaseStatusActive,
		id, domain.LeaseStatusPending,
	)
	if err != nil {
		return fmt.Errorf("leaseRepo.Approve: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return r.missReason(ctx, id, "leaseRepo.Approve")
	}

	return nil
}

func (r *LeaseRepo) UpdateTenantDetails(ctx context.Context, id uuid.UUID, d domain.PartyDetails, startDate, endDate *time.Time) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE leases SET tenant_details = $1,
		        start_date = COALESCE($2, start_date),
		        end_date = COALESCE($3, end_date),
		        updated_at = now()
		 WHERE id = $4 AND status = $5`,
		&d, startDate, endDate, id, domain.LeaseStatusPending,
	)
	if err != nil {
		return fmt.Errorf("leaseRepo.UpdateTenantDetails: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return r.missReason(ctx, id, "leaseRepo.UpdateTenantDetails")
	}

	return nil
}

func (r *LeaseRepo) UpdateLandlordDetails(ctx context.Context, id uuid.UUID, d domain.PartyDetails, propertyAddress string, rentAmount, depositAmount float64, clauses []string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE leases SET landlord_details = $1, property_address = $2, rent_amount = $3,
		        deposit_amount = $4, clauses = $5, updated_at = now()
		 WHERE id = $6 AND status = $7`,
		&d, propertyAddress, rentAmount, depositAmount, clauses,
		id, domain.LeaseStatusPending,
	)
	if err != nil {
		return fmt.Errorf("leaseRepo.UpdateLandlordDetails: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return r.missReason(ctx, id, "leaseRepo.UpdateLandlordDetails")
	}

	return nil
}

// missReason distinguishes a CAS miss on an existing row from a missing row.
func (r *LeaseRepo) missReason(ctx context.Context, id uuid.UUID, caller string) error {
	var exists bool
	if err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM leases WHERE id = $1)`, id,
	).Scan(&exists); err != nil {
		return fmt.Errorf("%s: %w", caller, err)
	}
	if !exists {
		return fmt.Errorf("%s: %w", caller, domain.ErrNotFound)
	}

	return fmt.Errorf("%s: %w", caller, domain.ErrInvalidState)
}

func scanLeases(rows pgx.Rows, caller string) ([]*domain.Lease, error) {
	var leases []*domain.Lease
	for rows.Next() {
		var l domain.Lease
		if err := rows.Scan(
			&l.ID, &l.TenantID, &l.LandlordID, &l.UnitID, &l.TenantDetails, &l.LandlordDetails,
			&l.PropertyAddress, &l.StartDate, &l.EndDate, &l.RentAmount, &l.DepositAmount, &l.Status, &l.Clauses,
			&l.CreatedAt, &l.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("%s: scan: %w", caller, err)
		}
		leases = append(leases, &l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows: %w", caller, err)
	}

	return leases, nil
}
