package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type LeaseStatus string

const (
	LeaseStatusPending   LeaseStatus = "pending"
	LeaseStatusActive    LeaseStatus = "active"
	LeaseStatusRejected  LeaseStatus = "rejected"
	LeaseStatusCancelled LeaseStatus = "cancelled"
	LeaseStatusExpired   LeaseStatus = "expired"
)

// ValidTransition checks if a lease state transition is allowed.
// Allowed: pending->{active,rejected,cancelled}, active->expired.
// Terminal states (rejected, cancelled, expired) have no outgoing edges.
func (s LeaseStatus) ValidTransition(to LeaseStatus) bool {
	switch s {
	case LeaseStatusPending:
		return to == LeaseStatusActive || to == LeaseStatusRejected || to == LeaseStatusCancelled
	case LeaseStatusActive:
		return to == LeaseStatusExpired
	default:
		return false
	}
}

// PartyDetails holds the identity information one side of the contract
// supplies before approval. Either side's details are nil until that party
// has filled them in.
type PartyDetails struct {
	FullName   string `json:"full_name"`
	NationalID string `json:"national_id"`
	Phone      string `json:"phone"`
	Address    string `json:"address"`
}

// Complete reports whether every field has been supplied.
func (d *PartyDetails) Complete() bool {
	return d != nil && d.FullName != "" && d.NationalID != "" && d.Phone != "" && d.Address != ""
}

type Lease struct {
	ID              uuid.UUID
	TenantID        uuid.UUID
	LandlordID      uuid.UUID
	UnitID          uuid.UUID
	TenantDetails   *PartyDetails
	LandlordDetails *PartyDetails
	PropertyAddress string
	StartDate       time.Time
	EndDate         time.Time
	RentAmount      float64
	DepositAmount   float64
	Status          LeaseStatus
	Clauses         []string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// LeaseApproval is the landlord-supplied data required to move a lease
// from pending to active.
type LeaseApproval struct {
	LandlordDetails PartyDetails
	PropertyAddress string
	RentAmount      float64
	DepositAmount   float64
}

// LeaseFilter narrows admin-wide lease listings.
type LeaseFilter struct {
	Status        *LeaseStatus
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
	Limit         int
	Offset        int
}

type LeaseRepository interface {
	Create(ctx context.Context, l *Lease) error
	GetByID(ctx context.Context, id uuid.UUID) (*Lease, error)
	ListByLandlord(ctx context.Context, landlordID uuid.UUID, status *LeaseStatus) ([]*Lease, error)
	ListByTenant(ctx context.Context, tenantID uuid.UUID, status *LeaseStatus) ([]*Lease, error)
	ListAll(ctx context.Context, f LeaseFilter) ([]*Lease, error)
	CountAll(ctx context.Context, f LeaseFilter) (int64, error)

	// ListExpirable returns active leases whose end date has passed,
	// oldest first. Only active leases can take the expired edge, so the
	// other non-expired states are never selected.
	ListExpirable(ctx context.Context, now time.Time) ([]*Lease, error)

	// UpdateStatus performs a compare-and-set status write: the row is
	// updated only if its current status still equals from. A miss on an
	// existing lease yields ErrInvalidState, a missing lease ErrNotFound.
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to LeaseStatus) error

	// Approve atomically records the landlord approval data and moves the
	// lease from pending to active. Same CAS semantics as UpdateStatus.
	Approve(ctx context.Context, id uuid.UUID, a LeaseApproval) error

	// UpdateTenantDetails rewrites the tenant side while the lease is still
	// pending. Dates are updated only when non-nil.
	UpdateTenantDetails(ctx context.Context, id uuid.UUID, d PartyDetails, startDate, endDate *time.Time) error

	// UpdateLandlordDetails rewrites the landlord side, financial terms and
	// clauses while the lease is still pending.
	UpdateLandlordDetails(ctx context.Context, id uuid.UUID, d PartyDetails, propertyAddress string, rentAmount, depositAmount float64, clauses []string) error
}
