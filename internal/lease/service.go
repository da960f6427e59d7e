package lease

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/rentora/rentora/internal/domain"
	"github.com/rentora/rentora/internal/hub"
)

// EventPublisher is the slice of the hub the lifecycle manager needs.
// *hub.Hub satisfies this interface.
type EventPublisher interface {
	PublishToUser(userID uuid.UUID, ev hub.Event)
}

// Service owns the lease state machine. Every transition is a compare-and-set
// write against the lease row; events and notifications are published only
// after the durable write succeeds.
type Service struct {
	leases        domain.LeaseRepository
	notifications domain.NotificationRepository
	events        EventPublisher
	now           func() time.Time
}

func NewService(leases domain.LeaseRepository, notifications domain.NotificationRepository, events EventPublisher) *Service {
	return &Service{
		leases:        leases,
		notifications: notifications,
		events:        events,
		now:           time.Now,
	}
}

// CreateInput carries the tenant-initiated lease request.
type CreateInput struct {
	TenantID      uuid.UUID
	LandlordID    uuid.UUID
	UnitID        uuid.UUID
	StartDate     time.Time
	EndDate       time.Time
	TenantDetails domain.PartyDetails
}

// Create opens a new lease request. Leases always start pending.
func (s *Service) Create(ctx context.Context, in CreateInput) (*domain.Lease, error) {
	if !in.EndDate.After(in.StartDate) {
		return nil, fmt.Errorf("lease.Service.Create: end date must be after start date: %w", domain.ErrValidation)
	}
	if !in.TenantDetails.Complete() {
		return nil, fmt.Errorf("lease.Service.Create: incomplete tenant details: %w", domain.ErrValidation)
	}

	now := s.now()
	l := &domain.Lease{
		ID:            uuid.New(),
		TenantID:      in.TenantID,
		LandlordID:    in.LandlordID,
		UnitID:        in.UnitID,
		TenantDetails: &in.TenantDetails,
		StartDate:     in.StartDate,
		EndDate:       in.EndDate,
		Status:        domain.LeaseStatusPending,
		Clauses:       []string{},
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.leases.Create(ctx, l); err != nil {
		return nil, fmt.Errorf("lease.Service.Create: %w", err)
	}

	return l, nil
}

// Approve moves a pending lease to active with the landlord's details and
// financial terms, then publishes the approval event to both parties.
func (s *Service) Approve(ctx context.Context, leaseID uuid.UUID, a domain.LeaseApproval) (*domain.Lease, error) {
	if !a.LandlordDetails.Complete() {
		return nil, fmt.Errorf("lease.Service.Approve: incomplete landlord details: %w", domain.ErrValidation)
	}
	if a.RentAmount <= 0 {
		return nil, fmt.Errorf("lease.Service.Approve: rent amount must be positive: %w", domain.ErrValidation)
	}
	if a.DepositAmount < 0 {
		return nil, fmt.Errorf("lease.Service.Approve: deposit amount must be non-negative: %w", domain.ErrValidation)
	}

	if err := s.leases.Approve(ctx, leaseID, a); err != nil {
		return nil, fmt.Errorf("lease.Service.Approve: %w", err)
	}

	l, err := s.leases.GetByID(ctx, leaseID)
	if err != nil {
		return nil, fmt.Errorf("lease.Service.Approve: reload: %w", err)
	}

	ev := hub.Event{Type: hub.EventLeaseApproved, Payload: map[string]any{
		"leaseId": l.ID,
		"status":  l.Status,
	}}
	s.events.PublishToUser(l.TenantID, ev)
	s.events.PublishToUser(l.LandlordID, ev)

	return l, nil
}

// Reject is the landlord declining a pending lease.
func (s *Service) Reject(ctx context.Context, leaseID uuid.UUID) error {
	if err := s.leases.UpdateStatus(ctx, leaseID, domain.LeaseStatusPending, domain.LeaseStatusRejected); err != nil {
		return fmt.Errorf("lease.Service.Reject: %w", err)
	}
	log.Info().Str("lease_id", leaseID.String()).Str("actor", "landlord").Msg("lease rejected")
	return nil
}

// Cancel is the tenant withdrawing a pending lease. Same state edge as
// Reject; the distinct actor intent is kept for audit.
func (s *Service) Cancel(ctx context.Context, leaseID uuid.UUID) error {
	if err := s.leases.UpdateStatus(ctx, leaseID, domain.LeaseStatusPending, domain.LeaseStatusCancelled); err != nil {
		return fmt.Errorf("lease.Service.Cancel: %w", err)
	}
	log.Info().Str("lease_id", leaseID.String()).Str("actor", "tenant").Msg("lease cancelled")
	return nil
}

// UpdateTenantDetails rewrites the tenant side of a pending lease. Permitted
// any number of times while pending.
func (s *Service) UpdateTenantDetails(ctx context.Context, leaseID uuid.UUID, d domain.PartyDetails, startDate, endDate *time.Time) error {
	if !d.Complete() {
		return fmt.Errorf("lease.Service.UpdateTenantDetails: incomplete tenant details: %w", domain.ErrValidation)
	}
	if startDate != nil && endDate != nil && !endDate.After(*startDate) {
		return fmt.Errorf("lease.Service.UpdateTenantDetails: end date must be after start date: %w", domain.ErrValidation)
	}

	if err := s.leases.UpdateTenantDetails(ctx, leaseID, d, startDate, endDate); err != nil {
		return fmt.Errorf("lease.Service.UpdateTenantDetails: %w", err)
	}
	return nil
}

// UpdateLandlordDetails rewrites the landlord side, terms and clauses of a
// pending lease. Only the recorded landlord may do this.
func (s *Service) UpdateLandlordDetails(ctx context.Context, leaseID, callerID uuid.UUID, d domain.PartyDetails, propertyAddress string, rentAmount, depositAmount float64, clauses []string) error {
	l, err := s.leases.GetByID(ctx, leaseID)
	if err != nil {
		return fmt.Errorf("lease.Service.UpdateLandlordDetails: %w", err)
	}
	if l.LandlordID != callerID {
		return fmt.Errorf("lease.Service.UpdateLandlordDetails: caller is not the landlord: %w", domain.ErrForbidden)
	}
	if !d.Complete() {
		return fmt.Errorf("lease.Service.UpdateLandlordDetails: incomplete landlord details: %w", domain.ErrValidation)
	}

	if err := s.leases.UpdateLandlordDetails(ctx, leaseID, d, propertyAddress, rentAmount, depositAmount, clauses); err != nil {
		return fmt.Errorf("lease.Service.UpdateLandlordDetails: %w", err)
	}
	return nil
}

// Expire drives an active lease past its end date to expired and issues the
// two review notifications. Re-invoking on an already-expired lease is a
// no-op success so overlapping sweeps tolerate each other.
func (s *Service) Expire(ctx context.Context, leaseID uuid.UUID) error {
	l, err := s.leases.GetByID(ctx, leaseID)
	if err != nil {
		return fmt.Errorf("lease.Service.Expire: %w", err)
	}

	if l.Status == domain.LeaseStatusExpired {
		return nil
	}
	if l.Status != domain.LeaseStatusActive {
		return fmt.Errorf("lease.Service.Expire: lease is %s: %w", l.Status, domain.ErrInvalidState)
	}
	if l.EndDate.After(s.now()) {
		return fmt.Errorf("lease.Service.Expire: lease has not ended yet: %w", domain.ErrInvalidState)
	}

	err = s.leases.UpdateStatus(ctx, leaseID, domain.LeaseStatusActive, domain.LeaseStatusExpired)
	if errors.Is(err, domain.ErrInvalidState) {
		// Lost the race to a concurrent sweep; re-read to confirm.
		cur, getErr := s.leases.GetByID(ctx, leaseID)
		if getErr == nil && cur.Status == domain.LeaseStatusExpired {
			return nil
		}
		return fmt.Errorf("lease.Service.Expire: %w", err)
	}
	if err != nil {
		return fmt.Errorf("lease.Service.Expire: %w", err)
	}

	s.notifyExpired(ctx, l)
	return nil
}

// notifyExpired persists one review notification per party and then pushes
// each to the recipient's topic. Notification failures do not undo the
// transition; the lease is already expired.
func (s *Service) notifyExpired(ctx context.Context, l *domain.Lease) {
	now := s.now()
	pairs := []struct {
		userID   uuid.UUID // recipient
		senderID uuid.UUID // counterpart
		reviewee uuid.UUID // who the recipient gets to review
		message  string
	}{
		{l.TenantID, l.LandlordID, l.LandlordID, "Your lease has ended. You can now review the landlord."},
		{l.LandlordID, l.TenantID, l.TenantID, "Your lease has ended. You can now review the tenant."},
	}

	for _, p := range pairs {
		sender := p.senderID
		n := &domain.Notification{
			ID:        uuid.New(),
			UserID:    p.userID,
			SenderID:  &sender,
			Type:      domain.NotificationTypeLeaseExpired,
			Title:     "Lease expired",
			Message:   p.message,
			Link:      fmt.Sprintf("/leave-review?leaseId=%s&revieweeId=%s", l.ID, p.reviewee),
			CreatedAt: now,
		}
		if err := s.notifications.Create(ctx, n); err != nil {
			log.Error().Err(err).Str("lease_id", l.ID.String()).Str("user_id", p.userID.String()).Msg("lease: create expiry notification")
			continue
		}
		s.events.PublishToUser(p.userID, hub.Event{Type: hub.EventNewNotification, Payload: n})
	}
}
