package billing

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

// EventPublisher pushes real-time events to connected clients.
type EventPublisher interface {
	PublishToUser(userID uuid.UUID, ev hub.Event)
}

// DedupeStore remembers gateway event references so retried webhook
// deliveries are absorbed. Seen is a read-only fast path; the subscription's
// GatewayRef lookup is the authoritative guard. MarkSeen is called only after
// the subscription row is committed, so a delivery that fails mid-flight is
// re-processed in full on the gateway's next retry.
type DedupeStore interface {
	Seen(ctx context.Context, ref string) (bool, error)
	MarkSeen(ctx context.Context, ref string) error
}

// Reconciler converts verified gateway events into billing state: it
// supersedes old subscriptions, snapshots entitlements onto the landlord and
// handles refunds.
type Reconciler struct {
	subs          domain.SubscriptionRepository
	users         domain.UserRepository
	units         domain.UnitRepository
	notifications domain.NotificationRepository
	catalog       Catalog
	gateway       PaymentGateway
	dedupe        DedupeStore
	events        EventPublisher
	now           func() time.Time
}

func NewReconciler(
	subs domain.SubscriptionRepository,
	users domain.UserRepository,
	units domain.UnitRepository,
	notifications domain.NotificationRepository,
	catalog Catalog,
	gateway PaymentGateway,
	dedupe DedupeStore,
	events EventPublisher,
) *Reconciler {
	return &Reconciler{
		subs:          subs,
		users:         users,
		units:         units,
		notifications: notifications,
		catalog:       catalog,
		gateway:       gateway,
		dedupe:        dedupe,
		events:        events,
		now:           time.Now,
	}
}

// HandlePaymentCompleted processes a verified checkout event. Redelivered
// events return ErrDuplicateEvent, which callers treat as success so the
// gateway stops retrying. An unknown plan returns ErrUnknownPlan and must be
// surfaced as a hard failure; silently dropping paid money is worse than a
// retry loop.
func (r *Reconciler) HandlePaymentCompleted(ctx context.Context, ev WebhookEvent) error {
	plan, err := r.catalog.Resolve(ev.PlanID)
	if err != nil {
		return fmt.Errorf("billing.Reconciler.HandlePaymentCompleted: %w", err)
	}

	seen, err := r.dedupe.Seen(ctx, ev.ExternalRef)
	if err != nil {
		// Cache outage degrades to the durable check below.
		log.Warn().Err(err).Str("ref", ev.ExternalRef).Msg("event dedupe cache unavailable")
	} else if seen {
		return fmt.Errorf("billing.Reconciler.HandlePaymentCompleted: ref %s: %w", ev.ExternalRef, domain.ErrDuplicateEvent)
	}

	if existing, err := r.subs.GetByGatewayRef(ctx, ev.ExternalRef); err == nil && existing != nil {
		return fmt.Errorf("billing.Reconciler.HandlePaymentCompleted: ref %s: %w", ev.ExternalRef, domain.ErrDuplicateEvent)
	} else if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("billing.Reconciler.HandlePaymentCompleted: lookup ref: %w", err)
	}

	superseded, err := r.subs.ExpireActiveByLandlord(ctx, ev.UserID)
	if err != nil {
		return fmt.Errorf("billing.Reconciler.HandlePaymentCompleted: supersede: %w", err)
	}

	now := r.now()
	sub := &domain.Subscription{
		ID:         uuid.New(),
		LandlordID: ev.UserID,
		PlanName:   plan.Name,
		UnitLimit:  plan.UnitLimit,
		GatewayRef: ev.ExternalRef,
		Status:     domain.SubscriptionStatusActive,
		StartDate:  now,
		EndDate:    now.AddDate(0, 1, 0),
	}
	if err := r.subs.Create(ctx, sub); err != nil {
		return fmt.Errorf("billing.Reconciler.HandlePaymentCompleted: create: %w", err)
	}

	// The row is durable now; the cache key is only a lookup shortcut.
	if err := r.dedupe.MarkSeen(ctx, ev.ExternalRef); err != nil {
		log.Warn().Err(err).Str("ref", ev.ExternalRef).Msg("event dedupe cache not updated")
	}

	ent := domain.Entitlement{
		Subscribed: true,
		PlanName:   sub.PlanName,
		UnitLimit:  sub.UnitLimit,
		ExpiresAt:  &sub.EndDate,
	}
	if err := r.users.UpdateEntitlement(ctx, ev.UserID, ent); err != nil {
		return fmt.Errorf("billing.Reconciler.HandlePaymentCompleted: entitlement: %w", err)
	}

	log.Info().
		Str("landlord_id", ev.UserID.String()).
		Str("plan", sub.PlanName).
		Int64("superseded", superseded).
		Msg("subscription activated")

	n := &domain.Notification{
		ID:             uuid.New(),
		UserID:         ev.UserID,
		Type:           domain.NotificationTypeSubscriptionUpdated,
		Title:          "Subscription updated",
		Message:        fmt.Sprintf("Your %s plan is active until %s.", sub.PlanName, sub.EndDate.Format("Jan 2, 2006")),
		Link:           "/subscription",
		SubscriptionID: &sub.ID,
	}
	if err := r.notifications.Create(ctx, n); err != nil {
		log.Error().Err(err).Str("subscription_id", sub.ID.String()).Msg("create subscription notification")
	} else {
		r.events.PublishToUser(ev.UserID, hub.Event{Type: hub.EventNewNotification, Payload: n})
	}
	r.events.PublishToUser(ev.UserID, hub.Event{Type: hub.EventSubscriptionUpdated, Payload: sub})

	return nil
}

// Refund refunds an active subscription. The caller must own it, it must be
// active and unrefunded, and none of its units may be booked. The gateway
// call happens before any local write: if the gateway fails, billing state
// is untouched.
func (r *Reconciler) Refund(ctx context.Context, subscriptionID, requesterID uuid.UUID) error {
	sub, err := r.subs.GetByID(ctx, subscriptionID)
	if err != nil {
		return fmt.Errorf("billing.Reconciler.Refund: %w", err)
	}
	if sub.LandlordID != requesterID {
		return fmt.Errorf("billing.Reconciler.Refund: subscription belongs to another landlord: %w", domain.ErrForbidden)
	}
	if sub.Status != domain.SubscriptionStatusActive || sub.Refunded {
		return fmt.Errorf("billing.Reconciler.Refund: subscription is %s: %w", sub.Status, domain.ErrInvalidState)
	}

	booked, err := r.units.AnyBooked(ctx, sub.ID)
	if err != nil {
		return fmt.Errorf("billing.Reconciler.Refund: check units: %w", err)
	}
	if booked {
		return fmt.Errorf("billing.Reconciler.Refund: subscription has booked units: %w", domain.ErrInvalidState)
	}

	if err := r.gateway.Refund(ctx, sub.GatewayRef); err != nil {
		return fmt.Errorf("billing.Reconciler.Refund: %w", err)
	}

	if err := r.subs.MarkRefunded(ctx, sub.ID); err != nil {
		// Money already moved at the gateway. Surface loudly so the record
		// can be reconciled by hand.
		log.Error().Err(err).Str("subscription_id", sub.ID.String()).Msg("refund issued but subscription not marked")
		return fmt.Errorf("billing.Reconciler.Refund: mark refunded: %w", err)
	}

	ent := domain.Entitlement{Subscribed: false}
	if err := r.users.UpdateEntitlement(ctx, sub.LandlordID, ent); err != nil {
		log.Error().Err(err).Str("landlord_id", sub.LandlordID.String()).Msg("clear entitlement after refund")
	}

	disabled, err := r.notifications.DisableRefundEligible(ctx, sub.LandlordID, sub.ID)
	if err != nil {
		log.Error().Err(err).Str("subscription_id", sub.ID.String()).Msg("disable refund notifications")
	}

	log.Info().
		Str("subscription_id", sub.ID.String()).
		Int64("notifications_disabled", disabled).
		Msg("subscription refunded")

	return nil
}
