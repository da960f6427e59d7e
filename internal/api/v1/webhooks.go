package v1

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/rentora/rentora/internal/billing"
	"github.com/rentora/rentora/internal/domain"
)

// maxWebhookBody bounds how much of a webhook payload is read.
const maxWebhookBody = 1 << 20

// NewPaymentWebhookHandler returns the gateway callback endpoint. It runs
// outside huma because signature verification needs the raw body bytes.
// Duplicates answer 200 so the gateway stops retrying; verification failures
// answer 400 without touching any state.
func NewPaymentWebhookHandler(webhookSecret string, svc BillingService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
		if err != nil {
			http.Error(w, "unreadable body", http.StatusBadRequest)
			return
		}

		ev, err := billing.ParseWebhook(webhookSecret, r.Header.Get("Gateway-Signature"), body, time.Now())
		if err != nil {
			log.Warn().Err(err).Msg("webhook rejected")
			http.Error(w, "invalid signature or payload", http.StatusBadRequest)
			return
		}

		if ev.EventType != billing.EventPaymentCompleted {
			// Unhandled event types are acknowledged, not errored, so the
			// gateway does not retry them forever.
			w.WriteHeader(http.StatusOK)
			return
		}

		err = svc.HandlePaymentCompleted(r.Context(), *ev)
		switch {
		case err == nil:
			w.WriteHeader(http.StatusOK)
		case errors.Is(err, domain.ErrDuplicateEvent):
			w.WriteHeader(http.StatusOK)
		case errors.Is(err, domain.ErrUnknownPlan):
			log.Error().Err(err).Str("ref", ev.ExternalRef).Msg("payment for unknown plan")
			http.Error(w, "unknown plan", http.StatusBadRequest)
		default:
			log.Error().Err(err).Str("ref", ev.ExternalRef).Msg("webhook processing failed")
			http.Error(w, "processing failed", http.StatusInternalServerError)
		}
	}
}
