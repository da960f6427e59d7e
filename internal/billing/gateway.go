package billing

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/rentora/rentora/internal/domain"
)

// EventPaymentCompleted is the only inbound event type the reconciler
// consumes.
const EventPaymentCompleted = "checkout.session.completed"

// signatureTolerance bounds how old a webhook timestamp may be before the
// signature is rejected, limiting replay windows.
const signatureTolerance = 5 * time.Minute

// WebhookEvent is the payload of a verified gateway callback.
type WebhookEvent struct {
	EventType   string    `json:"type"`
	ExternalRef string    `json:"external_reference"`
	UserID      uuid.UUID `json:"user_id"`
	PlanID      string    `json:"plan_id"`
}

// PaymentGateway is the external payment collaborator. Refund has a single
// bounded attempt: retrying a refund risks double-refunding, so failures are
// surfaced, never retried here.
type PaymentGateway interface {
	Refund(ctx context.Context, externalRef string) error
}

// VerifySignature checks a gateway signature header of the form
// "t=<unix>,v1=<hex>" where v1 is HMAC-SHA256(secret, "<unix>.<body>").
// The timestamp must be within the tolerance window.
func VerifySignature(secret, header string, body []byte, now time.Time) error {
	var ts int64
	var sig string
	for _, part := range strings.Split(header, ",") {
		k, v, ok := strings.Cut(strings.TrimSpace(part), "=")
		if !ok {
			continue
		}
		switch k {
		case "t":
			parsed, err := strconv.ParseInt(v, 10, 64)
			if err != nil {
				return fmt.Errorf("billing.VerifySignature: bad timestamp: %w", domain.ErrValidation)
			}
			ts = parsed
		case "v1":
			sig = v
		}
	}
	if ts == 0 || sig == "" {
		return fmt.Errorf("billing.VerifySignature: malformed header: %w", domain.ErrValidation)
	}

	age := now.Sub(time.Unix(ts, 0))
	if age > signatureTolerance || age < -signatureTolerance {
		return fmt.Errorf("billing.VerifySignature: timestamp outside tolerance: %w", domain.ErrValidation)
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(strconv.FormatInt(ts, 10)))
	mac.Write([]byte("."))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))

	if !hmac.Equal([]byte(expected), []byte(sig)) {
		return fmt.Errorf("billing.VerifySignature: signature mismatch: %w", domain.ErrValidation)
	}

	return nil
}

// SignPayload produces the signature header VerifySignature accepts. Used by
// tests and local tooling; the real gateway computes this on its side.
func SignPayload(secret string, body []byte, at time.Time) string {
	ts := strconv.FormatInt(at.Unix(), 10)
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(ts))
	mac.Write([]byte("."))
	mac.Write(body)
	return "t=" + ts + ",v1=" + hex.EncodeToString(mac.Sum(nil))
}

// ParseWebhook verifies the signature and decodes the event. Nothing is
// mutated before this returns successfully.
func ParseWebhook(secret, sigHeader string, body []byte, now time.Time) (*WebhookEvent, error) {
	if err := VerifySignature(secret, sigHeader, body, now); err != nil {
		return nil, err
	}

	var ev WebhookEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return nil, fmt.Errorf("billing.ParseWebhook: decode: %w", domain.ErrValidation)
	}
	if ev.ExternalRef == "" || ev.UserID == uuid.Nil {
		return nil, fmt.Errorf("billing.ParseWebhook: missing reference or user: %w", domain.ErrValidation)
	}

	return &ev, nil
}

// GatewayClient talks to the payment gateway's HTTP API.
type GatewayClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

func NewGatewayClient(baseURL, apiKey string, timeout time.Duration) *GatewayClient {
	return &GatewayClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		client:  &http.Client{Timeout: timeout},
	}
}

// Refund issues a refund for the charge behind externalRef. One attempt; a
// timeout or non-2xx response surfaces as ErrGateway and the caller must
// leave its own state unchanged.
func (g *GatewayClient) Refund(ctx context.Context, externalRef string) error {
	form := url.Values{"charge": {externalRef}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/v1/refunds", strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("billing.GatewayClient.Refund: build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+g.apiKey)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := g.client.Do(req)
	if err != nil {
		return fmt.Errorf("billing.GatewayClient.Refund: %s: %w", err, domain.ErrGateway)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("billing.GatewayClient.Refund: gateway returned %d: %w", resp.StatusCode, domain.ErrGateway)
	}

	return nil
}
