package v1_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	v1 "github.com/rentora/rentora/internal/api/v1"
	"github.com/rentora/rentora/internal/domain"
)

func TestGetSubscription(t *testing.T) {
	t.Parallel()

	landlordID := uuid.New()

	t.Run("happy_path", func(t *testing.T) {
		t.Parallel()

		sub := &domain.Subscription{
			ID:         uuid.New(),
			LandlordID: landlordID,
			PlanName:   "standard",
			UnitLimit:  20,
			Status:     domain.SubscriptionStatusActive,
			EndDate:    time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC),
		}

		_, api := humatest.New(t)
		store := &mockDataStore{
			subscriptions: &mockSubscriptionRepo{
				getActiveByLandlordFunc: func(_ context.Context, id uuid.UUID) (*domain.Subscription, error) {
					assert.Equal(t, landlordID, id)
					return sub, nil
				},
			},
		}
		v1.RegisterBillingRoutes(api, store, &mockBillingService{})

		resp := api.GetCtx(userCtx(landlordID, "landlord"), "/subscription")

		require.Equal(t, http.StatusOK, resp.Code)

		var body domain.Subscription
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, sub.ID, body.ID)
		assert.Equal(t, "standard", body.PlanName)
	})

	t.Run("no active subscription maps to 404", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		store := &mockDataStore{
			subscriptions: &mockSubscriptionRepo{
				getActiveByLandlordFunc: func(_ context.Context, _ uuid.UUID) (*domain.Subscription, error) {
					return nil, fmt.Errorf("SubscriptionRepo.GetActiveByLandlord: %w", domain.ErrNotFound)
				},
			},
		}
		v1.RegisterBillingRoutes(api, store, &mockBillingService{})

		resp := api.GetCtx(userCtx(landlordID, "landlord"), "/subscription")
		assert.Equal(t, http.StatusNotFound, resp.Code)
	})

	t.Run("unauthenticated", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		v1.RegisterBillingRoutes(api, &mockDataStore{}, &mockBillingService{})

		resp := api.Get("/subscription")
		assert.Equal(t, http.StatusUnauthorized, resp.Code)
	})
}

func TestRefundSubscription(t *testing.T) {
	t.Parallel()

	landlordID := uuid.New()
	subID := uuid.New()

	t.Run("happy_path", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		svc := &mockBillingService{
			refundFunc: func(_ context.Context, sid, rid uuid.UUID) error {
				assert.Equal(t, subID, sid)
				assert.Equal(t, landlordID, rid)
				return nil
			},
		}
		v1.RegisterBillingRoutes(api, &mockDataStore{}, svc)

		resp := api.PostCtx(userCtx(landlordID, "landlord"), "/subscriptions/"+subID.String()+"/refund")
		assert.Equal(t, http.StatusNoContent, resp.Code)
	})

	t.Run("error mapping", func(t *testing.T) {
		t.Parallel()

		cases := []struct {
			name string
			err  error
			code int
		}{
			{"not_found", domain.ErrNotFound, http.StatusNotFound},
			{"other_landlord", domain.ErrForbidden, http.StatusForbidden},
			{"not_refundable", domain.ErrInvalidState, http.StatusConflict},
			{"gateway_refused", domain.ErrGateway, http.StatusBadGateway},
		}

		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				t.Parallel()

				_, api := humatest.New(t)
				svc := &mockBillingService{
					refundFunc: func(_ context.Context, _, _ uuid.UUID) error {
						return fmt.Errorf("Reconciler.Refund: %w", tc.err)
					},
				}
				v1.RegisterBillingRoutes(api, &mockDataStore{}, svc)

				resp := api.PostCtx(userCtx(landlordID, "landlord"), "/subscriptions/"+subID.String()+"/refund")
				assert.Equal(t, tc.code, resp.Code)
			})
		}
	})
}
