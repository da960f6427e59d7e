package v1

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"

	"github.com/rentora/rentora/internal/domain"
	"github.com/rentora/rentora/internal/server/middleware"
)

type GetSubscriptionOutput struct {
	Body *domain.Subscription
}

type RefundSubscriptionInput struct {
	ID uuid.UUID `path:"id" doc:"Subscription ID"`
}

func RegisterBillingRoutes(api huma.API, store DataStore, svc BillingService) {
	huma.Register(api, huma.Operation{
		OperationID: "get-subscription",
		Method:      http.MethodGet,
		Path:        "/subscription",
		Summary:     "Get the caller's active subscription",
		Tags:        []string{"Billing"},
	}, func(ctx context.Context, _ *struct{}) (*GetSubscriptionOutput, error) {
		userID, ok := middleware.UserIDFromContext(ctx)
		if !ok {
			return nil, huma.Error401Unauthorized("missing identity")
		}

		sub, err := store.Subscriptions().GetActiveByLandlord(ctx, userID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("no active subscription")
			}
			return nil, huma.Error500InternalServerError("failed to get subscription", err)
		}

		return &GetSubscriptionOutput{Body: sub}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "refund-subscription",
		Method:      http.MethodPost,
		Path:        "/subscriptions/{id}/refund",
		Summary:     "Refund an active subscription",
		Tags:        []string{"Billing"},
	}, func(ctx context.Context, input *RefundSubscriptionInput) (*struct{}, error) {
		userID, ok := middleware.UserIDFromContext(ctx)
		if !ok {
			return nil, huma.Error401Unauthorized("missing identity")
		}

		if err := svc.Refund(ctx, input.ID, userID); err != nil {
			switch {
			case errors.Is(err, domain.ErrNotFound):
				return nil, huma.Error404NotFound("subscription not found")
			case errors.Is(err, domain.ErrForbidden):
				return nil, huma.Error403Forbidden("subscription belongs to another landlord")
			case errors.Is(err, domain.ErrInvalidState):
				return nil, huma.Error409Conflict("subscription is not refundable")
			case errors.Is(err, domain.ErrGateway):
				return nil, huma.Error502BadGateway("payment gateway refused the refund")
			}
			return nil, huma.Error500InternalServerError("failed to refund subscription", err)
		}

		return nil, nil
	})
}
