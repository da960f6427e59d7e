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

type ListNotificationsInput struct {
	Limit  int `query:"limit" minimum:"0" maximum:"200" doc:"Page size"`
	Offset int `query:"offset" minimum:"0" doc:"Page offset"`
}

type ListNotificationsOutput struct {
	Body []*domain.Notification
}

type UnreadCountOutput struct {
	Body struct {
		Count int64 `json:"count"`
	}
}

type MarkNotificationReadInput struct {
	ID uuid.UUID `path:"id" doc:"Notification ID"`
}

type MarkAllReadOutput struct {
	Body struct {
		Updated int64 `json:"updated"`
	}
}

func RegisterNotificationRoutes(api huma.API, store DataStore) {
	huma.Register(api, huma.Operation{
		OperationID: "list-notifications",
		Method:      http.MethodGet,
		Path:        "/notifications",
		Summary:     "List the caller's notifications",
		Tags:        []string{"Notifications"},
	}, func(ctx context.Context, input *ListNotificationsInput) (*ListNotificationsOutput, error) {
		userID, ok := middleware.UserIDFromContext(ctx)
		if !ok {
			return nil, huma.Error401Unauthorized("missing identity")
		}

		notifications, err := store.Notifications().ListByUser(ctx, userID, input.Limit, input.Offset)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to list notifications", err)
		}

		return &ListNotificationsOutput{Body: notifications}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "count-unread-notifications",
		Method:      http.MethodGet,
		Path:        "/notifications/unread-count",
		Summary:     "Count the caller's unread notifications",
		Tags:        []string{"Notifications"},
	}, func(ctx context.Context, _ *struct{}) (*UnreadCountOutput, error) {
		userID, ok := middleware.UserIDFromContext(ctx)
		if !ok {
			return nil, huma.Error401Unauthorized("missing identity")
		}

		count, err := store.Notifications().CountUnread(ctx, userID)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to count notifications", err)
		}

		out := &UnreadCountOutput{}
		out.Body.Count = count
		return out, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "mark-notification-read",
		Method:      http.MethodPost,
		Path:        "/notifications/{id}/read",
		Summary:     "Mark one notification read",
		Tags:        []string{"Notifications"},
	}, func(ctx context.Context, input *MarkNotificationReadInput) (*struct{}, error) {
		userID, ok := middleware.UserIDFromContext(ctx)
		if !ok {
			return nil, huma.Error401Unauthorized("missing identity")
		}

		if err := store.Notifications().MarkRead(ctx, userID, input.ID); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("notification not found")
			}
			return nil, huma.Error500InternalServerError("failed to mark notification read", err)
		}

		return nil, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "mark-all-notifications-read",
		Method:      http.MethodPost,
		Path:        "/notifications/read-all",
		Summary:     "Mark every notification read",
		Tags:        []string{"Notifications"},
	}, func(ctx context.Context, _ *struct{}) (*MarkAllReadOutput, error) {
		userID, ok := middleware.UserIDFromContext(ctx)
		if !ok {
			return nil, huma.Error401Unauthorized("missing identity")
		}

		updated, err := store.Notifications().MarkAllRead(ctx, userID)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to mark notifications read", err)
		}

		out := &MarkAllReadOutput{}
		out.Body.Updated = updated
		return out, nil
	})
}
