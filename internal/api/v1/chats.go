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

type StartPeerThreadInput struct {
	Body struct {
		PeerID uuid.UUID `json:"peer_id" doc:"The other participant"`
	}
}

type StartThreadOutput struct {
	Body *domain.ChatThread
}

type ListChatMessagesInput struct {
	ID     uuid.UUID `path:"id" doc:"Thread ID"`
	Limit  int       `query:"limit" minimum:"0" maximum:"500" doc:"Page size"`
	Offset int       `query:"offset" minimum:"0" doc:"Page offset"`
}

type ListChatMessagesOutput struct {
	Body []*domain.ChatMessage
}

type SendChatMessageInput struct {
	ID   uuid.UUID `path:"id" doc:"Thread ID"`
	Body struct {
		Text string `json:"text" minLength:"1" maxLength:"4000" doc:"Message text"`
	}
}

type SendChatMessageOutput struct {
	Body *domain.ChatMessage
}

func RegisterChatRoutes(api huma.API, svc ChatService) {
	huma.Register(api, huma.Operation{
		OperationID: "start-chat",
		Method:      http.MethodPost,
		Path:        "/chats",
		Summary:     "Start a conversation with another user",
		Tags:        []string{"Chat"},
	}, func(ctx context.Context, input *StartPeerThreadInput) (*StartThreadOutput, error) {
		userID, ok := middleware.UserIDFromContext(ctx)
		if !ok {
			return nil, huma.Error401Unauthorized("missing identity")
		}

		t, err := svc.StartPeerThread(ctx, userID, input.Body.PeerID)
		if err != nil {
			if errors.Is(err, domain.ErrValidation) {
				return nil, huma.Error400BadRequest(err.Error())
			}
			return nil, huma.Error500InternalServerError("failed to start chat", err)
		}

		return &StartThreadOutput{Body: t}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "start-support-chat",
		Method:      http.MethodPost,
		Path:        "/support-chats",
		Summary:     "Start a conversation with the support team",
		Tags:        []string{"Chat"},
	}, func(ctx context.Context, _ *struct{}) (*StartThreadOutput, error) {
		userID, ok := middleware.UserIDFromContext(ctx)
		if !ok {
			return nil, huma.Error401Unauthorized("missing identity")
		}

		t, err := svc.StartSupportThread(ctx, userID)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to start support chat", err)
		}

		return &StartThreadOutput{Body: t}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-chat-messages",
		Method:      http.MethodGet,
		Path:        "/chats/{id}/messages",
		Summary:     "List a thread's message history",
		Tags:        []string{"Chat"},
	}, func(ctx context.Context, input *ListChatMessagesInput) (*ListChatMessagesOutput, error) {
		userID, ok := middleware.UserIDFromContext(ctx)
		if !ok {
			return nil, huma.Error401Unauthorized("missing identity")
		}

		messages, err := svc.ListMessages(ctx, input.ID, userID, input.Limit, input.Offset)
		if err != nil {
			switch {
			case errors.Is(err, domain.ErrNotFound):
				return nil, huma.Error404NotFound("thread not found")
			case errors.Is(err, domain.ErrForbidden):
				return nil, huma.Error403Forbidden("not a participant")
			}
			return nil, huma.Error500InternalServerError("failed to list messages", err)
		}

		return &ListChatMessagesOutput{Body: messages}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "send-chat-message",
		Method:      http.MethodPost,
		Path:        "/chats/{id}/messages",
		Summary:     "Send a message on a peer thread",
		Tags:        []string{"Chat"},
	}, func(ctx context.Context, input *SendChatMessageInput) (*SendChatMessageOutput, error) {
		userID, ok := middleware.UserIDFromContext(ctx)
		if !ok {
			return nil, huma.Error401Unauthorized("missing identity")
		}

		m, err := svc.SendMessage(ctx, input.ID, userID, input.Body.Text)
		if err != nil {
			return nil, mapChatError(err)
		}

		return &SendChatMessageOutput{Body: m}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "send-support-message",
		Method:      http.MethodPost,
		Path:        "/support-chats/{id}/messages",
		Summary:     "Send a message on a support thread",
		Tags:        []string{"Chat"},
	}, func(ctx context.Context, input *SendChatMessageInput) (*SendChatMessageOutput, error) {
		userID, ok := middleware.UserIDFromContext(ctx)
		if !ok {
			return nil, huma.Error401Unauthorized("missing identity")
		}

		m, err := svc.SendSupportMessage(ctx, input.ID, userID, input.Body.Text)
		if err != nil {
			return nil, mapChatError(err)
		}

		return &SendChatMessageOutput{Body: m}, nil
	})
}

func mapChatError(err error) error {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return huma.Error404NotFound("thread not found")
	case errors.Is(err, domain.ErrForbidden):
		return huma.Error403Forbidden("not a participant")
	case errors.Is(err, domain.ErrValidation):
		return huma.Error400BadRequest(err.Error())
	case errors.Is(err, domain.ErrInvalidState):
		return huma.Error409Conflict("wrong thread kind for this endpoint")
	}
	return huma.Error500InternalServerError("failed to send message", err)
}
