package ws

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/rentora/rentora/internal/chat"
	"github.com/rentora/rentora/internal/hub"
	"github.com/rentora/rentora/internal/server/middleware"
)

// Client actions accepted on the socket.
const (
	actionJoinChat           = "joinChat"
	actionJoinSupportChat    = "joinSupportChat"
	actionSendMessage        = "sendMessage"
	actionSendSupportMessage = "sendSupportMessage"
)

// clientFrame is one inbound message from a connected client.
type clientFrame struct {
	Action   string    `json:"action"`
	ThreadID uuid.UUID `json:"thread_id"`
	Text     string    `json:"text"`
}

// Handler upgrades authenticated requests and bridges them to the hub. The
// identity comes from auth middleware; a connection is registered before the
// first frame is read, so unread notifications replay immediately.
type Handler struct {
	hub  *hub.Hub
	chat *chat.Service
}

func NewHandler(h *hub.Hub, chatSvc *chat.Service) *Handler {
	return &Handler{hub: h, chat: chatSvc}
}

func (h *Handler) Serve(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "missing identity", http.StatusUnauthorized)
		return
	}

	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("websocket accept")
		return
	}
	defer conn.CloseNow()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	sess := newSession(conn)
	if err := h.hub.Register(ctx, sess, userID); err != nil {
		log.Error().Err(err).Str("user_id", userID.String()).Msg("websocket register")
		_ = conn.Close(websocket.StatusInternalError, "register failed")
		return
	}
	defer h.hub.Deregister(sess)

	go func() {
		sess.writeLoop(ctx)
		cancel()
	}()

	h.readLoop(ctx, conn, sess, userID)
	_ = conn.Close(websocket.StatusNormalClosure, "connection closed")
}

func (h *Handler) readLoop(ctx context.Context, conn *websocket.Conn, sess *session, userID uuid.UUID) {
	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			return
		}

		var frame clientFrame
		if err := json.Unmarshal(data, &frame); err != nil {
			sess.Send(hub.Event{Type: "error", Payload: "malformed frame"})
			continue
		}

		switch frame.Action {
		case actionJoinChat:
			h.hub.Join(sess, hub.ChatTopic(frame.ThreadID))
		case actionJoinSupportChat:
			h.hub.Join(sess, hub.SupportTopic(frame.ThreadID))
		case actionSendMessage:
			if _, err := h.chat.SendMessage(ctx, frame.ThreadID, userID, frame.Text); err != nil {
				log.Debug().Err(err).Str("thread_id", frame.ThreadID.String()).Msg("websocket send message")
				sess.Send(hub.Event{Type: "error", Payload: "message not delivered"})
			}
		case actionSendSupportMessage:
			if _, err := h.chat.SendSupportMessage(ctx, frame.ThreadID, userID, frame.Text); err != nil {
				log.Debug().Err(err).Str("thread_id", frame.ThreadID.String()).Msg("websocket send support message")
				sess.Send(hub.Event{Type: "error", Payload: "message not delivered"})
			}
		default:
			sess.Send(hub.Event{Type: "error", Payload: "unknown action"})
		}
	}
}
