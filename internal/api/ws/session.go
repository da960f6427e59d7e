package ws

import (
	"context"
	"encoding/json"

	"github.com/coder/websocket"
	"github.com/rs/zerolog/log"

	"github.com/rentora/rentora/internal/hub"
)

// outboundBuffer bounds how many undelivered events a slow client may queue
// before further events are dropped for that connection.
const outboundBuffer = 64

// session adapts one WebSocket connection to the hub's Conn contract. A
// dedicated writer goroutine owns all writes; Send only enqueues.
type session struct {
	conn *websocket.Conn
	out  chan hub.Event
}

func newSession(conn *websocket.Conn) *session {
	return &session{
		conn: conn,
		out:  make(chan hub.Event, outboundBuffer),
	}
}

// Send enqueues an event without blocking. A full buffer drops the event;
// the client catches up from durable state on its next connect.
func (s *session) Send(ev hub.Event) bool {
	select {
	case s.out <- ev:
		return true
	default:
		return false
	}
}

// writeLoop drains the outbound queue onto the wire. Returns when the
// context ends or a write fails.
func (s *session) writeLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-s.out:
			payload, err := json.Marshal(ev)
			if err != nil {
				log.Error().Err(err).Str("event_type", ev.Type).Msg("websocket marshal event")
				continue
			}
			if err := s.conn.Write(ctx, websocket.MessageText, payload); err != nil {
				log.Debug().Err(err).Msg("websocket write")
				return
			}
		}
	}
}
