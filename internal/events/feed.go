package events

import (
	"net/http"

	"github.com/rs/zerolog"

	"github.com/gokatarajesh/trivia-api/internal/server"
	ws "github.com/gokatarajesh/trivia-api/pkg/http/ws"
)

// FeedHandler serves GET /ws/questions, the live feed of question events.
type FeedHandler struct {
	hub    *ws.Hub
	logger zerolog.Logger
}

func NewFeedHandler(hub *ws.Hub, logger zerolog.Logger) *FeedHandler {
	return &FeedHandler{
		hub:    hub,
		logger: logger.With().Str("component", "question_feed").Logger(),
	}
}

// HandleWebSocket upgrades the request and keeps the connection registered
// with the hub until the client goes away.
func (h *FeedHandler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	raw, err := server.WSUpgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn().Err(err).Msg("WebSocket upgrade failed")
		return
	}

	conn := ws.NewConnection(raw, h.logger)
	id := h.hub.Register(conn)
	defer h.hub.Unregister(id)
	h.logger.Debug().Int("connections", h.hub.Count()).Msg("feed client connected")

	go conn.WritePump()
	conn.ReadPump(func(msg ws.Message) error {
		switch msg.Type {
		case ws.TypePing:
			return conn.Send(ws.Message{Type: ws.TypePong, RequestID: msg.RequestID})
		default:
			reply, err := ws.NewMessage(ws.TypeError, ws.ErrorPayload{
				Code:    "unsupported_message",
				Message: "Only ping is accepted on this feed",
			})
			if err != nil {
				return err
			}
			reply.RequestID = msg.RequestID
			return conn.Send(reply)
		}
	})
}
