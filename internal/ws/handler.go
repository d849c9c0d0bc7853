// README: WebSocket upgrade endpoint binding new sessions to the engine.
package ws

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"lifeline/internal/modules/dispatch"
	"lifeline/internal/types"
)

type Handler struct {
	hub      *Hub
	engine   *dispatch.Engine
	logger   *slog.Logger
	upgrader websocket.Upgrader
}

func NewHandler(hub *Hub, engine *dispatch.Engine, logger *slog.Logger) *Handler {
	return &Handler{
		hub:    hub,
		engine: engine,
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Clients are mobile apps and field tablets, not browsers on a
			// fixed origin.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// ServeHTTP upgrades the request, registers the session under a fresh id and
// starts its read pump. The id is opaque to clients and valid exactly for
// the connection's lifetime.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("websocket upgrade failed", "error", err)
		return
	}

	id := types.ID(uuid.NewString())
	s := newSession(id, conn, h.logger.With("session", id))
	h.hub.add(s)
	s.logger.Info("session connected", "remote", r.RemoteAddr)

	go s.readLoop(h.hub, h.engine)
}
