// README: One live connection; read pump feeding the dispatch engine.
package ws

import (
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/gorilla/websocket"

	"lifeline/internal/modules/dispatch"
	"lifeline/internal/types"
)

// Session wraps one WebSocket connection. Writes are serialized by writeMu
// because the hub may address a session from any handler goroutine.
type Session struct {
	id      types.ID
	conn    *websocket.Conn
	logger  *slog.Logger
	writeMu sync.Mutex
}

func newSession(id types.ID, conn *websocket.Conn, logger *slog.Logger) *Session {
	return &Session{id: id, conn: conn, logger: logger}
}

func (s *Session) write(env envelope) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	return s.conn.WriteJSON(env)
}

// readLoop consumes frames until the connection dies, then synthesizes the
// disconnect event so the engine reconciles any state the session owned.
func (s *Session) readLoop(hub *Hub, engine *dispatch.Engine) {
	defer func() {
		hub.remove(s.id)
		engine.Handle(s.id, dispatch.Disconnect{})
		_ = s.conn.Close()
		s.logger.Info("session closed")
	}()

	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.logger.Debug("read failed", "error", err)
			}
			return
		}

		var env envelope
		if err := json.Unmarshal(data, &env); err != nil {
			s.logger.Debug("malformed frame dropped", "error", err)
			continue
		}
		ev, err := decodeEvent(env)
		if err != nil {
			s.logger.Debug("frame dropped", "event", env.Event, "error", err)
			continue
		}
		engine.Handle(s.id, ev)
	}
}
