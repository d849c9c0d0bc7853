// README: Session registry; addresses outbound events to live connections by id.
package ws

import (
	"log/slog"
	"sync"

	"lifeline/internal/types"
)

// Hub stores all active sessions keyed by connection id. It implements the
// engine's Notifier: sends are fire-and-forget, and a send to a session that
// has already vanished is only logged.
type Hub struct {
	mu       sync.RWMutex
	sessions map[types.ID]*Session
	logger   *slog.Logger
}

func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		sessions: make(map[types.ID]*Session),
		logger:   logger,
	}
}

func (h *Hub) add(s *Session) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.sessions[s.id] = s
}

func (h *Hub) remove(id types.ID) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.sessions, id)
}

// Send delivers one event to the addressed session. Never blocks the caller
// on delivery outcome.
func (h *Hub) Send(id types.ID, event string, payload any) {
	h.mu.RLock()
	s, ok := h.sessions[id]
	h.mu.RUnlock()
	if !ok {
		h.logger.Debug("send to unknown session dropped", "session", id, "event", event)
		return
	}
	if err := s.write(envelope{Event: event, Data: marshalData(h.logger, payload)}); err != nil {
		h.logger.Debug("send failed", "session", id, "event", event, "error", err)
	}
}

// Count reports the number of live sessions.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions)
}

// CloseAll closes every live connection; their read loops then unwind and
// deregister through the usual disconnect path.
func (h *Hub) CloseAll() {
	h.mu.RLock()
	sessions := make([]*Session, 0, len(h.sessions))
	for _, s := range h.sessions {
		sessions = append(sessions, s)
	}
	h.mu.RUnlock()
	for _, s := range sessions {
		_ = s.conn.Close()
	}
}
