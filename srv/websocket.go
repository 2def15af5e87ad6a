package srv

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// The UI and API are same-origin in deployment; dev runs loose.
		return true
	},
}

// handleWebSocket attaches a client to a generation session, replaying the
// buffered message history before live updates.
func (ui *BookUI) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	progress, ok := ui.session(sessionID)
	if !ok {
		http.Error(w, "unknown session", http.StatusNotFound)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Str("session", sessionID).Err(err).Msg("websocket upgrade failed")
		return
	}

	ui.sessionsM.RLock()
	history := ui.msgHistory[sessionID]
	ui.sessionsM.RUnlock()

	// Replay and attach happen atomically so no update falls between the
	// history snapshot and the live stream.
	err = progress.AttachConn(conn, func(c *websocket.Conn) error {
		if history == nil {
			return nil
		}
		for _, msg := range history.GetMessages() {
			if err := c.WriteJSON(msg); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		log.Warn().Str("session", sessionID).Err(err).Msg("history replay failed")
		conn.Close()
		return
	}

	// Reader loop exists only to notice the client going away.
	go func() {
		defer func() {
			progress.DetachConn(conn)
			conn.Close()
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}
