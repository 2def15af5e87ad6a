package generator

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	bookforge "github.com/opd-ai/bookforge/src"
)

type GenerationState string

const (
	StateInitialized GenerationState = "initialized"
	StateGenerating  GenerationState = "generating"
	StateCompleted   GenerationState = "completed"
	StateError       GenerationState = "error"
)

// GenerationProgress tracks one book-generation session and fans progress
// out to the session's websocket and the message history.
type GenerationProgress struct {
	mu        sync.RWMutex
	SessionID string
	State     GenerationState
	Book      *bookforge.Book
	Error     error
	WSConn    *websocket.Conn
	Done      chan bool
	StartTime time.Time
	IsActive  bool
}

// WSMessage is the JSON progress frame sent to clients.
type WSMessage struct {
	Type      string    `json:"type"`
	Status    string    `json:"status"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// Close shuts the session's websocket down cleanly.
func (gp *GenerationProgress) Close() {
	gp.mu.Lock()
	defer gp.mu.Unlock()
	if gp.WSConn != nil {
		gp.WSConn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		gp.WSConn.Close()
		gp.WSConn = nil
	}
}

// SendUpdate emits a progress message to the history and, when connected,
// the websocket.
func (gp *GenerationProgress) SendUpdate(message string) {
	gp.mu.Lock()
	defer gp.mu.Unlock()

	msg := WSMessage{
		Type:      "update",
		Status:    string(gp.State),
		Message:   message,
		Timestamp: time.Now(),
	}

	// History first so a reconnecting client can replay everything.
	if messageEmitter != nil {
		if err := messageEmitter(gp.SessionID, msg); err != nil {
			log.Warn().Str("session", gp.SessionID).Err(err).Msg("failed to emit message to history")
		}
	}

	if gp.WSConn != nil {
		if err := gp.WSConn.WriteJSON(msg); err != nil {
			log.Warn().Str("session", gp.SessionID).Err(err).Msg("failed to send websocket message")
		}
	}
}

// UpdateOutput satisfies the generation code's progress interface.
func (gp *GenerationProgress) UpdateOutput(message string) {
	gp.SendUpdate(message)
}

// UpdateState transitions the session and notifies listeners.
func (gp *GenerationProgress) UpdateState(state GenerationState) {
	gp.mu.Lock()
	old := gp.State
	gp.State = state
	gp.mu.Unlock()
	log.Debug().Str("session", gp.SessionID).Msgf("state transition: %s -> %s", old, state)

	switch state {
	case StateGenerating:
		gp.SendUpdate("Generating your book...")
	case StateCompleted:
		gp.SendUpdate("Book generation completed!")
	case StateError:
		gp.SendUpdate("Error generating book")
	}
}

func (gp *GenerationProgress) GetState() GenerationState {
	gp.mu.RLock()
	defer gp.mu.RUnlock()
	return gp.State
}

// SetBook records the generated book on the session. It stores a deep
// snapshot: the generation goroutine keeps mutating its working copy, and
// request handlers must never observe those writes mid-step.
func (gp *GenerationProgress) SetBook(b *bookforge.Book) {
	snap := *b
	snap.Chapters = append([]bookforge.Chapter(nil), b.Chapters...)
	gp.mu.Lock()
	gp.Book = &snap
	gp.mu.Unlock()
}

// GetBook returns the session's book, nil until the outline step completes.
func (gp *GenerationProgress) GetBook() *bookforge.Book {
	gp.mu.RLock()
	defer gp.mu.RUnlock()
	return gp.Book
}

func (gp *GenerationProgress) SetActive(active bool) {
	gp.mu.Lock()
	gp.IsActive = active
	gp.mu.Unlock()
}

func (gp *GenerationProgress) IsStillActive() bool {
	gp.mu.RLock()
	defer gp.mu.RUnlock()
	return gp.IsActive
}

// AttachConn runs replay against conn and attaches it for live updates in
// one critical section. SendUpdate holds the same lock across its history
// emit and conn write, so every message lands in exactly one of the two:
// the replay snapshot or the live stream.
func (gp *GenerationProgress) AttachConn(conn *websocket.Conn, replay func(*websocket.Conn) error) error {
	gp.mu.Lock()
	defer gp.mu.Unlock()
	if replay != nil {
		if err := replay(conn); err != nil {
			return err
		}
	}
	gp.WSConn = conn
	return nil
}

// DetachConn clears the session websocket, but only if conn is still the
// attached one. A stale reader goroutine must not clobber a newer client.
func (gp *GenerationProgress) DetachConn(conn *websocket.Conn) {
	gp.mu.Lock()
	if gp.WSConn == conn {
		gp.WSConn = nil
	}
	gp.mu.Unlock()
}

var messageEmitter func(sessionID string, msg WSMessage) error

// SetMessageEmitter installs the history sink progress messages flow into.
func SetMessageEmitter(emitter func(sessionID string, msg WSMessage) error) {
	messageEmitter = emitter
}
