package srv

import (
	"sync"

	"github.com/opd-ai/bookforge/srv/generator"
)

// MessageHistory buffers progress messages per session so a client that
// reconnects mid-generation can replay what it missed.
type MessageHistory struct {
	mu       sync.RWMutex
	Messages []generator.WSMessage
}

func (h *MessageHistory) AddMessage(msg generator.WSMessage) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.Messages = append(h.Messages, msg)
}

func (h *MessageHistory) GetMessages() []generator.WSMessage {
	h.mu.RLock()
	defer h.mu.RUnlock()
	messages := make([]generator.WSMessage, len(h.Messages))
	copy(messages, h.Messages)
	return messages
}

// Last returns the most recent message, if any.
func (h *MessageHistory) Last() (generator.WSMessage, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if len(h.Messages) == 0 {
		return generator.WSMessage{}, false
	}
	return h.Messages[len(h.Messages)-1], true
}
