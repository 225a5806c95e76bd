package history

import (
	"sync"

	"travel-assistant/internal/llm"
)

// Manager keeps per-session transcripts in memory. Keys are session IDs;
// the durable preference memory lives elsewhere, this only feeds the
// controller's conversational context.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string][]llm.Message
}

func NewManager() *Manager {
	return &Manager{sessions: make(map[string][]llm.Message)}
}

func (m *Manager) Reset(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, sessionID)
}

func (m *Manager) AppendUser(sessionID, content string) {
	m.Append(sessionID, llm.Message{Role: "user", Content: content})
}

func (m *Manager) AppendAssistant(sessionID, content string) {
	m.Append(sessionID, llm.Message{Role: "assistant", Content: content})
}

// Append stores any message, including assistant tool-call messages and
// role "tool" results.
func (m *Manager) Append(sessionID string, msg llm.Message) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[sessionID] = append(m.sessions[sessionID], msg)
}

func (m *Manager) Get(sessionID string) []llm.Message {
	m.mu.RLock()
	defer m.mu.RUnlock()
	es := m.sessions[sessionID]
	out := make([]llm.Message, len(es))
	copy(out, es)
	return out
}
