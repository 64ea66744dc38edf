// Package session implements CRUD over chat sessions.
//
// The manager exclusively owns structural mutations of the session list:
// creating, renumbering and deleting chats. Message content is appended
// through AddMessage by whichever front end is active. Session ids are dense
// 0-based positions, not stable identifiers: deleting a chat renumbers
// every chat after it.
package session

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/hoshinoki/riko/internal/riko/store"
)

// titleLimit is the number of leading characters of the first user message
// used as the session title before an ellipsis is appended.
const titleLimit = 30

// Manager manages the chat session list, delegating persistence to the
// store. It is not safe for concurrent use; the front ends drive it from a
// single loop, matching the documented last-writer-wins storage model.
type Manager struct {
	store   *store.Store
	history *store.History
	now     func() time.Time
}

// NewManager loads the current history document and returns a manager over
// it. Storage read failures surface as an empty session list.
func NewManager(s *store.Store) *Manager {
	return &Manager{
		store:   s,
		history: s.LoadHistory(),
		now:     time.Now,
	}
}

// Create appends a new session with a generated default title and the next
// dense id, persists it, and returns the id.
func (m *Manager) Create() int {
	id := len(m.history.Chats)
	m.history.Chats = append(m.history.Chats, store.Chat{
		ID:        id,
		Title:     fmt.Sprintf("Chat %d", id+1),
		Timestamp: store.Timestamp(m.now()),
		Messages:  []store.Message{},
	})
	m.store.SaveHistory(m.history)
	slog.Debug("session created", "id", id)
	return id
}

// AddMessage appends a message to the identified session and persists
// immediately. An out-of-range id, such as a front end racing a deletion,
// is a deliberate no-op and leaves storage untouched.
//
// While the session still has at most two messages, a message from the user
// retitles the session after its text, truncated to 30 characters with a
// trailing ellipsis.
func (m *Manager) AddMessage(id int, sender, text string) {
	if id < 0 || id >= len(m.history.Chats) {
		slog.Debug("session: add message to unknown id ignored", "id", id)
		return
	}

	chat := &m.history.Chats[id]
	chat.Messages = append(chat.Messages, store.Message{
		Sender:    sender,
		Message:   text,
		Timestamp: store.Timestamp(m.now()),
	})

	if sender == store.SenderUser && len(chat.Messages) <= 2 {
		chat.Title = deriveTitle(text)
	}

	m.store.SaveHistory(m.history)
}

// Get returns the identified session. The boolean reports presence; an
// out-of-range id is absent, never an error.
func (m *Manager) Get(id int) (store.Chat, bool) {
	if id < 0 || id >= len(m.history.Chats) {
		return store.Chat{}, false
	}
	return m.history.Chats[id], true
}

// Delete removes the identified session, renumbers the remaining sessions to
// their new positions and persists. It then resets the memory document's
// conversation state: deleting any single chat wipes the assistant's whole
// short-term memory, not just that chat's content. DESIGN.md records why
// that coupling is kept.
//
// An out-of-range id is a no-op. Deletion is irreversible.
func (m *Manager) Delete(id int) {
	if id < 0 || id >= len(m.history.Chats) {
		return
	}

	m.history.Chats = append(m.history.Chats[:id], m.history.Chats[id+1:]...)
	for i := range m.history.Chats {
		m.history.Chats[i].ID = i
	}
	m.store.SaveHistory(m.history)
	m.store.ResetConversation()
	slog.Debug("session deleted", "id", id, "remaining", len(m.history.Chats))
}

// List returns the sessions in creation order. Front ends reverse the slice
// themselves when they want most-recent-first display.
func (m *Manager) List() []store.Chat {
	out := make([]store.Chat, len(m.history.Chats))
	copy(out, m.history.Chats)
	return out
}

// Len returns the number of sessions.
func (m *Manager) Len() int { return len(m.history.Chats) }

// deriveTitle truncates text to the title limit, appending an ellipsis only
// when something was cut off. The limit counts characters, not bytes, so a
// Japanese or Arabic message never ends up sliced mid-rune in the JSON file.
func deriveTitle(text string) string {
	runes := []rune(text)
	if len(runes) > titleLimit {
		return string(runes[:titleLimit]) + "..."
	}
	return text
}
