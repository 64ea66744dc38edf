// Package store persists Riko's two durable JSON documents: the chat history
// (chat_history.json) and the assistant memory (riko_memory.json).
//
// Both documents are flat, human-editable JSON written with two-space
// indentation. Every load degrades to a well-defined default when the file is
// missing or malformed, and every save overwrites the whole document in place.
// There is no locking: concurrent writers race and the last writer wins.
// Write failures are logged and swallowed so callers can proceed as if the
// save succeeded; losing a save beats losing the conversation.
package store

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
)

const (
	historyFile = "chat_history.json"
	memoryFile  = "riko_memory.json"
)

// Store reads and writes the history and memory documents in a single
// directory. The two documents have independent load/save cycles; there is
// no cross-document transaction.
type Store struct {
	historyPath string
	memoryPath  string
}

// New returns a Store rooted at dir. The directory is created if missing so
// the first save does not fail on a fresh install.
func New(dir string) *Store {
	if dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			slog.Warn("store: create data dir", "dir", dir, "err", err)
		}
	}
	return &Store{
		historyPath: filepath.Join(dir, historyFile),
		memoryPath:  filepath.Join(dir, memoryFile),
	}
}

// HistoryPath returns the absolute-or-relative path of the history document.
func (s *Store) HistoryPath() string { return s.historyPath }

// MemoryPath returns the path of the memory document.
func (s *Store) MemoryPath() string { return s.memoryPath }

// LoadHistory reads the chat history document. A missing or unreadable file
// yields an empty history rather than an error.
func (s *Store) LoadHistory() *History {
	var h History
	if !s.load(s.historyPath, &h) {
		return NewHistory()
	}
	if h.Chats == nil {
		h.Chats = []Chat{}
	}
	return &h
}

// SaveHistory overwrites the chat history document. Failures are logged,
// never returned.
func (s *Store) SaveHistory(h *History) {
	s.save(s.historyPath, h)
}

// LoadMemory reads the memory document, creating the default structure (with
// first_interaction stamped now) when the file is missing or malformed.
func (s *Store) LoadMemory() *Memory {
	var m Memory
	if !s.load(s.memoryPath, &m) {
		return NewMemory()
	}
	if m.Facts == nil {
		m.Facts = []string{}
	}
	if m.LastConversation == nil {
		m.LastConversation = []Turn{}
	}
	return &m
}

// SaveMemory overwrites the memory document. Failures are logged, never
// returned.
func (s *Store) SaveMemory(m *Memory) {
	s.save(s.memoryPath, m)
}

// ResetConversation clears the memory document's conversation state on disk:
// last_conversation becomes empty and stats.total_messages returns to zero,
// while user_name and first_interaction survive. Called by the session
// manager when a chat is deleted.
func (s *Store) ResetConversation() {
	m := s.LoadMemory()
	m.LastConversation = []Turn{}
	m.Stats.TotalMessages = 0
	s.SaveMemory(m)
}

// load reads path into v, reporting false when the caller should fall back
// to the document default.
func (s *Store) load(path string, v any) bool {
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			slog.Warn("store: read document", "path", path, "err", err)
		}
		return false
	}
	if err := json.Unmarshal(data, v); err != nil {
		slog.Warn("store: malformed document, using defaults", "path", path, "err", err)
		return false
	}
	return true
}

// save marshals v with two-space indentation and overwrites path.
func (s *Store) save(path string, v any) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		slog.Error("store: marshal document", "path", path, "err", err)
		return
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		slog.Error("store: write document", "path", path, "err", err)
	}
}
