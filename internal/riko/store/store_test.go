package store

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadHistoryMissingFile(t *testing.T) {
	s := New(t.TempDir())

	h := s.LoadHistory()
	if h == nil {
		t.Fatal("LoadHistory returned nil")
	}
	if len(h.Chats) != 0 {
		t.Errorf("expected empty history, got %d chats", len(h.Chats))
	}
}

func TestHistoryRoundTrip(t *testing.T) {
	s := New(t.TempDir())

	h := NewHistory()
	h.Chats = append(h.Chats, Chat{
		ID:        0,
		Title:     "Chat 1",
		Timestamp: "2026-01-02T15:04:05Z",
		Messages: []Message{
			{Sender: SenderUser, Message: "hello", Timestamp: "2026-01-02T15:04:06Z"},
			{Sender: "Riko", Message: "hi!", Timestamp: "2026-01-02T15:04:07Z"},
		},
	})
	s.SaveHistory(h)

	got := s.LoadHistory()
	if len(got.Chats) != 1 {
		t.Fatalf("expected 1 chat, got %d", len(got.Chats))
	}
	chat := got.Chats[0]
	if chat.Title != "Chat 1" {
		t.Errorf("title = %q, want %q", chat.Title, "Chat 1")
	}
	if len(chat.Messages) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(chat.Messages))
	}
	if chat.Messages[0].Sender != SenderUser {
		t.Errorf("sender = %q, want %q", chat.Messages[0].Sender, SenderUser)
	}
}

func TestHistoryFileShape(t *testing.T) {
	dir := t.TempDir()
	s := New(dir)
	s.SaveHistory(NewHistory())

	data, err := os.ReadFile(filepath.Join(dir, "chat_history.json"))
	if err != nil {
		t.Fatalf("read history file: %v", err)
	}
	if !strings.Contains(string(data), `"chats"`) {
		t.Errorf("history document missing chats key: %s", data)
	}
}

func TestLoadHistoryMalformed(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "chat_history.json"), []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	h := New(dir).LoadHistory()
	if len(h.Chats) != 0 {
		t.Errorf("malformed history should yield empty default, got %d chats", len(h.Chats))
	}
}

func TestLoadMemoryMissingFile(t *testing.T) {
	s := New(t.TempDir())

	m := s.LoadMemory()
	if m.UserName != "" {
		t.Errorf("fresh memory has user name %q", m.UserName)
	}
	if m.Stats.FirstInteraction == "" {
		t.Error("fresh memory should stamp first_interaction")
	}
	if m.Facts == nil || m.LastConversation == nil {
		t.Error("fresh memory should have non-nil slices")
	}
}

func TestMemoryRoundTrip(t *testing.T) {
	s := New(t.TempDir())

	m := NewMemory()
	m.UserName = "Alice"
	m.LastConversation = []Turn{
		{Role: "user", Content: "hi"},
		{Role: "assistant", Content: "hello!"},
	}
	m.Stats.TotalMessages = 7
	s.SaveMemory(m)

	got := s.LoadMemory()
	if got.UserName != "Alice" {
		t.Errorf("user name = %q, want Alice", got.UserName)
	}
	if len(got.LastConversation) != 2 {
		t.Fatalf("expected 2 turns, got %d", len(got.LastConversation))
	}
	if got.LastConversation[1].Role != "assistant" {
		t.Errorf("turn role = %q, want assistant", got.LastConversation[1].Role)
	}
	if got.Stats.TotalMessages != 7 {
		t.Errorf("total messages = %d, want 7", got.Stats.TotalMessages)
	}
}

func TestLoadMemoryMalformed(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "riko_memory.json"), []byte("???"), 0o644); err != nil {
		t.Fatal(err)
	}

	m := New(dir).LoadMemory()
	if m.UserName != "" || m.Stats.TotalMessages != 0 {
		t.Error("malformed memory should yield defaults")
	}
	if m.Stats.FirstInteraction == "" {
		t.Error("defaulted memory should stamp first_interaction")
	}
}

func TestResetConversation(t *testing.T) {
	s := New(t.TempDir())

	m := NewMemory()
	m.UserName = "Bob"
	m.LastConversation = []Turn{{Role: "user", Content: "hi"}}
	m.Stats.TotalMessages = 3
	first := m.Stats.FirstInteraction
	s.SaveMemory(m)

	s.ResetConversation()

	got := s.LoadMemory()
	if len(got.LastConversation) != 0 {
		t.Errorf("last_conversation not cleared: %v", got.LastConversation)
	}
	if got.Stats.TotalMessages != 0 {
		t.Errorf("total_messages = %d, want 0", got.Stats.TotalMessages)
	}
	if got.UserName != "Bob" {
		t.Errorf("user name should survive reset, got %q", got.UserName)
	}
	if got.Stats.FirstInteraction != first {
		t.Errorf("first_interaction changed: %q -> %q", first, got.Stats.FirstInteraction)
	}
}

func TestMemoryReset(t *testing.T) {
	m := NewMemory()
	m.UserName = "Carol"
	m.LastConversation = []Turn{{Role: "user", Content: "x"}}
	m.Stats.TotalMessages = 9
	first := m.Stats.FirstInteraction

	m.Reset()

	if m.UserName != "Carol" {
		t.Errorf("user name = %q, want Carol", m.UserName)
	}
	if m.Stats.FirstInteraction != first {
		t.Error("first_interaction should survive Reset")
	}
	if len(m.LastConversation) != 0 || m.Stats.TotalMessages != 0 {
		t.Error("conversation state should be cleared")
	}
}

func TestNullUserName(t *testing.T) {
	dir := t.TempDir()
	doc := `{"user_name": null, "facts": [], "last_conversation": [], "stats": {"total_messages": 1, "first_interaction": "2026-01-01T00:00:00Z"}}`
	if err := os.WriteFile(filepath.Join(dir, "riko_memory.json"), []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	m := New(dir).LoadMemory()
	if m.UserName != "" {
		t.Errorf("null user_name should load as empty, got %q", m.UserName)
	}
	if m.Stats.TotalMessages != 1 {
		t.Errorf("total_messages = %d, want 1", m.Stats.TotalMessages)
	}
}

func TestSaveFailureDoesNotPanic(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "missing", "deeper"))
	// Remove the auto-created directory tree so the write fails.
	os.RemoveAll(filepath.Dir(s.HistoryPath()))

	s.SaveHistory(NewHistory())
	s.SaveMemory(NewMemory())
}
