package store

import "time"

// SenderUser is the sender label stored for human messages. Session titles
// are derived only from messages carrying this label.
const SenderUser = "You"

// History is the chat history document: every chat session the user has
// created, in creation order.
type History struct {
	Chats []Chat `json:"chats"`
}

// Chat is one conversation thread. ID is a dense 0-based index that always
// equals the chat's position in History.Chats; deleting a chat renumbers
// everything after it.
type Chat struct {
	ID        int       `json:"id"`
	Title     string    `json:"title"`
	Timestamp string    `json:"timestamp"`
	Messages  []Message `json:"messages"`
}

// Message is a single displayed chat line. Sender is either SenderUser or
// the assistant's display name. Timestamp is informational only.
type Message struct {
	Sender    string `json:"sender"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

// NewHistory returns an empty history document.
func NewHistory() *History {
	return &History{Chats: []Chat{}}
}

// Timestamp formats t the way both documents store times.
func Timestamp(t time.Time) string {
	return t.Format(time.RFC3339)
}
