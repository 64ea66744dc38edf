package store

import "time"

// Turn is one role-tagged exchange with the completion service, the durable
// counterpart of the conversation engine's in-memory turn list.
type Turn struct {
	Role    string `json:"role"` // "user" or "assistant"
	Content string `json:"content"`
}

// Memory is the assistant's cross-session state document.
type Memory struct {
	// UserName is filled by best-effort extraction from user utterances
	// ("my name is X", "I'm X"). Empty when unknown.
	UserName string `json:"user_name"`

	// Facts is reserved for future extension; current logic never writes it.
	Facts []string `json:"facts"`

	// LastConversation is the trailing conversation window, minus the
	// system turn. Truncated at load time by the engine, not here.
	LastConversation []Turn `json:"last_conversation"`

	Stats Stats `json:"stats"`
}

// Stats tracks usage counters.
type Stats struct {
	// TotalMessages counts completed assistant replies.
	TotalMessages int `json:"total_messages"`

	// FirstInteraction is set once when the memory document is first
	// created and never mutated afterwards.
	FirstInteraction string `json:"first_interaction"`
}

// NewMemory returns the default memory structure with first_interaction
// stamped at the current time.
func NewMemory() *Memory {
	return &Memory{
		Facts:            []string{},
		LastConversation: []Turn{},
		Stats: Stats{
			FirstInteraction: Timestamp(time.Now()),
		},
	}
}

// Reset returns m to its default shape while preserving the user's name and
// the original first_interaction stamp.
func (m *Memory) Reset() {
	name := m.UserName
	first := m.Stats.FirstInteraction
	*m = *NewMemory()
	m.UserName = name
	if first != "" {
		m.Stats.FirstInteraction = first
	}
}
