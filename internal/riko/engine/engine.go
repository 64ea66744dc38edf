// Package engine implements the conversation engine: the growing turn list
// behind every front end, the personality prompt, best-effort user-name
// capture and the exchange with the completion provider.
package engine

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hoshinoki/riko/common/redact"
	"github.com/hoshinoki/riko/internal/riko/llm"
	"github.com/hoshinoki/riko/internal/riko/persona"
	"github.com/hoshinoki/riko/internal/riko/store"
)

// contextWindow is the number of persisted turns re-entered into the active
// context at startup. Older turns stay in the session log but drop out of
// the prompt.
const contextWindow = 6

// Engine owns the in-memory turn list. The list is a cache over the memory
// document: seeded from it at construction, overwritten back after every
// completed exchange. One front end drives the engine at a time; concurrent
// replies race on the memory document with last-writer-wins semantics, the
// same policy the store documents.
type Engine struct {
	store    *store.Store
	persona  *persona.Persona
	provider llm.Provider
	memory   *store.Memory
	turns    []llm.Message // turns[0] is always the system turn
}

// New loads the memory document and seeds the turn list: the persona's
// system prompt first, then the trailing window of the persisted
// conversation.
func New(s *store.Store, p *persona.Persona, provider llm.Provider) *Engine {
	e := &Engine{
		store:    s,
		persona:  p,
		provider: provider,
		memory:   s.LoadMemory(),
	}

	e.turns = []llm.Message{{
		Role:    llm.RoleSystem,
		Content: p.Prompt(e.memory.UserName),
	}}

	saved := e.memory.LastConversation
	if len(saved) > contextWindow {
		saved = saved[len(saved)-contextWindow:]
	}
	for _, t := range saved {
		e.turns = append(e.turns, llm.Message{Role: llm.Role(t.Role), Content: t.Content})
	}

	return e
}

// Persona returns the active persona.
func (e *Engine) Persona() *persona.Persona { return e.persona }

// UserName returns the remembered user name, empty when unknown.
func (e *Engine) UserName() string { return e.memory.UserName }

// Stats returns the usage counters from the memory document.
func (e *Engine) Stats() store.Stats { return e.memory.Stats }

// Reply runs one full exchange: capture a name if the input volunteers one,
// send the turn list to the completion provider, record both turns and
// persist memory.
//
// Provider failures never escape as errors: the failure is rendered as the
// reply text itself, which front ends display and log like any other
// assistant message. Nothing is persisted for the failed exchange, but the
// unanswered user turn stays in the in-memory turn list, so the next attempt
// resends it along with the new input.
func (e *Engine) Reply(ctx context.Context, userInput string) string {
	if name, ok := extractName(userInput); ok {
		e.memory.UserName = name
		e.store.SaveMemory(e.memory)
		slog.Debug("engine: remembered user name", "name", name)
	}

	e.turns = append(e.turns, llm.Message{Role: llm.RoleUser, Content: userInput})

	resp, err := e.provider.Complete(ctx, llm.CompletionRequest{
		Messages:    e.turns,
		Temperature: e.persona.Temperature,
		MaxTokens:   e.persona.MaxTokens,
	})
	if err != nil {
		slog.Error("engine: completion failed", "err", err)
		return fmt.Sprintf("❌ Error: %s\n\nMake sure you have GROQ_API_KEY set in your environment!",
			redact.Error(err))
	}

	reply := resp.Content
	e.turns = append(e.turns, llm.Message{Role: llm.RoleAssistant, Content: reply})

	e.memory.Stats.TotalMessages++
	e.memory.LastConversation = e.persistableTurns()
	e.store.SaveMemory(e.memory)

	return reply
}

// ClearMemory resets the memory document to its defaults, keeping the
// user's name, and shrinks the turn list back to a freshly rendered system
// turn. This wipes the assistant's context, not the session logs; those
// belong to the session manager.
func (e *Engine) ClearMemory() {
	e.memory.Reset()
	e.store.SaveMemory(e.memory)

	e.turns = []llm.Message{{
		Role:    llm.RoleSystem,
		Content: e.persona.Prompt(e.memory.UserName),
	}}
}

// persistableTurns converts the turn list, minus the leading system turn,
// into the memory document's representation.
func (e *Engine) persistableTurns() []store.Turn {
	out := make([]store.Turn, 0, len(e.turns)-1)
	for _, t := range e.turns[1:] {
		out = append(out, store.Turn{Role: string(t.Role), Content: t.Content})
	}
	return out
}
