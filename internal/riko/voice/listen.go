// Package voice adapts speech services to the chat loop: speech-to-text
// capture behind a one-shot result channel, and text-to-speech playback via
// the VOICEVOX engine. Both capabilities are best-effort; a missing engine
// disables the feature instead of failing the application.
package voice

import (
	"context"
	"errors"
	"fmt"
)

// ErrKind classifies speech-to-text failures so front ends can phrase the
// transient status line appropriately.
type ErrKind int

const (
	// KindOther covers failures outside the named categories.
	KindOther ErrKind = iota
	// KindUnavailable means no recognizer or capture device is present.
	KindUnavailable
	// KindNoSpeech means the capture window elapsed without speech.
	KindNoSpeech
	// KindUnintelligible means audio was captured but not recognised.
	KindUnintelligible
	// KindService means the recognition service itself failed.
	KindService
)

// Error is a classified speech recognition failure.
type Error struct {
	Kind ErrKind
	Msg  string
}

func (e *Error) Error() string { return e.Msg }

// KindOf returns the classification of err, or KindOther for foreign errors.
func KindOf(err error) ErrKind {
	var ve *Error
	if errors.As(err, &ve) {
		return ve.Kind
	}
	return KindOther
}

// Recognizer performs one blocking capture-and-recognize cycle for the given
// recognition language tag (e.g. "en-US").
type Recognizer interface {
	Recognize(ctx context.Context, languageTag string) (string, error)
}

// Result is the outcome of one Listen call: recognised text or a classified
// error, never both.
type Result struct {
	Text string
	Err  error
}

// Listener runs speech capture on background goroutines, one per request,
// and hands each outcome back on its own single-fire channel. Callers
// receive on the channel from their own loop; nothing here ever blocks the
// caller.
type Listener struct {
	rec Recognizer
}

// NewListener wraps rec. A nil recognizer produces a Listener whose every
// request reports KindUnavailable, letting front ends disable the control.
func NewListener(rec Recognizer) *Listener {
	return &Listener{rec: rec}
}

// Available reports whether a recognizer is configured.
func (l *Listener) Available() bool { return l.rec != nil }

// Listen starts one capture cycle and returns a channel that delivers
// exactly one Result. The cycle runs to completion or failure; ctx
// cancellation is forwarded to the recognizer but delivery still happens.
func (l *Listener) Listen(ctx context.Context, languageTag string) <-chan Result {
	ch := make(chan Result, 1)

	if l.rec == nil {
		ch <- Result{Err: &Error{Kind: KindUnavailable, Msg: "speech recognition not available"}}
		return ch
	}

	go func() {
		text, err := l.rec.Recognize(ctx, languageTag)
		if err != nil {
			ch <- Result{Err: fmt.Errorf("voice: recognize: %w", err)}
			return
		}
		ch <- Result{Text: text}
	}()

	return ch
}
