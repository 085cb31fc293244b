// Package voice binds a speech recognizer to a single text field.
package voice

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// ErrUnavailable is returned when no recognizer is configured
var ErrUnavailable = errors.New("voice input not available")

// Listener receives recognizer events. Any callback may be nil.
type Listener struct {
	OnStart   func()
	OnEnd     func()
	OnResults func(results []string)
	OnError   func(err error)
}

// Recognizer is a speech-to-text engine. Callbacks may arrive on any goroutine.
type Recognizer interface {
	Start(ctx context.Context, locale string) error
	Stop(ctx context.Context) error
	Destroy(ctx context.Context) error
	SetListener(l Listener)
	RemoveListeners()
}

// LocaleFor maps an interface language to a recognizer locale
func LocaleFor(language string) string {
	if language == "hi" {
		return "hi-IN"
	}
	return "en-US"
}

// Placeholders is the text shown in the field at each stage of a session
type Placeholders struct {
	Idle          string
	StartSpeaking string
	Listening     string
	Ended         string
}

// DefaultPlaceholders returns English placeholder text around idle
func DefaultPlaceholders(idle string) Placeholders {
	return Placeholders{
		Idle:          idle,
		StartSpeaking: "Start speaking...",
		Listening:     "Listening...",
		Ended:         "Processing...",
	}
}

// Input owns one listening session at a time for a text field
type Input struct {
	mu           sync.Mutex
	rec          Recognizer
	locale       string
	placeholders Placeholders
	placeholder  string
	listening    bool
	closed       bool
	onText       func(string)
}

// NewInput creates an Input. rec may be nil, in which case Start reports
// ErrUnavailable. onText receives the recognized text.
func NewInput(rec Recognizer, language string, placeholders Placeholders, onText func(string)) *Input {
	return &Input{
		rec:          rec,
		locale:       LocaleFor(language),
		placeholders: placeholders,
		placeholder:  placeholders.Idle,
		onText:       onText,
	}
}

// Listening reports whether a session is active
func (in *Input) Listening() bool {
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.listening
}

// Placeholder returns the current placeholder text
func (in *Input) Placeholder() string {
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.placeholder
}

// Toggle starts a session when idle and stops it when listening
func (in *Input) Toggle(ctx context.Context) error {
	if in.Listening() {
		return in.Stop(ctx)
	}
	return in.Start(ctx)
}

// Start begins a session. Starting while already listening does nothing.
func (in *Input) Start(ctx context.Context) error {
	if in.rec == nil {
		return ErrUnavailable
	}

	in.mu.Lock()
	if in.closed {
		in.mu.Unlock()
		return ErrUnavailable
	}
	if in.listening {
		in.mu.Unlock()
		return nil
	}
	in.listening = true
	in.placeholder = in.placeholders.StartSpeaking
	in.mu.Unlock()

	in.rec.SetListener(Listener{
		OnStart:   in.handleStart,
		OnEnd:     in.handleEnd,
		OnResults: in.handleResults,
		OnError:   in.handleError,
	})
	if err := in.rec.Destroy(ctx); err != nil {
		in.reset()
		return fmt.Errorf("failed to reset recognizer: %w", err)
	}
	if err := in.rec.Start(ctx, in.locale); err != nil {
		in.reset()
		return fmt.Errorf("failed to start recognizer: %w", err)
	}
	return nil
}

// Stop ends the session. It is a no-op when not listening.
func (in *Input) Stop(ctx context.Context) error {
	in.mu.Lock()
	if !in.listening || in.rec == nil {
		in.listening = false
		in.mu.Unlock()
		return nil
	}
	in.placeholder = in.placeholders.Ended
	in.mu.Unlock()

	err := in.rec.Stop(ctx)
	if derr := in.rec.Destroy(ctx); err == nil {
		err = derr
	}
	in.rec.RemoveListeners()

	in.mu.Lock()
	in.listening = false
	in.mu.Unlock()
	return err
}

// Close ends this input. The recognizer may be shared with other inputs, so
// it is only torn down when this input owns the live session. Close is safe
// to call more than once.
func (in *Input) Close(ctx context.Context) error {
	in.mu.Lock()
	if in.closed {
		in.mu.Unlock()
		return nil
	}
	owned := in.listening
	in.closed = true
	in.listening = false
	in.placeholder = in.placeholders.Idle
	in.mu.Unlock()

	if in.rec == nil || !owned {
		return nil
	}
	in.rec.RemoveListeners()
	return in.rec.Destroy(ctx)
}

func (in *Input) reset() {
	in.mu.Lock()
	defer in.mu.Unlock()
	in.listening = false
	in.placeholder = in.placeholders.Idle
}

func (in *Input) handleStart() {
	in.mu.Lock()
	defer in.mu.Unlock()
	if in.listening {
		in.placeholder = in.placeholders.Listening
	}
}

func (in *Input) handleEnd() {
	in.mu.Lock()
	defer in.mu.Unlock()
	if in.listening {
		in.placeholder = in.placeholders.Ended
	}
}

func (in *Input) handleResults(results []string) {
	in.mu.Lock()
	if !in.listening {
		in.mu.Unlock()
		return
	}
	in.listening = false
	in.placeholder = ""
	onText := in.onText
	in.mu.Unlock()

	if len(results) > 0 && onText != nil {
		onText(results[0])
	}
}

func (in *Input) handleError(error) {
	in.reset()
}
