package voice

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"sync"
)

// listeners guards the listener shared between a recognizer and its
// delivery goroutine
type listeners struct {
	mu sync.Mutex
	l  Listener
}

func (s *listeners) set(l Listener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.l = l
}

func (s *listeners) get() Listener {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.l
}

func (s *listeners) start() {
	if f := s.get().OnStart; f != nil {
		f()
	}
}

func (s *listeners) end() {
	if f := s.get().OnEnd; f != nil {
		f()
	}
}

func (s *listeners) results(r []string) {
	if f := s.get().OnResults; f != nil {
		f(r)
	}
}

func (s *listeners) fail(err error) {
	if f := s.get().OnError; f != nil {
		f(err)
	}
}

// deliver reports each non-empty line of r as one result
func (s *listeners) deliver(ctx context.Context, r io.Reader) error {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if ctx.Err() != nil {
			return nil
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		s.results([]string{line})
	}
	return scanner.Err()
}

// CommandRecognizer runs an external speech-to-text program and treats each
// line it prints as a transcript. The token {locale} in the arguments is
// replaced with the session locale.
type CommandRecognizer struct {
	name string
	args []string

	listeners listeners

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// NewCommandRecognizer parses a command line such as
// "whisper-listen --lang {locale}". It returns nil for an empty command.
func NewCommandRecognizer(command string) *CommandRecognizer {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return nil
	}
	return &CommandRecognizer{name: fields[0], args: fields[1:]}
}

func (r *CommandRecognizer) SetListener(l Listener) { r.listeners.set(l) }

func (r *CommandRecognizer) RemoveListeners() { r.listeners.set(Listener{}) }

func (r *CommandRecognizer) Start(ctx context.Context, locale string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cancel != nil {
		return nil
	}

	args := make([]string, len(r.args))
	for i, a := range r.args {
		args[i] = strings.ReplaceAll(a, "{locale}", locale)
	}

	runCtx, cancel := context.WithCancel(context.Background())
	cmd := exec.CommandContext(runCtx, r.name, args...)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		cancel()
		return fmt.Errorf("failed to attach to %s: %w", r.name, err)
	}
	if err := cmd.Start(); err != nil {
		cancel()
		return fmt.Errorf("failed to run %s: %w", r.name, err)
	}

	done := make(chan struct{})
	r.cancel = cancel
	r.done = done
	r.listeners.start()

	go func() {
		defer close(done)
		defer r.finish(done, cancel)
		readErr := r.listeners.deliver(runCtx, stdout)
		waitErr := cmd.Wait()
		switch {
		case runCtx.Err() != nil:
		case readErr != nil:
			r.listeners.fail(readErr)
		case waitErr != nil:
			r.listeners.fail(waitErr)
		default:
			r.listeners.end()
		}
	}()
	return nil
}

// finish clears the session when the program exits on its own
func (r *CommandRecognizer) finish(done chan struct{}, cancel context.CancelFunc) {
	r.mu.Lock()
	if r.done == done {
		r.cancel, r.done = nil, nil
	}
	r.mu.Unlock()
	cancel()
}

func (r *CommandRecognizer) Stop(ctx context.Context) error {
	r.mu.Lock()
	cancel, done := r.cancel, r.done
	r.cancel, r.done = nil, nil
	r.mu.Unlock()

	if cancel == nil {
		return nil
	}
	cancel()
	select {
	case <-done:
		r.listeners.end()
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (r *CommandRecognizer) Destroy(ctx context.Context) error {
	return r.Stop(ctx)
}

// ReaderRecognizer replays transcripts from a reader. Each session takes the
// next line.
type ReaderRecognizer struct {
	listeners listeners

	readMu sync.Mutex
	reader *bufio.Reader

	mu      sync.Mutex
	session uint64
	active  bool
}

// NewReaderRecognizer creates a recognizer over r
func NewReaderRecognizer(r io.Reader) *ReaderRecognizer {
	return &ReaderRecognizer{reader: bufio.NewReader(r)}
}

func (r *ReaderRecognizer) SetListener(l Listener) { r.listeners.set(l) }

func (r *ReaderRecognizer) RemoveListeners() { r.listeners.set(Listener{}) }

func (r *ReaderRecognizer) Start(ctx context.Context, locale string) error {
	r.mu.Lock()
	if r.active {
		r.mu.Unlock()
		return nil
	}
	r.session++
	r.active = true
	session := r.session
	r.mu.Unlock()

	r.listeners.start()
	go func() {
		r.readMu.Lock()
		line, err := r.reader.ReadString('\n')
		r.readMu.Unlock()

		if !r.finish(session) {
			return
		}
		line = strings.TrimSpace(line)
		if line != "" {
			r.listeners.results([]string{line})
		}
		if err != nil && !errors.Is(err, io.EOF) {
			r.listeners.fail(err)
			return
		}
		r.listeners.end()
	}()
	return nil
}

// finish ends session and reports whether it was still current
func (r *ReaderRecognizer) finish(session uint64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.active || r.session != session {
		return false
	}
	r.active = false
	return true
}

// Stop abandons the current session. A line read after Stop is discarded.
func (r *ReaderRecognizer) Stop(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.active = false
	return nil
}

func (r *ReaderRecognizer) Destroy(ctx context.Context) error {
	return r.Stop(ctx)
}
