package session

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// Fake is an in-memory Backend for tests. It is safe for concurrent use so
// race-style tests can hammer EnsureRunning from multiple goroutines.
type Fake struct {
	mu       sync.Mutex
	sessions map[string]string // id -> launchCommand

	// FailStart lists ids whose EnsureRunning should fail.
	FailStart map[string]bool

	// Attached records ids passed to Attach.
	Attached []string
}

// NewFake creates an empty fake backend.
func NewFake() *Fake {
	return &Fake{
		sessions:  make(map[string]string),
		FailStart: make(map[string]bool),
	}
}

func (f *Fake) List(ctx context.Context) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ids := make([]string, 0, len(f.sessions))
	for id := range f.sessions {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

func (f *Fake) EnsureRunning(ctx context.Context, id, launchCommand string) error {
	if err := ValidateID(id); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.FailStart[id] {
		return fmt.Errorf("start %q: backend unavailable", id)
	}
	if _, ok := f.sessions[id]; ok {
		return nil
	}
	f.sessions[id] = launchCommand
	return nil
}

func (f *Fake) Attach(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.sessions[id]; !ok {
		return fmt.Errorf("attach %q: %w", id, ErrSessionNotFound)
	}
	f.Attached = append(f.Attached, id)
	return nil
}

func (f *Fake) Kill(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.sessions[id]; !ok {
		return fmt.Errorf("kill %q: %w", id, ErrSessionNotFound)
	}
	delete(f.sessions, id)
	return nil
}

// Command returns the launch command a session was started with.
func (f *Fake) Command(id string) (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	cmd, ok := f.sessions[id]
	return cmd, ok
}
