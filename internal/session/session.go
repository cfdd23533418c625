// Package session provides an abstraction over named, detachable execution
// sessions backed by a terminal multiplexer.
//
// The backend is pure transport: it starts, lists, attaches to, and kills
// sessions by name without interpreting anything the hosted process does.
// A session whose command exits immediately is indistinguishable from a
// healthy one at this layer.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrSessionNotFound is returned by Kill and Attach when no session with the
// requested id exists.
var ErrSessionNotFound = errors.New("session not found")

// Backend abstracts the terminal multiplexer operations the supervisor needs.
type Backend interface {
	// List returns the ids of all currently active sessions, sorted.
	List(ctx context.Context) ([]string, error)

	// EnsureRunning creates a detached session named id running launchCommand
	// if one does not already exist. The existence check and the create are a
	// single atomic operation as observed by concurrent callers: N concurrent
	// calls for the same id yield exactly one session.
	EnsureRunning(ctx context.Context, id, launchCommand string) error

	// Attach connects the operator's terminal to the session and blocks until
	// the operator detaches or the session ends. Detaching never terminates
	// the session. Returns ErrSessionNotFound if the session does not exist.
	Attach(ctx context.Context, id string) error

	// Kill terminates the session and its process tree.
	// Returns ErrSessionNotFound if the session does not exist.
	Kill(ctx context.Context, id string) error
}

// ValidateID rejects ids that cannot safely name a multiplexer session.
// tmux treats ':' and '.' as target separators, and a path separator or
// whitespace in a session name is never something discovery would produce.
func ValidateID(id string) error {
	if id == "" {
		return fmt.Errorf("empty session id")
	}
	if strings.ContainsAny(id, "/\\:. \t\n") {
		return fmt.Errorf("invalid session id %q", id)
	}
	return nil
}
