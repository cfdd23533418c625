package session

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"sort"
	"strings"
)

// Tmux implements Backend by shelling out to the tmux binary.
type Tmux struct {
	// Bin is the tmux binary name or path. Empty means "tmux".
	Bin string
}

// NewTmux creates a tmux backend using the given binary ("" for the default).
func NewTmux(bin string) *Tmux {
	if bin == "" {
		bin = "tmux"
	}
	return &Tmux{Bin: bin}
}

// List returns the names of all tmux sessions, sorted.
// A missing tmux server means no sessions, not an error.
func (t *Tmux) List(ctx context.Context) ([]string, error) {
	out, err := t.run(ctx, "list-sessions", "-F", "#{session_name}")
	if err != nil {
		// "no server running" / "no sessions" exit non-zero; treat as empty.
		if isNoServer(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("tmux list-sessions: %w", err)
	}

	var ids []string
	for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
		if line != "" {
			ids = append(ids, line)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

// EnsureRunning starts a detached session running launchCommand unless one
// named id already exists. The create is a single new-session -d call, so
// the server serializes it: concurrent callers racing on the same id all
// issue the create and exactly one wins, the rest fail with "duplicate
// session". That failure *is* the already-exists no-op, never a restart.
//
// new-session -A is deliberately not used: for an existing session -A turns
// the call into attach-session (only -D/-X map through, -d does not), which
// fails without a terminal.
func (t *Tmux) EnsureRunning(ctx context.Context, id, launchCommand string) error {
	if err := ValidateID(id); err != nil {
		return err
	}
	if _, err := t.run(ctx, "new-session", "-d", "-s", id, launchCommand); err != nil {
		if isDuplicateSession(err) {
			return nil
		}
		return fmt.Errorf("tmux new-session -d -s %s: %w", id, err)
	}
	return nil
}

// Attach replaces the current terminal with the session's live output.
// Blocks until the operator detaches (prefix-d) or the session exits.
func (t *Tmux) Attach(ctx context.Context, id string) error {
	if err := ValidateID(id); err != nil {
		return err
	}
	if ok, err := t.has(ctx, id); err != nil {
		return err
	} else if !ok {
		return fmt.Errorf("attach %q: %w", id, ErrSessionNotFound)
	}

	// Bypass run(): attach needs the real terminal on all three fds.
	cmd := exec.CommandContext(ctx, t.Bin, "attach-session", "-t", "="+id)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("tmux attach-session -t %s: %w", id, err)
	}
	return nil
}

// Kill terminates the session and everything running inside it.
func (t *Tmux) Kill(ctx context.Context, id string) error {
	if err := ValidateID(id); err != nil {
		return err
	}
	if ok, err := t.has(ctx, id); err != nil {
		return err
	} else if !ok {
		return fmt.Errorf("kill %q: %w", id, ErrSessionNotFound)
	}
	if _, err := t.run(ctx, "kill-session", "-t", "="+id); err != nil {
		// The session may have ended between has() and kill-session.
		if isNoServer(err) {
			return fmt.Errorf("kill %q: %w", id, ErrSessionNotFound)
		}
		return fmt.Errorf("tmux kill-session -t %s: %w", id, err)
	}
	return nil
}

// has reports whether a session named id exists. The "=" prefix forces an
// exact name match instead of tmux's default prefix matching.
func (t *Tmux) has(ctx context.Context, id string) (bool, error) {
	cmd := exec.CommandContext(ctx, t.Bin, "has-session", "-t", "="+id)
	if err := cmd.Run(); err != nil {
		if _, ok := err.(*exec.ExitError); ok {
			return false, nil
		}
		return false, fmt.Errorf("tmux has-session: %w", err)
	}
	return true, nil
}

// run executes a tmux command and returns its stdout.
func (t *Tmux) run(ctx context.Context, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, t.Bin, args...)
	out, err := cmd.Output()
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return "", fmt.Errorf("%w: %s", err, strings.TrimSpace(string(exitErr.Stderr)))
		}
		return "", err
	}
	return string(out), nil
}

// isDuplicateSession reports whether err is tmux refusing to create a
// session because one with that name already exists.
func isDuplicateSession(err error) bool {
	return err != nil && strings.Contains(err.Error(), "duplicate session")
}

// isNoServer reports whether err looks like tmux telling us there is no
// server or no such session rather than a real failure.
func isNoServer(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "no server running") ||
		strings.Contains(msg, "no sessions") ||
		strings.Contains(msg, "can't find session") ||
		strings.Contains(msg, "error connecting to")
}
