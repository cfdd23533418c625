package session

import (
	"context"
	"errors"
	"sync"
	"testing"
)

func TestValidateID(t *testing.T) {
	tests := []struct {
		name    string
		id      string
		wantErr bool
	}{
		{name: "simple", id: "maximus-neutrons", wantErr: false},
		{name: "underscore", id: "mks_925", wantErr: false},
		{name: "empty", id: "", wantErr: true},
		{name: "path separator", id: "a/b", wantErr: true},
		{name: "backslash", id: `a\b`, wantErr: true},
		{name: "colon is a tmux target separator", id: "a:b", wantErr: true},
		{name: "dot is a tmux target separator", id: "a.b", wantErr: true},
		{name: "whitespace", id: "a b", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateID(tt.id)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateID(%q) = %v, wantErr %v", tt.id, err, tt.wantErr)
			}
		})
	}
}

func TestFakeEnsureRunningIdempotent(t *testing.T) {
	f := NewFake()
	ctx := context.Background()

	if err := f.EnsureRunning(ctx, "alpha", "python3 /dev/alpha.py"); err != nil {
		t.Fatalf("first EnsureRunning: %v", err)
	}
	// Second call with a different command must be a no-op, not a restart.
	if err := f.EnsureRunning(ctx, "alpha", "python3 /dev/other.py"); err != nil {
		t.Fatalf("second EnsureRunning: %v", err)
	}

	cmd, ok := f.Command("alpha")
	if !ok || cmd != "python3 /dev/alpha.py" {
		t.Errorf("command = %q, %v; want original command preserved", cmd, ok)
	}
}

func TestFakeEnsureRunningConcurrent(t *testing.T) {
	f := NewFake()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := f.EnsureRunning(ctx, "racer", "python3 /dev/racer.py"); err != nil {
				t.Errorf("EnsureRunning: %v", err)
			}
		}()
	}
	wg.Wait()

	ids, err := f.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(ids) != 1 || ids[0] != "racer" {
		t.Errorf("sessions = %v, want exactly [racer]", ids)
	}
}

func TestFakeKillMissing(t *testing.T) {
	f := NewFake()
	err := f.Kill(context.Background(), "ghost")
	if !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Kill(ghost) = %v, want ErrSessionNotFound", err)
	}
}
