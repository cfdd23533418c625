package schedule

import (
	"fmt"
	"os/exec"
	"strings"
)

// Crontab implements Scheduler against the user crontab via the crontab(1)
// binary: read with `crontab -l`, write the full table back through stdin
// with `crontab -`.
type Crontab struct {
	// IntervalMinutes is the reconciliation period. Zero means 5.
	IntervalMinutes int

	// Bin is the crontab binary. Empty means "crontab".
	Bin string
}

// NewCrontab creates a crontab-backed scheduler.
func NewCrontab(intervalMinutes int) *Crontab {
	return &Crontab{IntervalMinutes: intervalMinutes}
}

func (c *Crontab) interval() int {
	if c.IntervalMinutes <= 0 {
		return 5
	}
	return c.IntervalMinutes
}

func (c *Crontab) bin() string {
	if c.Bin == "" {
		return "crontab"
	}
	return c.Bin
}

// Arm installs the boot and interval entries for scriptPath, replacing any
// existing entries for the same path.
func (c *Crontab) Arm(scriptPath string) error {
	current, err := c.read()
	if err != nil {
		return err
	}
	return c.write(merge(current, scriptPath, entriesFor(scriptPath, c.interval())))
}

// Disarm removes all entries for scriptPath.
func (c *Crontab) Disarm(scriptPath string) error {
	current, err := c.read()
	if err != nil {
		return err
	}
	return c.write(merge(current, scriptPath, nil))
}

// Entries returns the installed crontab lines mentioning scriptPath.
func (c *Crontab) Entries(scriptPath string) ([]string, error) {
	current, err := c.read()
	if err != nil {
		return nil, err
	}
	return entriesIn(current, scriptPath), nil
}

// read returns the current crontab. A user with no crontab yet is an empty
// table, not an error: crontab -l exits 1 with "no crontab for ..." on stderr.
func (c *Crontab) read() (string, error) {
	cmd := exec.Command(c.bin(), "-l")
	out, err := cmd.Output()
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			if strings.Contains(string(exitErr.Stderr), "no crontab") {
				return "", nil
			}
			return "", fmt.Errorf("crontab -l: %w: %s", err, strings.TrimSpace(string(exitErr.Stderr)))
		}
		return "", fmt.Errorf("crontab -l: %w", err)
	}
	return string(out), nil
}

// write replaces the whole crontab. An empty table is removed outright so a
// fully drained supervisor leaves no empty crontab behind.
func (c *Crontab) write(table string) error {
	if strings.TrimSpace(table) == "" {
		cmd := exec.Command(c.bin(), "-r")
		if err := cmd.Run(); err != nil {
			// -r on a missing crontab fails; that is the state we wanted.
			if _, ok := err.(*exec.ExitError); ok {
				return nil
			}
			return fmt.Errorf("crontab -r: %w", err)
		}
		return nil
	}

	cmd := exec.Command(c.bin(), "-")
	cmd.Stdin = strings.NewReader(table)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("crontab -: %w: %s", err, strings.TrimSpace(string(out)))
	}
	return nil
}
