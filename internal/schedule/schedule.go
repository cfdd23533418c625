// Package schedule manages the cron entries that drive periodic
// reconciliation.
//
// Two entries are always installed or removed together, keyed by the
// launcher script path: one @reboot entry and one fixed-interval entry.
// The artifact path is the key, so re-arming replaces any stale entries
// for the same script instead of duplicating them.
package schedule

import (
	"fmt"
	"strings"
)

// Scheduler arms and disarms the reconciliation triggers for one script path.
type Scheduler interface {
	// Arm installs (or replaces) the boot and interval entries for scriptPath.
	Arm(scriptPath string) error

	// Disarm removes all entries for scriptPath. Removing entries that do not
	// exist is a no-op.
	Disarm(scriptPath string) error

	// Entries returns the current entries managed for scriptPath.
	Entries(scriptPath string) ([]string, error)
}

// entriesFor builds the two cron lines for a script path.
func entriesFor(scriptPath string, intervalMinutes int) []string {
	return []string{
		fmt.Sprintf("@reboot %s", scriptPath),
		fmt.Sprintf("*/%d * * * * %s", intervalMinutes, scriptPath),
	}
}

// merge returns the crontab with all lines mentioning scriptPath replaced by
// add (nil add just removes). Lines belonging to other jobs pass through
// untouched, comments and blanks included, preserving their order.
func merge(crontab string, scriptPath string, add []string) string {
	var out []string
	for _, line := range strings.Split(crontab, "\n") {
		if strings.Contains(line, scriptPath) {
			continue
		}
		out = append(out, line)
	}
	// Drop trailing blank lines left behind by the split, then re-terminate.
	for len(out) > 0 && strings.TrimSpace(out[len(out)-1]) == "" {
		out = out[:len(out)-1]
	}
	out = append(out, add...)
	if len(out) == 0 {
		return ""
	}
	return strings.Join(out, "\n") + "\n"
}

// entriesIn extracts the lines mentioning scriptPath from a crontab.
func entriesIn(crontab, scriptPath string) []string {
	var out []string
	for _, line := range strings.Split(crontab, "\n") {
		if strings.Contains(line, scriptPath) {
			out = append(out, line)
		}
	}
	return out
}
