// Package selector renders numbered choice menus and resolves operator input.
//
// Single-select is strict: one in-range integer or the action aborts.
// Multi-select is forgiving: invalid tokens are dropped and only a fully
// empty result is an error. A bad single selection cannot be partially
// honored, while a bad multi selection degrades to whatever was valid.
package selector

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	// ErrInvalidSelection means single-select input was not exactly one
	// in-range positive integer.
	ErrInvalidSelection = errors.New("invalid selection")

	// ErrNoValidSelection means multi-select input contained no usable token.
	ErrNoValidSelection = errors.New("no valid selection")
)

var (
	numberStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
)

// Render numbers items 1..N, one per line.
func Render(items []string) string {
	var b strings.Builder
	for i, item := range items {
		fmt.Fprintf(&b, "%s %s\n",
			numberStyle.Render(fmt.Sprintf("%2d)", i+1)),
			labelStyle.Render(item))
	}
	return b.String()
}

// ResolveSingle parses input as exactly one 1-based index in [1, n].
func ResolveSingle(input string, n int) (int, error) {
	s := strings.TrimSpace(input)
	idx, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a number", ErrInvalidSelection, s)
	}
	if idx < 1 || idx > n {
		return 0, fmt.Errorf("%w: %d is out of range 1-%d", ErrInvalidSelection, idx, n)
	}
	return idx, nil
}

// ResolveMulti splits input on commas and keeps the tokens that parse as
// indices in [1, n], de-duplicated, in order of first appearance. Tokens that
// do not validate are dropped silently; the call fails only if nothing
// remains.
func ResolveMulti(input string, n int) ([]int, error) {
	var out []int
	seen := make(map[int]bool)
	for _, tok := range strings.Split(input, ",") {
		idx, err := strconv.Atoi(strings.TrimSpace(tok))
		if err != nil || idx < 1 || idx > n || seen[idx] {
			continue
		}
		seen[idx] = true
		out = append(out, idx)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w in %q", ErrNoValidSelection, strings.TrimSpace(input))
	}
	return out, nil
}
