package selector

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Prompter reads operator answers line by line. It exists so orchestrator
// flows can be driven by a strings.Reader in tests.
type Prompter struct {
	in  *bufio.Reader
	out io.Writer
}

// NewPrompter wraps an input/output pair, typically os.Stdin and os.Stdout.
func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: bufio.NewReader(in), out: out}
}

// Choose renders the items and resolves a strict single selection.
func (p *Prompter) Choose(prompt string, items []string) (int, error) {
	fmt.Fprint(p.out, Render(items))
	line, err := p.ask(prompt)
	if err != nil {
		return 0, err
	}
	return ResolveSingle(line, len(items))
}

// ChooseMulti renders the items and resolves a lenient multi selection.
func (p *Prompter) ChooseMulti(prompt string, items []string) ([]int, error) {
	fmt.Fprint(p.out, Render(items))
	line, err := p.ask(prompt)
	if err != nil {
		return nil, err
	}
	return ResolveMulti(line, len(items))
}

// Confirm asks a yes/no question. Only an explicit "y" or "yes"
// (case-insensitive) is a yes.
func (p *Prompter) Confirm(prompt string) (bool, error) {
	line, err := p.ask(prompt + " [y/N]")
	if err != nil {
		return false, err
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}

func (p *Prompter) ask(prompt string) (string, error) {
	fmt.Fprintf(p.out, "%s ", prompt)
	line, err := p.in.ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("reading input: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}
