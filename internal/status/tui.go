// Package status renders an interactive dashboard of desired versus actually
// running devices, refreshing on a fixed ticker.
package status

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/acqtools/devherd/internal/discover"
	"github.com/acqtools/devherd/internal/session"
	"github.com/acqtools/devherd/internal/store"
)

// RowState classifies one device row.
type RowState int

const (
	// StateRunning: desired and a session exists.
	StateRunning RowState = iota
	// StateStopped: desired but no session. The next reconcile pass will
	// start it; showing it red in the meantime is the whole point.
	StateStopped
	// StateUnmanaged: a session exists with no matching desired device
	// (started by hand or left over after uninstall).
	StateUnmanaged
)

func (s RowState) String() string {
	switch s {
	case StateRunning:
		return "running"
	case StateStopped:
		return "stopped"
	default:
		return "unmanaged"
	}
}

// Row is one line of the dashboard.
type Row struct {
	ID            string
	State         RowState
	LaunchCommand string // empty for unmanaged rows
}

// BuildRows merges the desired set and the running set into display rows:
// desired devices first in store order, then unmanaged sessions sorted by id.
func BuildRows(desired []discover.Device, running []string) []Row {
	isRunning := make(map[string]bool, len(running))
	for _, id := range running {
		isRunning[id] = true
	}

	var rows []Row
	desiredIDs := make(map[string]bool, len(desired))
	for _, d := range desired {
		desiredIDs[d.ID] = true
		state := StateStopped
		if isRunning[d.ID] {
			state = StateRunning
		}
		rows = append(rows, Row{ID: d.ID, State: state, LaunchCommand: d.LaunchCommand})
	}

	var extra []Row
	for _, id := range running {
		if !desiredIDs[id] {
			extra = append(extra, Row{ID: id, State: StateUnmanaged})
		}
	}
	sort.Slice(extra, func(i, j int) bool { return extra[i].ID < extra[j].ID })
	return append(rows, extra...)
}

// TUI runs the status dashboard.
type TUI struct {
	Backend session.Backend
	Store   *store.Store
	Refresh time.Duration // 0 disables auto-refresh
	Theme   Theme
}

// Run blocks until the operator quits. If the operator chose a session to
// attach to, its id is returned so the caller can attach after the terminal
// is released from bubbletea.
func (t *TUI) Run(ctx context.Context) (attachID string, err error) {
	sp := spinner.New()
	sp.Spinner = spinner.MiniDot

	m := &model{
		ctx:     ctx,
		backend: t.Backend,
		store:   t.Store,
		refresh: t.Refresh,
		styles:  newStyles(t.Theme),
		spin:    sp,
	}

	final, err := tea.NewProgram(m, tea.WithContext(ctx)).Run()
	if err != nil {
		return "", err
	}
	if fm, ok := final.(*model); ok {
		return fm.attachID, nil
	}
	return "", nil
}

type refreshMsg struct {
	rows []Row
	err  error
}

type tickMsg struct{}

type model struct {
	ctx     context.Context
	backend session.Backend
	store   *store.Store
	refresh time.Duration
	styles  styles
	spin    spinner.Model

	rows        []Row
	cursor      int
	loading     bool
	message     string
	attachID    string
	confirmKill string // non-empty: waiting for y/n before killing this id
}

func (m *model) Init() tea.Cmd {
	return tea.Batch(m.spin.Tick, m.doRefresh())
}

func (m *model) doRefresh() tea.Cmd {
	return func() tea.Msg {
		desired, err := m.store.List()
		if err != nil {
			return refreshMsg{err: err}
		}
		running, err := m.backend.List(m.ctx)
		if err != nil {
			return refreshMsg{err: err}
		}
		return refreshMsg{rows: BuildRows(desired, running)}
	}
}

func (m *model) scheduleTick() tea.Cmd {
	if m.refresh <= 0 {
		return nil
	}
	return tea.Tick(m.refresh, func(time.Time) tea.Msg { return tickMsg{} })
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case refreshMsg:
		m.loading = false
		if msg.err != nil {
			m.message = msg.err.Error()
		} else {
			m.rows = msg.rows
			if m.cursor >= len(m.rows) {
				m.cursor = max(0, len(m.rows)-1)
			}
		}
		return m, m.scheduleTick()

	case tickMsg:
		m.loading = true
		return m, m.doRefresh()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Kill is the one irreversible key; it takes a second keystroke.
	if m.confirmKill != "" {
		id := m.confirmKill
		m.confirmKill = ""
		if msg.String() == "y" {
			if err := m.backend.Kill(m.ctx, id); err != nil {
				m.message = err.Error()
				return m, nil
			}
			m.message = "killed " + id
			m.loading = true
			return m, m.doRefresh()
		}
		m.message = "kill cancelled"
		return m, nil
	}

	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit

	case "up", "k", "ctrl+p":
		if m.cursor > 0 {
			m.cursor--
		}

	case "down", "j", "ctrl+n":
		if m.cursor < len(m.rows)-1 {
			m.cursor++
		}

	case "r":
		m.loading = true
		return m, m.doRefresh()

	case "enter":
		if row, ok := m.current(); ok && row.State != StateStopped {
			m.attachID = row.ID
			return m, tea.Quit
		}
		m.message = "not running; nothing to attach to"

	case "s":
		if row, ok := m.current(); ok {
			if row.LaunchCommand == "" {
				m.message = "unmanaged session; no launch command on record"
				return m, nil
			}
			if err := m.backend.EnsureRunning(m.ctx, row.ID, row.LaunchCommand); err != nil {
				m.message = err.Error()
				return m, nil
			}
			m.message = "started " + row.ID
			m.loading = true
			return m, m.doRefresh()
		}

	case "x":
		if row, ok := m.current(); ok {
			if row.State == StateStopped {
				m.message = "not running; nothing to kill"
				return m, nil
			}
			m.confirmKill = row.ID
			m.message = ""
		}
	}
	return m, nil
}

func (m *model) current() (Row, bool) {
	if m.cursor < 0 || m.cursor >= len(m.rows) {
		return Row{}, false
	}
	return m.rows[m.cursor], true
}

func (m *model) View() string {
	s := m.styles

	out := s.title.Render("devherd status")
	if m.loading {
		out += " " + m.spin.View()
	}
	out += "\n\n"

	if len(m.rows) == 0 {
		out += s.dim.Render("no devices installed and no sessions running") + "\n"
	}

	for i, row := range m.rows {
		cursor := "  "
		if i == m.cursor {
			cursor = s.selected.Render("> ")
		}
		var state string
		switch row.State {
		case StateRunning:
			state = s.running.Render("● running  ")
		case StateStopped:
			state = s.stopped.Render("○ stopped  ")
		default:
			state = s.unknown.Render("◌ unmanaged")
		}
		out += fmt.Sprintf("%s%s  %s\n", cursor, state, s.text.Render(row.ID))
	}

	out += "\n"
	if m.confirmKill != "" {
		out += s.err.Render("kill "+m.confirmKill+"? (y/n)") + "\n"
	} else if m.message != "" {
		out += s.err.Render(m.message) + "\n"
	}
	out += s.hintKey.Render("enter") + s.hintDesc.Render(" attach  ") +
		s.hintKey.Render("s") + s.hintDesc.Render(" start  ") +
		s.hintKey.Render("x") + s.hintDesc.Render(" kill  ") +
		s.hintKey.Render("r") + s.hintDesc.Render(" refresh  ") +
		s.hintKey.Render("q") + s.hintDesc.Render(" quit")
	return out
}
