package logging

import (
	"context"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/pulumi-idp/idp-console/internal/ui"
)

// LogViewerConfig contains configuration for the log viewer
type LogViewerConfig struct {
	ui.DisplayConfig

	Session *Session

	// Out receives plain rows in simple output mode (default: os.Stdout)
	Out io.Writer
	// ErrOut receives cancellation notices in simple output mode (default: os.Stderr)
	ErrOut io.Writer
}

// LogViewerModel follows a Session from inside a bubbletea program. It keeps
// the latest Snapshot for rendering and, in simple output mode, prints each
// line once as it arrives and quits when the session settles.
type LogViewerModel struct {
	ctx     context.Context
	config  LogViewerConfig
	spinner *ui.SpinnerModel

	snap Snapshot

	// simple mode bookkeeping
	printedGeneration uint64
	printed           int

	err error
}

// SessionChangedMsg tells a model to re-read its session's Snapshot
type SessionChangedMsg struct {
	SessionID string
}

func NewLogViewer(ctx context.Context, config LogViewerConfig) *LogViewerModel {
	if config.Out == nil {
		config.Out = os.Stdout
	}
	if config.ErrOut == nil {
		config.ErrOut = os.Stderr
	}

	return &LogViewerModel{
		ctx:     ctx,
		config:  config,
		spinner: ui.NewSpinner(),
		snap:    config.Session.Snapshot(),
	}
}

// Init reads the session once straight away; every SessionChangedMsg then
// schedules exactly one wait for the next change.
func (m *LogViewerModel) Init() tea.Cmd {
	id := m.config.Session.ID()
	changed := func() tea.Msg { return SessionChangedMsg{SessionID: id} }

	if m.config.SimpleOutput() {
		return changed
	}
	return tea.Batch(changed, m.spinner.Init())
}

func (m *LogViewerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case SessionChangedMsg:
		if msg.SessionID != m.config.Session.ID() {
			return m, nil
		}
		m.snap = m.config.Session.Snapshot()

		if m.config.SimpleOutput() {
			m.printNew()
			if m.Settled() {
				m.err = m.snap.Status.Err()
				return m, tea.Quit
			}
		}
		return m, WaitForChange(m.ctx, m.config.Session)

	case ui.SignalCancelMsg:
		if m.config.SimpleOutput() {
			fmt.Fprintln(m.config.ErrOut, "\nCancelled by user")
		}
		m.config.Session.Close()
		m.err = ui.NewUserCancelledError()
		return m, tea.Quit

	default:
		if !m.config.SimpleOutput() {
			updated, cmd := m.spinner.Update(msg)
			m.spinner = updated.(*ui.SpinnerModel) //nolint:errcheck // SpinnerModel returns itself
			return m, cmd
		}
	}

	return m, nil
}

// View is empty in simple mode, where rows are printed directly. The
// interactive frame is drawn by the owning command view.
func (m *LogViewerModel) View() string {
	if m.config.SimpleOutput() {
		return ""
	}
	return m.StatusLine()
}

// printNew writes rows not yet printed. A new generation means the
// transcript was replaced, so the fresh snapshot is printed from the top.
func (m *LogViewerModel) printNew() {
	if m.snap.Generation != m.printedGeneration {
		m.printedGeneration = m.snap.Generation
		m.printed = 0
	}
	if m.printed > len(m.snap.Lines) {
		m.printed = len(m.snap.Lines)
	}

	for _, line := range m.snap.Lines[m.printed:] {
		for _, row := range FormatLine(line) {
			fmt.Fprintln(m.config.Out, row)
		}
	}
	m.printed = len(m.snap.Lines)
}

// StatusLine renders the connection badge, with a spinner while work is in flight
func (m *LogViewerModel) StatusLine() string {
	badge := StatusBadge(m.snap.Status)
	switch {
	case m.snap.Fetching:
		return m.spinner.View() + " Refreshing... " + badge
	case m.snap.Status.Kind == StatusConnecting:
		return m.spinner.View() + " " + badge
	default:
		return badge
	}
}

// Settled reports that nothing more will arrive without user action
func (m *LogViewerModel) Settled() bool {
	return m.snap.Status.IsTerminal() && !m.snap.Fetching
}

// Snapshot returns the state last read from the session
func (m *LogViewerModel) Snapshot() Snapshot {
	return m.snap
}

func (m *LogViewerModel) Session() *Session {
	return m.config.Session
}

// Error returns the failure that ended a simple-mode run, or a cancellation
func (m *LogViewerModel) Error() error {
	return m.err
}

// WaitForChange blocks until s changes or ctx ends. A cancelled ctx yields
// no message.
func WaitForChange(ctx context.Context, s *Session) tea.Cmd {
	return func() tea.Msg {
		select {
		case <-s.Changed():
			return SessionChangedMsg{SessionID: s.ID()}
		case <-ctx.Done():
			return nil
		}
	}
}

// StatusBadge renders a ConnectionStatus for the viewer header
func StatusBadge(status ConnectionStatus) string {
	label := status.String()
	switch status.Kind {
	case StatusLive:
		return ui.GreenStyle.Render("● " + label)
	case StatusConnecting:
		return ui.YellowStyle.Render(label + "...")
	case StatusFailed:
		return ui.RedStyle.Render("✗ " + label)
	default:
		return ui.PendingStyle.Render("○ " + label)
	}
}
