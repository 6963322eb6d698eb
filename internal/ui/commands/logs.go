package commands

import (
	"context"
	"fmt"
	"io"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/pulumi-idp/idp-console/internal/ui"
	"github.com/pulumi-idp/idp-console/internal/ui/logging"
)

// LogsConfig contains configuration for the logs command
type LogsConfig struct {
	ui.DisplayConfig

	Session *logging.Session

	// Out receives rows in simple output mode (default: os.Stdout)
	Out io.Writer
}

// LogsView is the bubbletea model for `idpctl logs`. It draws the session's
// transcript in a scrollable box; in simple output mode the embedded viewer
// prints rows instead and quits once the session settles.
type LogsView struct {
	ctx    context.Context
	conf   LogsConfig
	viewer *logging.LogViewerModel
	err    error

	rows       []string
	generation uint64
	width      int

	scrollOffset int
	// autoScroll is the user's toggle; following is whether the last row is in view
	autoScroll bool
	following  bool
}

func NewLogsView(ctx context.Context, conf LogsConfig) *LogsView {
	return &LogsView{
		ctx:  ctx,
		conf: conf,
		viewer: logging.NewLogViewer(ctx, logging.LogViewerConfig{
			DisplayConfig: conf.DisplayConfig,
			Session:       conf.Session,
			Out:           conf.Out,
		}),
		width:      ui.DefaultViewerWidth,
		autoScroll: true,
		following:  true,
	}
}

func (m *LogsView) Init() tea.Cmd {
	return m.viewer.Init()
}

// Error returns the error that ended the program, if any. q exits cleanly;
// ctrl+c is a cancellation; a simple-mode run that ends Failed is an API error.
func (m *LogsView) Error() error {
	if m.err != nil {
		return m.err
	}
	err := m.viewer.Error()
	if err == nil {
		return nil
	}
	if uiErr, ok := ui.AsUIError(err); ok {
		return uiErr
	}
	return ui.NewAPIError(err)
}

func (m *LogsView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = max(40, msg.Width-2)
		return m, nil

	case logging.SessionChangedMsg:
		_, cmd := m.viewer.Update(msg)
		m.syncRows()
		return m, cmd
	}

	_, cmd := m.viewer.Update(msg)
	return m, cmd
}

func (m *LogsView) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if key == "ctrl+c" {
		m.conf.Session.Close()
		m.err = ui.NewUserCancelledError()
		return m, tea.Quit
	}
	if m.conf.SimpleOutput() {
		return m, nil
	}

	page := ui.MaxLogsInViewer / 2

	switch key {
	case "q", "esc":
		m.conf.Session.Close()
		return m, tea.Quit
	case "a":
		m.autoScroll = !m.autoScroll
		if m.autoScroll {
			m.scrollTo(m.maxOffset())
		}
	case "r":
		// The live socket already carries every line
		if m.viewer.Snapshot().Status.Kind != logging.StatusLive {
			m.conf.Session.Refresh()
		}
	case "j", "down":
		m.scrollTo(m.scrollOffset + 1)
	case "k", "up":
		m.scrollTo(m.scrollOffset - 1)
	case "ctrl+d":
		m.scrollTo(m.scrollOffset + page)
	case "ctrl+u":
		m.scrollTo(m.scrollOffset - page)
	case "J":
		m.scrollTo(m.maxOffset())
	case "K":
		m.scrollTo(0)
	}

	return m, nil
}

// syncRows re-renders the transcript after a session change and keeps the
// view pinned to the bottom while following
func (m *LogsView) syncRows() {
	snap := m.viewer.Snapshot()
	m.rows = logging.FormatLines(snap.Lines, true)

	if snap.Generation != m.generation {
		m.generation = snap.Generation
		m.scrollOffset = 0
	}

	if m.autoScroll && m.following {
		m.scrollTo(m.maxOffset())
		return
	}
	m.scrollTo(m.scrollOffset)
}

func (m *LogsView) scrollTo(offset int) {
	m.scrollOffset = ui.Clamp(offset, 0, m.maxOffset())
	m.following = m.scrollOffset == m.maxOffset()
}

func (m *LogsView) maxOffset() int {
	return max(0, len(m.rows)-ui.MaxLogsInViewer)
}

// ScrollOffset is the index of the first visible row
func (m *LogsView) ScrollOffset() int {
	return m.scrollOffset
}

func (m *LogsView) AutoScroll() bool {
	return m.autoScroll
}

func (m *LogsView) Following() bool {
	return m.following
}

func (m *LogsView) View() string {
	if m.conf.SimpleOutput() {
		return ""
	}

	snap := m.viewer.Snapshot()

	var content strings.Builder
	title := ui.TitleStyle.Render(fmt.Sprintf("Deployment Logs (%s) - %s", ui.Plural(len(snap.Lines), "line"), snap.Key))
	content.WriteString(title + " " + m.viewer.StatusLine())

	if snap.Status.Kind == logging.StatusFailed {
		content.WriteString("\n")
		content.WriteString(ui.ErrorStyle.Render("Error: " + snap.Status.Reason))
	}

	content.WriteString("\n")
	content.WriteString(m.renderRows(snap))

	box := ui.LogBoxStyle.Width(m.width).Render(content.String())
	return "\n" + box + "\n" + m.renderHelpText(snap)
}

func (m *LogsView) renderRows(snap logging.Snapshot) string {
	if len(m.rows) == 0 {
		switch {
		case snap.Fetching, snap.Status.Kind == logging.StatusConnecting:
			return ui.PendingStyle.Render("Loading logs...")
		case snap.Status.Kind == logging.StatusLive:
			return ui.PendingStyle.Render("Waiting for logs...")
		default:
			return ui.PendingStyle.Render("No logs available")
		}
	}

	start := m.scrollOffset
	end := min(start+ui.MaxLogsInViewer, len(m.rows))

	var out []string
	if start > 0 {
		out = append(out, ui.PendingStyle.Render(fmt.Sprintf("↑ %s above", ui.Plural(start, "more line"))))
	}
	out = append(out, m.rows[start:end]...)
	if end < len(m.rows) {
		out = append(out, ui.PendingStyle.Render(fmt.Sprintf("↓ %s below", ui.Plural(len(m.rows)-end, "more line"))))
	}
	return strings.Join(out, "\n")
}

func (m *LogsView) renderHelpText(snap logging.Snapshot) string {
	hints := []string{"q: quit"}

	if m.autoScroll {
		hints = append(hints, "a: auto-scroll (on)")
	} else {
		hints = append(hints, "a: auto-scroll (off)")
	}
	if snap.Status.Kind != logging.StatusLive {
		hints = append(hints, "r: refresh")
	}
	if len(m.rows) > ui.MaxLogsInViewer {
		hints = append(hints, "j/k: scroll", "J/K: bottom/top", "ctrl+u/d: page up/down")
	}

	return ui.HelpStyle.Render(strings.Join(hints, " | "))
}
