package testing

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// TestHarness drives a bubbletea model through a sequence of steps.
//
// Commands returned by Update are handed to CmdAssert but never executed:
// models in this repo return commands that block on a log session, so tests
// feed the resulting messages explicitly.
//
//	uitesting.NewTestHarness(t, view).
//		Step(uitesting.TestStep[*LogsView]{
//			Name: "scroll_up",
//			Msg:  tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'k'}},
//			ModelAssert: func(t *testing.T, m *LogsView) {
//				assert.False(t, m.Following())
//			},
//		}).
//		Run(t)
type TestHarness[T tea.Model] struct {
	model T
	steps []TestStep[T]
}

// TestStep is one Update followed by assertions on the result
type TestStep[T tea.Model] struct {
	Name string

	// Before runs ahead of Msg, e.g. to wait for a session to settle
	Before func(t *testing.T)

	// Msg is sent to Update. A nil Msg only renders.
	Msg tea.Msg

	ViewAssert  func(t *testing.T, view string)
	ModelAssert func(t *testing.T, m T)

	// CmdAssert receives the command returned by Update, possibly nil
	CmdAssert func(t *testing.T, cmd tea.Cmd)
}

// NewTestHarness forces the ASCII color profile so views compare as plain text
func NewTestHarness[T tea.Model](t *testing.T, model T) *TestHarness[T] {
	t.Helper()
	lipgloss.SetColorProfile(termenv.Ascii)

	return &TestHarness[T]{model: model}
}

func (h *TestHarness[T]) Step(step TestStep[T]) *TestHarness[T] {
	h.steps = append(h.steps, step)
	return h
}

// Run executes every step in order and returns the final model
func (h *TestHarness[T]) Run(t *testing.T) T {
	t.Helper()

	for _, step := range h.steps {
		if step.Before != nil {
			step.Before(t)
		}

		var cmd tea.Cmd
		if step.Msg != nil {
			var updated tea.Model
			updated, cmd = h.model.Update(step.Msg)
			h.model = updated.(T) //nolint:errcheck // T is the model's own type
		}

		t.Run(step.Name, func(t *testing.T) {
			if step.ViewAssert != nil {
				step.ViewAssert(t, normalizeView(h.model.View()))
			}
			if step.ModelAssert != nil {
				step.ModelAssert(t, h.model)
			}
			if step.CmdAssert != nil {
				step.CmdAssert(t, cmd)
			}
		})
	}

	return h.model
}

// Key builds the KeyMsg bubbletea sends for a single key press
func Key(s string) tea.KeyMsg {
	switch s {
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	case "ctrl+u":
		return tea.KeyMsg{Type: tea.KeyCtrlU}
	case "ctrl+d":
		return tea.KeyMsg{Type: tea.KeyCtrlD}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

// IsQuit runs cmd and reports whether it is tea.Quit. Only call it on
// commands that cannot block.
func IsQuit(cmd tea.Cmd) bool {
	if cmd == nil {
		return false
	}
	_, ok := cmd().(tea.QuitMsg)
	return ok
}

func normalizeView(view string) string {
	view = strings.TrimSpace(view)
	return strings.ReplaceAll(view, "\r\n", "\n")
}

// AssertContains fails when view lacks substring
func AssertContains(t *testing.T, view, substring string) {
	t.Helper()
	if !strings.Contains(view, substring) {
		t.Errorf("View does not contain expected substring.\nExpected substring: %q\nActual view:\n%s", substring, view)
	}
}

// AssertNotContains fails when view has substring
func AssertNotContains(t *testing.T, view, substring string) {
	t.Helper()
	if strings.Contains(view, substring) {
		t.Errorf("View contains unexpected substring.\nUnexpected substring: %q\nActual view:\n%s", substring, view)
	}
}
