package ui

import (
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// SpinnerModel is the spinner shown next to "Connecting" and "Refreshing"
type SpinnerModel struct {
	spinner spinner.Model
}

func NewSpinner() *SpinnerModel {
	return &SpinnerModel{spinner: spinner.New(
		spinner.WithSpinner(spinner.MiniDot),
		spinner.WithStyle(SpinnerStyle),
	)}
}

func (m *SpinnerModel) Init() tea.Cmd {
	return m.spinner.Tick
}

// Update only reacts to ticks belonging to this spinner
func (m *SpinnerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	m.spinner, cmd = m.spinner.Update(msg)
	return m, cmd
}

func (m *SpinnerModel) View() string {
	return m.spinner.View()
}

// Tick wraps the spinner's next tick so owners can restart it
func (m *SpinnerModel) Tick() tea.Msg {
	return m.spinner.Tick()
}
