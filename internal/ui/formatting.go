package ui

import "fmt"

// FormatError renders err for the terminal.
// NOTE: ends with a newline; bubbletea can overwrite the last line on exit
// (https://github.com/charmbracelet/bubbletea/issues/304).
func FormatError(err error) string {
	if err == nil {
		return ""
	}
	return ErrorStyle.Render(fmt.Sprintf("✗ Error: %s", err.Error())) + "\n"
}

// FormatWarning renders a non-fatal notice, e.g. an available update
func FormatWarning(msg string) string {
	return WarningStyle.Render("! "+msg) + "\n"
}
