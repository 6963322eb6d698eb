package logging

import (
	"strings"

	"github.com/pulumi-idp/idp-console/internal/ui"
)

// FormatLine renders a line as terminal rows without styling.
// A header gets a row of its own; the text row is prefixed with
// "[15:04:05] " when the line has a displayable timestamp.
func FormatLine(line LogLine) []string {
	return formatLine(line, false)
}

// RenderLine is FormatLine with the viewer's styles applied
func RenderLine(line LogLine) []string {
	return formatLine(line, true)
}

func formatLine(line LogLine, styled bool) []string {
	var rows []string

	if line.Header != "" {
		header := line.Header
		if styled {
			header = ui.LogHeaderStyle.Render(header)
		}
		rows = append(rows, header)
	}

	if line.Line != "" {
		// Terminal rows are newline-delimited already
		text := strings.TrimRight(line.Line, "\r\n")

		if ts := line.DisplayTimestamp(); ts != "" {
			prefix := "[" + ts + "]"
			if styled {
				prefix = ui.TimestampStyle.Render(prefix)
			}
			text = prefix + " " + text
		}
		rows = append(rows, text)
	}

	return rows
}

// FormatLines flattens lines into rows, in order
func FormatLines(lines []LogLine, styled bool) []string {
	rows := make([]string, 0, len(lines))
	for _, line := range lines {
		rows = append(rows, formatLine(line, styled)...)
	}
	return rows
}
