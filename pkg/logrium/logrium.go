// Package logrium wires the global slog logger for idpctl.
package logrium

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mattn/go-isatty"
)

// DebugFilePrefix names the per-run log file written while the viewer owns the terminal.
const DebugFilePrefix = "idpctl-debug"

// Setup points slog at the right sink for the current run and returns the log
// file path, or "" when logs go to stderr.
//
// While the full-screen viewer is running, writing to a terminal stderr would
// tear the rendered transcript, so logs go to a timestamped file in the temp
// directory instead. A redirected stderr (2>) is always honoured.
func Setup(isInteractive bool, level slog.Level) (string, error) {
	if !isInteractive || !isatty.IsTerminal(os.Stderr.Fd()) {
		install(os.Stderr, level)
		return "", nil
	}

	path := DebugFilePath(time.Now())
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o600) //nolint:gosec // Log file in temp directory
	if err != nil {
		return "", fmt.Errorf("failed to open debug log: %w", err)
	}

	install(f, level)
	return path, nil
}

// DebugFilePath returns the debug log location for a run started at ts.
func DebugFilePath(ts time.Time) string {
	name := fmt.Sprintf("%s-%s.log", DebugFilePrefix, ts.Format("2006-01-02T15-04-05"))
	return filepath.Join(os.TempDir(), name)
}

// Disable discards all log output. Used when --verbose is not set.
func Disable() {
	install(io.Discard, slog.LevelError+1)
}

// SetupForTesting routes slog to w for the duration of the test.
func SetupForTesting(t *testing.T, w io.Writer, level slog.Level) {
	original := slog.Default()
	install(w, level)
	t.Cleanup(func() {
		slog.SetDefault(original)
	})
}

func install(w io.Writer, level slog.Level) {
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
}
