package ui

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// SignalCancelMsg is sent to the running program on SIGINT or SIGTERM
type SignalCancelMsg struct {
	Signal os.Signal
}

const defaultShutdownTimeout = 500 * time.Millisecond

// HandleSignals replaces bubbletea's own signal handling so a model can
// close its log session before quitting. The first signal becomes a
// SignalCancelMsg; a second signal, or a model that has not quit within
// shutdownTimeout, exits the process with 130.
//
// Must be called before p.Run. Call the returned func once Run returns.
func HandleSignals(p *tea.Program, shutdownTimeout time.Duration, stderr io.Writer) func() {
	if shutdownTimeout <= 0 {
		shutdownTimeout = defaultShutdownTimeout
	}
	tea.WithoutSignalHandler()(p)

	sigCh := make(chan os.Signal, 1)
	doneCh := make(chan struct{})
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	go func() {
		defer signal.Stop(sigCh)

		var sig os.Signal
		select {
		case sig = <-sigCh:
		case <-doneCh:
			return
		}
		p.Send(SignalCancelMsg{Signal: sig})

		timer := time.NewTimer(shutdownTimeout)
		defer timer.Stop()

		select {
		case <-sigCh:
			fmt.Fprintln(stderr, "\nForce quitting...")
			os.Exit(130)
		case <-timer.C:
			fmt.Fprintln(stderr, "\nTimed out closing the log stream, force quitting...")
			os.Exit(130)
		case <-doneCh:
		}
	}()

	return func() { close(doneCh) }
}
