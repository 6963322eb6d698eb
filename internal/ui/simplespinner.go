package ui

import (
	"fmt"
	"io"
	"sync"
	"time"
)

// SimpleSpinner animates a single status line without bubbletea. Used in
// plain output mode while the deployment is being resolved. On a
// non-terminal writer it prints nothing.
type SimpleSpinner struct {
	out     io.Writer
	tty     bool
	message string
	frames  []string

	stopOnce sync.Once
	stop     chan struct{}
	done     chan struct{}
}

// NewSimpleSpinner returns a spinner that draws message to out when tty is set
func NewSimpleSpinner(out io.Writer, tty bool, message string) *SimpleSpinner {
	return &SimpleSpinner{
		out:     out,
		tty:     tty,
		message: message,
		frames:  []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"},
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
}

func (s *SimpleSpinner) Start() {
	if !s.tty {
		close(s.done)
		return
	}

	go func() {
		defer close(s.done)
		ticker := time.NewTicker(80 * time.Millisecond)
		defer ticker.Stop()

		for i := 0; ; i++ {
			select {
			case <-s.stop:
				fmt.Fprint(s.out, "\r\033[K")
				return
			case <-ticker.C:
				fmt.Fprintf(s.out, "\r%s %s", s.frames[i%len(s.frames)], s.message)
			}
		}
	}()
}

// Stop clears the line and waits for the animation to end. Safe to call twice.
func (s *SimpleSpinner) Stop() {
	s.stopOnce.Do(func() { close(s.stop) })
	<-s.done
}
