package logging

import (
	"errors"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// StatusKind is the connection state of a Session
type StatusKind int

const (
	StatusIdle StatusKind = iota
	StatusConnecting
	StatusLive
	StatusDisconnected
	StatusFailed
)

func (k StatusKind) String() string {
	switch k {
	case StatusIdle:
		return "idle"
	case StatusConnecting:
		return "connecting"
	case StatusLive:
		return "live"
	case StatusDisconnected:
		return "disconnected"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// ConnectionStatus is a StatusKind plus, for StatusFailed, the reason shown to the user
type ConnectionStatus struct {
	Kind   StatusKind
	Reason string
}

// Failed builds a failed status carrying reason verbatim
func Failed(reason string) ConnectionStatus {
	return ConnectionStatus{Kind: StatusFailed, Reason: reason}
}

// IsTerminal reports whether the status only changes through a new key or a refresh
func (s ConnectionStatus) IsTerminal() bool {
	return s.Kind == StatusDisconnected || s.Kind == StatusFailed
}

// String renders the status as a badge label, e.g. "Live" or "Failed: stack not found"
func (s ConnectionStatus) String() string {
	label := cases.Title(language.English).String(s.Kind.String())
	if s.Kind == StatusFailed && s.Reason != "" {
		return label + ": " + s.Reason
	}
	return label
}

// Err returns the failure reason as an error, nil unless the status is Failed
func (s ConnectionStatus) Err() error {
	if s.Kind != StatusFailed {
		return nil
	}
	if s.Reason == "" {
		return errors.New("log stream failed")
	}
	return errors.New(s.Reason)
}
