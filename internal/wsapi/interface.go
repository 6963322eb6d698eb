package wsapi

import (
	"context"
)

// DeploymentRef addresses one deployment of a workload
type DeploymentRef struct {
	Organization string
	Project      string
	Stack        string
	DeploymentID string
}

// Client defines the interface for websocket API operations.
type Client interface {
	// StreamDeploymentLogs opens the live log socket for ref and delivers every
	// well-formed frame to callback, in arrival order. Malformed frames are
	// logged and skipped. onOpen, if non-nil, runs once after the handshake succeeds.
	//
	// There is no reconnect: the call returns when the connection ends.
	// Returns nil when the server closes the connection normally.
	// Returns context.Canceled or context.DeadlineExceeded when the context is done.
	// Returns an error for dial failures, read failures, or a failing callback.
	StreamDeploymentLogs(ctx context.Context, ref DeploymentRef, onOpen func(), callback func(DeploymentLogMessage) error) error
}
