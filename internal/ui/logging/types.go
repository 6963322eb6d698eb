package logging

import (
	"context"

	"github.com/pulumi-idp/idp-console/internal/api"
	"github.com/pulumi-idp/idp-console/internal/wsapi"
)

// LogLine is one transcript entry. Insertion order is display order.
type LogLine = api.LogLine

// LogProvider abstracts the mechanism for fetching logs (websocket stream, paginated REST).
// It's framework-agnostic and can be used from Cobra commands, Bubbletea models, or anywhere else.
type LogProvider interface {
	// Collect delivers batches to callback in order and returns when the
	// source is exhausted, the context is cancelled, or an error occurs.
	// If callback returns an error, collection stops and that error is returned.
	Collect(ctx context.Context, callback func(Batch) error) error
}

// ProviderFunc adapts a plain function to LogProvider
type ProviderFunc func(ctx context.Context, callback func(Batch) error) error

func (f ProviderFunc) Collect(ctx context.Context, callback func(Batch) error) error {
	return f(ctx, callback)
}

// Batch is one delivery from a LogProvider
type Batch struct {
	// Lines to append, in order
	Lines []LogLine

	// Opened is set on the single delivery that marks a stream as connected
	Opened bool

	// Err is an in-band failure reported by the source while it stays connected
	Err string
}

// SessionKey identifies the deployment whose transcript a Session shows
type SessionKey struct {
	Organization string
	Project      string
	Stack        string
	DeploymentID string
}

// Complete reports whether every part of the key is set. Incomplete keys never open a transport.
func (k SessionKey) Complete() bool {
	return k.Organization != "" && k.Project != "" && k.Stack != "" && k.DeploymentID != ""
}

func (k SessionKey) String() string {
	return k.Organization + "/" + k.Project + "/" + k.Stack + "@" + k.DeploymentID
}

func (k SessionKey) ref() wsapi.DeploymentRef {
	return wsapi.DeploymentRef{
		Organization: k.Organization,
		Project:      k.Project,
		Stack:        k.Stack,
		DeploymentID: k.DeploymentID,
	}
}
