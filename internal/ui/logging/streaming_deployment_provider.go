package logging

import (
	"context"
	"log/slog"

	"github.com/pulumi-idp/idp-console/internal/wsapi"
)

type streamingDeploymentProvider struct {
	client wsapi.Client
	key    SessionKey
}

type StreamingDeploymentLogProviderConfig struct {
	Client wsapi.Client
	Key    SessionKey
}

// NewStreamingDeploymentLogProvider streams a deployment's live log socket.
// It delivers one Opened batch after the handshake, then one batch per frame.
func NewStreamingDeploymentLogProvider(cfg StreamingDeploymentLogProviderConfig) LogProvider {
	return &streamingDeploymentProvider{
		client: cfg.Client,
		key:    cfg.Key,
	}
}

func (p *streamingDeploymentProvider) Collect(ctx context.Context, callback func(Batch) error) error {
	var openErr error

	onOpen := func() {
		openErr = callback(Batch{Opened: true})
	}

	return p.client.StreamDeploymentLogs(ctx, p.key.ref(), onOpen, func(msg wsapi.DeploymentLogMessage) error {
		if openErr != nil {
			return openErr
		}

		if msg.IsError() {
			slog.Warn("Deployment log stream reported an error", "deployment", p.key.String(), "error", msg.Error)
			return callback(Batch{Err: msg.Error})
		}

		slog.Debug("Streamed log batch", "deployment", p.key.String(), "lines", len(msg.Lines))
		return callback(Batch{Lines: msg.Lines})
	})
}
