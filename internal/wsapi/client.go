package wsapi

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/gorilla/websocket"
	"golang.org/x/sync/errgroup"

	"github.com/pulumi-idp/idp-console/internal/auth"
	"github.com/pulumi-idp/idp-console/pkg/config"
)

const (
	// pingInterval is how often we send ping frames to keep the connection alive
	pingInterval = 10 * time.Second
	// pongTimeout is how long we wait for a pong response before considering the connection dead
	pongTimeout = 5 * time.Second
	// handshakeTimeout is how long we wait for the websocket handshake
	handshakeTimeout = 5 * time.Second
)

// client implements the Client interface using gorilla/websocket.
type client struct {
	streamURL    string
	token        string
	pingInterval time.Duration
}

var _ Client = (*client)(nil)

// NewClient creates a websocket client for the environment selected in cfg.
func NewClient(cfg *config.Config) (Client, error) {
	token, err := auth.ResolveToken(cfg)
	if err != nil {
		return nil, fmt.Errorf("authentication error: %w", err)
	}

	return newClient(cfg.GetEnvConfig().StreamUrl, token), nil
}

func newClient(streamURL, token string) *client {
	return &client{
		streamURL:    streamURL,
		token:        token,
		pingInterval: pingInterval,
	}
}

// StreamDeploymentLogs implements Client.StreamDeploymentLogs.
func (c *client) StreamDeploymentLogs(ctx context.Context, ref DeploymentRef, onOpen func(), callback func(DeploymentLogMessage) error) error {
	conn, err := c.connect(ctx, ref)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("failed to connect: %w", err)
	}
	defer conn.Close() //nolint:errcheck // Best effort close

	if onOpen != nil {
		onOpen()
	}

	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(c.pingInterval + pongTimeout))
	})

	g, gctx := errgroup.WithContext(ctx)
	readDone := make(chan struct{})

	g.Go(func() error {
		defer close(readDone)
		return c.readLoop(gctx, conn, callback)
	})
	g.Go(func() error {
		c.keepAlive(gctx, conn, readDone)
		return nil
	})

	err = g.Wait()
	if ctx.Err() != nil {
		return ctx.Err()
	}
	return err
}

// readLoop delivers frames until the connection ends
func (c *client) readLoop(ctx context.Context, conn *websocket.Conn, callback func(DeploymentLogMessage) error) error {
	for {
		if err := conn.SetReadDeadline(time.Now().Add(c.pingInterval + pongTimeout)); err != nil {
			return fmt.Errorf("failed to set read deadline: %w", err)
		}

		_, data, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				slog.Debug("WebSocket closed normally")
				return nil
			}
			return fmt.Errorf("read error: %w", err)
		}

		msg, err := parseMessage(data)
		if err != nil {
			slog.Warn("Failed to parse websocket message", "error", err, "size", len(data))
			continue
		}

		if err := callback(msg); err != nil {
			return fmt.Errorf("callback error: %w", err)
		}
	}
}

// keepAlive pings the server until reading stops. On cancellation it sends a
// close frame and closes the connection, which unblocks the pending read.
func (c *client) keepAlive(ctx context.Context, conn *websocket.Conn, readDone <-chan struct{}) {
	ticker := time.NewTicker(c.pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-readDone:
			return
		case <-ctx.Done():
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(time.Second))
			_ = conn.Close()
			return
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(pongTimeout)); err != nil {
				slog.Debug("Failed to send ping", "error", err)
				return
			}
		}
	}
}

// connect dials the deployment log socket.
func (c *client) connect(ctx context.Context, ref DeploymentRef) (*websocket.Conn, error) {
	wsURL, err := DeploymentLogsURL(c.streamURL, ref)
	if err != nil {
		return nil, err
	}

	slog.Debug("Connecting to deployment logs websocket",
		"url", wsURL,
		"organization", ref.Organization,
		"project", ref.Project,
		"stack", ref.Stack,
		"deploymentID", ref.DeploymentID,
	)

	header := http.Header{}
	if c.token != "" {
		header.Set("Authorization", "Bearer "+c.token)
	}

	dialer := websocket.Dialer{
		HandshakeTimeout: handshakeTimeout,
	}

	conn, resp, err := dialer.DialContext(ctx, wsURL, header)
	if err != nil {
		if resp != nil {
			_ = resp.Body.Close()
			return nil, fmt.Errorf("websocket dial failed with status %d: %w", resp.StatusCode, err)
		}
		return nil, fmt.Errorf("websocket dial failed: %w", err)
	}

	slog.Info("Connected to deployment logs websocket", "deploymentID", ref.DeploymentID)

	return conn, nil
}

// DeploymentLogsURL builds the stream endpoint for ref under streamBase (ws:// or wss://)
func DeploymentLogsURL(streamBase string, ref DeploymentRef) (string, error) {
	base, err := url.Parse(streamBase)
	if err != nil {
		return "", fmt.Errorf("invalid stream URL: %w", err)
	}
	if base.Scheme != "ws" && base.Scheme != "wss" {
		return "", fmt.Errorf("invalid stream URL: unsupported scheme %q", base.Scheme)
	}
	if ref.Organization == "" || ref.Project == "" || ref.Stack == "" || ref.DeploymentID == "" {
		return "", errors.New("deployment reference is incomplete")
	}

	return base.JoinPath("api", "workloads", "ws",
		ref.Organization, ref.Project, ref.Stack, "deployments", ref.DeploymentID, "logs").String(), nil
}
