package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/avast/retry-go/v4"

	"github.com/pulumi-idp/idp-console/internal/auth"
	"github.com/pulumi-idp/idp-console/pkg/config"
)

// client talks to the console backend's /api/workloads endpoints
type client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

var _ Client = (*client)(nil)

// NewClient creates a client for the environment selected in cfg.
// It fails early when the configured token is an expired JWT.
func NewClient(cfg *config.Config) (Client, error) {
	token, err := auth.ResolveToken(cfg)
	if err != nil {
		return nil, fmt.Errorf("authentication error: %w", err)
	}

	return newClient(cfg.GetEnvConfig().APIUrl, token, &http.Client{Timeout: 30 * time.Second}), nil
}

func newClient(baseURL, token string, httpClient *http.Client) *client {
	return &client{
		baseURL:    baseURL,
		token:      token,
		httpClient: httpClient,
	}
}

// request issues a GET against path, retrying transport failures once.
// Non-2xx responses are returned as *StatusError without a retry.
func (c *client) request(ctx context.Context, path string) ([]byte, error) {
	var respBody []byte
	attempt := 0
	reqURL := c.baseURL + "/" + path

	err := retry.Do(
		func() error {
			attempt++
			slog.Debug("API request", "method", http.MethodGet, "url", reqURL, "attempt", attempt)

			req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
			if err != nil {
				return retry.Unrecoverable(fmt.Errorf("failed to create request: %w", err))
			}
			req.Header.Set("Accept", "application/json")
			req.Header.Set("X-Source", "cli")
			if c.token != "" {
				req.Header.Set("Authorization", "Bearer "+c.token)
			}

			startTime := time.Now()
			resp, err := c.httpClient.Do(req)
			duration := time.Since(startTime)
			if err != nil {
				if ctx.Err() != nil {
					return retry.Unrecoverable(ctx.Err())
				}
				slog.Warn("HTTP request failed", "error", err, "path", path, "duration", duration, "attempt", attempt)
				return fmt.Errorf("request failed: %w", err)
			}
			defer resp.Body.Close() //nolint:errcheck // Deferred close, error not actionable

			respBody, err = io.ReadAll(resp.Body)
			if err != nil {
				return fmt.Errorf("failed to read response: %w", err)
			}

			slog.Debug("API response", "statusCode", resp.StatusCode, "responseSize", len(respBody), "duration", duration, "path", path)

			if resp.StatusCode >= 200 && resp.StatusCode < 300 {
				return nil
			}

			statusErr := &StatusError{StatusCode: resp.StatusCode, Message: errorMessage(respBody)}
			slog.Error("API error", "statusCode", resp.StatusCode, "message", statusErr.Message, "path", path)
			return retry.Unrecoverable(statusErr)
		},
		retry.Context(ctx),
		retry.Attempts(2),
		retry.Delay(200*time.Millisecond),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		return nil, err
	}

	return respBody, nil
}

// errorMessage extracts {"error"} or {"message"} from a failure body, falling back to the raw text
func errorMessage(body []byte) string {
	var errResp ErrorResponse
	if err := json.Unmarshal(body, &errResp); err == nil {
		if errResp.Error != "" {
			return errResp.Error
		}
		if errResp.Message != "" {
			return errResp.Message
		}
	}
	return string(body)
}

// GetWorkload retrieves a workload and the id of its latest deployment
func (c *client) GetWorkload(ctx context.Context, organization, project, stack string) (*Workload, error) {
	path := fmt.Sprintf("api/workloads/%s/%s/%s",
		url.PathEscape(organization), url.PathEscape(project), url.PathEscape(stack))

	body, err := c.request(ctx, path)
	if err != nil {
		return nil, err
	}

	var workload Workload
	if err := json.Unmarshal(body, &workload); err != nil {
		return nil, fmt.Errorf("failed to parse workload response: %w", err)
	}

	return &workload, nil
}

// FetchDeploymentLogs retrieves one page of deployment logs
func (c *client) FetchDeploymentLogs(ctx context.Context, organization, project, stack, deploymentID, continuationToken string) (*LogPage, error) {
	path := fmt.Sprintf("api/workloads/%s/%s/%s/deployments/%s/logs",
		url.PathEscape(organization), url.PathEscape(project), url.PathEscape(stack), url.PathEscape(deploymentID))
	if continuationToken != "" {
		path += "?" + url.Values{"continuationToken": {continuationToken}}.Encode()
	}

	body, err := c.request(ctx, path)
	if err != nil {
		return nil, err
	}

	var page LogPage
	if len(body) == 0 {
		return &page, nil
	}
	if err := json.Unmarshal(body, &page); err != nil {
		return nil, fmt.Errorf("failed to parse logs response: %w", err)
	}

	return &page, nil
}

// AsStatusError unwraps err to a *StatusError if it carries one
func AsStatusError(err error) (*StatusError, bool) {
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr, true
	}
	return nil, false
}
