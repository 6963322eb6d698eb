package wsapi

import (
	"encoding/json"
	"fmt"

	"github.com/pulumi-idp/idp-console/internal/api"
)

// DeploymentLogMessage is one frame of the live deployment log stream.
// A frame carries either an in-band error or a batch of lines.
type DeploymentLogMessage struct {
	// Lines is the batch to append, in order. Empty when Error is set.
	Lines []api.LogLine

	// Error is a server-side failure reported over the open socket
	Error string
}

// IsError reports whether the frame is an in-band error
func (m DeploymentLogMessage) IsError() bool {
	return m.Error != ""
}

// rawDeploymentLogMessage is the JSON the server writes. It reuses the paginated
// response shape, so nextToken may be present and is ignored.
type rawDeploymentLogMessage struct {
	Lines     []api.LogLine `json:"lines"`
	NextToken string        `json:"nextToken,omitempty"`
	Error     string        `json:"error,omitempty"`
}

// parseMessage decodes a text frame. An error payload wins over any lines in the same frame.
func parseMessage(data []byte) (DeploymentLogMessage, error) {
	var raw rawDeploymentLogMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return DeploymentLogMessage{}, fmt.Errorf("failed to unmarshal message: %w", err)
	}

	if raw.Error != "" {
		return DeploymentLogMessage{Error: raw.Error}, nil
	}

	return DeploymentLogMessage{Lines: raw.Lines}, nil
}
