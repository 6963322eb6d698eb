package api

import (
	"fmt"
	"time"
)

// zeroTimestamp is what the backend emits for a log line without a time
const zeroTimestamp = "0001-01-01T00:00:00Z"

// LogLine is one entry of a deployment transcript, as sent by both log endpoints.
// Every field is optional; a line may carry a header, text, or both.
type LogLine struct {
	Header    string `json:"header,omitempty"`
	Timestamp string `json:"timestamp,omitempty"`
	Line      string `json:"line,omitempty"`
}

// Time returns the parsed timestamp. ok is false for absent, unparseable or
// zero-sentinel timestamps, none of which have a display value.
func (l LogLine) Time() (t time.Time, ok bool) {
	if l.Timestamp == "" || l.Timestamp == zeroTimestamp {
		return time.Time{}, false
	}

	t, err := time.Parse(time.RFC3339Nano, l.Timestamp)
	if err != nil || t.IsZero() {
		return time.Time{}, false
	}

	return t, true
}

// DisplayTimestamp renders the timestamp as local wall-clock time, or "" when it has no display value
func (l LogLine) DisplayTimestamp() string {
	t, ok := l.Time()
	if !ok {
		return ""
	}
	return t.Local().Format("15:04:05")
}

// LogPage is one response of the paginated log endpoint
type LogPage struct {
	Lines     []LogLine `json:"lines"`
	NextToken string    `json:"nextToken,omitempty"`
}

// HasMore reports whether another page follows this one
func (p *LogPage) HasMore() bool {
	return p.NextToken != ""
}

// Workload is the console's view of one provisioned stack
type Workload struct {
	BlueprintName string        `json:"blueprintName"`
	Blueprint     string        `json:"blueprint"`
	Name          string        `json:"name"`
	ProjectID     string        `json:"projectId"`
	Stage         string        `json:"stage"`
	Team          string        `json:"team"`
	Tags          []Tag         `json:"tags"`
	Stack         WorkloadStack `json:"stack"`
}

// Tag is a key/value label on a workload
type Tag struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// WorkloadStack carries the backing stack's state, including its latest deployment
type WorkloadStack struct {
	OrgName       string            `json:"orgName"`
	ProjectName   string            `json:"projectName"`
	StackName     string            `json:"stackName"`
	LastUpdate    int64             `json:"lastUpdate"`
	ResourceCount int               `json:"resourceCount"`
	Result        string            `json:"result"`
	DeploymentID  string            `json:"deploymentId"`
	Tags          map[string]string `json:"tags,omitempty"`
	Version       int               `json:"version"`
}

// ErrorResponse is the error body the console returns on non-2xx responses
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// StatusError is returned for any non-2xx response. It is never retried.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("API error (%d)", e.StatusCode)
	}
	return fmt.Sprintf("API error (%d): %s", e.StatusCode, e.Message)
}

// IsAuthError reports whether the console rejected the credentials
func (e *StatusError) IsAuthError() bool {
	return e.StatusCode == 401 || e.StatusCode == 403
}
