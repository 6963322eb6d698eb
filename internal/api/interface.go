package api

import "context"

type Client interface {
	// GetWorkload looks up a workload and its latest deployment
	GetWorkload(ctx context.Context, organization, project, stack string) (*Workload, error)

	// FetchDeploymentLogs returns one page of a deployment's transcript.
	// An empty continuationToken requests the first page.
	FetchDeploymentLogs(ctx context.Context, organization, project, stack, deploymentID, continuationToken string) (*LogPage, error)
}
