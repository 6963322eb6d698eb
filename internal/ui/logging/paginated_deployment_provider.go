package logging

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/pulumi-idp/idp-console/internal/api"
)

type paginatedDeploymentProvider struct {
	client api.Client
	key    SessionKey
}

type PaginatedDeploymentLogProviderConfig struct {
	Client api.Client
	Key    SessionKey
}

// NewPaginatedDeploymentLogProvider rebuilds a deployment's full transcript by
// walking the paginated endpoint from the first page until nextToken runs out.
// Pages are fetched strictly one after another, one batch per page.
func NewPaginatedDeploymentLogProvider(cfg PaginatedDeploymentLogProviderConfig) LogProvider {
	return &paginatedDeploymentProvider{
		client: cfg.Client,
		key:    cfg.Key,
	}
}

func (p *paginatedDeploymentProvider) Collect(ctx context.Context, callback func(Batch) error) error {
	token := ""

	for page := 1; ; page++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		resp, err := p.client.FetchDeploymentLogs(ctx,
			p.key.Organization, p.key.Project, p.key.Stack, p.key.DeploymentID, token)
		if err != nil {
			return fmt.Errorf("failed to fetch logs: %w", err)
		}

		slog.Debug("Fetched log page", "deployment", p.key.String(), "page", page, "lines", len(resp.Lines), "hasMore", resp.HasMore())

		if err := callback(Batch{Lines: resp.Lines}); err != nil {
			return err
		}

		if !resp.HasMore() {
			return nil
		}
		token = resp.NextToken
	}
}
