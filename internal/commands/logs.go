package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/pulumi-idp/idp-console/internal/api"
	"github.com/pulumi-idp/idp-console/internal/ui"
	uiCommands "github.com/pulumi-idp/idp-console/internal/ui/commands"
	"github.com/pulumi-idp/idp-console/internal/ui/logging"
	"github.com/pulumi-idp/idp-console/internal/wsapi"
	"github.com/pulumi-idp/idp-console/pkg/config"
	"github.com/pulumi-idp/idp-console/pkg/projectconfig"
)

type logsOptions struct {
	noFollow  bool
	workspace string
}

func NewLogsCmd() *cobra.Command {
	opts := logsOptions{}

	cmd := &cobra.Command{
		Use:   "logs [ORGANIZATION/PROJECT/STACK] [DEPLOYMENT_ID]",
		Short: "View the logs of a stack deployment",
		Long: `Stream the transcript of a stack deployment, following it live by default.

Parts of the target that are left out are taken from the nearest idp.toml.
Without DEPLOYMENT_ID the stack's latest deployment is shown.

Examples:
  # Follow the latest deployment of a stack
  idpctl logs acme/web/dev

  # A specific deployment, printed once
  idpctl logs acme/web/dev 7f3c2a --no-follow

  # Organization and project from idp.toml
  idpctl logs dev`,
		Args: cobra.RangeArgs(0, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLogsCommand(cmd, args, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.noFollow, "no-follow", false, "Fetch the full transcript once instead of following the live stream")
	cmd.Flags().StringVar(&opts.workspace, "workspace", "", "Path to an idp.toml (default: nearest one above the working directory)")

	return cmd
}

func runLogsCommand(cmd *cobra.Command, args []string, opts logsOptions) error {
	cmd.SilenceUsage = true

	cfg, err := config.GetConfigFromContext(cmd)
	if err != nil {
		return ui.NewConfigurationError(fmt.Errorf("failed to get config: %w", err))
	}

	displayOpts, err := ui.GetDisplayConfigFromContext(cmd)
	if err != nil {
		return ui.NewInternalError(fmt.Errorf("failed to get display options: %w", err))
	}

	ws, err := loadWorkspace(opts.workspace)
	if err != nil {
		return ui.NewValidationError(err)
	}

	key, err := resolveTarget(args, ws)
	if err != nil {
		return ui.NewValidationError(err)
	}

	client, err := api.NewClient(cfg)
	if err != nil {
		return ui.NewConfigurationError(fmt.Errorf("failed to create API client: %w", err))
	}

	if key.DeploymentID == "" {
		spinner := ui.NewSimpleSpinner(cmd.ErrOrStderr(), isatty.IsTerminal(os.Stderr.Fd()), "Resolving latest deployment...")
		spinner.Start()
		key.DeploymentID, err = latestDeployment(cmd.Context(), client, key)
		spinner.Stop()
		if err != nil {
			return err
		}
	}

	var streamClient wsapi.Client
	if !opts.noFollow {
		streamClient, err = wsapi.NewClient(cfg)
		if err != nil {
			return ui.NewConfigurationError(fmt.Errorf("failed to create stream client: %w", err))
		}
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	session := logging.NewSession(ctx, newSessionConfig(key, client, streamClient))
	defer func() {
		session.Close()
		session.Wait()
	}()

	if opts.noFollow {
		// One snapshot, printed and done
		displayOpts.IsInteractive = false
		session.Refresh()
	}

	model := uiCommands.NewLogsView(ctx, uiCommands.LogsConfig{
		DisplayConfig: displayOpts,
		Session:       session,
		Out:           cmd.OutOrStdout(),
	})

	var programOpts []tea.ProgramOption
	if !displayOpts.IsInteractive {
		programOpts = append(programOpts,
			tea.WithoutRenderer(),
			tea.WithInput(nil),
		)
	} else {
		programOpts = append(programOpts, tea.WithAltScreen())
	}

	p := tea.NewProgram(model, programOpts...)
	stopSignals := ui.HandleSignals(p, 0, cmd.ErrOrStderr())

	finalModel, err := p.Run()
	stopSignals()
	if err != nil {
		return ui.NewInternalError(fmt.Errorf("program error: %w", err))
	}

	//nolint:errcheck // Type assertion guaranteed by Bubbletea model structure
	m := finalModel.(*uiCommands.LogsView)
	if err := m.Error(); err != nil {
		if uiErr, ok := ui.AsUIError(err); ok && uiErr.SilentExit {
			return nil
		}
		return err
	}

	return nil
}

// newSessionConfig wires the session's transports. A nil streamClient
// leaves the session without a live source, for --no-follow.
func newSessionConfig(key logging.SessionKey, client api.Client, streamClient wsapi.Client) logging.SessionConfig {
	cfg := logging.SessionConfig{
		Key: key,
		NewPageProvider: func(k logging.SessionKey) logging.LogProvider {
			return logging.NewPaginatedDeploymentLogProvider(logging.PaginatedDeploymentLogProviderConfig{
				Client: client,
				Key:    k,
			})
		},
	}

	if streamClient != nil {
		cfg.NewStreamProvider = func(k logging.SessionKey) logging.LogProvider {
			return logging.NewStreamingDeploymentLogProvider(logging.StreamingDeploymentLogProviderConfig{
				Client: streamClient,
				Key:    k,
			})
		}
	}

	return cfg
}

// loadWorkspace reads the workspace file at path, or the nearest one above
// the working directory when path is empty. No file is not an error.
func loadWorkspace(path string) (*projectconfig.ProjectConfig, error) {
	if path == "" {
		found, err := projectconfig.Find(".")
		if errors.Is(err, projectconfig.ErrNotFound) {
			return nil, nil
		}
		if err != nil {
			return nil, err
		}
		path = found
	}

	return projectconfig.Load(path)
}

// resolveTarget builds the session key from ORGANIZATION/PROJECT/STACK and an
// optional deployment id. The target is read right to left, so "dev" is a
// stack and "web/dev" a project and stack; missing parts come from ws.
func resolveTarget(args []string, ws *projectconfig.ProjectConfig) (logging.SessionKey, error) {
	var key logging.SessionKey
	if ws != nil {
		key.Organization = ws.Workload.Organization
		key.Project = ws.Workload.Project
		key.Stack = ws.Workload.Stack
	}

	if len(args) > 0 {
		parts := strings.Split(args[0], "/")
		if len(parts) > 3 {
			return key, fmt.Errorf("invalid target %q: expected ORGANIZATION/PROJECT/STACK", args[0])
		}
		for _, part := range parts {
			if part == "" {
				return key, fmt.Errorf("invalid target %q: empty name", args[0])
			}
		}

		fields := []*string{&key.Organization, &key.Project, &key.Stack}
		for i, part := range parts {
			*fields[len(fields)-len(parts)+i] = part
		}
	}

	if len(args) > 1 {
		key.DeploymentID = args[1]
	}

	var missing []string
	for _, f := range []struct{ name, value string }{
		{"organization", key.Organization},
		{"project", key.Project},
		{"stack", key.Stack},
	} {
		if f.value == "" {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return key, fmt.Errorf("missing %s: pass ORGANIZATION/PROJECT/STACK or run `idpctl workspace init`", strings.Join(missing, ", "))
	}

	return key, nil
}

// latestDeployment looks up the deployment id of the stack's most recent update
func latestDeployment(ctx context.Context, client api.Client, key logging.SessionKey) (string, error) {
	workload, err := client.GetWorkload(ctx, key.Organization, key.Project, key.Stack)
	if err != nil {
		if statusErr, ok := api.AsStatusError(err); ok {
			switch {
			case statusErr.StatusCode == 404:
				return "", ui.NewValidationError(fmt.Errorf("stack %s/%s/%s not found", key.Organization, key.Project, key.Stack))
			case statusErr.IsAuthError():
				return "", ui.NewConfigurationError(fmt.Errorf("%w: set a token with `idpctl config set token <TOKEN>` or IDP_TOKEN", err))
			}
		}
		return "", ui.NewAPIError(fmt.Errorf("failed to look up stack: %w", err))
	}

	if workload.Stack.DeploymentID == "" {
		return "", ui.NewValidationError(fmt.Errorf("stack %s/%s/%s has no deployments yet", key.Organization, key.Project, key.Stack))
	}
	return workload.Stack.DeploymentID, nil
}
