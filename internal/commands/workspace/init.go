package workspace

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/pulumi-idp/idp-console/internal/ui"
	"github.com/pulumi-idp/idp-console/pkg/projectconfig"
)

type initOptions struct {
	dir          string
	organization string
	project      string
	stack        string
	force        bool
}

func newInitCmd() *cobra.Command {
	opts := initOptions{}

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create an idp.toml in the current directory",
		Long: `Create an idp.toml workspace file.

Example:
  idpctl workspace init --organization acme --project web --stack dev`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			return runInit(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.dir, "dir", ".", "Directory to create the workspace file in")
	cmd.Flags().StringVar(&opts.organization, "organization", "", "Organization name")
	cmd.Flags().StringVar(&opts.project, "project", "", "Project name")
	cmd.Flags().StringVar(&opts.stack, "stack", "", "Stack name")
	cmd.Flags().BoolVar(&opts.force, "force", false, "Overwrite an existing workspace file")

	return cmd
}

func runInit(cmd *cobra.Command, opts initOptions) error {
	if opts.organization == "" && opts.project == "" && opts.stack == "" {
		return ui.NewValidationError(fmt.Errorf("at least one of --organization, --project or --stack is required"))
	}

	cfg := &projectconfig.ProjectConfig{Workload: projectconfig.WorkloadConfig{
		Organization: opts.organization,
		Project:      opts.project,
		Stack:        opts.stack,
	}}
	if err := projectconfig.Validate(cfg); err != nil {
		return ui.NewValidationError(err)
	}

	path := filepath.Join(opts.dir, projectconfig.FileName)
	if err := projectconfig.Save(path, cfg, opts.force); err != nil {
		return ui.NewFileSystemError(err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "✓ Created %s\n", path) //nolint:errcheck // stdout
	return nil
}
