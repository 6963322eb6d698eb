package workspace

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pulumi-idp/idp-console/internal/ui"
	"github.com/pulumi-idp/idp-console/pkg/projectconfig"
)

func newShowCmd() *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the workspace file that applies to this directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true

			path, err := projectconfig.Find(dir)
			if errors.Is(err, projectconfig.ErrNotFound) {
				return ui.NewValidationError(fmt.Errorf("%w. Run `idpctl workspace init` to create one", err))
			}
			if err != nil {
				return ui.NewFileSystemError(err)
			}

			cfg, err := projectconfig.Load(path)
			if err != nil {
				return ui.NewValidationError(err)
			}

			w := cfg.Workload
			//nolint:errcheck // stdout
			fmt.Fprintf(cmd.OutOrStdout(), "%s\n  organization: %s\n  project:      %s\n  stack:        %s\n",
				path, orUnset(w.Organization), orUnset(w.Project), orUnset(w.Stack))
			return nil
		},
	}

	cmd.Flags().StringVar(&dir, "dir", ".", "Directory to search from")
	return cmd
}

func orUnset(v string) string {
	if v == "" {
		return "(unset)"
	}
	return v
}
