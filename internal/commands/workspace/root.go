package workspace

import (
	"github.com/spf13/cobra"
)

// NewWorkspaceCmd creates the workspace command group
func NewWorkspaceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "workspace",
		Short: "Manage the idp.toml workspace file",
		Long: `Manage the idp.toml workspace file.

The workspace file pins the organization, project and stack for a directory
so 'idpctl logs' can be run without arguments.`,
	}

	cmd.AddCommand(newInitCmd())
	cmd.AddCommand(newShowCmd())

	return cmd
}
