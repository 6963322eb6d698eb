package config

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pulumi-idp/idp-console/pkg/config"
)

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List configuration for the current environment",
		Long: `List configuration keys and values from ~/.idp/config.yaml.
Tokens are masked.

Example:
  idpctl config list`,
		Args: cobra.NoArgs,
		RunE: runList,
	}
}

func runList(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true
	out := cmd.OutOrStdout()

	settings := config.ListSettings()
	if len(settings) == 0 {
		fmt.Fprintf(out, "No configuration found for environment %q\n", config.GetEnvironment()) //nolint:errcheck // stdout
		return nil
	}

	for _, s := range settings {
		fmt.Fprintf(out, "%s: %v\n", s.Key, s.Value) //nolint:errcheck // stdout
	}
	return nil
}
