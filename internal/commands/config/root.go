package config

import (
	"github.com/spf13/cobra"
)

// NewConfigCmd creates the config command group
func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage CLI configuration",
		Long: `Manage CLI configuration settings.

Configuration is stored in ~/.idp/config.yaml (override with IDP_CONFIG_PATH).
Endpoint and token keys are kept per environment (IDP_ENV=prod|dev|local).

Available subcommands:
  set   - Set a configuration value
  get   - Get a configuration value
  list  - List configuration for the current environment`,
	}

	cmd.AddCommand(newSetCmd())
	cmd.AddCommand(newGetCmd())
	cmd.AddCommand(newListCmd())

	return cmd
}
