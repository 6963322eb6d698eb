package config

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pulumi-idp/idp-console/internal/ui"
	"github.com/pulumi-idp/idp-console/pkg/config"
)

func newGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Get a configuration value",
		Long: `Get a configuration value from ~/.idp/config.yaml

Examples:
  idpctl config get api-url
  IDP_ENV=dev idpctl config get stream-url`,
		Args: cobra.ExactArgs(1),
		RunE: runGet,
	}
}

func runGet(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true

	value, err := config.GetValue(args[0])
	if err != nil {
		var unknown *config.UnknownKeyError
		if errors.As(err, &unknown) {
			return ui.NewValidationError(fmt.Errorf("%w. Run 'idpctl config set --help' for valid keys", err))
		}
		return ui.NewConfigurationError(err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), value) //nolint:errcheck // stdout
	return nil
}
