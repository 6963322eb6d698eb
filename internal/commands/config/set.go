package config

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pulumi-idp/idp-console/internal/ui"
	"github.com/pulumi-idp/idp-console/pkg/config"
)

func newSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Long: `Set a configuration value in ~/.idp/config.yaml

Examples:
  idpctl config set api-url https://console.example.com
  idpctl config set token "$(cat ~/.idp-token)"
  idpctl config set skip-version-check true`,
		Args: cobra.ExactArgs(2),
		RunE: runSet,
	}
}

func runSet(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true

	key, value := args[0], args[1]

	typed, err := config.SetValue(key, value)
	if err != nil {
		var unknown *config.UnknownKeyError
		if errors.As(err, &unknown) {
			fmt.Fprintf(cmd.ErrOrStderr(), "%s\n", unknown.Usage()) //nolint:errcheck // best-effort hint
			return ui.NewValidationError(err)
		}
		return ui.NewConfigurationError(err)
	}

	if config.NormalizeKey(key) == "token" {
		typed = config.MaskToken(value)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Set %s = %v\n", key, typed) //nolint:errcheck // stdout
	return nil
}
