package commands

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	configCmd "github.com/pulumi-idp/idp-console/internal/commands/config"
	workspaceCmd "github.com/pulumi-idp/idp-console/internal/commands/workspace"
	"github.com/pulumi-idp/idp-console/internal/ui"
	"github.com/pulumi-idp/idp-console/internal/version"
	"github.com/pulumi-idp/idp-console/pkg/bugsnag"
	"github.com/pulumi-idp/idp-console/pkg/config"
	"github.com/pulumi-idp/idp-console/pkg/logrium"
)

func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "idpctl",
		Short: "IDP console CLI",
		Long:  "Command line interface for the internal developer platform console",
		// Errors are printed by main. Usage stays on so unknown commands show it;
		// subcommands set SilenceUsage themselves.
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			verbose, _ := cmd.Flags().GetBool("verbose")
			displayOpts := ui.NewDisplayConfig(cmd, verbose)

			cfg, err := config.Load()
			if err != nil {
				return ui.NewConfigurationError(fmt.Errorf("failed to load config: %w", err))
			}

			if verbose {
				logFile, err := logrium.Setup(displayOpts.IsInteractive, cfg.GetLogLevel())
				if err != nil {
					return ui.NewInternalError(fmt.Errorf("failed to set up logger: %w", err))
				}
				if logFile != "" {
					fmt.Fprintf(cmd.ErrOrStderr(), "Debug logs: %s\n", logFile)
				}
			} else {
				logrium.Disable()
			}

			slog.Debug("Config loaded", "command", cmd.CommandPath())

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			ctx = context.WithValue(ctx, config.GetContextKey(), cfg)
			ctx = ui.WithDisplayConfig(ctx, displayOpts)
			cmd.SetContext(ctx)

			bugsnag.SetCommandContext(cmd.CommandPath(), args)

			if cmd.Name() != "version" && !isConfigCommand(cmd) {
				version.PrintUpdateNotification(ctx, cmd.ErrOrStderr(), cfg.SkipVersionCheck)
			}
			return nil
		},
	}

	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().Bool("no-color", false, "Disable colored output and animations")
	rootCmd.PersistentFlags().Bool("no-ansi", false, "Disable colored output and animations (equivalent to --no-color)")

	rootCmd.AddCommand(NewLogsCmd())
	rootCmd.AddCommand(NewVersionCmd())
	rootCmd.AddCommand(configCmd.NewConfigCmd())
	rootCmd.AddCommand(workspaceCmd.NewWorkspaceCmd())

	return rootCmd
}

func isConfigCommand(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Name() == "config" {
			return true
		}
	}
	return false
}
