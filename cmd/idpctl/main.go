package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/pulumi-idp/idp-console/internal/commands"
	"github.com/pulumi-idp/idp-console/internal/ui"
	"github.com/pulumi-idp/idp-console/pkg/bugsnag"
)

func main() {
	bugsnag.Initialize()
	defer bugsnag.NotifyOnPanic(context.Background())

	rootCmd := commands.NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(handleError(rootCmd.Usage, err))
	}
}

// handleError prints err the way its origin expects and returns the exit code
func handleError(usage func() error, err error) int {
	errMsg := err.Error()
	switch {
	case strings.HasPrefix(errMsg, "unknown command"):
		// Subcommands silence usage, so show it here
		_ = usage()
		fmt.Fprintln(os.Stderr)
		fmt.Fprintln(os.Stderr, err)
	case strings.HasPrefix(errMsg, "unknown flag"):
		// Cobra already printed usage
		fmt.Fprintln(os.Stderr, err)
	default:
		if uiErr, ok := ui.AsUIError(err); ok {
			if uiErr.SilentExit {
				return 0
			}
			if uiErr.Type == ui.ErrorTypeInternal || uiErr.Type == ui.ErrorTypeAPI {
				bugsnag.NotifyError(context.Background(), err)
			}
		}
		fmt.Fprint(os.Stderr, ui.FormatError(err))
	}
	return 1
}
