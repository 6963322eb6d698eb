package ui

import (
	"context"
	"errors"
	"log/slog"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

type displayConfigKey struct{}

// DisplayConfig selects between the full-screen viewer and plain line output
type DisplayConfig struct {
	DisableAnimation bool
	IsInteractive    bool
}

// SimpleOutput is true when lines should be printed rather than drawn
func (d DisplayConfig) SimpleOutput() bool {
	return !d.IsInteractive || d.DisableAnimation
}

// displayInputs are the facts a DisplayConfig is derived from
type displayInputs struct {
	noColor            bool
	noAnsi             bool
	verbose            bool
	stdoutIsTTY        bool
	stderrSameAsStdout bool
}

func resolveDisplayConfig(in displayInputs) DisplayConfig {
	disableAnimation := in.noColor || in.noAnsi

	// Verbose logs on stderr would tear the viewer apart when both streams
	// share a terminal. 2>file keeps the viewer usable.
	verboseForcesSimple := in.verbose && in.stderrSameAsStdout

	return DisplayConfig{
		DisableAnimation: disableAnimation,
		IsInteractive:    in.stdoutIsTTY && !disableAnimation && !verboseForcesSimple,
	}
}

// NewDisplayConfig reads --no-color and --no-ansi and probes the terminal
func NewDisplayConfig(cmd *cobra.Command, verbose bool) DisplayConfig {
	in := displayInputs{verbose: verbose}
	in.noColor, _ = cmd.Flags().GetBool("no-color")
	in.noAnsi, _ = cmd.Flags().GetBool("no-ansi")
	in.stdoutIsTTY = isatty.IsTerminal(os.Stdout.Fd())

	if out, err := os.Stdout.Stat(); err == nil {
		if errOut, err := os.Stderr.Stat(); err == nil {
			in.stderrSameAsStdout = os.SameFile(out, errOut)
		}
	}

	conf := resolveDisplayConfig(in)

	slog.Debug("Display options determined",
		"command", cmd.Name(),
		"no-color", in.noColor,
		"no-ansi", in.noAnsi,
		"verbose", verbose,
		"stdout-is-tty", in.stdoutIsTTY,
		"stderr-same-as-stdout", in.stderrSameAsStdout,
		"is-interactive", conf.IsInteractive,
		"simple-output", conf.SimpleOutput(),
	)

	return conf
}

// WithDisplayConfig stores conf on ctx for subcommands
func WithDisplayConfig(ctx context.Context, conf DisplayConfig) context.Context {
	return context.WithValue(ctx, displayConfigKey{}, conf)
}

// GetDisplayConfigFromContext retrieves the DisplayConfig set by the root command
func GetDisplayConfigFromContext(cmd *cobra.Command) (DisplayConfig, error) {
	ctx := cmd.Context()
	if ctx == nil {
		return DisplayConfig{}, errors.New("command context is nil")
	}

	conf, ok := ctx.Value(displayConfigKey{}).(DisplayConfig)
	if !ok {
		return DisplayConfig{}, errors.New("display options not found in context")
	}
	return conf, nil
}
