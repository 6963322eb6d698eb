// Package bugsnag reports panics and internal errors from idpctl.
// Reporting is off unless an API key is compiled in and telemetry is enabled.
package bugsnag

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"strings"
	"sync"

	"github.com/bugsnag/bugsnag-go/v2"

	"github.com/pulumi-idp/idp-console/internal/auth"
	"github.com/pulumi-idp/idp-console/internal/version"
	"github.com/pulumi-idp/idp-console/pkg/config"
)

// Build-time variables, e.g.
// go build -ldflags "-X github.com/pulumi-idp/idp-console/pkg/bugsnag.BugsnagAPIKey=key"
var (
	BugsnagAPIKey       = ""
	DefaultReleaseStage = "prod"
)

var (
	initOnce sync.Once
	enabled  bool
)

// Initialize configures the client once per process
func Initialize() {
	initOnce.Do(func() {
		cfg, _ := config.Load() // A missing config keeps the default (enabled) telemetry choice
		enabled = configure(cfg)
	})
}

func configure(cfg *config.Config) bool {
	if cfg != nil && !cfg.IsTelemetryEnabled() {
		return false
	}

	apiKey := BugsnagAPIKey
	if envKey := os.Getenv("BUGSNAG_API_KEY"); envKey != "" {
		apiKey = envKey
	}
	if apiKey == "" {
		return false
	}

	releaseStage := os.Getenv("IDP_ENV")
	if releaseStage == "" {
		releaseStage = DefaultReleaseStage
	}

	bugsnag.Configure(bugsnag.Configuration{
		APIKey:              apiKey,
		ReleaseStage:        releaseStage,
		AppVersion:          version.Version,
		AppType:             "cli",
		ProjectPackages:     []string{"main", "github.com/pulumi-idp/idp-console"},
		NotifyReleaseStages: []string{"prod", "dev", "local"},
		PanicHandler:        func() {},
		Synchronous:         false,
		AutoCaptureSessions: true,
	})

	bugsnag.OnBeforeNotify(func(event *bugsnag.Event, _ *bugsnag.Configuration) error {
		event.MetaData.Add("system", "os_type", runtime.GOOS)
		event.MetaData.Add("system", "os_arch", runtime.GOARCH)
		event.MetaData.Add("system", "go_version", runtime.Version())

		if cfg == nil {
			return nil
		}
		if userID := auth.Subject(cfg.Token); userID != "" {
			event.User = &bugsnag.User{Id: userID}
		}
		return nil
	})

	return true
}

// IsEnabled reports whether errors are actually being sent
func IsEnabled() bool {
	return enabled
}

// NotifyError reports an unexpected failure. User cancellations are ignored.
func NotifyError(ctx context.Context, err error) {
	notify(ctx, err, bugsnag.SeverityError)
}

// NotifyWarning reports a degraded but recoverable condition
func NotifyWarning(ctx context.Context, err error) {
	notify(ctx, err, bugsnag.SeverityWarning)
}

// NotifyWithMetadata reports err with extra tabs of metadata attached
func NotifyWithMetadata(ctx context.Context, err error, severity any, metadata bugsnag.MetaData) {
	notify(ctx, err, severity, metadata)
}

func notify(ctx context.Context, err error, rawData ...any) {
	Initialize()
	if !enabled || err == nil || IsUserCancellation(err) {
		return
	}

	_ = bugsnag.Notify(err, append([]any{ctx}, rawData...)...)
}

// NotifyOnPanic reports a panic and re-panics. Use with defer.
func NotifyOnPanic(ctx context.Context) {
	if r := recover(); r != nil {
		var err error
		switch x := r.(type) {
		case error:
			err = fmt.Errorf("panic: %w", x)
		default:
			err = fmt.Errorf("panic: %v", r)
		}

		NotifyError(ctx, err)
		panic(r)
	}
}

// SetCommandContext attaches the running command to every later report
func SetCommandContext(command string, args []string) {
	Initialize()
	if !enabled {
		return
	}

	bugsnag.OnBeforeNotify(func(event *bugsnag.Event, _ *bugsnag.Configuration) error {
		event.MetaData.Add("command", "name", command)
		if len(args) > 0 {
			event.MetaData.Add("command", "args", strings.Join(args, " "))
		}
		return nil
	})
}

// IsUserCancellation identifies errors caused by the user stopping the command
func IsUserCancellation(err error) bool {
	if err == nil {
		return false
	}

	errStr := err.Error()
	return strings.Contains(errStr, "context canceled") ||
		strings.Contains(errStr, "operation cancelled") ||
		strings.Contains(errStr, "user cancelled")
}
