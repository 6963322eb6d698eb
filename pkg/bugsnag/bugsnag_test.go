package bugsnag

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pulumi-idp/idp-console/pkg/config"
)

func TestIsUserCancellation(t *testing.T) {
	tcs := []struct {
		name     string
		err      error
		expected bool
	}{
		{name: "nil", err: nil, expected: false},
		{name: "context canceled", err: fmt.Errorf("stream: %w", context.Canceled), expected: true},
		{name: "user cancelled", err: errors.New("user cancelled"), expected: true},
		{name: "api failure", err: errors.New("failed to fetch logs: status 500"), expected: false},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, IsUserCancellation(tc.err))
		})
	}
}

func TestConfigure_DisabledWithoutKey(t *testing.T) {
	t.Setenv("BUGSNAG_API_KEY", "")
	t.Setenv("IDP_TELEMETRY_DISABLED", "")

	assert.False(t, configure(&config.Config{}))
}

func TestConfigure_DisabledByTelemetryOptOut(t *testing.T) {
	t.Setenv("BUGSNAG_API_KEY", "some-key")
	t.Setenv("IDP_TELEMETRY_DISABLED", "true")

	assert.False(t, configure(&config.Config{}))
}
