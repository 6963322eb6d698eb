package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"
)

// Environment represents the platform environment the CLI talks to
type Environment string

const (
	EnvProd  Environment = "prod"
	EnvDev   Environment = "dev"
	EnvLocal Environment = "local"
)

// EnvConfig holds environment-specific URLs
type EnvConfig struct {
	// APIUrl is the console backend serving /api/workloads/...
	APIUrl string

	// StreamUrl is the websocket base for the live log endpoint.
	// Derived from APIUrl (http→ws, https→wss) when not set explicitly.
	StreamUrl string
}

// GetEnvironment returns the current environment from IDP_ENV
func GetEnvironment() Environment {
	env := os.Getenv("IDP_ENV")
	if env == "" {
		return EnvProd
	}

	switch Environment(env) {
	case EnvProd, EnvDev, EnvLocal:
		return Environment(env)
	default:
		return EnvProd
	}
}

// GetEnvConfig returns the configuration for the specified environment
func GetEnvConfig(env Environment) (*EnvConfig, error) {
	var apiURL string
	switch env {
	case EnvProd:
		apiURL = getEnvOrDefault("IDP_API_URL", "https://console.idp.internal")
	case EnvDev:
		apiURL = getEnvOrDefault("IDP_API_URL", "https://dev-console.idp.internal")
	case EnvLocal:
		apiURL = getEnvOrDefault("IDP_API_URL", "http://localhost:8080")
	default:
		return nil, fmt.Errorf("invalid environment: %s", env)
	}

	streamURL := os.Getenv("IDP_STREAM_URL")
	if streamURL == "" {
		derived, err := StreamURLFromAPI(apiURL)
		if err != nil {
			return nil, err
		}
		streamURL = derived
	}

	return &EnvConfig{
		APIUrl:    strings.TrimSuffix(apiURL, "/"),
		StreamUrl: strings.TrimSuffix(streamURL, "/"),
	}, nil
}

// StreamURLFromAPI maps an http(s) API base URL to the matching ws(s) base URL
func StreamURLFromAPI(apiURL string) (string, error) {
	u, err := url.Parse(apiURL)
	if err != nil {
		return "", fmt.Errorf("invalid API URL %q: %w", apiURL, err)
	}

	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	case "http":
		u.Scheme = "ws"
	case "ws", "wss":
	default:
		return "", fmt.Errorf("unsupported API URL scheme %q", u.Scheme)
	}

	return strings.TrimSuffix(u.String(), "/"), nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultValue
}
