package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	DefaultConfigDir  = ".idp"
	DefaultConfigFile = "config.yaml"
)

// Config holds the CLI configuration
type Config struct {
	environment      Environment
	envConfig        *EnvConfig
	APIUrl           string // Overrides the environment default when set
	StreamUrl        string // Overrides the derived websocket base when set
	Token            string // Bearer token issued by the console's identity provider
	SkipVersionCheck bool
	LogLevel         string
	TelemetryEnabled *bool // Pointer to distinguish between unset (nil) and explicitly set (true/false)
}

// ValidUserFacingConfigKeys lists config keys that users should interact with
var ValidUserFacingConfigKeys = map[string]bool{
	// Global settings
	"skipversioncheck": true,
	"loglevel":         true,
	"telemetry":        true,

	// Environment-specific settings
	"apiurl":    true,
	"streamurl": true,
	"token":     true,
}

// IsValidUserFacingKey checks if a config key is a recognized user-facing key
func IsValidUserFacingKey(key string) bool {
	return ValidUserFacingConfigKeys[key]
}

// GetConfigKeyDescription returns a description for a config key
func GetConfigKeyDescription(key string) string {
	descriptions := map[string]string{
		"skipversioncheck": "Disable automatic version update checks (true/false)",
		"loglevel":         "Logging level (debug/info/warn/error, default: info)",
		"telemetry":        "Enable error telemetry and crash reporting (true/false, default: true)",
		"apiurl":           "Console API base URL (e.g., https://console.example.com)",
		"streamurl":        "Websocket base URL for live logs (defaults to the API URL with ws/wss)",
		"token":            "Bearer token sent with every request",
	}
	return descriptions[key]
}

// GetEnvironmentPrefixedKey returns the key with environment prefix.
// Users work with unprefixed keys (e.g., "apiurl"); the prefix (e.g., "dev-apiurl") is added here.
func GetEnvironmentPrefixedKey(key string, env Environment) string {
	globalKeys := map[string]bool{
		"skipversioncheck": true,
		"loglevel":         true,
		"telemetry":        true,
	}

	if globalKeys[key] {
		return key
	}

	return getKeyPrefix(env) + key
}

// GetUserFacingKeys returns the list of keys users should interact with
func GetUserFacingKeys() []string {
	return []string{
		"api-url",
		"stream-url",
		"token",
		"log-level",
		"skip-version-check",
		"telemetry",
	}
}

// Load reads the configuration from ~/.idp/config.yaml
func Load() (*Config, error) {
	env := GetEnvironment()
	envConfig, err := GetEnvConfig(env)
	if err != nil {
		return nil, fmt.Errorf("failed to get environment config: %w", err)
	}

	configPath := getConfigPath()
	viper.SetConfigFile(configPath)
	viper.SetConfigType("yaml")

	// Create config file if it doesn't exist
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		if err := ensureConfigDir(); err != nil {
			return nil, fmt.Errorf("failed to create config directory: %w", err)
		}
		if err := viper.WriteConfig(); err != nil {
			return nil, fmt.Errorf("failed to create config file: %w", err)
		}
	}

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	prefix := getKeyPrefix(env)

	config := &Config{
		environment:      env,
		envConfig:        envConfig,
		APIUrl:           viper.GetString(prefix + "apiurl"),
		StreamUrl:        viper.GetString(prefix + "streamurl"),
		Token:            viper.GetString(prefix + "token"),
		SkipVersionCheck: viper.GetBool("skipversioncheck"),
		LogLevel:         viper.GetString("loglevel"),
	}

	if viper.IsSet("telemetry") {
		telemetryEnabled := viper.GetBool("telemetry")
		config.TelemetryEnabled = &telemetryEnabled
	}

	return config, nil
}

// IsTelemetryEnabled returns whether telemetry is enabled.
// Returns true by default if not explicitly set (opt-out model).
func (c *Config) IsTelemetryEnabled() bool {
	if envVal := os.Getenv("IDP_TELEMETRY_DISABLED"); envVal != "" {
		return envVal != "true" && envVal != "1"
	}

	if c.TelemetryEnabled != nil {
		return *c.TelemetryEnabled
	}

	return true
}

// Save writes the current configuration to disk
func Save(config *Config) error {
	prefix := getKeyPrefix(config.environment)

	viper.Set(prefix+"apiurl", config.APIUrl)
	viper.Set(prefix+"streamurl", config.StreamUrl)
	viper.Set(prefix+"token", config.Token)
	viper.Set("skipversioncheck", config.SkipVersionCheck)
	viper.Set("loglevel", config.LogLevel)

	if config.TelemetryEnabled != nil {
		viper.Set("telemetry", *config.TelemetryEnabled)
	}

	if err := viper.WriteConfig(); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// getConfigPath returns the full path to the config file
func getConfigPath() string {
	if path := os.Getenv("IDP_CONFIG_PATH"); path != "" {
		return path
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", DefaultConfigDir, DefaultConfigFile)
	}

	return filepath.Join(homeDir, DefaultConfigDir, DefaultConfigFile)
}

type contextKey string

const configContextKey contextKey = "config"

// GetConfigFromContext retrieves the config from the command context
func GetConfigFromContext(cmd *cobra.Command) (*Config, error) {
	ctx := cmd.Context()
	if ctx == nil {
		return nil, fmt.Errorf("no context available")
	}

	cfg, ok := ctx.Value(configContextKey).(*Config)
	if !ok || cfg == nil {
		return nil, fmt.Errorf("config not found in context")
	}

	return cfg, nil
}

// GetContextKey returns the context key used for storing config
// This is needed by root.go to store the config in context
func GetContextKey() interface{} {
	return configContextKey
}

// GetEnvConfig returns the endpoints for the active environment with any
// user-configured overrides applied.
func (c *Config) GetEnvConfig() *EnvConfig {
	resolved := EnvConfig{}
	if c.envConfig != nil {
		resolved = *c.envConfig
	}

	if c.APIUrl != "" {
		resolved.APIUrl = strings.TrimSuffix(c.APIUrl, "/")
		// A custom API host implies a custom stream host unless one is pinned
		if derived, err := StreamURLFromAPI(resolved.APIUrl); err == nil {
			resolved.StreamUrl = derived
		}
	}
	if c.StreamUrl != "" {
		resolved.StreamUrl = strings.TrimSuffix(c.StreamUrl, "/")
	}

	return &resolved
}

// ensureConfigDir ensures the config directory exists
func ensureConfigDir() error {
	configPath := getConfigPath()
	configDir := filepath.Dir(configPath)
	return os.MkdirAll(configDir, 0755) //nolint:gosec // Config directory needs standard permissions
}

// getKeyPrefix returns the environment-specific key prefix
func getKeyPrefix(env Environment) string {
	if env == EnvProd {
		return ""
	}
	return string(env) + "-"
}

// GetLogLevel returns the configured log level as slog.Level
// Defaults to Info if not set or invalid
func (c *Config) GetLogLevel() slog.Level {
	if c.LogLevel == "" {
		return slog.LevelInfo
	}

	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
