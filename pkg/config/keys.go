package config

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/viper"
)

// Setting is one user-facing key and its stored value
type Setting struct {
	Key   string
	Value any
}

// NormalizeKey maps "api-url", "API_URL" and "apiurl" to the stored form "apiurl"
func NormalizeKey(key string) string {
	key = strings.ReplaceAll(key, "-", "")
	key = strings.ReplaceAll(key, "_", "")
	return strings.ToLower(key)
}

// UnknownKeyError lists the keys a user could have meant
type UnknownKeyError struct {
	Key string
}

func (e *UnknownKeyError) Error() string {
	return fmt.Sprintf("'%s' is not a recognized configuration key", e.Key)
}

// Usage describes every user-facing key, one per line
func (e *UnknownKeyError) Usage() string {
	var b strings.Builder
	b.WriteString("Valid configuration keys:\n")
	for _, key := range GetUserFacingKeys() {
		fmt.Fprintf(&b, "  %s - %s\n", key, GetConfigKeyDescription(NormalizeKey(key)))
	}
	return b.String()
}

func storedKey(key string) (string, error) {
	normalized := NormalizeKey(key)
	if !IsValidUserFacingKey(normalized) {
		return "", &UnknownKeyError{Key: key}
	}
	return GetEnvironmentPrefixedKey(normalized, GetEnvironment()), nil
}

// SetValue stores value under key for the active environment and writes the
// config file. "true" and "false" are stored as booleans.
func SetValue(key, value string) (any, error) {
	actual, err := storedKey(key)
	if err != nil {
		return nil, err
	}

	var typed any = value
	switch strings.ToLower(value) {
	case "true":
		typed = true
	case "false":
		typed = false
	}

	viper.Set(actual, typed)
	if err := viper.WriteConfig(); err != nil {
		return nil, fmt.Errorf("failed to save config: %w", err)
	}
	return typed, nil
}

// GetValue returns the value stored under key for the active environment
func GetValue(key string) (any, error) {
	actual, err := storedKey(key)
	if err != nil {
		return nil, err
	}
	if !viper.IsSet(actual) {
		return nil, fmt.Errorf("configuration key '%s' not set", key)
	}
	return viper.Get(actual), nil
}

// ListSettings returns every user-facing key set for the active environment,
// sorted by key. Tokens are masked.
func ListSettings() []Setting {
	env := GetEnvironment()

	var settings []Setting
	for _, key := range GetUserFacingKeys() {
		normalized := NormalizeKey(key)
		actual := GetEnvironmentPrefixedKey(normalized, env)
		if !viper.IsSet(actual) {
			continue
		}

		value := viper.Get(actual)
		if normalized == "token" {
			value = MaskToken(fmt.Sprint(value))
		}
		settings = append(settings, Setting{Key: key, Value: value})
	}

	sort.Slice(settings, func(i, j int) bool {
		return settings[i].Key < settings[j].Key
	})
	return settings
}

// MaskToken keeps the last four characters of a token
func MaskToken(token string) string {
	if len(token) <= 4 {
		return strings.Repeat("*", len(token))
	}
	return "****" + token[len(token)-4:]
}
