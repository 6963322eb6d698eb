package projectconfig

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// ErrNotFound is returned by Find when no workspace file exists up to the filesystem root
var ErrNotFound = errors.New("no " + FileName + " found")

// Load reads and parses the workspace file at path
func Load(path string) (*ProjectConfig, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("workspace file not found: %s. Run `idpctl workspace init` to create one", path)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("toml")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read workspace file: %w", err)
	}

	if !v.IsSet("workload") {
		return nil, fmt.Errorf("'workload' table not found in %s", path)
	}

	var cfg ProjectConfig
	if err := v.UnmarshalKey("workload", &cfg.Workload); err != nil {
		return nil, fmt.Errorf("failed to parse workload table: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return &cfg, nil
}

// Find walks up from dir looking for the workspace file
func Find(dir string) (string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", dir, err)
	}

	for {
		candidate := filepath.Join(dir, FileName)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", ErrNotFound
		}
		dir = parent
	}
}
