// Package projectconfig reads and writes the idp.toml workspace file, which
// pins the organization, project and stack a directory deploys to.
package projectconfig

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// FileName is the workspace file looked up from the working directory
const FileName = "idp.toml"

// ProjectConfig is the parsed workspace file
type ProjectConfig struct {
	Workload WorkloadConfig `toml:"workload" mapstructure:"workload"`
}

// WorkloadConfig names the stack `idpctl logs` reads when no target is given.
// Any field may be empty; command-line arguments fill the gaps.
type WorkloadConfig struct {
	Organization string `toml:"organization" mapstructure:"organization"`
	Project      string `toml:"project" mapstructure:"project"`
	Stack        string `toml:"stack" mapstructure:"stack"`
}

// Save writes cfg to path. An existing file is only replaced when overwrite is set.
func Save(path string, cfg *ProjectConfig, overwrite bool) error {
	if err := Validate(cfg); err != nil {
		return err
	}

	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists, use --force to overwrite", path)
		}
	}

	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to encode workspace file: %w", err)
	}

	header := []byte("# Workspace defaults for idpctl\n")
	if err := os.WriteFile(path, append(header, data...), 0644); err != nil { //nolint:gosec // Workspace files are meant to be committed
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
