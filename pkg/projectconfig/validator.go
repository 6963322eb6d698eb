package projectconfig

import (
	"fmt"
	"strings"
)

// Validate rejects names that cannot be used as a single URL path segment
func Validate(cfg *ProjectConfig) error {
	fields := []struct {
		name, value string
	}{
		{"workload.organization", cfg.Workload.Organization},
		{"workload.project", cfg.Workload.Project},
		{"workload.stack", cfg.Workload.Stack},
	}

	for _, f := range fields {
		if strings.ContainsAny(f.value, "/ \t") {
			return fmt.Errorf("`%s` must not contain slashes or spaces: %q", f.name, f.value)
		}
	}
	return nil
}
