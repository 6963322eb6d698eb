package projectconfig

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/pelletier/go-toml/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, FileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad(t *testing.T) {
	tcs := []struct {
		name    string
		content string
		want    WorkloadConfig
		wantErr string
	}{
		{
			name: "full",
			content: `[workload]
organization = "acme"
project = "web"
stack = "dev"
`,
			want: WorkloadConfig{Organization: "acme", Project: "web", Stack: "dev"},
		},
		{
			name: "partial",
			content: `[workload]
organization = "acme"
`,
			want: WorkloadConfig{Organization: "acme"},
		},
		{
			name: "missing table",
			content: `[other]
name = "x"
`,
			wantErr: "'workload' table not found",
		},
		{
			name: "slash in a name",
			content: `[workload]
stack = "dev/eu"
`,
			wantErr: "must not contain slashes",
		},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			path := writeFile(t, t.TempDir(), tc.content)

			cfg, err := Load(path)
			if tc.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, cfg.Workload)
		})
	}
}

func TestLoad_NotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), FileName))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "workspace file not found")
}

func TestFind(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "services", "api")
	require.NoError(t, os.MkdirAll(nested, 0755))
	want := writeFile(t, root, "[workload]\n")

	got, err := Find(nested)
	require.NoError(t, err)

	// TempDir may sit behind a symlink (macOS /var)
	wantResolved, _ := filepath.EvalSymlinks(want)
	gotResolved, _ := filepath.EvalSymlinks(got)
	assert.Equal(t, wantResolved, gotResolved)
}

func TestFind_NotFound(t *testing.T) {
	// Nothing above a fresh temp dir is expected to carry a workspace file
	dir := t.TempDir()
	if _, err := Find(dir); err == nil {
		t.Skip("a parent of the temp dir has a workspace file")
	} else {
		assert.True(t, errors.Is(err, ErrNotFound))
	}
}

func TestSave(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, FileName)
	cfg := &ProjectConfig{Workload: WorkloadConfig{Organization: "acme", Project: "web", Stack: "dev"}}

	require.NoError(t, Save(path, cfg, false))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)

	var decoded ProjectConfig
	require.NoError(t, toml.Unmarshal(raw, &decoded))
	assert.Equal(t, *cfg, decoded)

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg.Workload, loaded.Workload)

	t.Run("refuses to overwrite", func(t *testing.T) {
		err := Save(path, cfg, false)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "already exists")
	})

	t.Run("overwrites when forced", func(t *testing.T) {
		cfg := &ProjectConfig{Workload: WorkloadConfig{Organization: "acme", Project: "web", Stack: "prod"}}
		require.NoError(t, Save(path, cfg, true))

		loaded, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, "prod", loaded.Workload.Stack)
	})

	t.Run("invalid names are not written", func(t *testing.T) {
		bad := &ProjectConfig{Workload: WorkloadConfig{Stack: "a b"}}
		err := Save(filepath.Join(dir, "bad.toml"), bad, false)
		require.Error(t, err)
		assert.NoFileExists(t, filepath.Join(dir, "bad.toml"))
	})
}
