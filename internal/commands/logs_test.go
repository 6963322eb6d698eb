package commands

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/pulumi-idp/idp-console/internal/api"
	apimock "github.com/pulumi-idp/idp-console/internal/api/mock"
	"github.com/pulumi-idp/idp-console/internal/ui"
	"github.com/pulumi-idp/idp-console/internal/ui/logging"
	"github.com/pulumi-idp/idp-console/pkg/projectconfig"
)

func Test_resolveTarget(t *testing.T) {
	ws := &projectconfig.ProjectConfig{
		Workload: projectconfig.WorkloadConfig{Organization: "acme", Project: "web", Stack: "dev"},
	}

	tcs := []struct {
		name    string
		args    []string
		ws      *projectconfig.ProjectConfig
		want    logging.SessionKey
		wantErr string
	}{
		{
			name: "full target",
			args: []string{"acme/web/dev", "d-1"},
			want: logging.SessionKey{Organization: "acme", Project: "web", Stack: "dev", DeploymentID: "d-1"},
		},
		{
			name: "full target without deployment",
			args: []string{"acme/web/dev"},
			want: logging.SessionKey{Organization: "acme", Project: "web", Stack: "dev"},
		},
		{
			name: "workspace only",
			ws:   ws,
			want: logging.SessionKey{Organization: "acme", Project: "web", Stack: "dev"},
		},
		{
			name: "stack overrides workspace",
			args: []string{"prod"},
			ws:   ws,
			want: logging.SessionKey{Organization: "acme", Project: "web", Stack: "prod"},
		},
		{
			name: "project and stack override workspace",
			args: []string{"api/prod", "d-9"},
			ws:   ws,
			want: logging.SessionKey{Organization: "acme", Project: "api", Stack: "prod", DeploymentID: "d-9"},
		},
		{
			name:    "stack only without workspace",
			args:    []string{"dev"},
			wantErr: "missing organization, project",
		},
		{
			name:    "nothing at all",
			wantErr: "missing organization, project, stack",
		},
		{
			name:    "too many parts",
			args:    []string{"a/b/c/d"},
			wantErr: "expected ORGANIZATION/PROJECT/STACK",
		},
		{
			name:    "empty part",
			args:    []string{"acme//dev"},
			wantErr: "empty name",
		},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			got, err := resolveTarget(tc.args, tc.ws)
			if tc.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func Test_latestDeployment(t *testing.T) {
	key := logging.SessionKey{Organization: "acme", Project: "web", Stack: "dev"}

	tcs := []struct {
		name     string
		workload *api.Workload
		err      error
		want     string
		wantType ui.ErrorType
		wantErr  string
	}{
		{
			name:     "latest deployment",
			workload: &api.Workload{Stack: api.WorkloadStack{DeploymentID: "d-42"}},
			want:     "d-42",
		},
		{
			name:     "no deployments",
			workload: &api.Workload{},
			wantType: ui.ErrorTypeValidation,
			wantErr:  "has no deployments yet",
		},
		{
			name:     "stack not found",
			err:      &api.StatusError{StatusCode: 404},
			wantType: ui.ErrorTypeValidation,
			wantErr:  "stack acme/web/dev not found",
		},
		{
			name:     "unauthorized",
			err:      &api.StatusError{StatusCode: 401, Message: "bad token"},
			wantType: ui.ErrorTypeConfiguration,
			wantErr:  "API error (401): bad token",
		},
		{
			name:     "transport error",
			err:      errors.New("connection refused"),
			wantType: ui.ErrorTypeAPI,
			wantErr:  "failed to look up stack: connection refused",
		},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			client := apimock.NewMockClient(t)
			client.On("GetWorkload", mock.Anything, "acme", "web", "dev").Return(tc.workload, tc.err)

			got, err := latestDeployment(testContext(t), client, key)
			if tc.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.wantErr)
				uiErr, ok := ui.AsUIError(err)
				require.True(t, ok)
				assert.Equal(t, tc.wantType, uiErr.Type)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func Test_loadWorkspace(t *testing.T) {
	t.Run("explicit path", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), projectconfig.FileName)
		cfg := &projectconfig.ProjectConfig{Workload: projectconfig.WorkloadConfig{Organization: "acme", Stack: "dev"}}
		require.NoError(t, projectconfig.Save(path, cfg, false))

		got, err := loadWorkspace(path)
		require.NoError(t, err)
		assert.Equal(t, "acme", got.Workload.Organization)
		assert.Equal(t, "dev", got.Workload.Stack)
	})

	t.Run("explicit path missing", func(t *testing.T) {
		_, err := loadWorkspace(filepath.Join(t.TempDir(), projectconfig.FileName))
		require.Error(t, err)
	})

	t.Run("nothing found", func(t *testing.T) {
		testChdir(t, t.TempDir())

		got, err := loadWorkspace("")
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("found in parent", func(t *testing.T) {
		root := t.TempDir()
		cfg := &projectconfig.ProjectConfig{Workload: projectconfig.WorkloadConfig{Project: "web"}}
		require.NoError(t, projectconfig.Save(filepath.Join(root, projectconfig.FileName), cfg, false))
		child := filepath.Join(root, "infra", "stacks")
		require.NoError(t, os.MkdirAll(child, 0o755))
		testChdir(t, child)

		got, err := loadWorkspace("")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "web", got.Workload.Project)
	})
}

func Test_newSessionConfig(t *testing.T) {
	key := logging.SessionKey{Organization: "acme", Project: "web", Stack: "dev", DeploymentID: "d-1"}
	client := apimock.NewMockClient(t)

	cfg := newSessionConfig(key, client, nil)
	assert.Equal(t, key, cfg.Key)
	assert.NotNil(t, cfg.NewPageProvider)
	assert.Nil(t, cfg.NewStreamProvider, "no stream without a stream client")
	assert.NotNil(t, cfg.NewPageProvider(key))
}
