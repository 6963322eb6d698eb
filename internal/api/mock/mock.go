// Package mock provides a testify mock of api.Client.
//
// Usage in tests:
//
//	client := apimock.NewMockClient(t)
//	client.On("FetchDeploymentLogs", mock.Anything, "acme", "web", "dev", "d-1", "").
//		Return(&api.LogPage{Lines: lines}, nil)
package mock

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/pulumi-idp/idp-console/internal/api"
)

// MockClient implements api.Client on top of testify/mock
type MockClient struct {
	mock.Mock
}

var _ api.Client = (*MockClient)(nil)

// NewMockClient creates a MockClient whose expectations are asserted when the test ends
func NewMockClient(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockClient {
	m := &MockClient{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockClient) GetWorkload(ctx context.Context, organization, project, stack string) (*api.Workload, error) {
	args := m.Called(ctx, organization, project, stack)

	var workload *api.Workload
	if fn, ok := args.Get(0).(func(context.Context, string, string, string) *api.Workload); ok {
		workload = fn(ctx, organization, project, stack)
	} else if v := args.Get(0); v != nil {
		workload = v.(*api.Workload)
	}

	return workload, args.Error(1)
}

func (m *MockClient) FetchDeploymentLogs(ctx context.Context, organization, project, stack, deploymentID, continuationToken string) (*api.LogPage, error) {
	args := m.Called(ctx, organization, project, stack, deploymentID, continuationToken)

	var page *api.LogPage
	if fn, ok := args.Get(0).(func(context.Context, string, string, string, string, string) *api.LogPage); ok {
		page = fn(ctx, organization, project, stack, deploymentID, continuationToken)
	} else if v := args.Get(0); v != nil {
		page = v.(*api.LogPage)
	}

	return page, args.Error(1)
}
