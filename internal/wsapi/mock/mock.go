// Package mock provides a testify mock of wsapi.Client.
//
// Return values may be a plain error or a function with the method's
// signature, which lets a test drive onOpen and the callback:
//
//	client := wsmock.NewMockClient(t)
//	client.On("StreamDeploymentLogs", mock.Anything, ref, mock.Anything, mock.Anything).
//		Return(func(ctx context.Context, _ wsapi.DeploymentRef, onOpen func(), cb func(wsapi.DeploymentLogMessage) error) error {
//			onOpen()
//			return cb(wsapi.DeploymentLogMessage{Lines: lines})
//		})
package mock

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/pulumi-idp/idp-console/internal/wsapi"
)

// StreamFunc is the function form accepted by Return for StreamDeploymentLogs
type StreamFunc = func(ctx context.Context, ref wsapi.DeploymentRef, onOpen func(), callback func(wsapi.DeploymentLogMessage) error) error

// MockClient implements wsapi.Client on top of testify/mock
type MockClient struct {
	mock.Mock
}

var _ wsapi.Client = (*MockClient)(nil)

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

func (m *MockClient) StreamDeploymentLogs(ctx context.Context, ref wsapi.DeploymentRef, onOpen func(), callback func(wsapi.DeploymentLogMessage) error) error {
	args := m.Called(ctx, ref, onOpen, callback)

	if fn, ok := args.Get(0).(StreamFunc); ok {
		return fn(ctx, ref, onOpen, callback)
	}
	return args.Error(0)
}
