package logging

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/pulumi-idp/idp-console/internal/api"
	apimock "github.com/pulumi-idp/idp-console/internal/api/mock"
)

func TestSession_StreamAppendsInOrder(t *testing.T) {
	s := newTestSession(t, SessionConfig{
		Key: testKey,
		NewStreamProvider: staticProvider(blockingStream(
			Batch{Opened: true},
			Batch{Lines: lines("a", "b")},
			Batch{Lines: lines("c")},
		)),
	})

	snap := waitForSnapshot(t, s, func(s Snapshot) bool { return len(s.Lines) == 3 })

	assert.Equal(t, []string{"a", "b", "c"}, texts(snap.Lines))
	assert.Equal(t, StatusLive, snap.Status.Kind)
	assert.Equal(t, testKey, snap.Key)
	assert.Equal(t, s.ID(), snap.SessionID)
	assert.False(t, snap.Fetching)
}

func TestSession_Status(t *testing.T) {
	tcs := []struct {
		name       string
		stream     LogProvider
		wantStatus ConnectionStatus
		wantLines  []string
	}{
		{
			name:       "stream closes normally",
			stream:     endingStream(Batch{Opened: true}, Batch{Lines: lines("a")}),
			wantStatus: ConnectionStatus{Kind: StatusDisconnected},
			wantLines:  []string{"a"},
		},
		{
			name: "dial failure",
			stream: ProviderFunc(func(context.Context, func(Batch) error) error {
				return errors.New("websocket dial failed with status 404")
			}),
			wantStatus: ConnectionStatus{Kind: StatusDisconnected},
			wantLines:  []string{},
		},
		{
			name:       "error payload while connected",
			stream:     blockingStream(Batch{Opened: true}, Batch{Lines: lines("a")}, Batch{Err: "stack not found"}),
			wantStatus: Failed("stack not found"),
			wantLines:  []string{"a"},
		},
		{
			name:       "error payload survives the close",
			stream:     endingStream(Batch{Opened: true}, Batch{Err: "stack not found"}),
			wantStatus: Failed("stack not found"),
			wantLines:  []string{},
		},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			s := newTestSession(t, SessionConfig{Key: testKey, NewStreamProvider: staticProvider(tc.stream)})

			snap := waitForSnapshot(t, s, func(s Snapshot) bool { return s.Status == tc.wantStatus })
			assert.Equal(t, tc.wantLines, texts(snap.Lines))
		})
	}
}

func TestSession_IncompleteKeyStaysIdle(t *testing.T) {
	var opened atomic.Int32
	factory := func(SessionKey) LogProvider {
		opened.Add(1)
		return blockingStream()
	}

	key := testKey
	key.Stack = ""
	s := newTestSession(t, SessionConfig{Key: key, NewStreamProvider: factory, NewPageProvider: factory})

	s.Refresh()

	snap := s.Snapshot()
	assert.Equal(t, StatusIdle, snap.Status.Kind)
	assert.False(t, snap.Fetching)
	assert.Zero(t, opened.Load())
}

func TestSession_ChangedIsSignalled(t *testing.T) {
	s := newTestSession(t, SessionConfig{Key: testKey, NewStreamProvider: staticProvider(blockingStream(Batch{Opened: true}))})

	waitForSnapshot(t, s, func(s Snapshot) bool { return s.Status.Kind == StatusLive })

	select {
	case <-s.Changed():
	default:
		t.Fatal("expected a pending change notification")
	}
}

func TestSession_RefreshReplacesTranscript(t *testing.T) {
	client := apimock.NewMockClient(t)

	var s *Session
	var linesAtFirstPage int
	client.On("FetchDeploymentLogs", mock.Anything, "acme", "web", "dev", "d-1", "").
		Return(func(context.Context, string, string, string, string, string) *api.LogPage {
			linesAtFirstPage = len(s.Snapshot().Lines)
			return &api.LogPage{Lines: lines("a", "b"), NextToken: "t1"}
		}, nil).Once()
	client.On("FetchDeploymentLogs", mock.Anything, "acme", "web", "dev", "d-1", "t1").
		Return(&api.LogPage{Lines: lines("c")}, nil).Once()

	s = newTestSession(t, SessionConfig{
		Key:               testKey,
		NewStreamProvider: staticProvider(endingStream(Batch{Opened: true}, Batch{Lines: lines("x")})),
		NewPageProvider: func(key SessionKey) LogProvider {
			return NewPaginatedDeploymentLogProvider(PaginatedDeploymentLogProviderConfig{Client: client, Key: key})
		},
	})

	before := waitForSnapshot(t, s, func(s Snapshot) bool { return s.Status.Kind == StatusDisconnected })
	require.Equal(t, []string{"x"}, texts(before.Lines))

	s.Refresh()
	after := waitForSnapshot(t, s, func(s Snapshot) bool { return !s.Fetching && len(s.Lines) == 3 })

	assert.Zero(t, linesAtFirstPage, "the transcript is cleared before the first page is requested")
	assert.Equal(t, []string{"a", "b", "c"}, texts(after.Lines))
	assert.Equal(t, StatusDisconnected, after.Status.Kind)
	assert.Greater(t, after.Generation, before.Generation)
}

func TestSession_RefreshFailureKeepsEarlierPages(t *testing.T) {
	client := apimock.NewMockClient(t)
	client.On("FetchDeploymentLogs", mock.Anything, "acme", "web", "dev", "d-1", "").
		Return(&api.LogPage{Lines: lines("a", "b"), NextToken: "t1"}, nil).Once()
	client.On("FetchDeploymentLogs", mock.Anything, "acme", "web", "dev", "d-1", "t1").
		Return(nil, &api.StatusError{StatusCode: 500, Message: "boom"}).Once()

	s := newTestSession(t, SessionConfig{
		Key: testKey,
		NewPageProvider: func(key SessionKey) LogProvider {
			return NewPaginatedDeploymentLogProvider(PaginatedDeploymentLogProviderConfig{Client: client, Key: key})
		},
	})

	s.Refresh()
	snap := waitForSnapshot(t, s, func(s Snapshot) bool { return !s.Fetching })

	assert.Equal(t, []string{"a", "b"}, texts(snap.Lines))
	assert.Equal(t, Failed("failed to fetch logs: API error (500): boom"), snap.Status)
}

func TestSession_RefreshClearsStaleFailure(t *testing.T) {
	release := make(chan struct{})
	s := newTestSession(t, SessionConfig{
		Key:               testKey,
		NewStreamProvider: staticProvider(endingStream(Batch{Opened: true}, Batch{Err: "stack not found"})),
		NewPageProvider: staticProvider(ProviderFunc(func(ctx context.Context, cb func(Batch) error) error {
			<-release
			return cb(Batch{Lines: lines("a")})
		})),
	})
	waitForSnapshot(t, s, func(s Snapshot) bool { return s.Status.Kind == StatusFailed })

	s.Refresh()
	during := s.Snapshot()
	assert.Equal(t, StatusDisconnected, during.Status.Kind)
	assert.True(t, during.Fetching)

	close(release)
	after := waitForSnapshot(t, s, func(s Snapshot) bool { return !s.Fetching })
	assert.Equal(t, StatusDisconnected, after.Status.Kind)
	assert.Equal(t, []string{"a"}, texts(after.Lines))
}

func TestSession_RefreshSupersedesEarlierRun(t *testing.T) {
	var runs atomic.Int32
	firstResult := make(chan error, 1)

	s := newTestSession(t, SessionConfig{
		Key: testKey,
		NewPageProvider: func(SessionKey) LogProvider {
			if runs.Add(1) == 1 {
				return ProviderFunc(func(ctx context.Context, cb func(Batch) error) error {
					<-ctx.Done()
					firstResult <- cb(Batch{Lines: lines("old")})
					return ctx.Err()
				})
			}
			return endingStream(Batch{Lines: lines("new")})
		},
	})

	s.Refresh()
	s.Refresh()

	require.ErrorIs(t, <-firstResult, errStaleHandle)
	snap := waitForSnapshot(t, s, func(s Snapshot) bool { return !s.Fetching })

	assert.Equal(t, []string{"new"}, texts(snap.Lines))
	assert.Equal(t, StatusDisconnected, snap.Status.Kind)
	assert.EqualValues(t, 2, runs.Load())
}

func TestSession_SetKeyDropsStragglers(t *testing.T) {
	otherKey := testKey
	otherKey.DeploymentID = "d-2"

	release := make(chan struct{})
	straggler := make(chan error, 1)

	s := newTestSession(t, SessionConfig{
		Key: testKey,
		NewStreamProvider: func(key SessionKey) LogProvider {
			if key == testKey {
				// Ignores cancellation so its frame arrives after the switch
				return ProviderFunc(func(ctx context.Context, cb func(Batch) error) error {
					<-release
					straggler <- cb(Batch{Lines: lines("stale")})
					return nil
				})
			}
			return blockingStream(Batch{Opened: true}, Batch{Lines: lines("z")})
		},
	})
	first := s.Snapshot()

	s.SetKey(otherKey)
	waitForSnapshot(t, s, func(s Snapshot) bool { return len(s.Lines) == 1 })

	close(release)
	require.ErrorIs(t, <-straggler, errStaleHandle)

	snap := s.Snapshot()
	assert.Equal(t, []string{"z"}, texts(snap.Lines))
	assert.Equal(t, otherKey, snap.Key)
	assert.Equal(t, StatusLive, snap.Status.Kind)
	assert.Greater(t, snap.Generation, first.Generation)
}

func TestSession_SetKey(t *testing.T) {
	var opened atomic.Int32
	s := newTestSession(t, SessionConfig{
		Key: testKey,
		NewStreamProvider: func(SessionKey) LogProvider {
			opened.Add(1)
			return blockingStream(Batch{Opened: true})
		},
	})
	before := s.Snapshot()

	t.Run("same key is a no-op", func(t *testing.T) {
		s.SetKey(testKey)
		assert.Equal(t, before.Generation, s.Snapshot().Generation)
		assert.EqualValues(t, 1, opened.Load())
	})

	t.Run("incomplete key goes idle", func(t *testing.T) {
		s.SetKey(SessionKey{Organization: "acme"})
		snap := s.Snapshot()
		assert.Equal(t, StatusIdle, snap.Status.Kind)
		assert.Empty(t, snap.Lines)
		assert.EqualValues(t, 1, opened.Load())
	})
}

func TestSession_IgnoresResultsAfterClose(t *testing.T) {
	release := make(chan struct{})
	late := make(chan error, 1)

	s := NewSession(testContext(t), SessionConfig{
		Key: testKey,
		NewStreamProvider: staticProvider(ProviderFunc(func(ctx context.Context, cb func(Batch) error) error {
			<-release
			late <- cb(Batch{Opened: true, Lines: lines("late")})
			return nil
		})),
	})

	s.Close()
	s.Close()
	close(release)

	require.ErrorIs(t, <-late, errStaleHandle)
	s.Wait()

	snap := s.Snapshot()
	assert.Empty(t, snap.Lines)
	assert.Equal(t, StatusConnecting, snap.Status.Kind)

	s.Refresh()
	s.SetKey(SessionKey{})
	assert.Equal(t, testKey, s.Snapshot().Key, "a closed session ignores further commands")
}
