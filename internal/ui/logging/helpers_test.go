package logging

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var testKey = SessionKey{Organization: "acme", Project: "web", Stack: "dev", DeploymentID: "d-1"}

func lines(texts ...string) []LogLine {
	out := make([]LogLine, 0, len(texts))
	for _, text := range texts {
		out = append(out, LogLine{Line: text})
	}
	return out
}

func texts(ls []LogLine) []string {
	out := make([]string, 0, len(ls))
	for _, l := range ls {
		out = append(out, l.Line)
	}
	return out
}

// blockingStream delivers batches and then stays connected until cancelled
func blockingStream(batches ...Batch) LogProvider {
	return ProviderFunc(func(ctx context.Context, cb func(Batch) error) error {
		for _, b := range batches {
			if err := cb(b); err != nil {
				return err
			}
		}
		<-ctx.Done()
		return ctx.Err()
	})
}

// endingStream delivers batches and then closes
func endingStream(batches ...Batch) LogProvider {
	return ProviderFunc(func(ctx context.Context, cb func(Batch) error) error {
		for _, b := range batches {
			if err := cb(b); err != nil {
				return err
			}
		}
		return nil
	})
}

func staticProvider(p LogProvider) func(SessionKey) LogProvider {
	return func(SessionKey) LogProvider { return p }
}

// newTestSession closes and drains the session when the test ends
func newTestSession(t *testing.T, cfg SessionConfig) *Session {
	t.Helper()
	s := NewSession(testContext(t), cfg)
	t.Cleanup(func() {
		s.Close()
		s.Wait()
	})
	return s
}

func waitForSnapshot(t *testing.T, s *Session, cond func(Snapshot) bool) Snapshot {
	t.Helper()
	require.Eventually(t, func() bool {
		return cond(s.Snapshot())
	}, 2*time.Second, 5*time.Millisecond)
	return s.Snapshot()
}
