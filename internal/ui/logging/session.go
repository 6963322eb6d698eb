package logging

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/google/uuid"
)

// errStaleHandle stops a provider whose transport was replaced or cancelled
var errStaleHandle = errors.New("log transport is no longer current")

// SessionConfig wires a Session to its transports
type SessionConfig struct {
	Key SessionKey

	// NewStreamProvider opens the live source for a key
	NewStreamProvider func(SessionKey) LogProvider

	// NewPageProvider rebuilds the full transcript for a key on refresh
	NewPageProvider func(SessionKey) LogProvider
}

// Snapshot is an immutable view of a Session at one instant
type Snapshot struct {
	SessionID string
	Key       SessionKey
	Lines     []LogLine
	Status    ConnectionStatus

	// Fetching is true while a refresh run is in flight
	Fetching bool

	// Generation increments every time the transcript is cleared (new key, refresh).
	// Consumers printing incrementally restart from line 0 when it changes.
	Generation uint64
}

// Session owns one deployment transcript: its key, buffer, status and the
// active stream and refresh transports. All mutation happens under mu and
// only on behalf of the transport currently installed for its variant, so a
// replaced or cancelled handle can never touch the buffer again.
type Session struct {
	id  string
	cfg SessionConfig
	ctx context.Context

	mu         sync.Mutex
	key        SessionKey
	buffer     Buffer
	status     ConnectionStatus
	generation uint64
	stream     *streamTransport
	page       *pageTransport
	closed     bool

	changed chan struct{}
	wg      sync.WaitGroup
}

// NewSession creates a session and, when cfg.Key is complete, starts streaming immediately.
// Transports run until Close is called or ctx is cancelled.
func NewSession(ctx context.Context, cfg SessionConfig) *Session {
	s := &Session{
		id:      uuid.NewString(),
		cfg:     cfg,
		ctx:     ctx,
		key:     cfg.Key,
		changed: make(chan struct{}, 1),
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	slog.Debug("Log session created", "session", s.id, "deployment", s.key.String())
	if s.key.Complete() {
		s.startStreamLocked()
	}

	return s
}

// ID returns the session identifier used in log output
func (s *Session) ID() string {
	return s.id
}

// Changed is signalled after every mutation. Signals coalesce: one pending
// receive covers any number of changes, so always re-read Snapshot.
func (s *Session) Changed() <-chan struct{} {
	return s.changed
}

// Snapshot returns a copy of the current state
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	return Snapshot{
		SessionID:  s.id,
		Key:        s.key,
		Lines:      s.buffer.Snapshot(),
		Status:     s.status,
		Fetching:   s.page != nil,
		Generation: s.generation,
	}
}

// SetKey switches the session to another deployment. The same key is a no-op.
// Otherwise both transports are torn down and the transcript is cleared before
// a fresh stream opens; an incomplete key leaves the session idle.
func (s *Session) SetKey(key SessionKey) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed || key == s.key {
		return
	}

	slog.Debug("Log session key changed", "session", s.id, "from", s.key.String(), "to", key.String())

	s.stopTransportsLocked()
	s.key = key
	s.resetBufferLocked()

	if key.Complete() {
		s.startStreamLocked()
	} else {
		s.status = ConnectionStatus{Kind: StatusIdle}
	}
	s.notify()
}

// Refresh rebuilds the transcript from the paginated source. Any earlier
// refresh still running is superseded. The buffer is cleared before the first
// page is requested. A stale Failed status is cleared to Disconnected when the
// run starts; a failing run sets Failed.
func (s *Session) Refresh() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed || !s.key.Complete() || s.cfg.NewPageProvider == nil {
		return
	}

	if s.page != nil {
		s.page.cancel()
		s.page = nil
	}

	s.resetBufferLocked()
	if s.status.Kind == StatusFailed {
		s.status = ConnectionStatus{Kind: StatusDisconnected}
	}

	t := &pageTransport{session: s, provider: s.cfg.NewPageProvider(s.key)}
	s.page = t
	s.run(t)

	slog.Debug("Log refresh started", "session", s.id, "deployment", s.key.String())
	s.notify()
}

// Close stops every transport and drops all later results. Idempotent.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.closed = true
	s.stopTransportsLocked()

	slog.Debug("Log session closed", "session", s.id)
	s.notify()
}

// Wait blocks until every transport goroutine has returned. Call after Close.
func (s *Session) Wait() {
	s.wg.Wait()
}

func (s *Session) startStreamLocked() {
	if s.cfg.NewStreamProvider == nil {
		s.status = ConnectionStatus{Kind: StatusDisconnected}
		return
	}

	t := &streamTransport{session: s, provider: s.cfg.NewStreamProvider(s.key)}
	s.stream = t
	s.status = ConnectionStatus{Kind: StatusConnecting}
	s.run(t)
}

func (s *Session) stopTransportsLocked() {
	if s.stream != nil {
		s.stream.cancel()
		s.stream = nil
	}
	if s.page != nil {
		s.page.cancel()
		s.page = nil
	}
}

func (s *Session) resetBufferLocked() {
	s.buffer.ReplaceAll(nil)
	s.generation++
}

// run starts t in its own goroutine, bound to the session context
func (s *Session) run(t transport) {
	ctx, cancel := context.WithCancel(s.ctx)
	t.handle().cancelFn = cancel

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer cancel()
		t.start(ctx)
	}()
}

func (s *Session) notify() {
	select {
	case s.changed <- struct{}{}:
	default:
	}
}

// transport is one of streamTransport or pageTransport
type transport interface {
	start(ctx context.Context)
	cancel()
	handle() *transportHandle
}

// transportHandle makes cancellation idempotent
type transportHandle struct {
	cancelFn context.CancelFunc
	once     sync.Once
}

func (h *transportHandle) cancel() {
	h.once.Do(func() {
		if h.cancelFn != nil {
			h.cancelFn()
		}
	})
}

func (h *transportHandle) handle() *transportHandle {
	return h
}

type streamTransport struct {
	transportHandle
	session  *Session
	provider LogProvider
}

func (t *streamTransport) start(ctx context.Context) {
	err := t.provider.Collect(ctx, t.deliver)
	t.finish(err)
}

func (t *streamTransport) deliver(b Batch) error {
	s := t.session
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed || s.stream != t {
		return errStaleHandle
	}

	if b.Opened && s.status.Kind == StatusConnecting {
		s.status = ConnectionStatus{Kind: StatusLive}
		slog.Info("Log stream live", "session", s.id, "deployment", s.key.String())
	}
	if b.Err != "" {
		s.status = Failed(b.Err)
	}
	if len(b.Lines) > 0 {
		s.buffer.Append(b.Lines)
	}

	s.notify()
	return nil
}

func (t *streamTransport) finish(err error) {
	s := t.session
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed || s.stream != t {
		return
	}
	s.stream = nil

	if err != nil {
		slog.Warn("Log stream ended with error", "session", s.id, "error", err)
	} else {
		slog.Debug("Log stream closed", "session", s.id)
	}

	// An in-band error already surfaced stays visible
	if s.status.Kind != StatusFailed {
		s.status = ConnectionStatus{Kind: StatusDisconnected}
	}
	s.notify()
}

type pageTransport struct {
	transportHandle
	session  *Session
	provider LogProvider
}

func (t *pageTransport) start(ctx context.Context) {
	err := t.provider.Collect(ctx, t.deliver)
	if ctx.Err() != nil {
		err = nil
	}
	t.finish(err)
}

func (t *pageTransport) deliver(b Batch) error {
	s := t.session
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed || s.page != t {
		return errStaleHandle
	}

	if len(b.Lines) > 0 {
		s.buffer.Append(b.Lines)
	}

	s.notify()
	return nil
}

func (t *pageTransport) finish(err error) {
	s := t.session
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed || s.page != t {
		return
	}
	s.page = nil
	if errors.Is(err, errStaleHandle) {
		return
	}

	if err != nil {
		slog.Warn("Log refresh failed", "session", s.id, "error", err)
		s.status = Failed(err.Error())
	} else {
		slog.Debug("Log refresh complete", "session", s.id, "lines", s.buffer.Len())
	}
	s.notify()
}
