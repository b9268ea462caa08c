// Package syncer owns the dashboard state. Every mutation is applied locally
// first, persisted, published to subscribers and then, when a session exists,
// propagated to the remote API in the background. Remote failures are logged
// and never roll the local state back.
package syncer

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/julianstephens/ordiaa/internal/api"
	"github.com/julianstephens/ordiaa/internal/clock"
	apperrors "github.com/julianstephens/ordiaa/internal/errors"
	"github.com/julianstephens/ordiaa/internal/logger"
	"github.com/julianstephens/ordiaa/internal/models"
	"github.com/julianstephens/ordiaa/internal/session"
	"github.com/julianstephens/ordiaa/internal/storage"
)

// Remote is the subset of the API gateway the synchronizer drives.
type Remote interface {
	ListHabits(ctx context.Context) ([]api.Habit, error)
	ListCompletions(ctx context.Context) ([]api.Completion, error)
	ListTodos(ctx context.Context) ([]api.Todo, error)
	ListLogs(ctx context.Context) ([]api.DailyLog, error)

	CreateHabit(ctx context.Context, name, description string) (api.Habit, error)
	DeleteHabit(ctx context.Context, id int64) error
	ToggleHabit(ctx context.Context, id int64, date string) ([]api.Completion, error)

	CreateTodo(ctx context.Context, in api.TodoCreate) (api.Todo, error)
	UpdateTodo(ctx context.Context, id int64, in api.TodoUpdate) (api.Todo, error)
	DeleteTodo(ctx context.Context, id int64) error

	SaveLog(ctx context.Context, date, content, mood string) (api.DailyLog, error)
}

type Synchronizer struct {
	mu      sync.Mutex
	state   models.State
	version uint64
	lastID  int64

	store   storage.Provider
	remote  Remote
	session *session.Session
	clock   clock.Clock
	log     *log.Logger
	timeout time.Duration

	subMu     sync.Mutex
	subs      map[int]func(models.State)
	nextSub   int
	published uint64

	queueMu  sync.Mutex
	queue    []job
	draining bool
	inflight sync.WaitGroup
}

type Option func(*Synchronizer)

// WithClock replaces the clock used for "today" and for local ids.
func WithClock(c clock.Clock) Option {
	return func(s *Synchronizer) { s.clock = c }
}

// WithPropagationTimeout bounds each background remote call. Zero means no bound.
func WithPropagationTimeout(d time.Duration) Option {
	return func(s *Synchronizer) { s.timeout = d }
}

// New loads the local snapshot. It does not contact the remote; call Sync for that.
func New(store storage.Provider, remote Remote, sess *session.Session, opts ...Option) *Synchronizer {
	s := &Synchronizer{
		store:   store,
		remote:  remote,
		session: sess,
		clock:   clock.RealClock{},
		log:     logger.With("component", "sync"),
		subs:    map[int]func(models.State){},
	}
	for _, opt := range opts {
		opt(s)
	}
	s.state = store.Load()
	return s
}

// Snapshot returns a deep copy of the current state.
func (s *Synchronizer) Snapshot() models.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// Today returns the current calendar day per the synchronizer's clock.
func (s *Synchronizer) Today() time.Time {
	return s.clock.Now()
}

// Authenticated reports whether mutations are currently propagated.
func (s *Synchronizer) Authenticated() bool {
	return s.session != nil && s.session.Authenticated()
}

// Subscribe registers fn to receive every committed state. The state passed
// to fn is shared and must not be modified. The returned func unsubscribes;
// fn may call it, or Subscribe, from inside the callback.
func (s *Synchronizer) Subscribe(fn func(models.State)) (cancel func()) {
	s.subMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.subMu.Unlock()

	return func() {
		s.subMu.Lock()
		delete(s.subs, id)
		s.subMu.Unlock()
	}
}

// Wait blocks until every queued remote write has been attempted.
func (s *Synchronizer) Wait() {
	s.inflight.Wait()
}

// WaitTimeout is Wait bounded by d; it reports whether everything finished.
func (s *Synchronizer) WaitTimeout(d time.Duration) bool {
	done := make(chan struct{})
	go func() {
		s.inflight.Wait()
		close(done)
	}()
	select {
	case <-done:
		return true
	case <-time.After(d):
		return false
	}
}

// Close waits for propagation and releases the store.
func (s *Synchronizer) Close() error {
	s.Wait()
	return s.store.Close()
}

// commit builds the next state from a copy of the current one, swaps it in,
// persists it and notifies subscribers. mutate returns false to abort without
// committing anything.
func (s *Synchronizer) commit(mutate func(next *models.State) bool) bool {
	s.mu.Lock()
	next := s.state.Clone()
	if !mutate(&next) {
		s.mu.Unlock()
		return false
	}
	s.state = next
	s.version++
	version := s.version
	s.store.Save(next)
	s.mu.Unlock()

	s.publish(version, next)
	return true
}

// replace swaps in a state built elsewhere (the initial sync).
func (s *Synchronizer) replace(next models.State) {
	s.commit(func(st *models.State) bool {
		*st = next
		return true
	})
}

func (s *Synchronizer) publish(version uint64, state models.State) {
	s.subMu.Lock()
	// A slower commit finishing after a newer one must not overwrite it
	if version <= s.published {
		s.subMu.Unlock()
		return
	}
	s.published = version
	fns := make([]func(models.State), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()

	for _, fn := range fns {
		fn(state)
	}
}

// job is one queued remote write.
type job struct {
	op   string
	call func(ctx context.Context) error
}

// propagate queues call for the background worker when a session exists.
// Calls reach the remote one at a time in the order they were queued, so the
// last local write is also the last one the server sees. op names the
// operation in logs.
func (s *Synchronizer) propagate(op string, call func(ctx context.Context) error) {
	if !s.Authenticated() {
		return
	}
	s.inflight.Add(1)

	s.queueMu.Lock()
	s.queue = append(s.queue, job{op: op, call: call})
	start := !s.draining
	s.draining = true
	s.queueMu.Unlock()

	if start {
		go s.drain()
	}
}

// drain runs queued jobs until the queue is empty. At most one drain runs at
// a time.
func (s *Synchronizer) drain() {
	for {
		s.queueMu.Lock()
		if len(s.queue) == 0 {
			s.draining = false
			s.queueMu.Unlock()
			return
		}
		next := s.queue[0]
		s.queue[0] = job{}
		s.queue = s.queue[1:]
		s.queueMu.Unlock()

		s.run(next)
		s.inflight.Done()
	}
}

func (s *Synchronizer) run(j job) {
	// A rejected session drops whatever was queued behind it
	if !s.Authenticated() {
		s.log.Debug("Dropping queued write after session ended", "op", j.op)
		return
	}
	ctx := context.Background()
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	if err := j.call(ctx); err != nil {
		s.logRemoteFailure(j.op, err)
		return
	}
	s.log.Debug("Propagated", "op", j.op)
}

func (s *Synchronizer) logRemoteFailure(op string, err error) {
	kind := apperrors.Kind(err)
	if kind == apperrors.KindUnauthorized {
		s.log.Warn("Session rejected by server", "op", op, "kind", kind)
		return
	}
	s.log.Error("Remote propagation failed", "op", op, "kind", kind, "error", err)
}

// remoteID parses a local id into a server id. Demo todo ids ("demo1") are not
// numeric and are never sent. Numeric ids minted offline or by the demo seed
// are sent as is; the server answers 404 for ones it does not own and the
// failure is logged like any other.
func (s *Synchronizer) remoteID(op, id string) (int64, bool) {
	n, err := strconv.ParseInt(id, 10, 64)
	if err != nil || n <= 0 {
		if s.Authenticated() {
			s.log.Debug("Skipping propagation of local-only record", "op", op, "id", id)
		}
		return 0, false
	}
	return n, true
}

// nextLocalID returns a millisecond timestamp, bumped so ids stay strictly
// increasing within the process.
func (s *Synchronizer) nextLocalID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.clock.Now().UnixMilli()
	if id <= s.lastID {
		id = s.lastID + 1
	}
	s.lastID = id
	return strconv.FormatInt(id, 10)
}
