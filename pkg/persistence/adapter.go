// Package persistence wraps a Source with the durability policy of
// the application: memoized soft-failing loads and debounced
// write-behind saves. In-memory state stays authoritative; a failed
// write only means the mutation had no durable effect yet.
package persistence

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/civic-lab/partes/pkg/domain/interfaces"
	"github.com/civic-lab/partes/pkg/domain/model"
	"github.com/civic-lab/partes/pkg/utils/async"
	"github.com/civic-lab/partes/pkg/utils/errutil"
	"github.com/civic-lab/partes/pkg/utils/logging"
)

// DefaultDebounce is the window within which repeated saves coalesce
const DefaultDebounce = 500 * time.Millisecond

// Adapter mediates between the in-memory store and a Source
type Adapter struct {
	src      interfaces.Source
	debounce time.Duration

	mu      sync.Mutex
	timer   *time.Timer
	pending []*model.Request

	cache  []*model.Request
	cached bool

	group singleflight.Group
}

// Option configures an Adapter
type Option func(*Adapter)

// WithDebounce overrides the debounce window, mainly for tests
func WithDebounce(d time.Duration) Option {
	return func(a *Adapter) {
		a.debounce = d
	}
}

// New creates an Adapter over the given source
func New(src interfaces.Source, opts ...Option) *Adapter {
	a := &Adapter{
		src:      src,
		debounce: DefaultDebounce,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Load returns the request collection. Read and parse failures are
// logged and degrade to an empty collection so a broken document never
// blocks new intake. The result is memoized until InvalidateCache;
// concurrent callers share one fetch.
func (a *Adapter) Load(ctx context.Context) []*model.Request {
	result, _, _ := a.group.Do("load", func() (any, error) {
		a.mu.Lock()
		if a.cached {
			cached := a.cache
			a.mu.Unlock()
			return cached, nil
		}
		a.mu.Unlock()

		reqs, err := a.src.Load(ctx)
		if err != nil {
			errutil.Handle(ctx, err, "failed to load requests, starting empty")
			reqs = []*model.Request{}
		}

		a.mu.Lock()
		a.cache = reqs
		a.cached = true
		a.mu.Unlock()
		return reqs, nil
	})
	return result.([]*model.Request)
}

// Save schedules a durable write of the snapshot. A save arriving
// while another is pending cancels and replaces it; only the latest
// snapshot within the debounce window is written. Never blocks.
func (a *Adapter) Save(snapshot []*model.Request) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.pending = snapshot
	a.cache = snapshot
	a.cached = true

	if a.timer != nil {
		a.timer.Stop()
	}
	a.timer = time.AfterFunc(a.debounce, func() {
		a.flush(context.Background())
	})
}

// Flush writes any pending snapshot immediately, canceling the
// debounce timer. Call before shutdown so the tail of the debounce
// window is not lost.
func (a *Adapter) Flush(ctx context.Context) error {
	a.mu.Lock()
	if a.timer != nil {
		a.timer.Stop()
		a.timer = nil
	}
	snapshot := a.pending
	a.pending = nil
	a.mu.Unlock()

	if snapshot == nil {
		return nil
	}
	return a.src.Save(ctx, snapshot)
}

// flush runs on the debounce timer; write errors are logged only
func (a *Adapter) flush(ctx context.Context) {
	a.mu.Lock()
	snapshot := a.pending
	a.pending = nil
	a.timer = nil
	a.mu.Unlock()

	if snapshot == nil {
		return
	}

	async.Dispatch(ctx, func(ctx context.Context) error {
		if err := a.src.Save(ctx, snapshot); err != nil {
			errutil.Handle(ctx, err, "failed to persist requests")
		}
		return nil
	})
}

// InvalidateCache forces the next Load to hit the source
func (a *Adapter) InvalidateCache() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.cache = nil
	a.cached = false
}

// Close flushes pending writes and closes the source
func (a *Adapter) Close(ctx context.Context) error {
	if err := a.Flush(ctx); err != nil {
		return err
	}
	return a.src.Close()
}

// SelectSource picks between a remote read-only document and the
// local durable store: the remote wins when it probes reachable,
// otherwise everything runs against the local source. A nil remote
// selects local directly.
func SelectSource(ctx context.Context, remote, local interfaces.Source) interfaces.Source {
	if remote != nil {
		if p, ok := remote.(interfaces.Prober); ok && p.Probe(ctx) {
			logging.From(ctx).Info("using remote document source")
			return remote
		}
		logging.From(ctx).Info("remote document unreachable, using local source")
	}
	return local
}
