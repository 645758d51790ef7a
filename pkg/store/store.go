// Package store holds the authoritative in-memory request collection.
// Persistence is write-behind: every mutation hands a snapshot to the
// injected saver, which is expected to be non-blocking (debounced).
package store

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/civic-lab/partes/pkg/domain/model"
	"github.com/civic-lab/partes/pkg/domain/types"
)

// Saver receives a snapshot of the full collection after a mutation.
// It must not block; the store calls it while holding its lock.
type Saver func(snapshot []*model.Request)

// Statistics are the counts of requests per overall status. Unknown
// holds values outside the known set so Total always reconciles.
type Statistics struct {
	Total    int
	Received int
	InReview int
	Closed   int
	Unknown  int
}

// Store is the ordered request collection
type Store struct {
	mu    sync.RWMutex
	reqs  []*model.Request
	index map[types.RequestID]int

	seq     int
	seqYear string

	now  func() time.Time
	save Saver
}

// Option configures a Store
type Option func(*Store)

// WithClock overrides the time source, mainly for tests
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// WithSaver sets the snapshot callback invoked after every mutation
func WithSaver(save Saver) Option {
	return func(s *Store) {
		s.save = save
	}
}

// New creates an empty Store
func New(opts ...Option) *Store {
	s := &Store{
		index: make(map[types.RequestID]int),
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Hydrate replaces the collection with loaded records, keeping their
// order, and seeds the ID counter from the highest sequence found for
// the current year. Hydrate does not trigger a save.
func (s *Store) Hydrate(reqs []*model.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.reqs = make([]*model.Request, 0, len(reqs))
	s.index = make(map[types.RequestID]int, len(reqs))

	year := s.now().Format("06")
	s.seq = 0
	s.seqYear = year

	for _, r := range reqs {
		cloned := r.Clone()
		cloned.OverallStatus = cloned.OverallStatus.Normalize()
		s.index[cloned.ID] = len(s.reqs)
		s.reqs = append(s.reqs, cloned)

		if n, ok := sequenceOf(cloned.ID, year); ok && n > s.seq {
			s.seq = n
		}
	}
}

// sequenceOf extracts the numeric suffix of an ID belonging to year
func sequenceOf(id types.RequestID, year string) (int, bool) {
	str := string(id)
	if !strings.HasPrefix(str, year+"-") {
		return 0, false
	}
	n, err := strconv.Atoi(strings.TrimPrefix(str, year+"-"))
	if err != nil {
		return 0, false
	}
	return n, true
}

// nextID issues the next "YY-NNNN" identifier. The counter is
// monotonic within the process and resets when the year rolls over;
// collisions across process restarts are avoided by seeding the
// counter in Hydrate.
func (s *Store) nextID() types.RequestID {
	year := s.now().Format("06")
	if year != s.seqYear {
		s.seqYear = year
		s.seq = 0
	}
	s.seq++
	return types.RequestID(fmt.Sprintf("%s-%04d", year, s.seq))
}

// Create stores a new request built from the caller-supplied fields.
// The store assigns the ID, the received status and the creation
// timestamp; whatever the caller set for those is overwritten. The
// returned record is a copy owned by the caller.
func (s *Store) Create(r *model.Request) *model.Request {
	s.mu.Lock()
	defer s.mu.Unlock()

	created := r.Clone()
	created.ID = s.nextID()
	created.OverallStatus = types.OverallStatusReceived
	created.AssignedUnit = ""
	created.UnitStatus = types.UnitStatusNone
	created.CreatedAt = s.now()

	s.index[created.ID] = len(s.reqs)
	s.reqs = append(s.reqs, created)

	s.saveLocked()
	return created.Clone()
}

// FindByID returns a copy of the request, or false when the ID is
// unknown. ID comparison is exact and case-sensitive.
func (s *Store) FindByID(id types.RequestID) (*model.Request, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i, ok := s.index[id]
	if !ok {
		return nil, false
	}
	return s.reqs[i].Clone(), true
}

// Update merges the changes into the request, last-write-wins per
// field. Returns false without side effects when the ID is unknown.
// An empty change set on an existing ID still succeeds.
func (s *Store) Update(id types.RequestID, ch model.Changes) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.index[id]
	if !ok {
		return false
	}

	ch.Apply(s.reqs[i])
	s.saveLocked()
	return true
}

// All returns copies of every request in insertion order
func (s *Store) All() []*model.Request {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

// Len returns the number of stored requests
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.reqs)
}

// Statistics counts requests per overall status
func (s *Store) Statistics() Statistics {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := Statistics{Total: len(s.reqs)}
	for _, r := range s.reqs {
		switch r.OverallStatus {
		case types.OverallStatusReceived:
			stats.Received++
		case types.OverallStatusInReview:
			stats.InReview++
		case types.OverallStatusClosed:
			stats.Closed++
		default:
			stats.Unknown++
		}
	}
	return stats
}

func (s *Store) snapshotLocked() []*model.Request {
	snapshot := make([]*model.Request, len(s.reqs))
	for i, r := range s.reqs {
		snapshot[i] = r.Clone()
	}
	return snapshot
}

func (s *Store) saveLocked() {
	if s.save == nil {
		return
	}
	s.save(s.snapshotLocked())
}
