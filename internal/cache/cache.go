package cache

import (
	"sync"
	"sync/atomic"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Priority is a hint used when the store has to make room for new entries.
// Higher priorities survive longer under pressure.
type Priority int

const (
	PriorityLow Priority = iota + 1
	PriorityNormal
	PriorityHigh
	PriorityNeverRemove // never evicted for capacity, only by expiry or Remove
)

// Policy describes how long an entry stays valid.
//
// Sliding is reset on every successful Get. Absolute is measured from the
// moment the entry was stored and is never extended. The entry expires at
// whichever deadline comes first. A zero Sliding or Absolute disables that
// clock; a zero Policy means DefaultPolicy.
type Policy struct {
	Sliding  time.Duration
	Absolute time.Duration
	Priority Priority
}

// DefaultPolicy is applied by Set when the caller passes a zero Policy.
var DefaultPolicy = Policy{
	Sliding:  180 * time.Second,
	Absolute: 3600 * time.Second,
	Priority: PriorityNormal,
}

func (p Policy) normalize() Policy {
	if p == (Policy{}) {
		return DefaultPolicy
	}
	if p.Priority == 0 {
		p.Priority = PriorityNormal
	}
	return p
}

// Config holds store settings
type Config struct {
	MaxEntries      int              // 0 means unbounded
	CleanupInterval time.Duration    // janitor interval (default 1 minute)
	Now             func() time.Time // clock, defaults to time.Now
}

// Stats is a point-in-time snapshot of store counters
type Stats struct {
	Hits      uint64 `json:"hits"`
	Misses    uint64 `json:"misses"`
	Evictions uint64 `json:"evictions"`
	Entries   int    `json:"entries"`
}

// Store is a process-local key/value cache with sliding and absolute
// expiration. It is safe for concurrent use.
type Store struct {
	items      *gocache.Cache
	now        func() time.Time
	maxEntries int

	// mu serializes writers so capacity checks and replacement are atomic.
	// Readers never take it on the hit path.
	mu     sync.Mutex
	closed atomic.Bool

	hits      atomic.Uint64
	misses    atomic.Uint64
	evictions atomic.Uint64
}

type entry struct {
	value      any
	created    time.Time
	lastAccess atomic.Int64 // unix nanos
	sliding    time.Duration
	deadline   time.Time // zero when there is no absolute ceiling
	priority   Priority
}

func newEntry(value any, now time.Time, p Policy) *entry {
	e := &entry{
		value:    value,
		created:  now,
		sliding:  p.Sliding,
		priority: p.Priority,
	}
	if p.Absolute > 0 {
		e.deadline = now.Add(p.Absolute)
	}
	e.lastAccess.Store(now.UnixNano())
	return e
}

// expiresAt returns min(last_access + sliding, created + absolute).
// The zero time means the entry never expires.
func (e *entry) expiresAt() time.Time {
	if e.sliding <= 0 {
		return e.deadline
	}
	slide := time.Unix(0, e.lastAccess.Load()).Add(e.sliding)
	if !e.deadline.IsZero() && e.deadline.Before(slide) {
		return e.deadline
	}
	return slide
}

func (e *entry) expired(now time.Time) bool {
	exp := e.expiresAt()
	return !exp.IsZero() && !now.Before(exp)
}

func (e *entry) touch(now time.Time) {
	e.lastAccess.Store(now.UnixNano())
}

// New creates a store. The caller owns it and must call Close on shutdown.
func New(cfg Config) *Store {
	if cfg.CleanupInterval == 0 {
		cfg.CleanupInterval = time.Minute
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	return &Store{
		items:      gocache.New(gocache.NoExpiration, cfg.CleanupInterval),
		now:        cfg.Now,
		maxEntries: cfg.MaxEntries,
	}
}

// Get returns the value stored under key. A hit resets the sliding clock.
func (s *Store) Get(key string) (any, bool) {
	raw, ok := s.items.Get(key)
	if !ok {
		s.misses.Add(1)
		return nil, false
	}

	e := raw.(*entry)
	now := s.now()
	if e.expired(now) {
		s.dropIfCurrent(key, e)
		s.misses.Add(1)
		return nil, false
	}

	e.touch(now)
	s.hits.Add(1)
	return e.value, true
}

// GetAs is Get with a type assertion. A value of the wrong type is a miss.
func GetAs[T any](s *Store, key string) (T, bool) {
	var zero T
	v, ok := s.Get(key)
	if !ok {
		return zero, false
	}
	typed, ok := v.(T)
	if !ok {
		return zero, false
	}
	return typed, true
}

// Set stores value under key, replacing any previous entry.
// Writes after Close are dropped.
func (s *Store) Set(key string, value any, p Policy) {
	if s.closed.Load() {
		return
	}
	p = p.normalize()
	now := s.now()
	e := newEntry(value, now, p)

	ttl := gocache.NoExpiration
	if p.Absolute > 0 {
		ttl = p.Absolute
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.maxEntries > 0 {
		if _, exists := s.items.Get(key); !exists && s.items.ItemCount() >= s.maxEntries {
			s.evictLocked(now)
		}
	}
	s.items.Set(key, e, ttl)
}

// Remove deletes key. Removing an absent key is a no-op.
func (s *Store) Remove(key string) {
	s.items.Delete(key)
}

// Len returns the number of stored entries, including ones that have
// expired but have not been swept yet.
func (s *Store) Len() int {
	return s.items.ItemCount()
}

// Stats returns the current counters
func (s *Store) Stats() Stats {
	return Stats{
		Hits:      s.hits.Load(),
		Misses:    s.misses.Load(),
		Evictions: s.evictions.Load(),
		Entries:   s.items.ItemCount(),
	}
}

// Close drops every entry and rejects further writes.
func (s *Store) Close() {
	s.closed.Store(true)
	s.items.Flush()
}

func (s *Store) dropIfCurrent(key string, e *entry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if raw, ok := s.items.Get(key); ok && raw.(*entry) == e {
		s.items.Delete(key)
	}
}

// evictLocked makes room for one entry. Expired entries go first, then the
// lowest priority, then the earliest expiry. Must be called with mu held.
func (s *Store) evictLocked(now time.Time) {
	items := s.items.Items()

	removed := 0
	for key, item := range items {
		e := item.Object.(*entry)
		if e.expired(now) {
			s.items.Delete(key)
			removed++
		}
	}
	if removed > 0 {
		s.evictions.Add(uint64(removed))
		if s.items.ItemCount() < s.maxEntries {
			return
		}
	}

	var (
		victim    string
		victimE   *entry
		victimExp time.Time
	)
	for key, item := range items {
		e := item.Object.(*entry)
		if e.priority == PriorityNeverRemove || e.expired(now) {
			continue
		}
		exp := e.expiresAt()
		if victimE == nil || e.priority < victimE.priority ||
			(e.priority == victimE.priority && earlier(exp, victimExp)) {
			victim, victimE, victimExp = key, e, exp
		}
	}
	if victimE == nil {
		return
	}
	s.items.Delete(victim)
	s.evictions.Add(1)
}

// earlier orders expiry times with the zero time (never) last.
func earlier(a, b time.Time) bool {
	if a.IsZero() {
		return false
	}
	if b.IsZero() {
		return true
	}
	return a.Before(b)
}
