package cache

import (
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

// Category namespaces cache entries and selects their TTL.
type Category string

const (
	CategoryProfile     Category = "profile"
	CategoryStats       Category = "stats"
	CategoryFriends     Category = "friends"
	CategoryFavorites   Category = "favorites"
	CategorySharedSongs Category = "sharedSongs"
	CategoryAvatar      Category = "avatar"
)

// defaultTTLs holds the per-category expiry durations.
var defaultTTLs = map[Category]time.Duration{
	CategoryProfile:     30 * time.Minute,
	CategoryStats:       10 * time.Minute,
	CategoryFriends:     15 * time.Minute,
	CategoryFavorites:   60 * time.Minute,
	CategorySharedSongs: 5 * time.Minute,
	CategoryAvatar:      120 * time.Minute,
}

// Key identifies a cache entry. A structured composite key is used instead of
// string concatenation so differently escaped scopes can never collide.
type Key struct {
	Category Category
	Scope    string
}

type entry struct {
	data      any
	storedAt  time.Time
	expiresAt time.Time
}

// Store is a namespaced in-process key/value store with per-category expiry.
type Store struct {
	mu      sync.Mutex
	entries map[Key]entry
	ttls    map[Category]time.Duration
	now     func() time.Time
	logger  *log.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the store's time source. Used by tests to advance time
// past category TTLs.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithTTL overrides the TTL for a single category.
func WithTTL(category Category, ttl time.Duration) Option {
	return func(s *Store) { s.ttls[category] = ttl }
}

// WithLogger attaches a logger for debug-level cache traces.
func WithLogger(logger *log.Logger) Option {
	return func(s *Store) { s.logger = logger }
}

// New creates an empty Store with the default TTL table.
func New(opts ...Option) *Store {
	s := &Store{
		entries: make(map[Key]entry),
		ttls:    make(map[Category]time.Duration, len(defaultTTLs)),
		now:     time.Now,
	}
	for category, ttl := range defaultTTLs {
		s.ttls[category] = ttl
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// TTL returns the configured expiry duration for a category.
func (s *Store) TTL(category Category) time.Duration {
	return s.ttls[category]
}

// Set stores a value with expiry now + TTL(category), replacing any existing
// entry for the same key.
func (s *Store) Set(category Category, scope string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.set(category, scope, value)
}

// set writes an entry. Caller holds the lock.
func (s *Store) set(category Category, scope string, value any) {
	now := s.now()
	s.entries[Key{Category: category, Scope: scope}] = entry{
		data:      value,
		storedAt:  now,
		expiresAt: now.Add(s.ttls[category]),
	}
}

// Get returns the value for (category, scope), or a miss if the entry is
// absent or expired. Expired entries are deleted on read.
func (s *Store) Get(category Category, scope string) (any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.get(category, scope)
}

// get reads an entry, evicting it when expired. Caller holds the lock.
func (s *Store) get(category Category, scope string) (any, bool) {
	key := Key{Category: category, Scope: scope}
	e, ok := s.entries[key]
	if !ok {
		return nil, false
	}
	if !s.now().Before(e.expiresAt) {
		delete(s.entries, key)
		if s.logger != nil {
			s.logger.Debug("cache entry expired", "category", category, "scope", scope)
		}
		return nil, false
	}
	return e.data, true
}

// Invalidate removes a single entry.
func (s *Store) Invalidate(category Category, scope string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, Key{Category: category, Scope: scope})
}

// InvalidateAll removes entries matching the given filters. An empty category
// matches every category; an empty userID matches every scope. Scopes are
// matched when they equal the user id or are prefixed by "userID:", which
// covers per-bucket shared-song scopes.
func (s *Store) InvalidateAll(category Category, userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for key := range s.entries {
		if category != "" && key.Category != category {
			continue
		}
		if userID != "" && key.Scope != userID && !strings.HasPrefix(key.Scope, userID+":") {
			continue
		}
		delete(s.entries, key)
	}
}

// Len reports the number of entries currently held, including ones that have
// expired but not yet been read.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Lookup is a typed read: a hit whose value is not a T counts as a miss.
func Lookup[T any](s *Store, category Category, scope string) (T, bool) {
	var zero T
	value, ok := s.Get(category, scope)
	if !ok {
		return zero, false
	}
	typed, ok := value.(T)
	if !ok {
		return zero, false
	}
	return typed, true
}
