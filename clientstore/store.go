// Package clientstore holds client-side airport state: the full list, the
// current filtered view, pagination helpers and a capped search history. The
// persisted part of the state survives restarts through a byte-oriented
// storage and expires after a fixed window.
package clientstore

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/jhonatancruzmail/SkyConnectExplorer/airports"
	"github.com/jhonatancruzmail/SkyConnectExplorer/pkg/cache"
	"github.com/jhonatancruzmail/SkyConnectExplorer/pkg/logger"
)

// Storage is the local key/value store holding the persisted snapshot.
type Storage interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// Option configures a Store.
type Option func(*Store)

// WithStorage persists state to storage under key.
func WithStorage(storage Storage, key string) Option {
	return func(s *Store) {
		s.storage = storage
		if key != "" {
			s.storageKey = key
		}
	}
}

// WithTTL sets how long a loaded airport list stays valid.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// WithHistoryLimit sets the number of retained searches.
func WithHistoryLimit(limit int) Option {
	return func(s *Store) {
		if limit > 0 {
			s.historyLimit = limit
		}
	}
}

// WithClock replaces the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithLogger sets the logger.
func WithLogger(l *logger.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.log = l
		}
	}
}

// Store is safe for concurrent use. Every mutation replaces the whole state
// under one lock, so readers never observe a partial update.
type Store struct {
	fetcher      Fetcher
	storage      Storage
	storageKey   string
	ttl          time.Duration
	historyLimit int
	now          func() time.Time
	log          *logger.Logger

	loads singleflight.Group

	mu    sync.RWMutex
	state State
	seq   uint64 // bumped on every persisted mutation

	persistMu sync.Mutex
	written   uint64 // seq of the snapshot last handed to storage
}

// New creates a Store and hydrates it from storage when one is configured.
func New(fetcher Fetcher, opts ...Option) *Store {
	s := &Store{
		fetcher:      fetcher,
		storageKey:   cache.ClientStateKey(),
		ttl:          DefaultTTL,
		historyLimit: DefaultHistoryLimit,
		now:          time.Now,
		log:          logger.WithField("component", "client_store"),
		state: State{
			AllAirports:      []airports.Airport{},
			FilteredAirports: []airports.Airport{},
			TotalAirports:    DefaultTotalAirports,
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	s.hydrate(context.Background())
	return s
}

// Snapshot returns the current state.
func (s *Store) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.clone()
}

// CacheValid reports whether the airport list is non-empty and younger than the TTL.
func (s *Store) CacheValid() bool {
	return s.valid(s.Snapshot())
}

func (s *Store) valid(st State) bool {
	if len(st.AllAirports) == 0 || st.AirportsCacheTimestamp == nil {
		return false
	}
	return s.now().Sub(*st.AirportsCacheTimestamp) < s.ttl
}

// LoadAllAirports ensures the airport list is present. A valid cache only
// refreshes the filtered view. An invalid one is purged before fetching.
// Failures are recorded in State.Err and never returned.
//
// Concurrent callers share one fetch. The fetch is not tied to any caller's
// cancellation; a caller whose ctx ends returns early while the fetch
// completes for the others.
func (s *Store) LoadAllAirports(ctx context.Context) {
	if s.valid(s.Snapshot()) {
		s.update(func(st *State) {
			st.FilteredAirports = airports.Filter(st.AllAirports, st.SearchQuery)
		}, false)
		return
	}

	shared := context.WithoutCancel(ctx)
	result := s.loads.DoChan("all", func() (interface{}, error) {
		s.load(shared)
		return nil, nil
	})

	select {
	case <-result:
	case <-ctx.Done():
	}
}

func (s *Store) load(ctx context.Context) {
	s.update(func(st *State) {
		if !s.valid(*st) {
			st.AllAirports = []airports.Airport{}
			st.FilteredAirports = []airports.Airport{}
			st.AirportsCacheTimestamp = nil
		}
		st.IsLoading = true
		st.Err = nil
	}, true)

	page, err := s.fetcher.FetchAll(ctx)
	if err != nil {
		s.log.Error(err, "Error loading airports into store")
		s.update(func(st *State) {
			st.IsLoading = false
			st.Err = err
		}, false)
		return
	}

	stamp := s.now()
	s.update(func(st *State) {
		st.AllAirports = page.Airports
		st.FilteredAirports = airports.Filter(page.Airports, st.SearchQuery)
		st.TotalAirports = page.Total
		st.AirportsCacheTimestamp = &stamp
		st.IsLoading = false
		st.Err = nil
	}, true)
}

// Purge empties the airport list so the next load fetches again.
func (s *Store) Purge() {
	s.update(func(st *State) {
		st.AllAirports = []airports.Airport{}
		st.FilteredAirports = []airports.Airport{}
		st.AirportsCacheTimestamp = nil
	}, true)
}

// SetSearchQuery stores query and recomputes the filtered view from the full list.
func (s *Store) SetSearchQuery(query string) {
	s.update(func(st *State) {
		st.SearchQuery = query
		st.FilteredAirports = airports.Filter(st.AllAirports, query)
	}, false)
}

// AddToSearchHistory records query as the most recent search. Blank queries
// are ignored and an existing entry differing only in case is replaced.
func (s *Store) AddToSearchHistory(query string) {
	query = strings.TrimSpace(query)
	if query == "" {
		return
	}

	s.update(func(st *State) {
		history := make([]HistoryEntry, 0, len(st.SearchHistory)+1)
		history = append(history, HistoryEntry{Query: query, Timestamp: s.now()})
		for _, entry := range st.SearchHistory {
			if strings.EqualFold(strings.TrimSpace(entry.Query), query) {
				continue
			}
			history = append(history, entry)
		}
		if len(history) > s.historyLimit {
			history = history[:s.historyLimit]
		}
		st.SearchHistory = history
	}, true)
}

// ClearSearchHistory removes all recorded searches.
func (s *Store) ClearSearchHistory() {
	s.update(func(st *State) {
		st.SearchHistory = nil
	}, true)
}

// ClearError resets the recorded load error.
func (s *Store) ClearError() {
	s.update(func(st *State) {
		st.Err = nil
	}, false)
}

// AirportsForPage returns the 1-based page of the filtered view when a query
// is active, or of the full list otherwise.
func (s *Store) AirportsForPage(page, pageSize int) []airports.Airport {
	if page < 1 || pageSize <= 0 {
		return []airports.Airport{}
	}

	st := s.Snapshot()
	source := st.AllAirports
	if strings.TrimSpace(st.SearchQuery) != "" {
		source = st.FilteredAirports
	}

	start := (page - 1) * pageSize
	if start >= len(source) {
		return []airports.Airport{}
	}
	end := start + pageSize
	if end > len(source) {
		end = len(source)
	}
	return source[start:end]
}

// TotalPages returns the number of pages of the filtered view when a query is
// active, or of the server-reported total otherwise.
func (s *Store) TotalPages(pageSize int) int {
	if pageSize <= 0 {
		return 0
	}

	st := s.Snapshot()
	count := st.TotalAirports
	if strings.TrimSpace(st.SearchQuery) != "" {
		count = len(st.FilteredAirports)
	}
	return int(math.Ceil(float64(count) / float64(pageSize)))
}

// AirportByIATA looks up an airport in the full list.
func (s *Store) AirportByIATA(code string) (airports.Airport, bool) {
	return airports.FindByIATA(s.Snapshot().AllAirports, code)
}

func (s *Store) update(fn func(st *State), persist bool) {
	s.mu.Lock()
	next := s.state.clone()
	fn(&next)
	s.state = next
	var (
		data []byte
		seq  uint64
	)
	if persist && s.storage != nil {
		var err error
		data, err = json.Marshal(next.persisted())
		if err != nil {
			s.log.Error(err, "Failed to encode airports store")
			data = nil
		}
		s.seq++
		seq = s.seq
	}
	s.mu.Unlock()

	if data != nil {
		s.persist(seq, data)
	}
}

// persist writes data unless a newer snapshot has already been written.
// Writes are serialized so storage never ends on an older snapshot.
func (s *Store) persist(seq uint64, data []byte) {
	s.persistMu.Lock()
	defer s.persistMu.Unlock()

	if seq <= s.written {
		return
	}
	s.written = seq
	if err := s.storage.Set(context.Background(), s.storageKey, data, 0); err != nil {
		s.log.Error(err, "Failed to persist airports store")
	}
}

func (s *Store) hydrate(ctx context.Context) {
	if s.storage == nil {
		return
	}

	data, err := s.storage.Get(ctx, s.storageKey)
	if err != nil {
		if !errors.Is(err, cache.ErrCacheMiss) {
			s.log.Warn("Failed to read persisted airports store", "error", err.Error())
		}
		return
	}

	var p persistedState
	if err := json.Unmarshal(data, &p); err != nil || p.Version != persistVersion {
		s.log.Warn("Ignoring unreadable persisted airports store")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if p.AllAirports == nil {
		p.AllAirports = []airports.Airport{}
	}
	s.state.AllAirports = p.AllAirports
	s.state.FilteredAirports = airports.Filter(p.AllAirports, s.state.SearchQuery)
	s.state.TotalAirports = p.TotalAirports
	s.state.AirportsCacheTimestamp = p.AirportsCacheTimestamp
	s.state.SearchHistory = p.SearchHistory
}
