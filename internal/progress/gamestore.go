package progress

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/tkaraca/lingotrack/internal/api"
	"github.com/tkaraca/lingotrack/internal/storage"
	"github.com/tkaraca/lingotrack/internal/syncer"
	"github.com/tkaraca/lingotrack/internal/timeutil"
)

// DefaultGameDebounce is the games sync window. Game updates arrive
// once per round or word, so the window is tighter than the lesson one.
const DefaultGameDebounce = 2 * time.Second

// gameKeyPrefix namespaces every game entry in local storage, so a
// prefix scan finds everything games-related without a manifest.
const gameKeyPrefix = "games:"

// GameKey builds the opaque storage key for a game and category, e.g.
// GameKey("memory", "animals") == "memory:animals".
func GameKey(gameType, category string) string {
	return gameType + ":" + category
}

// GamesStore is the generic key/value progress façade used by the games
// module: the same get/save shape as the lesson store, over arbitrary
// game+category keys.
type GamesStore struct {
	mu      sync.RWMutex
	local   *storage.LocalStore
	client  api.Client
	clock   timeutil.Clock
	sched   *syncer.Scheduler
	entries map[string]GameEntry
	userID  string

	authorized bool

	subMu       sync.Mutex
	subscribers map[int]func()
	nextSubID   int
}

// NewGamesStore creates a games-progress store. Call Load before first
// use and Close on session teardown.
func NewGamesStore(opts StoreOptions) *GamesStore {
	clock := opts.Clock
	if clock == nil {
		clock = timeutil.NewClock()
	}
	debounce := opts.Debounce
	if debounce <= 0 {
		debounce = DefaultGameDebounce
	}

	s := &GamesStore{
		userID:      opts.UserID,
		local:       opts.Local,
		client:      opts.Client,
		clock:       clock,
		entries:     make(map[string]GameEntry),
		authorized:  true,
		subscribers: make(map[int]func()),
	}
	s.sched = syncer.NewScheduler(clock, debounce, s.flush)
	return s
}

func (s *GamesStore) canSync() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.client != nil && s.userID != "" && s.authorized
}

// Load reads every locally persisted entry and reconciles with the
// remote collection when an identity is available.
func (s *GamesStore) Load(ctx context.Context) error {
	cached, err := storage.ReadPrefix[GameEntry](ctx, s.local, gameKeyPrefix)
	if err != nil {
		return fmt.Errorf("read cached game progress: %w", err)
	}

	entries := make(map[string]GameEntry, len(cached))
	for key, entry := range cached {
		entries[strings.TrimPrefix(key, gameKeyPrefix)] = entry
	}

	s.mu.Lock()
	s.entries = entries
	s.mu.Unlock()

	if !s.canSync() {
		return nil
	}

	remote, err := s.client.FetchGameProgress(ctx)
	if err != nil {
		if errors.Is(err, api.ErrUnauthorized) {
			s.setAuthorized(false)
			return nil
		}
		slog.Warn("remote game progress unavailable; using local copy", "error", err)
		return nil
	}

	s.mu.Lock()
	s.entries = MergeGameMap(s.entries, decodeGameMap(remote))
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	if err := s.persist(ctx, snapshot); err != nil {
		return err
	}
	s.notify()
	return nil
}

// Get returns the entry for a key, with ok=false when absent.
func (s *GamesStore) Get(key string) (GameEntry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.entries[key]
	return entry, ok
}

// All returns a copy of every entry.
func (s *GamesStore) All() map[string]GameEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

// Save stores an entry, persists it locally, and schedules a sync.
func (s *GamesStore) Save(ctx context.Context, key string, entry GameEntry) error {
	s.mu.Lock()
	s.entries[key] = entry
	s.mu.Unlock()

	if err := s.local.Write(ctx, gameKeyPrefix+key, entry); err != nil {
		return fmt.Errorf("persist game progress: %w", err)
	}
	s.notify()

	if s.canSync() {
		s.sched.Schedule()
	}
	return nil
}

// Clear removes every local entry, resets in-memory state, notifies
// observers, and best-effort deletes the remote collection.
func (s *GamesStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	keys := make([]string, 0, len(s.entries))
	for key := range s.entries {
		keys = append(keys, key)
	}
	s.entries = make(map[string]GameEntry)
	s.mu.Unlock()

	for _, key := range keys {
		if err := s.local.Remove(ctx, gameKeyPrefix+key); err != nil {
			return fmt.Errorf("clear local game progress: %w", err)
		}
	}
	s.notify()

	if !s.canSync() {
		return nil
	}
	if err := s.client.ClearGameProgress(ctx); err != nil {
		switch {
		case errors.Is(err, api.ErrNotFound):
		case errors.Is(err, api.ErrUnauthorized):
			s.setAuthorized(false)
		default:
			slog.Warn("remote game progress clear failed", "error", err)
		}
	}
	return nil
}

// Syncing reports whether a push is outstanding.
func (s *GamesStore) Syncing() bool {
	return s.sched.Syncing()
}

// SyncNow pushes immediately, outside the debounce window.
func (s *GamesStore) SyncNow() {
	if s.canSync() {
		s.sched.SyncNow()
	}
}

// Subscribe registers an observer called after any change. The returned
// function unsubscribes it.
func (s *GamesStore) Subscribe(fn func()) func() {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	id := s.nextSubID
	s.nextSubID++
	s.subscribers[id] = fn
	return func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		delete(s.subscribers, id)
	}
}

// Close stops the sync scheduler.
func (s *GamesStore) Close() {
	s.sched.Stop()
}

func (s *GamesStore) flush(ctx context.Context) error {
	if !s.canSync() {
		return nil
	}

	s.mu.RLock()
	outbound, err := encodeGameMap(s.snapshotLocked())
	s.mu.RUnlock()
	if err != nil {
		return err
	}

	response, err := s.client.SyncGameProgress(ctx, outbound)
	if err != nil {
		if errors.Is(err, api.ErrUnauthorized) {
			s.setAuthorized(false)
		}
		return err
	}

	s.mu.Lock()
	s.entries = MergeGameMap(s.entries, decodeGameMap(response))
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	if err := s.persist(ctx, snapshot); err != nil {
		return err
	}
	s.notify()
	return nil
}

func (s *GamesStore) persist(ctx context.Context, entries map[string]GameEntry) error {
	for key, entry := range entries {
		if err := s.local.Write(ctx, gameKeyPrefix+key, entry); err != nil {
			return fmt.Errorf("cache game progress %q: %w", key, err)
		}
	}
	return nil
}

func (s *GamesStore) snapshotLocked() map[string]GameEntry {
	snapshot := make(map[string]GameEntry, len(s.entries))
	for key, entry := range s.entries {
		snapshot[key] = entry
	}
	return snapshot
}

func (s *GamesStore) setAuthorized(authorized bool) {
	s.mu.Lock()
	s.authorized = authorized
	s.mu.Unlock()
}

func (s *GamesStore) notify() {
	s.subMu.Lock()
	fns := make([]func(), 0, len(s.subscribers))
	for _, fn := range s.subscribers {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()

	for _, fn := range fns {
		fn()
	}
}

func decodeGameMap(raw map[string]json.RawMessage) map[string]GameEntry {
	entries := make(map[string]GameEntry, len(raw))
	for key, value := range raw {
		var entry GameEntry
		if err := json.Unmarshal(value, &entry); err != nil {
			slog.Warn("discarding malformed game progress value", "key", key, "error", err)
			continue
		}
		entries[key] = entry
	}
	return entries
}

func encodeGameMap(entries map[string]GameEntry) (map[string]json.RawMessage, error) {
	raw := make(map[string]json.RawMessage, len(entries))
	for key, entry := range entries {
		encoded, err := json.Marshal(entry)
		if err != nil {
			return nil, fmt.Errorf("marshal game progress %q: %w", key, err)
		}
		raw[key] = encoded
	}
	return raw, nil
}
