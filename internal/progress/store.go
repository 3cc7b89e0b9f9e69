package progress

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/tkaraca/lingotrack/internal/api"
	"github.com/tkaraca/lingotrack/internal/storage"
	"github.com/tkaraca/lingotrack/internal/syncer"
	"github.com/tkaraca/lingotrack/internal/timeutil"
)

// RecentLessonsCap bounds the list returned by Recent.
const RecentLessonsCap = 5

// DefaultLessonDebounce is the lesson-progress sync window. Lesson
// updates fire on every audio tap, so this window is wider than the
// games one.
const DefaultLessonDebounce = 3 * time.Second

// StoreOptions configures a Store. Client may be nil and UserID empty
// for an anonymous session; mutations then stay local-only.
type StoreOptions struct {
	UserID   string
	Local    *storage.LocalStore
	Client   api.Client
	Clock    timeutil.Clock
	Debounce time.Duration
}

// Store is the lesson-progress façade UI code talks to: read and
// update progress, derive recent lessons and totals, clear everything,
// and watch a syncing flag. Every mutation is written to local storage
// and in-memory state immediately; the network only ever runs behind
// the debounced scheduler.
type Store struct {
	mu      sync.RWMutex
	userID  string
	local   *storage.LocalStore
	client  api.Client
	clock   timeutil.Clock
	sched   *syncer.Scheduler
	lessons map[string]LessonProgress

	// authorized drops to false on the first 401 and stops further
	// pushes for the session.
	authorized bool

	subMu       sync.Mutex
	subscribers map[int]func()
	nextSubID   int
}

// NewStore creates a lesson-progress store. Call Load before first use
// and Close on session teardown.
func NewStore(opts StoreOptions) *Store {
	clock := opts.Clock
	if clock == nil {
		clock = timeutil.NewClock()
	}
	debounce := opts.Debounce
	if debounce <= 0 {
		debounce = DefaultLessonDebounce
	}

	s := &Store{
		userID:      opts.UserID,
		local:       opts.Local,
		client:      opts.Client,
		clock:       clock,
		lessons:     make(map[string]LessonProgress),
		authorized:  true,
		subscribers: make(map[int]func()),
	}
	s.sched = syncer.NewScheduler(clock, debounce, s.flush)
	return s
}

func (s *Store) storageKey() string {
	user := s.userID
	if user == "" {
		user = "anonymous"
	}
	return "progress:" + user
}

func (s *Store) canSync() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.client != nil && s.userID != "" && s.authorized
}

// Load populates the store from the local cache and reconciles it with
// the remote copy when an identity is available. Remote failures leave
// the local state authoritative.
func (s *Store) Load(ctx context.Context) error {
	var cached map[string]api.LessonProgressDTO
	if _, err := s.local.Read(ctx, s.storageKey(), &cached); err != nil {
		return fmt.Errorf("read cached progress: %w", err)
	}
	local := MapFromDTO(cached)

	s.mu.Lock()
	s.lessons = local
	s.mu.Unlock()

	if !s.canSync() {
		return nil
	}

	remote, err := s.client.FetchLessonProgress(ctx)
	if err != nil {
		if errors.Is(err, api.ErrUnauthorized) {
			s.setAuthorized(false)
			return nil
		}
		slog.Warn("remote progress unavailable; using local copy", "error", err)
		return nil
	}

	s.mu.Lock()
	s.lessons = MergeLessonMap(s.lessons, MapFromDTO(remote))
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	if err := s.local.Write(ctx, s.storageKey(), MapToDTO(snapshot)); err != nil {
		return fmt.Errorf("cache merged progress: %w", err)
	}
	s.notify()
	return nil
}

// UpdateLesson applies a partial update to one lesson, creating the
// record lazily on first touch. The local cache and in-memory state are
// updated synchronously; a sync push is scheduled behind the debounce.
func (s *Store) UpdateLesson(ctx context.Context, lessonID string, u Update) error {
	now := s.clock.Now()

	s.mu.Lock()
	record, ok := s.lessons[lessonID]
	if !ok {
		record = Default()
	}
	s.lessons[lessonID] = record.Apply(u, now)
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	if err := s.local.Write(ctx, s.storageKey(), MapToDTO(snapshot)); err != nil {
		return fmt.Errorf("persist progress: %w", err)
	}
	s.notify()

	if s.canSync() {
		s.sched.Schedule()
	}
	return nil
}

// GetLesson returns the record for a lesson, or the default empty
// record when the lesson has never been touched.
func (s *Store) GetLesson(lessonID string) LessonProgress {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if record, ok := s.lessons[lessonID]; ok {
		return record
	}
	return Default()
}

// All returns a copy of every lesson record.
func (s *Store) All() map[string]LessonProgress {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

// RecentLesson pairs a lesson id with its progress record.
type RecentLesson struct {
	LessonID string
	Record   LessonProgress
}

// Recent returns started lessons ordered by last access, newest first,
// capped to RecentLessonsCap.
func (s *Store) Recent() []RecentLesson {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var recent []RecentLesson
	for id, record := range s.lessons {
		if record.Status == StatusNotStarted {
			continue
		}
		recent = append(recent, RecentLesson{LessonID: id, Record: record})
	}
	sort.Slice(recent, func(i, j int) bool {
		if recent[i].Record.LastAccessed.Equal(recent[j].Record.LastAccessed) {
			return recent[i].LessonID < recent[j].LessonID
		}
		return recent[i].Record.LastAccessed.After(recent[j].Record.LastAccessed)
	})
	if len(recent) > RecentLessonsCap {
		recent = recent[:RecentLessonsCap]
	}
	return recent
}

// TotalTimeSpent sums the accumulated minutes across all lessons.
func (s *Store) TotalTimeSpent() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	total := 0
	for _, record := range s.lessons {
		total += record.TimeSpent
	}
	return total
}

// Clear removes the persisted local copy, resets in-memory state,
// notifies observers, and best-effort deletes the remote copy. A
// missing remote endpoint is tolerated; the local effect always
// applies.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	s.lessons = make(map[string]LessonProgress)
	s.mu.Unlock()

	if err := s.local.Remove(ctx, s.storageKey()); err != nil {
		return fmt.Errorf("clear local progress: %w", err)
	}
	s.notify()

	if !s.canSync() {
		return nil
	}
	if err := s.client.ClearLessonProgress(ctx); err != nil {
		switch {
		case errors.Is(err, api.ErrNotFound):
			// Backend without the delete endpoint yet.
		case errors.Is(err, api.ErrUnauthorized):
			s.setAuthorized(false)
		default:
			slog.Warn("remote progress clear failed", "error", err)
		}
	}
	return nil
}

// Syncing reports whether a push is outstanding.
func (s *Store) Syncing() bool {
	return s.sched.Syncing()
}

// SyncNow pushes immediately, outside the debounce window.
func (s *Store) SyncNow() {
	if s.canSync() {
		s.sched.SyncNow()
	}
}

// Subscribe registers an observer called after any progress change. The
// returned function unsubscribes it.
func (s *Store) Subscribe(fn func()) func() {
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

// Close stops the sync scheduler. In-memory state stays readable.
func (s *Store) Close() {
	s.sched.Stop()
}

// flush pushes the latest snapshot and re-merges the server's response,
// since mutations may have landed between push and response.
func (s *Store) flush(ctx context.Context) error {
	if !s.canSync() {
		return nil
	}

	s.mu.RLock()
	outbound := MapToDTO(s.snapshotLocked())
	s.mu.RUnlock()

	response, err := s.client.SyncLessonProgress(ctx, outbound)
	if err != nil {
		if errors.Is(err, api.ErrUnauthorized) {
			s.setAuthorized(false)
		}
		return err
	}

	s.mu.Lock()
	s.lessons = MergeLessonMap(s.lessons, MapFromDTO(response))
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	if err := s.local.Write(ctx, s.storageKey(), MapToDTO(snapshot)); err != nil {
		return fmt.Errorf("cache synced progress: %w", err)
	}
	s.notify()
	return nil
}

func (s *Store) snapshotLocked() map[string]LessonProgress {
	snapshot := make(map[string]LessonProgress, len(s.lessons))
	for id, record := range s.lessons {
		snapshot[id] = record
	}
	return snapshot
}

func (s *Store) setAuthorized(authorized bool) {
	s.mu.Lock()
	s.authorized = authorized
	s.mu.Unlock()
}

func (s *Store) notify() {
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
