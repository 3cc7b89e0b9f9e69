// Package section converts raw interaction events for lesson sections
// into bounded completion scores.
package section

import (
	"math"
	"sort"
	"sync"
	"time"

	"github.com/tkaraca/lingotrack/internal/progress"
	"github.com/tkaraca/lingotrack/internal/timeutil"
)

// Requirements are the thresholds a section must meet to count as fully
// engaged with.
type Requirements struct {
	MinTimeSeconds        int `yaml:"min_time_seconds"`
	MinInteractions       int `yaml:"min_interactions"`
	MinUniqueInteractions int `yaml:"min_unique_interactions"`
}

// DefaultRequirements applies to sections with no configured thresholds.
func DefaultRequirements() Requirements {
	return Requirements{
		MinTimeSeconds:        30,
		MinInteractions:       3,
		MinUniqueInteractions: 2,
	}
}

// Score computes the 0-100 completion score for one set of counters.
// Unique-item coverage carries half the weight: exploring ten items says
// more than tapping one item ten times. The result is rounded to the
// nearest integer before any comparison against 100, so 99.6 counts as
// complete.
func Score(timeSpentSeconds, interactions, uniqueInteractions int, req Requirements) int {
	timeRatio := cappedRatio(timeSpentSeconds, req.MinTimeSeconds)
	uniqueRatio := cappedRatio(uniqueInteractions, req.MinUniqueInteractions)
	totalRatio := cappedRatio(interactions, req.MinInteractions)

	return int(math.Round(100 * (0.30*timeRatio + 0.50*uniqueRatio + 0.20*totalRatio)))
}

func cappedRatio(value, minimum int) float64 {
	if minimum <= 0 {
		return 1
	}
	return math.Min(float64(value)/float64(minimum), 1)
}

// tickInterval is how often an active section's elapsed time and score
// are recomputed.
const tickInterval = 5 * time.Second

type sectionState struct {
	requirements Requirements
	baseSeconds  int // flushed time from previous visits
	startedAt    time.Time
	active       bool
	interactions int
	unique       map[string]struct{}
	ticker       timeutil.Timer
}

// Tracker accumulates interaction counters for the sections of one
// lesson and derives per-section and lesson-level completion.
//
// A wall-clock timer runs per active section: Start is idempotent, Stop
// flushes the elapsed delta synchronously, and Close tears every timer
// down so no background work leaks past the session.
type Tracker struct {
	mu       sync.Mutex
	clock    timeutil.Clock
	sections map[string]*sectionState
	order    []string
	onChange func()
	closed   bool
}

// SectionConfig names one section and its thresholds. Zero-valued
// requirements fall back to DefaultRequirements.
type SectionConfig struct {
	ID           string
	Requirements Requirements
}

// NewTracker creates a tracker for the given sections. onChange fires
// after any counter mutation or timer tick; it may be nil.
func NewTracker(clock timeutil.Clock, sections []SectionConfig, onChange func()) *Tracker {
	t := &Tracker{
		clock:    clock,
		sections: make(map[string]*sectionState, len(sections)),
		onChange: onChange,
	}
	for _, cfg := range sections {
		req := cfg.Requirements
		if req == (Requirements{}) {
			req = DefaultRequirements()
		}
		t.sections[cfg.ID] = &sectionState{
			requirements: req,
			unique:       make(map[string]struct{}),
		}
		t.order = append(t.order, cfg.ID)
	}
	return t
}

// Start begins accumulating viewing time for a section. Starting a
// section that is already active is a no-op, so a re-rendered screen
// cannot double-count time.
func (t *Tracker) Start(sectionID string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	state := t.ensure(sectionID)
	if state.active || t.closed {
		return
	}
	state.active = true
	state.startedAt = t.clock.Now()
	state.ticker = t.clock.AfterFunc(tickInterval, func() { t.tick(sectionID) })
}

// Stop flushes the elapsed time of an active section and clears its
// timer. Stopping an inactive section is a no-op.
func (t *Tracker) Stop(sectionID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopLocked(sectionID)
}

func (t *Tracker) stopLocked(sectionID string) {
	state, ok := t.sections[sectionID]
	if !ok || !state.active {
		return
	}
	state.baseSeconds += int(t.clock.Now().Sub(state.startedAt).Seconds())
	state.active = false
	if state.ticker != nil {
		state.ticker.Stop()
		state.ticker = nil
	}
}

func (t *Tracker) tick(sectionID string) {
	t.mu.Lock()
	state, ok := t.sections[sectionID]
	if !ok || !state.active || t.closed {
		t.mu.Unlock()
		return
	}
	state.ticker = t.clock.AfterFunc(tickInterval, func() { t.tick(sectionID) })
	onChange := t.onChange
	t.mu.Unlock()

	if onChange != nil {
		onChange()
	}
}

// RecordInteraction counts one discrete event against a section. itemID
// feeds the unique-coverage set; repeated taps on the same item only
// grow the raw interaction count.
func (t *Tracker) RecordInteraction(sectionID, itemID string) {
	t.mu.Lock()
	state := t.ensure(sectionID)
	state.interactions++
	if itemID != "" {
		state.unique[itemID] = struct{}{}
	}
	onChange := t.onChange
	t.mu.Unlock()

	if onChange != nil {
		onChange()
	}
}

func (t *Tracker) ensure(sectionID string) *sectionState {
	state, ok := t.sections[sectionID]
	if !ok {
		state = &sectionState{
			requirements: DefaultRequirements(),
			unique:       make(map[string]struct{}),
		}
		t.sections[sectionID] = state
		t.order = append(t.order, sectionID)
	}
	return state
}

// Snapshot returns the persisted form of every section, including time
// still accumulating on active timers.
func (t *Tracker) Snapshot() []progress.SectionSnapshot {
	t.mu.Lock()
	defer t.mu.Unlock()

	snapshots := make([]progress.SectionSnapshot, 0, len(t.order))
	for _, id := range t.order {
		snapshots = append(snapshots, t.snapshotLocked(id))
	}
	return snapshots
}

func (t *Tracker) snapshotLocked(sectionID string) progress.SectionSnapshot {
	state := t.sections[sectionID]
	seconds := state.baseSeconds
	if state.active {
		seconds += int(t.clock.Now().Sub(state.startedAt).Seconds())
	}

	unique := make([]string, 0, len(state.unique))
	for item := range state.unique {
		unique = append(unique, item)
	}
	sort.Strings(unique)

	score := Score(seconds, state.interactions, len(unique), state.requirements)
	return progress.SectionSnapshot{
		SectionID:          sectionID,
		TimeSpent:          seconds,
		Interactions:       state.interactions,
		UniqueInteractions: unique,
		CompletionScore:    score,
		Completed:          score >= 100,
	}
}

// Restore seeds counters from previously persisted snapshots. Derived
// fields in the snapshots are ignored; scores are recomputed from the
// counters against the current requirements.
func (t *Tracker) Restore(snapshots []progress.SectionSnapshot) {
	t.mu.Lock()
	defer t.mu.Unlock()

	for _, snap := range snapshots {
		state := t.ensure(snap.SectionID)
		state.baseSeconds = snap.TimeSpent
		state.interactions = snap.Interactions
		state.unique = make(map[string]struct{}, len(snap.UniqueInteractions))
		for _, item := range snap.UniqueInteractions {
			state.unique[item] = struct{}{}
		}
	}
}

// LessonCompletion derives the lesson-level view: percent is the
// average of all section scores, while completed requires every section
// to individually reach 100. The two are decided independently, so a
// lesson can sit at 97% and still be incomplete.
func (t *Tracker) LessonCompletion() (percent int, completed bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if len(t.order) == 0 {
		return 0, false
	}

	total := 0
	completedCount := 0
	for _, id := range t.order {
		snap := t.snapshotLocked(id)
		total += snap.CompletionScore
		if snap.Completed {
			completedCount++
		}
	}
	percent = int(math.Round(float64(total) / float64(len(t.order))))
	return percent, completedCount == len(t.order)
}

// Close stops every active timer, flushing their accumulated time.
func (t *Tracker) Close() {
	t.mu.Lock()
	defer t.mu.Unlock()

	for id := range t.sections {
		t.stopLocked(id)
	}
	t.closed = true
}
