package section

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/tkaraca/lingotrack/internal/progress"
	"github.com/tkaraca/lingotrack/internal/timeutil"
)

var testRequirements = Requirements{
	MinTimeSeconds:        30,
	MinInteractions:       3,
	MinUniqueInteractions: 2,
}

func TestScore(t *testing.T) {
	tests := []struct {
		name         string
		timeSpent    int
		interactions int
		unique       int
		want         int
	}{
		{name: "all requirements met scores 100", timeSpent: 30, interactions: 3, unique: 2, want: 100},
		{name: "half the unique coverage scores 75", timeSpent: 30, interactions: 3, unique: 1, want: 75},
		{name: "nothing scores zero", want: 0},
		{name: "ratios cap at one", timeSpent: 300, interactions: 30, unique: 20, want: 100},
		{name: "time only", timeSpent: 30, want: 30},
		{name: "rounding goes to the nearest integer", timeSpent: 10, interactions: 1, unique: 1, want: 42},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Score(tc.timeSpent, tc.interactions, tc.unique, testRequirements))
		})
	}
}

func newTestTracker(clock timeutil.Clock, onChange func()) *Tracker {
	return NewTracker(clock, []SectionConfig{
		{ID: "grid", Requirements: testRequirements},
		{ID: "sounds", Requirements: testRequirements},
	}, onChange)
}

func TestTracker_accumulatesAcrossVisits(t *testing.T) {
	clock := timeutil.NewFakeClock(time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC))
	tracker := newTestTracker(clock, nil)

	tracker.Start("grid")
	clock.Advance(10 * time.Second)
	tracker.Stop("grid")

	// Revisiting continues accumulating instead of resetting.
	clock.Advance(time.Minute)
	tracker.Start("grid")
	clock.Advance(5 * time.Second)
	tracker.Stop("grid")

	snapshots := tracker.Snapshot()
	assert.Equal(t, 15, snapshots[0].TimeSpent)
}

func TestTracker_startIsIdempotent(t *testing.T) {
	clock := timeutil.NewFakeClock(time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC))
	tracker := newTestTracker(clock, nil)

	tracker.Start("grid")
	clock.Advance(10 * time.Second)
	tracker.Start("grid") // must not reset or double-count
	clock.Advance(10 * time.Second)
	tracker.Stop("grid")

	snapshots := tracker.Snapshot()
	assert.Equal(t, 20, snapshots[0].TimeSpent)
}

func TestTracker_snapshotIncludesRunningTime(t *testing.T) {
	clock := timeutil.NewFakeClock(time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC))
	tracker := newTestTracker(clock, nil)

	tracker.Start("grid")
	clock.Advance(12 * time.Second)

	snapshots := tracker.Snapshot()
	assert.Equal(t, 12, snapshots[0].TimeSpent)
}

func TestTracker_recordInteraction(t *testing.T) {
	clock := timeutil.NewFakeClock(time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC))
	tracker := newTestTracker(clock, nil)

	tracker.Start("grid")
	clock.Advance(30 * time.Second)
	tracker.RecordInteraction("grid", "letter-A")
	tracker.RecordInteraction("grid", "letter-A")
	tracker.RecordInteraction("grid", "letter-B")
	tracker.Stop("grid")

	snap := tracker.Snapshot()[0]
	assert.Equal(t, 3, snap.Interactions)
	assert.Equal(t, []string{"letter-A", "letter-B"}, snap.UniqueInteractions)
	assert.Equal(t, 100, snap.CompletionScore)
	assert.True(t, snap.Completed)
}

// Lesson percent is the average of section scores while completion
// requires every section at 100, so the two can disagree near the
// boundary.
func TestTracker_lessonCompletionIsDecoupledFromPercent(t *testing.T) {
	clock := timeutil.NewFakeClock(time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC))
	tracker := newTestTracker(clock, nil)

	// grid: everything met -> 100.
	tracker.Start("grid")
	clock.Advance(30 * time.Second)
	tracker.RecordInteraction("grid", "letter-A")
	tracker.RecordInteraction("grid", "letter-B")
	tracker.RecordInteraction("grid", "letter-C")
	tracker.Stop("grid")

	// sounds: unique coverage still halfway -> 75.
	tracker.Start("sounds")
	clock.Advance(30 * time.Second)
	tracker.RecordInteraction("sounds", "sound-a")
	tracker.RecordInteraction("sounds", "sound-a")
	tracker.RecordInteraction("sounds", "sound-a")
	tracker.Stop("sounds")

	percent, completed := tracker.LessonCompletion()
	assert.Equal(t, 88, percent)
	assert.False(t, completed)
}

func TestTracker_restoreRecomputesDerivedFields(t *testing.T) {
	clock := timeutil.NewFakeClock(time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC))
	tracker := newTestTracker(clock, nil)

	// Stored derived fields are stale on purpose; only counters count.
	tracker.Restore([]progress.SectionSnapshot{
		{SectionID: "grid", TimeSpent: 30, Interactions: 3, UniqueInteractions: []string{"letter-A", "letter-B"}, CompletionScore: 1, Completed: false},
	})

	snap := tracker.Snapshot()[0]
	assert.Equal(t, 100, snap.CompletionScore)
	assert.True(t, snap.Completed)
}

func TestTracker_tickNotifiesChange(t *testing.T) {
	clock := timeutil.NewFakeClock(time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC))
	ticks := 0
	tracker := newTestTracker(clock, func() { ticks++ })

	tracker.Start("grid")
	clock.Advance(5 * time.Second)
	clock.Advance(5 * time.Second)
	assert.Equal(t, 2, ticks)

	tracker.Stop("grid")
	clock.Advance(time.Minute)
	assert.Equal(t, 2, ticks, "stopped section must not keep ticking")
}

func TestTracker_closeFlushesAndStopsTimers(t *testing.T) {
	clock := timeutil.NewFakeClock(time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC))
	tracker := newTestTracker(clock, nil)

	tracker.Start("grid")
	clock.Advance(8 * time.Second)
	tracker.Close()

	snap := tracker.Snapshot()[0]
	assert.Equal(t, 8, snap.TimeSpent)

	clock.Advance(time.Minute)
	assert.Equal(t, 8, tracker.Snapshot()[0].TimeSpent)
}
