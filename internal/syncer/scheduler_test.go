package syncer

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/tkaraca/lingotrack/internal/api"
	"github.com/tkaraca/lingotrack/internal/timeutil"
)

const testDebounce = 3 * time.Second

func TestScheduler_coalescesBurstsIntoOneFlush(t *testing.T) {
	clock := timeutil.NewFakeClock(time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC))
	flushes := 0
	scheduler := NewScheduler(clock, testDebounce, func(ctx context.Context) error {
		flushes++
		return nil
	})

	for i := 0; i < 10; i++ {
		scheduler.Schedule()
	}
	assert.Equal(t, StatePending, scheduler.State())

	clock.Advance(testDebounce)
	assert.Equal(t, 1, flushes)
	assert.Equal(t, StateIdle, scheduler.State())
}

func TestScheduler_pendingMutationExtendsTheWindow(t *testing.T) {
	clock := timeutil.NewFakeClock(time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC))
	flushes := 0
	scheduler := NewScheduler(clock, testDebounce, func(ctx context.Context) error {
		flushes++
		return nil
	})

	scheduler.Schedule()
	clock.Advance(2 * time.Second)
	scheduler.Schedule() // re-arms; the original deadline must not fire
	clock.Advance(2 * time.Second)
	assert.Equal(t, 0, flushes)

	clock.Advance(time.Second)
	assert.Equal(t, 1, flushes)
}

func TestScheduler_mutationDuringFlightRunsAnotherCycle(t *testing.T) {
	clock := timeutil.NewFakeClock(time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC))
	flushes := 0
	var scheduler *Scheduler
	scheduler = NewScheduler(clock, testDebounce, func(ctx context.Context) error {
		flushes++
		if flushes == 1 {
			// A mutation lands while the first push is outstanding.
			scheduler.Schedule()
			assert.True(t, scheduler.Syncing())
		}
		return nil
	})

	scheduler.Schedule()
	clock.Advance(testDebounce)
	assert.Equal(t, 1, flushes)
	assert.Equal(t, StatePending, scheduler.State(), "dirty flag must re-arm a cycle")

	clock.Advance(testDebounce)
	assert.Equal(t, 2, flushes)
	assert.Equal(t, StateIdle, scheduler.State())
}

func TestScheduler_SyncNowBypassesDebounce(t *testing.T) {
	clock := timeutil.NewFakeClock(time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC))
	flushes := 0
	scheduler := NewScheduler(clock, testDebounce, func(ctx context.Context) error {
		flushes++
		return nil
	})

	scheduler.Schedule()
	scheduler.SyncNow()
	assert.Equal(t, 1, flushes)

	// The cancelled debounce timer must not fire a second push.
	clock.Advance(testDebounce)
	assert.Equal(t, 1, flushes)
	assert.Equal(t, StateIdle, scheduler.State())
}

func TestScheduler_flushErrorsAreSwallowed(t *testing.T) {
	clock := timeutil.NewFakeClock(time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC))
	errs := []error{errors.New("connection refused"), api.ErrUnauthorized, nil}
	flushes := 0
	scheduler := NewScheduler(clock, testDebounce, func(ctx context.Context) error {
		err := errs[flushes]
		flushes++
		return err
	})

	for range errs {
		scheduler.Schedule()
		clock.Advance(testDebounce)
	}

	assert.Equal(t, 3, flushes)
	assert.Equal(t, StateIdle, scheduler.State(), "a failed push must not wedge the scheduler")
}

func TestScheduler_StopCancelsPendingWork(t *testing.T) {
	clock := timeutil.NewFakeClock(time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC))
	flushes := 0
	scheduler := NewScheduler(clock, testDebounce, func(ctx context.Context) error {
		flushes++
		return nil
	})

	scheduler.Schedule()
	scheduler.Stop()
	clock.Advance(testDebounce)

	assert.Equal(t, 0, flushes)
	assert.Equal(t, StateIdle, scheduler.State())

	scheduler.Schedule()
	clock.Advance(testDebounce)
	assert.Equal(t, 0, flushes, "a stopped scheduler must ignore new mutations")
}
