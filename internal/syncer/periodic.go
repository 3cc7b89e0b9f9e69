package syncer

import (
	"time"

	"github.com/go-co-op/gocron"
)

// Reconciler runs a coarse periodic full sync during long study
// sessions so progress converges even when no mutation triggers a
// debounce for a while.
type Reconciler struct {
	scheduler *gocron.Scheduler
}

// NewReconciler schedules syncNow on the given interval. Intervals
// under a minute are rounded up to avoid competing with the debounce
// path.
func NewReconciler(interval time.Duration, syncNow func()) *Reconciler {
	if interval < time.Minute {
		interval = time.Minute
	}

	s := gocron.NewScheduler(time.UTC)
	_, _ = s.Every(interval).Do(syncNow)
	return &Reconciler{scheduler: s}
}

// Start begins the periodic job without blocking.
func (r *Reconciler) Start() {
	r.scheduler.StartAsync()
}

// Stop terminates the periodic job.
func (r *Reconciler) Stop() {
	r.scheduler.Stop()
}
