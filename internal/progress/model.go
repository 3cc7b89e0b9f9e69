// Package progress defines the canonical per-lesson and per-game
// progress records and the merge rules that keep a local copy and a
// remote copy of them consistent.
package progress

import (
	"math"
	"time"
)

// Status is the lifecycle state of one lesson's progress.
type Status string

const (
	StatusNotStarted Status = "NOT_STARTED"
	StatusInProgress Status = "IN_PROGRESS"
	StatusCompleted  Status = "COMPLETED"
)

// ParseStatus maps a wire status string to a Status, defaulting unknown
// values to NOT_STARTED so an older client's data never crashes a load.
func ParseStatus(s string) Status {
	switch Status(s) {
	case StatusInProgress, StatusCompleted:
		return Status(s)
	default:
		return StatusNotStarted
	}
}

// SectionSnapshot is the persisted form of one section's interaction
// counters. CompletionScore and Completed are derived and are always
// recomputed from the counters on restore; stored values are kept only
// for the wire format.
type SectionSnapshot struct {
	SectionID          string   `json:"sectionId"`
	TimeSpent          int      `json:"timeSpent"` // seconds of active viewing
	Interactions       int      `json:"interactions"`
	UniqueInteractions []string `json:"uniqueInteractions"`
	CompletionScore    int      `json:"completionScore"`
	Completed          bool     `json:"completed"`
}

// LessonProgress is the canonical progress record for one lesson.
//
// The legacy wire format overloads a single "score" field with either a
// quiz percentage or a serialized section-state array. In memory the two
// are kept apart: QuizScore holds the plain percentage, SectionState the
// section counters. The overload is reconstructed only at the DTO
// boundary.
type LessonProgress struct {
	Progress     int // 0-100
	Status       Status
	QuizScore    *int // nil when no quiz score has been recorded
	SectionState []SectionSnapshot
	TimeSpent    int // minutes, accumulated across sessions
	LastAccessed time.Time
}

// Default returns the empty record handed out for unknown lessons.
func Default() LessonProgress {
	return LessonProgress{Status: StatusNotStarted}
}

// Update describes a partial mutation of a lesson record. Nil fields
// leave the stored value unchanged.
type Update struct {
	Progress     int
	Status       *Status
	QuizScore    *int
	SectionState []SectionSnapshot
	// TimeSpent replaces the stored value when set; callers pass the full
	// accumulated total, not a delta, so a caller that never tracks time
	// cannot overwrite time accumulated elsewhere.
	TimeSpent *int
}

// Apply folds an update into a record, enforcing the field contracts:
// progress clamped to [0,100], status defaulting to IN_PROGRESS, and
// LastAccessed always bumped to now.
func (lp LessonProgress) Apply(u Update, now time.Time) LessonProgress {
	lp.Progress = ClampPercent(u.Progress)
	if u.Status != nil {
		lp.Status = *u.Status
	} else {
		lp.Status = StatusInProgress
	}
	if u.QuizScore != nil {
		score := ClampPercent(*u.QuizScore)
		lp.QuizScore = &score
	}
	if u.SectionState != nil {
		lp.SectionState = u.SectionState
	}
	if u.TimeSpent != nil && *u.TimeSpent >= 0 {
		lp.TimeSpent = *u.TimeSpent
	}
	lp.LastAccessed = now
	return lp
}

// ClampPercent rounds and clamps a value into the 0-100 range.
func ClampPercent(v int) int {
	return int(math.Min(100, math.Max(0, float64(v))))
}
