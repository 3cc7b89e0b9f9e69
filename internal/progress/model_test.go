package progress

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLessonProgress_Apply(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	completed := StatusCompleted
	quiz := 80
	minutes := 12

	tests := []struct {
		name   string
		record LessonProgress
		update Update
		want   LessonProgress
	}{
		{
			name:   "progress above 100 is clamped",
			record: Default(),
			update: Update{Progress: 150},
			want:   LessonProgress{Progress: 100, Status: StatusInProgress, LastAccessed: now},
		},
		{
			name:   "negative progress is clamped to zero",
			record: Default(),
			update: Update{Progress: -5},
			want:   LessonProgress{Progress: 0, Status: StatusInProgress, LastAccessed: now},
		},
		{
			name:   "status defaults to in progress when omitted",
			record: Default(),
			update: Update{Progress: 10},
			want:   LessonProgress{Progress: 10, Status: StatusInProgress, LastAccessed: now},
		},
		{
			name:   "explicit status is kept",
			record: Default(),
			update: Update{Progress: 100, Status: &completed},
			want:   LessonProgress{Progress: 100, Status: StatusCompleted, LastAccessed: now},
		},
		{
			name:   "omitted quiz score keeps the stored one",
			record: LessonProgress{Progress: 40, QuizScore: intPtr(55), TimeSpent: 3},
			update: Update{Progress: 45},
			want:   LessonProgress{Progress: 45, Status: StatusInProgress, QuizScore: intPtr(55), TimeSpent: 3, LastAccessed: now},
		},
		{
			name:   "quiz score is replaced when provided",
			record: LessonProgress{Progress: 40, QuizScore: intPtr(55)},
			update: Update{Progress: 45, QuizScore: &quiz},
			want:   LessonProgress{Progress: 45, Status: StatusInProgress, QuizScore: intPtr(80), LastAccessed: now},
		},
		{
			name:   "time spent replaces rather than adds",
			record: LessonProgress{Progress: 40, TimeSpent: 9},
			update: Update{Progress: 45, TimeSpent: &minutes},
			want:   LessonProgress{Progress: 45, Status: StatusInProgress, TimeSpent: 12, LastAccessed: now},
		},
		{
			name:   "omitted time spent is untouched",
			record: LessonProgress{Progress: 40, TimeSpent: 9},
			update: Update{Progress: 45},
			want:   LessonProgress{Progress: 45, Status: StatusInProgress, TimeSpent: 9, LastAccessed: now},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := tc.record.Apply(tc.update, now)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestParseStatus(t *testing.T) {
	assert.Equal(t, StatusCompleted, ParseStatus("COMPLETED"))
	assert.Equal(t, StatusInProgress, ParseStatus("IN_PROGRESS"))
	assert.Equal(t, StatusNotStarted, ParseStatus("NOT_STARTED"))
	assert.Equal(t, StatusNotStarted, ParseStatus("bogus"))
}

func intPtr(v int) *int {
	return &v
}
