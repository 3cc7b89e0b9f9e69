package report

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/tkaraca/lingotrack/internal/progress"
)

func testSummary() Summary {
	return Summary{
		GeneratedAt: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		Lessons: map[string]progress.LessonProgress{
			"alphabet": {Progress: 100, Status: progress.StatusCompleted, TimeSpent: 25},
			"pronouns": {Progress: 40, Status: progress.StatusInProgress, TimeSpent: 8},
		},
		Recent: []progress.RecentLesson{
			{LessonID: "pronouns", Record: progress.LessonProgress{Progress: 40, Status: progress.StatusInProgress, TimeSpent: 8, LastAccessed: time.Date(2025, 6, 1, 11, 0, 0, 0, time.UTC)}},
			{LessonID: "alphabet", Record: progress.LessonProgress{Progress: 100, Status: progress.StatusCompleted, TimeSpent: 25, LastAccessed: time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)}},
		},
		TotalTimeMinutes: 33,
		Games: map[string]progress.GameEntry{
			"memory:animals": progress.NewRoundEntry(7),
			"match:colors":   progress.NewCorrectTotalEntry(2, 6),
			"hangman:basics": progress.NewFlagEntry(true),
		},
	}
}

func TestBuildMarkdown(t *testing.T) {
	got := BuildMarkdown(testSummary())

	assert.Contains(t, got, "# Learning progress")
	assert.Contains(t, got, "Total study time: **33 minutes** across 2 lessons")
	assert.Contains(t, got, "| pronouns | 40% | IN_PROGRESS | 8 | 2025-06-01 11:00 |")
	assert.Contains(t, got, "| alphabet | 100% | COMPLETED | 25 | 2025-06-01 10:00 |")

	// Games are listed alphabetically by key.
	assert.Contains(t, got, "- hangman:basics: completed\n- match:colors: 2/6 correct\n- memory:animals: best round 7")
}

func TestBuildMarkdown_emptySections(t *testing.T) {
	got := BuildMarkdown(Summary{GeneratedAt: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)})

	assert.NotContains(t, got, "## Recently studied")
	assert.NotContains(t, got, "## Games")
}

func TestDescribeGame(t *testing.T) {
	tests := []struct {
		name  string
		entry progress.GameEntry
		want  string
	}{
		{name: "round", entry: progress.NewRoundEntry(12), want: "best round 12"},
		{name: "correct total", entry: progress.NewCorrectTotalEntry(8, 10), want: "8/10 correct"},
		{name: "score total", entry: progress.NewScoreTotalEntry(3, 5), want: "score 3/5"},
		{name: "completed total", entry: progress.NewCompletedTotalEntry(2, 4), want: "2/4 completed"},
		{name: "unique words", entry: progress.NewUniqueWordsEntry(17), want: "17 unique words"},
		{name: "flag done", entry: progress.NewFlagEntry(true), want: "completed"},
		{name: "flag not done", entry: progress.NewFlagEntry(false), want: "not completed"},
		{name: "unknown", entry: progress.GameEntry{Kind: progress.GameKindUnknown}, want: "unrecognized entry"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, describeGame(tc.entry))
		})
	}
}

func TestWriteTerminal(t *testing.T) {
	var buf bytes.Buffer
	WriteTerminal(&buf, testSummary())
	out := buf.String()

	assert.Contains(t, out, "Learning progress")
	assert.Contains(t, out, "Total study time: 33 minutes across 2 lessons")
	assert.Contains(t, out, "pronouns")
	assert.Contains(t, out, "alphabet")
	assert.Contains(t, out, "Games")
	assert.Contains(t, out, "best round 7")
}
