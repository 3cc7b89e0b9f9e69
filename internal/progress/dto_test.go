package progress

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tkaraca/lingotrack/internal/api"
)

func TestToDTO_quizScore(t *testing.T) {
	record := LessonProgress{
		Progress:     80,
		Status:       StatusInProgress,
		QuizScore:    intPtr(75),
		TimeSpent:    14,
		LastAccessed: time.Date(2025, 6, 1, 10, 30, 0, 0, time.UTC),
	}

	dto := ToDTO(record)

	assert.Equal(t, 80, dto.Progress)
	assert.Equal(t, "IN_PROGRESS", dto.Status)
	assert.Equal(t, "2025-06-01T10:30:00Z", dto.LastAccessed)
	assert.JSONEq(t, `75`, string(dto.Score))

	restored := FromDTO(dto)
	assert.Equal(t, record, restored)
}

func TestToDTO_sectionStateIsNestedAsString(t *testing.T) {
	record := LessonProgress{
		Progress: 50,
		Status:   StatusInProgress,
		SectionState: []SectionSnapshot{
			{SectionID: "grid", TimeSpent: 20, Interactions: 4, UniqueInteractions: []string{"letter-A"}, CompletionScore: 55},
		},
	}

	dto := ToDTO(record)

	// The wire carries the section array as a JSON string inside score.
	var nested string
	require.NoError(t, json.Unmarshal(dto.Score, &nested))
	var sections []SectionSnapshot
	require.NoError(t, json.Unmarshal([]byte(nested), &sections))
	assert.Equal(t, record.SectionState, sections)

	restored := FromDTO(dto)
	assert.Equal(t, record.SectionState, restored.SectionState)
	assert.Nil(t, restored.QuizScore)
}

func TestFromDTO_degradesMalformedFields(t *testing.T) {
	tests := []struct {
		name string
		dto  api.LessonProgressDTO
		want LessonProgress
	}{
		{
			name: "malformed score payload is dropped",
			dto:  api.LessonProgressDTO{Progress: 30, Status: "IN_PROGRESS", Score: json.RawMessage(`"not json at all`)},
			want: LessonProgress{Progress: 30, Status: StatusInProgress},
		},
		{
			name: "score string with bad array content is dropped",
			dto:  api.LessonProgressDTO{Progress: 30, Status: "IN_PROGRESS", Score: json.RawMessage(`"{oops"`)},
			want: LessonProgress{Progress: 30, Status: StatusInProgress},
		},
		{
			name: "unparseable timestamp becomes zero",
			dto:  api.LessonProgressDTO{Progress: 30, Status: "IN_PROGRESS", LastAccessed: "yesterday"},
			want: LessonProgress{Progress: 30, Status: StatusInProgress},
		},
		{
			name: "out of range progress is clamped",
			dto:  api.LessonProgressDTO{Progress: 130, Status: "IN_PROGRESS"},
			want: LessonProgress{Progress: 100, Status: StatusInProgress},
		},
		{
			name: "negative time is reset",
			dto:  api.LessonProgressDTO{Progress: 10, Status: "IN_PROGRESS", TimeSpent: -4},
			want: LessonProgress{Progress: 10, Status: StatusInProgress},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, FromDTO(tc.dto))
		})
	}
}

func TestMapToDTO_roundTrip(t *testing.T) {
	records := map[string]LessonProgress{
		"7": {Progress: 40, Status: StatusInProgress, TimeSpent: 3, LastAccessed: time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)},
		"8": {Progress: 100, Status: StatusCompleted, QuizScore: intPtr(90), LastAccessed: time.Date(2025, 6, 1, 9, 5, 0, 0, time.UTC)},
	}

	assert.Equal(t, records, MapFromDTO(MapToDTO(records)))
}
