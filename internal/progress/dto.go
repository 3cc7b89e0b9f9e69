package progress

import (
	"encoding/json"
	"log/slog"
	"time"

	"github.com/tkaraca/lingotrack/internal/api"
)

// The wire and local-cache formats keep the legacy overloaded "score"
// field: a plain number for quiz percentages, or a JSON-stringified
// SectionSnapshot array for section-tracked lessons. These conversions
// are the only place the overload exists; in memory the two values are
// separate fields.

// ToDTO converts a record to its wire form.
func ToDTO(lp LessonProgress) api.LessonProgressDTO {
	dto := api.LessonProgressDTO{
		Progress:  lp.Progress,
		Status:    string(lp.Status),
		TimeSpent: lp.TimeSpent,
	}
	if !lp.LastAccessed.IsZero() {
		dto.LastAccessed = lp.LastAccessed.UTC().Format(time.RFC3339)
	}

	switch {
	case lp.SectionState != nil:
		encoded, err := json.Marshal(lp.SectionState)
		if err == nil {
			// The array is nested as a JSON string, matching the wire
			// format older clients expect.
			if quoted, err := json.Marshal(string(encoded)); err == nil {
				dto.Score = quoted
			}
		}
	case lp.QuizScore != nil:
		if number, err := json.Marshal(*lp.QuizScore); err == nil {
			dto.Score = number
		}
	}
	return dto
}

// FromDTO converts a wire record back to the in-memory model. Malformed
// score payloads and timestamps degrade to empty values rather than
// failing the whole load.
func FromDTO(dto api.LessonProgressDTO) LessonProgress {
	lp := LessonProgress{
		Progress:  ClampPercent(dto.Progress),
		Status:    ParseStatus(dto.Status),
		TimeSpent: dto.TimeSpent,
	}
	if lp.TimeSpent < 0 {
		lp.TimeSpent = 0
	}
	if dto.LastAccessed != "" {
		if parsed, err := time.Parse(time.RFC3339, dto.LastAccessed); err == nil {
			lp.LastAccessed = parsed
		} else {
			slog.Debug("ignoring unparseable lastAccessed", "value", dto.LastAccessed)
		}
	}

	if len(dto.Score) > 0 {
		var number int
		if err := json.Unmarshal(dto.Score, &number); err == nil {
			score := ClampPercent(number)
			if score > 0 {
				lp.QuizScore = &score
			}
			return lp
		}

		var nested string
		if err := json.Unmarshal(dto.Score, &nested); err == nil {
			var sections []SectionSnapshot
			if err := json.Unmarshal([]byte(nested), &sections); err == nil {
				lp.SectionState = sections
			} else {
				slog.Debug("ignoring unparseable section state", "error", err)
			}
		}
	}
	return lp
}

// MapToDTO converts a whole collection to wire form.
func MapToDTO(records map[string]LessonProgress) map[string]api.LessonProgressDTO {
	dtos := make(map[string]api.LessonProgressDTO, len(records))
	for id, record := range records {
		dtos[id] = ToDTO(record)
	}
	return dtos
}

// MapFromDTO converts a whole wire collection to the in-memory model.
func MapFromDTO(dtos map[string]api.LessonProgressDTO) map[string]LessonProgress {
	records := make(map[string]LessonProgress, len(dtos))
	for id, dto := range dtos {
		records[id] = FromDTO(dto)
	}
	return records
}
