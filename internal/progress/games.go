package progress

import (
	"encoding/json"
	"fmt"
)

// GameKind tags the shape of one game's progress value. The wire format
// carries no tag, so the kind is recovered by shape when decoding and
// the original shape is emitted again when encoding.
type GameKind string

const (
	// GameKindRound is a plain number, e.g. best round reached.
	GameKindRound GameKind = "round"
	// GameKindCorrectTotal is {correct, total}.
	GameKindCorrectTotal GameKind = "correct_total"
	// GameKindScoreTotal is {score, total}.
	GameKindScoreTotal GameKind = "score_total"
	// GameKindCompletedTotal is {completed, total}.
	GameKindCompletedTotal GameKind = "completed_total"
	// GameKindUniqueWords is {uniqueWords}.
	GameKindUniqueWords GameKind = "unique_words"
	// GameKindFlag is a bare boolean marking binary completion.
	GameKindFlag GameKind = "flag"
	// GameKindUnknown is anything this version does not recognize; the
	// raw bytes are preserved and merge falls back to last-writer-wins.
	GameKindUnknown GameKind = "unknown"
)

// GameEntry is one game's progress value as a tagged union. Only the
// fields belonging to the Kind are meaningful.
type GameEntry struct {
	Kind GameKind

	Round       float64
	Correct     int
	Score       int
	Completed   int
	Total       int
	UniqueWords int
	Done        bool

	Raw json.RawMessage // original bytes, kept for GameKindUnknown
}

// NewRoundEntry builds a plain-number entry.
func NewRoundEntry(round float64) GameEntry {
	return GameEntry{Kind: GameKindRound, Round: round}
}

// NewCorrectTotalEntry builds a {correct, total} entry.
func NewCorrectTotalEntry(correct, total int) GameEntry {
	return GameEntry{Kind: GameKindCorrectTotal, Correct: correct, Total: total}
}

// NewScoreTotalEntry builds a {score, total} entry.
func NewScoreTotalEntry(score, total int) GameEntry {
	return GameEntry{Kind: GameKindScoreTotal, Score: score, Total: total}
}

// NewCompletedTotalEntry builds a {completed, total} entry.
func NewCompletedTotalEntry(completed, total int) GameEntry {
	return GameEntry{Kind: GameKindCompletedTotal, Completed: completed, Total: total}
}

// NewUniqueWordsEntry builds a {uniqueWords} entry.
func NewUniqueWordsEntry(uniqueWords int) GameEntry {
	return GameEntry{Kind: GameKindUniqueWords, UniqueWords: uniqueWords}
}

// NewFlagEntry builds a boolean completion entry.
func NewFlagEntry(done bool) GameEntry {
	return GameEntry{Kind: GameKindFlag, Done: done}
}

type correctTotalShape struct {
	Correct *int `json:"correct,omitempty"`
	Total   int  `json:"total"`
}

type scoreTotalShape struct {
	Score *int `json:"score,omitempty"`
	Total int  `json:"total"`
}

type completedTotalShape struct {
	Completed *int `json:"completed,omitempty"`
	Total     int  `json:"total"`
}

type uniqueWordsShape struct {
	UniqueWords *int `json:"uniqueWords,omitempty"`
}

// UnmarshalJSON recovers the kind by shape: bare boolean, bare number,
// then object sniffing on which fields are present.
func (e *GameEntry) UnmarshalJSON(data []byte) error {
	var boolValue bool
	if err := json.Unmarshal(data, &boolValue); err == nil {
		*e = NewFlagEntry(boolValue)
		return nil
	}

	var numberValue float64
	if err := json.Unmarshal(data, &numberValue); err == nil {
		*e = NewRoundEntry(numberValue)
		return nil
	}

	var correct correctTotalShape
	if err := json.Unmarshal(data, &correct); err == nil && correct.Correct != nil {
		*e = NewCorrectTotalEntry(*correct.Correct, correct.Total)
		return nil
	}
	var score scoreTotalShape
	if err := json.Unmarshal(data, &score); err == nil && score.Score != nil {
		*e = NewScoreTotalEntry(*score.Score, score.Total)
		return nil
	}
	var completed completedTotalShape
	if err := json.Unmarshal(data, &completed); err == nil && completed.Completed != nil {
		*e = NewCompletedTotalEntry(*completed.Completed, completed.Total)
		return nil
	}
	var unique uniqueWordsShape
	if err := json.Unmarshal(data, &unique); err == nil && unique.UniqueWords != nil {
		*e = NewUniqueWordsEntry(*unique.UniqueWords)
		return nil
	}

	if !json.Valid(data) {
		return fmt.Errorf("invalid game progress value: %s", data)
	}
	*e = GameEntry{Kind: GameKindUnknown, Raw: append(json.RawMessage(nil), data...)}
	return nil
}

// MarshalJSON emits the same wire shape the entry was decoded from.
func (e GameEntry) MarshalJSON() ([]byte, error) {
	switch e.Kind {
	case GameKindRound:
		return json.Marshal(e.Round)
	case GameKindCorrectTotal:
		return json.Marshal(map[string]int{"correct": e.Correct, "total": e.Total})
	case GameKindScoreTotal:
		return json.Marshal(map[string]int{"score": e.Score, "total": e.Total})
	case GameKindCompletedTotal:
		return json.Marshal(map[string]int{"completed": e.Completed, "total": e.Total})
	case GameKindUniqueWords:
		return json.Marshal(map[string]int{"uniqueWords": e.UniqueWords})
	case GameKindFlag:
		return json.Marshal(e.Done)
	case GameKindUnknown:
		if len(e.Raw) > 0 {
			return e.Raw, nil
		}
		return []byte("null"), nil
	default:
		return nil, fmt.Errorf("unknown game entry kind %q", e.Kind)
	}
}

// MergeGame keeps the "better" of two entries for the same key using
// the kind-specific rule. Mismatched or unrecognized kinds fall back to
// the incoming value rather than failing.
func MergeGame(a, b GameEntry) GameEntry {
	if a.Kind != b.Kind {
		return b
	}

	switch a.Kind {
	case GameKindRound:
		if b.Round > a.Round {
			return b
		}
		return a
	case GameKindCorrectTotal:
		return mergeCorrectTotal(a, b)
	case GameKindScoreTotal:
		// Compared as ratios, keeping one side whole so the merge never
		// invents a numerator/denominator pair neither side reported.
		if ratio(b.Score, b.Total) > ratio(a.Score, a.Total) {
			return b
		}
		return a
	case GameKindCompletedTotal:
		if ratio(b.Completed, b.Total) > ratio(a.Completed, a.Total) {
			return b
		}
		return a
	case GameKindUniqueWords:
		if b.UniqueWords > a.UniqueWords {
			return b
		}
		return a
	case GameKindFlag:
		a.Done = a.Done || b.Done
		return a
	default:
		return b
	}
}

// mergeCorrectTotal prefers a fully solved side; when neither or both
// qualify, the higher correct count wins.
func mergeCorrectTotal(a, b GameEntry) GameEntry {
	aSolved := a.Total > 0 && a.Correct >= a.Total
	bSolved := b.Total > 0 && b.Correct >= b.Total
	switch {
	case aSolved && !bSolved:
		return a
	case bSolved && !aSolved:
		return b
	case b.Correct > a.Correct:
		return b
	default:
		return a
	}
}

// MergeGameMap unions the key sets of two collections and applies
// MergeGame per shared key.
func MergeGameMap(a, b map[string]GameEntry) map[string]GameEntry {
	merged := make(map[string]GameEntry, len(a)+len(b))
	for key, entry := range a {
		merged[key] = entry
	}
	for key, entry := range b {
		if existing, ok := merged[key]; ok {
			merged[key] = MergeGame(existing, entry)
		} else {
			merged[key] = entry
		}
	}
	return merged
}

func ratio(n, d int) float64 {
	if d <= 0 {
		return 0
	}
	return float64(n) / float64(d)
}
