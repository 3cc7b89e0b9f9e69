package progress

import "sort"

// MergeLesson combines a local and a remote record for the same lesson
// into one that loses no information either side legitimately holds.
// The function is commutative, and idempotent in every field except
// TimeSpent, which sums because the two sides hold disjoint sessions.
func MergeLesson(a, b LessonProgress) LessonProgress {
	merged := LessonProgress{
		Progress:     maxInt(a.Progress, b.Progress),
		LastAccessed: a.LastAccessed,
	}
	if b.LastAccessed.After(a.LastAccessed) {
		merged.LastAccessed = b.LastAccessed
	}

	// Local and remote time accumulations represent disjoint sessions
	// since the last successful sync, so time is summed, not compared.
	merged.TimeSpent = a.TimeSpent + b.TimeSpent

	if score := maxInt(quizScoreOrZero(a), quizScoreOrZero(b)); score > 0 {
		merged.QuizScore = &score
	}

	merged.SectionState = mergeSectionState(a.SectionState, b.SectionState)

	switch {
	case a.Status == StatusCompleted || b.Status == StatusCompleted:
		merged.Status = StatusCompleted
	case merged.Progress > 0:
		merged.Status = StatusInProgress
	default:
		merged.Status = StatusNotStarted
	}
	return merged
}

// MergeLessonMap merges two whole collections: the key sets are unioned
// and MergeLesson is applied per shared key.
func MergeLessonMap(a, b map[string]LessonProgress) map[string]LessonProgress {
	merged := make(map[string]LessonProgress, len(a)+len(b))
	for id, record := range a {
		merged[id] = record
	}
	for id, record := range b {
		if existing, ok := merged[id]; ok {
			merged[id] = MergeLesson(existing, record)
		} else {
			merged[id] = record
		}
	}
	return merged
}

// mergeSectionState unions sections by id. Counters for a shared section
// are combined field-wise (max of counts, union of unique items), which
// keeps the merge commutative; derived score and completed fields are
// recomputed by the tracker on restore, so they are not trusted here.
func mergeSectionState(a, b []SectionSnapshot) []SectionSnapshot {
	if len(a) == 0 && len(b) == 0 {
		return nil
	}

	byID := make(map[string]SectionSnapshot, len(a)+len(b))
	for _, snap := range a {
		byID[snap.SectionID] = snap
	}
	for _, snap := range b {
		existing, ok := byID[snap.SectionID]
		if !ok {
			byID[snap.SectionID] = snap
			continue
		}
		byID[snap.SectionID] = SectionSnapshot{
			SectionID:          snap.SectionID,
			TimeSpent:          maxInt(existing.TimeSpent, snap.TimeSpent),
			Interactions:       maxInt(existing.Interactions, snap.Interactions),
			UniqueInteractions: unionStrings(existing.UniqueInteractions, snap.UniqueInteractions),
			CompletionScore:    maxInt(existing.CompletionScore, snap.CompletionScore),
			Completed:          existing.Completed || snap.Completed,
		}
	}

	// Sorted by section id so the merge result does not depend on which
	// side was local and which was remote.
	ids := make([]string, 0, len(byID))
	for id := range byID {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	merged := make([]SectionSnapshot, 0, len(ids))
	for _, id := range ids {
		merged = append(merged, byID[id])
	}
	return merged
}

func unionStrings(a, b []string) []string {
	seen := make(map[string]struct{}, len(a)+len(b))
	var union []string
	for _, s := range a {
		if _, ok := seen[s]; !ok {
			seen[s] = struct{}{}
			union = append(union, s)
		}
	}
	for _, s := range b {
		if _, ok := seen[s]; !ok {
			seen[s] = struct{}{}
			union = append(union, s)
		}
	}
	sort.Strings(union)
	return union
}

func quizScoreOrZero(lp LessonProgress) int {
	if lp.QuizScore == nil {
		return 0
	}
	return *lp.QuizScore
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
