// Package report renders progress summaries for the terminal and as
// PDF.
package report

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/mandolyte/mdtopdf"

	"github.com/tkaraca/lingotrack/internal/progress"
)

// Summary is the data a report is built from.
type Summary struct {
	GeneratedAt      time.Time
	Lessons          map[string]progress.LessonProgress
	Recent           []progress.RecentLesson
	TotalTimeMinutes int
	Games            map[string]progress.GameEntry
}

// BuildMarkdown renders the summary as a markdown document.
func BuildMarkdown(s Summary) string {
	var b strings.Builder

	b.WriteString("# Learning progress\n\n")
	fmt.Fprintf(&b, "Generated %s\n\n", s.GeneratedAt.Format("2006-01-02 15:04"))
	fmt.Fprintf(&b, "Total study time: **%d minutes** across %d lessons\n\n", s.TotalTimeMinutes, len(s.Lessons))

	if len(s.Recent) > 0 {
		b.WriteString("## Recently studied\n\n")
		b.WriteString("| Lesson | Progress | Status | Time (min) | Last accessed |\n")
		b.WriteString("| --- | --- | --- | --- | --- |\n")
		for _, recent := range s.Recent {
			record := recent.Record
			fmt.Fprintf(&b, "| %s | %d%% | %s | %d | %s |\n",
				recent.LessonID, record.Progress, record.Status, record.TimeSpent,
				record.LastAccessed.Format("2006-01-02 15:04"))
		}
		b.WriteString("\n")
	}

	if len(s.Games) > 0 {
		b.WriteString("## Games\n\n")
		keys := make([]string, 0, len(s.Games))
		for key := range s.Games {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			fmt.Fprintf(&b, "- %s: %s\n", key, describeGame(s.Games[key]))
		}
		b.WriteString("\n")
	}

	return b.String()
}

func describeGame(entry progress.GameEntry) string {
	switch entry.Kind {
	case progress.GameKindRound:
		return fmt.Sprintf("best round %.0f", entry.Round)
	case progress.GameKindCorrectTotal:
		return fmt.Sprintf("%d/%d correct", entry.Correct, entry.Total)
	case progress.GameKindScoreTotal:
		return fmt.Sprintf("score %d/%d", entry.Score, entry.Total)
	case progress.GameKindCompletedTotal:
		return fmt.Sprintf("%d/%d completed", entry.Completed, entry.Total)
	case progress.GameKindUniqueWords:
		return fmt.Sprintf("%d unique words", entry.UniqueWords)
	case progress.GameKindFlag:
		if entry.Done {
			return "completed"
		}
		return "not completed"
	default:
		return "unrecognized entry"
	}
}

// WritePDF renders the summary's markdown to a PDF at pdfPath via an
// intermediate markdown file next to it.
func WritePDF(s Summary, pdfPath string) (string, error) {
	markdownPath := strings.TrimSuffix(pdfPath, ".pdf") + ".md"
	if err := os.WriteFile(markdownPath, []byte(BuildMarkdown(s)), 0644); err != nil {
		return "", fmt.Errorf("os.WriteFile(%s) > %w", markdownPath, err)
	}

	renderer := mdtopdf.NewPdfRenderer("P", "A4", pdfPath, "", nil, mdtopdf.LIGHT)
	if err := renderer.Process([]byte(BuildMarkdown(s))); err != nil {
		return "", fmt.Errorf("renderer.Process() > %w", err)
	}

	absPath, err := filepath.Abs(pdfPath)
	if err != nil {
		return pdfPath, nil
	}
	return absPath, nil
}

// WriteTerminal prints a colored summary to w.
func WriteTerminal(w io.Writer, s Summary) {
	bold := color.New(color.Bold)
	green := color.New(color.FgGreen)
	yellow := color.New(color.FgYellow)

	_, _ = bold.Fprintln(w, "Learning progress")
	fmt.Fprintf(w, "Total study time: %d minutes across %d lessons\n\n", s.TotalTimeMinutes, len(s.Lessons))

	for _, recent := range s.Recent {
		record := recent.Record
		line := fmt.Sprintf("%-20s %3d%%  %-12s %4d min", recent.LessonID, record.Progress, record.Status, record.TimeSpent)
		if record.Status == progress.StatusCompleted {
			_, _ = green.Fprintln(w, line)
		} else {
			_, _ = yellow.Fprintln(w, line)
		}
	}

	if len(s.Games) > 0 {
		fmt.Fprintln(w)
		_, _ = bold.Fprintln(w, "Games")
		keys := make([]string, 0, len(s.Games))
		for key := range s.Games {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			fmt.Fprintf(w, "%-30s %s\n", key, describeGame(s.Games[key]))
		}
	}
}
