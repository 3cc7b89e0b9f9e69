// Package cli implements the interactive study session.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"github.com/fatih/color"

	"github.com/tkaraca/lingotrack/internal/catalog"
	"github.com/tkaraca/lingotrack/internal/progress"
	"github.com/tkaraca/lingotrack/internal/section"
)

// StudySessionCLI drives one lesson's tracking loop: opening sections
// starts their timers, recorded items feed the completion score, and
// every change flows through the progress store (which persists and
// schedules syncs on its own).
type StudySessionCLI struct {
	lesson      catalog.Lesson
	tracker     *section.Tracker
	store       *progress.Store
	stdinReader *bufio.Reader
	stdout      io.Writer
	bold        *color.Color
	green       *color.Color

	activeSection string
}

// NewStudySessionCLI builds the session for one lesson. The tracker is
// restored from any previously persisted section state so revisits keep
// accumulating instead of resetting.
func NewStudySessionCLI(lesson catalog.Lesson, store *progress.Store, tracker *section.Tracker) *StudySessionCLI {
	cli := &StudySessionCLI{
		lesson:      lesson,
		tracker:     tracker,
		store:       store,
		stdinReader: bufio.NewReader(os.Stdin),
		stdout:      os.Stdout,
		bold:        color.New(color.Bold),
		green:       color.New(color.FgGreen),
	}

	if state := store.GetLesson(lesson.ID).SectionState; state != nil {
		tracker.Restore(state)
	}
	return cli
}

// Run processes commands until quit, EOF, or an interrupt. Timers are
// flushed and a final update is pushed before returning.
func (cli *StudySessionCLI) Run(ctx context.Context) error {
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt)
	defer cancel()

	_, _ = cli.bold.Fprintf(cli.stdout, "Studying %q (%d sections)\n", cli.lesson.Title, len(cli.lesson.Sections))
	fmt.Fprintln(cli.stdout, "Commands: open <section>, tap <item>, quiz <score>, status, quit")

	defer func() {
		cli.tracker.Close()
		if err := cli.pushUpdate(context.Background()); err != nil {
			fmt.Fprintf(cli.stdout, "failed to save final progress: %v\n", err)
		}
		cli.store.SyncNow()
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		fmt.Fprint(cli.stdout, "> ")
		line, err := cli.stdinReader.ReadString('\n')
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("read command: %w", err)
		}

		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}

		done, err := cli.dispatch(ctx, fields[0], fields[1:])
		if err != nil {
			fmt.Fprintf(cli.stdout, "error: %v\n", err)
		}
		if done {
			return nil
		}
	}
}

func (cli *StudySessionCLI) dispatch(ctx context.Context, command string, args []string) (bool, error) {
	switch command {
	case "open":
		if len(args) != 1 {
			return false, errors.New("usage: open <section>")
		}
		return false, cli.openSection(ctx, args[0])
	case "tap":
		if len(args) != 1 {
			return false, errors.New("usage: tap <item>")
		}
		return false, cli.recordItem(ctx, args[0])
	case "quiz":
		if len(args) != 1 {
			return false, errors.New("usage: quiz <score>")
		}
		score, err := strconv.Atoi(args[0])
		if err != nil {
			return false, fmt.Errorf("quiz score must be a number: %w", err)
		}
		return false, cli.recordQuiz(ctx, score)
	case "status":
		cli.printStatus()
		return false, nil
	case "quit", "exit":
		return true, nil
	default:
		return false, fmt.Errorf("unknown command %q", command)
	}
}

func (cli *StudySessionCLI) openSection(ctx context.Context, sectionID string) error {
	if _, ok := cli.findSection(sectionID); !ok {
		return fmt.Errorf("lesson %q has no section %q", cli.lesson.ID, sectionID)
	}

	if cli.activeSection != "" && cli.activeSection != sectionID {
		cli.tracker.Stop(cli.activeSection)
	}
	cli.tracker.Start(sectionID)
	cli.activeSection = sectionID

	fmt.Fprintf(cli.stdout, "section %s active\n", sectionID)
	return cli.pushUpdate(ctx)
}

func (cli *StudySessionCLI) recordItem(ctx context.Context, itemID string) error {
	if cli.activeSection == "" {
		return errors.New("open a section first")
	}
	cli.tracker.RecordInteraction(cli.activeSection, itemID)
	return cli.pushUpdate(ctx)
}

func (cli *StudySessionCLI) recordQuiz(ctx context.Context, score int) error {
	percent, completed := cli.tracker.LessonCompletion()
	update := progress.Update{
		Progress:  percent,
		QuizScore: &score,
	}
	if completed {
		status := progress.StatusCompleted
		update.Status = &status
	}
	return cli.store.UpdateLesson(ctx, cli.lesson.ID, update)
}

// pushUpdate folds the tracker's current state into the store: percent
// from the section-score average, completion only when every section is
// complete, and the full accumulated time total.
func (cli *StudySessionCLI) pushUpdate(ctx context.Context) error {
	percent, completed := cli.tracker.LessonCompletion()
	snapshots := cli.tracker.Snapshot()

	totalSeconds := 0
	for _, snap := range snapshots {
		totalSeconds += snap.TimeSpent
	}
	totalMinutes := totalSeconds / 60

	update := progress.Update{
		Progress:     percent,
		SectionState: snapshots,
		TimeSpent:    &totalMinutes,
	}
	if completed {
		status := progress.StatusCompleted
		update.Status = &status
	}
	return cli.store.UpdateLesson(ctx, cli.lesson.ID, update)
}

func (cli *StudySessionCLI) printStatus() {
	percent, completed := cli.tracker.LessonCompletion()
	_, _ = cli.bold.Fprintf(cli.stdout, "lesson %s: %d%%", cli.lesson.ID, percent)
	if completed {
		_, _ = cli.green.Fprint(cli.stdout, " (completed)")
	}
	fmt.Fprintln(cli.stdout)

	for _, snap := range cli.tracker.Snapshot() {
		marker := " "
		if snap.SectionID == cli.activeSection {
			marker = "*"
		}
		fmt.Fprintf(cli.stdout, "%s %-20s score %3d  %3ds  %d taps, %d unique\n",
			marker, snap.SectionID, snap.CompletionScore, snap.TimeSpent,
			snap.Interactions, len(snap.UniqueInteractions))
	}
	if cli.store.Syncing() {
		fmt.Fprintln(cli.stdout, "syncing...")
	}
}

func (cli *StudySessionCLI) findSection(sectionID string) (catalog.Section, bool) {
	for _, s := range cli.lesson.Sections {
		if s.ID == sectionID {
			return s, true
		}
	}
	return catalog.Section{}, false
}
