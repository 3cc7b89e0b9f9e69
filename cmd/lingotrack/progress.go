package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/tkaraca/lingotrack/internal/progress"
	"github.com/tkaraca/lingotrack/internal/report"
)

type statusFilter string

func (f *statusFilter) Set(val string) error {
	for _, status := range filterableStatuses {
		if val == string(status) {
			*f = statusFilter(val)
			return nil
		}
	}
	return fmt.Errorf("invalid status: %s", val)
}

func (f statusFilter) String() string {
	return string(f)
}

func (f *statusFilter) Type() string {
	return "status"
}

var (
	_                  pflag.Value = (*statusFilter)(nil)
	filterableStatuses             = []progress.Status{progress.StatusInProgress, progress.StatusCompleted}
)

func newProgressCommand() *cobra.Command {
	progressCommand := &cobra.Command{
		Use:   "progress",
		Short: "Inspect and manage tracked progress",
	}

	progressCommand.AddCommand(
		newProgressShowCommand(),
		newProgressRecentCommand(),
		newProgressClearCommand(),
	)
	return progressCommand
}

func newProgressShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show [lesson-id]",
		Short: "Show progress for one lesson, or a full summary",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			s, err := newSession(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer s.close()

			if len(args) == 1 {
				record := s.lessons.GetLesson(args[0])
				fmt.Fprintf(os.Stdout, "lesson %s: %d%% %s, %d min", args[0], record.Progress, record.Status, record.TimeSpent)
				if record.QuizScore != nil {
					fmt.Fprintf(os.Stdout, ", quiz %d%%", *record.QuizScore)
				}
				fmt.Fprintln(os.Stdout)
				return nil
			}

			report.WriteTerminal(os.Stdout, summarize(s))
			return nil
		},
	}
}

func newProgressRecentCommand() *cobra.Command {
	var status statusFilter

	command := &cobra.Command{
		Use:   "recent",
		Short: "List recently studied lessons",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			s, err := newSession(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer s.close()

			for _, recent := range s.lessons.Recent() {
				if status != "" && recent.Record.Status != progress.Status(status) {
					continue
				}
				fmt.Fprintf(os.Stdout, "%-20s %3d%%  %-12s %s\n",
					recent.LessonID, recent.Record.Progress, recent.Record.Status,
					recent.Record.LastAccessed.Format("2006-01-02 15:04"))
			}
			return nil
		},
	}

	command.Flags().Var(&status, "status", "only list lessons with this status (IN_PROGRESS or COMPLETED)")
	return command
}

func newProgressClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove all tracked progress, locally and remotely",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			s, err := newSession(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer s.close()

			if err := s.lessons.Clear(cmd.Context()); err != nil {
				return fmt.Errorf("clear lesson progress: %w", err)
			}
			if err := s.games.Clear(cmd.Context()); err != nil {
				return fmt.Errorf("clear game progress: %w", err)
			}
			fmt.Fprintln(os.Stdout, "progress cleared")
			return nil
		},
	}
}

func summarize(s *session) report.Summary {
	return report.Summary{
		GeneratedAt:      time.Now(),
		Lessons:          s.lessons.All(),
		Recent:           s.lessons.Recent(),
		TotalTimeMinutes: s.lessons.TotalTimeSpent(),
		Games:            s.games.All(),
	}
}
