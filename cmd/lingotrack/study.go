package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/tkaraca/lingotrack/internal/catalog"
	"github.com/tkaraca/lingotrack/internal/cli"
	"github.com/tkaraca/lingotrack/internal/section"
	"github.com/tkaraca/lingotrack/internal/syncer"
	"github.com/tkaraca/lingotrack/internal/timeutil"
)

func newStudyCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "study <lesson-id>",
		Short: "Interactive study session for one lesson",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if cfg.Catalog.File == "" {
				return fmt.Errorf("no lesson catalog configured; set catalog.file")
			}

			lessonCatalog, err := catalog.Load(cfg.Catalog.File)
			if err != nil {
				return fmt.Errorf("load lesson catalog: %w", err)
			}
			lesson, ok := lessonCatalog.Lesson(args[0])
			if !ok {
				return fmt.Errorf("unknown lesson %q", args[0])
			}

			s, err := newSession(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer s.close()

			tracker := section.NewTracker(timeutil.NewClock(), lesson.TrackerSections(), nil)

			// Safety net for long idle sessions; the debounce path stays
			// the primary sync mechanism.
			reconciler := syncer.NewReconciler(
				time.Duration(cfg.Sync.ReconcileMinutes)*time.Minute,
				s.lessons.SyncNow,
			)
			reconciler.Start()
			defer reconciler.Stop()

			return cli.NewStudySessionCLI(lesson, s.lessons, tracker).Run(cmd.Context())
		},
	}
}
