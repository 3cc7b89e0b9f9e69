package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tkaraca/lingotrack/internal/report"
)

func newReportCommand() *cobra.Command {
	var pdfPath string

	command := &cobra.Command{
		Use:   "report",
		Short: "Render a progress report",
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

			summary := summarize(s)
			if pdfPath == "" {
				report.WriteTerminal(os.Stdout, summary)
				return nil
			}

			written, err := report.WritePDF(summary, pdfPath)
			if err != nil {
				return fmt.Errorf("write pdf report: %w", err)
			}
			fmt.Fprintf(os.Stdout, "report written to %s\n", written)
			return nil
		},
	}

	command.Flags().StringVar(&pdfPath, "pdf", "", "write the report as PDF to this path")
	return command
}
