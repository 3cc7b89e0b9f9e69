package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newSyncCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Reconcile local progress with the backend now",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if cfg.Server.BaseURL == "" || cfg.Server.UserID == "" {
				return fmt.Errorf("no backend configured; set server.base_url and server.user_id")
			}

			// newSession already merges the remote copy into local state;
			// SyncNow pushes the merged result straight back.
			s, err := newSession(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer s.close()

			s.lessons.SyncNow()
			s.games.SyncNow()
			fmt.Fprintln(os.Stdout, "sync complete")
			return nil
		},
	}
}
