package main

import (
	"context"
	"fmt"
	"time"

	"github.com/tkaraca/lingotrack/internal/api"
	"github.com/tkaraca/lingotrack/internal/config"
	"github.com/tkaraca/lingotrack/internal/progress"
	"github.com/tkaraca/lingotrack/internal/storage"
)

func loadConfig() (*config.Config, error) {
	return config.Load(configFile)
}

// session bundles the stores a command works with and the resources to
// release when it is done.
type session struct {
	cfg        *config.Config
	lessons    *progress.Store
	games      *progress.GamesStore
	closeFuncs []func() error
}

// newSession opens local storage and, when a backend is configured, the
// API client, then loads both stores (merging the remote copy in when
// reachable).
func newSession(ctx context.Context, cfg *config.Config) (*session, error) {
	s := &session{cfg: cfg}

	var kv storage.KeyValue
	switch cfg.Storage.Driver {
	case "file":
		fileStore, err := storage.NewFileStore(cfg.Storage.Path)
		if err != nil {
			return nil, fmt.Errorf("open file store: %w", err)
		}
		kv = fileStore
	default:
		sqliteStore, err := storage.OpenSQLite(cfg.Storage.Path)
		if err != nil {
			return nil, fmt.Errorf("open sqlite store: %w", err)
		}
		s.closeFuncs = append(s.closeFuncs, sqliteStore.Close)
		kv = sqliteStore
	}
	local := storage.NewLocalStore(kv)

	var client api.Client
	if cfg.Server.BaseURL != "" {
		restClient := api.NewRESTClient(cfg.Server.BaseURL, cfg.Server.Token, uint(cfg.Sync.RetryAttempts))
		s.closeFuncs = append(s.closeFuncs, restClient.Close)
		client = restClient
	}

	s.lessons = progress.NewStore(progress.StoreOptions{
		UserID:   cfg.Server.UserID,
		Local:    local,
		Client:   client,
		Debounce: time.Duration(cfg.Sync.LessonDebounceSeconds) * time.Second,
	})
	s.games = progress.NewGamesStore(progress.StoreOptions{
		UserID:   cfg.Server.UserID,
		Local:    local,
		Client:   client,
		Debounce: time.Duration(cfg.Sync.GameDebounceSeconds) * time.Second,
	})

	if err := s.lessons.Load(ctx); err != nil {
		s.close()
		return nil, fmt.Errorf("load lesson progress: %w", err)
	}
	if err := s.games.Load(ctx); err != nil {
		s.close()
		return nil, fmt.Errorf("load game progress: %w", err)
	}
	return s, nil
}

func (s *session) close() {
	if s.lessons != nil {
		s.lessons.Close()
	}
	if s.games != nil {
		s.games.Close()
	}
	for _, closeFunc := range s.closeFuncs {
		_ = closeFunc()
	}
}
