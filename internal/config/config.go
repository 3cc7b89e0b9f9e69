// Package config loads and validates the lingotrack configuration.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Config is the full application configuration.
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Storage StorageConfig `mapstructure:"storage"`
	Sync    SyncConfig    `mapstructure:"sync"`
	Catalog CatalogConfig `mapstructure:"catalog"`
}

// ServerConfig points at the progress backend. An empty base URL means
// no identity: the client operates local-only.
type ServerConfig struct {
	BaseURL string `mapstructure:"base_url" validate:"omitempty,url"`
	Token   string `mapstructure:"token"`
	UserID  string `mapstructure:"user_id"`
}

// StorageConfig locates the local progress cache.
type StorageConfig struct {
	// Driver selects the key/value backend: "sqlite" or "file".
	Driver string `mapstructure:"driver" validate:"oneof=sqlite file"`
	Path   string `mapstructure:"path"`
}

// SyncConfig tunes the debounce and reconcile windows.
type SyncConfig struct {
	LessonDebounceSeconds int `mapstructure:"lesson_debounce_seconds" validate:"min=1"`
	GameDebounceSeconds   int `mapstructure:"game_debounce_seconds" validate:"min=1"`
	ReconcileMinutes      int `mapstructure:"reconcile_minutes" validate:"min=1"`
	RetryAttempts         int `mapstructure:"retry_attempts" validate:"min=0"`
}

// CatalogConfig locates the lesson catalog.
type CatalogConfig struct {
	File string `mapstructure:"file" validate:"omitempty,file"`
}

// ConfigLoader reads, unmarshals, and validates a Config.
type ConfigLoader struct {
	viper      *viper.Viper
	validator  *validator.Validate
	translator ut.Translator
}

// NewConfigLoader creates a loader. With an empty configFile the usual
// search path applies: the working directory, then
// $HOME/.config/lingotrack.
func NewConfigLoader(configFile string) (*ConfigLoader, error) {
	validate, trans, err := newValidator()
	if err != nil {
		return nil, fmt.Errorf("failed to create new validator: %w", err)
	}

	v := viper.New()
	v.SetConfigType("yaml")
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/lingotrack")
	}

	return &ConfigLoader{
		viper:      v,
		validator:  validate,
		translator: trans,
	}, nil
}

// Load reads the configuration, applies defaults, and validates it.
func (loader *ConfigLoader) Load() (*Config, error) {
	v := loader.viper

	v.SetDefault("storage.driver", "sqlite")
	v.SetDefault("storage.path", filepath.Join("data", "progress.db"))
	v.SetDefault("sync.lesson_debounce_seconds", 3)
	v.SetDefault("sync.game_debounce_seconds", 2)
	v.SetDefault("sync.reconcile_minutes", 5)
	v.SetDefault("sync.retry_attempts", 3)

	if err := v.BindEnv("server.token", "LINGOTRACK_TOKEN"); err != nil {
		return nil, fmt.Errorf("failed to bind LINGOTRACK_TOKEN environment variable: %w", err)
	}
	if err := v.BindEnv("server.user_id", "LINGOTRACK_USER"); err != nil {
		return nil, fmt.Errorf("failed to bind LINGOTRACK_USER environment variable: %w", err)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("configuration file found but could not be read: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration format: %w", err)
	}

	if err := loader.validator.Struct(cfg); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			messages := make([]string, 0, len(validationErrors))
			for _, fieldError := range validationErrors {
				messages = append(messages, fieldError.Translate(loader.translator))
			}
			return nil, fmt.Errorf("invalid configuration: %s", strings.Join(messages, "; "))
		}
		return nil, fmt.Errorf("validate configuration: %w", err)
	}

	return &cfg, nil
}

// Load is the one-call helper most commands use.
func Load(configFile string) (*Config, error) {
	loader, err := NewConfigLoader(configFile)
	if err != nil {
		return nil, err
	}
	return loader.Load()
}
