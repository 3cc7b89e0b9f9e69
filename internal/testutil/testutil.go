// Package testutil provides shared test helpers for config files,
// catalog fixtures, and local stores.
package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tkaraca/lingotrack/internal/storage"
)

// SetupTestConfig creates a minimal config file pointing at directories
// under tmpDir. Returns the path to the generated config file.
func SetupTestConfig(t *testing.T, tmpDir string) string {
	t.Helper()

	catalogPath := CreateCatalogFile(t, tmpDir)
	configContent := fmt.Sprintf(`storage:
  driver: file
  path: %s
catalog:
  file: %s
`,
		filepath.Join(tmpDir, "data"),
		catalogPath,
	)

	cfgPath := filepath.Join(tmpDir, "config.yml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(configContent), 0644))
	return cfgPath
}

// CreateCatalogFile writes a two-lesson catalog fixture and returns its
// path.
func CreateCatalogFile(t *testing.T, dir string) string {
	t.Helper()

	catalogContent := `lessons:
  - id: alphabet
    title: The Alphabet
    sections:
      - id: letters-grid
        title: Letters
        requirements:
          min_time_seconds: 30
          min_interactions: 3
          min_unique_interactions: 2
      - id: letter-sounds
        title: Sounds
  - id: pronouns
    title: Pronouns
    sections:
      - id: pronoun-table
        title: Pronoun table
`
	catalogPath := filepath.Join(dir, "catalog.yml")
	require.NoError(t, os.WriteFile(catalogPath, []byte(catalogContent), 0644))
	return catalogPath
}

// NewTestLocalStore returns a file-backed local store rooted in a
// temporary directory.
func NewTestLocalStore(t *testing.T) *storage.LocalStore {
	t.Helper()

	fileStore, err := storage.NewFileStore(filepath.Join(t.TempDir(), "data"))
	require.NoError(t, err)
	return storage.NewLocalStore(fileStore)
}
