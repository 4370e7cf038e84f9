package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pointConfigAway makes Load ignore any nepse.yaml in the working directory.
func pointConfigAway(t *testing.T) {
	t.Helper()
	t.Setenv("NEPSE_CONFIG", filepath.Join(t.TempDir(), "absent.yaml"))
}

func TestLoadDefaults(t *testing.T) {
	pointConfigAway(t)

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "https://merolagani.com/Floorsheet.aspx", cfg.Source.BaseURL)
	assert.Equal(t, 30*time.Second, cfg.Source.RequestTimeout)
	assert.Equal(t, 0.5, cfg.Source.RequestsPerSecond)
	assert.Equal(t, 365, cfg.Retention.Days)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, "console", cfg.Logging.Output)
	assert.Equal(t, "public", cfg.Paths.DataDir)
	assert.Equal(t, "logs", cfg.Paths.LogsDir)
}

func TestLoadFromEnvironment(t *testing.T) {
	pointConfigAway(t)
	t.Setenv("NEPSE_SOURCE_BASE_URL", "https://example.com/sheet")
	t.Setenv("NEPSE_RETENTION_DAYS", "30")
	t.Setenv("NEPSE_LOGGING_LEVEL", "debug")
	t.Setenv("NEPSE_PATHS_DATA_DIR", "/var/lib/nepse")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "https://example.com/sheet", cfg.Source.BaseURL)
	assert.Equal(t, 30, cfg.Retention.Days)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "/var/lib/nepse", cfg.Paths.DataDir)
}

func TestLoadFromFile(t *testing.T) {
	configFile := filepath.Join(t.TempDir(), "nepse.yaml")
	content := `source:
  base_url: https://example.com/file-sheet
retention:
  days: 90
logging:
  level: warn
`
	require.NoError(t, os.WriteFile(configFile, []byte(content), 0644))
	t.Setenv("NEPSE_CONFIG", configFile)

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "https://example.com/file-sheet", cfg.Source.BaseURL)
	assert.Equal(t, 90, cfg.Retention.Days)
	assert.Equal(t, "warn", cfg.Logging.Level)
	// Values the file does not set keep their defaults.
	assert.Equal(t, 30*time.Second, cfg.Source.RequestTimeout)
	assert.Equal(t, "public", cfg.Paths.DataDir)
}

func TestLoadRejectsInvalidRetention(t *testing.T) {
	pointConfigAway(t)
	t.Setenv("NEPSE_RETENTION_DAYS", "0")

	_, err := Load()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "validation")
}

func TestLoadRejectsInvalidLogLevel(t *testing.T) {
	pointConfigAway(t)
	t.Setenv("NEPSE_LOGGING_LEVEL", "verbose")

	_, err := Load()

	require.Error(t, err)
}

func TestLoadRejectsUnreadableFile(t *testing.T) {
	configFile := filepath.Join(t.TempDir(), "nepse.yaml")
	require.NoError(t, os.WriteFile(configFile, []byte("source: [not a mapping"), 0644))
	t.Setenv("NEPSE_CONFIG", configFile)

	_, err := Load()

	require.Error(t, err)
}

func TestMergeConfigs(t *testing.T) {
	env := Config{}
	env.Source.BaseURL = "https://env.example.com"
	env.Source.RequestTimeout = 30 * time.Second
	env.Retention.Days = 365
	env.Logging.Level = "info"

	file := Config{}
	file.Retention.Days = 90
	file.Logging.Level = "debug"

	merged := mergeConfigs(file, env)

	assert.Equal(t, "https://env.example.com", merged.Source.BaseURL)
	assert.Equal(t, 30*time.Second, merged.Source.RequestTimeout)
	assert.Equal(t, 90, merged.Retention.Days)
	assert.Equal(t, "debug", merged.Logging.Level)
}

func TestNewPaths(t *testing.T) {
	paths := NewPaths(PathsConfig{DataDir: "data", LogsDir: "logs"})

	assert.Equal(t, filepath.Join("data", "raw_floorsheet.csv"), paths.RawFloorsheetCSV)
	assert.Equal(t, filepath.Join("data", "date_summarized_floorsheet.csv"), paths.DateSummarizedCSV)
	assert.Equal(t, filepath.Join("data", "summarized_floorsheet.csv"), paths.GlobalSummarizedCSV)
	assert.Equal(t, filepath.Join("logs", "nepse.log"), paths.GetLogPath("nepse.log"))
}

func TestEnsureDirectories(t *testing.T) {
	base := t.TempDir()
	paths := NewPaths(PathsConfig{
		DataDir: filepath.Join(base, "data"),
		LogsDir: filepath.Join(base, "logs"),
	})

	require.NoError(t, paths.EnsureDirectories())

	assert.DirExists(t, paths.DataDir)
	assert.DirExists(t, paths.LogsDir)
}

func TestFileExists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "present.csv")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0644))

	assert.True(t, FileExists(path))
	assert.False(t, FileExists(path+".absent"))
}
