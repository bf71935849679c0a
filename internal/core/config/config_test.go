package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/hay-kot/criterio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	dataDir := t.TempDir()

	cfg, err := Load("", dataDir)
	require.NoError(t, err)

	assert.Equal(t, "calculation_history.csv", cfg.HistoryFile)
	assert.Equal(t, DefaultPrecision, cfg.Precision)
	assert.Equal(t, dataDir, cfg.DataDir)
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"), t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, "calculation_history.csv", cfg.HistoryFile)
}

func TestLoad_FromFile(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yaml")

	content := "history_file: results.csv\nprecision: 10\n"
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0o644))

	cfg, err := Load(configPath, dir)
	require.NoError(t, err)

	assert.Equal(t, "results.csv", cfg.HistoryFile)
	assert.Equal(t, 10, cfg.Precision)
	assert.Equal(t, dir, cfg.DataDir)
}

func TestLoad_InvalidYAML(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("history_file: [oops"), 0o644))

	_, err := Load(configPath, t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse config file")
}

func TestValidate(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.DataDir = t.TempDir()
		assert.NoError(t, cfg.Validate())
	})

	t.Run("empty data dir", func(t *testing.T) {
		cfg := DefaultConfig()

		err := cfg.Validate()
		var fieldErrs criterio.FieldErrors
		require.ErrorAs(t, err, &fieldErrs)
		assert.Contains(t, fieldErrs[0].Field, "data_dir")
	})

	t.Run("history file with path separators", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.DataDir = t.TempDir()
		cfg.HistoryFile = "sub/dir.csv"

		err := cfg.Validate()
		var fieldErrs criterio.FieldErrors
		require.ErrorAs(t, err, &fieldErrs)
		assert.Contains(t, fieldErrs[0].Field, "history_file")
	})

	t.Run("bad precision", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.DataDir = t.TempDir()
		cfg.Precision = -2

		err := cfg.Validate()
		var fieldErrs criterio.FieldErrors
		require.ErrorAs(t, err, &fieldErrs)
		assert.Contains(t, fieldErrs[0].Field, "precision")
	})
}

func TestHistoryPath(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DataDir = "/data/tally"

	assert.Equal(t, filepath.Join("/data/tally", "calculation_history.csv"), cfg.HistoryPath())
}

func TestResolvePath(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DataDir = "/data/tally"

	assert.Equal(t, cfg.HistoryPath(), cfg.ResolvePath(""))
	assert.Equal(t, filepath.Join("/data/tally", "backup.csv"), cfg.ResolvePath("backup.csv"))
	assert.Equal(t, "/elsewhere/backup.csv", cfg.ResolvePath("/elsewhere/backup.csv"))
}
