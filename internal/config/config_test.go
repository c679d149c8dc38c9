package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("POWERMASON_CONFIG_PATH", "")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, 8080, cfg.Server.Port)
	require.Equal(t, "B1", cfg.Ingest.Cells.ProjID)
	require.Equal(t, "E117", cfg.Ingest.Cells.ApprovedContract)
	require.Equal(t, 10, cfg.Ingest.FirstRow)
	require.Equal(t, 113, cfg.Ingest.LastRow)
}

func TestLoad_YAMLFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte(`
server:
  port: 9000
ingest:
  cells:
    proj_id: C1
  last_row: 50
`)
	require.NoError(t, os.WriteFile(path, data, 0o644))

	t.Setenv("POWERMASON_CONFIG_PATH", path)
	t.Setenv("POWERMASON_DB_PATH", "/tmp/pm.db")
	t.Setenv("POWERMASON_AUTH_ENABLED", "true")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, 9000, cfg.Server.Port)
	require.Equal(t, "C1", cfg.Ingest.Cells.ProjID)
	require.Equal(t, "B2", cfg.Ingest.Cells.Name)
	require.Equal(t, 50, cfg.Ingest.LastRow)
	require.Equal(t, "/tmp/pm.db", cfg.DB.Path)
	require.True(t, cfg.Auth.Enabled)
}

func TestLoad_TOMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	data := []byte(`
[log]
level = "debug"

[ingest]
first_row = 12
`)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	t.Setenv("POWERMASON_CONFIG_PATH", path)

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "debug", cfg.Log.Level)
	require.Equal(t, 12, cfg.Ingest.FirstRow)
}

func TestLoad_InvalidPort(t *testing.T) {
	t.Setenv("POWERMASON_CONFIG_PATH", "")
	t.Setenv("POWERMASON_SERVER_PORT", "http")

	_, err := Load()
	require.Error(t, err)
}

func TestIngestConfig_Validate(t *testing.T) {
	cfg := DefaultIngest()
	require.NoError(t, cfg.Validate())

	bad := DefaultIngest()
	bad.Cells.Location = "3B"
	require.Error(t, bad.Validate())

	bad = DefaultIngest()
	bad.LastRow = 5
	require.Error(t, bad.Validate())

	bad = DefaultIngest()
	bad.BaseColumn = "1"
	require.Error(t, bad.Validate())
}
