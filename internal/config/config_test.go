package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingExplicitFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Nil(t, cfg)
}

func TestLoadFromFileWithEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
server:
  port: 9090
database:
  driver: sqlite
  path: /tmp/test.db
ingest:
  workers: 2
  http_timeout: 5s
storage:
  root: /srv/dem
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	t.Setenv("MDM_API_BASE_URL", "http://mdm.internal/mdm/api")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.ListenPort("dem"))
	assert.Equal(t, "/tmp/test.db", cfg.Database.DSN())
	assert.Equal(t, 2, cfg.Ingest.Workers)
	assert.Equal(t, 100, cfg.Ingest.QueueSize)
	assert.Equal(t, 5*time.Second, cfg.Ingest.HTTPTimeout)
	assert.Equal(t, "/srv/dem", cfg.Storage.Root)
	assert.Equal(t, "local", cfg.Storage.Type)
	assert.Equal(t, "http://mdm.internal/mdm/api", cfg.MDM.APIBaseURL)
	assert.Equal(t, "http://localhost:8081/dem/api", cfg.DEM.APIBaseURL)
}

func TestListenPortDefaultsPerBinary(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  mode: test\n"), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.ListenPort("mdm"))
	assert.Equal(t, 8081, cfg.ListenPort("dem"))

	t.Setenv("DEM_PORT", "9181")
	cfg, err = Load(path)
	require.NoError(t, err)
	assert.Equal(t, 9181, cfg.ListenPort("dem"))

	t.Setenv("PORT", "7000")
	cfg, err = Load(path)
	require.NoError(t, err)
	assert.Equal(t, 7000, cfg.ListenPort("mdm"))
	assert.Equal(t, 7000, cfg.ListenPort("dem"))
}

func TestPostgresDSN(t *testing.T) {
	c := DatabaseConfig{Driver: "postgres", Host: "db", Port: 5432, User: "u", Password: "p", DBName: "mdm", SSLMode: "disable"}
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=mdm sslmode=disable", c.DSN())
}
