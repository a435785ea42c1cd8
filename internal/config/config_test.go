package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "server:\n  port: 0\n"))
	require.NoError(t, err)

	assert.Equal(t, 3030, cfg.Server.Port)
	assert.Equal(t, DriverMemory, cfg.Storage.Driver)
	assert.Equal(t, MatchAll, cfg.Scoring.MatchPolicy)
	assert.Equal(t, 100, cfg.RateLimit.Capacity)
	assert.Equal(t, 50, cfg.RateLimit.RefillRate)
}

func TestLoadFull(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
server:
  port: 8080
storage:
  driver: mysql
  host: db.internal
  port: 3306
  user: compliance
  password: secret
  name: compliance
scoring:
  matchPolicy: once
`))
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, DriverMySQL, cfg.Storage.Driver)
	assert.Equal(t, MatchOnce, cfg.Scoring.MatchPolicy)
	assert.Equal(t,
		"compliance:secret@tcp(db.internal:3306)/compliance?parseTime=true&charset=utf8mb4&loc=UTC",
		cfg.MySQLDSN())
}

func TestLoadRejectsUnknownDriver(t *testing.T) {
	_, err := Load(writeConfig(t, "storage:\n  driver: redis\n"))
	assert.Error(t, err)
}

func TestLoadRejectsUnknownMatchPolicy(t *testing.T) {
	_, err := Load(writeConfig(t, "scoring:\n  matchPolicy: twice\n"))
	assert.Error(t, err)
}

func TestPostgresDSN(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
storage:
  driver: postgres
  host: pg.internal
  port: 5432
  user: compliance
  password: secret
  name: compliance
`))
	require.NoError(t, err)

	assert.Equal(t,
		"host=pg.internal port=5432 user=compliance password=secret dbname=compliance sslmode=disable",
		cfg.PostgresDSN())
}
