package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
logger:
  level: debug
  encoding: console
database:
  host: db.local
  port: 5433
  user: tracker
  password: secret
  name: portfolio
api:
  port: 9090
price_feed:
  enabled: true
  schedule: "@hourly"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Encoding)
	assert.Equal(t, "db.local", cfg.DB.Host)
	assert.Equal(t, 5433, cfg.DB.Port)
	assert.Equal(t, "disable", cfg.DB.SSLMode)
	assert.Equal(t, 9090, cfg.API.Port)
	assert.Equal(t, 10*time.Second, cfg.API.ShutdownTimeout)
	assert.True(t, cfg.PriceFeed.Enabled)
	assert.Equal(t, "@hourly", cfg.PriceFeed.Schedule)
	assert.Equal(t, 24*time.Hour, cfg.Auth.TokenExpiration)
	assert.Equal(t, 30*24*time.Hour, cfg.PriceFeed.HistoryRetention)
}

func TestLoad_EnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("database:\n  host: from-file\n"), 0o600))
	t.Setenv("DATABASE_HOST", "from-env")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.DB.Host)
}

func TestDatabase_DSN(t *testing.T) {
	tests := []struct {
		name    string
		db      Database
		wantDSN string
		wantURL string
	}{
		{
			name:    "without time zone",
			db:      Database{Host: "localhost", Port: 5432, User: "u", Password: "p", DBName: "d", SSLMode: "disable"},
			wantDSN: "host=localhost user=u password=p dbname=d port=5432 sslmode=disable",
			wantURL: "postgres://u:p@localhost:5432/d?sslmode=disable",
		},
		{
			name:    "with time zone",
			db:      Database{Host: "h", Port: 1, User: "u", Password: "p", DBName: "d", SSLMode: "require", TimeZone: "UTC"},
			wantDSN: "host=h user=u password=p dbname=d port=1 sslmode=require TimeZone=UTC",
			wantURL: "postgres://u:p@h:1/d?sslmode=require",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantDSN, tt.db.DSN())
			assert.Equal(t, tt.wantURL, tt.db.URL())
		})
	}
}
