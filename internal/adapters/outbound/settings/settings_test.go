package settings_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/abdidvp/storediag/internal/adapters/outbound/settings"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func TestLoad_Defaults(t *testing.T) {
	chdir(t, t.TempDir())

	s, err := settings.Load(settings.LoadOptions{})
	require.NoError(t, err)
	assert.Equal(t, "data", s.DataDir)
	assert.Equal(t, "file", s.Store.Backend)
	assert.Equal(t, "memory", s.Lock.Backend)
	assert.Equal(t, 30*time.Second, s.Lock.TTL)
	assert.Equal(t, 4, s.Concurrency)
	assert.Equal(t, time.Duration(0), s.RunTimeout)
	assert.Equal(t, "text", s.Log.Format)
}

func TestLoad_EnvOverrides(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("STOREDIAG_STORE_BACKEND", "sqlite")
	t.Setenv("STOREDIAG_RUN_TIMEOUT", "5s")
	t.Setenv("STOREDIAG_CONCURRENCY", "8")

	s, err := settings.Load(settings.LoadOptions{})
	require.NoError(t, err)
	assert.Equal(t, "sqlite", s.Store.Backend)
	assert.Equal(t, 5*time.Second, s.RunTimeout)
	assert.Equal(t, 8, s.Concurrency)
}

func TestLoad_SettingsFile(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "storediag.yaml"), []byte(`
data_dir: /srv/stores
log:
  level: debug
  format: json
`), 0644))

	s, err := settings.Load(settings.LoadOptions{})
	require.NoError(t, err)
	assert.Equal(t, "/srv/stores", s.DataDir)
	assert.Equal(t, "debug", s.Log.Level)
	assert.Equal(t, "json", s.Log.Format)
}

func TestLoad_ExplicitMissingFileFails(t *testing.T) {
	chdir(t, t.TempDir())
	_, err := settings.Load(settings.LoadOptions{ConfigFile: "nope.yaml"})
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	base := func() settings.Settings {
		return settings.Settings{
			Concurrency: 1,
			Store:       settings.StoreSettings{Backend: "file"},
			Lock:        settings.LockSettings{Backend: "memory"},
			Log:         settings.LogSettings{Level: "info", Format: "text"},
		}
	}
	tests := []struct {
		name   string
		mutate func(*settings.Settings)
	}{
		{"unknown store", func(s *settings.Settings) { s.Store.Backend = "floppy" }},
		{"postgres without dsn", func(s *settings.Settings) { s.Store.Backend = "postgres" }},
		{"s3 without bucket", func(s *settings.Settings) { s.Store.Backend = "s3" }},
		{"redis without ttl", func(s *settings.Settings) { s.Lock.Backend = "redis" }},
		{"bad format", func(s *settings.Settings) { s.Log.Format = "xml" }},
		{"zero concurrency", func(s *settings.Settings) { s.Concurrency = 0 }},
		{"discord without channel", func(s *settings.Settings) { s.Discord.Token = "tok" }},
	}
	ok := base()
	require.NoError(t, ok.Validate())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := base()
			tt.mutate(&s)
			assert.Error(t, s.Validate())
		})
	}
}
