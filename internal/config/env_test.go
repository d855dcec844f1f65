package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdirForTest mirrors testing.T.Chdir (Go 1.24+) for older toolchains.
func chdirForTest(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(old) })
}

func TestLoadEnv_Defaults(t *testing.T) {
	chdirForTest(t, t.TempDir())

	env, err := LoadEnv()
	require.NoError(t, err)
	assert.Equal(t, ".workplate", env.DataDir)
	assert.Equal(t, []string{"primary"}, env.GoogleCalendarIDs)
	assert.Equal(t, "localhost:8085", env.OAuthRedirectAddr)
	assert.Equal(t, slog.LevelInfo, env.SlogLevel())
	assert.Equal(t, filepath.Join(".workplate", "tasks.yaml"), env.TasksPath())
	assert.False(t, env.GoogleEnabled())
}

func TestLoadEnv_PrefixedAndPlainNames(t *testing.T) {
	chdirForTest(t, t.TempDir())
	t.Setenv("GOOGLE_CLIENT_ID", "plain-id")
	t.Setenv("WORKPLATE_GOOGLE_CLIENT_SECRET", "prefixed-secret")
	t.Setenv("WORKPLATE_ICS_FEEDS", "https://a.example/cal.ics,https://b.example/cal.ics")
	t.Setenv("LOG_LEVEL", "debug")

	env, err := LoadEnv()
	require.NoError(t, err)
	assert.Equal(t, "plain-id", env.GoogleClientID)
	assert.Equal(t, "prefixed-secret", env.GoogleClientSecret)
	assert.Len(t, env.ICSFeeds, 2)
	assert.Equal(t, slog.LevelDebug, env.SlogLevel())
	assert.True(t, env.GoogleEnabled())
}

func TestEnv_Location(t *testing.T) {
	env := &Env{PrimaryTimezone: "Europe/Berlin"}
	loc, err := env.Location()
	require.NoError(t, err)
	assert.Equal(t, "Europe/Berlin", loc.String())

	env.PrimaryTimezone = "Mars/Olympus"
	_, err = env.Location()
	assert.Error(t, err)
}

func TestEnv_SlogLevelFallback(t *testing.T) {
	assert.Equal(t, slog.LevelInfo, (&Env{LogLevel: "loud"}).SlogLevel())
	assert.Equal(t, slog.LevelWarn, (&Env{LogLevel: "warn"}).SlogLevel())
}
