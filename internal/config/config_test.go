package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/alexanderramin/planforge/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_CreatesDefaultConfig(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "cfg")

	cfg, err := Load(dir)
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(dir, "config.yaml"))
	require.NoError(t, err, "default config.yaml is written on first run")

	assert.Equal(t, dir, cfg.Dir)
	assert.Equal(t, filepath.Join(dir, "planforge.db"), cfg.DBPath)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.False(t, cfg.Log.UseCases)
	assert.Equal(t, domain.DefaultLimits(), cfg.DomainLimits())
}

func TestLoad_ReadsFile(t *testing.T) {
	dir := t.TempDir()
	content := `db_path: /tmp/custom.db
user: release-bot
log:
  level: debug
  use_cases: true
limits:
  max_tags: 3
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0o644))

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/custom.db", cfg.DBPath)
	assert.Equal(t, "release-bot", cfg.User)
	assert.True(t, cfg.Log.UseCases)

	level, err := cfg.SlogLevel()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, level)

	limits := cfg.DomainLimits()
	assert.Equal(t, 3, limits.MaxTags)
	assert.Equal(t, 20, limits.MaxDependencies, "unset keys keep their defaults")
}

func TestLoad_EnvOverrides(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("PLANFORGE_DB", "/tmp/env.db")
	t.Setenv("PLANFORGE_USER", "ci")
	t.Setenv("PLANFORGE_LOG_USE_CASES", "true")
	t.Setenv("PLANFORGE_LIMITS_MAX_TITLE_LENGTH", "40")

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/env.db", cfg.DBPath)
	assert.Equal(t, "ci", cfg.User)
	assert.True(t, cfg.Log.UseCases)
	assert.Equal(t, 40, cfg.DomainLimits().MaxTitleLength)
}

func TestLoad_InvalidLogLevel(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("log:\n  level: loud\n"), 0o644))

	_, err := Load(dir)
	assert.ErrorIs(t, err, ErrInvalidLogLevel)
}

func TestLoad_MalformedFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("log: [unclosed\n"), 0o644))

	_, err := Load(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read config")
}

func TestResolveDir(t *testing.T) {
	t.Setenv(EnvConfigDir, "/env/dir")
	dir, err := ResolveDir("/flag/dir")
	require.NoError(t, err)
	assert.Equal(t, "/flag/dir", dir)

	dir, err = ResolveDir("")
	require.NoError(t, err)
	assert.Equal(t, "/env/dir", dir)

	t.Setenv(EnvConfigDir, "")
	dir, err = ResolveDir("")
	require.NoError(t, err)
	assert.Equal(t, ".planforge", filepath.Base(dir))
}

func TestDomainLimits_NonPositiveFallsBack(t *testing.T) {
	cfg := &Config{Limits: LimitsConfig{MaxTags: -1, MaxDependencies: 0, MaxTitleLength: 5}}
	limits := cfg.DomainLimits()
	assert.Equal(t, domain.DefaultLimits().MaxTags, limits.MaxTags)
	assert.Equal(t, domain.DefaultLimits().MaxDependencies, limits.MaxDependencies)
	assert.Equal(t, 5, limits.MaxTitleLength)
}
