package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Cleanup(viper.Reset)

	s, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "info", s.LogLevel)
	assert.Equal(t, "lander.db", s.StorePath)
	assert.Equal(t, DefaultDifficulty, s.Difficulty)
	assert.Equal(t, DefaultPlayerName, s.PlayerName)
	assert.False(t, s.AudioEnabled)
	assert.True(t, s.MetricsEnabled)
}

func TestLoadFromFile(t *testing.T) {
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	content := "logLevel: debug\ndifficulty: training\nplayerName: ace\naudioEnabled: true\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "lander.yaml"), []byte(content), 0o644))

	s, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "debug", s.LogLevel)
	assert.Equal(t, "training", s.Difficulty)
	assert.Equal(t, "ace", s.PlayerName)
	assert.True(t, s.AudioEnabled)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Cleanup(viper.Reset)
	t.Setenv("LANDER_STOREPATH", "/tmp/scores.db")

	s, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, "/tmp/scores.db", s.StorePath)
}

func TestLoadUnknownDifficulty(t *testing.T) {
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "lander.yaml"), []byte("difficulty: nightmare\n"), 0o644))

	_, err := Load(dir)
	assert.ErrorIs(t, err, ErrUnknownDifficulty)
}

func TestLookupDifficulty(t *testing.T) {
	d, err := LookupDifficulty("IMPOSSIBLE")
	require.NoError(t, err)
	assert.Equal(t, 25.0, d.Fuel)
	assert.Equal(t, 0.35, d.MaxVSpeed)
	assert.Equal(t, 2.0, d.ScoreMult)

	_, err = LookupDifficulty("")
	assert.ErrorIs(t, err, ErrUnknownDifficulty)
}
