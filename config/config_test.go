package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"lottosim/domain/entities"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 5*time.Second, cfg.RevealDelay)
	assert.Equal(t, time.Millisecond, cfg.TrialPause)
	assert.Equal(t, 500, cfg.HistoryLimit)
	assert.Equal(t, int64(100), cfg.ProgressLogInterval)

	tiers, err := cfg.StopTiers()
	require.NoError(t, err)
	assert.Equal(t, []entities.Tier{entities.TierSena}, tiers.Tiers())
}

func TestLoad_FileThenEnv(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "lottosim.yaml")
	require.NoError(t, os.WriteFile(file, []byte(`
reveal_delay: 250ms
trial_pause: 0s
history_limit: 50
default_stop_tiers: "4,5"
nats_enabled: true
log_format: json
`), 0o600))

	t.Setenv("HISTORY_LIMIT", "75")
	t.Setenv("DISCORD_TOKEN", "from-env")

	cfg, err := Load(file)
	require.NoError(t, err)

	assert.Equal(t, 250*time.Millisecond, cfg.RevealDelay)
	assert.Equal(t, time.Duration(0), cfg.TrialPause)
	assert.Equal(t, 75, cfg.HistoryLimit)
	assert.True(t, cfg.NATSEnabled)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, "from-env", cfg.DiscordToken)

	tiers, err := cfg.StopTiers()
	require.NoError(t, err)
	assert.Equal(t, "quadra,quina", tiers.String())
}

func TestLoad_InvalidValues(t *testing.T) {
	t.Setenv("REVEAL_DELAY", "soon")
	_, err := Load("")
	assert.ErrorContains(t, err, "REVEAL_DELAY")
}

func TestLoad_InvalidStopTiers(t *testing.T) {
	t.Setenv("DEFAULT_STOP_TIERS", "3")
	_, err := Load("")
	assert.ErrorIs(t, err, entities.ErrInvalidStopTier)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestValidateForBot(t *testing.T) {
	cfg := defaults()
	assert.Error(t, cfg.ValidateForBot())

	cfg.Environment = "test"
	assert.NoError(t, cfg.ValidateForBot())
}

func TestGetWithTestConfig(t *testing.T) {
	defer ResetConfig()

	SetTestConfig(NewTestConfig())
	cfg := Get()
	assert.Equal(t, "test", cfg.Environment)
	assert.Equal(t, time.Duration(0), cfg.RevealDelay)
}

func TestInit_InstallsGlobal(t *testing.T) {
	defer ResetConfig()

	file := filepath.Join(t.TempDir(), "lottosim.yaml")
	require.NoError(t, os.WriteFile(file, []byte("history_limit: 42\n"), 0o600))

	cfg, err := Init(file)
	require.NoError(t, err)
	assert.Equal(t, 42, cfg.HistoryLimit)
	assert.Same(t, cfg, Get())

	_, err = Init(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
	assert.Same(t, cfg, Get(), "a failed init keeps the previous instance")
}
