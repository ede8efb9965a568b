package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_YAMLOverridesDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	path := writeFile(t, "circuit.yaml", `
cell_size: 40
seed: 7
log:
  format: json
redis:
  ttl: 24h
  db: 2
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 40.0, cfg.CellSize)
	assert.Equal(t, 2.0, cfg.Speed)
	assert.Equal(t, uint64(7), cfg.Seed)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, 24*time.Hour, cfg.Redis.TTL)
	assert.Equal(t, 2, cfg.Redis.DB)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
}

func TestLoad_EnvOverridesYAML(t *testing.T) {
	t.Chdir(t.TempDir())
	path := writeFile(t, "circuit.yaml", "speed: 3\nstore:\n  driver: file\n")
	t.Setenv("CIRCUIT_SPEED", "4.5")
	t.Setenv("CIRCUIT_STORE_DRIVER", "redis")
	t.Setenv("CIRCUIT_REDIS_TTL", "90s")
	t.Setenv("CIRCUIT_HTTP_PORT", "9000")
	t.Setenv("CIRCUIT_UNRELATED", "ignored")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 4.5, cfg.Speed)
	assert.Equal(t, "redis", cfg.Store.Driver)
	assert.Equal(t, 90*time.Second, cfg.Redis.TTL)
	assert.Equal(t, 9000, cfg.HTTP.Port)
}

func TestLoad_ListsAndAudio(t *testing.T) {
	t.Chdir(t.TempDir())
	path := writeFile(t, "circuit.yaml", "audio:\n  command: play\n  args: [-q, -n]\nstore:\n  previous_keys: [a, b]\n")
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "play", cfg.Audio.Command)
	assert.Equal(t, []string{"-q", "-n"}, cfg.Audio.Args)
	assert.Equal(t, []string{"a", "b"}, cfg.Store.PreviousKeys)

	t.Setenv("CIRCUIT_STORE_PREVIOUS_KEYS", "x,y")
	t.Setenv("CIRCUIT_STORE_ENCRYPTION_KEY", "k")
	cfg, err = Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"x", "y"}, cfg.Store.PreviousKeys)
	assert.Equal(t, "k", cfg.Store.EncryptionKey)
}

func TestLoad_DotEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("CIRCUIT_LOG_LEVEL=debug\n"), 0o644))
	t.Cleanup(func() { _ = os.Unsetenv("CIRCUIT_LOG_LEVEL") })

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_Errors(t *testing.T) {
	t.Chdir(t.TempDir())

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = Load(writeFile(t, "bad.yaml", "speed: [1"))
	assert.Error(t, err)

	_, err = Load(writeFile(t, "unknown.yaml", "tempo: 3\n"))
	assert.ErrorContains(t, err, "tempo")

	_, err = Load(writeFile(t, "zero.yaml", "speed: 0\n"))
	assert.ErrorContains(t, err, "speed must be positive")
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.CellSize = -1
	cfg.Log.Level = "loud"
	cfg.Store.Driver = "s3"

	err := cfg.Validate()
	require.Error(t, err)
	assert.ErrorContains(t, err, "cell_size")
	assert.ErrorContains(t, err, "loud")
	assert.ErrorContains(t, err, "s3")
}
