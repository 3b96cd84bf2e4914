package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("QTERMSIM_CONFIG", "")

	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 0, c.Simulator.Workers)
	assert.Equal(t, 1<<12, c.Simulator.ParallelThreshold)
	assert.Equal(t, uint64(0), c.Simulator.Seed)
	assert.Equal(t, 1024, c.Simulator.Shots)
	assert.Equal(t, "info", c.Log.Level)
	assert.Equal(t, "text", c.Log.Format)
	assert.Empty(t, c.Metrics.Addr)
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "qtermsim.yaml")
	body := `simulator:
  workers: 4
  seed: 42
  parallel_threshold: 256
  memory_limit: 1048576
log:
  level: debug
  format: json
metrics:
  addr: ":9100"
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 4, c.Simulator.Workers)
	assert.Equal(t, uint64(42), c.Simulator.Seed)
	assert.Equal(t, 256, c.Simulator.ParallelThreshold)
	assert.Equal(t, uint64(1<<20), c.Simulator.MemoryLimit)
	assert.Equal(t, "debug", c.Log.Level)
	assert.Equal(t, "json", c.Log.Format)
	assert.Equal(t, ":9100", c.Metrics.Addr)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("QTERMSIM_CONFIG", "")
	t.Setenv("QTERMSIM_LOG_LEVEL", "warn")
	t.Setenv("QTERMSIM_SIMULATOR_SEED", "7")

	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "warn", c.Log.Level)
	assert.Equal(t, uint64(7), c.Simulator.Seed)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestLoadInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.toml")
	require.NoError(t, os.WriteFile(path, []byte("[simulator]\nshots = 0\n"), 0o600))

	_, err := Load(path)
	assert.ErrorContains(t, err, "shots")
}
