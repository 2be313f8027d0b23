package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dd0wney/cluso-affinity/pkg/similarity"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, 0.2, cfg.Similarity.Threshold)
	assert.Equal(t, "jaccard", cfg.Similarity.Metric)
	assert.Equal(t, -400.0, cfg.Simulation.Charge)
	assert.Equal(t, 220.0, cfg.Simulation.LinkDistance)
	assert.Equal(t, 50.0, cfg.Simulation.CollisionRadius)
	assert.Equal(t, 0.001, cfg.Simulation.AlphaMin)
	assert.Equal(t, DefaultFrameInterval, cfg.TUI.FrameInterval)
	assert.Positive(t, cfg.Similarity.Workers)
	assert.NoError(t, cfg.Validate())
}

func TestLoadYAML(t *testing.T) {
	path := writeFile(t, "affinity.yaml", `
similarity:
  threshold: 0.3
  metric: overlap
  workers: 3
simulation:
  link_distance: 180
  weighted_links: true
tui:
  frame_interval: 50ms
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 0.3, cfg.Similarity.Threshold)
	assert.Equal(t, similarity.Options{Metric: similarity.MetricOverlap, Workers: 3}, cfg.SimilarityOptions())
	assert.Equal(t, 180.0, cfg.Simulation.LinkDistance)
	assert.True(t, cfg.Simulation.WeightedLinks)
	assert.Equal(t, -400.0, cfg.Simulation.Charge, "unset fields keep defaults")
	assert.Equal(t, 50*time.Millisecond, cfg.TUI.FrameInterval)
}

func TestLoadTOML(t *testing.T) {
	path := writeFile(t, "affinity.toml", `
[similarity]
threshold = 0.25

[simulation]
charge = -300.0
collision_radius = 40.0

[log]
level = "debug"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 0.25, cfg.Similarity.Threshold)
	assert.Equal(t, -300.0, cfg.Simulation.Charge)
	assert.Equal(t, 40.0, cfg.Simulation.CollisionRadius)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	_, err := Load(writeFile(t, "bad.yaml", "simulation:\n  gravity: 3\n"))
	assert.Error(t, err)

	_, err = Load(writeFile(t, "bad.toml", "[simulation]\ngravity = 3\n"))
	assert.Error(t, err)
}

func TestLoadUnsupportedExtension(t *testing.T) {
	_, err := Load(writeFile(t, "affinity.json", "{}"))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("AFFINITY_THRESHOLD", "0.4")
	t.Setenv("AFFINITY_CHARGE", "-250")
	t.Setenv("AFFINITY_FRAME_INTERVAL", "100ms")
	t.Setenv("AFFINITY_SEED", "42")
	t.Setenv("AFFINITY_METRICS_ADDR", ":9100")

	path := writeFile(t, "affinity.yaml", "similarity:\n  threshold: 0.3\n")
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 0.4, cfg.Similarity.Threshold, "environment wins over file")
	assert.Equal(t, -250.0, cfg.Simulation.Charge)
	assert.Equal(t, 100*time.Millisecond, cfg.TUI.FrameInterval)
	assert.Equal(t, uint64(42), cfg.Simulation.Seed)
	assert.Equal(t, ":9100", cfg.TUI.MetricsAddr)
}

func TestEnvOverridesInvalid(t *testing.T) {
	env := map[string]string{
		"AFFINITY_THRESHOLD":      "high",
		"AFFINITY_FRAME_INTERVAL": "soon",
	}
	cfg := &Config{}
	err := cfg.ApplyEnv(func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "AFFINITY_THRESHOLD")
	assert.Contains(t, err.Error(), "AFFINITY_FRAME_INTERVAL")
}

func TestValidateReportsEveryProblem(t *testing.T) {
	cfg := Default()
	cfg.Similarity.Threshold = 1.5
	cfg.Similarity.Metric = "euclid"
	cfg.Simulation.VelocityDecay = 1
	cfg.Simulation.AlphaMin = 2

	err := cfg.Validate()
	require.Error(t, err)
	for _, field := range []string{"Similarity.Threshold", "Similarity.Metric", "Simulation.VelocityDecay", "Simulation.AlphaMin"} {
		assert.Contains(t, err.Error(), field)
	}
}
