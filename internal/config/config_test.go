package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFromEnvDefaults(t *testing.T) {
	cfg, err := NewFromEnv()
	require.NoError(t, err)

	assert.Equal(t, "Input_vtt", cfg.Paths.InputDir)
	assert.Equal(t, "Output_vtt", cfg.Paths.OutputDir)
	assert.Equal(t, "_en", cfg.Pair.ReferenceSuffix)
	assert.Equal(t, "_kr", cfg.Pair.TargetSuffix)
	assert.Equal(t, "_FINAL", cfg.Pair.OutputSuffix)
	assert.Equal(t, 1, cfg.Batch.Concurrency)
	assert.Equal(t, "@hourly", cfg.Batch.CronExpr)
	assert.Equal(t, "INFO", cfg.Log.Level)
}

func TestNewFromEnvReadsEnvironment(t *testing.T) {
	t.Setenv("INPUT_DIR", "/srv/raw")
	t.Setenv("OUTPUT_DIR", "/srv/done")
	t.Setenv("BATCH_CONCURRENCY", "4")
	t.Setenv("TARGET_SUFFIX", "_ko")

	cfg, err := NewFromEnv()
	require.NoError(t, err)

	assert.Equal(t, "/srv/raw", cfg.Paths.InputDir)
	assert.Equal(t, "/srv/done", cfg.Paths.OutputDir)
	assert.Equal(t, 4, cfg.Batch.Concurrency)
	assert.Equal(t, "_ko", cfg.Pair.TargetSuffix)
}

func TestNewFromEnvOptions(t *testing.T) {
	cfg, err := NewFromEnv(func(c *Config) {
		c.Paths.InputDir = "custom"
	})
	require.NoError(t, err)
	assert.Equal(t, "custom", cfg.Paths.InputDir)
}

func TestValidateRejectsEqualSuffixes(t *testing.T) {
	_, err := NewFromEnv(func(c *Config) {
		c.Pair.ReferenceSuffix = "_xx"
		c.Pair.TargetSuffix = "_xx"
	})
	assert.Error(t, err)
}

func TestValidateRejectsBadConcurrency(t *testing.T) {
	_, err := NewFromEnv(func(c *Config) {
		c.Batch.Concurrency = 0
	})
	assert.Error(t, err)
}
