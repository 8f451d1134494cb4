package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnv_Defaults(t *testing.T) {
	t.Setenv("REDIS_URL", "")
	t.Setenv("ENVIRONMENT", "")

	cfg := FromEnv()
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.False(t, cfg.Logging.Pretty)
	assert.Equal(t, "dev_printssistant", cfg.Axiom.Dataset)
	assert.False(t, cfg.Redis.Enabled())
	assert.Equal(t, 24*time.Hour, cfg.Redis.ResultTTL)
	assert.Equal(t, 4, cfg.Analysis.Concurrency)
	assert.Equal(t, 0.1, cfg.Analysis.SizeTolerance)
	assert.False(t, cfg.Analysis.AllowLocalFiles)
	assert.Equal(t, 4, cfg.Analysis.HostInflight)
	assert.Equal(t, 5*time.Minute, cfg.Analysis.HostMaxBackoff)
	assert.Empty(t, cfg.Auth.APIKeyHash)
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9999")
	t.Setenv("ENVIRONMENT", "dev")
	t.Setenv("REDIS_URL", "redis://cache:6379/2")
	t.Setenv("RESULT_TTL", "90m")
	t.Setenv("ANALYSIS_CONCURRENCY", "0")
	t.Setenv("SIZE_TOLERANCE_INCHES", "0.25")
	t.Setenv("S3_USE_PATH_STYLE", "yes")
	t.Setenv("ANALYSIS_MAX_IMAGE_BYTES", "not-a-number")

	cfg := FromEnv()
	assert.Equal(t, ":9999", cfg.Server.Addr)
	assert.True(t, cfg.Logging.Pretty)
	assert.True(t, cfg.Redis.Enabled())
	assert.Equal(t, 90*time.Minute, cfg.Redis.ResultTTL)
	assert.Equal(t, 1, cfg.Analysis.Concurrency)
	assert.Equal(t, 0.25, cfg.Analysis.SizeTolerance)
	assert.True(t, cfg.S3.UsePathStyle)
	assert.Equal(t, int64(50<<20), cfg.Analysis.MaxImageBytes)
}

func TestLoad_ReadsDotEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("AXIOM_DATASET=staging\n"), 0o600))

	// godotenv does not override variables that are already set
	t.Setenv("AXIOM_DATASET", "")
	require.NoError(t, os.Unsetenv("AXIOM_DATASET"))

	cfg := Load(path)
	assert.Equal(t, "staging_printssistant", cfg.Axiom.Dataset)
}

func TestLoad_MissingFileIsIgnored(t *testing.T) {
	cfg := Load(filepath.Join(t.TempDir(), "nope.env"))
	assert.NotEmpty(t, cfg.Server.Addr)
}
