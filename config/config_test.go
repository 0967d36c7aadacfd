package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdir moves the test into an empty directory so no stray .env is read.
func chdir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	return dir
}

func TestLoad_Defaults(t *testing.T) {
	chdir(t)

	cfg, err := Load(nil)
	require.NoError(t, err)
	assert.Equal(t, Defaults(), cfg)
}

func TestLoad_EnvironmentThenFlags(t *testing.T) {
	// GIVEN: Environment sets port and iterations
	// WHEN: A flag also sets the port
	// THEN: The flag wins; the environment fills the rest
	chdir(t)
	t.Setenv("ROI_PORT", "9000")
	t.Setenv("ROI_MC_ITERATIONS", "5000")
	t.Setenv("ROI_ALLOWED_ORIGINS", "https://a.example, https://b.example")

	cfg, err := Load([]string{"-port", "9100", "-db", ":memory:"})
	require.NoError(t, err)

	assert.Equal(t, 9100, cfg.Port)
	assert.Equal(t, ":memory:", cfg.DBPath)
	assert.Equal(t, 5000, cfg.MCIterations)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
}

func TestLoad_DotEnvDoesNotOverrideEnvironment(t *testing.T) {
	dir := chdir(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"),
		[]byte("ROI_LOG_LEVEL=debug\nROI_LOG_FORMAT=console\n"), 0o600))
	t.Setenv("ROI_LOG_FORMAT", "json")
	t.Cleanup(func() { os.Unsetenv("ROI_LOG_LEVEL") })

	cfg, err := Load(nil)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
}

func TestLoad_Invalid(t *testing.T) {
	chdir(t)

	_, err := Load([]string{"-port", "0"})
	assert.Error(t, err)

	_, err = Load([]string{"-mc-iterations", "0"})
	assert.Error(t, err)

	_, err = Load([]string{"-log-format", "xml"})
	assert.Error(t, err)

	_, err = Load([]string{"-log-level", "verbose"})
	assert.ErrorContains(t, err, "log level")

	t.Setenv("ROI_LOG_LEVEL", "loud")
	_, err = Load(nil)
	assert.ErrorContains(t, err, "log level")

	_, err = Load([]string{"-unknown"})
	assert.Error(t, err)

	t.Setenv("ROI_MC_WORKERS", "many")
	_, err = Load(nil)
	assert.Error(t, err)
}
