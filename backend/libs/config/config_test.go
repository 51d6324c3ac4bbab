package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	HTTP struct {
		Port string `yaml:"port" env:"SAMPLE_HTTP_PORT"`
	} `yaml:"http"`
	Limits struct {
		PerMinute int           `yaml:"perMinute"`
		Window    time.Duration `yaml:"window"`
	} `yaml:"limits"`
	Origins []string `yaml:"origins" env:"SAMPLE_ORIGINS"`
	Debug   bool     `yaml:"debug" env:"SAMPLE_DEBUG"`
	Skipped string   `env:"-"`
}

func TestLoadConfigRejectsNonPointer(t *testing.T) {
	require.Error(t, LoadConfig(nil))
	require.Error(t, LoadConfig(sample{}))
}

func TestLoadConfigFileThenEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	body := "http:\n  port: \"9000\"\nlimits:\n  perMinute: 10\norigins: [a, b]\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	t.Setenv(defaultConfigPathEnv, path)
	t.Setenv("SAMPLE_HTTP_PORT", "9100")
	t.Setenv("LIMITS_WINDOW", "90s")
	t.Setenv("SAMPLE_DEBUG", "true")

	var cfg sample
	require.NoError(t, LoadConfig(&cfg))

	assert.Equal(t, "9100", cfg.HTTP.Port)
	assert.Equal(t, 10, cfg.Limits.PerMinute)
	assert.Equal(t, 90*time.Second, cfg.Limits.Window)
	assert.Equal(t, []string{"a", "b"}, cfg.Origins)
	assert.True(t, cfg.Debug)
}

func TestLoadConfigSplitsSliceFromEnv(t *testing.T) {
	t.Setenv(defaultConfigPathEnv, "")
	t.Setenv("SAMPLE_ORIGINS", " x , ,y")

	var cfg sample
	require.NoError(t, LoadConfig(&cfg))
	assert.Equal(t, []string{"x", "y"}, cfg.Origins)
}

func TestLoadConfigReportsParseErrors(t *testing.T) {
	t.Setenv(defaultConfigPathEnv, "")
	t.Setenv("LIMITS_PERMINUTE", "many")

	var cfg sample
	err := LoadConfig(&cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "LIMITS_PERMINUTE")
}
