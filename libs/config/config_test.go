package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testConfig struct {
	Name    string        `yaml:"name"`
	Port    int           `yaml:"port"`
	Debug   bool          `yaml:"debug"`
	Timeout time.Duration `yaml:"timeout"`
	Nested  struct {
		Addr   string `yaml:"addr"`
		Tagged string `yaml:"tagged" env:"EXPLICIT_TAGGED_KEY"`
	} `yaml:"nested"`
}

func writeYAML(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadFromYAMLFile(t *testing.T) {
	path := writeYAML(t, `
name: from-yaml
port: 9090
debug: true
nested:
  addr: yaml-addr
`)
	t.Setenv("CHARGESHARE_CONFIG", path)

	var cfg testConfig
	require.NoError(t, Load(&cfg))

	assert.Equal(t, "from-yaml", cfg.Name)
	assert.Equal(t, 9090, cfg.Port)
	assert.True(t, cfg.Debug)
	assert.Equal(t, "yaml-addr", cfg.Nested.Addr)
}

func TestEnvOverridesYAML(t *testing.T) {
	path := writeYAML(t, `
name: from-yaml
port: 9090
`)
	t.Setenv("CHARGESHARE_CONFIG", path)
	t.Setenv("NAME", "from-env")
	t.Setenv("PORT", "7070")
	t.Setenv("NESTED_ADDR", "env-addr")

	var cfg testConfig
	require.NoError(t, Load(&cfg))

	assert.Equal(t, "from-env", cfg.Name)
	assert.Equal(t, 7070, cfg.Port)
	assert.Equal(t, "env-addr", cfg.Nested.Addr)
}

func TestExplicitEnvTagWins(t *testing.T) {
	t.Setenv("CHARGESHARE_CONFIG", "")
	t.Setenv("EXPLICIT_TAGGED_KEY", "tagged-value")

	var cfg testConfig
	require.NoError(t, Load(&cfg))

	assert.Equal(t, "tagged-value", cfg.Nested.Tagged)
}

func TestDurationFields(t *testing.T) {
	t.Setenv("CHARGESHARE_CONFIG", "")
	t.Setenv("TIMEOUT", "90s")

	var cfg testConfig
	require.NoError(t, Load(&cfg))

	assert.Equal(t, 90*time.Second, cfg.Timeout)
}

func TestLoadRejectsNonStructTarget(t *testing.T) {
	assert.Error(t, Load(nil))

	var s string
	assert.Error(t, Load(&s))

	var cfg testConfig
	assert.Error(t, Load(cfg))
}

func TestLoadRejectsUnparsableEnvValue(t *testing.T) {
	t.Setenv("CHARGESHARE_CONFIG", "")
	t.Setenv("PORT", "not-a-number")

	var cfg testConfig
	assert.Error(t, Load(&cfg))
}

func TestLoadMissingConfigFile(t *testing.T) {
	t.Setenv("CHARGESHARE_CONFIG", filepath.Join(t.TempDir(), "missing.yaml"))

	var cfg testConfig
	assert.Error(t, Load(&cfg))
}
