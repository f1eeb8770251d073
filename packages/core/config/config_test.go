package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindAndLoadConfig_Defaults(t *testing.T) {
	cfg, err := FindAndLoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, DefaultConfig(), cfg)
	assert.True(t, cfg.GetFollowRedirects())
	assert.Equal(t, time.Duration(0), cfg.TimeoutDuration())
}

func TestLoadConfig_YAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "apidesk.yaml")
	content := `timeout: 2500
followRedirects: false
output: json
logLevel: debug
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := FindAndLoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, 2500*time.Millisecond, cfg.TimeoutDuration())
	assert.False(t, cfg.GetFollowRedirects())
	assert.Equal(t, "json", cfg.Output)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 10, cfg.MaxRedirects)
	assert.Equal(t, DefaultAddr, cfg.Addr)
}

func TestLoadConfig_JSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".apidesk.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"maxRedirects": 3, "noColor": true}`), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 3, cfg.MaxRedirects)
	assert.True(t, cfg.GetNoColor())
}

func TestLoadConfig_Invalid(t *testing.T) {
	dir := t.TempDir()

	badOutput := filepath.Join(dir, "apidesk.yaml")
	require.NoError(t, os.WriteFile(badOutput, []byte("output: xml\n"), 0644))
	_, err := LoadConfig(badOutput)
	assert.ErrorContains(t, err, "unsupported output format")

	badSyntax := filepath.Join(dir, "broken.json")
	require.NoError(t, os.WriteFile(badSyntax, []byte(`{"timeout":`), 0644))
	_, err = LoadConfig(badSyntax)
	assert.ErrorContains(t, err, "failed to parse config")

	_, err = LoadConfig(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

func TestMerge(t *testing.T) {
	base := DefaultConfig()
	merged := base.Merge(&Config{
		Timeout:         1000,
		FollowRedirects: BoolPtr(false),
		Output:          "json",
		EnvFile:         ".env.local",
	})

	assert.Equal(t, 1000, merged.Timeout)
	assert.Equal(t, ".env.local", merged.EnvFile)
	assert.False(t, merged.GetFollowRedirects())
	assert.Equal(t, "json", merged.Output)
	assert.Equal(t, base.Addr, merged.Addr)

	// base is untouched
	assert.Equal(t, 0, base.Timeout)
	assert.Same(t, base, base.Merge(nil))
}

func TestSaveConfig_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "apidesk.yaml")
	cfg := DefaultConfig()
	cfg.Timeout = 750

	require.NoError(t, cfg.SaveConfig(path))

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 750, loaded.Timeout)
}

func TestGetMaxRedirects(t *testing.T) {
	assert.Equal(t, DefaultMaxRedirects, (&Config{}).GetMaxRedirects())
	assert.Equal(t, 3, (&Config{MaxRedirects: 3}).GetMaxRedirects())

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "apidesk.yaml"), []byte("maxRedirects: 0\nfollowRedirects: true\n"), 0644))
	cfg, err := FindAndLoadConfig(dir)
	require.NoError(t, err)
	assert.True(t, cfg.GetFollowRedirects())
	assert.Equal(t, DefaultMaxRedirects, cfg.GetMaxRedirects())
}
