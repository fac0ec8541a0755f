package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleYAML = `
telegram:
  financial:
    token: fin-from-file
  report:
    token: rep-from-file
webhook:
  public-url: https://bots.example.com/
storage:
  driver: sqlite
  dsn: bots.db
memcached:
  hosts: [ "localhost:11211" ]
  ttl: 1m
app:
  message-timeout: 3s
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func Test_OnMissingFile_ShouldUseDefaults(t *testing.T) {
	s, err := New(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, 5000, s.Webhook().Port())
	assert.Equal(t, "postgres", s.Storage().Driver())
	assert.Equal(t, 10, s.Auth().BcryptCost())
	assert.Equal(t, 10*time.Second, s.App().MessageTimeout())
	assert.Equal(t, "finances-bots", s.Tracing().ServiceName())
	assert.False(t, s.Memcached().Enabled())
}

func Test_OnYAMLFile_ShouldReadSections(t *testing.T) {
	s, err := New(writeConfig(t, sampleYAML))
	require.NoError(t, err)

	assert.Equal(t, "fin-from-file", s.Telegram().Financial.Token())
	assert.Equal(t, "rep-from-file", s.Telegram().Report.Token())
	assert.Equal(t, "https://bots.example.com", s.Webhook().PublicURL())
	assert.Equal(t, "sqlite", s.Storage().Driver())
	assert.Equal(t, "bots.db", s.Storage().DSN())
	assert.Equal(t, []string{"localhost:11211"}, s.Memcached().Hosts())
	assert.Equal(t, time.Minute, s.Memcached().TTL())
	assert.Equal(t, 3*time.Second, s.App().MessageTimeout())
	assert.NoError(t, s.Validate())
}

func Test_OnEnvironment_ShouldOverrideFile(t *testing.T) {
	t.Setenv("FINANCIAL_TOKEN", "fin-from-env")
	t.Setenv("PORT", "8081")
	t.Setenv("RENDER_URL", "https://render.example.com")
	t.Setenv("MEMCACHED_HOSTS", "a:11211, b:11211,")
	t.Setenv("TRACING_ENABLED", "true")
	t.Setenv("MESSAGE_TIMEOUT", "30s")

	s, err := New(writeConfig(t, sampleYAML))
	require.NoError(t, err)

	assert.Equal(t, "fin-from-env", s.Telegram().Financial.Token())
	assert.Equal(t, "rep-from-file", s.Telegram().Report.Token())
	assert.Equal(t, ":8081", s.Webhook().Addr())
	assert.Equal(t, "https://render.example.com", s.Webhook().PublicURL())
	assert.Equal(t, []string{"a:11211", "b:11211"}, s.Memcached().Hosts())
	assert.True(t, s.Tracing().Enabled())
	assert.Equal(t, 30*time.Second, s.App().MessageTimeout())
}

func Test_OnPublicURL_ShouldWinOverRenderURL(t *testing.T) {
	t.Setenv("RENDER_URL", "https://render.example.com")
	t.Setenv("PUBLIC_URL", "https://public.example.com")

	s, err := New(writeConfig(t, sampleYAML))
	require.NoError(t, err)

	assert.Equal(t, "https://public.example.com", s.Webhook().PublicURL())
}

func Test_OnBadEnvValue_ShouldFail(t *testing.T) {
	t.Setenv("PORT", "eighty")

	_, err := New(writeConfig(t, sampleYAML))
	assert.Error(t, err)
}

func Test_OnValidate_ShouldRequireTokensAndDSN(t *testing.T) {
	s, err := New(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Error(t, s.Validate())

	s.config.Telegram.Financial.APIToken = "fin"
	s.config.Telegram.Report.APIToken = "rep"
	assert.Error(t, s.Validate())

	s.config.Storage.DriverName = "memory"
	assert.NoError(t, s.Validate())

	s.config.Storage.DriverName = "mongo"
	assert.Error(t, s.Validate())
}
