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
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_DefaultsWithDSNFromEnv(t *testing.T) {
	t.Setenv("INKWELL_DATABASE__DSN", "postgres://localhost/blog")

	cfg, err := Load("")
	require.NoError(t, err)

	want := Default()
	want.Database.DSN = "postgres://localhost/blog"
	assert.Equal(t, want, cfg)
}

func TestLoad_FileThenEnv(t *testing.T) {
	path := writeFile(t, "inkwell.yaml", `
server:
  addr: ":9000"
  read_timeout: 3s
database:
  dsn: postgres://file/blog
  max_open_conns: 5
templates:
  dir: themes/plain
  cache: false
site:
  timezone: Asia/Tokyo
  label_max_depth: 2
`)
	t.Setenv("INKWELL_SERVER__READ_TIMEOUT", "7s")
	t.Setenv("INKWELL_LOG__LEVEL", "debug")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.Server.Addr)
	assert.Equal(t, 7*time.Second, cfg.Server.ReadTimeout, "env overrides file")
	assert.Equal(t, 30*time.Second, cfg.Server.WriteTimeout, "unset keys keep defaults")
	assert.Equal(t, "postgres://file/blog", cfg.Database.DSN)
	assert.Equal(t, 5, cfg.Database.MaxOpenConns)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "themes/plain", cfg.Templates.Dir)
	assert.False(t, cfg.Templates.Cache)
	assert.Equal(t, 2, cfg.Site.LabelMaxDepth)
	assert.Equal(t, "Asia/Tokyo", cfg.Site.Location().String())
}

func TestLoad_Errors(t *testing.T) {
	t.Run("missing dsn", func(t *testing.T) {
		_, err := Load("")
		assert.ErrorContains(t, err, "database.dsn is required")
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
		assert.ErrorContains(t, err, "load config file")
	})

	t.Run("malformed yaml", func(t *testing.T) {
		_, err := Load(writeFile(t, "bad.yaml", "server: [unterminated"))
		assert.Error(t, err)
	})
}

func TestApplyFallbacks(t *testing.T) {
	cfg := Default()
	cfg.Database.DSN = "postgres://localhost/blog"
	cfg.Server.ReadTimeout = 0
	cfg.Log.Format = "xml"
	cfg.Site.Timezone = "Mars/Olympus"
	cfg.Site.LabelMaxDepth = 0
	cfg.Tracing.SampleRatio = 2

	fallbacks := cfg.ApplyFallbacks()

	var fields []string
	for _, f := range fallbacks {
		fields = append(fields, f.Field)
		assert.Contains(t, f.String(), "using default")
	}
	assert.Equal(t, []string{
		"server.read_timeout", "log.format", "site.timezone", "site.label_max_depth", "tracing.sample_ratio",
	}, fields)

	def := Default()
	assert.Equal(t, def.Server.ReadTimeout, cfg.Server.ReadTimeout)
	assert.Equal(t, def.Log.Format, cfg.Log.Format)
	assert.Equal(t, def.Site.Timezone, cfg.Site.Timezone)
	assert.Equal(t, def.Site.LabelMaxDepth, cfg.Site.LabelMaxDepth)
	assert.Equal(t, def.Tracing.SampleRatio, cfg.Tracing.SampleRatio)
}

func TestApplyFallbacks_ValidConfigUntouched(t *testing.T) {
	cfg := Default()
	assert.Empty(t, cfg.ApplyFallbacks())
	assert.Equal(t, Default(), cfg)
}

func TestLoadDotEnv(t *testing.T) {
	assert.NoError(t, LoadDotEnv(filepath.Join(t.TempDir(), ".env")), "missing file is ignored")

	t.Setenv("INKWELL_LOG__FORMAT", "json")
	path := writeFile(t, ".env", "INKWELL_LOG__FORMAT=text\nINKWELL_TEST_DOTENV_ONLY=1\n")
	t.Cleanup(func() { _ = os.Unsetenv("INKWELL_TEST_DOTENV_ONLY") })

	require.NoError(t, LoadDotEnv(path))
	assert.Equal(t, "json", os.Getenv("INKWELL_LOG__FORMAT"), "existing variables win")
	assert.Equal(t, "1", os.Getenv("INKWELL_TEST_DOTENV_ONLY"))
}

func TestEnvKey(t *testing.T) {
	assert.Equal(t, "server.read_timeout", envKey("INKWELL_SERVER__READ_TIMEOUT"))
	assert.Equal(t, "database.dsn", envKey("INKWELL_DATABASE__DSN"))
}
