package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"), "")
	require.NoError(t, err)

	assert.Equal(t, "data/raw_jobs.json", cfg.Storage.RawPath)
	assert.Equal(t, "data/cleaned_jobs.csv", cfg.Storage.CleanedPath)
	assert.Equal(t, []string{"remoteok", "arbeitnow"}, cfg.Sources.Enabled)
	assert.Equal(t, "Mozilla/5.0", cfg.Sources.UserAgent)
	assert.Equal(t, time.Second, cfg.Sources.RequestDelay)
	assert.Equal(t, 1, cfg.Sources.ArbeitnowMaxPages)
	assert.Empty(t, cfg.Redis.Addr)
	assert.Empty(t, cfg.Elasticsearch.Addresses)
	assert.Equal(t, "Asia/Kolkata", cfg.Stamp.Timezone)
}

func TestLoadYAMLThenEnv(t *testing.T) {
	dir := t.TempDir()
	yml := filepath.Join(dir, "config.yml")
	require.NoError(t, os.WriteFile(yml, []byte(`
storage:
  raw_path: /tmp/raw.json
sources:
  enabled: [arbeitnow]
  timeout: 5s
  arbeitnow_max_pages: 3
redis:
  addr: localhost:6379
elasticsearch:
  addresses: ["http://es:9200"]
`), 0o644))

	env := filepath.Join(dir, "test.env")
	require.NoError(t, os.WriteFile(env, []byte("JOBS_CLEANED_PATH=/tmp/cleaned.csv\n"), 0o644))

	t.Setenv("ARBEITNOW_MAX_PAGES", "7")
	t.Setenv("CRAWLER_DELAY_MS", "250")
	t.Setenv("ELASTICSEARCH_URL", "http://a:9200, http://b:9200")
	t.Cleanup(func() { os.Unsetenv("JOBS_CLEANED_PATH") })

	cfg, err := Load(env, yml)
	require.NoError(t, err)

	assert.Equal(t, "/tmp/raw.json", cfg.Storage.RawPath)
	assert.Equal(t, "/tmp/cleaned.csv", cfg.Storage.CleanedPath)
	assert.Equal(t, []string{"arbeitnow"}, cfg.Sources.Enabled)
	assert.Equal(t, 5*time.Second, cfg.Sources.Timeout)
	assert.Equal(t, 7, cfg.Sources.ArbeitnowMaxPages)
	assert.Equal(t, 250*time.Millisecond, cfg.Sources.RequestDelay)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, []string{"http://a:9200", "http://b:9200"}, cfg.Elasticsearch.Addresses)
	assert.Equal(t, "Mozilla/5.0", cfg.Sources.UserAgent)
}

func TestLoadMissingConfigFile(t *testing.T) {
	_, err := Load("", filepath.Join(t.TempDir(), "nope.yml"))
	assert.Error(t, err)
}

func TestValidateCollectsAllErrors(t *testing.T) {
	cfg := Default()
	cfg.Storage.RawPath = ""
	cfg.Sources.Enabled = []string{"linkedin"}
	cfg.Sources.ArbeitnowMaxPages = 0
	cfg.Log.Format = "xml"

	err := cfg.Validate()
	require.Error(t, err)
	for _, want := range []string{"raw_path", "linkedin", "arbeitnow_max_pages", "log.format"} {
		assert.Contains(t, err.Error(), want)
	}

	assert.NoError(t, Default().Validate())
}
