// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/orcid-bib/internal/cache"
	"github.com/pdiddy/orcid-bib/pkg/types"
)

// isolate runs the test in an empty directory with an empty home so no
// stray config file is picked up.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("HOME", t.TempDir())
	return dir
}

func parseRoot(t *testing.T, args ...string) types.FetchConfig {
	t.Helper()
	cmd := newRootCmd()
	require.NoError(t, cmd.ParseFlags(args))
	cfg, _, err := loadConfig(cmd)
	require.NoError(t, err)
	return cfg
}

func TestLoadConfig_Defaults(t *testing.T) {
	isolate(t)
	cfg := parseRoot(t)

	assert.Equal(t, types.DefaultORCIDID, cfg.ORCIDID)
	assert.Equal(t, types.DefaultBaseURL, cfg.BaseURL)
	assert.Equal(t, types.DefaultOutputPath, cfg.OutputPath)
	assert.Equal(t, types.DefaultCachePath, cfg.CachePath)
	assert.Equal(t, types.DefaultMaxAge, cfg.MaxAge)
	assert.Equal(t, types.DefaultTimeout, cfg.Timeout)
	assert.Equal(t, types.DefaultRateLimit, cfg.RateLimit)
	assert.Equal(t, types.DefaultUserAgent, cfg.UserAgent)
	assert.Zero(t, cfg.MaxRetries)
	assert.False(t, cfg.Force)
	assert.Empty(t, cfg.CSLOutputPath)
	assert.Empty(t, cfg.AccessToken)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "console", cfg.Logging.Format)
}

func TestLoadConfig_ConfigFile(t *testing.T) {
	dir := isolate(t)
	yaml := `orcid_id: 0000-0002-1825-0097
output: out/refs.bib
max_age: 2h
timeout: 5s
max_retries: 3
log:
  level: debug
  format: json
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "orcid-bib.yaml"), []byte(yaml), 0o644))

	cmd := newRootCmd()
	require.NoError(t, cmd.ParseFlags(nil))
	cfg, used, err := loadConfig(cmd)
	require.NoError(t, err)

	assert.Equal(t, "orcid-bib.yaml", filepath.Base(used))
	assert.Equal(t, "0000-0002-1825-0097", cfg.ORCIDID)
	assert.Equal(t, "out/refs.bib", cfg.OutputPath)
	assert.Equal(t, 2*time.Hour, cfg.MaxAge)
	assert.Equal(t, 5*time.Second, cfg.Timeout)
	assert.Equal(t, 3, cfg.MaxRetries)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, types.DefaultCachePath, cfg.CachePath)
}

func TestLoadConfig_Precedence(t *testing.T) {
	dir := isolate(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "custom.yaml"),
		[]byte("orcid_id: from-file\noutput: file.bib\ncache_file: file.json\n"), 0o644))
	t.Setenv("ORCID_BIB_OUTPUT", "env.bib")
	t.Setenv("ORCID_BIB_CACHE_FILE", "env.json")
	t.Setenv("ORCID_BIB_LOG_LEVEL", "warn")

	cfg := parseRoot(t, "--config", filepath.Join(dir, "custom.yaml"), "--cache-file", "flag.json", "--force")

	assert.Equal(t, "from-file", cfg.ORCIDID)
	assert.Equal(t, "env.bib", cfg.OutputPath)
	assert.Equal(t, "flag.json", cfg.CachePath)
	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.True(t, cfg.Force)
}

func TestLoadConfig_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		env  map[string]string
		want string
	}{
		{
			name: "missing explicit config file",
			args: []string{"--config", "nope.yaml"},
			want: "reading config file",
		},
		{
			name: "empty orcid",
			args: []string{"--orcid", " "},
			want: "orcid_id",
		},
		{
			name: "negative max age",
			args: []string{"--max-age=-1h"},
			want: "max_age",
		},
		{
			name: "negative retries",
			env:  map[string]string{"ORCID_BIB_MAX_RETRIES": "-2"},
			want: "max_retries",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			cmd := newRootCmd()
			require.NoError(t, cmd.ParseFlags(tt.args))
			_, _, err := loadConfig(cmd)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestCacheStatus(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "cache.json")

	out, err := execute(t, "cache", "status", "--cache-file", path)
	require.NoError(t, err)
	assert.Contains(t, out, "no cache record")

	require.NoError(t, cache.Save(path, time.Now().Add(-time.Hour)))
	out, err = execute(t, "cache", "status", "--cache-file", path)
	require.NoError(t, err)
	assert.Contains(t, out, "fresh")

	out, err = execute(t, "cache", "status", "--cache-file", path, "--max-age", "30m")
	require.NoError(t, err)
	assert.Contains(t, out, "stale")

	require.NoError(t, os.WriteFile(path, []byte("garbage"), 0o644))
	out, err = execute(t, "cache", "status", "--cache-file", path)
	require.NoError(t, err)
	assert.Contains(t, out, "unreadable")
}

func TestCacheClear(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "cache.json")
	require.NoError(t, cache.Save(path, time.Now()))

	_, err := execute(t, "cache", "clear", "--cache-file", path)
	require.NoError(t, err)
	assert.NoFileExists(t, path)

	_, err = execute(t, "cache", "clear", "--cache-file", path)
	require.NoError(t, err)
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "orcid-bib dev\n", out)
}

func TestSecretDefault(t *testing.T) {
	s := map[string]string{"orcid-access-token": "from-file"}
	assert.Equal(t, "from-env", secretDefault(s, "orcid-access-token", "from-env"))
	assert.Equal(t, "from-file", secretDefault(s, "orcid-access-token", ""))
	assert.Empty(t, secretDefault(s, "missing", ""))
}
