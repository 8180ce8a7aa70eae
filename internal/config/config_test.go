package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv unsets the override variables for the duration of the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{EnvServer, EnvDatabase, EnvKey} {
		t.Setenv(name, "")
	}
}

func TestLoad_File(t *testing.T) {
	clearEnv(t)
	t.Setenv("REPORTS_KEY", "from-env")

	cfg, err := Load("testdata/valid.yaml")
	require.NoError(t, err)

	assert.Equal(t, "https://db.example.com:6363", cfg.Server)
	assert.Equal(t, "reports", cfg.Database)
	assert.Equal(t, "https://db.example.com:6363/reports", cfg.BaseURL())
	assert.Equal(t, "from-env", cfg.Key)
	assert.Equal(t, 5*time.Second, cfg.RequestTimeout())
	assert.Equal(t, "/tmp/woql-test.db", cfg.Store)
	assert.Equal(t, 16, cfg.VocabCacheSize)
}

func TestLoad_RejectsUnknownFields(t *testing.T) {
	clearEnv(t)

	_, err := Load("testdata/unknown_field.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "databse")
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoad_EnvOnly(t *testing.T) {
	t.Setenv(EnvServer, "http://localhost:6363")
	t.Setenv(EnvDatabase, "db1")
	t.Setenv(EnvKey, "root")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:6363/db1", cfg.BaseURL())
	assert.Equal(t, "root", cfg.Key)
	assert.Equal(t, DefaultTimeout, cfg.RequestTimeout())
	assert.Equal(t, DefaultVocabCacheSize, cfg.VocabCacheSize)
	assert.NotEmpty(t, cfg.Store)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvDatabase, "other")
	t.Setenv(EnvKey, "explicit")
	t.Setenv("REPORTS_KEY", "ignored")

	cfg, err := Load("testdata/valid.yaml")
	require.NoError(t, err)
	assert.Equal(t, "other", cfg.Database)
	assert.Equal(t, "explicit", cfg.Key)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Server:         "https://host",
			Database:       "db1",
			Timeout:        "10s",
			VocabCacheSize: 8,
		}
	}

	tests := []struct {
		name   string
		mutate func(c *Config)
		ok     bool
	}{
		{"valid", func(c *Config) {}, true},
		{"missing server", func(c *Config) { c.Server = "" }, false},
		{"server without scheme", func(c *Config) { c.Server = "host:6363" }, false},
		{"missing database", func(c *Config) { c.Database = "" }, false},
		{"bad timeout", func(c *Config) { c.Timeout = "soon" }, false},
		{"zero timeout", func(c *Config) { c.Timeout = "0s" }, false},
		{"cache too large", func(c *Config) { c.VocabCacheSize = 100000 }, false},
		{"negative cache", func(c *Config) { c.VocabCacheSize = -1 }, false},
		{"bad key_env", func(c *Config) { c.KeyEnv = "not a var" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(c)
			err := c.Validate()
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestParse_Empty(t *testing.T) {
	cfg, err := Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, &Config{}, cfg)
}
