// Package config loads woql client settings from YAML and the environment.
package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"gopkg.in/yaml.v3"
)

//go:embed schema.cue
var schemaCUE string

// Environment variables that override file settings.
const (
	EnvServer   = "WOQL_SERVER"
	EnvDatabase = "WOQL_DATABASE"
	EnvKey      = "WOQL_KEY"
)

// Defaults applied after loading.
const (
	DefaultTimeout        = 30 * time.Second
	DefaultVocabCacheSize = 64
)

// Config holds connection and local-state settings.
type Config struct {
	// Server is the server root URL.
	Server string `yaml:"server"`

	// Database names the database under Server.
	Database string `yaml:"database"`

	// Key is the API key. Prefer KeyEnv so keys stay out of files.
	Key string `yaml:"key,omitempty"`

	// KeyEnv names an environment variable holding the API key.
	KeyEnv string `yaml:"key_env,omitempty"`

	// Timeout is a Go duration string such as "30s".
	Timeout string `yaml:"timeout,omitempty"`

	// Store is the SQLite path for vocabularies and history.
	Store string `yaml:"store,omitempty"`

	// VocabCacheSize bounds the in-memory vocabulary cache.
	VocabCacheSize int `yaml:"vocab_cache_size,omitempty"`

	timeout time.Duration
}

// Load reads path (when non-empty), applies environment overrides and
// defaults, and validates the result.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if cfg, err = Parse(data); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	cfg.applyEnv()
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse decodes YAML, rejecting unknown fields. It applies neither
// environment overrides nor defaults.
func Parse(data []byte) (*Config, error) {
	cfg := &Config{}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v, ok := os.LookupEnv(EnvServer); ok && v != "" {
		c.Server = v
	}
	if v, ok := os.LookupEnv(EnvDatabase); ok && v != "" {
		c.Database = v
	}
	if v, ok := os.LookupEnv(EnvKey); ok && v != "" {
		c.Key = v
	} else if c.Key == "" && c.KeyEnv != "" {
		c.Key = os.Getenv(c.KeyEnv)
	}
}

func (c *Config) applyDefaults() {
	c.Server = strings.TrimSuffix(c.Server, "/")
	c.Database = strings.Trim(c.Database, "/")
	if c.Timeout == "" {
		c.Timeout = DefaultTimeout.String()
	}
	if c.VocabCacheSize == 0 {
		c.VocabCacheSize = DefaultVocabCacheSize
	}
	if c.Store == "" {
		c.Store = DefaultStorePath()
	}
}

// Validate checks c against the embedded CUE schema.
func (c *Config) Validate() error {
	ctx := cuecontext.New()
	schema := ctx.CompileString(schemaCUE, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return fmt.Errorf("compile config schema: %w", err)
	}
	def := schema.LookupPath(cue.ParsePath("#Config"))

	value := ctx.Encode(c.fields())
	if err := value.Err(); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := def.Unify(value).Validate(cue.Concrete(true)); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return fmt.Errorf("invalid config: timeout: %w", err)
	}
	if d <= 0 {
		return fmt.Errorf("invalid config: timeout must be positive, got %s", c.Timeout)
	}
	c.timeout = d
	return nil
}

// fields returns the set fields keyed by their YAML names.
func (c *Config) fields() map[string]any {
	m := map[string]any{
		"server":   c.Server,
		"database": c.Database,
	}
	if c.Key != "" {
		m["key"] = c.Key
	}
	if c.KeyEnv != "" {
		m["key_env"] = c.KeyEnv
	}
	if c.Timeout != "" {
		m["timeout"] = c.Timeout
	}
	if c.Store != "" {
		m["store"] = c.Store
	}
	if c.VocabCacheSize != 0 {
		m["vocab_cache_size"] = c.VocabCacheSize
	}
	return m
}

// BaseURL returns server + "/" + database.
func (c *Config) BaseURL() string {
	return c.Server + "/" + c.Database
}

// RequestTimeout returns the parsed timeout, or DefaultTimeout before
// Validate has run.
func (c *Config) RequestTimeout() time.Duration {
	if c.timeout <= 0 {
		return DefaultTimeout
	}
	return c.timeout
}

// DefaultStorePath is woql/woql.db under the user cache directory, or
// woql.db in the working directory when there is none.
func DefaultStorePath() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return "woql.db"
	}
	return filepath.Join(dir, "woql", "woql.db")
}
