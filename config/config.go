// Package config loads client settings from a YAML file, a dotenv file and
// the process environment.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/fwojciec/wenyan"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultBaseURL is the backend address used when none is configured.
const DefaultBaseURL = "http://127.0.0.1:8000"

// Environment variables that override the config file.
const (
	EnvBaseURL     = "WENYAN_BASE_URL"
	EnvToken       = "WENYAN_TOKEN"
	EnvDeep        = "WENYAN_DEEP"
	EnvSearch      = "WENYAN_SEARCH_TARGET"
	EnvLogFile     = "WENYAN_LOG_FILE"
	EnvLogLevel    = "WENYAN_LOG_LEVEL"
	EnvIdleTimeout = "WENYAN_IDLE_TIMEOUT"
)

// Config holds the client settings.
type Config struct {
	BaseURL      string              `yaml:"base_url"`
	Token        string              `yaml:"token,omitempty"`
	DeepThinking bool                `yaml:"deep_thinking"`
	SearchTarget wenyan.SearchTarget `yaml:"search_target"`
	LogFile      string              `yaml:"log_file,omitempty"`
	LogLevel     string              `yaml:"log_level,omitempty"`
	// IdleTimeout aborts a stream that stays silent this long. Zero waits
	// forever.
	IdleTimeout time.Duration `yaml:"idle_timeout,omitempty"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		BaseURL:      DefaultBaseURL,
		SearchTarget: wenyan.SearchSentence,
		LogLevel:     "info",
	}
}

// DefaultPath returns the config file location under the user's config
// directory.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "wenyan", "config.yaml"), nil
}

// Validate checks the settings.
func (c Config) Validate() error {
	u, err := url.Parse(c.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("base url %q must be absolute: %w", c.BaseURL, wenyan.ErrValidation)
	}
	if !c.SearchTarget.Valid() {
		return fmt.Errorf("unknown search target %q: %w", c.SearchTarget, wenyan.ErrValidation)
	}
	if c.IdleTimeout < 0 {
		return fmt.Errorf("idle timeout must not be negative: %w", wenyan.ErrValidation)
	}
	return nil
}

// Option configures Load.
type Option func(*loader)

type loader struct {
	envFile string
	lookup  func(string) (string, bool)
}

// WithEnvFile reads variables from a dotenv file. A missing file is ignored.
// Process environment variables take precedence over the file.
func WithEnvFile(path string) Option {
	return func(l *loader) { l.envFile = path }
}

// WithLookupEnv replaces os.LookupEnv.
func WithLookupEnv(fn func(string) (string, bool)) Option {
	return func(l *loader) { l.lookup = fn }
}

// Load reads the config file at path on top of the defaults and applies
// environment overrides. A missing file is not an error.
func Load(path string, opts ...Option) (Config, error) {
	l := &loader{lookup: os.LookupEnv}
	for _, o := range opts {
		o(l)
	}

	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return Config{}, err
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return Config{}, fmt.Errorf("parse config file %s: %w", path, err)
			}
		}
	}

	env, err := l.env()
	if err != nil {
		return Config{}, err
	}
	if err := cfg.apply(env); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// env merges the dotenv file with the process environment.
func (l *loader) env() (func(string) (string, bool), error) {
	file := map[string]string{}
	if l.envFile != "" {
		vars, err := godotenv.Read(l.envFile)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("read env file %s: %w", l.envFile, err)
		default:
			file = vars
		}
	}
	return func(key string) (string, bool) {
		if v, ok := l.lookup(key); ok {
			return v, true
		}
		v, ok := file[key]
		return v, ok
	}, nil
}

func (c *Config) apply(env func(string) (string, bool)) error {
	if v, ok := env(EnvBaseURL); ok {
		c.BaseURL = v
	}
	if v, ok := env(EnvToken); ok {
		c.Token = v
	}
	if v, ok := env(EnvDeep); ok {
		deep, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvDeep, err)
		}
		c.DeepThinking = deep
	}
	if v, ok := env(EnvSearch); ok {
		c.SearchTarget = wenyan.SearchTarget(v)
	}
	if v, ok := env(EnvLogFile); ok {
		c.LogFile = v
	}
	if v, ok := env(EnvLogLevel); ok {
		c.LogLevel = v
	}
	if v, ok := env(EnvIdleTimeout); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvIdleTimeout, err)
		}
		c.IdleTimeout = d
	}
	return nil
}

// Save writes cfg to path, creating the directory. The file is readable
// only by the owner because it holds the session token.
func Save(path string, cfg Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}
