// Package config loads jekyll-studio.yaml, the optional .env files next to
// it, and the JEKYLL_STUDIO_* environment overrides.
package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	serrors "git.home.luguber.info/inful/jekyll-studio/internal/errors"
	"git.home.luguber.info/inful/jekyll-studio/internal/retry"
	"git.home.luguber.info/inful/jekyll-studio/internal/updatecheck"
)

// DefaultFileName is looked up in the working directory when --config is not given.
const DefaultFileName = "jekyll-studio.yaml"

// Config is the complete jekyll-studio configuration.
type Config struct {
	Backend     BackendConfig     `yaml:"backend"`
	Output      OutputConfig      `yaml:"output"`
	Build       BuildConfig       `yaml:"build"`
	UpdateCheck UpdateCheckConfig `yaml:"update_check"`
	DataDir     string            `yaml:"data_dir"`     // registry and update-check state
	MetricsFile string            `yaml:"metrics_file"` // Prometheus textfile written after each command
}

// BackendConfig configures the AI backend client.
type BackendConfig struct {
	BaseURL           string `yaml:"base_url"`
	APIKey            string `yaml:"api_key"`
	Timeout           string `yaml:"timeout"`
	Retries           *int   `yaml:"retries"`
	RetryBackoff      string `yaml:"retry_backoff"`
	RetryInitialDelay string `yaml:"retry_initial_delay"`
	RetryMaxDelay     string `yaml:"retry_max_delay"`
}

// OutputConfig controls where and how sites are materialized.
type OutputConfig struct {
	Directory string `yaml:"directory"` // parent directory for new sites
	Atomic    bool   `yaml:"atomic"`    // stage into a sibling directory and swap
	GitInit   bool   `yaml:"git_init"`  // commit the new tree to a fresh repository
}

// BuildConfig configures the Jekyll runner.
type BuildConfig struct {
	Tool      string `yaml:"tool"` // docker|local
	Image     string `yaml:"image"`
	Port      int    `yaml:"port"`
	ExtraArgs string `yaml:"extra_args"` // shell-quoted
}

// UpdateCheckConfig controls the daily release check.
type UpdateCheckConfig struct {
	Enabled *bool  `yaml:"enabled"`
	URL     string `yaml:"url"`
}

// Load reads configuration from path. An empty path means DefaultFileName,
// which may be absent; an explicitly named file must exist. The .env files
// are read from the directory holding the configuration file.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultFileName
	}
	loadEnvFiles(filepath.Dir(path))

	var cfg Config
	// #nosec G304 -- path is the user-selected configuration file
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		expanded := os.ExpandEnv(string(data))
		if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
			return nil, serrors.Wrap(err, serrors.CategoryConfig, serrors.SeverityFatal, "failed to parse configuration").
				WithContext("path", path)
		}
	case errors.Is(err, fs.ErrNotExist) && !explicit:
	case errors.Is(err, fs.ErrNotExist):
		return nil, serrors.ConfigNotFound(path)
	default:
		return nil, serrors.Wrap(err, serrors.CategoryConfig, serrors.SeverityFatal, "failed to read configuration").
			WithContext("path", path)
	}

	applyDefaults(&cfg)
	applyEnvOverrides(&cfg)
	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// TimeoutDuration returns the parsed request timeout.
func (b BackendConfig) TimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(b.Timeout)
	return d
}

// RetryPolicy builds the backend retry policy. Unset fields keep the
// policy defaults.
func (b BackendConfig) RetryPolicy() retry.Policy {
	retries := -1
	if b.Retries != nil {
		retries = *b.Retries
	}
	initial, _ := time.ParseDuration(b.RetryInitialDelay)
	maxDelay, _ := time.ParseDuration(b.RetryMaxDelay)
	return retry.NewPolicy(retry.BackoffMode(b.RetryBackoff), initial, maxDelay, retries)
}

// UpdateCheckEnabled reports whether the release check should run.
func (c *Config) UpdateCheckEnabled() bool {
	return c.UpdateCheck.Enabled == nil || *c.UpdateCheck.Enabled
}

// UpdateStatePath is where the update checker records its last run.
func (c *Config) UpdateStatePath() string {
	return filepath.Join(c.DataDir, updatecheck.StateFile)
}
