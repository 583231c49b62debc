package config

import (
	"os"
	"path/filepath"
	"strings"

	"git.home.luguber.info/inful/jekyll-studio/internal/runner"
	"git.home.luguber.info/inful/jekyll-studio/internal/updatecheck"
)

const (
	DefaultBaseURL = "http://localhost:3000/api"
	DefaultTimeout = "120s"

	EnvAPIURL    = "JEKYLL_STUDIO_API_URL"
	EnvAPIKey    = "JEKYLL_STUDIO_API_KEY"
	EnvBuildTool = "JEKYLL_STUDIO_BUILD_TOOL"
)

func applyDefaults(cfg *Config) {
	if cfg.Backend.BaseURL == "" {
		cfg.Backend.BaseURL = DefaultBaseURL
	}
	if cfg.Backend.Timeout == "" {
		cfg.Backend.Timeout = DefaultTimeout
	}
	if cfg.Output.Directory == "" {
		cfg.Output.Directory = "."
	}
	if cfg.Build.Tool == "" {
		cfg.Build.Tool = string(runner.ToolDocker)
	}
	cfg.Build.Tool = strings.ToLower(strings.TrimSpace(cfg.Build.Tool))
	if cfg.Build.Image == "" {
		cfg.Build.Image = runner.DefaultImage
	}
	if cfg.Build.Port == 0 {
		cfg.Build.Port = runner.DefaultPort
	}
	if cfg.UpdateCheck.URL == "" {
		cfg.UpdateCheck.URL = updatecheck.DefaultURL
	}
	if cfg.DataDir == "" {
		cfg.DataDir = defaultDataDir()
	}
}

func defaultDataDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "jekyll-studio")
	}
	return ".jekyll-studio"
}

// applyEnvOverrides lets JEKYLL_STUDIO_* variables win over the file.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv(EnvAPIURL); v != "" {
		cfg.Backend.BaseURL = v
	}
	if v := os.Getenv(EnvAPIKey); v != "" {
		cfg.Backend.APIKey = v
	}
	if v := os.Getenv(EnvBuildTool); v != "" {
		cfg.Build.Tool = strings.ToLower(strings.TrimSpace(v))
	}
}
