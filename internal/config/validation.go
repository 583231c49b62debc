package config

import (
	"fmt"
	"net/url"
	"time"

	serrors "git.home.luguber.info/inful/jekyll-studio/internal/errors"
	"git.home.luguber.info/inful/jekyll-studio/internal/retry"
	"git.home.luguber.info/inful/jekyll-studio/internal/runner"
)

// Validate checks a defaulted configuration.
func Validate(cfg *Config) error {
	u, err := url.Parse(cfg.Backend.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return serrors.ConfigInvalid("backend.base_url", fmt.Sprintf("%q is not an http(s) URL", cfg.Backend.BaseURL))
	}
	durations := []struct{ field, value string }{
		{"backend.timeout", cfg.Backend.Timeout},
		{"backend.retry_initial_delay", cfg.Backend.RetryInitialDelay},
		{"backend.retry_max_delay", cfg.Backend.RetryMaxDelay},
	}
	for _, d := range durations {
		if d.value == "" {
			continue
		}
		if v, err := time.ParseDuration(d.value); err != nil || v < 0 {
			return serrors.ConfigInvalid(d.field, fmt.Sprintf("%q is not a duration", d.value))
		}
	}
	if cfg.Backend.Retries != nil && *cfg.Backend.Retries < 0 {
		return serrors.ConfigInvalid("backend.retries", "must not be negative")
	}
	switch retry.BackoffMode(cfg.Backend.RetryBackoff) {
	case "", retry.BackoffFixed, retry.BackoffLinear, retry.BackoffExponential:
	default:
		return serrors.ConfigInvalid("backend.retry_backoff", "must be fixed, linear or exponential")
	}
	switch runner.Tool(cfg.Build.Tool) {
	case runner.ToolDocker, runner.ToolLocal:
	default:
		return serrors.ConfigInvalid("build.tool", "must be docker or local")
	}
	if cfg.Build.Port < 1 || cfg.Build.Port > 65535 {
		return serrors.ConfigInvalid("build.port", fmt.Sprintf("%d is out of range", cfg.Build.Port))
	}
	return nil
}
