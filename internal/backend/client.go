// Package backend talks to the AI service that designs sites and writes posts.
package backend

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/jonboulle/clockwork"

	serrors "git.home.luguber.info/inful/jekyll-studio/internal/errors"
	"git.home.luguber.info/inful/jekyll-studio/internal/logfields"
	"git.home.luguber.info/inful/jekyll-studio/internal/metrics"
	"git.home.luguber.info/inful/jekyll-studio/internal/retry"
)

const (
	maxResponseBytes = 10 * 1024 * 1024
	defaultTimeout   = 120 * time.Second

	EndpointStructure = "sites/structure"
	EndpointPost      = "posts/generate"
)

// Options configures a Client. Zero values fall back to defaults.
type Options struct {
	APIKey     string
	Timeout    time.Duration
	Policy     retry.Policy
	HTTPClient *http.Client
	Clock      clockwork.Clock
	Recorder   metrics.Recorder
	Logger     *slog.Logger
}

// Client is an HTTP/JSON client for the AI backend.
type Client struct {
	base     *url.URL
	apiKey   string
	http     *http.Client
	policy   retry.Policy
	clock    clockwork.Clock
	recorder metrics.Recorder
	logger   *slog.Logger
}

// NewHTTPClient creates an HTTP client that refuses cross-host redirects.
func NewHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &http.Client{
		Timeout: timeout,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) == 0 {
				return nil
			}
			if req.URL.Host != via[0].URL.Host {
				return errors.New("redirect to different host blocked")
			}
			if len(via) >= 5 {
				return errors.New("too many redirects")
			}
			return nil
		},
	}
}

// New validates baseURL and builds a Client.
func New(baseURL string, opts Options) (*Client, error) {
	parsed, err := url.Parse(strings.TrimSpace(baseURL))
	if err != nil {
		return nil, serrors.Wrap(err, serrors.CategoryConfig, serrors.SeverityFatal, "invalid backend URL").
			WithContext("url", baseURL)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, serrors.New(serrors.CategoryConfig, serrors.SeverityFatal, "backend URL must use http or https").
			WithContext("url", baseURL)
	}

	c := &Client{
		base:     parsed,
		apiKey:   opts.APIKey,
		http:     opts.HTTPClient,
		policy:   opts.Policy,
		clock:    opts.Clock,
		recorder: opts.Recorder,
		logger:   opts.Logger,
	}
	if c.http == nil {
		c.http = NewHTTPClient(opts.Timeout)
	}
	if c.policy.Validate() != nil {
		c.policy = retry.DefaultPolicy()
	}
	if c.clock == nil {
		c.clock = clockwork.NewRealClock()
	}
	if c.recorder == nil {
		c.recorder = metrics.NoopRecorder{}
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	return c, nil
}

func (c *Client) endpoint(name string) string {
	u := *c.base
	u.Path = strings.TrimSuffix(u.Path, "/") + "/" + name
	return u.String()
}

// errorBody is the backend's error envelope.
type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// postJSON sends payload to the endpoint, retrying transport failures and
// 5xx responses according to the policy. 4xx responses are final.
func (c *Client) postJSON(ctx context.Context, endpoint string, payload any) ([]byte, error) {
	target := c.endpoint(endpoint)
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, serrors.InternalError("encode backend request", err)
	}

	start := c.clock.Now()
	var data []byte
	err = c.policy.Do(ctx, c.clock, func(attempt int) error {
		var attemptErr error
		data, attemptErr = c.send(ctx, target, body)
		if attemptErr != nil {
			c.logger.Debug("Backend request failed",
				logfields.URL(target), logfields.Attempt(attempt), logfields.Error(attemptErr))
		}
		return attemptErr
	}, func(attempt int, err error) {
		c.recorder.IncBackendRetry(endpoint)
		c.logger.Warn("Retrying backend request",
			logfields.URL(target), logfields.Attempt(attempt), logfields.Error(err))
	})
	c.recorder.ObserveBackendRequest(endpoint, c.clock.Since(start), err == nil)
	if err != nil {
		if _, ok := serrors.As(err); !ok {
			err = serrors.BackendRequest(target, err)
		}
		return nil, err
	}
	return data, nil
}

func (c *Client) send(ctx context.Context, target string, body []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, bytes.NewReader(body))
	if err != nil {
		return nil, serrors.BackendRequest(target, fmt.Errorf("build request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, serrors.BackendUnavailable(target, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	limited := io.LimitReader(resp.Body, maxResponseBytes+1)
	data, err := io.ReadAll(limited)
	if err != nil {
		return nil, serrors.BackendUnavailable(target, fmt.Errorf("read response: %w", err))
	}
	if len(data) > maxResponseBytes {
		return nil, serrors.BackendRequest(target, errors.New("response too large"))
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		statusErr := fmt.Errorf("HTTP %d: %s", resp.StatusCode, backendMessage(data, resp.Status))
		if resp.StatusCode >= 500 {
			return nil, serrors.BackendUnavailable(target, statusErr).WithContext("status", resp.StatusCode)
		}
		return nil, serrors.BackendRequest(target, statusErr).WithContext("status", resp.StatusCode)
	}
	return data, nil
}

func backendMessage(data []byte, fallback string) string {
	var eb errorBody
	if err := json.Unmarshal(data, &eb); err == nil {
		if eb.Error != "" {
			return eb.Error
		}
		if eb.Message != "" {
			return eb.Message
		}
	}
	return fallback
}
