// Package updatecheck tells the user when a newer jekyll-studio release is
// available. Checks run at most once per Interval and never fail a command.
package updatecheck

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/jonboulle/clockwork"
	"golang.org/x/mod/semver"
)

const (
	// DefaultURL is the GitHub "latest release" endpoint.
	DefaultURL = "https://api.github.com/repos/inful/jekyll-studio/releases/latest"
	// Interval is the minimum time between two remote checks.
	Interval = 24 * time.Hour
	// StateFile is the name of the file recording the last check.
	StateFile = "update-check.json"
)

// Notice reports an available upgrade.
type Notice struct {
	Current string
	Latest  string
}

func (n Notice) String() string {
	return fmt.Sprintf("jekyll-studio %s is available (you have %s)", n.Latest, n.Current)
}

// Fetcher returns the latest released version tag.
type Fetcher interface {
	Latest(ctx context.Context) (string, error)
}

// Store remembers when the last check ran.
type Store interface {
	LastChecked() (time.Time, error)
	MarkChecked(t time.Time) error
}

// Checker compares Current against the latest release.
type Checker struct {
	Clock   clockwork.Clock
	Store   Store
	Fetcher Fetcher
	Current string
}

// Check returns a Notice when a newer release exists, or nil when the
// current version is up to date, unreleased, or was checked recently.
func (c *Checker) Check(ctx context.Context) (*Notice, error) {
	current := canonical(c.Current)
	if current == "" {
		return nil, nil
	}
	clock := c.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	now := clock.Now()

	if c.Store != nil {
		last, err := c.Store.LastChecked()
		if err != nil {
			return nil, err
		}
		if !last.IsZero() && now.Sub(last) < Interval {
			return nil, nil
		}
	}

	tag, err := c.Fetcher.Latest(ctx)
	if err != nil {
		return nil, err
	}
	if c.Store != nil {
		if err := c.Store.MarkChecked(now); err != nil {
			return nil, err
		}
	}

	latest := canonical(tag)
	if latest == "" || semver.Compare(latest, current) <= 0 {
		return nil, nil
	}
	return &Notice{Current: current, Latest: latest}, nil
}

// canonical returns v as a "vX.Y.Z" semver string, or "" if it is not one.
func canonical(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return ""
	}
	if !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	if !semver.IsValid(v) {
		return ""
	}
	return semver.Canonical(v)
}

// HTTPFetcher reads tag_name from a GitHub release document.
type HTTPFetcher struct {
	URL    string
	Client *http.Client
}

func (f *HTTPFetcher) Latest(ctx context.Context) (string, error) {
	client := f.Client
	if client == nil {
		client = &http.Client{Timeout: 5 * time.Second}
	}
	url := f.URL
	if url == "" {
		url = DefaultURL
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return "", err
	}
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := client.Do(req)
	if err != nil {
		return "", err
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("release lookup: unexpected status %d", resp.StatusCode)
	}

	var release struct {
		TagName string `json:"tag_name"`
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&release); err != nil {
		return "", fmt.Errorf("decode release: %w", err)
	}
	return release.TagName, nil
}

// FileStore keeps the last check time in a JSON file.
type FileStore struct {
	Path string
}

type fileState struct {
	LastChecked time.Time `json:"last_checked"`
}

func (s FileStore) LastChecked() (time.Time, error) {
	// #nosec G304 -- path comes from the configured data directory
	data, err := os.ReadFile(s.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, err
	}
	var st fileState
	if err := json.Unmarshal(data, &st); err != nil {
		// A corrupt state file only means we check again.
		return time.Time{}, nil
	}
	return st.LastChecked, nil
}

func (s FileStore) MarkChecked(t time.Time) error {
	data, err := json.Marshal(fileState{LastChecked: t.UTC()})
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.Path), 0o750); err != nil {
		return err
	}
	return os.WriteFile(s.Path, data, 0o600)
}
