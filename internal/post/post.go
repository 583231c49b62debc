// Package post adds a single AI-written post to an existing site, named with
// the same rule the materializer uses for posts created in bulk.
package post

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"

	"git.home.luguber.info/inful/jekyll-studio/internal/backend"
	serrors "git.home.luguber.info/inful/jekyll-studio/internal/errors"
	"git.home.luguber.info/inful/jekyll-studio/internal/frontmatter"
	"git.home.luguber.info/inful/jekyll-studio/internal/logfields"
	"git.home.luguber.info/inful/jekyll-studio/internal/naming"
)

const (
	postsDir   = "_posts"
	dateLayout = "2006-01-02"
)

// Generator writes post content for a prompt.
type Generator interface {
	GeneratePost(ctx context.Context, req backend.PostRequest) (*backend.PostResponse, error)
}

// Request describes the post to add. Title and Date are optional overrides.
type Request struct {
	Prompt string
	Title  string
	Date   string
	Force  bool
}

// Result describes the written post.
type Result struct {
	Path             string
	Title            string
	Date             string
	FrontMatterAdded bool
}

// Author adds posts to sites.
type Author struct {
	gen    Generator
	clock  clockwork.Clock
	logger *slog.Logger
}

// NewAuthor returns an Author. A nil clock uses the wall clock.
func NewAuthor(gen Generator, clock clockwork.Clock) *Author {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Author{gen: gen, clock: clock, logger: slog.Default()}
}

// Add generates a post and writes it to <siteDir>/_posts.
func (a *Author) Add(ctx context.Context, siteDir string, req Request) (*Result, error) {
	info, err := os.Stat(siteDir)
	if err != nil || !info.IsDir() {
		return nil, serrors.ValidationFailed("site-dir", fmt.Sprintf("%s is not a directory", siteDir))
	}

	date := strings.TrimSpace(req.Date)
	if date == "" {
		date = a.clock.Now().Format(dateLayout)
	} else if _, err := time.Parse(dateLayout, date); err != nil {
		return nil, serrors.ValidationFailed("date", "expected YYYY-MM-DD")
	}

	resp, err := a.gen.GeneratePost(ctx, backend.PostRequest{
		Prompt: req.Prompt,
		Title:  req.Title,
		Site:   filepath.Base(filepath.Clean(siteDir)),
	})
	if err != nil {
		return nil, err
	}

	title := firstNonEmpty(req.Title, resp.Title, DiscoverTitle([]byte(resp.Content)))
	filename, err := naming.PostFilename(date, title)
	if err != nil {
		return nil, err
	}

	content, added, err := frontmatter.Ensure([]byte(resp.Content),
		map[string]any{"layout": "post", "title": title, "date": date},
		"layout", "title", "date")
	if err != nil {
		return nil, serrors.Wrap(err, serrors.CategoryBackend, serrors.SeverityFatal, "generated post has malformed front matter")
	}

	dir := filepath.Join(siteDir, postsDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, serrors.DirectoryCreation(dir, err)
	}
	path := filepath.Join(dir, filename)
	if err := writePost(path, content, req.Force); err != nil {
		return nil, err
	}

	a.logger.Info("Added post", logfields.Path(path), slog.String("title", title))
	return &Result{Path: path, Title: title, Date: date, FrontMatterAdded: added}, nil
}

func writePost(path string, content []byte, force bool) error {
	flags := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	if !force {
		flags = os.O_WRONLY | os.O_CREATE | os.O_EXCL
	}
	// #nosec G302 G304 -- path is built from the site directory and a slugified name
	f, err := os.OpenFile(path, flags, 0o644)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return serrors.New(serrors.CategoryValidation, serrors.SeverityFatal, "post already exists; pass --force to overwrite").
				WithContext("path", path)
		}
		return serrors.WriteFailed(path, err)
	}
	if _, err := f.Write(content); err != nil {
		_ = f.Close()
		return serrors.WriteFailed(path, err)
	}
	if err := f.Close(); err != nil {
		return serrors.WriteFailed(path, err)
	}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}
