// Package materialize turns a Site Structure Document into a Jekyll source tree on disk.
//
// Categories are written in a fixed order: scaffold, config, layouts, includes,
// posts, pages, collections, assets. Within a category, names are validated
// before anything is written, the category's directories are created, and then
// its files are written concurrently. A failure stops at the category it
// occurred in; earlier categories stay on disk unless staging is enabled.
package materialize

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"

	serrors "git.home.luguber.info/inful/jekyll-studio/internal/errors"
	"git.home.luguber.info/inful/jekyll-studio/internal/logfields"
	"git.home.luguber.info/inful/jekyll-studio/internal/metrics"
	"git.home.luguber.info/inful/jekyll-studio/internal/site"
)

const defaultConcurrency = 8

// Materializer writes site trees. The zero value is not usable; use New.
type Materializer struct {
	recorder    metrics.Recorder
	logger      *slog.Logger
	staging     bool
	concurrency int
}

// Option configures a Materializer.
type Option func(*Materializer)

// WithRecorder reports per-category metrics to r.
func WithRecorder(r metrics.Recorder) Option {
	return func(m *Materializer) {
		if r != nil {
			m.recorder = r
		}
	}
}

// WithLogger sets the logger (slog.Default otherwise).
func WithLogger(l *slog.Logger) Option {
	return func(m *Materializer) {
		if l != nil {
			m.logger = l
		}
	}
}

// WithStaging writes into a sibling staging directory and swaps it into place
// only after every category succeeded. An existing tree at the root is
// replaced on success and untouched on failure.
func WithStaging() Option {
	return func(m *Materializer) { m.staging = true }
}

// WithConcurrency bounds the number of concurrent writes within a category.
func WithConcurrency(n int) Option {
	return func(m *Materializer) {
		if n > 0 {
			m.concurrency = n
		}
	}
}

// New returns a Materializer with a no-op recorder and the default logger.
func New(opts ...Option) *Materializer {
	m := &Materializer{
		recorder:    metrics.NoopRecorder{},
		logger:      slog.Default(),
		concurrency: defaultConcurrency,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Result describes a completed materialization.
type Result struct {
	RunID    string
	Root     string
	Files    []string       // root-relative, slash separated, sorted
	Counts   map[string]int // files per category
	Staged   bool
	Duration time.Duration
}

// Materialize writes doc under root, creating root and intermediate
// directories as needed. A nil document produces the scaffold only.
//
// Errors are classified: InvalidEntry for names that cannot become
// filenames, DirectoryCreation and WriteFailed (carrying the offending path)
// for filesystem failures. Nothing is retried and, without staging, nothing
// already written is removed.
func (m *Materializer) Materialize(ctx context.Context, root string, doc *site.Document) (*Result, error) {
	if doc == nil {
		doc = &site.Document{}
	}
	start := time.Now()
	runID := uuid.NewString()
	log := m.logger.With(logfields.RunID(runID), logfields.Path(root))

	res := &Result{RunID: runID, Root: root, Counts: map[string]int{}, Staged: m.staging}

	target := root
	var stage *staging
	if m.staging {
		var err error
		stage, err = beginStaging(root, runID, log)
		if err != nil {
			m.recorder.IncMaterializeOutcome(metrics.OutcomeFailed)
			return nil, err
		}
		target = stage.dir
	} else if err := os.MkdirAll(root, dirMode); err != nil {
		m.recorder.IncMaterializeOutcome(metrics.OutcomeFailed)
		return nil, serrors.DirectoryCreation(root, err)
	}

	err := m.writeAll(ctx, target, doc, res, log)
	if err == nil && stage != nil {
		err = stage.promote()
	}
	if err != nil && stage != nil {
		stage.abort()
	}

	res.Duration = time.Since(start)
	m.recorder.ObserveMaterializeDuration(res.Duration)
	sort.Strings(res.Files)

	if err != nil {
		m.recorder.IncMaterializeOutcome(metrics.OutcomeFailed)
		log.Error("Site materialization failed",
			logfields.Files(len(res.Files)), logfields.Error(err))
		return res, err
	}

	m.recorder.IncMaterializeOutcome(metrics.OutcomeSuccess)
	log.Info("Site materialized",
		logfields.Files(len(res.Files)),
		logfields.DurationMS(float64(res.Duration.Milliseconds())))
	return res, nil
}

func (m *Materializer) writeAll(ctx context.Context, target string, doc *site.Document, res *Result, log *slog.Logger) error {
	for _, plan := range planners {
		if err := ctx.Err(); err != nil {
			return err
		}
		cats, planErr := plan(doc)
		for _, c := range cats {
			if err := m.writeCategory(ctx, target, c, log); err != nil {
				return err
			}
			for _, f := range c.files {
				res.Files = append(res.Files, f.rel)
			}
			res.Counts[c.label] += len(c.files)
		}
		if planErr != nil {
			m.recorder.IncCategoryResult(categoryOf(planErr), metrics.ResultInvalid)
			return planErr
		}
	}
	return nil
}

// categoryOf recovers the metric label for a planning error.
func categoryOf(err error) string {
	if se, ok := serrors.As(err); ok {
		if kind, ok := se.Context["kind"].(string); ok {
			switch kind {
			case "layout":
				return CategoryLayouts
			case "include":
				return CategoryIncludes
			case "post":
				return CategoryPosts
			case "page":
				return CategoryPages
			case "collection", "collection item":
				return CategoryCollections
			case "config":
				return CategoryConfig
			}
		}
	}
	return "unknown"
}

// abs resolves a slash-separated relative path under root.
func abs(root, rel string) string {
	return filepath.Join(root, filepath.FromSlash(rel))
}
