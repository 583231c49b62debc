package materialize

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	serrors "git.home.luguber.info/inful/jekyll-studio/internal/errors"
	"git.home.luguber.info/inful/jekyll-studio/internal/logfields"
	"git.home.luguber.info/inful/jekyll-studio/internal/metrics"
)

const (
	dirMode  = 0o755
	fileMode = 0o644
)

// writeCategory creates every directory the category needs, then writes its
// files concurrently. The first failure cancels the writes still pending.
func (m *Materializer) writeCategory(ctx context.Context, root string, c category, log *slog.Logger) error {
	start := time.Now()
	err := m.writeCategoryFiles(ctx, root, c)
	m.recorder.ObserveCategoryDuration(c.label, time.Since(start))

	switch {
	case err == nil:
		m.recorder.IncCategoryResult(c.label, metrics.ResultSuccess)
		m.recorder.AddFilesWritten(c.label, len(c.files))
		log.Debug("Wrote category", logfields.Category(c.name), logfields.Files(len(c.files)))
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		m.recorder.IncCategoryResult(c.label, metrics.ResultCanceled)
	default:
		m.recorder.IncCategoryResult(c.label, metrics.ResultFailed)
	}
	return err
}

func (m *Materializer) writeCategoryFiles(ctx context.Context, root string, c category) error {
	for _, dir := range requiredDirs(c) {
		p := abs(root, dir)
		if err := os.MkdirAll(p, dirMode); err != nil {
			return serrors.DirectoryCreation(p, err)
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(m.concurrency)
	for _, f := range c.files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			p := abs(root, f.rel)
			// #nosec G306 -- site sources are served publicly and read by the jekyll container
			if err := os.WriteFile(p, []byte(f.content), fileMode); err != nil {
				return serrors.WriteFailed(p, err)
			}
			return nil
		})
	}
	return g.Wait()
}

// requiredDirs lists the category directories plus every parent directory of
// its files, shallowest first.
func requiredDirs(c category) []string {
	set := map[string]struct{}{}
	for _, d := range c.dirs {
		set[d] = struct{}{}
	}
	for _, f := range c.files {
		if dir := path.Dir(f.rel); dir != "." {
			set[dir] = struct{}{}
		}
	}
	dirs := make([]string, 0, len(set))
	for d := range set {
		dirs = append(dirs, d)
	}
	sort.Strings(dirs)
	return dirs
}
