package materialize

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	serrors "git.home.luguber.info/inful/jekyll-studio/internal/errors"
	"git.home.luguber.info/inful/jekyll-studio/internal/logfields"
)

// staging is an isolated sibling directory that is promoted to the final
// root once the whole tree has been written.
type staging struct {
	dir  string
	root string
	log  *slog.Logger
}

func beginStaging(root, runID string, log *slog.Logger) (*staging, error) {
	clean := filepath.Clean(root)
	if err := os.MkdirAll(filepath.Dir(clean), dirMode); err != nil {
		return nil, serrors.DirectoryCreation(filepath.Dir(clean), err)
	}
	dir := fmt.Sprintf("%s.staging-%s", clean, runID[:8])
	if err := os.MkdirAll(dir, dirMode); err != nil {
		return nil, serrors.DirectoryCreation(dir, err)
	}
	log.Debug("Initialized staging directory", slog.String("staging", dir))
	return &staging{dir: dir, root: clean, log: log}, nil
}

// promote swaps the staging directory into place:
//  1. remove a stale <root>.prev
//  2. move an existing root to <root>.prev
//  3. rename staging to root
//  4. remove <root>.prev
func (s *staging) promote() error {
	if _, err := os.Stat(s.dir); err != nil {
		return serrors.DirectoryCreation(s.dir, fmt.Errorf("staging directory missing: %w", err))
	}

	prev := s.root + ".prev"
	if err := os.RemoveAll(prev); err != nil {
		return serrors.DirectoryCreation(prev, fmt.Errorf("remove stale backup: %w", err))
	}
	hadRoot := false
	if _, err := os.Stat(s.root); err == nil {
		if err := os.Rename(s.root, prev); err != nil {
			return serrors.DirectoryCreation(s.root, fmt.Errorf("backup existing site: %w", err))
		}
		hadRoot = true
	}
	if err := os.Rename(s.dir, s.root); err != nil {
		if hadRoot {
			if rerr := os.Rename(prev, s.root); rerr != nil {
				s.log.Error("Failed to restore previous site", logfields.Path(prev), logfields.Error(rerr))
			}
		}
		return serrors.DirectoryCreation(s.root, fmt.Errorf("promote staging: %w", err))
	}
	s.dir = ""
	if hadRoot {
		if err := os.RemoveAll(prev); err != nil {
			s.log.Warn("Failed to remove previous site", logfields.Path(prev), logfields.Error(err))
		}
	}
	s.log.Debug("Promoted staging directory", logfields.Path(s.root))
	return nil
}

// abort removes the staging directory after a failed run.
func (s *staging) abort() {
	if s.dir == "" {
		return
	}
	dir := s.dir
	s.dir = ""
	if err := os.RemoveAll(dir); err != nil {
		s.log.Warn("Failed to remove staging directory after abort", slog.String("staging", dir), logfields.Error(err))
		return
	}
	s.log.Debug("Removed staging directory after abort", slog.String("staging", dir))
}
