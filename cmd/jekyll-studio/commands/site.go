package commands

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"git.home.luguber.info/inful/jekyll-studio/internal/conflict"
	serrors "git.home.luguber.info/inful/jekyll-studio/internal/errors"
	"git.home.luguber.info/inful/jekyll-studio/internal/gitinit"
	"git.home.luguber.info/inful/jekyll-studio/internal/logfields"
	"git.home.luguber.info/inful/jekyll-studio/internal/materialize"
	"git.home.luguber.info/inful/jekyll-studio/internal/naming"
	"git.home.luguber.info/inful/jekyll-studio/internal/registry"
	"git.home.luguber.info/inful/jekyll-studio/internal/site"
)

// TargetFlags are shared by commands that write a new site.
type TargetFlags struct {
	Name   string `help:"Directory name for the site (default: derived from the document)"`
	Dir    string `short:"d" help:"Parent directory for the site (default: output.directory)" type:"path"`
	Yes    bool   `short:"y" help:"Overwrite an existing site directory without asking"`
	Atomic bool   `help:"Write into a staging directory and swap it into place on success"`
	Git    bool   `help:"Initialize a git repository with an initial commit"`
}

// targetDir resolves <dir>/<name>. An explicit --name is used as given but
// must be a single path element; otherwise the document's slugified name is used.
func (f TargetFlags) targetDir(s *session, doc *site.Document) (string, error) {
	parent := f.Dir
	if parent == "" {
		parent = s.cfg.Output.Directory
	}
	name := f.Name
	if name == "" {
		name = doc.DirName()
	} else if err := naming.PathElement("site", name); err != nil {
		return "", serrors.ValidationFailed("name", "must be a single directory name").
			WithContext("name", name)
	}
	return filepath.Join(parent, name), nil
}

func (f TargetFlags) confirmer(s *session) conflict.Confirmer {
	if f.Yes {
		return conflict.StaticConfirmer(true)
	}
	return conflict.NewPromptConfirmer(s.g.Stdin, s.g.stderr())
}

// writeSite resolves conflicts at the target, materializes doc and performs
// the follow-up steps (registry record, optional git bootstrap).
func writeSite(ctx context.Context, s *session, flags TargetFlags, doc *site.Document, source registry.Source) (*materialize.Result, error) {
	root, err := flags.targetDir(s, doc)
	if err != nil {
		return nil, err
	}
	atomic := flags.Atomic || s.cfg.Output.Atomic

	decision, err := conflict.NewResolver(flags.confirmer(s)).Resolve(root)
	if err != nil {
		return nil, serrors.InternalError("cannot inspect target directory", err).WithContext("path", root)
	}
	if !decision.Proceed {
		return nil, serrors.ConflictAborted(root)
	}
	// Staging swaps the old tree out itself; clearing first would lose it on failure.
	if decision.MustDeleteFirst && !atomic {
		if err := conflict.Clear(root); err != nil {
			return nil, serrors.DirectoryCreation(root, err)
		}
	}

	opts := []materialize.Option{materialize.WithRecorder(s.recorder)}
	if atomic {
		opts = append(opts, materialize.WithStaging())
	}
	res, err := materialize.New(opts...).Materialize(ctx, root, doc)
	if err != nil {
		return nil, err
	}

	recordSite(ctx, s, res, doc, source)

	if flags.Git || s.cfg.Output.GitInit {
		hash, err := gitinit.Init(root, s.g.clock())
		if err != nil {
			return res, err
		}
		if !hash.IsZero() {
			slog.Info("Initialized git repository", logfields.Path(root), slog.String("commit", hash.String()))
		}
	}

	title := doc.DisplayTitle()
	if title == "" {
		title = filepath.Base(root)
	}
	_, _ = fmt.Fprintf(s.g.Stdout, "Created %q at %s (%d files)\n", title, root, len(res.Files))
	return res, nil
}

// recordSite adds the site to the local registry. The tree already exists,
// so registry failures are reported but do not fail the command.
func recordSite(ctx context.Context, s *session, res *materialize.Result, doc *site.Document, source registry.Source) {
	store, err := s.registry()
	if err != nil {
		slog.Warn("Site registry unavailable", logfields.Error(err))
		return
	}
	defer func() { _ = store.Close() }()

	abs, err := filepath.Abs(res.Root)
	if err != nil {
		abs = res.Root
	}
	entry := &registry.Site{
		ID:     res.RunID,
		Name:   filepath.Base(res.Root),
		Path:   abs,
		Title:  doc.DisplayTitle(),
		Files:  len(res.Files),
		Counts: res.Counts,
		Source: source,
	}
	if err := store.Record(ctx, entry); err != nil {
		slog.Warn("Failed to record site", logfields.Site(entry.Name), logfields.Error(err))
	}
}
