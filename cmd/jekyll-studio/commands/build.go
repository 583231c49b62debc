package commands

import (
	"context"
	"fmt"

	"git.home.luguber.info/inful/jekyll-studio/internal/progress"
)

// BuildCmd implements the 'build' command.
type BuildCmd struct {
	SiteDir string `arg:"" name:"site-dir" help:"Site directory" type:"existingdir"`
}

func (b *BuildCmd) Run(ctx context.Context, g *Global, root *CLI) error {
	s, err := openSession(g, root)
	if err != nil {
		return err
	}
	defer s.close()
	return runJekyll(ctx, s, b.SiteDir, 0, false)
}

// ServeCmd implements the 'serve' command.
type ServeCmd struct {
	SiteDir string `arg:"" name:"site-dir" help:"Site directory" type:"existingdir"`
	Port    int    `short:"p" help:"Host port (default: build.port)"`
}

func (c *ServeCmd) Run(ctx context.Context, g *Global, root *CLI) error {
	s, err := openSession(g, root)
	if err != nil {
		return err
	}
	defer s.close()
	return runJekyll(ctx, s, c.SiteDir, c.Port, true)
}

func runJekyll(ctx context.Context, s *session, siteDir string, port int, serve bool) error {
	r, err := s.runner(port)
	if err != nil {
		return err
	}
	if serve {
		return r.Serve(ctx, siteDir)
	}
	if err := progress.Run(ctx, s.g.Terminal, "Building site", func(ctx context.Context) error {
		return r.Build(ctx, siteDir)
	}); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(s.g.Stdout, "Built %s\n", siteDir)
	return nil
}
