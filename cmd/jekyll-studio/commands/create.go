package commands

import (
	"context"

	"git.home.luguber.info/inful/jekyll-studio/internal/progress"
	"git.home.luguber.info/inful/jekyll-studio/internal/registry"
	"git.home.luguber.info/inful/jekyll-studio/internal/site"
)

// CreateCmd implements the 'create' command.
type CreateCmd struct {
	Prompt      string `arg:"" help:"Description of the site to create"`
	TargetFlags `embed:""`
	Build       bool `help:"Build the site with Jekyll after writing it"`
	Serve       bool `help:"Serve the site with Jekyll after writing it"`
}

func (c *CreateCmd) Run(ctx context.Context, g *Global, root *CLI) error {
	s, err := openSession(g, root)
	if err != nil {
		return err
	}
	defer s.close()
	s.notifyUpdate(ctx)

	client, err := s.backend()
	if err != nil {
		return err
	}

	var doc *site.Document
	err = progress.Run(ctx, g.Terminal, "Designing your site", func(ctx context.Context) error {
		var genErr error
		doc, genErr = client.GenerateStructure(ctx, c.Prompt, c.Name)
		return genErr
	})
	if err != nil {
		return err
	}

	res, err := writeSite(ctx, s, c.TargetFlags, doc, registry.SourceBackend)
	if err != nil {
		return err
	}

	switch {
	case c.Serve:
		return runJekyll(ctx, s, res.Root, 0, true)
	case c.Build:
		return runJekyll(ctx, s, res.Root, 0, false)
	}
	return nil
}
