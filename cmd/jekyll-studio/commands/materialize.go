package commands

import (
	"context"

	"git.home.luguber.info/inful/jekyll-studio/internal/registry"
	"git.home.luguber.info/inful/jekyll-studio/internal/site"
)

// MaterializeCmd implements the 'materialize' command: it writes a site from
// a Site Structure Document saved earlier or produced by another tool.
type MaterializeCmd struct {
	Document    string `arg:"" help:"Site Structure Document (JSON); '-' reads stdin"`
	TargetFlags `embed:""`
}

func (m *MaterializeCmd) Run(ctx context.Context, g *Global, root *CLI) error {
	s, err := openSession(g, root)
	if err != nil {
		return err
	}
	defer s.close()

	var doc *site.Document
	if m.Document == "-" {
		doc, err = site.Read(g.Stdin)
	} else {
		doc, err = site.Load(m.Document)
	}
	if err != nil {
		return err
	}

	_, err = writeSite(ctx, s, m.TargetFlags, doc, registry.SourceFile)
	return err
}
