package commands

import (
	"fmt"

	"git.home.luguber.info/inful/jekyll-studio/internal/version"
)

// VersionCmd implements the 'version' command.
type VersionCmd struct{}

func (v *VersionCmd) Run(g *Global) error {
	_, _ = fmt.Fprintf(g.Stdout, "jekyll-studio %s\n", version.Version)
	_, _ = fmt.Fprintf(g.Stdout, "  commit: %s\n  built:  %s\n", version.GitCommit, version.BuildTime)
	return nil
}
