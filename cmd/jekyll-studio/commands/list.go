package commands

import (
	"context"
	"fmt"
	"text/tabwriter"
)

// ListCmd implements the 'list' command.
type ListCmd struct {
	Limit int `short:"n" help:"Maximum number of sites to show (0 = all)" default:"20"`
}

func (l *ListCmd) Run(ctx context.Context, g *Global, root *CLI) error {
	s, err := openSession(g, root)
	if err != nil {
		return err
	}
	defer s.close()

	store, err := s.registry()
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	sites, err := store.List(ctx, l.Limit)
	if err != nil {
		return err
	}
	if len(sites) == 0 {
		_, _ = fmt.Fprintln(g.Stdout, "No sites yet. Create one with: jekyll-studio create \"<prompt>\"")
		return nil
	}

	tw := tabwriter.NewWriter(g.Stdout, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "NAME\tTITLE\tFILES\tSOURCE\tCREATED\tPATH")
	for _, site := range sites {
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\t%s\n",
			site.Name, site.Title, site.Files, site.Source,
			site.CreatedAt.Local().Format("2006-01-02 15:04"), site.Path)
	}
	return tw.Flush()
}
