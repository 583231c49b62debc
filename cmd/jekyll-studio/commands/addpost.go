package commands

import (
	"context"
	"fmt"

	"git.home.luguber.info/inful/jekyll-studio/internal/post"
	"git.home.luguber.info/inful/jekyll-studio/internal/progress"
)

// AddPostCmd implements the 'add-post' command.
type AddPostCmd struct {
	SiteDir string `arg:"" name:"site-dir" help:"Existing site directory" type:"existingdir"`
	Prompt  string `arg:"" help:"What the post should be about"`
	Title   string `help:"Post title (default: chosen by the backend or taken from the first heading)"`
	Date    string `help:"Post date, YYYY-MM-DD (default: today)"`
	Force   bool   `short:"f" help:"Overwrite an existing post with the same filename"`
}

func (a *AddPostCmd) Run(ctx context.Context, g *Global, root *CLI) error {
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

	author := post.NewAuthor(client, g.clock())
	var res *post.Result
	err = progress.Run(ctx, g.Terminal, "Writing your post", func(ctx context.Context) error {
		var addErr error
		res, addErr = author.Add(ctx, a.SiteDir, post.Request{
			Prompt: a.Prompt,
			Title:  a.Title,
			Date:   a.Date,
			Force:  a.Force,
		})
		return addErr
	})
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintf(g.Stdout, "Added %q at %s\n", res.Title, res.Path)
	return nil
}
