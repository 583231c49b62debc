package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/jekyll-studio/cmd/jekyll-studio/commands"
	serrors "git.home.luguber.info/inful/jekyll-studio/internal/errors"
	"git.home.luguber.info/inful/jekyll-studio/internal/version"
)

func main() {
	cli := &commands.CLI{}
	parser := kong.Parse(cli,
		kong.Name("jekyll-studio"),
		kong.Description("Design Jekyll sites with an AI backend and write them to disk."),
		kong.UsageOnError(),
		kong.Vars{"version": version.Version},
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	parser.BindTo(ctx, (*context.Context)(nil))
	err := parser.Run(commands.NewGlobal(), cli)
	stop()

	serrors.NewCLIErrorAdapter(cli.Verbose, slog.Default()).HandleError(err)
}
