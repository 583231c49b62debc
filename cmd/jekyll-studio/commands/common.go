package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"

	"github.com/alecthomas/kong"
	"github.com/jonboulle/clockwork"
	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/jekyll-studio/internal/backend"
	"git.home.luguber.info/inful/jekyll-studio/internal/config"
	"git.home.luguber.info/inful/jekyll-studio/internal/logfields"
	"git.home.luguber.info/inful/jekyll-studio/internal/metrics"
	"git.home.luguber.info/inful/jekyll-studio/internal/registry"
	"git.home.luguber.info/inful/jekyll-studio/internal/runner"
	"git.home.luguber.info/inful/jekyll-studio/internal/updatecheck"
	"git.home.luguber.info/inful/jekyll-studio/internal/version"
)

// Global carries process-wide collaborators shared by every command.
type Global struct {
	Stdin    io.Reader
	Stdout   io.Writer
	Stderr   io.Writer
	Terminal *os.File // spinner target; nil disables the spinner

	Clock      clockwork.Clock
	HTTPClient *http.Client    // nil uses backend defaults
	Executor   runner.Executor // nil runs real subprocesses
}

// NewGlobal wires the real process streams.
func NewGlobal() *Global {
	return &Global{
		Stdin:    os.Stdin,
		Stdout:   os.Stdout,
		Stderr:   os.Stderr,
		Terminal: os.Stderr,
		Clock:    clockwork.NewRealClock(),
	}
}

func (g *Global) clock() clockwork.Clock {
	if g.Clock == nil {
		return clockwork.NewRealClock()
	}
	return g.Clock
}

func (g *Global) stderr() io.Writer {
	if g.Stderr == nil {
		return io.Discard
	}
	return g.Stderr
}

// CLI definition & global flags.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path (default: ./jekyll-studio.yaml when present)" type:"path"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Create      CreateCmd      `cmd:"" help:"Design a site from a prompt and write it to disk"`
	Materialize MaterializeCmd `cmd:"" help:"Write a site from a Site Structure Document file"`
	AddPost     AddPostCmd     `cmd:"" name:"add-post" help:"Generate a post and add it to an existing site"`
	Build       BuildCmd       `cmd:"" help:"Build a site with Jekyll"`
	Serve       ServeCmd       `cmd:"" help:"Serve a site with Jekyll"`
	List        ListCmd        `cmd:"" help:"List sites created on this machine"`
	VersionCmd  VersionCmd     `cmd:"" name:"version" help:"Show version information"`
}

// AfterApply runs after flag parsing; setup logging once.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply() error {
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return nil
}

// session is the per-command environment: configuration plus the metrics
// registry every collaborator reports into.
type session struct {
	g        *Global
	cfg      *config.Config
	reg      *prom.Registry
	recorder *metrics.PrometheusRecorder
}

func openSession(g *Global, root *CLI) (*session, error) {
	cfg, err := config.Load(root.Config)
	if err != nil {
		return nil, err
	}
	reg := prom.NewRegistry()
	return &session{g: g, cfg: cfg, reg: reg, recorder: metrics.NewPrometheusRecorder(reg)}, nil
}

// close exports metrics when a textfile path is configured.
func (s *session) close() {
	if s.cfg.MetricsFile == "" {
		return
	}
	if err := metrics.WriteTextfile(s.cfg.MetricsFile, s.reg); err != nil {
		slog.Warn("Failed to write metrics textfile", logfields.File(s.cfg.MetricsFile), logfields.Error(err))
	}
}

func (s *session) backend() (*backend.Client, error) {
	b := s.cfg.Backend
	return backend.New(b.BaseURL, backend.Options{
		APIKey:     b.APIKey,
		Timeout:    b.TimeoutDuration(),
		Policy:     b.RetryPolicy(),
		HTTPClient: s.g.HTTPClient,
		Clock:      s.g.clock(),
		Recorder:   s.recorder,
	})
}

func (s *session) runner(port int) (*runner.Runner, error) {
	opts := runner.Options{
		Tool:      runner.Tool(s.cfg.Build.Tool),
		Image:     s.cfg.Build.Image,
		Port:      s.cfg.Build.Port,
		ExtraArgs: s.cfg.Build.ExtraArgs,
	}
	if port > 0 {
		opts.Port = port
	}
	return runner.New(opts, s.g.Executor, s.recorder)
}

func (s *session) registry() (*registry.Store, error) {
	return registry.Open(s.cfg.DataDir, s.g.clock())
}

// notifyUpdate prints a release notice at most once a day. Failures never
// affect the command.
func (s *session) notifyUpdate(ctx context.Context) {
	if !s.cfg.UpdateCheckEnabled() || !version.Released() {
		return
	}
	checker := &updatecheck.Checker{
		Clock:   s.g.clock(),
		Store:   updatecheck.FileStore{Path: s.cfg.UpdateStatePath()},
		Fetcher: &updatecheck.HTTPFetcher{URL: s.cfg.UpdateCheck.URL, Client: s.g.HTTPClient},
		Current: version.Version,
	}
	notice, err := checker.Check(ctx)
	if err != nil {
		slog.Debug("Update check failed", logfields.Error(err))
		return
	}
	if notice != nil {
		_, _ = fmt.Fprintln(s.g.stderr(), notice.String())
	}
}
