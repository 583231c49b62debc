// Package runner invokes Jekyll, in a container or through the local bundle,
// against a materialized site.
package runner

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/kballard/go-shellquote"

	serrors "git.home.luguber.info/inful/jekyll-studio/internal/errors"
	"git.home.luguber.info/inful/jekyll-studio/internal/logfields"
	"git.home.luguber.info/inful/jekyll-studio/internal/metrics"
)

// Tool selects how Jekyll is launched.
type Tool string

const (
	ToolDocker Tool = "docker"
	ToolLocal  Tool = "local"
)

// Action is the Jekyll subcommand.
type Action string

const (
	ActionBuild Action = "build"
	ActionServe Action = "serve"
)

const (
	DefaultImage = "jekyll/jekyll:4"
	DefaultPort  = 4000

	containerSiteDir = "/srv/jekyll"
)

// Options configure the runner.
type Options struct {
	Tool      Tool
	Image     string
	Port      int
	ExtraArgs string // shell-quoted, appended to the jekyll command
}

// Invocation is a fully resolved subprocess call.
type Invocation struct {
	Dir  string
	Name string
	Args []string
}

// String renders the invocation the way a user would type it.
func (i Invocation) String() string {
	return shellquote.Join(append([]string{i.Name}, i.Args...)...)
}

// Executor runs an Invocation.
type Executor interface {
	Run(ctx context.Context, inv Invocation) error
}

// ExecExecutor runs invocations with os/exec, streaming output.
type ExecExecutor struct {
	Stdout io.Writer
	Stderr io.Writer
}

func (e ExecExecutor) Run(ctx context.Context, inv Invocation) error {
	// #nosec G204 -- the binary is docker or bundle; arguments are not passed through a shell
	cmd := exec.CommandContext(ctx, inv.Name, inv.Args...)
	cmd.Dir = inv.Dir
	cmd.Stdout = e.Stdout
	cmd.Stderr = e.Stderr
	if cmd.Stdout == nil {
		cmd.Stdout = os.Stdout
	}
	if cmd.Stderr == nil {
		cmd.Stderr = os.Stderr
	}
	return cmd.Run()
}

// Runner builds and serves sites.
type Runner struct {
	opts     Options
	extra    []string
	exec     Executor
	recorder metrics.Recorder
	logger   *slog.Logger
}

// New validates opts. A nil executor runs real subprocesses.
func New(opts Options, executor Executor, recorder metrics.Recorder) (*Runner, error) {
	if opts.Tool == "" {
		opts.Tool = ToolDocker
	}
	if opts.Tool != ToolDocker && opts.Tool != ToolLocal {
		return nil, serrors.New(serrors.CategoryConfig, serrors.SeverityFatal, "unknown build tool").
			WithContext("tool", string(opts.Tool))
	}
	if opts.Image == "" {
		opts.Image = DefaultImage
	}
	if opts.Port <= 0 {
		opts.Port = DefaultPort
	}
	extra, err := shellquote.Split(opts.ExtraArgs)
	if err != nil {
		return nil, serrors.Wrap(err, serrors.CategoryConfig, serrors.SeverityFatal, "cannot parse build extra_args")
	}
	if executor == nil {
		executor = ExecExecutor{}
	}
	if recorder == nil {
		recorder = metrics.NoopRecorder{}
	}
	return &Runner{opts: opts, extra: extra, exec: executor, recorder: recorder, logger: slog.Default()}, nil
}

// Command resolves the invocation for action against siteDir.
func (r *Runner) Command(action Action, siteDir string) (Invocation, error) {
	dir, err := filepath.Abs(siteDir)
	if err != nil {
		return Invocation{}, serrors.ValidationFailed("site-dir", err.Error())
	}
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return Invocation{}, serrors.ValidationFailed("site-dir", fmt.Sprintf("%s is not a directory", siteDir))
	}

	port := strconv.Itoa(r.opts.Port)
	var inv Invocation
	switch r.opts.Tool {
	case ToolLocal:
		inv = Invocation{Dir: dir, Name: "bundle", Args: []string{"exec", "jekyll", string(action)}}
		if action == ActionServe {
			inv.Args = append(inv.Args, "--port", port)
		}
	default:
		args := []string{"run", "--rm", "-v", dir + ":" + containerSiteDir, "-w", containerSiteDir}
		if action == ActionServe {
			args = append(args, "-p", port+":4000")
		}
		args = append(args, r.opts.Image, "jekyll", string(action))
		if action == ActionServe {
			args = append(args, "--host", "0.0.0.0")
		}
		inv = Invocation{Dir: dir, Name: "docker", Args: args}
	}
	inv.Args = append(inv.Args, r.extra...)
	return inv, nil
}

// Build runs `jekyll build` for siteDir.
func (r *Runner) Build(ctx context.Context, siteDir string) error {
	return r.run(ctx, ActionBuild, siteDir)
}

// Serve runs `jekyll serve` for siteDir until ctx is canceled or the server exits.
func (r *Runner) Serve(ctx context.Context, siteDir string) error {
	return r.run(ctx, ActionServe, siteDir)
}

func (r *Runner) run(ctx context.Context, action Action, siteDir string) error {
	inv, err := r.Command(action, siteDir)
	if err != nil {
		return err
	}
	log := r.logger.With(logfields.Tool(string(r.opts.Tool)), logfields.Path(inv.Dir))
	log.Info("Running jekyll "+string(action), logfields.Command(inv.String()))
	if action == ActionServe {
		log.Info("Site will be available at http://localhost:" + strconv.Itoa(r.opts.Port))
	}

	start := time.Now()
	err = r.exec.Run(ctx, inv)
	r.recorder.ObserveBuildDuration(string(r.opts.Tool), string(action), time.Since(start), err == nil)
	if err != nil {
		if action == ActionServe && ctx.Err() != nil {
			// Interrupted by the user.
			return nil
		}
		return serrors.BuildFailed(string(r.opts.Tool), fmt.Errorf("%s: %w", strings.TrimSpace(inv.String()), err))
	}
	return nil
}
