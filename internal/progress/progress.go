// Package progress shows a spinner while a long-running step (backend
// generation, docker build) is in flight. Without a terminal it logs instead.
package progress

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"

	"git.home.luguber.info/inful/jekyll-studio/internal/logfields"
)

type doneMsg struct{}

type model struct {
	spinner spinner.Model
	message string
	done    bool
}

func newModel(message string) model {
	return model{spinner: spinner.New(spinner.WithSpinner(spinner.Dot)), message: message}
}

func (m model) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg.(type) {
	case doneMsg:
		m.done = true
		return m, tea.Quit
	}
	var cmd tea.Cmd
	m.spinner, cmd = m.spinner.Update(msg)
	return m, cmd
}

func (m model) View() string {
	if m.done {
		return ""
	}
	return m.spinner.View() + " " + m.message + "\n"
}

// IsTerminal reports whether f is an interactive terminal.
func IsTerminal(f *os.File) bool {
	if f == nil {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Run calls fn while showing message. The spinner is drawn on out when it is
// a terminal; otherwise start and finish are logged.
func Run(ctx context.Context, out *os.File, message string, fn func(context.Context) error) error {
	if !IsTerminal(out) {
		return runLogged(ctx, message, fn)
	}

	p := tea.NewProgram(newModel(message),
		tea.WithContext(ctx),
		tea.WithOutput(out),
		tea.WithInput(nil),
		tea.WithoutSignalHandler(),
	)

	result := make(chan error, 1)
	go func() {
		result <- fn(ctx)
		p.Send(doneMsg{})
	}()

	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		slog.Debug("Spinner stopped", logfields.Error(err))
	}
	return <-result
}

func runLogged(ctx context.Context, message string, fn func(context.Context) error) error {
	start := time.Now()
	slog.Info(message)
	err := fn(ctx)
	if err != nil {
		return err
	}
	slog.Debug("Step finished", slog.String("step", message), logfields.DurationMS(float64(time.Since(start).Milliseconds())))
	return nil
}
