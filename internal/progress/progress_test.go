package progress

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunWithoutTerminalCallsFn(t *testing.T) {
	f, err := os.Create(filepath.Join(t.TempDir(), "out"))
	require.NoError(t, err)
	defer func() { _ = f.Close() }()
	assert.False(t, IsTerminal(f))

	called := false
	err = Run(context.Background(), f, "Generating", func(context.Context) error {
		called = true
		return nil
	})
	require.NoError(t, err)
	assert.True(t, called)

	boom := errors.New("boom")
	err = Run(context.Background(), nil, "Generating", func(context.Context) error { return boom })
	assert.ErrorIs(t, err, boom)
}

func TestModelQuitsWhenDone(t *testing.T) {
	m := newModel("Building site")
	assert.Contains(t, m.View(), "Building site")

	next, cmd := m.Update(doneMsg{})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
	assert.Empty(t, next.View())
}
