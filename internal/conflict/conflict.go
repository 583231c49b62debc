// Package conflict decides what happens when a site's target directory already exists.
package conflict

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"
)

// Confirmer answers a yes/no question.
type Confirmer interface {
	Confirm(question string) (bool, error)
}

// Decision is the outcome of Resolve.
type Decision struct {
	Proceed         bool
	MustDeleteFirst bool
}

// Resolver consults its Confirmer only when the target exists.
type Resolver struct {
	confirm Confirmer
}

// NewResolver returns a Resolver asking c before anything is overwritten.
func NewResolver(c Confirmer) *Resolver {
	return &Resolver{confirm: c}
}

// Resolve never touches the filesystem beyond a stat of root. A missing root
// proceeds without asking; an existing root proceeds (after deletion by the
// caller) only when the Confirmer agrees.
func (r *Resolver) Resolve(root string) (Decision, error) {
	_, err := os.Lstat(root)
	if errors.Is(err, fs.ErrNotExist) {
		return Decision{Proceed: true}, nil
	}
	if err != nil {
		return Decision{}, fmt.Errorf("inspect %s: %w", root, err)
	}

	if r.confirm == nil {
		return Decision{}, nil
	}
	ok, err := r.confirm.Confirm(fmt.Sprintf("Directory %s already exists. Overwrite it?", root))
	if err != nil {
		return Decision{}, fmt.Errorf("confirm overwrite: %w", err)
	}
	if !ok {
		return Decision{}, nil
	}
	return Decision{Proceed: true, MustDeleteFirst: true}, nil
}

// Clear recursively removes root. Callers invoke it when a Decision says
// MustDeleteFirst and writes are not staged.
func Clear(root string) error {
	if err := os.RemoveAll(root); err != nil {
		return fmt.Errorf("remove existing site %s: %w", root, err)
	}
	return nil
}

// PromptConfirmer asks on a terminal. Anything other than y/yes, including
// an empty line or end of input, is "no".
type PromptConfirmer struct {
	reader *bufio.Reader
	writer io.Writer
}

// NewPromptConfirmer reads answers from in and writes questions to out.
func NewPromptConfirmer(in io.Reader, out io.Writer) *PromptConfirmer {
	return &PromptConfirmer{reader: bufio.NewReader(in), writer: out}
}

func (p *PromptConfirmer) Confirm(question string) (bool, error) {
	_, _ = fmt.Fprintf(p.writer, "%s [y/N]: ", question)
	line, err := p.reader.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, fmt.Errorf("read confirmation: %w", err)
	}
	answer := strings.TrimSpace(strings.ToLower(line))
	return answer == "y" || answer == "yes", nil
}

// StaticConfirmer always gives the same answer (e.g. --yes).
type StaticConfirmer bool

func (s StaticConfirmer) Confirm(string) (bool, error) { return bool(s), nil }
