// Package prompt asks the operator questions in the terminal with huh
// forms, falling back to huh's accessible line mode when stdin is not a
// terminal.
package prompt

import (
	"context"
	"errors"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/mattn/go-isatty"
	"github.com/mrsinham/centroidwatch/internal/structures"
)

// ErrAborted is returned when the operator quits a form.
var ErrAborted = errors.New("prompt aborted")

// Prompter runs forms on one input/output pair.
type Prompter struct {
	in         io.Reader
	out        io.Writer
	accessible bool
}

// New returns a prompter on in and out. Accessible mode is used unless in
// is a terminal.
func New(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: in, out: out, accessible: !IsTerminal(in)}
}

// IsTerminal reports whether r is an interactive terminal.
func IsTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Accessible reports whether forms run in line mode.
func (p *Prompter) Accessible() bool {
	return p.accessible
}

func (p *Prompter) run(ctx context.Context, groups ...*huh.Group) error {
	// The monitor owns SIGINT/SIGTERM handling through its context.
	form := huh.NewForm(groups...).
		WithProgramOptions(tea.WithoutSignalHandler()).
		WithShowHelp(false).
		WithShowErrors(true).
		WithAccessible(p.accessible).
		WithInput(p.in).
		WithOutput(p.out)

	err := form.RunWithContext(ctx)
	if errors.Is(err, huh.ErrUserAborted) {
		return ErrAborted
	}
	return err
}

// ConfirmInteractive asks whether unmatched structure sets should fall back
// to operator selection.
func (p *Prompter) ConfirmInteractive(ctx context.Context) (bool, error) {
	var yes bool
	err := p.run(ctx, huh.NewGroup(
		huh.NewConfirm().
			Title("Enable interactive structure selection?").
			Description("When no seed or gold marker is found you will be asked which structures to report.").
			Affirmative("Yes").
			Negative("No").
			Value(&yes),
	))
	return yes, err
}

// Select implements structures.Selector. Invalid answers are rejected by
// the form and asked again.
func (p *Prompter) Select(ctx context.Context, candidates []string) (structures.Selection, error) {
	var answer string
	err := p.run(ctx, huh.NewGroup(
		huh.NewNote().
			Title("No seed or gold marker structures found").
			Description(DescribeCandidates(candidates)),
		huh.NewInput().
			Title("Structures to report").
			Placeholder("e.g. 1,3 or all or skip").
			Value(&answer).
			Validate(func(s string) error {
				_, err := structures.ParseSelection(s, len(candidates))
				return err
			}),
	))
	if err != nil {
		return structures.Selection{}, err
	}
	return structures.ParseSelection(answer, len(candidates))
}
