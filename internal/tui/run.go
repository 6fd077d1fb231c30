package tui

import (
	"context"
	"io"

	tea "github.com/charmbracelet/bubbletea"
)

type options struct {
	presser Presser
	input   io.Reader
	output  io.Writer
	alt     bool
}

// Option configures Run.
type Option func(*options)

// WithPresser pulses on the press-down of counting keys.
func WithPresser(p Presser) Option {
	return func(o *options) { o.presser = p }
}

// WithIO replaces the terminal streams.
func WithIO(in io.Reader, out io.Writer) Option {
	return func(o *options) {
		o.input = in
		o.output = out
	}
}

// WithAltScreen runs the view in the alternate screen buffer.
func WithAltScreen() Option {
	return func(o *options) { o.alt = true }
}

// Run blocks until the user quits or ctx is cancelled.
func Run(ctx context.Context, c Counter, opts ...Option) error {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	progOpts := []tea.ProgramOption{tea.WithContext(ctx)}
	if o.input != nil {
		progOpts = append(progOpts, tea.WithInput(o.input))
	}
	if o.output != nil {
		progOpts = append(progOpts, tea.WithOutput(o.output))
	}
	if o.alt {
		progOpts = append(progOpts, tea.WithAltScreen())
	}

	_, err := tea.NewProgram(newModel(ctx, c, o.presser), progOpts...).Run()
	if err != nil && ctx.Err() != nil {
		return nil
	}
	return err
}
