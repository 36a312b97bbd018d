// Package tui runs an interactive session over the open task list in the
// terminal's alternate screen.
package tui

import (
	"context"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"ivly-cli/internal/model"
	"ivly-cli/internal/session"
)

type options struct {
	keymap    session.Keymap
	clock     model.Clock
	reserved  func(string) bool
	input     io.Reader
	output    io.Writer
	altScreen bool
}

// Option configures Run.
type Option func(*options)

// WithKeymap sets the viewing-mode key bindings.
func WithKeymap(km session.Keymap) Option {
	return func(o *options) { o.keymap = km }
}

func WithClock(c model.Clock) Option {
	return func(o *options) { o.clock = c }
}

// WithReservedIDs marks ids used by the done archive.
func WithReservedIDs(taken func(string) bool) Option {
	return func(o *options) { o.reserved = taken }
}

// WithIO replaces the terminal with r and w and disables the alternate
// screen.
func WithIO(r io.Reader, w io.Writer) Option {
	return func(o *options) {
		o.input = r
		o.output = w
		o.altScreen = false
	}
}

// Run takes over the terminal until the user saves or forgets. On Save the
// edited list replaces *tasks; on Forget or error *tasks is untouched.
// Cancelling ctx forgets. The terminal is restored before Run returns.
func Run(ctx context.Context, tasks *model.OpenTasks, opts ...Option) (session.Outcome, error) {
	o := options{
		keymap:    session.DefaultKeymap(),
		clock:     model.SystemClock,
		altScreen: true,
	}
	for _, opt := range opts {
		opt(&o)
	}

	s := session.New(*tasks,
		session.WithKeymap(o.keymap),
		session.WithClock(o.clock),
		session.WithReservedIDs(o.reserved),
	)

	var popts []tea.ProgramOption
	if o.altScreen {
		applyTerminalAppearance(os.Getenv)
		popts = append(popts, tea.WithAltScreen())
	}
	if o.input != nil {
		popts = append(popts, tea.WithInput(o.input))
	}
	if o.output != nil {
		popts = append(popts, tea.WithOutput(o.output))
	}

	p := tea.NewProgram(newSessionModel(s, o.clock), popts...)

	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-ctx.Done():
			p.Send(interruptMsg{})
		case <-stop:
		}
	}()

	final, err := p.Run()
	if err != nil {
		return session.Forget, fmt.Errorf("run session: %w", err)
	}
	if fm, ok := final.(sessionModel); ok && fm.err != nil {
		return session.Forget, fmt.Errorf("run session: %w", fm.err)
	}
	if !s.Apply(tasks) {
		return session.Forget, nil
	}
	return session.Save, nil
}
