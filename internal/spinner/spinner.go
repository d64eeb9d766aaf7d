// Package spinner shows a progress spinner on a terminal while work runs.
package spinner

import (
	"context"
	"io"
	"os"

	"github.com/apex/log"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

type doneMsg struct{}

type model struct {
	spinner spinner.Model
	message string
	done    bool
}

func (m model) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case doneMsg:
		m.done = true
		return m, tea.Quit
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m model) View() string {
	// Clear the line once finished so the report starts on a clean terminal
	if m.done {
		return ""
	}
	return m.spinner.View() + " " + m.message
}

// Enabled reports whether w is a terminal the spinner can draw on
func Enabled(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Run calls fn while a spinner with message animates on w. When w is not
// a terminal fn runs without any output.
func Run(ctx context.Context, w io.Writer, message string, fn func(context.Context) error) error {
	if !Enabled(w) {
		return fn(ctx)
	}

	s := spinner.New(
		spinner.WithSpinner(spinner.Dot),
		spinner.WithStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("6"))),
	)

	program := tea.NewProgram(
		model{spinner: s, message: message},
		tea.WithOutput(w),
		tea.WithInput(nil),
		tea.WithoutSignalHandler(),
	)

	errCh := make(chan error, 1)
	go func() {
		errCh <- fn(ctx)
		program.Send(doneMsg{})
	}()

	// A spinner failure is cosmetic; fn's result decides the outcome
	if _, err := program.Run(); err != nil {
		log.WithError(err).Debug("spinner stopped")
	}
	return <-errCh
}
