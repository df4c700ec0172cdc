package cli

import (
	"fmt"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// spinnerDoneMsg tells the waitSpinner program the background work it was
// displayed for has finished, successfully or not.
type spinnerDoneMsg struct{}

// waitSpinner is a minimal bubbletea program shown while a blocking call
// (the loopback listener waiting on the browser redirect) runs on another
// goroutine.
type waitSpinner struct {
	spinner spinner.Model
	message string
}

func newWaitSpinner(message string) waitSpinner {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	return waitSpinner{spinner: s, message: message}
}

func (m waitSpinner) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m waitSpinner) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinnerDoneMsg:
		return m, tea.Quit
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.String() == "q" {
			return m, tea.Quit
		}
		return m, nil
	default:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
}

func (m waitSpinner) View() string {
	return fmt.Sprintf("%s %s\n", m.spinner.View(), m.message)
}
