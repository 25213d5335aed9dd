package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/labelforge/labelforge/pkg/export"
)

// progressBarWidth is the character width of the export progress bar.
const progressBarWidth = 30

// =============================================================================
// ProgressModel - Export progress bar
// =============================================================================

// progressMsg carries an updated completion percentage.
type progressMsg int

// taskDoneMsg signals the tracked operation finished.
type taskDoneMsg struct{ err error }

// progressModel is the bubbletea model for a single progress bar.
type progressModel struct {
	title    string
	percent  int
	done     bool
	err      error
	canceled bool
}

func newProgressModel(title string) progressModel {
	return progressModel{title: title}
}

func (m progressModel) Init() tea.Cmd {
	return nil
}

func (m progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case progressMsg:
		m.percent = int(msg)
		if m.percent > 100 {
			m.percent = 100
		}
	case taskDoneMsg:
		m.done = true
		m.err = msg.err
		return m, tea.Quit
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.canceled = true
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m progressModel) View() string {
	if m.done || m.canceled {
		return ""
	}
	filled := m.percent * progressBarWidth / 100
	bar := styleBarFilled.Render(strings.Repeat("█", filled)) +
		styleBarEmpty.Render(strings.Repeat("░", progressBarWidth-filled))
	return fmt.Sprintf("%s %s %3d%%\n", StyleDim.Render(m.title), bar, m.percent)
}

// runWithProgress runs fn while showing a progress bar on stderr. fn
// receives a reporter to feed; the bar is torn down when fn returns.
func (c *CLI) runWithProgress(title string, fn func(export.ProgressFunc) error) error {
	prog := tea.NewProgram(newProgressModel(title), tea.WithOutput(os.Stderr))

	go func() {
		err := fn(func(percent int) {
			prog.Send(progressMsg(percent))
		})
		prog.Send(taskDoneMsg{err: err})
	}()

	final, err := prog.Run()
	if err != nil {
		return err
	}
	if m, ok := final.(progressModel); ok {
		if m.canceled {
			printError("%s canceled", title)
			return context.Canceled
		}
		return m.err
	}
	return nil
}
