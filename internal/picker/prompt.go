package picker

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/tallysync/tallysync/internal/utils"
)

const (
	txtPlaceholder = "/path/to/directory"
	txtHelp        = "Press 'Enter' to select. 'Esc' to cancel."
	txtNotADir     = "not a directory: %s"
)

var (
	titleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("14")).Bold(true)
	inputStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	helpStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
)

// Prompt is a terminal DirectoryPicker. It shows a single text field,
// prefilled with Initial, and only accepts existing directories.
type Prompt struct {
	Initial string
	Input   io.Reader
	Output  io.Writer
}

func (p *Prompt) PickDirectory(ctx context.Context, title string) (string, bool, error) {
	opts := []tea.ProgramOption{tea.WithContext(ctx)}
	if p.Input != nil {
		opts = append(opts, tea.WithInput(p.Input))
	}
	if p.Output != nil {
		opts = append(opts, tea.WithOutput(p.Output))
	}

	final, err := tea.NewProgram(newPromptModel(title, p.Initial), opts...).Run()
	if err != nil {
		return "", false, fmt.Errorf("directory prompt: %w", err)
	}

	m, ok := final.(promptModel)
	if !ok || m.canceled || m.chosen == "" {
		return "", false, nil
	}
	return m.chosen, true, nil
}

type promptModel struct {
	title    string
	input    textinput.Model
	errMsg   string
	chosen   string
	canceled bool
}

func newPromptModel(title, initial string) promptModel {
	in := textinput.New()
	in.Placeholder = txtPlaceholder
	in.SetValue(initial)
	in.CursorEnd()
	in.Focus()
	in.Width = 72
	in.PromptStyle = inputStyle
	in.TextStyle = inputStyle

	return promptModel{title: title, input: in}
}

func (m promptModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m promptModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.canceled = true
			return m, tea.Quit
		case tea.KeyEnter:
			return m.submit()
		}
		m.errMsg = ""
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m promptModel) submit() (tea.Model, tea.Cmd) {
	path, err := utils.ResolvePath(m.input.Value())
	if err != nil {
		m.errMsg = err.Error()
		return m, nil
	}
	if !utils.DirExists(path) {
		m.errMsg = fmt.Sprintf(txtNotADir, path)
		return m, nil
	}
	m.chosen = path
	return m, tea.Quit
}

func (m promptModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(m.title))
	b.WriteString("\n\n")
	b.WriteString(m.input.View())
	if m.errMsg != "" {
		b.WriteString("\n\n")
		b.WriteString(errorStyle.Render(m.errMsg))
	}
	b.WriteString("\n\n")
	b.WriteString(helpStyle.Render(txtHelp))
	b.WriteString("\n")
	return b.String()
}
