package browse

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	promptTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("39")).
				Padding(1, 0, 1, 2)

	promptInputStyle = lipgloss.NewStyle().
				Padding(0, 0, 0, 2)

	promptHintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Padding(1, 0, 0, 2)

	promptErrorStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("196")).
				Padding(1, 0, 0, 2)
)

type promptModel struct {
	input  textinput.Model
	notice string // shown under the input, e.g. the last search's error
	query  string
	quit   bool
}

func newPromptModel(initial, notice string) promptModel {
	ti := textinput.New()
	ti.Placeholder = "remote data engineer jobs in Austin"
	ti.CharLimit = 500
	ti.Width = 60
	ti.SetValue(initial)
	ti.Focus()
	return promptModel{input: ti, notice: notice}
}

func (m promptModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m promptModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.quit = true
			return m, tea.Quit
		case tea.KeyEnter:
			q := strings.TrimSpace(m.input.Value())
			if q == "" {
				m.notice = "Type what you are looking for first."
				return m, nil
			}
			m.query = q
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m promptModel) View() string {
	s := promptTitleStyle.Render("Job Search - describe the job you want")
	s += "\n"
	s += promptInputStyle.Render(m.input.View())
	s += "\n"
	if m.notice != "" {
		s += promptErrorStyle.Render(m.notice) + "\n"
	}
	s += promptHintStyle.Render("enter search  esc quit")
	return s
}

// RunPrompt asks for a search query. It returns quit=true if the user left.
func RunPrompt(initial, notice string) (query string, quit bool, err error) {
	p := tea.NewProgram(newPromptModel(initial, notice))
	result, err := p.Run()
	if err != nil {
		return "", true, err
	}
	final := result.(promptModel)
	return final.query, final.quit, nil
}
