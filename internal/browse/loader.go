package browse

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/amishk599/jobquery/internal/model"
)

var errCancelled = errors.New("cancelled")

type searchDoneMsg struct {
	env model.Envelope
}

type loaderModel struct {
	query    string
	searchFn func(ctx context.Context) model.Envelope
	ctx      context.Context
	cancel   context.CancelFunc
	spinner  spinner.Model
	result   model.Envelope
	err      error
	done     bool
}

func newLoaderModel(ctx context.Context, query string, searchFn func(ctx context.Context) model.Envelope) loaderModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("33"))
	ctx, cancel := context.WithCancel(ctx)
	return loaderModel{
		query:    query,
		searchFn: searchFn,
		ctx:      ctx,
		cancel:   cancel,
		spinner:  s,
	}
}

func (m loaderModel) Init() tea.Cmd {
	return tea.Batch(m.doSearch(), m.spinner.Tick)
}

func (m loaderModel) doSearch() tea.Cmd {
	ctx, searchFn := m.ctx, m.searchFn
	return func() tea.Msg {
		return searchDoneMsg{env: searchFn(ctx)}
	}
}

func (m loaderModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case searchDoneMsg:
		m.result = msg.env
		m.done = true
		return m, tea.Quit
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.cancel()
			m.done = true
			m.err = errCancelled
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m loaderModel) View() string {
	if m.done {
		return ""
	}
	return fmt.Sprintf("%s Searching for %q...\n", m.spinner.View(), m.query)
}

// RunLoader shows a spinner while searchFn runs. It renders inline (no alt screen).
func RunLoader(ctx context.Context, query string, searchFn func(ctx context.Context) model.Envelope) (model.Envelope, error) {
	m := newLoaderModel(ctx, query, searchFn)
	defer m.cancel()

	p := tea.NewProgram(m)
	result, err := p.Run()
	if err != nil {
		return model.Envelope{}, err
	}
	final := result.(loaderModel)
	return final.result, final.err
}
