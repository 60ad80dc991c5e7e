package browse

import (
	"encoding/json"
	"fmt"
	"os/exec"
	"runtime"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/amishk599/jobquery/internal/model"
)

// Lines per listing in the list view (title + subtitle + blank separator).
const listingItemHeight = 3

type viewState int

const (
	viewList viewState = iota
	viewDetail
)

// Action is what the user chose when leaving the results screen.
type Action int

const (
	ActionNewSearch Action = iota
	ActionQuit
)

var (
	borderStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("39")) // bright blue

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Padding(0, 1).
			Foreground(lipgloss.Color("39"))

	statusBarStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Foreground(lipgloss.Color("252")).
			Background(lipgloss.Color("236"))

	listingTitleStyle = lipgloss.NewStyle().
				Bold(true)

	listingSubtitleStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("245"))

	selectedTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("15")). // bright white
				Background(lipgloss.Color("24"))  // dark blue bg

	selectedSubtitleStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("252")).
				Background(lipgloss.Color("24"))

	detailLabelStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("39")).
				Width(12)

	detailTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("15")).
				MarginBottom(1)

	dividerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	bodyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))
)

// listing is the display form of one result row.
type listing struct {
	Title         string
	Company       string
	Location      string
	Description   string
	JobHighlights string
	PostedDate    string
	ApplyLinks    string
}

func listingFromRow(r model.Row) listing {
	field := func(col string) string {
		v, ok := r[col]
		if !ok || v == nil {
			return ""
		}
		return strings.TrimSpace(fmt.Sprint(v))
	}
	return listing{
		Title:         field(model.ColumnTitle),
		Company:       field(model.ColumnCompany),
		Location:      field(model.ColumnLocation),
		Description:   field(model.ColumnDescription),
		JobHighlights: field(model.ColumnJobHighlights),
		PostedDate:    field(model.ColumnPostedDate),
		ApplyLinks:    field(model.ColumnApplyLinks),
	}
}

type resultsModel struct {
	query    string
	parsed   string // compact JSON of the parsed query
	listings []listing
	list     viewport.Model
	cursor   int
	width    int
	height   int
	ready    bool

	view   viewState
	detail viewport.Model

	action Action
}

func newResultsModel(query string, env model.Envelope) resultsModel {
	listings := make([]listing, len(env.Data))
	for i, r := range env.Data {
		listings[i] = listingFromRow(r)
	}
	parsed, _ := json.Marshal(env.ParsedQuery)
	return resultsModel{
		query:    query,
		parsed:   string(parsed),
		listings: listings,
		action:   ActionQuit,
	}
}

func (m resultsModel) Init() tea.Cmd {
	return nil
}

func (m resultsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.recalcLayout()
		if m.view == viewDetail {
			m.detail.Width = m.width - 4
			m.detail.Height = m.height - 4
			m.detail.SetContent(m.renderDetail())
		}
		return m, nil

	case tea.KeyMsg:
		if m.view == viewDetail {
			return m.updateDetailView(msg)
		}
		return m.updateListView(msg)
	}
	return m, nil
}

func (m resultsModel) updateListView(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		m.action = ActionQuit
		return m, tea.Quit
	case "esc", "n", "/":
		m.action = ActionNewSearch
		return m, tea.Quit
	case "up", "k":
		m.moveCursor(-1)
		return m, nil
	case "down", "j":
		m.moveCursor(1)
		return m, nil
	case "enter":
		return m.openDetailView()
	}

	// Forward other keys (pgup/pgdn/home/end) to the list viewport.
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m resultsModel) updateDetailView(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		m.action = ActionQuit
		return m, tea.Quit
	case "esc", "backspace", "b":
		m.view = viewList
		return m, nil
	case "o":
		if u := firstURL(m.listings[m.cursor].ApplyLinks); u != "" {
			openURL(u)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.detail, cmd = m.detail.Update(msg)
	return m, cmd
}

func (m *resultsModel) moveCursor(delta int) {
	m.cursor = clamp(m.cursor+delta, 0, max(len(m.listings)-1, 0))
	m.list.SetContent(renderListings(m.listings, m.cursor))

	top := m.cursor * listingItemHeight
	bottom := top + listingItemHeight - 1
	if top < m.list.YOffset {
		m.list.SetYOffset(top)
	} else if bottom >= m.list.YOffset+m.list.Height {
		m.list.SetYOffset(bottom - m.list.Height + 1)
	}
}

func (m resultsModel) openDetailView() (tea.Model, tea.Cmd) {
	if len(m.listings) == 0 {
		return m, nil
	}
	m.view = viewDetail
	m.detail = viewport.New(max(m.width-4, 20), max(m.height-4, 5))
	m.detail.SetContent(m.renderDetail())
	return m, nil
}

func (m *resultsModel) recalcLayout() {
	// Header (1 line) + border top/bottom (2) + status bar (1) = 4 lines overhead.
	width := max(m.width-4, 20)
	height := max(m.height-4, 5)

	if !m.ready {
		m.list = viewport.New(width, height)
		m.ready = true
	} else {
		m.list.Width = width
		m.list.Height = height
	}
	m.list.SetContent(renderListings(m.listings, m.cursor))
}

func (m resultsModel) View() string {
	if !m.ready {
		return "Initializing..."
	}
	if m.view == viewDetail {
		return m.viewDetail()
	}
	return m.viewList()
}

func (m resultsModel) viewList() string {
	header := headerStyle.Render(fmt.Sprintf("%q - %d result(s)", m.query, len(m.listings)))
	pane := borderStyle.Width(m.list.Width).Render(m.list.View())

	statusText := fmt.Sprintf(" %s    ↑/↓ cursor  enter detail  n/esc new search  q quit", m.parsed)
	statusBar := statusBarStyle.Width(m.width).Render(truncate(statusText, m.width))

	return header + "\n" + pane + "\n" + statusBar
}

func (m resultsModel) viewDetail() string {
	title := detailTitleStyle.Render("Job Details")
	content := borderStyle.Width(m.width - 2).Render(m.detail.View())

	statusText := " esc/backspace back  ↑/↓ scroll  q quit"
	if firstURL(m.listings[m.cursor].ApplyLinks) != "" {
		statusText = " o open apply link  esc/backspace back  ↑/↓ scroll  q quit"
	}
	statusBar := statusBarStyle.Width(m.width).Render(statusText)

	return title + "\n" + content + "\n" + statusBar
}

func (m resultsModel) renderDetail() string {
	l := m.listings[m.cursor]
	var b strings.Builder

	addField := func(label, value string) {
		if value == "" {
			return
		}
		b.WriteString(detailLabelStyle.Render(label))
		b.WriteString(value)
		b.WriteByte('\n')
	}

	addField("Title", l.Title)
	addField("Company", l.Company)
	addField("Location", l.Location)
	addField("Posted", l.PostedDate)

	wrapWidth := max(m.width-8, 20)
	section := func(label, body string) {
		if body == "" {
			return
		}
		fill := strings.Repeat("─", max(wrapWidth-len(label), 3))
		b.WriteByte('\n')
		b.WriteString(dividerStyle.Render(label+fill) + "\n\n")
		b.WriteString(bodyStyle.Render(wordWrap(body, wrapWidth)) + "\n")
	}
	section("── Highlights ", l.JobHighlights)
	section("── Description ", l.Description)
	section("── Apply ", l.ApplyLinks)

	return b.String()
}

func renderListings(listings []listing, cursor int) string {
	if len(listings) == 0 {
		return "  (no matching jobs)"
	}

	var b strings.Builder
	for i, l := range listings {
		titleSt := listingTitleStyle
		subtitleSt := listingSubtitleStyle
		prefix := "  "
		if i == cursor {
			titleSt = selectedTitleStyle
			subtitleSt = selectedSubtitleStyle
			prefix = "> "
		}

		b.WriteString(prefix)
		b.WriteString(titleSt.Render(l.Title))
		b.WriteByte('\n')

		posted := l.PostedDate
		if posted == "" {
			posted = "n/a"
		}
		b.WriteString(prefix)
		b.WriteString(subtitleSt.Render(fmt.Sprintf("%s · %s · %s", l.Company, l.Location, posted)))
		b.WriteByte('\n')

		if i < len(listings)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// firstURL returns the first http(s) URL in s, trimming list punctuation.
func firstURL(s string) string {
	for _, f := range strings.FieldsFunc(s, func(r rune) bool {
		return r == ' ' || r == ',' || r == '\n' || r == '[' || r == ']' || r == '"' || r == '\''
	}) {
		if strings.HasPrefix(f, "http://") || strings.HasPrefix(f, "https://") {
			return f
		}
	}
	return ""
}

func wordWrap(text string, width int) string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return ""
	}
	var lines []string
	line := words[0]
	for _, w := range words[1:] {
		if len(line)+1+len(w) <= width {
			line += " " + w
		} else {
			lines = append(lines, line)
			line = w
		}
	}
	lines = append(lines, line)
	return strings.Join(lines, "\n")
}

func truncate(s string, width int) string {
	r := []rune(s)
	if width <= 0 || len(r) <= width {
		return s
	}
	return string(r[:max(width-1, 0)]) + "…"
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// openURL opens url in the default system browser, fire-and-forget.
func openURL(url string) {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "linux":
		cmd = exec.Command("xdg-open", url)
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", url)
	default:
		return
	}
	_ = cmd.Start()
}

// RunResults shows the result list and detail views in the alt screen.
func RunResults(query string, env model.Envelope) (Action, error) {
	p := tea.NewProgram(newResultsModel(query, env), tea.WithAltScreen())
	result, err := p.Run()
	if err != nil {
		return ActionQuit, err
	}
	return result.(resultsModel).action, nil
}
