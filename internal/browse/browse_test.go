package browse

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/amishk599/jobquery/internal/model"
)

func runeKey(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func testEnvelope() model.Envelope {
	return model.Envelope{
		Status: model.StatusSuccess,
		Data: []model.Row{
			model.Listing{ID: 1, Title: "Data Engineer", Company: "Acme", Location: "Austin, TX",
				Description: "Build pipelines", ApplyLinks: "['https://acme.test/apply', 'https://jobs.test/1']"}.Row(),
			model.Listing{ID: 2, Title: "Senior Data Engineer", Company: "Globex", Location: "Remote"}.Row(),
		},
		ParsedQuery: model.ParsedQuery{Terms: map[string][]string{"role": {"data engineer"}}},
	}
}

func sizedResults(t *testing.T) resultsModel {
	t.Helper()
	m := newResultsModel("data engineer", testEnvelope())
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	return updated.(resultsModel)
}

func TestListingFromRow(t *testing.T) {
	l := listingFromRow(model.Row{
		"TITLE":       "SRE",
		"COMPANY":     "Acme",
		"POSTED_DATE": nil,
		"ID":          int64(7),
	})
	if l.Title != "SRE" || l.Company != "Acme" {
		t.Errorf("listing = %+v", l)
	}
	if l.PostedDate != "" || l.Location != "" {
		t.Errorf("missing fields should be empty, got %+v", l)
	}
}

func TestResults_NavigateDetailAndBack(t *testing.T) {
	m := sizedResults(t)

	next, _ := m.Update(runeKey("j"))
	m = next.(resultsModel)
	if m.cursor != 1 {
		t.Fatalf("cursor = %d, want 1", m.cursor)
	}
	next, _ = m.Update(runeKey("j"))
	m = next.(resultsModel)
	if m.cursor != 1 {
		t.Fatalf("cursor should clamp at last item, got %d", m.cursor)
	}

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(resultsModel)
	if m.view != viewDetail {
		t.Fatal("enter should open the detail view")
	}
	if !strings.Contains(m.renderDetail(), "Globex") {
		t.Error("detail should show the selected listing")
	}

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m = next.(resultsModel)
	if m.view != viewList {
		t.Fatal("esc should return to the list")
	}
}

func TestResults_Actions(t *testing.T) {
	m := sizedResults(t)

	next, cmd := m.Update(runeKey("n"))
	if next.(resultsModel).action != ActionNewSearch || cmd == nil {
		t.Error("n should quit the results screen asking for a new search")
	}

	next, cmd = m.Update(runeKey("q"))
	if next.(resultsModel).action != ActionQuit || cmd == nil {
		t.Error("q should quit")
	}
}

func TestResults_EmptyResult(t *testing.T) {
	m := newResultsModel("nothing", model.Envelope{Status: model.StatusSuccess})
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	m = updated.(resultsModel)

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if next.(resultsModel).view != viewList {
		t.Error("enter on an empty list should stay on the list")
	}
	if !strings.Contains(m.View(), "no matching jobs") {
		t.Error("empty result should say so")
	}
}

func TestPrompt_RequiresQuery(t *testing.T) {
	m := newPromptModel("", "")

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	pm := next.(promptModel)
	if pm.query != "" || pm.notice == "" {
		t.Errorf("blank enter: query=%q notice=%q", pm.query, pm.notice)
	}

	m = newPromptModel("  devops in Denver ", "")
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	pm = next.(promptModel)
	if pm.query != "devops in Denver" || cmd == nil {
		t.Errorf("query = %q, want trimmed value and quit", pm.query)
	}
}

func TestFirstURL(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"https://acme.test/apply", "https://acme.test/apply"},
		{"['https://a.test/x', 'https://b.test/y']", "https://a.test/x"},
		{`["http://a.test"]`, "http://a.test"},
		{"apply on site", ""},
		{"", ""},
	}
	for _, tt := range tests {
		if got := firstURL(tt.in); got != tt.want {
			t.Errorf("firstURL(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestWordWrap(t *testing.T) {
	got := wordWrap("build and run data pipelines", 10)
	for _, line := range strings.Split(got, "\n") {
		if len(line) > 10 {
			t.Errorf("line %q exceeds width", line)
		}
	}
	if wordWrap("   ", 10) != "" {
		t.Error("blank text should wrap to empty")
	}
}
