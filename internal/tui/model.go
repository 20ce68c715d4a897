package tui

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"qaindex/internal/domain"
	"qaindex/internal/eval"
)

// QAPort is the TUI-facing subset of the QA service.
type QAPort interface {
	AnswerQuestion(question string) domain.Answer
	FindSimilar(question string, topK int) ([]domain.QueryResult, error)
}

// Model is the Bubble Tea model for the interactive shell.
type Model struct {
	service   QAPort
	topK      int
	threshold float64
	input     textinput.Model
	viewport  viewport.Model
	answer    *domain.Answer
	similar   []domain.QueryResult
	summary   string
	status    string
	cursor    int
	ready     bool
	lastQuery string
}

// New creates a new TUI model instance. topK similar questions are listed
// under every answer; threshold decides when rephrasing hints are shown.
func New(service QAPort, summary string, topK int, threshold float64) Model {
	if topK < 1 {
		topK = 3
	}
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Type a question and press Enter (q to quit)"
	ti.Focus()
	ti.CharLimit = 0
	vp := viewport.New(0, 0)
	return Model{
		service:   service,
		topK:      topK,
		threshold: threshold,
		input:     ti,
		viewport:  vp,
		summary:   summary,
		status:    "Index loaded. Ask a question.",
	}
}

// Init initializes the model (text input cursor blink).
func (m Model) Init() tea.Cmd { return textinput.Blink }

// Update handles key and window events and updates the view state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		// account for frames around result and query boxes
		_, rh := resultBoxStyle.GetFrameSize()
		_, qh := queryBoxStyle.GetFrameSize()
		totalHeaderLines := 2                                    // header + summary
		totalFooterLines := 1                                    // status
		reserved := totalHeaderLines + totalFooterLines + qh + 1 // 1 spacer
		vh := msg.Height - reserved
		if vh < 3 {
			vh = 3
		}
		m.viewport.Width = max(20, msg.Width)
		m.viewport.Height = max(3, vh-rh)
		m.viewport.SetContent(m.renderCurrentResult())
		return m, nil
	case tea.KeyMsg:
		// Global quits
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD {
			return m, tea.Quit
		}
		switch msg.String() {
		case "enter":
			q := strings.TrimSpace(m.input.Value())
			if strings.EqualFold(q, "q") {
				return m, tea.Quit
			}
			if q != "" {
				m = m.ask(q)
				m.input.SetValue("")
				m.viewport.SetContent(m.renderCurrentResult())
				return m, nil
			}
		case "down":
			if len(m.similar) > 0 {
				m.cursor = (m.cursor + 1) % len(m.similar)
				m.viewport.SetContent(m.renderCurrentResult())
				return m, nil
			}
		case "up":
			if len(m.similar) > 0 {
				m.cursor = (m.cursor - 1 + len(m.similar)) % len(m.similar)
				m.viewport.SetContent(m.renderCurrentResult())
				return m, nil
			}
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) ask(q string) Model {
	ans := m.service.AnswerQuestion(q)
	m.answer = &ans
	m.lastQuery = q
	m.cursor = 0
	res, err := m.service.FindSimilar(q, m.topK)
	if err != nil {
		m.status = "Error: " + err.Error()
		m.similar = nil
		return m
	}
	m.similar = res
	m.status = fmt.Sprintf("Answered %q", q)
	return m
}

// View renders the TUI layout and current result.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	header := lipgloss.NewStyle().Bold(true).Render("Reference QA")
	summary := lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Render(m.summary)
	input := queryBoxStyle.Render(m.input.View())
	status := lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Render(m.status)
	results := resultBoxStyle.Render(m.viewport.View())
	return header + "\n" + summary + "\n" + results + "\n" + input + "\n" + status
}

func (m Model) renderCurrentResult() string {
	if m.answer == nil {
		return "No questions asked yet."
	}
	a := *m.answer
	var b strings.Builder
	fmt.Fprintf(&b, "Question: %s\n", m.lastQuery)
	fmt.Fprintf(&b, "Answer:   %s\n\n", answerStyle.Render(a.Text))
	fmt.Fprintf(&b, "Source:     %s\n", a.Source)
	fmt.Fprintf(&b, "Confidence: %.1f%%\n", a.Confidence*100)
	fmt.Fprintf(&b, "Match:      %s\n", qualityLabel(a.Confidence))

	if len(m.similar) > 0 {
		b.WriteString("\nSimilar questions:\n")
		for i, r := range m.similar {
			line := fmt.Sprintf("%d. %s  (%.1f%%)", i+1, highlightTerms(r.Question, m.lastQuery), r.Similarity*100)
			if i == m.cursor {
				line = cursorStyle.Render(">") + " " + line
			} else {
				line = "  " + line
			}
			b.WriteString(line + "\n")
		}
		sel := m.similar[m.cursor]
		fmt.Fprintf(&b, "\n%s\n%s\n", hintStyle.Render(sel.Source), sel.Answer)
	}

	if a.Confidence < m.threshold {
		b.WriteString("\n" + hintStyle.Render("Try rephrasing the question:") + "\n")
		b.WriteString("- be more specific\n")
		b.WriteString("- use the domain terms of the reference documents\n")
		if len(m.similar) > 0 {
			b.WriteString("- compare with the wording of the similar questions above\n")
		}
	}
	return b.String()
}

func qualityLabel(confidence float64) string {
	switch eval.Bucket(confidence) {
	case eval.High:
		return "high"
	case eval.Medium:
		return "medium"
	default:
		return "low"
	}
}

var (
	resultBoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	queryBoxStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	highlightStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	answerStyle    = lipgloss.NewStyle().Bold(true)
	cursorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	hintStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	unicodeWordRe  = regexp.MustCompile(`[\p{L}\p{N}\p{M}_]+`)
)

// highlightTerms marks the words of text that also occur in query.
func highlightTerms(text, query string) string {
	qTokens := toTokenSet(query)
	if len(qTokens) == 0 {
		return text
	}
	return unicodeWordRe.ReplaceAllStringFunc(text, func(w string) string {
		if _, ok := qTokens[strings.ToLower(w)]; ok {
			return highlightStyle.Render(w)
		}
		return w
	})
}

func toTokenSet(s string) map[string]struct{} {
	tokens := unicodeWordRe.FindAllString(strings.ToLower(s), -1)
	m := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		m[t] = struct{}{}
	}
	return m
}
