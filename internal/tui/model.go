// Package tui provides the Bubble Tea cryptanalysis workbench.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog/log"

	"github.com/verte-zerg/cipherlab/internal/attack"
	"github.com/verte-zerg/cipherlab/internal/stats"
	"github.com/verte-zerg/cipherlab/internal/wordlist"
)

const (
	tabWorkbench = iota
	tabFrequencies
	tabGuessMap
	tabOutput
)

var (
	activeNavStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F0F0F0")).
			Bold(true).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A"))
	inactiveNavStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#B0B0B0")).
				Padding(0, 1).
				Border(lipgloss.RoundedBorder(), true).
				BorderForeground(lipgloss.Color("#4A4A4A"))
	knownStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	unknownStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	maskStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	headerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C")).Bold(true)
	footerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
)

type segmentChoice struct {
	name string
	seg  *stats.Segment
}

func segmentChoices() []segmentChoice {
	subst := stats.SubstitutionSegment
	caesar := stats.CaesarSegment
	return []segmentChoice{
		{name: "substitution", seg: &subst},
		{name: "caesar", seg: &caesar},
		{name: "all text", seg: nil},
	}
}

var kinds = []stats.Kind{stats.Unigram, stats.Digram, stats.Trigram}

// Model implements the Bubble Tea workbench over an attack session.
type Model struct {
	interp  *attack.Interpreter
	onScore func(wordlist.ScoreResult)

	tabs      []string
	activeTab int
	viewports []viewport.Model
	freqTable table.Model
	input     textinput.Model

	segments  []segmentChoice
	segIndex  int
	kindIndex int

	lastScore *wordlist.ScoreResult
	status    string
	errMsg    string
	output    string

	width  int
	height int
}

// NewModel builds the workbench. onScore, when set, receives every
// dictionary score produced by a command.
func NewModel(in *attack.Interpreter, onScore func(wordlist.ScoreResult)) *Model {
	m := &Model{
		interp:   in,
		onScore:  onScore,
		tabs:     []string{"Workbench", "Frequencies", "Guess map", "Output"},
		segments: segmentChoices(),
		status:   "Type a command, 'h' for help.",
	}
	m.viewports = make([]viewport.Model, len(m.tabs))
	for i := range m.viewports {
		m.viewports[i] = viewport.New(0, 0)
	}
	m.input = newCommandInput()
	m.freqTable = buildFreqTable(nil, 0, 1)
	return m
}

func newCommandInput() textinput.Model {
	input := textinput.New()
	input.Prompt = "> "
	input.Placeholder = "g <cipher> <plain>"
	input.CharLimit = 0
	input.Cursor.SetMode(cursor.CursorBlink)
	input.Focus()
	return input
}

func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.Width = maxInt(1, m.width-len(m.input.Prompt)-1)
		m.refresh()
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		case "tab":
			m.moveTab(1)
			return m, nil
		case "shift+tab":
			m.moveTab(-1)
			return m, nil
		case "f2":
			m.segIndex = (m.segIndex + 1) % len(m.segments)
			m.refreshFrequencies()
			return m, nil
		case "f3":
			m.kindIndex = (m.kindIndex + 1) % len(kinds)
			m.refreshFrequencies()
			return m, nil
		case "up", "down", "pgup", "pgdown":
			return m, m.scroll(msg)
		case "enter":
			return m, m.submit()
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	headerHeight, bodyHeight, footerHeight := m.layoutHeights()
	header := fitLines(m.renderTabs(), m.width, headerHeight)
	var body string
	if m.activeTab == tabFrequencies {
		body = m.freqTable.View()
	} else {
		body = m.viewports[m.activeTab].View()
	}
	body = fitLines(body, m.width, bodyHeight)
	footer := fitLines(m.renderBottom(), m.width, footerHeight)
	return strings.Join([]string{header, body, footer}, "\n")
}

func (m *Model) submit() tea.Cmd {
	line := strings.TrimSpace(m.input.Value())
	m.input.Reset()
	if line == "" {
		return nil
	}
	res, err := m.interp.Exec(line)
	if err != nil {
		m.errMsg = err.Error()
		log.Debug().Err(err).Str("command", line).Msg("command failed")
		return nil
	}
	m.errMsg = ""
	if res.Quit {
		return tea.Quit
	}
	if res.Score != nil {
		score := *res.Score
		m.lastScore = &score
		if m.onScore != nil {
			m.onScore(score)
		}
	}
	m.status = firstLine(res.Output)
	if !res.Mutated && strings.Contains(strings.TrimRight(res.Output, "\n"), "\n") {
		m.output = res.Output
		m.activeTab = tabOutput
	}
	m.refresh()
	return nil
}

func (m *Model) moveTab(delta int) {
	n := len(m.tabs)
	m.activeTab = (m.activeTab + delta + n) % n
}

func (m *Model) scroll(msg tea.KeyMsg) tea.Cmd {
	var cmd tea.Cmd
	if m.activeTab == tabFrequencies {
		m.freqTable, cmd = m.freqTable.Update(msg)
		return cmd
	}
	m.viewports[m.activeTab], cmd = m.viewports[m.activeTab].Update(msg)
	return cmd
}

func (m *Model) layoutHeights() (headerHeight, bodyHeight, footerHeight int) {
	headerHeight = lipgloss.Height(activeNavStyle.Render("X"))
	if headerHeight < 1 {
		headerHeight = 1
	}
	footerHeight = 3
	bodyHeight = m.height - headerHeight - footerHeight
	if bodyHeight < 1 {
		bodyHeight = 1
	}
	return headerHeight, bodyHeight, footerHeight
}

func (m *Model) refresh() {
	_, bodyHeight, _ := m.layoutHeights()
	for i := range m.viewports {
		m.viewports[i].Width = m.width
		m.viewports[i].Height = bodyHeight
	}
	m.viewports[tabWorkbench].SetContent(m.renderWorkbench())
	m.viewports[tabGuessMap].SetContent(m.renderGuessMap())
	m.viewports[tabOutput].SetContent(m.output)
	m.refreshFrequencies()
}

func (m *Model) refreshFrequencies() {
	_, bodyHeight, _ := m.layoutHeights()
	choice := m.segments[m.segIndex]
	t := m.interp.Session.Frequency(kinds[m.kindIndex], choice.seg)
	m.freqTable = buildFreqTable(m.freqRows(t), m.width, bodyHeight)
}

func (m *Model) freqRows(t *stats.Table) []table.Row {
	total := t.Total()
	guesses := m.interp.Session.GuessMap()
	rows := make([]table.Row, 0, t.Len())
	for _, e := range t.Sorted() {
		if e.Count == 0 {
			continue
		}
		share := 0.0
		if total > 0 {
			share = 100 * float64(e.Count) / float64(total)
		}
		plain := "-"
		if len(e.Symbol) == 1 {
			if p, ok := guesses.Lookup(e.Symbol[0]); ok {
				plain = string(p)
			}
		}
		rows = append(rows, table.Row{
			e.Symbol,
			fmt.Sprintf("%d", e.Count),
			fmt.Sprintf("%.1f%%", share),
			plain,
		})
	}
	return rows
}

func buildFreqTable(rows []table.Row, width, height int) table.Model {
	columns := []table.Column{
		{Title: "Symbol", Width: 8},
		{Title: "Count", Width: 8},
		{Title: "Share", Width: 8},
		{Title: "Guess", Width: 8},
	}
	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithHeight(maxInt(1, height-1)),
		table.WithFocused(true),
	)
	t.SetWidth(width)
	t.SetStyles(tableStyles())
	return t
}

func (m *Model) renderTabs() string {
	parts := make([]string, 0, len(m.tabs))
	for i, tab := range m.tabs {
		if i == m.activeTab {
			parts = append(parts, activeNavStyle.Render(tab))
		} else {
			parts = append(parts, inactiveNavStyle.Render(tab))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m *Model) renderWorkbench() string {
	s := m.interp.Session
	var b strings.Builder
	b.WriteString(headerStyle.Render("Context (Caesar segments masked)"))
	b.WriteString("\n")
	b.WriteString(wrapStyledRunes(buildStyledRunes(s.ContextView()), m.width))
	b.WriteString("\n\n")
	b.WriteString(headerStyle.Render("Full attempt"))
	b.WriteString("\n")
	b.WriteString(wrapStyledRunes(buildStyledRunes(s.FullAttempt()), m.width))
	if m.lastScore != nil {
		b.WriteString("\n\n")
		b.WriteString(m.lastScore.String())
	}
	return b.String()
}

func (m *Model) renderGuessMap() string {
	g := m.interp.Session.GuessMap()
	var b strings.Builder
	b.WriteString(headerStyle.Render(fmt.Sprintf("Guess map (cipher -> plain), %d of 26 known", g.Known())))
	b.WriteString("\n")
	b.WriteString(g.Format(attack.GuessMapPerLine))
	sugg := m.interp.Session.Suggest(0)
	if len(sugg) > 0 {
		b.WriteString("\n\n")
		b.WriteString(headerStyle.Render("Suggested (substitution segments vs English)"))
		for _, sg := range sugg {
			fmt.Fprintf(&b, "\n  %s (%d) -> %c", sg.Cipher, sg.Count, sg.Plain)
		}
	}
	return b.String()
}

func (m *Model) renderBottom() string {
	msg := footerStyle.Render(truncateLine(m.status, m.width))
	if m.errMsg != "" {
		msg = errorStyle.Render(truncateLine("Error: "+m.errMsg, m.width))
	}
	lines := []string{
		m.input.View(),
		msg,
		footerStyle.Render(truncateLine(m.renderFooter(), m.width)),
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderFooter() string {
	s := m.interp.Session
	resolved := 0
	blocks := s.Attempt()
	for _, b := range blocks {
		if b.Resolved() {
			resolved++
		}
	}
	dict := "unavailable"
	if s.DictionaryLoaded() {
		dict = fmt.Sprintf("%d words", s.DictionarySize())
	}
	score := "-"
	if m.lastScore != nil {
		score = fmt.Sprintf("%d", m.lastScore.Score)
	}
	choice := m.segments[m.segIndex]
	return fmt.Sprintf("Known %d/26 · Resolved %d/%d blocks · Dictionary %s · Score %s · Freq %s %s (F2/F3) · Tab switch · Esc quit",
		s.GuessMap().Known(), resolved, len(blocks), dict, score, kinds[m.kindIndex], choice.name)
}

func firstLine(s string) string {
	s = strings.TrimLeft(s, "\n")
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
