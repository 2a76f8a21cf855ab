// Package statsui provides the Bubble Tea statistics dashboard.
package statsui

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/speedrd/rapida/internal/achievement"
	"github.com/speedrd/rapida/internal/model"
	"github.com/speedrd/rapida/internal/stats"
	"github.com/speedrd/rapida/internal/store"
)

const (
	tabOverview = iota
	tabHistory
	tabAchievements
)

const progressWindowDays = 30

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
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	cardStyle   = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A"))
	cardTitleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	cardValueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	tableMutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#B8B8B8"))
	unlockedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	lockedStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
)

// Model implements the Bubble Tea stats dashboard.
type Model struct {
	store    *store.Store
	statsSvc *stats.Service
	eval     *achievement.Evaluator
	userID   string

	statistics model.Statistics
	profile    *model.UserProfile
	progress   []model.SessionSummary
	errMsg     string

	tabs         []string
	activeTab    int
	viewports    []viewport.Model
	historyTable table.Model

	width  int
	height int
}

// NewModel constructs a stats dashboard model.
func NewModel(st *store.Store, statsSvc *stats.Service, eval *achievement.Evaluator, userID string) *Model {
	m := &Model{
		store:    st,
		statsSvc: statsSvc,
		eval:     eval,
		userID:   userID,
		tabs:     []string{"Overview", "History", "Achievements"},
	}
	m.initViewports()
	m.historyTable = buildHistoryTable(nil, 0, 1)
	m.refresh()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateLayout()
		m.renderTabContents()
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.String() == "q" || msg.Type == tea.KeyEsc {
			return m, tea.Quit
		}
		switch msg.String() {
		case "left", "h":
			m.moveTab(-1)
			return m, tea.ClearScreen
		case "right", "l":
			m.moveTab(1)
			return m, tea.ClearScreen
		case "g", "home":
			if m.activeTab == tabHistory {
				m.historyTable.GotoTop()
			} else {
				m.viewports[m.activeTab].GotoTop()
			}
			return m, nil
		case "G", "end":
			if m.activeTab == tabHistory {
				m.historyTable.GotoBottom()
			} else {
				m.viewports[m.activeTab].GotoBottom()
			}
			return m, nil
		default:
			if m.activeTab == tabHistory {
				var cmd tea.Cmd
				m.historyTable, cmd = m.historyTable.Update(msg)
				return m, cmd
			}
			vp := m.viewports[m.activeTab]
			var cmd tea.Cmd
			vp, cmd = vp.Update(msg)
			m.viewports[m.activeTab] = vp
			return m, cmd
		}
	}
	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	headerHeight, bodyHeight, footerHeight := m.layoutHeights()
	header := fitLines(m.renderHeader(), m.width, headerHeight)
	body := fitLines(m.renderBody(), m.width, bodyHeight)
	footer := fitLines(m.renderFooter(), m.width, footerHeight)
	return strings.Join([]string{header, body, footer}, "\n")
}

func (m *Model) initViewports() {
	m.viewports = make([]viewport.Model, len(m.tabs))
	for i := range m.viewports {
		m.viewports[i] = viewport.New(0, 0)
	}
}

func (m *Model) layoutHeights() (headerHeight, bodyHeight, footerHeight int) {
	tabsHeight := lipgloss.Height(activeNavStyle.Render("X"))
	if tabsHeight < 1 {
		tabsHeight = 1
	}
	headerHeight = tabsHeight
	footerHeight = 1
	if m.errMsg != "" {
		footerHeight++
	}
	bodyHeight = m.height - headerHeight - footerHeight
	if bodyHeight < 1 {
		bodyHeight = 1
	}
	return headerHeight, bodyHeight, footerHeight
}

func (m *Model) updateLayout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	_, bodyHeight, _ := m.layoutHeights()
	for i := range m.viewports {
		m.viewports[i].Width = m.width
		m.viewports[i].Height = bodyHeight
	}
	m.historyTable.SetWidth(m.width)
	m.historyTable.SetHeight(maxInt(1, bodyHeight-1))
}

func (m *Model) moveTab(delta int) {
	count := len(m.tabs)
	next := m.activeTab + delta
	if next < 0 {
		next = count - 1
	}
	if next >= count {
		next = 0
	}
	m.activeTab = next
	if m.activeTab == tabHistory {
		m.historyTable.Focus()
	} else {
		m.historyTable.Blur()
	}
}

func (m *Model) refresh() {
	ctx := context.Background()
	statistics, err := m.statsSvc.Compute(ctx, m.userID)
	if err != nil {
		m.errMsg = err.Error()
		return
	}
	m.statistics = statistics

	profile, err := m.store.GetProfile(ctx, m.userID)
	if err != nil {
		m.errMsg = err.Error()
		return
	}
	m.profile = profile

	progress, err := m.statsSvc.Progress(ctx, m.userID, progressWindowDays)
	if err != nil {
		m.errMsg = err.Error()
		return
	}
	m.progress = progress

	unlocks, err := m.store.ListUnlocks(ctx, m.userID)
	if err != nil {
		m.errMsg = err.Error()
		return
	}
	restored := make(map[string]achievement.Unlock, len(unlocks))
	for id, u := range unlocks {
		restored[id] = achievement.Unlock{UnlockedAt: u.UnlockedAt, Value: u.Value}
	}
	m.eval.Restore(restored)

	m.errMsg = ""
	_, bodyHeight, _ := m.layoutHeights()
	m.historyTable = buildHistoryTable(m.statistics.History, m.width, bodyHeight)
	m.renderTabContents()
}

func (m *Model) renderTabContents() {
	if len(m.viewports) == 0 {
		return
	}
	if m.errMsg != "" {
		for i := range m.viewports {
			m.viewports[i].SetContent("Failed to load stats.")
		}
		return
	}
	width := m.width
	if width <= 0 {
		width = 80
	}
	m.viewports[tabOverview].SetContent(m.renderOverview(width))
	m.viewports[tabAchievements].SetContent(m.renderAchievements())
}

func (m *Model) renderHeader() string {
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

func (m *Model) renderFooter() string {
	help := headerStyle.Render("Nav: left/right  Scroll: up/down/pgup/pgdn  Quit: q")
	if m.errMsg != "" {
		return help + "\n" + errorStyle.Render(m.errMsg)
	}
	return help
}

func (m *Model) renderBody() string {
	_, bodyHeight, _ := m.layoutHeights()
	if m.activeTab == tabHistory {
		if len(m.statistics.History) == 0 {
			return fitLines("No sessions recorded yet.", m.width, bodyHeight)
		}
		view := tableMutedStyle.Render(m.historyTable.View())
		return fitLines(view, m.width, bodyHeight)
	}
	return fitLines(m.viewports[m.activeTab].View(), m.width, bodyHeight)
}

func (m *Model) renderOverview(width int) string {
	if m.statistics.TotalSessions == 0 {
		return "No sessions recorded yet. Run a training session first."
	}
	cards := m.renderSummaryCards(width)
	chart := m.renderChart(width)
	return strings.TrimRight(cards+"\n\n"+chart, "\n")
}

func (m *Model) renderSummaryCards(width int) string {
	st := m.statistics
	streak := 0
	longest := 0
	if m.profile != nil {
		streak = m.profile.CurrentStreak
		longest = m.profile.LongestStreak
	}
	cards := []string{
		metricCard("Sessions", fmt.Sprintf("%d", st.TotalSessions)),
		metricCard("Words read", fmt.Sprintf("%d", st.TotalWordsRead)),
		metricCard("Current WPM", fmt.Sprintf("%d", st.CurrentWPM)),
		metricCard("Best WPM", fmt.Sprintf("%d", st.BestWPM)),
		metricCard("Avg comp", fmt.Sprintf("%.0f%%", st.AverageComprehension*100)),
		metricCard("Streak", fmt.Sprintf("%d (best %d)", streak, longest)),
	}
	if width < 80 {
		return strings.Join(cards, "\n")
	}
	row1 := lipgloss.JoinHorizontal(lipgloss.Top, cards[0], cards[1], cards[2])
	row2 := lipgloss.JoinHorizontal(lipgloss.Top, cards[3], cards[4], cards[5])
	return lipgloss.JoinVertical(lipgloss.Left, row1, row2)
}

func metricCard(label, value string) string {
	content := fmt.Sprintf("%s\n%s", cardTitleStyle.Render(label), cardValueStyle.Render(value))
	return cardStyle.Render(content)
}

func (m *Model) renderChart(width int) string {
	if len(m.progress) == 0 {
		return headerStyle.Render(fmt.Sprintf("No sessions in the last %d days.", progressWindowDays))
	}
	header := headerStyle.Render(fmt.Sprintf("Speed, last %d days", progressWindowDays))
	var buf bytes.Buffer
	if err := stats.RenderSpeedChart(&buf, m.progress, 3, width); err != nil {
		return fmt.Sprintf("Failed to render chart: %v", err)
	}
	return header + "\n" + strings.TrimRight(buf.String(), "\n")
}

func (m *Model) renderAchievements() string {
	achievements := m.eval.Achievements()
	lines := make([]string, 0, len(achievements)+4)
	lines = append(lines, headerStyle.Render(fmt.Sprintf("Unlocked %d of %d", m.eval.UnlockedCount(), m.eval.TotalCount())), "")
	var lastCategory achievement.Category
	for _, a := range achievements {
		if a.Category != lastCategory {
			if lastCategory != "" {
				lines = append(lines, "")
			}
			lines = append(lines, cardTitleStyle.Render(string(a.Category)))
			lastCategory = a.Category
		}
		lines = append(lines, renderAchievementLine(a))
	}
	return strings.Join(lines, "\n")
}

func renderAchievementLine(a achievement.Achievement) string {
	title := achievementTitle(a.ID)
	if a.Unlocked {
		when := ""
		if a.UnlockedAt != nil {
			when = a.UnlockedAt.Format("2006-01-02")
		}
		return unlockedStyle.Render(fmt.Sprintf("[x] %-24s %s", title, when))
	}
	return lockedStyle.Render(fmt.Sprintf("[ ] %-24s %3.0f%%", title, a.Progress*100))
}

// achievementTitle renders a readable fallback from the achievement id.
func achievementTitle(id string) string {
	parts := strings.Split(id, "_")
	for i, part := range parts {
		if part == "" {
			continue
		}
		parts[i] = strings.ToUpper(part[:1]) + part[1:]
	}
	return strings.Join(parts, " ")
}

func buildHistoryTable(history []model.SessionSummary, width, height int) table.Model {
	columns := []table.Column{
		{Title: "Date", Width: 16},
		{Title: "WPM", Width: 5},
		{Title: "Words", Width: 7},
		{Title: "Comprehension", Width: 13},
	}
	rows := make([]table.Row, 0, len(history))
	for _, s := range history {
		wpm := "-"
		if s.WPM != nil {
			wpm = fmt.Sprintf("%d", *s.WPM)
		}
		comp := "-"
		if s.Comprehension != nil {
			comp = fmt.Sprintf("%.0f%%", *s.Comprehension*100)
		}
		rows = append(rows, table.Row{
			s.Date.Format("2006-01-02 15:04"),
			wpm,
			fmt.Sprintf("%d", s.WordsRead),
			comp,
		})
	}
	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithHeight(maxInt(1, height-1)),
	)
	t.SetWidth(width)
	t.SetStyles(historyTableStyles())
	return t
}

func historyTableStyles() table.Styles {
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		Foreground(lipgloss.Color("#C0C0C0")).
		Bold(true).
		Padding(0, 1).
		PaddingLeft(0)
	styles.Cell = styles.Cell.
		Padding(0, 1).
		PaddingLeft(0)
	styles.Selected = styles.Cell.
		Foreground(lipgloss.Color("#F0F0F0")).
		Bold(true)
	return styles
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func padLine(line string, width int) string {
	lineWidth := lipgloss.Width(line)
	if lineWidth < width {
		return line + strings.Repeat(" ", width-lineWidth)
	}
	return line
}

func fitLines(s string, width, height int) string {
	if width <= 0 || height <= 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, strings.Repeat(" ", width))
	}
	return strings.Join(lines, "\n")
}
