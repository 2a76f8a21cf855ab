package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/speedrd/rapida/internal/content"
	"github.com/speedrd/rapida/internal/engine"
	"github.com/speedrd/rapida/internal/metrics"
	"github.com/speedrd/rapida/internal/model"
	"github.com/speedrd/rapida/internal/training"
)

const (
	screenMenu = iota
	screenExercise
	screenResults
)

// Config carries the session parameters resolved by the CLI.
type Config struct {
	UserID          string
	Kind            model.ExerciseKind
	TargetWPM       int
	WordsPerDisplay int
	ChunkSize       int
	ChunkInterval   time.Duration
	Duration        time.Duration
	GridSize        int
	GridRounds      int
	Text            content.Text
}

var (
	pendingStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	readStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("#5A5A5A"))
	activeChunkStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	exposureStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	titleStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
	footerStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	errorStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	selectedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	pausedStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
	gridCellStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#B0B0B0"))
	gridCursorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#1A1A1A")).Background(lipgloss.Color("#C89A3A"))
	gridFoundStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#5A5A5A"))
	bannerStyle      = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#C89A3A")).
				Bold(true).
				Padding(0, 1).
				Border(lipgloss.RoundedBorder(), true).
				BorderForeground(lipgloss.Color("#C89A3A"))
)

func categoryStyle(cat metrics.Category) lipgloss.Style {
	colors := map[string]string{
		"red":     "#FF4D4F",
		"yellow":  "#C89A3A",
		"cyan":    "#3AA8C8",
		"green":   "#52C41A",
		"magenta": "#C83AB8",
	}
	hex, ok := colors[cat.Color()]
	if !ok {
		hex = "#F0F0F0"
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(hex)).Bold(true)
}

type menuEntry struct {
	kind  model.ExerciseKind
	title string
	blurb string
}

var menuEntries = []menuEntry{
	{model.KindExposure, "Rapid exposure", "words flash at your target pace"},
	{model.KindGridSearch, "Grid search", "find numbers in order on a shuffled grid"},
	{model.KindChunkedReveal, "Chunked reveal", "read the text chunk by chunk"},
}

type paceTickMsg struct{}

type secondTickMsg struct{}

// Model implements the Bubble Tea training UI.
type Model struct {
	cfg Config
	svc *training.Service

	screen    int
	menuIndex int

	exposure *engine.Exposure
	grid     *engine.GridSearch
	chunk    *engine.ChunkedReveal
	kind     model.ExerciseKind
	result   *engine.Result

	gridRow int
	gridCol int

	outcome *training.Outcome
	errMsg  string

	width  int
	height int
}

// NewModel constructs a training TUI model.
func NewModel(cfg Config, svc *training.Service) *Model {
	m := &Model{cfg: cfg, svc: svc, screen: screenMenu}
	for i, entry := range menuEntries {
		if entry.kind == cfg.Kind {
			m.menuIndex = i
		}
	}
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
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		switch m.screen {
		case screenMenu:
			return m.updateMenu(msg)
		case screenExercise:
			return m.updateExercise(msg)
		case screenResults:
			return m.updateResults(msg)
		}
		return m, nil
	case paceTickMsg:
		return m.onPaceTick()
	case secondTickMsg:
		return m.onSecondTick()
	default:
		return m, nil
	}
}

func (m *Model) updateMenu(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc":
		return m, tea.Quit
	case "up", "k":
		if m.menuIndex > 0 {
			m.menuIndex--
		}
		return m, nil
	case "down", "j":
		if m.menuIndex < len(menuEntries)-1 {
			m.menuIndex++
		}
		return m, nil
	case "enter":
		return m.startExercise(menuEntries[m.menuIndex].kind)
	default:
		return m, nil
	}
}

func (m *Model) updateResults(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc":
		return m, tea.Quit
	case "enter":
		m.outcome = nil
		m.errMsg = ""
		m.screen = screenMenu
		return m, nil
	default:
		return m, nil
	}
}

func (m *Model) startExercise(kind model.ExerciseKind) (tea.Model, tea.Cmd) {
	m.kind = kind
	m.result = nil
	m.outcome = nil
	m.errMsg = ""
	m.gridRow = 0
	m.gridCol = 0

	events := engine.Events{
		Completed: func(res engine.Result) {
			m.result = &res
		},
	}

	var paceCmd tea.Cmd
	switch kind {
	case model.KindExposure:
		ex, err := engine.NewExposure(engine.ExposureConfig{
			TargetWPM:       m.cfg.TargetWPM,
			WordsPerDisplay: m.cfg.WordsPerDisplay,
			Duration:        m.cfg.Duration,
			Words:           m.cfg.Text.Words(),
		}, nil)
		if err != nil {
			m.errMsg = err.Error()
			return m, nil
		}
		ex.SetEvents(events)
		m.exposure = ex
		if err := ex.Start(); err != nil {
			m.errMsg = err.Error()
			return m, nil
		}
		paceCmd = paceTickCmd(ex.PaceInterval())
	case model.KindGridSearch:
		g, err := engine.NewGridSearch(engine.GridConfig{
			Size:   m.cfg.GridSize,
			Rounds: m.cfg.GridRounds,
		}, nil)
		if err != nil {
			m.errMsg = err.Error()
			return m, nil
		}
		g.SetEvents(events)
		m.grid = g
		if err := g.Start(); err != nil {
			m.errMsg = err.Error()
			return m, nil
		}
	case model.KindChunkedReveal:
		c, err := engine.NewChunkedReveal(engine.ChunkConfig{
			ChunkSize: m.cfg.ChunkSize,
			Interval:  m.cfg.ChunkInterval,
			Duration:  m.cfg.Duration,
			Words:     m.cfg.Text.Words(),
		}, nil)
		if err != nil {
			m.errMsg = err.Error()
			return m, nil
		}
		c.SetEvents(events)
		m.chunk = c
		if err := c.Start(); err != nil {
			m.errMsg = err.Error()
			return m, nil
		}
		paceCmd = paceTickCmd(c.PaceInterval())
	default:
		m.errMsg = fmt.Sprintf("unknown exercise kind %q", kind)
		return m, nil
	}

	m.screen = screenExercise
	if m.result != nil {
		// Empty content completes at start.
		return m.finishSession()
	}
	return m, tea.Batch(paceCmd, secondTickCmd())
}

func paceTickCmd(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(time.Time) tea.Msg {
		return paceTickMsg{}
	})
}

func secondTickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg {
		return secondTickMsg{}
	})
}

func (m *Model) updateExercise(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.cancelActive()
		m.resetEngines()
		m.screen = screenMenu
		return m, nil
	case " ":
		m.togglePause()
		return m, nil
	}
	if m.kind == model.KindGridSearch && m.grid != nil {
		return m.updateGridKeys(msg)
	}
	return m, nil
}

func (m *Model) updateGridKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	size := m.cfg.GridSize
	switch msg.String() {
	case "up", "k":
		if m.gridRow > 0 {
			m.gridRow--
		}
	case "down", "j":
		if m.gridRow < size-1 {
			m.gridRow++
		}
	case "left", "h":
		if m.gridCol > 0 {
			m.gridCol--
		}
	case "right", "l":
		if m.gridCol < size-1 {
			m.gridCol++
		}
	case "enter":
		cells := m.grid.Cells()
		idx := m.gridRow*size + m.gridCol
		if idx >= 0 && idx < len(cells) {
			m.grid.Tap(cells[idx])
		}
		if m.result != nil {
			return m.finishSession()
		}
	}
	return m, nil
}

func (m *Model) onPaceTick() (tea.Model, tea.Cmd) {
	var interval time.Duration
	switch m.kind {
	case model.KindExposure:
		if m.exposure == nil {
			return m, nil
		}
		m.exposure.PaceTick()
		interval = m.exposure.PaceInterval()
	case model.KindChunkedReveal:
		if m.chunk == nil {
			return m, nil
		}
		m.chunk.PaceTick()
		interval = m.chunk.PaceInterval()
	default:
		return m, nil
	}
	if m.result != nil {
		return m.finishSession()
	}
	if m.screen != screenExercise {
		return m, nil
	}
	return m, paceTickCmd(interval)
}

func (m *Model) onSecondTick() (tea.Model, tea.Cmd) {
	switch m.kind {
	case model.KindExposure:
		if m.exposure != nil {
			m.exposure.TimeTick()
		}
	case model.KindGridSearch:
		if m.grid != nil {
			m.grid.TimeTick()
		}
	case model.KindChunkedReveal:
		if m.chunk != nil {
			m.chunk.TimeTick()
		}
	}
	if m.result != nil {
		return m.finishSession()
	}
	if m.screen != screenExercise {
		return m, nil
	}
	return m, secondTickCmd()
}

func (m *Model) togglePause() {
	switch {
	case m.exposure != nil && m.kind == model.KindExposure:
		if m.exposure.State() == engine.StatePaused {
			m.exposure.Resume()
		} else {
			m.exposure.Pause()
		}
	case m.grid != nil && m.kind == model.KindGridSearch:
		if m.grid.State() == engine.StatePaused {
			m.grid.Resume()
		} else {
			m.grid.Pause()
		}
	case m.chunk != nil && m.kind == model.KindChunkedReveal:
		if m.chunk.State() == engine.StatePaused {
			m.chunk.Resume()
		} else {
			m.chunk.Pause()
		}
	}
}

func (m *Model) cancelActive() {
	switch {
	case m.exposure != nil && m.kind == model.KindExposure:
		m.exposure.Cancel()
	case m.grid != nil && m.kind == model.KindGridSearch:
		m.grid.Cancel()
	case m.chunk != nil && m.kind == model.KindChunkedReveal:
		m.chunk.Cancel()
	}
}

func (m *Model) resetEngines() {
	m.exposure = nil
	m.grid = nil
	m.chunk = nil
	m.result = nil
}

func (m *Model) finishSession() (tea.Model, tea.Cmd) {
	res := *m.result
	m.resetEngines()
	m.screen = screenResults

	settings := m.sessionSettings(res.Kind)
	outcome, err := m.svc.Complete(context.Background(), m.cfg.UserID, res, nil, settings)
	if err != nil {
		m.errMsg = err.Error()
		return m, nil
	}
	m.outcome = outcome
	return m, nil
}

func (m *Model) sessionSettings(kind model.ExerciseKind) model.SessionSettings {
	settings := model.SessionSettings{}
	switch kind {
	case model.KindExposure:
		speed := m.cfg.TargetWPM
		textID := m.cfg.Text.ID
		settings.Speed = &speed
		settings.TextID = &textID
	case model.KindChunkedReveal:
		chunkSize := m.cfg.ChunkSize
		textID := m.cfg.Text.ID
		settings.ChunkSize = &chunkSize
		settings.TextID = &textID
	}
	if m.cfg.Text.Difficulty != "" && kind != model.KindGridSearch {
		diff := m.cfg.Text.Difficulty
		settings.Difficulty = &diff
	}
	return settings
}

// View implements tea.Model.
func (m *Model) View() string {
	var screen string
	switch m.screen {
	case screenMenu:
		screen = m.viewMenu()
	case screenExercise:
		screen = m.viewExercise()
	case screenResults:
		screen = m.viewResults()
	}
	if m.width == 0 || m.height == 0 {
		return screen
	}
	footer := footerStyle.Render(m.footerHelp())
	bodyHeight := m.height - 1
	if bodyHeight < 1 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, screen)
	}
	body := lipgloss.Place(m.width, bodyHeight, lipgloss.Center, lipgloss.Center, screen)
	footerLine := lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, footer)
	return body + "\n" + footerLine
}

func (m *Model) footerHelp() string {
	switch m.screen {
	case screenMenu:
		return "up/down: select  enter: start  q: quit"
	case screenExercise:
		if m.kind == model.KindGridSearch {
			return "arrows: move  enter: tap  space: pause  esc: cancel"
		}
		return "space: pause  esc: cancel"
	case screenResults:
		return "enter: menu  q: quit"
	}
	return ""
}

func (m *Model) viewMenu() string {
	lines := []string{titleStyle.Render("rapida"), ""}
	for i, entry := range menuEntries {
		marker := "  "
		style := pendingStyle
		if i == m.menuIndex {
			marker = "> "
			style = selectedStyle
		}
		lines = append(lines, style.Render(fmt.Sprintf("%s%s — %s", marker, entry.title, entry.blurb)))
	}
	if m.errMsg != "" {
		lines = append(lines, "", errorStyle.Render(m.errMsg))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) viewExercise() string {
	switch m.kind {
	case model.KindExposure:
		return m.viewExposure()
	case model.KindGridSearch:
		return m.viewGrid()
	case model.KindChunkedReveal:
		return m.viewChunk()
	}
	return ""
}

func (m *Model) viewExposure() string {
	if m.exposure == nil {
		return ""
	}
	display := m.exposure.Display()
	header := m.exerciseHeader(m.exposure.State(), m.exposure.ElapsedSeconds(), m.exposure.Progress())
	word := exposureStyle.Render(display)
	return header + "\n\n" + word
}

func (m *Model) viewChunk() string {
	if m.chunk == nil {
		return ""
	}
	header := m.exerciseHeader(m.chunk.State(), m.chunk.ElapsedSeconds(), m.chunk.Progress())
	runes := buildChunkRunes(m.chunk.Chunks(), m.chunk.ChunkIndex())
	contentWidth := 60
	if m.width > 0 {
		contentWidth = int(float64(m.width) * 0.70)
		if contentWidth < 20 {
			contentWidth = 20
		}
	}
	body := wrapStyledRunes(runes, contentWidth)
	return header + "\n\n" + lipgloss.NewStyle().Width(contentWidth).Render(body)
}

func (m *Model) viewGrid() string {
	if m.grid == nil {
		return ""
	}
	header := m.exerciseHeader(m.grid.State(), m.grid.ElapsedSeconds(), m.grid.Progress())
	target := fmt.Sprintf("Round %d/%d — find %s  (mistakes: %d)",
		m.grid.Round(), m.cfg.GridRounds, titleStyle.Render(m.grid.Display()), m.grid.Mistakes())

	size := m.cfg.GridSize
	cells := m.grid.Cells()
	cellWidth := len(strconv.Itoa(size * size))
	var rows []string
	for r := 0; r < size; r++ {
		var row []string
		for c := 0; c < size; c++ {
			idx := r*size + c
			if idx >= len(cells) {
				continue
			}
			label := padCell(strconv.Itoa(cells[idx]), cellWidth)
			style := gridCellStyle
			switch {
			case r == m.gridRow && c == m.gridCol:
				style = gridCursorStyle
			case cells[idx] < m.grid.Target():
				style = gridFoundStyle
			}
			row = append(row, style.Render(label))
		}
		rows = append(rows, strings.Join(row, " "))
	}
	return header + "\n" + target + "\n\n" + strings.Join(rows, "\n")
}

func padCell(label string, width int) string {
	pad := width - runewidth.StringWidth(label)
	if pad <= 0 {
		return " " + label + " "
	}
	return " " + strings.Repeat(" ", pad) + label + " "
}

func (m *Model) exerciseHeader(state engine.State, elapsed int, progress float64) string {
	status := fmt.Sprintf("%s  %s  %d%%", formatElapsed(elapsed), state, int(progress*100))
	if state == engine.StatePaused {
		return pausedStyle.Render("PAUSED") + "  " + footerStyle.Render(status)
	}
	return footerStyle.Render(status)
}

func formatElapsed(seconds int) string {
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

func (m *Model) viewResults() string {
	if m.errMsg != "" {
		return errorStyle.Render("Failed to record session: " + m.errMsg)
	}
	if m.outcome == nil {
		return ""
	}
	out := m.outcome
	lines := []string{titleStyle.Render("Session complete"), ""}
	if out.Record.WPM != nil {
		catStyle := categoryStyle(out.Category)
		lines = append(lines,
			fmt.Sprintf("Speed: %s", catStyle.Render(fmt.Sprintf("%d WPM (%s)", *out.Record.WPM, out.Category))),
			catStyle.Render(out.Category.Message()),
		)
	}
	if out.Record.WordsRead != nil {
		lines = append(lines, fmt.Sprintf("Words read: %d", *out.Record.WordsRead))
	}
	lines = append(lines,
		fmt.Sprintf("Duration: %s", formatElapsed(out.Record.Duration)),
		fmt.Sprintf("Sessions: %d  Best: %d WPM  Streak: %d day(s)",
			out.Statistics.TotalSessions, out.Statistics.BestWPM, out.CurrentStreak),
	)
	if out.Unlocked != nil {
		lines = append(lines, "", bannerStyle.Render(fmt.Sprintf("Achievement unlocked: %s %s", out.Unlocked.Icon, achievementTitle(out.Unlocked.ID))))
	}
	return strings.Join(lines, "\n")
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
