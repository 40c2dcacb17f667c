package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"github.com/csheth/indicure/internal/report"
	"github.com/csheth/indicure/internal/workflow"
)

const (
	heroTitle   = "IndiCure AI"
	heroTagline = "Agentic AI system for drug repurposing analysis"
	heroDemo    = " (Demo: Ranolazine → HFpEF, India)"
)

func (m *model) View() string {
	m.zones = zones{}
	switch m.ctrl.View() {
	case workflow.ViewProcessing:
		return m.viewProcessing()
	case workflow.ViewResults:
		return m.viewResults()
	default:
		return m.viewInput()
	}
}

func (m *model) viewInput() string {
	c := newCanvas(m.layout.windowWidth, m.layout.windowHeight)
	c.add(m.heroView())
	c.blank()
	c.add(sectionHeaderStyle.Render("Molecule-level Query"))
	queryView := m.query.View()
	m.zones.query = blockRect(queryView, gutter, c.add(queryView))
	c.blank()

	modeTrigger := m.modeMenu.View(string(m.mode), m.focus == focusMode)
	geoTrigger := m.geoMenu.View(string(m.geo), m.focus == focusGeo)
	labels := lipgloss.JoinHorizontal(lipgloss.Top,
		labelStyle.Width(m.modeMenu.Width()+controlGap).Render("Analysis Mode"),
		labelStyle.Render("Geography"),
	)
	c.add(labels)
	controls := lipgloss.JoinHorizontal(lipgloss.Top, modeTrigger, strings.Repeat(" ", controlGap), geoTrigger)
	top := c.add(controls)
	vh := m.layout.viewportHeight()
	m.modeMenu.SetLayout(blockRect(modeTrigger, gutter, top), vh)
	m.geoMenu.SetLayout(blockRect(geoTrigger, gutter+lipgloss.Width(modeTrigger)+controlGap, top), vh)
	c.blank()

	button := primaryButtonStyle.Render("Run Analysis")
	if m.focus == focusRun {
		button = focusedButtonStyle.Render("Run Analysis")
	}
	m.zones.run = blockRect(button, gutter, c.add(button))

	m.addFooter(c, workflow.ViewInput)

	for _, target := range m.dropdownsByPriority() {
		if !target.menu.IsOpen() {
			continue
		}
		bounds := target.menu.MenuBounds()
		c.overlay(target.menu.MenuView(target.value), bounds.X, bounds.Y)
	}
	return c.String()
}

func (m *model) viewProcessing() string {
	c := newCanvas(m.layout.windowWidth, m.layout.windowHeight)
	c.add(m.heroView())
	c.blank()
	c.add(sectionHeaderStyle.Render("Agent Execution"))
	c.blank()

	snap := m.ctrl.Snapshot()
	nameWidth := 0
	for _, state := range snap.Agents {
		if w := lipgloss.Width(state.Agent.DisplayName()); w > nameWidth {
			nameWidth = w
		}
	}
	rows := make([]string, 0, len(snap.Agents))
	for _, state := range snap.Agents {
		name := state.Agent.DisplayName()
		pad := strings.Repeat(" ", nameWidth-lipgloss.Width(name)+2)
		rows = append(rows, agentNameStyle.Render(name)+pad+statusTag(state.Status))
	}
	c.add(strings.Join(rows, "\n"))
	c.blank()
	c.add(m.progress.ViewAs(m.ctrl.Progress()))
	c.add(helperStyle.Render(m.spinner.View() + " Executing agents sequentially and synthesizing evidence…"))
	if snap.Config != nil {
		c.add(helperStyle.Render(report.Build(*snap.Config).Footnote()))
	}
	c.blank()

	button := secondaryButtonStyle.Render("New Query")
	m.zones.newQuery = blockRect(button, gutter, c.add(button))

	m.addFooter(c, workflow.ViewProcessing)
	return c.String()
}

func (m *model) viewResults() string {
	c := newCanvas(m.layout.windowWidth, m.layout.windowHeight)
	c.add(m.heroView())
	c.blank()

	cfg, _ := m.ctrl.Config()
	rep := report.Build(cfg)

	header := sectionHeaderStyle.Render("Results Dashboard")
	download := secondaryButtonStyle.Render("Download PDF")
	newQuery := primaryButtonStyle.Render("New Query")
	const spacing = 3
	top := c.add(lipgloss.JoinHorizontal(lipgloss.Top,
		header, strings.Repeat(" ", spacing), download, " ", newQuery,
	))
	x := gutter + lipgloss.Width(header) + spacing
	m.zones.download = blockRect(download, x, top)
	m.zones.newQuery = blockRect(newQuery, x+lipgloss.Width(download)+1, top)
	c.blank()

	c.add(m.metricTiles(rep.Metrics))
	c.blank()

	tabs := make([]string, 0, len(workflow.Tabs))
	x = gutter
	tabTop := c.row()
	for i, tab := range workflow.Tabs {
		style := tabStyle
		if tab == m.ctrl.ActiveTab() {
			style = activeTabStyle
		}
		label := style.Render(fmt.Sprintf("%d %s", i+1, tab.Title()))
		m.zones.tabs = append(m.zones.tabs, tabZone{rect: blockRect(label, x, tabTop), tab: tab})
		tabs = append(tabs, label)
		x += lipgloss.Width(label) + 1
	}
	c.add(strings.Join(tabs, " "))

	card := cardStyle.Width(m.layout.contentWidth - 2).Render(
		renderSection(rep.Section(m.ctrl.ActiveTab()), m.layout.contentWidth-6),
	)
	c.add(card)

	m.addFooter(c, workflow.ViewResults)
	return c.String()
}

func (m *model) metricTiles(metrics []report.Metric) string {
	tiles := make([]string, 0, len(metrics))
	for _, metric := range metrics {
		style, rating := tileStyle, ratingStyle
		if metric.Warn {
			style, rating = warnTileStyle, warnRatingStyle
		}
		body := metric.Name + "\n" + rating.Render(metric.Rating)
		tiles = append(tiles, style.Width(m.layout.tileWidth-2).Render(body))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, joinTiles(tiles)...)
}

func joinTiles(tiles []string) []string {
	out := make([]string, 0, 2*len(tiles))
	for i, tile := range tiles {
		if i > 0 {
			out = append(out, " ")
		}
		out = append(out, tile)
	}
	return out
}

func renderSection(sec report.Section, width int) string {
	parts := []string{subtitleStyle.Render(sec.Heading)}
	for _, paragraph := range sec.Paragraphs {
		parts = append(parts, wordwrap.String(paragraph, width))
	}
	if len(sec.Bullets) > 0 {
		bullets := make([]string, 0, len(sec.Bullets))
		for _, item := range sec.Bullets {
			wrapped := wordwrap.String(item, width-3)
			bullets = append(bullets, " • "+strings.ReplaceAll(wrapped, "\n", "\n   "))
		}
		parts = append(parts, strings.Join(bullets, "\n"))
	}
	if sec.Footnote != "" {
		parts = append(parts, helperStyle.Render(sec.Footnote))
	}
	return joinNonEmpty(parts)
}

func (m *model) addFooter(c *canvas, view workflow.View) {
	var status []string
	if m.errorMessage != "" {
		status = append(status, errorStyle.Render(m.errorMessage))
	}
	if m.infoMessage != "" {
		message := m.infoMessage
		if m.exporting {
			message = m.spinner.View() + " " + message
		}
		status = append(status, helperStyle.Render(message))
	}
	if len(status) > 0 {
		c.blank()
		c.add(strings.Join(status, "\n"))
	}
	c.blank()
	c.add(m.help.ShortHelpView(m.keys.bindingsFor(view)))
}

func (m *model) heroView() string {
	return lipgloss.JoinVertical(lipgloss.Left,
		heroTitleStyle.Render(heroTitle),
		taglineStyle.Render(heroTagline)+helperStyle.Render(heroDemo),
	)
}

func statusTag(status workflow.Status) string {
	switch status {
	case workflow.StatusRunning:
		return runningTagStyle.Render(status.Label())
	case workflow.StatusDone:
		return doneTagStyle.Render(status.Label())
	default:
		return queuedTagStyle.Render(status.Label())
	}
}

func joinNonEmpty(parts []string) string {
	filtered := make([]string, 0, len(parts))
	for _, part := range parts {
		if strings.TrimSpace(part) == "" {
			continue
		}
		filtered = append(filtered, part)
	}
	return strings.Join(filtered, "\n\n")
}

var (
	heroAccentColor        = lipgloss.Color("#ff8c00")
	heroSecondaryTextColor = lipgloss.Color("#ffb347")

	heroTitleStyle     = lipgloss.NewStyle().Bold(true).Foreground(heroAccentColor)
	taglineStyle       = lipgloss.NewStyle().Foreground(heroSecondaryTextColor).Italic(true)
	sectionHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("81"))
	subtitleStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("147"))
	labelStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("250"))
	errorStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	helperStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	agentNameStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))

	primaryButtonStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#0f0f0f")).Background(heroAccentColor).Padding(0, 2)
	focusedButtonStyle   = primaryButtonStyle.Underline(true).Background(lipgloss.Color("#ffd166"))
	secondaryButtonStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#0f0f0f")).Background(lipgloss.Color("#8ecae6")).Padding(0, 2)

	queuedTagStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("244")).Padding(0, 1)
	runningTagStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#0f0f0f")).Background(lipgloss.Color("#ffd166")).Padding(0, 1)
	doneTagStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#0f0f0f")).Background(lipgloss.Color("#a3be8c")).Padding(0, 1)

	tileStyle       = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#a3be8c")).Align(lipgloss.Center)
	warnTileStyle   = tileStyle.BorderForeground(lipgloss.Color("#ffb347"))
	ratingStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#a3be8c"))
	warnRatingStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ffb347"))

	tabStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("250")).Padding(0, 1)
	activeTabStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#0f0f0f")).Background(lipgloss.Color("81")).Padding(0, 1)
	cardStyle      = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#56526e")).Padding(0, 1)
)
