package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/csheth/indicure/internal/dropdown"
	"github.com/csheth/indicure/internal/export"
	"github.com/csheth/indicure/internal/inputbus"
	"github.com/csheth/indicure/internal/report"
	"github.com/csheth/indicure/internal/workflow"
)

// Config wires runtime options into the TUI program.
type Config struct {
	Exporter      Exporter
	ExportDir     string
	ExportTimeout time.Duration
	Logger        *zap.Logger
	// Ticker replaces tea.Tick for the run schedule. Tests use it to fire
	// timers without waiting.
	Ticker workflow.TickFunc
}

const (
	modeDropdownID = "mode"
	geoDropdownID  = "geography"
	dropdownWidth  = 24
	controlGap     = 4
)

type focusTarget int

const (
	focusQuery focusTarget = iota
	focusMode
	focusGeo
	focusRun
	focusCount
)

// New returns a tea.Model ready to be mounted into a Program.
func New(config Config) tea.Model {
	log := config.Logger
	if log == nil {
		log = zap.NewNop()
	}

	query := textarea.New()
	query.ShowLineNumbers = false
	query.CharLimit = 0
	query.SetHeight(queryHeight)
	query.SetValue(report.DefaultQuery)
	query.Focus()

	spin := spinner.New()
	spin.Spinner = spinner.Dot

	bar := progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage())

	ctrlOpts := []workflow.Option{workflow.WithLogger(log.Named("workflow"))}
	if config.Ticker != nil {
		ctrlOpts = append(ctrlOpts, workflow.WithTicker(config.Ticker))
	}

	m := &model{
		config:   config,
		log:      log.Named("tui"),
		ctrl:     workflow.NewController(ctrlOpts...),
		bus:      inputbus.New(),
		jobs:     newJobBus(log),
		keys:     newKeyMap(),
		help:     help.New(),
		query:    query,
		spinner:  spin,
		progress: bar,
		layout:   newPageLayout(),
		mode:     workflow.ModeGeneral,
		geo:      workflow.GeographyIndia,
		focus:    focusQuery,
	}
	m.resize(m.layout.windowWidth, 0)
	m.mountDropdowns()
	return m
}

type model struct {
	config Config
	log    *zap.Logger

	ctrl *workflow.Controller
	bus  *inputbus.Bus
	jobs *jobBus
	keys keyMap
	help help.Model

	query    textarea.Model
	spinner  spinner.Model
	progress progress.Model
	modeMenu *dropdown.Model
	geoMenu  *dropdown.Model

	layout pageLayout
	zones  zones
	focus  focusTarget

	// mode and geo are the live selection; a run freezes a copy.
	mode workflow.Mode
	geo  workflow.Geography

	exporting    bool
	infoMessage  string
	errorMessage string
}

func (m *model) Init() tea.Cmd {
	return tea.Batch(textarea.Blink, m.spinner.Tick)
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil
	case tea.KeyMsg:
		return m, m.handleKey(msg)
	case tea.MouseMsg:
		return m, m.handleMouse(msg)
	case workflow.StepMsg:
		if m.ctrl.Apply(msg) && m.ctrl.View() == workflow.ViewResults {
			m.infoMessage = "Analysis complete."
		}
		return m, nil
	case dropdown.ChangedMsg:
		m.applySelection(msg)
		return m, nil
	case jobSignalMsg:
		if msg.Snapshot.Kind == jobKindExport {
			m.exporting = true
			m.errorMessage = ""
			m.infoMessage = "Generating PDF…"
		}
		return m, nil
	case jobResultEnvelope:
		if payload, ok := msg.Payload.(exportResultMsg); ok {
			m.finishExport(payload)
		}
		return m, nil
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.query, cmd = m.query.Update(msg)
	return m, cmd
}

func (m *model) resize(width, height int) {
	m.layout.Update(width, height)
	m.query.SetWidth(m.layout.contentWidth)
	m.progress.Width = m.layout.contentWidth
	m.help.Width = m.layout.contentWidth
}

func (m *model) handleKey(msg tea.KeyMsg) tea.Cmd {
	if key.Matches(msg, m.keys.ForceQuit) {
		return tea.Quit
	}
	m.bus.Publish(inputbus.KeyDown{Key: msg.String()})
	if key.Matches(msg, m.keys.Dismiss) {
		return nil
	}

	switch m.ctrl.View() {
	case workflow.ViewInput:
		return m.handleInputKey(msg)
	case workflow.ViewProcessing:
		switch {
		case key.Matches(msg, m.keys.NewQuery):
			return m.newQuery()
		case key.Matches(msg, m.keys.Quit):
			return tea.Quit
		}
	case workflow.ViewResults:
		return m.handleResultsKey(msg)
	}
	return nil
}

func (m *model) handleInputKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Run):
		return m.startRun()
	case key.Matches(msg, m.keys.Next):
		m.setFocus((m.focus + 1) % focusCount)
		return nil
	case key.Matches(msg, m.keys.Prev):
		m.setFocus((m.focus + focusCount - 1) % focusCount)
		return nil
	}

	switch m.focus {
	case focusQuery:
		var cmd tea.Cmd
		m.query, cmd = m.query.Update(msg)
		return cmd
	case focusMode:
		cmd, _ := m.modeMenu.HandleKey(msg, string(m.mode))
		return cmd
	case focusGeo:
		cmd, _ := m.geoMenu.HandleKey(msg, string(m.geo))
		return cmd
	case focusRun:
		if key.Matches(msg, m.keys.Activate) {
			return m.startRun()
		}
	}
	return nil
}

func (m *model) handleResultsKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.TabJump):
		idx := int(msg.String()[0] - '1')
		m.ctrl.SetActiveTab(workflow.Tabs[idx])
	case key.Matches(msg, m.keys.TabLeft):
		m.shiftTab(-1)
	case key.Matches(msg, m.keys.TabRight):
		m.shiftTab(1)
	case key.Matches(msg, m.keys.Download):
		return m.startExport()
	case key.Matches(msg, m.keys.NewQuery):
		return m.newQuery()
	case key.Matches(msg, m.keys.Quit):
		return tea.Quit
	}
	return nil
}

// handleMouse publishes every left press to the bus before routing it, so an
// open menu closes on an outside press even when the press lands on another
// control.
func (m *model) handleMouse(msg tea.MouseMsg) tea.Cmd {
	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return nil
	}
	m.bus.Publish(inputbus.PointerDown{X: msg.X, Y: msg.Y})

	switch m.ctrl.View() {
	case workflow.ViewInput:
		for _, target := range m.dropdownsByPriority() {
			if cmd, handled := target.menu.HandleMouse(msg, target.value); handled {
				m.setFocus(target.focus)
				return cmd
			}
		}
		switch {
		case m.zones.run.Contains(msg.X, msg.Y):
			return m.startRun()
		case m.zones.query.Contains(msg.X, msg.Y):
			m.setFocus(focusQuery)
		}
	case workflow.ViewProcessing:
		if m.zones.newQuery.Contains(msg.X, msg.Y) {
			return m.newQuery()
		}
	case workflow.ViewResults:
		switch {
		case m.zones.download.Contains(msg.X, msg.Y):
			return m.startExport()
		case m.zones.newQuery.Contains(msg.X, msg.Y):
			return m.newQuery()
		}
		if tab, ok := m.zones.tabAt(msg.X, msg.Y); ok {
			m.ctrl.SetActiveTab(tab)
		}
	}
	return nil
}

type dropdownTarget struct {
	menu  *dropdown.Model
	value string
	focus focusTarget
}

// dropdownsByPriority puts an open menu first; it is drawn over the other
// controls and gets the press.
func (m *model) dropdownsByPriority() []dropdownTarget {
	targets := []dropdownTarget{
		{menu: m.modeMenu, value: string(m.mode), focus: focusMode},
		{menu: m.geoMenu, value: string(m.geo), focus: focusGeo},
	}
	if !targets[0].menu.IsOpen() && targets[1].menu.IsOpen() {
		targets[0], targets[1] = targets[1], targets[0]
	}
	return targets
}

func (m *model) applySelection(msg dropdown.ChangedMsg) {
	switch msg.ID {
	case modeDropdownID:
		if mode, ok := workflow.ParseMode(msg.Value); ok {
			m.mode = mode
		}
	case geoDropdownID:
		if geo, ok := workflow.ParseGeography(msg.Value); ok {
			m.geo = geo
		}
	default:
		return
	}
	m.log.Debug("selection changed", zap.String("dropdown", msg.ID), zap.String("value", msg.Value))
}

func (m *model) setFocus(target focusTarget) {
	m.focus = target
	if target == focusQuery {
		m.query.Focus()
		return
	}
	m.query.Blur()
}

func (m *model) shiftTab(delta int) {
	current := 0
	for i, tab := range workflow.Tabs {
		if tab == m.ctrl.ActiveTab() {
			current = i
		}
	}
	next := (current + delta + len(workflow.Tabs)) % len(workflow.Tabs)
	m.ctrl.SetActiveTab(workflow.Tabs[next])
}

// mountDropdowns creates the input view's selectors. Each holds its own bus
// subscription until unmountDropdowns.
func (m *model) mountDropdowns() {
	m.unmountDropdowns()
	m.modeMenu = dropdown.New(modeDropdownID, m.bus, modeOptions(), dropdown.WithWidth(dropdownWidth))
	m.geoMenu = dropdown.New(geoDropdownID, m.bus, geoOptions(), dropdown.WithWidth(dropdownWidth))
}

func (m *model) unmountDropdowns() {
	if m.modeMenu != nil {
		m.modeMenu.Unmount()
	}
	if m.geoMenu != nil {
		m.geoMenu.Unmount()
	}
}

func (m *model) startRun() tea.Cmd {
	cfg := workflow.RunConfig{Mode: m.mode, Geography: m.geo}
	m.unmountDropdowns()
	m.setFocus(focusRun)
	m.infoMessage = ""
	m.errorMessage = ""
	return m.ctrl.StartRun(cfg)
}

func (m *model) newQuery() tea.Cmd {
	m.ctrl.NewQuery()
	m.mountDropdowns()
	m.setFocus(focusQuery)
	m.infoMessage = ""
	m.errorMessage = ""
	return nil
}

func (m *model) startExport() tea.Cmd {
	if m.exporting {
		return nil
	}
	cfg, ok := m.ctrl.Config()
	if !ok {
		return nil
	}
	if m.config.Exporter == nil {
		m.log.Warn("pdf export unavailable", zap.String("reason", "no exporter configured"))
		m.errorMessage = export.FailureNotice
		return nil
	}
	m.exporting = true
	m.errorMessage = ""
	return m.jobs.Start(jobKindExport, exportReportJob(m.config.Exporter, cfg, m.config.ExportDir, m.config.ExportTimeout))
}

func (m *model) finishExport(msg exportResultMsg) {
	m.exporting = false
	if msg.err != nil {
		m.infoMessage = ""
		m.errorMessage = export.FailureNotice
		return
	}
	m.errorMessage = ""
	if msg.result.Pages > 0 {
		m.infoMessage = fmt.Sprintf("Saved %s (%d pages)", msg.result.Path, msg.result.Pages)
		return
	}
	m.infoMessage = "Saved " + msg.result.Path
}

func modeOptions() []string {
	opts := make([]string, 0, len(workflow.Modes))
	for _, mode := range workflow.Modes {
		opts = append(opts, string(mode))
	}
	return opts
}

func geoOptions() []string {
	opts := make([]string, 0, len(workflow.Geographies))
	for _, geo := range workflow.Geographies {
		opts = append(opts, string(geo))
	}
	return opts
}
