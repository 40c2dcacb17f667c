// Package workflow drives the input → processing → results phases and the
// timed per-agent status progression of a run.
//
// A Controller is owned by the bubbletea update loop. Timers are tea.Tick
// commands whose messages come back through Update, so no locking is needed.
package workflow

import (
	"context"
	"sort"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	// AgentStagger separates the start of consecutive agents.
	AgentStagger = 500 * time.Millisecond
	// AgentRunTime is how long an agent stays running.
	AgentRunTime = 400 * time.Millisecond
	// ResultsAfter is when the view switches to results.
	ResultsAfter = 3500 * time.Millisecond
)

// Step is one scheduled state change, relative to run start. Steps with an
// empty Agent change the view instead of an agent status.
type Step struct {
	At     time.Duration
	Agent  Agent
	Status Status
	View   View
}

// StepMsg is delivered when a scheduled step fires.
type StepMsg struct {
	RunID string
	Step  Step
}

// Schedule returns every step of a run ordered by offset.
func Schedule() []Step {
	steps := make([]Step, 0, len(Agents)*2+1)
	for i, agent := range Agents {
		start := time.Duration(i) * AgentStagger
		steps = append(steps,
			Step{At: start, Agent: agent, Status: StatusRunning},
			Step{At: start + AgentRunTime, Agent: agent, Status: StatusDone},
		)
	}
	steps = append(steps, Step{At: ResultsAfter, View: ViewResults})
	sort.SliceStable(steps, func(i, j int) bool { return steps[i].At < steps[j].At })
	return steps
}

// TickFunc arms a timer. It matches tea.Tick.
type TickFunc func(time.Duration, func(time.Time) tea.Msg) tea.Cmd

// Option configures a Controller.
type Option func(*Controller)

// WithLogger routes controller diagnostics to logger.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.log = logger
		}
	}
}

// WithTicker replaces tea.Tick, mainly for tests.
func WithTicker(tick TickFunc) Option {
	return func(c *Controller) {
		if tick != nil {
			c.tick = tick
		}
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) {
		if now != nil {
			c.now = now
		}
	}
}

type run struct {
	id      string
	started time.Time
	ctx     context.Context
	cancel  context.CancelFunc
}

// Controller owns the view, agent statuses, active tab and frozen run
// configuration.
type Controller struct {
	view     View
	tab      Tab
	statuses map[Agent]Status
	config   *RunConfig
	run      *run

	log  *zap.Logger
	tick TickFunc
	now  func() time.Time
}

func NewController(opts ...Option) *Controller {
	c := &Controller{
		view:     ViewInput,
		tab:      TabSummary,
		statuses: map[Agent]Status{},
		log:      zap.NewNop(),
		tick:     tea.Tick,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.resetStatuses()
	return c
}

// StartRun resets every agent to pending, switches to processing, freezes cfg
// and arms all timers at once. A run already in flight is cancelled first.
func (c *Controller) StartRun(cfg RunConfig) tea.Cmd {
	c.cancelRun("restarted")
	c.resetStatuses()
	c.view = ViewProcessing
	frozen := cfg
	c.config = &frozen

	ctx, cancel := context.WithCancel(context.Background())
	r := &run{id: uuid.NewString(), started: c.now(), ctx: ctx, cancel: cancel}
	c.run = r
	c.log.Info("run started",
		zap.String("run", r.id),
		zap.String("mode", string(cfg.Mode)),
		zap.String("geo", string(cfg.Geography)),
	)

	steps := Schedule()
	cmds := make([]tea.Cmd, 0, len(steps))
	for _, step := range steps {
		step := step
		cmds = append(cmds, c.tick(step.At, func(time.Time) tea.Msg {
			if r.ctx.Err() != nil {
				return nil
			}
			return StepMsg{RunID: r.id, Step: step}
		}))
	}
	return tea.Batch(cmds...)
}

// Apply records a fired step. It reports whether state changed; steps from a
// cancelled or finished run and out-of-order status writes are dropped.
func (c *Controller) Apply(msg StepMsg) bool {
	if c.run == nil || msg.RunID != c.run.id {
		c.log.Debug("stale step dropped", zap.String("run", msg.RunID), zap.Duration("at", msg.Step.At))
		return false
	}
	step := msg.Step
	if step.Agent == "" {
		c.view = step.View
		if step.View == ViewResults {
			c.log.Info("run finished", zap.String("run", c.run.id), zap.Duration("elapsed", c.now().Sub(c.run.started)))
			c.run.cancel()
			c.run = nil
		}
		return true
	}
	current, ok := c.statuses[step.Agent]
	if !ok {
		c.log.Warn("unknown agent in step", zap.String("agent", string(step.Agent)))
		return false
	}
	if current.next() != step.Status {
		c.log.Warn("status write rejected",
			zap.String("agent", string(step.Agent)),
			zap.String("from", string(current)),
			zap.String("to", string(step.Status)),
		)
		return false
	}
	c.statuses[step.Agent] = step.Status
	return true
}

// SetActiveTab selects a results tab. Unknown tabs are ignored.
func (c *Controller) SetActiveTab(tab Tab) {
	if !tab.valid() {
		return
	}
	c.tab = tab
}

// NewQuery cancels any in-flight run, discards the frozen configuration and
// returns to the input view with every agent pending.
func (c *Controller) NewQuery() {
	c.cancelRun("new query")
	c.config = nil
	c.view = ViewInput
	c.tab = TabSummary
	c.resetStatuses()
}

func (c *Controller) View() View { return c.view }

func (c *Controller) ActiveTab() Tab { return c.tab }

// Status returns the current status of agent.
func (c *Controller) Status(agent Agent) Status {
	if st, ok := c.statuses[agent]; ok {
		return st
	}
	return StatusPending
}

// Config returns the frozen run configuration, if a run has started.
func (c *Controller) Config() (RunConfig, bool) {
	if c.config == nil {
		return RunConfig{}, false
	}
	return *c.config, true
}

// RunID identifies the run whose timers are still live.
func (c *Controller) RunID() string {
	if c.run == nil {
		return ""
	}
	return c.run.id
}

// Progress is the fraction of agents that are done.
func (c *Controller) Progress() float64 {
	done := 0
	for _, agent := range Agents {
		if c.statuses[agent] == StatusDone {
			done++
		}
	}
	return float64(done) / float64(len(Agents))
}

// Snapshot copies the current state for rendering.
func (c *Controller) Snapshot() Snapshot {
	snap := Snapshot{View: c.view, Tab: c.tab}
	for _, agent := range Agents {
		snap.Agents = append(snap.Agents, AgentState{Agent: agent, Status: c.statuses[agent]})
	}
	if c.config != nil {
		cfg := *c.config
		snap.Config = &cfg
	}
	if c.run != nil {
		snap.RunID = c.run.id
		snap.StartedAt = c.run.started
	}
	return snap
}

func (c *Controller) resetStatuses() {
	for _, agent := range Agents {
		c.statuses[agent] = StatusPending
	}
}

func (c *Controller) cancelRun(reason string) {
	if c.run == nil {
		return
	}
	c.log.Info("run cancelled", zap.String("run", c.run.id), zap.String("reason", reason))
	c.run.cancel()
	c.run = nil
}
