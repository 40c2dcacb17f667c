package workflow

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type armedTimer struct {
	after time.Duration
	fire  func(time.Time) tea.Msg
}

type fakeTicker struct {
	armed []armedTimer
}

func (f *fakeTicker) Tick(d time.Duration, fn func(time.Time) tea.Msg) tea.Cmd {
	f.armed = append(f.armed, armedTimer{after: d, fire: fn})
	return nil
}

// advance fires, in offset order, every armed timer due by elapsed.
func (f *fakeTicker) advance(t *testing.T, c *Controller, elapsed time.Duration) {
	t.Helper()
	remaining := f.armed[:0]
	for _, timer := range f.armed {
		if timer.after > elapsed {
			remaining = append(remaining, timer)
			continue
		}
		if msg, ok := timer.fire(time.Now()).(StepMsg); ok {
			c.Apply(msg)
		}
	}
	f.armed = remaining
}

func newTestController(t *testing.T) (*Controller, *fakeTicker) {
	t.Helper()
	ticker := &fakeTicker{}
	return NewController(WithTicker(ticker.Tick)), ticker
}

func TestScheduleOffsets(t *testing.T) {
	steps := Schedule()
	require.Len(t, steps, 13)

	want := []time.Duration{0, 400, 500, 900, 1000, 1400, 1500, 1900, 2000, 2400, 2500, 2900, 3500}
	for i, step := range steps {
		assert.Equal(t, want[i]*time.Millisecond, step.At, "step %d", i)
	}
	for i, agent := range Agents {
		running, done := steps[i*2], steps[i*2+1]
		assert.Equal(t, Step{At: time.Duration(i) * 500 * time.Millisecond, Agent: agent, Status: StatusRunning}, running)
		assert.Equal(t, Step{At: time.Duration(i)*500*time.Millisecond + 400*time.Millisecond, Agent: agent, Status: StatusDone}, done)
	}
	assert.Equal(t, Step{At: 3500 * time.Millisecond, View: ViewResults}, steps[12])
}

func TestStartRunResetsSynchronouslyAndArmsEveryTimer(t *testing.T) {
	c, ticker := newTestController(t)
	cfg := RunConfig{Mode: ModePatent, Geography: GeographyIndia}

	c.StartRun(cfg)

	assert.Equal(t, ViewProcessing, c.View())
	for _, agent := range Agents {
		assert.Equal(t, StatusPending, c.Status(agent))
	}
	got, ok := c.Config()
	require.True(t, ok)
	assert.Equal(t, cfg, got)
	assert.NotEmpty(t, c.RunID())
	require.Len(t, ticker.armed, 13, "all timers are armed at call time")
}

func TestProgressAtTwoSeconds(t *testing.T) {
	c, ticker := newTestController(t)
	c.StartRun(DefaultRunConfig())

	ticker.advance(t, c, 2000*time.Millisecond)

	for _, agent := range Agents[:4] {
		assert.Equal(t, StatusDone, c.Status(agent), agent)
	}
	assert.Equal(t, StatusRunning, c.Status(AgentMarket))
	assert.Equal(t, StatusPending, c.Status(AgentInternal))
	assert.Equal(t, ViewProcessing, c.View())
	assert.InDelta(t, 4.0/6.0, c.Progress(), 1e-9)
}

func TestResultsAfterThreeAndHalfSeconds(t *testing.T) {
	c, ticker := newTestController(t)
	cfg := RunConfig{Mode: ModeMarket, Geography: GeographyIndia}
	c.StartRun(cfg)

	ticker.advance(t, c, 3499*time.Millisecond)
	assert.Equal(t, ViewProcessing, c.View())

	ticker.advance(t, c, 3500*time.Millisecond)
	assert.Equal(t, ViewResults, c.View())
	for _, agent := range Agents {
		assert.Equal(t, StatusDone, c.Status(agent), agent)
	}
	got, ok := c.Config()
	require.True(t, ok)
	assert.Equal(t, cfg, got, "config stays frozen through results")
	assert.Empty(t, c.RunID(), "finished runs release their timers")
	assert.Equal(t, 1.0, c.Progress())
}

func TestEachStepTouchesOnlyItsAgent(t *testing.T) {
	c, _ := newTestController(t)
	c.StartRun(DefaultRunConfig())
	runID := c.RunID()

	require.True(t, c.Apply(StepMsg{RunID: runID, Step: Step{Agent: AgentWeb, Status: StatusRunning}}))

	for _, agent := range Agents {
		want := StatusPending
		if agent == AgentWeb {
			want = StatusRunning
		}
		assert.Equal(t, want, c.Status(agent), agent)
	}
}

func TestStatusNeverSkipsOrRegresses(t *testing.T) {
	c, _ := newTestController(t)
	c.StartRun(DefaultRunConfig())
	runID := c.RunID()

	assert.False(t, c.Apply(StepMsg{RunID: runID, Step: Step{Agent: AgentClinical, Status: StatusDone}}), "pending cannot skip running")
	assert.Equal(t, StatusPending, c.Status(AgentClinical))

	require.True(t, c.Apply(StepMsg{RunID: runID, Step: Step{Agent: AgentClinical, Status: StatusRunning}}))
	require.True(t, c.Apply(StepMsg{RunID: runID, Step: Step{Agent: AgentClinical, Status: StatusDone}}))
	assert.False(t, c.Apply(StepMsg{RunID: runID, Step: Step{Agent: AgentClinical, Status: StatusRunning}}), "done cannot regress")
	assert.Equal(t, StatusDone, c.Status(AgentClinical))

	assert.False(t, c.Apply(StepMsg{RunID: runID, Step: Step{Agent: "billing", Status: StatusRunning}}))
}

func TestNewQueryCancelsOutstandingTimers(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	ticker := &fakeTicker{}
	c := NewController(WithTicker(ticker.Tick), WithLogger(zap.New(core)))
	c.StartRun(DefaultRunConfig())
	staleRun := c.RunID()
	ticker.advance(t, c, 900*time.Millisecond)
	require.Equal(t, StatusDone, c.Status(AgentOrchestration))

	c.NewQuery()

	assert.Equal(t, ViewInput, c.View())
	_, ok := c.Config()
	assert.False(t, ok)
	for _, agent := range Agents {
		assert.Equal(t, StatusPending, c.Status(agent))
	}

	for _, timer := range ticker.armed {
		assert.Nil(t, timer.fire(time.Now()), "cancelled timers deliver nothing")
	}
	assert.False(t, c.Apply(StepMsg{RunID: staleRun, Step: Step{Agent: AgentWeb, Status: StatusRunning}}))
	assert.False(t, c.Apply(StepMsg{RunID: staleRun, Step: Step{At: ResultsAfter, View: ViewResults}}))
	assert.Equal(t, ViewInput, c.View())
	assert.Equal(t, StatusPending, c.Status(AgentWeb))
	assert.Equal(t, 1, logs.FilterMessage("run cancelled").Len())
}

func TestNewQueryFromEveryView(t *testing.T) {
	for _, elapsed := range []time.Duration{0, 1200 * time.Millisecond, 4 * time.Second} {
		c, ticker := newTestController(t)
		c.StartRun(DefaultRunConfig())
		ticker.advance(t, c, elapsed)
		c.SetActiveTab(TabEvidence)

		c.NewQuery()

		assert.Equal(t, ViewInput, c.View())
		assert.Equal(t, TabSummary, c.ActiveTab())
		for _, agent := range Agents {
			assert.Equal(t, StatusPending, c.Status(agent))
		}
	}

	c, _ := newTestController(t)
	c.NewQuery()
	assert.Equal(t, ViewInput, c.View())
}

func TestRestartDropsPreviousRun(t *testing.T) {
	c, ticker := newTestController(t)
	c.StartRun(DefaultRunConfig())
	first := ticker.armed
	ticker.armed = nil

	c.StartRun(RunConfig{Mode: ModeClinical, Geography: GeographyIndia})
	for _, timer := range first {
		assert.Nil(t, timer.fire(time.Now()))
	}

	ticker.advance(t, c, ResultsAfter)
	assert.Equal(t, ViewResults, c.View())
	cfg, _ := c.Config()
	assert.Equal(t, ModeClinical, cfg.Mode)
}

func TestSetActiveTab(t *testing.T) {
	c, ticker := newTestController(t)
	c.StartRun(DefaultRunConfig())
	ticker.advance(t, c, ResultsAfter)
	before := c.Snapshot()

	c.SetActiveTab(TabFeasibility)
	assert.Equal(t, TabFeasibility, c.ActiveTab())
	c.SetActiveTab("appendix")
	assert.Equal(t, TabFeasibility, c.ActiveTab())

	after := c.Snapshot()
	assert.Equal(t, before.Agents, after.Agents)
	assert.Equal(t, before.Config, after.Config)
}

func TestSnapshotIsACopy(t *testing.T) {
	c, _ := newTestController(t)
	c.StartRun(DefaultRunConfig())
	snap := c.Snapshot()
	require.NotNil(t, snap.Config)
	snap.Config.Mode = ModeMarket
	snap.Agents[0].Status = StatusDone

	cfg, _ := c.Config()
	assert.Equal(t, ModeGeneral, cfg.Mode)
	assert.Equal(t, StatusPending, c.Status(AgentOrchestration))
	assert.Equal(t, c.RunID(), snap.RunID)
	assert.Equal(t, StatusPending, snap.Status(AgentClinical))
}

func TestTypesHelpers(t *testing.T) {
	assert.Equal(t, "IQVIA Insights Agent", AgentMarket.DisplayName())
	assert.Equal(t, 4, AgentMarket.Ordinal())
	assert.Equal(t, -1, Agent("x").Ordinal())
	assert.Equal(t, "Queued", StatusPending.Label())
	assert.Equal(t, "Running", StatusRunning.Label())
	assert.Equal(t, "Completed", StatusDone.Label())
	assert.Equal(t, "Recommendation", TabRecommendation.Title())

	mode, ok := ParseMode("Clinical")
	assert.True(t, ok)
	assert.Equal(t, ModeClinical, mode)
	_, ok = ParseMode("clinical")
	assert.False(t, ok)
	_, ok = ParseGeography("India")
	assert.True(t, ok)
	_, ok = ParseGeography("Kenya")
	assert.False(t, ok)
}
